package wave

import (
	"bytes"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/radiant-labs/rxindexer/internal/script"
	"github.com/radiant-labs/rxindexer/internal/storage"
	"github.com/radiant-labs/rxindexer/pkg/types"
)

func buildClaimReveal(t *testing.T, meta map[string]interface{}) *script.Envelope {
	t.Helper()
	blob, err := cbor.Marshal(meta)
	if err != nil {
		t.Fatalf("cbor marshal: %v", err)
	}
	raw := append([]byte{}, script.GlyphMagic...)
	raw = append(raw, 1, 0x80)
	raw = append(raw, blob...)
	env, err := script.ParseEnvelope(raw)
	if err != nil {
		t.Fatalf("ParseEnvelope: %v", err)
	}
	return env
}

func fakeHash(b byte) types.Hash {
	var h types.Hash
	for i := range h {
		h[i] = b
	}
	return h
}

func claimOutputs() []types.TxOutput {
	outs := make([]types.TxOutput, OutputCount)
	for i := range outs {
		outs[i] = types.TxOutput{Value: 1}
	}
	return outs
}

func waveProtocols() []interface{} {
	return []interface{}{uint64(2), uint64(5), uint64(11)} // NFT, MUT, WAVE
}

func TestProcessTxRegistersTopLevelName(t *testing.T) {
	s := NewStore(storage.NewMemory(), bytes.Repeat([]byte{0x00}, 36))
	env := buildClaimReveal(t, map[string]interface{}{
		"p":    waveProtocols(),
		"name": "example",
	})
	tx := &types.Tx{Hash: fakeHash(0xaa), Outputs: claimOutputs()}

	s.ProcessTx(tx, 100, 0, env, bytes.Repeat([]byte{0x11}, 32))

	claimRef := types.NewRef(tx.Hash, 0).Bytes()
	ref := s.resolveNameToRef("example")
	if !bytes.Equal(ref, claimRef) {
		t.Fatalf("want name resolved to claim ref, got %x want %x", ref, claimRef)
	}
}

func TestProcessTxIgnoresNonWaveEnvelope(t *testing.T) {
	s := NewStore(storage.NewMemory(), bytes.Repeat([]byte{0x00}, 36))
	env := buildClaimReveal(t, map[string]interface{}{
		"p":    []interface{}{uint64(1)}, // FT only
		"name": "example",
	})
	tx := &types.Tx{Hash: fakeHash(0xbb), Outputs: claimOutputs()}

	s.ProcessTx(tx, 100, 0, env, nil)

	if s.resolveNameToRef("example") != nil {
		t.Fatalf("want non-WAVE envelope ignored")
	}
}

func TestProcessTxRejectsInsufficientOutputs(t *testing.T) {
	s := NewStore(storage.NewMemory(), bytes.Repeat([]byte{0x00}, 36))
	env := buildClaimReveal(t, map[string]interface{}{
		"p":    waveProtocols(),
		"name": "short",
	})
	tx := &types.Tx{Hash: fakeHash(0xcc), Outputs: []types.TxOutput{{Value: 1}}}

	s.ProcessTx(tx, 100, 0, env, nil)

	if s.resolveNameToRef("short") != nil {
		t.Fatalf("want registration rejected for insufficient outputs")
	}
}

func TestProcessTxRejectsInvalidName(t *testing.T) {
	s := NewStore(storage.NewMemory(), bytes.Repeat([]byte{0x00}, 36))
	env := buildClaimReveal(t, map[string]interface{}{
		"p":    waveProtocols(),
		"name": "-bad",
	})
	tx := &types.Tx{Hash: fakeHash(0xdd), Outputs: claimOutputs()}

	s.ProcessTx(tx, 100, 0, env, nil)

	if s.resolveNameToRef("-bad") != nil {
		t.Fatalf("want invalid name rejected")
	}
}

func TestProcessTxResolvesParent(t *testing.T) {
	db := storage.NewMemory()
	genesis := bytes.Repeat([]byte{0x00}, 36)
	s := NewStore(db, genesis)

	parentEnv := buildClaimReveal(t, map[string]interface{}{
		"p":    waveProtocols(),
		"name": "parent",
	})
	parentTx := &types.Tx{Hash: fakeHash(0x01), Outputs: claimOutputs()}
	s.ProcessTx(parentTx, 10, 0, parentEnv, nil)
	parentRef := types.NewRef(parentTx.Hash, 0).Bytes()

	childEnv := buildClaimReveal(t, map[string]interface{}{
		"p":      waveProtocols(),
		"name":   "child",
		"parent": "parent",
	})
	childTx := &types.Tx{Hash: fakeHash(0x02), Outputs: claimOutputs()}
	s.ProcessTx(childTx, 11, 0, childEnv, nil)
	childRef := types.NewRef(childTx.Hash, 0).Bytes()

	subs, err := s.GetSubdomains(parentRef, 0)
	if err != nil {
		t.Fatalf("GetSubdomains: %v", err)
	}
	found := false
	for _, ref := range subs {
		if bytes.Equal(ref, childRef) {
			found = true
		}
	}
	if !found {
		t.Fatalf("want child listed under parent's subdomains")
	}
}

func TestProcessTxRejectsUnknownParent(t *testing.T) {
	s := NewStore(storage.NewMemory(), bytes.Repeat([]byte{0x00}, 36))
	env := buildClaimReveal(t, map[string]interface{}{
		"p":      waveProtocols(),
		"name":   "orphan",
		"parent": "missing",
	})
	tx := &types.Tx{Hash: fakeHash(0xee), Outputs: claimOutputs()}

	s.ProcessTx(tx, 100, 0, env, nil)

	if s.resolveNameToRef("orphan") != nil {
		t.Fatalf("want registration rejected for unresolvable parent")
	}
}

func TestProcessTxStoresZoneRecords(t *testing.T) {
	s := NewStore(storage.NewMemory(), bytes.Repeat([]byte{0x00}, 36))
	env := buildClaimReveal(t, map[string]interface{}{
		"p":    waveProtocols(),
		"name": "zoned",
		"app": map[string]interface{}{
			"data": map[string]interface{}{
				"zone": map[string]interface{}{
					"address": "bWxyz",
					"A":       "203.0.113.5",
				},
			},
		},
	})
	tx := &types.Tx{Hash: fakeHash(0xff), Outputs: claimOutputs()}
	s.ProcessTx(tx, 100, 0, env, nil)

	claimRef := types.NewRef(tx.Hash, 0).Bytes()
	zoneBytes, ok := s.zoneCache[string(claimRef)]
	if !ok {
		t.Fatalf("want zone cached for claim ref")
	}
	zone, err := ZoneRecordsFromBytes(zoneBytes)
	if err != nil {
		t.Fatalf("ZoneRecordsFromBytes: %v", err)
	}
	if zone.Address != "bWxyz" || zone.A != "203.0.113.5" {
		t.Fatalf("unexpected zone: %+v", zone)
	}
}
