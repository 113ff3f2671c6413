package indexer

import (
	"bytes"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/radiant-labs/rxindexer/config"
	"github.com/radiant-labs/rxindexer/internal/script"
	"github.com/radiant-labs/rxindexer/internal/storage"
	"github.com/radiant-labs/rxindexer/pkg/types"
)

func fakeHash(b byte) types.Hash {
	var h types.Hash
	for i := range h {
		h[i] = b
	}
	return h
}

func fakeRef(b byte) []byte {
	return bytes.Repeat([]byte{b}, types.RefSize)
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.DataDir = "/tmp/rxindexer-test"
	return cfg
}

func TestNewDegradesWaveWhenGenesisMissing(t *testing.T) {
	idx, err := New(testConfig(), storage.NewMemory())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if idx.Wave == nil {
		t.Fatalf("want wave store constructed even without genesis ref")
	}
	if idx.Wave.CheckAvailable("anything") != true {
		t.Fatalf("want names available when wave has no claims yet")
	}
}

func TestProcessTxDispatchesGlyphOutputScan(t *testing.T) {
	idx, err := New(testConfig(), storage.NewMemory())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ref := fakeRef(0x21)
	outScript := append([]byte{script.OpPushInputRef}, ref...)
	tx := &types.Tx{Hash: fakeHash(0x01), Outputs: []types.TxOutput{{Script: outScript, Value: 10}}}

	idx.ProcessTx(tx, 100, 0, nil)

	if _, ok := idx.Glyph.GetToken(ref); !ok {
		t.Fatalf("want glyph token registered from output scan")
	}
}

func TestProcessMempoolTxMirrorsUnconfirmedTransfer(t *testing.T) {
	idx, err := New(testConfig(), storage.NewMemory())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ref := fakeRef(0x22)
	scripthash := bytes.Repeat([]byte{0x77}, 32)
	outScript := append([]byte{script.OpPushInputRef}, ref...)
	tx := &types.Tx{Hash: fakeHash(0x02), Outputs: []types.TxOutput{{Script: outScript, Value: 1}}}

	foundGlyph, _ := idx.ProcessMempoolTx(tx, [][]byte{scripthash})
	if !foundGlyph {
		t.Fatalf("want mempool shadow to flag a glyph ref transfer")
	}
	if len(idx.Mempool.GetUnconfirmedGlyphTxs(scripthash)) == 0 {
		t.Fatalf("want unconfirmed tx visible for scripthash")
	}
}

func TestFlushPersistsAcrossAllThreeIndexesAndBackupReverts(t *testing.T) {
	db := storage.NewMemory()
	idx, err := New(testConfig(), db)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ref := fakeRef(0x23)
	outScript := append([]byte{script.OpPushInputRef}, ref...)
	tx := &types.Tx{Hash: fakeHash(0x03), Outputs: []types.TxOutput{{Script: outScript, Value: 10}}}

	idx.ProcessTx(tx, 200, 0, nil)

	batch := db.NewBatch()
	if err := idx.Flush(batch, 200); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	idx2, err := New(testConfig(), db)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := idx2.Glyph.GetToken(ref); !ok {
		t.Fatalf("want token visible to a fresh indexer reading the same db")
	}

	backupBatch := db.NewBatch()
	if err := idx2.Backup(backupBatch, 200); err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if err := backupBatch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if _, ok := idx2.Glyph.GetToken(ref); ok {
		t.Fatalf("want token reverted after backup of height 200")
	}
}

func TestSyncDerivedViewsAddsDmintContractFromGlyphIndex(t *testing.T) {
	db := storage.NewMemory()
	cfg := testConfig()
	cfg.DataDir = t.TempDir()
	idx, err := New(cfg, db)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ref := fakeRef(0x24)
	// Index an FT+DMINT reveal whose output carries the token ref and flush
	// it, mirroring dmint/sync_test.go's fixture style.
	meta, err := cbor.Marshal(map[string]interface{}{
		"p":     []interface{}{uint64(1), uint64(4)},
		"tk":    "IDX",
		"dmint": map[string]interface{}{"current_difficulty": uint64(10), "reward": uint64(5)},
	})
	if err != nil {
		t.Fatalf("cbor marshal: %v", err)
	}
	reveal := append(append([]byte{}, script.GlyphMagic...), 2, 0x80)
	reveal = append(reveal, meta...)
	idx.Glyph.ProcessTx(&types.Tx{
		Hash:    fakeHash(0x04),
		Inputs:  []types.TxInput{{Script: reveal, PrevTxID: fakeHash(0x05), PrevVout: 0}},
		Outputs: []types.TxOutput{{Script: append([]byte{script.OpPushInputRef}, ref...), Value: 1}},
	}, 300, 0)

	batch := db.NewBatch()
	if err := idx.Flush(batch, 300); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if n := idx.SyncDerivedViews(300); n != 1 {
		t.Fatalf("want 1 dmint contract added, got %d", n)
	}
}
