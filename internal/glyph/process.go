package glyph

import (
	"crypto/sha256"

	"github.com/fxamacker/cbor/v2"
	"github.com/radiant-labs/rxindexer/internal/log"
	"github.com/radiant-labs/rxindexer/internal/script"
	"github.com/radiant-labs/rxindexer/pkg/types"
)

// History event kinds, matching glyph_index.py's GlyphEventType.
const (
	EventDeploy byte = iota
	EventMint
	EventTransfer
	EventBurn
	EventUpdate
)

// ProcessTx runs the two-phase Glyph detection of core spec §4.2 over one
// confirmed transaction: Phase 1 scans output scripts for ref opcodes
// (primary, catches all token activity); Phase 2 scans input scripts for a
// 'gly' reveal envelope (rare, carries full metadata). Returns the first
// reveal envelope found, if any, for WAVE/Swap chaining per the §2 pipeline.
func (s *Store) ProcessTx(tx *types.Tx, height uint32, txIdx uint16) *script.Envelope {
	var result *script.Envelope

	// Phase 1: output ref-opcode scan.
	for _, out := range tx.Outputs {
		if len(out.Script) < refSize+1 {
			continue
		}
		for _, found := range script.ExtractRefs(out.Script) {
			s.registerRefIfNew(found.Ref, found.Kind, tx.Hash.Bytes(), height, txIdx)
		}
	}

	// Phase 2: input reveal-envelope scan.
	for _, in := range tx.Inputs {
		if len(in.Script) == 0 || !script.ContainsGlyphMagic(in.Script) {
			continue
		}
		env, err := script.ParseEnvelope(in.Script)
		if err != nil || !env.IsReveal() {
			continue
		}
		if err := script.ValidateProtocols(env.Protocols()); err != nil {
			log.Glyph.Warn().Err(err).Msg("rejecting reveal with invalid protocol combination")
			continue
		}

		if result == nil {
			result = env
		}

		fallbackRef := types.NewRef(in.PrevTxID, in.PrevVout)
		outputRef := findOutputRef(tx, env.Protocols())
		ref := fallbackRef.Bytes()
		if outputRef != nil {
			ref = outputRef
		}

		s.indexReveal(ref, tx.Hash.Bytes(), height, txIdx, env, tx)
	}

	return result
}

// registerRefIfNew creates a bare FT/NFT token record the first time a ref
// is observed via the output scan, with a DEPLOY history event.
func (s *Store) registerRefIfNew(ref []byte, kind script.RefKind, txHash []byte, height uint32, txIdx uint16) {
	if s.isKnownToken(ref) {
		return
	}
	rec := &TokenRecord{Ref: ref, DeployHeight: height, DeployTxID: txHash}
	if kind == script.RefNFT {
		rec.TokenType = script.TokenTypeNFT
		rec.Protocols = []script.Protocol{script.ProtocolNFT}
	} else {
		rec.TokenType = script.TokenTypeFT
		rec.Protocols = []script.Protocol{script.ProtocolFT}
	}
	k := string(ref)
	s.tokenCache[k] = rec
	s.tokenHeight[k] = height
	s.knownRefs[k] = struct{}{}

	s.historyCache = append(s.historyCache, historyEntry{
		height: height,
		key:    historyKey(ref, height, txIdx),
		value:  append([]byte{EventDeploy}, txHash...),
	})
}

// findOutputRef locates the token ref embedded in the reveal tx's own
// outputs, preferring the NFT singleton opcode (0xd8) when the envelope
// declares NFT, else the FT opcode (0xd0), mirroring glyph_index.py's
// _find_output_ref but built on the correct opcode walker instead of its
// buggy substring search (core spec §4.1, Open Question #2).
func findOutputRef(tx *types.Tx, protocols []script.Protocol) []byte {
	wantNFT := has(protocols, script.ProtocolNFT)
	wantFT := has(protocols, script.ProtocolFT)

	if wantNFT {
		for _, out := range tx.Outputs {
			for _, r := range script.ExtractRefs(out.Script) {
				if r.Kind == script.RefNFT {
					return r.Ref
				}
			}
		}
	}
	if wantFT {
		for _, out := range tx.Outputs {
			for _, r := range script.ExtractRefs(out.Script) {
				if r.Kind == script.RefFT {
					return r.Ref
				}
			}
		}
	}
	return nil
}

func has(protocols []script.Protocol, p script.Protocol) bool {
	for _, q := range protocols {
		if q == p {
			return true
		}
	}
	return false
}

// indexReveal records the full metadata-bearing record for a reveal
// envelope, replacing any bare record registered by the output scan.
func (s *Store) indexReveal(ref, txHash []byte, height uint32, txIdx uint16, env *script.Envelope, tx *types.Tx) {
	protocols := env.Protocols()
	rec := &TokenRecord{
		Ref:          ref,
		Protocols:    protocols,
		TokenType:    script.DeriveTokenType(protocols),
		GlyphVersion: env.Version,
		DeployHeight: height,
		DeployTxID:   txHash,
	}
	if name, ok := env.StringField("name", "n"); ok {
		rec.Name = name
	}
	if ticker, ok := env.StringField("ticker", "tk"); ok {
		rec.Ticker = ticker
	}
	if desc, ok := env.StringField("description", "ds"); ok {
		rec.Description = desc
	}
	if rec.HasProtocol(script.ProtocolDMINT) {
		applyDmintBlock(rec, env.Metadata)
	}

	if env.Metadata != nil {
		metaBytes, err := cbor.Marshal(env.Metadata)
		if err == nil {
			h := sha256.Sum256(metaBytes)
			rec.MetadataHash = h[:]
			k := string(h[:])
			s.metadataCache[k] = metaBytes
			s.metadataHeight[k] = height
		}
	}

	if rec.HasProtocol(script.ProtocolFT) {
		if rec.HasProtocol(script.ProtocolDMINT) {
			rec.CurrentSupply = 0
		} else {
			for _, out := range tx.Outputs {
				if containsOpcode(out.Script, 0xd0) {
					rec.TotalSupply = out.Value
					rec.CurrentSupply = out.Value
					break
				}
			}
		}
	}

	k := string(ref)
	s.tokenCache[k] = rec
	s.tokenHeight[k] = height
	s.knownRefs[k] = struct{}{}

	s.historyCache = append(s.historyCache, historyEntry{
		height: height,
		key:    historyKey(ref, height, txIdx),
		value:  append([]byte{EventDeploy}, txHash...),
	})

	log.Glyph.Info().
		Str("name", rec.Name).
		Uint8("token_type", uint8(rec.TokenType)).
		Uint32("height", height).
		Msg("indexed glyph token reveal")
}

// applyDmintBlock extracts the nested "dmint" metadata map (core spec §4.1's
// metadata-extraction rule) into rec's dMint fields. Best-effort: absent or
// mistyped fields are left at their zero value.
func applyDmintBlock(rec *TokenRecord, meta map[string]interface{}) {
	if meta == nil {
		return
	}
	raw, ok := meta["dmint"]
	if !ok {
		return
	}
	block, ok := raw.(map[string]interface{})
	if !ok {
		return
	}

	rec.Algorithm = uint8(cborUint(block["algorithm"]))
	rec.TotalSupply = cborUint(block["max_supply"])
	rec.StartDifficulty = cborUint(block["start_difficulty"])
	rec.CurrentDifficulty = cborUint(block["current_difficulty"])
	rec.Reward = cborUint(block["reward"])
	rec.HalvingInterval = uint32(cborUint(block["halving_interval"]))
	rec.DaaMode = uint8(cborUint(block["daa_mode"]))
	rec.MintCount = uint32(cborUint(block["mint_count"]))
}

// cborUint coerces a CBOR-decoded number (uint64/int64/float64, depending on
// how the blob was encoded) to uint64, tolerating absence.
func cborUint(v interface{}) uint64 {
	switch n := v.(type) {
	case uint64:
		return n
	case int64:
		if n < 0 {
			return 0
		}
		return uint64(n)
	case float64:
		if n < 0 {
			return 0
		}
		return uint64(n)
	default:
		return 0
	}
}

func containsOpcode(s []byte, op byte) bool {
	for _, b := range s {
		if b == op {
			return true
		}
	}
	return false
}

// UpdateBalance applies a balance delta for (scripthash, ref), saturating at
// zero, and records undo entries for both the primary and reverse-holder
// keys (core spec §4.2's balance update contract).
func (s *Store) UpdateBalance(height uint32, scripthash, ref []byte, delta int64) {
	key := balanceKey(scripthash, ref)
	hKey := holderKey(ref, scripthash)
	s.undo.Record(s.db, height, key)
	s.undo.Record(s.db, height, hKey)

	k := string(key)
	current := s.GetBalance(scripthash, ref)
	newBalance := int64(current) + delta
	if newBalance < 0 {
		newBalance = 0
	}
	if newBalance > 0 {
		s.balanceCache[k] = uint64(newBalance)
		s.balanceHeight[k] = height
	} else {
		delete(s.balanceCache, k)
		delete(s.balanceHeight, k)
	}
}
