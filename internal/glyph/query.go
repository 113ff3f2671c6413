package glyph

import (
	"encoding/binary"
	"strings"

	"github.com/radiant-labs/rxindexer/internal/script"
)

// TokenSummary is the trimmed view returned by list/search queries, mirroring
// glyph_index.py's get_all_tokens_summary projection.
type TokenSummary struct {
	Ref           []byte
	Name          string
	Ticker        string
	TokenType     script.TokenTypeTag
	TotalSupply   uint64
	CurrentSupply uint64
	DeployHeight  uint32
}

// HistoryEvent is one decoded GH-prefixed row.
type HistoryEvent struct {
	Height uint32
	TxIdx  uint16
	Kind   byte
	TxHash []byte
}

// GetToken returns the full record for ref, checking the write-back cache
// before falling through to storage.
func (s *Store) GetToken(ref []byte) (*TokenRecord, bool) {
	k := string(ref)
	if rec, ok := s.tokenCache[k]; ok {
		return rec, true
	}
	data, err := s.db.Get(tokenKey(ref))
	if err != nil || data == nil {
		return nil, false
	}
	rec, err := RecordFromBytes(data)
	if err != nil {
		return nil, false
	}
	return rec, true
}

// GetBalance returns the live balance of ref for scripthash.
func (s *Store) GetBalance(scripthash, ref []byte) uint64 {
	key := balanceKey(scripthash, ref)
	k := string(key)
	if amount, ok := s.balanceCache[k]; ok {
		return amount
	}
	data, err := s.db.Get(key)
	if err != nil || data == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(data)
}

// GetBalancesForScripthash lists every (ref, amount) held by scripthash,
// scanning the GB prefix for that holder.
func (s *Store) GetBalancesForScripthash(scripthash []byte) (map[string]uint64, error) {
	out := make(map[string]uint64)
	prefix := concat(prefixBalance, scripthash)
	err := s.db.ForEach(prefix, func(key, value []byte) error {
		ref := key[len(prefix):]
		if len(value) < 8 {
			return nil
		}
		out[string(ref)] = binary.LittleEndian.Uint64(value)
		return nil
	})
	if err != nil {
		return nil, err
	}
	for k, amount := range s.balanceCache {
		if len(k) < len(prefixBalance)+32 {
			continue
		}
		if k[:len(prefixBalance)] != string(prefixBalance) {
			continue
		}
		sh := k[len(prefixBalance) : len(prefixBalance)+32]
		if sh != string(scripthash) {
			continue
		}
		ref := k[len(prefixBalance)+32:]
		out[ref] = amount
	}
	return out, nil
}

// GetTokenHistory returns deploy/mint/transfer/burn events for ref in
// ascending (height, txIdx) order, the GH prefix's natural key order.
func (s *Store) GetTokenHistory(ref []byte, limit int) ([]HistoryEvent, error) {
	prefix := concat(prefixHistory, ref)
	var events []HistoryEvent
	err := s.db.ForEach(prefix, func(key, value []byte) error {
		if limit > 0 && len(events) >= limit {
			return nil
		}
		suffix := key[len(prefix):]
		if len(suffix) != 6 || len(value) < 1 {
			return nil
		}
		ev := HistoryEvent{
			Height: binary.BigEndian.Uint32(suffix[:4]),
			TxIdx:  binary.BigEndian.Uint16(suffix[4:]),
			Kind:   value[0],
			TxHash: value[1:],
		}
		events = append(events, ev)
		return nil
	})
	return events, err
}

// GetTokensByType lists every token ref registered under tokenType.
func (s *Store) GetTokensByType(tokenType script.TokenTypeTag, limit int) ([][]byte, error) {
	prefix := concat(prefixByType, []byte{byte(tokenType)})
	var refs [][]byte
	err := s.db.ForEach(prefix, func(key, _ []byte) error {
		if limit > 0 && len(refs) >= limit {
			return nil
		}
		ref := make([]byte, len(key)-len(prefix))
		copy(ref, key[len(prefix):])
		refs = append(refs, ref)
		return nil
	})
	return refs, err
}

// GetMetadata resolves a content-addressed metadata blob by its SHA-256 hash.
func (s *Store) GetMetadata(hash []byte) ([]byte, bool) {
	k := string(hash)
	if blob, ok := s.metadataCache[k]; ok {
		return blob, true
	}
	data, err := s.db.Get(metadataKey(hash))
	if err != nil || data == nil {
		return nil, false
	}
	return data, true
}

// SearchTokens returns stored tokens whose name or ticker contains query,
// compared case-insensitively. It is a full scan of the GT token records;
// the GN name-hash index is not consulted, and unflushed cached tokens are
// not searched.
func (s *Store) SearchTokens(query string, limit int) ([]*TokenRecord, error) {
	query = strings.ToLower(query)
	var matches []*TokenRecord
	err := s.db.ForEach(prefixToken, func(key, value []byte) error {
		if limit > 0 && len(matches) >= limit {
			return nil
		}
		rec, err := RecordFromBytes(value)
		if err != nil {
			return nil
		}
		if strings.Contains(strings.ToLower(rec.Name), query) || strings.Contains(strings.ToLower(rec.Ticker), query) {
			matches = append(matches, rec)
		}
		return nil
	})
	return matches, err
}

// Stats holds indexer-wide token counters, mirroring glyph_index.py's
// get_stats summary.
type Stats struct {
	TotalTokens int
	FTCount     int
	NFTCount    int
}

// GetAllTokensSummary lists every indexed token's trimmed summary, a
// convenience query carried over from glyph_index.py (SPEC_FULL.md §4.2).
func (s *Store) GetAllTokensSummary(limit int) ([]TokenSummary, error) {
	var out []TokenSummary
	err := s.db.ForEach(prefixToken, func(_, value []byte) error {
		if limit > 0 && len(out) >= limit {
			return nil
		}
		rec, err := RecordFromBytes(value)
		if err != nil {
			return nil
		}
		out = append(out, TokenSummary{
			Ref:           rec.Ref,
			Name:          rec.Name,
			Ticker:        rec.Ticker,
			TokenType:     rec.TokenType,
			TotalSupply:   rec.TotalSupply,
			CurrentSupply: rec.CurrentSupply,
			DeployHeight:  rec.DeployHeight,
		})
		return nil
	})
	return out, err
}

// GetStats tallies total/FT/NFT token counts across the full token set.
func (s *Store) GetStats() (Stats, error) {
	var st Stats
	err := s.db.ForEach(prefixToken, func(_, value []byte) error {
		rec, err := RecordFromBytes(value)
		if err != nil {
			return nil
		}
		st.TotalTokens++
		switch rec.TokenType {
		case script.TokenTypeFT:
			st.FTCount++
		case script.TokenTypeNFT:
			st.NFTCount++
		}
		return nil
	})
	return st, err
}
