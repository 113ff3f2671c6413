package glyph

import (
	"crypto/sha256"
	"encoding/binary"
	"strings"

	"github.com/radiant-labs/rxindexer/internal/script"
	"github.com/radiant-labs/rxindexer/internal/storage"
)

// Flush drains every cache into batch as one atomic write, recording undo
// entries for each touched key before persisting the height-keyed undo
// records last (core spec §4.2's Flush semantics / §4.6 step 2).
func (s *Store) Flush(batch storage.Batch, height uint32, reorgWindow uint32) error {
	if err := s.undo.PruneOldKeys(batch, height, reorgWindow); err != nil {
		return err
	}

	for ref, tok := range s.tokenCache {
		h, ok := s.tokenHeight[ref]
		if !ok {
			continue
		}
		key := tokenKey([]byte(ref))
		if err := s.undo.Record(s.db, h, key); err != nil {
			return err
		}
		data, err := tok.ToBytes()
		if err != nil {
			return err
		}
		if err := batch.Put(key, data); err != nil {
			return err
		}

		typeKey := byTypeKey(byte(tok.TokenType), []byte(ref))
		if err := s.undo.Record(s.db, h, typeKey); err != nil {
			return err
		}
		if err := batch.Put(typeKey, []byte{}); err != nil {
			return err
		}

		if tok.Name != "" {
			nameHash := sha256.Sum256([]byte(strings.ToLower(tok.Name)))
			nameKey := byNameKey(nameHash[:16], []byte(ref))
			if err := s.undo.Record(s.db, h, nameKey); err != nil {
				return err
			}
			if err := batch.Put(nameKey, []byte{}); err != nil {
				return err
			}
		}

		if tok.Ticker != "" && tok.HasProtocol(script.ProtocolFT) {
			tickerKey := byTickerKey(strings.ToUpper(tok.Ticker))
			if err := s.undo.Record(s.db, h, tickerKey); err != nil {
				return err
			}
			if err := batch.Put(tickerKey, []byte(ref)); err != nil {
				return err
			}
		}
	}

	for key, amount := range s.balanceCache {
		packed := make([]byte, 8)
		binary.LittleEndian.PutUint64(packed, amount)
		if err := batch.Put([]byte(key), packed); err != nil {
			return err
		}
		scripthash := []byte(key)[len(prefixBalance) : len(prefixBalance)+32]
		ref := []byte(key)[len(prefixBalance)+32:]
		if err := batch.Put(holderKey(ref, scripthash), packed); err != nil {
			return err
		}
	}

	for _, he := range s.historyCache {
		if err := s.undo.Record(s.db, he.height, he.key); err != nil {
			return err
		}
		if err := batch.Put(he.key, he.value); err != nil {
			return err
		}
	}

	for hash, blob := range s.metadataCache {
		key := metadataKey([]byte(hash))
		if h, ok := s.metadataHeight[hash]; ok {
			if err := s.undo.Record(s.db, h, key); err != nil {
				return err
			}
		}
		if err := batch.Put(key, blob); err != nil {
			return err
		}
	}

	if err := s.undo.Persist(batch); err != nil {
		return err
	}

	s.tokenCache = make(map[string]*TokenRecord)
	s.tokenHeight = make(map[string]uint32)
	s.balanceCache = make(map[string]uint64)
	s.balanceHeight = make(map[string]uint32)
	s.historyCache = nil
	s.metadataCache = make(map[string][]byte)
	s.metadataHeight = make(map[string]uint32)
	return nil
}

// Backup reverts every key written at height (reorg unwind) and clears the
// known-refs cache so subsequent lookups re-check storage (core spec §4.2's
// Backup semantics).
func (s *Store) Backup(batch storage.Batch, height uint32) error {
	s.knownRefs = make(map[string]struct{})
	return s.undo.Backup(s.db, batch, height)
}
