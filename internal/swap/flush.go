package swap

import "github.com/radiant-labs/rxindexer/internal/storage"

// Flush drains the order and history caches into batch as one atomic write,
// recording undo entries before persisting the height-keyed undo record
// last, identical in discipline to the Glyph index's Flush (core spec
// §4.3's Flush and backup rule).
func (s *Store) Flush(batch storage.Batch, height uint32, reorgWindow uint32) error {
	if err := s.undo.PruneOldKeys(batch, height, reorgWindow); err != nil {
		return err
	}

	for id, order := range s.orderCache {
		h, ok := s.orderHeight[id]
		if !ok {
			continue
		}
		key := orderKey([]byte(id))
		if err := s.undo.Record(s.db, h, key); err != nil {
			return err
		}
		data, err := order.ToBytes()
		if err != nil {
			return err
		}
		if err := batch.Put(key, data); err != nil {
			return err
		}

		if len(order.BaseRef) > 0 && len(order.QuoteRef) > 0 && order.IsOpen() {
			pk := pairKey(order.BaseRef, order.QuoteRef, order.Side, order.Price, []byte(id))
			if err := s.undo.Record(s.db, h, pk); err != nil {
				return err
			}
			if err := batch.Put(pk, []byte{}); err != nil {
				return err
			}
		}

		if len(order.MakerScripthash) > 0 {
			mk := makerKey(order.MakerScripthash, []byte(id))
			if err := s.undo.Record(s.db, h, mk); err != nil {
				return err
			}
			if err := batch.Put(mk, []byte{}); err != nil {
				return err
			}
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

	if err := s.undo.Persist(batch); err != nil {
		return err
	}

	s.orderCache = make(map[string]*Order)
	s.orderHeight = make(map[string]uint32)
	s.historyCache = nil
	return nil
}

// Backup reverts every key written at height (reorg unwind).
func (s *Store) Backup(batch storage.Batch, height uint32) error {
	return s.undo.Backup(s.db, batch, height)
}
