package wave

import "github.com/radiant-labs/rxindexer/internal/storage"

// Flush drains every cache into batch as one atomic write, recording undo
// entries for each touched key before persisting the height-keyed undo
// record last (core spec §4.4's Flush/backup rule).
func (s *Store) Flush(batch storage.Batch, height uint32, reorgWindow uint32) error {
	if err := s.undo.PruneOldKeys(batch, height, reorgWindow); err != nil {
		return err
	}

	for key, childRef := range s.treeCache {
		if err := s.undo.Record(s.db, height, []byte(key)); err != nil {
			return err
		}
		if err := batch.Put([]byte(key), childRef); err != nil {
			return err
		}
	}

	for hash, ref := range s.nameCache {
		key := nameKey([]byte(hash))
		if err := s.undo.Record(s.db, height, key); err != nil {
			return err
		}
		if err := batch.Put(key, ref); err != nil {
			return err
		}
	}

	for ref, zoneBytes := range s.zoneCache {
		key := zoneKey([]byte(ref))
		if err := s.undo.Record(s.db, height, key); err != nil {
			return err
		}
		if err := batch.Put(key, zoneBytes); err != nil {
			return err
		}
	}

	for ref, owner := range s.ownerCache {
		key := ownerKey([]byte(ref))
		if err := s.undo.Record(s.db, height, key); err != nil {
			return err
		}
		if err := batch.Put(key, owner); err != nil {
			return err
		}
	}

	for ref, h := range s.heightCache {
		key := heightKey([]byte(ref))
		if err := s.undo.Record(s.db, height, key); err != nil {
			return err
		}
		if err := batch.Put(key, beUint32(h)); err != nil {
			return err
		}
	}

	if err := s.undo.Persist(batch); err != nil {
		return err
	}

	s.treeCache = make(map[string][]byte)
	s.nameCache = make(map[string][]byte)
	s.zoneCache = make(map[string][]byte)
	s.ownerCache = make(map[string][]byte)
	s.heightCache = make(map[string]uint32)
	return nil
}

// Backup reverts every key written at height (reorg unwind).
func (s *Store) Backup(batch storage.Batch, height uint32) error {
	return s.undo.Backup(s.db, batch, height)
}
