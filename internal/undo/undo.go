// Package undo implements the height-keyed undo log shared by the Glyph,
// Swap and WAVE indexes (core spec §4.6): every key written during a
// confirmed-block flush has its pre-write value captured once per height,
// so a reorg can replay the capture in reverse and restore prior state.
package undo

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/radiant-labs/rxindexer/internal/storage"
)

// entry is one captured (key, prior-value) pair. prior == nil means the key
// was absent before the first write at this height.
type entry struct {
	key   []byte
	prior []byte
	had   bool
}

// Cache accumulates undo entries across a single flush, keyed by height, for
// one undo-key prefix (e.g. "GXU", "SWU", "WZU"). One Cache belongs to
// exactly one index; the prefix distinguishes indexes sharing a DB.
type Cache struct {
	prefix  []byte
	entries map[uint32][]entry
	seen    map[uint32]map[string]struct{}

	lastPruned uint32
	hasPruned  bool
}

// NewCache returns an empty undo cache for the given undo-key prefix.
func NewCache(prefix []byte) *Cache {
	p := make([]byte, len(prefix))
	copy(p, prefix)
	return &Cache{
		prefix:  p,
		entries: make(map[uint32][]entry),
		seen:    make(map[uint32]map[string]struct{}),
	}
}

// undoKey builds the `*U ‖ height-BE` key for the cache's prefix.
func (c *Cache) undoKey(height uint32) []byte {
	out := make([]byte, len(c.prefix)+4)
	copy(out, c.prefix)
	binary.BigEndian.PutUint32(out[len(c.prefix):], height)
	return out
}

// Record captures key's current value under height, exactly once per
// (height, key) pair — later calls for the same pair at the same height are
// no-ops, per core spec §4.6's "seen" set discipline. db is read directly
// (not the in-memory cache), since the undo log must reflect what was
// actually committed before this flush.
func (c *Cache) Record(db storage.DB, height uint32, key []byte) error {
	set, ok := c.seen[height]
	if !ok {
		set = make(map[string]struct{})
		c.seen[height] = set
	}
	k := string(key)
	if _, ok := set[k]; ok {
		return nil
	}
	set[k] = struct{}{}

	kc := make([]byte, len(key))
	copy(kc, key)

	val, err := db.Get(key)
	if err != nil {
		c.entries[height] = append(c.entries[height], entry{key: kc, had: false})
		return nil
	}
	vc := make([]byte, len(val))
	copy(vc, val)
	c.entries[height] = append(c.entries[height], entry{key: kc, prior: vc, had: true})
	return nil
}

// Persist writes every accumulated height's undo record to batch and clears
// the cache. Must be called last in a flush, after all index writes that
// themselves call Record — so the undo record covers every key touched
// during this flush, per core spec §4.6 step 2.
func (c *Cache) Persist(batch storage.Batch) error {
	heights := make([]uint32, 0, len(c.entries))
	for h := range c.entries {
		heights = append(heights, h)
	}
	sort.Slice(heights, func(i, j int) bool { return heights[i] < heights[j] })

	for _, h := range heights {
		encoded := encode(c.entries[h])
		if err := batch.Put(c.undoKey(h), encoded); err != nil {
			return fmt.Errorf("undo: persist height %d: %w", h, err)
		}
	}
	c.entries = make(map[uint32][]entry)
	c.seen = make(map[uint32]map[string]struct{})
	return nil
}

// PruneOldKeys deletes undo records older than the reorg retention window,
// advancing forward from the last pruned height. currentHeight is the
// height of the block just flushed; reorgWindow is the number of trailing
// heights to retain undo data for. Best-effort, forward-only, per core spec
// §4.6's Prune rule.
func (c *Cache) PruneOldKeys(batch storage.Batch, currentHeight, reorgWindow uint32) error {
	if reorgWindow == 0 {
		return nil
	}
	var minKeep uint32
	if currentHeight+1 > reorgWindow {
		minKeep = currentHeight + 1 - reorgWindow
	}
	if minKeep == 0 {
		return nil
	}
	pruneTo := minKeep - 1

	start := uint32(0)
	if c.hasPruned {
		start = c.lastPruned + 1
	}
	if pruneTo < start {
		return nil
	}
	for h := start; h <= pruneTo; h++ {
		if err := batch.Delete(c.undoKey(h)); err != nil {
			return fmt.Errorf("undo: prune height %d: %w", h, err)
		}
	}
	c.lastPruned = pruneTo
	c.hasPruned = true
	return nil
}

// Backup reads the undo record at height from db, writes each entry's prior
// value (or deletes the key if it was absent) into batch, then deletes the
// undo record itself. Entries are applied in any order — KV semantics make
// order irrelevant within a single batch, per core spec §4.6's Backup rule.
func (c *Cache) Backup(db storage.DB, batch storage.Batch, height uint32) error {
	key := c.undoKey(height)
	raw, err := db.Get(key)
	if err != nil {
		return nil // nothing recorded at this height
	}
	entries, err := decode(raw)
	if err != nil {
		return fmt.Errorf("undo: backup height %d: decode: %w", height, err)
	}
	for _, e := range entries {
		if !e.had {
			if err := batch.Delete(e.key); err != nil {
				return err
			}
			continue
		}
		if err := batch.Put(e.key, e.prior); err != nil {
			return err
		}
	}
	return batch.Delete(key)
}
