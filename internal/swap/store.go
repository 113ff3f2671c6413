package swap

import (
	"github.com/radiant-labs/rxindexer/internal/storage"
	"github.com/radiant-labs/rxindexer/internal/undo"
)

// historyEntry buffers one (height, key, value) triple until flush.
type historyEntry struct {
	height uint32
	key    []byte
	value  []byte
}

// Store is the RSWP swap-order index: in-memory caches over confirmed-chain
// state, flushed to storage.DB in one atomic batch per block (core spec
// §4.3).
type Store struct {
	db storage.DB

	orderCache  map[string]*Order
	orderHeight map[string]uint32

	historyCache []historyEntry

	undo *undo.Cache
}

// NewStore creates an empty swap index over db.
func NewStore(db storage.DB) *Store {
	return &Store{
		db:          db,
		orderCache:  make(map[string]*Order),
		orderHeight: make(map[string]uint32),
		undo:        undo.NewCache(prefixUndo),
	}
}
