package wave

import (
	"github.com/radiant-labs/rxindexer/internal/storage"
	"github.com/radiant-labs/rxindexer/internal/undo"
)

var prefixUndo = []byte("WZU")

// Store is the WAVE name index: in-memory caches over confirmed-chain
// state, flushed to storage.DB in one atomic batch per block (core spec
// §4.4), sharing the undo discipline of the Glyph and Swap indexes.
type Store struct {
	db storage.DB

	genesisRef []byte

	treeCache   map[string][]byte
	nameCache   map[string][]byte
	zoneCache   map[string][]byte
	ownerCache  map[string][]byte
	heightCache map[string]uint32

	writeHeight uint32
	undo        *undo.Cache
}

// NewStore creates an empty WAVE index over db, with genesisRef as the
// top-level parent for names with no explicit parent.
func NewStore(db storage.DB, genesisRef []byte) *Store {
	return &Store{
		db:          db,
		genesisRef:  genesisRef,
		treeCache:   make(map[string][]byte),
		nameCache:   make(map[string][]byte),
		zoneCache:   make(map[string][]byte),
		ownerCache:  make(map[string][]byte),
		heightCache: make(map[string]uint32),
		undo:        undo.NewCache(prefixUndo),
	}
}

// resolveNameToRef looks up name's claim ref, checking the cache first.
func (s *Store) resolveNameToRef(name string) []byte {
	hash := NameToHash(name)
	if ref, ok := s.nameCache[string(hash)]; ok {
		return ref
	}
	data, err := s.db.Get(nameKey(hash))
	if err != nil || data == nil {
		return nil
	}
	return data
}
