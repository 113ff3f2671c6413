package glyph

import (
	"encoding/binary"

	"github.com/radiant-labs/rxindexer/internal/storage"
	"github.com/radiant-labs/rxindexer/internal/undo"
)

// historyEntry buffers one (height, key, value) triple until flush.
type historyEntry struct {
	height uint32
	key    []byte
	value  []byte
}

// Store is the Glyph token index: in-memory caches over confirmed-chain
// state, flushed to storage.DB in one atomic batch per block (core spec
// §4.2, §4.6). One Store instance owns one undo.Cache keyed by the GXU
// prefix, shared across the token/balance/history/metadata caches it drains.
type Store struct {
	db storage.DB

	tokenCache  map[string]*TokenRecord
	tokenHeight map[string]uint32

	balanceCache  map[string]uint64
	balanceHeight map[string]uint32

	historyCache []historyEntry

	metadataCache  map[string][]byte
	metadataHeight map[string]uint32

	knownRefs map[string]struct{}

	undo *undo.Cache
}

// NewStore creates an empty Glyph index over db.
func NewStore(db storage.DB) *Store {
	return &Store{
		db:             db,
		tokenCache:     make(map[string]*TokenRecord),
		tokenHeight:    make(map[string]uint32),
		balanceCache:   make(map[string]uint64),
		balanceHeight:  make(map[string]uint32),
		metadataCache:  make(map[string][]byte),
		metadataHeight: make(map[string]uint32),
		knownRefs:      make(map[string]struct{}),
		undo:           undo.NewCache(prefixUndo),
	}
}

// isKnownToken reports whether ref is already registered, checking the
// in-memory known-set, the token cache, then falling back to storage.
func (s *Store) isKnownToken(ref []byte) bool {
	k := string(ref)
	if _, ok := s.knownRefs[k]; ok {
		return true
	}
	if _, ok := s.tokenCache[k]; ok {
		s.knownRefs[k] = struct{}{}
		return true
	}
	if ok, _ := s.db.Has(tokenKey(ref)); ok {
		s.knownRefs[k] = struct{}{}
		return true
	}
	return false
}

func beUint32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}
