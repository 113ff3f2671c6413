package mempoolshadow

import "github.com/radiant-labs/rxindexer/internal/swap"

// Shadow is the in-memory mirror of unconfirmed Glyph transfers and RSWP
// orders (core spec §4.5). It never touches storage.DB: everything here
// is discarded on confirmation (via RemoveTx, as the confirmed indexes take
// over) or on eviction.
type Shadow struct {
	glyphTxs          map[string]*GlyphTx
	glyphByRef        map[string]map[string]struct{}
	glyphByScripthash map[string]map[string]struct{}

	// swapOrders is keyed by order ID, not tx hash: mempool_glyph.py keys its
	// swap_orders dict by tx_hash but its by-pair/by-maker indexes store order
	// IDs, so a lookup via those indexes can never find an entry (a defect in
	// the source, not a behavior to preserve — see DESIGN.md).
	swapOrders  map[string]*swap.Order
	swapByPair  map[string]map[string]struct{}
	swapByMaker map[string]map[string]struct{}
	orderIDByTx map[string][]byte

	touchedRefs         map[string]struct{}
	touchedScripthashes map[string]struct{}
}

// New creates an empty mempool shadow.
func New() *Shadow {
	return &Shadow{
		glyphTxs:            make(map[string]*GlyphTx),
		glyphByRef:          make(map[string]map[string]struct{}),
		glyphByScripthash:   make(map[string]map[string]struct{}),
		swapOrders:          make(map[string]*swap.Order),
		swapByPair:          make(map[string]map[string]struct{}),
		swapByMaker:         make(map[string]map[string]struct{}),
		orderIDByTx:         make(map[string][]byte),
		touchedRefs:         make(map[string]struct{}),
		touchedScripthashes: make(map[string]struct{}),
	}
}

func pairKey(baseRef, quoteRef []byte) string {
	return string(baseRef) + string(quoteRef)
}

func addToSet(set map[string]map[string]struct{}, key, member string) {
	if set[key] == nil {
		set[key] = make(map[string]struct{})
	}
	set[key][member] = struct{}{}
}

func removeFromSet(set map[string]map[string]struct{}, key, member string) {
	members, ok := set[key]
	if !ok {
		return
	}
	delete(members, member)
	if len(members) == 0 {
		delete(set, key)
	}
}
