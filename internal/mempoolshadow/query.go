package mempoolshadow

import "github.com/radiant-labs/rxindexer/internal/swap"

// GetUnconfirmedBalance returns scripthash's unconfirmed balance delta for
// ref: positive for incoming, negative for outgoing.
func (s *Shadow) GetUnconfirmedBalance(scripthash, ref []byte) int64 {
	var delta int64
	for txHash := range s.glyphByScripthash[string(scripthash)] {
		glyphTx, ok := s.glyphTxs[txHash]
		if !ok || string(glyphTx.Ref) != string(ref) {
			continue
		}
		if string(glyphTx.ToScripthash) == string(scripthash) {
			delta += int64(glyphTx.Amount)
		}
		if string(glyphTx.FromScripthash) == string(scripthash) {
			delta -= int64(glyphTx.Amount)
		}
	}
	return delta
}

// GetUnconfirmedGlyphTxs lists every unconfirmed Glyph transaction touching
// scripthash.
func (s *Shadow) GetUnconfirmedGlyphTxs(scripthash []byte) []*GlyphTx {
	var out []*GlyphTx
	for txHash := range s.glyphByScripthash[string(scripthash)] {
		if glyphTx, ok := s.glyphTxs[txHash]; ok {
			out = append(out, glyphTx)
		}
	}
	return out
}

// GetUnconfirmedTokenTxs lists every unconfirmed transaction for ref.
func (s *Shadow) GetUnconfirmedTokenTxs(ref []byte) []*GlyphTx {
	var out []*GlyphTx
	for txHash := range s.glyphByRef[string(ref)] {
		if glyphTx, ok := s.glyphTxs[txHash]; ok {
			out = append(out, glyphTx)
		}
	}
	return out
}

// GetUnconfirmedSwapOrders lists unconfirmed swap orders, optionally
// filtered to one trading pair.
func (s *Shadow) GetUnconfirmedSwapOrders(baseRef, quoteRef []byte) []*swap.Order {
	var out []*swap.Order
	if len(baseRef) > 0 {
		for orderID := range s.swapByPair[pairKey(baseRef, quoteRef)] {
			if order, ok := s.swapOrders[orderID]; ok {
				out = append(out, order)
			}
		}
		return out
	}
	for _, order := range s.swapOrders {
		out = append(out, order)
	}
	return out
}

// GetUserUnconfirmedOrders lists unconfirmed orders made by scripthash.
func (s *Shadow) GetUserUnconfirmedOrders(scripthash []byte) []*swap.Order {
	var out []*swap.Order
	for orderID := range s.swapByMaker[string(scripthash)] {
		if order, ok := s.swapOrders[orderID]; ok {
			out = append(out, order)
		}
	}
	return out
}

// Stats summarizes the shadow's current size.
type Stats struct {
	GlyphTxs          int
	GlyphRefsTracked  int
	GlyphScripthashes int
	SwapOrders        int
	SwapPairsTracked  int
	SwapMakersTracked int
}

// Stats returns the mempool Glyph/Swap statistics (core spec §4.5).
func (s *Shadow) Stats() Stats {
	return Stats{
		GlyphTxs:          len(s.glyphTxs),
		GlyphRefsTracked:  len(s.glyphByRef),
		GlyphScripthashes: len(s.glyphByScripthash),
		SwapOrders:        len(s.swapOrders),
		SwapPairsTracked:  len(s.swapByPair),
		SwapMakersTracked: len(s.swapByMaker),
	}
}
