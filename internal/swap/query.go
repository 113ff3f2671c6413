package swap

// GetOrder returns the order for orderID, checking the write-back cache
// before falling through to storage.
func (s *Store) GetOrder(orderID []byte) (*Order, bool) {
	k := string(orderID)
	if order, ok := s.orderCache[k]; ok {
		return order, true
	}
	data, err := s.db.Get(orderKey(orderID))
	if err != nil || data == nil {
		return nil, false
	}
	order, err := OrderFromBytes(data)
	if err != nil {
		return nil, false
	}
	return order, true
}

// Orderbook is the bids/asks view returned by GetOrderbook.
type Orderbook struct {
	Bids []*Order
	Asks []*Order
}

// GetOrderbook returns the resting orders for (base, quote), each side
// prefix-scanned best-price-first via the price-key encoding (core spec
// §4.3's Queries rule). side == nil returns both sides.
func (s *Store) GetOrderbook(baseRef, quoteRef []byte, side *byte, limit int) (*Orderbook, error) {
	book := &Orderbook{}

	if side == nil || *side == SideSell {
		asks, err := s.scanPair(baseRef, quoteRef, SideSell, limit)
		if err != nil {
			return nil, err
		}
		book.Asks = asks
	}
	if side == nil || *side == SideBuy {
		bids, err := s.scanPair(baseRef, quoteRef, SideBuy, limit)
		if err != nil {
			return nil, err
		}
		book.Bids = bids
	}
	return book, nil
}

func (s *Store) scanPair(baseRef, quoteRef []byte, side byte, limit int) ([]*Order, error) {
	prefix := pairPrefix(baseRef, quoteRef, side)
	var out []*Order
	err := s.db.ForEach(prefix, func(key, _ []byte) error {
		if limit > 0 && len(out) >= limit {
			return nil
		}
		if len(key) < orderIDSize {
			return nil
		}
		orderID := key[len(key)-orderIDSize:]
		order, ok := s.GetOrder(orderID)
		if ok && order.IsOpen() {
			out = append(out, order)
		}
		return nil
	})
	return out, err
}

// GetOpenOrders lists resting orders, optionally filtered to one base token.
func (s *Store) GetOpenOrders(baseRef []byte, limit, offset int) ([]*Order, error) {
	prefix := prefixOpenByPair
	if len(baseRef) > 0 {
		prefix = concat(prefixOpenByPair, baseRef)
	}
	var out []*Order
	count := 0
	err := s.db.ForEach(prefix, func(key, _ []byte) error {
		if count < offset {
			count++
			return nil
		}
		if limit > 0 && len(out) >= limit {
			return nil
		}
		if len(key) < orderIDSize {
			return nil
		}
		orderID := key[len(key)-orderIDSize:]
		order, ok := s.GetOrder(orderID)
		if ok && order.IsOpen() {
			out = append(out, order)
		}
		count++
		return nil
	})
	return out, err
}

// GetUserOrders lists every order placed by scripthash, optionally filtered
// to a single status.
func (s *Store) GetUserOrders(scripthash []byte, status *OrderStatus, limit int) ([]*Order, error) {
	prefix := concat(prefixOpenByMaker, scripthash)
	var out []*Order
	err := s.db.ForEach(prefix, func(key, _ []byte) error {
		if limit > 0 && len(out) >= limit {
			return nil
		}
		if len(key) < len(prefix)+orderIDSize {
			return nil
		}
		orderID := key[len(prefix):]
		order, ok := s.GetOrder(orderID)
		if !ok {
			return nil
		}
		if status == nil || order.Status == *status {
			out = append(out, order)
		}
		return nil
	})
	return out, err
}

// GetSwapHistory returns trade history events for baseRef.
func (s *Store) GetSwapHistory(baseRef []byte, limit, offset int) ([][]byte, error) {
	prefix := concat(prefixHistory, baseRef)
	var out [][]byte
	count := 0
	err := s.db.ForEach(prefix, func(_, value []byte) error {
		if count < offset {
			count++
			return nil
		}
		if limit > 0 && len(out) >= limit {
			return nil
		}
		out = append(out, value)
		count++
		return nil
	})
	return out, err
}

// GetSwapCount returns the number of history events recorded for baseRef.
func (s *Store) GetSwapCount(baseRef []byte) (int, error) {
	prefix := concat(prefixHistory, baseRef)
	count := 0
	err := s.db.ForEach(prefix, func(_, _ []byte) error {
		count++
		return nil
	})
	return count, err
}

// GetPairStats returns the aggregate trading stats for (base, quote).
func (s *Store) GetPairStats(baseRef, quoteRef []byte) (*PairStats, bool) {
	data, err := s.db.Get(statsKey(baseRef, quoteRef))
	if err != nil || data == nil {
		return nil, false
	}
	stats, err := PairStatsFromBytes(data)
	if err != nil {
		return nil, false
	}
	return stats, true
}
