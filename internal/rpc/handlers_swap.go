package rpc

import "github.com/radiant-labs/rxindexer/internal/swap"

func (s *Server) requireSwap() *Error {
	if s.swapStore == nil {
		return &Error{Code: CodeNotFound, Message: "swap index not enabled"}
	}
	return nil
}

type orderJSON struct {
	OrderID         string `json:"order_id"`
	TxHash          string `json:"tx_hash"`
	Vout            uint32 `json:"vout"`
	Height          uint32 `json:"height"`
	MakerScripthash string `json:"maker_scripthash"`
	BaseRef         string `json:"base_ref"`
	QuoteRef        string `json:"quote_ref"`
	BaseTicker      string `json:"base_ticker,omitempty"`
	QuoteTicker     string `json:"quote_ticker,omitempty"`
	Side            byte   `json:"side"`
	Price           uint64 `json:"price"`
	Amount          uint64 `json:"amount"`
	FilledAmount    uint64 `json:"filled_amount"`
	RemainingAmount uint64 `json:"remaining_amount"`
	MinFill         uint64 `json:"min_fill,omitempty"`
	FeeRate         uint32 `json:"fee_rate,omitempty"`
	Status          string `json:"status"`
	ExpiryHeight    uint32 `json:"expiry_height,omitempty"`
	CancelHeight    uint32 `json:"cancel_height,omitempty"`
	CancelTxID      string `json:"cancel_txid,omitempty"`
	FillCount       uint32 `json:"fill_count,omitempty"`
	LastFillHeight  uint32 `json:"last_fill_height,omitempty"`
	AvgFillPrice    uint64 `json:"avg_fill_price,omitempty"`
}

func statusName(st swap.OrderStatus) string {
	switch st {
	case swap.StatusOpen:
		return "open"
	case swap.StatusFilled:
		return "filled"
	case swap.StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func orderToJSON(o *swap.Order) orderJSON {
	return orderJSON{
		OrderID:         hexOrEmpty(o.OrderID),
		TxHash:          hexOrEmpty(o.TxHash),
		Vout:            o.Vout,
		Height:          o.Height,
		MakerScripthash: hexOrEmpty(o.MakerScripthash),
		BaseRef:         refOrEmpty(o.BaseRef),
		QuoteRef:        refOrEmpty(o.QuoteRef),
		BaseTicker:      o.BaseTicker,
		QuoteTicker:     o.QuoteTicker,
		Side:            o.Side,
		Price:           o.Price,
		Amount:          o.Amount,
		FilledAmount:    o.FilledAmount,
		RemainingAmount: o.RemainingAmount,
		MinFill:         o.MinFill,
		FeeRate:         o.FeeRate,
		Status:          statusName(o.Status),
		ExpiryHeight:    o.ExpiryHeight,
		CancelHeight:    o.CancelHeight,
		CancelTxID:      hexOrEmpty(o.CancelTxID),
		FillCount:       o.FillCount,
		LastFillHeight:  o.LastFillHeight,
		AvgFillPrice:    o.AvgFillPrice,
	}
}

func ordersToJSON(in []*swap.Order) []orderJSON {
	out := make([]orderJSON, 0, len(in))
	for _, o := range in {
		out = append(out, orderToJSON(o))
	}
	return out
}

type orderbookParam struct {
	BaseRef  string `json:"base_ref"`
	QuoteRef string `json:"quote_ref"`
	Side     *byte  `json:"side"`
	Limit    int    `json:"limit"`
}

func (s *Server) handleSwapGetOrderbook(req *Request) (interface{}, *Error) {
	if err := s.requireSwap(); err != nil {
		return nil, err
	}
	var p orderbookParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	base, derr := decodeRef(p.BaseRef)
	if derr != nil {
		return nil, derr
	}
	var quote []byte
	if p.QuoteRef != "" {
		quote, derr = decodeRef(p.QuoteRef)
		if derr != nil {
			return nil, derr
		}
	}
	book, e := s.swapStore.GetOrderbook(base, quote, p.Side, p.Limit)
	if e != nil {
		return nil, internalError(e)
	}
	return map[string]interface{}{"bids": ordersToJSON(book.Bids), "asks": ordersToJSON(book.Asks)}, nil
}

type openOrdersParam struct {
	BaseRef string `json:"base_ref"`
	Limit   int    `json:"limit"`
	Offset  int    `json:"offset"`
}

func (s *Server) handleSwapGetOpenOrders(req *Request) (interface{}, *Error) {
	if err := s.requireSwap(); err != nil {
		return nil, err
	}
	var p openOrdersParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	var base []byte
	if p.BaseRef != "" {
		var derr *Error
		base, derr = decodeRef(p.BaseRef)
		if derr != nil {
			return nil, derr
		}
	}
	orders, e := s.swapStore.GetOpenOrders(base, p.Limit, p.Offset)
	if e != nil {
		return nil, internalError(e)
	}
	return ordersToJSON(orders), nil
}

type userOrdersParam struct {
	Scripthash string  `json:"scripthash"`
	Status     *uint8  `json:"status"`
	Limit      int     `json:"limit"`
}

func (s *Server) handleSwapGetUserOrders(req *Request) (interface{}, *Error) {
	if err := s.requireSwap(); err != nil {
		return nil, err
	}
	var p userOrdersParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	scripthash, derr := decodeHex(p.Scripthash)
	if derr != nil {
		return nil, derr
	}
	var status *swap.OrderStatus
	if p.Status != nil {
		st := swap.OrderStatus(*p.Status)
		status = &st
	}
	orders, e := s.swapStore.GetUserOrders(scripthash, status, p.Limit)
	if e != nil {
		return nil, internalError(e)
	}
	return ordersToJSON(orders), nil
}

type swapHistoryParam struct {
	BaseRef string `json:"base_ref"`
	Limit   int    `json:"limit"`
	Offset  int    `json:"offset"`
}

func (s *Server) handleSwapGetHistory(req *Request) (interface{}, *Error) {
	if err := s.requireSwap(); err != nil {
		return nil, err
	}
	var p swapHistoryParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	base, derr := decodeRef(p.BaseRef)
	if derr != nil {
		return nil, derr
	}
	ids, e := s.swapStore.GetSwapHistory(base, p.Limit, p.Offset)
	if e != nil {
		return nil, internalError(e)
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, hexOrEmpty(id))
	}
	return out, nil
}

type pairParam struct {
	BaseRef  string `json:"base_ref"`
	QuoteRef string `json:"quote_ref"`
}

func (s *Server) handleSwapGetPairStats(req *Request) (interface{}, *Error) {
	if err := s.requireSwap(); err != nil {
		return nil, err
	}
	var p pairParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	base, derr := decodeRef(p.BaseRef)
	if derr != nil {
		return nil, derr
	}
	quote, derr := decodeRef(p.QuoteRef)
	if derr != nil {
		return nil, derr
	}
	stats, ok := s.swapStore.GetPairStats(base, quote)
	if !ok {
		return nil, notFound("pair stats")
	}
	return stats, nil
}

func (s *Server) handleSwapGetUnconfirmedOrders(req *Request) (interface{}, *Error) {
	if s.mempool == nil {
		return nil, notFound("mempool shadow")
	}
	var p pairParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	base, derr := decodeRef(p.BaseRef)
	if derr != nil {
		return nil, derr
	}
	var quote []byte
	if p.QuoteRef != "" {
		quote, derr = decodeRef(p.QuoteRef)
		if derr != nil {
			return nil, derr
		}
	}
	return ordersToJSON(s.mempool.GetUnconfirmedSwapOrders(base, quote)), nil
}

func (s *Server) handleSwapGetUserUnconfirmed(req *Request) (interface{}, *Error) {
	if s.mempool == nil {
		return nil, notFound("mempool shadow")
	}
	var p scripthashParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	scripthash, derr := decodeHex(p.Scripthash)
	if derr != nil {
		return nil, derr
	}
	return ordersToJSON(s.mempool.GetUserUnconfirmedOrders(scripthash)), nil
}
