package swap

import "github.com/fxamacker/cbor/v2"

// OrderStatus enumerates a swap order's lifecycle state.
type OrderStatus uint8

const (
	StatusOpen OrderStatus = iota
	StatusPartial
	StatusFilled
	StatusCancelled
	StatusExpired
)

// OrderSide is the maker's offered direction.
const (
	SideBuy  byte = 0
	SideSell byte = 1
)

// Order is the indexed view of one RSWP swap advertisement (core spec §4.3),
// CBOR-encoded with swap_index.py's SwapOrderInfo short field keys.
type Order struct {
	OrderID []byte `cbor:"oid,omitempty"`
	TxHash  []byte `cbor:"txh,omitempty"`
	Vout    uint32 `cbor:"v,omitempty"`
	Height  uint32 `cbor:"h,omitempty"`

	MakerScripthash []byte `cbor:"ms,omitempty"`

	BaseRef    []byte `cbor:"br,omitempty"`
	QuoteRef   []byte `cbor:"qr,omitempty"`
	BaseTicker string `cbor:"bt,omitempty"`
	QuoteTicker string `cbor:"qt,omitempty"`

	Side             byte        `cbor:"sd,omitempty"`
	Price            uint64      `cbor:"pr,omitempty"`
	Amount           uint64      `cbor:"am,omitempty"`
	FilledAmount     uint64      `cbor:"fa,omitempty"`
	RemainingAmount  uint64      `cbor:"ra,omitempty"`
	MinFill          uint64      `cbor:"mf,omitempty"`
	FeeRate          uint32      `cbor:"fr,omitempty"`
	Status           OrderStatus `cbor:"st,omitempty"`
	ExpiryHeight     uint32      `cbor:"eh,omitempty"`
	CancelHeight     uint32      `cbor:"ch,omitempty"`
	CancelTxID       []byte      `cbor:"ct,omitempty"`
	FillCount        uint32      `cbor:"fc,omitempty"`
	LastFillHeight   uint32      `cbor:"lfh,omitempty"`
	AvgFillPrice     uint64      `cbor:"afp,omitempty"`
}

// ToBytes CBOR-encodes the order record.
func (o *Order) ToBytes() ([]byte, error) {
	return cbor.Marshal(o)
}

// OrderFromBytes decodes a CBOR-encoded order record.
func OrderFromBytes(data []byte) (*Order, error) {
	var o Order
	if err := cbor.Unmarshal(data, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// IsOpen reports whether the order still rests on the book.
func (o *Order) IsOpen() bool {
	return o.Status == StatusOpen || o.Status == StatusPartial
}

// PercentFilled mirrors swap_index.py's percent_filled projection.
func (o *Order) PercentFilled() float64 {
	if o.Amount == 0 {
		return 0
	}
	return float64(o.FilledAmount) / float64(o.Amount) * 100
}

// PairStats is the aggregate trading-pair summary (SPEC_FULL.md §4.3,
// supplemented from swap_index.py's PairStats).
type PairStats struct {
	LastPrice      uint64 `cbor:"lp,omitempty"`
	High24h        uint64 `cbor:"h24,omitempty"`
	Low24h         uint64 `cbor:"l24,omitempty"`
	Volume24hBase  uint64 `cbor:"vb24,omitempty"`
	Volume24hQuote uint64 `cbor:"vq24,omitempty"`
	TradeCount24h  uint32 `cbor:"tc24,omitempty"`
	OpenOrders     uint32 `cbor:"oo,omitempty"`
	BidDepth       uint64 `cbor:"bd,omitempty"`
	AskDepth       uint64 `cbor:"ad,omitempty"`
}

func (p *PairStats) ToBytes() ([]byte, error) {
	return cbor.Marshal(p)
}

func PairStatsFromBytes(data []byte) (*PairStats, error) {
	var p PairStats
	if err := cbor.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
