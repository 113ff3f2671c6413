// Package swap indexes on-chain RSWP swap-order advertisements and fills,
// grounded on original_source/electrumx/server/swap_index.py.
package swap

import "encoding/binary"

// Key prefixes, per core spec §4.3's key schema.
var (
	prefixOrder      = []byte("SO")
	prefixOpenByPair = []byte("SP")
	prefixOpenByMaker = []byte("SM")
	prefixHistory    = []byte("SH")
	prefixStats      = []byte("SS")
	prefixFill       = []byte("SF")
	prefixUndo       = []byte("SWU")
)

const orderIDSize = 36

func orderKey(orderID []byte) []byte {
	return concat(prefixOrder, orderID)
}

// pairKey builds the orderbook key, inverting price for BUY orders so an
// ascending key scan yields highest-bid-first (mirrors swap_index.py's
// 0xFFFFFFFFFFFFFFFF-price trick).
func pairKey(baseRef, quoteRef []byte, side byte, price uint64, orderID []byte) []byte {
	var priceKey uint64
	if side == SideBuy {
		priceKey = ^uint64(0) - price
	} else {
		priceKey = price
	}
	p := make([]byte, 8)
	binary.BigEndian.PutUint64(p, priceKey)
	return concat(prefixOpenByPair, baseRef, quoteRef, []byte{side}, p, orderID)
}

func pairPrefix(baseRef, quoteRef []byte, side byte) []byte {
	return concat(prefixOpenByPair, baseRef, quoteRef, []byte{side})
}

func makerKey(scripthash, orderID []byte) []byte {
	return concat(prefixOpenByMaker, scripthash, orderID)
}

func historyKey(baseRef []byte, height uint32, txIdx uint16) []byte {
	suffix := make([]byte, 6)
	binary.BigEndian.PutUint32(suffix[:4], height)
	binary.BigEndian.PutUint16(suffix[4:], txIdx)
	return concat(prefixHistory, baseRef, suffix)
}

func statsKey(baseRef, quoteRef []byte) []byte {
	return concat(prefixStats, baseRef, quoteRef)
}

func fillKey(orderID []byte, height uint32, txIdx uint16) []byte {
	suffix := make([]byte, 6)
	binary.BigEndian.PutUint32(suffix[:4], height)
	binary.BigEndian.PutUint16(suffix[4:], txIdx)
	return concat(prefixFill, orderID, suffix)
}

func concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
