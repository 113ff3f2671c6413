// Package glyph indexes Glyph token deploys, transfers and balances over the
// shared KV store, grounded on original_source/electrumx/server/glyph_index.py.
package glyph

import "encoding/binary"

// Key prefixes, per core spec §4.2's key schema.
var (
	prefixToken    = []byte("GT")
	prefixMetadata = []byte("GM")
	prefixBalance  = []byte("GB")
	prefixHolder   = []byte("GR")
	prefixHistory  = []byte("GH")
	prefixByType   = []byte("GY")
	prefixByName   = []byte("GN")
	prefixByTicker = []byte("GK")
	prefixSupply   = []byte("GS")
	prefixUndo     = []byte("GXU")
)

const refSize = 36

func tokenKey(ref []byte) []byte {
	return concat(prefixToken, ref)
}

func metadataKey(hash []byte) []byte {
	return concat(prefixMetadata, hash)
}

func balanceKey(scripthash, ref []byte) []byte {
	return concat(prefixBalance, scripthash, ref)
}

func holderKey(ref, scripthash []byte) []byte {
	return concat(prefixHolder, ref, scripthash)
}

func historyKey(ref []byte, height uint32, txIdx uint16) []byte {
	suffix := make([]byte, 6)
	binary.BigEndian.PutUint32(suffix[:4], height)
	binary.BigEndian.PutUint16(suffix[4:], txIdx)
	return concat(prefixHistory, ref, suffix)
}

func byTypeKey(tokenType byte, ref []byte) []byte {
	return concat(prefixByType, []byte{tokenType}, ref)
}

func byNameKey(nameHash, ref []byte) []byte {
	return concat(prefixByName, nameHash, ref)
}

func byTickerKey(ticker string) []byte {
	t := ticker
	if len(t) > 8 {
		t = t[:8]
	}
	return concat(prefixByTicker, []byte(t))
}

func supplyKey(ref []byte) []byte {
	return concat(prefixSupply, ref)
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
