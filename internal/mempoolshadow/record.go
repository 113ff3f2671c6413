// Package mempoolshadow maintains an in-memory mirror of unconfirmed Glyph
// transfers and RSWP orders, grounded on
// original_source/electrumx/server/mempool_glyph.py.
package mempoolshadow

import "github.com/radiant-labs/rxindexer/internal/script"

// Glyph transfer event kinds.
const (
	EventTransfer = "transfer"
	EventMint     = "mint"
	EventBurn     = "burn"
)

// GlyphTx is an unconfirmed Glyph token transfer (core spec §4.5).
type GlyphTx struct {
	TxHash    []byte
	Ref       []byte
	TokenType script.TokenTypeTag
	EventType string

	FromScripthash []byte
	ToScripthash   []byte

	Amount uint64
	Fee    uint64
	Size   int
}
