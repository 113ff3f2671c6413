package types

// TxInput is the minimal view of a transaction input the indexes need:
// enough to detect a Glyph reveal envelope in its script and to derive a
// fallback ref from the spent outpoint.
type TxInput struct {
	Script   []byte
	PrevTxID Hash
	PrevVout uint32
}

// TxOutput is the minimal view of a transaction output the indexes need:
// its script (for ref/RSWP/WAVE scanning) and value (for FT initial supply).
type TxOutput struct {
	Script []byte
	Value  uint64
}

// Tx is the block processor's external transaction view — the indexing core
// never parses consensus-level transaction encoding itself (Non-goal: it
// consumes a decoded view from its host process).
type Tx struct {
	Hash    Hash
	Inputs  []TxInput
	Outputs []TxOutput
}
