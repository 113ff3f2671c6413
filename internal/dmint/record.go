// Package dmint manages the contracts.json file Glyph miners poll to
// discover mineable dMint tokens, grounded on
// original_source/electrumx/server/dmint_contracts.py.
package dmint

// Mining algorithm IDs, per Glyph v2 spec's algorithm-class table.
const (
	AlgoSHA256D       = 0x00
	AlgoBLAKE3        = 0x01
	AlgoK12           = 0x02
	AlgoArgon2idLight = 0x03
	AlgoRandomXLight  = 0x04
)

// ContractVersion is written into every newly added contract entry.
const ContractVersion = 2

// Contract is one mineable dMint token's miner-facing summary.
type Contract struct {
	Ref          string  `json:"ref"`
	Outputs      int     `json:"outputs"`
	Ticker       string  `json:"ticker,omitempty"`
	Name         string  `json:"name,omitempty"`
	Algorithm    int     `json:"algorithm"`
	Difficulty   uint64  `json:"difficulty"`
	Reward       uint64  `json:"reward"`
	PercentMined float64 `json:"percent_mined"`
	Active       bool    `json:"active"`
	DeployHeight uint32  `json:"deploy_height"`
	Version      int     `json:"version"`
}
