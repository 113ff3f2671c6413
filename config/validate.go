package config

import (
	"encoding/hex"
	"fmt"

	"github.com/radiant-labs/rxindexer/pkg/types"
)

// Validate checks runtime config for obvious operator mistakes. A missing or
// malformed WAVE genesis ref is logged by the caller and degrades WAVE
// indexing to a no-op rather than failing validation (core spec §7.6).
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("datadir must not be empty")
	}
	if cfg.ReorgWindow == 0 {
		return fmt.Errorf("reorg.window must be positive")
	}
	if cfg.Metrics.Port < 0 || cfg.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be in range [0, 65535]")
	}
	if cfg.RateLimit.SubBurstLimit <= 0 {
		return fmt.Errorf("ratelimit.sub_burst_limit must be positive")
	}
	return nil
}

// HasWaveGenesis reports whether a WAVE genesis ref is configured.
func (c *Config) HasWaveGenesis() bool {
	return c.WaveGenesisRefHex != ""
}

// WaveGenesisRef parses the configured genesis ref, reversing the txid bytes
// the way a displayed (hex) txid is reversed relative to internal byte order
// — see original_source's WaveIndex.__init__ and SPEC_FULL.md §4.4.
func (c *Config) WaveGenesisRef() (types.Ref, error) {
	b, err := hex.DecodeString(c.WaveGenesisRefHex)
	if err != nil {
		return types.Ref{}, fmt.Errorf("wave.genesis_ref: invalid hex: %w", err)
	}
	if len(b) != types.HashSize {
		return types.Ref{}, fmt.Errorf("wave.genesis_ref: must be %d bytes, got %d", types.HashSize, len(b))
	}
	var txid types.Hash
	for i := 0; i < types.HashSize; i++ {
		txid[i] = b[types.HashSize-1-i]
	}
	return types.NewRef(txid, c.WaveGenesisVout), nil
}
