// Package config handles indexer configuration.
//
// Settings are operational (data directory, reorg window, rate-limit
// tunables, metrics port) rather than consensus rules — the indexer trusts
// whatever chain the wrapping block processor feeds it.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config holds the indexer's runtime configuration.
type Config struct {
	DataDir string `conf:"datadir"`

	// ReorgWindow bounds how many trailing heights of undo log must be kept.
	// Undo records older than current_height-ReorgWindow+1 may be pruned.
	ReorgWindow uint32 `conf:"reorg.window"`

	// WaveGenesisRefHex is the hex txid (displayed, i.e. byte-reversed from
	// internal order) of the UTXO that top-level WAVE names resolve under as
	// their parent. Empty degrades the WAVE index to a no-op (core spec §7.6).
	WaveGenesisRefHex string `conf:"wave.genesis_ref"`
	WaveGenesisVout   uint32 `conf:"wave.genesis_vout"`

	RateLimit RateLimitConfig
	Metrics   MetricsConfig
	Log       LogConfig
	RPC       RPCConfig
}

// RPCConfig holds JSON-RPC server settings.
type RPCConfig struct {
	Addr        string   `conf:"rpc.addr"`
	AllowedIPs  []string `conf:"rpc.allowed"`
	CORSOrigins []string `conf:"rpc.cors"` // Allowed CORS origins ("*" = all).
}

// RateLimitConfig mirrors the defaults in the original rate_limiter.py.
type RateLimitConfig struct {
	MaxSubsPerClient     int           `conf:"ratelimit.max_subs_per_client"`
	SubRateLimit         float64       `conf:"ratelimit.sub_rate_limit"`
	SubBurstLimit        float64       `conf:"ratelimit.sub_burst_limit"`
	ViolationThreshold   int           `conf:"ratelimit.violation_threshold"`
	BlockDuration        time.Duration `conf:"ratelimit.block_duration"`
	RequestWindow        time.Duration `conf:"ratelimit.request_window"`
	MaxRequestsPerWindow int           `conf:"ratelimit.max_requests_per_window"`
	CostSoftLimit        float64       `conf:"ratelimit.cost_soft_limit"`
	CostHardLimit        float64       `conf:"ratelimit.cost_hard_limit"`
}

// MetricsConfig controls the Prometheus exposition endpoint.
type MetricsConfig struct {
	Enabled bool `conf:"metrics.enabled"`
	Port    int  `conf:"metrics.port"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.rxindexer
//	macOS:   ~/Library/Application Support/RXinDexer
//	Windows: %APPDATA%\RXinDexer
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rxindexer"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "RXinDexer")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "RXinDexer")
		}
		return filepath.Join(home, "AppData", "Roaming", "RXinDexer")
	default:
		return filepath.Join(home, ".rxindexer")
	}
}

// Default returns the default indexer configuration.
func Default() *Config {
	return &Config{
		DataDir:     DefaultDataDir(),
		ReorgWindow: 1000,
		RateLimit: RateLimitConfig{
			MaxSubsPerClient:     10000,
			SubRateLimit:         100,
			SubBurstLimit:        500,
			ViolationThreshold:   10,
			BlockDuration:        60 * time.Second,
			RequestWindow:        60 * time.Second,
			MaxRequestsPerWindow: 1000,
			CostSoftLimit:        1000,
			CostHardLimit:        10000,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9100,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
		RPC: RPCConfig{
			Addr: ":8000",
		},
	}
}

// DMintDir returns the directory the dMint Contracts Manager persists
// contracts.json / contracts_extended.json to.
func (c *Config) DMintDir() string {
	return filepath.Join(c.DataDir, "dmint")
}
