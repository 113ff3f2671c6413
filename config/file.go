package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadFile loads config from a key = value file. Format: one "key = value"
// pair per line, # for comments. Missing files are not an error — callers
// fall through to defaults.
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}
		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file values onto cfg by the `conf:"..."` key names
// declared on the Config struct fields.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	case "datadir":
		cfg.DataDir = value
	case "reorg.window":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		cfg.ReorgWindow = uint32(n)
	case "wave.genesis_ref":
		cfg.WaveGenesisRefHex = value
	case "wave.genesis_vout":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		cfg.WaveGenesisVout = uint32(n)

	case "rpc.addr":
		cfg.RPC.Addr = value
	case "rpc.allowed":
		cfg.RPC.AllowedIPs = parseStringList(value)
	case "rpc.cors":
		cfg.RPC.CORSOrigins = parseStringList(value)

	case "ratelimit.max_subs_per_client":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.RateLimit.MaxSubsPerClient = n
	case "ratelimit.sub_rate_limit":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		cfg.RateLimit.SubRateLimit = f
	case "ratelimit.sub_burst_limit":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		cfg.RateLimit.SubBurstLimit = f
	case "ratelimit.violation_threshold":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.RateLimit.ViolationThreshold = n
	case "ratelimit.block_duration":
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		cfg.RateLimit.BlockDuration = d
	case "ratelimit.request_window":
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		cfg.RateLimit.RequestWindow = d
	case "ratelimit.max_requests_per_window":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.RateLimit.MaxRequestsPerWindow = n
	case "ratelimit.cost_soft_limit":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		cfg.RateLimit.CostSoftLimit = f
	case "ratelimit.cost_hard_limit":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		cfg.RateLimit.CostHardLimit = f

	case "metrics.enabled":
		cfg.Metrics.Enabled = parseBool(value)
	case "metrics.port":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Metrics.Port = n

	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		// Unknown keys are ignored, same as an operator-facing config should.
	}
	return nil
}

func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

func parseStringList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// ConfigFile returns the default config file path under the data directory.
func (c *Config) ConfigFile() string {
	return c.DataDir + string(os.PathSeparator) + "rxindexer.conf"
}

// WriteDefaultConfig writes a commented default config file to path, unless
// one already exists.
func WriteDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	content := `# rxindexer configuration
#
# Operational settings only — the indexer trusts whatever chain the wrapping
# block processor feeds it.

# datadir = ~/.rxindexer
# reorg.window = 1000

# WAVE names resolve under this UTXO as their top-level parent. Leave unset
# to degrade WAVE indexing to a no-op.
# wave.genesis_ref = <hex txid>
# wave.genesis_vout = 0

rpc.addr = :8000
# rpc.allowed = 127.0.0.1
# rpc.cors = *

metrics.enabled = true
metrics.port = 9100

log.level = info
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0644)
}
