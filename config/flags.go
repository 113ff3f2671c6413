package config

import (
	"flag"
	"fmt"
	"os"
)

// Flags holds parsed command-line flags.
type Flags struct {
	Help    bool
	Version bool

	DataDir string
	Config  string

	RPCAddr    string
	RPCAllowed string
	RPCCORS    string

	LogLevel string
	LogFile  string
	LogJSON  bool

	WaveGenesisRef  string
	WaveGenesisVout uint

	SetLogJSON bool
}

// ParseFlags parses command-line flags.
func ParseFlags() *Flags {
	f := &Flags{}
	fs := flag.NewFlagSet("rxindexerd", flag.ContinueOnError)

	fs.BoolVar(&f.Help, "help", false, "Show help message")
	fs.BoolVar(&f.Help, "h", false, "Show help message (shorthand)")
	fs.BoolVar(&f.Version, "version", false, "Show version information")

	fs.StringVar(&f.DataDir, "datadir", "", "Data directory path")
	fs.StringVar(&f.Config, "config", "", "Config file path")
	fs.StringVar(&f.Config, "c", "", "Config file path (shorthand)")

	fs.StringVar(&f.RPCAddr, "rpc-addr", "", "JSON-RPC listen address (host:port)")
	fs.StringVar(&f.RPCAllowed, "rpc-allowed", "", "Allowed client IPs for RPC (comma-separated)")
	fs.StringVar(&f.RPCCORS, "rpc-cors", "", "Allowed CORS origins for RPC (comma-separated, * for all)")

	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")

	fs.StringVar(&f.WaveGenesisRef, "wave-genesis-ref", "", "Hex txid WAVE top-level names resolve under")
	fs.UintVar(&f.WaveGenesisVout, "wave-genesis-vout", 0, "Vout of the WAVE genesis ref")

	fs.Usage = func() {
		printUsage()
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	f.SetLogJSON = flagWasSet(fs, "log-json")
	return f
}

func flagWasSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			found = true
		}
	})
	return found
}

func printUsage() {
	usage := `rxindexerd - Glyph/WAVE/Swap indexing core for Radiant

Usage:
  rxindexerd [flags]

Flags:
  --datadir <path>          Data directory (default: ~/.rxindexer)
  --config <path>           Config file path (default: <datadir>/rxindexer.conf)
  --rpc-addr <host:port>    JSON-RPC listen address (default: :8000)
  --rpc-allowed <ips>       Allowed client IPs, comma-separated
  --rpc-cors <origins>      Allowed CORS origins, comma-separated
  --log-level <level>       debug, info, warn, error (default: info)
  --log-file <path>         Log file path (default: <datadir>/logs/rxindexerd.log)
  --log-json                Emit JSON logs
  --wave-genesis-ref <hex>  WAVE genesis parent txid
  --wave-genesis-vout <n>   WAVE genesis parent vout
  --help, -h                Show this message
  --version                 Show version information

Settings are operational only: the indexer trusts whatever chain the
wrapping block processor feeds it. Data directories are created
automatically on first start.
`
	fmt.Print(usage)
}

// ApplyFlags overlays non-empty flag values onto cfg, highest precedence.
func ApplyFlags(cfg *Config, f *Flags) {
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}
	if f.RPCAddr != "" {
		cfg.RPC.Addr = f.RPCAddr
	}
	if f.RPCAllowed != "" {
		cfg.RPC.AllowedIPs = parseStringList(f.RPCAllowed)
	}
	if f.RPCCORS != "" {
		cfg.RPC.CORSOrigins = parseStringList(f.RPCCORS)
	}
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}
	if f.WaveGenesisRef != "" {
		cfg.WaveGenesisRefHex = f.WaveGenesisRef
		cfg.WaveGenesisVout = uint32(f.WaveGenesisVout)
	}
}

// Load loads configuration with the following precedence:
//  1. Default values
//  2. Auto-create data dir + default config file (idempotent)
//  3. Config file
//  4. Command-line flags
func Load() (*Config, *Flags, error) {
	flags := ParseFlags()

	if flags.Help {
		printUsage()
		os.Exit(0)
	}
	if flags.Version {
		fmt.Println("rxindexerd version 0.1.0")
		os.Exit(0)
	}

	cfg := Default()
	if flags.DataDir != "" {
		cfg.DataDir = flags.DataDir
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.DMintDir(), 0755); err != nil {
		return nil, nil, fmt.Errorf("creating dmint directory: %w", err)
	}

	configPath := flags.Config
	if configPath == "" {
		configPath = cfg.ConfigFile()
	}
	if err := WriteDefaultConfig(configPath); err != nil {
		return nil, nil, fmt.Errorf("writing default config: %w", err)
	}

	fileValues, err := LoadFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, nil, fmt.Errorf("applying config file: %w", err)
	}

	ApplyFlags(cfg, flags)

	if err := Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, flags, nil
}
