// Command rxindexerd runs the Glyph/WAVE/Swap indexing core as a standalone
// JSON-RPC daemon: it owns storage and the index aggregate, and exposes the
// query/subscribe surface over HTTP. It does not fetch or validate blocks
// itself — core spec §2's block processor is a separate component that
// drives indexer.Indexer.ProcessTx/Flush/Backup; this binary is the host
// those calls are wired into once a processor is attached (see
// indexer.Indexer's doc comment).
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/radiant-labs/rxindexer/config"
	"github.com/radiant-labs/rxindexer/internal/indexer"
	klog "github.com/radiant-labs/rxindexer/internal/log"
	"github.com/radiant-labs/rxindexer/internal/metrics"
	"github.com/radiant-labs/rxindexer/internal/ratelimit"
	"github.com/radiant-labs/rxindexer/internal/rpc"
	"github.com/radiant-labs/rxindexer/internal/storage"
)

func main() {
	// ── 1. Load config (defaults → file → flags) ────────────────────────
	cfg, _, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "rxindexerd:", err)
		os.Exit(1)
	}

	// ── 2. Init logger ────────────────────────────────────────────────────
	logFile := cfg.Log.File
	if logFile == "" {
		logsDir := cfg.DataDir + "/logs"
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			fmt.Fprintln(os.Stderr, "rxindexerd: creating logs directory:", err)
			os.Exit(1)
		}
		logFile = logsDir + "/rxindexerd.log"
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, logFile); err != nil {
		fmt.Fprintln(os.Stderr, "rxindexerd: initializing logger:", err)
		os.Exit(1)
	}
	logger := klog.WithComponent("main")

	// ── 3. Open storage ───────────────────────────────────────────────────
	db, err := storage.NewBadger(cfg.DataDir + "/db")
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.DataDir).Msg("failed to open database")
	}
	defer db.Close()

	// ── 4. Build the indexer aggregate ────────────────────────────────────
	idx, err := indexer.New(cfg, db)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build indexer")
	}

	// ── 5. Rate limiters ───────────────────────────────────────────────────
	reqLimiter := ratelimit.NewRequestLimiter(ratelimit.RequestConfig{
		WindowDuration:       cfg.RateLimit.RequestWindow,
		MaxRequestsPerWindow: cfg.RateLimit.MaxRequestsPerWindow,
		CostHardLimit:        cfg.RateLimit.CostHardLimit,
	})
	subLimiter := ratelimit.NewSubscriptionLimiter(ratelimit.SubscriptionConfig{
		MaxSubsPerClient:   cfg.RateLimit.MaxSubsPerClient,
		SubRatePerSecond:   cfg.RateLimit.SubRateLimit,
		SubBurstLimit:      cfg.RateLimit.SubBurstLimit,
		ViolationThreshold: cfg.RateLimit.ViolationThreshold,
		BlockDuration:      cfg.RateLimit.BlockDuration,
	})

	// ── 6. Metrics collector ──────────────────────────────────────────────
	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.New()
	}

	// ── 7. Start RPC server ───────────────────────────────────────────────
	rpcServer := rpc.New(cfg.RPC.Addr, rpc.Config{
		Glyph:       idx.Glyph,
		Swap:        idx.Swap,
		Wave:        idx.Wave,
		DMint:       idx.DMint,
		Mempool:     idx.Mempool,
		Subs:        idx.Subs,
		SubLimiter:  subLimiter,
		ReqLimiter:  reqLimiter,
		Metrics:     collector,
		AllowedIPs:  cfg.RPC.AllowedIPs,
		CORSOrigins: cfg.RPC.CORSOrigins,
	})
	if err := rpcServer.Start(); err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.RPC.Addr).Msg("failed to start RPC server")
	}
	defer rpcServer.Stop()

	// ── 8. Startup banner ─────────────────────────────────────────────────
	logger.Info().
		Str("datadir", cfg.DataDir).
		Str("rpc_addr", cfg.RPC.Addr).
		Bool("wave_enabled", cfg.HasWaveGenesis()).
		Bool("metrics_enabled", cfg.Metrics.Enabled).
		Msg("rxindexerd started")

	// ── 9. Wait for shutdown ──────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	logger.Info().Msg("goodbye")
}
