// Package metrics registers the Prometheus collectors of core spec §4.10,
// grounded on original_source/electrumx/server/metrics.py's MetricNames
// constant list. Unlike the original, which hand-rolls counter/gauge/
// histogram dicts and its own text formatter (no client library was
// available to it), this package uses real
// github.com/prometheus/client_golang collectors against a private
// registry, exposed via promhttp.HandlerFor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector owns every Prometheus collector this core registers, scoped to
// its own registry so a host process can mount it alongside its own metrics
// without name collisions.
type Collector struct {
	Registry *prometheus.Registry

	SessionsTotal  prometheus.Counter
	SessionsActive prometheus.Gauge
	RequestsTotal  *prometheus.CounterVec
	RequestErrors  *prometheus.CounterVec
	RequestLatency *prometheus.HistogramVec

	BlocksProcessed   prometheus.Counter
	BlockProcessingMS prometheus.Histogram
	BlockHeight       prometheus.Gauge

	DBSizeBytes prometheus.Gauge
	DBReadOps   prometheus.Counter
	DBWriteOps  prometheus.Counter

	GlyphTokensIndexed    prometheus.Counter
	GlyphTransfersIndexed prometheus.Counter
	GlyphCacheSize        prometheus.Gauge
	GlyphCacheHits        prometheus.Counter
	GlyphCacheMisses      prometheus.Counter

	WaveNamesIndexed  prometheus.Counter
	WaveResolutions   prometheus.Counter
	WaveResolutionSec prometheus.Histogram

	SwapOrdersIndexed prometheus.Counter
	SwapOrdersActive  prometheus.Gauge
	SwapFillsIndexed  prometheus.Counter

	MempoolTxs       prometheus.Gauge
	MempoolSizeBytes prometheus.Gauge

	SubscriptionsActive        prometheus.Gauge
	SubscriptionNotifications  prometheus.Counter
}

// New registers and returns every collector against a fresh private
// registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Collector{
		Registry: reg,

		SessionsTotal:  f.NewCounter(prometheus.CounterOpts{Name: "rxindexer_sessions_total", Help: "Total sessions opened"}),
		SessionsActive: f.NewGauge(prometheus.GaugeOpts{Name: "rxindexer_sessions_active", Help: "Currently active sessions"}),
		RequestsTotal:  f.NewCounterVec(prometheus.CounterOpts{Name: "rxindexer_requests_total", Help: "RPC requests by method"}, []string{"method"}),
		RequestErrors:  f.NewCounterVec(prometheus.CounterOpts{Name: "rxindexer_requests_errors_total", Help: "RPC request errors by method"}, []string{"method"}),
		RequestLatency: f.NewHistogramVec(prometheus.HistogramOpts{Name: "rxindexer_request_duration_seconds", Help: "RPC request duration by method"}, []string{"method"}),

		BlocksProcessed:   f.NewCounter(prometheus.CounterOpts{Name: "rxindexer_blocks_processed_total", Help: "Total blocks processed"}),
		BlockProcessingMS: f.NewHistogram(prometheus.HistogramOpts{Name: "rxindexer_block_processing_seconds", Help: "Block processing duration"}),
		BlockHeight:       f.NewGauge(prometheus.GaugeOpts{Name: "rxindexer_block_height", Help: "Current indexed block height"}),

		DBSizeBytes: f.NewGauge(prometheus.GaugeOpts{Name: "rxindexer_db_size_bytes", Help: "Database size in bytes"}),
		DBReadOps:   f.NewCounter(prometheus.CounterOpts{Name: "rxindexer_db_read_ops_total", Help: "Total database read operations"}),
		DBWriteOps:  f.NewCounter(prometheus.CounterOpts{Name: "rxindexer_db_write_ops_total", Help: "Total database write operations"}),

		GlyphTokensIndexed:    f.NewCounter(prometheus.CounterOpts{Name: "rxindexer_glyph_tokens_indexed_total", Help: "Total Glyph tokens indexed"}),
		GlyphTransfersIndexed: f.NewCounter(prometheus.CounterOpts{Name: "rxindexer_glyph_transfers_indexed_total", Help: "Total Glyph transfers indexed"}),
		GlyphCacheSize:        f.NewGauge(prometheus.GaugeOpts{Name: "rxindexer_glyph_cache_size", Help: "Glyph in-memory cache size"}),
		GlyphCacheHits:        f.NewCounter(prometheus.CounterOpts{Name: "rxindexer_glyph_cache_hits_total", Help: "Glyph cache hits"}),
		GlyphCacheMisses:      f.NewCounter(prometheus.CounterOpts{Name: "rxindexer_glyph_cache_misses_total", Help: "Glyph cache misses"}),

		WaveNamesIndexed:  f.NewCounter(prometheus.CounterOpts{Name: "rxindexer_wave_names_indexed_total", Help: "Total WAVE names indexed"}),
		WaveResolutions:   f.NewCounter(prometheus.CounterOpts{Name: "rxindexer_wave_resolutions_total", Help: "Total WAVE name resolutions served"}),
		WaveResolutionSec: f.NewHistogram(prometheus.HistogramOpts{Name: "rxindexer_wave_resolution_seconds", Help: "WAVE name resolution duration"}),

		SwapOrdersIndexed: f.NewCounter(prometheus.CounterOpts{Name: "rxindexer_swap_orders_indexed_total", Help: "Total swap orders indexed"}),
		SwapOrdersActive:  f.NewGauge(prometheus.GaugeOpts{Name: "rxindexer_swap_orders_active", Help: "Currently open swap orders"}),
		SwapFillsIndexed:  f.NewCounter(prometheus.CounterOpts{Name: "rxindexer_swap_fills_indexed_total", Help: "Total swap fills indexed"}),

		MempoolTxs:       f.NewGauge(prometheus.GaugeOpts{Name: "rxindexer_mempool_txs", Help: "Unconfirmed transactions tracked"}),
		MempoolSizeBytes: f.NewGauge(prometheus.GaugeOpts{Name: "rxindexer_mempool_size_bytes", Help: "Unconfirmed transaction bytes tracked"}),

		SubscriptionsActive:       f.NewGauge(prometheus.GaugeOpts{Name: "rxindexer_subscriptions_active", Help: "Active subscriptions"}),
		SubscriptionNotifications: f.NewCounter(prometheus.CounterOpts{Name: "rxindexer_subscription_notifications_total", Help: "Total subscription notifications delivered"}),
	}
}
