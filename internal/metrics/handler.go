package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the http.Handler a host process mounts at /metrics.
// Owning the HTTP server itself is out of scope for this core (core spec
// §4.10's ambient note) — it only hands back the handler.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one RPC request's outcome and latency.
func (c *Collector) ObserveRequest(method string, duration time.Duration, err error) {
	c.RequestsTotal.WithLabelValues(method).Inc()
	c.RequestLatency.WithLabelValues(method).Observe(duration.Seconds())
	if err != nil {
		c.RequestErrors.WithLabelValues(method).Inc()
	}
}

// ObserveBlock records one block's processing duration and updates the
// height gauge.
func (c *Collector) ObserveBlock(height uint32, duration time.Duration) {
	c.BlocksProcessed.Inc()
	c.BlockProcessingMS.Observe(duration.Seconds())
	c.BlockHeight.Set(float64(height))
}
