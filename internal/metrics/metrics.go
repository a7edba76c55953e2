// Package metrics collects and exposes Prometheus metrics for the
// ledger client and the token service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers counters for transaction broadcasts, read-only
// contract calls and share-token activity.
type Collector struct {
	broadcastSuccess prometheus.Counter
	broadcastFail    prometheus.Counter
	readStatus       *prometheus.CounterVec
	readLatency      prometheus.Histogram
	tokensIssued     prometheus.Counter
	tokenRejects     *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with the
// given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		broadcastSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "educhain_broadcast_success_total",
			Help: "Total number of accepted transaction broadcasts",
		}),
		broadcastFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "educhain_broadcast_fail_total",
			Help: "Total number of rejected or failed broadcasts",
		}),
		readStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "educhain_read_call_status_total",
			Help: "Read-only contract call responses by HTTP status code",
		}, []string{"status_code"}),
		readLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "educhain_read_call_latency_seconds",
			Help:    "Read-only contract call latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		tokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "educhain_share_tokens_issued_total",
			Help: "Total number of share tokens issued",
		}),
		tokenRejects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "educhain_share_token_rejects_total",
			Help: "Share token validation failures by reason",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		c.broadcastSuccess,
		c.broadcastFail,
		c.readStatus,
		c.readLatency,
		c.tokensIssued,
		c.tokenRejects,
	)

	return c
}

// RecordBroadcast records the outcome of one transaction broadcast.
func (c *Collector) RecordBroadcast(success bool) {
	if success {
		c.broadcastSuccess.Inc()
		return
	}
	c.broadcastFail.Inc()
}

// RecordReadCall records the status code and latency of one read-only
// contract call.
func (c *Collector) RecordReadCall(statusCode int, duration time.Duration) {
	c.readStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.readLatency.Observe(duration.Seconds())
}

// RecordTokenIssued records one issued share token.
func (c *Collector) RecordTokenIssued() {
	c.tokensIssued.Inc()
}

// RecordTokenReject records one rejected share token by reason.
func (c *Collector) RecordTokenReject(reason string) {
	c.tokenRejects.WithLabelValues(reason).Inc()
}

// Handler returns the HTTP handler serving Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
