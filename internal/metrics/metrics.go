// Package metrics exposes Prometheus instrumentation for the evaluation loop.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors for one engine process.
type Metrics struct {
	CyclesTotal   prometheus.Counter
	AlertsTotal   *prometheus.CounterVec
	Suppressions  *prometheus.CounterVec
	CycleDuration prometheus.Histogram
	FeedReconnect prometheus.Counter
}

// New registers all collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CyclesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "alert_engine_cycles_total",
			Help: "Number of evaluation cycles run.",
		}),
		AlertsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "alert_engine_alerts_total",
			Help: "Alerts emitted, by alert type.",
		}, []string{"type"}),
		Suppressions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "alert_engine_suppressions_total",
			Help: "Alert-free cycles, by suppression reason.",
		}, []string{"reason"}),
		CycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "alert_engine_cycle_duration_seconds",
			Help:    "Wall time of one evaluation cycle.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
		FeedReconnect: factory.NewCounter(prometheus.CounterOpts{
			Name: "alert_engine_feed_reconnects_total",
			Help: "Market data stream reconnect attempts.",
		}),
	}
}
