// Package metrics holds the Prometheus collectors the API exports at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	HTTPRequests           *prometheus.CounterVec
	HTTPLatency            *prometheus.HistogramVec
	StockDecrements        prometheus.Counter
	StockDecrementFailures *prometheus.CounterVec
	AudioUploads           *prometheus.CounterVec
}

// New builds the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		StockDecrements: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stock_decrements_total",
			Help: "Stock units consumed by approved transactions.",
		}),
		StockDecrementFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stock_decrement_failures_total",
			Help: "Stock updates that failed and were logged instead of failing the webhook.",
		}, []string{"stage"}),
		AudioUploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "audio_uploads_total",
			Help: "Audio uploads by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.HTTPRequests, m.HTTPLatency, m.StockDecrements, m.StockDecrementFailures, m.AudioUploads)
	return m
}

// NewNop returns collectors registered on a throwaway registry, for tests.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
