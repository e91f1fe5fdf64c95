package proxy

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rileyhilliard/actop/internal/access"
)

// MetricsPath serves the proxy's own counters. It is never forwarded.
const MetricsPath = "/_actop/metrics"

// metrics holds the proxy's counters on a private registry so several
// servers in one process (tests, mostly) don't collide.
type metrics struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	upstreamErrors prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "actop_proxy_requests_total",
			Help: "Requests seen by the proxy, by guard decision.",
		}, []string{"decision"}),
		upstreamErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "actop_proxy_upstream_errors_total",
			Help: "Requests that failed to reach the target application.",
		}),
	}
	m.registry.MustRegister(m.requests, m.upstreamErrors)
	return m
}

func (m *metrics) observe(d access.Decision) {
	m.requests.WithLabelValues(string(d)).Inc()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
