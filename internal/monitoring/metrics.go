// internal/monitoring/metrics.go
package monitoring

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector manages Prometheus metrics for the conformance harness.
type Collector struct {
	registry *prometheus.Registry

	checksTotal      *prometheus.CounterVec
	checkDuration    *prometheus.HistogramVec
	navigationsTotal prometheus.Counter
	traversalsTotal  prometheus.Counter
	waitPollsTotal   prometheus.Counter

	startedAt time.Time
	server    *http.Server
}

// Config configuration for metrics exposure.
type Config struct {
	Enabled       bool   `yaml:"enabled" json:"enabled"`
	Namespace     string `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	ListenAddress string `yaml:"listen_address,omitempty" json:"listen_address,omitempty"`
}

// NewCollector creates a metrics collector with its own registry, so harness
// tests can build collectors freely without duplicate registration.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "bidiconformer"
	}

	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		checksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Conformance checks run, by check name and status",
		}, []string{"check", "status"}),
		checkDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "check_duration_seconds",
			Help:      "Duration of conformance checks",
			Buckets:   prometheus.DefBuckets,
		}, []string{"check"}),
		navigationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "navigations_total",
			Help:      "Seed navigations issued against the session",
		}),
		traversalsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_traversals_total",
			Help:      "History traversal commands issued against the session",
		}),
		waitPollsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wait_polls_total",
			Help:      "URL convergence polls performed by wait helpers",
		}),
		startedAt: time.Now(),
	}
}

// RecordCheck records a finished check.
func (c *Collector) RecordCheck(check, status string, duration time.Duration) {
	if c == nil {
		return
	}
	c.checksTotal.WithLabelValues(check, status).Inc()
	c.checkDuration.WithLabelValues(check).Observe(duration.Seconds())
}

// RecordNavigation counts a seed navigation.
func (c *Collector) RecordNavigation() {
	if c == nil {
		return
	}
	c.navigationsTotal.Inc()
}

// RecordTraversal counts a history traversal command.
func (c *Collector) RecordTraversal() {
	if c == nil {
		return
	}
	c.traversalsTotal.Inc()
}

// RecordWaitPoll counts one URL convergence poll.
func (c *Collector) RecordWaitPoll() {
	if c == nil {
		return
	}
	c.waitPollsTotal.Inc()
}

// Handler returns the HTTP handler exposing /metrics and /health.
func (c *Collector) Handler() http.Handler {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/health", c.handleHealth).Methods(http.MethodGet)
	return r
}

// Serve exposes the metrics endpoint on the given address.
func (c *Collector) Serve(addr string) error {
	c.server = &http.Server{
		Addr:    addr,
		Handler: c.Handler(),
	}
	go c.server.ListenAndServe()
	return nil
}

// Shutdown stops the metrics endpoint if one is serving.
func (c *Collector) Shutdown(ctx context.Context) error {
	if c.server == nil {
		return nil
	}
	return c.server.Shutdown(ctx)
}

// Gather exposes the underlying registry for tests.
func (c *Collector) Gather() prometheus.Gatherer {
	return c.registry
}
