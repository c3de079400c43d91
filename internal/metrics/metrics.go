// Package metrics defines the prometheus collectors of the lexis IPC server
// and the HTTP handler that exposes them.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors updated by the IPC server.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResultsCount    *prometheus.HistogramVec
	IndexedKeys     prometheus.Gauge
	IndexedKeywords prometheus.Gauge

	registry *prometheus.Registry
}

// New creates the collectors and registers them on a fresh registry, so
// several servers can live in one process (and in tests).
func New() *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lexis",
				Name:      "requests_total",
				Help:      "Total IPC requests by operation and status (ok, error).",
			},
			[]string{"op", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "lexis",
				Name:      "request_duration_seconds",
				Help:      "IPC request latency in seconds.",
				Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
			[]string{"op"},
		),
		ResultsCount: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "lexis",
				Name:      "results_count",
				Help:      "Number of results returned per search or autocomplete request.",
				Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
			},
			[]string{"op"},
		),
		IndexedKeys: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "lexis",
				Name:      "indexed_keys",
				Help:      "Number of live keys in the index.",
			},
		),
		IndexedKeywords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "lexis",
				Name:      "indexed_keywords",
				Help:      "Number of distinct keywords in the index.",
			},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.ResultsCount,
		m.IndexedKeys,
		m.IndexedKeywords,
	)
	return m
}

// Observe records one finished request.
func (m *Metrics) Observe(op string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.RequestsTotal.WithLabelValues(op, status).Inc()
	m.RequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ObserveResults records the size of a result list.
func (m *Metrics) ObserveResults(op string, n int) {
	if m == nil {
		return
	}
	m.ResultsCount.WithLabelValues(op).Observe(float64(n))
}

// SetIndexSize updates the index gauges.
func (m *Metrics) SetIndexSize(keys, keywords int) {
	if m == nil {
		return
	}
	m.IndexedKeys.Set(float64(keys))
	m.IndexedKeywords.Set(float64(keywords))
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the prometheus scrape handler for these collectors.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Debug("metrics server listening", "addr", addr)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
