package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	gkerrors "github.com/odvcencio/gridkit/pkg/errors"
)

// Metrics holds the frame collectors. Each instance owns a private registry
// so several screens (and tests) never collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	FrameDuration    *prometheus.HistogramVec
	Frames           prometheus.Counter
	CellsFlushed     prometheus.Counter
	BytesFlushed     prometheus.Counter
	DirtyCells       prometheus.Gauge
	FlushErrors      prometheus.Counter
	BudgetViolations *prometheus.CounterVec
}

// NewMetrics creates and registers the frame collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		FrameDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "gridkit",
				Name:      "frame_duration_seconds",
				Help:      "Duration of each frame phase in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12), // 50µs to ~100ms
			},
			[]string{"phase"},
		),
		Frames: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "gridkit",
			Name:      "frames_total",
			Help:      "Total number of frames rendered",
		}),
		CellsFlushed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "gridkit",
			Name:      "cells_flushed_total",
			Help:      "Total number of cells written to the terminal",
		}),
		BytesFlushed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "gridkit",
			Name:      "bytes_flushed_total",
			Help:      "Total bytes of terminal output",
		}),
		DirtyCells: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "gridkit",
			Name:      "dirty_cells",
			Help:      "Dirty cells in the last painted frame",
		}),
		FlushErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "gridkit",
			Name:      "flush_errors_total",
			Help:      "Total number of failed flushes",
		}),
		BudgetViolations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gridkit",
				Name:      "budget_violations_total",
				Help:      "Frame phases that exceeded their latency budget",
			},
			[]string{"widget", "phase"},
		),
	}
}

// Registry exposes the private registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObservePhase records one phase duration.
func (m *Metrics) ObservePhase(phase string, d time.Duration) {
	if m == nil {
		return
	}
	m.FrameDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// RecordFrame counts a painted frame and its dirty cell count.
func (m *Metrics) RecordFrame(dirty int) {
	if m == nil {
		return
	}
	m.Frames.Inc()
	m.DirtyCells.Set(float64(dirty))
}

// RecordFlush counts flushed cells and bytes.
func (m *Metrics) RecordFlush(cells, bytes int) {
	if m == nil {
		return
	}
	m.CellsFlushed.Add(float64(cells))
	m.BytesFlushed.Add(float64(bytes))
}

// RecordFlushError counts a failed flush.
func (m *Metrics) RecordFlushError() {
	if m == nil {
		return
	}
	m.FlushErrors.Inc()
}

// RecordViolation counts a budget overrun.
func (m *Metrics) RecordViolation(widget, phase string) {
	if m == nil {
		return
	}
	m.BudgetViolations.WithLabelValues(widget, phase).Inc()
}

// Handler returns the exposition handler for the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return gkerrors.Wrap(err, gkerrors.ErrCodeInternal, "serve metrics").WithContext("addr", addr)
	}
}
