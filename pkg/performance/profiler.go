// Package performance records frame phase timings and checks them against
// latency budgets.
package performance

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"
)

// maxSamples bounds the per-operation history used for percentiles.
const maxSamples = 512

// Metrics tracks durations per named operation (frame phases, widget paints).
type Metrics struct {
	mu                 sync.RWMutex
	operationDurations map[string][]time.Duration
	operationCounts    map[string]int64
	errors             map[string]int64
	startTime          time.Time
}

// NewMetrics creates a new metrics tracker
func NewMetrics() *Metrics {
	return &Metrics{
		operationDurations: make(map[string][]time.Duration),
		operationCounts:    make(map[string]int64),
		errors:             make(map[string]int64),
		startTime:          time.Now(),
	}
}

// TrackOperation records the duration of an operation. Only the most recent
// samples are kept for percentile calculation; the count is exact.
func (m *Metrics) TrackOperation(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	samples := append(m.operationDurations[name], duration)
	if len(samples) > maxSamples {
		samples = samples[len(samples)-maxSamples:]
	}
	m.operationDurations[name] = samples
	m.operationCounts[name]++
}

// TrackError records an error for an operation
func (m *Metrics) TrackError(operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errors[operation]++
}

// GetStats returns aggregated statistics
func (m *Metrics) GetStats() map[string]OperationStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := make(map[string]OperationStats)

	for name, durations := range m.operationDurations {
		if len(durations) == 0 {
			continue
		}

		var total time.Duration
		for _, d := range durations {
			total += d
		}

		sorted := slices.Clone(durations)
		slices.Sort(sorted)

		stats[name] = OperationStats{
			Count:       m.operationCounts[name],
			Errors:      m.errors[name],
			TotalTime:   total,
			AverageTime: total / time.Duration(len(durations)),
			MinTime:     sorted[0],
			MaxTime:     sorted[len(sorted)-1],
			P50:         percentile(sorted, 0.50),
			P95:         percentile(sorted, 0.95),
			P99:         percentile(sorted, 0.99),
		}
	}

	return stats
}

// OperationStats holds statistics for an operation. Time fields cover the
// retained samples.
type OperationStats struct {
	Count       int64
	Errors      int64
	TotalTime   time.Duration
	AverageTime time.Duration
	MinTime     time.Duration
	MaxTime     time.Duration
	P50         time.Duration
	P95         time.Duration
	P99         time.Duration
}

// Uptime returns how long the metrics have been tracking
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.startTime)
}

// Reset clears all metrics
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.operationDurations = make(map[string][]time.Duration)
	m.operationCounts = make(map[string]int64)
	m.errors = make(map[string]int64)
	m.startTime = time.Now()
}

// Timer provides easy duration tracking
type Timer struct {
	start   time.Time
	metrics *Metrics
	name    string
}

// StartTimer creates a new timer
func (m *Metrics) StartTimer(name string) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: m,
		name:    name,
	}
}

// Stop stops the timer, records the duration and returns it.
func (t *Timer) Stop() time.Duration {
	duration := time.Since(t.start)
	t.metrics.TrackOperation(t.name, duration)
	return duration
}

// StopWithError stops the timer and records an error
func (t *Timer) StopWithError() time.Duration {
	duration := t.Stop()
	t.metrics.TrackError(t.name)
	return duration
}

// percentile expects sorted input.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// FormatStats formats operation stats for display, sorted by name.
func FormatStats(stats map[string]OperationStats) string {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		s := stats[name]
		errorRate := 0.0
		if s.Count > 0 {
			errorRate = float64(s.Errors) / float64(s.Count) * 100
		}

		fmt.Fprintf(&b, "%s:\n", name)
		fmt.Fprintf(&b, "  Count: %d (%.1f%% errors)\n", s.Count, errorRate)
		fmt.Fprintf(&b, "  Avg: %v, Min: %v, Max: %v\n", s.AverageTime, s.MinTime, s.MaxTime)
		fmt.Fprintf(&b, "  P50: %v, P95: %v, P99: %v\n", s.P50, s.P95, s.P99)
		b.WriteString("\n")
	}
	return b.String()
}
