package performance

import (
	"strings"
	"testing"
	"time"
)

func TestTrackOperation(t *testing.T) {
	m := NewMetrics()

	m.TrackOperation("paint", 100*time.Microsecond)
	m.TrackOperation("paint", 200*time.Microsecond)
	m.TrackOperation("paint", 150*time.Microsecond)

	stats := m.GetStats()
	if len(stats) != 1 {
		t.Errorf("Expected 1 operation in stats, got %d", len(stats))
	}

	paint, exists := stats["paint"]
	if !exists {
		t.Fatal("paint should exist in stats")
	}
	if paint.Count != 3 {
		t.Errorf("Expected count 3, got %d", paint.Count)
	}
	if paint.MinTime != 100*time.Microsecond {
		t.Errorf("Expected min 100µs, got %v", paint.MinTime)
	}
	if paint.MaxTime != 200*time.Microsecond {
		t.Errorf("Expected max 200µs, got %v", paint.MaxTime)
	}
	if paint.AverageTime != 150*time.Microsecond {
		t.Errorf("Expected avg 150µs, got %v", paint.AverageTime)
	}
}

func TestTrackOperation_BoundedSamples(t *testing.T) {
	m := NewMetrics()

	for i := 0; i < maxSamples+100; i++ {
		m.TrackOperation("flush", time.Duration(i)*time.Microsecond)
	}

	stats := m.GetStats()["flush"]
	if stats.Count != int64(maxSamples+100) {
		t.Errorf("Count should be exact, got %d", stats.Count)
	}
	if stats.MinTime != 100*time.Microsecond {
		t.Errorf("oldest samples should be dropped, min = %v", stats.MinTime)
	}
}

func TestTimer(t *testing.T) {
	m := NewMetrics()

	timer := m.StartTimer("layout")
	time.Sleep(5 * time.Millisecond)
	d := timer.Stop()

	if d < 5*time.Millisecond {
		t.Errorf("Stop returned %v, want at least 5ms", d)
	}
	layout := m.GetStats()["layout"]
	if layout.Count != 1 {
		t.Errorf("Expected count 1, got %d", layout.Count)
	}
	if layout.AverageTime < 5*time.Millisecond {
		t.Errorf("Expected at least 5ms, got %v", layout.AverageTime)
	}
}

func TestTimer_WithError(t *testing.T) {
	m := NewMetrics()

	m.StartTimer("flush").StopWithError()

	flush := m.GetStats()["flush"]
	if flush.Count != 1 || flush.Errors != 1 {
		t.Errorf("Expected 1 sample with 1 error, got %d/%d", flush.Count, flush.Errors)
	}
}

func TestReset(t *testing.T) {
	m := NewMetrics()

	m.TrackOperation("measure", time.Millisecond)
	m.TrackError("measure")
	if len(m.GetStats()) != 1 {
		t.Fatal("Should have 1 operation before reset")
	}

	m.Reset()

	if len(m.GetStats()) != 0 {
		t.Error("Should have 0 operations after reset")
	}
}

func TestPercentile(t *testing.T) {
	sorted := make([]time.Duration, 10)
	for i := range sorted {
		sorted[i] = time.Duration(i+1) * 10 * time.Millisecond
	}

	tests := []struct {
		p    float64
		want time.Duration
	}{
		{0.50, 60 * time.Millisecond},
		{0.95, 100 * time.Millisecond},
		{0.99, 100 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := percentile(sorted, tt.p); got != tt.want {
			t.Errorf("percentile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if percentile(nil, 0.5) != 0 {
		t.Error("empty input should give 0")
	}
}

func TestFormatStats(t *testing.T) {
	m := NewMetrics()

	m.TrackOperation("paint", 100*time.Millisecond)
	m.TrackOperation("measure", 200*time.Millisecond)
	m.TrackError("paint")

	formatted := FormatStats(m.GetStats())

	for _, want := range []string{"paint:", "Count", "errors", "Avg", "P50"} {
		if !strings.Contains(formatted, want) {
			t.Errorf("FormatStats output missing %q", want)
		}
	}
	if strings.Index(formatted, "measure:") > strings.Index(formatted, "paint:") {
		t.Error("operations should be listed by name")
	}
}

func TestConcurrentTracking(t *testing.T) {
	m := NewMetrics()

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				m.TrackOperation("concurrent", time.Millisecond)
			}
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	if got := m.GetStats()["concurrent"].Count; got != 1000 {
		t.Errorf("Expected count 1000, got %d", got)
	}
}

func BenchmarkTrackOperation(b *testing.B) {
	m := NewMetrics()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		m.TrackOperation("bench", time.Millisecond)
	}
}

func BenchmarkGetStats(b *testing.B) {
	m := NewMetrics()
	for i := 0; i < 1000; i++ {
		m.TrackOperation("paint", time.Duration(i)*time.Microsecond)
		m.TrackOperation("flush", time.Duration(i)*time.Microsecond)
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		m.GetStats()
	}
}
