package telemetry

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishSubscribe(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	ch, unsub := hub.Subscribe()
	defer unsub()

	hub.Publish(Event{Type: EventFrameRendered, Frame: 7, Data: map[string]any{"dirty": 12}})

	select {
	case received := <-ch:
		assert.Equal(t, EventFrameRendered, received.Type)
		assert.Equal(t, uint64(7), received.Frame)
		assert.Equal(t, 12, received.Data["dirty"])
		assert.False(t, received.Timestamp.IsZero())
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for event")
	}
}

func TestHub_MultipleSubscribers(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	ch1, unsub1 := hub.Subscribe()
	defer unsub1()
	ch2, unsub2 := hub.Subscribe()
	defer unsub2()

	hub.Publish(Event{Type: EventResize})

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case received := <-ch:
			assert.Equal(t, EventResize, received.Type)
		case <-time.After(100 * time.Millisecond):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestHub_PresetTimestampKept(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	ch, unsub := hub.Subscribe()
	defer unsub()

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	hub.Publish(Event{Type: EventThemeReloaded, Timestamp: ts})
	assert.Equal(t, ts, (<-ch).Timestamp)
}

func TestHub_DropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	ch, unsub := hub.Subscribe()
	defer unsub()

	for i := 0; i < 100; i++ {
		hub.Publish(Event{Type: EventFrameFlushed})
	}
	assert.Equal(t, 64, len(ch))
	assert.Equal(t, uint64(36), hub.Dropped())
}

func TestHub_SubscribeFiltersTypes(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	ch, unsub := hub.Subscribe(EventBudgetViolation, EventFlushFailed)
	defer unsub()

	hub.Publish(Event{Type: EventFrameRendered})
	hub.Publish(Event{Type: EventBudgetViolation, Frame: 3})
	hub.Publish(Event{Type: EventFrameFlushed})

	require.Equal(t, 1, len(ch))
	got := <-ch
	assert.Equal(t, EventBudgetViolation, got.Type)
	assert.Equal(t, uint64(3), got.Frame)
	assert.Zero(t, hub.Dropped(), "filtered events are not drops")
}

func TestHub_UnsubscribeAndClose(t *testing.T) {
	hub := NewHub()

	ch, unsub := hub.Subscribe()
	unsub()
	unsub()
	_, open := <-ch
	assert.False(t, open)

	ch2, _ := hub.Subscribe()
	hub.Close()
	hub.Close()
	_, open = <-ch2
	assert.False(t, open)

	ch3, _ := hub.Subscribe()
	_, open = <-ch3
	assert.False(t, open, "subscribing after close yields a closed channel")

	hub.Publish(Event{Type: EventFrameRendered})
}

func TestHub_NilPublish(t *testing.T) {
	var hub *Hub
	hub.Publish(Event{Type: EventFrameRendered})
	assert.Zero(t, hub.Dropped())
}

func TestMetrics_Record(t *testing.T) {
	m := NewMetrics()

	m.RecordFrame(40)
	m.RecordFrame(12)
	m.RecordFlush(12, 300)
	m.RecordFlushError()
	m.RecordViolation("bar", "paint")
	m.RecordViolation("bar", "paint")
	m.ObservePhase("paint", 2*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Frames))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.DirtyCells))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.CellsFlushed))
	assert.Equal(t, 300.0, testutil.ToFloat64(m.BytesFlushed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FlushErrors))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BudgetViolations.WithLabelValues("bar", "paint")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.FrameDuration))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordFrame(1)
	m.RecordFlush(1, 1)
	m.RecordFlushError()
	m.RecordViolation("x", "paint")
	m.ObservePhase("paint", time.Millisecond)
}

func TestMetrics_PrivateRegistries(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	a.RecordFrame(1)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Frames))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.RecordFlush(5, 50)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "gridkit_cells_flushed_total 5")
	assert.Contains(t, body, "gridkit_bytes_flushed_total 50")
}

func TestMetrics_ServeStopsOnCancel(t *testing.T) {
	m := NewMetrics()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- m.Serve(ctx, "127.0.0.1:0") }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestTracer_FrameSpans(t *testing.T) {
	var out bytes.Buffer
	tr, err := NewTracer("gridkit-test", "dev", &out)
	require.NoError(t, err)

	ctx, frame := tr.StartFrame(context.Background(), 3, 80, 24)
	_, paint := tr.StartPhase(ctx, "paint")
	paint.End()
	frame.End()
	require.NoError(t, tr.Shutdown(context.Background()))

	lines := strings.Count(strings.TrimSpace(out.String()), "\n") + 1
	assert.Equal(t, 2, lines, "one JSON document per span")
	assert.Contains(t, out.String(), `"Name":"paint"`)
	assert.Contains(t, out.String(), "gridkit.frame")
}

func TestTracer_NilIsNoop(t *testing.T) {
	var tr *Tracer
	ctx, span := tr.StartFrame(context.Background(), 1, 1, 1)
	_, child := tr.StartPhase(ctx, "layout")
	child.End()
	span.End()
	assert.False(t, span.SpanContext().IsValid())
	assert.NoError(t, tr.Shutdown(context.Background()))
}
