// Package telemetry publishes frame events, Prometheus frame metrics and
// OpenTelemetry frame spans.
package telemetry

import (
	"sync"
	"sync/atomic"
	"time"
)

const subscriberBuffer = 64

// EventType identifies the kind of telemetry event.
type EventType string

const (
	EventFrameRendered   EventType = "frame.rendered"
	EventFrameFlushed    EventType = "frame.flushed"
	EventFlushFailed     EventType = "frame.flush_failed"
	EventBudgetViolation EventType = "budget.violation"
	EventResize          EventType = "screen.resize"
	EventThemeReloaded   EventType = "theme.reloaded"
)

// Event describes a runtime occurrence that debug overlays and tests can
// consume.
type Event struct {
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Frame     uint64         `json:"frame,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

type subscriber struct {
	ch    chan Event
	types map[EventType]struct{}
}

func (s *subscriber) wants(t EventType) bool {
	if len(s.types) == 0 {
		return true
	}
	_, ok := s.types[t]
	return ok
}

// Hub delivers frame events to subscribers. A slow subscriber loses events
// rather than stalling the render loop; Dropped counts them.
type Hub struct {
	mu      sync.RWMutex
	subs    map[*subscriber]struct{}
	closed  bool
	dropped atomic.Uint64
}

// NewHub constructs a telemetry hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// Publish stamps event and hands it to every interested subscriber without
// blocking. Safe on a nil Hub.
func (h *Hub) Publish(event Event) {
	if h == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	for sub := range h.subs {
		if !sub.wants(event.Type) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			h.dropped.Add(1)
		}
	}
}

// Subscribe returns a channel of future events of the given types (all types
// when none are given) and a func that unsubscribes and closes the channel.
func (h *Hub) Subscribe(types ...EventType) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		empty := make(chan Event)
		close(empty)
		return empty, func() {}
	}
	sub := &subscriber{ch: make(chan Event, subscriberBuffer)}
	if len(types) > 0 {
		sub.types = make(map[EventType]struct{}, len(types))
		for _, t := range types {
			sub.types[t] = struct{}{}
		}
	}
	h.subs[sub] = struct{}{}
	return sub.ch, func() { h.unsubscribe(sub) }
}

func (h *Hub) unsubscribe(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.ch)
	}
}

// Dropped reports how many deliveries were skipped because a subscriber's
// buffer was full.
func (h *Hub) Dropped() uint64 {
	if h == nil {
		return 0
	}
	return h.dropped.Load()
}

// Close closes every subscription. Later publishes are ignored.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		close(sub.ch)
		delete(h.subs, sub)
	}
}
