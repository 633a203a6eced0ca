package performance

import (
	"fmt"
	"sync"
	"time"
)

// Phase names one stage of a frame.
type Phase string

const (
	PhaseMeasure Phase = "measure"
	PhaseLayout  Phase = "layout"
	PhasePaint   Phase = "paint"
	PhaseFlush   Phase = "flush"
)

// Budget is the allowed duration per phase. A zero entry is unlimited.
type Budget struct {
	Measure time.Duration
	Layout  time.Duration
	Paint   time.Duration
	Flush   time.Duration
}

// For returns the budget for a phase.
func (b Budget) For(phase Phase) time.Duration {
	switch phase {
	case PhaseMeasure:
		return b.Measure
	case PhaseLayout:
		return b.Layout
	case PhasePaint:
		return b.Paint
	case PhaseFlush:
		return b.Flush
	}
	return 0
}

// FrameBudget splits a whole-frame allowance evenly over measure, layout and
// paint. Flush is left unlimited since it depends on the terminal.
func FrameBudget(total time.Duration) Budget {
	third := total / 3
	return Budget{Measure: third, Layout: third, Paint: third}
}

// Violation records a phase that ran over its budget.
type Violation struct {
	Widget string
	Phase  Phase
	Budget time.Duration
	Actual time.Duration
}

func (v Violation) String() string {
	return fmt.Sprintf("%s %s took %v (budget %v)", v.Widget, v.Phase, v.Actual, v.Budget)
}

// Tracker times frame phases into Metrics and reports budget overruns.
type Tracker struct {
	metrics *Metrics
	budget  Budget

	mu          sync.Mutex
	onViolation func(Violation)
	violations  int64
}

// NewTracker creates a tracker with the given budget.
func NewTracker(budget Budget) *Tracker {
	return &Tracker{metrics: NewMetrics(), budget: budget}
}

// Metrics returns the underlying operation metrics.
func (t *Tracker) Metrics() *Metrics { return t.metrics }

// Budget returns the configured budget.
func (t *Tracker) Budget() Budget { return t.budget }

// OnViolation registers a callback for budget overruns.
func (t *Tracker) OnViolation(fn func(Violation)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onViolation = fn
}

// Time runs fn, records its duration under the phase name and checks it
// against the budget. The subject names what ran, usually the root widget.
func (t *Tracker) Time(subject string, phase Phase, fn func()) time.Duration {
	timer := t.metrics.StartTimer(string(phase))
	fn()
	d := timer.Stop()
	t.Check(subject, phase, d)
	return d
}

// Check compares a measured duration with the budget and reports a
// violation when it is over.
func (t *Tracker) Check(subject string, phase Phase, actual time.Duration) (Violation, bool) {
	limit := t.budget.For(phase)
	if limit <= 0 || actual <= limit {
		return Violation{}, false
	}
	v := Violation{Widget: subject, Phase: phase, Budget: limit, Actual: actual}

	t.mu.Lock()
	t.violations++
	fn := t.onViolation
	t.mu.Unlock()

	if fn != nil {
		fn(v)
	}
	return v, true
}

// Violations returns how many overruns were reported.
func (t *Tracker) Violations() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.violations
}
