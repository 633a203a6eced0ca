package runtime

import (
	"fmt"
	"time"

	gkerrors "github.com/odvcencio/gridkit/pkg/errors"
	"github.com/odvcencio/gridkit/pkg/performance"
)

// AssertionKind identifies what a BrickAssertion checks.
type AssertionKind int

const (
	AssertTextVisible AssertionKind = iota
	AssertContrastRatio
	AssertMaxLatency
	AssertElementPresent
	AssertFocusable
	AssertCustom
)

func (k AssertionKind) String() string {
	switch k {
	case AssertTextVisible:
		return "text_visible"
	case AssertContrastRatio:
		return "contrast_ratio"
	case AssertMaxLatency:
		return "max_latency"
	case AssertElementPresent:
		return "element_present"
	case AssertFocusable:
		return "focusable"
	case AssertCustom:
		return "custom"
	}
	return fmt.Sprintf("AssertionKind(%d)", int(k))
}

// BrickAssertion is one property a brick promises to hold. Ratio is used by
// ContrastRatio, Ms by MaxLatencyMs, Name by ElementPresent (a selector) and
// Custom.
type BrickAssertion struct {
	Kind  AssertionKind
	Ratio float64
	Ms    int
	Name  string
}

func TextVisible() BrickAssertion { return BrickAssertion{Kind: AssertTextVisible} }

func ContrastRatio(min float64) BrickAssertion {
	return BrickAssertion{Kind: AssertContrastRatio, Ratio: min}
}

func MaxLatencyMs(ms int) BrickAssertion { return BrickAssertion{Kind: AssertMaxLatency, Ms: ms} }

func ElementPresent(selector string) BrickAssertion {
	return BrickAssertion{Kind: AssertElementPresent, Name: selector}
}

func FocusableAssertion() BrickAssertion { return BrickAssertion{Kind: AssertFocusable} }

func Custom(name string) BrickAssertion { return BrickAssertion{Kind: AssertCustom, Name: name} }

func (a BrickAssertion) String() string {
	switch a.Kind {
	case AssertContrastRatio:
		return fmt.Sprintf("contrast_ratio(%.2f)", a.Ratio)
	case AssertMaxLatency:
		return fmt.Sprintf("max_latency(%dms)", a.Ms)
	case AssertElementPresent, AssertCustom:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Name)
	}
	return a.Kind.String()
}

// BrickBudget is the time allowed per phase, in milliseconds.
type BrickBudget struct {
	MeasureMs int
	LayoutMs  int
	PaintMs   int
	TotalMs   int
}

// UniformBudget splits total evenly over measure, layout and paint.
func UniformBudget(totalMs int) BrickBudget {
	third := totalMs / 3
	return BrickBudget{MeasureMs: third, LayoutMs: third, PaintMs: third, TotalMs: totalMs}
}

// NewBudget builds a budget whose total is the sum of the phases.
func NewBudget(measureMs, layoutMs, paintMs int) BrickBudget {
	return BrickBudget{
		MeasureMs: measureMs,
		LayoutMs:  layoutMs,
		PaintMs:   paintMs,
		TotalMs:   measureMs + layoutMs + paintMs,
	}
}

// DefaultBudget is one 60 Hz frame.
func DefaultBudget() BrickBudget { return UniformBudget(16) }

// BudgetFromDuration converts a frame allowance into a uniform budget.
func BudgetFromDuration(total time.Duration) BrickBudget {
	return UniformBudget(int(total / time.Millisecond))
}

// Duration returns the total as a time.Duration.
func (b BrickBudget) Duration() time.Duration {
	return time.Duration(b.TotalMs) * time.Millisecond
}

// Phase returns the budget for one phase.
func (b BrickBudget) Phase(p BrickPhase) time.Duration {
	switch p {
	case PhaseMeasure:
		return time.Duration(b.MeasureMs) * time.Millisecond
	case PhaseLayout:
		return time.Duration(b.LayoutMs) * time.Millisecond
	case PhasePaint:
		return time.Duration(b.PaintMs) * time.Millisecond
	}
	return b.Duration()
}

// Performance converts the budget for a performance.Tracker.
func (b BrickBudget) Performance() performance.Budget {
	return performance.Budget{
		Measure: b.Phase(PhaseMeasure),
		Layout:  b.Phase(PhaseLayout),
		Paint:   b.Phase(PhasePaint),
	}
}

// BrickPhase is a stage of the frame a brick is timed in.
type BrickPhase int

const (
	PhaseMeasure BrickPhase = iota
	PhaseLayout
	PhasePaint
)

func (p BrickPhase) String() string {
	return string(p.performance())
}

func (p BrickPhase) performance() performance.Phase {
	switch p {
	case PhaseLayout:
		return performance.PhaseLayout
	case PhasePaint:
		return performance.PhasePaint
	}
	return performance.PhaseMeasure
}

// BudgetViolation reports a brick running over its budget.
type BudgetViolation struct {
	Brick  string
	Phase  BrickPhase
	Budget BrickBudget
	Actual time.Duration
}

func (v BudgetViolation) Error() string {
	return fmt.Sprintf("budget exceeded for %s: %s took %v (budget %v)",
		v.Brick, v.Phase, v.Actual, v.Budget.Phase(v.Phase))
}

// CheckBudget compares actual with the brick's phase budget. A zero budget
// never fails.
func CheckBudget(name string, budget BrickBudget, phase BrickPhase, actual time.Duration) (BudgetViolation, bool) {
	limit := budget.Phase(phase)
	if limit <= 0 || actual <= limit {
		return BudgetViolation{}, false
	}
	return BudgetViolation{Brick: name, Phase: phase, Budget: budget, Actual: actual}, true
}

// AssertionFailure is an assertion that did not hold and why.
type AssertionFailure struct {
	Assertion BrickAssertion
	Reason    string
}

// BrickVerification is the outcome of Brick.Verify.
type BrickVerification struct {
	Passed   []BrickAssertion
	Failed   []AssertionFailure
	Duration time.Duration
}

// IsValid reports whether nothing failed.
func (v BrickVerification) IsValid() bool {
	return len(v.Failed) == 0
}

// Score is the fraction of assertions that passed, 1 when there were none.
func (v BrickVerification) Score() float64 {
	total := len(v.Passed) + len(v.Failed)
	if total == 0 {
		return 1
	}
	return float64(len(v.Passed)) / float64(total)
}

// Verifier accumulates assertion results for a Verify implementation.
type Verifier struct {
	start time.Time
	v     BrickVerification
}

// StartVerify begins timing a verification.
func StartVerify() *Verifier {
	return &Verifier{start: time.Now()}
}

// Check records a as passed when ok, failed with reason otherwise.
func (r *Verifier) Check(a BrickAssertion, ok bool, reason string, args ...any) {
	if ok {
		r.v.Passed = append(r.v.Passed, a)
		return
	}
	if len(args) > 0 {
		reason = fmt.Sprintf(reason, args...)
	}
	r.v.Failed = append(r.v.Failed, AssertionFailure{Assertion: a, Reason: reason})
}

// Done stops the clock and returns the result.
func (r *Verifier) Done() BrickVerification {
	r.v.Duration = time.Since(r.start)
	return r.v
}

// Brick is a widget that can verify its own invariants.
type Brick interface {
	BrickName() string
	Assertions() []BrickAssertion
	Budget() BrickBudget
	Verify() BrickVerification
	// CanRender is usually Verify().IsValid().
	CanRender() bool
}

// BrickFailure is a failed assertion found by VerifyTree.
type BrickFailure struct {
	Brick   string
	Failure AssertionFailure
}

func (f BrickFailure) String() string {
	return fmt.Sprintf("%s: %s: %s", f.Brick, f.Failure.Assertion, f.Failure.Reason)
}

// TreeVerification is the combined result of verifying a widget tree.
type TreeVerification struct {
	Bricks   int
	Passed   int
	Failures []BrickFailure
}

// IsValid reports whether every brick passed.
func (t TreeVerification) IsValid() bool { return len(t.Failures) == 0 }

// Err returns an ErrCodeVerifyFailed error listing the failures, or nil.
func (t TreeVerification) Err() error {
	if t.IsValid() {
		return nil
	}
	err := gkerrors.Newf(gkerrors.ErrCodeVerifyFailed, "%d of %d bricks failed verification",
		t.failedBricks(), t.Bricks)
	for i, f := range t.Failures {
		err = err.WithContext(fmt.Sprintf("failure_%d", i), f.String())
	}
	return err
}

func (t TreeVerification) failedBricks() int {
	seen := map[string]struct{}{}
	for _, f := range t.Failures {
		seen[f.Brick] = struct{}{}
	}
	return len(seen)
}

// VerifyTree verifies every Brick under root.
func VerifyTree(root Widget) TreeVerification {
	var out TreeVerification
	Walk(root, func(w Widget) bool {
		b, ok := w.(Brick)
		if !ok {
			return true
		}
		out.Bricks++
		v := b.Verify()
		out.Passed += len(v.Passed)
		for _, f := range v.Failed {
			out.Failures = append(out.Failures, BrickFailure{Brick: b.BrickName(), Failure: f})
		}
		return true
	})
	return out
}
