package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/odvcencio/gridkit/pkg/logging"
	"github.com/odvcencio/gridkit/pkg/performance"
	"github.com/odvcencio/gridkit/pkg/telemetry"
	"github.com/odvcencio/gridkit/pkg/ui/canvas"
	"github.com/odvcencio/gridkit/pkg/ui/compositor"
	"github.com/odvcencio/gridkit/pkg/ui/geometry"
	"github.com/odvcencio/gridkit/pkg/ui/theme"
)

// Themed is implemented by widgets that take colors from the screen theme.
// The screen applies the theme on SetRoot, PushLayer and SetTheme.
type Themed interface {
	ApplyTheme(th *theme.Theme)
}

// Layer is one widget tree in the overlay stack, with its own focus scope.
type Layer struct {
	Root  Widget
	Focus *FocusScope
	Modal bool // If true, blocks input to layers below
}

// ScreenOptions configures a Screen. Every field is optional.
type ScreenOptions struct {
	Theme *theme.Theme
	// DebugAssertions wraps paint in a canvas.Guard and checks phase times
	// against Budget.
	DebugAssertions bool
	// Budget applies when the root widget is not a Brick.
	Budget  BrickBudget
	Logger  *logging.Logger
	Metrics *telemetry.Metrics
	Hub     *telemetry.Hub
	Tracer  *telemetry.Tracer
}

// FrameStats describes one Render.
type FrameStats struct {
	Frame    uint64
	Laid     bool
	Dirty    int
	Measure  time.Duration
	Layout   time.Duration
	Paint    time.Duration
	Duration time.Duration
}

// Screen owns the widget layers and the cell buffers they render into.
// Each frame is painted from scratch into a back buffer; cells that differ
// from the front buffer are copied over and marked dirty, so the front
// buffer's dirty set is exactly what changed since the last flush.
type Screen struct {
	width, height int
	layers        []*Layer
	theme         *theme.Theme

	front *compositor.CellBuffer
	back  *compositor.CellBuffer
	dc    *compositor.DirectCanvas
	hits  *HitGrid

	needsLayout bool
	frame       uint64

	debug   bool
	budget  BrickBudget
	tracker *performance.Tracker
	log     *logging.Logger
	metrics *telemetry.Metrics
	hub     *telemetry.Hub
	tracer  *telemetry.Tracer
}

// NewScreen creates a screen of the given size.
func NewScreen(w, h int, opts ScreenOptions) *Screen {
	w, h = max(w, 0), max(h, 0)
	s := &Screen{
		width:       w,
		height:      h,
		theme:       opts.Theme,
		front:       compositor.NewCellBuffer(w, h),
		back:        compositor.NewCellBuffer(w, h),
		hits:        NewHitGrid(w, h),
		needsLayout: true,
		debug:       opts.DebugAssertions,
		budget:      opts.Budget,
		log:         opts.Logger,
		metrics:     opts.Metrics,
		hub:         opts.Hub,
		tracer:      opts.Tracer,
	}
	if s.theme == nil {
		s.theme = theme.DefaultTheme()
	}
	if s.budget == (BrickBudget{}) {
		s.budget = DefaultBudget()
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	s.dc = compositor.NewDirectCanvas(s.back)
	s.front.MarkAllDirty()
	if s.debug {
		s.tracker = performance.NewTracker(s.budget.Performance())
		s.tracker.OnViolation(s.reportViolation)
	}
	return s
}

// Size returns the screen dimensions.
func (s *Screen) Size() (w, h int) {
	return s.width, s.height
}

// Resize changes the screen dimensions. Both buffers are reallocated, the
// whole front buffer is dirty and layout runs on the next Render.
func (s *Screen) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	if w == s.width && h == s.height {
		return
	}
	s.width, s.height = w, h
	s.front.Resize(w, h)
	s.back.Resize(w, h)
	s.dc = compositor.NewDirectCanvas(s.back)
	s.hits.Resize(w, h)
	s.needsLayout = true
	s.hub.Publish(telemetry.Event{
		Type:  telemetry.EventResize,
		Frame: s.frame,
		Data:  map[string]any{"width": w, "height": h},
	})
}

// Buffer returns the front buffer, the one backends present.
func (s *Screen) Buffer() *compositor.CellBuffer {
	return s.front
}

// Theme returns the current theme.
func (s *Screen) Theme() *theme.Theme {
	return s.theme
}

// SetTheme swaps the theme, reapplies it to every layer and forces a full
// repaint.
func (s *Screen) SetTheme(th *theme.Theme) {
	if th == nil {
		return
	}
	s.theme = th
	for _, layer := range s.layers {
		applyTheme(layer.Root, th)
	}
	s.front.MarkAllDirty()
	s.hub.Publish(telemetry.Event{
		Type:  telemetry.EventThemeReloaded,
		Frame: s.frame,
		Data:  map[string]any{"name": th.Name},
	})
}

func applyTheme(root Widget, th *theme.Theme) {
	Walk(root, func(w Widget) bool {
		if t, ok := w.(Themed); ok {
			t.ApplyTheme(th)
		}
		return true
	})
}

// NeedsLayout requests measure and layout on the next Render.
func (s *Screen) NeedsLayout() {
	s.needsLayout = true
}

// SetRoot sets the root widget of the base layer.
func (s *Screen) SetRoot(root Widget) {
	if len(s.layers) == 0 {
		s.layers = append(s.layers, &Layer{Focus: NewFocusScope()})
	}
	s.layers[0].Root = root
	applyTheme(root, s.theme)
	s.needsLayout = true
}

// Root returns the base layer's root widget.
func (s *Screen) Root() Widget {
	if len(s.layers) == 0 {
		return nil
	}
	return s.layers[0].Root
}

// PushLayer adds a new layer on top of the stack.
func (s *Screen) PushLayer(root Widget, modal bool) {
	s.layers = append(s.layers, &Layer{Root: root, Focus: NewFocusScope(), Modal: modal})
	applyTheme(root, s.theme)
	s.needsLayout = true
}

// PopLayer removes the top layer. The base layer cannot be popped.
func (s *Screen) PopLayer() bool {
	if len(s.layers) <= 1 {
		return false
	}
	top := s.layers[len(s.layers)-1]
	top.Focus.ClearFocus()
	s.layers = s.layers[:len(s.layers)-1]
	s.needsLayout = true
	return true
}

// TopLayer returns the topmost layer.
func (s *Screen) TopLayer() *Layer {
	if len(s.layers) == 0 {
		return nil
	}
	return s.layers[len(s.layers)-1]
}

// LayerCount returns the number of layers.
func (s *Screen) LayerCount() int {
	return len(s.layers)
}

// FocusScope returns the focus scope of the top layer.
func (s *Screen) FocusScope() *FocusScope {
	if top := s.TopLayer(); top != nil {
		return top.Focus
	}
	return nil
}

// WidgetAt returns the topmost bounded widget covering the cell.
func (s *Screen) WidgetAt(x, y int) Widget {
	return s.hits.WidgetAt(x, y)
}

// Tracker returns the phase tracker, nil unless debug assertions are on.
func (s *Screen) Tracker() *performance.Tracker {
	return s.tracker
}

// DirtyRatio is the fraction of front-buffer cells waiting to be flushed.
func (s *Screen) DirtyRatio() float64 {
	n := s.front.Len()
	if n == 0 {
		return 0
	}
	return float64(s.front.DirtyCount()) / float64(n)
}

func (s *Screen) subject() string {
	if b, ok := s.Root().(Brick); ok {
		return b.BrickName()
	}
	if root := s.Root(); root != nil {
		return fmt.Sprintf("%T", root)
	}
	return "screen"
}

func (s *Screen) reportViolation(v performance.Violation) {
	s.metrics.RecordViolation(v.Widget, string(v.Phase))
	s.hub.Publish(telemetry.Event{
		Type:  telemetry.EventBudgetViolation,
		Frame: s.frame,
		Data: map[string]any{
			"widget": v.Widget,
			"phase":  string(v.Phase),
			"budget": v.Budget.String(),
			"actual": v.Actual.String(),
		},
	})
	s.log.WithFrame(s.frame).WithWidget(v.Widget).Warn("frame budget exceeded",
		"phase", string(v.Phase), "budget", v.Budget, "actual", v.Actual)
}

// phase runs fn inside a trace span and records its duration.
func (s *Screen) phase(ctx context.Context, p performance.Phase, fn func()) time.Duration {
	_, span := s.tracer.StartPhase(ctx, string(p))
	defer span.End()

	var d time.Duration
	if s.tracker != nil {
		d = s.tracker.Time(s.subject(), p, fn)
	} else {
		start := time.Now()
		fn()
		d = time.Since(start)
	}
	s.metrics.ObservePhase(string(p), d)
	return d
}

// Render runs one frame: measure and layout when needed, then paint into
// the back buffer and copy the changes to the front buffer. With debug
// assertions on, an unbalanced paint returns ErrCodeUnbalancedStack.
func (s *Screen) Render(ctx context.Context) (FrameStats, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s.frame++
	start := time.Now()
	stats := FrameStats{Frame: s.frame}

	ctx, span := s.tracer.StartFrame(ctx, s.frame, s.width, s.height)
	defer span.End()

	bounds := geometry.R(0, 0, float64(s.width), float64(s.height))
	if s.needsLayout {
		stats.Measure = s.phase(ctx, performance.PhaseMeasure, func() {
			for _, layer := range s.layers {
				if layer.Root != nil {
					layer.Root.Measure(geometry.Tight(bounds.Size()))
				}
			}
		})
		stats.Layout = s.phase(ctx, performance.PhaseLayout, func() {
			s.hits.Clear()
			for _, layer := range s.layers {
				if layer.Root == nil {
					continue
				}
				layer.Root.Layout(bounds)
				layer.Focus.Rebuild(layer.Root)
				s.hits.AddTree(layer.Root)
			}
		})
		s.needsLayout = false
		stats.Laid = true
	}

	var paintErr error
	stats.Paint = s.phase(ctx, performance.PhasePaint, func() {
		s.back.Clear()
		s.dc.Reset()
		for _, layer := range s.layers {
			if layer.Root == nil {
				continue
			}
			if !s.debug {
				layer.Root.Paint(s.dc)
				continue
			}
			guard := canvas.NewGuard(s.dc)
			if err := guard.Check(layer.Root.Paint); err != nil && paintErr == nil {
				paintErr = err
			}
			// Leave the canvas balanced for the next layer.
			s.dc.Reset()
		}
	})

	stats.Dirty = s.sync()
	stats.Duration = time.Since(start)

	span.SetAttributes(telemetry.AttrDirtyCells.Int(stats.Dirty))
	s.metrics.RecordFrame(s.front.DirtyCount())
	s.hub.Publish(telemetry.Event{
		Type:  telemetry.EventFrameRendered,
		Frame: s.frame,
		Data: map[string]any{
			"dirty":    stats.Dirty,
			"laid_out": stats.Laid,
			"duration": stats.Duration.String(),
		},
	})

	if paintErr != nil {
		span.RecordError(paintErr)
		s.log.WithFrame(s.frame).WithError(paintErr).Error("paint left canvas unbalanced")
	}
	return stats, paintErr
}

// sync copies every back-buffer cell that differs from the front buffer
// and returns how many changed.
func (s *Screen) sync() int {
	back := s.back.Cells()
	front := s.front.Cells()
	changed := 0
	for i := range back {
		if back[i].Equal(front[i]) {
			continue
		}
		x, y := s.front.Coords(i)
		s.front.Set(x, y, back[i])
		changed++
	}
	return changed
}

// HandleEvent dispatches ev to the layers from the top down. A modal layer
// stops the search. Commands the screen understands (focus and overlay
// changes) are applied here; the result is returned either way.
func (s *Screen) HandleEvent(ev Event) any {
	if down, ok := ev.(MouseDown); ok {
		s.focusAt(down.Pos)
	}

	var result any
	for i := len(s.layers) - 1; i >= 0; i-- {
		layer := s.layers[i]
		if layer.Root != nil {
			result = layer.Root.Event(ev)
			if result != nil {
				break
			}
		}
		if layer.Modal {
			break
		}
	}
	if cmd, ok := result.(Command); ok {
		s.apply(cmd)
	}
	return result
}

func (s *Screen) focusAt(pos geometry.Point) {
	scope := s.FocusScope()
	if scope == nil {
		return
	}
	if f, ok := s.hits.WidgetAt(int(pos.X), int(pos.Y)).(Focusable); ok {
		scope.SetFocus(f)
	}
}

func (s *Screen) apply(cmd Command) {
	switch c := cmd.(type) {
	case FocusNext:
		if scope := s.FocusScope(); scope != nil {
			scope.FocusNext()
		}
	case FocusPrev:
		if scope := s.FocusScope(); scope != nil {
			scope.FocusPrev()
		}
	case PushOverlay:
		s.PushLayer(c.Widget, c.Modal)
	case PopOverlay:
		s.PopLayer()
	case Batch:
		for _, sub := range c {
			s.apply(sub)
		}
	}
}
