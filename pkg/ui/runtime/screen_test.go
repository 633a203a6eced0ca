package runtime

import (
	"context"
	"testing"
	"time"

	gkerrors "github.com/odvcencio/gridkit/pkg/errors"
	"github.com/odvcencio/gridkit/pkg/performance"
	"github.com/odvcencio/gridkit/pkg/telemetry"
	"github.com/odvcencio/gridkit/pkg/ui/canvas"
	"github.com/odvcencio/gridkit/pkg/ui/draw"
	"github.com/odvcencio/gridkit/pkg/ui/geometry"
	"github.com/odvcencio/gridkit/pkg/ui/terminal"
	"github.com/odvcencio/gridkit/pkg/ui/theme"
)

// mockWidget paints its label at the top-left of its bounds.
type mockWidget struct {
	Leaf
	label    string
	focused  bool
	measures int
	layouts  int
	events   []Event
	result   any
	leakClip bool
	sleep    time.Duration
	theme    *theme.Theme
}

func (m *mockWidget) Measure(c geometry.Constraints) geometry.Size {
	m.measures++
	time.Sleep(m.sleep)
	return c.Biggest()
}

func (m *mockWidget) Layout(bounds geometry.Rect) LayoutResult {
	m.layouts++
	return m.Leaf.Layout(bounds)
}

func (m *mockWidget) Paint(c canvas.Canvas) {
	if m.leakClip {
		c.PushClip(m.Bounds())
	}
	c.DrawText(m.label, m.Bounds().Origin(), draw.TextStyle{Color: draw.White, Weight: draw.WeightNormal})
}

func (m *mockWidget) Event(ev Event) any {
	m.events = append(m.events, ev)
	return m.result
}

func (m *mockWidget) ApplyTheme(th *theme.Theme) { m.theme = th }

func (m *mockWidget) CanFocus() bool  { return true }
func (m *mockWidget) Focus()          { m.focused = true }
func (m *mockWidget) Blur()           { m.focused = false }
func (m *mockWidget) IsFocused() bool { return m.focused }

func render(t *testing.T, s *Screen) FrameStats {
	t.Helper()
	stats, err := s.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return stats
}

func TestScreen_RenderPaintsRoot(t *testing.T) {
	s := NewScreen(8, 2, ScreenOptions{})
	root := &mockWidget{label: "hello"}
	s.SetRoot(root)

	stats := render(t, s)
	if got := s.Buffer().Text(0); got != "hello   " {
		t.Errorf("row 0 = %q", got)
	}
	if !stats.Laid || root.measures != 1 || root.layouts != 1 {
		t.Errorf("first frame should lay out once: %+v measures=%d layouts=%d", stats, root.measures, root.layouts)
	}
	if root.Bounds() != geometry.R(0, 0, 8, 2) {
		t.Errorf("root bounds = %v", root.Bounds())
	}
	if s.Buffer().DirtyCount() != 16 {
		t.Errorf("first frame dirty = %d, want all 16", s.Buffer().DirtyCount())
	}
}

func TestScreen_StableRenderHasNoDirtyCells(t *testing.T) {
	s := NewScreen(6, 2, ScreenOptions{})
	root := &mockWidget{label: "abc"}
	s.SetRoot(root)

	render(t, s)
	s.Buffer().ClearDirty()

	stats := render(t, s)
	if stats.Laid {
		t.Error("layout should be skipped when nothing changed")
	}
	if stats.Dirty != 0 || s.Buffer().DirtyCount() != 0 {
		t.Fatalf("stable frame dirtied %d cells", s.Buffer().DirtyCount())
	}

	root.label = "abd"
	stats = render(t, s)
	if stats.Dirty != 1 || !s.Buffer().IsDirty(2, 0) {
		t.Errorf("changing one glyph should dirty one cell, got %d", stats.Dirty)
	}
}

func TestScreen_ResizeRelayouts(t *testing.T) {
	s := NewScreen(4, 2, ScreenOptions{})
	root := &mockWidget{label: "x"}
	s.SetRoot(root)
	render(t, s)

	s.Resize(4, 2)
	if stats := render(t, s); stats.Laid {
		t.Error("same-size resize should not relayout")
	}

	s.Resize(10, 3)
	stats := render(t, s)
	if !stats.Laid || root.Bounds() != geometry.R(0, 0, 10, 3) {
		t.Errorf("resize should relayout to 10x3, got %v", root.Bounds())
	}
	if w, h := s.Size(); w != 10 || h != 3 {
		t.Errorf("Size = %dx%d", w, h)
	}
	if s.Buffer().DirtyCount() != 30 {
		t.Errorf("resized buffer dirty = %d, want 30", s.Buffer().DirtyCount())
	}

	s.NeedsLayout()
	if stats := render(t, s); !stats.Laid {
		t.Error("NeedsLayout should force layout")
	}
}

func TestScreen_Layers(t *testing.T) {
	s := NewScreen(6, 1, ScreenOptions{})
	base := &mockWidget{label: "base"}
	overlay := &mockWidget{label: "TOP"}
	s.SetRoot(base)

	if s.PopLayer() {
		t.Error("base layer must not pop")
	}
	s.PushLayer(overlay, true)
	if s.LayerCount() != 2 || s.TopLayer().Root != overlay {
		t.Fatal("overlay not pushed")
	}

	render(t, s)
	if got := s.Buffer().Text(0); got != "TOPe  " {
		t.Errorf("overlay should paint over base, got %q", got)
	}

	s.HandleEvent(KeyDown{Key: terminal.KeyEnter})
	if len(overlay.events) != 1 || len(base.events) != 0 {
		t.Errorf("modal overlay should take input: overlay=%d base=%d", len(overlay.events), len(base.events))
	}

	if !s.PopLayer() || s.Root() != base {
		t.Fatal("PopLayer failed")
	}
	render(t, s)
	if got := s.Buffer().Text(0); got != "base  " {
		t.Errorf("after pop = %q", got)
	}
}

func TestScreen_NonModalLayerPassesInput(t *testing.T) {
	s := NewScreen(4, 1, ScreenOptions{})
	base := &mockWidget{label: "b", result: "base"}
	overlay := &mockWidget{label: "o"}
	s.SetRoot(base)
	s.PushLayer(overlay, false)

	if res := s.HandleEvent(Paste{Text: "x"}); res != "base" {
		t.Errorf("result = %v, want base", res)
	}
	if len(overlay.events) != 1 {
		t.Error("overlay should see the event first")
	}
}

func TestScreen_OverlayCommands(t *testing.T) {
	s := NewScreen(4, 1, ScreenOptions{})
	popup := &mockWidget{label: "p"}
	base := &mockWidget{label: "b", result: PushOverlay{Widget: popup, Modal: true}}
	s.SetRoot(base)

	s.HandleEvent(KeyDown{Key: terminal.KeyEnter})
	if s.LayerCount() != 2 {
		t.Fatal("PushOverlay result should push a layer")
	}
	popup.result = Batch{PopOverlay{}}
	s.HandleEvent(KeyDown{Key: terminal.KeyEscape})
	if s.LayerCount() != 1 {
		t.Error("PopOverlay in a batch should pop the layer")
	}
}

func TestScreen_FocusCommandsAndClicks(t *testing.T) {
	s := NewScreen(10, 2, ScreenOptions{})
	a := &mockWidget{label: "a"}
	b := &mockWidget{label: "b"}
	root := Columns(Item(a, Flex(1)), Item(b, Flex(1)))
	s.SetRoot(root)
	render(t, s)

	scope := s.FocusScope()
	if scope.Count() != 2 {
		t.Fatalf("focus scope has %d widgets", scope.Count())
	}

	a.result = FocusNext{}
	s.HandleEvent(KeyDown{Key: terminal.KeyTab})
	if scope.Current() != a {
		t.Error("FocusNext from nothing should focus the first widget")
	}

	a.result = nil
	s.HandleEvent(MouseDown{Pos: geometry.Pt(7, 1), Button: terminal.MouseLeft})
	if scope.Current() != b || !b.focused || a.focused {
		t.Error("click should focus the widget under the pointer")
	}
	if s.WidgetAt(7, 1) != b {
		t.Error("hit grid should resolve b")
	}

	b.result = FocusPrev{}
	s.HandleEvent(KeyDown{Key: terminal.KeyBacktab})
	if scope.Current() != a {
		t.Error("FocusPrev should move back to a")
	}
}

func TestScreen_SetTheme(t *testing.T) {
	hub := telemetry.NewHub()
	events, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	s := NewScreen(3, 1, ScreenOptions{Hub: hub})
	root := &mockWidget{label: "x"}
	s.SetRoot(root)
	if root.theme != s.Theme() {
		t.Fatal("SetRoot should apply the theme")
	}
	render(t, s)
	s.Buffer().ClearDirty()

	light := theme.DefaultTheme()
	light.Name = "light"
	s.SetTheme(light)
	s.SetTheme(nil)

	if s.Theme() != light || root.theme != light {
		t.Error("theme not applied")
	}
	if s.Buffer().DirtyCount() != 3 {
		t.Error("theme change should dirty the whole buffer")
	}

	for {
		select {
		case ev := <-events:
			if ev.Type != telemetry.EventThemeReloaded {
				continue
			}
			if ev.Data["name"] != "light" {
				t.Errorf("event = %+v", ev)
			}
			return
		case <-time.After(time.Second):
			t.Fatal("no theme event")
		}
	}
}

func TestScreen_DebugAssertionsCatchUnbalancedPaint(t *testing.T) {
	s := NewScreen(4, 1, ScreenOptions{DebugAssertions: true})
	s.SetRoot(&mockWidget{label: "x", leakClip: true})

	_, err := s.Render(context.Background())
	if !gkerrors.IsCode(err, gkerrors.ErrCodeUnbalancedStack) {
		t.Fatalf("err = %v, want unbalanced stack", err)
	}
	if s.Tracker() == nil {
		t.Error("debug screen should have a tracker")
	}

	plain := NewScreen(4, 1, ScreenOptions{})
	plain.SetRoot(&mockWidget{label: "x", leakClip: true})
	if _, err := plain.Render(context.Background()); err != nil {
		t.Errorf("without debug assertions paint errors are not checked: %v", err)
	}
	if plain.Tracker() != nil {
		t.Error("tracker should only exist with debug assertions")
	}
}

func TestScreen_BudgetViolationsRecorded(t *testing.T) {
	metrics := telemetry.NewMetrics()
	s := NewScreen(4, 1, ScreenOptions{
		DebugAssertions: true,
		Budget:          NewBudget(1, 1, 1),
		Metrics:         metrics,
	})
	s.SetRoot(&mockWidget{label: "slow", sleep: 5 * time.Millisecond})
	render(t, s)

	if got := s.Tracker().Violations(); got < 1 {
		t.Fatalf("violations = %d, want at least 1", got)
	}
	stats, ok := s.Tracker().Metrics().GetStats()[string(performance.PhaseMeasure)]
	if !ok || stats.Count != 1 {
		t.Errorf("measure stats = %+v, %v", stats, ok)
	}
}

func TestScreen_DirtyRatio(t *testing.T) {
	s := NewScreen(2, 2, ScreenOptions{})
	if got := s.DirtyRatio(); got != 1 {
		t.Errorf("new screen ratio = %v, want 1", got)
	}
	s.Buffer().ClearDirty()
	s.Buffer().MarkDirty(0, 0)
	if got := s.DirtyRatio(); got != 0.25 {
		t.Errorf("ratio = %v, want 0.25", got)
	}
	if got := NewScreen(0, 0, ScreenOptions{}).DirtyRatio(); got != 0 {
		t.Errorf("empty ratio = %v", got)
	}
}
