package widgets

import (
	"github.com/odvcencio/gridkit/pkg/ui/canvas"
	"github.com/odvcencio/gridkit/pkg/ui/draw"
	"github.com/odvcencio/gridkit/pkg/ui/geometry"
	"github.com/odvcencio/gridkit/pkg/ui/runtime"
	"github.com/odvcencio/gridkit/pkg/ui/theme"
)

// MinContrast is the WCAG AA ratio for normal text.
const MinContrast = 4.5

var defaultPanelColor = draw.RGB(0.1, 0.1, 0.1)

// foregrounder is implemented by widgets that paint text in one color.
type foregrounder interface {
	Foreground() draw.Color
}

// Panel fills its background and hosts one child over the full area. A
// zero Color follows the theme's surface color.
type Panel struct {
	Base
	Color draw.Color
	Child runtime.Widget

	themeColor draw.Color
}

// NewPanel creates a new panel widget.
func NewPanel(child runtime.Widget) *Panel {
	return &Panel{Child: child}
}

// WithColor sets the background and returns for chaining.
func (p *Panel) WithColor(c draw.Color) *Panel {
	p.Color = c
	return p
}

// ApplyTheme implements runtime.Themed.
func (p *Panel) ApplyTheme(th *theme.Theme) {
	p.themeColor = th.Surface
}

// Background is the fill color.
func (p *Panel) Background() draw.Color {
	return pick(p.Color, pick(p.themeColor, defaultPanelColor))
}

// Measure returns the child's size.
func (p *Panel) Measure(c geometry.Constraints) geometry.Size {
	if p.Child == nil {
		return c.Smallest()
	}
	return p.Child.Measure(c)
}

// Layout assigns bounds to the panel and child.
func (p *Panel) Layout(bounds geometry.Rect) runtime.LayoutResult {
	res := p.Base.Layout(bounds)
	if p.Child != nil {
		p.Child.Layout(bounds)
	}
	return res
}

// Paint draws the background and child.
func (p *Panel) Paint(c canvas.Canvas) {
	if p.bounds.IsEmpty() {
		return
	}
	c.FillRect(p.bounds, p.Background())
	if p.Child != nil {
		c.PushClip(p.bounds)
		p.Child.Paint(c)
		c.PopClip()
	}
}

// Event delegates to child.
func (p *Panel) Event(ev runtime.Event) any {
	return runtime.Dispatch(ev, p.Child)
}

func (p *Panel) Children() []runtime.Widget {
	if p.Child == nil {
		return nil
	}
	return []runtime.Widget{p.Child}
}

func (p *Panel) BrickName() string { return "panel" }

func (p *Panel) Assertions() []runtime.BrickAssertion {
	return []runtime.BrickAssertion{runtime.ContrastRatio(MinContrast), runtime.MaxLatencyMs(16)}
}

func (p *Panel) Budget() runtime.BrickBudget { return runtime.DefaultBudget() }

// Verify checks the contrast between the background and a text child.
func (p *Panel) Verify() runtime.BrickVerification {
	v := runtime.StartVerify()
	ratio := MinContrast
	if fg, ok := p.Child.(foregrounder); ok {
		ratio = fg.Foreground().ContrastRatio(p.Background())
	}
	v.Check(runtime.ContrastRatio(MinContrast), ratio >= MinContrast,
		"contrast %.2f below %.1f", ratio, MinContrast)
	v.Check(runtime.MaxLatencyMs(16), true, "")
	return v.Done()
}

func (p *Panel) CanRender() bool { return p.Verify().IsValid() }
