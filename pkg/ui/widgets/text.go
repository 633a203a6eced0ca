package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/gridkit/pkg/ui/canvas"
	"github.com/odvcencio/gridkit/pkg/ui/draw"
	"github.com/odvcencio/gridkit/pkg/ui/geometry"
	"github.com/odvcencio/gridkit/pkg/ui/runtime"
	"github.com/odvcencio/gridkit/pkg/ui/theme"
)

// Alignment specifies text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// defaultTextColor is used before a theme is applied.
var defaultTextColor = draw.RGB(0.8, 0.8, 0.8)

// Text is a single-line label. A zero Color follows the theme's text color.
type Text struct {
	Base
	Content string
	Color   draw.Color
	Weight  draw.FontWeight
	Align   Alignment

	themeColor draw.Color
}

// NewText creates a new text widget.
func NewText(content string) *Text {
	return &Text{
		Content:    content,
		Weight:     draw.WeightNormal,
		themeColor: defaultTextColor,
	}
}

// SetContent updates the displayed text.
func (t *Text) SetContent(content string) {
	if t.Content != content {
		t.Content = content
		t.Invalidate()
	}
}

// WithColor sets the color and returns the widget for chaining.
func (t *Text) WithColor(c draw.Color) *Text {
	t.Color = c
	return t
}

// Bold sets a bold weight and returns the widget for chaining.
func (t *Text) Bold() *Text {
	t.Weight = draw.WeightBold
	return t
}

// WithAlignment sets alignment and returns for chaining.
func (t *Text) WithAlignment(align Alignment) *Text {
	t.Align = align
	return t
}

// ApplyTheme implements runtime.Themed.
func (t *Text) ApplyTheme(th *theme.Theme) {
	t.themeColor = th.Text
}

// Foreground is the color the text paints with.
func (t *Text) Foreground() draw.Color {
	return pick(t.Color, pick(t.themeColor, defaultTextColor))
}

// Measure returns one row as wide as the content, capped by the constraints.
func (t *Text) Measure(c geometry.Constraints) geometry.Size {
	width := min(float64(runewidth.StringWidth(t.Content)), c.MaxWidth)
	height := min(1, c.MaxHeight)
	return c.Constrain(geometry.Sz(width, height))
}

// Paint draws the text, truncated with "..." when it does not fit.
func (t *Text) Paint(c canvas.Canvas) {
	width, height := t.cells()
	if width < 1 || height < 1 {
		return
	}

	content := truncateString(t.Content, width)
	n := runewidth.StringWidth(content)
	offset := 0
	switch t.Align {
	case AlignCenter:
		offset = max(width-n, 0) / 2
	case AlignRight:
		offset = max(width-n, 0)
	}

	style := draw.TextStyle{Size: 1, Color: t.Foreground(), Weight: t.Weight}
	if style.Weight == 0 {
		style.Weight = draw.WeightNormal
	}
	pos := geometry.Pt(t.bounds.X+float64(offset), t.bounds.Y)
	c.DrawText(content, pos, style)
}

func (t *Text) BrickName() string { return "text" }

func (t *Text) Assertions() []runtime.BrickAssertion {
	return []runtime.BrickAssertion{runtime.TextVisible(), runtime.MaxLatencyMs(1)}
}

func (t *Text) Budget() runtime.BrickBudget { return runtime.UniformBudget(1) }

// Verify checks that non-empty text has a visible color.
func (t *Text) Verify() runtime.BrickVerification {
	v := runtime.StartVerify()
	fg := t.Foreground()
	v.Check(runtime.TextVisible(), t.Content == "" || !fg.IsTransparent(),
		"text %q painted with transparent color", t.Content)
	v.Check(runtime.MaxLatencyMs(1), true, "")
	return v.Done()
}

func (t *Text) CanRender() bool { return t.Verify().IsValid() }
