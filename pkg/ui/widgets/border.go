package widgets

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/gridkit/pkg/ui/canvas"
	"github.com/odvcencio/gridkit/pkg/ui/draw"
	"github.com/odvcencio/gridkit/pkg/ui/geometry"
	"github.com/odvcencio/gridkit/pkg/ui/runtime"
	"github.com/odvcencio/gridkit/pkg/ui/theme"
)

// BorderStyle selects the box-drawing characters of a Border.
type BorderStyle int

const (
	BorderSingle BorderStyle = iota
	BorderDouble
	BorderRounded
	BorderHeavy
	BorderASCII
	BorderNone
)

var borderStyleNames = [...]string{"single", "double", "rounded", "heavy", "ascii", "none"}

func (s BorderStyle) String() string {
	if s >= 0 && int(s) < len(borderStyleNames) {
		return borderStyleNames[s]
	}
	return fmt.Sprintf("BorderStyle(%d)", int(s))
}

// ParseBorderStyle accepts the names printed by String.
func ParseBorderStyle(name string) (BorderStyle, error) {
	for i, n := range borderStyleNames {
		if strings.EqualFold(name, n) {
			return BorderStyle(i), nil
		}
	}
	return BorderSingle, fmt.Errorf("unknown border style %q", name)
}

// borderChars lists corners and edges for one style.
type borderChars struct {
	topLeft, top, topRight string
	left, right            string
	bottomLeft, bottom     string
	bottomRight            string
}

func (s BorderStyle) chars() borderChars {
	switch s {
	case BorderDouble:
		return borderChars{"╔", "═", "╗", "║", "║", "╚", "═", "╝"}
	case BorderRounded:
		return borderChars{"╭", "─", "╮", "│", "│", "╰", "─", "╯"}
	case BorderHeavy:
		return borderChars{"┏", "━", "┓", "┃", "┃", "┗", "━", "┛"}
	case BorderASCII:
		return borderChars{"+", "-", "+", "|", "|", "+", "-", "+"}
	case BorderNone:
		return borderChars{" ", " ", " ", " ", " ", " ", " ", " "}
	}
	return borderChars{"┌", "─", "┐", "│", "│", "└", "─", "┘"}
}

var (
	defaultBorderColor = draw.RGB(0.4, 0.5, 0.6)
	defaultTitleColor  = draw.RGB(0.8, 0.9, 1.0)
)

// Border frames a child with box-drawing characters and an optional title
// in the top edge. Zero colors follow the theme.
type Border struct {
	Base
	Style      BorderStyle
	Title      string
	TitleLeft  bool
	Color      draw.Color
	TitleColor draw.Color
	Fill       *draw.Color
	Child      runtime.Widget

	theme *theme.Theme
}

// NewBorder creates a single-line border around child, which may be nil.
func NewBorder(child runtime.Widget) *Border {
	return &Border{Child: child}
}

// RoundedBorder is a rounded border with a left-aligned title.
func RoundedBorder(title string, child runtime.Widget) *Border {
	return &Border{Style: BorderRounded, Title: title, TitleLeft: true, Child: child}
}

// WithStyle sets the style and returns for chaining.
func (b *Border) WithStyle(s BorderStyle) *Border {
	b.Style = s
	return b
}

// WithTitle sets title and returns for chaining.
func (b *Border) WithTitle(title string) *Border {
	b.Title = title
	return b
}

// WithColor sets the frame color and returns for chaining.
func (b *Border) WithColor(c draw.Color) *Border {
	b.Color = c
	return b
}

// WithTitleColor sets the title color and returns for chaining.
func (b *Border) WithTitleColor(c draw.Color) *Border {
	b.TitleColor = c
	return b
}

// WithFill paints the whole area with c before the frame.
func (b *Border) WithFill(c draw.Color) *Border {
	b.Fill = &c
	return b
}

// ApplyTheme implements runtime.Themed.
func (b *Border) ApplyTheme(th *theme.Theme) {
	b.theme = th
}

func (b *Border) frameColor() draw.Color {
	if b.theme != nil {
		return pick(b.Color, b.theme.Border)
	}
	return pick(b.Color, defaultBorderColor)
}

func (b *Border) titleColor() draw.Color {
	if b.theme != nil {
		return pick(b.TitleColor, b.theme.Text)
	}
	return pick(b.TitleColor, defaultTitleColor)
}

// InnerRect is the area left for the child.
func (b *Border) InnerRect() geometry.Rect {
	if b.Style == BorderNone {
		return b.bounds
	}
	return geometry.R(b.bounds.X+1, b.bounds.Y+1, max(b.bounds.Width-2, 0), max(b.bounds.Height-2, 0))
}

// Measure wraps the child's size in the frame. Without a child the border
// asks for up to 20x5.
func (b *Border) Measure(c geometry.Constraints) geometry.Size {
	if b.Child == nil {
		return c.Constrain(geometry.Sz(min(c.MaxWidth, 20), min(c.MaxHeight, 5)))
	}
	inset := 2.0
	if b.Style == BorderNone {
		inset = 0
	}
	child := b.Child.Measure(c.Deflate(inset, inset))
	return c.Constrain(geometry.Sz(child.Width+inset, child.Height+inset))
}

// Layout positions the border and lays out the child in InnerRect.
func (b *Border) Layout(bounds geometry.Rect) runtime.LayoutResult {
	res := b.Base.Layout(bounds)
	if b.Child != nil {
		b.Child.Layout(b.InnerRect())
	}
	return res
}

// Paint draws the frame, then the child clipped to InnerRect. Nothing is
// drawn below 2x2.
func (b *Border) Paint(c canvas.Canvas) {
	width, height := b.cells()
	if width < 2 || height < 2 {
		return
	}
	if b.Fill != nil {
		c.FillRect(b.bounds, *b.Fill)
	}

	if b.Style != BorderNone {
		chars := b.Style.chars()
		style := draw.TextStyle{Size: 1, Color: b.frameColor(), Weight: draw.WeightNormal}
		x, y := b.bounds.X, b.bounds.Y

		b.paintTop(c, width, chars, style)
		for row := 1; row < height-1; row++ {
			c.DrawText(chars.left, geometry.Pt(x, y+float64(row)), style)
			c.DrawText(chars.right, geometry.Pt(x+float64(width-1), y+float64(row)), style)
		}
		bottom := chars.bottomLeft + strings.Repeat(chars.bottom, width-2) + chars.bottomRight
		c.DrawText(bottom, geometry.Pt(x, y+float64(height-1)), style)
	}

	if b.Child != nil {
		c.PushClip(b.InnerRect())
		b.Child.Paint(c)
		c.PopClip()
	}
}

func (b *Border) paintTop(c canvas.Canvas, width int, chars borderChars, style draw.TextStyle) {
	x, y := b.bounds.X, b.bounds.Y

	room := width - 3
	if !b.TitleLeft {
		room = width - 4
	}
	title := ""
	if b.Title != "" && room > 0 {
		title = truncateTitle(b.Title, room)
	}
	if title == "" {
		c.DrawText(chars.topLeft+strings.Repeat(chars.top, width-2)+chars.topRight, geometry.Pt(x, y), style)
		return
	}

	titleStyle := style
	titleStyle.Color = b.titleColor()
	n := runewidth.StringWidth(title)

	var lead int
	var label string
	if b.TitleLeft {
		label = " " + title
	} else {
		lead = (width - 4 - n) / 2
		label = " " + title + " "
	}
	c.DrawText(chars.topLeft+strings.Repeat(chars.top, lead), geometry.Pt(x, y), style)
	c.DrawText(label, geometry.Pt(x+float64(1+lead), y), titleStyle)

	after := 1 + lead + runewidth.StringWidth(label)
	rest := strings.Repeat(chars.top, max(width-after-1, 0)) + chars.topRight
	c.DrawText(rest, geometry.Pt(x+float64(after), y), style)
}

// Event forwards to the child.
func (b *Border) Event(ev runtime.Event) any {
	return runtime.Dispatch(ev, b.Child)
}

func (b *Border) Children() []runtime.Widget {
	if b.Child == nil {
		return nil
	}
	return []runtime.Widget{b.Child}
}

func (b *Border) BrickName() string { return "border" }

func (b *Border) Assertions() []runtime.BrickAssertion {
	return []runtime.BrickAssertion{runtime.MaxLatencyMs(16), runtime.TextVisible()}
}

func (b *Border) Budget() runtime.BrickBudget { return runtime.DefaultBudget() }

func (b *Border) Verify() runtime.BrickVerification {
	v := runtime.StartVerify()
	v.Check(runtime.MaxLatencyMs(16), true, "")
	v.Check(runtime.TextVisible(), b.Title == "" || !b.titleColor().IsTransparent(),
		"title %q has a transparent color", b.Title)
	return v.Done()
}

func (b *Border) CanRender() bool { return b.Verify().IsValid() }
