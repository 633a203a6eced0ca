package widgets

import (
	"math"

	"github.com/odvcencio/gridkit/pkg/ui/canvas"
	"github.com/odvcencio/gridkit/pkg/ui/draw"
	"github.com/odvcencio/gridkit/pkg/ui/geometry"
	"github.com/odvcencio/gridkit/pkg/ui/runtime"
	"github.com/odvcencio/gridkit/pkg/ui/theme"
)

const fullBlock = "█"

// Segment is one share of a ProportionalBar. Value is a fraction of the
// whole bar. A zero Color takes the theme's series color at its index.
type Segment struct {
	Value float64
	Color draw.Color
}

// ProportionalBar draws segments side by side on one row with eighth-cell
// precision at each segment's end.
type ProportionalBar struct {
	Base
	Segments   []Segment
	Background *draw.Color

	theme *theme.Theme
}

// NewProportionalBar creates an empty bar.
func NewProportionalBar() *ProportionalBar {
	return &ProportionalBar{}
}

// WithSegment appends a segment and returns the bar for chaining.
func (b *ProportionalBar) WithSegment(value float64, c draw.Color) *ProportionalBar {
	b.Segments = append(b.Segments, Segment{Value: value, Color: c})
	return b
}

// WithBackground fills the row before the segments are drawn.
func (b *ProportionalBar) WithBackground(c draw.Color) *ProportionalBar {
	b.Background = &c
	return b
}

// SetValues replaces the segment values, keeping colors by index.
func (b *ProportionalBar) SetValues(values ...float64) {
	segs := make([]Segment, len(values))
	for i, v := range values {
		segs[i].Value = v
		if i < len(b.Segments) {
			segs[i].Color = b.Segments[i].Color
		}
	}
	b.Segments = segs
	b.Invalidate()
}

// Total sums the segment values. NaN propagates.
func (b *ProportionalBar) Total() float64 {
	total := 0.0
	for _, s := range b.Segments {
		total += s.Value
	}
	return total
}

// ApplyTheme implements runtime.Themed.
func (b *ProportionalBar) ApplyTheme(th *theme.Theme) {
	b.theme = th
}

func (b *ProportionalBar) segmentColor(i int) draw.Color {
	c := b.Segments[i].Color
	if c != (draw.Color{}) {
		return c
	}
	if b.theme != nil {
		return b.theme.SeriesColor(i)
	}
	return draw.White
}

// blockGlyph returns the lower-block glyph for a partial cell, or a space
// below one eighth.
func blockGlyph(fraction float64) string {
	switch {
	case fraction >= 1:
		return fullBlock
	case fraction >= 0.875:
		return "▇"
	case fraction >= 0.75:
		return "▆"
	case fraction >= 0.625:
		return "▅"
	case fraction >= 0.5:
		return "▄"
	case fraction >= 0.375:
		return "▃"
	case fraction >= 0.25:
		return "▂"
	case fraction >= 0.125:
		return "▁"
	}
	return " "
}

// Measure takes the full available width and one row.
func (b *ProportionalBar) Measure(c geometry.Constraints) geometry.Size {
	return c.Constrain(geometry.Sz(c.Biggest().Width, 1))
}

// Paint draws each segment from where the previous one ended. Nothing is
// drawn past the bar's width.
func (b *ProportionalBar) Paint(c canvas.Canvas) {
	width, height := b.cells()
	if width < 1 || height < 1 {
		return
	}
	x, y := b.bounds.X, b.bounds.Y
	if b.Background != nil {
		c.FillRect(geometry.R(x, y, b.bounds.Width, 1), *b.Background)
	}

	pos := 0.0
	for i, seg := range b.Segments {
		v := seg.Value
		if math.IsNaN(v) || v <= 0 {
			continue
		}
		style := draw.TextStyle{Size: 1, Color: b.segmentColor(i), Weight: draw.WeightNormal}
		end := pos + v*float64(width)
		start, stop := int(math.Floor(pos)), int(math.Floor(end))
		for cell := start; cell < stop && cell < width; cell++ {
			c.DrawText(fullBlock, geometry.Pt(x+float64(cell), y), style)
		}
		if frac := end - math.Floor(end); frac > 0.001 && stop < width {
			c.DrawText(blockGlyph(frac), geometry.Pt(x+float64(stop), y), style)
		}
		pos = end
	}
}

func (b *ProportionalBar) BrickName() string { return "proportional_bar" }

func (b *ProportionalBar) Assertions() []runtime.BrickAssertion {
	return []runtime.BrickAssertion{runtime.Custom("segment_total"), runtime.MaxLatencyMs(1)}
}

func (b *ProportionalBar) Budget() runtime.BrickBudget { return runtime.UniformBudget(1) }

// Verify fails when the segments sum to NaN or more than the whole bar.
func (b *ProportionalBar) Verify() runtime.BrickVerification {
	v := runtime.StartVerify()
	total := b.Total()
	v.Check(runtime.Custom("segment_total"), !math.IsNaN(total) && total <= 1+1e-9,
		"segment total %v is NaN or exceeds 1", total)
	v.Check(runtime.MaxLatencyMs(1), true, "")
	return v.Done()
}

func (b *ProportionalBar) CanRender() bool { return b.Verify().IsValid() }
