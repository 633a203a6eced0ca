package widgets

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/gridkit/pkg/ui/canvas"
	"github.com/odvcencio/gridkit/pkg/ui/draw"
	"github.com/odvcencio/gridkit/pkg/ui/geometry"
	"github.com/odvcencio/gridkit/pkg/ui/runtime"
	"github.com/odvcencio/gridkit/pkg/ui/theme"
)

const (
	gaugeFill  = '█'
	gaugeEmpty = '░'
)

// GaugeThreshold defines a color breakpoint in the gradient.
type GaugeThreshold struct {
	Ratio float64 // Start ratio for this color (0.0-1.0)
	Color draw.Color
}

// DefaultThresholds returns a success→warning→error gradient from th.
func DefaultThresholds(th *theme.Theme) []GaugeThreshold {
	return []GaugeThreshold{
		{Ratio: 0.0, Color: th.Success},
		{Ratio: 0.6, Color: th.Warning},
		{Ratio: 0.85, Color: th.Error},
	}
}

// Gauge is a labeled horizontal meter: "label ████░░░░ 45%". The fill color
// of each cell follows Thresholds by its position along the bar.
type Gauge struct {
	Base
	Label       string
	Value       float64
	Thresholds  []GaugeThreshold
	EmptyColor  draw.Color
	LabelColor  draw.Color
	HidePercent bool

	theme *theme.Theme
}

// NewGauge creates a gauge with the theme gradient.
func NewGauge(label string, value float64) *Gauge {
	return &Gauge{Label: label, Value: value}
}

// SetValue updates the ratio shown.
func (g *Gauge) SetValue(v float64) {
	if g.Value != v {
		g.Value = v
		g.Invalidate()
	}
}

// ApplyTheme implements runtime.Themed.
func (g *Gauge) ApplyTheme(th *theme.Theme) {
	g.theme = th
}

func (g *Gauge) palette() *theme.Theme {
	if g.theme != nil {
		return g.theme
	}
	return theme.DefaultTheme()
}

// ratio clamps Value to [0, 1]; NaN reads as 0.
func (g *Gauge) ratio() float64 {
	if math.IsNaN(g.Value) {
		return 0
	}
	return math.Max(0, math.Min(1, g.Value))
}

// GaugeString renders a plain gauge of width cells, rounding the fill to the
// nearest cell.
func GaugeString(width int, ratio float64) string {
	if width <= 0 {
		return ""
	}
	if math.IsNaN(ratio) {
		ratio = 0
	}
	ratio = math.Max(0, math.Min(1, ratio))
	fill := min(int(float64(width)*ratio+0.5), width)
	return strings.Repeat(string(gaugeFill), fill) + strings.Repeat(string(gaugeEmpty), width-fill)
}

// colorForRatio returns the color of the highest threshold ratio meets.
func colorForRatio(ratio float64, thresholds []GaugeThreshold, fallback draw.Color) draw.Color {
	if len(thresholds) == 0 {
		return fallback
	}
	result := thresholds[0].Color
	for _, t := range thresholds {
		if ratio >= t.Ratio {
			result = t.Color
		}
	}
	return result
}

func (g *Gauge) suffix() string {
	if g.HidePercent {
		return ""
	}
	return fmt.Sprintf(" %3.0f%%", g.ratio()*100)
}

func (g *Gauge) prefix() string {
	if g.Label == "" {
		return ""
	}
	return g.Label + " "
}

// Measure takes the available width and one row.
func (g *Gauge) Measure(c geometry.Constraints) geometry.Size {
	return c.Constrain(geometry.Sz(c.Biggest().Width, 1))
}

// Paint draws label, bar and percentage. The bar gets whatever width the
// text leaves; the label is truncated first when space runs out.
func (g *Gauge) Paint(c canvas.Canvas) {
	width, height := g.cells()
	if width < 1 || height < 1 {
		return
	}
	th := g.palette()
	x, y := g.bounds.X, g.bounds.Y
	text := draw.TextStyle{Size: 1, Color: pick(g.LabelColor, th.TextMuted), Weight: draw.WeightNormal}

	prefix, suffix := g.prefix(), g.suffix()
	nSuffix := runewidth.StringWidth(suffix)
	if nSuffix >= width {
		c.DrawText(truncateString(strings.TrimSpace(suffix), width), geometry.Pt(x, y), text)
		return
	}
	prefix = truncateString(prefix, max(width-nSuffix-1, 0))
	nPrefix := runewidth.StringWidth(prefix)
	if prefix != "" {
		c.DrawText(prefix, geometry.Pt(x, y), text)
	}

	barWidth := width - nPrefix - nSuffix
	thresholds := g.Thresholds
	if thresholds == nil {
		thresholds = DefaultThresholds(th)
	}
	empty := draw.TextStyle{Size: 1, Color: pick(g.EmptyColor, th.TextDim), Weight: draw.WeightNormal}
	for i, r := range []rune(GaugeString(barWidth, g.ratio())) {
		style := empty
		if r == gaugeFill {
			style.Color = colorForRatio(float64(i)/float64(barWidth), thresholds, th.Accent)
		}
		c.DrawText(string(r), geometry.Pt(x+float64(nPrefix+i), y), style)
	}
	if suffix != "" {
		c.DrawText(suffix, geometry.Pt(x+float64(nPrefix+barWidth), y), text)
	}
}

func (g *Gauge) BrickName() string { return "gauge" }

func (g *Gauge) Assertions() []runtime.BrickAssertion {
	return []runtime.BrickAssertion{runtime.Custom("value_in_range"), runtime.MaxLatencyMs(1)}
}

func (g *Gauge) Budget() runtime.BrickBudget { return runtime.UniformBudget(1) }

// Verify fails for values outside [0, 1] or NaN; Paint clamps them.
func (g *Gauge) Verify() runtime.BrickVerification {
	v := runtime.StartVerify()
	v.Check(runtime.Custom("value_in_range"), g.Value >= 0 && g.Value <= 1,
		"value %v outside [0, 1]", g.Value)
	v.Check(runtime.MaxLatencyMs(1), true, "")
	return v.Done()
}

func (g *Gauge) CanRender() bool { return g.Verify().IsValid() }
