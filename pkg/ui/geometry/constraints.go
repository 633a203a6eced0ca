package geometry

import "math"

// Inf is the unbounded constraint value.
var Inf = math.Inf(1)

// Constraints define the min/max space available to a widget during measure.
// A max of +Inf means the axis is unbounded.
//
// Constraints with min > max are not rejected. Constrain resolves them by
// letting the minimum win, the same way on every axis.
type Constraints struct {
	MinWidth, MaxWidth   float64
	MinHeight, MaxHeight float64
}

// Tight returns constraints that force an exact size.
func Tight(s Size) Constraints {
	return Constraints{
		MinWidth:  s.Width,
		MaxWidth:  s.Width,
		MinHeight: s.Height,
		MaxHeight: s.Height,
	}
}

// TightWidth returns constraints with exact width, unbounded height.
func TightWidth(w float64) Constraints {
	return Constraints{MinWidth: w, MaxWidth: w, MaxHeight: Inf}
}

// TightHeight returns constraints with unbounded width, exact height.
func TightHeight(h float64) Constraints {
	return Constraints{MaxWidth: Inf, MinHeight: h, MaxHeight: h}
}

// Loose returns constraints with only max bounds (min = 0).
func Loose(s Size) Constraints {
	return Constraints{MaxWidth: s.Width, MaxHeight: s.Height}
}

// Unbounded returns constraints with no limits.
func Unbounded() Constraints {
	return Constraints{MaxWidth: Inf, MaxHeight: Inf}
}

// Constrain clamps a size to fit within these constraints.
func (c Constraints) Constrain(s Size) Size {
	return Size{
		Width:  clamp(s.Width, c.MinWidth, c.MaxWidth),
		Height: clamp(s.Height, c.MinHeight, c.MaxHeight),
	}
}

// IsTight returns true if min equals max for both dimensions.
func (c Constraints) IsTight() bool {
	return c.MinWidth == c.MaxWidth && c.MinHeight == c.MaxHeight
}

func (c Constraints) HasBoundedWidth() bool  { return !math.IsInf(c.MaxWidth, 1) }
func (c Constraints) HasBoundedHeight() bool { return !math.IsInf(c.MaxHeight, 1) }

// IsBounded reports whether both axes have a finite maximum.
func (c Constraints) IsBounded() bool {
	return c.HasBoundedWidth() && c.HasBoundedHeight()
}

// Biggest returns the largest size allowed. An unbounded axis falls back to
// its minimum so infinity never reaches a visible size.
func (c Constraints) Biggest() Size {
	w, h := c.MaxWidth, c.MaxHeight
	if math.IsInf(w, 1) {
		w = c.MinWidth
	}
	if math.IsInf(h, 1) {
		h = c.MinHeight
	}
	return Size{Width: w, Height: h}
}

// Smallest returns the minimum size required.
func (c Constraints) Smallest() Size {
	return Size{Width: c.MinWidth, Height: c.MinHeight}
}

// Deflate subtracts padding from every bound, flooring at zero.
func (c Constraints) Deflate(horizontal, vertical float64) Constraints {
	return Constraints{
		MinWidth:  math.Max(0, c.MinWidth-horizontal),
		MaxWidth:  math.Max(0, c.MaxWidth-horizontal),
		MinHeight: math.Max(0, c.MinHeight-vertical),
		MaxHeight: math.Max(0, c.MaxHeight-vertical),
	}
}

// Loosen drops the minimums.
func (c Constraints) Loosen() Constraints {
	c.MinWidth, c.MinHeight = 0, 0
	return c
}

func (c Constraints) WithMinWidth(v float64) Constraints  { c.MinWidth = v; return c }
func (c Constraints) WithMaxWidth(v float64) Constraints  { c.MaxWidth = v; return c }
func (c Constraints) WithMinHeight(v float64) Constraints { c.MinHeight = v; return c }
func (c Constraints) WithMaxHeight(v float64) Constraints { c.MaxHeight = v; return c }

// clamp is max(lo, min(v, hi)); when lo > hi the result is lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		v = lo
	}
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
