// Package geometry provides the value types shared by layout, drawing and
// the cell compositor: points, sizes, rectangles and box constraints.
//
// All values are float64 so that transforms and percentages compose without
// rounding; the terminal canvas rounds to cells at the last moment.
package geometry

import "math"

// Point is a position in 2D space.
type Point struct {
	X, Y float64
}

// Origin is the point (0, 0).
var Origin = Point{}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the euclidean distance between two points.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Lerp interpolates between p and q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// Sz is shorthand for Size{Width: w, Height: h}.
func Sz(w, h float64) Size {
	return Size{Width: w, Height: h}
}

// Area returns width*height.
func (s Size) Area() float64 {
	return s.Width * s.Height
}

// AspectRatio returns width/height, or 0 when height is zero.
func (s Size) AspectRatio() float64 {
	if s.Height == 0 {
		return 0
	}
	return s.Width / s.Height
}

// Contains reports whether other fits inside s on both axes.
func (s Size) Contains(other Size) bool {
	return s.Width >= other.Width && s.Height >= other.Height
}

// IsEmpty reports whether either dimension is zero or negative.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is a positioned rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// R is shorthand for Rect{X: x, Y: y, Width: w, Height: h}.
func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// RectFromSize creates a rect at the origin with the given size.
func RectFromSize(s Size) Rect {
	return Rect{Width: s.Width, Height: s.Height}
}

// RectFromPoints returns the rect spanning two corners in any order.
func RectFromPoints(a, b Point) Rect {
	x, y := math.Min(a.X, b.X), math.Min(a.Y, b.Y)
	return Rect{X: x, Y: y, Width: math.Abs(b.X - a.X), Height: math.Abs(b.Y - a.Y)}
}

func (r Rect) Origin() Point      { return Point{X: r.X, Y: r.Y} }
func (r Rect) Size() Size         { return Size{Width: r.Width, Height: r.Height} }
func (r Rect) Right() float64     { return r.X + r.Width }
func (r Rect) Bottom() float64    { return r.Y + r.Height }
func (r Rect) TopLeft() Point     { return Point{X: r.X, Y: r.Y} }
func (r Rect) TopRight() Point    { return Point{X: r.X + r.Width, Y: r.Y} }
func (r Rect) BottomLeft() Point  { return Point{X: r.X, Y: r.Y + r.Height} }
func (r Rect) BottomRight() Point { return Point{X: r.X + r.Width, Y: r.Y + r.Height} }

// Center returns the midpoint of the rect.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Corners returns the four corners clockwise from the top left.
func (r Rect) Corners() [4]Point {
	return [4]Point{r.TopLeft(), r.TopRight(), r.BottomRight(), r.BottomLeft()}
}

// IsEmpty reports whether the rect covers no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// ContainsPoint reports whether p lies inside r. Both edges are inclusive.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// ContainsCell is the half-open test used for hit testing: the right and
// bottom edges belong to the neighbouring rect.
func (r Rect) ContainsCell(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Intersects reports whether the two rects overlap with positive area.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// Intersection returns the overlapping area of two rects. The boolean is
// false when they do not overlap.
func (r Rect) Intersection(other Rect) (Rect, bool) {
	x := math.Max(r.X, other.X)
	y := math.Max(r.Y, other.Y)
	x2 := math.Min(r.Right(), other.Right())
	y2 := math.Min(r.Bottom(), other.Bottom())
	if x2 <= x || y2 <= y {
		return Rect{}, false
	}
	return Rect{X: x, Y: y, Width: x2 - x, Height: y2 - y}, true
}

// Union returns the smallest rect containing both.
func (r Rect) Union(other Rect) Rect {
	x := math.Min(r.X, other.X)
	y := math.Min(r.Y, other.Y)
	x2 := math.Max(r.Right(), other.Right())
	y2 := math.Max(r.Bottom(), other.Bottom())
	return Rect{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

// Inset shrinks the rect by amount on every side.
func (r Rect) Inset(amount float64) Rect {
	return r.InsetEdges(amount, amount, amount, amount)
}

// InsetEdges shrinks the rect by the given edge insets. Width and height
// never go below zero.
func (r Rect) InsetEdges(top, right, bottom, left float64) Rect {
	return Rect{
		X:      r.X + left,
		Y:      r.Y + top,
		Width:  math.Max(0, r.Width-left-right),
		Height: math.Max(0, r.Height-top-bottom),
	}
}

// Translate returns the rect moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// CornerRadius holds per-corner radii for rounded rectangles.
type CornerRadius struct {
	TopLeft, TopRight, BottomRight, BottomLeft float64
}

// UniformRadius returns a CornerRadius with every corner set to r.
func UniformRadius(r float64) CornerRadius {
	return CornerRadius{TopLeft: r, TopRight: r, BottomRight: r, BottomLeft: r}
}

// IsZero reports whether all corners are square.
func (c CornerRadius) IsZero() bool {
	return c.TopLeft == 0 && c.TopRight == 0 && c.BottomRight == 0 && c.BottomLeft == 0
}

// IsUniform reports whether every corner has the same radius.
func (c CornerRadius) IsUniform() bool {
	return c.TopLeft == c.TopRight && c.TopRight == c.BottomRight && c.BottomRight == c.BottomLeft
}
