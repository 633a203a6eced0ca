package draw

import (
	"math"

	"github.com/odvcencio/gridkit/pkg/ui/geometry"
)

// Transform2D is an affine transform stored as [a b c d e f]:
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
type Transform2D struct {
	Matrix [6]float64
}

// Identity returns the identity transform.
func Identity() Transform2D {
	return Transform2D{Matrix: [6]float64{1, 0, 0, 1, 0, 0}}
}

func Translate(x, y float64) Transform2D {
	return Transform2D{Matrix: [6]float64{1, 0, 0, 1, x, y}}
}

func Scale(sx, sy float64) Transform2D {
	return Transform2D{Matrix: [6]float64{sx, 0, 0, sy, 0, 0}}
}

// Rotate returns a rotation by radians around the origin.
func Rotate(radians float64) Transform2D {
	sin, cos := math.Sincos(radians)
	return Transform2D{Matrix: [6]float64{cos, sin, -sin, cos, 0, 0}}
}

// Apply transforms a point.
func (t Transform2D) Apply(p geometry.Point) geometry.Point {
	m := t.Matrix
	return geometry.Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// ApplyRect returns the bounding box of the transformed rect corners.
func (t Transform2D) ApplyRect(r geometry.Rect) geometry.Rect {
	if t.IsIdentity() {
		return r
	}
	corners := r.Corners()
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		p := t.Apply(c)
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return geometry.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Then returns the transform that applies t first and other second, so
// t.Then(o).Apply(p) == o.Apply(t.Apply(p)).
func (t Transform2D) Then(other Transform2D) Transform2D {
	a, b := other.Matrix, t.Matrix
	return Transform2D{Matrix: [6]float64{
		a[0]*b[0] + a[2]*b[1],
		a[1]*b[0] + a[3]*b[1],
		a[0]*b[2] + a[2]*b[3],
		a[1]*b[2] + a[3]*b[3],
		a[0]*b[4] + a[2]*b[5] + a[4],
		a[1]*b[4] + a[3]*b[5] + a[5],
	}}
}

// IsIdentity reports whether t leaves every point unchanged.
func (t Transform2D) IsIdentity() bool {
	return t.Matrix == [6]float64{1, 0, 0, 1, 0, 0}
}

// Invert returns the inverse transform. The boolean is false for singular matrices.
func (t Transform2D) Invert() (Transform2D, bool) {
	m := t.Matrix
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 || math.IsNaN(det) {
		return Identity(), false
	}
	inv := 1 / det
	return Transform2D{Matrix: [6]float64{
		m[3] * inv,
		-m[1] * inv,
		-m[2] * inv,
		m[0] * inv,
		(m[2]*m[5] - m[3]*m[4]) * inv,
		(m[1]*m[4] - m[0]*m[5]) * inv,
	}}, true
}
