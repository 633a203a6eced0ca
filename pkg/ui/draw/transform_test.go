package draw

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/gridkit/pkg/ui/geometry"
)

func assertPoint(t *testing.T, want, got geometry.Point) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, "x")
	assert.InDelta(t, want.Y, got.Y, 1e-9, "y")
}

func TestTransform_ThenOrder(t *testing.T) {
	got := Translate(10, 0).Then(Scale(2, 2)).Apply(geometry.Pt(0, 0))
	assertPoint(t, geometry.Pt(20, 0), got)

	got = Scale(2, 2).Then(Translate(10, 0)).Apply(geometry.Pt(0, 0))
	assertPoint(t, geometry.Pt(10, 0), got)
}

func TestTransform_ThenMatchesSequentialApply(t *testing.T) {
	a := Rotate(math.Pi / 3).Then(Translate(4, -2))
	b := Scale(1.5, 0.5)
	p := geometry.Pt(3, 7)
	assertPoint(t, b.Apply(a.Apply(p)), a.Then(b).Apply(p))
}

func TestTransform_Rotate(t *testing.T) {
	got := Rotate(math.Pi / 2).Apply(geometry.Pt(1, 0))
	assertPoint(t, geometry.Pt(0, 1), got)
}

func TestTransform_Identity(t *testing.T) {
	assert.True(t, Identity().IsIdentity())
	assert.False(t, Translate(1, 0).IsIdentity())
	assertPoint(t, geometry.Pt(5, 6), Identity().Apply(geometry.Pt(5, 6)))
}

func TestTransform_Invert(t *testing.T) {
	tr := Translate(3, 4).Then(Scale(2, 5)).Then(Rotate(0.7))
	inv, ok := tr.Invert()
	require.True(t, ok)
	p := geometry.Pt(-1.5, 9)
	assertPoint(t, p, inv.Apply(tr.Apply(p)))

	_, ok = Scale(0, 1).Invert()
	assert.False(t, ok)
}

func TestTransform_ApplyRect(t *testing.T) {
	r := geometry.R(0, 0, 4, 2)
	assert.Equal(t, geometry.R(1, 1, 4, 2), Translate(1, 1).ApplyRect(r))

	rotated := Rotate(math.Pi / 2).ApplyRect(r)
	assert.InDelta(t, -2.0, rotated.X, 1e-9)
	assert.InDelta(t, 2.0, rotated.Width, 1e-9)
	assert.InDelta(t, 4.0, rotated.Height, 1e-9)
}
