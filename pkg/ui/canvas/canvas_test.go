package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gkerrors "github.com/odvcencio/gridkit/pkg/errors"
	"github.com/odvcencio/gridkit/pkg/ui/draw"
	"github.com/odvcencio/gridkit/pkg/ui/geometry"
)

var red = draw.RGB(1, 0, 0)

func paintSample(c Canvas) {
	c.FillRect(geometry.R(0, 0, 10, 5), red)
	c.PushTransform(draw.Translate(2, 1))
	c.StrokeRect(geometry.R(0, 0, 4, 2), draw.White, 1)
	c.PushClip(geometry.R(0, 0, 3, 3))
	c.DrawText("hello", geometry.Pt(0, 0), draw.DefaultTextStyle())
	c.DrawLine(geometry.Pt(0, 0), geometry.Pt(3, 3), red, 1)
	c.PopClip()
	c.PopTransform()
	c.FillPolygon([]geometry.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 2, Y: 3}}, draw.White)
	c.StrokeCircle(geometry.Pt(5, 5), 2, red, 1)
	c.FillArc(geometry.Pt(5, 5), 2, 0, 1, red)
}

func TestRecordingCanvas_BuildsTree(t *testing.T) {
	rc := NewRecordingCanvas()
	paintSample(rc)

	cmds := rc.Commands()
	require.Len(t, cmds, 5)

	group, ok := cmds[1].(draw.Group)
	require.True(t, ok)
	assert.Equal(t, draw.Translate(2, 1), group.Transform)
	require.Len(t, group.Children, 2)

	clip, ok := group.Children[1].(draw.Clip)
	require.True(t, ok)
	assert.Equal(t, geometry.R(0, 0, 3, 3), clip.Bounds)
	inner := clip.Child.(draw.Group)
	assert.True(t, inner.Transform.IsIdentity())
	assert.Len(t, inner.Children, 2)

	poly := cmds[2].(draw.Path)
	assert.True(t, poly.Closed)
	assert.Equal(t, 0.0, poly.Stroke.Width)

	_, ok = cmds[4].(draw.Arc)
	assert.True(t, ok)
}

func TestRecordingCanvas_Stacks(t *testing.T) {
	rc := NewRecordingCanvas()
	assert.True(t, rc.CurrentTransform().IsIdentity())
	_, ok := rc.CurrentClip()
	assert.False(t, ok)

	rc.PushTransform(draw.Translate(10, 20))
	rc.PushTransform(draw.Scale(2, 2))
	assert.Equal(t, 2, rc.TransformDepth())
	p := rc.CurrentTransform().Apply(geometry.Pt(1, 1))
	assert.Equal(t, geometry.Pt(12, 22), p, "inner transform applies first")

	rc.PushClip(geometry.R(1, 1, 5, 5))
	clip, ok := rc.CurrentClip()
	assert.True(t, ok)
	assert.Equal(t, geometry.R(1, 1, 5, 5), clip)
	assert.Equal(t, 1, rc.ClipDepth())

	rc.PopClip()
	rc.PopTransform()
	rc.PopTransform()
	assert.Equal(t, 0, rc.ClipDepth())
	assert.Equal(t, 0, rc.TransformDepth())

	rc.PopClip()
	rc.PopTransform()
	assert.Equal(t, 0, rc.Len(), "empty frames record nothing")
}

func TestRecordingCanvas_TakeAndClear(t *testing.T) {
	rc := NewRecordingCanvas()
	rc.FillCircle(geometry.Pt(1, 1), 1, red)
	rc.DrawPath([]geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, red, 1)

	taken := rc.Take()
	assert.Len(t, taken, 2)
	assert.Equal(t, 0, rc.Len())

	rc.PushClip(geometry.R(0, 0, 1, 1))
	rc.FillRect(geometry.R(0, 0, 1, 1), red)
	rc.Clear()
	assert.Equal(t, 0, rc.ClipDepth())
	assert.Empty(t, rc.Commands())
}

func TestRecordingCanvas_InterleavedPop(t *testing.T) {
	rc := NewRecordingCanvas()
	rc.PushClip(geometry.R(0, 0, 5, 5))
	rc.PushTransform(draw.Translate(1, 1))
	rc.FillRect(geometry.R(0, 0, 1, 1), red)
	rc.PopClip()

	assert.Equal(t, 0, rc.ClipDepth())
	assert.Equal(t, 0, rc.TransformDepth())
	require.Len(t, rc.Commands(), 1)
	clip := rc.Commands()[0].(draw.Clip)
	_, ok := clip.Child.(draw.Group)
	assert.True(t, ok)
}

func TestReplay_RoundTrip(t *testing.T) {
	first := NewRecordingCanvas()
	paintSample(first)

	second := NewRecordingCanvas()
	Replay(second, first.Commands()...)

	assert.Equal(t, first.Commands(), second.Commands())
}

func TestReplay_OpacityMultiplies(t *testing.T) {
	tree := draw.WithOpacity(0.5,
		draw.Group{Transform: draw.Identity(), Children: []draw.Command{
			draw.FilledRect(geometry.R(0, 0, 1, 1), red),
			draw.WithOpacity(0.5, draw.Text{Content: "x", Style: draw.DefaultTextStyle()}),
		}})

	rc := NewRecordingCanvas()
	Replay(rc, tree)

	cmds := rc.Commands()
	require.Len(t, cmds, 2)
	rect := cmds[0].(draw.Rectangle)
	assert.InDelta(t, 0.5, rect.Style.Fill.A, 1e-9)
	text := cmds[1].(draw.Text)
	assert.InDelta(t, 0.25, text.Style.Color.A, 1e-9)
}

func TestReplay_LiteralGroupDrawsInPlace(t *testing.T) {
	rc := NewRecordingCanvas()
	rect := draw.FilledRect(geometry.R(2, 1, 3, 1), red)
	Replay(rc, draw.Group{Children: []draw.Command{rect}})

	assert.Equal(t, []draw.Command{rect}, rc.Commands())
	assert.Equal(t, 0, rc.TransformDepth())
}

func TestReplay_ZeroOpacitySkipsChild(t *testing.T) {
	rc := NewRecordingCanvas()
	Replay(rc, draw.WithOpacity(0, draw.FilledRect(geometry.R(0, 0, 1, 1), red)))
	assert.Empty(t, rc.Commands())
}

func TestReplay_ShadowAndFill(t *testing.T) {
	shadow := draw.DefaultShadow()
	fill := draw.White
	rect := draw.Rectangle{Bounds: geometry.R(0, 0, 4, 2), Style: draw.BoxStyle{Fill: &fill, Shadow: &shadow}}

	rc := NewRecordingCanvas()
	Replay(rc, rect)
	cmds := rc.Commands()
	require.Len(t, cmds, 2)
	assert.Equal(t, geometry.R(0, 2, 4, 2), cmds[0].(draw.Rectangle).Bounds)
}

func TestReplayer_FillUsesPathTable(t *testing.T) {
	rc := NewRecordingCanvas()
	r := NewReplayer(rc)
	r.Paths = map[draw.PathRef][]geometry.Point{7: {{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 2}}}
	r.Replay(draw.Fill{Path: 7, Color: red}, draw.Fill{Path: 8, Color: red})

	require.Len(t, rc.Commands(), 1)
	assert.True(t, rc.Commands()[0].(draw.Path).Closed)
}

func TestGuard_Balanced(t *testing.T) {
	g := NewGuard(NewRecordingCanvas())
	err := g.Check(paintSample)
	assert.NoError(t, err)
	assert.NoError(t, g.Err())
}

func TestGuard_UnmatchedPop(t *testing.T) {
	g := NewGuard(NewRecordingCanvas())
	g.PopClip()
	err := g.Err()
	require.Error(t, err)
	assert.True(t, gkerrors.IsCode(err, gkerrors.ErrCodeUnbalancedStack))
}

func TestGuard_LeftOpen(t *testing.T) {
	g := NewGuard(NewRecordingCanvas())
	err := g.Check(func(c Canvas) {
		c.PushTransform(draw.Translate(1, 1))
	})
	assert.True(t, gkerrors.IsCode(err, gkerrors.ErrCodeUnbalancedStack))
	clips, transforms := g.Depths()
	assert.Equal(t, 0, clips)
	assert.Equal(t, 1, transforms)

	g.Reset()
	assert.NoError(t, g.Err())
}
