package draw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gkerrors "github.com/odvcencio/gridkit/pkg/errors"
	"github.com/odvcencio/gridkit/pkg/ui/geometry"
)

func sampleTree() Command {
	return WithTransform(Translate(2, 1),
		FilledRect(geometry.R(0, 0, 10, 4), MustHex("#336699")),
		WithClip(geometry.R(0, 0, 5, 5),
			WithOpacity(0.5, Text{Content: "hi", Position: geometry.Pt(1, 1), Style: DefaultTextStyle()})),
		Line(geometry.Pt(0, 0), geometry.Pt(9, 0), White, 1),
	)
}

func TestConstructors(t *testing.T) {
	r := RoundedRect(geometry.R(0, 0, 4, 4), 2, White)
	assert.True(t, r.Radius.IsUniform())
	require.NotNil(t, r.Style.Fill)
	assert.Equal(t, White, *r.Style.Fill)

	s := StrokedRect(geometry.R(0, 0, 4, 4), Black, 2)
	assert.Nil(t, s.Style.Fill)
	require.NotNil(t, s.Style.Stroke)
	assert.Equal(t, 2.0, s.Style.Stroke.Width)

	assert.Equal(t, 1.0, WithOpacity(3, nil).Alpha)
	assert.Equal(t, 0.0, WithOpacity(-1, nil).Alpha)

	c := FilledCircle(geometry.Pt(1, 1), 3, Black)
	assert.Equal(t, 3.0, c.Radius)
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, StrokeStyle{Color: Black, Width: 1}, DefaultStroke())
	sh := DefaultShadow()
	assert.InDelta(t, 0.3, sh.Color.A, 1e-9)
	assert.Equal(t, 2.0, sh.OffsetY)
	assert.Equal(t, 4.0, sh.Blur)
	assert.Equal(t, White, *DefaultBoxStyle().Fill)
	assert.Equal(t, 16.0, DefaultTextStyle().Size)
	assert.Equal(t, Bilinear, Sampling(0))
	assert.True(t, WeightBlack.IsBold())
	assert.False(t, WeightMedium.IsBold())
}

func TestWalkAndCount(t *testing.T) {
	tree := sampleTree()
	assert.Equal(t, 6, Count(tree))

	var kinds []string
	Walk(tree, func(c Command) bool {
		kinds = append(kinds, c.Kind())
		return c.Kind() != "clip"
	})
	assert.Equal(t, []string{"group", "rect", "clip", "path"}, kinds)
	assert.Equal(t, 0, Count(nil))
}

func TestGroup_ZeroTransformIsIdentity(t *testing.T) {
	g := Group{Children: []Command{FilledRect(geometry.R(0, 0, 1, 1), White)}}
	assert.True(t, g.EffectiveTransform().IsIdentity())

	moved := WithTransform(Translate(3, 0))
	assert.Equal(t, Translate(3, 0), moved.EffectiveTransform())

	data, err := MarshalCommand(g)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "transform")
}

func TestCodec_RoundTrip(t *testing.T) {
	tree := sampleTree()
	data, err := MarshalCommand(tree)
	require.NoError(t, err)

	back, err := UnmarshalCommand(data)
	require.NoError(t, err)
	assert.Equal(t, tree, back)
}

func TestDecodeScene_YAML(t *testing.T) {
	src := []byte(`
- type: rect
  bounds: {x: 0, y: 0, width: 20, height: 3}
  box: {fill: "#202020"}
- type: group
  transform: [1, 0, 0, 1, 2, 1]
  children:
    - type: text
      text: hello
      position: {x: 0, y: 0}
      font: {color: "#ffffff", weight: 700}
- type: opacity
  alpha: 0.5
  child:
    type: circle
    center: {x: 5, y: 5}
    radius: 2
`)
	cmds, err := DecodeScene(src, "yaml")
	require.NoError(t, err)
	require.Len(t, cmds, 3)

	rect, ok := cmds[0].(Rectangle)
	require.True(t, ok)
	assert.Equal(t, geometry.R(0, 0, 20, 3), rect.Bounds)
	assert.Equal(t, "#202020", rect.Style.Fill.Hex())

	group := cmds[1].(Group)
	assert.Equal(t, Translate(2, 1), group.Transform)
	text := group.Children[0].(Text)
	assert.Equal(t, "hello", text.Content)
	assert.Equal(t, WeightBold, text.Style.Weight)
	assert.Equal(t, White, text.Style.Color)

	op := cmds[2].(Opacity)
	assert.Equal(t, 0.5, op.Alpha)
	circle := op.Child.(Circle)
	assert.Equal(t, White, *circle.Style.Fill, "missing box uses the default style")
}

func TestDecodeScene_Errors(t *testing.T) {
	_, err := DecodeScene([]byte(`[{"type":"blob"}]`), "json")
	assert.True(t, gkerrors.IsCode(err, gkerrors.ErrCodeCodec))

	_, err = DecodeScene([]byte(`[]`), "toml")
	assert.True(t, gkerrors.IsCode(err, gkerrors.ErrCodeCodec))

	_, err = DecodeScene([]byte(`[{"type":"arc","color":"#zz0000"}]`), "json")
	assert.True(t, gkerrors.IsCode(err, gkerrors.ErrCodeColorParse))

	_, err = UnmarshalCommand([]byte(`{"type":"clip"}`))
	assert.True(t, gkerrors.IsCode(err, gkerrors.ErrCodeCodec))
}
