package draw

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gkerrors "github.com/odvcencio/gridkit/pkg/errors"
)

func TestRGBA_Clamps(t *testing.T) {
	c := RGBA(1.5, -0.2, 0.5, 2)
	assert.Equal(t, Color{1, 0, 0.5, 1}, c)
	assert.Equal(t, 0.0, RGB(math.NaN(), 0, 0).R)
}

func TestDefault(t *testing.T) {
	assert.Equal(t, Black, Default())
	assert.Equal(t, 1.0, Default().A)
}

func TestFromHex(t *testing.T) {
	c, err := FromHex("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, "#ff8000", c.Hex())
	assert.Equal(t, 1.0, c.A)

	c, err = FromHex("00ff0080")
	require.NoError(t, err)
	assert.Equal(t, "#00ff0080", c.HexWithAlpha())
	assert.InDelta(t, 128.0/255.0, c.A, 1e-9)
}

func TestFromHex_Invalid(t *testing.T) {
	for _, in := range []string{"", "#fff", "#12345", "#gg0000", "123456789"} {
		_, err := FromHex(in)
		require.Error(t, err, in)
		assert.True(t, gkerrors.IsCode(err, gkerrors.ErrCodeColorParse), in)
	}
}

func TestColor_RGB8(t *testing.T) {
	c := FromRGB8(10, 200, 255)
	r, g, b := c.RGB8()
	assert.Equal(t, [3]uint8{10, 200, 255}, [3]uint8{r, g, b})
}

func TestColor_Lerp(t *testing.T) {
	mid := Black.Lerp(White, 0.5)
	assert.InDelta(t, 0.5, mid.R, 1e-9)
	assert.Equal(t, White, Black.Lerp(White, 3), "t is clamped")
	assert.Equal(t, Black, Black.Lerp(White, -1))
}

func TestColor_Alpha(t *testing.T) {
	c := White.WithAlpha(0.5)
	assert.Equal(t, 0.5, c.A)
	assert.Equal(t, 0.25, c.MultiplyAlpha(0.5).A)
	assert.True(t, Transparent.IsTransparent())
	assert.False(t, White.IsTransparent())
}

func TestContrastRatio(t *testing.T) {
	assert.InDelta(t, 21.0, Black.ContrastRatio(White), 1e-9)
	assert.InDelta(t, 1.0, White.ContrastRatio(White), 1e-9)

	a := RGB(0.2, 0.4, 0.6)
	b := RGB(0.9, 0.9, 0.1)
	assert.InDelta(t, a.ContrastRatio(b), b.ContrastRatio(a), 1e-12)
	assert.GreaterOrEqual(t, a.ContrastRatio(b), 1.0)
}

func TestRelativeLuminance(t *testing.T) {
	assert.Equal(t, 0.0, Black.RelativeLuminance())
	assert.InDelta(t, 1.0, White.RelativeLuminance(), 1e-9)
	assert.InDelta(t, 0.2126, RGB(1, 0, 0).RelativeLuminance(), 1e-9)
}
