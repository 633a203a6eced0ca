package widgets

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odvcencio/gridkit/pkg/ui/geometry"
)

func TestBase_InvalidateLifecycle(t *testing.T) {
	var b Base
	assert.False(t, b.NeedsRender(), "new base should not need render")

	b.Invalidate()
	assert.True(t, b.NeedsRender())

	b.ClearInvalidation()
	assert.False(t, b.NeedsRender())
}

func TestBase_LayoutMarksRender(t *testing.T) {
	var b Base
	bounds := geometry.R(1, 2, 3, 4)

	res := b.Layout(bounds)
	assert.Equal(t, geometry.Sz(3, 4), res.Size)
	assert.True(t, b.NeedsRender(), "layout should mark render")

	b.ClearInvalidation()
	b.Layout(bounds)
	assert.False(t, b.NeedsRender(), "same bounds should not mark render")

	b.Layout(geometry.R(2, 2, 3, 4))
	assert.True(t, b.NeedsRender(), "new bounds should mark render")
}

func TestBase_Defaults(t *testing.T) {
	var b Base
	assert.Nil(t, b.Event(nil))
	assert.Nil(t, b.Children())
	assert.False(t, b.CanFocus())
	b.Focus()
	assert.True(t, b.IsFocused())
	b.Blur()
	assert.False(t, b.IsFocused())
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"This is a long line", 10, "This is..."},
		{"short", 10, "short"},
		{"abcdef", 3, "abc"},
		{"abcdef", 0, ""},
		{"héllo wörld", 8, "héllo..."},
		{"日本語日本語", 5, "日..."},
		{"日本語日本語", 4, "..."},
		{"日本語", 6, "日本語"},
		{"日本語", 3, "日"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, truncateString(tc.in, tc.width), "truncateString(%q, %d)", tc.in, tc.width)
	}
}

func TestTruncateTitle(t *testing.T) {
	assert.Equal(t, "CPU", truncateTitle("CPU", 5))
	assert.Equal(t, "CPU 45%…", truncateTitle("CPU 45% │ 8 cores", 10))
	assert.Equal(t, "Network…", truncateTitle("Network throughput", 10))
	assert.Equal(t, "N", truncateTitle("Network", 1))
}
