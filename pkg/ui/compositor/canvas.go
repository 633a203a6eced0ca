package compositor

import (
	"math"
	"slices"

	"github.com/rivo/uniseg"

	"github.com/odvcencio/gridkit/pkg/ui/canvas"
	"github.com/odvcencio/gridkit/pkg/ui/draw"
	"github.com/odvcencio/gridkit/pkg/ui/geometry"
)

// Box-drawing glyphs used for strokes and lines.
const (
	glyphHorizontal  = "─"
	glyphVertical    = "│"
	glyphTopLeft     = "┌"
	glyphTopRight    = "┐"
	glyphBottomLeft  = "└"
	glyphBottomRight = "┘"
	glyphDiagDown    = "╲"
	glyphDiagUp      = "╱"
	glyphDot         = "●"
)

// DirectCanvas rasterizes Canvas calls straight into a CellBuffer.
//
// Coordinates are cells. Rects are transformed, rounded to whole cells and
// intersected with the current clip. A transparent background keeps the
// background already in the cell, so text and outlines can sit on fills.
type DirectCanvas struct {
	buf       *CellBuffer
	clips     []Region
	xforms    []draw.Transform2D
	transform draw.Transform2D
}

var _ canvas.Canvas = (*DirectCanvas)(nil)

// NewDirectCanvas creates a canvas whose base clip is the whole buffer.
func NewDirectCanvas(buf *CellBuffer) *DirectCanvas {
	return &DirectCanvas{
		buf:       buf,
		clips:     []Region{buf.Bounds()},
		transform: draw.Identity(),
	}
}

// Reset drops every pushed clip and transform and re-reads the buffer bounds.
func (c *DirectCanvas) Reset() {
	c.clips = append(c.clips[:0], c.buf.Bounds())
	c.xforms = c.xforms[:0]
	c.transform = draw.Identity()
}

// Buffer returns the target buffer.
func (c *DirectCanvas) Buffer() *CellBuffer { return c.buf }

// Clip returns the active clip region.
func (c *DirectCanvas) Clip() Region {
	return c.clips[len(c.clips)-1]
}

// Transform returns the active user-to-cell transform.
func (c *DirectCanvas) Transform() draw.Transform2D { return c.transform }

func (c *DirectCanvas) point(p geometry.Point) (int, int) {
	q := c.transform.Apply(p)
	return roundInt(q.X), roundInt(q.Y)
}

// toCells maps a user-space rect to the cells it covers inside the clip.
func (c *DirectCanvas) toCells(r geometry.Rect) Region {
	t := c.transform.ApplyRect(r)
	x0, y0 := roundInt(t.X), roundInt(t.Y)
	x1, y1 := roundInt(t.Right()), roundInt(t.Bottom())
	cells := Region{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
	if cells.IsEmpty() {
		return Region{}
	}
	return cells.Intersect(c.Clip())
}

// setCell writes one grapheme if (x, y) is inside the clip. A 2-wide
// grapheme needs both of its columns inside the clip.
func (c *DirectCanvas) setCell(x, y int, symbol string, fg, bg draw.Color, mods Modifiers) int {
	clip := c.Clip()
	if !clip.Contains(x, y) {
		return 0
	}
	existing := c.buf.GetMut(x, y)
	if existing == nil {
		return 0
	}
	if symbolWidth(symbol) == 2 && !clip.Contains(x+1, y) {
		symbol = " "
	}
	bg = composite(bg, existing.BG)
	fg = composite(fg, bg)
	return c.buf.Put(x, y, symbol, fg, bg, mods)
}

// composite resolves a possibly translucent color against what is under it.
// Fully transparent keeps dst; partial alpha blends toward dst.
func composite(src, dst draw.Color) draw.Color {
	switch {
	case src.A <= 0:
		return dst
	case src.A >= 1 || dst.A <= 0:
		return src
	}
	return dst.Lerp(src.WithAlpha(1), src.A).WithAlpha(1)
}

func (c *DirectCanvas) FillRect(rect geometry.Rect, color draw.Color) {
	if color.A <= 0 {
		return
	}
	r := c.toCells(rect)
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			c.setCell(x, y, " ", color, color, ModNone)
		}
	}
}

func (c *DirectCanvas) StrokeRect(rect geometry.Rect, color draw.Color, _ float64) {
	t := c.transform.ApplyRect(rect)
	x0, y0 := roundInt(t.X), roundInt(t.Y)
	w, h := roundInt(t.Right())-x0, roundInt(t.Bottom())-y0
	if w <= 0 || h <= 0 {
		return
	}
	x1, y1 := x0+w-1, y0+h-1
	bg := draw.Transparent
	clip := c.Clip()

	for x := max(x0, clip.X); x <= min(x1, clip.X+clip.Width-1); x++ {
		c.setCell(x, y0, glyphHorizontal, color, bg, ModNone)
		if h > 1 {
			c.setCell(x, y1, glyphHorizontal, color, bg, ModNone)
		}
	}
	for y := max(y0, clip.Y); y <= min(y1, clip.Y+clip.Height-1); y++ {
		c.setCell(x0, y, glyphVertical, color, bg, ModNone)
		if w > 1 {
			c.setCell(x1, y, glyphVertical, color, bg, ModNone)
		}
	}

	c.setCell(x0, y0, glyphTopLeft, color, bg, ModNone)
	if w > 1 {
		c.setCell(x1, y0, glyphTopRight, color, bg, ModNone)
	}
	if h > 1 {
		c.setCell(x0, y1, glyphBottomLeft, color, bg, ModNone)
		if w > 1 {
			c.setCell(x1, y1, glyphBottomRight, color, bg, ModNone)
		}
	}
}

// TextModifiers maps a text style onto cell modifiers.
func TextModifiers(style draw.TextStyle) Modifiers {
	m := ModNone
	if style.Weight.IsBold() {
		m = m.With(Bold)
	}
	if style.Style == draw.StyleItalic {
		m = m.With(Italic)
	}
	return m
}

func (c *DirectCanvas) DrawText(text string, position geometry.Point, style draw.TextStyle) {
	x, y := c.point(position)
	clip := c.Clip()
	if y < clip.Y || y >= clip.Y+clip.Height {
		return
	}
	mods := TextModifiers(style)

	g := uniseg.NewGraphemes(text)
	for g.Next() {
		cluster := g.Str()
		w := int(symbolWidth(cluster))
		if x >= clip.X+clip.Width {
			break
		}
		if x >= clip.X {
			c.setCell(x, y, cluster, style.Color, draw.Transparent, mods)
		}
		x += w
	}
}

// lineGlyph picks the box-drawing character closest to the line's slope.
func lineGlyph(dx, dy, sx, sy int) string {
	switch {
	case dx > dy*2:
		return glyphHorizontal
	case dy > dx*2:
		return glyphVertical
	case (sx > 0) == (sy > 0):
		return glyphDiagDown
	default:
		return glyphDiagUp
	}
}

// DrawLine rasterizes with Bresenham's algorithm. The segment is first cut
// to a one-cell margin around the clip, so the work is bounded by the clip
// size and not by the line's length.
func (c *DirectCanvas) DrawLine(from, to geometry.Point, color draw.Color, _ float64) {
	clip := c.Clip()
	if clip.IsEmpty() {
		return
	}
	p0, p1 := c.transform.Apply(from), c.transform.Apply(to)
	if math.IsNaN(p0.X+p0.Y+p1.X+p1.Y) {
		return
	}

	x0, y0 := roundInt(p0.X), roundInt(p0.Y)
	x1, y1 := roundInt(p1.X), roundInt(p1.Y)
	sx, sy := 1, 1
	if x0 >= x1 {
		sx = -1
	}
	if y0 >= y1 {
		sy = -1
	}
	glyph := lineGlyph(abs(x1-x0), abs(y1-y0), sx, sy)

	margin := geometry.R(float64(clip.X-1), float64(clip.Y-1), float64(clip.Width+1), float64(clip.Height+1))
	a, b, ok := clipSegment(p0, p1, margin)
	if !ok {
		return
	}
	c.line(roundInt(a.X), roundInt(a.Y), roundInt(b.X), roundInt(b.Y), glyph, color)
}

// clipSegment cuts the segment a-b to r (Liang-Barsky). Endpoints already
// inside r are returned unchanged.
func clipSegment(a, b geometry.Point, r geometry.Rect) (geometry.Point, geometry.Point, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, a.X - r.X},
		{dx, r.Right() - a.X},
		{-dy, a.Y - r.Y},
		{dy, r.Bottom() - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return a, b, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return a, b, false
			}
			t1 = math.Min(t1, t)
		}
	}
	from, to := a, b
	if t0 > 0 {
		from = geometry.Pt(a.X+t0*dx, a.Y+t0*dy)
	}
	if t1 < 1 {
		to = geometry.Pt(a.X+t1*dx, a.Y+t1*dy)
	}
	return from, to, true
}

func (c *DirectCanvas) line(x0, y0, x1, y1 int, glyph string, color draw.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 >= x1 {
		sx = -1
	}
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy

	x, y := x0, y0
	for {
		c.setCell(x, y, glyph, color, draw.Transparent, ModNone)
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			if x == x1 {
				return
			}
			err += dy
			x += sx
		}
		if e2 <= dx {
			if y == y1 {
				return
			}
			err += dx
			y += sy
		}
	}
}

// FillCircle fills scanlines of half-width sqrt(r²-dy²).
func (c *DirectCanvas) FillCircle(center geometry.Point, radius float64, color draw.Color) {
	if color.A <= 0 {
		return
	}
	cx, cy := c.point(center)
	r := roundInt(radius)
	clip := c.Clip()
	for y := max(cy-r, clip.Y); y <= min(cy+r, clip.Y+clip.Height-1); y++ {
		dy := y - cy
		dx := int(math.Sqrt(float64(r*r - dy*dy)))
		for x := max(cx-dx, clip.X); x <= min(cx+dx, clip.X+clip.Width-1); x++ {
			c.setCell(x, y, " ", color, color, ModNone)
		}
	}
}

// StrokeCircle plots the midpoint circle with dots. A ring that misses the
// clip draws nothing; a ring much larger than the clip is sampled row by row
// and column by column inside the clip instead.
func (c *DirectCanvas) StrokeCircle(center geometry.Point, radius float64, color draw.Color, _ float64) {
	clip := c.Clip()
	p := c.transform.Apply(center)
	r := math.Round(radius)
	if clip.IsEmpty() || !(r >= 0) || math.IsNaN(p.X+p.Y) || !ringMeetsClip(p, r, clip) {
		return
	}
	if r > float64(clip.Width+clip.Height) {
		c.sampleRing(p, r, color, clip)
		return
	}

	cx, cy := roundInt(p.X), roundInt(p.Y)
	x, y, err := int(r), 0, 0
	for x >= y {
		pts := [8][2]int{
			{cx + x, cy + y}, {cx + y, cy + x}, {cx - y, cy + x}, {cx - x, cy + y},
			{cx - x, cy - y}, {cx - y, cy - x}, {cx + y, cy - x}, {cx + x, cy - y},
		}
		for _, p := range pts {
			c.setCell(p[0], p[1], glyphDot, color, draw.Transparent, ModNone)
		}
		y++
		err += 1 + 2*y
		if 2*(err-x)+1 > 0 {
			x--
			err += 1 - 2*x
		}
	}
}

// ringMeetsClip reports whether a ring of radius r around p passes within a
// cell of the clip.
func ringMeetsClip(p geometry.Point, r float64, clip Region) bool {
	x0, y0 := float64(clip.X)-0.5, float64(clip.Y)-0.5
	x1, y1 := float64(clip.X+clip.Width)-0.5, float64(clip.Y+clip.Height)-0.5
	nearX := math.Max(0, math.Max(x0-p.X, p.X-x1))
	nearY := math.Max(0, math.Max(y0-p.Y, p.Y-y1))
	farX := math.Max(math.Abs(p.X-x0), math.Abs(p.X-x1))
	farY := math.Max(math.Abs(p.Y-y0), math.Abs(p.Y-y1))
	return math.Hypot(nearX, nearY) <= r+1 && math.Hypot(farX, farY) >= r-1
}

func (c *DirectCanvas) sampleRing(p geometry.Point, r float64, color draw.Color, clip Region) {
	for y := clip.Y; y < clip.Y+clip.Height; y++ {
		dy := float64(y) - p.Y
		if rem := r*r - dy*dy; rem >= 0 {
			dx := math.Sqrt(rem)
			c.setCell(roundInt(p.X+dx), y, glyphDot, color, draw.Transparent, ModNone)
			c.setCell(roundInt(p.X-dx), y, glyphDot, color, draw.Transparent, ModNone)
		}
	}
	for x := clip.X; x < clip.X+clip.Width; x++ {
		dx := float64(x) - p.X
		if rem := r*r - dx*dx; rem >= 0 {
			dy := math.Sqrt(rem)
			c.setCell(x, roundInt(p.Y+dy), glyphDot, color, draw.Transparent, ModNone)
			c.setCell(x, roundInt(p.Y-dy), glyphDot, color, draw.Transparent, ModNone)
		}
	}
}

// FillArc fills the pie slice between two angles with radius*4 spokes. When
// the spokes would visit more cells than the clip holds, the clip is scanned
// and each cell tested against the slice instead.
func (c *DirectCanvas) FillArc(center geometry.Point, radius, startAngle, endAngle float64, color draw.Color) {
	spokes := radius * 4
	if !(spokes >= 1) || color.A <= 0 {
		return
	}
	clip := c.Clip()
	p := c.transform.Apply(center)
	if clip.IsEmpty() || math.IsNaN(p.X+p.Y) {
		return
	}
	if p.X+radius < float64(clip.X-1) || p.X-radius > float64(clip.X+clip.Width) ||
		p.Y+radius < float64(clip.Y-1) || p.Y-radius > float64(clip.Y+clip.Height) {
		return
	}
	if spokes*(radius+1) > float64(clip.Width*clip.Height) {
		c.scanArc(p, radius, startAngle, endAngle, color, clip)
		return
	}

	steps := int(spokes)
	cx, cy := roundInt(p.X), roundInt(p.Y)
	step := (endAngle - startAngle) / float64(steps)
	for i := 0; i <= steps; i++ {
		sin, cos := math.Sincos(startAngle + float64(i)*step)
		for d := 0.0; d <= radius; d++ {
			x := cx + roundInt(d*cos)
			y := cy + roundInt(d*sin)
			c.setCell(x, y, " ", color, color, ModNone)
		}
	}
}

func (c *DirectCanvas) scanArc(p geometry.Point, radius, startAngle, endAngle float64, color draw.Color, clip Region) {
	span := endAngle - startAngle
	full := math.Abs(span) >= 2*math.Pi
	x0, x1 := max(clip.X, roundInt(p.X-radius)), min(clip.X+clip.Width-1, roundInt(p.X+radius))
	y0, y1 := max(clip.Y, roundInt(p.Y-radius)), min(clip.Y+clip.Height-1, roundInt(p.Y+radius))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx, dy := float64(x)-p.X, float64(y)-p.Y
			d := math.Hypot(dx, dy)
			if d > radius {
				continue
			}
			if d >= 0.5 && !full && !inSweep(math.Atan2(dy, dx), startAngle, span) {
				continue
			}
			c.setCell(x, y, " ", color, color, ModNone)
		}
	}
}

// inSweep reports whether angle a lies on the sweep of span radians from
// start. Negative spans sweep clockwise.
func inSweep(a, start, span float64) bool {
	turn := 2 * math.Pi
	if span >= 0 {
		return math.Mod(math.Mod(a-start, turn)+turn, turn) <= span
	}
	return math.Mod(math.Mod(start-a, turn)+turn, turn) <= -span
}

// DrawPath draws a line between each consecutive pair of points.
func (c *DirectCanvas) DrawPath(points []geometry.Point, color draw.Color, width float64) {
	for i := 1; i < len(points); i++ {
		c.DrawLine(points[i-1], points[i], color, width)
	}
}

// FillPolygon scanline-fills with the even-odd rule.
func (c *DirectCanvas) FillPolygon(points []geometry.Point, color draw.Color) {
	if len(points) < 3 || color.A <= 0 {
		return
	}
	pts := make([]geometry.Point, len(points))
	minY, maxY := math.MaxInt, math.MinInt
	for i, p := range points {
		pts[i] = c.transform.Apply(p)
		y := roundInt(pts[i].Y)
		minY, maxY = min(minY, y), max(maxY, y)
	}

	clip := c.Clip()
	minY, maxY = max(minY, clip.Y), min(maxY, clip.Y+clip.Height-1)

	var xs []int
	for y := minY; y <= maxY; y++ {
		xs = xs[:0]
		fy := float64(y)
		for i := range pts {
			p1, p2 := pts[i], pts[(i+1)%len(pts)]
			y1, y2 := roundInt(p1.Y), roundInt(p2.Y)
			if (y1 <= y && y < y2) || (y2 <= y && y < y1) {
				t := (fy - p1.Y) / (p2.Y - p1.Y)
				xs = append(xs, roundInt(p1.X+t*(p2.X-p1.X)))
			}
		}
		slices.Sort(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := max(xs[i], clip.X); x <= min(xs[i+1], clip.X+clip.Width-1); x++ {
				c.setCell(x, y, " ", color, color, ModNone)
			}
		}
	}
}

// PushClip narrows the clip. A rect that misses the current clip pushes an
// empty region, so everything is dropped until the matching PopClip.
func (c *DirectCanvas) PushClip(rect geometry.Rect) {
	c.clips = append(c.clips, c.toCells(rect))
}

// PopClip restores the previous clip. The base clip is never removed.
func (c *DirectCanvas) PopClip() {
	if len(c.clips) > 1 {
		c.clips = c.clips[:len(c.clips)-1]
	}
}

// PushTransform composes t inside the current transform: content is
// transformed by t first, then by everything pushed before it.
func (c *DirectCanvas) PushTransform(t draw.Transform2D) {
	c.xforms = append(c.xforms, c.transform)
	c.transform = t.Then(c.transform)
}

func (c *DirectCanvas) PopTransform() {
	if n := len(c.xforms); n > 0 {
		c.transform = c.xforms[n-1]
		c.xforms = c.xforms[:n-1]
	}
}

// roundInt rounds to the nearest cell, saturating far outside any terminal.
func roundInt(v float64) int {
	const limit = 1 << 30
	switch {
	case math.IsNaN(v):
		return 0
	case v > limit:
		return limit
	case v < -limit:
		return -limit
	}
	return int(math.Round(v))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
