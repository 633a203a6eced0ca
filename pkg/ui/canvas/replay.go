package canvas

import (
	"github.com/odvcencio/gridkit/pkg/ui/draw"
	"github.com/odvcencio/gridkit/pkg/ui/geometry"
)

// ImagePlaceholder is the outline color used for Image commands, which a
// character grid cannot sample.
var ImagePlaceholder = draw.RGB(0.5, 0.5, 0.5)

// Replayer paints draw.Command trees onto a Canvas.
type Replayer struct {
	// Paths resolves Fill commands. Fills with unknown refs are skipped.
	Paths map[draw.PathRef][]geometry.Point

	target Canvas
	alpha  []float64
}

// NewReplayer creates a replayer targeting c.
func NewReplayer(c Canvas) *Replayer {
	return &Replayer{target: c}
}

// Replay paints cmds onto c.
func Replay(c Canvas, cmds ...draw.Command) {
	NewReplayer(c).Replay(cmds...)
}

// Replay paints cmds in order. Clips and transforms are pushed before
// opacity is applied, and every push is popped before Replay returns.
func (r *Replayer) Replay(cmds ...draw.Command) {
	for _, cmd := range cmds {
		r.replay(cmd)
	}
}

func (r *Replayer) opacity() float64 {
	if len(r.alpha) == 0 {
		return 1
	}
	return r.alpha[len(r.alpha)-1]
}

func (r *Replayer) tint(c draw.Color) draw.Color {
	return c.MultiplyAlpha(r.opacity())
}

func (r *Replayer) replay(cmd draw.Command) {
	switch c := cmd.(type) {
	case nil:
	case draw.Path:
		switch {
		case c.Closed && c.Stroke.Width == 0:
			r.target.FillPolygon(c.Points, r.tint(c.Stroke.Color))
		case c.Closed && len(c.Points) > 1:
			pts := append(clonePoints(c.Points), c.Points[0])
			r.target.DrawPath(pts, r.tint(c.Stroke.Color), c.Stroke.Width)
		default:
			r.target.DrawPath(c.Points, r.tint(c.Stroke.Color), c.Stroke.Width)
		}
	case draw.Fill:
		if pts, ok := r.Paths[c.Path]; ok {
			r.target.FillPolygon(pts, r.tint(c.Color))
		}
	case draw.Rectangle:
		if s := c.Style.Shadow; s != nil {
			r.target.FillRect(c.Bounds.Translate(s.OffsetX, s.OffsetY), r.tint(s.Color))
		}
		if c.Style.Fill != nil {
			r.target.FillRect(c.Bounds, r.tint(*c.Style.Fill))
		}
		if s := c.Style.Stroke; s != nil {
			r.target.StrokeRect(c.Bounds, r.tint(s.Color), s.Width)
		}
	case draw.Circle:
		if c.Style.Fill != nil {
			r.target.FillCircle(c.Center, c.Radius, r.tint(*c.Style.Fill))
		}
		if s := c.Style.Stroke; s != nil {
			r.target.StrokeCircle(c.Center, c.Radius, r.tint(s.Color), s.Width)
		}
	case draw.Arc:
		r.target.FillArc(c.Center, c.Radius, c.Start, c.End, r.tint(c.Color))
	case draw.Text:
		style := c.Style
		style.Color = r.tint(style.Color)
		r.target.DrawText(c.Content, c.Position, style)
	case draw.Image:
		r.target.StrokeRect(c.Bounds, r.tint(ImagePlaceholder), 1)
	case draw.Group:
		t := c.EffectiveTransform()
		identity := t.IsIdentity()
		if !identity {
			r.target.PushTransform(t)
		}
		for _, child := range c.Children {
			r.replay(child)
		}
		if !identity {
			r.target.PopTransform()
		}
	case draw.Clip:
		r.target.PushClip(c.Bounds)
		r.replay(c.Child)
		r.target.PopClip()
	case draw.Opacity:
		a := r.opacity() * c.Alpha
		if a <= 0 {
			return
		}
		r.alpha = append(r.alpha, a)
		r.replay(c.Child)
		r.alpha = r.alpha[:len(r.alpha)-1]
	}
}
