package canvas

import (
	"github.com/odvcencio/gridkit/pkg/ui/draw"
	"github.com/odvcencio/gridkit/pkg/ui/geometry"
)

type frameKind uint8

const (
	frameClip frameKind = iota
	frameTransform
)

// frame is an open PushClip or PushTransform collecting the commands drawn
// inside it.
type frame struct {
	kind      frameKind
	clip      geometry.Rect
	transform draw.Transform2D
	children  []draw.Command
}

// RecordingCanvas captures Canvas calls as a draw.Command tree. Clips and
// transforms become Clip and Group nodes wrapping the commands issued while
// they were pushed, so replaying the tree reproduces the original calls.
type RecordingCanvas struct {
	commands []draw.Command
	open     []*frame
	clips    []geometry.Rect
	xforms   []draw.Transform2D
}

var _ Canvas = (*RecordingCanvas)(nil)

// NewRecordingCanvas creates an empty recorder.
func NewRecordingCanvas() *RecordingCanvas {
	return &RecordingCanvas{}
}

// Commands returns the completed top-level commands.
func (r *RecordingCanvas) Commands() []draw.Command {
	return r.commands
}

// Len returns the number of top-level commands.
func (r *RecordingCanvas) Len() int {
	return len(r.commands)
}

// Take returns the completed commands and empties the recorder's list.
func (r *RecordingCanvas) Take() []draw.Command {
	out := r.commands
	r.commands = nil
	return out
}

// Clear drops all commands and any open clips or transforms.
func (r *RecordingCanvas) Clear() {
	r.commands = nil
	r.open = nil
	r.clips = nil
	r.xforms = nil
}

// Add appends a prebuilt command at the current nesting level.
func (r *RecordingCanvas) Add(cmd draw.Command) {
	if cmd == nil {
		return
	}
	if n := len(r.open); n > 0 {
		r.open[n-1].children = append(r.open[n-1].children, cmd)
		return
	}
	r.commands = append(r.commands, cmd)
}

// CurrentTransform returns the composition of every pushed transform.
func (r *RecordingCanvas) CurrentTransform() draw.Transform2D {
	t := draw.Identity()
	for i := len(r.xforms) - 1; i >= 0; i-- {
		t = t.Then(r.xforms[i])
	}
	return t
}

// CurrentClip returns the innermost pushed clip rect.
func (r *RecordingCanvas) CurrentClip() (geometry.Rect, bool) {
	if len(r.clips) == 0 {
		return geometry.Rect{}, false
	}
	return r.clips[len(r.clips)-1], true
}

func (r *RecordingCanvas) ClipDepth() int      { return len(r.clips) }
func (r *RecordingCanvas) TransformDepth() int { return len(r.xforms) }

func (r *RecordingCanvas) FillRect(rect geometry.Rect, color draw.Color) {
	r.Add(draw.FilledRect(rect, color))
}

func (r *RecordingCanvas) StrokeRect(rect geometry.Rect, color draw.Color, width float64) {
	r.Add(draw.StrokedRect(rect, color, width))
}

func (r *RecordingCanvas) DrawText(text string, position geometry.Point, style draw.TextStyle) {
	r.Add(draw.Text{Content: text, Position: position, Style: style})
}

func (r *RecordingCanvas) DrawLine(from, to geometry.Point, color draw.Color, width float64) {
	r.Add(draw.Line(from, to, color, width))
}

func (r *RecordingCanvas) FillCircle(center geometry.Point, radius float64, color draw.Color) {
	r.Add(draw.FilledCircle(center, radius, color))
}

func (r *RecordingCanvas) StrokeCircle(center geometry.Point, radius float64, color draw.Color, width float64) {
	r.Add(draw.Circle{Center: center, Radius: radius, Style: draw.Stroked(draw.Stroke(color, width))})
}

func (r *RecordingCanvas) FillArc(center geometry.Point, radius, startAngle, endAngle float64, color draw.Color) {
	r.Add(draw.Arc{Center: center, Radius: radius, Start: startAngle, End: endAngle, Color: color})
}

func (r *RecordingCanvas) DrawPath(points []geometry.Point, color draw.Color, width float64) {
	r.Add(draw.Path{Points: clonePoints(points), Stroke: draw.Stroke(color, width)})
}

// FillPolygon is recorded as a closed path with a zero-width stroke.
func (r *RecordingCanvas) FillPolygon(points []geometry.Point, color draw.Color) {
	r.Add(draw.Path{Points: clonePoints(points), Closed: true, Stroke: draw.Stroke(color, 0)})
}

func (r *RecordingCanvas) PushClip(rect geometry.Rect) {
	r.clips = append(r.clips, rect)
	r.open = append(r.open, &frame{kind: frameClip, clip: rect})
}

// PopClip closes the innermost clip. Popping with nothing pushed does nothing.
func (r *RecordingCanvas) PopClip() {
	if len(r.clips) == 0 {
		return
	}
	r.clips = r.clips[:len(r.clips)-1]
	r.closeFrame(frameClip)
}

func (r *RecordingCanvas) PushTransform(t draw.Transform2D) {
	r.xforms = append(r.xforms, t)
	r.open = append(r.open, &frame{kind: frameTransform, transform: t})
}

func (r *RecordingCanvas) PopTransform() {
	if len(r.xforms) == 0 {
		return
	}
	r.xforms = r.xforms[:len(r.xforms)-1]
	r.closeFrame(frameTransform)
}

// closeFrame pops the innermost open frame of the given kind. Frames of the
// other kind opened after it are closed too, so interleaved pops still yield
// a well-formed tree.
func (r *RecordingCanvas) closeFrame(kind frameKind) {
	for len(r.open) > 0 {
		f := r.open[len(r.open)-1]
		r.open = r.open[:len(r.open)-1]
		if cmd := f.command(); cmd != nil {
			r.Add(cmd)
		}
		if f.kind == kind {
			return
		}
		switch f.kind {
		case frameClip:
			r.clips = r.clips[:len(r.clips)-1]
		case frameTransform:
			r.xforms = r.xforms[:len(r.xforms)-1]
		}
	}
}

func (f *frame) command() draw.Command {
	if len(f.children) == 0 {
		return nil
	}
	switch f.kind {
	case frameTransform:
		return draw.Group{Children: f.children, Transform: f.transform}
	default:
		var child draw.Command
		if len(f.children) == 1 {
			child = f.children[0]
		} else {
			child = draw.Group{Children: f.children, Transform: draw.Identity()}
		}
		return draw.Clip{Bounds: f.clip, Child: child}
	}
}

func clonePoints(points []geometry.Point) []geometry.Point {
	return append([]geometry.Point(nil), points...)
}
