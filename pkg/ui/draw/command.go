package draw

import (
	"github.com/odvcencio/gridkit/pkg/ui/geometry"
)

// Command is one node of a drawing instruction tree. The set of commands is
// closed: Path, Fill, Rectangle, Circle, Arc, Text, Image, Group, Clip, Opacity.
type Command interface {
	isCommand()
	// Kind is the stable name used by the scene codec.
	Kind() string
}

// Path is a polyline, optionally closed, drawn with a stroke.
type Path struct {
	Points []geometry.Point
	Closed bool
	Stroke StrokeStyle
}

// Fill fills a backend-stored path.
type Fill struct {
	Path  PathRef
	Color Color
	Rule  FillRule
}

// Rectangle is a box with optional rounded corners.
type Rectangle struct {
	Bounds geometry.Rect
	Radius geometry.CornerRadius
	Style  BoxStyle
}

// Circle is a filled and/or stroked circle.
type Circle struct {
	Center geometry.Point
	Radius float64
	Style  BoxStyle
}

// Arc is a filled pie slice between two angles in radians.
type Arc struct {
	Center     geometry.Point
	Radius     float64
	Start, End float64
	Color      Color
}

// Text draws a string with its top-left at Position.
type Text struct {
	Content  string
	Position geometry.Point
	Style    TextStyle
}

// Image draws backend-stored image data scaled into Bounds.
type Image struct {
	Tensor   TensorRef
	Bounds   geometry.Rect
	Sampling Sampling
}

// Group draws its children in order under one transform. A zero Transform
// is read as the identity, so a literal Group{Children: ...} draws in place.
type Group struct {
	Children  []Command
	Transform Transform2D
}

// EffectiveTransform returns Transform, or the identity when it is zero.
func (g Group) EffectiveTransform() Transform2D {
	if g.Transform == (Transform2D{}) {
		return Identity()
	}
	return g.Transform
}

// Clip restricts its child to Bounds intersected with any active clip.
type Clip struct {
	Bounds geometry.Rect
	Child  Command
}

// Opacity multiplies the alpha of everything its child draws.
type Opacity struct {
	Alpha float64
	Child Command
}

func (Path) isCommand()      {}
func (Fill) isCommand()      {}
func (Rectangle) isCommand() {}
func (Circle) isCommand()    {}
func (Arc) isCommand()       {}
func (Text) isCommand()      {}
func (Image) isCommand()     {}
func (Group) isCommand()     {}
func (Clip) isCommand()      {}
func (Opacity) isCommand()   {}

func (Path) Kind() string      { return "path" }
func (Fill) Kind() string      { return "fill" }
func (Rectangle) Kind() string { return "rect" }
func (Circle) Kind() string    { return "circle" }
func (Arc) Kind() string       { return "arc" }
func (Text) Kind() string      { return "text" }
func (Image) Kind() string     { return "image" }
func (Group) Kind() string     { return "group" }
func (Clip) Kind() string      { return "clip" }
func (Opacity) Kind() string   { return "opacity" }

// FilledRect returns a square-cornered rect filled with c.
func FilledRect(bounds geometry.Rect, c Color) Rectangle {
	return Rectangle{Bounds: bounds, Style: Filled(c)}
}

// RoundedRect returns a filled rect with uniform corner radius.
func RoundedRect(bounds geometry.Rect, radius float64, c Color) Rectangle {
	return Rectangle{Bounds: bounds, Radius: geometry.UniformRadius(radius), Style: Filled(c)}
}

// StrokedRect returns an outlined rect.
func StrokedRect(bounds geometry.Rect, c Color, width float64) Rectangle {
	return Rectangle{Bounds: bounds, Style: Stroked(Stroke(c, width))}
}

// FilledCircle returns a circle filled with c.
func FilledCircle(center geometry.Point, radius float64, c Color) Circle {
	return Circle{Center: center, Radius: radius, Style: Filled(c)}
}

// Line returns an open two-point path.
func Line(from, to geometry.Point, c Color, width float64) Path {
	return Path{Points: []geometry.Point{from, to}, Stroke: Stroke(c, width)}
}

// WithTransform wraps commands in a transformed group.
func WithTransform(t Transform2D, children ...Command) Group {
	return Group{Children: children, Transform: t}
}

// WithOpacity wraps child; alpha is clamped into [0, 1].
func WithOpacity(alpha float64, child Command) Opacity {
	return Opacity{Alpha: clamp01(alpha), Child: child}
}

// WithClip wraps child in a clip region.
func WithClip(bounds geometry.Rect, child Command) Clip {
	return Clip{Bounds: bounds, Child: child}
}

// Children returns the direct children of a structural command.
func Children(cmd Command) []Command {
	switch c := cmd.(type) {
	case Group:
		return c.Children
	case Clip:
		if c.Child != nil {
			return []Command{c.Child}
		}
	case Opacity:
		if c.Child != nil {
			return []Command{c.Child}
		}
	}
	return nil
}

// Walk visits cmd and its descendants depth-first, parents before children.
// Returning false from fn skips the node's children.
func Walk(cmd Command, fn func(Command) bool) {
	if cmd == nil || !fn(cmd) {
		return
	}
	for _, child := range Children(cmd) {
		Walk(child, fn)
	}
}

// Count returns the number of nodes in the tree rooted at cmd.
func Count(cmd Command) int {
	n := 0
	Walk(cmd, func(Command) bool {
		n++
		return true
	})
	return n
}
