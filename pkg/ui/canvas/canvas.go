// Package canvas defines the imperative drawing surface widgets paint into,
// plus two implementations that do not touch a terminal: a RecordingCanvas
// that captures calls as a draw.Command tree and a Guard that checks stack
// discipline. Replay turns a command tree back into Canvas calls.
package canvas

import (
	"github.com/odvcencio/gridkit/pkg/ui/draw"
	"github.com/odvcencio/gridkit/pkg/ui/geometry"
)

//go:generate mockgen -package=widgets -destination=../widgets/mock_canvas_test.go github.com/odvcencio/gridkit/pkg/ui/canvas Canvas

// Canvas is a drawing surface. Coordinates are in the current user space,
// which PushTransform changes. Every PushClip and PushTransform must be
// matched by a pop before the enclosing paint call returns.
//
// Nested clips intersect. A clip that misses the current clip entirely makes
// every draw a no-op until it is popped. Nested transforms compose so that
// the innermost transform applies to content first.
type Canvas interface {
	FillRect(rect geometry.Rect, color draw.Color)
	StrokeRect(rect geometry.Rect, color draw.Color, width float64)
	DrawText(text string, position geometry.Point, style draw.TextStyle)
	DrawLine(from, to geometry.Point, color draw.Color, width float64)
	FillCircle(center geometry.Point, radius float64, color draw.Color)
	StrokeCircle(center geometry.Point, radius float64, color draw.Color, width float64)
	FillArc(center geometry.Point, radius, startAngle, endAngle float64, color draw.Color)
	DrawPath(points []geometry.Point, color draw.Color, width float64)
	FillPolygon(points []geometry.Point, color draw.Color)

	PushClip(rect geometry.Rect)
	PopClip()
	PushTransform(t draw.Transform2D)
	PopTransform()
}
