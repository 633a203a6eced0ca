package draw

// LineCap is how open stroke ends are drawn.
type LineCap uint8

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

// LineJoin is how stroke segments meet.
type LineJoin uint8

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

// StrokeStyle describes an outline.
type StrokeStyle struct {
	Color Color
	Width float64
	Cap   LineCap
	Join  LineJoin
	Dash  []float64
}

// DefaultStroke returns a 1-unit black stroke.
func DefaultStroke() StrokeStyle {
	return StrokeStyle{Color: Black, Width: 1}
}

// Stroke returns a solid stroke of the given color and width.
func Stroke(c Color, width float64) StrokeStyle {
	return StrokeStyle{Color: c, Width: width}
}

// Shadow is a drop shadow under a box.
type Shadow struct {
	Color   Color
	OffsetX float64
	OffsetY float64
	Blur    float64
}

// DefaultShadow returns a soft shadow offset downward.
func DefaultShadow() Shadow {
	return Shadow{Color: RGBA(0, 0, 0, 0.3), OffsetY: 2, Blur: 4}
}

// BoxStyle is the fill/stroke/shadow of a rect or circle. Nil fields are not drawn.
type BoxStyle struct {
	Fill   *Color
	Stroke *StrokeStyle
	Shadow *Shadow
}

// DefaultBoxStyle fills white with no stroke.
func DefaultBoxStyle() BoxStyle {
	return Filled(White)
}

// Filled returns a BoxStyle that only fills.
func Filled(c Color) BoxStyle {
	return BoxStyle{Fill: &c}
}

// Stroked returns a BoxStyle that only outlines.
func Stroked(s StrokeStyle) BoxStyle {
	return BoxStyle{Stroke: &s}
}

// FontWeight follows the CSS numeric scale.
type FontWeight uint16

const (
	WeightThin       FontWeight = 100
	WeightExtraLight FontWeight = 200
	WeightLight      FontWeight = 300
	WeightNormal     FontWeight = 400
	WeightMedium     FontWeight = 500
	WeightSemibold   FontWeight = 600
	WeightBold       FontWeight = 700
	WeightExtraBold  FontWeight = 800
	WeightBlack      FontWeight = 900
)

// IsBold reports whether the weight renders as bold on a terminal.
func (w FontWeight) IsBold() bool {
	return w >= WeightBold
}

// FontStyle is upright or italic.
type FontStyle uint8

const (
	StyleNormal FontStyle = iota
	StyleItalic
)

// TextStyle describes how text is drawn.
type TextStyle struct {
	Size   float64
	Color  Color
	Weight FontWeight
	Style  FontStyle
}

// DefaultTextStyle returns 16-unit black upright text.
func DefaultTextStyle() TextStyle {
	return TextStyle{Size: 16, Color: Black, Weight: WeightNormal, Style: StyleNormal}
}

// FillRule selects how path interiors are computed.
type FillRule uint8

const (
	NonZero FillRule = iota
	EvenOdd
)

// Sampling selects image filtering.
type Sampling uint8

const (
	Bilinear Sampling = iota
	Nearest
	Trilinear
)

// PathRef is an opaque handle to a path stored by a backend.
type PathRef uint32

// TensorRef is an opaque handle to image data stored by a backend.
type TensorRef uint32
