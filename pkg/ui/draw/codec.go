package draw

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	gkerrors "github.com/odvcencio/gridkit/pkg/errors"
	"github.com/odvcencio/gridkit/pkg/ui/geometry"
)

// Scene files are a list of commands in the envelope below. Colors are hex
// strings so hand-written scenes stay readable.

type wirePoint struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

type wireRect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

type wireCorners struct {
	TopLeft     float64 `json:"top_left,omitempty" yaml:"top_left,omitempty"`
	TopRight    float64 `json:"top_right,omitempty" yaml:"top_right,omitempty"`
	BottomRight float64 `json:"bottom_right,omitempty" yaml:"bottom_right,omitempty"`
	BottomLeft  float64 `json:"bottom_left,omitempty" yaml:"bottom_left,omitempty"`
}

type wireStroke struct {
	Color string    `json:"color" yaml:"color"`
	Width float64   `json:"width" yaml:"width"`
	Cap   string    `json:"cap,omitempty" yaml:"cap,omitempty"`
	Join  string    `json:"join,omitempty" yaml:"join,omitempty"`
	Dash  []float64 `json:"dash,omitempty" yaml:"dash,omitempty"`
}

type wireShadow struct {
	Color   string  `json:"color" yaml:"color"`
	OffsetX float64 `json:"offset_x,omitempty" yaml:"offset_x,omitempty"`
	OffsetY float64 `json:"offset_y,omitempty" yaml:"offset_y,omitempty"`
	Blur    float64 `json:"blur,omitempty" yaml:"blur,omitempty"`
}

type wireBox struct {
	Fill   string      `json:"fill,omitempty" yaml:"fill,omitempty"`
	Stroke *wireStroke `json:"stroke,omitempty" yaml:"stroke,omitempty"`
	Shadow *wireShadow `json:"shadow,omitempty" yaml:"shadow,omitempty"`
}

type wireFont struct {
	Size   float64 `json:"size,omitempty" yaml:"size,omitempty"`
	Color  string  `json:"color,omitempty" yaml:"color,omitempty"`
	Weight uint16  `json:"weight,omitempty" yaml:"weight,omitempty"`
	Italic bool    `json:"italic,omitempty" yaml:"italic,omitempty"`
}

type wireCommand struct {
	Type      string         `json:"type" yaml:"type"`
	Points    []wirePoint    `json:"points,omitempty" yaml:"points,omitempty"`
	Closed    bool           `json:"closed,omitempty" yaml:"closed,omitempty"`
	Stroke    *wireStroke    `json:"stroke,omitempty" yaml:"stroke,omitempty"`
	Path      uint32         `json:"path,omitempty" yaml:"path,omitempty"`
	Color     string         `json:"color,omitempty" yaml:"color,omitempty"`
	Rule      string         `json:"rule,omitempty" yaml:"rule,omitempty"`
	Bounds    *wireRect      `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	Corners   *wireCorners   `json:"corners,omitempty" yaml:"corners,omitempty"`
	Box       *wireBox       `json:"box,omitempty" yaml:"box,omitempty"`
	Center    *wirePoint     `json:"center,omitempty" yaml:"center,omitempty"`
	Radius    float64        `json:"radius,omitempty" yaml:"radius,omitempty"`
	Start     float64        `json:"start,omitempty" yaml:"start,omitempty"`
	End       float64        `json:"end,omitempty" yaml:"end,omitempty"`
	Text      string         `json:"text,omitempty" yaml:"text,omitempty"`
	Position  *wirePoint     `json:"position,omitempty" yaml:"position,omitempty"`
	Font      *wireFont      `json:"font,omitempty" yaml:"font,omitempty"`
	Tensor    uint32         `json:"tensor,omitempty" yaml:"tensor,omitempty"`
	Sampling  string         `json:"sampling,omitempty" yaml:"sampling,omitempty"`
	Transform *[6]float64    `json:"transform,omitempty" yaml:"transform,omitempty"`
	Alpha     *float64       `json:"alpha,omitempty" yaml:"alpha,omitempty"`
	Children  []*wireCommand `json:"children,omitempty" yaml:"children,omitempty"`
	Child     *wireCommand   `json:"child,omitempty" yaml:"child,omitempty"`
}

// MarshalCommand encodes a command tree as JSON.
func MarshalCommand(cmd Command) ([]byte, error) {
	w, err := toWire(cmd)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(w)
	if err != nil {
		return nil, gkerrors.Wrap(err, gkerrors.ErrCodeCodec, "encode command")
	}
	return data, nil
}

// UnmarshalCommand decodes a single JSON command tree.
func UnmarshalCommand(data []byte) (Command, error) {
	var w wireCommand
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, gkerrors.Wrap(err, gkerrors.ErrCodeCodec, "decode command")
	}
	return fromWire(&w)
}

// DecodeScene decodes a list of commands. format is "json" or "yaml".
func DecodeScene(data []byte, format string) ([]Command, error) {
	var list []*wireCommand
	var err error
	switch strings.ToLower(format) {
	case "json":
		err = json.Unmarshal(data, &list)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &list)
	default:
		return nil, gkerrors.New(gkerrors.ErrCodeCodec, "unknown scene format").WithContext("format", format)
	}
	if err != nil {
		return nil, gkerrors.Wrap(err, gkerrors.ErrCodeCodec, "decode scene").WithContext("format", format)
	}

	out := make([]Command, 0, len(list))
	for _, w := range list {
		cmd, err := fromWire(w)
		if err != nil {
			return nil, err
		}
		out = append(out, cmd)
	}
	return out, nil
}

// LoadScene reads a .json, .yaml or .yml scene file.
func LoadScene(path string) ([]Command, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, gkerrors.Wrap(err, gkerrors.ErrCodeCodec, "read scene").WithContext("path", path)
	}
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	return DecodeScene(data, format)
}

func toWire(cmd Command) (*wireCommand, error) {
	if cmd == nil {
		return nil, gkerrors.New(gkerrors.ErrCodeCodec, "nil command")
	}
	w := &wireCommand{Type: cmd.Kind()}
	switch c := cmd.(type) {
	case Path:
		w.Points = pointsToWire(c.Points)
		w.Closed = c.Closed
		w.Stroke = strokeToWire(c.Stroke)
	case Fill:
		w.Path = uint32(c.Path)
		w.Color = c.Color.String()
		if c.Rule == EvenOdd {
			w.Rule = "evenodd"
		}
	case Rectangle:
		w.Bounds = rectToWire(c.Bounds)
		if !c.Radius.IsZero() {
			w.Corners = &wireCorners{c.Radius.TopLeft, c.Radius.TopRight, c.Radius.BottomRight, c.Radius.BottomLeft}
		}
		w.Box = boxToWire(c.Style)
	case Circle:
		w.Center = pointToWire(c.Center)
		w.Radius = c.Radius
		w.Box = boxToWire(c.Style)
	case Arc:
		w.Center = pointToWire(c.Center)
		w.Radius = c.Radius
		w.Start, w.End = c.Start, c.End
		w.Color = c.Color.String()
	case Text:
		w.Text = c.Content
		w.Position = pointToWire(c.Position)
		w.Font = &wireFont{
			Size:   c.Style.Size,
			Color:  c.Style.Color.String(),
			Weight: uint16(c.Style.Weight),
			Italic: c.Style.Style == StyleItalic,
		}
	case Image:
		w.Tensor = uint32(c.Tensor)
		w.Bounds = rectToWire(c.Bounds)
		w.Sampling = samplingNames[c.Sampling]
	case Group:
		if t := c.EffectiveTransform(); !t.IsIdentity() {
			m := t.Matrix
			w.Transform = &m
		}
		for _, child := range c.Children {
			cw, err := toWire(child)
			if err != nil {
				return nil, err
			}
			w.Children = append(w.Children, cw)
		}
	case Clip:
		w.Bounds = rectToWire(c.Bounds)
		child, err := toWire(c.Child)
		if err != nil {
			return nil, err
		}
		w.Child = child
	case Opacity:
		alpha := c.Alpha
		w.Alpha = &alpha
		child, err := toWire(c.Child)
		if err != nil {
			return nil, err
		}
		w.Child = child
	}
	return w, nil
}

func fromWire(w *wireCommand) (Command, error) {
	if w == nil {
		return nil, gkerrors.New(gkerrors.ErrCodeCodec, "missing command")
	}
	switch w.Type {
	case "path":
		stroke, err := strokeFromWire(w.Stroke)
		if err != nil {
			return nil, err
		}
		return Path{Points: pointsFromWire(w.Points), Closed: w.Closed, Stroke: stroke}, nil
	case "fill":
		c, err := colorFromWire(w.Color, Black)
		if err != nil {
			return nil, err
		}
		rule := NonZero
		if w.Rule == "evenodd" {
			rule = EvenOdd
		}
		return Fill{Path: PathRef(w.Path), Color: c, Rule: rule}, nil
	case "rect":
		box, err := boxFromWire(w.Box)
		if err != nil {
			return nil, err
		}
		r := Rectangle{Bounds: rectFromWire(w.Bounds), Style: box}
		if w.Corners != nil {
			r.Radius = geometry.CornerRadius{
				TopLeft:     w.Corners.TopLeft,
				TopRight:    w.Corners.TopRight,
				BottomRight: w.Corners.BottomRight,
				BottomLeft:  w.Corners.BottomLeft,
			}
		}
		return r, nil
	case "circle":
		box, err := boxFromWire(w.Box)
		if err != nil {
			return nil, err
		}
		return Circle{Center: pointFromWire(w.Center), Radius: w.Radius, Style: box}, nil
	case "arc":
		c, err := colorFromWire(w.Color, Black)
		if err != nil {
			return nil, err
		}
		return Arc{Center: pointFromWire(w.Center), Radius: w.Radius, Start: w.Start, End: w.End, Color: c}, nil
	case "text":
		style := DefaultTextStyle()
		if w.Font != nil {
			if w.Font.Size > 0 {
				style.Size = w.Font.Size
			}
			c, err := colorFromWire(w.Font.Color, Black)
			if err != nil {
				return nil, err
			}
			style.Color = c
			if w.Font.Weight != 0 {
				style.Weight = FontWeight(w.Font.Weight)
			}
			if w.Font.Italic {
				style.Style = StyleItalic
			}
		}
		return Text{Content: w.Text, Position: pointFromWire(w.Position), Style: style}, nil
	case "image":
		sampling := Bilinear
		for k, name := range samplingNames {
			if name == w.Sampling {
				sampling = k
			}
		}
		return Image{Tensor: TensorRef(w.Tensor), Bounds: rectFromWire(w.Bounds), Sampling: sampling}, nil
	case "group":
		g := Group{Transform: Identity()}
		if w.Transform != nil {
			g.Transform = Transform2D{Matrix: *w.Transform}
		}
		for _, cw := range w.Children {
			child, err := fromWire(cw)
			if err != nil {
				return nil, err
			}
			g.Children = append(g.Children, child)
		}
		return g, nil
	case "clip":
		child, err := fromWire(w.Child)
		if err != nil {
			return nil, err
		}
		return Clip{Bounds: rectFromWire(w.Bounds), Child: child}, nil
	case "opacity":
		child, err := fromWire(w.Child)
		if err != nil {
			return nil, err
		}
		alpha := 1.0
		if w.Alpha != nil {
			alpha = *w.Alpha
		}
		return WithOpacity(alpha, child), nil
	default:
		return nil, gkerrors.New(gkerrors.ErrCodeCodec, "unknown command type").WithContext("type", w.Type)
	}
}

var samplingNames = map[Sampling]string{
	Bilinear:  "bilinear",
	Nearest:   "nearest",
	Trilinear: "trilinear",
}

var capNames = []string{"butt", "round", "square"}
var joinNames = []string{"miter", "round", "bevel"}

func pointToWire(p geometry.Point) *wirePoint { return &wirePoint{X: p.X, Y: p.Y} }

func pointFromWire(p *wirePoint) geometry.Point {
	if p == nil {
		return geometry.Point{}
	}
	return geometry.Point{X: p.X, Y: p.Y}
}

func pointsToWire(pts []geometry.Point) []wirePoint {
	out := make([]wirePoint, len(pts))
	for i, p := range pts {
		out[i] = wirePoint{X: p.X, Y: p.Y}
	}
	return out
}

func pointsFromWire(pts []wirePoint) []geometry.Point {
	out := make([]geometry.Point, len(pts))
	for i, p := range pts {
		out[i] = geometry.Point{X: p.X, Y: p.Y}
	}
	return out
}

func rectToWire(r geometry.Rect) *wireRect {
	return &wireRect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func rectFromWire(r *wireRect) geometry.Rect {
	if r == nil {
		return geometry.Rect{}
	}
	return geometry.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func colorFromWire(s string, fallback Color) (Color, error) {
	if s == "" {
		return fallback, nil
	}
	return FromHex(s)
}

func strokeToWire(s StrokeStyle) *wireStroke {
	return &wireStroke{
		Color: s.Color.String(),
		Width: s.Width,
		Cap:   capNames[s.Cap%3],
		Join:  joinNames[s.Join%3],
		Dash:  s.Dash,
	}
}

func strokeFromWire(w *wireStroke) (StrokeStyle, error) {
	if w == nil {
		return DefaultStroke(), nil
	}
	c, err := colorFromWire(w.Color, Black)
	if err != nil {
		return StrokeStyle{}, err
	}
	s := StrokeStyle{Color: c, Width: w.Width, Dash: w.Dash}
	for i, name := range capNames {
		if name == w.Cap {
			s.Cap = LineCap(i)
		}
	}
	for i, name := range joinNames {
		if name == w.Join {
			s.Join = LineJoin(i)
		}
	}
	return s, nil
}

func boxToWire(b BoxStyle) *wireBox {
	w := &wireBox{}
	if b.Fill != nil {
		w.Fill = b.Fill.String()
	}
	if b.Stroke != nil {
		w.Stroke = strokeToWire(*b.Stroke)
	}
	if b.Shadow != nil {
		w.Shadow = &wireShadow{
			Color:   b.Shadow.Color.String(),
			OffsetX: b.Shadow.OffsetX,
			OffsetY: b.Shadow.OffsetY,
			Blur:    b.Shadow.Blur,
		}
	}
	return w
}

func boxFromWire(w *wireBox) (BoxStyle, error) {
	if w == nil {
		return DefaultBoxStyle(), nil
	}
	var b BoxStyle
	if w.Fill != "" {
		c, err := FromHex(w.Fill)
		if err != nil {
			return BoxStyle{}, err
		}
		b.Fill = &c
	}
	if w.Stroke != nil {
		s, err := strokeFromWire(w.Stroke)
		if err != nil {
			return BoxStyle{}, err
		}
		b.Stroke = &s
	}
	if w.Shadow != nil {
		c, err := colorFromWire(w.Shadow.Color, DefaultShadow().Color)
		if err != nil {
			return BoxStyle{}, err
		}
		b.Shadow = &Shadow{Color: c, OffsetX: w.Shadow.OffsetX, OffsetY: w.Shadow.OffsetY, Blur: w.Shadow.Blur}
	}
	return b, nil
}
