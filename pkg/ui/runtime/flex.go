package runtime

import (
	"math"

	"github.com/odvcencio/gridkit/pkg/ui/canvas"
	"github.com/odvcencio/gridkit/pkg/ui/geometry"
)

// Direction specifies the main axis of a Layout.
type Direction int

const (
	Column Direction = iota // Vertical
	Row                     // Horizontal
)

func (d Direction) String() string {
	if d == Row {
		return "row"
	}
	return "column"
}

// SizeKind selects how a SizeSpec claims main-axis space.
type SizeKind int

const (
	SizeFlex SizeKind = iota
	SizeFixed
	SizePercent
	SizeAuto
)

// SizeSpec is a child's main-axis sizing policy. The zero value is Flex(1);
// a flex weight of zero also counts as one.
type SizeSpec struct {
	Kind  SizeKind
	Value float64
}

// Fixed claims exactly n cells, or what remains if less.
func Fixed(n float64) SizeSpec { return SizeSpec{Kind: SizeFixed, Value: n} }

// Percent claims p percent of the total, gaps included.
func Percent(p float64) SizeSpec { return SizeSpec{Kind: SizePercent, Value: p} }

// Flex shares the space left after fixed, percent and auto items by weight.
func Flex(weight float64) SizeSpec { return SizeSpec{Kind: SizeFlex, Value: weight} }

// Expanded is Flex(1).
func Expanded() SizeSpec { return Flex(1) }

// Auto claims a single cell.
func Auto() SizeSpec { return SizeSpec{Kind: SizeAuto} }

func (s SizeSpec) weight() float64 {
	if s.Kind != SizeFlex {
		return 0
	}
	if s.Value == 0 {
		return 1
	}
	if s.Value < 0 || math.IsNaN(s.Value) {
		return 0
	}
	return s.Value
}

// CalculateSizes distributes total along one axis. Gaps between items are
// taken off the top. Fixed, percent and auto items are served first, in
// order, each capped by what remains; flex items then split the rest by
// weight. The sizes never add up to more than total.
func CalculateSizes(specs []SizeSpec, total, gap float64) []float64 {
	sizes := make([]float64, len(specs))
	if len(specs) == 0 {
		return sizes
	}
	total = math.Max(total, 0)
	remaining := total - gap*float64(len(specs)-1)

	claim := func(want float64) float64 {
		got := math.Max(math.Min(want, remaining), 0)
		remaining -= got
		return got
	}

	var weights float64
	for i, spec := range specs {
		switch spec.Kind {
		case SizeFixed:
			sizes[i] = claim(spec.Value)
		case SizePercent:
			sizes[i] = claim(total * spec.Value / 100)
		case SizeAuto:
			sizes[i] = claim(1)
		default:
			weights += spec.weight()
		}
	}

	if weights > 0 {
		share := math.Max(remaining, 0)
		for i, spec := range specs {
			if spec.Kind == SizeFlex {
				sizes[i] = share * spec.weight() / weights
			}
		}
	}
	return sizes
}

// LayoutItem is a child widget and its sizing policy.
type LayoutItem struct {
	Widget Widget
	Size   SizeSpec
}

// Item pairs a widget with a size spec.
func Item(w Widget, size SizeSpec) LayoutItem {
	return LayoutItem{Widget: w, Size: size}
}

// Layout is a container that splits its bounds along one axis.
type Layout struct {
	Direction Direction
	Items     []LayoutItem
	Gap       float64

	bounds      geometry.Rect
	childBounds []geometry.Rect
}

// Rows creates a vertical layout.
func Rows(items ...LayoutItem) *Layout {
	return &Layout{Direction: Column, Items: items}
}

// Columns creates a horizontal layout.
func Columns(items ...LayoutItem) *Layout {
	return &Layout{Direction: Row, Items: items}
}

// WithGap sets the gap between children.
func (l *Layout) WithGap(gap float64) *Layout {
	l.Gap = gap
	return l
}

// Add appends a child.
func (l *Layout) Add(w Widget, size SizeSpec) *Layout {
	l.Items = append(l.Items, LayoutItem{Widget: w, Size: size})
	return l
}

// Measure takes all the space offered.
func (l *Layout) Measure(constraints geometry.Constraints) geometry.Size {
	return constraints.Constrain(constraints.Biggest())
}

// Layout positions all children within bounds.
func (l *Layout) Layout(bounds geometry.Rect) LayoutResult {
	l.bounds = bounds
	l.childBounds = l.childBounds[:0]

	specs := make([]SizeSpec, len(l.Items))
	for i, item := range l.Items {
		specs[i] = item.Size
	}
	main := bounds.Height
	if l.Direction == Row {
		main = bounds.Width
	}
	sizes := CalculateSizes(specs, main, l.Gap)

	offset := 0.0
	for i, item := range l.Items {
		var child geometry.Rect
		if l.Direction == Column {
			child = geometry.R(bounds.X, bounds.Y+offset, bounds.Width, sizes[i])
		} else {
			child = geometry.R(bounds.X+offset, bounds.Y, sizes[i], bounds.Height)
		}
		l.childBounds = append(l.childBounds, child)
		offset += sizes[i] + l.Gap

		if item.Widget == nil {
			continue
		}
		item.Widget.Measure(geometry.Tight(child.Size()))
		item.Widget.Layout(child)
	}
	return LayoutResult{Size: bounds.Size()}
}

// Bounds returns the bounds from the last Layout.
func (l *Layout) Bounds() geometry.Rect { return l.bounds }

// ChildBounds returns the rect assigned to each item by the last Layout.
func (l *Layout) ChildBounds() []geometry.Rect { return l.childBounds }

// Paint paints each child clipped to its bounds.
func (l *Layout) Paint(c canvas.Canvas) {
	for i, item := range l.Items {
		if item.Widget == nil || i >= len(l.childBounds) {
			continue
		}
		c.PushClip(l.childBounds[i])
		item.Widget.Paint(c)
		c.PopClip()
	}
}

// Event routes mouse events to the child under the pointer and everything
// else to each child in order. The first non-nil result wins.
func (l *Layout) Event(ev Event) any {
	if pos, ok := Position(ev); ok {
		for i, item := range l.Items {
			if item.Widget == nil || i >= len(l.childBounds) {
				continue
			}
			if l.childBounds[i].ContainsCell(pos) {
				if res := item.Widget.Event(ev); res != nil {
					return res
				}
			}
		}
		return nil
	}
	return Dispatch(ev, l.Children()...)
}

// Children returns the item widgets.
func (l *Layout) Children() []Widget {
	children := make([]Widget, 0, len(l.Items))
	for _, item := range l.Items {
		if item.Widget != nil {
			children = append(children, item.Widget)
		}
	}
	return children
}

// Spacer is an empty widget for adding space in layouts.
type Spacer struct {
	Leaf
}

// NewSpacer creates a spacer widget.
func NewSpacer() *Spacer {
	return &Spacer{}
}

func (s *Spacer) Measure(constraints geometry.Constraints) geometry.Size {
	return constraints.Smallest()
}

func (s *Spacer) Paint(canvas.Canvas) {}

// Space is an expanding spacer item.
func Space() LayoutItem {
	return Item(NewSpacer(), Expanded())
}

// FixedSpace is a fixed-size spacer item.
func FixedSpace(n float64) LayoutItem {
	return Item(NewSpacer(), Fixed(n))
}
