package canvas

import (
	gkerrors "github.com/odvcencio/gridkit/pkg/errors"
	"github.com/odvcencio/gridkit/pkg/ui/draw"
	"github.com/odvcencio/gridkit/pkg/ui/geometry"
)

// Guard forwards to another Canvas while checking push/pop balance.
// Pops with nothing pushed are recorded and not forwarded.
type Guard struct {
	Canvas

	clipDepth      int
	transformDepth int
	err            error
}

// NewGuard wraps c.
func NewGuard(c Canvas) *Guard {
	return &Guard{Canvas: c}
}

func (g *Guard) PushClip(rect geometry.Rect) {
	g.clipDepth++
	g.Canvas.PushClip(rect)
}

func (g *Guard) PopClip() {
	if g.clipDepth == 0 {
		g.fail("PopClip without PushClip")
		return
	}
	g.clipDepth--
	g.Canvas.PopClip()
}

func (g *Guard) PushTransform(t draw.Transform2D) {
	g.transformDepth++
	g.Canvas.PushTransform(t)
}

func (g *Guard) PopTransform() {
	if g.transformDepth == 0 {
		g.fail("PopTransform without PushTransform")
		return
	}
	g.transformDepth--
	g.Canvas.PopTransform()
}

func (g *Guard) fail(msg string) {
	if g.err == nil {
		g.err = gkerrors.New(gkerrors.ErrCodeUnbalancedStack, msg)
	}
}

// Depths returns the currently open clip and transform counts.
func (g *Guard) Depths() (clips, transforms int) {
	return g.clipDepth, g.transformDepth
}

// Err reports the first unmatched pop, or any push still open.
func (g *Guard) Err() error {
	if g.err != nil {
		return g.err
	}
	if g.clipDepth != 0 || g.transformDepth != 0 {
		return gkerrors.New(gkerrors.ErrCodeUnbalancedStack, "push left open").
			WithContext("clips", g.clipDepth).
			WithContext("transforms", g.transformDepth)
	}
	return nil
}

// Check runs fn and reports whether it left the stacks balanced.
func (g *Guard) Check(fn func(Canvas)) error {
	clips, transforms := g.clipDepth, g.transformDepth
	fn(g)
	if g.err != nil {
		return g.err
	}
	if g.clipDepth != clips || g.transformDepth != transforms {
		return gkerrors.New(gkerrors.ErrCodeUnbalancedStack, "paint left stack unbalanced").
			WithContext("clips", g.clipDepth-clips).
			WithContext("transforms", g.transformDepth-transforms)
	}
	return nil
}

// Reset clears the recorded error and depth counters.
func (g *Guard) Reset() {
	g.clipDepth, g.transformDepth, g.err = 0, 0, nil
}
