package main

import (
	"math/rand/v2"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/odvcencio/gridkit/pkg/ui/canvas"
	"github.com/odvcencio/gridkit/pkg/ui/geometry"
	"github.com/odvcencio/gridkit/pkg/ui/runtime"
	"github.com/odvcencio/gridkit/pkg/ui/terminal"
	"github.com/odvcencio/gridkit/pkg/ui/widgets"
)

const meterEase = 0.8 // seconds per retarget

// animated is the tick result that asks the app for a repaint.
type animated struct{}

// meter drives one gauge toward a target value.
type meter struct {
	gauge *widgets.Gauge
	tween *gween.Tween
}

func (m *meter) retarget(to float64) {
	m.tween = gween.New(float32(m.gauge.Value), float32(to), meterEase, ease.InOutQuad)
}

// advance steps the tween and reports whether the value moved.
func (m *meter) advance(dt float32) (moved, done bool) {
	if m.tween == nil {
		return false, true
	}
	val, finished := m.tween.Update(dt)
	before := m.gauge.Value
	m.gauge.SetValue(float64(val))
	if finished {
		m.tween = nil
	}
	return before != m.gauge.Value, finished
}

// dashboard is the demo screen: a few animated gauges and an allocation bar
// inside a titled border.
type dashboard struct {
	root   runtime.Widget
	meters []*meter
	alloc  *widgets.ProportionalBar
	status *widgets.Text

	rng    *rand.Rand
	last   time.Time
	paused bool
}

var meterNames = []string{"CPU", "MEM", "NET", "DSK"}

func newDashboard(seed uint64) *dashboard {
	d := &dashboard{
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		alloc:  widgets.NewProportionalBar(),
		status: widgets.NewText(""),
	}

	rows := runtime.Rows(
		runtime.Item(widgets.NewText("frame pipeline").Bold(), runtime.Fixed(1)),
	)
	initial := []float64{0.35, 0.62, 0.18, 0.9}
	for i, name := range meterNames {
		g := widgets.NewGauge(name, initial[i])
		d.meters = append(d.meters, &meter{gauge: g})
		rows.Add(g, runtime.Fixed(1))
	}
	d.alloc.SetValues(0.3, 0.25, 0.2)
	rows.Add(runtime.NewSpacer(), runtime.Fixed(1))
	rows.Add(widgets.NewText("allocation").Bold(), runtime.Fixed(1))
	rows.Add(d.alloc, runtime.Fixed(1))
	rows.Add(runtime.NewSpacer(), runtime.Expanded())
	rows.Add(d.status, runtime.Fixed(1))
	d.updateStatus()

	d.root = widgets.NewPanel(widgets.RoundedBorder("gridkit", rows))
	return d
}

// retarget gives every meter and the allocation bar new random targets.
func (d *dashboard) retarget() {
	for _, m := range d.meters {
		m.retarget(d.rng.Float64())
	}
	a := d.rng.Float64() * 0.5
	b := d.rng.Float64() * 0.3
	d.alloc.SetValues(a, b, d.rng.Float64()*(1-a-b))
}

func (d *dashboard) updateStatus() {
	if d.paused {
		d.status.SetContent("paused · space resume · r retarget · q quit")
		return
	}
	d.status.SetContent("space pause · r retarget · q quit")
}

// tick advances the animation to now. A finished round of tweens starts
// another one.
func (d *dashboard) tick(now time.Time) bool {
	if d.last.IsZero() {
		d.last = now
		d.retarget()
		return true
	}
	dt := float32(now.Sub(d.last).Seconds())
	d.last = now
	if d.paused || dt <= 0 {
		return false
	}

	changed, allDone := false, true
	for _, m := range d.meters {
		moved, done := m.advance(dt)
		changed = changed || moved
		allDone = allDone && done
	}
	if allDone {
		d.retarget()
		changed = true
	}
	return changed
}

func (d *dashboard) Measure(c geometry.Constraints) geometry.Size { return d.root.Measure(c) }

func (d *dashboard) Layout(bounds geometry.Rect) runtime.LayoutResult { return d.root.Layout(bounds) }

func (d *dashboard) Paint(c canvas.Canvas) { d.root.Paint(c) }

func (d *dashboard) Children() []runtime.Widget { return []runtime.Widget{d.root} }

func (d *dashboard) Event(ev runtime.Event) any {
	switch e := ev.(type) {
	case runtime.Tick:
		if d.tick(e.Time) {
			return animated{}
		}
	case runtime.KeyDown:
		switch {
		case e.Key == terminal.KeyEscape, e.Key == terminal.KeyRune && e.Rune == 'q':
			return runtime.Quit{}
		case e.Key == terminal.KeyRune && e.Rune == ' ':
			d.paused = !d.paused
			d.updateStatus()
			return animated{}
		case e.Key == terminal.KeyRune && e.Rune == 'r':
			d.retarget()
			return animated{}
		}
	}
	return nil
}
