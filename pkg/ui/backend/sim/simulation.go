// Package sim provides a simulation backend for testing.
package sim

import (
	"strings"
	"sync"

	tcellv2 "github.com/gdamore/tcell/v2"

	"github.com/odvcencio/gridkit/pkg/ui/backend"
	"github.com/odvcencio/gridkit/pkg/ui/backend/tcell"
	"github.com/odvcencio/gridkit/pkg/ui/compositor"
	"github.com/odvcencio/gridkit/pkg/ui/draw"
	"github.com/odvcencio/gridkit/pkg/ui/terminal"
)

// Backend is a testable backend on top of tcell's simulation screen.
// Injected key, mouse and paste events are queued here and delivered by
// PollEvent ahead of anything tcell itself reports.
type Backend struct {
	*tcell.Backend
	screen tcellv2.SimulationScreen

	mu      sync.Mutex
	width   int
	height  int
	pending []terminal.Event
}

// New creates a simulation backend with the given dimensions in true color.
func New(width, height int) *Backend {
	screen := tcellv2.NewSimulationScreen("UTF-8")
	return &Backend{
		Backend: tcell.NewWithScreen(screen, compositor.TrueColor),
		screen:  screen,
		width:   width,
		height:  height,
	}
}

// Init initializes the simulation screen and applies the requested size,
// which tcell resets during Init.
func (s *Backend) Init() error {
	if err := s.Backend.Init(); err != nil {
		return err
	}
	s.mu.Lock()
	s.screen.SetSize(s.width, s.height)
	s.mu.Unlock()
	return nil
}

// Resize changes the simulation screen size without posting an event.
func (s *Backend) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
	s.screen.SetSize(width, height)
}

// PollEvent returns queued injections first, then tcell events. Wake-up
// interrupts carrying no data are swallowed.
func (s *Backend) PollEvent() terminal.Event {
	for {
		if ev, ok := s.next(); ok {
			return ev
		}
		ev := s.Backend.PollEvent()
		if in, wake := ev.(terminal.InterruptEvent); wake && in.Data == nil {
			continue
		}
		return ev
	}
}

func (s *Backend) next() (terminal.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return nil, false
	}
	ev := s.pending[0]
	s.pending = s.pending[1:]
	return ev, true
}

// PostEvent queues any event kind. A wake-up interrupt is sent through tcell
// so a PollEvent already blocked returns.
func (s *Backend) PostEvent(ev terminal.Event) error {
	s.mu.Lock()
	s.pending = append(s.pending, ev)
	s.mu.Unlock()
	return s.Backend.PostEvent(terminal.InterruptEvent{})
}

// InjectKey queues a key event.
func (s *Backend) InjectKey(key terminal.Key, r rune, mods terminal.Modifiers) {
	_ = s.PostEvent(terminal.KeyEvent{Key: key, Rune: r, Mods: mods})
}

// InjectKeyString queues one rune key event per rune of str.
func (s *Backend) InjectKeyString(str string) {
	for _, r := range str {
		s.InjectKey(terminal.KeyRune, r, terminal.ModNone)
	}
}

// InjectMouse queues a mouse event.
func (s *Backend) InjectMouse(x, y int, button terminal.MouseButton, action terminal.MouseAction) {
	_ = s.PostEvent(terminal.MouseEvent{X: x, Y: y, Button: button, Action: action})
}

// InjectResize resizes the screen and queues the matching event.
func (s *Backend) InjectResize(width, height int) {
	s.Resize(width, height)
	_ = s.PostEvent(terminal.ResizeEvent{Width: width, Height: height})
}

// Capture returns the screen content, one line per row. Continuation columns
// behind wide glyphs are omitted.
func (s *Backend) Capture() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, h := s.screen.Size()
	return s.captureRegion(0, 0, w, h)
}

// CaptureRegion captures a rectangular region of the screen.
func (s *Backend) CaptureRegion(x, y, w, h int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captureRegion(x, y, w, h)
}

func (s *Backend) captureRegion(x, y, w, h int) string {
	lines := make([]string, 0, h)
	for row := y; row < y+h; row++ {
		var line strings.Builder
		for col := x; col < x+w; col++ {
			mainc, comb, _, width := s.screen.GetContent(col, row)
			if mainc == 0 {
				mainc = ' '
			}
			line.WriteRune(mainc)
			for _, c := range comb {
				line.WriteRune(c)
			}
			if width > 1 {
				col += width - 1
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// CaptureCell returns the cell tcell holds at (x, y), converted back into
// compositor terms.
func (s *Backend) CaptureCell(x, y int) compositor.Cell {
	s.mu.Lock()
	defer s.mu.Unlock()

	mainc, comb, style, _ := s.screen.GetContent(x, y)
	symbol := string(append([]rune{mainc}, comb...))
	if mainc == 0 {
		symbol = " "
	}
	fg, bg, mods := tcell.DecomposeStyle(style)
	return compositor.NewCell(symbol, fg, bg, mods)
}

// FindText searches for text on the screen and returns its position.
func (s *Backend) FindText(text string) (x, y int) {
	for row, line := range strings.Split(s.Capture(), "\n") {
		if col := strings.Index(line, text); col >= 0 {
			return len([]rune(line[:col])), row
		}
	}
	return -1, -1
}

// ContainsText reports whether text appears anywhere on screen.
func (s *Backend) ContainsText(text string) bool {
	x, _ := s.FindText(text)
	return x >= 0
}

// BackgroundAt is a shorthand for CaptureCell(x, y).BG.
func (s *Backend) BackgroundAt(x, y int) draw.Color {
	return s.CaptureCell(x, y).BG
}

var _ backend.Backend = (*Backend)(nil)
