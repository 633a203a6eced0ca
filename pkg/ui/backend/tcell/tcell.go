// Package tcell provides a Backend implementation using tcell.
package tcell

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	gkerrors "github.com/odvcencio/gridkit/pkg/errors"
	"github.com/odvcencio/gridkit/pkg/ui/backend"
	"github.com/odvcencio/gridkit/pkg/ui/compositor"
	"github.com/odvcencio/gridkit/pkg/ui/terminal"
)

// Backend implements backend.Backend using tcell.
type Backend struct {
	screen tcell.Screen
	mode   compositor.ColorMode

	mu sync.Mutex

	// Bracketed paste state
	inPaste     bool
	pasteBuffer strings.Builder

	// Button state from the previous mouse event, used to tell presses
	// from drags and releases.
	lastButtons tcell.ButtonMask
}

// New creates a tcell backend for the real terminal.
func New(mode compositor.ColorMode) (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, gkerrors.Wrap(err, gkerrors.ErrCodeBackendInit, "create tcell screen")
	}
	return &Backend{screen: screen, mode: mode}, nil
}

// NewWithScreen wraps an existing tcell screen.
func NewWithScreen(screen tcell.Screen, mode compositor.ColorMode) *Backend {
	return &Backend{screen: screen, mode: mode}
}

// Screen exposes the underlying tcell screen.
func (b *Backend) Screen() tcell.Screen { return b.screen }

func (b *Backend) ColorMode() compositor.ColorMode { return b.mode }

func (b *Backend) Init() error {
	if err := b.screen.Init(); err != nil {
		return gkerrors.Wrap(err, gkerrors.ErrCodeBackendInit, "init tcell screen").
			WithRemediation("check that TERM is set and stdout is a terminal")
	}
	b.screen.EnableMouse()
	b.screen.EnablePaste()
	b.screen.EnableFocus()
	b.screen.HideCursor()
	return nil
}

func (b *Backend) Fini() {
	b.screen.Fini()
}

func (b *Backend) Size() (width, height int) {
	return b.screen.Size()
}

// Present copies the dirty cells into tcell's back buffer and shows it.
// tcell performs its own diff against the terminal, so only the dirty
// subset needs to cross over.
func (b *Backend) Present(buf *compositor.CellBuffer) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cells := buf.Cells()
	buf.IterDirty(func(idx int) bool {
		cell := cells[idx]
		if cell.IsContinuation() {
			return true
		}
		x, y := buf.Coords(idx)
		mainc, comb := splitSymbol(cell.Symbol)
		b.screen.SetContent(x, y, mainc, comb, ConvertStyle(cell, b.mode))
		return true
	})
	buf.ClearDirty()
	b.screen.Show()
	return nil
}

func splitSymbol(symbol string) (rune, []rune) {
	if symbol == "" {
		return ' ', nil
	}
	runes := []rune(symbol)
	if len(runes) == 1 {
		return runes[0], nil
	}
	return runes[0], runes[1:]
}

// PollEvent blocks until an event is available.
func (b *Backend) PollEvent() terminal.Event {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return nil
		}

		switch e := ev.(type) {
		case *tcell.EventPaste:
			if e.Start() {
				b.inPaste = true
				b.pasteBuffer.Reset()
				continue
			}
			if e.End() {
				b.inPaste = false
				text := b.pasteBuffer.String()
				b.pasteBuffer.Reset()
				if text != "" {
					return terminal.PasteEvent{Text: text}
				}
				continue
			}

		case *tcell.EventKey:
			if b.inPaste {
				switch e.Key() {
				case tcell.KeyRune:
					b.pasteBuffer.WriteRune(e.Rune())
				case tcell.KeyEnter:
					b.pasteBuffer.WriteRune('\n')
				case tcell.KeyTab:
					b.pasteBuffer.WriteRune('\t')
				}
				continue
			}
		}

		if out := b.convertEvent(ev); out != nil {
			return out
		}
	}
}

// PostEvent injects an event into tcell's queue. Resize and interrupt events
// round-trip; other kinds are not representable and are rejected.
func (b *Backend) PostEvent(ev terminal.Event) error {
	var tev tcell.Event
	switch e := ev.(type) {
	case terminal.ResizeEvent:
		tev = tcell.NewEventResize(e.Width, e.Height)
	case terminal.InterruptEvent:
		tev = tcell.NewEventInterrupt(e.Data)
	default:
		return gkerrors.Newf(gkerrors.ErrCodeInvalidInput, "cannot post %T to tcell", ev)
	}
	if err := b.screen.PostEvent(tev); err != nil {
		return gkerrors.Wrap(err, gkerrors.ErrCodeInternal, "post event")
	}
	return nil
}

func (b *Backend) Beep() {
	_ = b.screen.Beep()
}

func (b *Backend) Sync() {
	b.screen.Sync()
}

func (b *Backend) convertEvent(ev tcell.Event) terminal.Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return terminal.KeyEvent{
			Key:  convertKey(e.Key()),
			Rune: e.Rune(),
			Mods: convertMods(e.Modifiers()),
		}
	case *tcell.EventResize:
		w, h := e.Size()
		return terminal.ResizeEvent{Width: w, Height: h}
	case *tcell.EventMouse:
		x, y := e.Position()
		buttons := e.Buttons()
		out := terminal.MouseEvent{
			X:      x,
			Y:      y,
			Button: convertMouseButton(buttons | b.lastButtons),
			Action: mouseAction(b.lastButtons, buttons),
			Mods:   convertMods(e.Modifiers()),
		}
		if buttons&(tcell.WheelUp|tcell.WheelDown|tcell.WheelLeft|tcell.WheelRight) == 0 {
			b.lastButtons = buttons
		}
		return out
	case *tcell.EventFocus:
		return terminal.FocusEvent{Focused: e.Focused}
	case *tcell.EventInterrupt:
		return terminal.InterruptEvent{Data: e.Data()}
	}
	return nil
}

func convertMods(m tcell.ModMask) terminal.Modifiers {
	var out terminal.Modifiers
	if m&tcell.ModShift != 0 {
		out |= terminal.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= terminal.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= terminal.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= terminal.ModMeta
	}
	return out
}

var keyMap = map[tcell.Key]terminal.Key{
	tcell.KeyRune:       terminal.KeyRune,
	tcell.KeyUp:         terminal.KeyUp,
	tcell.KeyDown:       terminal.KeyDown,
	tcell.KeyRight:      terminal.KeyRight,
	tcell.KeyLeft:       terminal.KeyLeft,
	tcell.KeyPgUp:       terminal.KeyPageUp,
	tcell.KeyPgDn:       terminal.KeyPageDown,
	tcell.KeyHome:       terminal.KeyHome,
	tcell.KeyEnd:        terminal.KeyEnd,
	tcell.KeyInsert:     terminal.KeyInsert,
	tcell.KeyDelete:     terminal.KeyDelete,
	tcell.KeyBackspace:  terminal.KeyBackspace,
	tcell.KeyBackspace2: terminal.KeyBackspace,
	tcell.KeyTab:        terminal.KeyTab,
	tcell.KeyBacktab:    terminal.KeyBacktab,
	tcell.KeyEnter:      terminal.KeyEnter,
	tcell.KeyEscape:     terminal.KeyEscape,
	tcell.KeyCtrlC:      terminal.KeyCtrlC,
	tcell.KeyCtrlD:      terminal.KeyCtrlD,
	tcell.KeyCtrlL:      terminal.KeyCtrlL,
	tcell.KeyCtrlZ:      terminal.KeyCtrlZ,
	tcell.KeyF1:         terminal.KeyF1,
	tcell.KeyF2:         terminal.KeyF2,
	tcell.KeyF3:         terminal.KeyF3,
	tcell.KeyF4:         terminal.KeyF4,
	tcell.KeyF5:         terminal.KeyF5,
	tcell.KeyF6:         terminal.KeyF6,
	tcell.KeyF7:         terminal.KeyF7,
	tcell.KeyF8:         terminal.KeyF8,
	tcell.KeyF9:         terminal.KeyF9,
	tcell.KeyF10:        terminal.KeyF10,
	tcell.KeyF11:        terminal.KeyF11,
	tcell.KeyF12:        terminal.KeyF12,
}

func convertKey(k tcell.Key) terminal.Key {
	if out, ok := keyMap[k]; ok {
		return out
	}
	return terminal.KeyNone
}

func convertMouseButton(buttons tcell.ButtonMask) terminal.MouseButton {
	switch {
	case buttons&tcell.WheelUp != 0:
		return terminal.MouseWheelUp
	case buttons&tcell.WheelDown != 0:
		return terminal.MouseWheelDown
	case buttons&tcell.WheelLeft != 0:
		return terminal.MouseWheelLeft
	case buttons&tcell.WheelRight != 0:
		return terminal.MouseWheelRight
	case buttons&tcell.ButtonPrimary != 0:
		return terminal.MouseLeft
	case buttons&tcell.ButtonMiddle != 0:
		return terminal.MouseMiddle
	case buttons&tcell.ButtonSecondary != 0:
		return terminal.MouseRight
	}
	return terminal.MouseNone
}

// mouseAction derives press/release/move from the button transition. tcell
// reports state, not edges.
func mouseAction(prev, cur tcell.ButtonMask) terminal.MouseAction {
	switch {
	case cur&(tcell.WheelUp|tcell.WheelDown|tcell.WheelLeft|tcell.WheelRight) != 0:
		return terminal.MousePress
	case cur == tcell.ButtonNone && prev != tcell.ButtonNone:
		return terminal.MouseRelease
	case cur != tcell.ButtonNone && cur != prev:
		return terminal.MousePress
	}
	return terminal.MouseMove
}

var _ backend.Backend = (*Backend)(nil)
