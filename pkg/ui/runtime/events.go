package runtime

import (
	"time"

	"github.com/odvcencio/gridkit/pkg/ui/geometry"
	"github.com/odvcencio/gridkit/pkg/ui/terminal"
)

// Event is an input event delivered to widgets. The set is closed.
type Event interface {
	isEvent()
}

// KeyDown is a key press.
type KeyDown struct {
	Key  terminal.Key
	Rune rune
	Mods terminal.Modifiers
}

// KeyUp is a key release. Terminals rarely report it.
type KeyUp struct {
	Key  terminal.Key
	Rune rune
	Mods terminal.Modifiers
}

// TextInput carries text typed by the user, after KeyDown.
type TextInput struct {
	Text string
}

// MouseMove reports the pointer position.
type MouseMove struct {
	Pos geometry.Point
}

// MouseDown is a button press.
type MouseDown struct {
	Pos    geometry.Point
	Button terminal.MouseButton
}

// MouseUp is a button release.
type MouseUp struct {
	Pos    geometry.Point
	Button terminal.MouseButton
}

// Scroll is a wheel movement. Positive DY scrolls down, positive DX right.
type Scroll struct {
	Pos    geometry.Point
	DX, DY float64
}

// Resize reports new terminal dimensions in cells.
type Resize struct {
	Width, Height int
}

// Tick is delivered on the app's tick interval.
type Tick struct {
	Time time.Time
}

// Paste carries bracketed paste content.
type Paste struct {
	Text string
}

// FocusIn is sent to a widget that gained focus.
type FocusIn struct{}

// FocusOut is sent to a widget that lost focus.
type FocusOut struct{}

func (KeyDown) isEvent()   {}
func (KeyUp) isEvent()     {}
func (TextInput) isEvent() {}
func (MouseMove) isEvent() {}
func (MouseDown) isEvent() {}
func (MouseUp) isEvent()   {}
func (Scroll) isEvent()    {}
func (Resize) isEvent()    {}
func (Tick) isEvent()      {}
func (Paste) isEvent()     {}
func (FocusIn) isEvent()   {}
func (FocusOut) isEvent()  {}

// Position returns the pointer position of mouse events.
func Position(ev Event) (geometry.Point, bool) {
	switch e := ev.(type) {
	case MouseMove:
		return e.Pos, true
	case MouseDown:
		return e.Pos, true
	case MouseUp:
		return e.Pos, true
	case Scroll:
		return e.Pos, true
	}
	return geometry.Point{}, false
}

// FromTerminal converts a backend event into runtime events. A printable key
// yields a KeyDown followed by a TextInput. Terminal focus changes map to
// FocusIn and FocusOut. Interrupts and unknown events yield nothing.
func FromTerminal(ev terminal.Event) []Event {
	switch e := ev.(type) {
	case terminal.KeyEvent:
		down := KeyDown{Key: e.Key, Rune: e.Rune, Mods: e.Mods}
		if e.Key == terminal.KeyRune && e.Rune != 0 &&
			!e.Mods.Has(terminal.ModCtrl) && !e.Mods.Has(terminal.ModAlt) {
			return []Event{down, TextInput{Text: string(e.Rune)}}
		}
		return []Event{down}

	case terminal.MouseEvent:
		pos := geometry.Pt(float64(e.X), float64(e.Y))
		if e.Button.IsWheel() {
			if e.Action == terminal.MouseRelease {
				return nil
			}
			s := Scroll{Pos: pos}
			switch e.Button {
			case terminal.MouseWheelUp:
				s.DY = -1
			case terminal.MouseWheelDown:
				s.DY = 1
			case terminal.MouseWheelLeft:
				s.DX = -1
			case terminal.MouseWheelRight:
				s.DX = 1
			}
			return []Event{s}
		}
		switch e.Action {
		case terminal.MousePress:
			return []Event{MouseDown{Pos: pos, Button: e.Button}}
		case terminal.MouseRelease:
			return []Event{MouseUp{Pos: pos, Button: e.Button}}
		default:
			return []Event{MouseMove{Pos: pos}}
		}

	case terminal.ResizeEvent:
		return []Event{Resize{Width: e.Width, Height: e.Height}}

	case terminal.PasteEvent:
		return []Event{Paste{Text: e.Text}}

	case terminal.FocusEvent:
		if e.Focused {
			return []Event{FocusIn{}}
		}
		return []Event{FocusOut{}}
	}
	return nil
}
