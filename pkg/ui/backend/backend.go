// Package backend defines the terminal backend interface the runtime presents
// frames through. Implementations live in subpackages: tcell for real
// terminals, sim for tests and ansi for plain io.Writer output.
package backend

import (
	"github.com/odvcencio/gridkit/pkg/ui/compositor"
	"github.com/odvcencio/gridkit/pkg/ui/terminal"
)

// Backend is the terminal abstraction layer.
type Backend interface {
	// Init takes over the terminal (alt screen, raw mode, mouse).
	Init() error

	// Fini restores the terminal.
	Fini()

	// Size returns the current terminal dimensions in cells.
	Size() (width, height int)

	// Present writes the dirty cells of buf to the terminal and clears
	// its dirty set. A backend may write more than the dirty cells.
	Present(buf *compositor.CellBuffer) error

	// PollEvent blocks until an event is available. It returns nil once the
	// backend is shutting down.
	PollEvent() terminal.Event

	// PostEvent injects an event into the queue, waking PollEvent.
	PostEvent(ev terminal.Event) error

	// Beep emits an audible bell.
	Beep()

	// Sync forces the next Present to repaint the whole terminal.
	Sync()
}
