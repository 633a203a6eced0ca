// Package ansi provides a Backend that writes escape sequences to any
// io.Writer through the compositor's diff renderer. It does not read the
// terminal; events arrive only through PostEvent.
package ansi

import (
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	gkerrors "github.com/odvcencio/gridkit/pkg/errors"
	"github.com/odvcencio/gridkit/pkg/ui/backend"
	"github.com/odvcencio/gridkit/pkg/ui/compositor"
	"github.com/odvcencio/gridkit/pkg/ui/terminal"
)

// Option configures a Backend.
type Option func(*Backend)

// WithSize fixes the reported size. Without it the size is read from the
// terminal when the writer is one, and falls back to 80x24.
func WithSize(width, height int) Option {
	return func(b *Backend) {
		b.width, b.height = width, height
		b.fixedSize = true
	}
}

// WithAltScreen switches to the alternate screen on Init.
func WithAltScreen(on bool) Option {
	return func(b *Backend) { b.altScreen = on }
}

// WithRawMode puts the terminal in raw mode on Init when the writer is a tty.
func WithRawMode(on bool) Option {
	return func(b *Backend) { b.rawMode = on }
}

// Backend renders frames as ANSI output.
type Backend struct {
	mu        sync.Mutex
	out       io.Writer
	renderer  *compositor.DiffRenderer
	width     int
	height    int
	fixedSize bool
	altScreen bool
	rawMode   bool
	fullNext  bool

	fd       int
	isTTY    bool
	oldState *term.State

	events chan terminal.Event
	done   chan struct{}
	once   sync.Once
}

// New creates a backend writing to out in the given color mode.
func New(out io.Writer, mode compositor.ColorMode, opts ...Option) *Backend {
	b := &Backend{
		out:      out,
		renderer: compositor.NewDiffRenderer(mode),
		width:    80,
		height:   24,
		fd:       -1,
		events:   make(chan terminal.Event, 64),
		done:     make(chan struct{}),
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b.fd = int(f.Fd())
		b.isTTY = true
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Renderer exposes the diff renderer, mainly for its statistics.
func (b *Backend) Renderer() *compositor.DiffRenderer { return b.renderer }

func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.rawMode && b.isTTY {
		state, err := term.MakeRaw(b.fd)
		if err != nil {
			return gkerrors.Wrap(err, gkerrors.ErrCodeBackendInit, "enable raw mode")
		}
		b.oldState = state
	}

	seq := compositor.ANSICursorHide
	if b.altScreen {
		seq = compositor.ANSIAltScreen + seq
	}
	seq += compositor.ANSIClearScreen + compositor.ANSICursorHome
	if _, err := io.WriteString(b.out, seq); err != nil {
		return gkerrors.Wrap(err, gkerrors.ErrCodeBackendInit, "write terminal setup")
	}
	b.renderer.Reset()
	return nil
}

// Fini restores the cursor, the main screen and the terminal mode. It is
// safe to call more than once.
func (b *Backend) Fini() {
	b.once.Do(func() {
		close(b.done)

		b.mu.Lock()
		defer b.mu.Unlock()
		seq := compositor.ANSIReset + compositor.ANSICursorShow
		if b.altScreen {
			seq += compositor.ANSIMainScreen
		}
		_, _ = io.WriteString(b.out, seq)
		if b.oldState != nil {
			_ = term.Restore(b.fd, b.oldState)
			b.oldState = nil
		}
	})
}

func (b *Backend) Size() (width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.fixedSize && b.isTTY {
		if w, h, err := term.GetSize(b.fd); err == nil && w > 0 && h > 0 {
			return w, h
		}
	}
	return b.width, b.height
}

// Present flushes the dirty cells, or every cell after Sync.
func (b *Backend) Present(buf *compositor.CellBuffer) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	if b.fullNext {
		_, err = b.renderer.RenderFull(buf, b.out)
	} else {
		_, err = b.renderer.Flush(buf, b.out)
	}
	if err != nil {
		return err
	}
	b.fullNext = false
	return nil
}

// PollEvent blocks until an event is posted or the backend is finalized.
func (b *Backend) PollEvent() terminal.Event {
	select {
	case ev := <-b.events:
		return ev
	case <-b.done:
		return nil
	}
}

func (b *Backend) PostEvent(ev terminal.Event) error {
	select {
	case <-b.done:
		return gkerrors.New(gkerrors.ErrCodeInvalidInput, "backend finalized")
	default:
	}
	select {
	case b.events <- ev:
		return nil
	default:
		return gkerrors.New(gkerrors.ErrCodeInternal, "event queue full")
	}
}

// Resize changes the fixed size and posts the matching event.
func (b *Backend) Resize(width, height int) {
	b.mu.Lock()
	b.width, b.height = width, height
	b.fixedSize = true
	b.fullNext = true
	b.mu.Unlock()
	_ = b.PostEvent(terminal.ResizeEvent{Width: width, Height: height})
}

func (b *Backend) Beep() {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = io.WriteString(b.out, "\a")
}

// Sync makes the next Present repaint every cell and restate the cursor.
func (b *Backend) Sync() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fullNext = true
	b.renderer.Reset()
}

var _ backend.Backend = (*Backend)(nil)
