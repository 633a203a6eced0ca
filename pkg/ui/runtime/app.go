package runtime

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/odvcencio/gridkit/pkg/config"
	gkerrors "github.com/odvcencio/gridkit/pkg/errors"
	"github.com/odvcencio/gridkit/pkg/logging"
	"github.com/odvcencio/gridkit/pkg/telemetry"
	"github.com/odvcencio/gridkit/pkg/ui/backend"
	"github.com/odvcencio/gridkit/pkg/ui/compositor"
	"github.com/odvcencio/gridkit/pkg/ui/terminal"
	"github.com/odvcencio/gridkit/pkg/ui/theme"
)

// ResultHandler receives event results that are not Commands. It runs on
// the event loop goroutine.
type ResultHandler func(app *App, result any)

// AppConfig configures a runtime App.
type AppConfig struct {
	Backend backend.Backend
	Root    Widget
	Theme   *theme.Theme

	// FPS caps the frame rate. Zero means config.DefaultFPS.
	FPS int
	// FullRedrawRatio is the dirty fraction above which the backend is asked
	// to repaint everything. Zero means config.DefaultFullRedrawRatio.
	FullRedrawRatio float64
	// TickRate delivers Tick events when positive.
	TickRate time.Duration

	DebugAssertions bool
	Budget          BrickBudget

	// ThemePath is watched for changes when WatchTheme is set.
	ThemePath  string
	WatchTheme bool

	OnResult ResultHandler

	Logger  *logging.Logger
	Metrics *telemetry.Metrics
	Hub     *telemetry.Hub
	Tracer  *telemetry.Tracer
}

// ConfigFromSettings fills the rendering fields of an AppConfig from the
// loaded configuration.
func ConfigFromSettings(cfg *config.Config) AppConfig {
	return AppConfig{
		FPS:             cfg.Render.FPS,
		FullRedrawRatio: cfg.Render.FullRedrawRatio,
		DebugAssertions: cfg.Render.DebugAssertions,
		Budget:          BudgetFromDuration(cfg.Render.FrameBudget),
		ThemePath:       config.ExpandHome(cfg.Theme.Path),
		WatchTheme:      cfg.Theme.Watch,
	}
}

// wake is posted to the backend to unblock PollEvent on shutdown.
type wake struct{}

// App runs a widget tree against a terminal backend.
type App struct {
	cfg     AppConfig
	backend backend.Backend
	screen  *Screen
	log     *logging.Logger

	calls chan func()
	dirty bool

	mu       sync.Mutex
	cancel   context.CancelFunc
	quitting bool
	ready    chan struct{}
}

// NewApp creates a new App from config.
func NewApp(cfg AppConfig) *App {
	if cfg.FPS <= 0 {
		cfg.FPS = config.DefaultFPS
	}
	if cfg.FullRedrawRatio <= 0 {
		cfg.FullRedrawRatio = config.DefaultFullRedrawRatio
	}
	if cfg.Theme == nil {
		cfg.Theme = theme.DefaultTheme()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	return &App{
		cfg:     cfg,
		backend: cfg.Backend,
		log:     cfg.Logger,
		calls:   make(chan func(), 128),
		ready:   make(chan struct{}),
	}
}

// Screen returns the active screen, nil before Run.
func (a *App) Screen() *Screen {
	return a.screen
}

// Ready is closed once the first frame has been presented.
func (a *App) Ready() <-chan struct{} {
	return a.ready
}

// Do runs fn on the event loop goroutine. Calls are dropped when the queue
// is full.
func (a *App) Do(fn func()) {
	select {
	case a.calls <- fn:
	default:
		a.log.Warn("app call queue full, dropping call")
	}
}

// Send dispatches an event to the widget tree from any goroutine.
func (a *App) Send(ev Event) {
	a.Do(func() { a.dispatch(ev) })
}

// SetTheme swaps the theme from any goroutine.
func (a *App) SetTheme(th *theme.Theme) {
	a.Do(func() {
		a.screen.SetTheme(th)
		a.dirty = true
	})
}

// Quit stops the loop. Run returns nil.
func (a *App) Quit() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.quitting = true
	if a.cancel != nil {
		a.cancel()
	}
}

// Run takes over the terminal and processes events until Quit or ctx is
// done.
func (a *App) Run(ctx context.Context) error {
	if a.backend == nil {
		return gkerrors.New(gkerrors.ErrCodeInvalidInput, "backend is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.backend.Init(); err != nil {
		return gkerrors.Wrap(err, gkerrors.ErrCodeBackendInit, "init backend")
	}
	defer a.backend.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.mu.Lock()
	a.cancel = cancel
	quitting := a.quitting
	a.mu.Unlock()
	if quitting {
		return nil
	}

	w, h := a.backend.Size()
	a.screen = NewScreen(w, h, ScreenOptions{
		Theme:           a.cfg.Theme,
		DebugAssertions: a.cfg.DebugAssertions,
		Budget:          a.cfg.Budget,
		Logger:          a.log,
		Metrics:         a.cfg.Metrics,
		Hub:             a.cfg.Hub,
		Tracer:          a.cfg.Tracer,
	})
	a.screen.SetRoot(a.cfg.Root)
	a.log.Info("app started", "width", w, "height", h, "fps", a.cfg.FPS)

	events := make(chan terminal.Event, 128)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.poll(gctx, events)
		return nil
	})
	if a.cfg.WatchTheme && a.cfg.ThemePath != "" {
		g.Go(func() error {
			return config.WatchTheme(gctx, a.cfg.ThemePath, a.SetTheme, func(err error) {
				a.log.WithError(err).Warn("theme reload failed", "path", a.cfg.ThemePath)
			})
		})
	}
	g.Go(func() error {
		defer func() {
			cancel()
			_ = a.backend.PostEvent(terminal.InterruptEvent{Data: wake{}})
		}()
		return a.loop(gctx, events)
	})

	err := g.Wait()
	a.log.Info("app stopped")
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.quitting {
		return nil
	}
	return context.Cause(ctx)
}

func (a *App) poll(ctx context.Context, out chan<- terminal.Event) {
	for {
		ev := a.backend.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return
		}
		if in, ok := ev.(terminal.InterruptEvent); ok {
			if _, isWake := in.Data.(wake); isWake {
				continue
			}
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) loop(ctx context.Context, events <-chan terminal.Event) error {
	limiter := rate.NewLimiter(rate.Every(time.Second/time.Duration(a.cfg.FPS)), 1)

	var ticks <-chan time.Time
	if a.cfg.TickRate > 0 {
		ticker := time.NewTicker(a.cfg.TickRate)
		defer ticker.Stop()
		ticks = ticker.C
	}

	var frame *time.Timer
	var frameC <-chan time.Time
	defer func() {
		if frame != nil {
			frame.Stop()
		}
	}()

	a.dirty = true
	for {
		if a.dirty && frameC == nil {
			if delay := limiter.Reserve().Delay(); delay <= 0 {
				if err := a.render(ctx); err != nil {
					return err
				}
			} else {
				frame = time.NewTimer(delay)
				frameC = frame.C
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			for _, e := range FromTerminal(ev) {
				a.dispatch(e)
			}
		case fn := <-a.calls:
			fn()
		case now := <-ticks:
			// Ticks only repaint when a widget reports a change.
			if res := a.screen.HandleEvent(Tick{Time: now}); res != nil {
				a.dirty = true
				if cmd, ok := res.(Command); ok {
					a.handleCommand(cmd)
				}
			}
		case <-frameC:
			frameC = nil
			if err := a.render(ctx); err != nil {
				return err
			}
		}
	}
}

// dispatch delivers ev, acts on the result and applies the default key
// bindings when nothing handled it: Ctrl+C quits, Tab and Shift+Tab move
// focus.
func (a *App) dispatch(ev Event) {
	a.dirty = true
	if r, ok := ev.(Resize); ok {
		a.screen.Resize(r.Width, r.Height)
		a.backend.Sync()
	}

	result := a.screen.HandleEvent(ev)
	if result == nil {
		result = defaultBinding(ev)
		if cmd, ok := result.(Command); ok {
			a.screen.apply(cmd)
		}
	}
	if result == nil {
		return
	}
	if cmd, ok := result.(Command); ok {
		a.handleCommand(cmd)
		return
	}
	if a.cfg.OnResult != nil {
		a.cfg.OnResult(a, result)
	}
}

func defaultBinding(ev Event) any {
	key, ok := ev.(KeyDown)
	if !ok {
		return nil
	}
	switch key.Key {
	case terminal.KeyCtrlC:
		return Quit{}
	case terminal.KeyTab:
		return FocusNext{}
	case terminal.KeyBacktab:
		return FocusPrev{}
	}
	return nil
}

func (a *App) handleCommand(cmd Command) {
	switch c := cmd.(type) {
	case Quit:
		a.Quit()
	case Refresh:
		a.screen.Buffer().MarkAllDirty()
		a.backend.Sync()
	case Bell:
		a.backend.Beep()
	case Batch:
		for _, sub := range c {
			a.handleCommand(sub)
		}
	}
}

// rendererOwner is implemented by backends that flush through a
// DiffRenderer and can report byte counts.
type rendererOwner interface {
	Renderer() *compositor.DiffRenderer
}

func (a *App) render(ctx context.Context) error {
	a.dirty = false
	if _, err := a.screen.Render(ctx); err != nil {
		a.log.WithError(err).Warn("frame rendered with errors")
	}

	buf := a.screen.Buffer()
	if a.screen.DirtyRatio() > a.cfg.FullRedrawRatio {
		a.backend.Sync()
	}
	cells := buf.DirtyCount()
	if err := a.backend.Present(buf); err != nil {
		a.cfg.Metrics.RecordFlushError()
		a.cfg.Hub.Publish(telemetry.Event{Type: telemetry.EventFlushFailed, Data: map[string]any{"error": err.Error()}})
		return gkerrors.Wrap(err, gkerrors.ErrCodeFlush, "present frame")
	}

	bytes := 0
	if r, ok := a.backend.(rendererOwner); ok {
		stats := r.Renderer().LastStats()
		cells, bytes = stats.CellsWritten, stats.Bytes
	}
	a.cfg.Metrics.RecordFlush(cells, bytes)
	a.cfg.Hub.Publish(telemetry.Event{
		Type: telemetry.EventFrameFlushed,
		Data: map[string]any{"cells": cells, "bytes": bytes},
	})

	select {
	case <-a.ready:
	default:
		close(a.ready)
	}
	return nil
}
