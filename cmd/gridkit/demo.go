package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/odvcencio/gridkit/pkg/console"
	gkerrors "github.com/odvcencio/gridkit/pkg/errors"
	"github.com/odvcencio/gridkit/pkg/performance"
	"github.com/odvcencio/gridkit/pkg/telemetry"
	"github.com/odvcencio/gridkit/pkg/ui/backend"
	"github.com/odvcencio/gridkit/pkg/ui/backend/ansi"
	tcellbackend "github.com/odvcencio/gridkit/pkg/ui/backend/tcell"
	"github.com/odvcencio/gridkit/pkg/ui/runtime"
)

func runDemoCommand(args []string) error {
	var configPath string
	fs := newFlagSet("demo", &configPath)
	backendName := fs.String("backend", "", "terminal backend: tcell or ansi (default from config)")
	fps := fs.Int("fps", 0, "frame rate cap (default from config)")
	tick := fs.Duration("tick", 33*time.Millisecond, "animation tick interval")
	seed := fs.Uint64("seed", uint64(time.Now().UnixNano()), "random seed for meter targets")
	duration := fs.Duration("duration", 0, "exit after this long (0 runs until q)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	// Logs never go to the terminal the demo owns.
	s, err := openSession(configPath, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	name := *backendName
	if name == "" {
		name = s.cfg.Render.Backend
	}
	be, err := newBackend(name, s)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}
	s.serveMetrics(ctx)

	dash := newDashboard(*seed)
	appCfg := runtime.ConfigFromSettings(s.cfg)
	appCfg.Backend = be
	appCfg.Root = dash
	appCfg.Theme = s.theme
	appCfg.TickRate = *tick
	appCfg.Logger = s.log
	appCfg.Metrics = s.metrics
	appCfg.Hub = s.hub
	appCfg.Tracer = s.tracer
	if *fps > 0 {
		appCfg.FPS = *fps
	}

	events, unsubscribe := s.hub.Subscribe(telemetry.EventBudgetViolation, telemetry.EventFlushFailed)
	tally := make(chan demoTally, 1)
	go func() {
		var t demoTally
		for ev := range events {
			t.add(ev)
		}
		tally <- t
	}()

	app := runtime.NewApp(appCfg)
	err = app.Run(ctx)
	unsubscribe()
	out := console.NewWithOutput(os.Stderr, s.mode, s.theme)
	(<-tally).report(out, s.cfg.Render.FrameBudget)
	if screen := app.Screen(); screen != nil && screen.Tracker() != nil {
		printPhaseStats(out, screen.Tracker().Metrics())
	}
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		// Interrupted, or -duration elapsed.
		return nil
	}
	return err
}

// demoTally counts the problem events seen while the demo ran.
type demoTally struct {
	violations    int
	flushFailures int
	last          string
}

func (t *demoTally) add(ev telemetry.Event) {
	switch ev.Type {
	case telemetry.EventBudgetViolation:
		t.violations++
		if widget, ok := ev.Data["widget"].(string); ok {
			t.last = widget
		}
	case telemetry.EventFlushFailed:
		t.flushFailures++
	}
}

func (t demoTally) report(out *console.Writer, budget time.Duration) {
	if t.violations > 0 {
		out.Warn("%d budget violations against a %v frame budget (last: %s)", t.violations, budget, t.last)
	}
	if t.flushFailures > 0 {
		out.Warn("%d frames failed to flush", t.flushFailures)
	}
}

// printPhaseStats summarizes the phase timings collected with debug
// assertions on.
func printPhaseStats(out *console.Writer, m *performance.Metrics) {
	stats := m.GetStats()
	var rows []console.KeyValue
	for _, phase := range []performance.Phase{performance.PhaseMeasure, performance.PhaseLayout, performance.PhasePaint} {
		st, ok := stats[string(phase)]
		if !ok {
			continue
		}
		rows = append(rows, console.KeyValue{
			Key:   string(phase),
			Value: fmt.Sprintf("p50 %v  p95 %v  max %v  (%d samples)", st.P50, st.P95, st.MaxTime, st.Count),
		})
	}
	if len(rows) == 0 {
		return
	}
	out.Header("Frame phases")
	out.KeyValues(rows)
}

// newBackend builds the named terminal backend in the session's color mode.
func newBackend(name string, s *session) (backend.Backend, error) {
	switch strings.ToLower(name) {
	case "", "tcell":
		be, err := tcellbackend.New(s.mode)
		if err != nil {
			return nil, withExitCode(err, exitBackend)
		}
		return be, nil
	case "ansi":
		return ansi.New(os.Stdout, s.mode,
			ansi.WithAltScreen(true),
			ansi.WithRawMode(s.caps.IsTTY),
		), nil
	}
	return nil, withExitCode(
		gkerrors.Newf(gkerrors.ErrCodeConfigInvalid, "unknown backend %q", name).
			WithContext("valid", "tcell, ansi"),
		exitUsage,
	)
}
