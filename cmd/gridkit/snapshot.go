package main

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/odvcencio/gridkit/pkg/console"
	"github.com/odvcencio/gridkit/pkg/ui/compositor"
	"github.com/odvcencio/gridkit/pkg/ui/runtime"
)

// frameOptions are the flags shared by commands that print one frame.
type frameOptions struct {
	width, height int
	ansi          bool
}

func (o *frameOptions) register(fs *flag.FlagSet) {
	fs.IntVar(&o.width, "width", 0, "frame width in cells (default terminal width)")
	fs.IntVar(&o.height, "height", 0, "frame height in cells (default terminal height)")
	fs.BoolVar(&o.ansi, "ansi", false, "print with colors instead of plain text")
}

// size fills unset dimensions from the detected terminal.
func (o frameOptions) size(s *session) (int, int) {
	w, h := o.width, o.height
	if w <= 0 {
		w = s.caps.Width
	}
	if h <= 0 {
		h = s.caps.Height
	}
	return w, h
}

// writeFrame prints buf as plain rows, or as styled rows in the session's
// color mode.
func writeFrame(w io.Writer, buf *compositor.CellBuffer, mode compositor.ColorMode, styled bool) error {
	if styled {
		_, err := compositor.WriteLines(buf, w, mode)
		return err
	}
	_, err := io.WriteString(w, buf.String()+"\n")
	return err
}

// renderOnce lays out and paints root on a fresh screen.
func renderOnce(ctx context.Context, s *session, root runtime.Widget, w, h int) (*runtime.Screen, runtime.FrameStats, error) {
	screen := runtime.NewScreen(w, h, runtime.ScreenOptions{
		Theme:           s.theme,
		DebugAssertions: s.cfg.Render.DebugAssertions,
		Budget:          runtime.BudgetFromDuration(s.cfg.Render.FrameBudget),
		Logger:          s.log,
		Metrics:         s.metrics,
		Hub:             s.hub,
		Tracer:          s.tracer,
	})
	screen.SetRoot(root)
	stats, err := screen.Render(ctx)
	return screen, stats, err
}

func runSnapshotCommand(args []string) error {
	var configPath string
	var opts frameOptions
	fs := newFlagSet("snapshot", &configPath)
	opts.register(fs)
	seed := fs.Uint64("seed", 1, "random seed for meter targets")
	verify := fs.Bool("verify", false, "verify every brick and fail on violations")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	s, err := openSession(configPath, os.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	dash := newDashboard(*seed)
	w, h := opts.size(s)
	screen, stats, err := renderOnce(context.Background(), s, dash, w, h)
	if err != nil {
		return err
	}
	s.log.Debug("snapshot rendered",
		"frame", stats.Frame,
		"dirty", stats.Dirty,
		"duration", stats.Duration,
	)
	if err := writeFrame(os.Stdout, screen.Buffer(), s.mode, opts.ansi); err != nil {
		return err
	}

	if !*verify {
		return nil
	}
	result := runtime.VerifyTree(dash)
	out := console.NewWithOutput(os.Stderr, s.mode, s.theme)
	if result.IsValid() {
		out.Success("%d bricks verified, %d assertions passed", result.Bricks, result.Passed)
		return nil
	}
	for _, f := range result.Failures {
		out.Warn("%s", f.String())
	}
	return result.Err()
}
