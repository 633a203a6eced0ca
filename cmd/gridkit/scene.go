package main

import (
	"os"

	gkerrors "github.com/odvcencio/gridkit/pkg/errors"
	"github.com/odvcencio/gridkit/pkg/ui/canvas"
	"github.com/odvcencio/gridkit/pkg/ui/compositor"
	"github.com/odvcencio/gridkit/pkg/ui/draw"
)

func runSceneCommand(args []string) error {
	var configPath string
	var opts frameOptions
	fs := newFlagSet("scene", &configPath)
	opts.register(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return withExitCode(
			gkerrors.New(gkerrors.ErrCodeInvalidInput, "usage: gridkit scene [flags] <file.json|file.yaml>"),
			exitUsage,
		)
	}

	s, err := openSession(configPath, os.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	cmds, err := draw.LoadScene(fs.Arg(0))
	if err != nil {
		return err
	}
	w, h := opts.size(s)
	buf, err := replayScene(cmds, w, h, s.cfg.Render.DebugAssertions)
	if err != nil {
		return err
	}
	s.log.Debug("scene replayed", "path", fs.Arg(0), "commands", len(cmds))
	return writeFrame(os.Stdout, buf, s.mode, opts.ansi)
}

// replayScene paints cmds into a new w×h buffer. With guard set, unbalanced
// clip or transform stacks are reported as errors.
func replayScene(cmds []draw.Command, w, h int, guard bool) (*compositor.CellBuffer, error) {
	buf := compositor.NewCellBuffer(w, h)
	dc := compositor.NewDirectCanvas(buf)
	if !guard {
		canvas.Replay(dc, cmds...)
		return buf, nil
	}
	g := canvas.NewGuard(dc)
	canvas.Replay(g, cmds...)
	if err := g.Err(); err != nil {
		return nil, err
	}
	return buf, nil
}
