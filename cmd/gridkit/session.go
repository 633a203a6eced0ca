package main

import (
	"context"
	"io"
	"os"

	"github.com/odvcencio/gridkit/pkg/config"
	"github.com/odvcencio/gridkit/pkg/logging"
	"github.com/odvcencio/gridkit/pkg/telemetry"
	"github.com/odvcencio/gridkit/pkg/ui/compositor"
	"github.com/odvcencio/gridkit/pkg/ui/theme"
)

// session is the process-wide state every subcommand starts from.
type session struct {
	cfg   *config.Config
	caps  config.Capabilities
	mode  compositor.ColorMode
	theme *theme.Theme

	log     *logging.Logger
	metrics *telemetry.Metrics
	hub     *telemetry.Hub
	tracer  *telemetry.Tracer

	closers []io.Closer
}

// openSession loads configuration and sets up logging and telemetry.
// Terminal capabilities are detected once here and resolve the color mode.
func openSession(configPath string, logTo io.Writer) (*session, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromPath(config.ExpandHome(configPath))
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, withExitCode(err, exitConfig)
	}

	s := &session{
		cfg:     cfg,
		caps:    config.DetectCapabilities(os.Stdout, os.Getenv),
		metrics: telemetry.NewMetrics(),
		hub:     telemetry.NewHub(),
		theme:   theme.DefaultTheme(),
	}
	s.mode = cfg.ResolveColorMode(s.caps)

	if err := s.openLogger(logTo); err != nil {
		s.Close()
		return nil, err
	}
	if cfg.Tracing.Enabled {
		if err := s.openTracer(); err != nil {
			s.Close()
			return nil, err
		}
	}
	if cfg.Theme.Path != "" {
		th, err := theme.Load(config.ExpandHome(cfg.Theme.Path))
		if err != nil {
			s.Close()
			return nil, withExitCode(err, exitConfig)
		}
		s.theme = th
	}
	s.log.Info("session opened",
		"color_mode", s.mode.String(),
		"tty", s.caps.IsTTY,
		"width", s.caps.Width,
		"height", s.caps.Height,
	)
	return s, nil
}

// openLogger writes to the configured file, or to fallback when no path is
// set. A nil fallback discards.
func (s *session) openLogger(fallback io.Writer) error {
	level, err := logging.ParseLevel(s.cfg.Logging.Level)
	if err != nil {
		return withExitCode(err, exitConfig)
	}
	w := fallback
	if s.cfg.Logging.Path != "" {
		f, err := logging.OpenFile(config.ExpandHome(s.cfg.Logging.Path))
		if err != nil {
			return err
		}
		s.closers = append(s.closers, f)
		w = f
	}
	if w == nil {
		s.log = logging.Discard()
		return nil
	}
	s.log = logging.NewLogger("gridkit", level, logging.Format(s.cfg.Logging.Format), w)
	return nil
}

func (s *session) openTracer() error {
	w := io.Discard
	if s.cfg.Tracing.Path != "" {
		f, err := logging.OpenFile(config.ExpandHome(s.cfg.Tracing.Path))
		if err != nil {
			return err
		}
		s.closers = append(s.closers, f)
		w = f
	}
	tracer, err := telemetry.NewTracer("gridkit", version, w)
	if err != nil {
		return err
	}
	s.tracer = tracer
	return nil
}

// serveMetrics exposes Prometheus metrics until ctx ends when enabled.
func (s *session) serveMetrics(ctx context.Context) {
	if !s.cfg.Metrics.Enabled {
		return
	}
	go func() {
		if err := s.metrics.Serve(ctx, s.cfg.Metrics.Addr); err != nil {
			s.log.WithError(err).Warn("metrics server stopped")
		}
	}()
	s.log.Info("serving metrics", "addr", s.cfg.Metrics.Addr)
}

// Close flushes the tracer and closes log files.
func (s *session) Close() {
	if s.tracer != nil {
		if err := s.tracer.Shutdown(context.Background()); err != nil && s.log != nil {
			s.log.WithError(err).Warn("trace shutdown failed")
		}
	}
	s.hub.Close()
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i].Close()
	}
	s.closers = nil
}
