// Package config loads gridkit configuration from YAML files, .env files and
// GRIDKIT_* environment variables.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	gkerrors "github.com/odvcencio/gridkit/pkg/errors"
	"github.com/odvcencio/gridkit/pkg/ui/compositor"
)

// Default configuration values exported for documentation and validation
const (
	DefaultColorMode       = "auto"
	DefaultFPS             = 60
	DefaultFullRedrawRatio = 0.5
	DefaultFrameBudget     = 16 * time.Millisecond
	DefaultBackend         = "tcell"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
	DefaultMetricsAddr     = "127.0.0.1:9464"

	configDirName = ".gridkit"
)

// Config represents the complete gridkit configuration
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
	Theme   ThemeConfig   `yaml:"theme"`
}

// RenderConfig controls the frame pipeline.
type RenderConfig struct {
	// ColorMode is auto, truecolor, 256, 16 or mono. Auto is replaced by the
	// detected mode in ResolveColorMode.
	ColorMode string `yaml:"color_mode"`
	FPS       int    `yaml:"fps"`
	// DebugAssertions wraps the paint canvas in a stack guard and checks
	// phase durations against FrameBudget.
	DebugAssertions bool `yaml:"debug_assertions"`
	// FullRedrawRatio is the dirty fraction above which a frame is repainted
	// in full.
	FullRedrawRatio float64       `yaml:"full_redraw_ratio"`
	FrameBudget     time.Duration `yaml:"frame_budget"`
	// Backend is tcell or ansi.
	Backend string `yaml:"backend"`
}

// LoggingConfig selects where logs go. An empty Path discards logs while the
// terminal is owned.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
}

// MetricsConfig controls Prometheus exposition.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// TracingConfig controls frame spans, written as JSON lines to Path.
type TracingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ThemeConfig points at an optional YAML theme file.
type ThemeConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			ColorMode:       DefaultColorMode,
			FPS:             DefaultFPS,
			FullRedrawRatio: DefaultFullRedrawRatio,
			FrameBudget:     DefaultFrameBudget,
			Backend:         DefaultBackend,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Metrics: MetricsConfig{
			Addr: DefaultMetricsAddr,
		},
	}
}

// Load loads configuration from default locations with proper precedence:
// defaults, ~/.gridkit/config.yaml, ./.gridkit/config.yaml, then environment.
func Load() (*Config, error) {
	var paths []string
	if dir := UserConfigDir(); dir != "" {
		paths = append(paths, filepath.Join(dir, "config.yaml"))
	}
	paths = append(paths, filepath.Join(".", configDirName, "config.yaml"))
	return load(paths, false, envLookup())
}

// LoadFromPath loads configuration from a specific file path. The file must
// exist.
func LoadFromPath(path string) (*Config, error) {
	return load([]string{path}, true, envLookup())
}

func load(paths []string, required bool, getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		err := loadAndMerge(cfg, path)
		if err == nil {
			continue
		}
		if !required && errors.Is(err, fs.ErrNotExist) {
			continue
		}
		var gkErr *gkerrors.Error
		if errors.As(err, &gkErr) {
			return nil, gkErr.WithContext("path", path)
		}
		return nil, gkerrors.Wrap(err, gkerrors.ErrCodeConfigLoad, "read config").WithContext("path", path)
	}

	if err := applyEnvOverrides(cfg, getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadAndMerge decodes a YAML file on top of cfg. Keys absent from the file
// keep their current values; unknown keys are rejected.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return Merge(cfg, data)
}

// Merge decodes YAML data on top of cfg.
func Merge(cfg *Config, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return gkerrors.Wrap(err, gkerrors.ErrCodeConfigParse, "parse config YAML")
	}
	return nil
}

// UserConfigDir returns ~/.gridkit, or "" when there is no home directory.
func UserConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	if strings.TrimSpace(home) == "" {
		return ""
	}
	return filepath.Join(home, configDirName)
}

// envLookup reads the process environment first, then ./.env and
// ~/.gridkit/config.env.
func envLookup() func(string) string {
	files := map[string]string{}
	candidates := []string{".env"}
	if dir := UserConfigDir(); dir != "" {
		candidates = append(candidates, filepath.Join(dir, "config.env"))
	}
	for _, path := range candidates {
		vars, err := godotenv.Read(path)
		if err != nil {
			continue
		}
		for k, v := range vars {
			if _, seen := files[k]; !seen {
				files[k] = v
			}
		}
	}
	return func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return files[key]
	}
}

// applyEnvOverrides applies GRIDKIT_* overrides. Malformed numeric or boolean
// values are configuration errors rather than silently ignored.
func applyEnvOverrides(cfg *Config, getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	var firstErr error
	fail := func(key, v string) {
		if firstErr == nil {
			firstErr = gkerrors.Newf(gkerrors.ErrCodeConfigInvalid, "invalid value %q for %s", v, key)
		}
	}
	boolean := func(key string, dst *bool) {
		v := getenv(key)
		if v == "" {
			return
		}
		b, ok := parseBool(v)
		if !ok {
			fail(key, v)
			return
		}
		*dst = b
	}

	str("GRIDKIT_COLOR_MODE", &cfg.Render.ColorMode)
	str("GRIDKIT_BACKEND", &cfg.Render.Backend)
	if v := getenv("GRIDKIT_FPS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fail("GRIDKIT_FPS", v)
		} else {
			cfg.Render.FPS = n
		}
	}
	if v := getenv("GRIDKIT_FULL_REDRAW_RATIO"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			fail("GRIDKIT_FULL_REDRAW_RATIO", v)
		} else {
			cfg.Render.FullRedrawRatio = f
		}
	}
	if v := getenv("GRIDKIT_FRAME_BUDGET"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			fail("GRIDKIT_FRAME_BUDGET", v)
		} else {
			cfg.Render.FrameBudget = d
		}
	}
	boolean("GRIDKIT_DEBUG_ASSERTIONS", &cfg.Render.DebugAssertions)

	str("GRIDKIT_LOG_LEVEL", &cfg.Logging.Level)
	str("GRIDKIT_LOG_FORMAT", &cfg.Logging.Format)
	str("GRIDKIT_LOG_PATH", &cfg.Logging.Path)

	boolean("GRIDKIT_METRICS_ENABLED", &cfg.Metrics.Enabled)
	str("GRIDKIT_METRICS_ADDR", &cfg.Metrics.Addr)

	boolean("GRIDKIT_TRACING_ENABLED", &cfg.Tracing.Enabled)
	str("GRIDKIT_TRACING_PATH", &cfg.Tracing.Path)

	str("GRIDKIT_THEME", &cfg.Theme.Path)
	boolean("GRIDKIT_THEME_WATCH", &cfg.Theme.Watch)

	return firstErr
}

func parseBool(val string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) *gkerrors.Error {
		return gkerrors.Newf(gkerrors.ErrCodeConfigInvalid, format, args...)
	}

	if c.Render.ColorMode != "auto" {
		if _, err := compositor.ParseColorMode(c.Render.ColorMode); err != nil {
			return invalid("invalid render.color_mode: %s", c.Render.ColorMode).
				WithRemediation("use auto, truecolor, 256, 16 or mono")
		}
	}
	if c.Render.FPS < 1 || c.Render.FPS > 240 {
		return invalid("invalid render.fps: %d (must be 1-240)", c.Render.FPS)
	}
	if c.Render.FullRedrawRatio <= 0 || c.Render.FullRedrawRatio > 1 {
		return invalid("invalid render.full_redraw_ratio: %v (must be in (0, 1])", c.Render.FullRedrawRatio)
	}
	if c.Render.FrameBudget < 0 {
		return invalid("invalid render.frame_budget: %v", c.Render.FrameBudget)
	}
	switch c.Render.Backend {
	case "tcell", "ansi":
	default:
		return invalid("invalid render.backend: %s (valid: tcell, ansi)", c.Render.Backend)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return invalid("invalid logging.level: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return invalid("invalid logging.format: %s (valid: json, text)", c.Logging.Format)
	}

	if c.Metrics.Enabled && strings.TrimSpace(c.Metrics.Addr) == "" {
		return invalid("metrics.addr is required when metrics are enabled")
	}
	if c.Theme.Watch && strings.TrimSpace(c.Theme.Path) == "" {
		return invalid("theme.watch requires theme.path")
	}
	return nil
}

// FrameInterval is the minimum time between frames.
func (c *Config) FrameInterval() time.Duration {
	if c.Render.FPS <= 0 {
		return time.Second / DefaultFPS
	}
	return time.Second / time.Duration(c.Render.FPS)
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, gkerrors.Wrap(err, gkerrors.ErrCodeInternal, "marshal config")
	}
	return data, nil
}

// ExpandHome expands a leading ~ in path.
func ExpandHome(path string) string {
	path = strings.TrimSpace(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}
