package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gkerrors "github.com/odvcencio/gridkit/pkg/errors"
	"github.com/odvcencio/gridkit/pkg/ui/compositor"
	"github.com/odvcencio/gridkit/pkg/ui/theme"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "auto", cfg.Render.ColorMode)
	assert.Equal(t, time.Second/60, cfg.FrameInterval())
}

func TestLoadMergesPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
render:
  fps: 30
  debug_assertions: true
  frame_budget: 8ms
logging:
  level: debug
`)

	cfg, err := load([]string{path}, true, envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Render.FPS)
	assert.True(t, cfg.Render.DebugAssertions)
	assert.Equal(t, 8*time.Millisecond, cfg.Render.FrameBudget)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, DefaultFullRedrawRatio, cfg.Render.FullRedrawRatio, "unset keys keep defaults")
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	user := writeFile(t, dir, "user.yaml", "render:\n  fps: 20\n  backend: ansi\n")
	project := writeFile(t, dir, "project.yaml", "render:\n  fps: 25\n")

	cfg, err := load([]string{user, project}, false, envMap(map[string]string{
		"GRIDKIT_FPS":             "50",
		"GRIDKIT_LOG_PATH":        "/tmp/gridkit.log",
		"GRIDKIT_THEME":           "dark.yaml",
		"GRIDKIT_METRICS_ENABLED": "yes",
	}))
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Render.FPS)
	assert.Equal(t, "ansi", cfg.Render.Backend)
	assert.Equal(t, "/tmp/gridkit.log", cfg.Logging.Path)
	assert.Equal(t, "dark.yaml", cfg.Theme.Path)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadMissingFiles(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	_, err := load([]string{missing}, false, envMap(nil))
	assert.NoError(t, err, "optional files may be absent")

	_, err = load([]string{missing}, true, envMap(nil))
	assert.True(t, gkerrors.IsCode(err, gkerrors.ErrCodeConfigLoad))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		yaml string
		env  map[string]string
		code gkerrors.ErrorCode
	}{
		{"bad yaml", "render: [", nil, gkerrors.ErrCodeConfigParse},
		{"unknown key", "render:\n  colour: red\n", nil, gkerrors.ErrCodeConfigParse},
		{"bad mode", "render:\n  color_mode: sepia\n", nil, gkerrors.ErrCodeConfigInvalid},
		{"bad fps", "render:\n  fps: 0\n", nil, gkerrors.ErrCodeConfigInvalid},
		{"bad ratio", "render:\n  full_redraw_ratio: 1.5\n", nil, gkerrors.ErrCodeConfigInvalid},
		{"bad backend", "render:\n  backend: opengl\n", nil, gkerrors.ErrCodeConfigInvalid},
		{"bad level", "logging:\n  level: loud\n", nil, gkerrors.ErrCodeConfigInvalid},
		{"watch without path", "theme:\n  watch: true\n", nil, gkerrors.ErrCodeConfigInvalid},
		{"bad env int", "", map[string]string{"GRIDKIT_FPS": "fast"}, gkerrors.ErrCodeConfigInvalid},
		{"bad env bool", "", map[string]string{"GRIDKIT_DEBUG_ASSERTIONS": "maybe"}, gkerrors.ErrCodeConfigInvalid},
		{"bad env duration", "", map[string]string{"GRIDKIT_FRAME_BUDGET": "soon"}, gkerrors.ErrCodeConfigInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "c.yaml", tt.yaml)
			_, err := load([]string{path}, true, envMap(tt.env))
			require.Error(t, err)
			assert.Equal(t, tt.code, gkerrors.GetCode(err))
		})
	}
}

func TestLoadFromPathUsesEnvironment(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "render:\n  fps: 30\n")
	t.Setenv("GRIDKIT_COLOR_MODE", "256")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "256", cfg.Render.ColorMode)
	assert.Equal(t, 30, cfg.Render.FPS)
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Render.FPS = 42
	cfg.Theme.Path = "t.yaml"

	data, err := cfg.Marshal()
	require.NoError(t, err)

	back := DefaultConfig()
	require.NoError(t, Merge(back, data))
	assert.Equal(t, cfg, back)
}

func TestResolveColorMode(t *testing.T) {
	caps := Capabilities{ColorMode: compositor.Color256}

	cfg := DefaultConfig()
	assert.Equal(t, compositor.Color256, cfg.ResolveColorMode(caps))
	assert.Equal(t, "256", cfg.Render.ColorMode, "auto is replaced by the detected mode")

	cfg.Render.ColorMode = "mono"
	assert.Equal(t, compositor.Mono, cfg.ResolveColorMode(caps))
}

func TestDetectCapabilitiesWithoutTTY(t *testing.T) {
	caps := DetectCapabilities(nil, envMap(map[string]string{
		"TERM":      "xterm-256color",
		"COLORTERM": "truecolor",
	}))
	assert.False(t, caps.IsTTY)
	assert.Equal(t, compositor.TrueColor, caps.ColorMode)
	assert.Equal(t, 80, caps.Width)

	caps = DetectCapabilities(nil, envMap(map[string]string{
		"TERM":     "xterm-256color",
		"NO_COLOR": "1",
	}))
	assert.Equal(t, compositor.Mono, caps.ColorMode)
	assert.True(t, caps.NoColor)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x", "y"), ExpandHome("~/x/y"))
	assert.Equal(t, home, ExpandHome("~"))
	assert.Equal(t, "/abs", ExpandHome("/abs"))
}

func TestWatchThemeReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "theme.yaml", "name: one\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *theme.Theme, 4)
	done := make(chan error, 1)
	go func() {
		done <- WatchTheme(ctx, path, func(th *theme.Theme) { reloaded <- th }, nil)
	}()

	// Give the watcher time to register before writing.
	deadline := time.After(3 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case th := <-reloaded:
			assert.Equal(t, "two", th.Name)
			cancel()
			require.NoError(t, <-done)
			return
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte("name: two\n"), 0o644))
		case <-deadline:
			t.Fatal("theme was not reloaded")
		}
	}
}

func TestWatchThemeReportsParseErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "theme.yaml", "name: one\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errs := make(chan error, 4)
	go func() {
		_ = WatchTheme(ctx, path, func(*theme.Theme) {}, func(err error) { errs <- err })
	}()

	deadline := time.After(3 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case err := <-errs:
			assert.Error(t, err)
			return
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte("colors: [\n"), 0o644))
		case <-deadline:
			t.Fatal("parse error was not reported")
		}
	}
}
