package config

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/odvcencio/gridkit/pkg/ui/compositor"
)

// Capabilities is what the terminal supports, detected once at startup.
type Capabilities struct {
	ColorMode compositor.ColorMode
	IsTTY     bool
	Width     int
	Height    int
	Term      string
	NoColor   bool
}

// DetectCapabilities inspects out and the environment. When out is a
// terminal, termenv queries it; otherwise the color mode comes from
// COLORTERM/TERM alone. NO_COLOR always forces mono.
func DetectCapabilities(out *os.File, getenv func(string) string) Capabilities {
	if getenv == nil {
		getenv = os.Getenv
	}
	caps := Capabilities{
		Term:    getenv("TERM"),
		NoColor: getenv("NO_COLOR") != "",
		Width:   80,
		Height:  24,
	}

	if out != nil && term.IsTerminal(int(out.Fd())) {
		caps.IsTTY = true
		if w, h, err := term.GetSize(int(out.Fd())); err == nil && w > 0 && h > 0 {
			caps.Width, caps.Height = w, h
		}
		caps.ColorMode = compositor.DetectFromTermenv(termenv.NewOutput(out).EnvColorProfile())
	} else {
		caps.ColorMode = compositor.DetectColorMode(getenv)
	}

	if caps.NoColor {
		caps.ColorMode = compositor.Mono
	}
	return caps
}

// ResolveColorMode returns the configured mode, or the detected one for
// "auto", and stores the result back into the config so later readers see
// a concrete mode.
func (c *Config) ResolveColorMode(caps Capabilities) compositor.ColorMode {
	if c.Render.ColorMode != "auto" {
		if mode, err := compositor.ParseColorMode(c.Render.ColorMode); err == nil {
			return mode
		}
	}
	c.Render.ColorMode = caps.ColorMode.String()
	return caps.ColorMode
}
