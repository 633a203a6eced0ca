package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/odvcencio/gridkit/pkg/console"
	"github.com/odvcencio/gridkit/pkg/ui/compositor"
	"github.com/odvcencio/gridkit/pkg/ui/draw"
)

func runCapsCommand(args []string) error {
	var configPath string
	fs := newFlagSet("caps", &configPath)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	s, err := openSession(configPath, os.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	out := console.New(s.mode, s.theme)
	out.Header("Terminal")
	out.KeyValues(capabilityRows(s))
	out.Println("")
	out.Header("Palette")
	out.Println("%s", swatches(s))
	if s.caps.NoColor {
		out.Dim("NO_COLOR is set; output is monochrome")
	}
	return nil
}

func capabilityRows(s *session) []console.KeyValue {
	term := s.caps.Term
	if term == "" {
		term = "(unset)"
	}
	return []console.KeyValue{
		{Key: "term", Value: term},
		{Key: "tty", Value: strconv.FormatBool(s.caps.IsTTY)},
		{Key: "size", Value: strconv.Itoa(s.caps.Width) + "x" + strconv.Itoa(s.caps.Height)},
		{Key: "detected", Value: s.caps.ColorMode.String()},
		{Key: "color mode", Value: s.mode.String()},
		{Key: "backend", Value: s.cfg.Render.Backend},
		{Key: "fps", Value: strconv.Itoa(s.cfg.Render.FPS)},
		{Key: "theme", Value: s.theme.Name},
	}
}

// swatches renders the theme's series colors as a row of blocks in the
// session color mode.
func swatches(s *session) string {
	buf := compositor.NewCellBuffer(len(s.theme.Series)*3, 1)
	for i, c := range s.theme.Series {
		buf.WriteStr(i*3, 0, "██", c, draw.Transparent, compositor.ModNone)
	}
	var sb strings.Builder
	if _, err := compositor.WriteLines(buf, &sb, s.mode); err != nil {
		return ""
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
