// Package theme provides the color palette and glyph set shared by gridkit
// widgets. Themes can be loaded from YAML files whose colors are hex strings.
package theme

import (
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	gkerrors "github.com/odvcencio/gridkit/pkg/errors"
	"github.com/odvcencio/gridkit/pkg/ui/draw"
)

// Theme defines the palette widgets draw with.
type Theme struct {
	Name string

	// Surfaces
	Background draw.Color
	Surface    draw.Color
	SurfaceDim draw.Color

	// Text hierarchy
	Text      draw.Color
	TextMuted draw.Color
	TextDim   draw.Color

	// Accents and semantics
	Accent  draw.Color
	Success draw.Color
	Warning draw.Color
	Error   draw.Color
	Info    draw.Color

	// Chrome
	Border      draw.Color
	BorderFocus draw.Color
	Selection   draw.Color

	// Series colors for charts and proportional bars, cycled in order.
	Series []draw.Color
}

// DefaultTheme returns the dark default palette.
func DefaultTheme() *Theme {
	return &Theme{
		Name: "dark",

		Background: draw.FromRGB8(12, 12, 16),
		Surface:    draw.FromRGB8(22, 22, 28),
		SurfaceDim: draw.FromRGB8(8, 8, 10),

		Text:      draw.FromRGB8(240, 238, 232),
		TextMuted: draw.FromRGB8(160, 158, 150),
		TextDim:   draw.FromRGB8(100, 98, 92),

		Accent:  draw.FromRGB8(255, 183, 77),
		Success: draw.FromRGB8(134, 239, 172),
		Warning: draw.FromRGB8(255, 138, 101),
		Error:   draw.FromRGB8(255, 110, 90),
		Info:    draw.FromRGB8(77, 182, 172),

		Border:      draw.FromRGB8(50, 50, 60),
		BorderFocus: draw.FromRGB8(255, 183, 77),
		Selection:   draw.FromRGB8(60, 60, 80),

		Series: []draw.Color{
			draw.FromRGB8(79, 195, 247),
			draw.FromRGB8(134, 239, 172),
			draw.FromRGB8(255, 183, 77),
			draw.FromRGB8(192, 132, 252),
			draw.FromRGB8(255, 138, 101),
		},
	}
}

// SeriesColor returns the i-th series color, cycling. Themes without series
// colors fall back to Accent.
func (t *Theme) SeriesColor(i int) draw.Color {
	if len(t.Series) == 0 {
		return t.Accent
	}
	if i < 0 {
		i = -i
	}
	return t.Series[i%len(t.Series)]
}

// slots maps YAML keys to the palette fields.
func (t *Theme) slots() map[string]*draw.Color {
	return map[string]*draw.Color{
		"background":   &t.Background,
		"surface":      &t.Surface,
		"surface_dim":  &t.SurfaceDim,
		"text":         &t.Text,
		"text_muted":   &t.TextMuted,
		"text_dim":     &t.TextDim,
		"accent":       &t.Accent,
		"success":      &t.Success,
		"warning":      &t.Warning,
		"error":        &t.Error,
		"info":         &t.Info,
		"border":       &t.Border,
		"border_focus": &t.BorderFocus,
		"selection":    &t.Selection,
	}
}

type themeFile struct {
	Name   string            `yaml:"name"`
	Colors map[string]string `yaml:"colors"`
	Series []string          `yaml:"series"`
}

// Parse reads a YAML theme. Colors that are not mentioned keep their
// DefaultTheme values, so a file only needs to list what it changes.
//
//	name: solarized
//	colors:
//	  background: "#002b36"
//	  accent: "#b58900"
//	series: ["#268bd2", "#2aa198"]
func Parse(data []byte) (*Theme, error) {
	var f themeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, gkerrors.Wrap(err, gkerrors.ErrCodeConfigParse, "parse theme")
	}

	th := DefaultTheme()
	if f.Name != "" {
		th.Name = f.Name
	}

	slots := th.slots()
	keys := make([]string, 0, len(f.Colors))
	for k := range f.Colors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		slot, ok := slots[key]
		if !ok {
			return nil, gkerrors.Newf(gkerrors.ErrCodeConfigInvalid, "unknown theme color %q", key).
				WithRemediation("valid keys: " + validKeys(slots))
		}
		c, err := draw.FromHex(f.Colors[key])
		if err != nil {
			return nil, gkerrors.Wrap(err, gkerrors.ErrCodeConfigInvalid, "theme color").WithContext("key", key)
		}
		*slot = c
	}

	if len(f.Series) > 0 {
		th.Series = th.Series[:0]
		for i, hex := range f.Series {
			c, err := draw.FromHex(hex)
			if err != nil {
				return nil, gkerrors.Wrap(err, gkerrors.ErrCodeConfigInvalid, "theme series color").WithContext("index", i)
			}
			th.Series = append(th.Series, c)
		}
	}
	return th, nil
}

// Load reads and parses a theme file.
func Load(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, gkerrors.Wrap(err, gkerrors.ErrCodeConfigLoad, "read theme").WithContext("path", path)
	}
	return Parse(data)
}

// Marshal renders the theme back to YAML.
func (t *Theme) Marshal() ([]byte, error) {
	f := themeFile{Name: t.Name, Colors: map[string]string{}}
	for key, slot := range t.slots() {
		f.Colors[key] = slot.String()
	}
	for _, c := range t.Series {
		f.Series = append(f.Series, c.String())
	}
	return yaml.Marshal(f)
}

func validKeys(slots map[string]*draw.Color) string {
	keys := make([]string, 0, len(slots))
	for k := range slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += ", "
		}
		out += k
	}
	return out
}

// Symbols provides consistent iconography.
var Symbols = struct {
	Bullet     string
	Check      string
	Cross      string
	Ellipsis   string
	BlockFull  string
	BlockEmpty string
	Spinner    []string
}{
	Bullet:     "●",
	Check:      "✓",
	Cross:      "✗",
	Ellipsis:   "...",
	BlockFull:  "█",
	BlockEmpty: "░",
	Spinner:    []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
}
