// Package console prints styled status output for the gridkit CLI. It is for
// line-oriented commands that do not take over the terminal.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/odvcencio/gridkit/pkg/ui/compositor"
	"github.com/odvcencio/gridkit/pkg/ui/draw"
	"github.com/odvcencio/gridkit/pkg/ui/theme"
)

// Writer provides styled line output.
type Writer struct {
	out      io.Writer
	renderer *lipgloss.Renderer
	mu       sync.Mutex

	errorStyle   lipgloss.Style
	warnStyle    lipgloss.Style
	successStyle lipgloss.Style
	infoStyle    lipgloss.Style
	dimStyle     lipgloss.Style
	keyStyle     lipgloss.Style
	headerStyle  lipgloss.Style
	boxStyle     lipgloss.Style
}

// New creates a Writer on stdout.
func New(mode compositor.ColorMode, th *theme.Theme) *Writer {
	return NewWithOutput(os.Stdout, mode, th)
}

// NewWithOutput creates a Writer for out. Colors come from th and are
// downsampled to mode.
func NewWithOutput(out io.Writer, mode compositor.ColorMode, th *theme.Theme) *Writer {
	if th == nil {
		th = theme.DefaultTheme()
	}
	r := lipgloss.NewRenderer(out)
	r.SetColorProfile(Profile(mode))

	return &Writer{
		out:      out,
		renderer: r,

		errorStyle:   r.NewStyle().Foreground(hex(th.Error)).Bold(true),
		warnStyle:    r.NewStyle().Foreground(hex(th.Warning)),
		successStyle: r.NewStyle().Foreground(hex(th.Success)),
		infoStyle:    r.NewStyle().Foreground(hex(th.Info)),
		dimStyle:     r.NewStyle().Foreground(hex(th.TextDim)),
		keyStyle:     r.NewStyle().Foreground(hex(th.Accent)).Bold(true),
		headerStyle: r.NewStyle().
			Foreground(hex(th.Text)).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(hex(th.Border)),
		boxStyle: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(hex(th.Border)).
			Padding(0, 1),
	}
}

// Profile maps a color mode onto the termenv profile lipgloss renders with.
func Profile(mode compositor.ColorMode) termenv.Profile {
	switch mode {
	case compositor.TrueColor:
		return termenv.TrueColor
	case compositor.Color256:
		return termenv.ANSI256
	case compositor.Color16:
		return termenv.ANSI
	}
	return termenv.Ascii
}

func hex(c draw.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}

// Println writes a formatted line.
func (w *Writer) Println(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Error prints an error message.
func (w *Writer) Error(format string, args ...any) {
	w.line(w.errorStyle, "error: "+format, args...)
}

// Warn prints a warning message.
func (w *Writer) Warn(format string, args ...any) {
	w.line(w.warnStyle, "warning: "+format, args...)
}

// Success prints a success message.
func (w *Writer) Success(format string, args ...any) {
	w.line(w.successStyle, "✓ "+format, args...)
}

// Info prints an informational message.
func (w *Writer) Info(format string, args ...any) {
	w.line(w.infoStyle, format, args...)
}

// Dim prints secondary text.
func (w *Writer) Dim(format string, args ...any) {
	w.line(w.dimStyle, format, args...)
}

func (w *Writer) line(style lipgloss.Style, format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintln(w.out, style.Render(fmt.Sprintf(format, args...)))
}

// Header prints a section header.
func (w *Writer) Header(title string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintln(w.out, w.headerStyle.Render(title))
}

// KeyValue is one row of a KeyValues listing.
type KeyValue struct {
	Key   string
	Value string
}

// KeyValues prints aligned key/value rows.
func (w *Writer) KeyValues(rows []KeyValue) {
	w.mu.Lock()
	defer w.mu.Unlock()

	width := 0
	for _, row := range rows {
		width = max(width, lipgloss.Width(row.Key))
	}
	for _, row := range rows {
		pad := strings.Repeat(" ", width-lipgloss.Width(row.Key))
		fmt.Fprintf(w.out, "  %s%s  %s\n", w.keyStyle.Render(row.Key), pad, row.Value)
	}
}

// Box prints content inside a rounded border, with an optional bold title.
func (w *Writer) Box(title, content string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	body := content
	if title != "" {
		body = w.renderer.NewStyle().Bold(true).Render(title) + "\n" + content
	}
	fmt.Fprintln(w.out, w.boxStyle.Render(body))
}

// Divider prints a horizontal rule of n cells.
func (w *Writer) Divider(n int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintln(w.out, w.dimStyle.Render(strings.Repeat("─", max(n, 0))))
}
