package compositor

import (
	"bufio"
	"io"

	gkerrors "github.com/odvcencio/gridkit/pkg/errors"
	"github.com/odvcencio/gridkit/pkg/ui/draw"
)

// FlushStats describes the output of one Flush.
type FlushStats struct {
	CellsWritten int
	CursorMoves  int
	StyleChanges int
	Bytes        int
}

type styleState struct {
	fg, bg draw.Color
	mods   Modifiers
}

// DiffRenderer writes only the dirty cells of a CellBuffer, tracking the
// terminal cursor and current style so that sequential cells with the same
// style cost one symbol each.
type DiffRenderer struct {
	mode ColorMode

	// cursorX and cursorY are -1 when the terminal cursor position is unknown.
	cursorX, cursorY int
	style            styleState
	styleSet         bool

	scratch []byte
	last    FlushStats
}

// NewDiffRenderer creates a renderer that encodes colors in mode.
func NewDiffRenderer(mode ColorMode) *DiffRenderer {
	r := &DiffRenderer{mode: mode}
	r.Reset()
	return r
}

func (r *DiffRenderer) ColorMode() ColorMode { return r.mode }

// SetColorMode changes the encoding and forces the next cell to restate its style.
func (r *DiffRenderer) SetColorMode(mode ColorMode) {
	r.mode = mode
	r.styleSet = false
}

// Reset forgets the cursor and style state. Call it after the terminal was
// cleared or resized outside the renderer.
func (r *DiffRenderer) Reset() {
	r.forget()
	r.last = FlushStats{}
}

func (r *DiffRenderer) forget() {
	r.cursorX, r.cursorY = -1, -1
	r.style = styleState{}
	r.styleSet = false
}

// LastStats returns the statistics of the most recent Flush.
func (r *DiffRenderer) LastStats() FlushStats {
	return r.last
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

// Flush writes every dirty cell of buf to w and clears the dirty set.
// Continuation cells are skipped; the wide cell before them covers both
// columns. A buffer with nothing dirty produces no output.
func (r *DiffRenderer) Flush(buf *CellBuffer, w io.Writer) (FlushStats, error) {
	var stats FlushStats
	if buf.DirtyCount() == 0 {
		r.last = stats
		return stats, nil
	}

	cw := &countingWriter{w: w}
	bw := bufio.NewWriterSize(cw, 8192)
	out := r.scratch[:0]

	out = append(out, ANSIReset...)
	r.styleSet = false

	width := buf.Width()
	cells := buf.Cells()
	var werr error
	buf.IterDirty(func(idx int) bool {
		cell := &cells[idx]
		if cell.IsContinuation() {
			return true
		}
		x, y := buf.Coords(idx)

		if r.cursorX != x || r.cursorY != y {
			out = appendCursorTo(out, x, y)
			r.cursorX, r.cursorY = x, y
			stats.CursorMoves++
		}

		st := styleState{fg: cell.FG, bg: cell.BG, mods: cell.Mods}
		if !r.styleSet || st != r.style {
			out = appendSGR(out, st.fg, st.bg, st.mods, r.mode)
			r.style, r.styleSet = st, true
			stats.StyleChanges++
		}

		if cell.Symbol == "" {
			out = append(out, ' ')
		} else {
			out = append(out, cell.Symbol...)
		}
		stats.CellsWritten++

		r.cursorX += int(max(cell.Width, 1))
		if r.cursorX >= width {
			// The terminal may or may not have wrapped.
			r.cursorX, r.cursorY = -1, -1
		}

		if len(out) >= 4096 {
			if _, werr = bw.Write(out); werr != nil {
				return false
			}
			out = out[:0]
		}
		return true
	})

	if werr == nil {
		_, werr = bw.Write(out)
	}
	if werr == nil {
		werr = bw.Flush()
	}
	r.scratch = out[:0]
	stats.Bytes = cw.n
	r.last = stats

	if werr != nil {
		// Whatever reached the terminal is unknown; restate everything next time.
		r.forget()
		return stats, gkerrors.Wrap(werr, gkerrors.ErrCodeFlush, "write terminal output").
			WithContext("bytes", cw.n)
	}
	buf.ClearDirty()
	return stats, nil
}

// RenderFull marks every cell dirty and flushes.
func (r *DiffRenderer) RenderFull(buf *CellBuffer, w io.Writer) (FlushStats, error) {
	buf.MarkAllDirty()
	return r.Flush(buf, w)
}
