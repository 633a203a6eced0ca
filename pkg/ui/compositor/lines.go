package compositor

import (
	"bufio"
	"io"

	gkerrors "github.com/odvcencio/gridkit/pkg/errors"
)

// WriteLines writes buf row by row as styled text, each row ending in a reset
// and a newline. Unlike Flush it uses no cursor addressing, so the output can
// be printed inline or saved to a file. Dirty state is left untouched.
func WriteLines(buf *CellBuffer, w io.Writer, mode ColorMode) (int, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	width, height := buf.Size()
	cells := buf.Cells()
	var out []byte
	for y := 0; y < height; y++ {
		out = out[:0]
		var last styleState
		styled := false
		for x := 0; x < width; x++ {
			cell := &cells[y*width+x]
			if cell.IsContinuation() {
				continue
			}
			st := styleState{fg: cell.FG, bg: cell.BG, mods: cell.Mods}
			if !styled || st != last {
				out = appendSGR(out, st.fg, st.bg, st.mods, mode)
				last, styled = st, true
			}
			if cell.Symbol == "" {
				out = append(out, ' ')
			} else {
				out = append(out, cell.Symbol...)
			}
		}
		out = append(out, ANSIReset...)
		out = append(out, '\n')
		if _, err := bw.Write(out); err != nil {
			return cw.n, gkerrors.Wrap(err, gkerrors.ErrCodeFlush, "write lines")
		}
	}
	if err := bw.Flush(); err != nil {
		return cw.n, gkerrors.Wrap(err, gkerrors.ErrCodeFlush, "write lines")
	}
	return cw.n, nil
}
