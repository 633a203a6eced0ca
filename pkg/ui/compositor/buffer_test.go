package compositor

import (
	"testing"

	"github.com/odvcencio/gridkit/pkg/ui/draw"
)

func TestCell(t *testing.T) {
	tests := []struct {
		symbol string
		width  uint8
	}{
		{"a", 1},
		{"日", 2},
		{"", 1},
		{"é", 1},
	}
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			c := NewCell(tt.symbol, draw.White, draw.Black, ModNone)
			if c.Width != tt.width {
				t.Errorf("width of %q = %d, want %d", tt.symbol, c.Width, tt.width)
			}
		})
	}

	t.Run("continuation", func(t *testing.T) {
		c := DefaultCell()
		c.MakeContinuation()
		if !c.IsContinuation() || c.Symbol != "" {
			t.Errorf("got %+v, want continuation", c)
		}
		c.Reset()
		if !c.Equal(DefaultCell()) {
			t.Errorf("reset cell = %+v", c)
		}
	})

	t.Run("modifiers", func(t *testing.T) {
		m := Bold.With(Italic)
		if !m.Contains(Bold) || !m.Contains(Italic) || m.Contains(Underline) {
			t.Errorf("unexpected modifier set %08b", m)
		}
		if m.Without(Bold) != Italic {
			t.Errorf("Without(Bold) = %08b", m.Without(Bold))
		}
	})
}

func TestCellBuffer_Dirty(t *testing.T) {
	b := NewCellBuffer(10, 7)
	if b.DirtyCount() != 0 {
		t.Fatalf("fresh buffer has %d dirty cells", b.DirtyCount())
	}
	if b.Len() != 70 {
		t.Fatalf("Len() = %d, want 70", b.Len())
	}

	b.Set(2, 3, NewCell("x", draw.White, draw.Black, ModNone))
	b.Set(5, 1, NewCell("y", draw.White, draw.Black, ModNone))
	b.Set(5, 1, NewCell("z", draw.White, draw.Black, ModNone))
	b.Set(-1, 0, DefaultCell())
	b.Set(10, 0, DefaultCell())

	if got := b.DirtyCount(); got != 2 {
		t.Errorf("DirtyCount() = %d, want 2", got)
	}
	if !b.IsDirty(2, 3) || b.IsDirty(0, 0) || b.IsDirty(99, 99) {
		t.Error("IsDirty mismatch")
	}
	if got, want := b.DirtyRect(), (Region{X: 2, Y: 1, Width: 4, Height: 3}); got != want {
		t.Errorf("DirtyRect() = %+v, want %+v", got, want)
	}
	idx := b.DirtyIndices()
	if len(idx) != 2 || idx[0] != 15 || idx[1] != 32 {
		t.Errorf("DirtyIndices() = %v, want [15 32]", idx)
	}

	b.MarkAllDirty()
	if got := b.DirtyCount(); got != 70 {
		t.Errorf("after MarkAllDirty DirtyCount() = %d, want 70", got)
	}

	b.ClearDirty()
	if b.DirtyCount() != 0 || !b.DirtyRect().IsEmpty() {
		t.Error("ClearDirty left dirty state behind")
	}
}

func TestCellBuffer_IterDirtyStops(t *testing.T) {
	b := NewCellBuffer(100, 2)
	b.MarkDirty(1, 0)
	b.MarkDirty(70, 0)
	b.MarkDirty(3, 1)

	var seen []int
	b.IterDirty(func(idx int) bool {
		seen = append(seen, idx)
		return len(seen) < 2
	})
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 70 {
		t.Errorf("IterDirty visited %v", seen)
	}
}

func TestCellBuffer_Resize(t *testing.T) {
	b := NewCellBuffer(4, 4)
	b.SetChar(0, 0, "q")
	b.Resize(3, 2)

	if w, h := b.Size(); w != 3 || h != 2 {
		t.Fatalf("Size() = %d,%d", w, h)
	}
	if b.Get(0, 0).Symbol != " " {
		t.Error("resize should discard content")
	}
	if b.DirtyCount() != 6 {
		t.Errorf("DirtyCount() = %d, want 6", b.DirtyCount())
	}
	if b.Get(3, 0) != nil {
		t.Error("Get outside the new bounds should be nil")
	}

	b.Resize(0, 0)
	if b.Len() != 0 || b.DirtyCount() != 0 {
		t.Error("zero-size buffer should be empty")
	}
}

func TestCellBuffer_WideInvariant(t *testing.T) {
	t.Run("wide writes continuation", func(t *testing.T) {
		b := NewCellBuffer(4, 1)
		if n := b.Put(0, 0, "日", draw.White, draw.Black, ModNone); n != 2 {
			t.Fatalf("Put returned %d, want 2", n)
		}
		if !b.Get(1, 0).IsContinuation() {
			t.Error("cell after wide glyph should be a continuation")
		}
		if b.DirtyCount() != 2 {
			t.Errorf("DirtyCount() = %d, want 2", b.DirtyCount())
		}
	})

	t.Run("wide in last column becomes space", func(t *testing.T) {
		b := NewCellBuffer(4, 1)
		n := b.Put(3, 0, "日", draw.White, draw.Black, ModNone)
		c := b.Get(3, 0)
		if n != 1 || c.Symbol != " " || c.Width != 1 {
			t.Errorf("got %d %+v", n, c)
		}
	})

	t.Run("update and set downgrade wide in last column", func(t *testing.T) {
		b := NewCellBuffer(4, 1)
		b.Update(3, 0, "日", draw.White, draw.Black, Bold)
		if c := b.Get(3, 0); c.Symbol != " " || c.Width != 1 || !c.Mods.Contains(Bold) {
			t.Errorf("Update: cell = %+v", c)
		}

		b.Set(3, 0, NewCell("日", draw.White, draw.Black, ModNone))
		if c := b.Get(3, 0); c.Symbol != " " || c.Width != 1 {
			t.Errorf("Set: cell = %+v", c)
		}

		b.Update(2, 0, "日", draw.White, draw.Black, ModNone)
		if c := b.Get(2, 0); c.Symbol != "日" || c.Width != 2 {
			t.Errorf("Update before last column: cell = %+v", c)
		}
	})

	t.Run("overwriting continuation blanks lead", func(t *testing.T) {
		b := NewCellBuffer(4, 1)
		b.Put(0, 0, "日", draw.White, draw.Black, ModNone)
		b.Put(1, 0, "x", draw.White, draw.Black, ModNone)
		if b.Get(0, 0).Symbol != " " || b.Get(0, 0).Width != 1 {
			t.Errorf("lead cell = %+v", b.Get(0, 0))
		}
		if b.Text(0) != " x  " {
			t.Errorf("Text(0) = %q", b.Text(0))
		}
	})

	t.Run("overwriting lead blanks continuation", func(t *testing.T) {
		b := NewCellBuffer(4, 1)
		b.Put(0, 0, "日", draw.White, draw.Black, ModNone)
		b.Put(0, 0, "a", draw.White, draw.Black, ModNone)
		if c := b.Get(1, 0); c.IsContinuation() || c.Symbol != " " {
			t.Errorf("trailing cell = %+v", c)
		}
	})
}

func TestCellBuffer_WriteStr(t *testing.T) {
	b := NewCellBuffer(3, 2)

	if n := b.WriteStr(0, 0, "ab日", draw.White, draw.Black, ModNone); n != 3 {
		t.Errorf("WriteStr returned %d, want 3", n)
	}
	if got := b.Text(0); got != "ab " {
		t.Errorf("Text(0) = %q", got)
	}

	b.WriteStr(0, 1, "éxyz", draw.White, draw.Black, Bold)
	if got := b.Text(1); got != "éxy" {
		t.Errorf("Text(1) = %q", got)
	}
	if !b.Get(0, 1).Mods.Contains(Bold) {
		t.Error("modifiers not applied")
	}

	if n := b.WriteStr(0, 5, "zz", draw.White, draw.Black, ModNone); n != 0 {
		t.Errorf("out-of-range row wrote %d columns", n)
	}
}

func TestCellBuffer_FillAndClear(t *testing.T) {
	b := NewCellBuffer(5, 5)
	b.FillRect(3, 3, 10, 10, draw.White, draw.Black)
	if b.DirtyCount() != 4 {
		t.Errorf("FillRect clipped to %d cells, want 4", b.DirtyCount())
	}
	if b.Get(4, 4).BG != draw.Black {
		t.Error("fill color missing")
	}

	b.ClearDirty()
	b.Clear()
	if b.DirtyCount() != 25 || b.Get(4, 4).BG != draw.Transparent {
		t.Error("Clear should reset and mark every cell")
	}
}

func TestRegion(t *testing.T) {
	a := Region{X: 0, Y: 0, Width: 4, Height: 4}
	b := Region{X: 2, Y: 2, Width: 4, Height: 4}
	if got := a.Intersect(b); got != (Region{X: 2, Y: 2, Width: 2, Height: 2}) {
		t.Errorf("Intersect = %+v", got)
	}
	if !a.Intersect(Region{X: 9, Y: 9, Width: 1, Height: 1}).IsEmpty() {
		t.Error("disjoint intersection should be empty")
	}
	if a.Contains(4, 0) || !a.Contains(3, 3) {
		t.Error("Contains is half-open")
	}
}
