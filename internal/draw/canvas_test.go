package draw

import (
	"bytes"
	"strings"
	"testing"
)

func TestTerminalToLogicalRoundTrip(t *testing.T) {
	// 80x20 cells covering a 640x320 board: one cell is 8x16 units.
	c := NewScaledCanvas(80, 20, 640, 320)
	c.SetOffset(1, 2)

	x, y, ok := c.TerminalToLogical(2, 3)
	if !ok {
		t.Fatal("first canvas cell reported outside")
	}
	if x != 4 || y != 8 {
		t.Errorf("centre of first cell = (%v, %v), want (4, 8)", x, y)
	}

	col, row := c.LogicalToTerminal(x, y)
	if col != 2 || row != 3 {
		t.Errorf("LogicalToTerminal(%v, %v) = (%d, %d), want (2, 3)", x, y, col, row)
	}

	col, row = c.LogicalToTerminal(639, 319)
	if col != 81 || row != 22 {
		t.Errorf("last cell = (%d, %d), want (81, 22)", col, row)
	}
}

func TestTerminalToLogicalOutside(t *testing.T) {
	c := NewScaledCanvas(10, 5, 80, 80)
	c.SetOffset(1, 1)

	for _, tc := range []struct{ col, row int }{
		{1, 2},  // left border
		{2, 1},  // top border
		{12, 2}, // right border
		{2, 7},  // bottom border
	} {
		if _, _, ok := c.TerminalToLogical(tc.col, tc.row); ok {
			t.Errorf("(%d, %d) should be outside the canvas", tc.col, tc.row)
		}
	}

	empty := NewScaledCanvas(0, 0, 0, 0)
	if _, _, ok := empty.TerminalToLogical(1, 1); ok {
		t.Error("empty canvas should contain no cells")
	}
}

func TestRenderOnlyChangedCells(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.SetFloat(0, 0)

	var first bytes.Buffer
	c.Render(&first)
	if !strings.ContainsRune(first.String(), BlockUpperHalf) {
		t.Fatalf("first render has no upper half block: %q", first.String())
	}
	// Every cell is written once on the first frame.
	if got := strings.Count(first.String(), "\033["); got != 8 {
		t.Errorf("first render wrote %d cells, want 8", got)
	}

	var second bytes.Buffer
	c.Render(&second)
	if second.Len() != 0 {
		t.Errorf("unchanged frame wrote %q", second.String())
	}

	c.Clear()
	var third bytes.Buffer
	c.Render(&third)
	if got := strings.Count(third.String(), "\033["); got != 1 {
		t.Errorf("clearing one cell wrote %d cells, want 1", got)
	}

	c.ForceRedraw()
	var fourth bytes.Buffer
	c.Render(&fourth)
	if got := strings.Count(fourth.String(), "\033["); got != 8 {
		t.Errorf("forced redraw wrote %d cells, want 8", got)
	}
}

func TestRenderColor(t *testing.T) {
	c := NewScaledCanvas(1, 1, 1, 1)
	c.SetColor(ColorBrightCyan)
	c.SetFloat(0, 0)

	var buf bytes.Buffer
	c.Render(&buf)
	out := buf.String()
	if !strings.HasPrefix(out, ColorBrightCyan) || !strings.HasSuffix(out, ColorReset) {
		t.Errorf("render not wrapped in color: %q", out)
	}
}

func TestChunkWriterOffset(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 3, 1)
	cw.WriteAt(2, 2, "hi")
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), "\033[3;5Hhi"; got != want {
		t.Errorf("WriteAt = %q, want %q", got, want)
	}
}

func TestRectFilled(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.DrawPolygon(Rect(0, 0, 2, 2), true)

	var buf bytes.Buffer
	c.Render(&buf)
	if got := strings.Count(buf.String(), string(BlockFull)); got < 2 {
		t.Errorf("filled rect rendered %d full blocks, want at least 2: %q", got, buf.String())
	}
}

func TestShadeLevel(t *testing.T) {
	if ShadeLevel(-1) != ' ' || ShadeLevel(0) != ' ' {
		t.Error("empty intensity should be blank")
	}
	if ShadeLevel(1) != BlockFull || ShadeLevel(2) != BlockFull {
		t.Error("full intensity should be a full block")
	}
}
