package object

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tomz197/reaction/internal/draw"
)

// Text is a simple drawable text object.
// Coordinates are 1-based terminal positions.
type Text struct {
	X     int
	Y     int
	Value string
	Color string // Optional ANSI color sequence
}

// Centered returns a text horizontally centred in a row of the given width.
func Centered(width, row int, value string) Text {
	return Text{X: (width-utf8.RuneCountInString(value))/2 + 1, Y: row, Value: value}
}

// cursorWriter positions text relative to its own origin, like draw.ChunkWriter.
type cursorWriter interface {
	WriteAt(col, row int, s string)
}

// Draw writes the text at its position using ANSI cursor movement.
// Writers that know their own origin position the text themselves.
func (t Text) Draw(ctx DrawContext) error {
	if t.Value == "" {
		return nil
	}
	x := max(t.X, 1)
	y := max(t.Y, 1)
	value := t.Value
	if t.Color != "" {
		value = t.Color + value + draw.ColorReset
	}
	if cw, ok := ctx.Writer.(cursorWriter); ok {
		cw.WriteAt(x, y, value)
		return nil
	}
	if _, err := fmt.Fprintf(ctx.Writer, "\033[%d;%dH%s", y, x, value); err != nil {
		return err
	}
	return nil
}

// Bar is a horizontal gauge, e.g. the time left in the round.
type Bar struct {
	X, Y     int
	Width    int
	Fraction float64 // 0.0 empty, 1.0 full
	Color    string
}

// Draw writes the bar using full blocks for the filled part and a shaded
// cell for the partially filled one.
func (b Bar) Draw(ctx DrawContext) error {
	if b.Width <= 0 {
		return nil
	}
	f := min(max(b.Fraction, 0), 1)
	filled := f * float64(b.Width)
	whole := int(filled)

	var sb strings.Builder
	sb.WriteString(strings.Repeat(string(draw.BlockFull), whole))
	if whole < b.Width {
		sb.WriteRune(draw.ShadeLevel(filled - float64(whole)))
		sb.WriteString(strings.Repeat(" ", b.Width-whole-1))
	}
	return Text{X: b.X, Y: b.Y, Value: sb.String(), Color: b.Color}.Draw(ctx)
}
