package object

import (
	"io"

	"github.com/tomz197/reaction/internal/draw"
)

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas // Board canvas (2x vertical), in board units
	Writer io.Writer    // Direct terminal output (for text)
}

// Object is a drawable screen element.
type Object interface {
	// Draw draws the object. Use ctx.Canvas for board shapes, ctx.Writer for text.
	Draw(ctx DrawContext) error
}

// DrawAll draws objects in order and stops at the first error.
func DrawAll(ctx DrawContext, objects ...Object) error {
	for _, obj := range objects {
		if err := obj.Draw(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ShouldRenderBlink reports whether a blinking element is in its visible
// phase at the given elapsed time in seconds (e.g. frequency 2.0 = 2Hz).
func ShouldRenderBlink(elapsed float64, frequency float64) bool {
	if elapsed <= 0 {
		return true
	}
	phase := int(elapsed * frequency * 2)
	return phase%2 == 0
}
