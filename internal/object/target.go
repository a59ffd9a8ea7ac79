package object

import (
	"github.com/tomz197/reaction/internal/draw"
	"github.com/tomz197/reaction/internal/game"
)

// Target draws the session's target as a filled square on the board canvas.
type Target struct {
	game.Target
	Visible bool
}

// Draw fills the target's square. Hidden targets draw nothing.
func (t Target) Draw(ctx DrawContext) error {
	if !t.Visible || ctx.Canvas == nil || t.Size <= 0 {
		return nil
	}
	ctx.Canvas.DrawPolygon(draw.Rect(t.X, t.Y, t.Size, t.Size), true)
	return nil
}
