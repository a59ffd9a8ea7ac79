package game

import (
	"math"
	"math/rand"

	"github.com/tomz197/reaction/internal/physics"
)

// Bounds is the size of the play surface in board units.
type Bounds struct {
	W, H float64
}

// Target is the square the player has to activate.
// X and Y are the top-left corner.
type Target struct {
	X, Y float64
	Size float64
}

// Contains reports whether the board point (x, y) lies on the target.
func (t Target) Contains(x, y float64) bool {
	return physics.PointInRect(x, y, t.X, t.Y, t.Size, t.Size)
}

// Inside reports whether t lies within b with Pad units of clearance.
func (t Target) Inside(b Bounds) bool {
	return physics.RectInRect(t.X, t.Y, t.Size, t.Size, Pad, Pad, b.W-2*Pad, b.H-2*Pad)
}

// Place draws a target of the given size uniformly inside b, keeping Pad
// units of clearance on every side.
//
// When an axis is too small for size plus padding the target is centred on
// that axis if it still fits, otherwise it is pinned to 0.
func Place(rng *rand.Rand, b Bounds, size float64) Target {
	return Target{
		X:    placeAxis(rng, b.W, size),
		Y:    placeAxis(rng, b.H, size),
		Size: size,
	}
}

// Clamp moves t the shortest distance needed to fit inside b.
// Used after a resize; the target keeps its size.
func Clamp(t Target, b Bounds) Target {
	if t.Inside(b) {
		return t
	}
	t.X = clampAxis(t.X, b.W, t.Size)
	t.Y = clampAxis(t.Y, b.H, t.Size)
	return t
}

func placeAxis(rng *rand.Rand, extent, size float64) float64 {
	extent = sanitizeExtent(extent)
	span := extent - size - 2*Pad
	if span >= 0 {
		return Pad + rng.Float64()*span
	}
	return degenerateAxis(extent, size)
}

func clampAxis(v, extent, size float64) float64 {
	extent = sanitizeExtent(extent)
	span := extent - size - 2*Pad
	if span >= 0 {
		if math.IsNaN(v) {
			return Pad
		}
		return physics.Clamp(v, Pad, Pad+span)
	}
	return degenerateAxis(extent, size)
}

func degenerateAxis(extent, size float64) float64 {
	if extent >= size {
		return (extent - size) / 2
	}
	return 0
}

// sanitizeExtent maps NaN, infinite and negative extents to 0.
func sanitizeExtent(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
