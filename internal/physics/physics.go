// Package physics provides hit-testing and clamping helpers for board geometry.
package physics

import "math"

// PointInRect reports whether (px, py) lies inside the axis-aligned rectangle
// with top-left (x, y) and the given width and height. Edges are inclusive.
func PointInRect(px, py, x, y, w, h float64) bool {
	return px >= x && px <= x+w && py >= y && py <= y+h
}

// RectInRect reports whether the inner rectangle lies fully inside the outer one.
func RectInRect(ix, iy, iw, ih, ox, oy, ow, oh float64) bool {
	return ix >= ox && iy >= oy && ix+iw <= ox+ow && iy+ih <= oy+oh
}

// Clamp limits v to [lo, hi]. If lo > hi the result is lo.
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
