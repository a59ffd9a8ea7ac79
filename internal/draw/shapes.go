package draw

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockLight     = '░'
	BlockMedium    = '▒'
	BlockDark      = '▓'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Shades from lightest to darkest.
var Shades = []rune{' ', BlockLight, BlockMedium, BlockDark, BlockFull}

// ShadeLevel returns a shade character for a value between 0.0 (empty) and 1.0 (solid).
func ShadeLevel(intensity float64) rune {
	if intensity <= 0 {
		return Shades[0]
	}
	if intensity >= 1 {
		return Shades[len(Shades)-1]
	}
	idx := int(intensity * float64(len(Shades)-1))
	return Shades[idx]
}

// Rect returns the corners of an axis-aligned rectangle in drawing order.
func Rect(x, y, w, h float64) []Point {
	right := x + w
	bottom := y + h
	return []Point{
		{X: x, Y: y},
		{X: right, Y: y},
		{X: right, Y: bottom},
		{X: x, Y: bottom},
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
