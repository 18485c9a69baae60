package render

import "forest-rails/internal/core"

// CellAt maps a screen position to the grid cell under it.
func CellAt(x, y, scale int, size core.Size) (core.Cell, bool) {
	if scale <= 0 || x < 0 || y < 0 {
		return core.Cell{}, false
	}
	c := core.Cell{Row: y / scale, Col: x / scale}
	if !size.Contains(c) {
		return core.Cell{}, false
	}
	return c, true
}

// CellCenter returns the screen position of the middle of c.
func CellCenter(c core.Cell, scale int) (x, y float64) {
	half := float64(scale) / 2
	return float64(c.Col*scale) + half, float64(c.Row*scale) + half
}

// EdgeLine returns the screen segment along the shared border of two
// adjacent cells. ok is false when a and b are not neighbors.
func EdgeLine(a, b core.Cell, scale int) (x1, y1, x2, y2 float64, ok bool) {
	if !core.IsAdjacent(a, b) {
		return 0, 0, 0, 0, false
	}
	s := float64(scale)
	if a.Row == b.Row {
		x := float64(max(a.Col, b.Col)) * s
		y := float64(a.Row) * s
		return x, y, x, y + s, true
	}
	y := float64(max(a.Row, b.Row)) * s
	x := float64(a.Col) * s
	return x, y, x + s, y, true
}
