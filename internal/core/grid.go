package core

import "strings"

// Cell addresses one square of the board by row and column.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Less orders cells lexicographically by row, then column.
func (c Cell) Less(o Cell) bool {
	if c.Row != o.Row {
		return c.Row < o.Row
	}
	return c.Col < o.Col
}

// Edge is an unordered pair of adjacent cells. A is never greater than B.
type Edge struct {
	A Cell
	B Cell
}

// NewEdge normalizes the pair so the result is the same for either argument order.
func NewEdge(p, q Cell) Edge {
	if q.Less(p) {
		p, q = q, p
	}
	return Edge{A: p, B: q}
}

// IsAdjacent reports whether a and b differ by exactly one step along exactly one axis.
func IsAdjacent(a, b Cell) bool {
	dr := abs(a.Row - b.Row)
	dc := abs(a.Col - b.Col)
	return dr+dc == 1
}

// Size describes the dimensions of a simulation grid.
type Size struct {
	Rows int
	Cols int
}

// Area returns the number of cells in the grid.
func (s Size) Area() int { return s.Rows * s.Cols }

// Contains reports whether c lies inside the grid.
func (s Size) Contains(c Cell) bool {
	return c.Row >= 0 && c.Row < s.Rows && c.Col >= 0 && c.Col < s.Cols
}

// Index returns the row-major slice index of c.
func (s Size) Index(c Cell) int { return c.Row*s.Cols + c.Col }

// CellAt is the inverse of Index.
func (s Size) CellAt(idx int) Cell {
	return Cell{Row: idx / s.Cols, Col: idx % s.Cols}
}

// Neighbors returns the up to four orthogonal neighbors of c that lie inside
// the grid, in the order up, down, left, right.
func (s Size) Neighbors(c Cell) []Cell {
	res := make([]Cell, 0, 4)
	if c.Row > 0 {
		res = append(res, Cell{Row: c.Row - 1, Col: c.Col})
	}
	if c.Row+1 < s.Rows {
		res = append(res, Cell{Row: c.Row + 1, Col: c.Col})
	}
	if c.Col > 0 {
		res = append(res, Cell{Row: c.Row, Col: c.Col - 1})
	}
	if c.Col+1 < s.Cols {
		res = append(res, Cell{Row: c.Row, Col: c.Col + 1})
	}
	return res
}

// Orientation selects which neighbor a fence segment separates its cell from.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Flip returns the other orientation.
func (o Orientation) Flip() Orientation {
	if o == Vertical {
		return Horizontal
	}
	return Vertical
}

// MarshalText encodes the orientation by name.
func (o Orientation) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// UnmarshalText accepts the names produced by MarshalText and their one-letter forms.
func (o *Orientation) UnmarshalText(b []byte) error {
	v, ok := ParseOrientation(string(b))
	if !ok {
		return &orientationError{raw: string(b)}
	}
	*o = v
	return nil
}

// ParseOrientation accepts "h", "horizontal", "v" and "vertical" in any case.
func ParseOrientation(s string) (Orientation, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "h", "horizontal":
		return Horizontal, true
	case "v", "vertical":
		return Vertical, true
	}
	return Horizontal, false
}

type orientationError struct{ raw string }

func (e *orientationError) Error() string { return "unknown orientation " + strings.TrimSpace(e.raw) }

// FenceNeighbor returns the cell a segment at c with orientation o separates c
// from. Vertical segments prefer the right neighbor, horizontal ones the cell
// below; the opposite side is used on the far border. ok is false when the
// grid has no neighbor on that axis.
func (s Size) FenceNeighbor(c Cell, o Orientation) (Cell, bool) {
	switch o {
	case Vertical:
		if c.Col+1 < s.Cols {
			return Cell{Row: c.Row, Col: c.Col + 1}, true
		}
		if c.Col-1 >= 0 {
			return Cell{Row: c.Row, Col: c.Col - 1}, true
		}
	default:
		if c.Row+1 < s.Rows {
			return Cell{Row: c.Row + 1, Col: c.Col}, true
		}
		if c.Row-1 >= 0 {
			return Cell{Row: c.Row - 1, Col: c.Col}, true
		}
	}
	return Cell{}, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
