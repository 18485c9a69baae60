package console

import (
	"fmt"
	"strings"

	"forest-rails/internal/core"
	"forest-rails/internal/sims/forest"
)

// RenderMap draws a snapshot as text: '.' open ground, 'T' forest, '=' track,
// '#' track under forest, 'o' a train. The character after a cell marks a
// fence on it: '|' vertical, '_' horizontal, '!' or ':' while still being
// built.
func RenderMap(snap forest.Snapshot) string {
	cells := make([][]byte, snap.Rows)
	for r := range cells {
		cells[r] = []byte(strings.Repeat(".", snap.Cols))
	}
	for _, c := range snap.Rails {
		cells[c.Row][c.Col] = '='
	}
	for _, fc := range snap.Forest {
		if cells[fc.Cell.Row][fc.Cell.Col] == '=' {
			cells[fc.Cell.Row][fc.Cell.Col] = '#'
		} else {
			cells[fc.Cell.Row][fc.Cell.Col] = 'T'
		}
	}
	for _, t := range snap.Trains {
		cells[t.Row][t.Col] = 'o'
	}

	marks := map[forest.Segment]byte{}
	for _, p := range snap.Pending {
		marks[p.Segment] = pendingMark(p.Segment.Orientation)
	}
	for _, a := range snap.Active {
		marks[a.Segment] = activeMark(a.Segment.Orientation)
	}

	var b strings.Builder
	b.WriteString("   ")
	for c := 0; c < snap.Cols; c++ {
		fmt.Fprintf(&b, "%d ", c%10)
	}
	b.WriteByte('\n')
	for r := 0; r < snap.Rows; r++ {
		fmt.Fprintf(&b, "%2d ", r)
		for c := 0; c < snap.Cols; c++ {
			cell := core.Cell{Row: r, Col: c}
			b.WriteByte(cells[r][c])
			sep := byte(' ')
			if m, ok := marks[forest.Segment{Cell: cell, Orientation: core.Vertical}]; ok {
				sep = m
			}
			if m, ok := marks[forest.Segment{Cell: cell, Orientation: core.Horizontal}]; ok && sep == ' ' {
				sep = m
			}
			b.WriteByte(sep)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func activeMark(o core.Orientation) byte {
	if o == core.Vertical {
		return '|'
	}
	return '_'
}

func pendingMark(o core.Orientation) byte {
	if o == core.Vertical {
		return '!'
	}
	return ':'
}
