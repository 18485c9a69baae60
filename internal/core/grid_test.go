package core

import (
	"testing"
	"time"
)

func TestNewEdgeNormalizes(t *testing.T) {
	a := Cell{Row: 2, Col: 3}
	b := Cell{Row: 2, Col: 4}
	if NewEdge(a, b) != NewEdge(b, a) {
		t.Fatalf("edge (%v,%v) depends on argument order", a, b)
	}
	e := NewEdge(b, a)
	if e.A != a || e.B != b {
		t.Fatalf("expected A=%v B=%v, got %+v", a, b, e)
	}
}

func TestIsAdjacent(t *testing.T) {
	tests := []struct {
		a, b Cell
		want bool
	}{
		{Cell{0, 0}, Cell{0, 1}, true},
		{Cell{0, 0}, Cell{1, 0}, true},
		{Cell{1, 1}, Cell{0, 0}, false},
		{Cell{1, 1}, Cell{1, 1}, false},
		{Cell{1, 1}, Cell{1, 3}, false},
	}
	for _, tc := range tests {
		if got := IsAdjacent(tc.a, tc.b); got != tc.want {
			t.Fatalf("IsAdjacent(%v,%v)=%v want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestNeighborsRespectBounds(t *testing.T) {
	s := Size{Rows: 3, Cols: 4}
	if got := len(s.Neighbors(Cell{0, 0})); got != 2 {
		t.Fatalf("corner (0,0) has %d neighbors, want 2", got)
	}
	if got := len(s.Neighbors(Cell{1, 1})); got != 4 {
		t.Fatalf("interior (1,1) has %d neighbors, want 4", got)
	}
	if got := len(s.Neighbors(Cell{2, 1})); got != 3 {
		t.Fatalf("edge (2,1) has %d neighbors, want 3", got)
	}
	for _, n := range s.Neighbors(Cell{1, 1}) {
		if !IsAdjacent(n, Cell{1, 1}) {
			t.Fatalf("neighbor %v not adjacent to (1,1)", n)
		}
	}
	if got := len((Size{Rows: 1, Cols: 1}).Neighbors(Cell{0, 0})); got != 0 {
		t.Fatalf("1x1 grid cell has %d neighbors", got)
	}
}

func TestFenceNeighbor(t *testing.T) {
	s := Size{Rows: 3, Cols: 3}
	tests := []struct {
		cell Cell
		o    Orientation
		want Cell
		ok   bool
	}{
		{Cell{1, 1}, Vertical, Cell{1, 2}, true},
		{Cell{1, 2}, Vertical, Cell{1, 1}, true},
		{Cell{1, 1}, Horizontal, Cell{2, 1}, true},
		{Cell{2, 1}, Horizontal, Cell{1, 1}, true},
	}
	for _, tc := range tests {
		got, ok := s.FenceNeighbor(tc.cell, tc.o)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("FenceNeighbor(%v,%v)=(%v,%v) want (%v,%v)", tc.cell, tc.o, got, ok, tc.want, tc.ok)
		}
	}

	column := Size{Rows: 3, Cols: 1}
	if _, ok := column.FenceNeighbor(Cell{1, 0}, Vertical); ok {
		t.Fatal("single-column grid must not host vertical fences")
	}
	row := Size{Rows: 1, Cols: 3}
	if _, ok := row.FenceNeighbor(Cell{0, 1}, Horizontal); ok {
		t.Fatal("single-row grid must not host horizontal fences")
	}
}

func TestParseOrientation(t *testing.T) {
	for _, in := range []string{"h", "H", "horizontal", " Horizontal "} {
		if o, ok := ParseOrientation(in); !ok || o != Horizontal {
			t.Fatalf("ParseOrientation(%q)=(%v,%v)", in, o, ok)
		}
	}
	if o, ok := ParseOrientation("v"); !ok || o != Vertical {
		t.Fatalf("ParseOrientation(v)=(%v,%v)", o, ok)
	}
	if _, ok := ParseOrientation("diagonal"); ok {
		t.Fatal("diagonal must not parse")
	}
}

func TestCadenceFiresOnSchedule(t *testing.T) {
	start := time.Unix(1000, 0)
	c := NewCadence(500 * time.Millisecond)
	if _, due := c.Next(start); due {
		t.Fatal("unarmed cadence must not be due")
	}
	c.Arm(start)
	if _, due := c.Next(start.Add(499 * time.Millisecond)); due {
		t.Fatal("cadence fired early")
	}
	at, due := c.Next(start.Add(1200 * time.Millisecond))
	if !due || !at.Equal(start.Add(500*time.Millisecond)) {
		t.Fatalf("expected first deadline at +500ms, got %v due=%v", at.Sub(start), due)
	}
	if got := c.Behind(start.Add(1200 * time.Millisecond)); got != 2 {
		t.Fatalf("expected 2 overdue steps, got %d", got)
	}
	c.Fire()
	c.Fire()
	if _, due := c.Next(start.Add(1200 * time.Millisecond)); due {
		t.Fatal("cadence still due after consuming the backlog")
	}
}
