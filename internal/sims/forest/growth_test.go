package forest

import (
	"testing"
	"time"

	"forest-rails/internal/core"
	rng "forest-rails/pkg/core"
)

// scriptedRand replays fixed draws, reduced modulo n, then returns zeros.
type scriptedRand struct {
	vals []int
	i    int
}

func (s *scriptedRand) IntN(n int) int {
	if s.i >= len(s.vals) {
		return 0
	}
	v := s.vals[s.i] % n
	s.i++
	return v
}

func TestForestResetSeedsSingleCell(t *testing.T) {
	f := NewForest(core.Size{Rows: 4, Cols: 5}, 4)
	seed := f.Reset(rng.NewRNG(3))
	if f.Count() != 1 {
		t.Fatalf("expected one seed cell, got %d", f.Count())
	}
	v, ok := f.Claimed(seed)
	if !ok || v < 1 || v > 4 {
		t.Fatalf("seed (%d,%d) claimed=%v variant=%d", seed.Row, seed.Col, ok, v)
	}

	f.GrowOne(rng.NewRNG(4), nil)
	f.Reset(&scriptedRand{vals: []int{7, 2}})
	if f.Count() != 1 {
		t.Fatalf("reset kept %d cells", f.Count())
	}
	if v, ok := f.Claimed(core.Cell{Row: 1, Col: 2}); !ok || v != 3 {
		t.Fatalf("scripted seed should land on (1,2) with variant 3, got ok=%v variant=%d", ok, v)
	}
}

func TestForestGrowthIsMonotonicAndBounded(t *testing.T) {
	sizes := []core.Size{{Rows: 1, Cols: 1}, {Rows: 2, Cols: 3}, {Rows: 5, Cols: 7}, {Rows: 10, Cols: 18}}
	for _, size := range sizes {
		f := NewForest(size, 4)
		r := rng.NewRNG(int64(size.Area()))
		f.Reset(r)
		prev := f.Count()
		claimed := map[core.Cell]int{}
		for _, fc := range f.Cells() {
			claimed[fc.Cell] = fc.Variant
		}
		for i := 0; i < size.Area()+5; i++ {
			fc, grew := f.GrowOne(r, nil)
			if grew {
				if _, dup := claimed[fc.Cell]; dup {
					t.Fatalf("%dx%d: cell (%d,%d) claimed twice", size.Rows, size.Cols, fc.Cell.Row, fc.Cell.Col)
				}
				claimed[fc.Cell] = fc.Variant
			}
			if f.Count() < prev {
				t.Fatalf("%dx%d: forest shrank from %d to %d", size.Rows, size.Cols, prev, f.Count())
			}
			if f.Count() > size.Area() {
				t.Fatalf("%dx%d: forest %d exceeds area", size.Rows, size.Cols, f.Count())
			}
			prev = f.Count()
		}
		if !f.Full() {
			t.Fatalf("%dx%d: unobstructed forest did not fill the grid (%d cells)", size.Rows, size.Cols, f.Count())
		}
		for c, v := range claimed {
			if got, _ := f.Claimed(c); got != v {
				t.Fatalf("variant of (%d,%d) changed from %d to %d", c.Row, c.Col, v, got)
			}
		}
	}
}

func TestFrontierIsDeduplicatedUnion(t *testing.T) {
	size := core.Size{Rows: 2, Cols: 2}
	f := NewForest(size, 4)
	f.Reset(&scriptedRand{vals: []int{0, 0}})
	// (0,0) offers [(1,0),(0,1)]; take (0,1), then [(1,0),(1,1)]; take (1,0).
	f.GrowOne(&scriptedRand{vals: []int{1, 0}}, nil)
	f.GrowOne(&scriptedRand{vals: []int{0, 0}}, nil)

	if _, ok := f.Claimed(core.Cell{Row: 1, Col: 0}); !ok {
		t.Fatal("expected (1,0) to be claimed by the scripted pick")
	}
	frontier := f.Frontier(nil)
	if len(frontier) != 1 || frontier[0] != (core.Cell{Row: 1, Col: 1}) {
		t.Fatalf("(1,1) borders two forest cells but must appear once, got %v", frontier)
	}
}

func TestBlockedEdgesStallGrowth(t *testing.T) {
	size := core.Size{Rows: 1, Cols: 2}
	f := NewForest(size, 4)
	f.Reset(&scriptedRand{vals: []int{0, 0}})
	fences := NewFences(size, 0, 10*time.Second)
	fences.RequestPlacement(Segment{Cell: core.Cell{Row: 0, Col: 0}, Orientation: core.Vertical}, epoch)
	fences.Tick(epoch)

	if _, grew := f.GrowOne(rng.NewRNG(1), fences.Blocks); grew {
		t.Fatal("forest crossed an active fence")
	}
	if f.Count() != 1 {
		t.Fatalf("stalled growth changed the forest: %d cells", f.Count())
	}

	fences.Tick(at(10 * time.Second))
	if _, grew := f.GrowOne(rng.NewRNG(1), fences.Blocks); !grew {
		t.Fatal("forest did not grow after the fence expired")
	}
}
