package core

import "testing"

func TestRNGDeterministic(t *testing.T) {
	a := NewRNG(7)
	b := NewRNG(7)
	for i := 0; i < 64; i++ {
		x, y := a.IntN(100), b.IntN(100)
		if x != y {
			t.Fatalf("draw %d diverged: %d vs %d", i, x, y)
		}
	}
}

func TestBetweenStaysInRange(t *testing.T) {
	r := NewRNG(1)
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		v := Between(r, 1, 4)
		if v < 1 || v > 4 {
			t.Fatalf("Between(1,4) returned %d", v)
		}
		seen[v] = true
	}
	if len(seen) != 4 {
		t.Fatalf("expected all of 1..4 to appear, saw %v", seen)
	}
	if got := Between(r, 3, 3); got != 3 {
		t.Fatalf("Between(3,3) = %d", got)
	}
}

func TestPickEmpty(t *testing.T) {
	if got := Pick(NewRNG(1), 0); got != -1 {
		t.Fatalf("Pick on empty set = %d, want -1", got)
	}
}
