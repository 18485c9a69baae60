package forest

import (
	"forest-rails/internal/core"
	rng "forest-rails/pkg/core"
)

const maxVariants = 7

// ForestCell is a claimed cell and the sprite variant it was given.
type ForestCell struct {
	Cell    core.Cell `json:"cell"`
	Variant int       `json:"variant"`
}

// Forest holds the claimed cells. Membership only grows until Reset.
type Forest struct {
	size     core.Size
	variants int
	claimed  []uint8 // 0 = unclaimed, otherwise the variant
	count    int

	seen  []bool
	cands []core.Cell
}

// NewForest returns an empty forest for the grid. Variants are drawn from
// [1, variants].
func NewForest(size core.Size, variants int) *Forest {
	if variants <= 0 || variants > maxVariants {
		variants = 4
	}
	return &Forest{
		size:     size,
		variants: variants,
		claimed:  make([]uint8, size.Area()),
		seen:     make([]bool, size.Area()),
	}
}

// Reset clears the forest and claims one uniformly random seed cell.
func (f *Forest) Reset(r rng.Rand) core.Cell {
	clear(f.claimed)
	f.count = 0
	if len(f.claimed) == 0 {
		return core.Cell{}
	}
	seed := f.size.CellAt(r.IntN(len(f.claimed)))
	f.claim(seed, r)
	return seed
}

// Claimed reports whether c belongs to the forest and its variant.
func (f *Forest) Claimed(c core.Cell) (int, bool) {
	if !f.size.Contains(c) {
		return 0, false
	}
	v := f.claimed[f.size.Index(c)]
	return int(v), v != 0
}

// Count returns the number of claimed cells.
func (f *Forest) Count() int { return f.count }

// Full reports whether every cell is claimed.
func (f *Forest) Full() bool { return f.count >= len(f.claimed) }

// Frontier returns the unclaimed cells reachable from the forest through an
// edge that blocked does not veto. Each cell appears once, in the order the
// forest is scanned (row-major, then up/down/left/right).
func (f *Forest) Frontier(blocked func(a, b core.Cell) bool) []core.Cell {
	f.cands = f.cands[:0]
	clear(f.seen)
	for idx, v := range f.claimed {
		if v == 0 {
			continue
		}
		p := f.size.CellAt(idx)
		for _, nb := range f.size.Neighbors(p) {
			ni := f.size.Index(nb)
			if f.claimed[ni] != 0 || f.seen[ni] {
				continue
			}
			if blocked != nil && blocked(p, nb) {
				continue
			}
			f.seen[ni] = true
			f.cands = append(f.cands, nb)
		}
	}
	return f.cands
}

// GrowOne claims one frontier cell chosen uniformly at random. It returns false
// when the frontier is empty and growth has stalled.
func (f *Forest) GrowOne(r rng.Rand, blocked func(a, b core.Cell) bool) (ForestCell, bool) {
	cands := f.Frontier(blocked)
	i := rng.Pick(r, len(cands))
	if i < 0 {
		return ForestCell{}, false
	}
	next := cands[i]
	v := f.claim(next, r)
	return ForestCell{Cell: next, Variant: v}, true
}

// Cells returns the claimed cells in row-major order.
func (f *Forest) Cells() []ForestCell {
	out := make([]ForestCell, 0, f.count)
	for idx, v := range f.claimed {
		if v != 0 {
			out = append(out, ForestCell{Cell: f.size.CellAt(idx), Variant: int(v)})
		}
	}
	return out
}

func (f *Forest) claim(c core.Cell, r rng.Rand) int {
	v := rng.Between(r, 1, f.variants)
	f.claimed[f.size.Index(c)] = uint8(v)
	f.count++
	return v
}
