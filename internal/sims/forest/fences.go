package forest

import (
	"slices"
	"time"

	"forest-rails/internal/core"
)

// Segment identifies a fence by cell and orientation, independent of its state.
type Segment struct {
	Cell        core.Cell        `json:"cell"`
	Orientation core.Orientation `json:"orientation"`
}

func (s Segment) less(o Segment) bool {
	if s.Cell != o.Cell {
		return s.Cell.Less(o.Cell)
	}
	return s.Orientation < o.Orientation
}

// PendingFence is a segment under construction. It does not block anything.
type PendingFence struct {
	Segment  Segment   `json:"segment"`
	CommitAt time.Time `json:"commit_at"`
}

// ActiveFence is a committed segment blocking its edge until ExpiresAt.
type ActiveFence struct {
	Segment   Segment   `json:"segment"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Fences tracks the pending -> active -> expired lifecycle of fence segments
// and the set of edges the active ones block.
type Fences struct {
	size      core.Size
	delay     time.Duration
	lifespan  time.Duration
	pending   []PendingFence
	active    map[Segment]time.Time
	blocked   map[core.Edge]int
	committed []Segment
	expired   []Segment
}

// NewFences returns an empty fence subsystem for the given grid.
func NewFences(size core.Size, buildDelay, lifespan time.Duration) *Fences {
	return &Fences{
		size:     size,
		delay:    buildDelay,
		lifespan: lifespan,
		active:   map[Segment]time.Time{},
		blocked:  map[core.Edge]int{},
	}
}

// Reset removes every fence.
func (f *Fences) Reset() {
	f.pending = f.pending[:0]
	clear(f.active)
	clear(f.blocked)
}

// RequestPlacement starts building seg. It returns false, changing nothing,
// when the segment already exists in any state or has no neighbor to separate
// its cell from.
func (f *Fences) RequestPlacement(seg Segment, now time.Time) bool {
	if !f.size.Contains(seg.Cell) {
		return false
	}
	if f.IsActive(seg) || f.IsPending(seg) {
		return false
	}
	nb, ok := f.size.FenceNeighbor(seg.Cell, seg.Orientation)
	if !ok || !core.IsAdjacent(seg.Cell, nb) {
		return false
	}
	f.pending = append(f.pending, PendingFence{Segment: seg, CommitAt: now.Add(f.delay)})
	return true
}

// Tick promotes pending fences whose commit time has passed and then expires
// active fences whose lifespan is over. The returned slices are reused by the
// next call.
func (f *Fences) Tick(now time.Time) (committed, expired []Segment) {
	f.committed = f.committed[:0]
	f.expired = f.expired[:0]

	if len(f.pending) > 0 {
		keep := f.pending[:0]
		for _, p := range f.pending {
			if now.Before(p.CommitAt) {
				keep = append(keep, p)
				continue
			}
			f.active[p.Segment] = now.Add(f.lifespan)
			f.block(p.Segment)
			f.committed = append(f.committed, p.Segment)
		}
		clear(f.pending[len(keep):])
		f.pending = keep
	}

	for seg, exp := range f.active {
		if now.Before(exp) {
			continue
		}
		delete(f.active, seg)
		f.unblock(seg)
		f.expired = append(f.expired, seg)
	}
	slices.SortFunc(f.expired, compareSegments)
	return f.committed, f.expired
}

func (f *Fences) block(seg Segment) {
	if nb, ok := f.size.FenceNeighbor(seg.Cell, seg.Orientation); ok {
		f.blocked[core.NewEdge(seg.Cell, nb)]++
	}
}

func (f *Fences) unblock(seg Segment) {
	nb, ok := f.size.FenceNeighbor(seg.Cell, seg.Orientation)
	if !ok {
		return
	}
	e := core.NewEdge(seg.Cell, nb)
	if f.blocked[e] <= 1 {
		delete(f.blocked, e)
		return
	}
	f.blocked[e]--
}

// Blocks reports whether an active fence separates a and b.
func (f *Fences) Blocks(a, b core.Cell) bool {
	return f.blocked[core.NewEdge(a, b)] > 0
}

// IsPending reports whether seg is under construction.
func (f *Fences) IsPending(seg Segment) bool {
	for _, p := range f.pending {
		if p.Segment == seg {
			return true
		}
	}
	return false
}

// IsActive reports whether seg is committed and blocking.
func (f *Fences) IsActive(seg Segment) bool {
	_, ok := f.active[seg]
	return ok
}

// Progress returns the build progress of a pending segment in [0,1], or 0 when
// seg is not pending.
func (f *Fences) Progress(seg Segment, now time.Time) float64 {
	for _, p := range f.pending {
		if p.Segment != seg {
			continue
		}
		if f.delay <= 0 {
			return 1
		}
		remaining := p.CommitAt.Sub(now)
		if remaining < 0 {
			remaining = 0
		}
		progress := 1 - float64(remaining)/float64(f.delay)
		if progress < 0 {
			return 0
		}
		if progress > 1 {
			return 1
		}
		return progress
	}
	return 0
}

// Pending returns a copy of the pending fences in placement order.
func (f *Fences) Pending() []PendingFence {
	return slices.Clone(f.pending)
}

// Active returns a copy of the active fences sorted by cell and orientation.
func (f *Fences) Active() []ActiveFence {
	out := make([]ActiveFence, 0, len(f.active))
	for seg, exp := range f.active {
		out = append(out, ActiveFence{Segment: seg, ExpiresAt: exp})
	}
	slices.SortFunc(out, func(a, b ActiveFence) int { return compareSegments(a.Segment, b.Segment) })
	return out
}

// BlockedEdges returns the number of distinct edges currently blocked.
func (f *Fences) BlockedEdges() int { return len(f.blocked) }

func compareSegments(a, b Segment) int {
	switch {
	case a.less(b):
		return -1
	case b.less(a):
		return 1
	}
	return 0
}
