package forest

import (
	"fmt"
	"strings"
	"time"

	"forest-rails/internal/core"
	rng "forest-rails/pkg/core"
)

// BuildMode selects what a tap places.
type BuildMode uint8

const (
	ModeRail BuildMode = iota
	ModeFence
)

func (m BuildMode) String() string {
	if m == ModeFence {
		return "fence"
	}
	return "rail"
}

// Toggle returns the other mode.
func (m BuildMode) Toggle() BuildMode {
	if m == ModeFence {
		return ModeRail
	}
	return ModeFence
}

// MarshalText encodes the mode by name.
func (m BuildMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText is the inverse of MarshalText.
func (m *BuildMode) UnmarshalText(b []byte) error {
	v, ok := ParseBuildMode(string(b))
	if !ok {
		return fmt.Errorf("unknown build mode %q", b)
	}
	*m = v
	return nil
}

// ParseBuildMode accepts "rail" and "fence" in any case.
func ParseBuildMode(s string) (BuildMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rail", "rails":
		return ModeRail, true
	case "fence", "fences":
		return ModeFence, true
	}
	return ModeRail, false
}

// World is the forest-versus-rails mini-game: a forest spreading over the grid,
// fences that temporarily stop it, and trains crossing completed rail rows.
// All methods must be called from a single goroutine.
type World struct {
	cfg  Config
	size core.Size

	rand      rng.Rand
	fixedRand bool

	fences *Fences
	forest *Forest
	rails  *Rails

	seed int64
	won  bool
	lost bool

	mode        BuildMode
	orientation core.Orientation

	growth *core.Cadence
	pulse  *core.Cadence
	now    time.Time

	listeners []Listener
	display   []uint8
}

// Option customizes a World at construction.
type Option func(*World)

// WithRand makes the world draw from r instead of an RNG seeded on Reset.
func WithRand(r rng.Rand) Option {
	return func(w *World) {
		if r != nil {
			w.rand = r
			w.fixedRand = true
		}
	}
}

// New returns a world with the provided dimensions using defaults.
func New(rows, cols int) *World {
	cfg := DefaultConfig()
	cfg.Rows = rows
	cfg.Cols = cols
	return NewWithConfig(cfg)
}

// NewWithConfig returns a world configured from the provided options. The
// world is empty until Reset is called.
func NewWithConfig(cfg Config, opts ...Option) *World {
	cfg = cfg.Sanitize()
	size := core.Size{Rows: cfg.Rows, Cols: cfg.Cols}
	w := &World{
		cfg:     cfg,
		size:    size,
		fences:  NewFences(size, cfg.Timing.BuildDelay, cfg.Timing.FenceLifespan),
		forest:  NewForest(size, cfg.Variants),
		rails:   NewRails(size, cfg.Timing.TransitTime, cfg.Timing.RetryInterval),
		growth:  core.NewCadence(cfg.Timing.GrowthInterval),
		pulse:   core.NewCadence(cfg.Timing.PulseInterval),
		display: make([]uint8, size.Area()),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.rand == nil {
		w.rand = rng.NewRNG(cfg.Seed)
	}
	return w
}

var (
	_ core.Sim               = (*World)(nil)
	_ core.ParameterProvider = (*World)(nil)
)

// Name returns the simulation identifier.
func (w *World) Name() string { return "forest" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return w.size }

// Config returns the sanitized configuration in use.
func (w *World) Config() Config { return w.cfg }

// OnEvent registers a listener for state changes.
func (w *World) OnEvent(l Listener) {
	if l != nil {
		w.listeners = append(w.listeners, l)
	}
}

// Reset clears all state and seeds the forest at a random cell. A zero seed
// falls back to the configured one. Both cadences re-anchor on the next
// Advance call.
func (w *World) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	if !w.fixedRand {
		w.rand = rng.NewRNG(effective)
	}
	w.seed = effective
	w.fences.Reset()
	w.rails.Reset()
	w.won = false
	w.lost = false
	w.growth.Disarm()
	w.pulse.Disarm()

	start := w.forest.Reset(w.rand)
	variant, _ := w.forest.Claimed(start)
	w.emit(Event{Kind: EventReset, At: w.now, Cell: cellRef(start), Variant: variant, Seed: effective})
	w.evaluate(w.now)
}

// Advance runs every growth and pulse step due up to now, in chronological
// order, each with its scheduled timestamp. The first call after Reset only
// anchors both cadences at now. It returns the number of steps executed.
func (w *World) Advance(now time.Time) int {
	if !w.growth.Armed() || !w.pulse.Armed() {
		w.growth.Arm(now)
		w.pulse.Arm(now)
		w.now = now
		return 0
	}
	// A stall longer than MaxCatchUp steps of either cadence drops the
	// backlog of both and re-anchors them together.
	if w.growth.Behind(now) > core.MaxCatchUp || w.pulse.Behind(now) > core.MaxCatchUp {
		w.growth.Arm(now)
		w.pulse.Arm(now)
		w.now = now
		return 0
	}

	steps := 0
	for {
		gAt, gDue := w.growth.Next(now)
		pAt, pDue := w.pulse.Next(now)
		if !gDue && !pDue {
			break
		}
		if gDue && (!pDue || !pAt.Before(gAt)) {
			w.growth.Fire()
			w.now = gAt
			w.Grow()
		} else {
			w.pulse.Fire()
			w.Pulse(pAt)
		}
		steps++
	}
	if now.After(w.now) {
		w.now = now
	}
	return steps
}

// Grow performs one forest growth step. It does nothing once the game is
// decided or when no frontier cell is reachable.
func (w *World) Grow() bool {
	if w.Decided() {
		return false
	}
	fc, ok := w.forest.GrowOne(w.rand, w.fences.Blocks)
	if !ok {
		return false
	}
	w.emit(Event{Kind: EventForestGrew, At: w.now, Cell: cellRef(fc.Cell), Variant: fc.Variant})
	return true
}

// Pulse runs one fast step: fence promotion and expiry, then train movement,
// then win/lose evaluation.
func (w *World) Pulse(now time.Time) {
	if now.After(w.now) {
		w.now = now
	}
	committed, expired := w.fences.Tick(now)
	for _, seg := range committed {
		w.emit(Event{Kind: EventFenceCommitted, At: now, Segment: segmentRef(seg)})
	}
	for _, seg := range expired {
		w.emit(Event{Kind: EventFenceExpired, At: now, Segment: segmentRef(seg)})
	}

	for _, step := range w.rails.Tick(now, w.isForest) {
		e := Event{At: now, Train: trainRef(step.Train)}
		switch step.Kind {
		case StepMoved:
			e.Kind = EventTrainMoved
		case StepBlocked:
			e.Kind = EventTrainBlocked
		case StepCompleted:
			e.Kind = EventTrainCompleted
			e.Completed = w.rails.Completed()
		}
		w.emit(e)
	}

	w.evaluate(now)
}

func (w *World) evaluate(now time.Time) {
	if !w.won && w.rails.Completed() >= w.cfg.TrainsToWin {
		w.won = true
		w.emit(Event{Kind: EventWon, At: now, Completed: w.rails.Completed()})
	}
	if !w.lost && w.forest.Full() {
		w.lost = true
		w.emit(Event{Kind: EventLost, At: now})
	}
}

func (w *World) isForest(c core.Cell) bool {
	_, ok := w.forest.Claimed(c)
	return ok
}

// PlaceFence asks for a fence segment at cell. Rejected requests return false
// and change nothing.
func (w *World) PlaceFence(cell core.Cell, o core.Orientation, now time.Time) bool {
	if w.Decided() {
		return false
	}
	seg := Segment{Cell: cell, Orientation: o}
	if !w.fences.RequestPlacement(seg, now) {
		return false
	}
	w.emit(Event{Kind: EventFenceRequested, At: now, Segment: segmentRef(seg)})
	return true
}

// PlaceRail lays track at cell. Cells claimed by the forest are refused.
func (w *World) PlaceRail(cell core.Cell, now time.Time) bool {
	if w.Decided() {
		return false
	}
	accepted, spawned := w.rails.Place(cell, w.isForest(cell), now)
	if !accepted {
		return false
	}
	w.emit(Event{Kind: EventRailPlaced, At: now, Cell: cellRef(cell)})
	if spawned != nil {
		w.emit(Event{Kind: EventTrainSpawned, At: now, Train: trainRef(*spawned)})
	}
	return true
}

// Tap places whatever the current build mode selects.
func (w *World) Tap(cell core.Cell, now time.Time) bool {
	if w.mode == ModeFence {
		return w.PlaceFence(cell, w.orientation, now)
	}
	return w.PlaceRail(cell, now)
}

// SetBuildMode selects what Tap places.
func (w *World) SetBuildMode(m BuildMode) { w.mode = m }

// BuildMode reports what Tap places.
func (w *World) BuildMode() BuildMode { return w.mode }

// SetOrientation selects the orientation of fences placed by Tap.
func (w *World) SetOrientation(o core.Orientation) { w.orientation = o }

// ToggleOrientation flips the fence orientation and returns the new value.
func (w *World) ToggleOrientation() core.Orientation {
	w.orientation = w.orientation.Flip()
	return w.orientation
}

// Orientation reports the orientation of fences placed by Tap.
func (w *World) Orientation() core.Orientation { return w.orientation }

// Won reports whether enough trains have completed.
func (w *World) Won() bool { return w.won }

// Lost reports whether the forest covers the whole grid.
func (w *World) Lost() bool { return w.lost }

// Decided reports whether the game is over either way.
func (w *World) Decided() bool { return w.won || w.lost }

// Completed returns how many trains have crossed the board.
func (w *World) Completed() int { return w.rails.Completed() }

// ForestCount returns the number of claimed cells.
func (w *World) ForestCount() int { return w.forest.Count() }

// ForestVariant reports whether cell is forest and its sprite variant.
func (w *World) ForestVariant(cell core.Cell) (int, bool) { return w.forest.Claimed(cell) }

// HasRail reports whether cell carries track.
func (w *World) HasRail(cell core.Cell) bool { return w.rails.HasRail(cell) }

// IsFencePending reports whether a segment is under construction.
func (w *World) IsFencePending(cell core.Cell, o core.Orientation) bool {
	return w.fences.IsPending(Segment{Cell: cell, Orientation: o})
}

// IsFenceActive reports whether a segment is blocking.
func (w *World) IsFenceActive(cell core.Cell, o core.Orientation) bool {
	return w.fences.IsActive(Segment{Cell: cell, Orientation: o})
}

// FenceProgress returns the build progress of a pending segment in [0,1].
func (w *World) FenceProgress(cell core.Cell, o core.Orientation, now time.Time) float64 {
	return w.fences.Progress(Segment{Cell: cell, Orientation: o}, now)
}

// EdgeBlocked reports whether an active fence separates a and b.
func (w *World) EdgeBlocked(a, b core.Cell) bool { return w.fences.Blocks(a, b) }

// Frontier returns a copy of the cells the forest may claim next.
func (w *World) Frontier() []core.Cell {
	return append([]core.Cell(nil), w.forest.Frontier(w.fences.Blocks)...)
}

// Trains returns a copy of the live trains.
func (w *World) Trains() []Train { return w.rails.Trains() }

// Seed returns the seed passed to the last Reset, after the zero fallback.
func (w *World) Seed() int64 { return w.seed }

// Now returns the latest timestamp the world has processed.
func (w *World) Now() time.Time { return w.now }
