package forest

import (
	"reflect"
	"testing"
	"time"

	"forest-rails/internal/core"
)

// quietConfig returns a config whose forest never grows on its own, so tests
// can drive Pulse without interference.
func quietConfig(rows, cols int) Config {
	cfg := DefaultConfig()
	cfg.Rows = rows
	cfg.Cols = cols
	cfg.Timing.GrowthInterval = 24 * time.Hour
	return cfg
}

// newCornerWorld seeds the forest at the bottom-right cell.
func newCornerWorld(cfg Config) *World {
	w := NewWithConfig(cfg, WithRand(&scriptedRand{vals: []int{cfg.Rows*cfg.Cols - 1, 0}}))
	w.Reset(1)
	return w
}

func TestSingleCellGridIsLostImmediately(t *testing.T) {
	w := New(1, 1)
	w.Reset(5)
	if !w.Lost() {
		t.Fatal("1x1 grid seeded with forest must be lost")
	}
	if w.Won() {
		t.Fatal("1x1 grid must not be won")
	}
	if w.PlaceRail(core.Cell{}, epoch) {
		t.Fatal("placement accepted after the game was decided")
	}
}

func TestWinAfterThreeTrains(t *testing.T) {
	cfg := quietConfig(3, 4)
	w := newCornerWorld(cfg)
	var events []EventKind
	w.OnEvent(func(e Event) { events = append(events, e.Kind) })

	now := at(0)
	for round := 1; round <= 3; round++ {
		for col := 0; col < cfg.Cols; col++ {
			if !w.PlaceRail(core.Cell{Row: 0, Col: col}, now) {
				t.Fatalf("round %d: rail at (0,%d) rejected", round, col)
			}
		}
		if len(w.Trains()) != 1 {
			t.Fatalf("round %d: expected one live train, got %d", round, len(w.Trains()))
		}
		deadline := now.Add(time.Duration(cfg.Cols-1) * cfg.Timing.TransitTime)
		for ; !now.After(deadline); now = now.Add(cfg.Timing.PulseInterval) {
			w.Pulse(now)
		}
		if w.Completed() != round {
			t.Fatalf("round %d: completed=%d", round, w.Completed())
		}
		if round < 3 && w.Won() {
			t.Fatalf("won after %d trains", round)
		}
	}
	if !w.Won() {
		t.Fatal("three completed trains must win")
	}
	if events[len(events)-1] != EventWon || events[len(events)-2] != EventTrainCompleted {
		t.Fatalf("win must be evaluated after the completing move, tail=%v", events[len(events)-2:])
	}

	before := w.Snapshot(now)
	if w.PlaceRail(core.Cell{Row: 1, Col: 0}, now) || w.PlaceFence(core.Cell{Row: 1, Col: 0}, core.Vertical, now) {
		t.Fatal("placements accepted after the win")
	}
	if w.Grow() {
		t.Fatal("forest grew after the win")
	}
	if !reflect.DeepEqual(before, w.Snapshot(now)) {
		t.Fatal("rejected actions changed the world")
	}
}

func TestRejectedActionsLeaveStateUnchanged(t *testing.T) {
	cfg := quietConfig(3, 3)
	w := newCornerWorld(cfg)
	now := at(0)
	w.PlaceFence(core.Cell{Row: 0, Col: 0}, core.Vertical, now)
	w.PlaceRail(core.Cell{Row: 1, Col: 1}, now)
	before := w.Snapshot(now)

	rejected := []struct {
		name string
		do   func() bool
	}{
		{"rail on forest", func() bool { return w.PlaceRail(core.Cell{Row: 2, Col: 2}, now) }},
		{"rail outside", func() bool { return w.PlaceRail(core.Cell{Row: 9, Col: 9}, now) }},
		{"duplicate pending fence", func() bool { return w.PlaceFence(core.Cell{Row: 0, Col: 0}, core.Vertical, now) }},
		{"fence outside", func() bool { return w.PlaceFence(core.Cell{Row: -1, Col: 0}, core.Vertical, now) }},
	}
	for _, tc := range rejected {
		if tc.do() {
			t.Fatalf("%s: accepted", tc.name)
		}
		if !reflect.DeepEqual(before, w.Snapshot(now)) {
			t.Fatalf("%s: state changed", tc.name)
		}
	}
}

func TestFenceCommitsBeforeTrainsMoveWithinPulse(t *testing.T) {
	cfg := quietConfig(2, 3)
	w := newCornerWorld(cfg)
	var kinds []EventKind
	w.OnEvent(func(e Event) { kinds = append(kinds, e.Kind) })

	w.PlaceFence(core.Cell{Row: 0, Col: 0}, core.Horizontal, at(0))
	for col := 0; col < cfg.Cols; col++ {
		w.PlaceRail(core.Cell{Row: 0, Col: col}, at(500*time.Millisecond))
	}
	kinds = kinds[:0]
	w.Pulse(at(500 * time.Millisecond))

	want := []EventKind{EventFenceCommitted, EventTrainMoved}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("pulse events %v, want %v", kinds, want)
	}
}

func TestForestOvergrowsTrack(t *testing.T) {
	cfg := quietConfig(1, 3)
	w := NewWithConfig(cfg, WithRand(&scriptedRand{vals: []int{2, 0, 0, 0}}))
	w.Reset(1) // seed at (0,2)
	if !w.PlaceRail(core.Cell{Row: 0, Col: 0}, at(0)) || !w.PlaceRail(core.Cell{Row: 0, Col: 1}, at(0)) {
		t.Fatal("rail rejected on empty cells")
	}
	if w.PlaceRail(core.Cell{Row: 0, Col: 2}, at(0)) {
		t.Fatal("rail accepted on the forest seed")
	}
	if len(w.Trains()) != 0 {
		t.Fatal("incomplete row spawned a train")
	}

	// The only frontier cell is (0,1).
	if !w.Grow() {
		t.Fatal("forest did not grow")
	}
	if _, ok := w.ForestVariant(core.Cell{Row: 0, Col: 1}); !ok {
		t.Fatal("forest should have claimed the track cell (0,1)")
	}
	if !w.HasRail(core.Cell{Row: 0, Col: 1}) {
		t.Fatal("track under the forest must stay recorded")
	}
	forest, _, rail := DecodeDisplayValue(w.Cells()[1])
	if !forest || !rail {
		t.Fatalf("display byte for (0,1) forest=%v rail=%v", forest, rail)
	}
}

// Forest never retreats, so a train whose next cell is claimed retries
// forever. This scenario never resolves.
func TestBlockedTrainNeverResolvesOnceNextCellIsForest(t *testing.T) {
	cfg := quietConfig(2, 3)
	// Seed at (1,1), directly below the rail row's middle cell.
	w := NewWithConfig(cfg, WithRand(&scriptedRand{vals: []int{4, 0, 0, 0}}))
	w.Reset(1)
	for col := 0; col < cfg.Cols; col++ {
		if !w.PlaceRail(core.Cell{Row: 0, Col: col}, at(0)) {
			t.Fatalf("rail at (0,%d) rejected", col)
		}
	}
	// Claim (0,1) before the train moves: frontier of (1,1) is up, left, right.
	if !w.Grow() {
		t.Fatal("forest did not grow")
	}
	if _, ok := w.ForestVariant(core.Cell{Row: 0, Col: 1}); !ok {
		t.Fatal("scripted growth should claim (0,1)")
	}

	blocked := 0
	for now := time.Duration(0); now <= 60*time.Second; now += cfg.Timing.PulseInterval {
		for _, tr := range w.Trains() {
			if tr.Col != 0 {
				t.Fatalf("train advanced onto forest at %v", now)
			}
		}
		w.Pulse(at(now))
	}
	w.OnEvent(func(e Event) {
		if e.Kind == EventTrainBlocked {
			blocked++
		}
	})
	w.Pulse(at(61 * time.Second))
	w.Pulse(at(62 * time.Second))
	if blocked != 2 {
		t.Fatalf("train should keep retrying, saw %d blocked retries", blocked)
	}
	if w.Completed() != 0 || len(w.Trains()) != 1 {
		t.Fatalf("stalled train resolved: completed=%d live=%d", w.Completed(), len(w.Trains()))
	}
}

func TestAdvanceRunsCadencesInOrder(t *testing.T) {
	cfg := DefaultConfig()
	w := NewWithConfig(cfg)
	w.Reset(42)
	var grew int
	w.OnEvent(func(e Event) {
		if e.Kind == EventForestGrew {
			grew++
		}
	})

	if steps := w.Advance(at(0)); steps != 0 {
		t.Fatalf("first Advance should only anchor, ran %d steps", steps)
	}
	steps := w.Advance(at(3 * time.Second))
	if grew != 2 {
		t.Fatalf("3s at 1.5s growth cadence grew %d cells, want 2", grew)
	}
	if w.ForestCount() != 3 {
		t.Fatalf("forest count %d, want 3", w.ForestCount())
	}
	if steps != 2+60 {
		t.Fatalf("expected 62 steps (2 growth + 60 pulse), got %d", steps)
	}
	if !w.Now().Equal(at(3 * time.Second)) {
		t.Fatalf("world clock at %v", w.Now())
	}

	w.Advance(at(24 * time.Hour))
	if grew != 2 {
		t.Fatalf("catch-up replayed %d growth steps", grew-2)
	}
}

func TestStallDropsBothBacklogs(t *testing.T) {
	w := NewWithConfig(DefaultConfig())
	w.Reset(42)
	var grew int
	w.OnEvent(func(e Event) {
		if e.Kind == EventForestGrew {
			grew++
		}
	})
	w.Advance(at(0))
	w.Advance(at(3 * time.Second))

	// 20s is 400 pulses but only 13 growths behind.
	if steps := w.Advance(at(23 * time.Second)); steps != 0 {
		t.Fatalf("stall replayed %d steps", steps)
	}
	if grew != 2 {
		t.Fatalf("stall replayed %d growth steps without their pulses", grew-2)
	}
	if !w.Now().Equal(at(23 * time.Second)) {
		t.Fatalf("world clock at %v", w.Now())
	}

	steps := w.Advance(at(24*time.Second + 500*time.Millisecond))
	if grew != 3 || steps != 1+30 {
		t.Fatalf("after re-anchor: grew %d, steps %d; want 3 and 31", grew, steps)
	}
}

func TestFenceShieldsFrontier(t *testing.T) {
	cfg := quietConfig(1, 2)
	w := NewWithConfig(cfg, WithRand(&scriptedRand{vals: []int{0, 0}}))
	w.Reset(1) // seed at (0,0)
	w.SetBuildMode(ModeFence)
	w.SetOrientation(core.Vertical)
	if !w.Tap(core.Cell{Row: 0, Col: 0}, at(0)) {
		t.Fatal("fence tap rejected")
	}
	if !w.IsFencePending(core.Cell{Row: 0, Col: 0}, core.Vertical) {
		t.Fatal("fence not pending")
	}
	if len(w.Frontier()) != 1 {
		t.Fatal("pending fence must not shield the frontier")
	}
	w.Pulse(at(500 * time.Millisecond))
	if !w.IsFenceActive(core.Cell{Row: 0, Col: 0}, core.Vertical) {
		t.Fatal("fence not active after build delay")
	}
	if w.Grow() {
		t.Fatal("forest grew through an active fence")
	}
	w.Pulse(at(10*time.Second + 500*time.Millisecond))
	if !w.Grow() {
		t.Fatal("forest did not grow after the fence expired")
	}
	w.Pulse(at(11 * time.Second))
	if !w.Lost() {
		t.Fatal("full forest must lose")
	}
}

func TestBuildModeToggles(t *testing.T) {
	w := New(3, 3)
	w.Reset(1)
	if w.BuildMode() != ModeRail || w.Orientation() != core.Horizontal {
		t.Fatalf("defaults mode=%v orientation=%v", w.BuildMode(), w.Orientation())
	}
	if got := w.ToggleOrientation(); got != core.Vertical {
		t.Fatalf("toggle gave %v", got)
	}
	if m, ok := ParseBuildMode("Fence"); !ok || m != ModeFence {
		t.Fatalf("ParseBuildMode(Fence)=(%v,%v)", m, ok)
	}
	if ModeRail.Toggle() != ModeFence || ModeFence.Toggle() != ModeRail {
		t.Fatal("Toggle does not alternate")
	}
}
