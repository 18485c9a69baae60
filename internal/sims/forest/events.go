package forest

import (
	"time"

	"forest-rails/internal/core"
)

// EventKind names a state change reported to listeners.
type EventKind string

const (
	EventReset          EventKind = "reset"
	EventForestGrew     EventKind = "forest_grew"
	EventFenceRequested EventKind = "fence_requested"
	EventFenceCommitted EventKind = "fence_committed"
	EventFenceExpired   EventKind = "fence_expired"
	EventRailPlaced     EventKind = "rail_placed"
	EventTrainSpawned   EventKind = "train_spawned"
	EventTrainMoved     EventKind = "train_moved"
	EventTrainBlocked   EventKind = "train_blocked"
	EventTrainCompleted EventKind = "train_completed"
	EventWon            EventKind = "won"
	EventLost           EventKind = "lost"
)

// Event is a change notification. Only the fields relevant to Kind are set.
type Event struct {
	Kind      EventKind  `json:"kind"`
	At        time.Time  `json:"at"`
	Cell      *core.Cell `json:"cell,omitempty"`
	Variant   int        `json:"variant,omitempty"`
	Segment   *Segment   `json:"segment,omitempty"`
	Train     *Train     `json:"train,omitempty"`
	Completed int        `json:"completed,omitempty"`
	Seed      int64      `json:"seed,omitempty"`
}

// Listener receives events synchronously on the goroutine mutating the world.
type Listener func(Event)

func (w *World) emit(e Event) {
	for _, l := range w.listeners {
		l(e)
	}
}

func cellRef(c core.Cell) *core.Cell { return &c }

func segmentRef(s Segment) *Segment { return &s }

func trainRef(t Train) *Train { return &t }
