package forest

import (
	"time"

	"forest-rails/internal/core"
)

// PendingView is a pending fence together with its build progress.
type PendingView struct {
	PendingFence
	Progress float64 `json:"progress"`
}

// Snapshot is a self-contained copy of the world state. Mutating it does not
// affect the world.
type Snapshot struct {
	At          time.Time        `json:"at"`
	Seed        int64            `json:"seed"`
	Rows        int              `json:"rows"`
	Cols        int              `json:"cols"`
	Forest      []ForestCell     `json:"forest"`
	Rails       []core.Cell      `json:"rails"`
	Pending     []PendingView    `json:"pending_fences"`
	Active      []ActiveFence    `json:"active_fences"`
	Trains      []Train          `json:"trains"`
	Completed   int              `json:"trains_completed"`
	TrainsToWin int              `json:"trains_to_win"`
	Won         bool             `json:"won"`
	Lost        bool             `json:"lost"`
	Mode        BuildMode        `json:"build_mode"`
	Orientation core.Orientation `json:"fence_orientation"`
}

// Snapshot captures the current state; now is used for fence build progress.
func (w *World) Snapshot(now time.Time) Snapshot {
	pending := w.fences.Pending()
	views := make([]PendingView, len(pending))
	for i, p := range pending {
		views[i] = PendingView{PendingFence: p, Progress: w.fences.Progress(p.Segment, now)}
	}
	return Snapshot{
		At:          now,
		Seed:        w.seed,
		Rows:        w.size.Rows,
		Cols:        w.size.Cols,
		Forest:      w.forest.Cells(),
		Rails:       w.rails.Cells(),
		Pending:     views,
		Active:      w.fences.Active(),
		Trains:      w.rails.Trains(),
		Completed:   w.rails.Completed(),
		TrainsToWin: w.cfg.TrainsToWin,
		Won:         w.won,
		Lost:        w.lost,
		Mode:        w.mode,
		Orientation: w.orientation,
	}
}
