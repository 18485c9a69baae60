package forest

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"forest-rails/internal/core"
)

// Train rides a complete rail row from column 0 to the right edge.
type Train struct {
	ID         string    `json:"id"`
	Row        int       `json:"row"`
	Col        int       `json:"col"`
	NextMoveAt time.Time `json:"next_move_at"`
}

// TrainStep describes what a train did during one Rails.Tick.
type TrainStep struct {
	Train Train
	Kind  StepKind
}

// StepKind classifies a TrainStep.
type StepKind uint8

const (
	StepMoved StepKind = iota + 1
	StepBlocked
	StepCompleted
)

// Rails stores placed track and the live trains running on it.
type Rails struct {
	size    core.Size
	transit time.Duration
	retry   time.Duration

	track     []bool
	trains    []Train
	completed int
	steps     []TrainStep
}

// NewRails returns an empty rail network for the grid.
func NewRails(size core.Size, transit, retry time.Duration) *Rails {
	return &Rails{
		size:    size,
		transit: transit,
		retry:   retry,
		track:   make([]bool, size.Area()),
	}
}

// Reset removes all track and trains and zeroes the completion counter.
func (r *Rails) Reset() {
	clear(r.track)
	r.trains = r.trains[:0]
	r.completed = 0
}

// Place marks c as track unless it lies outside the grid or onForest reports
// it as claimed. Placing on existing track is accepted and changes nothing.
// When the placement completes the row and no live train is on it, a train is
// spawned at column 0 and returned.
func (r *Rails) Place(c core.Cell, onForest bool, now time.Time) (accepted bool, spawned *Train) {
	if !r.size.Contains(c) || onForest {
		return false, nil
	}
	r.track[r.size.Index(c)] = true
	if !r.rowReady(c.Row) || r.rowOccupied(c.Row) {
		return true, nil
	}
	t := Train{ID: uuid.NewString(), Row: c.Row, Col: 0, NextMoveAt: now}
	r.trains = append(r.trains, t)
	return true, &t
}

// HasRail reports whether c is track.
func (r *Rails) HasRail(c core.Cell) bool {
	return r.size.Contains(c) && r.track[r.size.Index(c)]
}

func (r *Rails) rowReady(row int) bool {
	for col := 0; col < r.size.Cols; col++ {
		if !r.track[r.size.Index(core.Cell{Row: row, Col: col})] {
			return false
		}
	}
	return true
}

func (r *Rails) rowOccupied(row int) bool {
	for _, t := range r.trains {
		if t.Row == row {
			return true
		}
	}
	return false
}

// Tick advances every train whose next move time has passed. A train on the
// last column leaves and counts as completed. Otherwise it moves one column
// right when that cell is track and not forest, or waits the retry interval.
// The returned slice is reused by the next call.
func (r *Rails) Tick(now time.Time, isForest func(core.Cell) bool) []TrainStep {
	r.steps = r.steps[:0]
	keep := r.trains[:0]
	for _, t := range r.trains {
		if now.Before(t.NextMoveAt) {
			keep = append(keep, t)
			continue
		}
		if t.Col >= r.size.Cols-1 {
			r.completed++
			r.steps = append(r.steps, TrainStep{Train: t, Kind: StepCompleted})
			continue
		}
		next := core.Cell{Row: t.Row, Col: t.Col + 1}
		if r.HasRail(next) && (isForest == nil || !isForest(next)) {
			t.Col = next.Col
			t.NextMoveAt = now.Add(r.transit)
			r.steps = append(r.steps, TrainStep{Train: t, Kind: StepMoved})
		} else {
			t.NextMoveAt = now.Add(r.retry)
			r.steps = append(r.steps, TrainStep{Train: t, Kind: StepBlocked})
		}
		keep = append(keep, t)
	}
	clear(r.trains[len(keep):])
	r.trains = keep
	return r.steps
}

// Trains returns a copy of the live trains in spawn order.
func (r *Rails) Trains() []Train { return slices.Clone(r.trains) }

// Completed returns how many trains have left the board.
func (r *Rails) Completed() int { return r.completed }

// Cells returns the track cells in row-major order.
func (r *Rails) Cells() []core.Cell {
	var out []core.Cell
	for idx, ok := range r.track {
		if ok {
			out = append(out, r.size.CellAt(idx))
		}
	}
	return out
}
