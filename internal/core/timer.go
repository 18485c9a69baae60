package core

import "time"

// MaxCatchUp bounds how many overdue steps of any one cadence a host replays.
// Past it, hosts drop the backlog of every cadence and re-anchor them all on
// the current time.
const MaxCatchUp = 256

// Cadence schedules a periodic step against caller-supplied timestamps. It
// never reads the wall clock, so hosts can drive it from real or virtual time.
type Cadence struct {
	step time.Duration
	next time.Time
}

// NewCadence constructs a Cadence firing every interval. Non-positive intervals
// fall back to 60 steps per second.
func NewCadence(interval time.Duration) *Cadence {
	c := &Cadence{}
	c.SetInterval(interval)
	return c
}

// SetInterval changes the step length. The next deadline is left untouched.
func (c *Cadence) SetInterval(interval time.Duration) {
	if interval <= 0 {
		interval = time.Second / 60
	}
	c.step = interval
}

// Interval reports the step length.
func (c *Cadence) Interval() time.Duration { return c.step }

// Armed reports whether Arm has been called since the last Disarm.
func (c *Cadence) Armed() bool { return !c.next.IsZero() }

// Arm schedules the first deadline one interval after now.
func (c *Cadence) Arm(now time.Time) { c.next = now.Add(c.step) }

// Disarm clears the schedule; the cadence fires nothing until re-armed.
func (c *Cadence) Disarm() { c.next = time.Time{} }

// Next returns the pending deadline and whether it is due at now.
func (c *Cadence) Next(now time.Time) (time.Time, bool) {
	if c.next.IsZero() {
		return time.Time{}, false
	}
	return c.next, !now.Before(c.next)
}

// Fire consumes the pending deadline and schedules the following one.
func (c *Cadence) Fire() {
	if c.next.IsZero() {
		return
	}
	c.next = c.next.Add(c.step)
}

// Behind reports how many deadlines are due at now.
func (c *Cadence) Behind(now time.Time) int {
	if c.next.IsZero() || now.Before(c.next) {
		return 0
	}
	return int(now.Sub(c.next)/c.step) + 1
}
