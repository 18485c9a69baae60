package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"forest-rails/internal/core"
	"forest-rails/internal/persistence/snapshot"
	"forest-rails/internal/profile"
	"forest-rails/internal/sims/forest"
)

// Epoch is where the virtual clock starts.
var Epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

const maxWait = time.Hour

// Session executes console commands against one World. The world only sees
// the session's virtual clock, so replays of the same commands are
// deterministic for a given seed.
type Session struct {
	world   *forest.World
	profile *profile.Profile
	out     io.Writer
	logger  *log.Logger

	clock   time.Time
	pending []forest.Event
	done    bool
}

// NewSession wires a session to w. prof may be nil, in which case the coin,
// shop and achievement commands report that no profile is open.
func NewSession(w *forest.World, prof *profile.Profile, out io.Writer, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Session{world: w, profile: prof, out: out, logger: logger, clock: Epoch}
	w.OnEvent(s.collect)
	w.Advance(s.clock)
	return s
}

func (s *Session) collect(e forest.Event) { s.pending = append(s.pending, e) }

// Now reports the virtual clock.
func (s *Session) Now() time.Time { return s.clock }

// Done reports whether quit was executed.
func (s *Session) Done() bool { return s.done }

// Run reads commands from in until EOF, quit or ctx is cancelled. Command
// errors are printed and do not stop the loop.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	s.prompt()
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			if err := s.Execute(ctx, line); err != nil {
				s.printf("error: %v\n", err)
			}
		}
		if s.done {
			return nil
		}
		s.prompt()
	}
	return sc.Err()
}

func (s *Session) prompt() { s.printf("> ") }

func (s *Session) printf(format string, args ...any) { fmt.Fprintf(s.out, format, args...) }

// Execute parses and runs one command line.
func (s *Session) Execute(ctx context.Context, line string) error {
	cmd, err := Parse(line)
	if err != nil {
		if errors.Is(err, ErrUnknownCommand) {
			if f := strings.Fields(line); len(f) > 0 {
				if hint := Suggest(f[0]); hint != "" {
					return fmt.Errorf("%w (did you mean %q?)", err, hint)
				}
			}
		}
		return err
	}
	if cmd.Fuzzy {
		s.printf("(%s)\n", cmd.Verb)
	}
	err = s.dispatch(ctx, cmd)
	s.flushEvents()
	return err
}

func (s *Session) dispatch(ctx context.Context, cmd Command) error {
	switch cmd.Verb {
	case "rail", "tap":
		cell, err := cellArgs(cmd)
		if err != nil {
			return err
		}
		if cmd.Verb == "rail" {
			s.report(s.world.PlaceRail(cell, s.clock), "rail", cell)
			break
		}
		what := "rail"
		if s.world.BuildMode() == forest.ModeFence {
			what = "fence " + s.world.Orientation().String()
		}
		s.report(s.world.Tap(cell, s.clock), what, cell)
	case "line":
		row, err := intArg(cmd, 0, "ROW")
		if err != nil {
			return err
		}
		placed := 0
		for col := 0; col < s.world.Size().Cols; col++ {
			if s.world.PlaceRail(core.Cell{Row: row, Col: col}, s.clock) {
				placed++
			}
		}
		s.printf("track on %d/%d cells of row %d\n", placed, s.world.Size().Cols, row)
	case "fence":
		cell, err := cellArgs(cmd)
		if err != nil {
			return err
		}
		o := s.world.Orientation()
		if len(cmd.Args) == 3 {
			parsed, ok := core.ParseOrientation(cmd.Args[2])
			if !ok {
				return fmt.Errorf("%w: orientation must be h or v", ErrUsage)
			}
			o = parsed
		}
		s.report(s.world.PlaceFence(cell, o, s.clock), "fence "+o.String(), cell)
	case "mode":
		if len(cmd.Args) == 1 {
			m, ok := forest.ParseBuildMode(cmd.Args[0])
			if !ok {
				return fmt.Errorf("%w: mode must be rail or fence", ErrUsage)
			}
			s.world.SetBuildMode(m)
		}
		s.printf("mode %s, fences %s\n", s.world.BuildMode(), s.world.Orientation())
	case "rotate":
		s.printf("fences %s\n", s.world.ToggleOrientation())
	case "wait":
		secs, err := strconv.ParseFloat(cmd.Args[0], 64)
		if err != nil || secs <= 0 {
			return fmt.Errorf("%w: SECONDS must be a positive number", ErrUsage)
		}
		d := time.Duration(math.Round(secs * float64(time.Second)))
		if d > maxWait {
			return fmt.Errorf("%w: wait at most %s", ErrUsage, maxWait)
		}
		s.wait(d)
	case "grow":
		if !s.world.Grow() {
			s.printf("forest did not grow\n")
		}
	case "status":
		s.status()
	case "map":
		s.printf("%s", RenderMap(s.world.Snapshot(s.clock)))
	case "params":
		for _, g := range s.world.Parameters().Groups {
			s.printf("%s\n", g.Name)
			for _, p := range g.Params {
				s.printf("  %-20s %s\n", p.Label, p.Value)
			}
		}
	case "reset":
		var seed int64
		if len(cmd.Args) == 1 {
			v, err := strconv.ParseInt(cmd.Args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("%w: SEED must be an integer", ErrUsage)
			}
			seed = v
		}
		s.world.Reset(seed)
		s.world.Advance(s.clock)
		s.logger.Printf("reset seed=%d", s.world.Seed())
	case "save":
		if err := snapshot.Write(cmd.Args[0], s.world.Snapshot(s.clock)); err != nil {
			return fmt.Errorf("save %s: %w", cmd.Args[0], err)
		}
		s.printf("saved %s\n", cmd.Args[0])
	case "coins", "shop", "buy", "achievements", "claim", "settings":
		return s.profileCommand(ctx, cmd)
	case "help":
		s.printf("%s", helpText())
	case "quit":
		s.done = true
	}
	return nil
}

// wait advances the clock one pulse at a time so no step is dropped as
// backlog.
func (s *Session) wait(d time.Duration) {
	step := s.world.Config().Timing.PulseInterval
	end := s.clock.Add(d)
	for s.clock.Before(end) {
		next := s.clock.Add(step)
		if next.After(end) {
			next = end
		}
		s.clock = next
		s.world.Advance(s.clock)
	}
}

func (s *Session) report(ok bool, what string, c core.Cell) {
	if ok {
		s.printf("%s at (%d,%d)\n", what, c.Row, c.Col)
		return
	}
	s.printf("%s at (%d,%d) rejected\n", what, c.Row, c.Col)
}

func (s *Session) status() {
	snap := s.world.Snapshot(s.clock)
	area := snap.Rows * snap.Cols
	s.printf("t=%s seed=%d\n", s.clock.Sub(Epoch).Round(time.Millisecond), snap.Seed)
	s.printf("forest %d/%d  trains %d/%d  live %d\n", len(snap.Forest), area, snap.Completed, snap.TrainsToWin, len(snap.Trains))
	s.printf("mode %s, fences %s\n", snap.Mode, snap.Orientation)
	for _, p := range snap.Pending {
		s.printf("  building %s at (%d,%d) %3.0f%%\n", p.Segment.Orientation, p.Segment.Cell.Row, p.Segment.Cell.Col, p.Progress*100)
	}
	for _, a := range snap.Active {
		s.printf("  fence %s at (%d,%d) for %s\n", a.Segment.Orientation, a.Segment.Cell.Row, a.Segment.Cell.Col, a.ExpiresAt.Sub(s.clock).Round(100*time.Millisecond))
	}
	switch {
	case snap.Won:
		s.printf("won\n")
	case snap.Lost:
		s.printf("lost\n")
	}
}

// flushEvents prints the notable events raised by the last command.
func (s *Session) flushEvents() {
	grew := 0
	for _, e := range s.pending {
		switch e.Kind {
		case forest.EventForestGrew:
			grew++
		case forest.EventFenceCommitted:
			s.printf("fence up at (%d,%d)\n", e.Segment.Cell.Row, e.Segment.Cell.Col)
		case forest.EventFenceExpired:
			s.printf("fence down at (%d,%d)\n", e.Segment.Cell.Row, e.Segment.Cell.Col)
		case forest.EventTrainSpawned:
			s.printf("train departs on row %d\n", e.Train.Row)
		case forest.EventTrainCompleted:
			s.printf("train arrived on row %d (%d/%d)\n", e.Train.Row, e.Completed, s.world.Config().TrainsToWin)
		case forest.EventReset:
			s.printf("new round, forest starts at (%d,%d)\n", e.Cell.Row, e.Cell.Col)
		case forest.EventWon:
			s.printf("you win!\n")
			s.logger.Printf("round won seed=%d at=%s", s.world.Seed(), e.At.Sub(Epoch))
		case forest.EventLost:
			s.printf("the forest took the board\n")
			s.logger.Printf("round lost seed=%d at=%s", s.world.Seed(), e.At.Sub(Epoch))
		}
	}
	if grew > 0 {
		s.printf("forest grew by %d (%d cells)\n", grew, s.world.ForestCount())
	}
	s.pending = s.pending[:0]
}

func (s *Session) profileCommand(ctx context.Context, cmd Command) error {
	if s.profile == nil {
		return errors.New("no profile open")
	}
	p := s.profile
	switch cmd.Verb {
	case "coins":
		bal, err := p.Ledger.Balance(ctx)
		if err != nil {
			return err
		}
		s.printf("%d coins\n", bal)
	case "shop":
		cats := []profile.Category{profile.CategoryBackground, profile.CategorySkin}
		if len(cmd.Args) == 1 {
			c, ok := profile.ParseCategory(cmd.Args[0])
			if !ok {
				return fmt.Errorf("%w: category must be background or skin", ErrUsage)
			}
			cats = []profile.Category{c}
		}
		for _, c := range cats {
			s.printf("%s\n", c)
			for _, it := range p.Shop.Items(c) {
				owned, err := p.Shop.IsPurchased(ctx, it)
				if err != nil {
					return err
				}
				current, err := p.Shop.IsCurrent(ctx, it)
				if err != nil {
					return err
				}
				state := fmt.Sprintf("%d coins", it.Price)
				switch {
				case current:
					state = "selected"
				case owned:
					state = "owned"
				}
				s.printf("  %-8s %s\n", it.Name, state)
			}
		}
	case "buy":
		it, err := p.Shop.SelectOrBuy(ctx, cmd.Args[0])
		if err != nil {
			return err
		}
		s.printf("%s selected\n", it.Name)
	case "achievements":
		list, err := p.Achievements.List(ctx)
		if err != nil {
			return err
		}
		for _, a := range list {
			mark := " "
			if a.Achieved {
				mark = "x"
			}
			s.printf("  [%s] %d %s\n", mark, a.ID, a.Title)
		}
	case "claim":
		id, err := intArg(cmd, 0, "ID")
		if err != nil {
			return err
		}
		claimed, err := p.Achievements.Claim(ctx, id)
		if err != nil {
			return err
		}
		if !claimed {
			s.printf("achievement %d already claimed\n", id)
			return nil
		}
		s.printf("claimed achievement %d, +%d coins\n", id, profile.AchievementReward)
	case "settings":
		var (
			prefs profile.Preferences
			err   error
		)
		switch {
		case len(cmd.Args) == 0:
			prefs, err = p.Settings.Load(ctx)
		case strings.EqualFold(cmd.Args[0], "sound"):
			prefs, err = p.Settings.ToggleSound(ctx)
		case strings.EqualFold(cmd.Args[0], "volume"):
			prefs, err = p.Settings.ToggleVolume(ctx)
		default:
			return fmt.Errorf("%w: settings [sound|volume]", ErrUsage)
		}
		if err != nil {
			return err
		}
		s.printf("sound %s, volume %s\n", onOff(prefs.Sound), onOff(prefs.Volume))
	}
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func cellArgs(cmd Command) (core.Cell, error) {
	row, err := intArg(cmd, 0, "ROW")
	if err != nil {
		return core.Cell{}, err
	}
	col, err := intArg(cmd, 1, "COL")
	if err != nil {
		return core.Cell{}, err
	}
	return core.Cell{Row: row, Col: col}, nil
}
