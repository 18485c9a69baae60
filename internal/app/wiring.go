package app

import (
	"errors"
	"fmt"
	"log"
	"time"

	"forest-rails/internal/persistence/eventlog"
	"forest-rails/internal/profile"
	"forest-rails/internal/sims/forest"
)

// Host bundles what every binary opens around a world. Profile and Events
// are nil when disabled by flags.
type Host struct {
	World   *forest.World
	Profile *profile.Profile
	Events  *eventlog.Writer
}

// Open builds the world from c, resets it, and opens the optional profile
// and event log. The event log is attached before the reset so it starts
// with the reset event.
func (c *Config) Open(logger *log.Logger, started time.Time) (*Host, error) {
	cfg, err := c.WorldConfig()
	if err != nil {
		return nil, err
	}
	h := &Host{World: forest.NewWithConfig(cfg)}

	if c.ProfilePath != "" {
		h.Profile, err = profile.OpenProfile(c.ProfilePath)
		if err != nil {
			return nil, err
		}
	}
	if c.EventDir != "" {
		path := eventlog.PathFor(c.EventDir, started)
		h.Events, err = eventlog.Create(path)
		if err != nil {
			_ = h.Profile.Close()
			return nil, fmt.Errorf("event log: %w", err)
		}
		h.World.OnEvent(h.Events.Listener())
		logger.Printf("logging events to %s", path)
	}
	h.World.Reset(cfg.Seed)
	logger.Printf("world %dx%d seed=%d trains_to_win=%d", cfg.Rows, cfg.Cols, h.World.Seed(), cfg.TrainsToWin)
	return h, nil
}

// Close flushes the event log and closes the profile.
func (h *Host) Close() error {
	var errs []error
	if h.Events != nil {
		if err := h.Events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("event log: %w", err))
		}
	}
	if err := h.Profile.Close(); err != nil {
		errs = append(errs, fmt.Errorf("profile: %w", err))
	}
	return errors.Join(errs...)
}
