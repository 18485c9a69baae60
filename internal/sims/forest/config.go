package forest

import (
	"strconv"
	"time"
)

// Timing holds the fixed intervals of the game.
type Timing struct {
	// GrowthInterval is the slow cadence driving forest growth.
	GrowthInterval time.Duration `yaml:"growth_interval"`
	// PulseInterval is the fast cadence driving fences, trains and win/lose.
	PulseInterval time.Duration `yaml:"pulse_interval"`
	BuildDelay    time.Duration `yaml:"build_delay"`
	FenceLifespan time.Duration `yaml:"fence_lifespan"`
	TransitTime   time.Duration `yaml:"transit_time"`
	RetryInterval time.Duration `yaml:"retry_interval"`
}

// Config controls the board dimensions, rules and timing.
type Config struct {
	Rows int   `yaml:"rows"`
	Cols int   `yaml:"cols"`
	Seed int64 `yaml:"seed"`

	TrainsToWin int `yaml:"trains_to_win"`
	Variants    int `yaml:"variants"`

	Timing Timing `yaml:"timing"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Rows:        10,
		Cols:        18,
		Seed:        1337,
		TrainsToWin: 3,
		Variants:    4,
		Timing: Timing{
			GrowthInterval: 1500 * time.Millisecond,
			PulseInterval:  50 * time.Millisecond,
			BuildDelay:     500 * time.Millisecond,
			FenceLifespan:  10 * time.Second,
			TransitTime:    2 * time.Second,
			RetryInterval:  500 * time.Millisecond,
		},
	}
}

// Sanitize replaces values that would make the game meaningless with safe ones.
func (c Config) Sanitize() Config {
	def := DefaultConfig()
	if c.Rows <= 0 {
		c.Rows = 1
	}
	if c.Cols <= 0 {
		c.Cols = 1
	}
	if c.TrainsToWin <= 0 {
		c.TrainsToWin = def.TrainsToWin
	}
	if c.Variants <= 0 {
		c.Variants = def.Variants
	}
	if c.Variants > maxVariants {
		c.Variants = maxVariants
	}
	t := &c.Timing
	if t.GrowthInterval <= 0 {
		t.GrowthInterval = def.Timing.GrowthInterval
	}
	if t.PulseInterval <= 0 {
		t.PulseInterval = def.Timing.PulseInterval
	}
	if t.BuildDelay < 0 {
		t.BuildDelay = def.Timing.BuildDelay
	}
	if t.FenceLifespan <= 0 {
		t.FenceLifespan = def.Timing.FenceLifespan
	}
	if t.TransitTime <= 0 {
		t.TransitTime = def.Timing.TransitTime
	}
	if t.RetryInterval <= 0 {
		t.RetryInterval = def.Timing.RetryInterval
	}
	return c
}

// Override returns c with the flag-style key/value pairs in cfg applied.
// Durations accept Go duration strings or plain seconds. Unparseable values
// leave the field unchanged.
func (c Config) Override(cfg map[string]string) Config {
	if cfg == nil {
		return c
	}
	if v, ok := cfg["rows"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Rows = parsed
		}
	}
	if v, ok := cfg["cols"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Cols = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["trains_to_win"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.TrainsToWin = parsed
		}
	}
	if v, ok := cfg["variants"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= maxVariants {
			c.Variants = parsed
		}
	}
	durations := map[string]*time.Duration{
		"growth_interval": &c.Timing.GrowthInterval,
		"pulse_interval":  &c.Timing.PulseInterval,
		"build_delay":     &c.Timing.BuildDelay,
		"fence_lifespan":  &c.Timing.FenceLifespan,
		"transit_time":    &c.Timing.TransitTime,
		"retry_interval":  &c.Timing.RetryInterval,
	}
	for key, dst := range durations {
		v, ok := cfg[key]
		if !ok {
			continue
		}
		if parsed, ok := parseDuration(v); ok {
			*dst = parsed
		}
	}
	return c
}

func parseDuration(v string) (time.Duration, bool) {
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d, true
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil && secs > 0 {
		return time.Duration(secs * float64(time.Second)), true
	}
	return 0, false
}
