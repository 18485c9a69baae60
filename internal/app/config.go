package app

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"forest-rails/internal/sims/forest"
)

// Config represents the command-line parameters shared by the binaries.
type Config struct {
	ConfigPath  string
	Rows        int
	Cols        int
	Seed        int64
	ProfilePath string
	EventDir    string
	Overrides   Overrides

	Scale    int
	TPS      int
	HUDWidth int
}

// NewConfig returns a Config populated with sensible defaults. Zero rows,
// cols and seed defer to the world config.
func NewConfig() *Config {
	return &Config{ProfilePath: DefaultProfilePath(), Scale: 32, TPS: 60, HUDWidth: 240}
}

// BindWorld attaches the world and storage flags to fs.
func (c *Config) BindWorld(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "YAML world config")
	fs.IntVar(&c.Rows, "rows", c.Rows, "grid rows (overrides config)")
	fs.IntVar(&c.Cols, "cols", c.Cols, "grid columns (overrides config)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset (overrides config)")
	fs.StringVar(&c.ProfilePath, "db", c.ProfilePath, "profile database, empty to run without one")
	fs.StringVar(&c.EventDir, "events", c.EventDir, "directory for event logs, empty to disable")
	if c.Overrides == nil {
		c.Overrides = Overrides{}
	}
	fs.Var(c.Overrides, "set", "world config override key=value (repeatable)")
}

// Bind attaches every flag, including the window ones, to fs.
func (c *Config) Bind(fs *flag.FlagSet) {
	c.BindWorld(fs)
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixels per cell")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "side panel width in pixels, 0 to hide")
}

// WorldConfig loads the YAML file when one is set and applies the flag
// overrides on top.
func (c *Config) WorldConfig() (forest.Config, error) {
	cfg := forest.DefaultConfig()
	if c.ConfigPath != "" {
		loaded, err := forest.LoadConfig(c.ConfigPath)
		if err != nil {
			return forest.Config{}, fmt.Errorf("world config: %w", err)
		}
		cfg = loaded
	}
	pairs := make(map[string]string, len(c.Overrides)+3)
	for k, v := range c.Overrides {
		pairs[k] = v
	}
	if c.Rows > 0 {
		pairs["rows"] = strconv.Itoa(c.Rows)
	}
	if c.Cols > 0 {
		pairs["cols"] = strconv.Itoa(c.Cols)
	}
	if c.Seed != 0 {
		pairs["seed"] = strconv.FormatInt(c.Seed, 10)
	}
	cfg = cfg.Override(pairs)
	return cfg.Sanitize(), nil
}

// Overrides collects repeated -set key=value flags.
type Overrides map[string]string

func (o Overrides) String() string {
	parts := make([]string, 0, len(o))
	for k, v := range o {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

// Set records one key=value pair.
func (o Overrides) Set(v string) error {
	key, val, ok := strings.Cut(v, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("want key=value, got %q", v)
	}
	o[key] = strings.TrimSpace(val)
	return nil
}

// DefaultProfilePath places the profile under the user config directory.
func DefaultProfilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "forest-rails.db"
	}
	return filepath.Join(dir, "forest-rails", "profile.db")
}
