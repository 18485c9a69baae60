package app

import (
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"forest-rails/internal/persistence/eventlog"
	"forest-rails/internal/sims/forest"
)

func TestBindParsesFlags(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("rails", flag.ContinueOnError)
	cfg.Bind(fs)
	if err := fs.Parse([]string{"-rows", "4", "-seed", "9", "-scale", "16", "-db", ""}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Rows != 4 || cfg.Seed != 9 || cfg.Scale != 16 || cfg.ProfilePath != "" || cfg.TPS != 60 {
		t.Fatalf("config %+v", cfg)
	}
}

func TestBindWorldOmitsWindowFlags(t *testing.T) {
	fs := flag.NewFlagSet("console", flag.ContinueOnError)
	NewConfig().BindWorld(fs)
	if fs.Lookup("scale") != nil || fs.Lookup("tps") != nil {
		t.Fatal("window flags bound for a headless binary")
	}
	if fs.Lookup("config") == nil || fs.Lookup("events") == nil {
		t.Fatal("world flags missing")
	}
}

func TestWorldConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rails.yaml")
	doc := "rows: 6\ncols: 7\nseed: 5\ntiming:\n  growth_interval: 3s\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	c := &Config{ConfigPath: path, Cols: 12}
	cfg, err := c.WorldConfig()
	if err != nil {
		t.Fatalf("WorldConfig: %v", err)
	}
	if cfg.Rows != 6 || cfg.Cols != 12 || cfg.Seed != 5 || cfg.Timing.GrowthInterval != 3*time.Second {
		t.Fatalf("config %+v", cfg)
	}

	def, err := (&Config{}).WorldConfig()
	if err != nil {
		t.Fatal(err)
	}
	if def != forest.DefaultConfig() {
		t.Fatalf("empty flags changed defaults: %+v", def)
	}

	if _, err := (&Config{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")}).WorldConfig(); err == nil {
		t.Fatal("missing config file accepted")
	}
}

func TestSetFlagFeedsWorldConfig(t *testing.T) {
	c := NewConfig()
	fs := flag.NewFlagSet("rails", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c.BindWorld(fs)
	args := []string{"-set", "pulse_interval=20ms", "-set", "trains_to_win = 4", "-set", "rows=3", "-rows", "5"}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg, err := c.WorldConfig()
	if err != nil {
		t.Fatalf("WorldConfig: %v", err)
	}
	if cfg.Timing.PulseInterval != 20*time.Millisecond || cfg.TrainsToWin != 4 {
		t.Fatalf("-set not applied: %+v", cfg)
	}
	if cfg.Rows != 5 {
		t.Fatalf("-rows should win over -set rows, got %d", cfg.Rows)
	}

	if err := fs.Parse([]string{"-set", "novalue"}); err == nil {
		t.Fatal("malformed -set accepted")
	}
}

func TestOpenHost(t *testing.T) {
	dir := t.TempDir()
	c := &Config{Rows: 3, Cols: 3, Seed: 7, ProfilePath: filepath.Join(dir, "p.db"), EventDir: filepath.Join(dir, "events")}
	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	h, err := c.Open(log.New(io.Discard, "", 0), started)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if h.World.Seed() != 7 || h.World.ForestCount() != 1 || h.Profile == nil || h.Events == nil {
		t.Fatalf("host %+v", h)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	records, err := eventlog.ReadAll(eventlog.PathFor(c.EventDir, started))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) == 0 || records[0].Kind != forest.EventReset {
		t.Fatalf("records %+v", records)
	}

	bare, err := (&Config{}).Open(log.New(io.Discard, "", 0), started)
	if err != nil {
		t.Fatalf("Open without storage: %v", err)
	}
	if bare.Profile != nil || bare.Events != nil {
		t.Fatal("storage opened without flags")
	}
	if err := bare.Close(); err != nil {
		t.Fatal(err)
	}
}
