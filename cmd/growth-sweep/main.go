package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"forest-rails/internal/app"
	"forest-rails/internal/core"
	"forest-rails/internal/sims/forest"
	rng "forest-rails/pkg/core"
)

type scenario struct {
	rows, cols int
	seed       int64
}

func (s scenario) String() string {
	return fmt.Sprintf("%dx%d seed=%d", s.rows, s.cols, s.seed)
}

type scenarioResult struct {
	scenario
	covered   bool
	elapsed   time.Duration
	growths   int
	fences    int
	peakTrees int
}

func main() {
	cfg := app.NewConfig()
	cfg.ProfilePath = ""
	fs := flag.CommandLine
	cfg.BindWorld(fs)
	sizes := fs.String("sizes", "6x6,10x18,16x16", "comma separated RxC grid sizes")
	seeds := fs.Int("seeds", 16, "seeds per size")
	limit := fs.Duration("limit", time.Hour, "simulated time cap per scenario")
	fenceEvery := fs.Duration("fence-every", 0, "place a fence on the frontier this often, 0 for none")
	workers := fs.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	flag.Parse()

	logger := log.New(os.Stdout, "[growth-sweep] ", log.LstdFlags|log.Lmicroseconds)
	base, err := cfg.WorldConfig()
	if err != nil {
		logger.Fatal(err)
	}
	dims, err := parseSizes(*sizes)
	if err != nil {
		logger.Fatal(err)
	}

	var sets []scenario
	for _, d := range dims {
		for i := 0; i < *seeds; i++ {
			sets = append(sets, scenario{rows: d.Rows, cols: d.Cols, seed: base.Seed + int64(i)})
		}
	}

	fmt.Printf("Sweeping %d scenarios (%d workers, growth every %s, cap %s)\n",
		len(sets), *workers, base.Timing.GrowthInterval, *limit)

	jobs := make(chan scenario)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sc := range jobs {
				results <- runScenario(base, sc, *limit, *fenceEvery)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, sc := range sets {
			jobs <- sc
		}
		close(jobs)
	}()

	start := time.Now()
	bySize := map[core.Size][]scenarioResult{}
	for res := range results {
		key := core.Size{Rows: res.rows, Cols: res.cols}
		bySize[key] = append(bySize[key], res)
		if !res.covered {
			fmt.Printf("%s not covered after %s (%d/%d cells)\n", res.scenario, *limit, res.peakTrees, key.Area())
		}
	}

	fmt.Printf("\nResults (elapsed %s):\n", time.Since(start).Round(time.Millisecond))
	for _, d := range dims {
		all := bySize[d]
		sort.Slice(all, func(i, j int) bool { return all[i].elapsed < all[j].elapsed })
		var covered []scenarioResult
		for _, r := range all {
			if r.covered {
				covered = append(covered, r)
			}
		}
		if len(covered) == 0 {
			fmt.Printf("%3dx%-3d none covered\n", d.Rows, d.Cols)
			continue
		}
		var sum time.Duration
		fences := 0
		for _, r := range covered {
			sum += r.elapsed
			fences += r.fences
		}
		fmt.Printf("%3dx%-3d covered %d/%d  min=%s median=%s max=%s mean=%s fences/run=%.1f\n",
			d.Rows, d.Cols, len(covered), len(all),
			covered[0].elapsed.Round(time.Millisecond),
			covered[len(covered)/2].elapsed.Round(time.Millisecond),
			covered[len(covered)-1].elapsed.Round(time.Millisecond),
			(sum / time.Duration(len(covered))).Round(time.Millisecond),
			float64(fences)/float64(len(covered)))
	}
}

// runScenario plays a world with no player input except optional fences and
// reports how long the forest takes to cover the board.
func runScenario(base forest.Config, sc scenario, limit, fenceEvery time.Duration) scenarioResult {
	cfg := base
	cfg.Rows, cfg.Cols = sc.rows, sc.cols
	w := forest.NewWithConfig(cfg)

	res := scenarioResult{scenario: sc}
	epoch := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	w.OnEvent(func(e forest.Event) {
		switch e.Kind {
		case forest.EventForestGrew:
			res.growths++
		case forest.EventLost:
			res.covered = true
			res.elapsed = e.At.Sub(epoch)
		}
	})
	w.Reset(sc.seed)
	w.Advance(epoch)

	r := rng.NewRNG(sc.seed + 1)
	step := cfg.Timing.GrowthInterval
	if ceiling := cfg.Timing.PulseInterval * core.MaxCatchUp; step > ceiling {
		step = ceiling
	}
	if fenceEvery > 0 && fenceEvery < step {
		step = fenceEvery
	}
	nextFence := epoch.Add(fenceEvery)
	for now := epoch; !w.Lost() && now.Sub(epoch) < limit; {
		now = now.Add(step)
		if fenceEvery > 0 && !now.Before(nextFence) {
			if frontier := w.Frontier(); len(frontier) > 0 {
				cell := frontier[rng.Pick(r, len(frontier))]
				o := core.Horizontal
				if r.Bool() {
					o = core.Vertical
				}
				if w.PlaceFence(cell, o, now) {
					res.fences++
				}
			}
			nextFence = nextFence.Add(fenceEvery)
		}
		w.Advance(now)
	}
	res.peakTrees = w.ForestCount()
	return res
}

func parseSizes(raw string) ([]core.Size, error) {
	var out []core.Size
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r, c, ok := strings.Cut(strings.ToLower(part), "x")
		if !ok {
			return nil, fmt.Errorf("size %q: want RxC", part)
		}
		rows, err := strconv.Atoi(r)
		if err != nil || rows <= 0 {
			return nil, fmt.Errorf("size %q: bad rows", part)
		}
		cols, err := strconv.Atoi(c)
		if err != nil || cols <= 0 {
			return nil, fmt.Errorf("size %q: bad cols", part)
		}
		out = append(out, core.Size{Rows: rows, Cols: cols})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no sizes in %q", raw)
	}
	return out, nil
}
