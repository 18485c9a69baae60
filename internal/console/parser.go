package console

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
)

// Command is a parsed console line. Verb is always canonical.
type Command struct {
	Verb  string
	Args  []string
	Raw   string
	Fuzzy bool
}

type verbDef struct {
	name    string
	aliases []string
	minArgs int
	maxArgs int
	usage   string
	help    string
}

var verbs = []verbDef{
	{name: "rail", aliases: []string{"r", "track"}, minArgs: 2, maxArgs: 2, usage: "rail ROW COL", help: "lay track on a cell"},
	{name: "line", aliases: []string{"row"}, minArgs: 1, maxArgs: 1, usage: "line ROW", help: "lay track along a whole row"},
	{name: "fence", aliases: []string{"f"}, minArgs: 2, maxArgs: 3, usage: "fence ROW COL [h|v]", help: "request a fence segment"},
	{name: "mode", minArgs: 0, maxArgs: 1, usage: "mode [rail|fence]", help: "show or set what tap places"},
	{name: "rotate", aliases: []string{"flip"}, usage: "rotate", help: "toggle the fence orientation"},
	{name: "tap", aliases: []string{"t"}, minArgs: 2, maxArgs: 2, usage: "tap ROW COL", help: "place using the current mode"},
	{name: "wait", aliases: []string{"w", "sleep"}, minArgs: 1, maxArgs: 1, usage: "wait SECONDS", help: "advance the clock"},
	{name: "grow", aliases: []string{"g"}, usage: "grow", help: "run one forest growth step now"},
	{name: "status", aliases: []string{"s", "st"}, usage: "status", help: "show counters and fences"},
	{name: "map", aliases: []string{"m", "board"}, usage: "map", help: "draw the board"},
	{name: "params", aliases: []string{"config"}, usage: "params", help: "show the active configuration"},
	{name: "reset", aliases: []string{"restart", "new"}, minArgs: 0, maxArgs: 1, usage: "reset [SEED]", help: "start a new round"},
	{name: "save", minArgs: 1, maxArgs: 1, usage: "save PATH", help: "write a compressed snapshot"},
	{name: "coins", aliases: []string{"balance", "money"}, usage: "coins", help: "show the coin balance"},
	{name: "shop", aliases: []string{"store"}, minArgs: 0, maxArgs: 1, usage: "shop [background|skin]", help: "list cosmetics"},
	{name: "buy", aliases: []string{"select", "use"}, minArgs: 1, maxArgs: 1, usage: "buy NAME", help: "select or buy a cosmetic"},
	{name: "achievements", aliases: []string{"ach"}, usage: "achievements", help: "list achievements"},
	{name: "claim", minArgs: 1, maxArgs: 1, usage: "claim ID", help: "claim an achievement reward"},
	{name: "settings", aliases: []string{"prefs"}, minArgs: 0, maxArgs: 1, usage: "settings [sound|volume]", help: "show or toggle audio settings"},
	{name: "help", aliases: []string{"h", "?"}, usage: "help", help: "list commands"},
	{name: "quit", aliases: []string{"q", "exit"}, usage: "quit", help: "leave the console"},
}

var verbIndex = func() map[string]*verbDef {
	idx := make(map[string]*verbDef, len(verbs)*2)
	for i := range verbs {
		v := &verbs[i]
		idx[v.name] = v
		for _, a := range v.aliases {
			idx[a] = v
		}
	}
	return idx
}()

// Parse splits a line into a command. Verbs match exactly, by alias, by
// unambiguous prefix or within a small edit distance. Arguments keep their
// case so paths survive.
func Parse(raw string) (Command, error) {
	fields := strings.Fields(raw)
	cmd := Command{Raw: raw}
	if len(fields) == 0 {
		return cmd, fmt.Errorf("empty line: %w", ErrUnknownCommand)
	}
	token := strings.ToLower(fields[0])
	def, fuzzy := matchVerb(token)
	if def == nil {
		return cmd, fmt.Errorf("%q: %w", fields[0], ErrUnknownCommand)
	}
	cmd.Verb = def.name
	cmd.Args = fields[1:]
	cmd.Fuzzy = fuzzy
	if len(cmd.Args) < def.minArgs || len(cmd.Args) > def.maxArgs {
		return cmd, fmt.Errorf("%w: %s", ErrUsage, def.usage)
	}
	return cmd, nil
}

func matchVerb(token string) (*verbDef, bool) {
	if def, ok := verbIndex[token]; ok {
		return def, false
	}

	type scored struct {
		def   *verbDef
		score float64
	}
	var results []scored
	for i := range verbs {
		v := &verbs[i]
		best := 0.0
		for _, cand := range append([]string{v.name}, v.aliases...) {
			score := 0.0
			switch {
			case strings.HasPrefix(cand, token) && len(token) >= 2:
				score = 0.9
			case len(token) >= 3:
				dist := levenshtein.ComputeDistance(token, cand)
				if dist > levenshteinLimit(len(cand)) {
					continue
				}
				score = 0.72 - 0.08*float64(dist)
			}
			if score > best {
				best = score
			}
		}
		if best > 0 {
			results = append(results, scored{def: v, score: best})
		}
	}
	if len(results) == 0 {
		return nil, false
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].score > results[j].score })
	if len(results) > 1 && results[0].score-results[1].score < 0.05 {
		return nil, false
	}
	return results[0].def, true
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// Suggest returns the closest verb for an unknown token, or "".
func Suggest(token string) string {
	token = strings.ToLower(token)
	best, bestDist := "", 1<<30
	for _, v := range verbs {
		d := levenshtein.ComputeDistance(token, v.name)
		if d < bestDist {
			best, bestDist = v.name, d
		}
	}
	if bestDist > levenshteinLimit(len(best))+1 {
		return ""
	}
	return best
}

func intArg(cmd Command, i int, name string) (int, error) {
	v, err := strconv.Atoi(cmd.Args[i])
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", ErrUsage, name, cmd.Args[i])
	}
	return v, nil
}

func helpText() string {
	var b strings.Builder
	for _, v := range verbs {
		fmt.Fprintf(&b, "  %-24s %s\n", v.usage, v.help)
	}
	return b.String()
}
