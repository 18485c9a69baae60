package ui

import (
	"fmt"
	"image/color"

	"forest-rails/internal/core"
	"forest-rails/internal/sims/forest"
)

var trainSkins = map[string]color.RGBA{
	"skin1": {R: 196, G: 48, B: 40, A: 255},
	"skin2": {R: 40, G: 92, B: 196, A: 255},
	"skin3": {R: 232, G: 196, B: 48, A: 255},
	"skin4": {R: 236, G: 236, B: 240, A: 255},
}

// TrainColor returns the body color for a shop skin. Unknown skins fall back
// to the first one.
func TrainColor(skin string) color.RGBA {
	if c, ok := trainSkins[skin]; ok {
		return c
	}
	return trainSkins["skin1"]
}

// StatusLines summarizes the round for the side panel.
func StatusLines(w *forest.World) []string {
	size := w.Size()
	lines := []string{
		fmt.Sprintf("Trains  %d/%d", w.Completed(), w.Config().TrainsToWin),
		fmt.Sprintf("Forest  %d/%d", w.ForestCount(), size.Area()),
		fmt.Sprintf("Live    %d", len(w.Trains())),
		fmt.Sprintf("Build   %s", w.BuildMode()),
	}
	if w.BuildMode() == forest.ModeFence {
		lines = append(lines, fmt.Sprintf("Fence   %s", w.Orientation()))
	}
	switch {
	case w.Won():
		lines = append(lines, "", "YOU WIN  (R to replay)")
	case w.Lost():
		lines = append(lines, "", "FOREST WINS  (R to retry)")
	}
	return lines
}

// ParameterLines flattens a snapshot into "label: value" rows with a header
// per group.
func ParameterLines(snap core.ParameterSnapshot) []string {
	var lines []string
	for _, g := range snap.Groups {
		lines = append(lines, g.Name)
		for _, p := range g.Params {
			lines = append(lines, fmt.Sprintf("  %s: %s", p.Label, p.Value))
		}
	}
	return lines
}
