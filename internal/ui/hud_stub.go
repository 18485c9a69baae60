//go:build !ebiten

package ui

import "forest-rails/internal/sims/forest"

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// NewHUD returns nil in the headless build.
func NewHUD(*forest.World, int) *HUD { return nil }

// SetFooter is a no-op in the headless build.
func (h *HUD) SetFooter(...string) {}

// Update is a no-op in the headless build.
func (h *HUD) Update(int) {}

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, int, int) {}
