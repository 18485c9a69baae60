//go:build !ebiten

package ui

import (
	"time"

	"forest-rails/internal/sims/forest"
)

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(*forest.World, int) *Overlay { return &Overlay{} }

// SetSkin is a no-op in headless builds.
func (o *Overlay) SetSkin(string) {}

// Update is a no-op in headless builds.
func (o *Overlay) Update() {}

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any, time.Time) {}
