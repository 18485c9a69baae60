//go:build ebiten

package app

import (
	"image/color"
	"time"

	"forest-rails/internal/render"
	"forest-rails/internal/sims/forest"
	"forest-rails/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const minPanelHeight = 420

// Game adapts a forest world to the ebiten.Game interface. The world runs on
// a virtual clock advanced by one frame per Update so pausing freezes it.
type Game struct {
	world   *forest.World
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	palette []color.RGBA

	scale    int
	hudWidth int
	paused   bool
	tickOnce bool
	seed     int64
	clock    time.Time
}

// New constructs a Game for the world. hudWidth 0 hides the side panel.
func New(w *forest.World, scale, hudWidth int, seed int64) *Game {
	size := w.Size()
	g := &Game{
		world:    w,
		painter:  render.NewGridPainter(size.Cols, size.Rows),
		overlay:  ui.NewOverlay(w, scale),
		hud:      ui.NewHUD(w, hudWidth),
		palette:  forest.Palette(""),
		scale:    scale,
		hudWidth: hudWidth,
		seed:     seed,
		clock:    time.Now(),
	}
	w.Advance(g.clock)
	return g
}

// SetTheme selects the board palette by shop background name.
func (g *Game) SetTheme(name string) { g.palette = forest.Palette(name) }

// SetSkin selects the train color by shop skin name.
func (g *Game) SetSkin(name string) { g.overlay.SetSkin(name) }

// SetFooter shows extra lines at the bottom of the side panel.
func (g *Game) SetFooter(lines ...string) { g.hud.SetFooter(lines...) }

// Reset reinitializes the world with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.world.Reset(seed)
	g.world.Advance(g.clock)
	g.tickOnce = false
}

// Update handles input and advances the world by one frame of game time.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.world.SetBuildMode(g.world.BuildMode().Toggle())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.world.ToggleOrientation()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		if cell, ok := render.CellAt(mx, my, g.scale, g.world.Size()); ok {
			g.world.Tap(cell, g.clock)
		}
	}

	g.overlay.Update()
	g.hud.Update(g.boardWidth())

	switch {
	case g.tickOnce:
		g.clock = g.clock.Add(g.world.Config().Timing.PulseInterval)
		g.world.Advance(g.clock)
		g.tickOnce = false
	case !g.paused:
		g.clock = g.clock.Add(time.Second / time.Duration(ebiten.TPS()))
		g.world.Advance(g.clock)
	}
	return nil
}

// Draw renders the board, the overlay and the side panel.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	g.painter.Blit(screen, g.world.Cells(), g.palette, g.scale)
	g.overlay.Draw(screen, g.clock)
	_, h := g.Layout(0, 0)
	g.hud.Draw(screen, g.boardWidth(), h)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.world.Size()
	h := s.Rows * g.scale
	if g.hudWidth > 0 && h < minPanelHeight {
		h = minPanelHeight
	}
	return g.boardWidth() + g.hudWidth, h
}

func (g *Game) boardWidth() int { return g.world.Size().Cols * g.scale }
