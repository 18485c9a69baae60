//go:build ebiten

package ui

import (
	"image"
	"image/color"

	"forest-rails/internal/sims/forest"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the status and parameter panel to the right of the board.
type HUD struct {
	world      *forest.World
	width      int
	panel      *ebiten.Image
	lastHeight int

	status       []string
	params       []string
	footer       []string
	buttons      []hudButton
	panelOffsetX int

	pixel *ebiten.Image
}

type hudButton struct {
	label  func() string
	rect   image.Rectangle
	action func()
}

// NewHUD constructs a HUD for the world and panel width.
func NewHUD(w *forest.World, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{world: w, width: width}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	h.buttons = []hudButton{
		{
			label:  func() string { return "Build: " + w.BuildMode().String() },
			action: func() { w.SetBuildMode(w.BuildMode().Toggle()) },
		},
		{
			label:  func() string { return "Fence: " + w.Orientation().String() },
			action: func() { w.ToggleOrientation() },
		},
	}
	h.layoutButtons()
	return h
}

// SetFooter replaces the lines printed at the bottom of the panel.
func (h *HUD) SetFooter(lines ...string) {
	if h == nil {
		return
	}
	h.footer = lines
}

// Update refreshes the cached text from the world and handles button clicks.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	h.status = StatusLines(h.world)
	h.params = ParameterLines(h.world.Parameters())
	h.handleInput()
}

// Draw paints the HUD panel at offsetX with the given height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dx() != h.width || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawText()
	for _, b := range h.buttons {
		h.drawButton(b.rect, b.label(), !h.world.Decided())
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) handleInput() {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return
	}
	px := mx - h.panelOffsetX
	for _, b := range h.buttons {
		if pointInRect(px, my, b.rect) {
			b.action()
			return
		}
	}
}

func (h *HUD) drawText() {
	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, "Forest Rails", face, panelPadding, y, color.RGBA{R: 200, G: 200, B: 210, A: 255})

	y = buttonsTop + len(h.buttons)*(buttonHeight+buttonGap) + sectionGap
	for _, line := range h.status {
		text.Draw(h.panel, line, face, panelPadding, y, color.RGBA{R: 220, G: 220, B: 230, A: 255})
		y += lineHeight
	}
	y += sectionGap
	for _, line := range h.params {
		text.Draw(h.panel, line, face, panelPadding, y, color.RGBA{R: 160, G: 160, B: 170, A: 255})
		y += lineHeight
	}

	y = h.lastHeight - panelPadding - (len(h.footer)-1)*lineHeight
	for _, line := range h.footer {
		text.Draw(h.panel, line, face, panelPadding, y, color.RGBA{R: 140, G: 180, B: 140, A: 255})
		y += lineHeight
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	if h.pixel == nil {
		return
	}
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorM.Scale(float64(bg.R)/255.0, float64(bg.G)/255.0, float64(bg.B)/255.0, float64(bg.A)/255.0)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func (h *HUD) layoutButtons() {
	if h.width <= 0 {
		return
	}
	for i := range h.buttons {
		top := buttonsTop + i*(buttonHeight+buttonGap)
		h.buttons[i].rect = image.Rect(panelPadding, top, h.width-panelPadding, top+buttonHeight)
	}
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

const (
	panelPadding   = 12
	lineHeight     = 16
	buttonHeight   = 24
	buttonGap      = 6
	headerBaseline = 18
	sectionGap     = 12
	buttonsTop     = panelPadding + headerBaseline + 14
)
