//go:build ebiten

package ui

import (
	"image/color"
	"math"
	"time"

	"forest-rails/internal/core"
	"forest-rails/internal/render"
	"forest-rails/internal/sims/forest"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var (
	fenceActiveColor  = color.RGBA{R: 110, G: 72, B: 36, A: 255}
	fencePendingColor = color.RGBA{R: 230, G: 200, B: 150, A: 150}
	frontierTint      = color.RGBA{R: 255, G: 140, B: 40, A: 0}
	gridLineColor     = color.RGBA{R: 0, G: 0, B: 0, A: 40}
	previewColor      = color.RGBA{R: 255, G: 255, B: 255, A: 110}
)

// Overlay draws fences, trains and optional debugging layers on top of the
// board.
type Overlay struct {
	world        *forest.World
	scale        int
	trainColor   color.RGBA
	showFrontier bool
	showGrid     bool

	maskImg *ebiten.Image
	maskBuf []byte
	pixel   *ebiten.Image
}

// NewOverlay constructs an overlay for the world at the given pixel scale.
func NewOverlay(w *forest.World, scale int) *Overlay {
	o := &Overlay{world: w, scale: scale, trainColor: TrainColor(""), showGrid: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// SetSkin selects the train color by shop skin name.
func (o *Overlay) SetSkin(skin string) { o.trainColor = TrainColor(skin) }

// Update toggles the debugging layers.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showFrontier = !o.showFrontier
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showGrid = !o.showGrid
	}
}

// Draw renders the overlay for the world state at now.
func (o *Overlay) Draw(screen *ebiten.Image, now time.Time) {
	size := o.world.Size()
	if size.Area() == 0 {
		return
	}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	snap := o.world.Snapshot(now)

	if o.showFrontier {
		o.drawFrontier(screen, o.world.Frontier(), size, scale)
	}
	if o.showGrid {
		o.drawGrid(screen, size, scale)
	}
	for _, p := range snap.Pending {
		col := lerpRGBA(fencePendingColor, fenceActiveColor, p.Progress)
		o.drawFence(screen, size, p.Segment, scale, 1+2*p.Progress, col)
	}
	for _, a := range snap.Active {
		o.drawFence(screen, size, a.Segment, scale, 4, fenceActiveColor)
	}
	for _, t := range snap.Trains {
		o.drawTrain(screen, core.Cell{Row: t.Row, Col: t.Col}, scale)
	}
	if !snap.Won && !snap.Lost {
		o.drawPreview(screen, size, scale)
	}
}

func (o *Overlay) drawFence(screen *ebiten.Image, size core.Size, seg forest.Segment, scale int, thickness float64, col color.RGBA) {
	other, ok := size.FenceNeighbor(seg.Cell, seg.Orientation)
	if !ok {
		return
	}
	x1, y1, x2, y2, ok := render.EdgeLine(seg.Cell, other, scale)
	if !ok {
		return
	}
	o.drawLine(screen, x1, y1, x2, y2, thickness, col)
}

func (o *Overlay) drawTrain(screen *ebiten.Image, c core.Cell, scale int) {
	x, y := render.CellCenter(c, scale)
	body := float64(scale) * 0.6
	o.drawPoint(screen, x, y, body, o.trainColor)
	o.drawPoint(screen, x+body*0.25, y-body*0.15, body*0.25, color.RGBA{R: 30, G: 30, B: 36, A: 255})
}

// drawPreview outlines what a click would place at the cursor.
func (o *Overlay) drawPreview(screen *ebiten.Image, size core.Size, scale int) {
	mx, my := ebiten.CursorPosition()
	cell, ok := render.CellAt(mx, my, scale, size)
	if !ok {
		return
	}
	if o.world.BuildMode() == forest.ModeFence {
		o.drawFence(screen, size, forest.Segment{Cell: cell, Orientation: o.world.Orientation()}, scale, 2, previewColor)
		return
	}
	s := float64(scale)
	x, y := float64(cell.Col)*s, float64(cell.Row)*s
	o.drawLine(screen, x, y+s*0.5, x+s, y+s*0.5, math.Max(2, s*0.15), previewColor)
}

func (o *Overlay) drawGrid(screen *ebiten.Image, size core.Size, scale int) {
	s := float64(scale)
	w := float64(size.Cols) * s
	h := float64(size.Rows) * s
	for c := 1; c < size.Cols; c++ {
		o.drawLine(screen, float64(c)*s, 0, float64(c)*s, h, 1, gridLineColor)
	}
	for r := 1; r < size.Rows; r++ {
		o.drawLine(screen, 0, float64(r)*s, w, float64(r)*s, 1, gridLineColor)
	}
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	if o.pixel == nil || size <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size*0.5, y-size*0.5)
	op.ColorM.Scale(float64(col.R)/255.0, float64(col.G)/255.0, float64(col.B)/255.0, float64(col.A)/255.0)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorM.Scale(float64(col.R)/255.0, float64(col.G)/255.0, float64(col.B)/255.0, float64(col.A)/255.0)
	screen.DrawImage(o.pixel, op)
}

// drawFrontier tints every cell the forest could claim on its next growth.
func (o *Overlay) drawFrontier(screen *ebiten.Image, frontier []core.Cell, size core.Size, scale int) {
	total := size.Area()
	if o.maskImg == nil || o.maskImg.Bounds().Dx() != size.Cols || o.maskImg.Bounds().Dy() != size.Rows {
		o.maskImg = ebiten.NewImage(size.Cols, size.Rows)
		o.maskBuf = make([]byte, 4*total)
	}
	clear(o.maskBuf)
	for _, c := range frontier {
		base := size.Index(c) * 4
		o.maskBuf[base+0] = frontierTint.R
		o.maskBuf[base+1] = frontierTint.G
		o.maskBuf[base+2] = frontierTint.B
		o.maskBuf[base+3] = 96
	}
	o.maskImg.WritePixels(o.maskBuf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(o.maskImg, op)
}
