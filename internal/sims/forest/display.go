package forest

import "image/color"

const (
	displayForestBit    = 0x01
	displayVariantShift = 1
	displayVariantMask  = 0x0e
	displayRailBit      = 0x10
	displayPaletteSize  = 32
)

// Cells exposes the display buffer: bit 0 marks forest, bits 1-3 hold the
// sprite variant and bit 4 marks track. The buffer is rebuilt on every call.
func (w *World) Cells() []uint8 {
	w.rebuildDisplay()
	return w.display
}

func (w *World) rebuildDisplay() {
	for i := range w.display {
		c := w.size.CellAt(i)
		variant, forest := w.forest.Claimed(c)
		w.display[i] = encodeDisplayValue(forest, variant, w.rails.HasRail(c))
	}
}

func encodeDisplayValue(forest bool, variant int, rail bool) uint8 {
	var value uint8
	if forest {
		value |= displayForestBit
		value |= (uint8(variant) << displayVariantShift) & displayVariantMask
	}
	if rail {
		value |= displayRailBit
	}
	return value
}

// DecodeDisplayValue splits a display byte into its parts.
func DecodeDisplayValue(v uint8) (forest bool, variant int, rail bool) {
	forest = v&displayForestBit != 0
	if forest {
		variant = int((v & displayVariantMask) >> displayVariantShift)
	}
	rail = v&displayRailBit != 0
	return forest, variant, rail
}

var themeGrounds = map[string]color.NRGBA{
	"bg1": {R: 122, G: 168, B: 92, A: 255},
	"bg2": {R: 176, G: 150, B: 96, A: 255},
	"bg3": {R: 108, G: 132, B: 150, A: 255},
}

// Palette returns display colors for the given shop background. Unknown themes
// use the first background.
func Palette(theme string) []color.RGBA {
	ground, ok := themeGrounds[theme]
	if !ok {
		ground = themeGrounds["bg1"]
	}
	palette := make([]color.RGBA, displayPaletteSize)
	for i := range palette {
		forest, variant, rail := DecodeDisplayValue(uint8(i))
		palette[i] = toRGBA(paletteColorFor(ground, forest, variant, rail))
	}
	return palette
}

// Palette implements the renderer's palette hook using the default theme.
func (w *World) Palette() []color.RGBA { return Palette("") }

func toRGBA(c color.NRGBA) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func paletteColorFor(ground color.NRGBA, forest bool, variant int, rail bool) color.NRGBA {
	base := ground
	if rail {
		base = blendColors(base, color.NRGBA{R: 92, G: 70, B: 54, A: 255}, 0.8)
	}
	if !forest {
		return base
	}
	return blendColors(base, forestColor(variant), 0.85)
}

func forestColor(variant int) color.NRGBA {
	switch variant {
	case 1:
		return color.NRGBA{R: 34, G: 110, B: 52, A: 255}
	case 2:
		return color.NRGBA{R: 28, G: 96, B: 44, A: 255}
	case 3:
		return color.NRGBA{R: 46, G: 122, B: 60, A: 255}
	case 4:
		return color.NRGBA{R: 22, G: 84, B: 40, A: 255}
	default:
		return color.NRGBA{R: 30, G: 100, B: 50, A: 255}
	}
}

func blendColors(base, overlay color.NRGBA, overlayWeight float64) color.NRGBA {
	if overlayWeight <= 0 {
		return base
	}
	if overlayWeight >= 1 {
		return overlay
	}
	br, bg, bb, ba := float64(base.R), float64(base.G), float64(base.B), float64(base.A)
	or, og, ob, oa := float64(overlay.R), float64(overlay.G), float64(overlay.B), float64(overlay.A)
	w := overlayWeight
	inv := 1 - w
	return color.NRGBA{
		R: uint8(br*inv + or*w + 0.5),
		G: uint8(bg*inv + og*w + 0.5),
		B: uint8(bb*inv + ob*w + 0.5),
		A: uint8(ba*inv + oa*w + 0.5),
	}
}
