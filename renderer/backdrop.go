package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// BackdropRenderer paints the hero gradient behind the starfield.
type BackdropRenderer struct {
	top    rl.Color
	bottom rl.Color
}

// NewBackdropRenderer creates a vertical gradient from top to bottom.
func NewBackdropRenderer(top, bottom color.NRGBA) *BackdropRenderer {
	return &BackdropRenderer{
		top:    opaque(ToRL(top)),
		bottom: opaque(ToRL(bottom)),
	}
}

// Draw fills a width x height area starting at the origin.
func (b *BackdropRenderer) Draw(width, height int32) {
	if width <= 0 || height <= 0 {
		return
	}
	rl.DrawRectangleGradientV(0, 0, width, height, b.top, b.bottom)
}

// At returns the backdrop color at fraction t of the height.
func (b *BackdropRenderer) At(t float32) rl.Color {
	return LerpColor(b.top, b.bottom, t)
}

// ToRL converts a color for raylib.
func ToRL(c color.NRGBA) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// LerpColor interpolates between a and b, clamping t to [0, 1].
func LerpColor(a, b rl.Color, t float32) rl.Color {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	mix := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t + 0.5)
	}
	return rl.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// A zero color from an unset config field still paints as opaque black.
func opaque(c rl.Color) rl.Color {
	c.A = 255
	return c
}
