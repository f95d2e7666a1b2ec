// Package terminal hosts the starfield in a text terminal using tcell.
package terminal

import (
	"image/color"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/starfield/starfield"
)

// Cells are about twice as tall as they are wide, so the logical surface
// is one unit per column and two units per row. That keeps drift isotropic.
const rowUnits = 2

// Glyphs by star radius.
var glyphs = []struct {
	maxRadius float64
	r         rune
}{
	{1.0, '·'},
	{1.75, '•'},
	{starfield.RadiusMax, '●'},
}

// CellSurface paints stars as glyphs into a tcell screen.
type CellSurface struct {
	screen     tcell.Screen
	background color.NRGBA

	mu    sync.Mutex
	alpha map[[2]int]uint8 // brightest star per cell this frame
}

var _ starfield.Surface = (*CellSurface)(nil)

// NewCellSurface wraps screen. Stars are blended over background.
func NewCellSurface(screen tcell.Screen, background color.NRGBA) *CellSurface {
	return &CellSurface{
		screen:     screen,
		background: background,
		alpha:      make(map[[2]int]uint8),
	}
}

// Size implements starfield.Surface.
func (s *CellSurface) Size() (float64, float64) {
	w, h := s.screen.Size()
	return float64(w), float64(h * rowUnits)
}

// PixelRatio implements starfield.Surface. Cells are already logical.
func (s *CellSurface) PixelRatio() float64 { return 1 }

// Clear implements starfield.Surface.
func (s *CellSurface) Clear() {
	s.mu.Lock()
	clear(s.alpha)
	s.mu.Unlock()

	bg := tcell.StyleDefault.Background(toTcell(s.background))
	s.screen.Fill(' ', bg)
}

// FillCircle implements starfield.Surface. Overlapping stars keep the
// brighter one.
func (s *CellSurface) FillCircle(x, y, radius float64, c color.NRGBA) {
	cx, cy := int(x), int(y)/rowUnits
	w, h := s.screen.Size()
	if cx < 0 || cy < 0 || cx >= w || cy >= h {
		return
	}

	s.mu.Lock()
	key := [2]int{cx, cy}
	if prev, ok := s.alpha[key]; ok && prev >= c.A {
		s.mu.Unlock()
		return
	}
	s.alpha[key] = c.A
	s.mu.Unlock()

	style := tcell.StyleDefault.
		Background(toTcell(s.background)).
		Foreground(toTcell(blend(c, s.background)))
	s.screen.SetContent(cx, cy, glyphFor(radius), nil, style)
}

func glyphFor(radius float64) rune {
	for _, g := range glyphs {
		if radius < g.maxRadius {
			return g.r
		}
	}
	return glyphs[len(glyphs)-1].r
}

// blend composites c over an opaque background.
func blend(c, bg color.NRGBA) color.NRGBA {
	a := uint32(c.A)
	mix := func(fg, bg uint8) uint8 {
		return uint8((uint32(fg)*a + uint32(bg)*(255-a) + 127) / 255)
	}
	return color.NRGBA{R: mix(c.R, bg.R), G: mix(c.G, bg.G), B: mix(c.B, bg.B), A: 0xFF}
}

func toTcell(c color.NRGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
