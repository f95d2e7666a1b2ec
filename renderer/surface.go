// Package renderer hosts the starfield in a raylib window.
package renderer

import (
	"image/color"
	"sync"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/starfield/starfield"
)

// TextureSurface paints frames into a render texture that the window blits
// each repaint, so the last frame stays visible when the animator stops.
//
// All raylib calls happen on the window goroutine. Size and PixelRatio read
// values cached by Sync and may be called from anywhere.
type TextureSurface struct {
	backdrop      *BackdropRenderer
	ratioOverride float64

	mu     sync.Mutex
	w, h   float64 // physical pixels
	ratio  float64
	target rl.RenderTexture2D
	loaded bool
}

var (
	_ starfield.Surface   = (*TextureSurface)(nil)
	_ starfield.Validator = (*TextureSurface)(nil)
)

// NewTextureSurface creates a surface. A ratioOverride > 0 replaces the
// window's DPI scale.
func NewTextureSurface(backdrop *BackdropRenderer, ratioOverride float64) *TextureSurface {
	return &TextureSurface{backdrop: backdrop, ratioOverride: ratioOverride, ratio: 1}
}

// Sync re-reads the window size and reallocates the render texture when the
// logical size changed. It reports whether anything changed. Must be called
// after the window is created.
func (s *TextureSurface) Sync() bool {
	ratio := s.ratioOverride
	if ratio <= 0 {
		ratio = float64(rl.GetWindowScaleDPI().X)
	}
	if ratio <= 0 {
		ratio = 1
	}
	lw, lh := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	pw, ph := float64(lw)*ratio, float64(lh)*ratio

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded && pw == s.w && ph == s.h && ratio == s.ratio {
		return false
	}
	if s.loaded {
		rl.UnloadRenderTexture(s.target)
		s.loaded = false
	}
	s.w, s.h, s.ratio = pw, ph, ratio
	if lw > 0 && lh > 0 {
		s.target = rl.LoadRenderTexture(lw, lh)
		s.loaded = true
	}
	return true
}

// Size implements starfield.Surface.
func (s *TextureSurface) Size() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w, s.h
}

// PixelRatio implements starfield.Surface.
func (s *TextureSurface) PixelRatio() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ratio
}

// Valid implements starfield.Validator.
func (s *TextureSurface) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Begin redirects drawing into the render texture. Pump the frame queue
// between Begin and End.
func (s *TextureSurface) Begin() {
	if s.Valid() {
		rl.BeginTextureMode(s.target)
	}
}

// End restores drawing to the window.
func (s *TextureSurface) End() {
	if s.Valid() {
		rl.EndTextureMode()
	}
}

// Draw blits the last frame to the window at the origin.
func (s *TextureSurface) Draw() {
	s.mu.Lock()
	target, loaded := s.target, s.loaded
	s.mu.Unlock()
	if !loaded {
		return
	}
	w, h := float32(target.Texture.Width), float32(target.Texture.Height)
	// Render textures are stored upside down.
	src := rl.Rectangle{X: 0, Y: 0, Width: w, Height: -h}
	rl.DrawTextureRec(target.Texture, src, rl.Vector2{}, rl.White)
}

// Clear implements starfield.Surface by repainting the backdrop.
func (s *TextureSurface) Clear() {
	rl.ClearBackground(rl.Blank)
	s.mu.Lock()
	w, h := int32(s.target.Texture.Width), int32(s.target.Texture.Height)
	s.mu.Unlock()
	s.backdrop.Draw(w, h)
}

// FillCircle implements starfield.Surface.
func (s *TextureSurface) FillCircle(x, y, radius float64, c color.NRGBA) {
	rl.DrawCircleV(rl.Vector2{X: float32(x), Y: float32(y)}, float32(radius), ToRL(c))
}

// Unload frees the render texture.
func (s *TextureSurface) Unload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		rl.UnloadRenderTexture(s.target)
		s.loaded = false
	}
}
