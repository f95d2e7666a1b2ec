package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the hero overlay and HUD.
type HUDData struct {
	Title        string
	Tagline      string
	State        string
	Frames       uint64
	Generations  uint64
	Particles    int
	Width        float64 // logical units
	Height       float64
	PixelRatio   float64
	FPS          int32
	AvgTick      time.Duration
	P95Tick      time.Duration
	Opacity      float64 // mean opacity of the last stats window
	ScreenWidth  int32
	ScreenHeight int32
}

// StatLine is one label/value row of the stats panel.
type StatLine struct {
	Label string
	Value string
}

// StatLines formats the stats panel rows.
func StatLines(d HUDData) []StatLine {
	return []StatLine{
		{"State", d.State},
		{"Particles", fmt.Sprintf("%d", d.Particles)},
		{"Surface", fmt.Sprintf("%.0fx%.0f @%.1fx", d.Width, d.Height, d.PixelRatio)},
		{"Frames", fmt.Sprintf("%d", d.Frames)},
		{"Regens", fmt.Sprintf("%d", d.Generations)},
		{"FPS", fmt.Sprintf("%d", d.FPS)},
		{"Tick", fmt.Sprintf("%s p95 %s", d.AvgTick.Round(time.Microsecond), d.P95Tick.Round(time.Microsecond))},
	}
}

// HUD renders the hero title and an optional stats panel.
type HUD struct {
	renderer *Renderer
	width    int32
	anchor   PanelAnchor
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
		width:    240,
		anchor:   AnchorTopRight,
	}
}

// DrawHero renders the centered title and tagline.
func (h *HUD) DrawHero(data HUDData, accent rl.Color) {
	t := h.renderer.Theme
	mid := data.ScreenHeight / 2
	h.renderer.DrawCentered(data.Title, data.ScreenWidth, mid-t.TitleFontSize, t.TitleFontSize, t.Title)
	h.renderer.DrawCentered(data.Tagline, data.ScreenWidth, mid+t.Padding, t.TaglineSize, accent)
}

// DrawStats renders the stats panel and returns true when its Remount button
// was pressed this frame.
func (h *HUD) DrawStats(data HUDData) bool {
	r := h.renderer
	t := r.Theme
	lines := StatLines(data)

	buttonH := int32(24)
	height := t.Padding*3 + t.LineHeight*int32(len(lines)+2) + buttonH
	x, y := PanelOrigin(h.anchor, h.width, height, data.ScreenWidth, data.ScreenHeight, t.Padding)

	r.DrawPanel(x, y, h.width, height)
	cx := x + t.Padding
	cy := r.DrawSectionHeader(cx, y+t.Padding, "Starfield")

	for _, l := range lines {
		cy = r.DrawLabelValue(cx, cy, l.Label, l.Value)
	}
	cy = r.DrawBar(cx, cy, "Opacity", float32(data.Opacity), h.width-t.Padding*2)

	bounds := rl.Rectangle{
		X:      float32(cx),
		Y:      float32(cy + t.Padding/2),
		Width:  float32(h.width - t.Padding*2),
		Height: float32(buttonH),
	}
	return gui.Button(bounds, "Remount")
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
