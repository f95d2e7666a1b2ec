// Starfield tuning tool - live preview with sliders that remount the animator.
//
// Usage: go run ./cmd/tune [-config config.yaml]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/starfield/app"
	"github.com/pthm-cable/starfield/config"
	"github.com/pthm-cable/starfield/renderer"
	"github.com/pthm-cable/starfield/starfield"
)

const (
	windowWidth   = 1100
	windowHeight  = 560
	previewWidth  = 720
	previewHeight = 405
	previewX      = 10
	previewY      = 10
	panelWidth    = windowWidth - previewWidth - 30
)

// previewSurface draws into a fixed rectangle of the window.
type previewSurface struct {
	backdrop *renderer.BackdropRenderer
}

func (p *previewSurface) Size() (float64, float64) { return previewWidth, previewHeight }
func (p *previewSurface) PixelRatio() float64      { return 1 }

func (p *previewSurface) Clear() {
	rl.BeginScissorMode(previewX, previewY, previewWidth, previewHeight)
	rl.DrawRectangleGradientV(previewX, previewY, previewWidth, previewHeight, p.backdrop.At(0), p.backdrop.At(1))
	rl.EndScissorMode()
}

func (p *previewSurface) FillCircle(x, y, radius float64, c color.NRGBA) {
	rl.BeginScissorMode(previewX, previewY, previewWidth, previewHeight)
	rl.DrawCircleV(rl.Vector2{X: float32(previewX + x), Y: float32(previewY + y)}, float32(radius), renderer.ToRL(c))
	rl.EndScissorMode()
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rl.InitWindow(windowWidth, windowHeight, "Starfield Tuning")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	queue := starfield.NewFrameQueue()
	surface := &previewSurface{
		backdrop: renderer.NewBackdropRenderer(cfg.Derived.BackdropTop, cfg.Derived.BackdropBottom),
	}
	hero := app.NewHero(surface, starfield.Env{Scheduler: queue}, cfg.Derived.Options)
	if err := hero.Mount(); err != nil {
		slog.Error("failed to mount starfield", "error", err)
		os.Exit(1)
	}
	defer hero.Unmount()

	params := NewParamVector()
	initial := params.ExtractFromConfig(cfg)
	values := append([]float64(nil), initial...)
	dirty := false

	remount := func() {
		params.ApplyToConfig(cfg, values)
		if err := applyOptions(hero, cfg.Derived.Options); err != nil {
			slog.Warn("remount failed", "error", err, "mounted", hero.Mounted())
		}
		dirty = false
	}

	for !rl.WindowShouldClose() {
		// Apply slider changes once the drag ends; remounting regenerates the population.
		if dirty && !rl.IsMouseButtonDown(rl.MouseButtonLeft) {
			remount()
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		queue.Pump()
		rl.DrawRectangleLines(previewX, previewY, previewWidth, previewHeight, rl.DarkGray)

		statsY := int32(previewY + previewHeight + 15)
		if st, err := hero.Stats(); err == nil {
			rl.DrawText(fmt.Sprintf("State: %s  Frames: %d  Particles: %d  Regens: %d",
				st.State, st.Frames, st.Particles, st.Generations), 15, statsY, 16, rl.DarkGray)
		} else {
			rl.DrawText("Not mounted", 15, statsY, 16, rl.Maroon)
		}
		rl.DrawText(fmt.Sprintf("FPS: %d", rl.GetFPS()), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewWidth + 20)
		panelY := float32(10)

		rl.DrawText("Starfield Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		for i, spec := range params.Specs {
			rl.DrawText(spec.Name, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			next := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				params.Label(i, spec.Min), params.Label(i, spec.Max),
				float32(values[i]), float32(spec.Min), float32(spec.Max),
			)
			rl.DrawText(params.Label(i, values[i]), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if v := params.Clamp(withValue(values, i, float64(next)))[i]; v != values[i] {
				values[i] = v
				dirty = true
			}
			panelY += 35
		}
		panelY += 10

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Remount") {
			remount()
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			copy(values, initial)
			remount()
		}
		panelY += 55

		// Output YAML
		snippet, err := params.YAML(cfg)
		if err != nil {
			snippet = err.Error()
		}
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		rl.DrawText(snippet, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(snippet)
		}

		rl.EndDrawing()
	}
}

func withValue(values []float64, i int, v float64) []float64 {
	out := append([]float64(nil), values...)
	out[i] = v
	return out
}
