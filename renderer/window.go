package renderer

import (
	"context"
	"log/slog"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/starfield/app"
	"github.com/pthm-cable/starfield/config"
	"github.com/pthm-cable/starfield/starfield"
	"github.com/pthm-cable/starfield/ui"
)

const controlsLegend = "[R] Remount  [H] HUD  [F11] Fullscreen  [Esc] Quit"

// WindowOptions control a windowed run.
type WindowOptions struct {
	Seed      int64
	MaxFrames int
	LogStats  bool
	OutputDir string
	Reload    <-chan *config.Config
	Logger    *slog.Logger
}

// Window hosts the hero section in a raylib window. Everything, including
// animator frames, runs on the goroutine that called Run.
type Window struct {
	cfg     *config.Config
	opts    WindowOptions
	surface *TextureSurface
	queue   *starfield.FrameQueue
	resizes *starfield.Broadcaster
	tel     *app.Telemetry
	hud     *ui.HUD
	hero    *app.Hero
	showHUD bool
}

// RunWindow opens a window and animates until it is closed, ctx is done or
// MaxFrames frames were drawn. It must be called from the main goroutine.
func RunWindow(ctx context.Context, cfg *config.Config, opts WindowOptions) error {
	tel, err := app.NewTelemetry(cfg, opts.OutputDir, opts.LogStats)
	if err != nil {
		return err
	}
	defer tel.Close()

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Hero.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	rl.SetExitKey(rl.KeyEscape)

	w := &Window{
		cfg:     cfg,
		opts:    opts,
		surface: NewTextureSurface(NewBackdropRenderer(cfg.Derived.BackdropTop, cfg.Derived.BackdropBottom), cfg.Screen.PixelRatio),
		queue:   starfield.NewFrameQueue(),
		resizes: starfield.NewBroadcaster(),
		tel:     tel,
		hud:     ui.NewHUD(),
		showHUD: cfg.Hero.ShowHUD,
	}
	defer w.surface.Unload()
	w.surface.Sync()

	env := starfield.Env{
		Scheduler: w.queue,
		Resize:    w.resizes,
		Logger:    opts.Logger,
		Probe:     tel.Perf,
	}
	if opts.Seed != 0 {
		env.Rand = rand.New(rand.NewSource(opts.Seed))
	}
	w.hero = app.NewHero(w.surface, env, cfg.Derived.Options)
	w.hero.OnRemount(tel.Remounted)

	if err := w.hero.Mount(); err != nil {
		return err
	}
	defer w.hero.Unmount()

	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return nil
		}
		if err := w.reload(); err != nil {
			return err
		}
		w.handleInput()

		w.surface.Begin()
		w.queue.Pump()
		w.surface.End()

		w.draw()

		tel.RecordFrame()
		total := tel.Sample(w.hero)
		if opts.MaxFrames > 0 && total >= uint64(opts.MaxFrames) {
			slog.Info("max frames reached", "frames", total)
			return nil
		}
	}
	return nil
}

// reload remounts with the newest config, if one arrived.
func (w *Window) reload() error {
	select {
	case next := <-w.opts.Reload:
		if next == nil {
			return nil
		}
		w.cfg = next
		if err := w.hero.Remount(next.Derived.Options); err != nil {
			slog.Warn("remount failed, keeping previous options", "error", err)
			return w.hero.Mount()
		}
	default:
	}
	return nil
}

// handleInput processes keyboard input and window resizes.
func (w *Window) handleInput() {
	w.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		w.showHUD = !w.showHUD
	}
	if rl.IsKeyPressed(rl.KeyR) {
		w.remount()
	}
}

// handleResize reallocates the surface and notifies the animator.
func (w *Window) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	if w.surface.Sync() {
		w.resizes.Notify()
	}
}

func (w *Window) remount() {
	if err := w.hero.Remount(w.hero.Options()); err != nil {
		slog.Warn("remount failed", "error", err)
	}
}

func (w *Window) draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(ToRL(w.cfg.Derived.BackdropTop))
	w.surface.Draw()

	data := w.hudData()
	w.hud.DrawHero(data, ToRL(w.cfg.Derived.Options.Color))
	if !w.showHUD {
		return
	}
	if w.hud.DrawStats(data) {
		w.remount()
	}
	w.hud.DrawControls(data.ScreenHeight, controlsLegend)
}

func (w *Window) hudData() ui.HUDData {
	perf := w.tel.Perf.Stats()
	data := ui.HUDData{
		Title:        w.cfg.Hero.Title,
		Tagline:      w.cfg.Hero.Tagline,
		State:        starfield.StateStopped.String(),
		PixelRatio:   w.surface.PixelRatio(),
		FPS:          int32(rl.GetFPS()),
		AvgTick:      perf.AvgTickDuration,
		P95Tick:      perf.P95TickDuration,
		Opacity:      w.tel.Last().OpacityMean,
		ScreenWidth:  int32(rl.GetScreenWidth()),
		ScreenHeight: int32(rl.GetScreenHeight()),
	}
	if st, err := w.hero.Stats(); err == nil {
		data.State = st.State.String()
		data.Frames = st.Frames
		data.Generations = st.Generations
		data.Particles = st.Particles
		data.Width = st.Bounds.Width
		data.Height = st.Bounds.Height
	}
	return data
}
