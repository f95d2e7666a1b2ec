package app

import (
	"context"
	"errors"
	"image/color"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/pthm-cable/starfield/config"
	"github.com/pthm-cable/starfield/starfield"
)

// ErrAnimatorStopped is returned when the animator stops on its own, e.g.
// after a frame panic.
var ErrAnimatorStopped = errors.New("app: animator stopped unexpectedly")

// HeadlessOptions control a run without a display.
type HeadlessOptions struct {
	Seed      int64 // 0 leaves the animator's own random source
	MaxFrames int   // stop once at least this many frames ran (0 = until ctx is done)
	LogStats  bool
	OutputDir string
	Reload    <-chan *config.Config // remount with new options when a config arrives
	Logger    *slog.Logger
}

// HeadlessResult summarizes a headless run.
type HeadlessResult struct {
	Frames   uint64
	Windows  int
	Remounts int
	Resizes  int
	Painted  uint64 // circles drawn
}

// RunHeadless animates an off-screen surface until ctx is cancelled or
// MaxFrames is reached. Frames run on timer goroutines at the configured FPS.
func RunHeadless(ctx context.Context, cfg *config.Config, opts HeadlessOptions) (HeadlessResult, error) {
	var res HeadlessResult

	tel, err := NewTelemetry(cfg, opts.OutputDir, opts.LogStats)
	if err != nil {
		return res, err
	}
	defer tel.Close()

	surface := newCountingSurface(float64(cfg.Headless.Width), float64(cfg.Headless.Height))
	resizes := starfield.NewBroadcaster()

	env := starfield.Env{
		Scheduler: &starfield.TimerScheduler{Interval: cfg.Derived.FrameInterval},
		Resize:    resizes,
		Logger:    opts.Logger,
		Probe:     tel.Perf,
	}
	if opts.Seed != 0 {
		env.Rand = rand.New(rand.NewSource(opts.Seed))
	}

	hero := NewHero(surface, env, cfg.Derived.Options)
	hero.OnRemount(func() {
		res.Remounts++
		tel.Remounted()
	})
	if err := hero.Mount(); err != nil {
		return res, err
	}
	defer hero.Unmount()

	ticker := frameTicker(cfg)
	defer ticker.Stop()

	interval := uint64(cfg.Headless.ResizeInterval)
	var nextResize uint64 = interval

	for {
		select {
		case <-ctx.Done():
			return finish(res, tel, surface), nil

		case next := <-opts.Reload:
			if next == nil {
				continue
			}
			if err := hero.Remount(next.Derived.Options); err != nil {
				slog.Warn("remount failed, keeping previous options", "error", err)
				if err := hero.Mount(); err != nil {
					return finish(res, tel, surface), err
				}
			}

		case <-ticker.C:
			if !hero.Mounted() {
				return finish(res, tel, surface), ErrAnimatorStopped
			}
			total := tel.Sample(hero)

			if interval > 0 && total >= nextResize {
				surface.rotate()
				resizes.Notify()
				res.Resizes++
				nextResize = total + interval
			}

			if opts.MaxFrames > 0 && total >= uint64(opts.MaxFrames) {
				slog.Info("max frames reached", "frames", total)
				return finish(res, tel, surface), nil
			}
		}
	}
}

func finish(res HeadlessResult, tel *Telemetry, s *countingSurface) HeadlessResult {
	res.Frames = tel.collector.TotalFrames()
	res.Windows = tel.Windows()
	res.Painted = s.painted()
	return res
}

// countingSurface is an off-screen Surface that only counts draw calls.
type countingSurface struct {
	mu      sync.Mutex
	w, h    float64
	clears  uint64
	circles uint64
}

func newCountingSurface(w, h float64) *countingSurface {
	return &countingSurface{w: w, h: h}
}

func (s *countingSurface) Size() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w, s.h
}

func (s *countingSurface) PixelRatio() float64 { return 1 }

func (s *countingSurface) Clear() {
	s.mu.Lock()
	s.clears++
	s.mu.Unlock()
}

func (s *countingSurface) FillCircle(_, _, _ float64, _ color.NRGBA) {
	s.mu.Lock()
	s.circles++
	s.mu.Unlock()
}

// rotate swaps width and height, like a device turning between portrait and
// landscape.
func (s *countingSurface) rotate() {
	s.mu.Lock()
	s.w, s.h = s.h, s.w
	s.mu.Unlock()
}

func (s *countingSurface) painted() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.circles
}
