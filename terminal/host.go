package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/starfield/app"
	"github.com/pthm-cable/starfield/config"
	"github.com/pthm-cable/starfield/starfield"
)

// Options control a terminal run.
type Options struct {
	Seed      int64
	LogStats  bool
	OutputDir string
	Reload    <-chan *config.Config
	Logger    *slog.Logger

	// OnFrame, if set, runs on the Run goroutine after each frame is shown.
	OnFrame func(tcell.Screen)
}

// Host renders the hero section into a tcell screen. Frames run on the Run
// goroutine; resize events arrive from the screen's event goroutine.
type Host struct {
	screen  tcell.Screen
	surface *CellSurface
	queue   *starfield.FrameQueue
	resizes *starfield.Broadcaster
	tel     *app.Telemetry
	cfg     *config.Config
	opts    Options

	Hero *app.Hero
}

// NewHost initializes screen and prepares a hero over it. The host owns the
// screen from here on and finalizes it when Run returns.
func NewHost(screen tcell.Screen, cfg *config.Config, opts Options) (*Host, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}

	tel, err := app.NewTelemetry(cfg, opts.OutputDir, opts.LogStats)
	if err != nil {
		screen.Fini()
		return nil, err
	}

	h := &Host{
		screen:  screen,
		surface: NewCellSurface(screen, cfg.Derived.BackdropTop),
		queue:   starfield.NewFrameQueue(),
		resizes: starfield.NewBroadcaster(),
		tel:     tel,
		cfg:     cfg,
		opts:    opts,
	}

	env := starfield.Env{
		Scheduler: h.queue,
		Resize:    h.resizes,
		Logger:    opts.Logger,
		Probe:     tel.Perf,
	}
	if opts.Seed != 0 {
		env.Rand = rand.New(rand.NewSource(opts.Seed))
	}
	h.Hero = app.NewHero(h.surface, env, cfg.Derived.Options)
	h.Hero.OnRemount(tel.Remounted)
	return h, nil
}

// Run mounts the starfield and draws until ctx is done or the user quits
// with Esc, Ctrl-C or q. Pressing r remounts with a fresh population.
func (h *Host) Run(ctx context.Context) error {
	defer h.tel.Close()
	defer h.screen.Fini()

	if err := h.Hero.Mount(); err != nil {
		return err
	}
	defer h.Hero.Unmount()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return // screen finalized
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	h.screen.HideCursor()

	ticker := time.NewTicker(h.cfg.Derived.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			if !h.handleEvent(ev) {
				return nil
			}

		case next := <-h.opts.Reload:
			if next == nil {
				continue
			}
			h.cfg = next
			if err := h.Hero.Remount(next.Derived.Options); err != nil {
				slog.Warn("remount failed, keeping previous options", "error", err)
				if err := h.Hero.Mount(); err != nil {
					return err
				}
			}

		case <-ticker.C:
			h.queue.Pump()
			h.drawTitle()
			h.screen.Show()
			if h.opts.OnFrame != nil {
				h.opts.OnFrame(h.screen)
			}
			h.tel.RecordFrame()
			h.tel.Sample(h.Hero)
		}
	}
}

// handleEvent returns false when the user asked to quit.
func (h *Host) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'r':
			if err := h.Hero.Remount(h.Hero.Options()); err != nil {
				slog.Warn("remount failed", "error", err)
			}
		}

	case *tcell.EventResize:
		h.screen.Sync()
		h.resizes.Notify()
	}
	return true
}

// drawTitle centers the hero title and tagline over the field.
func (h *Host) drawTitle() {
	w, rows := h.screen.Size()
	mid := rows / 2
	fg := toTcell(h.cfg.Derived.Options.Color)
	bg := toTcell(h.cfg.Derived.BackdropTop)

	title := tcell.StyleDefault.Background(bg).Foreground(tcell.ColorWhite).Bold(true)
	tagline := tcell.StyleDefault.Background(bg).Foreground(fg)
	drawCentered(h.screen, w, mid-1, h.cfg.Hero.Title, title)
	drawCentered(h.screen, w, mid+1, h.cfg.Hero.Tagline, tagline)
}

func drawCentered(s tcell.Screen, width, row int, text string, style tcell.Style) {
	if text == "" || row < 0 {
		return
	}
	runes := []rune(text)
	x := (width - len(runes)) / 2
	for i, r := range runes {
		if x+i >= 0 && x+i < width {
			s.SetContent(x+i, row, r, nil, style)
		}
	}
}
