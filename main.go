package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/starfield/app"
	"github.com/pthm-cable/starfield/config"
	"github.com/pthm-cable/starfield/renderer"
	"github.com/pthm-cable/starfield/terminal"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	mode := flag.String("mode", "window", "Host: window, terminal or headless")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	watch := flag.Bool("watch", false, "Reload -config on change and remount the starfield")

	flag.Parse()

	// Headless logs JSON to stdout; the other hosts own the screen, so logs go to stderr.
	var logger *slog.Logger
	if *mode == "headless" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reload := make(chan *config.Config, 1)
	if *watch {
		if *configPath == "" {
			slog.Error("-watch requires -config")
			os.Exit(1)
		}
		go func() {
			err := config.Watch(ctx, *configPath, func(next *config.Config) {
				config.Set(next)
				// Keep only the newest config if the host has not picked up the last one.
				select {
				case <-reload:
				default:
				}
				reload <- next
			})
			if err != nil {
				slog.Error("config watch stopped", "error", err)
			}
		}()
	}

	slog.Info("starting starfield",
		"mode", *mode,
		"seed", rngSeed,
		"count", cfg.Derived.Options.Count,
		"max_frames", *maxFrames,
	)

	var err error
	switch *mode {
	case "headless":
		var res app.HeadlessResult
		res, err = app.RunHeadless(ctx, cfg, app.HeadlessOptions{
			Seed:      rngSeed,
			MaxFrames: *maxFrames,
			LogStats:  *logStats,
			OutputDir: *outputDir,
			Reload:    reload,
			Logger:    logger,
		})
		slog.Info("headless run finished",
			"frames", res.Frames,
			"windows", res.Windows,
			"remounts", res.Remounts,
			"resizes", res.Resizes,
		)

	case "terminal":
		var screen tcell.Screen
		screen, err = tcell.NewScreen()
		if err != nil {
			break
		}
		var host *terminal.Host
		host, err = terminal.NewHost(screen, cfg, terminal.Options{
			Seed:      rngSeed,
			LogStats:  *logStats,
			OutputDir: *outputDir,
			Reload:    reload,
			Logger:    logger,
		})
		if err != nil {
			break
		}
		err = host.Run(ctx)

	case "window":
		err = renderer.RunWindow(ctx, cfg, renderer.WindowOptions{
			Seed:      rngSeed,
			MaxFrames: *maxFrames,
			LogStats:  *logStats,
			OutputDir: *outputDir,
			Reload:    reload,
			Logger:    logger,
		})

	default:
		slog.Error("unknown mode", "mode", *mode)
		os.Exit(2)
	}

	if err != nil {
		slog.Error("starfield failed", "mode", *mode, "error", err)
		os.Exit(1)
	}
}
