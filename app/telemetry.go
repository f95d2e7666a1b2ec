package app

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/starfield/config"
	"github.com/pthm-cable/starfield/starfield"
	"github.com/pthm-cable/starfield/telemetry"
)

// Telemetry samples a hero's animator into stats windows, logs them and
// writes them to CSV.
type Telemetry struct {
	Perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	logStats  bool
	windows   int
	lastStats telemetry.WindowStats
	sampled   *starfield.Animator
}

// NewTelemetry creates telemetry for cfg. outputDir may be empty to disable CSV output.
func NewTelemetry(cfg *config.Config, outputDir string, logStats bool) (*Telemetry, error) {
	out, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return nil, err
	}
	if err := out.WriteConfig(cfg); err != nil {
		out.Close()
		return nil, err
	}
	return &Telemetry{
		Perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.FrameInterval),
		output:    out,
		logStats:  logStats,
	}, nil
}

// Remounted tells the collector that frame counters restarted.
func (t *Telemetry) Remounted() {
	t.collector.RecordRemount()
}

// Sample folds the hero's current counters in and flushes a window when one
// is complete. It returns the total frames seen across remounts.
func (t *Telemetry) Sample(h *Hero) uint64 {
	anim := h.Animator()
	if anim == nil {
		return t.collector.TotalFrames()
	}
	if anim != t.sampled {
		// A fresh instance counts from zero even if it already passed the
		// previous one's totals.
		if t.sampled != nil {
			t.collector.RecordRestart()
		}
		t.sampled = anim
	}
	total := t.collector.Observe(anim.Stats())
	if !t.collector.ShouldFlush() {
		return total
	}

	stats := t.collector.Flush(anim.Stats(), anim.Particles())
	perfStats := t.Perf.Stats()
	t.windows++
	t.lastStats = stats

	if t.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := t.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := t.output.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	return total
}

// RecordFrame records host frame timing.
func (t *Telemetry) RecordFrame() {
	t.Perf.RecordFrame()
}

// Windows returns the number of flushed windows.
func (t *Telemetry) Windows() int {
	return t.windows
}

// Last returns the most recently flushed window.
func (t *Telemetry) Last() telemetry.WindowStats {
	return t.lastStats
}

// Close closes the CSV output.
func (t *Telemetry) Close() error {
	return t.output.Close()
}

// frameTicker paces a monitor loop at the configured frame interval.
func frameTicker(cfg *config.Config) *time.Ticker {
	d := cfg.Derived.FrameInterval
	if d <= 0 {
		d = time.Second / 60
	}
	return time.NewTicker(d)
}
