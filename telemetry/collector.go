package telemetry

import (
	"time"

	"github.com/pthm-cable/starfield/starfield"
)

// Collector accumulates events within frame windows and produces WindowStats.
type Collector struct {
	windowFrames  uint64
	frameInterval time.Duration

	// Current window tracking
	windowStart uint64
	total       uint64 // frames across remounts

	// Counters for current window
	lastFrames      uint64
	lastGenerations uint64
	regenerations   int
	remounts        int
}

// NewCollector creates a new stats collector.
// windowFrames: frames per window
// frameInterval: nominal time per frame (used for frame-to-time conversion)
func NewCollector(windowFrames int, frameInterval time.Duration) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{
		windowFrames:  uint64(windowFrames),
		frameInterval: frameInterval,
	}
}

// RecordRemount records that the animator was replaced by a new instance.
// Frame and generation counters restart with the new instance.
func (c *Collector) RecordRemount() {
	c.remounts++
	c.RecordRestart()
}

// RecordRestart resets the per-instance baselines without counting a remount,
// for an animator that was unmounted and mounted again.
func (c *Collector) RecordRestart() {
	c.lastFrames = 0
	c.lastGenerations = 0
}

// Observe folds the animator counters into the current window and returns
// the total frame count across remounts. Counters lower than the last seen
// values mean a new instance, which restarts the baselines.
func (c *Collector) Observe(st starfield.Stats) uint64 {
	if st.Frames < c.lastFrames || st.Generations < c.lastGenerations {
		c.RecordRestart()
	}
	if st.Frames > c.lastFrames {
		c.total += st.Frames - c.lastFrames
		c.lastFrames = st.Frames
	}
	if st.Generations > c.lastGenerations {
		n := st.Generations - c.lastGenerations
		if c.lastGenerations == 0 {
			n-- // the initial population is not a regeneration
		}
		c.regenerations += int(n)
		c.lastGenerations = st.Generations
	}
	return c.total
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush() bool {
	return c.total-c.windowStart >= c.windowFrames
}

// Flush produces a WindowStats and resets counters for the next window.
// The caller provides the animator stats and a particle snapshot taken at the
// same moment.
func (c *Collector) Flush(st starfield.Stats, ps []starfield.Particle) WindowStats {
	c.Observe(st)

	stats := WindowStats{
		WindowStartFrame: c.windowStart,
		WindowEndFrame:   c.total,
		ElapsedSec:       (time.Duration(c.total) * c.frameInterval).Seconds(),
		Regenerations:    c.regenerations,
		Remounts:         c.remounts,
	}
	populationStats(&stats, ps, st.Bounds)

	// Reset for next window
	c.windowStart = c.total
	c.regenerations = 0
	c.remounts = 0

	return stats
}

// WindowFrames returns the number of frames per window.
func (c *Collector) WindowFrames() uint64 {
	return c.windowFrames
}

// TotalFrames returns the frames observed across all animator instances.
func (c *Collector) TotalFrames() uint64 {
	return c.total
}
