package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/starfield/starfield"
)

// WindowStats holds aggregated statistics for a window of frames.
type WindowStats struct {
	WindowStartFrame uint64  `csv:"-"`
	WindowEndFrame   uint64  `csv:"window_end"`
	ElapsedSec       float64 `csv:"elapsed_sec"`

	// Surface and population at window end
	Width     float64 `csv:"width"`
	Height    float64 `csv:"height"`
	Particles int     `csv:"particles"`

	// Events during window
	Regenerations int `csv:"regenerations"`
	Remounts      int `csv:"remounts"`

	// Opacity distribution (sampled at window end)
	OpacityMean float64 `csv:"opacity_mean"`
	OpacityStd  float64 `csv:"opacity_std"`
	OpacityP10  float64 `csv:"opacity_p10"`
	OpacityP50  float64 `csv:"opacity_p50"`
	OpacityP90  float64 `csv:"opacity_p90"`

	// Motion and size
	SpeedMean  float64 `csv:"speed_mean"` // mean |velocity| per frame
	RadiusMean float64 `csv:"radius_mean"`
	Coverage   float64 `csv:"coverage"` // painted area / surface area, overlaps counted twice
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates mean, population std, and percentiles.
func ComputeDistribution(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	std = math.Sqrt(stat.MomentAbout(2, values, mean, nil))

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// populationStats fills the distribution fields of s from a particle snapshot.
func populationStats(s *WindowStats, ps []starfield.Particle, b starfield.Bounds) {
	s.Particles = len(ps)
	s.Width = b.Width
	s.Height = b.Height
	if len(ps) == 0 {
		return
	}

	opacity := make([]float64, len(ps))
	speed := make([]float64, len(ps))
	radius := make([]float64, len(ps))
	area := make([]float64, len(ps))
	for i, p := range ps {
		opacity[i] = p.Opacity
		speed[i] = math.Hypot(p.VX, p.VY)
		radius[i] = p.Radius
		area[i] = math.Pi * p.Radius * p.Radius
	}

	s.OpacityMean, s.OpacityStd, s.OpacityP10, s.OpacityP50, s.OpacityP90 = ComputeDistribution(opacity)
	s.SpeedMean = stat.Mean(speed, nil)
	s.RadiusMean = stat.Mean(radius, nil)
	if a := b.Area(); a > 0 {
		s.Coverage = floats.Sum(area) / a
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartFrame),
		slog.Uint64("window_end", s.WindowEndFrame),
		slog.Float64("elapsed_sec", s.ElapsedSec),
		slog.Float64("width", s.Width),
		slog.Float64("height", s.Height),
		slog.Int("particles", s.Particles),
		slog.Int("regenerations", s.Regenerations),
		slog.Int("remounts", s.Remounts),
		slog.Float64("opacity_mean", s.OpacityMean),
		slog.Float64("opacity_std", s.OpacityStd),
		slog.Float64("opacity_p10", s.OpacityP10),
		slog.Float64("opacity_p50", s.OpacityP50),
		slog.Float64("opacity_p90", s.OpacityP90),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("radius_mean", s.RadiusMean),
		slog.Float64("coverage", s.Coverage),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"elapsed_sec", s.ElapsedSec,
		"width", s.Width,
		"height", s.Height,
		"particles", s.Particles,
		"regenerations", s.Regenerations,
		"remounts", s.Remounts,
		"opacity_mean", s.OpacityMean,
		"opacity_p10", s.OpacityP10,
		"opacity_p50", s.OpacityP50,
		"opacity_p90", s.OpacityP90,
		"speed_mean", s.SpeedMean,
		"coverage", s.Coverage,
	)
}
