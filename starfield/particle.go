package starfield

import "math"

// Generation constants.
const (
	RadiusMin = 0.5
	RadiusMax = 2.5

	// Dampening scales the configured speed down to a gentle per-frame drift.
	Dampening = 0.1
)

// Opacity curve: (sin(phase)+1)*OpacityScale + OpacityFloor, range [0.2, 0.8].
const (
	OpacityScale = 0.3
	OpacityFloor = 0.2
)

// Particle is a read-only snapshot of one star.
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Radius  float64
	Phase   float64
	Opacity float64
}

// Bounds are logical (pixel-ratio corrected) surface dimensions.
type Bounds struct {
	Width, Height float64
}

// Contains reports whether (x, y) lies in [0, Width) x [0, Height).
// A zero dimension contains only the coordinate 0.
func (b Bounds) Contains(x, y float64) bool {
	return inAxis(x, b.Width) && inAxis(y, b.Height)
}

// Area returns Width*Height.
func (b Bounds) Area() float64 {
	return b.Width * b.Height
}

func inAxis(v, size float64) bool {
	if size <= 0 {
		return v == 0
	}
	return v >= 0 && v < size
}

// TwinkleOpacity maps a twinkle phase to opacity.
func TwinkleOpacity(phase float64) float64 {
	return (math.Sin(phase)+1)*OpacityScale + OpacityFloor
}

// wrap folds v onto the torus [0, size). Velocity is never touched by a wrap,
// so a particle leaving one edge re-enters at the opposite edge.
func wrap(v, size float64) float64 {
	if size <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v >= 0 && v < size {
		return v
	}
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	// -tiny + size rounds to size
	if v >= size {
		v = 0
	}
	return v
}
