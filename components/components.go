// Package components defines the ECS components that make up a particle.
package components

// Position is a particle's location in surface-local logical units.
type Position struct {
	X, Y float64
}

// Velocity is the per-frame drift of a particle.
type Velocity struct {
	X, Y float64
}

// Twinkle drives the opacity oscillation of a particle.
// Opacity is derived from Phase on every advance and never set directly.
type Twinkle struct {
	Phase   float64 // radians, monotonically increasing
	Opacity float64 // [0, 1]
}
