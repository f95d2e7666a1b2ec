package starfield

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_CountAndBounds(t *testing.T) {
	tests := []struct {
		name   string
		count  int
		bounds Bounds
	}{
		{"default hero", 150, Bounds{Width: 1280, Height: 400}},
		{"tiny", 50, Bounds{Width: 1, Height: 1}},
		{"zero area", 20, Bounds{}},
		{"zero width", 20, Bounds{Width: 0, Height: 300}},
		{"empty", 0, Bounds{Width: 100, Height: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(seeded(), 0.5)
			s.Generate(tt.count, tt.bounds)

			ps := s.Snapshot()
			require.Len(t, ps, tt.count)
			require.Equal(t, tt.count, s.Len())
			for i, p := range ps {
				assert.Truef(t, tt.bounds.Contains(p.X, p.Y), "particle %d at (%v, %v) outside %+v", i, p.X, p.Y, tt.bounds)
				assert.GreaterOrEqual(t, p.Radius, RadiusMin)
				assert.Less(t, p.Radius, RadiusMax)
				assert.GreaterOrEqual(t, p.Opacity, 0.0)
				assert.LessOrEqual(t, p.Opacity, 1.0)
				assert.GreaterOrEqual(t, p.Phase, 0.0)
				assert.Less(t, p.Phase, 2*math.Pi)
			}
		})
	}
}

func TestGenerate_VelocityScaledBySpeed(t *testing.T) {
	const speed = 4.0
	s := NewStore(seeded(), speed)
	s.Generate(500, Bounds{Width: 100, Height: 100})

	limit := 0.5 * speed * Dampening
	for _, p := range s.Snapshot() {
		assert.LessOrEqual(t, math.Abs(p.VX), limit)
		assert.LessOrEqual(t, math.Abs(p.VY), limit)
	}
}

func TestGenerate_ReplacesPopulation(t *testing.T) {
	s := NewStore(seeded(), 0.5)
	s.Generate(10, Bounds{Width: 100, Height: 100})
	before := s.Snapshot()

	s.Generate(25, Bounds{Width: 10, Height: 10})
	after := s.Snapshot()

	require.Len(t, before, 10)
	require.Len(t, after, 25)
	for _, p := range after {
		assert.True(t, Bounds{Width: 10, Height: 10}.Contains(p.X, p.Y))
	}
}

func TestAdvance_WrapInvariant(t *testing.T) {
	// speed 300 gives drift up to 15 units per frame, larger than the bounds.
	b := Bounds{Width: 7, Height: 3}
	s := NewStore(seeded(), 300)
	s.Generate(200, b)

	for i := 0; i < 500; i++ {
		s.Advance(b, 0.05)
		for _, p := range s.Snapshot() {
			require.Truef(t, b.Contains(p.X, p.Y), "step %d: (%v, %v) outside %+v", i, p.X, p.Y, b)
		}
	}
}

func TestAdvance_VelocityNeverChanges(t *testing.T) {
	b := Bounds{Width: 5, Height: 5}
	s := NewStore(seeded(), 100)
	s.Generate(30, b)
	before := s.Snapshot()

	for i := 0; i < 100; i++ {
		s.Advance(b, 0.02)
	}
	after := s.Snapshot()

	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].VX, after[i].VX, "particle %d", i)
		assert.Equal(t, before[i].VY, after[i].VY, "particle %d", i)
		assert.Equal(t, before[i].Radius, after[i].Radius, "particle %d", i)
	}
}

func TestAdvance_EulerStepAndPhase(t *testing.T) {
	b := Bounds{Width: 1e6, Height: 1e6}
	s := NewStore(seeded(), 1)
	s.Generate(5, b)
	before := s.Snapshot()

	s.Advance(b, 0.25)
	after := s.Snapshot()

	for i := range before {
		assert.InDelta(t, wrap(before[i].X+before[i].VX, b.Width), after[i].X, 1e-9)
		assert.InDelta(t, wrap(before[i].Y+before[i].VY, b.Height), after[i].Y, 1e-9)
		assert.InDelta(t, before[i].Phase+0.25, after[i].Phase, 1e-12)
		assert.InDelta(t, TwinkleOpacity(after[i].Phase), after[i].Opacity, 1e-12)
	}
}

func TestAdvance_OpacityRange(t *testing.T) {
	b := Bounds{Width: 50, Height: 50}
	s := NewStore(seeded(), 0.5)
	s.Generate(40, b)

	for i := 0; i < 2000; i++ {
		s.Advance(b, 0.37)
	}
	for _, p := range s.Snapshot() {
		assert.GreaterOrEqual(t, p.Opacity, OpacityFloor-1e-12)
		assert.LessOrEqual(t, p.Opacity, OpacityFloor+2*OpacityScale+1e-12)
	}
}

func TestAdvance_ZeroBoundsCollapsesToOrigin(t *testing.T) {
	s := NewStore(seeded(), 10)
	s.Generate(10, Bounds{})
	s.Advance(Bounds{}, 0.02)
	for _, p := range s.Snapshot() {
		assert.Zero(t, p.X)
		assert.Zero(t, p.Y)
	}
}

func TestAdvance_LongRunScenario(t *testing.T) {
	b := Bounds{Width: 100, Height: 100}
	s := NewStore(seeded(), 1)
	s.Generate(10, b)

	for i := 0; i < 1000; i++ {
		s.Advance(b, 0.1)
	}

	ps := s.Snapshot()
	require.Len(t, ps, 10)
	for _, p := range ps {
		require.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y))
		require.True(t, b.Contains(p.X, p.Y))
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		size float64
		want float64
	}{
		{"inside", 4, 10, 4},
		{"zero", 0, 10, 0},
		{"just below", -0.5, 10, 9.5},
		{"upper edge", 10, 10, 0},
		{"past upper", 12.5, 10, 2.5},
		{"many laps negative", -25, 10, 5},
		{"tiny negative rounds to edge", -1e-18, 10, 0},
		{"zero size", 3, 0, 0},
		{"negative size", 3, -4, 0},
		{"nan", math.NaN(), 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrap(tt.v, tt.size)
			assert.InDelta(t, tt.want, got, 1e-12)
			if tt.size > 0 {
				assert.GreaterOrEqual(t, got, 0.0)
				assert.Less(t, got, tt.size)
			}
		})
	}
}

func TestTwinkleOpacity(t *testing.T) {
	assert.InDelta(t, 0.5, TwinkleOpacity(0), 1e-12)
	assert.InDelta(t, 0.8, TwinkleOpacity(math.Pi/2), 1e-12)
	assert.InDelta(t, 0.2, TwinkleOpacity(3*math.Pi/2), 1e-12)

	for phase := -100.0; phase < 100; phase += 0.013 {
		o := TwinkleOpacity(phase)
		if o < 0.2-1e-12 || o > 0.8+1e-12 {
			t.Fatalf("TwinkleOpacity(%v) = %v, outside [0.2, 0.8]", phase, o)
		}
	}
}
