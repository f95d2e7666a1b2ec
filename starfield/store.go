package starfield

import (
	"math"
	"math/rand"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/starfield/components"
)

// population is one generation of particles. Each generation lives in its own
// ECS world so a regeneration can be published as a single pointer swap.
type population struct {
	world  *ecs.World
	filter *ecs.Filter4[components.Position, components.Velocity, components.Body, components.Twinkle]
	count  int
}

// Store holds the current particle population and advances it one frame at a time.
type Store struct {
	mu  sync.Mutex // guards pop; ark worlds are not safe for concurrent queries
	pop *population

	rngMu sync.Mutex
	rng   *rand.Rand
	speed float64
}

// NewStore creates an empty store. speed scales initial velocities.
func NewStore(rng *rand.Rand, speed float64) *Store {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Store{
		rng:   rng,
		speed: speed,
		pop:   newPopulation(),
	}
}

func newPopulation() *population {
	world := ecs.NewWorld()
	return &population{
		world:  world,
		filter: ecs.NewFilter4[components.Position, components.Velocity, components.Body, components.Twinkle](world),
	}
}

// Generate replaces the entire population with count fresh particles spread
// uniformly over b. The new population is built before the lock is taken.
func (s *Store) Generate(count int, b Bounds) {
	if count < 0 {
		count = 0
	}
	pop := s.build(count, b)

	s.mu.Lock()
	s.pop = pop
	s.mu.Unlock()
}

func (s *Store) build(count int, b Bounds) *population {
	pop := newPopulation()
	mapper := ecs.NewMap4[components.Position, components.Velocity, components.Body, components.Twinkle](pop.world)

	s.rngMu.Lock()
	defer s.rngMu.Unlock()

	drift := s.speed * Dampening
	for i := 0; i < count; i++ {
		pos := components.Position{
			X: wrap(s.rng.Float64()*b.Width, b.Width),
			Y: wrap(s.rng.Float64()*b.Height, b.Height),
		}
		body := components.Body{Radius: RadiusMin + s.rng.Float64()*(RadiusMax-RadiusMin)}
		tw := components.Twinkle{
			Opacity: s.rng.Float64(),
			Phase:   s.rng.Float64() * 2 * math.Pi,
		}
		vel := components.Velocity{
			X: (s.rng.Float64() - 0.5) * drift,
			Y: (s.rng.Float64() - 0.5) * drift,
		}
		mapper.NewEntity(&pos, &vel, &body, &tw)
	}
	pop.count = count
	return pop
}

// Advance moves every particle by one frame: Euler step, torus wrap,
// phase increment, opacity from phase.
func (s *Store) Advance(b Bounds, twinkleRate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := s.pop.filter.Query()
	for query.Next() {
		pos, vel, _, tw := query.Get()

		pos.X = wrap(pos.X+vel.X, b.Width)
		pos.Y = wrap(pos.Y+vel.Y, b.Height)

		tw.Phase += twinkleRate
		tw.Opacity = TwinkleOpacity(tw.Phase)
	}
}

// Each calls fn for every particle in creation order while holding the lock.
// fn must not call back into the store.
func (s *Store) Each(fn func(p Particle)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := s.pop.filter.Query()
	for query.Next() {
		fn(toParticle(query.Get()))
	}
}

// Snapshot returns a copy of the current population.
func (s *Store) Snapshot() []Particle {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Particle, 0, s.pop.count)
	query := s.pop.filter.Query()
	for query.Next() {
		out = append(out, toParticle(query.Get()))
	}
	return out
}

// Len returns the population size.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pop.count
}

func toParticle(pos *components.Position, vel *components.Velocity, body *components.Body, tw *components.Twinkle) Particle {
	return Particle{
		X:       pos.X,
		Y:       pos.Y,
		VX:      vel.X,
		VY:      vel.Y,
		Radius:  body.Radius,
		Phase:   tw.Phase,
		Opacity: tw.Opacity,
	}
}
