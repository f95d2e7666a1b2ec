package starfield

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Defaults applied to zero-valued Options fields.
const (
	DefaultCount       = 150
	DefaultSpeed       = 0.5
	DefaultTwinkleRate = 0.02
)

// DefaultColor is the accent color stars are painted with (#D36427).
var DefaultColor = color.NRGBA{R: 0xD3, G: 0x64, B: 0x27, A: 0xFF}

// Errors returned by New.
var (
	ErrNilSurface     = errors.New("starfield: nil surface")
	ErrNilScheduler   = errors.New("starfield: nil scheduler")
	ErrInvalidOptions = errors.New("starfield: invalid options")
)

// Options configure an animator. They are copied at construction and never
// change afterwards. Zero fields take the package defaults.
type Options struct {
	Count       int         // particles to maintain
	Speed       float64     // base drift magnitude
	TwinkleRate float64     // phase increment per frame
	Color       color.NRGBA // accent color; alpha is scaled by opacity
}

// DefaultOptions returns the defaults for every field.
func DefaultOptions() Options {
	return Options{
		Count:       DefaultCount,
		Speed:       DefaultSpeed,
		TwinkleRate: DefaultTwinkleRate,
		Color:       DefaultColor,
	}
}

// WithDefaults fills zero fields with defaults.
func (o Options) WithDefaults() Options {
	if o.Count == 0 {
		o.Count = DefaultCount
	}
	if o.Speed == 0 {
		o.Speed = DefaultSpeed
	}
	if o.TwinkleRate == 0 {
		o.TwinkleRate = DefaultTwinkleRate
	}
	if o.Color == (color.NRGBA{}) {
		o.Color = DefaultColor
	}
	return o
}

// Validate rejects negative or non-finite values.
func (o Options) Validate() error {
	if o.Count < 0 {
		return fmt.Errorf("%w: count %d", ErrInvalidOptions, o.Count)
	}
	if o.Speed < 0 || math.IsNaN(o.Speed) || math.IsInf(o.Speed, 0) {
		return fmt.Errorf("%w: speed %v", ErrInvalidOptions, o.Speed)
	}
	if o.TwinkleRate < 0 || math.IsNaN(o.TwinkleRate) || math.IsInf(o.TwinkleRate, 0) {
		return fmt.Errorf("%w: twinkle rate %v", ErrInvalidOptions, o.TwinkleRate)
	}
	return nil
}

// State is the animator lifecycle state.
type State int32

const (
	StateUninitialized State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Env is what the host environment supplies besides the surface.
type Env struct {
	Scheduler Scheduler    // required
	Resize    ResizeSource // optional; nil means the surface never resizes
	Rand      *rand.Rand   // optional; must not be shared with other goroutines
	Logger    *slog.Logger // optional; defaults to slog.Default()
	Probe     Probe        // optional frame timing hook
}

// Stats is a point-in-time view of an animator.
type Stats struct {
	State       State
	Frames      uint64
	Generations uint64 // populations generated, including the initial one
	Particles   int
	Bounds      Bounds
}

// Animator renders a drifting, twinkling particle field onto a surface.
//
// Construction starts the render loop and subscribes to resize
// notifications. Stop or Destroy releases both; a stopped animator cannot be
// restarted.
type Animator struct {
	id      uuid.UUID
	opts    Options
	surface Surface
	store   *Store
	adapter *adapter
	loop    *Loop
	probe   Probe
	log     *slog.Logger

	mu    sync.Mutex
	state State

	generations atomic.Uint64
}

// New binds an animator to surface and starts it.
func New(surface Surface, env Env, opts Options) (*Animator, error) {
	if surface == nil {
		return nil, ErrNilSurface
	}
	if env.Scheduler == nil {
		return nil, ErrNilScheduler
	}
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	logger := env.Logger
	if logger == nil {
		logger = slog.Default()
	}
	probe := env.Probe
	if probe == nil {
		probe = nopProbe{}
	}

	a := &Animator{
		id:      uuid.New(),
		opts:    opts,
		surface: surface,
		store:   NewStore(env.Rand, opts.Speed),
		probe:   probe,
		log:     logger,
		state:   StateUninitialized,
	}
	a.adapter = newAdapter(surface, a.regenerate)
	a.loop = NewLoop(env.Scheduler, a.frame)

	a.adapter.attach(env.Resize)

	a.mu.Lock()
	a.state = StateRunning
	a.mu.Unlock()
	a.loop.Start()

	b := a.adapter.Bounds()
	a.log.Info("animator_started",
		"animator_id", a.id.String(),
		"count", opts.Count,
		"speed", opts.Speed,
		"twinkle_rate", opts.TwinkleRate,
		"width", b.Width,
		"height", b.Height,
	)
	return a, nil
}

func (a *Animator) regenerate(b Bounds) {
	a.store.Generate(a.opts.Count, b)
	n := a.generations.Add(1)
	if n > 1 {
		a.log.Debug("population_regenerated",
			"animator_id", a.id.String(),
			"width", b.Width,
			"height", b.Height,
			"generation", n,
		)
	}
}

// frame is one tick: advance, then paint. A panic tears the animator down
// instead of escaping into the host.
func (a *Animator) frame() {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("frame_panic", "animator_id", a.id.String(), "panic", fmt.Sprint(r))
			a.teardown(false)
		}
	}()

	a.probe.StartTick()
	a.probe.StartPhase(PhaseAdvance)
	a.adapter.withBounds(func(b Bounds) {
		a.store.Advance(b, a.opts.TwinkleRate)
	})
	a.probe.StartPhase(PhasePaint)
	a.paint()
	a.probe.EndTick()
}

func (a *Animator) paint() {
	if v, ok := a.surface.(Validator); ok && !v.Valid() {
		return
	}
	a.surface.Clear()

	base := a.opts.Color
	a.store.Each(func(p Particle) {
		c := base
		c.A = uint8(math.Round(p.Opacity * float64(base.A)))
		a.surface.FillCircle(p.X, p.Y, p.Radius, c)
	})
}

// Stop halts the loop and detaches the resize observer. It waits for an
// in-flight frame and is safe to call any number of times.
func (a *Animator) Stop() {
	a.teardown(true)
}

// Destroy is Stop; it exists for hosts that pair construction with destruction.
func (a *Animator) Destroy() {
	a.Stop()
}

func (a *Animator) teardown(wait bool) {
	a.mu.Lock()
	if a.state != StateRunning {
		a.mu.Unlock()
		return
	}
	a.state = StateStopped
	a.mu.Unlock()

	if wait {
		a.loop.Stop()
	} else {
		a.loop.Halt()
	}
	a.adapter.close()

	a.log.Info("animator_stopped",
		"animator_id", a.id.String(),
		"frames", a.loop.Frames(),
		"generations", a.generations.Load(),
	)
}

// ID identifies this animator instance in logs.
func (a *Animator) ID() uuid.UUID {
	return a.id
}

// Options returns the options in effect, defaults applied.
func (a *Animator) Options() Options {
	return a.opts
}

// State returns the lifecycle state.
func (a *Animator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Running reports whether the animator is in StateRunning.
func (a *Animator) Running() bool {
	return a.State() == StateRunning
}

// Bounds returns the current logical surface bounds.
func (a *Animator) Bounds() Bounds {
	return a.adapter.Bounds()
}

// Particles returns a copy of the current population.
func (a *Animator) Particles() []Particle {
	return a.store.Snapshot()
}

// Stats returns counters and the current state.
func (a *Animator) Stats() Stats {
	return Stats{
		State:       a.State(),
		Frames:      a.loop.Frames(),
		Generations: a.generations.Load(),
		Particles:   a.store.Len(),
		Bounds:      a.adapter.Bounds(),
	}
}
