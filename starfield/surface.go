package starfield

import "image/color"

// Surface is a drawing target owned by the caller. The animator only keeps a
// reference to it and never closes it.
type Surface interface {
	// Size returns the physical size in device pixels.
	Size() (width, height float64)
	// PixelRatio returns device pixels per logical unit. Values <= 0 mean 1.
	PixelRatio() float64
	// Clear erases the previous frame.
	Clear()
	// FillCircle draws a filled circle in logical units.
	FillCircle(x, y, radius float64, c color.NRGBA)
}

// Validator is implemented by surfaces that can become unusable, e.g. a
// window whose render target was released. Invalid surfaces are not painted.
type Validator interface {
	Valid() bool
}

// ResizeSource delivers size-change notifications for a surface.
// Notifications may arrive on any goroutine.
type ResizeSource interface {
	// Observe registers fn and returns a function that detaches it.
	Observe(fn func()) (disconnect func())
}

// Scheduler is the host's per-frame primitive, "run fn before the next repaint".
// RequestFrame must not call fn synchronously.
type Scheduler interface {
	RequestFrame(fn func()) (cancel func())
}

// Probe receives frame phase timings. telemetry.PerfCollector satisfies it.
type Probe interface {
	StartTick()
	StartPhase(phase string)
	EndTick()
}

// Frame phases reported to a Probe.
const (
	PhaseAdvance = "advance"
	PhasePaint   = "paint"
)

type nopProbe struct{}

func (nopProbe) StartTick()        {}
func (nopProbe) StartPhase(string) {}
func (nopProbe) EndTick()          {}
