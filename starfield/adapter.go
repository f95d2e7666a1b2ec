package starfield

import "sync"

// adapter keeps particle-space bounds in step with the bound surface.
type adapter struct {
	surface  Surface
	onResize func(Bounds)

	mu       sync.Mutex
	bounds   Bounds
	detach   func()
	closed   bool
	attached bool
}

func newAdapter(surface Surface, onResize func(Bounds)) *adapter {
	return &adapter{surface: surface, onResize: onResize}
}

// measure returns the logical size of the surface.
func (a *adapter) measure() Bounds {
	w, h := a.surface.Size()
	ratio := a.surface.PixelRatio()
	if ratio <= 0 {
		ratio = 1
	}
	b := Bounds{Width: w / ratio, Height: h / ratio}
	if !(b.Width > 0) {
		b.Width = 0
	}
	if !(b.Height > 0) {
		b.Height = 0
	}
	return b
}

// attach measures the surface, seeds the population through onResize and
// then subscribes to src. Seeding happens before subscribing so a resize
// notification can never be overwritten by the initial generation.
func (a *adapter) attach(src ResizeSource) {
	a.mu.Lock()
	a.bounds = a.measure()
	a.onResize(a.bounds)
	a.mu.Unlock()

	if src == nil {
		return
	}
	detach := src.Observe(a.handle)

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		if detach != nil {
			detach()
		}
		return
	}
	a.detach = detach
	a.attached = true
	a.mu.Unlock()
}

// handle is the resize callback. Unchanged bounds are ignored; late calls
// after close are no-ops.
func (a *adapter) handle() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	b := a.measure()
	if b == a.bounds {
		return
	}
	a.bounds = b
	a.onResize(b)
}

// Bounds returns the last measured logical bounds.
func (a *adapter) Bounds() Bounds {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bounds
}

// withBounds runs fn with the current bounds while holding off regeneration,
// so fn never pairs a population with bounds it was not generated for.
func (a *adapter) withBounds(fn func(Bounds)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(a.bounds)
}

// close detaches from the resize source. Safe to call more than once.
func (a *adapter) close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	detach := a.detach
	a.detach = nil
	a.attached = false
	a.mu.Unlock()

	// outside the lock: a source may wait for in-flight callbacks
	if detach != nil {
		detach()
	}
}

func (a *adapter) isAttached() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.attached
}
