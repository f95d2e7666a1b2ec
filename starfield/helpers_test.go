package starfield

import (
	"image/color"
	"io"
	"log/slog"
	"math/rand"
	"sync"
)

type circle struct {
	X, Y, R float64
	C       color.NRGBA
}

// fakeSurface records drawing calls. Safe for concurrent use.
type fakeSurface struct {
	mu        sync.Mutex
	w, h      float64
	ratio     float64
	invalid   bool
	panicDraw bool
	clears    int
	frame     []circle // circles since the last Clear
}

func newFakeSurface(w, h float64) *fakeSurface {
	return &fakeSurface{w: w, h: h, ratio: 1}
}

func (s *fakeSurface) Size() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w, s.h
}

func (s *fakeSurface) PixelRatio() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ratio
}

func (s *fakeSurface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	s.frame = s.frame[:0]
}

func (s *fakeSurface) FillCircle(x, y, r float64, c color.NRGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panicDraw {
		panic("surface lost")
	}
	s.frame = append(s.frame, circle{X: x, Y: y, R: r, C: c})
}

func (s *fakeSurface) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.invalid
}

func (s *fakeSurface) resize(w, h float64) {
	s.mu.Lock()
	s.w, s.h = w, h
	s.mu.Unlock()
}

func (s *fakeSurface) stats() (clears int, circles []circle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears, append([]circle(nil), s.frame...)
}

// manualScheduler keeps every callback and ignores cancellation, so stale
// callbacks can be fired on purpose.
type manualScheduler struct {
	mu  sync.Mutex
	fns []func()
}

func (m *manualScheduler) RequestFrame(fn func()) func() {
	m.mu.Lock()
	m.fns = append(m.fns, fn)
	m.mu.Unlock()
	return func() {}
}

func (m *manualScheduler) take() []func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	fns := m.fns
	m.fns = nil
	return fns
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seeded() *rand.Rand {
	return rand.New(rand.NewSource(7))
}
