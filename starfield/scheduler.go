package starfield

import (
	"sync"
	"time"
)

// TimerScheduler runs each requested frame after a fixed interval on a timer
// goroutine. It suits hosts without a display loop.
type TimerScheduler struct {
	Interval time.Duration
}

// NewTimerScheduler returns a scheduler paced at fps frames per second.
// fps <= 0 falls back to 60.
func NewTimerScheduler(fps int) *TimerScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &TimerScheduler{Interval: time.Second / time.Duration(fps)}
}

// RequestFrame implements Scheduler.
func (s *TimerScheduler) RequestFrame(fn func()) func() {
	t := time.AfterFunc(s.Interval, fn)
	return func() { t.Stop() }
}

// FrameQueue is a Scheduler pumped by a host's own frame loop. Callbacks
// requested during a Pump run on the next Pump, never the current one.
type FrameQueue struct {
	mu      sync.Mutex
	nextID  uint64
	order   []uint64
	pending map[uint64]func()
}

// NewFrameQueue creates an empty queue.
func NewFrameQueue() *FrameQueue {
	return &FrameQueue{pending: make(map[uint64]func())}
}

// RequestFrame implements Scheduler.
func (q *FrameQueue) RequestFrame(fn func()) func() {
	q.mu.Lock()
	id := q.nextID
	q.nextID++
	q.pending[id] = fn
	q.order = append(q.order, id)
	q.mu.Unlock()

	return func() {
		q.mu.Lock()
		delete(q.pending, id)
		q.mu.Unlock()
	}
}

// Pump runs every callback pending at call time, in request order, on the
// calling goroutine. It returns the number of callbacks run.
func (q *FrameQueue) Pump() int {
	q.mu.Lock()
	order := q.order
	q.order = nil
	fns := make([]func(), 0, len(order))
	for _, id := range order {
		if fn, ok := q.pending[id]; ok {
			fns = append(fns, fn)
			delete(q.pending, id)
		}
	}
	q.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Pending returns the number of callbacks waiting for the next Pump.
func (q *FrameQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
