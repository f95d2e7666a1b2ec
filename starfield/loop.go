package starfield

import "sync"

// Loop drives one frame per scheduler tick while running.
//
// States are Idle and Scheduled. Start is the only Idle->Scheduled transition;
// Stop returns to Idle from any point in the cycle. Each frame requests the
// next one only after it has completed, so frames never overlap and at most
// one is pending.
type Loop struct {
	sched Scheduler
	frame func()

	mu       sync.Mutex
	running  bool
	gen      uint64        // bumped on every Start/Stop, stale callbacks compare against it
	cancel   func()        // pending frame
	inflight chan struct{} // closed when the current frame returns
	frames   uint64
}

// NewLoop creates an idle loop that calls frame once per scheduled tick.
func NewLoop(sched Scheduler, frame func()) *Loop {
	return &Loop{sched: sched, frame: frame}
}

// Start schedules the first frame. It returns false if the loop was already running.
func (l *Loop) Start() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return false
	}
	l.running = true
	l.gen++
	l.scheduleLocked(l.gen)
	return true
}

// Stop cancels the pending frame and waits for an in-flight frame to return.
// It is idempotent. It must not be called from inside the frame function;
// use Halt there.
func (l *Loop) Stop() {
	done := l.halt()
	if done != nil {
		<-done
	}
}

// Halt stops the loop without waiting for the in-flight frame.
func (l *Loop) Halt() {
	l.halt()
}

func (l *Loop) halt() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running {
		return nil
	}
	l.running = false
	l.gen++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	return l.inflight
}

// Running reports whether a frame is scheduled or executing.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Frames returns the number of frames executed so far.
func (l *Loop) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

func (l *Loop) scheduleLocked(gen uint64) {
	l.cancel = l.sched.RequestFrame(func() { l.tick(gen) })
}

func (l *Loop) tick(gen uint64) {
	l.mu.Lock()
	if !l.running || gen != l.gen {
		l.mu.Unlock()
		return
	}
	l.cancel = nil
	done := make(chan struct{})
	l.inflight = done
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.frames++
		if l.running && gen == l.gen {
			l.scheduleLocked(gen)
		}
		l.inflight = nil
		l.mu.Unlock()
		close(done)
	}()

	l.frame()
}
