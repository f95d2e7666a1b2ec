package starfield

import "sync"

// Broadcaster is a ResizeSource a host feeds with Notify when its surface
// changes size.
type Broadcaster struct {
	mu        sync.Mutex
	nextID    uint64
	observers map[uint64]func()
}

// NewBroadcaster creates a broadcaster with no observers.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{observers: make(map[uint64]func())}
}

// Observe implements ResizeSource.
func (b *Broadcaster) Observe(fn func()) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.observers[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.observers, id)
			b.mu.Unlock()
		})
	}
}

// Notify calls every registered observer on the calling goroutine.
func (b *Broadcaster) Notify() {
	b.mu.Lock()
	fns := make([]func(), 0, len(b.observers))
	for _, fn := range b.observers {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Observers returns the number of attached observers.
func (b *Broadcaster) Observers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.observers)
}
