package debounce

import (
	"sync"
	"time"
)

// DefaultWindow is the quiescence window applied when none is configured.
const DefaultWindow = time.Second

// Debouncer keeps at most one pending task per key. Triggering a key again
// within the window replaces its pending task.
type Debouncer struct {
	mu     sync.Mutex
	clock  Clock
	window time.Duration
	tasks  map[string]*Task
}

// Option configures a Debouncer.
type Option func(*Debouncer)

// WithClock replaces the runtime clock, mostly for tests.
func WithClock(c Clock) Option {
	return func(d *Debouncer) {
		if c != nil {
			d.clock = c
		}
	}
}

// New creates a debouncer with the given quiescence window.
func New(window time.Duration, opts ...Option) *Debouncer {
	if window < 0 {
		window = DefaultWindow
	}
	d := &Debouncer{clock: RealClock, window: window, tasks: map[string]*Task{}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Window returns the quiescence window.
func (d *Debouncer) Window() time.Duration { return d.window }

// Trigger cancels the pending task of key, if any, and schedules fn.
func (d *Debouncer) Trigger(key string, fn func()) *Task {
	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.tasks[key]; ok {
		prev.Cancel()
	}
	var t *Task
	t = Schedule(d.clock, d.window, func() {
		d.mu.Lock()
		if d.tasks[key] == t {
			delete(d.tasks, key)
		}
		d.mu.Unlock()
		fn()
	})
	d.tasks[key] = t
	return t
}

// Flush cancels the pending task of key and reports whether one was pending.
// Callers commit immediately afterwards.
func (d *Debouncer) Flush(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.tasks[key]
	if !ok {
		return false
	}
	delete(d.tasks, key)
	return t.Cancel()
}

// Pending reports whether key has a pending task.
func (d *Debouncer) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.tasks[key]
	return ok && t.State() == Pending
}

// Stop cancels every pending task.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, t := range d.tasks {
		t.Cancel()
		delete(d.tasks, key)
	}
}
