package debounce

import (
	"sync/atomic"
	"time"
)

// State is the lifecycle of a Task.
type State int32

const (
	Pending State = iota
	Fired
	Cancelled
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Fired:
		return "fired"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Task is a cancellable scheduled call. It leaves Pending exactly once,
// either by firing or by being cancelled.
type Task struct {
	state atomic.Int32
	timer Timer
	fn    func()
}

// Schedule runs fn after d on clock.
func Schedule(clock Clock, d time.Duration, fn func()) *Task {
	if clock == nil {
		clock = RealClock
	}
	t := &Task{fn: fn}
	t.timer = clock.AfterFunc(d, t.fire)
	return t
}

func (t *Task) fire() {
	if t.state.CompareAndSwap(int32(Pending), int32(Fired)) && t.fn != nil {
		t.fn()
	}
}

// Cancel stops a pending task. It reports whether the task was still pending.
func (t *Task) Cancel() bool {
	if !t.state.CompareAndSwap(int32(Pending), int32(Cancelled)) {
		return false
	}
	t.timer.Stop()
	return true
}

// State returns the current state.
func (t *Task) State() State {
	return State(t.state.Load())
}
