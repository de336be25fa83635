package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTask_States(t *testing.T) {
	clock := NewManualClock()
	var runs int
	task := Schedule(clock, time.Second, func() { runs++ })

	if task.State() != Pending {
		t.Fatalf("state = %v, want pending", task.State())
	}
	clock.Advance(999 * time.Millisecond)
	if runs != 0 {
		t.Fatal("fired before the window elapsed")
	}
	clock.Advance(time.Millisecond)
	if runs != 1 || task.State() != Fired {
		t.Fatalf("runs = %d state = %v, want 1 fired", runs, task.State())
	}
	if task.Cancel() {
		t.Fatal("Cancel after firing should report false")
	}
}

func TestTask_Cancel(t *testing.T) {
	clock := NewManualClock()
	var runs int
	task := Schedule(clock, time.Second, func() { runs++ })

	if !task.Cancel() {
		t.Fatal("Cancel on pending task should report true")
	}
	if task.Cancel() {
		t.Fatal("second Cancel should report false")
	}
	clock.Advance(2 * time.Second)
	if runs != 0 || task.State() != Cancelled {
		t.Fatalf("runs = %d state = %v, want 0 cancelled", runs, task.State())
	}
}

func TestDebouncer_RapidEditsCommitOnce(t *testing.T) {
	clock := NewManualClock()
	d := New(time.Second, WithClock(clock))

	var commits []string
	for _, text := range []string{"h", "he", "hel", "hell", "hello"} {
		d.Trigger("text", func() { commits = append(commits, text) })
		clock.Advance(300 * time.Millisecond)
	}
	if len(commits) != 0 {
		t.Fatalf("committed inside the window: %v", commits)
	}

	clock.Advance(time.Second)
	if len(commits) != 1 || commits[0] != "hello" {
		t.Fatalf("commits = %v, want [hello]", commits)
	}
	if d.Pending("text") {
		t.Fatal("no task should remain pending")
	}
}

func TestDebouncer_FlushCancelsPending(t *testing.T) {
	clock := NewManualClock()
	d := New(time.Second, WithClock(clock))

	var debounced int
	d.Trigger("text", func() { debounced++ })
	if !d.Pending("text") {
		t.Fatal("expected a pending task")
	}

	if !d.Flush("text") {
		t.Fatal("Flush should report the pending task")
	}
	clock.Advance(5 * time.Second)
	if debounced != 0 {
		t.Fatalf("debounced commit landed after flush")
	}
	if d.Flush("text") {
		t.Fatal("second Flush should report nothing pending")
	}
}

func TestDebouncer_KeysAreIndependent(t *testing.T) {
	clock := NewManualClock()
	d := New(time.Second, WithClock(clock))

	var a, b int
	d.Trigger("a", func() { a++ })
	d.Trigger("b", func() { b++ })
	d.Flush("a")
	clock.Advance(time.Second)

	if a != 0 || b != 1 {
		t.Fatalf("a = %d b = %d, want 0 1", a, b)
	}
}

func TestDebouncer_Stop(t *testing.T) {
	clock := NewManualClock()
	d := New(time.Second, WithClock(clock))

	var runs int
	d.Trigger("a", func() { runs++ })
	d.Trigger("b", func() { runs++ })
	d.Stop()
	clock.Advance(time.Second)

	if runs != 0 || clock.Pending() != 0 {
		t.Fatalf("runs = %d pending = %d after Stop", runs, clock.Pending())
	}
}

func TestDebouncer_RealClock(t *testing.T) {
	d := New(10 * time.Millisecond)
	done := make(chan struct{})
	var runs atomic.Int32

	d.Trigger("text", func() {
		if runs.Add(1) == 1 {
			close(done)
		}
	})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never fired")
	}
	if runs.Load() != 1 {
		t.Fatalf("runs = %d, want 1", runs.Load())
	}
}
