package editor

import (
	"sync"
	"time"
)

// Timer is a cancellable single-shot timer with coalescing semantics: at
// most one deferred call is armed at a time, and arming implicitly cancels
// any previously armed call. Cancellation is synchronous and total — a
// cancelled call simply never fires.
type Timer struct {
	mu sync.Mutex
	t  *time.Timer
}

func NewTimer() *Timer {
	return &Timer{}
}

// Arm schedules fn after d, replacing any pending schedule.
func (t *Timer) Arm(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.t != nil {
		t.t.Stop()
	}
	t.t = time.AfterFunc(d, fn)
}

// Cancel drops the pending schedule, if any.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.t != nil {
		t.t.Stop()
		t.t = nil
	}
}
