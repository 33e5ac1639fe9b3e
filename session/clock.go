package session

import "time"

// Clock schedules delayed callbacks. The production implementation wraps
// the time package; tests substitute a fake to drive deadlines manually.
type Clock interface {
	Now() time.Time
	// AfterFunc runs fn on its own goroutine after d elapses and returns
	// a handle that can cancel the pending call.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a cancellable pending callback.
type Timer interface {
	// Stop cancels the callback if it has not fired yet and reports
	// whether it was still pending.
	Stop() bool
}

type systemClock struct{}

// SystemClock returns the wall-clock backed Clock used by default.
func SystemClock() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
