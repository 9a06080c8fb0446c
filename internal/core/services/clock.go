package services

import "time"

// Clock schedules deferred callbacks. QueryStream uses it for its
// quiescence window so tests can advance time by hand.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a scheduled callback that can be stopped.
type Timer interface {
	Stop() bool
}

// SystemClock schedules callbacks with the time package.
type SystemClock struct{}

// AfterFunc calls f in its own goroutine after d.
func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
