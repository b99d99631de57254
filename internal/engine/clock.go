package engine

import "time"

// Clock supplies the engine's notion of now.
//
// Injecting the clock makes the debounce window testable without
// sleeping: production uses SystemClock, tests use testutil.ManualClock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
//
// Thread-safety: SystemClock is stateless and safe for concurrent use.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
