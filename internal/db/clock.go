package db

import "time"

var clock = time.Now

// Now returns the current wall-clock time used by timers and entries.
func Now() time.Time {
	return clock()
}

// SetClock replaces the wall clock and returns a func restoring the previous one.
func SetClock(fn func() time.Time) (restore func()) {
	prev := clock
	clock = fn
	return func() { clock = prev }
}
