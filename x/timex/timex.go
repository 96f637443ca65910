package timex

import (
	"sync/atomic"
	"time"
)

// PeriodFromHz returns the period for a requested frequency.
// freqHz==0 is coerced to 1 to avoid division by zero.
func PeriodFromHz(freqHz uint32) time.Duration {
	if freqHz == 0 {
		freqHz = 1
	}
	return time.Duration(1_000_000_000 / uint64(freqHz))
}

// Clock is a monotonic time source measured from an arbitrary origin.
type Clock interface {
	Now() time.Duration
}

type monotonic struct{ start time.Time }

func (m monotonic) Now() time.Duration { return time.Since(m.start) }

// Monotonic returns a Clock anchored at the time of the call.
func Monotonic() Clock { return monotonic{start: time.Now()} }

// Manual is a Clock advanced explicitly; safe for concurrent use.
type Manual struct{ ns atomic.Int64 }

func (m *Manual) Now() time.Duration { return time.Duration(m.ns.Load()) }

// Set moves the clock to t.
func (m *Manual) Set(t time.Duration) { m.ns.Store(int64(t)) }

// Advance moves the clock forward by d and returns the new time.
func (m *Manual) Advance(d time.Duration) time.Duration {
	return time.Duration(m.ns.Add(int64(d)))
}
