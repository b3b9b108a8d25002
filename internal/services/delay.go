package services

import (
	"math/rand/v2"
	"time"
)

// pause waits d. A started generation cannot be cancelled: the request
// context is not consulted, and only a sign-out (epoch change) discards the
// result.
func pause(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

// between picks a uniformly random duration in [lo, hi].
func between(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + rand.N(hi-lo+1)
}
