package bot

import (
	"sync"
	"time"
)

// maxTimeout caps any computed disciplinary timeout at one hour.
const maxTimeout = time.Hour

// StrikeTracker accumulates per-user moderation violations and computes
// escalating timeout durations. Counts are monotonic and never reset for
// the process lifetime.
type StrikeTracker struct {
	mu       sync.Mutex
	interval int
	strikes  map[string]int
}

// NewStrikeTracker creates a tracker with the given strike interval.
func NewStrikeTracker(interval int) *StrikeTracker {
	return &StrikeTracker{
		interval: interval,
		strikes:  make(map[string]int),
	}
}

// RecordViolation increments the user's strike count and reports whether a
// disciplinary timeout should be applied now, and for how long. Action
// fires only once the updated count exceeds the interval and then on every
// interval-th strike: with interval 3 that is the 4th, 7th, 10th strike.
// The duration is interval² seconds capped at one hour; it does not scale
// with the accumulated count beyond the threshold check.
func (t *StrikeTracker) RecordViolation(user string) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.strikes[user]++
	count := t.strikes[user]

	if count <= t.interval || count%t.interval != 1 {
		return 0, false
	}

	duration := time.Duration(t.interval*t.interval) * time.Second
	if duration > maxTimeout {
		duration = maxTimeout
	}
	return duration, true
}

// Count returns the user's current strike count; unseen users have 0.
func (t *StrikeTracker) Count(user string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.strikes[user]
}

// Stats reports how many users have at least one strike and the total
// strike count across all users.
func (t *StrikeTracker) Stats() (users, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, n := range t.strikes {
		total += n
	}
	return len(t.strikes), total
}
