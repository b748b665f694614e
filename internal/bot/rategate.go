package bot

import (
	"sync"
	"time"
)

// RateGate enforces a minimum interval between outbound completion-API
// calls. It is a single process-wide gate, not per-user: it trades fairness
// for simplicity. A denied acquisition means the caller skips the API call
// entirely rather than blocking or queueing.
type RateGate struct {
	mu          sync.Mutex
	minInterval time.Duration
	lastRequest time.Time
}

// NewRateGate creates a gate with the given minimum spacing.
func NewRateGate(minInterval time.Duration) *RateGate {
	return &RateGate{minInterval: minInterval}
}

// TryAcquire reports whether a request may be dispatched at the given
// instant. The first call always grants. On grant the timestamp advances;
// on denial it is untouched.
func (g *RateGate) TryAcquire(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.lastRequest.IsZero() && now.Sub(g.lastRequest) < g.minInterval {
		return false
	}
	g.lastRequest = now
	return true
}
