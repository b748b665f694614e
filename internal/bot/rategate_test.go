package bot

import (
	"testing"
	"time"
)

func TestRateGateSpacing(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	g := NewRateGate(3 * time.Second)

	steps := []struct {
		offset time.Duration
		want   bool
	}{
		{0, true},
		{1 * time.Second, false},
		{3 * time.Second, true},
	}

	for _, s := range steps {
		if got := g.TryAcquire(base.Add(s.offset)); got != s.want {
			t.Errorf("TryAcquire at +%v = %v, want %v", s.offset, got, s.want)
		}
	}
}

func TestRateGateFirstCallAlwaysGrants(t *testing.T) {
	t.Parallel()

	g := NewRateGate(time.Hour)
	if !g.TryAcquire(time.Now()) {
		t.Error("first acquisition must be granted")
	}
}

func TestRateGateDenialLeavesTimestampUntouched(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	g := NewRateGate(3 * time.Second)

	if !g.TryAcquire(base) {
		t.Fatal("first acquisition must be granted")
	}
	// Denied attempts must not push the window forward: a grant at
	// base+3s proves the denial at base+2s did not reset the clock.
	if g.TryAcquire(base.Add(2 * time.Second)) {
		t.Fatal("acquisition inside the interval must be denied")
	}
	if !g.TryAcquire(base.Add(3 * time.Second)) {
		t.Error("acquisition at the interval boundary must be granted")
	}
}
