package form

import (
	"context"
	"math/rand/v2"
	"time"
)

// Pauser waits a random duration between lo and hi, returning early when
// ctx is done.
type Pauser func(ctx context.Context, lo, hi time.Duration)

// HumanPause sleeps a uniformly random duration in [lo, hi].
func HumanPause(ctx context.Context, lo, hi time.Duration) {
	d := lo
	if hi > lo {
		d += rand.N(hi - lo + 1) //nolint:gosec // timing jitter, not security
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// NoPause returns immediately.
func NoPause(context.Context, time.Duration, time.Duration) {}
