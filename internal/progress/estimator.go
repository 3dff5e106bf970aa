package progress

import (
	"context"
	"time"
)

// Window bounds one estimation phase: the percentage range to
// interpolate over and the duration the interpolation is paced to.
type Window struct {
	Start    int
	End      int
	Duration time.Duration
}

const defaultTickInterval = 500 * time.Millisecond

// Simulate interpolates a synthetic percentage across w while the real
// operation's progress is opaque. It invokes tick only when the value
// increased since the last invocation, never exceeds w.End, and stops
// when ctx is canceled or w.Duration has elapsed, whichever comes
// first. Cancellation is cooperative: it is checked once per interval.
func Simulate(ctx context.Context, w Window, tick func(percent int)) {
	SimulateEvery(ctx, w, defaultTickInterval, tick)
}

// SimulateEvery is Simulate with an explicit tick interval.
func SimulateEvery(ctx context.Context, w Window, interval time.Duration, tick func(percent int)) {
	start := time.Now()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := w.Start - 1
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		elapsed := time.Since(start)
		if elapsed >= w.Duration {
			return
		}
		pct := w.Start + int(float64(elapsed)/float64(w.Duration)*float64(w.End-w.Start))
		if pct > w.End {
			pct = w.End
		}
		if pct > last {
			tick(pct)
			last = pct
		}
	}
}
