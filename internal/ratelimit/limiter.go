// Package ratelimit throttles outbound provider calls to stay inside the
// market-data API quota.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter enforces a minimum interval between granted acquisitions and,
// in strict mode, a hard ceiling per rolling minute with a forced pause
// between batches. All requests must flow through one Limiter instance;
// correctness depends on a single global acquisition point.
type Limiter struct {
	// OnWait, when set, is invoked with the pending wait duration before
	// the limiter suspends the caller. Used for "waiting" progress reports.
	OnWait func(wait time.Duration)

	minInterval time.Duration
	burstLimit  int // grants per window, 0 disables strict mode
	burstPause  time.Duration

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	mu        sync.Mutex
	lastGrant time.Time
	granted   int // grants since the last forced pause
}

// DefaultMinInterval keeps single-shot callers under the provider's
// 5-requests-per-minute ceiling with a little headroom.
const DefaultMinInterval = 1200 * time.Millisecond

// New returns a limiter that spaces successive grants at least minInterval
// apart.
func New(minInterval time.Duration) *Limiter {
	return &Limiter{
		minInterval: minInterval,
		now:         time.Now,
		sleep:       sleepCtx,
	}
}

// NewStrict returns a limiter that additionally caps grants at perWindow per
// rolling minute by forcing a 61-second pause after every perWindow-th grant.
func NewStrict(minInterval time.Duration, perWindow int) *Limiter {
	l := New(minInterval)
	l.burstLimit = perWindow
	l.burstPause = 61 * time.Second
	return l
}

// SetClock overrides the wall-clock and sleep functions. Tests only.
func (l *Limiter) SetClock(now func() time.Time, sleep func(context.Context, time.Duration) error) {
	l.now = now
	l.sleep = sleep
}

// Acquire blocks until the caller may issue one provider request. The mutex
// is held through the wait so concurrent callers are granted strictly one at
// a time. ctx should be the process context: forced waits are part of quota
// bookkeeping and are only abandoned on teardown.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var wait time.Duration
	if l.burstLimit > 0 && l.granted >= l.burstLimit {
		wait = l.burstPause
	} else if !l.lastGrant.IsZero() {
		if gap := l.now().Sub(l.lastGrant); gap < l.minInterval {
			wait = l.minInterval - gap
		}
	}

	if wait > 0 {
		if l.OnWait != nil {
			l.OnWait(wait)
		}
		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}

	if l.burstLimit > 0 && l.granted >= l.burstLimit {
		l.granted = 0
	}
	l.granted++
	l.lastGrant = l.now()
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
