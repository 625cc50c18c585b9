package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances instantly instead of sleeping and records each wait.
type fakeClock struct {
	t     time.Time
	waits []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, time.March, 6, 17, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) sleep(_ context.Context, d time.Duration) error {
	c.waits = append(c.waits, d)
	c.t = c.t.Add(d)
	return nil
}

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestAcquire_FirstGrantIsImmediate(t *testing.T) {
	clk := newFakeClock()
	l := New(DefaultMinInterval)
	l.SetClock(clk.now, clk.sleep)

	require.NoError(t, l.Acquire(context.Background()))
	assert.Empty(t, clk.waits)
}

func TestAcquire_EnforcesMinInterval(t *testing.T) {
	clk := newFakeClock()
	l := New(DefaultMinInterval)
	l.SetClock(clk.now, clk.sleep)

	require.NoError(t, l.Acquire(context.Background()))
	clk.advance(200 * time.Millisecond)
	require.NoError(t, l.Acquire(context.Background()))

	require.Len(t, clk.waits, 1)
	assert.Equal(t, time.Second, clk.waits[0])
}

func TestAcquire_NoWaitAfterGap(t *testing.T) {
	clk := newFakeClock()
	l := New(DefaultMinInterval)
	l.SetClock(clk.now, clk.sleep)

	require.NoError(t, l.Acquire(context.Background()))
	clk.advance(2 * time.Second)
	require.NoError(t, l.Acquire(context.Background()))
	assert.Empty(t, clk.waits)
}

func TestAcquire_StrictModeForcesPauseAfterBatch(t *testing.T) {
	clk := newFakeClock()
	l := NewStrict(DefaultMinInterval, 5)
	l.SetClock(clk.now, clk.sleep)

	var notified []time.Duration
	l.OnWait = func(d time.Duration) { notified = append(notified, d) }

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Acquire(context.Background()))
	}
	// Sixth grant in the window: full pause, reported to the observer.
	require.NoError(t, l.Acquire(context.Background()))

	require.NotEmpty(t, clk.waits)
	assert.Equal(t, 61*time.Second, clk.waits[len(clk.waits)-1])
	require.NotEmpty(t, notified)
	assert.Equal(t, 61*time.Second, notified[len(notified)-1])

	// Counter reset: the next few grants only pay the min interval again.
	clk.waits = nil
	for i := 0; i < 4; i++ {
		require.NoError(t, l.Acquire(context.Background()))
	}
	for _, w := range clk.waits {
		assert.LessOrEqual(t, w, DefaultMinInterval)
	}
}

func TestAcquire_CanceledContext(t *testing.T) {
	l := New(DefaultMinInterval)
	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := l.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
