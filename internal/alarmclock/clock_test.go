package alarmclock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karimata/healthbook/internal/alarmclock"
	"github.com/karimata/healthbook/pkg/logger"
)

type recordingNotifier struct {
	mu    sync.Mutex
	rings []string
	ch    chan string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{ch: make(chan string, 8)}
}

func (n *recordingNotifier) Ring(id, _ string) {
	n.mu.Lock()
	n.rings = append(n.rings, id)
	n.mu.Unlock()
	n.ch <- id
}

func (n *recordingNotifier) waitRing(t *testing.T) string {
	t.Helper()
	select {
	case id := <-n.ch:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("no ring received")
		return ""
	}
}

func newClock(t *testing.T) (*alarmclock.Clock, *recordingNotifier) {
	t.Helper()

	n := newRecordingNotifier()
	c := alarmclock.New(logger.New("error", "prod"), n)
	t.Cleanup(c.Close)
	return c, n
}

func TestClock_FiresAndMarksRinging(t *testing.T) {
	c, n := newClock(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, time.Now().Add(20*time.Millisecond), "Time to log weight", "a1"))

	assert.Equal(t, "a1", n.waitRing(t))
	assert.Equal(t, "a1", c.Ringing())

	require.NoError(t, c.Stop(ctx))
	assert.Empty(t, c.Ringing())
}

func TestClock_PastInstantFiresImmediately(t *testing.T) {
	c, n := newClock(t)

	require.NoError(t, c.Set(context.Background(), time.Now().Add(-time.Hour), "overdue", "a1"))
	assert.Equal(t, "a1", n.waitRing(t))
}

func TestClock_CancelPreventsRing(t *testing.T) {
	c, n := newClock(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, time.Now().Add(30*time.Millisecond), "x", "a1"))
	require.NoError(t, c.Cancel(ctx, "a1"))

	select {
	case <-n.ch:
		t.Fatal("cancelled wake-up fired")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestClock_CancelUnknownIsNoOp(t *testing.T) {
	c, _ := newClock(t)
	assert.NoError(t, c.Cancel(context.Background(), "gone"))
}

func TestClock_SetReplacesExisting(t *testing.T) {
	c, n := newClock(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, time.Now().Add(10*time.Millisecond), "first", "a1"))
	require.NoError(t, c.Set(ctx, time.Now().Add(60*time.Millisecond), "second", "a1"))

	assert.Equal(t, "a1", n.waitRing(t))

	// The replaced timer must not fire a second time.
	select {
	case <-n.ch:
		t.Fatal("replaced wake-up fired twice")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestClock_ClosedRejectsSet(t *testing.T) {
	c, _ := newClock(t)
	c.Close()

	err := c.Set(context.Background(), time.Now().Add(time.Minute), "x", "a1")
	assert.ErrorIs(t, err, alarmclock.ErrClosed)
}
