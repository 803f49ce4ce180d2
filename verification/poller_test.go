package verification

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoller_RunsUntilTickDone(t *testing.T) {
	p := NewPoller(time.Millisecond)

	var ticks int32
	err := p.Run(context.Background(), func() bool {
		return atomic.AddInt32(&ticks, 1) >= 3
	})
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&ticks))
}

func TestPoller_StopUnblocksRun(t *testing.T) {
	p := NewPoller(time.Millisecond)

	var ticks int32
	errCh := make(chan error, 1)
	go func() {
		errCh <- p.Run(context.Background(), func() bool {
			atomic.AddInt32(&ticks, 1)
			return false
		})
	}()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&ticks) >= 2 }, time.Second, time.Millisecond)
	p.Stop()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrStopped)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}

	// No more ticks after teardown.
	n := atomic.LoadInt32(&ticks)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, n, atomic.LoadInt32(&ticks))
}

func TestPoller_StopIsIdempotent(t *testing.T) {
	p := NewPoller(time.Millisecond)
	p.Stop()
	p.Stop()

	err := p.Run(context.Background(), func() bool { return false })
	assert.ErrorIs(t, err, ErrStopped)
}

func TestPoller_ContextCancellation(t *testing.T) {
	p := NewPoller(time.Hour) // tick never fires; cancellation must win
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Run(ctx, func() bool { return true })
	assert.ErrorIs(t, err, context.Canceled)
}
