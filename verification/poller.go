package verification

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrStopped is returned by Run when the poller was torn down before the
// tick reported completion.
var ErrStopped = errors.New("poller stopped")

// TickFunc performs one poll step and reports whether polling is done.
type TickFunc func() bool

// Poller drives repeated verification ticks on a fixed interval. It owns
// its cancellation: Stop closes the stop channel and Run returns, so no
// orphaned timer keeps hitting the network after the caller has left.
type Poller struct {
	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewPoller creates a poller with the given tick interval.
func NewPoller(interval time.Duration) *Poller {
	return &Poller{
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Run invokes tick on every interval until tick returns true, the poller
// is stopped, or the context is cancelled. It blocks the calling
// goroutine; the first tick fires after one full interval.
func (p *Poller) Run(ctx context.Context, tick TickFunc) error {
	t := time.NewTicker(p.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.stop:
			return ErrStopped
		case <-t.C:
			if tick() {
				return nil
			}
		}
	}
}

// Stop tears the poller down. Safe to call more than once and from a
// different goroutine than Run.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})
}
