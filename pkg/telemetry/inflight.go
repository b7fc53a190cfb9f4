package telemetry

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

// inflight tracks detached deliveries. Sends started after a Wait go into a
// fresh group, so a group is never added to once somebody waits on it.
type inflight struct {
	mu       sync.Mutex
	group    *errgroup.Group
	draining []chan struct{}
}

func (f *inflight) Go(fn func() error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.group == nil {
		f.group = new(errgroup.Group)
	}
	f.group.Go(fn)
}

// Wait blocks until every send started so far has finished or ctx is done.
// It may be called any number of times.
func (f *inflight) Wait(ctx context.Context) error {
	f.mu.Lock()
	if g := f.group; g != nil {
		f.group = nil
		done := make(chan struct{})
		go func() {
			_ = g.Wait()
			close(done)
		}()
		f.draining = append(f.draining, done)
	}
	pending := slices.Clone(f.draining)
	f.mu.Unlock()

	for _, done := range pending {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	f.draining = slices.DeleteFunc(f.draining, func(done chan struct{}) bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	})
	f.mu.Unlock()
	return nil
}
