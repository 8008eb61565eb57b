package publishers

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// maxParallelDeliveries bounds in-flight deliveries per event.
const maxParallelDeliveries = 8

// Fanout delivers each event to every publisher in parallel.
type Fanout struct {
	publishers []Publisher
}

// NewFanout drops nil entries from pubs.
func NewFanout(pubs []Publisher) *Fanout {
	f := &Fanout{}
	for _, p := range pubs {
		if p != nil {
			f.publishers = append(f.publishers, p)
		}
	}
	return f
}

// Publish returns how many publishers accepted evt, and the joined errors of
// those that did not, in publisher order.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f.Size() == 0 {
		return 0, nil
	}

	// Goroutines never return an error so one failing sink cannot cancel the others.
	errs := make([]error, len(f.publishers))
	var g errgroup.Group
	g.SetLimit(maxParallelDeliveries)
	for i, p := range f.publishers {
		g.Go(func() error {
			if err := p.Publish(ctx, evt); err != nil {
				errs[i] = fmt.Errorf("%s publisher[%s]: %w", p.Type(), p.ID(), err)
			}
			return nil
		})
	}
	_ = g.Wait()

	delivered := 0
	for _, err := range errs {
		if err == nil {
			delivered++
		}
	}
	return delivered, errors.Join(errs...)
}

// Size returns the number of publishers.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.publishers)
}

// Close releases publishers holding long-lived clients.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	return closeAll(f.publishers)
}
