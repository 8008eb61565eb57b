package resource

import (
	"context"
	"fmt"
)

// Future is the single-resolution result of an operation started with Go.
type Future[V any] struct {
	done  chan struct{}
	value V
	err   error
}

// Go runs fn on its own goroutine and returns a Future resolved with its result.
// A panic inside fn resolves the future with a RequestError instead of crashing.
func Go[V any](ctx context.Context, fn func(context.Context) (V, error)) *Future[V] {
	if ctx == nil {
		ctx = context.Background()
	}
	f := &Future[V]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = &RequestError{
					Op:      "future",
					Message: ServerErrorMessage,
					Err:     fmt.Errorf("panic: %v", r),
				}
			}
		}()
		f.value, f.err = fn(ctx)
	}()
	return f
}

// Done is closed once the future is resolved.
func (f *Future[V]) Done() <-chan struct{} { return f.done }

// Await blocks until the future is resolved and returns its result.
func (f *Future[V]) Await() (V, error) {
	<-f.done
	return f.value, f.err
}
