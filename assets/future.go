// Package assets loads the demo's image resources off the render thread
// and hands them back through a Future that completes exactly once.
package assets

import (
	"context"
	"errors"
	"sync"
)

// ErrNotReady is returned by Result before the future completes.
var ErrNotReady = errors.New("assets: not ready")

// Future is the eventual result of a load.
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// complete stores the result; only the first call has any effect.
func (f *Future[T]) complete(v T, err error) {
	f.once.Do(func() {
		f.val, f.err = v, err
		close(f.done)
	})
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Result returns the value without blocking, or ErrNotReady.
func (f *Future[T]) Result() (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	default:
		var zero T
		return zero, ErrNotReady
	}
}

// Wait blocks until the result is available or ctx ends.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Resolved returns a future that is already complete.
func Resolved[T any](v T, err error) *Future[T] {
	f := newFuture[T]()
	f.complete(v, err)
	return f
}
