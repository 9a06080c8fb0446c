package services

import "context"

// Pending is a single in-flight outcome that resolves exactly once.
// Gateway operations never fail, so a Pending always resolves to a value;
// the fallback value is the failure signal.
type Pending[T any] struct {
	done chan struct{}
	val  T
}

// Go runs fn in a new goroutine and returns its pending outcome.
func Go[T any](ctx context.Context, fn func(context.Context) T) *Pending[T] {
	p := &Pending[T]{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.val = fn(ctx)
	}()
	return p
}

// Done is closed once the outcome is available.
func (p *Pending[T]) Done() <-chan struct{} {
	return p.done
}

// Await blocks until the outcome resolves or ctx is done.
// The error is only ever the context's error; the outcome itself cannot fail.
func (p *Pending[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.val, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Value returns the outcome without blocking.
// The boolean is false while the outcome is still pending.
func (p *Pending[T]) Value() (T, bool) {
	select {
	case <-p.done:
		return p.val, true
	default:
		var zero T
		return zero, false
	}
}
