// Package workerpool bounds concurrent CPU-heavy work.
//
// Work is submitted as a function and runs on its own goroutine once a
// slot is free; the caller keeps a Handle and awaits the result. The pool
// size caps how many submitted functions run at once regardless of how
// many callers submit.
package workerpool

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// DefaultSize is the number of concurrent workers.
const DefaultSize = 4

// Pool is a bounded worker pool.
type Pool struct {
	sem  *semaphore.Weighted
	size int
}

// New creates a pool running at most size tasks at once.
// Non-positive sizes fall back to DefaultSize.
func New(size int) *Pool {
	if size <= 0 {
		size = DefaultSize
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size)), size: size}
}

// Size returns the pool's concurrency bound.
func (p *Pool) Size() int {
	return p.size
}

// Handle is the pending result of a submitted task.
type Handle[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Await blocks until the task finishes or ctx is done.
func (h *Handle[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-h.done:
		return h.value, h.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Submit schedules fn on the pool. The task waits for a free slot;
// if ctx ends first the handle resolves with ctx's error and fn never runs.
// A panic in fn is returned as an error.
func Submit[T any](ctx context.Context, p *Pool, fn func(ctx context.Context) (T, error)) *Handle[T] {
	h := &Handle[T]{done: make(chan struct{})}

	go func() {
		defer close(h.done)

		if err := p.sem.Acquire(ctx, 1); err != nil {
			h.err = err
			return
		}
		defer p.sem.Release(1)

		defer func() {
			if r := recover(); r != nil {
				h.err = fmt.Errorf("worker panic: %v", r)
			}
		}()
		h.value, h.err = fn(ctx)
	}()

	return h
}

// Run submits fn and awaits it.
func Run[T any](ctx context.Context, p *Pool, fn func(ctx context.Context) (T, error)) (T, error) {
	return Submit(ctx, p, fn).Await(ctx)
}
