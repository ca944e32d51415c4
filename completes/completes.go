// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package completes provides Completes, a single-assignment outcome used for
// asynchronous replies between actors.
//
// A Completes is written at most once, either by an explicit value (With), a
// failure (Fail) or a timeout (TimeoutAfter, AndThenConsume). Continuations
// registered with AndThen, Otherwise or AndThenConsume run exactly once, in
// registration order, each one receiving the output of the previous stage.
// They run synchronously on the goroutine that writes the outcome, while the
// Completes lock is held, so they must not call back into the same Completes.
//
// Example usage:
//
//	answer := completes.New[int]().
//	    AndThen(func(x int) int { return x * 2 })
//
//	go answer.With(5)
//
//	value := answer.Outcome() // 10
package completes

import (
	"context"
	"errors"
	"sync"
	"time"

	gerrors "github.com/tochemey/actorcore/errors"
)

type stage[T any] func(value T, err error) (T, error)

// Completes is a single-assignment future with chained continuations and
// timeout racing. The zero value is not usable; create one with New.
type Completes[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	value     T
	err       error
	completed bool
	stages    []stage[T]
	timer     *time.Timer
}

// New creates a Completes without outcome
func New[T any]() *Completes[T] {
	return &Completes[T]{
		done:   make(chan struct{}),
		stages: make([]stage[T], 0),
	}
}

// Completed creates a Completes that already holds the given value
func Completed[T any](value T) *Completes[T] {
	c := New[T]()
	c.With(value)
	return c
}

// Failed creates a Completes that already holds the given failure
func Failed[T any](err error) *Completes[T] {
	c := New[T]()
	c.Fail(err)
	return c
}

// With writes the outcome and runs the registered continuations.
// It returns false when an outcome was already written, in which case the value is discarded.
func (c *Completes[T]) With(value T) bool {
	return c.complete(value, nil)
}

// Fail writes a failed outcome. It returns false when an outcome was already written.
func (c *Completes[T]) Fail(err error) bool {
	var zero T
	return c.complete(zero, err)
}

// AndThen registers a transformation applied to a successful outcome.
// Failed outcomes skip the transformation.
func (c *Completes[T]) AndThen(transform func(T) T) *Completes[T] {
	return c.register(func(value T, err error) (T, error) {
		if err != nil {
			return value, err
		}
		return transform(value), nil
	})
}

// Otherwise registers a recovery turning a failed outcome into a value.
// Successful outcomes skip it.
func (c *Completes[T]) Otherwise(recovery func(error) T) *Completes[T] {
	return c.register(func(value T, err error) (T, error) {
		if err == nil {
			return value, nil
		}
		return recovery(err), nil
	})
}

// AndThenConsume races a timer against the outcome. When the timer fires
// first, fallback becomes the outcome, is handed to consumer and any later
// value is discarded. When the outcome arrives first the timer is canceled.
// A non-positive timeout disables the race.
func (c *Completes[T]) AndThenConsume(timeout time.Duration, fallback T, consumer func(T)) *Completes[T] {
	if timeout > 0 {
		c.TimeoutAfter(timeout, fallback)
	}

	return c.register(func(value T, err error) (T, error) {
		if err == nil || errors.Is(err, gerrors.ErrTimedOut) {
			consumer(value)
		}
		return value, err
	})
}

// TimeoutAfter arms a timer writing fallback as the outcome, failed with
// errors.ErrTimedOut, unless an outcome is written before timeout elapses.
func (c *Completes[T]) TimeoutAfter(timeout time.Duration, fallback T) *Completes[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.completed {
		return c
	}

	if c.timer != nil {
		c.timer.Stop()
	}

	c.timer = time.AfterFunc(timeout, func() {
		c.complete(fallback, gerrors.ErrTimedOut)
	})
	return c
}

// Outcome blocks until the outcome is written and returns it.
// A failed outcome yields the zero value, or the fallback on timeout.
func (c *Completes[T]) Outcome() T {
	<-c.done
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Await blocks until the outcome is written or ctx is done.
func (c *Completes[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-c.done:
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.value, c.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done returns a channel closed once the outcome is written
func (c *Completes[T]) Done() <-chan struct{} {
	return c.done
}

// HasOutcome returns true once the outcome is written
func (c *Completes[T]) HasOutcome() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completed
}

// HasFailed returns true when the outcome is a failure, timeouts included
func (c *Completes[T]) HasFailed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completed && c.err != nil
}

// Error returns the failure of the outcome, if any
func (c *Completes[T]) Error() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Then maps the successful outcome of c into a new Completes of another type.
// Failures of c, and errors returned by mapper, fail the returned Completes.
func Then[T, R any](c *Completes[T], mapper func(T) (R, error)) *Completes[R] {
	next := New[R]()
	c.register(func(value T, err error) (T, error) {
		if err != nil {
			next.Fail(err)
			return value, err
		}

		mapped, mapErr := mapper(value)
		if mapErr != nil {
			next.Fail(mapErr)
		} else {
			next.With(mapped)
		}
		return value, err
	})
	return next
}

func (c *Completes[T]) register(next stage[T]) *Completes[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.completed {
		c.value, c.err = next(c.value, c.err)
		return c
	}

	c.stages = append(c.stages, next)
	return c
}

func (c *Completes[T]) complete(value T, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.completed {
		return false
	}

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	c.value, c.err = value, err
	for _, next := range c.stages {
		c.value, c.err = next(c.value, c.err)
	}

	c.stages = nil
	c.completed = true
	close(c.done)
	return true
}
