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

package actor

import (
	"context"
	"errors"
	"runtime"

	"go.uber.org/atomic"

	gerrors "github.com/tochemey/actorcore/errors"
	"github.com/tochemey/actorcore/internal/workerpool"
	"github.com/tochemey/actorcore/log"
)

// Dispatcher decides which goroutine drains a mailbox and when.
type Dispatcher interface {
	// Execute schedules the delivery of the mailbox messages. It is a no-op
	// when the mailbox is already being drained.
	Execute(mailbox Mailbox) error
	// Register attaches a mailbox to the dispatcher
	Register(mailbox Mailbox)
	// Unregister detaches a mailbox from the dispatcher
	Unregister(mailbox Mailbox)
	// Close refuses new work and waits for in-flight deliveries to complete
	Close(ctx context.Context) error
	// IsClosed reports whether the dispatcher is closed
	IsClosed() bool
}

// drain delivers at most ThrottlingCount messages of mailbox
func drain(mailbox Mailbox) {
	for range mailbox.ThrottlingCount() {
		msg := mailbox.Receive()
		if msg == nil {
			return
		}
		msg.deliver()
	}
}

// DispatcherOption configures the ExecutorDispatcher
type DispatcherOption func(*ExecutorDispatcher)

// WithDispatcherWorkers sets the number of worker goroutines
func WithDispatcherWorkers(workers int) DispatcherOption {
	return func(d *ExecutorDispatcher) {
		if workers > 0 {
			d.workers = workers
		}
	}
}

// WithDispatcherQueue sets how many drain tasks can wait for a worker
func WithDispatcherQueue(backlog int) DispatcherOption {
	return func(d *ExecutorDispatcher) {
		if backlog > 0 {
			d.backlog = backlog
		}
	}
}

// WithDispatcherLogger sets the dispatcher logger
func WithDispatcherLogger(logger log.Logger) DispatcherOption {
	return func(d *ExecutorDispatcher) {
		d.logger = logger
	}
}

// ExecutorDispatcher drains mailboxes on a shared, bounded pool of goroutines.
// When the pool is saturated Execute fails with ErrResourceExhausted.
type ExecutorDispatcher struct {
	workers    int
	backlog    int
	pool       *workerpool.WorkerPool
	logger     log.Logger
	closed     *atomic.Bool
	rejections *atomic.Int64
}

var _ Dispatcher = (*ExecutorDispatcher)(nil)

// NewExecutorDispatcher creates an ExecutorDispatcher. Without options it runs
// one worker per CPU.
func NewExecutorDispatcher(opts ...DispatcherOption) *ExecutorDispatcher {
	d := &ExecutorDispatcher{
		workers:    runtime.NumCPU(),
		backlog:    DefaultDispatcherBacklog,
		logger:     log.DiscardLogger,
		closed:     atomic.NewBool(false),
		rejections: atomic.NewInt64(0),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.pool = workerpool.New(
		workerpool.WithWorkers(d.workers),
		workerpool.WithBacklog(d.backlog),
	)
	d.pool.Start()
	return d
}

// executorWorkers returns min(NumCPU, capacity) * factor
func executorWorkers(capacity, factor int) int {
	return max(min(runtime.NumCPU(), capacity), 1) * max(factor, 1)
}

// Execute implements Dispatcher.
func (d *ExecutorDispatcher) Execute(mailbox Mailbox) error {
	if d.closed.Load() {
		return gerrors.ErrDispatcherClosed
	}

	if mailbox.IsClosed() || !mailbox.TryDelivering() {
		return nil
	}

	if err := d.pool.TrySubmit(func() { d.run(mailbox) }); err != nil {
		mailbox.DoneDelivering()
		if errors.Is(err, gerrors.ErrResourceExhausted) {
			d.rejections.Inc()
			d.logger.Debugf("executor saturated (running=%d, pending=%d), mailbox of %s left queued",
				d.pool.Running(), d.pool.Pending(), mailbox.Owner())
		}
		return err
	}
	return nil
}

// run drains the mailbox and reschedules it while it has deliverable messages.
// When the pool is saturated or closed the current worker keeps the mailbox for itself.
func (d *ExecutorDispatcher) run(mailbox Mailbox) {
	for {
		drain(mailbox)
		mailbox.DoneDelivering()

		if mailbox.IsClosed() || !mailbox.HasDeliverable() {
			return
		}

		err := d.Execute(mailbox)
		if err == nil {
			return
		}

		if !errors.Is(err, gerrors.ErrResourceExhausted) && !errors.Is(err, gerrors.ErrDispatcherClosed) {
			d.logger.Debugf("mailbox of %s left with pending messages: %v", mailbox.Owner(), err)
			return
		}

		if !mailbox.TryDelivering() {
			return
		}
	}
}

// Register implements Dispatcher.
func (d *ExecutorDispatcher) Register(Mailbox) {}

// Unregister implements Dispatcher.
func (d *ExecutorDispatcher) Unregister(Mailbox) {}

// Close implements Dispatcher.
func (d *ExecutorDispatcher) Close(ctx context.Context) error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}

	done := make(chan struct{})
	go func() {
		d.pool.Stop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsClosed implements Dispatcher.
func (d *ExecutorDispatcher) IsClosed() bool {
	return d.closed.Load()
}

// Workers returns the number of worker goroutines
func (d *ExecutorDispatcher) Workers() int {
	return d.pool.Workers()
}

// Rejections returns the number of drains refused because the pool was saturated
func (d *ExecutorDispatcher) Rejections() int64 {
	return d.rejections.Load()
}
