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
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/zeebo/xxh3"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/actorcore/errors"
	"github.com/tochemey/actorcore/log"
)

// RingDispatcherOption configures the RingDispatcher
type RingDispatcherOption func(*RingDispatcher)

// WithRingDispatcherPolling makes the drainers poll their mailboxes with an
// exponential backoff instead of waiting to be notified by Execute
func WithRingDispatcherPolling(initialInterval, maxInterval time.Duration) RingDispatcherOption {
	return func(d *RingDispatcher) {
		d.polling = true
		if initialInterval > 0 {
			d.initialInterval = initialInterval
		}
		if maxInterval > 0 {
			d.maxInterval = maxInterval
		}
	}
}

// WithRingDispatcherLogger sets the dispatcher logger
func WithRingDispatcherLogger(logger log.Logger) RingDispatcherOption {
	return func(d *RingDispatcher) {
		d.logger = logger
	}
}

// RingDispatcher owns a fixed set of drainer goroutines. Each mailbox is
// assigned to one drainer by the hash of its owner address, and only that
// drainer ever drains it.
type RingDispatcher struct {
	drainers        []*drainer
	polling         bool
	initialInterval time.Duration
	maxInterval     time.Duration
	logger          log.Logger
	closed          *atomic.Bool
	wg              sync.WaitGroup
}

var _ Dispatcher = (*RingDispatcher)(nil)

type drainer struct {
	mu        sync.RWMutex
	mailboxes []Mailbox
	wake      chan struct{}
	stop      chan struct{}
}

// NewRingDispatcher creates a RingDispatcher running the given number of drainers.
func NewRingDispatcher(drainers int, opts ...RingDispatcherOption) *RingDispatcher {
	d := &RingDispatcher{
		drainers:        make([]*drainer, max(drainers, 1)),
		initialInterval: defaultPollInterval,
		maxInterval:     maxPollInterval,
		logger:          log.DiscardLogger,
		closed:          atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt(d)
	}

	for i := range d.drainers {
		dr := &drainer{
			wake: make(chan struct{}, 1),
			stop: make(chan struct{}),
		}
		d.drainers[i] = dr
		d.wg.Add(1)
		go d.loop(dr)
	}
	return d
}

// Execute implements Dispatcher.
func (d *RingDispatcher) Execute(mailbox Mailbox) error {
	if d.closed.Load() {
		return gerrors.ErrDispatcherClosed
	}

	if d.polling {
		return nil
	}

	dr := d.drainerOf(mailbox)
	select {
	case dr.wake <- struct{}{}:
	default:
	}
	return nil
}

// Register implements Dispatcher.
func (d *RingDispatcher) Register(mailbox Mailbox) {
	dr := d.drainerOf(mailbox)
	dr.mu.Lock()
	dr.mailboxes = append(dr.mailboxes, mailbox)
	dr.mu.Unlock()
}

// Unregister implements Dispatcher.
func (d *RingDispatcher) Unregister(mailbox Mailbox) {
	dr := d.drainerOf(mailbox)
	dr.mu.Lock()
	for i, mb := range dr.mailboxes {
		if mb == mailbox {
			dr.mailboxes = append(dr.mailboxes[:i:i], dr.mailboxes[i+1:]...)
			break
		}
	}
	dr.mu.Unlock()
}

// Close implements Dispatcher.
func (d *RingDispatcher) Close(ctx context.Context) error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}

	for _, dr := range d.drainers {
		close(dr.stop)
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
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
func (d *RingDispatcher) IsClosed() bool {
	return d.closed.Load()
}

// Drainers returns the number of drainer goroutines
func (d *RingDispatcher) Drainers() int {
	return len(d.drainers)
}

func (d *RingDispatcher) drainerOf(mailbox Mailbox) *drainer {
	key := mailbox.Owner().String()
	return d.drainers[xxh3.HashString(key)%uint64(len(d.drainers))]
}

func (d *RingDispatcher) loop(dr *drainer) {
	defer d.wg.Done()
	// messages left behind by a handler that outlived the shutdown timeout,
	// a pending Stop among them, are delivered before the drainer exits
	defer d.flush(dr)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = d.initialInterval
	bo.MaxInterval = d.maxInterval
	bo.MaxElapsedTime = 0
	bo.Reset()

	timer := time.NewTimer(d.initialInterval)
	defer timer.Stop()

	for {
		if d.sweep(dr) {
			bo.Reset()
			select {
			case <-dr.stop:
				return
			default:
				continue
			}
		}

		if !d.polling {
			select {
			case <-dr.stop:
				return
			case <-dr.wake:
			}
			continue
		}

		timer.Reset(bo.NextBackOff())
		select {
		case <-dr.stop:
			return
		case <-timer.C:
		}
	}
}

func (d *RingDispatcher) flush(dr *drainer) {
	for d.sweep(dr) {
	}
}

// sweep drains every mailbox of the drainer once and reports whether any
// message was found
func (d *RingDispatcher) sweep(dr *drainer) bool {
	dr.mu.RLock()
	mailboxes := make([]Mailbox, len(dr.mailboxes))
	copy(mailboxes, dr.mailboxes)
	dr.mu.RUnlock()

	worked := false
	for _, mailbox := range mailboxes {
		if mailbox.IsClosed() || !mailbox.HasDeliverable() {
			continue
		}

		if !mailbox.TryDelivering() {
			continue
		}

		drain(mailbox)
		mailbox.DoneDelivering()
		worked = true
	}
	return worked
}
