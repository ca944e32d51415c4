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
	"time"

	"github.com/tochemey/actorcore/address"
	"github.com/tochemey/actorcore/log"
	"github.com/tochemey/actorcore/supervisor"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(world *World)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*World)

// Apply applies the option to the World
func (f OptionFunc) Apply(w *World) {
	f(w)
}

// WithLogger sets the world logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(w *World) {
		w.logger = logger
	})
}

// WithDispatcherFactor multiplies the number of executor workers.
// The executor runs min(NumCPU, capacity) * factor workers.
func WithDispatcherFactor(factor int) Option {
	return OptionFunc(func(w *World) {
		if factor > 0 {
			w.dispatcherFactor = factor
		}
	})
}

// WithDispatcherCapacity caps the number of CPUs the executor sizes itself on
func WithDispatcherCapacity(capacity int) Option {
	return OptionFunc(func(w *World) {
		if capacity > 0 {
			w.dispatcherCapacity = capacity
		}
	})
}

// WithDispatcherBacklog sets how many drain tasks the executor can hold
// before rejecting work with ErrResourceExhausted
func WithDispatcherBacklog(backlog int) Option {
	return OptionFunc(func(w *World) {
		if backlog > 0 {
			w.dispatcherBacklog = backlog
		}
	})
}

// WithThrottlingCount sets how many messages a mailbox delivers per drain pass
func WithThrottlingCount(count int) Option {
	return OptionFunc(func(w *World) {
		if count > 0 {
			w.throttlingCount = count
		}
	})
}

// WithMailboxCapacity sets the capacity of the bounded mailboxes
func WithMailboxCapacity(capacity int) Option {
	return OptionFunc(func(w *World) {
		if capacity > 0 {
			w.mailboxCapacity = capacity
		}
	})
}

// WithRingFullPolicy sets what a ring mailbox does when it is full
func WithRingFullPolicy(policy FullPolicy) Option {
	return OptionFunc(func(w *World) {
		w.ringFullPolicy = policy
	})
}

// WithRingDrainers sets the number of goroutines draining ring mailboxes
func WithRingDrainers(drainers int) Option {
	return OptionFunc(func(w *World) {
		if drainers > 0 {
			w.ringDrainers = drainers
		}
	})
}

// WithRingPolling makes the ring dispatcher poll its mailboxes with a backoff
// instead of waiting to be notified by senders
func WithRingPolling() Option {
	return OptionFunc(func(w *World) {
		w.ringPolling = true
	})
}

// WithShutdownTimeout sets the maximum time Stop waits for actors to terminate
func WithShutdownTimeout(timeout time.Duration) Option {
	return OptionFunc(func(w *World) {
		w.shutdownTimeout = timeout
	})
}

// WithAddressAllocator sets the allocator used for actors spawned without an address
func WithAddressAllocator(allocator address.Allocator) Option {
	return OptionFunc(func(w *World) {
		w.allocator = allocator
	})
}

// WithDefaultSupervisionStrategy sets the strategy applied when no supervisor
// actor takes responsibility for a failure
func WithDefaultSupervisionStrategy(strategy *supervisor.Strategy) Option {
	return OptionFunc(func(w *World) {
		w.defaultStrategy = strategy
	})
}

// WithMetrics registers the world counters with the global OpenTelemetry meter provider
func WithMetrics() Option {
	return OptionFunc(func(w *World) {
		w.metricsEnabled = true
	})
}

// WithMailboxProvider registers a custom mailbox provider under name
func WithMailboxProvider(name string, provider MailboxProvider) Option {
	return OptionFunc(func(w *World) {
		w.mailboxes.Register(name, provider)
	})
}
