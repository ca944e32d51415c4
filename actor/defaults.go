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

	"github.com/tochemey/actorcore/supervisor"
)

const (
	// QueueMailbox names the unbounded lock-free mailbox served by the executor dispatcher.
	QueueMailbox = "queueMailbox"
	// RingMailbox names the bounded ring mailbox served by the ring dispatcher.
	RingMailbox = "ringMailbox"
	// ArrayQueueMailbox names the bounded array mailbox served by the executor dispatcher.
	ArrayQueueMailbox = "arrayQueueMailbox"

	// SystemProtocol is carried by every lifecycle message. It is always
	// exempt from the supervision barrier.
	SystemProtocol = "actorcore.system"

	// DefaultThrottlingCount is the number of messages delivered per drain pass
	DefaultThrottlingCount = 1
	// DefaultMailboxCapacity is the capacity of bounded mailboxes
	DefaultMailboxCapacity = 1024
	// DefaultDispatcherFactor multiplies the number of executor workers
	DefaultDispatcherFactor = 2
	// DefaultDispatcherBacklog is the number of drain tasks the executor can hold
	DefaultDispatcherBacklog = 4096
	// DefaultRingDrainers is the number of ring dispatcher goroutines
	DefaultRingDrainers = 4
	// DefaultInitMaxRetries defines the default value for retrying actor initialization
	DefaultInitMaxRetries = 3
	// DefaultInitTimeout defines the default init timeout
	DefaultInitTimeout = time.Second
	// DefaultShutdownTimeout defines the default shutdown timeout
	DefaultShutdownTimeout = 30 * time.Second
	// DefaultAskTimeout defines the default ask timeout
	DefaultAskTimeout = 5 * time.Second
	// DefaultSendRetries is the number of attempts a bounded mailbox makes to enqueue
	// a message before applying its full policy
	DefaultSendRetries = 8
	// DefaultBlockTimeout bounds how long a Block mailbox send waits for room
	DefaultBlockTimeout = time.Second
	// DefaultDirectoryShards is the number of buckets of the actor directory
	DefaultDirectoryShards = 32

	supervisionBarrier  = "supervision"
	maxEscalationHops   = 16
	defaultPollInterval = 100 * time.Microsecond
	maxPollInterval     = 10 * time.Millisecond
)

// DefaultSupervisionStrategy restarts the failed actor at most five times
// within one second before stopping it.
func DefaultSupervisionStrategy() *supervisor.Strategy {
	return supervisor.NewStrategy(
		supervisor.WithIntensity(supervisor.DefaultIntensity),
		supervisor.WithPeriod(supervisor.DefaultPeriod),
		supervisor.WithScope(supervisor.OneScope),
		supervisor.WithAnyErrorDirective(supervisor.RestartDirective),
	)
}
