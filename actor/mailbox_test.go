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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/goleak"

	"github.com/tochemey/actorcore/address"
	gerrors "github.com/tochemey/actorcore/errors"
	"github.com/tochemey/actorcore/internal/pause"
)

// journal collects what bare mailbox invocations observe
type journal struct {
	mu      sync.Mutex
	entries map[int][]int
	total   *atomic.Int64
}

func newJournal() *journal {
	return &journal{entries: make(map[int][]int), total: atomic.NewInt64(0)}
}

func (j *journal) message(protocol string, sender, seq int) *Message {
	return NewMessage(protocol, "Record", func(*ReceiveContext) error {
		j.mu.Lock()
		j.entries[sender] = append(j.entries[sender], seq)
		j.mu.Unlock()
		j.total.Inc()
		return nil
	})
}

func (j *journal) sequence(sender int) []int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]int(nil), j.entries[sender]...)
}

func TestMailbox(t *testing.T) {
	const (
		senders   = 3
		perSender = 1000
	)

	backends := []struct {
		name  string
		build func(owner *address.Address) (Mailbox, Dispatcher)
	}{
		{
			name: "queue",
			build: func(owner *address.Address) (Mailbox, Dispatcher) {
				dispatcher := NewExecutorDispatcher(WithDispatcherWorkers(4))
				return NewQueueMailbox(owner, dispatcher), dispatcher
			},
		},
		{
			name: "ring",
			build: func(owner *address.Address) (Mailbox, Dispatcher) {
				dispatcher := NewRingDispatcher(2)
				return NewRingMailbox(owner, dispatcher, 64), dispatcher
			},
		},
		{
			name: "ring with polling",
			build: func(owner *address.Address) (Mailbox, Dispatcher) {
				dispatcher := NewRingDispatcher(2, WithRingDispatcherPolling(50*time.Microsecond, time.Millisecond))
				return NewRingMailbox(owner, dispatcher, 64), dispatcher
			},
		},
		{
			name: "array queue",
			build: func(owner *address.Address) (Mailbox, Dispatcher) {
				dispatcher := NewExecutorDispatcher(WithDispatcherWorkers(4))
				return NewArrayQueueMailbox(owner, dispatcher, 4096), dispatcher
			},
		},
	}

	for _, backend := range backends {
		t.Run("With per sender ordering on "+backend.name+" mailbox", func(t *testing.T) {
			defer goleak.VerifyNone(t)

			mailbox, dispatcher := backend.build(address.NewSequential(1, "ordering"))
			records := newJournal()

			var wg sync.WaitGroup
			for sender := range senders {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for seq := range perSender {
						assert.NoError(t, mailbox.Send(records.message("test", sender, seq)))
					}
				}()
			}
			wg.Wait()

			require.Eventually(t, func() bool {
				return records.total.Load() == senders*perSender
			}, 5*time.Second, 5*time.Millisecond)

			for sender := range senders {
				sequence := records.sequence(sender)
				require.Len(t, sequence, perSender)
				for i, seq := range sequence {
					require.Equal(t, i, seq)
				}
			}

			mailbox.Close()
			require.NoError(t, dispatcher.Close(context.TODO()))
		})

		t.Run("With a single deliverer on "+backend.name+" mailbox", func(t *testing.T) {
			defer goleak.VerifyNone(t)

			mailbox, dispatcher := backend.build(address.NewSequential(2, "exclusive"))
			inFlight := atomic.NewInt32(0)
			violations := atomic.NewInt32(0)
			delivered := atomic.NewInt64(0)

			var wg sync.WaitGroup
			for range 8 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for range 200 {
						msg := NewMessage("test", "Exclusive", func(*ReceiveContext) error {
							if inFlight.Inc() > 1 {
								violations.Inc()
							}
							inFlight.Dec()
							delivered.Inc()
							return nil
						})
						assert.NoError(t, mailbox.Send(msg))
					}
				}()
			}
			wg.Wait()

			require.Eventually(t, func() bool {
				return delivered.Load() == 1600
			}, 5*time.Second, 5*time.Millisecond)
			assert.Zero(t, violations.Load())

			mailbox.Close()
			require.NoError(t, dispatcher.Close(context.TODO()))
		})
	}

	t.Run("With suspended delivery and exempted protocol", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		dispatcher := NewExecutorDispatcher(WithDispatcherWorkers(2))
		mailbox := NewQueueMailbox(address.NewSequential(3, "suspended"), dispatcher)
		records := newJournal()

		mailbox.Suspend("paused", "exempt")
		require.True(t, mailbox.IsSuspended())

		for seq := range 5 {
			require.NoError(t, mailbox.Send(records.message("test", 0, seq)))
		}
		require.NoError(t, mailbox.Send(records.message("exempt", 1, 0)))

		require.Eventually(t, func() bool {
			return len(records.sequence(1)) == 1
		}, time.Second, 5*time.Millisecond)

		assert.Empty(t, records.sequence(0))
		assert.EqualValues(t, 5, mailbox.PendingMessages())

		mailbox.Resume("paused")
		require.False(t, mailbox.IsSuspended())
		require.NoError(t, mailbox.Send(records.message("test", 0, 5)))

		require.Eventually(t, func() bool {
			return len(records.sequence(0)) == 6
		}, time.Second, 5*time.Millisecond)
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, records.sequence(0))
		assert.Zero(t, mailbox.PendingMessages())

		mailbox.Close()
		require.NoError(t, dispatcher.Close(context.TODO()))
	})

	t.Run("With nested barriers", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		dispatcher := NewExecutorDispatcher(WithDispatcherWorkers(2))
		mailbox := NewQueueMailbox(address.NewSequential(4, "nested"), dispatcher)
		records := newJournal()

		mailbox.Suspend("outer")
		mailbox.Suspend("inner", "exempt")

		require.NoError(t, mailbox.Send(records.message("test", 0, 0)))
		require.NoError(t, mailbox.Send(records.message("exempt", 1, 0)))
		require.Eventually(t, func() bool {
			return len(records.sequence(1)) == 1
		}, time.Second, 5*time.Millisecond)

		// resuming an unknown barrier changes nothing
		mailbox.Resume("unknown")
		require.True(t, mailbox.IsSuspended())

		mailbox.Resume("inner")
		require.True(t, mailbox.IsSuspended())

		// the outer barrier exempts nothing
		require.NoError(t, mailbox.Send(records.message("exempt", 1, 1)))
		pause.For(20 * time.Millisecond)
		assert.Len(t, records.sequence(1), 1)
		assert.Empty(t, records.sequence(0))

		mailbox.Resume("outer")
		require.Eventually(t, func() bool {
			return len(records.sequence(0)) == 1 && len(records.sequence(1)) == 2
		}, time.Second, 5*time.Millisecond)

		mailbox.Close()
		require.NoError(t, dispatcher.Close(context.TODO()))
	})

	t.Run("With system message delivered through a barrier", func(t *testing.T) {
		mailbox := NewQueueMailbox(address.NewSequential(9, "barred"), noopDispatcher{})
		records := newJournal()

		mailbox.Suspend("awaiting", "priority")
		require.NoError(t, mailbox.Send(records.message("test", 0, 0)))
		require.NoError(t, mailbox.Send(newSystemMessage(nil, "Stop", func(*ReceiveContext) error { return nil })))

		msg := mailbox.Receive()
		require.NotNil(t, msg)
		assert.True(t, msg.IsSystem())
		assert.Nil(t, mailbox.Receive())
		assert.EqualValues(t, 1, mailbox.PendingMessages())
		assert.True(t, mailbox.IsSuspended())
	})

	t.Run("With closed mailbox", func(t *testing.T) {
		mailbox := NewQueueMailbox(address.NewSequential(5, "closed"), noopDispatcher{})
		records := newJournal()

		for seq := range 3 {
			require.NoError(t, mailbox.Send(records.message("test", 0, seq)))
		}
		require.EqualValues(t, 3, mailbox.PendingMessages())

		dropped := mailbox.Close()
		require.Len(t, dropped, 3)
		assert.True(t, mailbox.IsClosed())
		assert.Nil(t, mailbox.Receive())
		assert.False(t, mailbox.HasDeliverable())
		assert.Nil(t, mailbox.Close())

		err := mailbox.Send(records.message("test", 0, 3))
		assert.ErrorIs(t, err, gerrors.ErrMailboxClosed)
	})

	t.Run("With closed suspended mailbox returning stowed messages", func(t *testing.T) {
		mailbox := NewQueueMailbox(address.NewSequential(6, "stowed"), noopDispatcher{})
		records := newJournal()

		mailbox.Suspend("paused")
		for seq := range 4 {
			require.NoError(t, mailbox.Send(records.message("test", 0, seq)))
		}
		// polling while suspended moves the messages to the stowage
		assert.Nil(t, mailbox.Receive())
		assert.EqualValues(t, 4, mailbox.PendingMessages())

		dropped := mailbox.Close()
		assert.Len(t, dropped, 4)
		assert.False(t, mailbox.IsSuspended())
	})

	t.Run("With single delivery flag", func(t *testing.T) {
		mailbox := NewQueueMailbox(address.NewSequential(7, "flag"), noopDispatcher{})
		require.True(t, mailbox.TryDelivering())
		assert.True(t, mailbox.IsDelivering())
		assert.False(t, mailbox.TryDelivering())
		mailbox.DoneDelivering()
		assert.False(t, mailbox.IsDelivering())
		assert.True(t, mailbox.TryDelivering())
	})

	t.Run("With throttling count", func(t *testing.T) {
		mailbox := NewQueueMailbox(address.NewSequential(8, "throttled"), noopDispatcher{}, WithMailboxThrottlingCount(3))
		records := newJournal()
		for seq := range 5 {
			require.NoError(t, mailbox.Send(records.message("test", 0, seq)))
		}

		drain(mailbox)
		assert.Equal(t, []int{0, 1, 2}, records.sequence(0))
		drain(mailbox)
		assert.Equal(t, []int{0, 1, 2, 3, 4}, records.sequence(0))
	})
}

func TestFullPolicy(t *testing.T) {
	t.Run("With array queue mailbox rejecting when full", func(t *testing.T) {
		mailbox := NewArrayQueueMailbox(address.NewSequential(1, "array"), noopDispatcher{}, 2)
		records := newJournal()

		require.NoError(t, mailbox.Send(records.message("test", 0, 0)))
		require.NoError(t, mailbox.Send(records.message("test", 0, 1)))
		err := mailbox.Send(records.message("test", 0, 2))
		require.ErrorIs(t, err, gerrors.ErrMailboxFull)
		assert.EqualValues(t, 2, mailbox.PendingMessages())
		mailbox.Close()
	})

	t.Run("With ring mailbox under backpressure", func(t *testing.T) {
		mailbox := NewRingMailbox(address.NewSequential(2, "ring"), noopDispatcher{}, 2,
			WithFullPolicy(Backpressure),
			WithSendRetries(2))
		records := newJournal()

		require.NoError(t, mailbox.Send(records.message("test", 0, 0)))
		require.NoError(t, mailbox.Send(records.message("test", 0, 1)))
		err := mailbox.Send(records.message("test", 0, 2))
		require.ErrorIs(t, err, gerrors.ErrMailboxFull)
		mailbox.Close()
	})

	t.Run("With blocked sender released once room is made", func(t *testing.T) {
		mailbox := NewRingMailbox(address.NewSequential(3, "block"), noopDispatcher{}, 2)
		records := newJournal()

		require.NoError(t, mailbox.Send(records.message("test", 0, 0)))
		require.NoError(t, mailbox.Send(records.message("test", 0, 1)))

		sent := make(chan error, 1)
		go func() {
			sent <- mailbox.Send(records.message("test", 0, 2))
		}()

		pause.For(20 * time.Millisecond)
		select {
		case <-sent:
			require.Fail(t, "send should block while the mailbox is full")
		default:
		}

		require.NotNil(t, mailbox.Receive())
		require.Eventually(t, func() bool {
			select {
			case err := <-sent:
				return err == nil
			default:
				return false
			}
		}, time.Second, 5*time.Millisecond)
		assert.EqualValues(t, 2, mailbox.PendingMessages())
		mailbox.Close()
	})

	t.Run("With blocked sender released when the mailbox closes", func(t *testing.T) {
		mailbox := NewRingMailbox(address.NewSequential(4, "closing"), noopDispatcher{}, 2)
		records := newJournal()

		require.NoError(t, mailbox.Send(records.message("test", 0, 0)))
		require.NoError(t, mailbox.Send(records.message("test", 0, 1)))

		sent := make(chan error, 1)
		go func() {
			sent <- mailbox.Send(records.message("test", 0, 2))
		}()

		pause.For(20 * time.Millisecond)
		dropped := mailbox.Close()
		assert.GreaterOrEqual(t, len(dropped), 2)

		select {
		case err := <-sent:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			require.Fail(t, "blocked sender was not released")
		}
	})

	t.Run("With blocked sender giving up after the block timeout", func(t *testing.T) {
		mailbox := NewRingMailbox(address.NewSequential(5, "timeout"), noopDispatcher{}, 2,
			WithBlockTimeout(30*time.Millisecond))
		records := newJournal()

		require.NoError(t, mailbox.Send(records.message("test", 0, 0)))
		require.NoError(t, mailbox.Send(records.message("test", 0, 1)))

		sent := make(chan error, 1)
		go func() {
			sent <- mailbox.Send(records.message("test", 0, 2))
		}()

		select {
		case err := <-sent:
			assert.ErrorIs(t, err, gerrors.ErrMailboxFull)
		case <-time.After(time.Second):
			require.Fail(t, "blocked sender never gave up")
		}
		assert.EqualValues(t, 2, mailbox.PendingMessages())
		mailbox.Close()
	})

	t.Run("With system messages beyond the capacity", func(t *testing.T) {
		for _, mailbox := range []Mailbox{
			NewRingMailbox(address.NewSequential(6, "ring"), noopDispatcher{}, 2, WithFullPolicy(Reject)),
			NewArrayQueueMailbox(address.NewSequential(7, "array"), noopDispatcher{}, 2),
		} {
			records := newJournal()
			require.NoError(t, mailbox.Send(records.message("test", 0, 0)))
			require.NoError(t, mailbox.Send(records.message("test", 0, 1)))
			require.ErrorIs(t, mailbox.Send(records.message("test", 0, 2)), gerrors.ErrMailboxFull)

			require.NoError(t, mailbox.Send(newSystemMessage(nil, "Stop", func(*ReceiveContext) error { return nil })))
			assert.EqualValues(t, 3, mailbox.PendingMessages())
			assert.True(t, mailbox.HasDeliverable())

			// an overflowing system message overtakes the queued ones
			msg := mailbox.Receive()
			require.NotNil(t, msg)
			assert.True(t, msg.IsSystem())

			require.NoError(t, mailbox.Send(newSystemMessage(nil, "Stop", func(*ReceiveContext) error { return nil })))
			require.NoError(t, mailbox.Send(newSystemMessage(nil, "Stop", func(*ReceiveContext) error { return nil })))
			assert.Len(t, mailbox.Close(), 4)
		}
	})

	t.Run("With policy names", func(t *testing.T) {
		assert.Equal(t, "Block", Block.String())
		assert.Equal(t, "Backpressure", Backpressure.String())
		assert.Equal(t, "Reject", Reject.String())
	})
}
