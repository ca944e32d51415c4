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
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/flowchartsman/retry"
	"go.uber.org/atomic"

	"github.com/tochemey/actorcore/address"
	gerrors "github.com/tochemey/actorcore/errors"
	"github.com/tochemey/actorcore/internal/queue"
)

// Mailbox is the per-actor message queue.
//
// Any number of goroutines may Send concurrently. Exactly one goroutine at a
// time receives from it: the one that won TryDelivering.
type Mailbox interface {
	// Owner returns the address of the actor owning the mailbox
	Owner() *address.Address
	// Send enqueues msg and asks the dispatcher to deliver it.
	// It returns ErrMailboxClosed once the mailbox is closed.
	Send(msg *Message) error
	// Receive returns the next deliverable message, nil when there is none
	Receive() *Message
	// Close refuses further messages and returns the ones that were never delivered
	Close() []*Message
	// IsClosed reports whether the mailbox is closed
	IsClosed() bool
	// IsDelivering reports whether a goroutine is draining the mailbox
	IsDelivering() bool
	// TryDelivering marks the mailbox as being drained. It returns false when
	// another goroutine already does it.
	TryDelivering() bool
	// DoneDelivering clears the delivering mark
	DoneDelivering()
	// HasDeliverable reports whether Receive would return a message
	HasDeliverable() bool
	// PendingMessages returns the number of queued and stowed messages without blocking
	PendingMessages() int64
	// ThrottlingCount returns the maximum number of messages delivered per drain pass
	ThrottlingCount() int
	// Suspend pushes a named barrier. While any barrier stands only system
	// messages and the messages whose protocol is exempt by the top barrier are
	// delivered; the others are stowed.
	Suspend(name string, exempt ...string)
	// Resume removes the barrier pushed under name. Stowed messages are
	// delivered again, in order, once no barrier is left.
	Resume(name string)
	// IsSuspended reports whether a barrier stands
	IsSuspended() bool
}

// FullPolicy is what a bounded mailbox does when it cannot take a message.
type FullPolicy int

const (
	// Block retries, nudging the dispatcher between rounds, until the message
	// fits, the mailbox is closed or the block timeout elapses. A send made by
	// the goroutine that drains the target fails fast with ErrMailboxFull.
	Block FullPolicy = iota
	// Backpressure retries a bounded number of times and then returns ErrMailboxFull
	Backpressure
	// Reject returns ErrMailboxFull immediately
	Reject
)

// String returns the policy name
func (p FullPolicy) String() string {
	switch p {
	case Block:
		return "Block"
	case Backpressure:
		return "Backpressure"
	case Reject:
		return "Reject"
	default:
		return "Unknown"
	}
}

// MailboxOption configures a mailbox
type MailboxOption func(*mailbox)

// WithMailboxThrottlingCount sets how many messages are delivered per drain pass
func WithMailboxThrottlingCount(count int) MailboxOption {
	return func(m *mailbox) {
		if count > 0 {
			m.throttlingCount = count
		}
	}
}

// WithFullPolicy sets the behavior of a full bounded mailbox
func WithFullPolicy(policy FullPolicy) MailboxOption {
	return func(m *mailbox) {
		m.policy = policy
	}
}

// WithSendRetries sets the number of enqueue attempts made before the full policy applies
func WithSendRetries(retries int) MailboxOption {
	return func(m *mailbox) {
		if retries > 0 {
			m.sendRetries = retries
		}
	}
}

// WithBlockTimeout bounds how long a Block send waits for room
func WithBlockTimeout(timeout time.Duration) MailboxOption {
	return func(m *mailbox) {
		if timeout > 0 {
			m.blockTimeout = timeout
		}
	}
}

// messageQueue is the storage a mailbox is built on
type messageQueue interface {
	Offer(msg *Message) bool
	Poll() (*Message, bool)
	Len() int64
	Dispose()
}

type barrier struct {
	name   string
	exempt mapset.Set[string]
}

// mailbox implements Mailbox on top of a messageQueue. The three mailbox
// kinds only differ by their queue and the dispatcher serving them.
type mailbox struct {
	owner           *address.Address
	queue           messageQueue
	dispatcher      Dispatcher
	throttlingCount int
	policy          FullPolicy
	sendRetries     int
	blockTimeout    time.Duration
	// overflow holds the system messages a full queue could not take
	overflow *queue.Mpsc[*Message]

	closed     *atomic.Bool
	delivering *atomic.Bool
	suspended  *atomic.Bool
	stowed     *atomic.Int64

	mu       sync.Mutex
	barriers []*barrier
	stowage  *Stowage
}

var _ Mailbox = (*mailbox)(nil)

func newMailbox(owner *address.Address, storage messageQueue, dispatcher Dispatcher, opts ...MailboxOption) *mailbox {
	m := &mailbox{
		owner:           owner,
		queue:           storage,
		dispatcher:      dispatcher,
		throttlingCount: DefaultThrottlingCount,
		policy:          Block,
		sendRetries:     DefaultSendRetries,
		blockTimeout:    DefaultBlockTimeout,
		overflow:        queue.NewMpsc[*Message](),
		closed:          atomic.NewBool(false),
		delivering:      atomic.NewBool(false),
		suspended:       atomic.NewBool(false),
		stowed:          atomic.NewInt64(0),
		stowage:         NewStowage(),
	}
	for _, opt := range opts {
		opt(m)
	}
	dispatcher.Register(m)
	return m
}

// Owner implements Mailbox.
func (m *mailbox) Owner() *address.Address {
	return m.owner
}

// Send implements Mailbox.
func (m *mailbox) Send(msg *Message) error {
	if m.closed.Load() {
		return gerrors.ErrMailboxClosed
	}

	if !m.queue.Offer(msg) {
		switch {
		case msg.system:
			// lifecycle messages are never subject to the capacity
			m.overflow.Push(msg)
		default:
			if err := m.offerFull(msg); err != nil {
				return err
			}
		}
	}

	if err := m.dispatcher.Execute(m); err != nil {
		switch {
		case errors.Is(err, gerrors.ErrDispatcherClosed):
			// the message stays queued and surfaces as a dead letter once the mailbox closes
			return nil
		case m.closed.Load():
			return nil
		default:
			return err
		}
	}
	return nil
}

// offerFull applies the full policy. A nil error with a closed mailbox means
// the message was dropped while waiting for room.
func (m *mailbox) offerFull(msg *Message) error {
	switch m.policy {
	case Reject:
		return gerrors.ErrMailboxFull
	case Backpressure:
		if err := m.retryOffer(msg); err != nil {
			return gerrors.ErrMailboxFull
		}
		return nil
	default:
		if m.drainedBy(msg.sender) {
			return gerrors.ErrMailboxFull
		}

		deadline := time.Now().Add(m.blockTimeout)
		for {
			if err := m.retryOffer(msg); err == nil {
				return nil
			}
			if time.Now().After(deadline) {
				return gerrors.ErrMailboxFull
			}
			// make sure somebody is draining before going for another round
			_ = m.dispatcher.Execute(m)
		}
	}
}

// drainedBy reports whether sender runs on the goroutine in charge of draining
// this mailbox, in which case waiting for room can never succeed.
func (m *mailbox) drainedBy(sender *PID) bool {
	if sender == nil {
		return false
	}

	peer, ok := sender.mailbox.(*mailbox)
	if !ok || !peer.IsDelivering() {
		return false
	}

	if peer == m {
		return true
	}

	ring, ok := m.dispatcher.(*RingDispatcher)
	return ok && peer.dispatcher == m.dispatcher && ring.drainerOf(peer) == ring.drainerOf(m)
}

func (m *mailbox) retryOffer(msg *Message) error {
	retrier := retry.NewRetrier(m.sendRetries, 10*time.Microsecond, time.Millisecond)
	return retrier.RunContext(context.Background(), func(context.Context) error {
		if m.closed.Load() {
			return nil
		}
		if m.queue.Offer(msg) {
			return nil
		}
		return gerrors.ErrMailboxFull
	})
}

// Receive implements Mailbox.
func (m *mailbox) Receive() *Message {
	if m.closed.Load() {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.overflow.IsEmpty() {
		if msg, ok := m.overflow.Pop(); ok {
			return msg
		}
	}

	if len(m.barriers) == 0 && m.stowage.IsDispersing() {
		if msg := m.stowage.Head(); msg != nil {
			m.stowed.Dec()
			return msg
		}
	}

	for {
		msg, ok := m.queue.Poll()
		if !ok {
			return nil
		}

		if len(m.barriers) == 0 || msg.system {
			return msg
		}

		top := m.barriers[len(m.barriers)-1]
		if top.exempt.Contains(msg.protocol) {
			return msg
		}

		if m.stowage.IsIdle() {
			m.stowage.StowingMode()
		}
		m.stowage.Stow(msg)
		m.stowed.Inc()
	}
}

// Close implements Mailbox.
func (m *mailbox) Close() []*Message {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}

	m.dispatcher.Unregister(m)

	// the lock keeps a Receive in flight from polling concurrently
	m.mu.Lock()
	defer m.mu.Unlock()

	dropped := m.stowage.Reset()
	m.barriers = nil
	m.suspended.Store(false)
	m.stowed.Store(0)

	for {
		msg, ok := m.overflow.Pop()
		if !ok {
			break
		}
		dropped = append(dropped, msg)
	}

	for {
		msg, ok := m.queue.Poll()
		if !ok {
			break
		}
		dropped = append(dropped, msg)
	}
	m.queue.Dispose()
	return dropped
}

// IsClosed implements Mailbox.
func (m *mailbox) IsClosed() bool {
	return m.closed.Load()
}

// IsDelivering implements Mailbox.
func (m *mailbox) IsDelivering() bool {
	return m.delivering.Load()
}

// TryDelivering implements Mailbox.
func (m *mailbox) TryDelivering() bool {
	return m.delivering.CompareAndSwap(false, true)
}

// DoneDelivering implements Mailbox.
func (m *mailbox) DoneDelivering() {
	m.delivering.Store(false)
}

// HasDeliverable implements Mailbox.
func (m *mailbox) HasDeliverable() bool {
	if m.closed.Load() {
		return false
	}
	if m.queue.Len() > 0 || m.overflow.Len() > 0 {
		return true
	}
	return !m.suspended.Load() && m.stowed.Load() > 0
}

// PendingMessages implements Mailbox.
func (m *mailbox) PendingMessages() int64 {
	return m.queue.Len() + m.overflow.Len() + m.stowed.Load()
}

// ThrottlingCount implements Mailbox.
func (m *mailbox) ThrottlingCount() int {
	return m.throttlingCount
}

// Suspend implements Mailbox.
func (m *mailbox) Suspend(name string, exempt ...string) {
	m.mu.Lock()
	m.barriers = append(m.barriers, &barrier{
		name:   name,
		exempt: mapset.NewThreadUnsafeSet(exempt...),
	})
	m.suspended.Store(true)
	m.mu.Unlock()
}

// Resume implements Mailbox.
func (m *mailbox) Resume(name string) {
	m.mu.Lock()
	removed := false
	for i := len(m.barriers) - 1; i >= 0; i-- {
		if m.barriers[i].name == name {
			m.barriers = append(m.barriers[:i], m.barriers[i+1:]...)
			removed = true
			break
		}
	}

	if !removed || len(m.barriers) > 0 {
		m.mu.Unlock()
		return
	}

	m.suspended.Store(false)
	m.stowage.DispersingMode()
	m.mu.Unlock()

	if m.HasDeliverable() {
		_ = m.dispatcher.Execute(m)
	}
}

// IsSuspended implements Mailbox.
func (m *mailbox) IsSuspended() bool {
	return m.suspended.Load()
}
