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
	gods "github.com/Workiva/go-datastructures/queue"

	"github.com/tochemey/actorcore/address"
	"github.com/tochemey/actorcore/internal/queue"
)

// NewQueueMailbox creates an unbounded mailbox backed by a lock-free
// multi-producer single-consumer queue. It is meant to be served by the
// ExecutorDispatcher.
func NewQueueMailbox(owner *address.Address, dispatcher Dispatcher, opts ...MailboxOption) Mailbox {
	return newMailbox(owner, &mpscQueue{underlying: queue.NewMpsc[*Message]()}, dispatcher, opts...)
}

// NewRingMailbox creates a bounded mailbox backed by a power-of-two ring whose
// indices advance with compare-and-swap. It is meant to be served by the
// RingDispatcher. The capacity is rounded up to the next power of two.
func NewRingMailbox(owner *address.Address, dispatcher Dispatcher, capacity int, opts ...MailboxOption) Mailbox {
	return newMailbox(owner, &ringQueue{underlying: queue.NewRing[*Message](capacity)}, dispatcher, opts...)
}

// NewArrayQueueMailbox creates a bounded mailbox backed by an array ring buffer.
// It rejects messages once full unless another policy is given.
func NewArrayQueueMailbox(owner *address.Address, dispatcher Dispatcher, capacity int, opts ...MailboxOption) Mailbox {
	opts = append([]MailboxOption{WithFullPolicy(Reject)}, opts...)
	return newMailbox(owner, &arrayQueue{underlying: gods.NewRingBuffer(uint64(max(capacity, 1)))}, dispatcher, opts...)
}

type mpscQueue struct {
	underlying *queue.Mpsc[*Message]
}

func (q *mpscQueue) Offer(msg *Message) bool {
	return q.underlying.Push(msg)
}

func (q *mpscQueue) Poll() (*Message, bool) {
	return q.underlying.Pop()
}

func (q *mpscQueue) Len() int64 {
	return q.underlying.Len()
}

func (q *mpscQueue) Dispose() {}

type ringQueue struct {
	underlying *queue.Ring[*Message]
}

func (q *ringQueue) Offer(msg *Message) bool {
	return q.underlying.Offer(msg)
}

func (q *ringQueue) Poll() (*Message, bool) {
	return q.underlying.Poll()
}

func (q *ringQueue) Len() int64 {
	return q.underlying.Len()
}

func (q *ringQueue) Dispose() {}

type arrayQueue struct {
	underlying *gods.RingBuffer
}

func (q *arrayQueue) Offer(msg *Message) bool {
	ok, err := q.underlying.Offer(msg)
	return ok && err == nil
}

// Poll never blocks: Get is only called when the buffer holds an item.
func (q *arrayQueue) Poll() (*Message, bool) {
	if q.underlying.Len() == 0 {
		return nil, false
	}
	item, err := q.underlying.Get()
	if err != nil {
		return nil, false
	}
	msg, ok := item.(*Message)
	return msg, ok
}

func (q *arrayQueue) Len() int64 {
	return int64(q.underlying.Len())
}

func (q *arrayQueue) Dispose() {
	q.underlying.Dispose()
}
