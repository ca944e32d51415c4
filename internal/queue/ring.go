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

package queue

import (
	"sync/atomic"
)

type cell[T any] struct {
	sequence atomic.Uint64
	value    T
}

// Ring is a bounded lock-free queue backed by a power-of-two array.
// Producer and consumer positions advance monotonically with compare-and-swap
// and every slot carries a sequence number telling whether it is free to write
// or ready to read. Any number of goroutines may Offer and Poll concurrently.
// reference: https://www.1024cores.net/home/lock-free-algorithms/queues/bounded-mpmc-queue
type Ring[T any] struct {
	_          [64]byte
	enqueuePos atomic.Uint64
	_          [56]byte
	dequeuePos atomic.Uint64
	_          [56]byte
	mask       uint64
	cells      []cell[T]
}

// NewRing creates a Ring able to hold at least capacity items.
// The capacity is rounded up to the next power of two.
func NewRing[T any](capacity int) *Ring[T] {
	size := roundUpPowerOfTwo(capacity)
	r := &Ring[T]{
		mask:  size - 1,
		cells: make([]cell[T], size),
	}

	for i := range r.cells {
		r.cells[i].sequence.Store(uint64(i))
	}
	return r
}

// Offer adds the value at the back of the ring.
// It returns false when the ring is full.
func (r *Ring[T]) Offer(value T) bool {
	pos := r.enqueuePos.Load()
	for {
		c := &r.cells[pos&r.mask]
		seq := c.sequence.Load()
		switch dif := int64(seq) - int64(pos); {
		case dif == 0:
			if r.enqueuePos.CompareAndSwap(pos, pos+1) {
				c.value = value
				c.sequence.Store(pos + 1)
				return true
			}
			pos = r.enqueuePos.Load()
		case dif < 0:
			return false
		default:
			pos = r.enqueuePos.Load()
		}
	}
}

// Poll removes the value at the front of the ring.
// It returns false when the ring is empty.
func (r *Ring[T]) Poll() (T, bool) {
	var zero T
	pos := r.dequeuePos.Load()
	for {
		c := &r.cells[pos&r.mask]
		seq := c.sequence.Load()
		switch dif := int64(seq) - int64(pos+1); {
		case dif == 0:
			if r.dequeuePos.CompareAndSwap(pos, pos+1) {
				value := c.value
				c.value = zero
				c.sequence.Store(pos + r.mask + 1)
				return value, true
			}
			pos = r.dequeuePos.Load()
		case dif < 0:
			return zero, false
		default:
			pos = r.dequeuePos.Load()
		}
	}
}

// Len returns the number of items in the ring
func (r *Ring[T]) Len() int64 {
	enqueued := r.enqueuePos.Load()
	dequeued := r.dequeuePos.Load()
	if enqueued <= dequeued {
		return 0
	}
	return int64(enqueued - dequeued)
}

func roundUpPowerOfTwo(v int) uint64 {
	if v < 2 {
		return 2
	}
	n := uint64(v - 1)
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
