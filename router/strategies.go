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

package router

import (
	"math/rand/v2"

	"go.uber.org/atomic"
)

// RoundRobin rotates over the set of routees making sure that if there are n routees,
// then for n messages sent through the router, each routee is forwarded one message.
type RoundRobin struct {
	next *atomic.Uint64
}

var _ Strategy = (*RoundRobin)(nil)

// NewRoundRobin creates an instance of RoundRobin
func NewRoundRobin() *RoundRobin {
	return &RoundRobin{next: atomic.NewUint64(0)}
}

// Name returns the strategy name
func (x *RoundRobin) Name() string {
	return "RoundRobin"
}

// Select returns the next routee in the rotation
func (x *RoundRobin) Select(_ any, routees []Routee) []Routee {
	size := uint64(len(routees))
	if size == 0 {
		return nil
	}
	index := (x.next.Inc() - 1) % size
	return routees[index : index+1]
}

// Random selects a routee at random when a message is sent through the router.
type Random struct{}

var _ Strategy = Random{}

// NewRandom creates an instance of Random
func NewRandom() Random {
	return Random{}
}

// Name returns the strategy name
func (Random) Name() string {
	return "Random"
}

// Select returns a uniformly picked routee
func (Random) Select(_ any, routees []Routee) []Routee {
	if len(routees) == 0 {
		return nil
	}
	index := rand.IntN(len(routees)) //nolint:gosec
	return routees[index : index+1]
}

// Broadcast delivers every message to every routee.
type Broadcast struct{}

var _ Strategy = Broadcast{}

// NewBroadcast creates an instance of Broadcast
func NewBroadcast() Broadcast {
	return Broadcast{}
}

// Name returns the strategy name
func (Broadcast) Name() string {
	return "Broadcast"
}

// Select returns all the routees
func (Broadcast) Select(_ any, routees []Routee) []Routee {
	return routees
}

// SmallestMailbox picks the routee with the fewest pending messages
// at dispatch time. Ties are broken by pool order.
type SmallestMailbox struct{}

var _ Strategy = SmallestMailbox{}

// NewSmallestMailbox creates an instance of SmallestMailbox
func NewSmallestMailbox() SmallestMailbox {
	return SmallestMailbox{}
}

// Name returns the strategy name
func (SmallestMailbox) Name() string {
	return "SmallestMailbox"
}

// Select returns the least loaded routee
func (SmallestMailbox) Select(_ any, routees []Routee) []Routee {
	if len(routees) == 0 {
		return nil
	}

	selected := 0
	smallest := routees[0].PendingMessages()
	for index := 1; index < len(routees) && smallest > 0; index++ {
		if pending := routees[index].PendingMessages(); pending < smallest {
			selected, smallest = index, pending
		}
	}
	return routees[selected : selected+1]
}
