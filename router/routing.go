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

// Package router provides the routing strategies used to spread messages
// over a fixed pool of homogeneous actors (routees).
//
// A strategy only decides where a message goes. Creating the pool, counting
// messages and delivering them is the job of the actor package router.
package router

// Routee is the view a strategy has of a pool member
type Routee interface {
	// Index returns the position of the routee in the pool
	Index() int
	// PendingMessages returns the number of messages waiting in the routee mailbox.
	// It must not block.
	PendingMessages() int64
}

// Strategy selects the routees a message is dispatched to.
// Implementations must be safe for concurrent use.
type Strategy interface {
	// Name returns the strategy name
	Name() string
	// Select returns the routees the message should be delivered to.
	// An empty result drops the message.
	Select(message any, routees []Routee) []Routee
}
