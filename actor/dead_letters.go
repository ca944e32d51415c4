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
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/tochemey/actorcore/address"
	gerrors "github.com/tochemey/actorcore/errors"
	"github.com/tochemey/actorcore/log"
)

// DeadLetter describes a message that could not be delivered.
type DeadLetter struct {
	// To is the address of the intended receiver
	To *address.Address
	// Representation is the readable form of the message
	Representation string
	// Reason tells why the message was not delivered
	Reason error
	// Timestamp is when the delivery was given up
	Timestamp time.Time
}

// String returns a readable form of the dead letter
func (d DeadLetter) String() string {
	return fmt.Sprintf("DeadLetter[to=%s, message=%s, reason=%v]", d.To, d.Representation, d.Reason)
}

// DeadLettersListener receives every dead letter of a world
type DeadLettersListener interface {
	Handle(deadLetter DeadLetter)
}

// DeadLettersListenerFunc adapts a function into a DeadLettersListener
type DeadLettersListenerFunc func(deadLetter DeadLetter)

// Handle implements DeadLettersListener.
func (f DeadLettersListenerFunc) Handle(deadLetter DeadLetter) {
	f(deadLetter)
}

// DeadLetters collects the messages sent to stopped or unknown actors and the
// ones still queued when an actor stops. Listeners are called synchronously on
// the goroutine that gave up the delivery.
type DeadLetters struct {
	mu        sync.RWMutex
	listeners []DeadLettersListener
	count     *atomic.Int64
	logger    log.Logger
}

// NewDeadLetters creates a DeadLetters
func NewDeadLetters(logger log.Logger) *DeadLetters {
	return &DeadLetters{
		count:  atomic.NewInt64(0),
		logger: logger,
	}
}

// Subscribe registers a listener
func (d *DeadLetters) Subscribe(listener DeadLettersListener) {
	d.mu.Lock()
	d.listeners = append(d.listeners, listener)
	d.mu.Unlock()
}

// FailedDelivery records that the message represented by representation
// could not reach the actor at to.
func (d *DeadLetters) FailedDelivery(to *address.Address, representation string) {
	d.publish(DeadLetter{
		To:             to,
		Representation: representation,
		Reason:         gerrors.ErrDead,
		Timestamp:      time.Now(),
	})
}

// Count returns the number of dead letters recorded so far
func (d *DeadLetters) Count() int64 {
	return d.count.Load()
}

// failedDelivery records msg as a dead letter and fails the outcome its sender waits on
func (d *DeadLetters) failedDelivery(to *address.Address, msg *Message, reason error) {
	if msg.answer != nil {
		msg.answer.Fail(reason)
	}

	d.publish(DeadLetter{
		To:             to,
		Representation: msg.representation,
		Reason:         reason,
		Timestamp:      time.Now(),
	})
}

func (d *DeadLetters) publish(deadLetter DeadLetter) {
	d.count.Inc()
	d.logger.Debug(deadLetter.String())

	d.mu.RLock()
	listeners := d.listeners
	d.mu.RUnlock()

	for _, listener := range listeners {
		d.notify(listener, deadLetter)
	}
}

func (d *DeadLetters) notify(listener DeadLettersListener, deadLetter DeadLetter) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Errorf("dead letters listener panicked: %v", r)
		}
	}()
	listener.Handle(deadLetter)
}
