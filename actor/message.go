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
	"fmt"

	"github.com/tochemey/actorcore/completes"
	"github.com/tochemey/actorcore/internal/registry"
	"github.com/tochemey/actorcore/log"
)

// unboundLogger reports the failures of messages delivered without a target
var unboundLogger log.Logger = log.DefaultLogger

// Invocation is the deferred work carried by a Message. It runs on the
// receiving actor goroutine; a non-nil error is a delivery failure.
type Invocation func(ctx *ReceiveContext) error

// Message is the envelope travelling through a mailbox. It knows which actor it
// targets, the protocol it belongs to and the invocation to run once delivered.
type Message struct {
	to             *PID
	sender         *PID
	protocol       string
	representation string
	invocation     Invocation
	payload        any
	answer         *completes.Completes[any]
	system         bool
	// dropped runs when a system message is discarded by a closing mailbox
	dropped func()
}

// MessageOption configures a Message
type MessageOption func(*Message)

// WithSender sets the message sender
func WithSender(sender *PID) MessageOption {
	return func(m *Message) {
		m.sender = sender
	}
}

// WithPayload attaches the value handed to ReceiveContext.Message
func WithPayload(payload any) MessageOption {
	return func(m *Message) {
		m.payload = payload
	}
}

// WithAnswer attaches the outcome the receiver writes with ReceiveContext.Response
func WithAnswer(answer *completes.Completes[any]) MessageOption {
	return func(m *Message) {
		m.answer = answer
	}
}

// NewMessage creates a Message. protocol names the interface the invocation
// belongs to and representation is a readable form of the call, used in logs
// and dead letters. The target is set by PID.Send.
func NewMessage(protocol, representation string, invocation Invocation, opts ...MessageOption) *Message {
	msg := &Message{
		protocol:       protocol,
		representation: representation,
		invocation:     invocation,
	}
	for _, opt := range opts {
		opt(msg)
	}
	return msg
}

// newTellMessage wraps payload into a message handled by the actor Receive method
func newTellMessage(to *PID, payload any, opts ...MessageOption) *Message {
	opts = append(opts, WithPayload(payload))
	msg := NewMessage(registry.Name(payload), representationOf(payload), receive, opts...)
	msg.to = to
	return msg
}

func newSystemMessage(to *PID, representation string, invocation Invocation) *Message {
	msg := NewMessage(SystemProtocol, representation, invocation)
	msg.to = to
	msg.system = true
	return msg
}

func receive(ctx *ReceiveContext) error {
	actor := ctx.Actor()
	if actor == nil {
		return nil
	}
	actor.Receive(ctx)
	return nil
}

// To returns the target actor
func (m *Message) To() *PID {
	return m.to
}

// Sender returns the sender, nil when unknown
func (m *Message) Sender() *PID {
	return m.sender
}

// Protocol returns the message protocol
func (m *Message) Protocol() string {
	return m.protocol
}

// Representation returns a readable form of the message
func (m *Message) Representation() string {
	return m.representation
}

// Payload returns the carried value
func (m *Message) Payload() any {
	return m.payload
}

// Answer returns the outcome attached to the message, if any
func (m *Message) Answer() *completes.Completes[any] {
	return m.answer
}

// IsSystem reports whether the message drives the actor lifecycle
func (m *Message) IsSystem() bool {
	return m.system
}

// String returns the message representation
func (m *Message) String() string {
	if m.to == nil {
		return m.representation
	}
	return fmt.Sprintf("%s -> %s", m.representation, m.to.Address())
}

// deliver runs the message on the target actor. Messages without a target
// are run as is, which is what bare mailbox users rely on.
func (m *Message) deliver() {
	if m.to != nil {
		m.to.deliver(m)
		return
	}
	if err := safely(func() error {
		return m.invocation(newReceiveContext(context.Background(), nil, m))
	}); err != nil {
		unboundLogger.Errorf("%s failed: %v", m.representation, err)
	}
}

func representationOf(payload any) string {
	return fmt.Sprintf("Tell(%T)", payload)
}
