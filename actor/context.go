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
	"time"

	"github.com/tochemey/actorcore/completes"
	gerrors "github.com/tochemey/actorcore/errors"
	"github.com/tochemey/actorcore/log"
)

// Context is handed to the lifecycle hooks of an actor.
type Context struct {
	ctx  context.Context
	self *PID
}

func newContext(ctx context.Context, self *PID) *Context {
	return &Context{ctx: ctx, self: self}
}

// Context returns the underlying context
func (c *Context) Context() context.Context {
	return c.ctx
}

// Self returns the PID hosting the actor
func (c *Context) Self() *PID {
	return c.self
}

// World returns the world the actor lives in
func (c *Context) World() *World {
	return c.self.world
}

// Logger returns the actor logger
func (c *Context) Logger() log.Logger {
	return c.self.logger
}

// Spawn creates a child actor. Children are stopped with their parent.
func (c *Context) Spawn(def *Definition) (*PID, error) {
	return c.self.world.spawn(def, c.self)
}

// ReceiveContext carries the message being delivered to an actor.
// It is only valid for the duration of the delivery.
type ReceiveContext struct {
	ctx     context.Context
	self    *PID
	message *Message
	err     error
}

func newReceiveContext(ctx context.Context, self *PID, message *Message) *ReceiveContext {
	return &ReceiveContext{ctx: ctx, self: self, message: message}
}

// Context returns the underlying context
func (rc *ReceiveContext) Context() context.Context {
	return rc.ctx
}

// Self returns the PID of the receiving actor
func (rc *ReceiveContext) Self() *PID {
	return rc.self
}

// Actor returns the receiving actor instance
func (rc *ReceiveContext) Actor() Actor {
	if rc.self == nil {
		return nil
	}
	return rc.self.actor
}

// World returns the world the actor lives in
func (rc *ReceiveContext) World() *World {
	return rc.self.world
}

// Logger returns the actor logger
func (rc *ReceiveContext) Logger() log.Logger {
	if rc.self == nil {
		return log.DiscardLogger
	}
	return rc.self.logger
}

// Message returns the message payload
func (rc *ReceiveContext) Message() any {
	return rc.message.payload
}

// Envelope returns the message being delivered
func (rc *ReceiveContext) Envelope() *Message {
	return rc.message
}

// Sender returns the sender of the message, nil when unknown
func (rc *ReceiveContext) Sender() *PID {
	return rc.message.sender
}

// Protocol returns the protocol of the message
func (rc *ReceiveContext) Protocol() string {
	return rc.message.protocol
}

// Err reports a failure of the current delivery. The failure is handed
// to the supervisor once the handler returns.
func (rc *ReceiveContext) Err(err error) {
	rc.err = err
}

// Unhandled hands the message over to the dead letters
func (rc *ReceiveContext) Unhandled() {
	if rc.self == nil {
		return
	}
	rc.self.world.deadLetters.failedDelivery(rc.self.Address(), rc.message, gerrors.NewErrUnhandled(rc.message.representation))
}

// Response answers the sender when the message came from Ask or Request.
// It is a no-op otherwise, and only the first answer counts.
func (rc *ReceiveContext) Response(value any) {
	if rc.message.answer != nil {
		rc.message.answer.With(value)
	}
}

// Tell sends payload to the given actor with the receiving actor as sender
func (rc *ReceiveContext) Tell(to *PID, payload any) error {
	return Tell(rc.ctx, to, payload, WithSender(rc.self))
}

// Request sends payload to the given actor and returns the outcome the target
// will answer with. It never blocks the receiving actor.
func (rc *ReceiveContext) Request(to *PID, payload any, timeout time.Duration) *completes.Completes[any] {
	return Request(rc.ctx, to, payload, timeout, WithSender(rc.self))
}

// Spawn creates a child of the receiving actor
func (rc *ReceiveContext) Spawn(def *Definition) (*PID, error) {
	return rc.self.world.spawn(def, rc.self)
}

// SpawnRouter creates a router as a child of the receiving actor
func (rc *ReceiveContext) SpawnRouter(def *RouterDefinition) (*Router, error) {
	return rc.self.world.spawnRouter(def, rc.self)
}

// Stop asks the given actor to stop without waiting for it
func (rc *ReceiveContext) Stop(pid *PID) {
	pid.stopAsync()
}

// Suspend defers delivery of every message whose protocol is not in exempt
// until Resume is called with the same name. Deferred messages keep their order.
func (rc *ReceiveContext) Suspend(name string, exempt ...string) {
	rc.self.mailbox.Suspend(name, exempt...)
}

// Resume lifts the suspension installed under name
func (rc *ReceiveContext) Resume(name string) {
	rc.self.mailbox.Resume(name)
}

func (rc *ReceiveContext) getError() error {
	return rc.err
}
