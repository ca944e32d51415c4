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
	"github.com/tochemey/actorcore/supervisor"
)

// Actor is the behavior hosted by a PID.
//
// An actor is only ever touched by one goroutine at a time: the one draining
// its mailbox. Its fields therefore need no synchronization, as long as they
// are not shared with other goroutines.
//
// The lifecycle of an actor follows three phases:
//  1. PreStart runs once before any message is delivered. An error fails the construction.
//  2. Receive handles every delivered message in arrival order.
//  3. PostStop runs once when the actor stops.
type Actor interface {
	// PreStart is invoked before the actor processes any message.
	// A non-nil error is reported to the actor supervisor as a construction failure.
	PreStart(ctx *Context) error
	// Receive handles the message carried by ctx. Report a failure with ctx.Err
	// or by panicking; either is handed to the supervisor.
	Receive(ctx *ReceiveContext)
	// PostStop is invoked once the actor is stopped
	PostStop(ctx *Context) error
}

// RestartAware is implemented by actors that want to know they are being restarted.
// BeforeRestart is called on the failed instance, AfterRestart on the new one.
type RestartAware interface {
	BeforeRestart(ctx *Context, reason error) error
	AfterRestart(ctx *Context, reason error) error
}

// ResumeAware is implemented by actors that want to know their supervisor
// decided to let them carry on after a failure.
type ResumeAware interface {
	BeforeResume(ctx *Context, reason error) error
}

// Scheduled is implemented by actors receiving signals from the Scheduler.
type Scheduled interface {
	IntervalSignal(ctx *ReceiveContext, data any)
}

// Supervisor is implemented by actors, and plain values, that decide what
// happens to a failed actor.
//
// When the supervisor is an actor, Inform runs on that actor's own goroutine,
// like any other message it receives.
type Supervisor interface {
	// Inform is called with the failure and a handle used to apply the decision.
	Inform(err error, supervised Supervised)
	// SupervisionStrategy returns the strategy this supervisor applies
	SupervisionStrategy() *supervisor.Strategy
}

// FuncActor adapts plain functions into an Actor.
type FuncActor struct {
	receive  func(ctx *ReceiveContext)
	preStart func(ctx *Context) error
	postStop func(ctx *Context) error
}

var _ Actor = (*FuncActor)(nil)

// NewFuncActor creates an actor delivering every message to receive.
func NewFuncActor(receive func(ctx *ReceiveContext)) *FuncActor {
	return &FuncActor{receive: receive}
}

// WithPreStart sets the function invoked at start
func (x *FuncActor) WithPreStart(fn func(ctx *Context) error) *FuncActor {
	x.preStart = fn
	return x
}

// WithPostStop sets the function invoked at stop
func (x *FuncActor) WithPostStop(fn func(ctx *Context) error) *FuncActor {
	x.postStop = fn
	return x
}

// PreStart implements Actor.
func (x *FuncActor) PreStart(ctx *Context) error {
	if x.preStart != nil {
		return x.preStart(ctx)
	}
	return nil
}

// Receive implements Actor.
func (x *FuncActor) Receive(ctx *ReceiveContext) {
	if x.receive != nil {
		x.receive(ctx)
	}
}

// PostStop implements Actor.
func (x *FuncActor) PostStop(ctx *Context) error {
	if x.postStop != nil {
		return x.postStop(ctx)
	}
	return nil
}
