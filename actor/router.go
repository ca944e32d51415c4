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

	"go.uber.org/atomic"

	gerrors "github.com/tochemey/actorcore/errors"
	"github.com/tochemey/actorcore/internal/validation"
	"github.com/tochemey/actorcore/router"
)

// RouterProtocol is the protocol of the messages handed to a router
const RouterProtocol = "actorcore.router"

// RouterDefinition describes a pool of routees and how messages are spread over it.
type RouterDefinition struct {
	poolSize int
	routee   *Definition
	strategy router.Strategy
	name     string
}

// RouterOption configures a RouterDefinition
type RouterOption func(*RouterDefinition)

// WithRouterName sets the name of the router actor
func WithRouterName(name string) RouterOption {
	return func(d *RouterDefinition) {
		d.name = name
	}
}

// NewRouterDefinition creates a RouterDefinition of poolSize routees built from routee
func NewRouterDefinition(poolSize int, routee *Definition, strategy router.Strategy, opts ...RouterOption) *RouterDefinition {
	def := &RouterDefinition{
		poolSize: poolSize,
		routee:   routee,
		strategy: strategy,
	}
	for _, opt := range opts {
		opt(def)
	}
	return def
}

// Validate checks the definition
func (d *RouterDefinition) Validate() error {
	return validation.New(validation.FailFast()).
		AddAssertion(d.poolSize > 0, gerrors.ErrInvalidRouterPoolSize).
		AddAssertion(d.routee != nil, gerrors.ErrUndefinedProducer).
		AddAssertion(d.strategy != nil, gerrors.ErrUndefinedRoutingStrategy).
		AddValidator(validation.ValidatorFunc(func() error {
			if d.routee == nil {
				return nil
			}
			return d.routee.Validate()
		})).
		Validate()
}

// Routee is a member of a router pool
type Routee struct {
	index    int
	pid      *PID
	messages *atomic.Int64
}

var _ router.Routee = (*Routee)(nil)

// Index returns the position of the routee in the pool
func (r *Routee) Index() int {
	return r.index
}

// PID returns the routee actor
func (r *Routee) PID() *PID {
	return r.pid
}

// MessageCount returns the number of messages routed to the routee
func (r *Routee) MessageCount() int64 {
	return r.messages.Load()
}

// PendingMessages returns the number of messages waiting in the routee mailbox
func (r *Routee) PendingMessages() int64 {
	return r.pid.PendingMessages()
}

// Router spreads messages over a fixed pool of routees. The pool is created
// with the router and every routee is a child of the router actor. Routing
// decisions are taken on the router actor goroutine, one message at a time.
type Router struct {
	pid      *PID
	routees  []*Routee
	views    []router.Routee
	strategy router.Strategy
}

// PID returns the router actor
func (r *Router) PID() *PID {
	return r.pid
}

// Routees returns the pool
func (r *Router) Routees() []*Routee {
	return r.routees
}

// Strategy returns the routing strategy
func (r *Router) Strategy() router.Strategy {
	return r.strategy
}

// Route hands payload to the routees selected by the strategy.
// Payloads no routee is selected for are dropped.
func (r *Router) Route(_ context.Context, payload any, opts ...MessageOption) error {
	opts = append(opts, WithPayload(payload))
	return r.pid.Send(NewMessage(RouterProtocol, "Route("+representationOf(payload)+")", func(*ReceiveContext) error {
		r.dispatch(payload, func(routee *Routee) *Message {
			return newTellMessage(routee.pid, payload, opts...)
		})
		return nil
	}, opts...))
}

// Dispatch routes a prepared invocation. The strategy sees the protocol as the message.
func (r *Router) Dispatch(protocol, representation string, invocation Invocation, opts ...MessageOption) error {
	return r.pid.Send(NewMessage(RouterProtocol, "Dispatch("+representation+")", func(*ReceiveContext) error {
		r.dispatch(protocol, func(*Routee) *Message {
			return NewMessage(protocol, representation, invocation, opts...)
		})
		return nil
	}))
}

func (r *Router) dispatch(message any, build func(routee *Routee) *Message) {
	selected := r.strategy.Select(message, r.views)
	if len(selected) == 0 {
		r.pid.logger.Debugf("%s found no routee for %T, message dropped", r.pid, message)
		return
	}

	for _, view := range selected {
		routee := r.routees[view.Index()]
		routee.messages.Inc()
		if err := routee.pid.Send(build(routee)); err != nil {
			r.pid.logger.Warnf("%s failed to route to %s: %v", r.pid, routee.pid, err)
		}
	}
}

// routerActor hosts a Router. Routing work arrives as invocations, so
// Receive only sees messages sent to the router with Tell.
type routerActor struct{}

func (routerActor) PreStart(*Context) error {
	return nil
}

func (routerActor) Receive(ctx *ReceiveContext) {
	ctx.Unhandled()
}

func (routerActor) PostStop(*Context) error {
	return nil
}

func (w *World) spawnRouter(def *RouterDefinition, parent *PID) (*Router, error) {
	if def == nil {
		return nil, gerrors.ErrUndefinedProducer
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	pid, err := w.spawn(Of(func() Actor { return routerActor{} }, WithName(def.name), WithProtocol(RouterProtocol)), parent)
	if err != nil {
		return nil, err
	}

	r := &Router{
		pid:      pid,
		strategy: def.strategy,
		routees:  make([]*Routee, 0, def.poolSize),
		views:    make([]router.Routee, 0, def.poolSize),
	}

	for index := range def.poolSize {
		child, err := w.spawn(def.routee, pid)
		if err != nil {
			pid.stopAsync()
			return nil, err
		}

		routee := &Routee{index: index, pid: child, messages: atomic.NewInt64(0)}
		r.routees = append(r.routees, routee)
		r.views = append(r.views, routee)
	}
	return r, nil
}
