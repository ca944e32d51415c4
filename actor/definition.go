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
	"strings"
	"time"

	"github.com/tochemey/actorcore/address"
	gerrors "github.com/tochemey/actorcore/errors"
	"github.com/tochemey/actorcore/internal/validation"
)

// Producer creates a fresh actor instance. It is called at start and on every restart.
type Producer func() (Actor, error)

// Definition describes how to create an actor: its producer, the mailbox
// it should get and who supervises it.
type Definition struct {
	producer    Producer
	name        string
	address     *address.Address
	mailbox     string
	protocol    string
	supervisor  *PID
	initRetries int
	initTimeout time.Duration
}

// DefinitionOption configures a Definition
type DefinitionOption func(*Definition)

// NewDefinition creates a Definition for actors built by producer.
func NewDefinition(producer Producer, opts ...DefinitionOption) *Definition {
	def := &Definition{
		producer:    producer,
		mailbox:     QueueMailbox,
		initRetries: DefaultInitMaxRetries,
		initTimeout: DefaultInitTimeout,
	}
	for _, opt := range opts {
		opt(def)
	}
	return def
}

// Of creates a Definition for actors built by factory.
func Of(factory func() Actor, opts ...DefinitionOption) *Definition {
	var producer Producer
	if factory != nil {
		producer = func() (Actor, error) {
			return factory(), nil
		}
	}
	return NewDefinition(producer, opts...)
}

// WithName sets the name given to the allocated address
func WithName(name string) DefinitionOption {
	return func(d *Definition) {
		d.name = strings.TrimSpace(name)
	}
}

// WithAddress uses addr instead of allocating a new one. Spawning fails with
// ErrDuplicateAddress when addr is already in use.
func WithAddress(addr *address.Address) DefinitionOption {
	return func(d *Definition) {
		d.address = addr
	}
}

// WithMailbox sets the name of the mailbox provider
func WithMailbox(name string) DefinitionOption {
	return func(d *Definition) {
		d.mailbox = name
	}
}

// WithProtocol sets the protocol the actor serves. It is used to find a
// common supervisor. When unset the concrete actor type name is used.
func WithProtocol(protocol string) DefinitionOption {
	return func(d *Definition) {
		d.protocol = protocol
	}
}

// WithSupervisor sets the actor supervising the spawned actor
func WithSupervisor(supervisor *PID) DefinitionOption {
	return func(d *Definition) {
		d.supervisor = supervisor
	}
}

// WithInitRetries sets the number of attempts made to pre-start the actor
func WithInitRetries(retries int) DefinitionOption {
	return func(d *Definition) {
		d.initRetries = retries
	}
}

// WithInitTimeout sets the maximum delay between two pre-start attempts
func WithInitTimeout(timeout time.Duration) DefinitionOption {
	return func(d *Definition) {
		d.initTimeout = timeout
	}
}

// Name returns the requested actor name
func (d *Definition) Name() string {
	return d.name
}

// Mailbox returns the mailbox provider name
func (d *Definition) Mailbox() string {
	return d.mailbox
}

// Protocol returns the declared protocol
func (d *Definition) Protocol() string {
	return d.protocol
}

// Validate checks the definition
func (d *Definition) Validate() error {
	return validation.New(validation.FailFast()).
		AddAssertion(d.producer != nil, gerrors.ErrUndefinedProducer).
		AddAssertion(strings.TrimSpace(d.mailbox) != "", gerrors.NewErrUnknownMailboxType(d.mailbox)).
		AddAssertion(d.initRetries > 0, gerrors.ErrInvalidInitRetries).
		AddAssertion(d.initTimeout > 0, gerrors.ErrInvalidTimeout).
		Validate()
}

func (d *Definition) produce() (Actor, error) {
	actor, err := d.producer()
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, gerrors.ErrUndefinedActor
	}
	return actor, nil
}
