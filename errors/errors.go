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

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateAddress is returned when an address is registered twice in the directory.
	ErrDuplicateAddress = errors.New("address is already registered")

	// ErrUnknownMailboxType is returned when a definition names a mailbox provider that was never registered.
	ErrUnknownMailboxType = errors.New("unknown mailbox type")

	// ErrResourceExhausted is returned when the dispatcher cannot accept more work.
	ErrResourceExhausted = errors.New("dispatcher resources exhausted")

	// ErrConstructorFailure is returned when an actor instance could not be produced or pre-started.
	ErrConstructorFailure = errors.New("actor construction failed")

	// ErrDeliveryFailure is returned when a message handler fails.
	ErrDeliveryFailure = errors.New("message delivery failed")

	// ErrTimedOut is returned when an outcome was not written before its deadline.
	ErrTimedOut = errors.New("timed out")

	// ErrDead indicates that the actor is no longer alive or has been terminated.
	ErrDead = errors.New("actor is not alive")

	// ErrUnhandled is returned when an actor receives a message it cannot handle.
	ErrUnhandled = errors.New("unhandled message")

	// ErrUndefinedActor is returned when an actor reference is undefined.
	ErrUndefinedActor = errors.New("actor is not defined")

	// ErrUndefinedProducer is returned when a definition has no actor producer.
	ErrUndefinedProducer = errors.New("actor producer is not defined")

	// ErrMailboxClosed is returned when sending to a closed mailbox.
	ErrMailboxClosed = errors.New("mailbox is closed")

	// ErrMailboxFull is returned when a bounded mailbox cannot accept a message.
	ErrMailboxFull = errors.New("mailbox is full")

	// ErrDispatcherClosed is returned when work is handed to a closed dispatcher.
	ErrDispatcherClosed = errors.New("dispatcher is closed")

	// ErrSchedulerNotStarted is returned when attempting to use the scheduler before it has started.
	ErrSchedulerNotStarted = errors.New("scheduler has not started")

	// ErrWorldNotStarted is returned when using a world that is not running.
	ErrWorldNotStarted = errors.New("world is not running")

	// ErrWorldAlreadyStarted is returned when starting a running world.
	ErrWorldAlreadyStarted = errors.New("world has already started")

	// ErrNameRequired is returned when the world name is empty.
	ErrNameRequired = errors.New("world name is required")

	// ErrInvalidRouterPoolSize is returned when a router pool size is not strictly positive.
	ErrInvalidRouterPoolSize = errors.New("invalid router pool size, must be greater than zero")

	// ErrUndefinedRoutingStrategy is returned when a router is defined without a routing strategy.
	ErrUndefinedRoutingStrategy = errors.New("routing strategy is not defined")

	// ErrInvalidTimeout is returned when a timeout value is less than or equal to zero.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrInvalidInterval is returned when a repeating schedule has no interval.
	ErrInvalidInterval = errors.New("invalid interval, must be greater than zero")

	// ErrNotScheduled is returned when a scheduled signal reaches an actor that cannot handle it.
	ErrNotScheduled = errors.New("actor does not handle interval signals")

	// ErrNotSupervisor is returned when a supervisor definition does not produce a Supervisor.
	ErrNotSupervisor = errors.New("actor is not a supervisor")

	// ErrInvalidWorldName is returned when the world name contains forbidden characters.
	ErrInvalidWorldName = errors.New("invalid world name, must contain only word characters (i.e. [a-zA-Z0-9] plus non-leading '-' or '_')")

	// ErrInvalidInitRetries is returned when a definition allows no pre-start attempt.
	ErrInvalidInitRetries = errors.New("invalid init retries, must be greater than zero")
)

// NewErrDuplicateAddress returns ErrDuplicateAddress annotated with the address
func NewErrDuplicateAddress(address string) error {
	return fmt.Errorf("address=(%s) %w", address, ErrDuplicateAddress)
}

// NewErrUnknownMailboxType returns ErrUnknownMailboxType annotated with the mailbox name
func NewErrUnknownMailboxType(name string) error {
	return fmt.Errorf("mailbox=(%s) %w", name, ErrUnknownMailboxType)
}

func NewErrConstructorFailure(err error) error {
	return errors.Join(ErrConstructorFailure, err)
}

func NewErrDeliveryFailure(err error) error {
	return errors.Join(ErrDeliveryFailure, err)
}

func NewErrUnhandled(representation string) error {
	return fmt.Errorf("message=(%s) %w", representation, ErrUnhandled)
}

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}

// AnyError is used to match any error type
// when mapping errors to supervision directives.
type AnyError struct{}

// enforce compilation error
var _ error = (*AnyError)(nil)

func (*AnyError) Error() string {
	return "*"
}
