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
	"errors"
	"fmt"
	"runtime"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/flowchartsman/retry"
	"go.uber.org/atomic"

	"github.com/tochemey/actorcore/address"
	gerrors "github.com/tochemey/actorcore/errors"
	"github.com/tochemey/actorcore/internal/registry"
	"github.com/tochemey/actorcore/log"
	"github.com/tochemey/actorcore/supervisor"
)

const (
	startingState int32 = iota
	activeState
	suspendedState
	stoppedState
)

// PID is the handle of a live actor. It owns the actor mailbox and drives
// its lifecycle: Starting -> Active -> {Suspended, Stopped} and
// Suspended -> {Active, Stopped}.
//
// Every lifecycle transition is a system message delivered through the
// mailbox, so the actor instance is only ever touched by the goroutine
// draining it.
type PID struct {
	address    *address.Address
	definition *Definition
	world      *World
	parent     *PID
	children   mapset.Set[*PID]
	mailbox    Mailbox
	logger     log.Logger

	// only touched by the draining goroutine
	actor Actor

	protocol       *atomic.String
	supervises     *atomic.Bool
	state          *atomic.Int32
	stopping       *atomic.Bool
	restarts       *supervisor.RestartWindow
	restartCount   *atomic.Int64
	processedCount *atomic.Int64
	stopped        chan struct{}
}

func newPID(world *World, def *Definition, addr *address.Address, parent *PID) *PID {
	return &PID{
		address:        addr,
		definition:     def,
		world:          world,
		parent:         parent,
		children:       mapset.NewSet[*PID](),
		logger:         world.logger,
		protocol:       atomic.NewString(def.protocol),
		supervises:     atomic.NewBool(false),
		state:          atomic.NewInt32(startingState),
		stopping:       atomic.NewBool(false),
		restarts:       supervisor.NewRestartWindow(),
		restartCount:   atomic.NewInt64(0),
		processedCount: atomic.NewInt64(0),
		stopped:        make(chan struct{}),
	}
}

// Address returns the actor address
func (pid *PID) Address() *address.Address {
	return pid.address
}

// Name returns the actor name
func (pid *PID) Name() string {
	return pid.address.Name()
}

// String returns the actor address as a string
func (pid *PID) String() string {
	return pid.address.String()
}

// Equals reports whether both PIDs designate the same actor
func (pid *PID) Equals(other *PID) bool {
	if pid == nil || other == nil {
		return pid == other
	}
	return pid.address.Equals(other.address)
}

// Parent returns the parent actor, nil for top-level actors
func (pid *PID) Parent() *PID {
	return pid.parent
}

// Children returns the live children of the actor
func (pid *PID) Children() []*PID {
	return pid.children.ToSlice()
}

// World returns the world the actor lives in
func (pid *PID) World() *World {
	return pid.world
}

// Protocol returns the protocol the actor serves
func (pid *PID) Protocol() string {
	return pid.protocol.Load()
}

// IsRunning reports whether the actor has not stopped yet
func (pid *PID) IsRunning() bool {
	return !pid.stopping.Load()
}

// IsActive reports whether the actor is started and not suspended
func (pid *PID) IsActive() bool {
	return pid.state.Load() == activeState
}

// IsSuspended reports whether the actor waits for a supervision decision
func (pid *PID) IsSuspended() bool {
	return pid.state.Load() == suspendedState
}

// IsStopped reports whether the actor is stopped
func (pid *PID) IsStopped() bool {
	return pid.state.Load() == stoppedState
}

// PendingMessages returns the number of messages waiting in the mailbox
func (pid *PID) PendingMessages() int64 {
	return pid.mailbox.PendingMessages()
}

// RestartCount returns the number of times the actor was restarted
func (pid *PID) RestartCount() int64 {
	return pid.restartCount.Load()
}

// ProcessedCount returns the number of messages handed to the actor
func (pid *PID) ProcessedCount() int64 {
	return pid.processedCount.Load()
}

// Stopped returns a channel closed once the actor is stopped
func (pid *PID) Stopped() <-chan struct{} {
	return pid.stopped
}

// Send enqueues msg into the actor mailbox. Messages sent to a stopped actor
// are handed to the dead letters.
//
// ErrMailboxFull means msg was not accepted. ErrResourceExhausted means msg was
// accepted but no worker could be scheduled yet: it stays queued and is
// delivered by the next drain of the mailbox, so it must not be sent again.
func (pid *PID) Send(msg *Message) error {
	if msg == nil {
		return nil
	}
	msg.to = pid

	if pid.stopping.Load() {
		pid.world.deadLetters.failedDelivery(pid.address, msg, gerrors.ErrDead)
		return nil
	}

	if err := pid.mailbox.Send(msg); err != nil {
		if errors.Is(err, gerrors.ErrMailboxClosed) {
			pid.world.deadLetters.failedDelivery(pid.address, msg, gerrors.ErrDead)
			return nil
		}
		return err
	}
	return nil
}

// Stop stops the actor and its children and waits for it to terminate.
// It must not be called by the actor on itself; use ReceiveContext.Stop instead.
func (pid *PID) Stop(ctx context.Context) error {
	pid.stopAsync()
	select {
	case <-pid.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (pid *PID) stopAsync() {
	if pid.stopping.Load() {
		return
	}
	if err := pid.sendSystem("Stop", func(*ReceiveContext) error {
		pid.shutdown()
		return nil
	}); err != nil {
		pid.logger.Warnf("failed to stop %s: %v", pid, err)
	}
}

func (pid *PID) sendSystem(representation string, invocation Invocation) error {
	return pid.sendSystemMessage(newSystemMessage(pid, representation, invocation))
}

func (pid *PID) sendSystemMessage(msg *Message) error {
	err := pid.mailbox.Send(msg)
	if errors.Is(err, gerrors.ErrMailboxClosed) {
		return gerrors.ErrDead
	}
	return err
}

// deliver runs msg on the actor. It is called by the goroutine draining the mailbox.
func (pid *PID) deliver(msg *Message) {
	rctx := newReceiveContext(context.Background(), pid, msg)

	if msg.system {
		if err := pid.invoke(rctx); err != nil {
			pid.logger.Errorf("%s failed to handle %s: %v", pid, msg.representation, err)
		}
		return
	}

	if pid.stopping.Load() || pid.actor == nil {
		pid.world.deadLetters.failedDelivery(pid.address, msg, gerrors.ErrDead)
		return
	}

	err := pid.invoke(rctx)
	pid.processedCount.Inc()
	if err != nil {
		pid.fail(gerrors.NewErrDeliveryFailure(err))
	}
}

// invoke runs the message invocation and turns a panic into a PanicError
func (pid *PID) invoke(rctx *ReceiveContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
	}()

	if err := rctx.message.invocation(rctx); err != nil {
		return err
	}
	return rctx.getError()
}

// safely runs a lifecycle hook and turns a panic into a PanicError
func safely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
	}()
	return fn()
}

func recovered(r any) error {
	pc, fn, line, _ := runtime.Caller(3)
	switch err, ok := r.(error); {
	case ok:
		var pe *gerrors.PanicError
		if errors.As(err, &pe) {
			return pe
		}
		return gerrors.NewPanicError(fmt.Errorf("%w at %s[%s:%d]", err, runtime.FuncForPC(pc).Name(), fn, line))
	default:
		return gerrors.NewPanicError(fmt.Errorf("%#v at %s[%s:%d]", r, runtime.FuncForPC(pc).Name(), fn, line))
	}
}

// start produces the actor and runs PreStart
func (pid *PID) start() {
	if pid.stopping.Load() {
		return
	}

	pid.logger.Debugf("%s starting...", pid)
	actor, err := pid.construct()
	if err != nil {
		pid.logger.Errorf("%s failed to start: %v", pid, err)
		pid.fail(gerrors.NewErrConstructorFailure(err))
		return
	}

	pid.install(actor)
	pid.state.Store(activeState)
	pid.logger.Debugf("%s successfully started.", pid)
}

// construct produces a fresh actor and pre-starts it, retrying on failure
func (pid *PID) construct() (Actor, error) {
	def := pid.definition
	ctx, cancel := context.WithTimeout(context.Background(), def.initTimeout)
	defer cancel()

	var actor Actor
	retrier := retry.NewRetrier(def.initRetries, time.Millisecond, def.initTimeout)
	err := retrier.RunContext(ctx, func(ctx context.Context) error {
		return safely(func() error {
			instance, err := def.produce()
			if err != nil {
				return err
			}
			if err := instance.PreStart(newContext(ctx, pid)); err != nil {
				return err
			}
			actor = instance
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return actor, nil
}

func (pid *PID) install(actor Actor) {
	pid.actor = actor
	if pid.definition.protocol == "" {
		pid.protocol.Store(registry.Name(actor))
	}
	_, ok := actor.(Supervisor)
	pid.supervises.Store(ok)
}

// fail suspends the mailbox and hands the failure to the supervisor.
// Only system messages are delivered until a decision is applied.
func (pid *PID) fail(reason error) {
	if pid.stopping.Load() {
		return
	}

	pid.logger.Errorf("%s failed: %v", pid, reason)
	if pid.state.Swap(suspendedState) != suspendedState {
		pid.mailbox.Suspend(supervisionBarrier, SystemProtocol)
	}
	pid.world.supervise(pid, reason)
}

// restart replaces the actor instance and resumes the mailbox. Messages
// stowed during the suspension are delivered before any new one.
func (pid *PID) restart(reason error) {
	if pid.stopping.Load() {
		return
	}

	ctx := newContext(context.Background(), pid)
	if pid.actor != nil {
		previous := pid.actor
		err := safely(func() error {
			if aware, ok := previous.(RestartAware); ok {
				return aware.BeforeRestart(ctx, reason)
			}
			return previous.PostStop(ctx)
		})
		if err != nil {
			pid.logger.Warnf("%s failed to clean up before restart: %v", pid, err)
		}
		pid.actor = nil
	}

	actor, err := pid.construct()
	if err != nil {
		pid.fail(gerrors.NewErrConstructorFailure(err))
		return
	}

	pid.install(actor)
	if aware, ok := actor.(RestartAware); ok {
		if err := safely(func() error { return aware.AfterRestart(ctx, reason) }); err != nil {
			pid.logger.Warnf("%s failed after restart: %v", pid, err)
		}
	}

	pid.restartCount.Inc()
	pid.world.restarts.Inc()
	pid.state.Store(activeState)
	pid.mailbox.Resume(supervisionBarrier)
	pid.logger.Debugf("%s restarted.", pid)
}

// resume lets the actor carry on with its current instance
func (pid *PID) resume(reason error) {
	if pid.stopping.Load() {
		return
	}

	if pid.actor == nil {
		// nothing to resume when the failure happened while constructing
		pid.shutdown()
		return
	}

	if aware, ok := pid.actor.(ResumeAware); ok {
		if err := safely(func() error { return aware.BeforeResume(newContext(context.Background(), pid), reason) }); err != nil {
			pid.logger.Warnf("%s failed before resume: %v", pid, err)
		}
	}

	pid.state.Store(activeState)
	pid.mailbox.Resume(supervisionBarrier)
}

// shutdown stops the children, runs PostStop, leaves the directory and hands
// the undelivered messages to the dead letters. It runs on the draining goroutine.
func (pid *PID) shutdown() {
	if !pid.stopping.CompareAndSwap(false, true) {
		return
	}

	pid.logger.Debugf("%s stopping...", pid)
	for _, child := range pid.Children() {
		child.stopAsync()
	}

	if pid.actor != nil {
		actor := pid.actor
		if err := safely(func() error { return actor.PostStop(newContext(context.Background(), pid)) }); err != nil {
			pid.logger.Warnf("%s failed to stop cleanly: %v", pid, err)
		}
	}

	pid.state.Store(stoppedState)
	pid.world.detach(pid)

	for _, msg := range pid.mailbox.Close() {
		pid.discard(msg)
	}

	pid.world.stops.Inc()
	close(pid.stopped)
	pid.logger.Debugf("%s stopped.", pid)
}

// discard disposes of a message that will never be delivered
func (pid *PID) discard(msg *Message) {
	if msg.system {
		if msg.dropped != nil {
			msg.dropped()
		}
		return
	}
	pid.world.deadLetters.failedDelivery(pid.address, msg, gerrors.ErrDead)
}
