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
	"errors"
	"time"

	"github.com/tochemey/actorcore/address"
	gerrors "github.com/tochemey/actorcore/errors"
	"github.com/tochemey/actorcore/supervisor"
)

// Supervised is the handle a Supervisor uses to apply its decision to a failed actor.
type Supervised interface {
	// Address returns the address of the failed actor
	Address() *address.Address
	// PID returns the failed actor
	PID() *PID
	// Error returns the failure
	Error() error
	// Resume lets the actor carry on with its current state
	Resume()
	// RestartWithin restarts the actor, or stops it when it already restarted
	// intensity times within period
	RestartWithin(period time.Duration, intensity int, scope supervisor.Scope)
	// Stop stops the actor
	Stop(scope supervisor.Scope)
	// Escalate hands the failure to the supervisor of the supervisor
	Escalate()
}

type supervised struct {
	pid        *PID
	reason     error
	supervisor *PID
	hops       int
}

var _ Supervised = (*supervised)(nil)

func (s *supervised) Address() *address.Address {
	return s.pid.address
}

func (s *supervised) PID() *PID {
	return s.pid
}

func (s *supervised) Error() error {
	return s.reason
}

func (s *supervised) Resume() {
	pid, reason := s.pid, s.reason
	if err := pid.sendSystem("Resume", func(*ReceiveContext) error {
		pid.resume(reason)
		return nil
	}); err != nil {
		pid.logger.Warnf("failed to resume %s: %v", pid, err)
	}
}

func (s *supervised) RestartWithin(period time.Duration, intensity int, scope supervisor.Scope) {
	if !s.pid.restarts.Allow(time.Now(), period, intensity) {
		s.pid.logger.Warnf("%s restarted more than %d times within %s, stopping", s.pid, intensity, period)
		s.Stop(scope)
		return
	}
	s.pid.logger.Debugf("restarting %s, %d of %d restarts within %s", s.pid, s.pid.restarts.Count(), intensity, period)

	reason := s.reason
	for _, target := range s.targets(scope) {
		if err := target.sendSystem("Restart", func(*ReceiveContext) error {
			target.restart(reason)
			return nil
		}); err != nil {
			target.logger.Warnf("failed to restart %s: %v", target, err)
		}
	}
}

func (s *supervised) Stop(scope supervisor.Scope) {
	for _, target := range s.targets(scope) {
		target.stopAsync()
	}
}

func (s *supervised) Escalate() {
	if s.supervisor == nil || s.hops >= maxEscalationHops {
		s.Stop(supervisor.OneScope)
		return
	}

	next := s.pid.world.supervisorOf(s.supervisor)
	if next == nil {
		s.Stop(supervisor.OneScope)
		return
	}

	s.pid.world.inform(&supervised{
		pid:        s.pid,
		reason:     s.reason,
		supervisor: next,
		hops:       s.hops + 1,
	})
}

// targets returns the actors a decision of the given scope applies to
func (s *supervised) targets(scope supervisor.Scope) []*PID {
	if scope == supervisor.OneScope {
		return []*PID{s.pid}
	}
	if s.pid.parent != nil {
		return s.pid.parent.Children()
	}
	return s.pid.world.topLevel.ToSlice()
}

// StrategySupervisor applies a supervisor.Strategy. It backs the default
// supervisor of a world and can be embedded by supervisor actors.
type StrategySupervisor struct {
	strategy *supervisor.Strategy
}

var _ Supervisor = (*StrategySupervisor)(nil)

// NewStrategySupervisor creates a StrategySupervisor
func NewStrategySupervisor(strategy *supervisor.Strategy) *StrategySupervisor {
	if strategy == nil {
		strategy = DefaultSupervisionStrategy()
	}
	return &StrategySupervisor{strategy: strategy}
}

// Inform implements Supervisor.
func (x *StrategySupervisor) Inform(err error, supervised Supervised) {
	switch x.strategy.Directive(err) {
	case supervisor.ResumeDirective:
		supervised.Resume()
	case supervisor.StopDirective:
		supervised.Stop(x.strategy.Scope())
	case supervisor.EscalateDirective:
		supervised.Escalate()
	default:
		supervised.RestartWithin(x.strategy.Period(), x.strategy.Intensity(), x.strategy.Scope())
	}
}

// SupervisionStrategy implements Supervisor.
func (x *StrategySupervisor) SupervisionStrategy() *supervisor.Strategy {
	return x.strategy
}

// supervisorOf returns the actor supervising pid, nil when the default
// supervisor is in charge. The definition supervisor comes first, then the
// parent when it is a Supervisor, then the common supervisor of the protocol.
func (w *World) supervisorOf(pid *PID) *PID {
	if candidate := pid.definition.supervisor; candidate != nil && candidate != pid && candidate.IsRunning() {
		return candidate
	}

	if parent := pid.parent; parent != nil && parent.IsRunning() && parent.supervises.Load() {
		return parent
	}

	if candidate, ok := w.supervisors.Lookup(pid.Protocol()); ok && candidate != pid && candidate.IsRunning() {
		return candidate
	}
	return nil
}

// supervise hands the failure of pid to its supervisor
func (w *World) supervise(pid *PID, reason error) {
	w.inform(&supervised{
		pid:        pid,
		reason:     reason,
		supervisor: w.supervisorOf(pid),
	})
}

// inform delivers the failure to the supervisor. Supervisor actors are
// informed through their mailbox; the default supervisor takes over when they
// cannot be reached.
func (w *World) inform(s *supervised) {
	if s.supervisor == nil {
		w.defaultSupervisor.Inform(s.reason, s)
		return
	}

	fallback := func() {
		w.defaultSupervisor.Inform(s.reason, &supervised{pid: s.pid, reason: s.reason})
	}

	sup := s.supervisor
	msg := newSystemMessage(sup, "Inform("+s.pid.String()+")", func(*ReceiveContext) error {
		handler, ok := sup.actor.(Supervisor)
		if !ok || sup.stopping.Load() {
			fallback()
			return nil
		}

		if err := safely(func() error {
			handler.Inform(s.reason, s)
			return nil
		}); err != nil {
			sup.logger.Errorf("%s failed to supervise %s: %v", sup, s.pid, err)
			fallback()
		}
		return nil
	})
	msg.dropped = fallback

	if err := sup.sendSystemMessage(msg); errors.Is(err, gerrors.ErrDead) {
		fallback()
	}
}
