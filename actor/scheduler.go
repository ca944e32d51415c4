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
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/actorcore/errors"
	"github.com/tochemey/actorcore/internal/xsync"
	"github.com/tochemey/actorcore/log"
)

// SchedulerProtocol is the protocol of the signals sent by the Scheduler
const SchedulerProtocol = "actorcore.scheduler"

// Cancellable is returned by the Scheduler to cancel a timer.
type Cancellable interface {
	// Cancel stops the timer. It returns false when it was already cancelled.
	Cancel() bool
}

// Scheduler fires interval signals at actors implementing Scheduled. A signal
// is a message enqueued in the receiver mailbox, the actor is never called
// from the timer goroutine.
type Scheduler struct {
	mu      sync.Mutex
	quartz  quartz.Scheduler
	started *atomic.Bool
	logger  log.Logger
	entries *xsync.Map[string, *scheduled]
}

type scheduled struct {
	mu         sync.Mutex
	key        string
	initialKey string
	scheduler  *Scheduler
	receiver   *PID
	data       any
	cancelled  *atomic.Bool
}

var _ Cancellable = (*scheduled)(nil)

// NewScheduler creates a Scheduler
func NewScheduler(logger log.Logger) *Scheduler {
	// create an instance of quartz scheduler with logger off
	quartzScheduler, _ := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))
	return &Scheduler{
		quartz:  quartzScheduler,
		started: atomic.NewBool(false),
		logger:  logger,
		entries: xsync.NewMap[string, *scheduled](),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info("starting scheduler...")
	s.quartz.Start(ctx)
	s.started.Store(s.quartz.IsStarted())
	if !s.started.Load() {
		return gerrors.ErrSchedulerNotStarted
	}
	s.logger.Info("scheduler started.")
	return nil
}

// Stop cancels every timer and stops the scheduler
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started.Load() {
		return nil
	}

	s.logger.Info("stopping scheduler...")
	for _, entry := range s.entries.Values() {
		entry.cancelled.Store(true)
	}
	s.entries.Reset()

	err := s.quartz.Clear()
	s.quartz.Stop()
	s.started.Store(false)
	s.quartz.Wait(ctx)
	s.logger.Info("scheduler stopped.")
	return err
}

// ScheduleOnce sends data to receiver once after delay. interval is ignored;
// it is accepted so that both scheduling calls share a signature.
func (s *Scheduler) ScheduleOnce(receiver *PID, data any, delay, _ time.Duration) (Cancellable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started.Load() {
		return nil, gerrors.ErrSchedulerNotStarted
	}

	if err := validateReceiver(receiver, delay); err != nil {
		return nil, err
	}

	entry := s.newEntry(receiver, data)
	once := job.NewFunctionJob[bool](func(context.Context) (bool, error) {
		defer s.entries.Delete(entry.key)
		return s.fire(entry)
	})

	if err := s.quartz.ScheduleJob(quartz.NewJobDetail(once, quartz.NewJobKey(entry.key)), quartz.NewRunOnceTrigger(delay)); err != nil {
		s.entries.Delete(entry.key)
		return nil, err
	}
	return entry, nil
}

// Schedule sends data to receiver after delay and then every interval until cancelled
func (s *Scheduler) Schedule(receiver *PID, data any, delay, interval time.Duration) (Cancellable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started.Load() {
		return nil, gerrors.ErrSchedulerNotStarted
	}

	if err := validateReceiver(receiver, delay); err != nil {
		return nil, err
	}

	if interval <= 0 {
		return nil, gerrors.ErrInvalidInterval
	}

	entry := s.newEntry(receiver, data)
	first := job.NewFunctionJob[bool](func(context.Context) (bool, error) {
		ok, err := s.fire(entry)
		s.repeat(entry, interval)
		return ok, err
	})

	if err := s.quartz.ScheduleJob(quartz.NewJobDetail(first, quartz.NewJobKey(entry.initialKey)), quartz.NewRunOnceTrigger(delay)); err != nil {
		s.entries.Delete(entry.key)
		return nil, err
	}
	return entry, nil
}

// Len returns the number of active timers
func (s *Scheduler) Len() int {
	return s.entries.Len()
}

func (s *Scheduler) newEntry(receiver *PID, data any) *scheduled {
	key := uuid.NewString()
	entry := &scheduled{
		key:        key,
		initialKey: key + "-initial",
		scheduler:  s,
		receiver:   receiver,
		data:       data,
		cancelled:  atomic.NewBool(false),
	}
	s.entries.Set(key, entry)
	return entry
}

// repeat arms the recurring job once the first signal went out
func (s *Scheduler) repeat(entry *scheduled, interval time.Duration) {
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.cancelled.Load() || !s.started.Load() {
		return
	}

	recurring := job.NewFunctionJob[bool](func(context.Context) (bool, error) {
		return s.fire(entry)
	})

	if err := s.quartz.ScheduleJob(quartz.NewJobDetail(recurring, quartz.NewJobKey(entry.key)), quartz.NewSimpleTrigger(interval)); err != nil {
		s.logger.Errorf("failed to schedule signals for %s: %v", entry.receiver, err)
	}
}

// fire enqueues the signal into the receiver mailbox
func (s *Scheduler) fire(entry *scheduled) (bool, error) {
	if entry.cancelled.Load() {
		return false, nil
	}

	receiver := entry.receiver
	if !receiver.IsRunning() {
		entry.Cancel()
		return false, gerrors.ErrDead
	}

	msg := NewMessage(SchedulerProtocol, "IntervalSignal", func(ctx *ReceiveContext) error {
		if entry.cancelled.Load() {
			return nil
		}
		target, ok := ctx.Actor().(Scheduled)
		if !ok {
			return gerrors.ErrNotScheduled
		}
		target.IntervalSignal(ctx, entry.data)
		return nil
	}, WithPayload(entry.data))

	if err := receiver.Send(msg); err != nil {
		s.logger.Warnf("failed to signal %s: %v", receiver, err)
		return false, err
	}
	return true, nil
}

// Cancel implements Cancellable.
func (e *scheduled) Cancel() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.cancelled.CompareAndSwap(false, true) {
		return false
	}

	e.scheduler.entries.Delete(e.key)
	_ = e.scheduler.quartz.DeleteJob(quartz.NewJobKey(e.key))
	_ = e.scheduler.quartz.DeleteJob(quartz.NewJobKey(e.initialKey))
	return true
}

func validateReceiver(receiver *PID, delay time.Duration) error {
	if receiver == nil {
		return gerrors.ErrUndefinedActor
	}
	if !receiver.IsRunning() {
		return gerrors.ErrDead
	}
	if delay < 0 {
		return gerrors.ErrInvalidTimeout
	}
	return nil
}
