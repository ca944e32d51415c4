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
	"os"
	"regexp"
	"runtime"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/tochemey/actorcore/address"
	gerrors "github.com/tochemey/actorcore/errors"
	"github.com/tochemey/actorcore/internal/metric"
	"github.com/tochemey/actorcore/internal/registry"
	"github.com/tochemey/actorcore/internal/validation"
	"github.com/tochemey/actorcore/log"
	"github.com/tochemey/actorcore/supervisor"
)

var worldNamePattern = regexp.MustCompile("^[a-zA-Z0-9][a-zA-Z0-9-_]*$")

// World is the runtime context every actor lives in. It owns the directory,
// the dispatchers, the scheduler, the dead letters and the registries of
// mailbox providers and common supervisors.
//
// A World is created with NewWorld, started with Start and torn down with Stop.
type World struct {
	name      string
	logger    log.Logger
	allocator address.Allocator

	directory         *Directory
	deadLetters       *DeadLetters
	scheduler         *Scheduler
	executor          *ExecutorDispatcher
	ring              *RingDispatcher
	mailboxes         *registry.Registry[MailboxProvider]
	supervisors       *registry.Registry[*PID]
	defaultSupervisor Supervisor
	topLevel          mapset.Set[*PID]

	dispatcherFactor   int
	dispatcherCapacity int
	dispatcherBacklog  int
	throttlingCount    int
	mailboxCapacity    int
	ringFullPolicy     FullPolicy
	ringDrainers       int
	ringPolling        bool
	shutdownTimeout    time.Duration
	defaultStrategy    *supervisor.Strategy
	metricsEnabled     bool

	started            *atomic.Bool
	restarts           *atomic.Int64
	stops              *atomic.Int64
	metricRegistration otelmetric.Registration
}

// NewWorld creates a World. The name may only contain letters, digits, '-' and '_'.
func NewWorld(name string, opts ...Option) (*World, error) {
	if err := validation.New(validation.FailFast()).
		AddAssertion(name != "", gerrors.ErrNameRequired).
		AddPattern(worldNamePattern, name, gerrors.ErrInvalidWorldName).
		Validate(); err != nil {
		return nil, err
	}

	w := &World{
		name:               name,
		logger:             log.NewZap(log.ErrorLevel, os.Stderr),
		allocator:          address.NewSequentialAllocator(),
		directory:          NewDirectory(DefaultDirectoryShards),
		mailboxes:          registry.New[MailboxProvider](),
		supervisors:        registry.New[*PID](),
		topLevel:           mapset.NewSet[*PID](),
		dispatcherFactor:   DefaultDispatcherFactor,
		dispatcherCapacity: runtime.NumCPU(),
		dispatcherBacklog:  DefaultDispatcherBacklog,
		throttlingCount:    DefaultThrottlingCount,
		mailboxCapacity:    DefaultMailboxCapacity,
		ringFullPolicy:     Block,
		ringDrainers:       DefaultRingDrainers,
		shutdownTimeout:    DefaultShutdownTimeout,
		defaultStrategy:    DefaultSupervisionStrategy(),
		started:            atomic.NewBool(false),
		restarts:           atomic.NewInt64(0),
		stops:              atomic.NewInt64(0),
	}

	w.mailboxes.Register(QueueMailbox, queueMailboxProvider)
	w.mailboxes.Register(RingMailbox, ringMailboxProvider)
	w.mailboxes.Register(ArrayQueueMailbox, arrayQueueMailboxProvider)

	for _, opt := range opts {
		opt.Apply(w)
	}

	w.deadLetters = NewDeadLetters(w.logger)
	w.defaultSupervisor = NewStrategySupervisor(w.defaultStrategy)
	return w, nil
}

// Name returns the world name
func (w *World) Name() string {
	return w.name
}

// Logger returns the world logger
func (w *World) Logger() log.Logger {
	return w.logger
}

// IsRunning reports whether the world is started
func (w *World) IsRunning() bool {
	return w.started.Load()
}

// Start starts the dispatchers and the scheduler
func (w *World) Start(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return gerrors.ErrWorldAlreadyStarted
	}

	w.logger.Infof("%s world starting...", w.name)
	w.executor = NewExecutorDispatcher(
		WithDispatcherWorkers(executorWorkers(w.dispatcherCapacity, w.dispatcherFactor)),
		WithDispatcherQueue(w.dispatcherBacklog),
		WithDispatcherLogger(w.logger),
	)

	ringOpts := []RingDispatcherOption{WithRingDispatcherLogger(w.logger)}
	if w.ringPolling {
		ringOpts = append(ringOpts, WithRingDispatcherPolling(defaultPollInterval, maxPollInterval))
	}
	w.ring = NewRingDispatcher(w.ringDrainers, ringOpts...)

	w.scheduler = NewScheduler(w.logger)
	if err := w.scheduler.Start(ctx); err != nil {
		w.started.Store(false)
		return multierr.Combine(err, w.executor.Close(ctx), w.ring.Close(ctx))
	}

	if w.metricsEnabled {
		if err := w.registerMetrics(); err != nil {
			w.logger.Warnf("failed to register %s world metrics: %v", w.name, err)
		}
	}

	w.logger.Infof("%s world successfully started.", w.name)
	return nil
}

// Stop stops every actor, waiting at most the shutdown timeout, then closes
// the dispatchers and the scheduler.
func (w *World) Stop(ctx context.Context) error {
	if !w.started.CompareAndSwap(true, false) {
		return gerrors.ErrWorldNotStarted
	}

	w.logger.Infof("%s world stopping...", w.name)
	ctx, cancel := context.WithTimeout(ctx, w.shutdownTimeout)
	defer cancel()

	err := w.scheduler.Stop(ctx)

	eg, egCtx := errgroup.WithContext(ctx)
	for _, pid := range w.topLevel.ToSlice() {
		eg.Go(func() error {
			return pid.Stop(egCtx)
		})
	}

	err = multierr.Combine(
		err,
		eg.Wait(),
		w.awaitEmptyDirectory(ctx),
		w.executor.Close(ctx),
		w.ring.Close(ctx),
	)

	// actors that did not terminate in time are shut down in place, no
	// dispatcher goroutine can drain them anymore. An actor still running a
	// handler is left to the goroutine delivering it.
	for _, pid := range w.directory.Actors() {
		if !pid.mailbox.TryDelivering() {
			w.logger.Warnf("%s is still processing a message, leaving its shutdown to its dispatcher", pid)
			continue
		}
		pid.shutdown()
		pid.mailbox.DoneDelivering()
	}

	if w.metricRegistration != nil {
		err = multierr.Append(err, w.metricRegistration.Unregister())
	}

	if err != nil {
		w.logger.Errorf("%s world stopped with errors: %v", w.name, err)
		return err
	}

	w.logger.Infof("%s world successfully stopped.", w.name)
	return nil
}

// Spawn creates a top-level actor
func (w *World) Spawn(_ context.Context, def *Definition) (*PID, error) {
	return w.spawn(def, nil)
}

// SpawnRouter creates a top-level router
func (w *World) SpawnRouter(_ context.Context, def *RouterDefinition) (*Router, error) {
	return w.spawnRouter(def, nil)
}

// Lookup returns the actor living at addr
func (w *World) Lookup(addr *address.Address) (*PID, bool) {
	return w.directory.Lookup(addr)
}

// LookupByName returns a live actor with the given name
func (w *World) LookupByName(name string) (*PID, bool) {
	return w.directory.LookupByName(name)
}

// AllocateAddress allocates a fresh address
func (w *World) AllocateAddress(name string) *address.Address {
	return w.allocator.Allocate(name)
}

// Directory returns the directory of live actors
func (w *World) Directory() *Directory {
	return w.directory
}

// DeadLetters returns the world dead letters
func (w *World) DeadLetters() *DeadLetters {
	return w.deadLetters
}

// Scheduler returns the world scheduler. It is nil until the world starts.
func (w *World) Scheduler() *Scheduler {
	return w.scheduler
}

// Executor returns the shared executor dispatcher. It is nil until the world starts.
func (w *World) Executor() *ExecutorDispatcher {
	return w.executor
}

// RingDispatcher returns the ring dispatcher. It is nil until the world starts.
func (w *World) RingDispatcher() *RingDispatcher {
	return w.ring
}

// DefaultSupervisor returns the supervisor in charge when no supervisor actor is
func (w *World) DefaultSupervisor() Supervisor {
	return w.defaultSupervisor
}

// RegisterMailboxProvider makes provider available to definitions under name
func (w *World) RegisterMailboxProvider(name string, provider MailboxProvider) {
	if w.mailboxes.Exists(name) {
		w.logger.Infof("mailbox provider %s replaced", name)
	}
	w.mailboxes.Register(name, provider)
}

// RegisterCommonSupervisor spawns the supervisor actor described by def and
// makes it the supervisor of every actor serving protocol that has no
// supervisor of its own.
func (w *World) RegisterCommonSupervisor(_ context.Context, protocol string, def *Definition) (*PID, error) {
	if def == nil {
		return nil, gerrors.ErrUndefinedProducer
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	instance, err := def.produce()
	if err != nil {
		return nil, gerrors.NewErrConstructorFailure(err)
	}
	if _, ok := instance.(Supervisor); !ok {
		return nil, gerrors.ErrNotSupervisor
	}

	pid, err := w.spawn(def, nil)
	if err != nil {
		return nil, err
	}
	w.supervisors.Register(protocol, pid)
	return pid, nil
}

func (w *World) spawn(def *Definition, parent *PID) (*PID, error) {
	if !w.started.Load() {
		return nil, gerrors.ErrWorldNotStarted
	}

	if def == nil {
		return nil, gerrors.ErrUndefinedProducer
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	provider, ok := w.mailboxes.Lookup(def.mailbox)
	if !ok {
		w.logger.Warnf("mailbox type %s is not registered, known types: %v", def.mailbox, w.mailboxes.Names())
		return nil, gerrors.NewErrUnknownMailboxType(def.mailbox)
	}

	addr := def.address
	if addr == nil {
		addr = w.allocator.Allocate(def.name)
	}

	if _, ok := w.directory.Lookup(addr); ok {
		return nil, gerrors.NewErrDuplicateAddress(addr.String())
	}

	pid := newPID(w, def, addr, parent)
	mailbox, err := provider(w, addr)
	if err != nil {
		return nil, err
	}
	pid.mailbox = mailbox

	if err := w.directory.Register(pid); err != nil {
		mailbox.Close()
		return nil, err
	}

	if parent != nil {
		parent.children.Add(pid)
	} else {
		w.topLevel.Add(pid)
	}

	if err := pid.sendSystem("Start", func(*ReceiveContext) error {
		pid.start()
		return nil
	}); err != nil {
		w.detach(pid)
		mailbox.Close()
		return nil, err
	}
	return pid, nil
}

// detach removes pid from the directory and from its parent
func (w *World) detach(pid *PID) {
	w.directory.Remove(pid.address)
	if pid.parent != nil {
		pid.parent.children.Remove(pid)
		return
	}
	w.topLevel.Remove(pid)
}

func (w *World) awaitEmptyDirectory(ctx context.Context) error {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for w.directory.Len() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

func (w *World) registerMetrics() error {
	meter := metric.NewProvider().Meter()
	instruments, err := metric.NewWorldMetric(meter)
	if err != nil {
		return err
	}

	attrs := otelmetric.WithAttributes(attribute.String("world.name", w.name))
	w.metricRegistration, err = meter.RegisterCallback(func(_ context.Context, observer otelmetric.Observer) error {
		observer.ObserveInt64(instruments.ActorsCount(), int64(w.directory.Len()), attrs)
		observer.ObserveInt64(instruments.DeadlettersCount(), w.deadLetters.Count(), attrs)
		observer.ObserveInt64(instruments.RestartsCount(), w.restarts.Load(), attrs)
		observer.ObserveInt64(instruments.StopsCount(), w.stops.Load(), attrs)
		observer.ObserveInt64(instruments.RejectionsCount(), w.executor.Rejections(), attrs)
		return nil
	}, instruments.Instruments()...)
	return err
}
