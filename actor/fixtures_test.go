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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/tochemey/actorcore/log"
)

var errFailure = errors.New("failure")

type testMessage struct {
	seq int
}

type failMessage struct{}

type panicMessage struct{}

type askMessage struct {
	value any
}

type countMessage struct{}

type invoice struct {
	erp    string
	amount int
}

// tracker records what test actors observe. It outlives actor instances so that
// restarts can be checked.
type tracker struct {
	mu        sync.Mutex
	received  []any
	bySelf    map[string]int
	started   *atomic.Int64
	stopped   *atomic.Int64
	restarted *atomic.Int64
	resumed   *atomic.Int64
	signals   *atomic.Int64
	children  []*PID
}

func newTracker() *tracker {
	return &tracker{
		bySelf:    make(map[string]int),
		started:   atomic.NewInt64(0),
		stopped:   atomic.NewInt64(0),
		restarted: atomic.NewInt64(0),
		resumed:   atomic.NewInt64(0),
		signals:   atomic.NewInt64(0),
	}
}

func (p *tracker) record(self *PID, message any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.received = append(p.received, message)
	if self != nil {
		p.bySelf[self.String()]++
	}
}

func (p *tracker) messages() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]any, len(p.received))
	copy(out, p.received)
	return out
}

func (p *tracker) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.received)
}

func (p *tracker) countOf(pid *PID) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bySelf[pid.String()]
}

func (p *tracker) addChild(pid *PID) {
	p.mu.Lock()
	p.children = append(p.children, pid)
	p.mu.Unlock()
}

func (p *tracker) childrenOf() []*PID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*PID(nil), p.children...)
}

// testActor records every message and fails on demand
type testActor struct {
	tracker   *tracker
	handled int
}

var (
	_ Actor        = (*testActor)(nil)
	_ RestartAware = (*testActor)(nil)
	_ ResumeAware  = (*testActor)(nil)
	_ Scheduled    = (*testActor)(nil)
)

func newTestActor(p *tracker) *testActor {
	return &testActor{tracker: p}
}

func (x *testActor) PreStart(*Context) error {
	x.tracker.started.Inc()
	return nil
}

func (x *testActor) Receive(ctx *ReceiveContext) {
	x.handled++
	switch msg := ctx.Message().(type) {
	case *failMessage:
		ctx.Err(errFailure)
	case *panicMessage:
		panic("Boom")
	case *askMessage:
		ctx.Response(msg.value)
	case *countMessage:
		ctx.Response(x.handled)
	default:
		x.tracker.record(ctx.Self(), msg)
	}
}

func (x *testActor) PostStop(*Context) error {
	x.tracker.stopped.Inc()
	return nil
}

func (x *testActor) BeforeRestart(*Context, error) error {
	return nil
}

func (x *testActor) AfterRestart(*Context, error) error {
	x.tracker.restarted.Inc()
	return nil
}

func (x *testActor) BeforeResume(*Context, error) error {
	x.tracker.resumed.Inc()
	return nil
}

func (x *testActor) IntervalSignal(ctx *ReceiveContext, data any) {
	x.tracker.signals.Inc()
}

func testDefinition(p *tracker, opts ...DefinitionOption) *Definition {
	return Of(func() Actor { return newTestActor(p) }, opts...)
}

// parentActor spawns children at start and optionally supervises them
type parentActor struct {
	*StrategySupervisor
	tracker    *tracker
	children int
	child    *Definition
	informed *atomic.Int64
}

var (
	_ Actor      = (*parentActor)(nil)
	_ Supervisor = (*parentActor)(nil)
)

func (x *parentActor) PreStart(ctx *Context) error {
	for range x.children {
		child, err := ctx.Spawn(x.child)
		if err != nil {
			return err
		}
		x.tracker.addChild(child)
	}
	return nil
}

func (x *parentActor) Receive(ctx *ReceiveContext) {
	x.tracker.record(ctx.Self(), ctx.Message())
}

func (x *parentActor) PostStop(*Context) error {
	x.tracker.stopped.Inc()
	return nil
}

func (x *parentActor) Inform(err error, supervised Supervised) {
	x.informed.Inc()
	x.StrategySupervisor.Inform(err, supervised)
}

// plainParent spawns children but does not supervise them
type plainParent struct {
	tracker    *tracker
	children int
	child    *Definition
}

func (x *plainParent) PreStart(ctx *Context) error {
	for range x.children {
		child, err := ctx.Spawn(x.child)
		if err != nil {
			return err
		}
		x.tracker.addChild(child)
	}
	return nil
}

func (x *plainParent) Receive(*ReceiveContext) {}

func (x *plainParent) PostStop(*Context) error {
	x.tracker.stopped.Inc()
	return nil
}

// noopDispatcher never delivers anything
type noopDispatcher struct{}

func (noopDispatcher) Execute(Mailbox) error         { return nil }
func (noopDispatcher) Register(Mailbox)              {}
func (noopDispatcher) Unregister(Mailbox)            {}
func (noopDispatcher) Close(context.Context) error   { return nil }
func (noopDispatcher) IsClosed() bool                { return false }

func newTestWorld(t *testing.T, opts ...Option) *World {
	t.Helper()
	opts = append([]Option{
		WithLogger(log.DiscardLogger),
		WithShutdownTimeout(10 * time.Second),
	}, opts...)

	world, err := NewWorld("testWorld", opts...)
	require.NoError(t, err)
	require.NoError(t, world.Start(context.TODO()))
	t.Cleanup(func() {
		if world.IsRunning() {
			_ = world.Stop(context.TODO())
		}
	})
	return world
}
