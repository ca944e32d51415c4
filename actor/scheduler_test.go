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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/actorcore/errors"
	"github.com/tochemey/actorcore/internal/pause"
	"github.com/tochemey/actorcore/log"
)

func TestScheduler(t *testing.T) {
	t.Run("With recurring signals", func(t *testing.T) {
		ctx := context.TODO()
		world := newTestWorld(t)
		p := newTracker()

		pid, err := world.Spawn(ctx, testDefinition(p))
		require.NoError(t, err)

		cancellable, err := world.Scheduler().Schedule(pid, "tick", time.Millisecond, time.Millisecond)
		require.NoError(t, err)
		require.Equal(t, 1, world.Scheduler().Len())

		require.Eventually(t, func() bool {
			return p.signals.Load() > 500
		}, 10*time.Second, 10*time.Millisecond)

		require.True(t, cancellable.Cancel())
		assert.Zero(t, world.Scheduler().Len())
	})
	t.Run("With a single signal", func(t *testing.T) {
		ctx := context.TODO()
		world := newTestWorld(t)
		p := newTracker()

		pid, err := world.Spawn(ctx, testDefinition(p))
		require.NoError(t, err)

		_, err = world.Scheduler().ScheduleOnce(pid, "once", 5*time.Millisecond, 0)
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			return p.signals.Load() == 1
		}, time.Second, 5*time.Millisecond)

		pause.For(50 * time.Millisecond)
		assert.EqualValues(t, 1, p.signals.Load())
		require.Eventually(t, func() bool {
			return world.Scheduler().Len() == 0
		}, time.Second, 5*time.Millisecond)
	})
	t.Run("With cancelled signals", func(t *testing.T) {
		ctx := context.TODO()
		world := newTestWorld(t)
		p := newTracker()

		pid, err := world.Spawn(ctx, testDefinition(p))
		require.NoError(t, err)

		cancellable, err := world.Scheduler().Schedule(pid, "tick", 0, 2*time.Millisecond)
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			return p.signals.Load() > 0
		}, time.Second, 5*time.Millisecond)

		require.True(t, cancellable.Cancel())
		assert.False(t, cancellable.Cancel())

		// a signal being delivered while cancelling may still land
		seen := p.signals.Load()
		pause.For(50 * time.Millisecond)
		assert.LessOrEqual(t, p.signals.Load(), seen+1)
	})
	t.Run("With a cancelled single signal", func(t *testing.T) {
		ctx := context.TODO()
		world := newTestWorld(t)
		p := newTracker()

		pid, err := world.Spawn(ctx, testDefinition(p))
		require.NoError(t, err)

		cancellable, err := world.Scheduler().ScheduleOnce(pid, "once", 100*time.Millisecond, 0)
		require.NoError(t, err)
		require.True(t, cancellable.Cancel())

		pause.For(200 * time.Millisecond)
		assert.Zero(t, p.signals.Load())
	})
	t.Run("With signals stopping with the receiver", func(t *testing.T) {
		ctx := context.TODO()
		world := newTestWorld(t)
		p := newTracker()

		pid, err := world.Spawn(ctx, testDefinition(p))
		require.NoError(t, err)

		_, err = world.Scheduler().Schedule(pid, "tick", 0, 2*time.Millisecond)
		require.NoError(t, err)
		require.Eventually(t, func() bool {
			return p.signals.Load() > 0
		}, time.Second, 5*time.Millisecond)

		require.NoError(t, pid.Stop(ctx))
		require.Eventually(t, func() bool {
			return world.Scheduler().Len() == 0
		}, time.Second, 5*time.Millisecond)

		_, err = world.Scheduler().Schedule(pid, "tick", 0, time.Millisecond)
		require.ErrorIs(t, err, gerrors.ErrDead)
	})
	t.Run("With invalid arguments", func(t *testing.T) {
		ctx := context.TODO()
		world := newTestWorld(t)

		pid, err := world.Spawn(ctx, testDefinition(newTracker()))
		require.NoError(t, err)

		_, err = world.Scheduler().Schedule(nil, "tick", 0, time.Millisecond)
		require.ErrorIs(t, err, gerrors.ErrUndefinedActor)

		_, err = world.Scheduler().Schedule(pid, "tick", 0, 0)
		require.ErrorIs(t, err, gerrors.ErrInvalidInterval)

		_, err = world.Scheduler().ScheduleOnce(pid, "tick", -time.Second, 0)
		require.ErrorIs(t, err, gerrors.ErrInvalidTimeout)
	})
	t.Run("With scheduler not started", func(t *testing.T) {
		scheduler := NewScheduler(log.DiscardLogger)

		_, err := scheduler.ScheduleOnce(nil, "tick", 0, 0)
		require.ErrorIs(t, err, gerrors.ErrSchedulerNotStarted)

		_, err = scheduler.Schedule(nil, "tick", 0, time.Millisecond)
		require.ErrorIs(t, err, gerrors.ErrSchedulerNotStarted)

		require.NoError(t, scheduler.Stop(context.TODO()))
	})
	t.Run("With receiver not handling signals", func(t *testing.T) {
		ctx := context.TODO()
		world := newTestWorld(t)
		p := newTracker()

		pid, err := world.Spawn(ctx, Of(func() Actor {
			return NewFuncActor(func(rctx *ReceiveContext) {
				p.record(rctx.Self(), rctx.Message())
			})
		}))
		require.NoError(t, err)

		_, err = world.Scheduler().ScheduleOnce(pid, "once", 0, 0)
		require.NoError(t, err)

		// the failure goes through supervision and the actor is restarted
		require.Eventually(t, func() bool {
			return pid.RestartCount() == 1
		}, time.Second, 5*time.Millisecond)
		assert.Zero(t, p.count())
	})
}
