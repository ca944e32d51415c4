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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/actorcore/address"
	gerrors "github.com/tochemey/actorcore/errors"
	"github.com/tochemey/actorcore/log"
)

type deadLettersRecorder struct {
	mu      sync.Mutex
	letters []DeadLetter
}

func (r *deadLettersRecorder) Handle(deadLetter DeadLetter) {
	r.mu.Lock()
	r.letters = append(r.letters, deadLetter)
	r.mu.Unlock()
}

func (r *deadLettersRecorder) all() []DeadLetter {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]DeadLetter(nil), r.letters...)
}

func TestDeadLetters(t *testing.T) {
	t.Run("With failed delivery published to listeners", func(t *testing.T) {
		deadLetters := NewDeadLetters(log.DiscardLogger)
		recorder := new(deadLettersRecorder)
		deadLetters.Subscribe(recorder)

		to := address.NewSequential(1, "account")
		deadLetters.FailedDelivery(to, "Tell(*actor.testMessage)")

		require.EqualValues(t, 1, deadLetters.Count())
		letters := recorder.all()
		require.Len(t, letters, 1)
		assert.True(t, to.Equals(letters[0].To))
		assert.Equal(t, "Tell(*actor.testMessage)", letters[0].Representation)
		assert.ErrorIs(t, letters[0].Reason, gerrors.ErrDead)
		assert.False(t, letters[0].Timestamp.IsZero())
		assert.Contains(t, letters[0].String(), "account#1")
	})
	t.Run("With panicking listener", func(t *testing.T) {
		deadLetters := NewDeadLetters(log.DiscardLogger)
		recorder := new(deadLettersRecorder)
		deadLetters.Subscribe(DeadLettersListenerFunc(func(DeadLetter) {
			panic("listener failure")
		}))
		deadLetters.Subscribe(recorder)

		require.NotPanics(t, func() {
			deadLetters.FailedDelivery(address.NewSequential(1, "account"), "Tell(string)")
		})
		assert.Len(t, recorder.all(), 1)
	})
	t.Run("With message sent to a stopped actor", func(t *testing.T) {
		ctx := context.TODO()
		world := newTestWorld(t)
		recorder := new(deadLettersRecorder)
		world.DeadLetters().Subscribe(recorder)

		pid, err := world.Spawn(ctx, testDefinition(newTracker()))
		require.NoError(t, err)
		require.NoError(t, pid.Stop(ctx))
		require.True(t, pid.IsStopped())

		require.NoError(t, Tell(ctx, pid, &testMessage{seq: 1}))

		letters := recorder.all()
		require.Len(t, letters, 1)
		assert.True(t, pid.Address().Equals(letters[0].To))
		assert.Equal(t, "Tell(*actor.testMessage)", letters[0].Representation)
		assert.EqualValues(t, 1, world.DeadLetters().Count())
	})
	t.Run("With request to a stopped actor failing fast", func(t *testing.T) {
		ctx := context.TODO()
		world := newTestWorld(t)

		pid, err := world.Spawn(ctx, testDefinition(newTracker()))
		require.NoError(t, err)
		require.NoError(t, pid.Stop(ctx))

		_, err = Ask(ctx, pid, &askMessage{value: "hello"}, time.Second)
		require.ErrorIs(t, err, gerrors.ErrDead)
	})
	t.Run("With pending messages of a stopping actor", func(t *testing.T) {
		ctx := context.TODO()
		world := newTestWorld(t)
		p := newTracker()

		started := make(chan struct{})
		release := make(chan struct{})
		pid, err := world.Spawn(ctx, Of(func() Actor {
			return NewFuncActor(func(rctx *ReceiveContext) {
				switch rctx.Message().(type) {
				case *testMessage:
					p.record(rctx.Self(), rctx.Message())
				default:
					close(started)
					<-release
				}
			})
		}))
		require.NoError(t, err)

		require.NoError(t, Tell(ctx, pid, "block"))
		<-started
		for seq := range 3 {
			require.NoError(t, Tell(ctx, pid, &testMessage{seq: seq}))
		}

		stopped := make(chan error, 1)
		go func() { stopped <- pid.Stop(ctx) }()
		close(release)
		require.NoError(t, <-stopped)

		// the user messages queued before Stop are still delivered
		assert.Equal(t, 3, p.count())
		assert.Zero(t, world.DeadLetters().Count())
	})
}
