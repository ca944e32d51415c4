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
	"time"

	"github.com/tochemey/actorcore/completes"
	gerrors "github.com/tochemey/actorcore/errors"
)

// Tell sends payload to the given actor without waiting for a reply.
// The payload reaches the actor Receive method.
// Errors follow PID.Send: after ErrResourceExhausted the payload is already
// queued and must not be told again.
func Tell(_ context.Context, to *PID, payload any, opts ...MessageOption) error {
	if to == nil {
		return gerrors.ErrUndefinedActor
	}
	return to.Send(newTellMessage(to, payload, opts...))
}

// Request sends payload to the given actor and returns the outcome it will
// answer with ReceiveContext.Response. The outcome fails with ErrTimedOut when
// no answer comes within timeout, and with ErrDead when the actor stops first.
func Request(_ context.Context, to *PID, payload any, timeout time.Duration, opts ...MessageOption) *completes.Completes[any] {
	if to == nil {
		return completes.Failed[any](gerrors.ErrUndefinedActor)
	}

	if timeout <= 0 {
		return completes.Failed[any](gerrors.ErrInvalidTimeout)
	}

	answer := completes.New[any]().TimeoutAfter(timeout, nil)
	opts = append(opts, WithAnswer(answer))
	if err := to.Send(newTellMessage(to, payload, opts...)); err != nil {
		answer.Fail(err)
	}
	return answer
}

// Ask sends payload to the given actor and waits for its answer
func Ask(ctx context.Context, to *PID, payload any, timeout time.Duration, opts ...MessageOption) (any, error) {
	answer := Request(ctx, to, payload, timeout, opts...)
	value, err := answer.Await(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, gerrors.ErrTimedOut
	}
	return value, err
}
