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

package supervisor

import (
	"sync"
	"time"
)

// RestartWindow tracks restarts of a single actor over a rolling period.
// It is safe for concurrent use.
type RestartWindow struct {
	mu       sync.Mutex
	restarts []time.Time
}

// NewRestartWindow creates an empty RestartWindow
func NewRestartWindow() *RestartWindow {
	return &RestartWindow{}
}

// Allow records a restart attempt at now and reports whether it stays within
// intensity restarts over period. When it does not, nothing is recorded and the
// caller is expected to stop the actor. A negative intensity always allows.
func (w *RestartWindow) Allow(now time.Time, period time.Duration, intensity int) bool {
	if intensity < 0 {
		return true
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if period > 0 {
		cutoff := now.Add(-period)
		kept := w.restarts[:0]
		for _, at := range w.restarts {
			if at.After(cutoff) {
				kept = append(kept, at)
			}
		}
		w.restarts = kept
	}

	if len(w.restarts) >= intensity {
		return false
	}

	w.restarts = append(w.restarts, now)
	return true
}

// Count returns the number of restarts currently inside the window
func (w *RestartWindow) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.restarts)
}
