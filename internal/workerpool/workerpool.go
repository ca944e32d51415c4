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

// Package workerpool provides a fixed-size worker pool with a bounded backlog.
// Submissions never block: a saturated pool rejects the task so that the
// caller can decide whether to retry or surface the rejection.
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"

	gerrors "github.com/tochemey/actorcore/errors"
)

// WorkerPool runs submitted tasks on a fixed set of goroutines.
type WorkerPool struct {
	workers int
	backlog int

	mu      sync.RWMutex
	tasks   chan func()
	wg      sync.WaitGroup
	started atomic.Bool
	stopped atomic.Bool
	running atomic.Int64
}

// New creates a new worker pool with the given options.
// By default it runs runtime.NumCPU() workers with a backlog of 1024 tasks.
func New(opts ...Option) *WorkerPool {
	wp := &WorkerPool{
		workers: runtime.NumCPU(),
		backlog: 1024,
	}

	for _, opt := range opts {
		opt.Apply(wp)
	}

	if wp.workers < 1 {
		wp.workers = 1
	}

	if wp.backlog < 0 {
		wp.backlog = 0
	}

	return wp
}

// Start spawns the workers. It is a no-op when the pool already started.
func (wp *WorkerPool) Start() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.started.Load() || wp.stopped.Load() {
		return
	}

	wp.tasks = make(chan func(), wp.backlog)
	for range wp.workers {
		wp.wg.Add(1)
		go wp.work()
	}
	wp.started.Store(true)
}

// TrySubmit hands the task to the pool without blocking.
// It returns errors.ErrResourceExhausted when every worker is busy and the
// backlog is full, and errors.ErrDispatcherClosed once the pool is stopped.
func (wp *WorkerPool) TrySubmit(task func()) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if !wp.started.Load() || wp.stopped.Load() {
		return gerrors.ErrDispatcherClosed
	}

	select {
	case wp.tasks <- task:
		return nil
	default:
		return gerrors.ErrResourceExhausted
	}
}

// Stop refuses new tasks and waits for the queued and in-flight ones to finish.
func (wp *WorkerPool) Stop() {
	wp.mu.Lock()
	if !wp.started.Load() || wp.stopped.Load() {
		wp.stopped.Store(true)
		wp.mu.Unlock()
		return
	}

	wp.stopped.Store(true)
	close(wp.tasks)
	wp.mu.Unlock()

	wp.wg.Wait()
}

// IsStopped returns true once Stop has been called
func (wp *WorkerPool) IsStopped() bool {
	return wp.stopped.Load()
}

// Workers returns the number of worker goroutines
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// Running returns the number of tasks currently executing
func (wp *WorkerPool) Running() int {
	return int(wp.running.Load())
}

// Pending returns the number of tasks waiting for a worker
func (wp *WorkerPool) Pending() int {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.tasks == nil {
		return 0
	}
	return len(wp.tasks)
}

func (wp *WorkerPool) work() {
	defer wp.wg.Done()
	for task := range wp.tasks {
		wp.running.Add(1)
		task()
		wp.running.Add(-1)
	}
}
