/*
 * MIT License
 *
 * Copyright (c) 2022-2025  Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package workerpool provides the fixed-size executor that runs mailbox
// drains, timer-triggered work and future callbacks.
package workerpool

import (
	"fmt"
	"sync"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/tribe-actors/tribe/errors"
	"github.com/tribe-actors/tribe/internal/queue"
	"github.com/tribe-actors/tribe/log"
)

// DefaultSize is the number of workers of a pool created without WithSize
const DefaultSize = 4

// WorkerPool runs submitted tasks on a fixed set of goroutines.
// Tasks are taken from a single FIFO queue, so submission order is
// mostly respected but not guaranteed once more than one worker runs.
type WorkerPool struct {
	size   int
	logger log.Logger

	mutex  sync.Mutex
	cond   *sync.Cond
	tasks  *queue.Queue[func()]
	group  errgroup.Group
	retire int

	started        *atomic.Bool
	stopped        *atomic.Bool
	spawnedWorkers *atomic.Int64
	executed       *atomic.Uint64
}

// New creates a new worker pool with the given options.
// The pool does not run anything until Start is called, however tasks
// submitted before that are kept and executed once it starts.
func New(opts ...Option) *WorkerPool {
	wp := &WorkerPool{
		size:           DefaultSize,
		logger:         log.DiscardLogger,
		tasks:          queue.New[func()](),
		started:        atomic.NewBool(false),
		stopped:        atomic.NewBool(false),
		spawnedWorkers: atomic.NewInt64(0),
		executed:       atomic.NewUint64(0),
	}

	for _, opt := range opts {
		opt.Apply(wp)
	}

	wp.cond = sync.NewCond(&wp.mutex)
	return wp
}

// Start spawns the workers. It's safe to call Start multiple times.
func (wp *WorkerPool) Start() {
	wp.mutex.Lock()
	defer wp.mutex.Unlock()
	if wp.stopped.Load() || wp.started.Swap(true) {
		return
	}

	for i := 0; i < wp.size; i++ {
		wp.spawn()
	}
}

// SubmitWork queues the task for execution.
// It returns ErrExecutorStopped once the pool has been stopped; accepted tasks are never dropped.
func (wp *WorkerPool) SubmitWork(task func()) error {
	wp.mutex.Lock()
	defer wp.mutex.Unlock()
	if wp.stopped.Load() {
		return errors.ErrExecutorStopped
	}

	wp.tasks.Push(task)
	wp.cond.Signal()
	return nil
}

// Stop refuses new tasks, lets the workers drain the queued ones
// and blocks until every worker has exited.
// Stop must not be called from one of the pool's own tasks.
func (wp *WorkerPool) Stop() {
	wp.mutex.Lock()
	if wp.stopped.Swap(true) {
		wp.mutex.Unlock()
		return
	}

	if !wp.started.Load() {
		// nothing will ever run the queued tasks
		remaining := wp.tasks.CloseRemaining()
		wp.mutex.Unlock()
		if len(remaining) > 0 {
			wp.logger.Warnf("worker pool stopped before start, %d task(s) discarded", len(remaining))
		}
		return
	}

	wp.cond.Broadcast()
	wp.mutex.Unlock()
	_ = wp.group.Wait()
}

// Grow adds n workers to the running pool.
// It is used to donate a spare worker while a task blocks.
func (wp *WorkerPool) Grow(n int) {
	wp.mutex.Lock()
	defer wp.mutex.Unlock()
	if wp.stopped.Load() || !wp.started.Load() {
		return
	}

	for i := 0; i < n; i++ {
		wp.spawn()
	}
}

// Shrink retires n workers. A retired worker exits once it finishes the
// task it is currently running and finds no queued task.
func (wp *WorkerPool) Shrink(n int) {
	wp.mutex.Lock()
	defer wp.mutex.Unlock()
	if wp.stopped.Load() || n <= 0 {
		return
	}

	wp.retire += n
	wp.cond.Broadcast()
}

// GetSpawnedWorkers returns the current count of running workers.
func (wp *WorkerPool) GetSpawnedWorkers() int {
	return int(wp.spawnedWorkers.Load())
}

// Pending returns the number of queued tasks not yet picked by a worker
func (wp *WorkerPool) Pending() int {
	return wp.tasks.Len()
}

// Executed returns the number of tasks that have run to completion or panicked
func (wp *WorkerPool) Executed() uint64 {
	return wp.executed.Load()
}

// spawn must be called with the mutex held
func (wp *WorkerPool) spawn() {
	wp.spawnedWorkers.Inc()
	wp.group.Go(wp.work)
}

func (wp *WorkerPool) work() error {
	defer wp.spawnedWorkers.Dec()
	for {
		task, ok := wp.next()
		if !ok {
			return nil
		}
		wp.run(task)
	}
}

// next blocks until a task is available.
// It returns false when the worker must exit. A worker only retires once
// the queue is empty, queued tasks always find a worker.
func (wp *WorkerPool) next() (func(), bool) {
	wp.mutex.Lock()
	defer wp.mutex.Unlock()
	for {
		if task, ok := wp.tasks.Pop(); ok {
			return task, true
		}

		if wp.retire > 0 && wp.spawnedWorkers.Load() > 1 {
			wp.retire--
			return nil, false
		}

		if wp.stopped.Load() {
			return nil, false
		}

		wp.cond.Wait()
	}
}

func (wp *WorkerPool) run(task func()) {
	defer func() {
		wp.executed.Inc()
		if r := recover(); r != nil {
			wp.logger.Error(fmt.Errorf("worker pool task panicked: %v", r))
		}
	}()
	task()
}
