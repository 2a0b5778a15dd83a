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

package actor

import (
	"github.com/tribe-actors/tribe/internal/workerpool"
)

// Executor runs the tasks actors submit: mailbox drains, timer work and
// future callbacks. Implementations must accept submissions from any
// goroutine and never drop an accepted task.
type Executor interface {
	// SubmitWork queues the task. An error means the task will never run.
	SubmitWork(task func()) error
	// Stop refuses new tasks and blocks until the queued ones have run.
	Stop()
}

// Blocker is implemented by executors that can lend a spare worker
// while one of their tasks blocks. Context.Wait uses it when available.
type Blocker interface {
	Grow(n int)
	Shrink(n int)
}

var (
	_ Executor = (*workerpool.WorkerPool)(nil)
	_ Blocker  = (*workerpool.WorkerPool)(nil)
)

// newDedicatedExecutor creates and starts the single-worker pool of a dedicated actor
func newDedicatedExecutor(pid *PID) *workerpool.WorkerPool {
	pool := workerpool.New(workerpool.WithSize(1), workerpool.WithLogger(pid.logger))
	pool.Start()
	return pool
}
