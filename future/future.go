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

// Package future provides a single-assignment result cell.
//
// A Future is resolved at most once, either with a value or with an error.
// Resolving an already resolved future is silently ignored: the first
// resolution wins, which keeps a racing timeout and response harmless.
// Waiters block on Await or Wait, and callbacks registered with OnSuccess
// and OnFailure fire once the result is known. Only the last registered
// callback of each kind is kept.
package future

import (
	"context"
	"fmt"
	"sync"
	"time"

	gerrors "github.com/tribe-actors/tribe/errors"
	"github.com/tribe-actors/tribe/log"
	"github.com/tribe-actors/tribe/scheduler"
)

// Performer runs a closure in a serialized execution context, typically an actor.
type Performer interface {
	Perform(fn func()) error
}

// Future is a single-assignment asynchronous result cell
type Future struct {
	mutex    sync.Mutex
	done     chan struct{}
	resolved bool
	value    any
	err      error

	onSuccess func(value any)
	onFailure func(err error)

	performer  Performer
	scheduler  *scheduler.Scheduler
	timer      *scheduler.Timer
	timeoutSet bool
	logger     log.Logger
}

// New creates a pending Future
func New(opts ...Option) *Future {
	f := &Future{
		done:   make(chan struct{}),
		logger: log.DiscardLogger,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Run executes task on its own goroutine and returns a Future
// resolved with its outcome. A panicking task resolves the future with a PanicError.
func Run(task func() (any, error), opts ...Option) *Future {
	f := New(opts...)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				f.Resolve(nil, gerrors.NewPanicError(fmt.Errorf("%v", r)))
			}
		}()
		f.Resolve(task())
	}()
	return f
}

// Resolve sets the result of the future. A non-nil err resolves it as a failure.
// It returns false when the future was already resolved, in which case
// the given result is dropped.
func (f *Future) Resolve(value any, err error) bool {
	f.mutex.Lock()
	if f.resolved {
		f.mutex.Unlock()
		return false
	}

	f.resolved = true
	f.value, f.err = value, err
	timer := f.timer
	f.timer = nil
	onSuccess, onFailure := f.onSuccess, f.onFailure
	close(f.done)
	f.mutex.Unlock()

	if timer != nil {
		timer.Cancel()
	}

	if err != nil {
		if onFailure != nil {
			f.dispatch(func() { onFailure(err) })
		}
		return true
	}

	if onSuccess != nil {
		f.dispatch(func() { onSuccess(value) })
	}
	return true
}

// Success resolves the future with value
func (f *Future) Success(value any) bool {
	return f.Resolve(value, nil)
}

// Failure resolves the future with err
func (f *Future) Failure(err error) bool {
	return f.Resolve(nil, err)
}

// Await blocks until the future is resolved or ctx is done.
func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Wait blocks the calling goroutine until the future is resolved.
// It must not be called from the goroutine of the actor expected to resolve it.
func (f *Future) Wait() (any, error) {
	<-f.done
	return f.value, f.err
}

// Result returns the resolved result.
// ErrFutureNoResult is returned while the future is pending.
func (f *Future) Result() (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	default:
		return nil, gerrors.ErrFutureNoResult
	}
}

// IsResolved returns true once the future holds a result
func (f *Future) IsResolved() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed on resolution
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// OnSuccess registers the callback invoked with the value of a successful resolution.
// It fires immediately when the future is already resolved. Only the last registration is kept.
func (f *Future) OnSuccess(callback func(value any)) {
	f.mutex.Lock()
	if !f.resolved {
		f.onSuccess = callback
		f.mutex.Unlock()
		return
	}
	value, err := f.value, f.err
	f.mutex.Unlock()

	if err == nil && callback != nil {
		f.dispatch(func() { callback(value) })
	}
}

// OnFailure registers the callback invoked with the error of a failed resolution.
// It fires immediately when the future is already resolved. Only the last registration is kept.
func (f *Future) OnFailure(callback func(err error)) {
	f.mutex.Lock()
	if !f.resolved {
		f.onFailure = callback
		f.mutex.Unlock()
		return
	}
	err := f.err
	f.mutex.Unlock()

	if err != nil && callback != nil {
		f.dispatch(func() { callback(err) })
	}
}

// SetTimeout arms a one-shot timer resolving the future with ErrFutureTimeout
// when it elapses first. The timeout can only be set once and requires a scheduler.
func (f *Future) SetTimeout(timeout time.Duration) error {
	f.mutex.Lock()
	if f.timeoutSet {
		f.mutex.Unlock()
		return fmt.Errorf("%w: timeout already set", gerrors.ErrFuture)
	}

	if f.scheduler == nil {
		f.mutex.Unlock()
		return fmt.Errorf("%w: no scheduler to run the timeout", gerrors.ErrFuture)
	}

	f.timeoutSet = true
	if f.resolved {
		f.mutex.Unlock()
		return nil
	}
	f.mutex.Unlock()

	timer, err := f.scheduler.Schedule(timeout, func() {
		f.Resolve(nil, fmt.Errorf("%w after %s", gerrors.ErrFutureTimeout, timeout))
	})
	if err != nil {
		return err
	}

	f.mutex.Lock()
	if f.resolved {
		f.mutex.Unlock()
		timer.Cancel()
		return nil
	}
	f.timer = timer
	f.mutex.Unlock()
	return nil
}

// Bound returns true when callbacks run through a performer
func (f *Future) Bound() bool {
	return f.performer != nil
}

func (f *Future) dispatch(fn func()) {
	if f.performer == nil {
		fn()
		return
	}

	if err := f.performer.Perform(fn); err != nil {
		f.logger.Debugf("future callback dropped: %v", err)
	}
}
