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

package scheduler

import (
	"time"

	"github.com/Workiva/go-datastructures/common"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"
)

// Timer is a pending callback owned by a Scheduler.
//
// Timers are totally ordered by their fire time and, for equal fire times,
// by their creation sequence.
type Timer struct {
	seq      uint64
	fireAt   *atomic.Int64
	interval time.Duration
	repeat   bool
	cron     *quartz.CronTrigger
	callback func()
	done     *atomic.Bool
	fired    *atomic.Uint64

	scheduler *Scheduler
}

var _ common.Comparator = (*Timer)(nil)

func newTimer(scheduler *Scheduler, seq uint64, fireAt time.Time, callback func()) *Timer {
	return &Timer{
		seq:       seq,
		fireAt:    atomic.NewInt64(fireAt.UnixNano()),
		callback:  callback,
		done:      atomic.NewBool(false),
		fired:     atomic.NewUint64(0),
		scheduler: scheduler,
	}
}

// Compare orders timers by fire time then by sequence
func (t *Timer) Compare(other common.Comparator) int {
	o := other.(*Timer)
	switch a, b := t.fireAt.Load(), o.fireAt.Load(); {
	case a < b:
		return -1
	case a > b:
		return 1
	}

	switch {
	case t.seq < o.seq:
		return -1
	case t.seq > o.seq:
		return 1
	default:
		return 0
	}
}

// Cancel removes the timer from its scheduler.
// It returns false when the timer was already cancelled or, for a one-shot
// timer, has already fired.
func (t *Timer) Cancel() bool {
	if !t.done.CompareAndSwap(false, true) {
		return false
	}
	t.scheduler.unschedule(t)
	return true
}

// IsActive returns true while the timer may still fire
func (t *Timer) IsActive() bool {
	return !t.done.Load()
}

// Repeat returns true for periodic and cron timers
func (t *Timer) Repeat() bool {
	return t.repeat
}

// FireAt returns the next time the timer is due
func (t *Timer) FireAt() time.Time {
	return time.Unix(0, t.fireAt.Load())
}

// Fired returns how many times the callback has been invoked
func (t *Timer) Fired() uint64 {
	return t.fired.Load()
}

// reschedule computes the next fire time of a repeating timer.
// It returns false when the timer has no further fire time.
func (t *Timer) reschedule(now int64) bool {
	if t.cron != nil {
		next, err := t.cron.NextFireTime(now)
		if err != nil {
			return false
		}
		t.fireAt.Store(next)
		return true
	}

	t.fireAt.Store(now + t.interval.Nanoseconds())
	return true
}
