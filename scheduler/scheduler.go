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

// Package scheduler implements the timer scheduler: a single background loop,
// woken at a fixed frequency, firing due timers from an ordered set.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Workiva/go-datastructures/slice/skip"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"

	"github.com/tribe-actors/tribe/errors"
	"github.com/tribe-actors/tribe/internal/metric"
	"github.com/tribe-actors/tribe/internal/queue"
	"github.com/tribe-actors/tribe/internal/ticker"
	"github.com/tribe-actors/tribe/log"
)

type commandKind int

const (
	scheduleCommand commandKind = iota
	unscheduleCommand
	shutdownCommand
)

type command struct {
	kind  commandKind
	timer *Timer
}

// Scheduler fires timers on its own goroutine.
//
// Callbacks run synchronously on the scheduler loop, they must be cheap,
// typically just pushing an event into a mailbox.
// A panicking callback is logged and does not affect other timers.
type Scheduler struct {
	mutex     sync.RWMutex
	frequency int
	location  *time.Location
	logger    log.Logger
	metric    *metric.RuntimeMetric

	commands *queue.Queue[*command]
	ticker   *ticker.Ticker
	done     chan struct{}
	started  *atomic.Bool
	sequence *atomic.Uint64
}

// New creates an instance of Scheduler
func New(opts ...Option) *Scheduler {
	scheduler := &Scheduler{
		frequency: DefaultFrequency,
		location:  time.Local,
		logger:    log.DiscardLogger,
		metric:    metric.NoopRuntimeMetric(),
		started:   atomic.NewBool(false),
		sequence:  atomic.NewUint64(0),
	}

	for _, opt := range opts {
		opt.Apply(scheduler)
	}

	return scheduler
}

// Start starts the scheduler loop. Calling Start on a running scheduler is a no-op.
func (x *Scheduler) Start(context.Context) {
	x.mutex.Lock()
	defer x.mutex.Unlock()
	if x.started.Load() {
		return
	}

	x.logger.Infof("starting timer scheduler at %dHz...", x.frequency)
	x.commands = queue.New[*command]()
	x.ticker = ticker.New(time.Second / time.Duration(x.frequency))
	x.done = make(chan struct{})
	x.ticker.Start()
	go x.loop(x.ticker, x.commands, x.done)
	x.started.Store(true)
	x.logger.Info("timer scheduler started.:)")
}

// Stop asks the loop to shut down and waits for it to exit or for ctx to be done.
// Pending timers are discarded.
func (x *Scheduler) Stop(ctx context.Context) error {
	x.mutex.Lock()
	if !x.started.Load() {
		x.mutex.Unlock()
		return nil
	}

	x.logger.Info("stopping timer scheduler...")
	x.started.Store(false)
	x.commands.Push(&command{kind: shutdownCommand})
	ticks, done, commands := x.ticker, x.done, x.commands
	x.mutex.Unlock()

	cleanup := func() {
		ticks.Stop()
		commands.CloseRemaining()
	}

	select {
	case <-done:
		cleanup()
	case <-ctx.Done():
		// the loop exits on its next tick, release its resources then
		go func() {
			<-done
			cleanup()
		}()
		return ctx.Err()
	}

	x.logger.Info("timer scheduler stopped...:)")
	return nil
}

// Started returns true when the scheduler loop is running
func (x *Scheduler) Started() bool {
	return x.started.Load()
}

// Frequency returns the tick frequency in Hertz
func (x *Scheduler) Frequency() int {
	return x.frequency
}

// Schedule creates a one-shot timer calling callback once delay has elapsed
func (x *Scheduler) Schedule(delay time.Duration, callback func()) (*Timer, error) {
	timer := newTimer(x, x.sequence.Inc(), time.Now().Add(delay), callback)
	if err := x.schedule(timer); err != nil {
		return nil, err
	}
	return timer, nil
}

// SchedulePeriodic creates a timer calling callback every interval until cancelled.
func (x *Scheduler) SchedulePeriodic(interval time.Duration, callback func()) (*Timer, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("invalid interval %s: must be greater than zero", interval)
	}

	timer := newTimer(x, x.sequence.Inc(), time.Now().Add(interval), callback)
	timer.interval = interval
	timer.repeat = true
	if err := x.schedule(timer); err != nil {
		return nil, err
	}
	return timer, nil
}

// ScheduleCron creates a timer calling callback at every fire time of the
// given quartz cron expression until cancelled.
func (x *Scheduler) ScheduleCron(expression string, callback func()) (*Timer, error) {
	trigger, err := quartz.NewCronTriggerWithLoc(expression, x.location)
	if err != nil {
		return nil, errors.NewErrInvalidCronExpression(err)
	}

	next, err := trigger.NextFireTime(time.Now().UnixNano())
	if err != nil {
		return nil, errors.NewErrInvalidCronExpression(err)
	}

	timer := newTimer(x, x.sequence.Inc(), time.Unix(0, next), callback)
	timer.cron = trigger
	timer.repeat = true
	if err := x.schedule(timer); err != nil {
		return nil, err
	}
	return timer, nil
}

func (x *Scheduler) schedule(timer *Timer) error {
	x.mutex.RLock()
	defer x.mutex.RUnlock()
	if !x.started.Load() || !x.commands.Push(&command{kind: scheduleCommand, timer: timer}) {
		return errors.ErrSchedulerNotStarted
	}
	return nil
}

func (x *Scheduler) unschedule(timer *Timer) {
	x.mutex.RLock()
	defer x.mutex.RUnlock()
	if x.started.Load() {
		x.commands.Push(&command{kind: unscheduleCommand, timer: timer})
	}
}

// loop owns the timer set, nothing else touches it
func (x *Scheduler) loop(ticks *ticker.Ticker, commands *queue.Queue[*command], done chan struct{}) {
	defer close(done)
	timers := skip.New(uint64(0))
	for range ticks.Ticks {
		for {
			cmd, ok := commands.Pop()
			if !ok {
				break
			}

			switch cmd.kind {
			case scheduleCommand:
				if cmd.timer.IsActive() {
					timers.Insert(cmd.timer)
				}
			case unscheduleCommand:
				timers.Delete(cmd.timer)
			case shutdownCommand:
				return
			}
		}

		x.fireDue(timers, time.Now().UnixNano())
	}
}

func (x *Scheduler) fireDue(timers *skip.SkipList, now int64) {
	for timers.Len() > 0 {
		timer := timers.ByPosition(0).(*Timer)
		if timer.fireAt.Load() > now {
			return
		}

		timers.Delete(timer)
		if !timer.repeat {
			// a one-shot timer is done once it fires, Cancel loses from here on
			if !timer.done.CompareAndSwap(false, true) {
				continue
			}
			x.fire(timer)
			continue
		}

		if timer.done.Load() {
			continue
		}

		x.fire(timer)
		if timer.done.Load() {
			continue
		}

		if !timer.reschedule(now) {
			// an expired cron expression has no fire time left
			timer.done.Store(true)
			continue
		}
		timers.Insert(timer)
	}
}

func (x *Scheduler) fire(timer *Timer) {
	defer func() {
		if r := recover(); r != nil {
			x.logger.Error(fmt.Errorf("timer callback panicked: %v", r))
		}
	}()

	timer.fired.Inc()
	x.metric.TimerFired(context.Background())
	timer.callback()
}
