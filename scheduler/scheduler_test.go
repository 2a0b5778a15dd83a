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
	"context"
	"testing"
	"time"

	"github.com/Workiva/go-datastructures/slice/skip"
	"github.com/reugn/go-quartz/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/goleak"

	"github.com/tribe-actors/tribe/errors"
	"github.com/tribe-actors/tribe/internal/lib"
	"github.com/tribe-actors/tribe/log"
)

func TestScheduler(t *testing.T) {
	t.Run("With one-shot timer", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		ctx := context.TODO()
		scheduler := New(WithFrequency(500), WithLogger(log.DiscardLogger))
		scheduler.Start(ctx)
		require.True(t, scheduler.Started())

		fired := make(chan time.Time, 1)
		start := time.Now()
		timer, err := scheduler.Schedule(20*time.Millisecond, func() { fired <- time.Now() })
		require.NoError(t, err)
		require.NotNil(t, timer)
		assert.False(t, timer.Repeat())

		select {
		case at := <-fired:
			assert.GreaterOrEqual(t, at.Sub(start), 20*time.Millisecond)
		case <-time.After(time.Second):
			t.Fatal("timer did not fire")
		}

		require.EqualValues(t, 1, timer.Fired())
		assert.False(t, timer.IsActive())
		// a fired one-shot timer cannot be cancelled
		assert.False(t, timer.Cancel())

		require.NoError(t, scheduler.Stop(ctx))
		require.False(t, scheduler.Started())
	})
	t.Run("With cancelled timer", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		ctx := context.TODO()
		scheduler := New()
		scheduler.Start(ctx)

		fired := atomic.NewBool(false)
		timer, err := scheduler.Schedule(50*time.Millisecond, func() { fired.Store(true) })
		require.NoError(t, err)
		require.True(t, timer.Cancel())
		require.False(t, timer.Cancel())

		lib.Pause(100 * time.Millisecond)
		assert.False(t, fired.Load())
		assert.Zero(t, timer.Fired())

		require.NoError(t, scheduler.Stop(ctx))
	})
	t.Run("With timers fired in order", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		ctx := context.TODO()
		scheduler := New()
		scheduler.Start(ctx)

		order := make(chan int, 3)
		_, err := scheduler.Schedule(30*time.Millisecond, func() { order <- 3 })
		require.NoError(t, err)
		_, err = scheduler.Schedule(10*time.Millisecond, func() { order <- 1 })
		require.NoError(t, err)
		_, err = scheduler.Schedule(20*time.Millisecond, func() { order <- 2 })
		require.NoError(t, err)

		for expected := 1; expected <= 3; expected++ {
			select {
			case got := <-order:
				require.Equal(t, expected, got)
			case <-time.After(time.Second):
				t.Fatal("timer did not fire")
			}
		}

		require.NoError(t, scheduler.Stop(ctx))
	})
	t.Run("With periodic timer", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		ctx := context.TODO()
		scheduler := New()
		scheduler.Start(ctx)

		counter := atomic.NewInt64(0)
		timer, err := scheduler.SchedulePeriodic(10*time.Millisecond, func() { counter.Inc() })
		require.NoError(t, err)
		require.True(t, timer.Repeat())

		require.Eventually(t, func() bool { return counter.Load() >= 5 }, time.Second, 5*time.Millisecond)
		require.True(t, timer.Cancel())

		// allow an in-flight fire to land
		lib.Pause(20 * time.Millisecond)
		fired := counter.Load()
		lib.Pause(50 * time.Millisecond)
		assert.Equal(t, fired, counter.Load())

		require.NoError(t, scheduler.Stop(ctx))
	})
	t.Run("With invalid periodic interval", func(t *testing.T) {
		scheduler := New()
		_, err := scheduler.SchedulePeriodic(0, func() {})
		require.Error(t, err)
	})
	t.Run("With panicking callback", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		ctx := context.TODO()
		scheduler := New()
		scheduler.Start(ctx)

		_, err := scheduler.Schedule(5*time.Millisecond, func() { panic("boom") })
		require.NoError(t, err)

		fired := make(chan struct{})
		_, err = scheduler.Schedule(10*time.Millisecond, func() { close(fired) })
		require.NoError(t, err)

		select {
		case <-fired:
		case <-time.After(time.Second):
			t.Fatal("scheduler stopped after a panicking callback")
		}

		require.NoError(t, scheduler.Stop(ctx))
	})
	t.Run("With cron timer", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		ctx := context.TODO()
		scheduler := New(WithLocation(time.UTC))
		scheduler.Start(ctx)

		fired := make(chan struct{}, 4)
		timer, err := scheduler.ScheduleCron("* * * ? * *", func() { fired <- struct{}{} })
		require.NoError(t, err)
		require.True(t, timer.Repeat())

		select {
		case <-fired:
		case <-time.After(2 * time.Second):
			t.Fatal("cron timer did not fire")
		}

		require.True(t, timer.Cancel())
		require.NoError(t, scheduler.Stop(ctx))
	})
	t.Run("With expired cron timer", func(t *testing.T) {
		scheduler := New(WithLogger(log.DiscardLogger))
		trigger, err := quartz.NewCronTrigger("0 0 0 1 1 ? 2023")
		require.NoError(t, err)

		now := time.Now().UnixNano()
		fired := atomic.NewInt64(0)
		timer := newTimer(scheduler, 1, time.Unix(0, now-1), func() { fired.Inc() })
		timer.cron = trigger
		timer.repeat = true

		timers := skip.New(uint64(0))
		timers.Insert(timer)
		scheduler.fireDue(timers, now)

		require.EqualValues(t, 1, fired.Load())
		require.Zero(t, timers.Len())
		require.False(t, timer.IsActive())
		require.False(t, timer.Cancel())
	})
	t.Run("With invalid cron expression", func(t *testing.T) {
		ctx := context.TODO()
		scheduler := New()
		scheduler.Start(ctx)
		defer func() { _ = scheduler.Stop(ctx) }()

		_, err := scheduler.ScheduleCron("not a cron", func() {})
		require.ErrorIs(t, err, errors.ErrInvalidCronExpression)
	})
	t.Run("With scheduler not started", func(t *testing.T) {
		scheduler := New()
		_, err := scheduler.Schedule(time.Millisecond, func() {})
		require.ErrorIs(t, err, errors.ErrSchedulerNotStarted)

		ctx := context.TODO()
		scheduler.Start(ctx)
		require.NoError(t, scheduler.Stop(ctx))
		_, err = scheduler.Schedule(time.Millisecond, func() {})
		require.ErrorIs(t, err, errors.ErrSchedulerNotStarted)
		require.NoError(t, scheduler.Stop(ctx))
	})
	t.Run("With restart", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		ctx := context.TODO()
		scheduler := New()
		scheduler.Start(ctx)
		require.NoError(t, scheduler.Stop(ctx))
		scheduler.Start(ctx)

		fired := make(chan struct{})
		_, err := scheduler.Schedule(time.Millisecond, func() { close(fired) })
		require.NoError(t, err)
		select {
		case <-fired:
		case <-time.After(time.Second):
			t.Fatal("timer did not fire after restart")
		}
		require.NoError(t, scheduler.Stop(ctx))
	})
}
