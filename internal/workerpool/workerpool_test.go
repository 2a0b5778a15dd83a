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

package workerpool

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/goleak"

	"github.com/tribe-actors/tribe/errors"
	"github.com/tribe-actors/tribe/log"
)

func TestWorkerPool(t *testing.T) {
	t.Run("With tasks executed", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		pool := New(WithSize(4), WithLogger(log.DiscardLogger))
		pool.Start()
		require.Equal(t, 4, pool.GetSpawnedWorkers())

		counter := atomic.NewInt64(0)
		var wg sync.WaitGroup
		wg.Add(100)
		for i := 0; i < 100; i++ {
			require.NoError(t, pool.SubmitWork(func() {
				defer wg.Done()
				counter.Inc()
			}))
		}
		wg.Wait()
		require.EqualValues(t, 100, counter.Load())

		pool.Stop()
		require.Zero(t, pool.GetSpawnedWorkers())
	})
	t.Run("With tasks submitted before start", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		pool := New(WithSize(1))
		done := make(chan struct{})
		require.NoError(t, pool.SubmitWork(func() { close(done) }))
		pool.Start()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("task did not run")
		}
		pool.Stop()
	})
	t.Run("With stop draining queued tasks", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		pool := New(WithSize(1))
		pool.Start()

		counter := atomic.NewInt64(0)
		for i := 0; i < 50; i++ {
			require.NoError(t, pool.SubmitWork(func() {
				time.Sleep(time.Millisecond)
				counter.Inc()
			}))
		}
		pool.Stop()
		assert.EqualValues(t, 50, counter.Load())
		assert.EqualValues(t, 50, pool.Executed())
	})
	t.Run("With submission after stop", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		pool := New()
		pool.Start()
		pool.Stop()
		err := pool.SubmitWork(func() {})
		require.ErrorIs(t, err, errors.ErrExecutorStopped)
		// stopping twice is harmless
		pool.Stop()
	})
	t.Run("With a panicking task", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		pool := New(WithSize(1))
		pool.Start()
		require.NoError(t, pool.SubmitWork(func() { panic("boom") }))

		done := make(chan struct{})
		require.NoError(t, pool.SubmitWork(func() { close(done) }))
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("worker died with the panicking task")
		}
		pool.Stop()
	})
	t.Run("With grow and shrink", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		pool := New(WithSize(1))
		pool.Start()

		// the single worker blocks until the grown worker runs the release task
		release := make(chan struct{})
		blocked := make(chan struct{})
		require.NoError(t, pool.SubmitWork(func() {
			close(blocked)
			<-release
		}))
		<-blocked

		pool.Grow(1)
		require.Equal(t, 2, pool.GetSpawnedWorkers())
		require.NoError(t, pool.SubmitWork(func() { close(release) }))

		pool.Shrink(1)
		require.Eventually(t, func() bool {
			return pool.GetSpawnedWorkers() == 1
		}, time.Second, 5*time.Millisecond)

		pool.Stop()
	})
	t.Run("With shrink while tasks are queued", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		pool := New(WithSize(2))
		pool.Start()

		first, second := make(chan struct{}), make(chan struct{})
		var running sync.WaitGroup
		running.Add(2)
		for _, gate := range []chan struct{}{first, second} {
			gate := gate
			require.NoError(t, pool.SubmitWork(func() {
				running.Done()
				<-gate
			}))
		}
		running.Wait()

		ran := make(chan struct{})
		require.NoError(t, pool.SubmitWork(func() { close(ran) }))
		pool.Shrink(1)

		// the freed worker must run the queued task before retiring
		close(first)
		select {
		case <-ran:
		case <-time.After(time.Second):
			t.Fatalf("queued task never ran: workers=%d pending=%d", pool.GetSpawnedWorkers(), pool.Pending())
		}
		require.Eventually(t, func() bool {
			return pool.GetSpawnedWorkers() == 1
		}, time.Second, 5*time.Millisecond)

		close(second)
		pool.Stop()
		assert.Zero(t, pool.GetSpawnedWorkers())
	})
	t.Run("With stop before start", func(t *testing.T) {
		pool := New()
		require.NoError(t, pool.SubmitWork(func() {}))
		pool.Stop()
		require.Zero(t, pool.Pending())
		require.ErrorIs(t, pool.SubmitWork(func() {}), errors.ErrExecutorStopped)
	})
}
