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

package bench

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/tribe-actors/tribe/actor"
	"github.com/tribe-actors/tribe/log"
)

func BenchmarkActor(b *testing.B) {
	b.Run("Tell(shared executor)", func(b *testing.B) {
		benchTell(b)
	})
	b.Run("Tell(dedicated executor)", func(b *testing.B) {
		benchTell(b, actor.WithDedicated())
	})
	b.Run("Tell(throughput 64)", func(b *testing.B) {
		benchTell(b, actor.WithThroughput(64))
	})
	b.Run("Ask(shared executor)", func(b *testing.B) {
		ctx := context.TODO()
		system, pid, _ := newBenchSystem(b)

		b.ResetTimer()
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				if _, err := pid.Ask("ask", 1).Await(ctx); err != nil {
					b.Fatal(err)
				}
			}
		})
		b.StopTimer()
		_ = system.Stop(ctx)
	})
}

func benchTell(b *testing.B, opts ...actor.SpawnOption) {
	ctx := context.TODO()
	system, pid, benchmarker := newBenchSystem(b, opts...)

	counter := atomic.NewInt64(0)
	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if err := pid.Tell("tell", nil); err != nil {
				b.Fatal(err)
			}
			counter.Inc()
		}
	})

	for benchmarker.Received() < counter.Load() {
		time.Sleep(time.Millisecond)
	}
	b.StopTimer()
	b.ReportMetric(float64(counter.Load())/b.Elapsed().Seconds(), "events/s")
	_ = system.Stop(ctx)
}

func newBenchSystem(b *testing.B, opts ...actor.SpawnOption) (*actor.System, *actor.PID, *Benchmarker) {
	b.Helper()
	ctx := context.TODO()
	system, err := actor.NewSystem("bench", actor.WithLogger(log.DiscardLogger))
	require.NoError(b, err)
	require.NoError(b, system.Start(ctx))

	benchmarker := NewBenchmarker()
	pid, err := system.Spawn(benchmarker, opts...)
	require.NoError(b, err)
	return system, pid, benchmarker
}

func TestBenchmark(t *testing.T) {
	ctx := context.TODO()
	benchmark := NewBenchmark(4, 100*time.Millisecond)
	require.NoError(t, benchmark.Start(ctx))

	require.NoError(t, benchmark.BenchTell(ctx))
	require.Positive(t, benchmark.Sent())
	require.Equal(t, benchmark.Sent(), benchmark.Received())
	require.NoError(t, benchmark.Stop(ctx))

	benchmark = NewBenchmark(4, 100*time.Millisecond)
	require.NoError(t, benchmark.Start(ctx, actor.WithDedicated()))
	require.NoError(t, benchmark.BenchAsk(ctx))
	require.Equal(t, benchmark.Sent(), benchmark.Received())
	require.NoError(t, benchmark.Stop(ctx))
}
