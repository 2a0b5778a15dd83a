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

// Package bench holds load scenarios for the actor runtime.
package bench

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/tribe-actors/tribe/actor"
	"github.com/tribe-actors/tribe/log"
)

// Benchmarker counts the events it receives
type Benchmarker struct {
	received *atomic.Int64
}

// NewBenchmarker creates a Benchmarker
func NewBenchmarker() *Benchmarker {
	return &Benchmarker{received: atomic.NewInt64(0)}
}

// Handlers returns the benchmark handlers
func (p *Benchmarker) Handlers() actor.Handlers {
	return actor.Handlers{
		"tell": func(*actor.Context, *actor.Event) (any, error) {
			p.received.Inc()
			return nil, nil
		},
		"ask": func(_ *actor.Context, event *actor.Event) (any, error) {
			p.received.Inc()
			return event.Data(), nil
		},
	}
}

// Received returns the number of events handled
func (p *Benchmarker) Received() int64 {
	return p.received.Load()
}

// Benchmark defines a load testing engine
type Benchmark struct {
	// workersCount define the number of event senders
	workersCount int
	// duration specifies how long the load testing will run
	duration time.Duration
	sent     *atomic.Int64
	actor    *Benchmarker
	pid      *actor.PID
	system   *actor.System
}

// NewBenchmark creates an instance of Benchmark
func NewBenchmark(workersCount int, duration time.Duration) *Benchmark {
	return &Benchmark{
		workersCount: workersCount,
		duration:     duration,
		sent:         atomic.NewInt64(0),
		actor:        NewBenchmarker(),
	}
}

// Start starts the Benchmark
func (b *Benchmark) Start(ctx context.Context, opts ...actor.SpawnOption) error {
	system, err := actor.NewSystem("benchmark-system", actor.WithLogger(log.DiscardLogger))
	if err != nil {
		return err
	}

	if err := system.Start(ctx); err != nil {
		return err
	}

	pid, err := system.Spawn(b.actor, opts...)
	if err != nil {
		return multierr.Append(err, system.Stop(ctx))
	}

	b.system = system
	b.pid = pid
	return nil
}

// Stop stops the benchmark
func (b *Benchmark) Stop(ctx context.Context) error {
	return b.system.Stop(ctx)
}

// Sent returns the number of events sent
func (b *Benchmark) Sent() int64 {
	return b.sent.Load()
}

// Received returns the number of events the benchmark actor handled
func (b *Benchmark) Received() int64 {
	return b.actor.Received()
}

// BenchTell sends events until the duration elapses, then waits for the actor to catch up
func (b *Benchmark) BenchTell(ctx context.Context) error {
	b.run(func() {
		if err := b.pid.Tell("tell", nil); err == nil {
			b.sent.Inc()
		}
	})
	return b.settle(ctx)
}

// BenchAsk sends requests and waits for each reply until the duration elapses
func (b *Benchmark) BenchAsk(ctx context.Context) error {
	b.run(func() {
		if _, err := b.pid.Ask("ask", 1).Await(ctx); err == nil {
			b.sent.Inc()
		}
	})
	return b.settle(ctx)
}

func (b *Benchmark) run(send func()) {
	wg := sync.WaitGroup{}
	wg.Add(b.workersCount)
	deadline := time.Now().Add(b.duration)
	for i := 0; i < b.workersCount; i++ {
		go func() {
			defer wg.Done()
			for time.Now().Before(deadline) {
				send()
			}
		}()
	}
	wg.Wait()
}

// settle waits for every sent event to be handled
func (b *Benchmark) settle(ctx context.Context) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for b.Received() < b.Sent() {
		select {
		case <-ctx.Done():
			return fmt.Errorf("send count and receive count does not match: %d != %d", b.Sent(), b.Received())
		case <-ticker.C:
		}
	}
	return nil
}
