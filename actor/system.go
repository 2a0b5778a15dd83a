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
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/flowchartsman/retry"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	gerrors "github.com/tribe-actors/tribe/errors"
	imetric "github.com/tribe-actors/tribe/internal/metric"
	"github.com/tribe-actors/tribe/internal/workerpool"
	"github.com/tribe-actors/tribe/log"
	"github.com/tribe-actors/tribe/scheduler"
)

// System wires the collaborators every actor needs: the executor running
// the mailbox drains, the registry of named actors and the timer scheduler.
// It owns the root actor, the parent of every actor spawned with System.Spawn.
type System struct {
	mutex sync.Mutex
	name  string

	logger          log.Logger
	poolSize        int
	frequency       int
	shutdownTimeout time.Duration
	throughput      int

	meterProvider  metric.MeterProvider
	metricsEnabled bool
	metric         *imetric.RuntimeMetric

	registry  Registry
	executor  Executor
	scheduler *scheduler.Scheduler
	// collaborators created by the system are started and stopped with it
	ownExecutor  bool
	ownScheduler bool

	ctx     context.Context
	root    *PID
	started *atomic.Bool
	live    *atomic.Int64
}

// NewSystem creates an actor system. Call Start before spawning actors.
func NewSystem(name string, opts ...Option) (*System, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: the actor system requires a name", gerrors.ErrActorName)
	}

	system := &System{
		name:            name,
		logger:          log.DefaultLogger,
		poolSize:        DefaultPoolSize(),
		frequency:       DefaultSchedulerFrequency,
		shutdownTimeout: DefaultShutdownTimeout,
		throughput:      DefaultThroughput,
		metric:          imetric.NoopRuntimeMetric(),
		ctx:             context.Background(),
		started:         atomic.NewBool(false),
		live:            atomic.NewInt64(0),
	}

	for _, opt := range opts {
		opt.Apply(system)
	}

	if system.metricsEnabled {
		instruments, err := imetric.NewRuntimeMetric(imetric.New(imetric.WithMeterProvider(system.meterProvider)).Meter())
		if err != nil {
			return nil, fmt.Errorf("failed to create the runtime instruments: %w", err)
		}
		system.metric = instruments
	}

	if system.registry == nil {
		system.registry = NewRegistry()
	}

	if system.executor == nil {
		system.executor = workerpool.New(
			workerpool.WithSize(system.poolSize),
			workerpool.WithLogger(system.logger))
		system.ownExecutor = true
	}

	if system.scheduler == nil {
		system.scheduler = scheduler.New(
			scheduler.WithFrequency(system.frequency),
			scheduler.WithLogger(system.logger),
			scheduler.WithMetric(system.metric))
		system.ownScheduler = true
	}

	return system, nil
}

// Start starts the executor, the scheduler and the root actor
func (x *System) Start(ctx context.Context) error {
	x.mutex.Lock()
	defer x.mutex.Unlock()
	if x.started.Load() {
		return nil
	}

	x.logger.Infof("starting actor system %s...", x.name)
	x.ctx = context.WithoutCancel(ctx)
	if pool, ok := x.executor.(*workerpool.WorkerPool); ok && x.ownExecutor {
		pool.Start()
	}

	if x.ownScheduler {
		x.scheduler.Start(ctx)
	}

	root, err := spawn(x, nil, new(rootActor), asRoot())
	if err != nil {
		return multierr.Combine(err, x.stopCollaborators(ctx, false))
	}

	x.root = root
	x.started.Store(true)
	x.logger.Infof("actor system %s started.:)", x.name)
	return nil
}

// Stop shuts the actor tree down gracefully, waits for it up to the shutdown
// timeout, then stops the collaborators the system created.
func (x *System) Stop(ctx context.Context) error {
	x.mutex.Lock()
	defer x.mutex.Unlock()
	if !x.started.Load() {
		return nil
	}

	x.logger.Infof("stopping actor system %s...", x.name)
	x.started.Store(false)
	_ = x.root.shutdown()

	var err error
	drained := true
	if werr := x.awaitTree(ctx); werr != nil {
		drained = false
		err = multierr.Append(err, werr)
	}

	err = multierr.Append(err, x.stopCollaborators(ctx, drained))
	if err != nil {
		x.logger.Errorf("actor system %s stopped with errors: %v", x.name, err)
		return err
	}

	x.logger.Infof("actor system %s stopped.:)", x.name)
	return multierr.Append(err, x.logger.Flush())
}

// Spawn creates an actor as a child of the root actor
func (x *System) Spawn(actor Actor, opts ...SpawnOption) (*PID, error) {
	if !x.started.Load() {
		return nil, gerrors.ErrSystemNotStarted
	}
	return spawn(x, x.root, actor, opts...)
}

// Lookup returns the live actor registered under name
func (x *System) Lookup(name string) (*PID, bool) {
	return x.registry.Lookup(name)
}

// Name returns the system name
func (x *System) Name() string {
	return x.name
}

// Root returns the root actor, nil before Start
func (x *System) Root() *PID {
	return x.root
}

// Running returns true between Start and Stop
func (x *System) Running() bool {
	return x.started.Load()
}

// LiveActors returns the number of actors not yet dead, the root included
func (x *System) LiveActors() int {
	return int(x.live.Load())
}

// Logger returns the system logger
func (x *System) Logger() log.Logger {
	return x.logger
}

// Scheduler returns the timer scheduler
func (x *System) Scheduler() *scheduler.Scheduler {
	return x.scheduler
}

// Executor returns the shared executor
func (x *System) Executor() Executor {
	return x.executor
}

// Context returns the context handlers run with
func (x *System) Context() context.Context {
	return x.ctx
}

func (x *System) actorStarted(*PID) {
	x.live.Inc()
	x.metric.ActorStarted(x.ctx)
}

func (x *System) actorStopped(*PID) {
	x.live.Dec()
	x.metric.ActorStopped(x.ctx)
}

// awaitTree polls until every actor is dead or the shutdown timeout elapses
func (x *System) awaitTree(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, x.shutdownTimeout)
	defer cancel()

	const delay = 10 * time.Millisecond
	attempts := int(x.shutdownTimeout/delay) + 1
	retrier := retry.NewRetrier(attempts, delay, 10*delay)
	if err := retrier.RunContext(ctx, func(context.Context) error {
		if live := x.live.Load(); live > 0 {
			return fmt.Errorf("%d actor(s) still alive", live)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("%w: %v", gerrors.ErrShutdownTimeout, err)
	}
	return nil
}

// stopCollaborators stops the executor and the scheduler the system created.
// A stuck actor would block the executor forever, it is then stopped in the background.
func (x *System) stopCollaborators(ctx context.Context, drained bool) error {
	var err error
	if x.ownScheduler {
		err = multierr.Append(err, x.scheduler.Stop(ctx))
	}

	if x.ownExecutor {
		if drained {
			x.executor.Stop()
		} else {
			go x.executor.Stop()
		}
	}
	return err
}

// rootActor is the top of every supervision tree. It has no handlers and
// survives the failure of any descendant.
type rootActor struct{}

func (rootActor) Handlers() Handlers {
	return Handlers{}
}
