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
	"time"

	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/tribe-actors/tribe/log"
	"github.com/tribe-actors/tribe/scheduler"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(system *System)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*System)

func (f OptionFunc) Apply(c *System) {
	f(c)
}

// WithLogger sets the actor system custom log
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(system *System) {
		system.logger = logger
	})
}

// WithPoolSize sets the number of workers of the shared executor.
// It is ignored when WithExecutor is set.
func WithPoolSize(size int) Option {
	return OptionFunc(func(system *System) {
		if size > 0 {
			system.poolSize = size
		}
	})
}

// WithSchedulerFrequency sets the tick frequency, in Hertz, of the timer scheduler.
// It is ignored when WithScheduler is set.
func WithSchedulerFrequency(hertz int) Option {
	return OptionFunc(func(system *System) {
		if hertz > 0 {
			system.frequency = hertz
		}
	})
}

// WithShutdownTimeout sets how long Stop waits for the actor tree to shut down
func WithShutdownTimeout(timeout time.Duration) Option {
	return OptionFunc(func(system *System) {
		system.shutdownTimeout = timeout
	})
}

// WithDefaultThroughput sets the number of events an actor handles per drain
// before giving its worker back. Zero drains the mailbox. WithThroughput overrides it per actor.
func WithDefaultThroughput(events int) Option {
	return OptionFunc(func(system *System) {
		if events >= 0 {
			system.throughput = events
		}
	})
}

// WithMetrics enables the runtime instruments on the given meter provider
func WithMetrics(provider otelmetric.MeterProvider) Option {
	return OptionFunc(func(system *System) {
		system.meterProvider = provider
		system.metricsEnabled = true
	})
}

// WithRegistry sets the registry actors are named in
func WithRegistry(registry Registry) Option {
	return OptionFunc(func(system *System) {
		system.registry = registry
	})
}

// WithExecutor sets the shared executor.
// The caller owns it: the system neither starts nor stops it.
func WithExecutor(executor Executor) Option {
	return OptionFunc(func(system *System) {
		system.executor = executor
	})
}

// WithScheduler sets the timer scheduler.
// The caller owns it: the system neither starts nor stops it.
func WithScheduler(scheduler *scheduler.Scheduler) Option {
	return OptionFunc(func(system *System) {
		system.scheduler = scheduler
	})
}
