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

	"github.com/tribe-actors/tribe/internal/metric"
	"github.com/tribe-actors/tribe/log"
)

// DefaultFrequency is the tick frequency, in Hertz, of a Scheduler created without WithFrequency
const DefaultFrequency = 1000

// Option is the interface that applies a Scheduler option.
type Option interface {
	// Apply sets the Option value of a Scheduler.
	Apply(scheduler *Scheduler)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(scheduler *Scheduler)

// Apply applies the Scheduler's option
func (f OptionFunc) Apply(scheduler *Scheduler) {
	f(scheduler)
}

// WithFrequency sets the number of ticks per second.
// Higher frequencies give finer timer resolution at the cost of more wake-ups.
func WithFrequency(hertz int) Option {
	return OptionFunc(func(scheduler *Scheduler) {
		if hertz > 0 {
			scheduler.frequency = hertz
		}
	})
}

// WithLogger sets the scheduler logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(scheduler *Scheduler) {
		scheduler.logger = logger
	})
}

// WithLocation sets the time zone cron expressions are evaluated in
func WithLocation(location *time.Location) Option {
	return OptionFunc(func(scheduler *Scheduler) {
		if location != nil {
			scheduler.location = location
		}
	})
}

// WithMetric sets the instruments recording fired timers
func WithMetric(instruments *metric.RuntimeMetric) Option {
	return OptionFunc(func(scheduler *Scheduler) {
		scheduler.metric = instruments
	})
}
