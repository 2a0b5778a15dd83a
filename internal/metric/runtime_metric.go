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

package metric

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RuntimeMetric groups the OpenTelemetry instruments that describe
// the actor runtime:
//   - tribe.events.processed  (Int64Counter)
//   - tribe.actors.failures   (Int64Counter)
//   - tribe.actors.live       (Int64UpDownCounter)
//   - tribe.timers.fired      (Int64Counter)
type RuntimeMetric struct {
	eventsProcessed metric.Int64Counter
	actorFailures   metric.Int64Counter
	liveActors      metric.Int64UpDownCounter
	timersFired     metric.Int64Counter
}

// NewRuntimeMetric creates the runtime instruments using the provided Meter.
// It returns an error if any instrument cannot be created.
func NewRuntimeMetric(meter metric.Meter) (*RuntimeMetric, error) {
	var instruments RuntimeMetric
	var err error

	if instruments.eventsProcessed, err = meter.Int64Counter(
		"tribe.events.processed",
		metric.WithDescription("Total number of events handled by actors"),
	); err != nil {
		return nil, err
	}

	if instruments.actorFailures, err = meter.Int64Counter(
		"tribe.actors.failures",
		metric.WithDescription("Total number of actors that died with an error"),
	); err != nil {
		return nil, err
	}

	if instruments.liveActors, err = meter.Int64UpDownCounter(
		"tribe.actors.live",
		metric.WithDescription("Number of actors currently alive"),
	); err != nil {
		return nil, err
	}

	if instruments.timersFired, err = meter.Int64Counter(
		"tribe.timers.fired",
		metric.WithDescription("Total number of timers fired by the scheduler"),
	); err != nil {
		return nil, err
	}

	return &instruments, nil
}

// NoopRuntimeMetric returns instruments that record nothing
func NoopRuntimeMetric() *RuntimeMetric {
	return &RuntimeMetric{}
}

// EventProcessed records one handled event for the given actor
func (x *RuntimeMetric) EventProcessed(ctx context.Context, actor string) {
	if x == nil || x.eventsProcessed == nil {
		return
	}
	x.eventsProcessed.Add(ctx, 1, metric.WithAttributes(attribute.String("actor", actor)))
}

// ActorFailed records an actor dying with an error
func (x *RuntimeMetric) ActorFailed(ctx context.Context, actor string) {
	if x == nil || x.actorFailures == nil {
		return
	}
	x.actorFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("actor", actor)))
}

// ActorStarted increments the live actors count
func (x *RuntimeMetric) ActorStarted(ctx context.Context) {
	if x == nil || x.liveActors == nil {
		return
	}
	x.liveActors.Add(ctx, 1)
}

// ActorStopped decrements the live actors count
func (x *RuntimeMetric) ActorStopped(ctx context.Context) {
	if x == nil || x.liveActors == nil {
		return
	}
	x.liveActors.Add(ctx, -1)
}

// TimerFired records one fired timer
func (x *RuntimeMetric) TimerFired(ctx context.Context) {
	if x == nil || x.timersFired == nil {
		return
	}
	x.timersFired.Add(ctx, 1)
}
