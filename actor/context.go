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
	"time"

	gerrors "github.com/tribe-actors/tribe/errors"
	"github.com/tribe-actors/tribe/future"
	"github.com/tribe-actors/tribe/log"
	"github.com/tribe-actors/tribe/scheduler"
)

// Context is handed to handlers and hooks. It is only valid for the
// duration of the call and must not be shared with other goroutines.
type Context struct {
	self  *PID
	event *Event
	err   error
}

func newContext(self *PID, event *Event) *Context {
	return &Context{
		self:  self,
		event: event,
	}
}

// Self returns the PID of the actor handling the event
func (c *Context) Self() *PID {
	return c.self
}

// Event returns the event being handled, nil inside hooks not tied to an event
func (c *Context) Event() *Event {
	return c.event
}

// Sender returns the actor that sent the event, nil when sent from outside any actor
func (c *Context) Sender() *PID {
	if c.event == nil {
		return nil
	}
	return c.event.source
}

// Context returns the context.Context of the actor system
func (c *Context) Context() context.Context {
	return c.self.system.Context()
}

// Logger returns the actor logger
func (c *Context) Logger() log.Logger {
	return c.self.logger
}

// Err marks the current handler as failed.
// Once the handler returns, the actor dies with err as if the handler had returned it.
//
//	if err != nil {
//	    ctx.Err(err)
//	    return nil, nil
//	}
func (c *Context) Err(err error) {
	if err != nil && c.err == nil {
		c.err = err
	}
}

// Error returns the failure recorded with Err, if any
func (c *Context) Error() error {
	return c.err
}

// Tell sends an event to another actor. Events sent to a dead actor are dropped.
func (c *Context) Tell(to *PID, command Command, data any) {
	if command.IsReserved() {
		c.Err(gerrors.NewErrReservedCommand(string(command)))
		return
	}
	_ = to.send(newEvent(command, data, c.self))
}

// Future sends an event to another actor and returns the future its handler resolves.
// The future is bound to the calling actor: its callbacks run on this actor,
// serialized with its handlers.
func (c *Context) Future(to *PID, command Command, data any) *future.Future {
	f := future.New(
		future.WithScheduler(c.self.scheduler),
		future.WithPerformer(c.self),
		future.WithLogger(c.self.logger))
	to.request(f, command, data, c.self)
	return f
}

// Forward hands the event being handled over to another actor, including
// the responsibility of resolving its future. The handler result is then ignored.
func (c *Context) Forward(to *PID) {
	if c.event == nil || c.event.IsSystem() {
		return
	}

	forwarded := c.event.forward()
	if c.self.activeEvent == c.event {
		c.self.activeEvent = nil
	}
	_ = to.send(forwarded)
}

// Wait blocks until the future is resolved and returns its result.
// A spare worker is lent to the executor for the duration of the wait, when it
// supports it, so the actors resolving the future can still run.
// The future must not depend on this actor, which is blocked meanwhile.
func (c *Context) Wait(f *future.Future) (any, error) {
	if blocker, ok := c.self.executor.(Blocker); ok {
		blocker.Grow(1)
		defer blocker.Shrink(1)
	}
	return f.Await(c.Context())
}

// Spawn creates a child actor.
// When the child cannot be created the handler is marked failed, unless
// WithNoRaiseOnFailure is set, and nil is returned.
func (c *Context) Spawn(actor Actor, opts ...SpawnOption) *PID {
	child, err := spawn(c.self.system, c.self, actor, opts...)
	if err != nil {
		if newSpawnConfig(opts...).noRaise {
			c.self.logger.Warnf("failed to spawn child: %v", err)
			return nil
		}
		c.Err(err)
		return nil
	}
	return child
}

// Children returns the live children of the actor
func (c *Context) Children() []*PID {
	return c.self.Children()
}

// Parent returns the parent of the actor
func (c *Context) Parent() *PID {
	return c.self.parent
}

// Shutdown asks the actor to shut down once the events already queued are handled
func (c *Context) Shutdown() {
	_ = c.self.shutdown()
}

// Timer sends the event to the actor itself once delay has elapsed.
// The timer is cancelled when the actor dies.
func (c *Context) Timer(delay time.Duration, command Command, data any) *scheduler.Timer {
	return c.timer(command, data, func(deliver func()) (*scheduler.Timer, error) {
		return c.self.scheduler.Schedule(delay, deliver)
	})
}

// PeriodicTimer sends the event to the actor itself every interval until
// the timer is cancelled or the actor dies.
func (c *Context) PeriodicTimer(interval time.Duration, command Command, data any) *scheduler.Timer {
	return c.timer(command, data, func(deliver func()) (*scheduler.Timer, error) {
		return c.self.scheduler.SchedulePeriodic(interval, deliver)
	})
}

// CronTimer sends the event to the actor itself at every fire time of the
// quartz cron expression until the timer is cancelled or the actor dies.
func (c *Context) CronTimer(expression string, command Command, data any) *scheduler.Timer {
	return c.timer(command, data, func(deliver func()) (*scheduler.Timer, error) {
		return c.self.scheduler.ScheduleCron(expression, deliver)
	})
}

func (c *Context) timer(command Command, data any, schedule func(deliver func()) (*scheduler.Timer, error)) *scheduler.Timer {
	if command.IsReserved() {
		c.Err(gerrors.NewErrReservedCommand(string(command)))
		return nil
	}

	self := c.self
	timer, err := schedule(func() {
		_ = self.send(newEvent(command, data, self))
	})
	if err != nil {
		c.Err(err)
		return nil
	}

	self.trackTimer(timer)
	return timer
}
