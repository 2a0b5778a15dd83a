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
	gerrors "github.com/tribe-actors/tribe/errors"
)

// deactivate stops the actor from taking further work.
// It returns false when the actor was already deactivated.
func (pid *PID) deactivate() bool {
	if pid.State() >= Terminating {
		return false
	}
	pid.state.Store(int32(Terminating))

	pid.stopDedicated()
	for _, event := range pid.mailbox.Kill() {
		if event.future != nil {
			event.future.Resolve(nil, gerrors.ErrActorShutdown)
		}
	}

	pid.registry.Unregister(pid)
	for _, timer := range pid.timers.ToSlice() {
		timer.Cancel()
	}
	pid.timers.Clear()
	return true
}

// terminated marks the actor dead
func (pid *PID) terminated() {
	pid.state.Store(int32(Dead))
	pid.system.actorStopped(pid)
}

// fail runs the supervision fan-out of an actor dying with err
func (pid *PID) fail(err error) {
	if pid.State() >= Terminating {
		return
	}

	pid.exception.Store(err)
	pid.deactivate()

	pid.logger.Errorf("actor failed: %v", err)
	pid.system.metric.ActorFailed(pid.system.Context(), pid.kind)

	if parent := pid.parent; parent != nil {
		_ = parent.sendSystem(childDiedCommand, &death{pid: pid, err: err}, pid)
	}

	for _, child := range pid.children.ToSlice() {
		_ = child.sendSystem(parentDiedCommand, &death{pid: pid, err: err}, pid)
	}
	pid.children.Clear()
	pid.supervisees.Clear()

	if handler, ok := pid.actor.(ExceptionHandler); ok {
		if herr := pid.hook(pid.activeEvent, func(ctx *Context) error {
			handler.OnException(ctx, err)
			return nil
		}); herr != nil {
			pid.logger.Warnf("exception hook failed: %v", herr)
		}
	}

	pid.terminated()
}

// handleShutdown runs the graceful shutdown of the actor
func (pid *PID) handleShutdown(event *Event) {
	if !pid.deactivate() {
		return
	}

	pid.logger.Debug("actor shutting down")
	if parent := pid.parent; parent != nil {
		_ = parent.sendSystem(childShutdownCommand, &death{pid: pid}, pid)
	}

	// supervision only gates failures, every child goes down with its parent
	for _, child := range pid.children.ToSlice() {
		_ = child.shutdown()
	}
	pid.children.Clear()
	pid.supervisees.Clear()

	if handler, ok := pid.actor.(ShutdownHandler); ok {
		if err := pid.hook(event, func(ctx *Context) error {
			handler.OnShutdown(ctx)
			return nil
		}); err != nil {
			pid.logger.Warnf("shutdown hook failed: %v", err)
		}
	}

	pid.terminated()
	pid.logger.Debug("actor shut down")
}

// handleChildDied absorbs the failure of a supervised child and escalates the others
func (pid *PID) handleChildDied(event *Event) error {
	dead, ok := event.data.(*death)
	if !ok {
		return nil
	}

	pid.children.Remove(dead.pid)
	supervised := pid.supervisees.Contains(dead.pid)
	pid.supervisees.Remove(dead.pid)

	if handler, ok := pid.actor.(ChildDiedHandler); ok {
		if err := pid.hook(event, func(ctx *Context) error {
			return handler.OnChildDied(ctx, dead.pid, dead.err)
		}); err != nil {
			return err
		}
	}

	// the root outlives every descendant
	if supervised || pid.root {
		pid.logger.Debugf("child %s died: %v", dead.pid.Identifier(), dead.err)
		return nil
	}

	return gerrors.NewChildDiedError(dead.pid.Identifier(), dead.err)
}

func (pid *PID) handleChildShutdown(event *Event) error {
	dead, ok := event.data.(*death)
	if !ok {
		return nil
	}

	pid.children.Remove(dead.pid)
	pid.supervisees.Remove(dead.pid)

	if handler, ok := pid.actor.(ChildShutdownHandler); ok {
		return pid.hook(event, func(ctx *Context) error {
			return handler.OnChildShutdown(ctx, dead.pid)
		})
	}
	return nil
}

// handleParentDied always fails the actor
func (pid *PID) handleParentDied(event *Event) error {
	dead, ok := event.data.(*death)
	if !ok {
		return nil
	}

	if handler, ok := pid.actor.(ParentDiedHandler); ok {
		if err := pid.hook(event, func(ctx *Context) error {
			handler.OnParentDied(ctx, dead.pid, dead.err)
			return nil
		}); err != nil {
			pid.logger.Warnf("parent died hook failed: %v", err)
		}
	}

	return gerrors.NewParentDiedError(dead.pid.Identifier(), dead.err)
}
