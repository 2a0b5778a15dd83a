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
	"github.com/tribe-actors/tribe/internal/validation"
)

// HandlerFunc handles one user event.
// The returned value resolves the event future, when one is attached.
// A non-nil error, or a panic, fails the actor.
type HandlerFunc func(ctx *Context, event *Event) (any, error)

// Handlers maps each command an actor understands to its handler
type Handlers map[Command]HandlerFunc

// Actor defines the core interface for an actor.
//
// An actor is a unit of state that only changes while handling its own events,
// one at a time. Handlers are registered once, when the actor is spawned, and a
// command without a handler fails the actor with ErrUnhandledCommand.
//
// Lifecycle hooks are optional: implement any of Initializer, ShutdownHandler,
// ExceptionHandler, ChildDiedHandler, ChildShutdownHandler or ParentDiedHandler.
type Actor interface {
	// Handlers returns the handlers of the actor.
	// Reserved system command names are rejected at spawn time.
	Handlers() Handlers
}

// Initializer is implemented by actors that need to set up their state.
// OnInitialize runs before any other event. A returned error fails the actor.
type Initializer interface {
	OnInitialize(ctx *Context) error
}

// ShutdownHandler is implemented by actors that clean up on graceful shutdown.
// OnShutdown runs once the actor is deactivated and its children asked to shut down.
type ShutdownHandler interface {
	OnShutdown(ctx *Context)
}

// ExceptionHandler is implemented by actors observing their own failure.
// OnException runs last, after the supervision notifications went out.
type ExceptionHandler interface {
	OnException(ctx *Context, err error)
}

// ChildDiedHandler is implemented by actors observing the failure of a child.
// It runs whether or not the child was supervised; a returned error fails the actor.
type ChildDiedHandler interface {
	OnChildDied(ctx *Context, child *PID, err error) error
}

// ChildShutdownHandler is implemented by actors observing the graceful shutdown of a child
type ChildShutdownHandler interface {
	OnChildShutdown(ctx *Context, child *PID) error
}

// ParentDiedHandler is implemented by actors observing the failure of their parent.
// The actor dies right after the hook returns, supervision never protects a child from its parent.
type ParentDiedHandler interface {
	OnParentDied(ctx *Context, parent *PID, err error)
}

// handlersValidator rejects handlers registered under a reserved command
type handlersValidator Handlers

var _ validation.Validator = handlersValidator(nil)

func (h handlersValidator) Validate() error {
	for command := range h {
		if command.IsReserved() {
			return gerrors.NewErrReservedCommand(string(command))
		}
	}
	return nil
}
