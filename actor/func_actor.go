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

// InitializeFunc is the OnInitialize hook of a FuncActor
type InitializeFunc = func(ctx *Context) error

// ShutdownFunc is the OnShutdown hook of a FuncActor
type ShutdownFunc = func(ctx *Context)

// ExceptionFunc is the OnException hook of a FuncActor
type ExceptionFunc = func(ctx *Context, err error)

// FuncOption is the interface that applies a FuncActor option.
type FuncOption interface {
	// Apply sets the Option value of a FuncActor.
	Apply(actor *FuncActor)
}

var _ FuncOption = funcOption(nil)

// funcOption implements the FuncOption interface.
type funcOption func(actor *FuncActor)

// Apply implementation
func (f funcOption) Apply(actor *FuncActor) {
	f(actor)
}

// WithInitialize defines the OnInitialize hook
func WithInitialize(fn InitializeFunc) FuncOption {
	return funcOption(func(actor *FuncActor) {
		actor.initialize = fn
	})
}

// WithShutdown defines the OnShutdown hook
func WithShutdown(fn ShutdownFunc) FuncOption {
	return funcOption(func(actor *FuncActor) {
		actor.shutdown = fn
	})
}

// WithException defines the OnException hook
func WithException(fn ExceptionFunc) FuncOption {
	return funcOption(func(actor *FuncActor) {
		actor.exception = fn
	})
}

// FuncActor is an actor assembled from handlers and optional hooks,
// handy when a dedicated type would only hold a handlers map.
type FuncActor struct {
	handlers   Handlers
	initialize InitializeFunc
	shutdown   ShutdownFunc
	exception  ExceptionFunc
}

var (
	_ Actor            = (*FuncActor)(nil)
	_ Initializer      = (*FuncActor)(nil)
	_ ShutdownHandler  = (*FuncActor)(nil)
	_ ExceptionHandler = (*FuncActor)(nil)
)

// NewFuncActor creates a FuncActor
func NewFuncActor(handlers Handlers, opts ...FuncOption) *FuncActor {
	actor := &FuncActor{handlers: handlers}
	for _, opt := range opts {
		opt.Apply(actor)
	}
	return actor
}

// Handlers returns the actor handlers
func (x *FuncActor) Handlers() Handlers {
	return x.handlers
}

// OnInitialize runs the initialize hook, if any
func (x *FuncActor) OnInitialize(ctx *Context) error {
	if x.initialize != nil {
		return x.initialize(ctx)
	}
	return nil
}

// OnShutdown runs the shutdown hook, if any
func (x *FuncActor) OnShutdown(ctx *Context) {
	if x.shutdown != nil {
		x.shutdown(ctx)
	}
}

// OnException runs the exception hook, if any
func (x *FuncActor) OnException(ctx *Context, err error) {
	if x.exception != nil {
		x.exception(ctx, err)
	}
}
