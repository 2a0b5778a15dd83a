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

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrActorName is returned when an actor name is invalid or already taken.
	ErrActorName = errors.New("invalid actor name")

	// ErrNameConflict is returned by the registry when the name is already registered.
	// It matches ErrActorName as well.
	ErrNameConflict = fmt.Errorf("name already registered: %w", ErrActorName)

	// ErrActorShutdown is returned when an operation targets an actor that is no longer alive,
	// for instance a future whose target died before responding.
	ErrActorShutdown = errors.New("actor is shut down")

	// ErrActorChildDied marks the failure an unsupervising parent raises when one of its children dies.
	ErrActorChildDied = errors.New("child actor died")

	// ErrActorParentDied marks the failure a child raises when its parent dies.
	ErrActorParentDied = errors.New("parent actor died")

	// ErrFutureNoResult is returned when reading the result of a pending future.
	ErrFutureNoResult = errors.New("future has no result yet")

	// ErrFutureTimeout is the failure a future resolves to when its timeout elapses first.
	ErrFutureTimeout = errors.New("future timed out")

	// ErrFuture is returned on future misuse, e.g. setting the timeout twice.
	ErrFuture = errors.New("future misuse")

	// ErrReservedCommand is returned when user code uses a reserved system command name.
	ErrReservedCommand = errors.New("command is reserved")

	// ErrUnhandledCommand is returned when an actor has no handler for a command.
	ErrUnhandledCommand = errors.New("unhandled command")

	// ErrExecutorStopped is returned when a task is submitted to a stopped executor.
	ErrExecutorStopped = errors.New("executor is stopped")

	// ErrSchedulerNotStarted is returned when a timer is requested from a scheduler that is not running.
	ErrSchedulerNotStarted = errors.New("scheduler has not started")

	// ErrInvalidCronExpression is returned when a cron timer cannot parse its expression.
	ErrInvalidCronExpression = errors.New("invalid cron expression")

	// ErrRootActor is returned when application code tries to create the root actor.
	ErrRootActor = errors.New("application code should never create the root actor")

	// ErrSystemNotStarted is returned when the actor system is used before Start.
	ErrSystemNotStarted = errors.New("actor system is not running")

	// ErrShutdownTimeout is returned when the actor tree did not finish shutting down in time.
	ErrShutdownTimeout = errors.New("actor system shutdown timed out")
)

// NewErrNameConflict formats an ErrNameConflict for the given name.
func NewErrNameConflict(name string) error {
	return fmt.Errorf("name=(%s) %w", name, ErrNameConflict)
}

// NewErrUnhandledCommand formats an ErrUnhandledCommand for the given command.
func NewErrUnhandledCommand(command string) error {
	return fmt.Errorf("command=(%s) %w", command, ErrUnhandledCommand)
}

// NewErrReservedCommand formats an ErrReservedCommand for the given command.
func NewErrReservedCommand(command string) error {
	return fmt.Errorf("command=(%s) %w", command, ErrReservedCommand)
}

// NewErrInvalidCronExpression wraps the parser error with ErrInvalidCronExpression.
func NewErrInvalidCronExpression(err error) error {
	return errors.Join(ErrInvalidCronExpression, err)
}

// ChildDiedError is raised by a parent whose unsupervised child died.
type ChildDiedError struct {
	// Child identifies the dead child
	Child string
	// Err is the failure the child died with
	Err error
}

var _ error = (*ChildDiedError)(nil)

// NewChildDiedError creates an instance of ChildDiedError
func NewChildDiedError(child string, err error) *ChildDiedError {
	return &ChildDiedError{Child: child, Err: err}
}

// Error implements the standard error interface
func (e *ChildDiedError) Error() string {
	return fmt.Sprintf("child=(%s) died: %v", e.Child, e.Err)
}

// Is reports ErrActorChildDied
func (e *ChildDiedError) Is(target error) bool {
	return target == ErrActorChildDied
}

func (e *ChildDiedError) Unwrap() error {
	return e.Err
}

// ParentDiedError is raised by every child of a dead parent.
type ParentDiedError struct {
	// Parent identifies the dead parent
	Parent string
	// Err is the failure the parent died with
	Err error
}

var _ error = (*ParentDiedError)(nil)

// NewParentDiedError creates an instance of ParentDiedError
func NewParentDiedError(parent string, err error) *ParentDiedError {
	return &ParentDiedError{Parent: parent, Err: err}
}

// Error implements the standard error interface
func (e *ParentDiedError) Error() string {
	return fmt.Sprintf("parent=(%s) died: %v", e.Parent, e.Err)
}

// Is reports ErrActorParentDied
func (e *ParentDiedError) Is(target error) bool {
	return target == ErrActorParentDied
}

func (e *ParentDiedError) Unwrap() error {
	return e.Err
}

// PanicError wraps a panic recovered while handling an event
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}
