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
	"github.com/tribe-actors/tribe/future"
)

// Command names a user event. Commands are matched against the
// handlers an actor registers.
type Command string

// systemCommand is the closed set of runtime events.
// It cannot be built from user code, a Command never collides with it.
type systemCommand uint8

const (
	userCommand systemCommand = iota
	initializeCommand
	shutdownCommand
	performCommand
	childDiedCommand
	childShutdownCommand
	parentDiedCommand
)

// String returns the reserved name of the system command
func (c systemCommand) String() string {
	switch c {
	case initializeCommand:
		return "__initialize__"
	case shutdownCommand:
		return "__shutdown__"
	case performCommand:
		return "__perform__"
	case childDiedCommand:
		return "__child_died__"
	case childShutdownCommand:
		return "__child_shutdown__"
	case parentDiedCommand:
		return "__parent_died__"
	default:
		return ""
	}
}

var reservedCommands = map[Command]struct{}{
	Command(initializeCommand.String()):    {},
	Command(shutdownCommand.String()):      {},
	Command(performCommand.String()):       {},
	Command(childDiedCommand.String()):     {},
	Command(childShutdownCommand.String()): {},
	Command(parentDiedCommand.String()):    {},
}

// IsReserved returns true when the command name belongs to the runtime
func (c Command) IsReserved() bool {
	_, ok := reservedCommands[c]
	return ok
}

// Event is a message delivered to an actor.
// It is immutable once pushed, except for the future which may be attached once.
type Event struct {
	command   Command
	system    systemCommand
	data      any
	source    *PID
	future    *future.Future
	forwarded bool
}

func newEvent(command Command, data any, source *PID) *Event {
	return &Event{
		command: command,
		data:    data,
		source:  source,
	}
}

func newSystemEvent(command systemCommand, data any, source *PID) *Event {
	return &Event{
		command: Command(command.String()),
		system:  command,
		data:    data,
		source:  source,
	}
}

// Command returns the event command
func (e *Event) Command() Command {
	return e.command
}

// Data returns the event payload
func (e *Event) Data() any {
	return e.data
}

// Source returns the sending actor, nil when the event was sent from outside any actor
func (e *Event) Source() *PID {
	return e.source
}

// Future returns the future the handler result resolves, when any
func (e *Event) Future() *future.Future {
	return e.future
}

// Forwarded returns true when the event was handed over by another actor
func (e *Event) Forwarded() bool {
	return e.forwarded
}

// IsSystem returns true for runtime events
func (e *Event) IsSystem() bool {
	return e.system != userCommand
}

// attachFuture sets the event future. It returns false when one is already attached.
func (e *Event) attachFuture(f *future.Future) bool {
	if e.future != nil {
		return false
	}
	e.future = f
	return true
}

// forward copies the event for another actor, carrying its future along
func (e *Event) forward() *Event {
	return &Event{
		command:   e.command,
		system:    e.system,
		data:      e.data,
		source:    e.source,
		future:    e.future,
		forwarded: true,
	}
}

// death is the payload of the supervision events
type death struct {
	pid *PID
	err error
}
