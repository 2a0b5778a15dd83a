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
	"fmt"
	"runtime"
	"strings"

	goset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"go.uber.org/atomic"

	gerrors "github.com/tribe-actors/tribe/errors"
	"github.com/tribe-actors/tribe/future"
	"github.com/tribe-actors/tribe/internal/types"
	"github.com/tribe-actors/tribe/internal/validation"
	"github.com/tribe-actors/tribe/internal/workerpool"
	"github.com/tribe-actors/tribe/log"
	"github.com/tribe-actors/tribe/scheduler"
)

// State is the lifecycle stage of an actor
type State int32

const (
	// Initializing until the initialize event has been handled
	Initializing State = iota
	// Running while the actor handles events
	Running
	// Terminating while the actor tears down after a failure or a shutdown
	Terminating
	// Dead once the actor is gone for good
	Dead
)

// String returns the state name
func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Running:
		return "running"
	case Terminating:
		return "terminating"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// PID is the handle of a live or dead actor.
//
// Every method of PID is safe for concurrent use. The actor state behind it
// is only touched by the actor's own drain, one event at a time.
type PID struct {
	id         string
	name       string
	kind       string
	root       bool
	actor      Actor
	handlers   Handlers
	system     *System
	parent     *PID
	mailbox    *Mailbox
	executor   Executor
	dedicated  *workerpool.WorkerPool
	registry   Registry
	scheduler  *scheduler.Scheduler
	logger     log.Logger
	throughput int

	children    goset.Set[*PID]
	supervisees goset.Set[*PID]
	timers      goset.Set[*scheduler.Timer]

	state     *atomic.Int32
	exception *atomic.Error
	processed *atomic.Uint64

	// activeEvent is the event being handled, cleared by a forward
	activeEvent *Event
}

// spawn creates, registers and schedules the initialization of an actor
func spawn(system *System, parent *PID, actor Actor, opts ...SpawnOption) (*PID, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: actor is nil", gerrors.ErrActorName)
	}

	config := newSpawnConfig(opts...)
	handlers := actor.Handlers()
	if err := validation.New(validation.FailFast()).
		AddAssertion(config.name == strings.TrimSpace(config.name), fmt.Errorf("%w: %q", gerrors.ErrActorName, config.name)).
		AddValidator(handlersValidator(handlers)).
		Validate(); err != nil {
		return nil, err
	}

	if parent != nil && !parent.IsAlive() {
		return nil, gerrors.ErrActorShutdown
	}

	pid := &PID{
		id:          uuid.NewString(),
		name:        config.name,
		kind:        types.Name(actor),
		root:        config.root,
		actor:       actor,
		handlers:    handlers,
		system:      system,
		parent:      parent,
		executor:    system.executor,
		registry:    system.registry,
		scheduler:   system.scheduler,
		throughput:  system.throughput,
		children:    goset.NewSet[*PID](),
		supervisees: goset.NewSet[*PID](),
		timers:      goset.NewSet[*scheduler.Timer](),
		state:       atomic.NewInt32(int32(Initializing)),
		exception:   atomic.NewError(nil),
		processed:   atomic.NewUint64(0),
	}

	pid.logger = system.logger.With("actor", pid.Identifier(), "kind", pid.kind)
	if config.throughput != nil {
		pid.throughput = *config.throughput
	}

	if config.dedicated {
		pid.dedicated = newDedicatedExecutor(pid)
		pid.executor = pid.dedicated
	}

	pid.mailbox = newMailbox(pid.executor, pid.drain)
	if err := pid.registry.Register(pid); err != nil {
		pid.stopDedicated()
		return nil, err
	}

	// the parent must know its child before the child can die
	if parent != nil {
		parent.children.Add(pid)
		if config.supervise {
			parent.supervisees.Add(pid)
		}
	}

	system.actorStarted(pid)

	// initialize is the first event the actor ever handles
	if err := pid.mailbox.Push(newSystemEvent(initializeCommand, nil, parent)); err != nil {
		// an actor already terminating was killed by its parent and accounts for itself
		if pid.State() < Terminating {
			if parent != nil {
				parent.children.Remove(pid)
				parent.supervisees.Remove(pid)
			}
			pid.registry.Unregister(pid)
			pid.mailbox.Kill()
			pid.stopDedicated()
			system.actorStopped(pid)
		}
		return nil, err
	}

	pid.logger.Debug("actor spawned")

	// the parent may have died while the child was being created, without the
	// child in the snapshot it notified. A second notification hits a dead mailbox.
	if parent != nil && !parent.IsAlive() {
		parent.children.Remove(pid)
		if err := parent.Exception(); err != nil {
			_ = pid.sendSystem(parentDiedCommand, &death{pid: parent, err: err}, parent)
		} else {
			_ = pid.shutdown()
		}
	}

	return pid, nil
}

// ID returns the unique identifier of the actor
func (pid *PID) ID() string {
	return pid.id
}

// Name returns the registered name of the actor, empty when unnamed
func (pid *PID) Name() string {
	return pid.name
}

// Identifier returns the identifier used in logs and supervision errors
func (pid *PID) Identifier() string {
	if pid.name != "" {
		return pid.id + ":" + pid.name
	}
	return pid.id
}

// Kind returns the type name of the actor implementation
func (pid *PID) Kind() string {
	return pid.kind
}

// String implements fmt.Stringer
func (pid *PID) String() string {
	return pid.Identifier()
}

// IsAlive returns true until the actor is deactivated
func (pid *PID) IsAlive() bool {
	return pid.mailbox.IsAlive()
}

// IsDead returns true once the actor is deactivated
func (pid *PID) IsDead() bool {
	return !pid.IsAlive()
}

// State returns the lifecycle state of the actor
func (pid *PID) State() State {
	return State(pid.state.Load())
}

// Exception returns the error the actor died with, if any
func (pid *PID) Exception() error {
	return pid.exception.Load()
}

// Parent returns the parent of the actor, nil for the root actor
func (pid *PID) Parent() *PID {
	return pid.parent
}

// Children returns the live children of the actor
func (pid *PID) Children() []*PID {
	return pid.children.ToSlice()
}

// ProcessedCount returns the number of events the actor has handled
func (pid *PID) ProcessedCount() uint64 {
	return pid.processed.Load()
}

// MailboxSize returns the number of events waiting to be handled
func (pid *PID) MailboxSize() int {
	return pid.mailbox.Len()
}

// Logger returns the actor logger
func (pid *PID) Logger() log.Logger {
	return pid.logger
}

// Tell sends an event from outside any actor.
// Sending to a dead actor returns ErrActorShutdown and the event is dropped.
func (pid *PID) Tell(command Command, data any) error {
	if command.IsReserved() {
		return gerrors.NewErrReservedCommand(string(command))
	}
	return pid.send(newEvent(command, data, nil))
}

// Ask sends an event from outside any actor and returns the future the handler resolves.
// The future fails with ErrActorShutdown when the actor dies before handling the event.
func (pid *PID) Ask(command Command, data any) *future.Future {
	f := future.New(future.WithScheduler(pid.scheduler), future.WithLogger(pid.logger))
	pid.request(f, command, data, nil)
	return f
}

// Perform runs fn on the actor, serialized with its handlers.
// A panicking fn fails the actor.
func (pid *PID) Perform(fn func()) error {
	return pid.send(newSystemEvent(performCommand, fn, nil))
}

// Shutdown asks the actor to shut down gracefully once the events queued
// before the request are handled. The root actor only stops with its system.
func (pid *PID) Shutdown() error {
	if pid.root {
		return gerrors.ErrRootActor
	}
	return pid.shutdown()
}

// SpawnChild creates a child actor
func (pid *PID) SpawnChild(actor Actor, opts ...SpawnOption) (*PID, error) {
	return spawn(pid.system, pid, actor, opts...)
}

var _ future.Performer = (*PID)(nil)

func (pid *PID) shutdown() error {
	return pid.sendSystem(shutdownCommand, nil, nil)
}

func (pid *PID) request(f *future.Future, command Command, data any, source *PID) {
	if command.IsReserved() {
		f.Resolve(nil, gerrors.NewErrReservedCommand(string(command)))
		return
	}

	event := newEvent(command, data, source)
	event.attachFuture(f)
	_ = pid.send(event)
}

func (pid *PID) sendSystem(command systemCommand, data any, source *PID) error {
	return pid.send(newSystemEvent(command, data, source))
}

// send pushes the event, failing its future when the actor cannot take it
func (pid *PID) send(event *Event) error {
	if err := pid.mailbox.Push(event); err != nil {
		if event.future != nil {
			event.future.Resolve(nil, err)
		}
		pid.logger.Debugf("event %s dropped: %v", event.command, err)
		return err
	}
	return nil
}

// drain handles events for as long as the mailbox yields them
func (pid *PID) drain(token uint64) {
	handled := 0
	for {
		event, status := pid.mailbox.obtain(token)
		switch status {
		case busy:
			return
		case drained:
			pid.mailbox.release(token)
			return
		}

		pid.handle(event)
		handled++
		if pid.throughput > 0 && handled >= pid.throughput {
			pid.mailbox.release(token)
			return
		}
	}
}

func (pid *PID) handle(event *Event) {
	pid.activeEvent = event
	defer func() {
		pid.activeEvent = nil
	}()

	var result any
	var err error
	if event.IsSystem() {
		err = pid.handleSystem(event)
	} else {
		result, err = pid.handleUser(event)
	}

	pid.processed.Inc()
	pid.system.metric.EventProcessed(pid.system.Context(), pid.kind)

	// a forwarded event is resolved by the actor it was handed to
	if event.future != nil && pid.activeEvent == event {
		event.future.Resolve(result, err)
	}

	if err != nil {
		pid.fail(err)
	}
}

func (pid *PID) handleUser(event *Event) (any, error) {
	handler, ok := pid.handlers[event.command]
	if !ok {
		return nil, gerrors.NewErrUnhandledCommand(string(event.command))
	}

	var result any
	err := pid.hook(event, func(ctx *Context) (err error) {
		result, err = handler(ctx, event)
		return err
	})
	return result, err
}

func (pid *PID) handleSystem(event *Event) error {
	switch event.system {
	case initializeCommand:
		return pid.initialize(event)
	case shutdownCommand:
		pid.handleShutdown(event)
		return nil
	case performCommand:
		fn, ok := event.data.(func())
		if !ok || fn == nil {
			return nil
		}
		return pid.recovered(func() error {
			fn()
			return nil
		})
	case childDiedCommand:
		return pid.handleChildDied(event)
	case childShutdownCommand:
		return pid.handleChildShutdown(event)
	case parentDiedCommand:
		return pid.handleParentDied(event)
	default:
		return nil
	}
}

func (pid *PID) initialize(event *Event) error {
	if initializer, ok := pid.actor.(Initializer); ok {
		if err := pid.hook(event, initializer.OnInitialize); err != nil {
			return err
		}
	}

	pid.state.CompareAndSwap(int32(Initializing), int32(Running))
	pid.logger.Debug("actor initialized")
	return nil
}

// hook runs fn with a fresh Context. Failures marked with Context.Err and
// panics are both returned as errors.
func (pid *PID) hook(event *Event, fn func(ctx *Context) error) error {
	ctx := newContext(pid, event)
	if err := pid.recovered(func() error { return fn(ctx) }); err != nil {
		return err
	}
	return ctx.err
}

// recovered turns a panic raised by fn into a PanicError
func (pid *PID) recovered(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			pc, file, line, _ := runtime.Caller(2)
			switch v := r.(type) {
			case *gerrors.PanicError:
				err = v
			case error:
				err = gerrors.NewPanicError(fmt.Errorf("%w at %s[%s:%d]", v, runtime.FuncForPC(pc).Name(), file, line))
			default:
				err = gerrors.NewPanicError(fmt.Errorf("%#v at %s[%s:%d]", r, runtime.FuncForPC(pc).Name(), file, line))
			}
		}
	}()
	return fn()
}

func (pid *PID) stopDedicated() {
	if pid.dedicated != nil {
		// the caller may be running on the pool itself, Stop would wait on it
		go pid.dedicated.Stop()
	}
}

// trackTimer keeps the timer so it can be cancelled when the actor dies.
// Fired one-shot timers are pruned on the way.
func (pid *PID) trackTimer(timer *scheduler.Timer) {
	for _, tracked := range pid.timers.ToSlice() {
		if !tracked.IsActive() {
			pid.timers.Remove(tracked)
		}
	}
	pid.timers.Add(timer)
}
