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
	"sync"

	"go.uber.org/atomic"

	gerrors "github.com/tribe-actors/tribe/errors"
	"github.com/tribe-actors/tribe/internal/queue"
)

// obtainStatus is the outcome of a drain step
type obtainStatus int

const (
	// obtained means the caller owns the mailbox and received an event
	obtained obtainStatus = iota
	// drained means the caller owns the mailbox and the queue is empty
	drained
	// busy means another drain owns the mailbox, the caller must stop
	busy
)

// drainTokens hands out unique drain identities.
// Zero is never issued and stands for "no owner".
var drainTokens = atomic.NewUint64(0)

// Mailbox is an actor inbox guaranteeing at most one drain at a time.
//
// A drain is a task submitted to the executor. It owns the mailbox from its
// first successful obtain until release. Events pushed while the mailbox is
// owned do not schedule another drain, release picks them up instead.
type Mailbox struct {
	mutex     sync.Mutex
	queue     *queue.Queue[*Event]
	alive     bool
	owner     uint64
	scheduled bool

	executor Executor
	drain    func(token uint64)
}

func newMailbox(executor Executor, drain func(token uint64)) *Mailbox {
	return &Mailbox{
		queue:    queue.New[*Event](),
		alive:    true,
		executor: executor,
		drain:    drain,
	}
}

// Push appends the event and schedules a drain when none is running or pending.
// ErrActorShutdown is returned when the mailbox is dead, the event is then dropped.
// An executor error is returned when the drain cannot be scheduled, the mailbox is then dead.
func (m *Mailbox) Push(event *Event) error {
	m.mutex.Lock()
	if !m.alive {
		m.mutex.Unlock()
		return gerrors.ErrActorShutdown
	}

	m.queue.Push(event)
	submit := m.owner == 0 && !m.scheduled
	if submit {
		m.scheduled = true
	}
	m.mutex.Unlock()

	if submit {
		return m.submit()
	}
	return nil
}

// obtain takes ownership for the given drain, when free, and pops the next event.
// A drain calling obtain again while owning the mailbox keeps its ownership.
func (m *Mailbox) obtain(token uint64) (*Event, obtainStatus) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.owner != 0 && m.owner != token {
		return nil, busy
	}

	if m.owner == 0 {
		m.owner = token
		m.scheduled = false
	}

	event, ok := m.queue.Pop()
	if !ok {
		return nil, drained
	}
	return event, obtained
}

// release gives up ownership. A new drain is submitted when events are still queued.
func (m *Mailbox) release(token uint64) {
	m.mutex.Lock()
	if m.owner != token {
		m.mutex.Unlock()
		return
	}

	m.owner = 0
	resubmit := m.alive && !m.scheduled && !m.queue.IsEmpty()
	if resubmit {
		m.scheduled = true
	}
	m.mutex.Unlock()

	if resubmit {
		_ = m.submit()
	}
}

// Kill marks the mailbox dead and returns the events that will never be processed
func (m *Mailbox) Kill() []*Event {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if !m.alive {
		return nil
	}
	m.alive = false
	return m.queue.CloseRemaining()
}

// IsAlive returns true until Kill is called
func (m *Mailbox) IsAlive() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.alive
}

// Len returns the number of queued events
func (m *Mailbox) Len() int {
	return m.queue.Len()
}

// IsEmpty returns true when no event is queued
func (m *Mailbox) IsEmpty() bool {
	return m.queue.IsEmpty()
}

// submit schedules a drain. When the executor refuses it nothing would ever
// drain the queue, the mailbox is then killed and the queued futures failed.
func (m *Mailbox) submit() error {
	token := drainTokens.Inc()
	if err := m.executor.SubmitWork(func() { m.drain(token) }); err != nil {
		m.mutex.Lock()
		m.scheduled = false
		m.mutex.Unlock()
		for _, event := range m.Kill() {
			if event.future != nil {
				event.future.Resolve(nil, err)
			}
		}
		return err
	}
	return nil
}
