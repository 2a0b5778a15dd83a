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
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/tribe-actors/tribe/log"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func newTestSystem(t *testing.T, opts ...Option) *System {
	t.Helper()
	opts = append([]Option{WithLogger(log.DiscardLogger), WithPoolSize(4)}, opts...)
	system, err := NewSystem("test", opts...)
	require.NoError(t, err)
	require.NoError(t, system.Start(context.TODO()))
	t.Cleanup(func() {
		require.NoError(t, system.Stop(context.TODO()))
	})
	return system
}

func awaitDead(t *testing.T, pids ...*PID) {
	t.Helper()
	for _, pid := range pids {
		require.Eventually(t, pid.IsDead, waitFor, tick, "actor %s still alive", pid.Identifier())
	}
}

// recorder records the commands it handles, in order
type recorder struct {
	mutex       sync.Mutex
	commands    []Command
	values      []any
	initialized bool
	shutdown    *atomic.Bool
}

func newRecorder() *recorder {
	return &recorder{shutdown: atomic.NewBool(false)}
}

var (
	_ Actor           = (*recorder)(nil)
	_ Initializer     = (*recorder)(nil)
	_ ShutdownHandler = (*recorder)(nil)
)

func (r *recorder) OnInitialize(*Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.initialized = true
	r.commands = append(r.commands, "initialize")
	return nil
}

func (r *recorder) OnShutdown(*Context) {
	r.shutdown.Store(true)
}

func (r *recorder) Handlers() Handlers {
	return Handlers{
		"record": func(ctx *Context, event *Event) (any, error) {
			r.mutex.Lock()
			defer r.mutex.Unlock()
			r.commands = append(r.commands, event.Command())
			r.values = append(r.values, event.Data())
			return event.Data(), nil
		},
		"fail": func(*Context, *Event) (any, error) {
			return nil, errors.New("uh oh")
		},
		"panic": func(*Context, *Event) (any, error) {
			panic("boom")
		},
	}
}

func (r *recorder) recorded() []any {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	out := make([]any, len(r.values))
	copy(out, r.values)
	return out
}

func (r *recorder) history() []Command {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// squarer computes data**2 on compute
type squarer struct{}

func (squarer) Handlers() Handlers {
	return Handlers{
		"compute": func(_ *Context, event *Event) (any, error) {
			n, ok := event.Data().(int)
			if !ok {
				return nil, fmt.Errorf("compute: invalid data type %T", event.Data())
			}
			return n * n, nil
		},
	}
}

// observer records the lifecycle hooks it receives
type observer struct {
	mutex         sync.Mutex
	deadChild     *PID
	childErr      error
	deadParent    *PID
	parentErr     error
	exception     error
	shutdownChild *PID
	hooks         []string
}

var (
	_ ChildDiedHandler     = (*observer)(nil)
	_ ChildShutdownHandler = (*observer)(nil)
	_ ParentDiedHandler    = (*observer)(nil)
	_ ExceptionHandler     = (*observer)(nil)
)

func (o *observer) Handlers() Handlers {
	return Handlers{}
}

func (o *observer) OnChildDied(_ *Context, child *PID, err error) error {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.deadChild, o.childErr = child, err
	o.hooks = append(o.hooks, "child_died")
	return nil
}

func (o *observer) OnChildShutdown(_ *Context, child *PID) error {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.shutdownChild = child
	o.hooks = append(o.hooks, "child_shutdown")
	return nil
}

func (o *observer) OnParentDied(_ *Context, parent *PID, err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.deadParent, o.parentErr = parent, err
	o.hooks = append(o.hooks, "parent_died")
}

func (o *observer) OnException(_ *Context, err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.exception = err
	o.hooks = append(o.hooks, "exception")
}

func (o *observer) called(hook string) bool {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	for _, h := range o.hooks {
		if h == hook {
			return true
		}
	}
	return false
}

// manualExecutor queues tasks until run is called. Once refuse is set it rejects them.
type manualExecutor struct {
	mutex  sync.Mutex
	tasks  []func()
	refuse error
}

func (m *manualExecutor) SubmitWork(task func()) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.refuse != nil {
		return m.refuse
	}
	m.tasks = append(m.tasks, task)
	return nil
}

func (m *manualExecutor) refuseWith(err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.refuse = err
}

func (m *manualExecutor) Stop() {}

func (m *manualExecutor) pending() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.tasks)
}

func (m *manualExecutor) runNext() bool {
	m.mutex.Lock()
	if len(m.tasks) == 0 {
		m.mutex.Unlock()
		return false
	}
	task := m.tasks[0]
	m.tasks = m.tasks[1:]
	m.mutex.Unlock()
	task()
	return true
}
