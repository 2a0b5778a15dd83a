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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tribe-actors/tribe/errors"
)

// delegator asks a squarer for the result, blocking or not
type delegator struct {
	squarer *PID
	results chan any
}

func (d *delegator) Handlers() Handlers {
	return Handlers{
		"square": func(ctx *Context, event *Event) (any, error) {
			return ctx.Wait(ctx.Future(d.squarer, "compute", event.Data()))
		},
		"square_async": func(ctx *Context, event *Event) (any, error) {
			self := ctx.Self()
			f := ctx.Future(d.squarer, "compute", event.Data())
			f.OnSuccess(func(value any) {
				// callbacks run on the requesting actor
				d.results <- []any{value, self.activeEvent != nil}
			})
			f.OnFailure(func(err error) {
				d.results <- err
			})
			return nil, nil
		},
	}
}

func TestContext(t *testing.T) {
	t.Run("With blocking future", func(t *testing.T) {
		system := newTestSystem(t)
		sq, err := system.Spawn(squarer{})
		require.NoError(t, err)
		pid, err := system.Spawn(&delegator{squarer: sq})
		require.NoError(t, err)

		value, err := pid.Ask("square", 10).Wait()
		require.NoError(t, err)
		require.Equal(t, 100, value)
	})
	t.Run("With blocking future failure", func(t *testing.T) {
		system := newTestSystem(t)
		sq, err := system.Spawn(squarer{})
		require.NoError(t, err)
		pid, err := system.Spawn(&delegator{squarer: sq})
		require.NoError(t, err)

		_, err = pid.Ask("square", nil).Wait()
		require.ErrorContains(t, err, "invalid data type")
		awaitDead(t, pid, sq)
	})
	t.Run("With blocking futures on a single worker", func(t *testing.T) {
		system := newTestSystem(t, WithPoolSize(1))
		sq, err := system.Spawn(squarer{})
		require.NoError(t, err)
		pid, err := system.Spawn(&delegator{squarer: sq})
		require.NoError(t, err)

		value, err := pid.Ask("square", 7).Wait()
		require.NoError(t, err)
		require.Equal(t, 49, value)
	})
	t.Run("With future callbacks", func(t *testing.T) {
		system := newTestSystem(t)
		sq, err := system.Spawn(squarer{})
		require.NoError(t, err)
		d := &delegator{squarer: sq, results: make(chan any, 1)}
		pid, err := system.Spawn(d)
		require.NoError(t, err)

		require.NoError(t, pid.Tell("square_async", 12))
		select {
		case result := <-d.results:
			require.Equal(t, []any{144, true}, result)
		case <-time.After(waitFor):
			t.Fatal("callback never ran")
		}

		require.NoError(t, pid.Tell("square_async", "twelve"))
		select {
		case result := <-d.results:
			err, ok := result.(error)
			require.True(t, ok)
			require.ErrorContains(t, err, "invalid data type")
		case <-time.After(waitFor):
			t.Fatal("callback never ran")
		}
		assert.True(t, pid.IsAlive())
	})
	t.Run("With future to a dead actor", func(t *testing.T) {
		system := newTestSystem(t)
		sq, err := system.Spawn(squarer{})
		require.NoError(t, err)
		require.NoError(t, sq.Shutdown())
		awaitDead(t, sq)

		pid, err := system.Spawn(&delegator{squarer: sq})
		require.NoError(t, err)
		_, err = pid.Ask("square", 2).Wait()
		require.ErrorIs(t, err, gerrors.ErrActorShutdown)
	})
	t.Run("With reserved command", func(t *testing.T) {
		system := newTestSystem(t)
		target, err := system.Spawn(newRecorder())
		require.NoError(t, err)
		pid, err := system.Spawn(NewFuncActor(Handlers{
			"send": func(ctx *Context, _ *Event) (any, error) {
				ctx.Tell(target, "__shutdown__", nil)
				return nil, nil
			},
		}))
		require.NoError(t, err)

		_, err = pid.Ask("send", nil).Wait()
		require.ErrorIs(t, err, gerrors.ErrReservedCommand)
		awaitDead(t, pid)
		assert.True(t, target.IsAlive())
	})
	t.Run("With spawn failure raised", func(t *testing.T) {
		system := newTestSystem(t)
		pid, err := system.Spawn(NewFuncActor(Handlers{
			"spawn": func(ctx *Context, _ *Event) (any, error) {
				return ctx.Spawn(newRecorder(), WithName("\ttabbed")), nil
			},
		}))
		require.NoError(t, err)

		_, err = pid.Ask("spawn", nil).Wait()
		require.ErrorIs(t, err, gerrors.ErrActorName)
		awaitDead(t, pid)
	})
	t.Run("With spawn failure not raised", func(t *testing.T) {
		system := newTestSystem(t)
		pid, err := system.Spawn(NewFuncActor(Handlers{
			"spawn": func(ctx *Context, _ *Event) (any, error) {
				child := ctx.Spawn(newRecorder(), WithName("\ttabbed"), WithNoRaiseOnFailure())
				return child == nil, nil
			},
		}))
		require.NoError(t, err)

		value, err := pid.Ask("spawn", nil).Wait()
		require.NoError(t, err)
		require.Equal(t, true, value)
		assert.True(t, pid.IsAlive())
	})
	t.Run("With spawned children", func(t *testing.T) {
		system := newTestSystem(t)
		pid, err := system.Spawn(NewFuncActor(Handlers{
			"spawn": func(ctx *Context, _ *Event) (any, error) {
				child := ctx.Spawn(newRecorder())
				if child.Parent() != ctx.Self() {
					return nil, errors.New("wrong parent")
				}
				return len(ctx.Children()), nil
			},
		}))
		require.NoError(t, err)

		value, err := pid.Ask("spawn", nil).Wait()
		require.NoError(t, err)
		require.Equal(t, 1, value)
		value, err = pid.Ask("spawn", nil).Wait()
		require.NoError(t, err)
		require.Equal(t, 2, value)
	})
	t.Run("With self shutdown", func(t *testing.T) {
		system := newTestSystem(t)
		actor := newRecorder()
		pid, err := system.Spawn(NewFuncActor(Handlers{
			"stop": func(ctx *Context, _ *Event) (any, error) {
				ctx.Shutdown()
				return nil, nil
			},
		}, WithShutdown(func(*Context) { actor.shutdown.Store(true) })))
		require.NoError(t, err)

		require.NoError(t, pid.Tell("stop", nil))
		awaitDead(t, pid)
		require.Eventually(t, actor.shutdown.Load, waitFor, tick)
		require.NoError(t, pid.Exception())
	})
}

func TestFuncActor(t *testing.T) {
	system := newTestSystem(t)
	initialized := make(chan struct{})
	exceptions := make(chan error, 1)
	pid, err := system.Spawn(NewFuncActor(Handlers{
		"fail": func(*Context, *Event) (any, error) {
			return nil, errors.New("uh oh")
		},
	},
		WithInitialize(func(*Context) error {
			close(initialized)
			return nil
		}),
		WithException(func(_ *Context, err error) {
			exceptions <- err
		})))
	require.NoError(t, err)
	assert.Equal(t, "actor.funcactor", pid.Kind())

	<-initialized
	require.NoError(t, pid.Tell("fail", nil))
	require.EqualError(t, <-exceptions, "uh oh")
	awaitDead(t, pid)
}
