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
	"runtime"
	"sync"
	"time"

	"github.com/tribe-actors/tribe/scheduler"
)

const (
	// DefaultSchedulerFrequency defines the default timer scheduler frequency in Hertz
	DefaultSchedulerFrequency = scheduler.DefaultFrequency
	// DefaultShutdownTimeout defines the default time System.Stop waits for the actor tree
	DefaultShutdownTimeout = 5 * time.Second
	// DefaultThroughput defines the default number of events per drain, zero drains the mailbox
	DefaultThroughput = 0
	// DefaultSystemName defines the name of the process-wide default system
	DefaultSystemName = "tribe"

	minPoolSize = 4
)

// DefaultPoolSize returns the default number of shared workers
func DefaultPoolSize() int {
	return max(runtime.NumCPU()*4, minPoolSize)
}

var (
	defaultOnce   sync.Once
	defaultSystem *System
	defaultErr    error
)

// Default returns the process-wide System, created and started on first use.
// It is meant for the application entry point. Libraries should accept
// a *System instead.
func Default() (*System, error) {
	defaultOnce.Do(func() {
		system, err := NewSystem(DefaultSystemName)
		if err == nil {
			err = system.Start(context.Background())
		}
		defaultSystem, defaultErr = system, err
	})
	return defaultSystem, defaultErr
}
