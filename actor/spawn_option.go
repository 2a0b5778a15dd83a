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

// spawnConfig defines the configuration to apply when creating an actor
type spawnConfig struct {
	// name registers the actor under a unique name
	name string
	// dedicated gives the actor its own single-worker pool
	dedicated bool
	// supervise keeps the parent alive when the actor fails
	supervise bool
	// noRaise makes a failed spawn return nil instead of failing the parent
	noRaise bool
	// throughput caps the events handled per drain, zero means no cap
	throughput *int
	// root marks the root actor of a system
	root bool
}

// newSpawnConfig creates an instance of spawnConfig
func newSpawnConfig(opts ...SpawnOption) *spawnConfig {
	config := &spawnConfig{}
	for _, opt := range opts {
		opt.Apply(config)
	}
	return config
}

// SpawnOption is the interface that applies to
type SpawnOption interface {
	// Apply sets the Option value of a config.
	Apply(config *spawnConfig)
}

var _ SpawnOption = spawnOption(nil)

// spawnOption implements the SpawnOption interface.
type spawnOption func(config *spawnConfig)

// Apply sets the Option value of a config.
func (f spawnOption) Apply(c *spawnConfig) {
	f(c)
}

// WithName registers the actor under the given unique name.
// Spawning fails with ErrNameConflict when the name is taken.
func WithName(name string) SpawnOption {
	return spawnOption(func(config *spawnConfig) {
		config.name = name
	})
}

// WithDedicated runs the actor on its own single-worker pool instead of the
// shared executor. Use it for actors that block inside their handlers.
func WithDedicated() SpawnOption {
	return spawnOption(func(config *spawnConfig) {
		config.dedicated = true
	})
}

// WithSupervise marks the child as supervised: its failure is reported to
// the parent's OnChildDied hook and does not propagate further.
func WithSupervise() SpawnOption {
	return spawnOption(func(config *spawnConfig) {
		config.supervise = true
	})
}

// WithNoRaiseOnFailure makes Context.Spawn return nil when the child cannot
// be created, instead of failing the spawning actor.
func WithNoRaiseOnFailure() SpawnOption {
	return spawnOption(func(config *spawnConfig) {
		config.noRaise = true
	})
}

// WithThroughput caps the number of events handled in one drain before the
// worker goes back to the pool. Zero drains until the mailbox is empty.
func WithThroughput(events int) SpawnOption {
	return spawnOption(func(config *spawnConfig) {
		if events >= 0 {
			config.throughput = &events
		}
	})
}

// asRoot marks the actor as the root of its system
func asRoot() SpawnOption {
	return spawnOption(func(config *spawnConfig) {
		config.root = true
	})
}
