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

// Package registry maps unique names and identifiers to actor handles.
package registry

import (
	gerrors "github.com/tribe-actors/tribe/errors"
	"github.com/tribe-actors/tribe/internal/xsync"
)

// Entry is what the registry stores
type Entry interface {
	comparable
	// ID returns the unique identifier of the entry
	ID() string
	// Name returns the unique name of the entry, empty when unnamed
	Name() string
}

// Registry is a concurrency-safe index of entries by identifier and by name
type Registry[T Entry] struct {
	ids   *xsync.Map[string, T]
	names *xsync.Map[string, T]
}

// New creates a new Registry
func New[T Entry]() *Registry[T] {
	return &Registry[T]{
		ids:   xsync.NewMap[string, T](),
		names: xsync.NewMap[string, T](),
	}
}

// Register adds the entry.
// ErrNameConflict is returned when an entry with the same name is already registered.
func (r *Registry[T]) Register(entry T) error {
	if name := entry.Name(); name != "" {
		if !r.names.SetIfAbsent(name, entry) {
			return gerrors.NewErrNameConflict(name)
		}
	}
	r.ids.Set(entry.ID(), entry)
	return nil
}

// Unregister removes the entry. It is idempotent and never removes
// another entry registered later under the same name.
func (r *Registry[T]) Unregister(entry T) {
	same := func(v T) bool { return v == entry }
	if name := entry.Name(); name != "" {
		r.names.DeleteIf(name, same)
	}
	r.ids.DeleteIf(entry.ID(), same)
}

// Lookup returns the entry registered under name
func (r *Registry[T]) Lookup(name string) (T, bool) {
	return r.names.Get(name)
}

// LookupID returns the entry registered under the identifier
func (r *Registry[T]) LookupID(id string) (T, bool) {
	return r.ids.Get(id)
}

// Len returns the number of registered entries
func (r *Registry[T]) Len() int {
	return r.ids.Len()
}

// Entries returns a snapshot of the registered entries
func (r *Registry[T]) Entries() []T {
	return r.ids.Values()
}
