// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package history implements a generic linear undo/redo container over
// immutable snapshots. The container owns three regions: past (undo stack,
// oldest first), present (the single source of truth every view renders
// from), and future (redo stack, nearest-undo first). A committed edit
// clears the redo stack — there is no history branching.
package history

import (
	"reflect"

	"github.com/brunoga/deep"
)

// History tracks snapshots of a value type T. The zero value is not
// usable; construct with New. History is not safe for concurrent use —
// the editing core is single-threaded by design and callers serialize
// access themselves.
type History[T any] struct {
	past    []T
	present T
	future  []T

	// limit caps the undo depth; 0 means unbounded. When the cap is
	// reached the oldest past entry is dropped.
	limit int
}

// Option configures a History at construction time.
type Option func(*options)

type options struct {
	limit int
}

// WithLimit caps the undo stack at n entries. n <= 0 leaves the stack
// unbounded.
func WithLimit(n int) Option {
	return func(o *options) {
		o.limit = n
	}
}

// New creates a history with the given initial present and empty
// past/future. The initial value is deep-copied so the caller cannot
// alias the stored snapshot.
func New[T any](initial T, opts ...Option) *History[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &History[T]{
		present: deep.MustCopy(initial),
		limit:   o.limit,
	}
}

// Present returns a deep copy of the current snapshot. Mutating the
// returned value never affects the history.
func (h *History[T]) Present() T {
	return deep.MustCopy(h.present)
}

// Peek returns the current snapshot without copying. Callers must treat
// the result as read-only.
func (h *History[T]) Peek() T {
	return h.present
}

// Set commits a new snapshot. If the value is deep-equal to the current
// present it is a no-op: re-applying an identical edit must not pollute
// the undo log. Otherwise the current present is pushed onto past, the
// new value installed, and the redo stack cleared. Returns true when the
// snapshot was actually committed.
func (h *History[T]) Set(v T) bool {
	if reflect.DeepEqual(v, h.present) {
		return false
	}

	h.past = append(h.past, h.present)
	if h.limit > 0 && len(h.past) > h.limit {
		// Drop the oldest entry; shift in place to keep one allocation.
		copy(h.past, h.past[1:])
		h.past = h.past[:len(h.past)-1]
	}

	h.present = deep.MustCopy(v)
	h.future = nil
	return true
}

// Undo moves one step back. No-op when there is nothing to undo.
// Returns true when a step was taken.
func (h *History[T]) Undo() bool {
	if len(h.past) == 0 {
		return false
	}

	last := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append([]T{h.present}, h.future...)
	h.present = last
	return true
}

// Redo moves one step forward. No-op when there is nothing to redo.
// Returns true when a step was taken.
func (h *History[T]) Redo() bool {
	if len(h.future) == 0 {
		return false
	}

	next := h.future[0]
	h.future = h.future[1:]
	h.past = append(h.past, h.present)
	h.present = next
	return true
}

// Reset discards all history and installs v as the new present. Used only
// on (re)initialization, never mid-session.
func (h *History[T]) Reset(v T) {
	h.past = nil
	h.future = nil
	h.present = deep.MustCopy(v)
}

// CanUndo reports whether the undo stack is non-empty.
func (h *History[T]) CanUndo() bool {
	return len(h.past) > 0
}

// CanRedo reports whether the redo stack is non-empty.
func (h *History[T]) CanRedo() bool {
	return len(h.future) > 0
}

// Depth returns the current undo and redo stack sizes.
func (h *History[T]) Depth() (past, future int) {
	return len(h.past), len(h.future)
}
