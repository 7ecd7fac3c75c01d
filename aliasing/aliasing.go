// Package aliasing provides Aliased, a wrapper that lets the same logical
// value physically live in both copies of a leftright pair while attributing
// disposal to exactly one of the two aliases.
//
// In the original Rust crate this matters for memory safety: both copies of
// a container can hold the same allocation, and exactly one of them must run
// the destructor. Go's garbage collector removes the memory-safety stakes —
// aliasing a Go value just copies it — but the single-owner-disposal
// discipline is still useful whenever T wraps something that isn't memory:
// an open file, a reference-counted external handle, anything with its own
// Close. Aliased keeps that discipline explicit and type-checked instead of
// leaving it to a convention the two copies' Absorb implementation has to
// remember on its own.
//
// Equal and Compare delegate equality and ordering to the payload, and Get
// delegates borrows, matching the original's derived Eq/Ord/Deref. There is
// no Hash delegation: a generic hash over an arbitrary comparable T needs
// hash/maphash.Comparable, added in Go 1.24, and this module targets Go 1.22,
// so that delegation is left undone rather than reached for a non-stdlib
// hashing library on behalf of a method nothing in this repo calls.
package aliasing

import (
	"cmp"
	"fmt"
)

// DropBehavior selects, per instantiation of Aliased, whether closing the
// cell disposes of its payload. It stands in for the original's const
// generic (`D: DropBehavior` with an associated `DO_DROP` const) — Go has no
// const generics, so the decision is a method call on a zero-sized type
// instead of a compile-time constant, but it's still resolved once per
// Aliased[T, D] instantiation, not per value.
type DropBehavior interface {
	dropsPayload() bool
}

// KeepsDrop marks an Aliased as the one alias responsible for disposing of
// the payload when closed.
type KeepsDrop struct{}

func (KeepsDrop) dropsPayload() bool { return true }

// NoDrop marks an Aliased as a non-owning alias: closing it never disposes
// of the payload.
type NoDrop struct{}

func (NoDrop) dropsPayload() bool { return false }

// closer is the optional hook a payload can implement to be notified when
// the owning Aliased is closed.
type closer interface {
	Close()
}

// Aliased wraps a value T plus a compile-time-selected drop behavior D.
type Aliased[T any, D DropBehavior] struct {
	v      T
	closed bool
}

// From wraps t in a new Aliased cell.
func From[T any, D DropBehavior](t T) Aliased[T, D] {
	return Aliased[T, D]{v: t}
}

// Alias returns a second Aliased cell sharing the same payload bits. The
// caller promises that only one of the two resulting aliases (the one whose
// D is KeepsDrop) will be closed after the payload is done being used by
// both; closing both is a double-dispose bug this type can't catch on its
// own, the same unchecked promise the original's `unsafe fn alias` makes.
func (a *Aliased[T, D]) Alias() Aliased[T, D] {
	return Aliased[T, D]{v: a.v}
}

// ChangeDrop reinterprets an Aliased's drop behavior, e.g. when an element
// transitions from the non-owning copy stored by a user container to the
// owning copy being finalized during a second-apply. The original caller is
// consumed by value to make the hand-off explicit.
func ChangeDrop[T any, D2 DropBehavior, D1 DropBehavior](a Aliased[T, D1]) Aliased[T, D2] {
	return Aliased[T, D2]{v: a.v}
}

// Get exposes the payload.
func (a *Aliased[T, D]) Get() *T {
	return &a.v
}

// Close disposes of the payload if D is KeepsDrop and the payload implements
// Close; otherwise it's a no-op. Idempotent.
func (a *Aliased[T, D]) Close() {
	if a.closed {
		return
	}
	a.closed = true
	var d D
	if !d.dropsPayload() {
		return
	}
	if c, ok := any(&a.v).(closer); ok {
		c.Close()
	}
}

func (a *Aliased[T, D]) String() string {
	if s, ok := any(a.v).(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(a.v)
}

// Equal reports whether two Aliased cells hold equal payloads. It's a free
// function, not a method, because Go methods can't add the `comparable`
// constraint Aliased[T, D] itself doesn't carry.
func Equal[T comparable, D DropBehavior](a, b Aliased[T, D]) bool {
	return a.v == b.v
}

// Compare delegates ordering to the payload's natural order, the same way
// Equal delegates equality. Like Equal, it's a free function rather than a
// method because Aliased[T, D] itself carries no ordering constraint on T.
func Compare[T cmp.Ordered, D DropBehavior](a, b Aliased[T, D]) int {
	return cmp.Compare(a.v, b.v)
}
