package leftright

import (
	"go.uber.org/atomic"
)

const (
	messageGuardOutstanding  = "leftright: read handle closed with a guard still outstanding"
	messageRegistryCorrupted = "leftright: epoch registry returned the wrong counter on unregister"
)

// ReadHandle is a per-goroutine reader entry. It is cheap to Clone — each
// clone gets its own epoch slot — but a ReadHandle itself is not safe for
// concurrent use from multiple goroutines: enters is a plain int, confined
// to whichever goroutine owns the handle (spec §9's open question: don't
// clone a handle and hand the clone to another goroutine mid-critical-
// section; clone first, then hand off the clone before entering it).
type ReadHandle[T any] struct {
	inner    *atomic.Pointer[T]
	registry *epochRegistry
	epoch    *atomic.Uint64
	slot     int
	enters   int
}

func newReadHandle[T any](v T, registry *epochRegistry) *ReadHandle[T] {
	inner := atomic.NewPointer(&v)
	return newReadHandleFromPointer(inner, registry)
}

func newReadHandleFromPointer[T any](inner *atomic.Pointer[T], registry *epochRegistry) *ReadHandle[T] {
	epoch := atomic.NewUint64(0)
	slot := registry.register(epoch)
	return &ReadHandle[T]{
		inner:    inner,
		registry: registry,
		epoch:    epoch,
		slot:     slot,
	}
}

// Enter begins (or extends, if already inside one on this handle) a read
// critical section and returns a ReadGuard onto the current read copy. The
// second return value is false only when the writer has already been
// dismantled (the "benign missing data" case from spec §7); any other misuse
// is a panic elsewhere, not a false here.
func (h *ReadHandle[T]) Enter() (*ReadGuard[T], bool) {
	if h.enters != 0 {
		t := h.inner.Load()
		h.enters++
		return &ReadGuard[T]{t: t, owner: h}, true
	}

	h.epoch.Add(1) // even -> odd: inside a critical section
	t := h.inner.Load()
	if t == nil {
		h.epoch.Add(1) // odd -> even: never actually entered
		return nil, false
	}
	h.enters = 1
	return &ReadGuard[T]{t: t, owner: h}, true
}

// exit implements guardOwner; it's how a ReadGuard reports that its
// reentrant borrow ended, independent of what T or U it was holding after a
// MapGuard/TryMapGuard projection.
func (h *ReadHandle[T]) exit() {
	h.enters--
	if h.enters == 0 {
		h.epoch.Add(1) // odd -> even: left the critical section
	}
}

// Clone creates a new ReadHandle sharing the same pointer cell and registry,
// registering a fresh epoch slot. The clone starts with no open guards.
func (h *ReadHandle[T]) Clone() *ReadHandle[T] {
	return newReadHandleFromPointer(h.inner, h.registry)
}

// Factory returns a ReadHandleFactory that can mint further ReadHandles
// without going back through h.
func (h *ReadHandle[T]) Factory() *ReadHandleFactory[T] {
	return &ReadHandleFactory[T]{inner: h.inner, registry: h.registry}
}

// WasDropped reports whether the writer side of the pair has been torn down.
func (h *ReadHandle[T]) WasDropped() bool {
	return h.inner.Load() == nil
}

// RawHandle returns the current read-side pointer without entering a
// critical section; ok is false once the writer has been dismantled.
func (h *ReadHandle[T]) RawHandle() (t *T, ok bool) {
	t = h.inner.Load()
	return t, t != nil
}

// Close unregisters the handle's epoch slot. It panics if a ReadGuard
// obtained from this handle is still open — holding a guard across handle
// close is a programmer error, not a recoverable condition (spec §7).
func (h *ReadHandle[T]) Close() {
	c := h.registry.unregister(h.slot)
	if c != h.epoch {
		panic(messageRegistryCorrupted)
	}
	if h.enters != 0 {
		panic(messageGuardOutstanding)
	}
}
