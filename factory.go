package leftright

import "go.uber.org/atomic"

// ReadHandleFactory is a detachable maker of ReadHandles: it can mint fresh
// handles without contacting any existing one, so it can be handed to a
// goroutine pool ahead of time and each worker calls Handle() for its own.
type ReadHandleFactory[T any] struct {
	inner    *atomic.Pointer[T]
	registry *epochRegistry
}

// Handle mints a new ReadHandle sharing this factory's pointer cell and
// registry, registering a fresh epoch slot.
func (f *ReadHandleFactory[T]) Handle() *ReadHandle[T] {
	return newReadHandleFromPointer(f.inner, f.registry)
}

// Clone returns an independent factory over the same pair.
func (f *ReadHandleFactory[T]) Clone() *ReadHandleFactory[T] {
	return &ReadHandleFactory[T]{inner: f.inner, registry: f.registry}
}
