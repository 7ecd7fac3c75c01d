package leftright

// Absorb describes how a container T ingests an operation O. It's
// implemented on *T (not T), because every call needs to mutate the receiver
// in place while reading its twin copy.
//
// Each operation travels through exactly two calls over the writer's
// lifetime: AbsorbFirst applies it to whichever copy the writer is currently
// holding, with read access to the other (already-published) copy, and may
// mutate the operation itself (e.g. taking ownership of something it will
// need again); AbsorbSecond finalizes it against the copy that's about to
// become the new read side, consuming the operation. A type that doesn't
// need the two-phase split can implement AbsorbSecond by calling
// DefaultAbsorbSecond to get the common "just call AbsorbFirst again"
// behavior the original crate defaults to.
type Absorb[T any, O any] interface {
	AbsorbFirst(op *O, other *T)
	AbsorbSecond(op O, other *T)
	SyncWith(first *T)
}

// ptrAbsorb constrains the third type parameter WriteHandle/Taken carry: PT
// must both be the pointer type of T and implement Absorb[T, O] on it. This
// is the same "pointer-implements-interface" shape already used in the
// retrieved pack's generic object pool (PtrRef[T any] interface { *T;
// Referenceable }) — it's what lets WriteHandle store a plain *T while still
// calling Absorb methods on it generically.
type ptrAbsorb[T any, O any] interface {
	*T
	Absorb[T, O]
}

// Disposer is implemented by a container that needs to distinguish disposal
// of a copy whose operations were only AbsorbFirst'd (DropFirst) from one
// that was also AbsorbSecond'd (DropSecond) — see Taken and the terminal
// drain in write.go. Implementing it is optional; containers that don't need
// custom disposal (most of them, since Go's GC reclaims memory either way)
// can leave it unimplemented and get ordinary garbage collection.
type Disposer interface {
	DropFirst()
	DropSecond()
}

// DefaultAbsorbSecond lets a T whose AbsorbSecond has no special finalization
// step implement it as a one-liner that re-runs AbsorbFirst, matching the
// default method body Absorb<O> provides in the original crate:
//
//	func (c *Counter) AbsorbSecond(op CounterOp, other *Counter) {
//		leftright.DefaultAbsorbSecond(c.AbsorbFirst, op, other)
//	}
func DefaultAbsorbSecond[T any, O any](absorbFirst func(op *O, other *T), op O, other *T) {
	absorbFirst(&op, other)
}

func newPair[T any, O any, PT ptrAbsorb[T, O]](readInit, writeInit T) (*WriteHandle[T, O, PT], *ReadHandle[T]) {
	registry := newEpochRegistry()
	r := newReadHandle(readInit, registry)
	wh := new(T)
	*wh = writeInit
	w := &WriteHandle[T, O, PT]{
		ReadHandle: r.Clone(),
		wHandle:    wh,
		first:      true,
		second:     true,
	}
	return w, r
}

// New returns a WriteHandle/ReadHandle pair over two zero-valued copies of T
// — the Go stand-in for the original's `T: Default` bound, since Go has no
// Default trait.
func New[T any, O any, PT ptrAbsorb[T, O]]() (*WriteHandle[T, O, PT], *ReadHandle[T]) {
	var zero T
	return newPair[T, O, PT](zero, zero)
}

// NewFromEmpty returns a pair seeded with t on the read side and clone(t) on
// the write side. clone stands in for the original's `T: Clone` bound —
// there's no generic Clone in Go, so the caller supplies one, the same way
// the pack's generic object pool takes an explicit factory func instead of
// relying on a trait.
func NewFromEmpty[T any, O any, PT ptrAbsorb[T, O]](t T, clone func(T) T) (*WriteHandle[T, O, PT], *ReadHandle[T]) {
	return newPair[T, O, PT](t, clone(t))
}
