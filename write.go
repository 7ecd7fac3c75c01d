package leftright

import (
	"runtime"

	"go.uber.org/atomic"
)

const (
	messagePairDismantled  = "leftright: write handle has already been dismantled"
	messageOplogNotDrained = "leftright: operation log did not drain after two publishes"
	spinBudget             = 20
)

// WriteHandle is the sole writer over a pair. It owns the write copy and the
// operation log, and is the only thing that ever calls Publish. It embeds a
// ReadHandle of its own — used internally by Append/Extend before the first
// publish — so a WriteHandle can also Enter, Clone, and so on.
type WriteHandle[T any, O any, PT ptrAbsorb[T, O]] struct {
	*ReadHandle[T]

	wHandle    *T
	oplog      []O
	swapIndex  int
	lastEpochs []uint64

	first  bool
	second bool
	taken  bool
}

// Append enqueues a single operation.
func (w *WriteHandle[T, O, PT]) Append(op O) *WriteHandle[T, O, PT] {
	return w.Extend([]O{op})
}

// Extend enqueues a batch of operations. Before the first-ever Publish, both
// copies are still identical to the initial value, so operations are
// applied directly (via AbsorbSecond, against a transient read borrow)
// instead of being buffered — there's nothing yet to replay them against.
func (w *WriteHandle[T, O, PT]) Extend(ops []O) *WriteHandle[T, O, PT] {
	if w.first {
		guard, ok := w.ReadHandle.Enter()
		if !ok {
			panic(messagePairDismantled)
		}
		other := guard.Get()
		for _, op := range ops {
			PT(w.wHandle).AbsorbSecond(op, other)
		}
		guard.Close()
	} else {
		w.oplog = append(w.oplog, ops...)
	}
	return w
}

// HasPendingOperations reports whether there are operations appended since
// the last publish that haven't yet been applied anywhere.
func (w *WriteHandle[T, O, PT]) HasPendingOperations() bool {
	return w.swapIndex < len(w.oplog)
}

// Flush publishes only if there are pending operations.
func (w *WriteHandle[T, O, PT]) Flush() {
	if w.HasPendingOperations() {
		w.Publish()
	}
}

// RawWriteHandle gives read-only-by-convention access to the pointer of the
// buffered (not-yet-published) write copy.
func (w *WriteHandle[T, O, PT]) RawWriteHandle() *T {
	return w.wHandle
}

// wait blocks until no reader that was inside a critical section as of
// w.lastEpochs (the snapshot taken at the end of the previous publish) is
// still inside it. Must be called with the registry locked. See spec §5.
func (w *WriteHandle[T, O, PT]) wait() {
	type slotEpoch struct {
		slot    int
		counter *atomic.Uint64
	}

	registry := w.ReadHandle.registry
	if n := registry.capacity(); len(w.lastEpochs) < n {
		grown := make([]uint64, n)
		copy(grown, w.lastEpochs)
		w.lastEpochs = grown
	}

	var slots []slotEpoch
	registry.each(func(slot int, counter *atomic.Uint64) {
		slots = append(slots, slotEpoch{slot: slot, counter: counter})
	})

	iter := 0
	starti := 0
retry:
	for {
		for i := starti; i < len(slots); i++ {
			se := slots[i]
			if w.lastEpochs[se.slot]%2 == 0 {
				// quiescent at snapshot time, trivially safe.
				continue
			}
			now := se.counter.Load()
			if now != w.lastEpochs[se.slot] {
				// the reader moved on (exited, or exited and re-entered).
				continue
			}
			starti = i
			if iter != spinBudget {
				iter++
			} else {
				runtime.Gosched()
			}
			continue retry
		}
		break
	}
}

// Publish is the core algorithm described in spec §4.G: wait for stragglers,
// apply the buffered operations to the write copy, swap it in as the new
// read copy, and snapshot reader epochs for the next call's wait(). It
// returns w so calls can be chained, matching the original's &mut self
// return.
func (w *WriteHandle[T, O, PT]) Publish() *WriteHandle[T, O, PT] {
	registry := w.ReadHandle.registry
	registry.Lock()
	defer registry.Unlock()

	w.wait()

	if !w.first {
		wPtr := PT(w.wHandle)
		rPtr := w.ReadHandle.inner.Load()

		if w.second {
			wPtr.SyncWith(rPtr)
			w.second = false
		}

		if w.swapIndex != 0 {
			for _, op := range w.oplog[:w.swapIndex] {
				wPtr.AbsorbSecond(op, rPtr)
			}
			w.oplog = append(w.oplog[:0], w.oplog[w.swapIndex:]...)
		}

		for i := range w.oplog {
			wPtr.AbsorbFirst(&w.oplog[i], rPtr)
		}
		w.swapIndex = len(w.oplog)
	} else {
		w.first = false
	}

	old := w.ReadHandle.inner.Swap(w.wHandle)
	w.wHandle = old

	registry.each(func(slot int, counter *atomic.Uint64) {
		w.lastEpochs[slot] = counter.Load()
	})

	return w
}

func (w *WriteHandle[T, O, PT]) takeInner() (*Taken[T, O, PT], bool) {
	if w.taken {
		return nil, false
	}
	w.taken = true

	if w.first || len(w.oplog) != 0 {
		w.Publish()
	}
	if len(w.oplog) != 0 {
		w.Publish()
	}
	if len(w.oplog) != 0 {
		panic(messageOplogNotDrained)
	}

	rPtr := w.ReadHandle.inner.Swap(nil)

	registry := w.ReadHandle.registry
	registry.Lock()
	w.wait()
	registry.Unlock()

	if d, ok := any(PT(w.wHandle)).(Disposer); ok {
		d.DropFirst()
	}

	return &Taken[T, O, PT]{inner: rPtr}, true
}

// Take runs the terminal drain (see spec §4.G') and yields the surviving
// copy. It panics if called more than once (directly or via Close).
func (w *WriteHandle[T, O, PT]) Take() *Taken[T, O, PT] {
	taken, ok := w.takeInner()
	if !ok {
		panic(messagePairDismantled)
	}
	return taken
}

// Close runs the terminal drain if it hasn't already happened and disposes
// of the surviving copy. Idempotent — the Go substitute for the original's
// Drop impl, since Go has no destructors. Callers who want the surviving
// copy should call Take instead of Close.
func (w *WriteHandle[T, O, PT]) Close() {
	if taken, ok := w.takeInner(); ok {
		taken.Close()
	}
}
