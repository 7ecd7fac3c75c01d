package leftright

import (
	"sync"

	"go.uber.org/atomic"
)

// epochRegistry is the shared table of per-reader epoch counters described
// in spec §3/§4.B. Slot ids are stable for the lifetime of a registration and
// reused after the registration is removed, the same contract Rust's `slab`
// crate gives the original implementation.
//
// Readers touch the registry only at construction and destruction (register/
// unregister, each locking internally). The writer locks it for the whole of
// wait()+publish()'s apply phase, so register/unregister block until the
// writer is done — exactly the contention spec §5 accepts ("the writer may
// block... acquiring the registry lock").
type epochRegistry struct {
	mu    sync.Mutex
	slots []*atomic.Uint64
	free  []int
}

func newEpochRegistry() *epochRegistry {
	return &epochRegistry{}
}

// register inserts counter and returns its stable slot id.
func (r *epochRegistry) register(counter *atomic.Uint64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n := len(r.free); n > 0 {
		id := r.free[n-1]
		r.free = r.free[:n-1]
		r.slots[id] = counter
		return id
	}
	r.slots = append(r.slots, counter)
	return len(r.slots) - 1
}

// unregister removes and returns the counter at id.
func (r *epochRegistry) unregister(id int) *atomic.Uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.slots[id]
	r.slots[id] = nil
	r.free = append(r.free, id)
	return c
}

// Lock/Unlock let the writer hold the registry for the duration of a publish:
// wait() reads every counter's current value, and the post-swap snapshot
// needs no other registration to land in between.
func (r *epochRegistry) Lock()   { r.mu.Lock() }
func (r *epochRegistry) Unlock() { r.mu.Unlock() }

// each calls fn for every live slot. Must be called with the lock held.
func (r *epochRegistry) each(fn func(slot int, counter *atomic.Uint64)) {
	for slot, c := range r.slots {
		if c != nil {
			fn(slot, c)
		}
	}
}

// capacity is an upper bound on currently-used slot ids, used to size
// last_epochs. Must be called with the lock held.
func (r *epochRegistry) capacity() int {
	return len(r.slots)
}
