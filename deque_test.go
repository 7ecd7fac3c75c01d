package leftright_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benhoyt/leftright"
	"github.com/benhoyt/leftright/aliasing"
)

// This file is a direct translation of the original crate's tests/deque.rs:
// a deque whose elements are reference-counted and shared, by value, between
// both copies via aliasing.Aliased — exactly the out-of-scope-for-the-
// library, in-scope-for-tests container spec.md §1 describes, and the
// scenario spec.md §8 table row 7 walks through.

type valueRegistry struct {
	live int
}

func (r *valueRegistry) adjust(delta int) {
	r.live += delta
	if r.live < 0 {
		panic("leftright_test: live value count went negative")
	}
}

type trackedValue struct {
	v int32
	r *valueRegistry
}

func newTrackedValue(v int32, r *valueRegistry) trackedValue {
	r.adjust(1)
	return trackedValue{v: v, r: r}
}

// Close is trackedValue's disposal hook: it's what aliasing.Aliased calls
// when the owning (KeepsDrop) alias is closed.
func (v *trackedValue) Close() {
	v.r.adjust(-1)
}

type aliasedValue = aliasing.Aliased[trackedValue, aliasing.NoDrop]

type deque struct {
	items []aliasedValue
}

type deqOp struct {
	push   *aliasedValue
	isPop  bool
}

func pushOp(v aliasedValue) deqOp { return deqOp{push: &v} }
func popOp() deqOp                { return deqOp{isPop: true} }

func (d *deque) AbsorbFirst(op *deqOp, _ *deque) {
	if op.isPop {
		if len(d.items) > 0 {
			d.items = d.items[1:]
		}
		return
	}
	alias := op.push.Alias()
	d.items = append(d.items, alias)
}

func (d *deque) AbsorbSecond(op deqOp, other *deque) {
	if op.isPop {
		// The op has now been applied to both physical copies: this is the
		// last time the popped element is reachable anywhere, so this (and
		// only this) application disposes of it. AbsorbFirst, applied to the
		// other copy first, must not dispose — that copy's sibling alias is
		// still live in the not-yet-caught-up copy at that point.
		if len(d.items) > 0 {
			owned := aliasing.ChangeDrop[trackedValue, aliasing.KeepsDrop](d.items[0])
			owned.Close()
			d.items = d.items[1:]
		}
		return
	}
	owned := aliasing.ChangeDrop[trackedValue, aliasing.NoDrop](*op.push)
	d.items = append(d.items, owned)
	_ = other
}

func (d *deque) SyncWith(first *deque) {
	if len(d.items) != 0 {
		panic("leftright_test: sync_with called on a non-empty destination")
	}
	for _, v := range first.items {
		d.items = append(d.items, v.Alias())
	}
}

// DropFirst is a no-op: the first-applied copy's elements are aliases of the
// second-applied copy's elements, which own disposal.
func (d *deque) DropFirst() {}

func (d *deque) DropSecond() {
	for i := range d.items {
		owned := aliasing.ChangeDrop[trackedValue, aliasing.KeepsDrop](d.items[i])
		owned.Close()
	}
}

func values(d *deque) []int32 {
	out := make([]int32, len(d.items))
	for i := range d.items {
		out[i] = d.items[i].Get().v
	}
	return out
}

func TestDequeSharedElementDisposal(t *testing.T) {
	registry := &valueRegistry{}
	mkval := func(v int32) aliasedValue {
		return aliasing.From[trackedValue, aliasing.NoDrop](newTrackedValue(v, registry))
	}

	w, r := leftright.New[deque, deqOp, *deque]()

	w.Append(pushOp(mkval(1)))
	w.Append(pushOp(mkval(2)))
	w.Append(pushOp(mkval(3)))
	w.Publish()

	require.Equal(t, 3, registry.live)
	requireVisible(t, r, []int32{1, 2, 3})

	w.Append(pushOp(mkval(4)))
	w.Publish()
	require.Equal(t, 4, registry.live)
	requireVisible(t, r, []int32{1, 2, 3, 4})

	w.Append(popOp())
	w.Append(popOp())
	w.Publish()
	require.Equal(t, 4, registry.live)
	requireVisible(t, r, []int32{3, 4})

	w.Append(popOp())
	w.Publish()
	require.Equal(t, 2, registry.live)
	requireVisible(t, r, []int32{4})

	r.Close()
	w.Close()
	require.Equal(t, 0, registry.live)
}

func requireVisible(t *testing.T, r *leftright.ReadHandle[deque], want []int32) {
	t.Helper()
	g, ok := r.Enter()
	require.True(t, ok)
	defer g.Close()
	require.Equal(t, want, values(g.Get()))
}
