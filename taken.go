package leftright

// Taken is the terminal, surviving copy of a pair, yielded once the writer
// has been dismantled (spec §4.G'). Its contents have been AbsorbSecond'd
// for every operation ever appended, so disposal routes through
// Disposer.DropSecond if the container implements it.
type Taken[T any, O any, PT ptrAbsorb[T, O]] struct {
	inner *T
}

// Get returns the surviving value. Calling it after Close or IntoPointer
// returns nil.
func (t *Taken[T, O, PT]) Get() *T {
	return t.inner
}

// Close disposes of the surviving copy via Disposer.DropSecond, if the
// container implements it. Idempotent.
func (t *Taken[T, O, PT]) Close() {
	if t.inner == nil {
		return
	}
	inner := t.inner
	t.inner = nil
	if d, ok := any(PT(inner)).(Disposer); ok {
		d.DropSecond()
	}
}

// IntoPointer hands the raw surviving pointer to the caller, who takes over
// responsibility for its disposal (including calling DropSecond themselves
// if that matters for their T). This is the Go stand-in for the original's
// `unsafe fn into_box` — Go has no unsafe-fn marker, so the contract is
// enforced only by this doc comment.
func (t *Taken[T, O, PT]) IntoPointer() *T {
	p := t.inner
	t.inner = nil
	return p
}
