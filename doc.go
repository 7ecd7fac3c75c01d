// Package leftright implements a concurrency primitive for many lock-free
// readers and a single writer.
//
// The writer holds two physical copies of a value T. Readers always see one
// of the copies (the "read" copy) through a wait-free ReadHandle; the writer
// privately mutates the other copy (the "write" copy) by buffering an
// operation log and applying it twice, once to each copy, so that the two
// copies never drift apart for longer than the span of one publish.
//
// Callers don't get T for free: they describe how their T absorbs an
// operation O by implementing Absorb on *T, then get a WriteHandle/ReadHandle
// pair from New or NewFromEmpty. The writer appends operations with Append
// or Extend and exposes them to readers by calling Publish (or Flush, which
// only publishes if there's something pending). A reader calls Enter to get
// a ReadGuard onto the current read copy and must call Close on it when
// done. Publish first blocks until every reader that was inside a critical
// section at the previous publish's swap has exited, and no longer; a reader
// still inside at this publish's swap holds up the next Publish instead.
//
// This package has no opinion about what T is — a counter, a deque, a map —
// only about the protocol by which readers and the writer coexist. See
// aliasing.Aliased for a companion type useful when elements are physically
// shared between both copies and need single-owner disposal semantics.
package leftright
