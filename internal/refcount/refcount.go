// Package refcount implements the atomic reference counter backing a shared
// allocation.
//
// A Count tracks how many live handles reference one allocation. The counter
// starts at 1 when the allocation is created, grows by 1 per clone, and
// shrinks by 1 per release; the 1→0 transition is the allocation's signal to
// destroy itself. The counter is the only state ever touched by more than one
// handle, so it is the only place that needs atomicity.
//
// Go's sync/atomic operations are sequentially consistent, which is stronger
// than the acquire/release pairing this bookkeeping strictly requires: the
// goroutine that observes the zero transition is guaranteed to see every
// in-place mutation made before any prior release.
package refcount

import "sync/atomic"

// Count is the live-reference counter of one shared allocation.
//
// The zero value is not ready for use; call Init before the allocation is
// published. Count must not be copied after first use.
type Count struct {
	n atomic.Int64
}

// Init sets the counter to 1, the state of a freshly constructed allocation
// with exactly one handle.
//
// Init must happen before the allocation is visible to any other goroutine.
func (c *Count) Init() {
	c.n.Store(1)
}

// Increment records a new live reference and returns the updated count.
//
// Incrementing a counter that already reached zero would resurrect an
// allocation whose destruction may already be underway; that is always a
// bookkeeping bug, so it panics.
func (c *Count) Increment() int64 {
	n := c.n.Add(1)
	if n < 2 {
		panic("refcount: increment after count reached zero")
	}
	return n
}

// Decrement records a dropped reference and returns the updated count.
//
// A return of 0 means the caller just dropped the last reference and now has
// exclusive responsibility for destroying the allocation. Decrementing below
// zero panics: it means some reference was released twice.
func (c *Count) Decrement() int64 {
	n := c.n.Add(-1)
	if n < 0 {
		panic("refcount: decrement below zero")
	}
	return n
}

// Load returns the current count.
//
// The value is advisory: another goroutine holding an aliasing reference can
// change it immediately after the load. The one load that is authoritative is
// a count of 1 observed by the only goroutine able to create new references
// to the allocation, which is exactly the unique-writer check the
// copy-on-write split relies on.
func (c *Count) Load() int64 {
	return c.n.Load()
}
