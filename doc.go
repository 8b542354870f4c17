// Package arcow implements an atomically reference-counted pointer with
// copy-on-write mutation: a [Handle] acts like a cheaply-copyable value of
// its wrapped type, even when that type is expensive to copy.
//
// # Quick Start
//
// Wrap a value, clone the handle freely, mutate through any clone:
//
//	type Grid struct{ Cells []byte }
//
//	func (g Grid) Clone() Grid {
//		return Grid{Cells: append([]byte(nil), g.Cells...)}
//	}
//
//	a := arcow.New(Grid{Cells: make([]byte, 64<<10)})
//	b := a.Clone()            // one atomic increment, no 64KiB copy
//
//	b.Update(func(g *Grid) {  // b splits off a private copy here
//		g.Cells[0] = 1
//	})
//
//	_ = a.Value().Cells[0]    // still 0: a's view is untouched
//
//	b.Release()
//	a.Release()
//
// # When To Use It
//
// Say you are implementing a game server. You keep many iterations of game
// state — for saving, client prediction, rollback — and most of each
// iteration is trivial to copy. But the world map is 64KiB, and copying it
// into every iteration wastes most of your CPU even though fewer than 1% of
// iterations ever change it.
//
// Sharing the map behind a plain pointer fixes the copying and breaks
// mutation: the iterations no longer have private maps to edit. A borrowing
// copy-on-write type does not fit either, because there is no long-lived
// master copy for everyone to borrow from — old iterations get pruned,
// speculative ones get abandoned, no particular iteration can be trusted to
// outlive the rest. And copying on every change is wasteful in the other
// direction: a single-iteration configuration would copy the map per edit
// despite never having a second reference.
//
// A Handle resolves all three. Every iteration holds its own handle to the
// map. Cloning a handle is one atomic operation. Reading never copies. The
// first write through a handle whose allocation is shared "splits": the map
// is duplicated once, into a private allocation, and only that handle
// repoints to it. A handle whose allocation is private writes in place, free
// of charge, no matter how many times it mutates.
//
// Cloning only beats copying if the wrapped value is big and a meaningful
// share of clones are consumed without mutation. For small values, copy the
// value.
//
// # API Overview
//
//   - Construction: [New]
//   - Sharing: [Handle.Clone], [Handle.Refs]
//   - Reading: [Handle.Value]
//   - Writing: [Handle.Update], [Handle.Mutable], [Mut]
//   - Lifetime: [Handle.Release], [Destroyer]
//
// # Sharing Across Goroutines
//
// Clones of a handle may be sent to any number of goroutines; the count is
// maintained atomically and the goroutine releasing the last reference is
// guaranteed to observe every mutation made before the other references
// were dropped.
//
// Each individual handle stays owned by one goroutine. That ownership is
// what makes the unique-writer check sound: when a handle observes a count
// of 1, no other reference exists and none can appear, because new
// references are only minted by cloning a handle and the only handle is
// busy writing. Two goroutines sharing one *Handle (rather than each
// holding its own clone) would break that reasoning, and the primitive does
// not serialize it for you.
//
// # What It Is Not
//
// Mutations never propagate between handles — after a split the two sides
// are independent values. If you want writes through one reference to be
// seen by the others, you want shared mutable state behind a lock, not
// copy-on-write. There are no weak references, and the wrapped type must be
// duplicable ([Cloner]); both exclusions keep the handle to one machine
// word of bookkeeping per allocation.
package arcow
