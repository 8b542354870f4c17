// Package arcow provides the public API for the Atomically Reference-counted
// Copy-On-Write handle.
//
// See doc.go for detailed documentation and examples.
package arcow

import "github.com/kolkov/arcow/internal/refcount"

// Cloner is the one constraint a wrapped type must satisfy: it can duplicate
// itself on demand. The duplicate must be an independent value that is safe
// to mutate without affecting the original; whether that duplication is deep
// or shallow is the implementor's choice. The handle invokes Clone exactly
// once per split and never otherwise.
type Cloner[T any] interface {
	Clone() T
}

// Destroyer is optionally implemented by wrapped types whose destruction
// must be observable (closing a file, returning a buffer to a pool, ticking
// a live-instance gauge in tests). When the last handle referencing an
// allocation is released, the handle calls Destroy on the contained value
// exactly once, on the goroutine that performed the final release.
//
// The check is made against *T, so Destroy may use either receiver kind.
type Destroyer interface {
	Destroy()
}

// shared is one heap allocation: an atomic live-reference count and exactly
// one instance of the wrapped value. It is created with count 1, shared
// among every handle cloned from the first, and destroyed on the 1→0 count
// transition. Nothing outside this package ever sees a shared directly; its
// identity (the pointer) is what a handle repoints during a split.
type shared[T Cloner[T]] struct {
	refs  refcount.Count
	value T
}

// newShared allocates a fresh shared allocation holding value, count 1.
func newShared[T Cloner[T]](value T) *shared[T] {
	s := &shared[T]{value: value}
	s.refs.Init()
	return s
}

// release drops one reference to the allocation. The goroutine that observes
// the zero transition destroys the value; Go's collector reclaims the block
// itself once the last pointer is gone.
func (s *shared[T]) release() {
	if s.refs.Decrement() == 0 {
		if d, ok := any(&s.value).(Destroyer); ok {
			d.Destroy()
		}
	}
}

// Handle is an atomically reference-counted copy-on-write pointer to a value
// of type T.
//
// A Handle behaves like a cheaply-copyable T: Clone is one atomic increment
// no matter how large T is, reading never copies, and mutation is in place
// whenever the handle is the only reference to its allocation. Only when a
// shared allocation is written does the handle pay for a copy — it "splits",
// duplicating the value into a private allocation and leaving every other
// handle untouched. The cost of divergence is paid exactly once, by
// whichever handle writes first after a share.
//
// A Handle is owned by one goroutine at a time. Clones may be handed freely
// to other goroutines; that is the supported way to share the value. Calling
// methods of a single Handle from several goroutines concurrently is not
// (the count bookkeeping itself is race-free, but "observe count 1, then
// write in place" is only sound when no aliasing clone can be minted
// mid-write, and clones are minted through handles).
//
// Handles must not be copied as struct values; every copy must go through
// Clone so the count stays honest. New returns a *Handle to keep the zero,
// unusable value out of reach.
type Handle[T Cloner[T]] struct {
	// s is the allocation this handle currently references. A split
	// repoints it; Release nils it, and every operation on a nil-s
	// handle panics.
	s *shared[T]

	// writing is set while a Mut guard obtained from this handle is
	// outstanding. It is deliberately not atomic: a handle is
	// single-owner, so the flag is only ever touched by the owning
	// goroutine. It exists to catch the one misuse a borrow checker
	// would reject at compile time — cloning or re-borrowing a handle
	// whose mutable view is still live.
	writing bool
}

// New wraps value in a fresh Handle with a private allocation, count 1.
//
// The only failure mode is allocation exhaustion, which is fatal in Go's
// runtime rather than a recoverable error.
func New[T Cloner[T]](value T) *Handle[T] {
	return &Handle[T]{s: newShared(value)}
}

// Clone returns a new Handle referencing the same allocation, incrementing
// its live count by one. No copy of T occurs; this is the operation that
// makes holding many logical copies of a large value cheap.
//
// Clone panics if the handle has been released, or if a Mut guard obtained
// from this handle is still outstanding (the count-1 exclusivity the guard
// relies on would otherwise be broken silently).
func (h *Handle[T]) Clone() *Handle[T] {
	h.live("Clone")
	if h.writing {
		panic("arcow: Clone while a mutable view is outstanding")
	}
	h.s.refs.Increment()
	return &Handle[T]{s: h.s}
}

// Value returns a read-only view into the wrapped value.
//
// There is no count check and no copy; the pointer is valid until the next
// mutating operation or Release on this handle. Callers must not write
// through it — concurrent readers of a shared allocation are only safe
// because none of them mutate. All writing goes through Mutable or Update.
func (h *Handle[T]) Value() *T {
	h.live("Value")
	return &h.s.value
}

// Refs returns the number of live handles referencing this handle's current
// allocation. 1 means the next write will be in place; more than 1 means it
// will split.
//
// The value is advisory only: a clone of an aliasing handle on another
// goroutine can change it the instant after Refs returns. It is a
// performance hint, not a synchronization primitive.
func (h *Handle[T]) Refs() int64 {
	h.live("Refs")
	return h.s.refs.Load()
}

// Release drops this handle's reference to its allocation and makes the
// handle unusable; any further method call panics. If this was the last
// reference, the wrapped value's Destroy hook (if *T implements Destroyer)
// runs before Release returns.
//
// Every handle must be released exactly once. Releasing twice panics, as
// does releasing while a Mut guard is outstanding.
func (h *Handle[T]) Release() {
	h.live("Release")
	if h.writing {
		panic("arcow: Release while a mutable view is outstanding")
	}
	s := h.s
	h.s = nil
	s.release()
}

// live panics if the handle has already been released.
func (h *Handle[T]) live(op string) {
	if h.s == nil {
		panic("arcow: " + op + " on a released handle")
	}
}
