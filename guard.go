package arcow

// Mut is the exclusive mutable-access guard of a Handle.
//
// Go has no borrow checker to prove "no clone happens while a mutable
// reference is live", so the right to write is reified as a value: Mutable
// hands out one Mut at a time per handle, the Mut is the only way to write
// through the handle, and Clone/Release panic while it is outstanding. The
// pattern a caller follows is acquire, write, release:
//
//	m := h.Mutable()
//	m.Value().Cells[0] = 1
//	m.Release()
//
// or, scoped, via [Handle.Update].
type Mut[T Cloner[T]] struct {
	h    *Handle[T]
	done bool
}

// Mutable acquires the handle's write guard, splitting first if the
// allocation is shared.
//
// The split path duplicates the wrapped value via Clone, moves this handle
// onto a fresh private allocation (count 1), and drops the handle's
// reference to the old allocation — exactly as if this handle had been
// released and a new one constructed from the duplicate. Other handles still
// referencing the old allocation see nothing but its count shrinking by one.
// If the allocation was already private, there is no copy and no allocation;
// the guard writes in place.
//
// Mutable panics if the handle has been released or if a previous guard from
// this handle has not been released yet.
func (h *Handle[T]) Mutable() *Mut[T] {
	h.live("Mutable")
	if h.writing {
		panic("arcow: Mutable while a mutable view is outstanding")
	}
	if h.s.refs.Load() > 1 {
		// Shared: split. The load is trustworthy here because only this
		// goroutine can mint clones from this handle, so the count can
		// shrink concurrently but never grow past what we observed.
		old := h.s
		h.s = newShared(old.value.Clone())
		old.release()
	}
	h.writing = true
	return &Mut[T]{h: h}
}

// Value returns the mutable view into the (now private) allocation. The
// pointer is valid until Release is called on the guard; using it afterwards
// is the misuse Release exists to fence off, and the guard itself panics if
// asked for the view again once released.
func (m *Mut[T]) Value() *T {
	if m.done {
		panic("arcow: Value on a released mutable view")
	}
	return &m.h.s.value
}

// Release ends the exclusive write access, making Clone and Release on the
// underlying handle legal again. Releasing a guard twice is a no-op.
func (m *Mut[T]) Release() {
	if m.done {
		return
	}
	m.done = true
	m.h.writing = false
}

// Update runs fn with exclusive mutable access to the wrapped value,
// splitting first when the allocation is shared. The guard is released when
// fn returns, panic included, so Update is the recommended way to mutate:
//
//	h.Update(func(w *World) {
//		w.Tick++
//	})
func (h *Handle[T]) Update(fn func(*T)) {
	m := h.Mutable()
	defer m.Release()
	fn(m.Value())
}
