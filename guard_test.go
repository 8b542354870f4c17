package arcow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestMutableInPlaceWhenUnique verifies the guard writes straight into a
// private allocation without splitting.
func TestMutableInPlaceWhenUnique(t *testing.T) {
	t.Parallel()

	h := New(boxed{v: 1})
	alloc := h.s

	m := h.Mutable()
	m.Value().v = 2
	m.Release()

	require.Same(t, alloc, h.s)
	require.Equal(t, 2, h.Value().v)
}

// TestMutableSplitsWhenShared verifies guard acquisition is where the split
// happens: by the time the caller has the mutable view, the allocation is
// already private.
func TestMutableSplitsWhenShared(t *testing.T) {
	t.Parallel()

	a := New(boxed{v: 1})
	b := a.Clone()

	m := b.Mutable()
	require.Equal(t, int64(1), b.Refs())
	require.NotSame(t, a.s, b.s)
	m.Value().v = 2
	m.Release()

	require.Equal(t, 1, a.Value().v)
	require.Equal(t, 2, b.Value().v)
}

// TestCloneWhileBorrowedPanics verifies the guard's reason to exist: a clone
// minted while a mutable view is live would break count-1 exclusivity, so it
// panics instead.
func TestCloneWhileBorrowedPanics(t *testing.T) {
	t.Parallel()

	h := New(boxed{v: 1})
	m := h.Mutable()
	defer m.Release()

	require.PanicsWithValue(t, "arcow: Clone while a mutable view is outstanding", func() {
		h.Clone()
	})
}

// TestReleaseWhileBorrowedPanics verifies a handle cannot drop its reference
// out from under its own live mutable view.
func TestReleaseWhileBorrowedPanics(t *testing.T) {
	t.Parallel()

	h := New(boxed{v: 1})
	m := h.Mutable()
	defer m.Release()

	require.PanicsWithValue(t, "arcow: Release while a mutable view is outstanding", func() {
		h.Release()
	})
}

// TestDoubleMutablePanics verifies only one guard per handle can be
// outstanding.
func TestDoubleMutablePanics(t *testing.T) {
	t.Parallel()

	h := New(boxed{v: 1})
	m := h.Mutable()
	defer m.Release()

	require.PanicsWithValue(t, "arcow: Mutable while a mutable view is outstanding", func() {
		h.Mutable()
	})
}

// TestGuardReleaseRestoresHandle verifies the handle is fully usable again
// once the guard is released, and that releasing twice is harmless.
func TestGuardReleaseRestoresHandle(t *testing.T) {
	t.Parallel()

	h := New(boxed{v: 1})

	m := h.Mutable()
	m.Value().v = 2
	m.Release()
	m.Release() // idempotent

	c := h.Clone()
	require.Equal(t, int64(2), h.Refs())
	require.Equal(t, 2, c.Value().v)

	// A later guard cycle works as well.
	h.Update(func(x *boxed) { x.v = 3 })
	require.Equal(t, 3, h.Value().v)
	require.Equal(t, 2, c.Value().v)
}

// TestGuardValueAfterReleasePanics verifies the mutable view cannot be
// re-fetched once the guard has ended.
func TestGuardValueAfterReleasePanics(t *testing.T) {
	t.Parallel()

	h := New(boxed{v: 1})
	m := h.Mutable()
	m.Release()

	require.PanicsWithValue(t, "arcow: Value on a released mutable view", func() {
		m.Value()
	})
}

// TestUpdateReleasesOnPanic verifies Update ends the guard even when the
// mutation function panics, so the handle is not wedged afterwards.
func TestUpdateReleasesOnPanic(t *testing.T) {
	t.Parallel()

	h := New(boxed{v: 1})

	require.Panics(t, func() {
		h.Update(func(x *boxed) {
			panic("mutation failed")
		})
	})

	// The guard was released; normal operation resumes.
	require.NotPanics(t, func() { h.Clone().Release() })
	h.Update(func(x *boxed) { x.v = 5 })
	require.Equal(t, 5, h.Value().v)
}

// TestUpdateSequence verifies repeated Update calls alternate correctly
// between the split and in-place paths as clones come and go.
func TestUpdateSequence(t *testing.T) {
	t.Parallel()

	h := New(boxed{v: 0})

	// Unique: every update is in place on the same allocation.
	alloc := h.s
	h.Update(func(x *boxed) { x.v++ })
	h.Update(func(x *boxed) { x.v++ })
	require.Same(t, alloc, h.s)
	require.Equal(t, 2, h.Value().v)

	// Shared: the first update splits, the second is in place again.
	c := h.Clone()
	h.Update(func(x *boxed) { x.v++ })
	split := h.s
	require.NotSame(t, alloc, split)
	h.Update(func(x *boxed) { x.v++ })
	require.Same(t, split, h.s)

	require.Equal(t, 4, h.Value().v)
	require.Equal(t, 2, c.Value().v)
}
