package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexkit/layout/internal/store"
)

func newTestTree(t *testing.T, nMax int) (*store.Store, store.Handle) {
	t.Helper()
	s := store.New(nMax)
	root, err := s.Add(store.Nil, store.Default())
	require.NoError(t, err)
	return s, root
}

// P6 — handle stability across identical frame structure.
func TestReconcile_HandleStabilityAcrossFrames(t *testing.T) {
	s, root := newTestTree(t, 16)
	r := New(root, 16)

	frame := func() (a, b, c store.Handle) {
		r.BeginFrame()
		a = r.Widget(s, "A", store.Default())
		b = r.Widget(s, "B", store.Default())
		c = r.Widget(s, "C", store.Default())
		r.EndFrame(s)
		return
	}

	a1, b1, c1 := frame()
	a2, b2, c2 := frame()

	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)
	assert.Equal(t, c1, c2)
}

// S5 — reconciliation removes orphans.
func TestReconcile_SweepsOrphans(t *testing.T) {
	s, root := newTestTree(t, 16)
	r := New(root, 16)

	r.BeginFrame()
	r.Widget(s, "A", store.Default())
	b := r.Widget(s, "B", store.Default())
	r.Widget(s, "C", store.Default())
	r.EndFrame(s)

	assert.True(t, s.Live(b))

	r.BeginFrame()
	r.Widget(s, "A", store.Default())
	r.Widget(s, "C", store.Default())
	r.EndFrame(s)

	assert.False(t, s.Live(b), "B's handle must be removed once it is no longer seen")
}

func TestReconcile_OrphanHandleIsRecycled(t *testing.T) {
	s, root := newTestTree(t, 16)
	r := New(root, 16)

	r.BeginFrame()
	b := r.Widget(s, "B", store.Default())
	r.EndFrame(s)

	r.BeginFrame()
	r.EndFrame(s)

	r.BeginFrame()
	newHandle := r.Widget(s, "D", store.Default())
	r.EndFrame(s)

	assert.Equal(t, b, newHandle, "a freed slot is recycled by the next Add")
}

func TestReconcile_ScopeChangeDerivesNewNode(t *testing.T) {
	s, root := newTestTree(t, 16)
	r := New(root, 16)

	r.BeginFrame()
	w := r.Widget(s, "moved", store.Default())
	r.EndFrame(s)
	assert.Equal(t, root, s.Parent(w))

	r.BeginFrame()
	scope := r.BeginContainer(s, "scope", store.Default())
	moved := r.Widget(s, "moved", store.Default())
	r.EndContainer()
	r.EndFrame(s)

	assert.NotEqual(t, w, moved, "the scope is folded into the id, so the same label under a new scope is a different node")
	assert.False(t, s.Live(w), "the node left under the old scope is swept as unseen")
	assert.Equal(t, scope, s.Parent(moved))
}

func TestReconcile_StyleChangeAppliesSetStyle(t *testing.T) {
	s, root := newTestTree(t, 16)
	r := New(root, 16)

	r.BeginFrame()
	w := r.Widget(s, "w", fixedWidthStyle(10))
	r.EndFrame(s)
	s.ClearDirty(w)

	r.BeginFrame()
	r.Widget(s, "w", fixedWidthStyle(20))
	r.EndFrame(s)

	assert.Equal(t, float32(20), s.Layout(w).Width)
	assert.Equal(t, uint64(2), s.StyleVersion(w))
}

func TestReconcile_IDWithIndexDistinguishesRepeats(t *testing.T) {
	assert.Equal(t, "row", IDWithIndex("row", 0))
	assert.NotEqual(t, IDWithIndex("row", 1), IDWithIndex("row", 2))
	assert.NotEqual(t, IDWithIndex("row", 0), IDWithIndex("row", 1))
}

func TestReconcile_WidgetIndexedAvoidsCollisions(t *testing.T) {
	s, root := newTestTree(t, 16)
	r := New(root, 16)

	r.BeginFrame()
	a := r.WidgetIndexed(s, "item", 0, store.Default())
	b := r.WidgetIndexed(s, "item", 1, store.Default())
	r.EndFrame(s)

	assert.NotEqual(t, a, b)
}

func TestReconcile_MurmurSchemeAlsoStable(t *testing.T) {
	s, root := newTestTree(t, 16)
	r := New(root, 16, WithHashScheme(HashMurmur3))

	r.BeginFrame()
	a1 := r.Widget(s, "x", store.Default())
	r.EndFrame(s)

	r.BeginFrame()
	a2 := r.Widget(s, "x", store.Default())
	r.EndFrame(s)

	assert.Equal(t, a1, a2)
}

func fixedWidthStyle(w float32) store.Style {
	st := store.Default()
	st.Layout.Width = w
	return st
}
