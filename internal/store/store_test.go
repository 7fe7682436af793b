package store

import (
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_RootAndChild(t *testing.T) {
	s := New(8)

	root, err := s.Add(Nil, Default())
	require.NoError(t, err)
	assert.True(t, s.Live(root))
	assert.Equal(t, 1, s.Count())

	child, err := s.Add(root, Default())
	require.NoError(t, err)
	assert.Equal(t, root, s.Parent(child))
	assert.Equal(t, child, s.FirstChild(root))
	assert.True(t, s.Dirty(child))
}

func TestAdd_InvalidParent(t *testing.T) {
	s := New(4)
	_, err := s.Add(Handle(99), Default())
	assert.True(t, errors.Is(err, ErrInvalidNode))
}

func TestAdd_CapacityExceeded(t *testing.T) {
	s := New(1)
	_, err := s.Add(Nil, Default())
	require.NoError(t, err)

	_, err = s.Add(Nil, Default())
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
}

func TestAppendChild_PreservesOrder(t *testing.T) {
	s := New(8)
	root, _ := s.Add(Nil, Default())
	a, _ := s.Add(root, Default())
	b, _ := s.Add(root, Default())
	c, _ := s.Add(root, Default())

	got := s.Children(root)
	assert.Equal(t, []Handle{a, b, c}, got)
}

func TestRemove_FreesHandleForReuse(t *testing.T) {
	s := New(4)
	root, _ := s.Add(Nil, Default())
	child, _ := s.Add(root, Default())

	s.Remove(child)
	assert.False(t, s.Live(child))
	assert.Equal(t, Nil, s.FirstChild(root))
	assert.True(t, s.Dirty(root))

	reused, err := s.Add(root, Default())
	require.NoError(t, err)
	assert.Equal(t, child, reused, "freed handle should be recycled")
}

func TestRemove_Subtree(t *testing.T) {
	s := New(8)
	root, _ := s.Add(Nil, Default())
	parent, _ := s.Add(root, Default())
	leaf, _ := s.Add(parent, Default())

	s.Remove(parent)
	assert.False(t, s.Live(parent))
	assert.False(t, s.Live(leaf))
	assert.Equal(t, 1, s.Count())
}

func TestReparent_MovesSubtreeAndMarksDirty(t *testing.T) {
	s := New(8)
	root, _ := s.Add(Nil, Default())
	a, _ := s.Add(root, Default())
	b, _ := s.Add(root, Default())
	s.ClearDirty(a)
	s.ClearDirty(b)
	s.ClearDirty(root)

	child, _ := s.Add(a, Default())
	s.ClearDirty(a)
	s.ClearDirty(child)

	require.NoError(t, s.Reparent(child, b))
	assert.Equal(t, b, s.Parent(child))
	assert.Equal(t, Nil, s.FirstChild(a))
	assert.Equal(t, child, s.FirstChild(b))
	assert.True(t, s.Dirty(a))
	assert.True(t, s.Dirty(b))
	assert.True(t, s.Dirty(child))
}

func TestReparent_RejectsCycle(t *testing.T) {
	s := New(8)
	root, _ := s.Add(Nil, Default())
	parent, _ := s.Add(root, Default())
	child, _ := s.Add(parent, Default())

	err := s.Reparent(parent, child)
	assert.True(t, errors.Is(err, ErrCycleDetected))
	assert.Equal(t, root, s.Parent(parent), "tree must be unchanged after a rejected reparent")
}

func TestReparent_SelfIsCycle(t *testing.T) {
	s := New(4)
	root, _ := s.Add(Nil, Default())
	n, _ := s.Add(root, Default())

	err := s.Reparent(n, n)
	assert.True(t, errors.Is(err, ErrCycleDetected))
}

func TestSetStyle_LayoutChangeMarksDirtyAndBumpsVersion(t *testing.T) {
	s := New(4)
	root, _ := s.Add(Nil, Default())
	s.ClearDirty(root)
	versionBefore := s.StyleVersion(root)

	style := s.StyleOf(root)
	style.Layout.Width = 200
	require.NoError(t, s.SetStyle(root, style))

	assert.True(t, s.Dirty(root))
	assert.Equal(t, versionBefore+1, s.StyleVersion(root))
	assert.False(t, s.Cache(root).Valid)
}

func TestSetStyle_VisualOnlyChangeNeverMarksDirty(t *testing.T) {
	s := New(4)
	root, _ := s.Add(Nil, Default())
	s.ClearDirty(root)
	versionBefore := s.StyleVersion(root)

	style := s.StyleOf(root)
	style.Visual.Color = [4]uint8{255, 0, 0, 255}
	style.Text.FontName = "mono"
	require.NoError(t, s.SetStyle(root, style))

	assert.False(t, s.Dirty(root))
	assert.Equal(t, versionBefore, s.StyleVersion(root))
	assert.Equal(t, [4]uint8{255, 0, 0, 255}, s.StyleOf(root).Visual.Color)
	assert.Equal(t, "mono", s.StyleOf(root).Text.FontName)
}

func TestSetStyle_NegativeGapClampedAtSetTime(t *testing.T) {
	s := New(4)
	root, _ := s.Add(Nil, Default())

	style := s.StyleOf(root)
	style.Layout.Gap = -10
	require.NoError(t, s.SetStyle(root, style))

	assert.Equal(t, float32(0), s.Layout(root).Gap)
}

func TestSetStyle_InvalidHandle(t *testing.T) {
	s := New(4)
	err := s.SetStyle(Handle(42), Default())
	assert.True(t, errors.Is(err, ErrInvalidNode))
}

// TestStyleOf_RoundTrips guards against a field being dropped on the
// way into or out of the parallel arrays; go-cmp's diff is far more
// readable than a failed == on a nested struct once this test starts
// failing for a real reason.
func TestStyleOf_RoundTrips(t *testing.T) {
	s := New(4)
	want := Default()
	want.Layout.Gap = 6
	want.Spacing.PaddingLeft = 2
	want.Text.Text = "hi"
	want.Visual.CornerRadius = 3

	h, err := s.Add(Nil, want)
	require.NoError(t, err)

	got := s.StyleOf(h)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("StyleOf mismatch (-want +got):\n%s\ndump: %s", diff, spew.Sdump(got))
	}
}
