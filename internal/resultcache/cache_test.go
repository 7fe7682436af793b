package resultcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexkit/layout/internal/store"
)

func TestLookup_MissThenHit(t *testing.T) {
	s := store.New(4)
	h, _ := s.Add(store.Nil, store.Default())
	c := New()

	_, ok := c.Lookup(s, h, 100, 200)
	assert.False(t, ok)

	c.Store(s, h, 100, 200, store.Size{W: 50, H: 60})
	size, ok := c.Lookup(s, h, 100, 200)
	require.True(t, ok)
	assert.Equal(t, store.Size{W: 50, H: 60}, size)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestLookup_MissesOnConstraintChange(t *testing.T) {
	s := store.New(4)
	h, _ := s.Add(store.Nil, store.Default())
	c := New()

	c.Store(s, h, 100, 200, store.Size{W: 50, H: 60})
	_, ok := c.Lookup(s, h, 101, 200)
	assert.False(t, ok, "exact float equality means even a tiny constraint change misses")
}

func TestLookup_MissesOnStyleVersionChange(t *testing.T) {
	s := store.New(4)
	h, _ := s.Add(store.Nil, store.Default())
	c := New()

	c.Store(s, h, 100, 200, store.Size{W: 50, H: 60})

	style := s.StyleOf(h)
	style.Layout.Width = 10
	require.NoError(t, s.SetStyle(h, style))

	_, ok := c.Lookup(s, h, 100, 200)
	assert.False(t, ok)
}

func TestInvalidate(t *testing.T) {
	s := store.New(4)
	h, _ := s.Add(store.Nil, store.Default())
	c := New()

	c.Store(s, h, 100, 200, store.Size{W: 50, H: 60})
	c.Invalidate(s, h)

	_, ok := c.Lookup(s, h, 100, 200)
	assert.False(t, ok)
	assert.Equal(t, uint64(1), c.Stats().Invalidations)
}

func TestHitRate(t *testing.T) {
	c := New()
	assert.Equal(t, 0.0, c.HitRate())

	s := store.New(4)
	h, _ := s.Add(store.Nil, store.Default())
	c.Store(s, h, 1, 1, store.Size{})
	c.Lookup(s, h, 1, 1)
	c.Lookup(s, h, 2, 2)

	assert.InDelta(t, 0.5, c.HitRate(), 1e-9)
}
