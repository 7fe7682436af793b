package store

import (
	"errors"
	"fmt"

	"github.com/flexkit/layout/internal/logger"
)

// Sentinel errors from spec.md §7. Mutating operations either return
// one of these, leaving the store unchanged, or succeed with all
// invariants holding — there is no partially applied state.
var (
	ErrCapacityExceeded = errors.New("store: capacity exceeded")
	ErrInvalidNode      = errors.New("store: invalid node handle")
	ErrCycleDetected    = errors.New("store: cycle detected")
)

// record is never allocated on its own — it exists only to document
// the logical shape of one node's data before it is split across the
// parallel arrays below.
//
// kind, parent, firstChild, nextSibling, lastChild, layout, spacing,
// visual, text, styleVersion, computedRect, computedSize, cache, dirty.

// Store owns every per-node array. All internal links are handles, not
// pointers, per spec.md §9: this halves link memory on 64-bit
// platforms, lets the arrays be grown, and makes the store trivially
// serializable for snapshotting.
type Store struct {
	capacity int

	kind         []Kind
	parent       []Handle
	firstChild   []Handle
	lastChild    []Handle
	nextSibling  []Handle
	layout       []LayoutStyle
	spacing      []SpacingStyle
	visual       []VisualStyle
	text         []TextStyle
	styleVersion []uint64
	computedRect []Rect
	computedSize []Size
	cache        []CacheEntry
	dirty        []bool
	live         []bool

	free  []Handle // LIFO free list
	count int      // live node count
}

// New allocates a store with fixed capacity nMax. All arrays are
// preallocated; no allocation occurs on the hot Add/SetStyle/reparent
// paths beyond the bookkeeping below, and compute() never grows these
// arrays at all.
func New(nMax int) *Store {
	return &Store{
		capacity:     nMax,
		kind:         make([]Kind, nMax),
		parent:       make([]Handle, nMax),
		firstChild:   make([]Handle, nMax),
		lastChild:    make([]Handle, nMax),
		nextSibling:  make([]Handle, nMax),
		layout:       make([]LayoutStyle, nMax),
		spacing:      make([]SpacingStyle, nMax),
		visual:       make([]VisualStyle, nMax),
		text:         make([]TextStyle, nMax),
		styleVersion: make([]uint64, nMax),
		computedRect: make([]Rect, nMax),
		computedSize: make([]Size, nMax),
		cache:        make([]CacheEntry, nMax),
		dirty:        make([]bool, nMax),
		live:         make([]bool, nMax),
	}
}

// Capacity returns N_max.
func (s *Store) Capacity() int { return s.capacity }

// Count returns the number of live nodes.
func (s *Store) Count() int { return s.count }

// Live reports whether h refers to a currently-allocated node.
func (s *Store) Live(h Handle) bool {
	return h.Valid() && int(h) < s.capacity && s.live[h]
}

// Add allocates a new node under parent (or as a root if parent is
// store.Nil) with the given style, and appends it to the end of
// parent's child list to preserve main-axis order. O(1) amortized.
func (s *Store) Add(parent Handle, style Style) (Handle, error) {
	if parent.Valid() && !s.Live(parent) {
		return Nil, fmt.Errorf("%w: parent %d", ErrInvalidNode, parent)
	}

	h, err := s.allocate()
	if err != nil {
		return Nil, err
	}

	style = style.normalize()
	s.kind[h] = KindContainer
	s.parent[h] = parent
	s.firstChild[h] = Nil
	s.lastChild[h] = Nil
	s.nextSibling[h] = Nil
	s.layout[h] = style.Layout
	s.spacing[h] = style.Spacing
	s.visual[h] = style.Visual
	s.text[h] = style.Text
	s.styleVersion[h] = 1
	s.cache[h] = CacheEntry{}
	s.dirty[h] = true

	if parent.Valid() {
		s.appendChild(parent, h)
	}

	logger.Debug(logger.TagStore, "add handle=%d parent=%d", h, parent)
	return h, nil
}

// SetKind sets the tagged variant used by measure's intrinsic-size
// step. It does not itself affect style_version (kind is assigned once
// at construction time by callers that build text/image/custom nodes;
// changing it afterward is an internal convenience, not part of the
// public style-mutation contract).
func (s *Store) SetKind(h Handle, kind Kind) {
	if s.Live(h) {
		s.kind[h] = kind
	}
}

func (s *Store) allocate() (Handle, error) {
	if n := len(s.free); n > 0 {
		h := s.free[n-1]
		s.free = s.free[:n-1]
		s.live[h] = true
		s.count++
		return h, nil
	}
	if s.count >= s.capacity {
		return Nil, ErrCapacityExceeded
	}
	h := Handle(s.count)
	s.live[h] = true
	s.count++
	return h, nil
}

func (s *Store) appendChild(parent, child Handle) {
	if last := s.lastChild[parent]; last.Valid() {
		s.nextSibling[last] = child
	} else {
		s.firstChild[parent] = child
	}
	s.lastChild[parent] = child
}

// Remove recursively removes h and all of its descendants, unlinking
// h from its parent's child list and returning every freed handle to
// the LIFO free list for reuse by a later Add. No-op on Nil or an
// already-dead handle.
func (s *Store) Remove(h Handle) {
	if !s.Live(h) {
		return
	}

	parent := s.parent[h]
	if parent.Valid() && s.Live(parent) {
		s.unlinkChild(parent, h)
		s.MarkDirtyOnly(parent)
	}

	s.removeSubtree(h)
}

func (s *Store) unlinkChild(parent, child Handle) {
	prev := Nil
	for cur := s.firstChild[parent]; cur.Valid(); cur = s.nextSibling[cur] {
		if cur == child {
			if prev.Valid() {
				s.nextSibling[prev] = s.nextSibling[child]
			} else {
				s.firstChild[parent] = s.nextSibling[child]
			}
			if s.lastChild[parent] == child {
				s.lastChild[parent] = prev
			}
			return
		}
		prev = cur
	}
}

func (s *Store) removeSubtree(h Handle) {
	for c := s.firstChild[h]; c.Valid(); {
		next := s.nextSibling[c]
		s.removeSubtree(c)
		c = next
	}
	s.live[h] = false
	s.count--
	s.free = append(s.free, h)
	logger.Debug(logger.TagStore, "remove handle=%d", h)
}

// Reparent moves h (and its subtree) to be the last child of
// newParent. Fails with ErrCycleDetected if newParent is h itself or a
// descendant of h, leaving the tree unchanged. Marks both the old and
// new parent dirty. O(depth) because of the cycle check.
func (s *Store) Reparent(h, newParent Handle) error {
	if !s.Live(h) {
		return fmt.Errorf("%w: %d", ErrInvalidNode, h)
	}
	if newParent.Valid() && !s.Live(newParent) {
		return fmt.Errorf("%w: new parent %d", ErrInvalidNode, newParent)
	}
	if newParent.Valid() {
		if newParent == h || s.isDescendant(newParent, h) {
			return ErrCycleDetected
		}
	}

	oldParent := s.parent[h]
	if oldParent == newParent {
		return nil
	}

	if oldParent.Valid() {
		s.unlinkChild(oldParent, h)
		s.MarkDirtyOnly(oldParent)
	}

	s.parent[h] = newParent
	s.nextSibling[h] = Nil
	if newParent.Valid() {
		s.appendChild(newParent, h)
		s.MarkDirtyOnly(newParent)
	}
	s.MarkDirtyOnly(h)

	return nil
}

// isDescendant reports whether candidate is a descendant of ancestor,
// by walking candidate's parent links up to its root.
func (s *Store) isDescendant(candidate, ancestor Handle) bool {
	for p := s.parent[candidate]; p.Valid(); p = s.parent[p] {
		if p == ancestor {
			return true
		}
	}
	return false
}

// SetStyle compares style against the node's current style field by
// field; if any layout-affecting field changed, bumps style_version,
// marks the node dirty, and invalidates its cache entry. Non-layout
// (visual) field changes never mark dirty.
func (s *Store) SetStyle(h Handle, style Style) error {
	if !s.Live(h) {
		return fmt.Errorf("%w: %d", ErrInvalidNode, h)
	}

	style = style.normalize()
	current := s.styleOf(h)

	s.visual[h] = style.Visual
	s.text[h].FontName = style.Text.FontName

	if !layoutAffectingEqual(current, style) {
		s.layout[h] = style.Layout
		s.spacing[h] = style.Spacing
		s.text[h].Text = style.Text.Text
		s.text[h].FontSize = style.Text.FontSize
		s.styleVersion[h]++
		s.cache[h].Valid = false
		s.MarkDirtyOnly(h)
		logger.Debug(logger.TagStore, "set_style handle=%d version=%d", h, s.styleVersion[h])
	}

	return nil
}

func (s *Store) styleOf(h Handle) Style {
	return Style{
		Layout:  s.layout[h],
		Spacing: s.spacing[h],
		Visual:  s.visual[h],
		Text:    s.text[h],
	}
}

// StyleOf returns a copy of h's current style.
func (s *Store) StyleOf(h Handle) Style {
	return s.styleOf(h)
}

// MarkDirtyOnly sets h's own dirty bit without touching ancestors or
// the dirty queue; ancestor propagation is the dirty queue's job (see
// internal/dirtyqueue), which this package does not import to avoid a
// dependency cycle — the engine wires the two together.
func (s *Store) MarkDirtyOnly(h Handle) {
	if s.Live(h) {
		s.dirty[h] = true
	}
}

// Dirty reports h's dirty bit.
func (s *Store) Dirty(h Handle) bool {
	return s.Live(h) && s.dirty[h]
}

// ClearDirty clears h's dirty bit; called by the solver's place phase
// once a node has been fully resolved.
func (s *Store) ClearDirty(h Handle) {
	if s.Live(h) {
		s.dirty[h] = false
	}
}

// Kind, Parent, FirstChild, NextSibling, StyleVersion, ComputedRect,
// ComputedSize, Cache are plain field accessors used across the other
// internal packages and the public API's query surface.

func (s *Store) Kind(h Handle) Kind {
	if !s.Live(h) {
		return KindContainer
	}
	return s.kind[h]
}

func (s *Store) Parent(h Handle) Handle {
	if !s.Live(h) {
		return Nil
	}
	return s.parent[h]
}

func (s *Store) FirstChild(h Handle) Handle {
	if !s.Live(h) {
		return Nil
	}
	return s.firstChild[h]
}

func (s *Store) NextSibling(h Handle) Handle {
	if !s.Live(h) {
		return Nil
	}
	return s.nextSibling[h]
}

func (s *Store) Layout(h Handle) LayoutStyle {
	return s.layout[h]
}

func (s *Store) Spacing(h Handle) SpacingStyle {
	return s.spacing[h]
}

func (s *Store) Text(h Handle) TextStyle {
	return s.text[h]
}

func (s *Store) StyleVersion(h Handle) uint64 {
	return s.styleVersion[h]
}

func (s *Store) ComputedRect(h Handle) Rect {
	if !s.Live(h) {
		return Rect{}
	}
	return s.computedRect[h]
}

func (s *Store) SetComputedRect(h Handle, r Rect) {
	s.computedRect[h] = r
}

func (s *Store) ComputedSize(h Handle) Size {
	return s.computedSize[h]
}

func (s *Store) SetComputedSize(h Handle, sz Size) {
	s.computedSize[h] = sz
}

func (s *Store) Cache(h Handle) CacheEntry {
	return s.cache[h]
}

func (s *Store) SetCache(h Handle, c CacheEntry) {
	s.cache[h] = c
}

func (s *Store) InvalidateCache(h Handle) {
	s.cache[h].Valid = false
}

// Children returns h's children in insertion order. It allocates; it
// exists for tests and diagnostics, never for the compute() hot path,
// which walks firstChild/nextSibling directly.
func (s *Store) Children(h Handle) []Handle {
	var out []Handle
	for c := s.firstChild[h]; c.Valid(); c = s.nextSibling[c] {
		out = append(out, c)
	}
	return out
}
