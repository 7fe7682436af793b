// Package layout is an incremental flexbox layout engine: an
// immediate-mode reconciliation façade over a handle-based node store,
// with dirty-tracked, per-node result caching so that editing a small
// part of a large tree costs time proportional to the edit, not the
// tree.
//
// A typical frame looks like:
//
//	root := engine.BeginFrame(viewportW, viewportH)
//	engine.BeginContainer("toolbar", someStyle)
//	engine.Widget("save-button", buttonStyle)
//	engine.EndContainer()
//	engine.EndFrame()
//	rect := engine.Rect(root)
//
// Grounded on the teacher's maya.go App/Component top-level shape
// (one owning struct wiring a tree, a renderer hook, and a run loop)
// generalized from a single global App to an explicit, cooperatively
// single-threaded Engine value a caller can own more than one of.
package layout

import (
	"github.com/flexkit/layout/internal/dirtyqueue"
	"github.com/flexkit/layout/internal/logger"
	"github.com/flexkit/layout/internal/measure"
	"github.com/flexkit/layout/internal/reconcile"
	"github.com/flexkit/layout/internal/resultcache"
	"github.com/flexkit/layout/internal/solver"
	"github.com/flexkit/layout/internal/store"
)

// Re-exported types so callers never need to import internal/store
// directly.
type (
	Handle       = store.Handle
	Style        = store.Style
	LayoutStyle  = store.LayoutStyle
	SpacingStyle = store.SpacingStyle
	VisualStyle  = store.VisualStyle
	TextStyle    = store.TextStyle
	Rect         = store.Rect
	Size         = store.Size
	Kind         = store.Kind
	Direction    = store.Direction
	Justify      = store.Justify
	Align        = store.Align
	HashScheme   = reconcile.HashScheme
	Measurer     = measure.Measurer
)

// Re-exported constants and sentinel values.
const (
	Auto = store.Auto

	KindContainer = store.KindContainer
	KindText      = store.KindText
	KindImage     = store.KindImage
	KindCustom    = store.KindCustom

	DirectionRow           = store.DirectionRow
	DirectionColumn        = store.DirectionColumn
	DirectionRowReverse    = store.DirectionRowReverse
	DirectionColumnReverse = store.DirectionColumnReverse

	JustifyStart        = store.JustifyStart
	JustifyCenter       = store.JustifyCenter
	JustifyEnd          = store.JustifyEnd
	JustifySpaceBetween = store.JustifySpaceBetween
	JustifySpaceAround  = store.JustifySpaceAround
	JustifySpaceEvenly  = store.JustifySpaceEvenly

	AlignStart   = store.AlignStart
	AlignCenter  = store.AlignCenter
	AlignEnd     = store.AlignEnd
	AlignStretch = store.AlignStretch

	HashJenkins = reconcile.HashJenkins
	HashMurmur3 = reconcile.HashMurmur3
)

var Unbounded = store.Unbounded

// Nil is the sentinel handle meaning "no node".
const Nil = store.Nil

// NilHandle reports whether h is the sentinel (no node).
func NilHandle(h Handle) bool { return h == store.Nil }

// DefaultStyle returns a Style with sensible, non-zero-value-friendly
// defaults (row direction, start justify, stretch alignment,
// content-sized width/height, unbounded max).
func DefaultStyle() Style { return store.Default() }

// Engine is the top-level handle: one node store, its dirty queue,
// result cache, solver, and reconciliation façade, all sized for at
// most nMax live nodes.
type Engine struct {
	store      *store.Store
	dirty      *dirtyqueue.Queue
	cache      *resultcache.Cache
	solver     *solver.Solver
	reconciler *reconcile.Reconciler
	root       Handle

	lastViewportW, lastViewportH float32
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithHashScheme selects the reconciliation layer's id-derivation hash
// (spec.md §4.6's stable_hash). Jenkins one-at-a-time is the default;
// callers with very large, flat scope trees may prefer
// layout.HashMurmur3 for a different collision profile.
func WithHashScheme(scheme HashScheme) Option {
	return func(e *Engine) {
		e.reconciler = reconcile.New(e.root, e.store.Capacity(), reconcile.WithHashScheme(scheme))
	}
}

// New creates an Engine with capacity for at most nMax live nodes and
// an implicit root container, using measurer for text nodes. Passing a
// nil measurer installs measure.Fallback so the engine is usable
// without a real text shaper.
func New(nMax int, measurer Measurer, opts ...Option) *Engine {
	if measurer == nil {
		measurer = measure.Fallback{}
	}

	s := store.New(nMax)
	root, err := s.Add(store.Nil, store.Default())
	if err != nil {
		// nMax < 1 is a caller bug; fail loudly rather than return an
		// Engine that can never hold a node.
		panic("layout: New: nMax must allow at least one node")
	}

	cache := resultcache.New()
	e := &Engine{
		store:      s,
		dirty:      dirtyqueue.New(nMax),
		cache:      cache,
		solver:     solver.New(cache, measurer),
		reconciler: reconcile.New(root, nMax),
		root:       root,
	}

	for _, opt := range opts {
		opt(e)
	}

	logger.Debug(logger.TagStore, "engine created n_max=%d root=%d", nMax, root)
	return e
}

// Root returns the engine's implicit root container handle.
func (e *Engine) Root() Handle { return e.root }

// ---- Direct mutation API (spec.md §4.1/§4.7) ----------------------

// Add allocates a new node under parent (or as a root sibling if
// parent is layout.Nil) with the given style.
func (e *Engine) Add(parent Handle, style Style) (Handle, error) {
	h, err := e.store.Add(parent, style)
	if err != nil {
		return store.Nil, err
	}
	e.dirty.Mark(e.store, h)
	return h, nil
}

// Remove deletes h and its entire subtree, freeing their handles for
// reuse.
func (e *Engine) Remove(h Handle) {
	parent := e.store.Parent(h)
	e.store.Remove(h)
	if parent.Valid() {
		e.dirty.Mark(e.store, parent)
	}
}

// Reparent moves h to be the last child of newParent.
func (e *Engine) Reparent(h, newParent Handle) error {
	oldParent := e.store.Parent(h)
	if err := e.store.Reparent(h, newParent); err != nil {
		return err
	}
	e.dirty.Mark(e.store, h)
	if oldParent.Valid() {
		e.dirty.Mark(e.store, oldParent)
	}
	if newParent.Valid() {
		e.dirty.Mark(e.store, newParent)
	}
	return nil
}

// SetStyle updates h's style. Layout-affecting field changes bump its
// style version, invalidate its cache entry, and propagate dirty up to
// the root; visual-only changes never mark dirty.
func (e *Engine) SetStyle(h Handle, style Style) error {
	before := e.store.Dirty(h)
	if err := e.store.SetStyle(h, style); err != nil {
		return err
	}
	if !before && e.store.Dirty(h) {
		e.dirty.Mark(e.store, h)
	}
	return nil
}

// StyleOf returns a copy of h's current style.
func (e *Engine) StyleOf(h Handle) Style { return e.store.StyleOf(h) }

// SetKind sets h's tagged variant (container/text/image/custom), used
// by Compute's intrinsic-size step.
func (e *Engine) SetKind(h Handle, kind Kind) { e.store.SetKind(h, kind) }

// SetText is a convenience for building a text leaf: it sets kind to
// KindText and applies a style carrying the given text content.
func (e *Engine) SetText(h Handle, text, fontName string, fontSize float32) error {
	style := e.store.StyleOf(h)
	style.Text.Text = text
	style.Text.FontName = fontName
	style.Text.FontSize = fontSize
	e.store.SetKind(h, store.KindText)
	return e.SetStyle(h, style)
}

// ---- Compute -------------------------------------------------------

// Compute runs measure then place over the whole tree given the
// viewport as the root's available space, then clears the dirty
// queue's bookkeeping for the next frame.
func (e *Engine) Compute(viewportW, viewportH float32) {
	e.solver.Compute(e.store, e.root, viewportW, viewportH)
	e.dirty.Drain()
}

// ---- Query (spec.md §4.7) ------------------------------------------

// Rect returns h's computed rect, or a zero rect if h is invalid.
func (e *Engine) Rect(h Handle) Rect { return e.store.ComputedRect(h) }

// Parent returns h's parent handle, or layout.Nil.
func (e *Engine) Parent(h Handle) Handle { return e.store.Parent(h) }

// FirstChild returns h's first child handle, or layout.Nil.
func (e *Engine) FirstChild(h Handle) Handle { return e.store.FirstChild(h) }

// NextSibling returns h's next sibling handle, or layout.Nil.
func (e *Engine) NextSibling(h Handle) Handle { return e.store.NextSibling(h) }

// NodeCount returns the number of live nodes.
func (e *Engine) NodeCount() int { return e.store.Count() }

// DirtyCount returns how many handles are currently queued dirty.
func (e *Engine) DirtyCount() int { return e.dirty.Len() }

// CacheHitRate returns the result cache's hit rate across its
// lifetime.
func (e *Engine) CacheHitRate() float64 { return e.cache.HitRate() }

// ---- Reconciliation façade (spec.md §4.6) --------------------------

// BeginFrame clears all seen_this_frame bits and resets the
// parent-scope stack to the implicit root, returning the root handle.
func (e *Engine) BeginFrame(viewportW, viewportH float32) Handle {
	e.reconciler.BeginFrame()
	e.lastViewportW, e.lastViewportH = viewportW, viewportH
	return e.root
}

// BeginContainer derives/reuses a container handle for label under the
// current scope and pushes it as the new scope.
func (e *Engine) BeginContainer(label string, style Style) Handle {
	h := e.reconciler.BeginContainer(e.store, label, style)
	e.markIfDirty(h)
	return h
}

// BeginContainerIndexed is BeginContainer with an explicit
// repeat_index, for callers driving a loop over repeated siblings that
// share a label (spec.md's id_with_index collision-breaking rule).
func (e *Engine) BeginContainerIndexed(label string, index int, style Style) Handle {
	h := e.reconciler.BeginContainerIndexed(e.store, label, index, style)
	e.markIfDirty(h)
	return h
}

// EndContainer pops the scope stack.
func (e *Engine) EndContainer() { e.reconciler.EndContainer() }

// Widget derives/reuses a leaf node handle for label under the current
// scope.
func (e *Engine) Widget(label string, style Style) Handle {
	h := e.reconciler.Widget(e.store, label, style)
	e.markIfDirty(h)
	return h
}

// WidgetIndexed is Widget with an explicit repeat_index.
func (e *Engine) WidgetIndexed(label string, index int, style Style) Handle {
	h := e.reconciler.WidgetIndexed(e.store, label, index, style)
	e.markIfDirty(h)
	return h
}

// markIfDirty feeds the dirty queue only when the reconciler actually
// changed h this frame (created, reparented, or restyled) — the store
// already marks those cases via SetStyle/Add/Reparent. A node reused
// unchanged must stay clean, or every reconciled frame would force a
// full recompute regardless of what actually moved.
func (e *Engine) markIfDirty(h Handle) {
	if e.store.Dirty(h) {
		e.dirty.Mark(e.store, h)
	}
}

// EndFrame sweeps nodes not seen this frame, then runs Compute against
// the viewport passed to the matching BeginFrame.
func (e *Engine) EndFrame() {
	e.reconciler.EndFrame(sweepTree{Store: e.store, e: e})
	e.Compute(e.lastViewportW, e.lastViewportH)
}

// sweepTree routes the reconciler's orphan removals through
// Engine.Remove, so each swept node's parent and its ancestors are
// queued dirty before Compute runs.
type sweepTree struct {
	*store.Store
	e *Engine
}

func (t sweepTree) Remove(h Handle) { t.e.Remove(h) }
