// Package reconcile implements spec.md §4.6: the immediate-mode
// begin_frame/begin_container/widget/end_container/end_frame façade
// that maps (parent_scope, label, repeat_index) to stable handles.
//
// Grounded on the teacher's clay.go open/close element pattern
// (Clay__OpenElement / Clay__CloseElement push and pop a context-wide
// element stack) for the push/pop scope-stack shape, generalized from
// clay's single global context into a struct so multiple engines can
// each own one. The "seen this frame, sweep unseen at end_frame"
// bitset is grounded on internal/dirtyqueue's own already-queued
// bitset (github.com/willf/bitset), reused here for a different
// purpose: membership-this-frame instead of membership-in-dirty-queue.
package reconcile

import (
	"github.com/willf/bitset"

	"github.com/flexkit/layout/internal/logger"
	"github.com/flexkit/layout/internal/store"
)

// tree is the subset of *store.Store the reconciler needs. Kept as an
// interface so tests can substitute a fake store.
type tree interface {
	Live(h store.Handle) bool
	Parent(h store.Handle) store.Handle
	Add(parent store.Handle, style store.Style) (store.Handle, error)
	SetStyle(h store.Handle, style store.Style) error
	StyleOf(h store.Handle) store.Style
	Reparent(h, newParent store.Handle) error
	Remove(h store.Handle)
}

// entry records, for one derived id, the handle it currently owns and
// the scope it was last created/reused under.
type entry struct {
	handle store.Handle
	scope  store.Handle
}

// Reconciler owns the id→handle map, the scope stack, and the
// seen-this-frame bitset across frames. It never touches the Flex
// Solver; callers run that themselves at end_frame (spec.md §4.6
// explicitly couples end_frame to running compute, but the engine
// package is what actually owns the solver, so Reconciler leaves
// Compute to the caller).
type Reconciler struct {
	scheme HashScheme
	ids    map[uint32]*entry
	seen   *bitset.BitSet
	stack  []store.Handle // scope stack, stack[0] is the implicit root
	root   store.Handle
}

// New creates a Reconciler whose implicit root is the given handle
// (typically the engine's single root container), sized for a store
// of capacity nMax (spec.md §5: all node arrays are preallocated with
// capacity N_max; the seen-this-frame bitset follows the same rule).
func New(root store.Handle, nMax int, opts ...Option) *Reconciler {
	r := &Reconciler{
		scheme: HashJenkins,
		ids:    make(map[uint32]*entry),
		seen:   bitset.New(uint(nMax)),
		stack:  []store.Handle{root},
		root:   root,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Option configures a Reconciler at construction time.
type Option func(*Reconciler)

// WithHashScheme selects the id-derivation hash (spec.md §4.6's
// stable_hash). Jenkins one-at-a-time is the default.
func WithHashScheme(scheme HashScheme) Option {
	return func(r *Reconciler) { r.scheme = scheme }
}

// IDWithIndex is the caller-facing collision-breaking helper spec.md
// §4.6 requires: "incrementing repeat_index ... the caller's
// responsibility via an id_with_index(label, i) helper". It folds the
// index into the label string itself so two calls with the same label
// at different i derive distinct ids even under an identical scope.
func IDWithIndex(label string, i int) string {
	if i == 0 {
		return label
	}
	return label + "#" + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

func (r *Reconciler) currentScope() store.Handle {
	return r.stack[len(r.stack)-1]
}

// markSeen records that handle h was touched this frame.
func (r *Reconciler) markSeen(h store.Handle) {
	r.seen.Set(uint(h))
}

// BeginFrame clears all seen_this_frame bits and resets the
// parent-scope stack to the implicit root (spec.md §4.6).
func (r *Reconciler) BeginFrame() {
	r.seen.ClearAll()
	r.stack = r.stack[:1]
	r.stack[0] = r.root
}

// resolve implements the reconciliation algorithm of spec.md §4.6:
// lookup id, reuse/reparent/create, mark seen, apply style.
func (r *Reconciler) resolve(t tree, label string, index int, style store.Style) store.Handle {
	scope := r.currentScope()
	id := deriveHash(r.scheme, label, uint32(index), uint32(scope))

	e, ok := r.ids[id]
	if ok && t.Live(e.handle) {
		if e.scope != scope {
			_ = t.Reparent(e.handle, scope)
			e.scope = scope
		}
		if !styleEqual(t.StyleOf(e.handle), style) {
			_ = t.SetStyle(e.handle, style)
		}
		r.markSeen(e.handle)
		return e.handle
	}

	h, err := t.Add(scope, style)
	if err != nil {
		logger.Warn(logger.TagReconcile, "add failed label=%q scope=%d: %v", label, scope, err)
		return store.Nil
	}
	r.ids[id] = &entry{handle: h, scope: scope}
	r.markSeen(h)
	logger.Debug(logger.TagReconcile, "create label=%q id=%d handle=%d scope=%d", label, id, h, scope)
	return h
}

func styleEqual(a, b store.Style) bool {
	return a == b
}

// BeginContainer derives/reuses a container handle for label under
// the current scope and pushes it as the new scope.
func (r *Reconciler) BeginContainer(t tree, label string, style store.Style) store.Handle {
	return r.BeginContainerIndexed(t, label, 0, style)
}

// BeginContainerIndexed is BeginContainer with an explicit
// repeat_index, for callers driving a loop (spec.md's id_with_index).
func (r *Reconciler) BeginContainerIndexed(t tree, label string, index int, style store.Style) store.Handle {
	h := r.resolve(t, label, index, style)
	r.stack = append(r.stack, h)
	return h
}

// EndContainer pops the scope stack. Calling it with no matching
// BeginContainer is a caller bug; it is a no-op past the implicit root
// rather than panicking, since reconciliation runs on the UI hot path
// and should degrade rather than crash a frame.
func (r *Reconciler) EndContainer() {
	if len(r.stack) > 1 {
		r.stack = r.stack[:len(r.stack)-1]
	}
}

// Widget derives/reuses a leaf node handle for label under the
// current scope.
func (r *Reconciler) Widget(t tree, label string, style store.Style) store.Handle {
	return r.WidgetIndexed(t, label, 0, style)
}

// WidgetIndexed is Widget with an explicit repeat_index.
func (r *Reconciler) WidgetIndexed(t tree, label string, index int, style store.Style) store.Handle {
	return r.resolve(t, label, index, style)
}

// EndFrame sweeps every id whose handle was not touched this frame,
// removing it from the store (which also frees its now-orphaned
// subtree, per spec.md scenario S5) and forgetting its id mapping so
// the slot can be reused by a differently-labeled node later.
func (r *Reconciler) EndFrame(t tree) {
	for id, e := range r.ids {
		if !t.Live(e.handle) {
			delete(r.ids, id)
			continue
		}
		if !r.seen.Test(uint(e.handle)) {
			logger.Debug(logger.TagReconcile, "sweep orphan id=%d handle=%d", id, e.handle)
			t.Remove(e.handle)
			delete(r.ids, id)
		}
	}
}
