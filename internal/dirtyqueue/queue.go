// Package dirtyqueue implements spec.md §4.2: a flat append-only list
// of dirty handles plus a per-node "already queued" bit, so draining
// the dirty set costs O(d) rather than the O(n) of scanning every
// node.
//
// The ancestor-propagation walk is grounded on the teacher's analogue
// in other_examples/1a2df483_grindlemire-go-tui__pkg-layout-node.go.go:
//
//	func (n *Node) MarkDirty() {
//		for node := n; node != nil && !node.dirty; node = node.parent {
//			node.dirty = true
//		}
//	}
//
// adapted from a per-node bool field to a shared bitset, since this
// package holds no node storage of its own — it only ever touches the
// store through the small interface below.
package dirtyqueue

import (
	"github.com/willf/bitset"

	"github.com/flexkit/layout/internal/logger"
	"github.com/flexkit/layout/internal/store"
)

// tree is the minimal view of the node store this package needs:
// checking liveness, marking a node's own dirty bit, and walking to
// its parent.
type tree interface {
	Live(h store.Handle) bool
	Parent(h store.Handle) store.Handle
	MarkDirtyOnly(h store.Handle)
}

// Queue is the append-only dirty list plus its queued bitset.
type Queue struct {
	handles []store.Handle
	queued  *bitset.BitSet
}

// New creates a queue sized for a store of capacity nMax.
func New(nMax int) *Queue {
	return &Queue{
		queued: bitset.New(uint(nMax)),
	}
}

// Mark enqueues h if it is not already queued, marks it dirty in the
// store, and walks h's ancestors doing the same — stopping as soon as
// an already-queued ancestor is reached, per spec.md §4.2 ("the
// already queued bit prevents quadratic blow-up when many siblings
// share an ancestor").
func (q *Queue) Mark(t tree, h store.Handle) {
	for cur := h; t.Live(cur); cur = t.Parent(cur) {
		if q.queued.Test(uint(cur)) {
			return
		}
		q.queued.Set(uint(cur))
		q.handles = append(q.handles, cur)
		t.MarkDirtyOnly(cur)
	}
	logger.Debug(logger.TagDirty, "mark handle=%d queue_len=%d", h, len(q.handles))
}

// Drain yields the queued handles in insertion order and clears the
// queue and its bitset for the next frame.
func (q *Queue) Drain() []store.Handle {
	out := q.handles
	q.handles = nil
	q.queued.ClearAll()
	return out
}

// Len reports how many handles are currently queued, for diagnostics
// (Engine.DirtyCount()).
func (q *Queue) Len() int {
	return len(q.handles)
}
