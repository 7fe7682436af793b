// Package solver implements spec.md §4.5: the two-phase measure
// (post-order, bottom-up) / place (pre-order, top-down) flexbox
// solver.
//
// Grounded on internal/widgets/container.go, row.go, and column.go of
// the teacher for the shape of a Layout(constraints) (width, height)
// pass — content-box shrinking by padding, explicit-size override,
// min/max clamping — generalized from one widget type per direction
// into a single direction-parameterized solver, since spec.md needs
// one solver for all four `direction` values rather than a Row type
// and a Column type.
//
// Both phases are gated the same way: a node's own dirty bit (set by
// the store on a style change and propagated to every ancestor by
// internal/dirtyqueue) forces that node to be recomputed and its
// children to be revisited; a clean node whose result cache still
// matches the constraints it was given (in measure), or whose rect is
// unchanged (in place), skips its subtree and keeps the earlier
// result, which is what keeps a single-leaf edit to an
// otherwise-static 1,000 node tree to O(depth) work (spec.md scenario
// S4).
package solver

import (
	"math"

	"github.com/flexkit/layout/internal/logger"
	"github.com/flexkit/layout/internal/measure"
	"github.com/flexkit/layout/internal/resultcache"
	"github.com/flexkit/layout/internal/simdkernel"
	"github.com/flexkit/layout/internal/store"
)

// Solver holds the two collaborators measure needs beyond the store
// itself: the result cache and the text measurer.
type Solver struct {
	cache    *resultcache.Cache
	measurer measure.Measurer
	scratch  []*frame
}

func New(cache *resultcache.Cache, measurer measure.Measurer) *Solver {
	return &Solver{cache: cache, measurer: measurer}
}

// Compute runs measure then place over the tree rooted at root, given
// the viewport size as root's available space. It is a total function:
// it never fails, it only ever produces rectangles (spec.md §4.5
// "Failure semantics").
func (sv *Solver) Compute(s *store.Store, root store.Handle, viewportW, viewportH float32) {
	if !s.Live(root) {
		return
	}
	logger.Debug(logger.TagSolver, "compute viewport=%vx%v", viewportW, viewportH)
	size := sv.measure(s, root, viewportW, viewportH)
	sv.place(s, root, store.Rect{X: 0, Y: 0, W: size.W, H: size.H})
}

// ---- Measure -----------------------------------------------------

func (sv *Solver) measure(s *store.Store, h store.Handle, availW, availH float32) store.Size {
	if !s.Dirty(h) {
		if size, ok := sv.cache.Lookup(s, h, availW, availH); ok {
			s.SetComputedSize(h, size)
			return size
		}
	}

	ls := s.Layout(h)
	sp := s.Spacing(h)
	contentAvailW := subtractPadding(availW, sp.PaddingLeft+sp.PaddingRight)
	contentAvailH := subtractPadding(availH, sp.PaddingTop+sp.PaddingBottom)

	var contentW, contentH float32
	switch s.Kind(h) {
	case store.KindText:
		ts := s.Text(h)
		contentW, contentH = sv.measurer.Measure(ts.Text, ts.FontName, ts.FontSize, contentAvailW)
	case store.KindImage, store.KindCustom:
		contentW, contentH = intrinsicFromStyle(ls)
	default: // container
		contentW, contentH = sv.measureChildren(s, h, ls, contentAvailW, contentAvailH)
	}

	outerW := contentW + sp.PaddingLeft + sp.PaddingRight
	outerH := contentH + sp.PaddingTop + sp.PaddingBottom

	if ls.Width != store.Auto {
		outerW = ls.Width
	}
	if ls.Height != store.Auto {
		outerH = ls.Height
	}

	dims := []float32{outerW, outerH}
	mins := []float32{ls.MinWidth, ls.MinHeight}
	maxs := []float32{ls.MaxWidth, ls.MaxHeight}
	simdkernel.Clamp(dims, mins, maxs)

	size := store.Size{W: dims[0], H: dims[1]}
	s.SetComputedSize(h, size)
	sv.cache.Store(s, h, availW, availH, size)
	logger.Trace(logger.TagSolver, "measure handle=%d size=%v", h, size)
	return size
}

// measureChildren recurses into h's children (each given the content
// box as available space) and sums them along the main axis, taking
// the max along the cross axis. Reverse directions don't change
// sizing, only the later placement walk order.
func (sv *Solver) measureChildren(s *store.Store, h store.Handle, ls store.LayoutStyle, availW, availH float32) (float32, float32) {
	row := ls.Direction.MainAxisIsRow()

	var mainTotal, crossMax float32
	n := 0
	for c := s.FirstChild(h); c.Valid(); c = s.NextSibling(c) {
		childSize := sv.measure(s, c, availW, availH)
		main, cross := axisSplit(row, childSize)
		mainTotal += main
		if cross > crossMax {
			crossMax = cross
		}
		n++
	}
	if n > 1 {
		mainTotal += ls.Gap * float32(n-1)
	}

	if row {
		return mainTotal, crossMax
	}
	return crossMax, mainTotal
}

func intrinsicFromStyle(ls store.LayoutStyle) (float32, float32) {
	w, h := ls.Width, ls.Height
	if w == store.Auto {
		w = 0
	}
	if h == store.Auto {
		h = 0
	}
	return w, h
}

func subtractPadding(avail, padding float32) float32 {
	if math.IsInf(float64(avail), 1) {
		return avail
	}
	remaining := avail - padding
	if remaining < 0 {
		return 0
	}
	return remaining
}

func axisSplit(row bool, size store.Size) (main, cross float32) {
	if row {
		return size.W, size.H
	}
	return size.H, size.W
}
