package solver

import (
	"math"

	"github.com/flexkit/layout/internal/simdkernel"
	"github.com/flexkit/layout/internal/store"
)

// frame is one depth level's scratch buffers, reused across compute()
// calls so placeChildren allocates at most once per depth level ever
// reached (spec.md §5: "no allocation occurs inside compute except for
// at most one scratch buffer per depth level").
type frame struct {
	handles    []store.Handle
	mainSize   []float32
	crossSize  []float32
	grow       []float32
	shrinkBase []float32
	minMain    []float32
	maxMain    []float32
}

func (f *frame) reset() {
	f.handles = f.handles[:0]
	f.mainSize = f.mainSize[:0]
	f.crossSize = f.crossSize[:0]
	f.grow = f.grow[:0]
	f.shrinkBase = f.shrinkBase[:0]
	f.minMain = f.minMain[:0]
	f.maxMain = f.maxMain[:0]
}

func (sv *Solver) frameAt(depth int) *frame {
	for len(sv.scratch) <= depth {
		sv.scratch = append(sv.scratch, &frame{})
	}
	f := sv.scratch[depth]
	f.reset()
	return f
}

func (sv *Solver) place(s *store.Store, h store.Handle, rect store.Rect) {
	sv.placeDepth(s, h, rect, 0)
}

func (sv *Solver) placeDepth(s *store.Store, h store.Handle, rect store.Rect, depth int) {
	oldRect := s.ComputedRect(h)
	s.SetComputedRect(h, rect)

	if !s.Dirty(h) && oldRect == rect {
		return
	}

	sv.placeChildren(s, h, rect, depth)
	s.ClearDirty(h)
}

func contentRect(rect store.Rect, sp store.SpacingStyle) store.Rect {
	return store.Rect{
		X: rect.X + sp.PaddingLeft,
		Y: rect.Y + sp.PaddingTop,
		W: nonNegative(rect.W - sp.PaddingLeft - sp.PaddingRight),
		H: nonNegative(rect.H - sp.PaddingTop - sp.PaddingBottom),
	}
}

func nonNegative(v float32) float32 {
	if v < 0 {
		return 0
	}
	return v
}

func (sv *Solver) placeChildren(s *store.Store, h store.Handle, rect store.Rect, depth int) {
	ls := s.Layout(h)
	sp := s.Spacing(h)
	row := ls.Direction.MainAxisIsRow()
	content := contentRect(rect, sp)
	contentMain, contentCross := axisSplit(row, store.Size{W: content.W, H: content.H})

	f := sv.frameAt(depth)
	for c := s.FirstChild(h); c.Valid(); c = s.NextSibling(c) {
		size := s.ComputedSize(c)
		main, cross := axisSplit(row, size)
		cl := s.Layout(c)

		f.handles = append(f.handles, c)
		f.mainSize = append(f.mainSize, main)
		f.crossSize = append(f.crossSize, cross)
		f.grow = append(f.grow, cl.FlexGrow)
		f.shrinkBase = append(f.shrinkBase, cl.FlexShrink*main)
		if row {
			f.minMain = append(f.minMain, cl.MinWidth)
			f.maxMain = append(f.maxMain, cl.MaxWidth)
		} else {
			f.minMain = append(f.minMain, cl.MinHeight)
			f.maxMain = append(f.maxMain, cl.MaxHeight)
		}
	}

	n := len(f.handles)
	if n == 0 {
		return
	}

	intrinsicTotal := sum(f.mainSize)
	if n > 1 {
		intrinsicTotal += ls.Gap * float32(n-1)
	}
	freeSpace := contentMain - intrinsicTotal

	filled := (freeSpace > 0 && sum(f.grow) > 0) || (freeSpace < 0 && sum(f.shrinkBase) > 0)

	distribute(f.mainSize, f.grow, f.shrinkBase, freeSpace)
	simdkernel.Clamp(f.mainSize, f.minMain, f.maxMain)
	if filled {
		fixUpRoundingResidue(f.mainSize, contentMain, ls.Gap, f.minMain[n-1], f.maxMain[n-1], n)
	}

	cursor := justifyStart(ls.Justify, freeSpace, n)
	spacing := justifySpacing(ls.Justify, freeSpace, n)

	reversed := ls.Direction.Reversed()
	for i := 0; i < n; i++ {
		idx := i
		if reversed {
			idx = n - 1 - i
		}

		main := f.mainSize[idx]
		cross := resolveCross(s, f.handles[idx], row, contentCross, f.crossSize[idx], ls.AlignItems)
		crossOffset := alignOffset(ls.AlignItems, contentCross, cross)

		var childRect store.Rect
		if row {
			childRect = store.Rect{X: content.X + cursor, Y: content.Y + crossOffset, W: main, H: cross}
		} else {
			childRect = store.Rect{X: content.X + crossOffset, Y: content.Y + cursor, W: cross, H: main}
		}

		sv.placeDepth(s, f.handles[idx], childRect, depth+1)

		cursor += main + ls.Gap + spacing
	}
}

func sum(xs []float32) float32 {
	var total float32
	for _, x := range xs {
		total += x
	}
	return total
}

// distribute applies spec.md §4.5 step 4: grow into positive free
// space, weighted-shrink into negative free space, or leave sizes
// unchanged.
func distribute(mainSize, grow, shrinkBase []float32, freeSpace float32) {
	n := len(mainSize)
	if n == 0 {
		return
	}

	switch {
	case freeSpace > 0:
		total := sum(grow)
		if total <= 0 {
			return
		}
		var assigned float32
		for i := 0; i < n-1; i++ {
			delta := freeSpace * grow[i] / total
			mainSize[i] += delta
			assigned += delta
		}
		// Residue goes to the last child so the sum is exact.
		mainSize[n-1] += freeSpace - assigned

	case freeSpace < 0:
		total := sum(shrinkBase)
		if total <= 0 {
			return
		}
		deficit := -freeSpace
		var assigned float32
		for i := 0; i < n-1; i++ {
			delta := deficit * shrinkBase[i] / total
			mainSize[i] -= delta
			assigned += delta
		}
		mainSize[n-1] -= deficit - assigned
	}
}

// fixUpRoundingResidue re-applies the exact-sum correction to the last
// child after clamping, since clamping can reintroduce a mismatch
// between Σ child.main and container.main that step 4's residue
// assignment had otherwise made exact. It never pushes a child outside
// its own [min, max] clamp further than the clamp already did; if the
// container's main axis is zero (or children are pinned to their
// minimums on both sides), it leaves the mismatch rather than violate
// a clamp.
//
// Callers must only invoke this when distribute actually consumed the
// free space (positive free space with a nonzero grow total, or
// negative free space with a nonzero shrink-base total) — otherwise
// the "mismatch" is genuine free space that justify_content owns, and
// dumping it onto the last child would inflate it instead of leaving
// the gap for start/center/end/space_* to place.
func fixUpRoundingResidue(mainSize []float32, contentMain, gap, minLast, maxLast float32, n int) {
	if n == 0 {
		return
	}
	if math.IsInf(float64(contentMain), 0) {
		return
	}
	total := sum(mainSize) + gap*float32(n-1)
	residue := contentMain - total
	if residue == 0 {
		return
	}
	last := mainSize[n-1] + residue
	if last < minLast {
		last = minLast
	}
	if last > maxLast {
		last = maxLast
	}
	if last < 0 {
		last = 0
	}
	mainSize[n-1] = last
}

// justifyStart returns the cursor's leading offset from the content
// edge. space_around and space_evenly are "as in CSS flexbox" (spec.md
// §4.5 step 7): space_around gives every child a half-share of gap on
// each side, so the leading offset is half of one child's share
// (freeSpace/2n); space_evenly gives every gap — including the two
// edges — an equal share, so the leading offset is one full share
// (freeSpace/(n+1)).
func justifyStart(j store.Justify, freeSpace float32, n int) float32 {
	switch j {
	case store.JustifyCenter:
		return freeSpace / 2
	case store.JustifyEnd:
		return freeSpace
	case store.JustifySpaceAround:
		if n <= 0 || freeSpace <= 0 {
			return 0
		}
		return freeSpace / (2 * float32(n))
	case store.JustifySpaceEvenly:
		if n <= 0 || freeSpace <= 0 {
			return 0
		}
		return freeSpace / float32(n+1)
	default:
		return 0
	}
}

func justifySpacing(j store.Justify, freeSpace float32, n int) float32 {
	if n <= 1 || freeSpace <= 0 {
		return 0
	}
	switch j {
	case store.JustifySpaceBetween:
		return freeSpace / float32(n-1)
	case store.JustifySpaceAround:
		return freeSpace / float32(n)
	case store.JustifySpaceEvenly:
		return freeSpace / float32(n+1)
	default:
		return 0
	}
}

// resolveCross implements spec.md §4.5 step 6: an explicit (non-Auto)
// cross-axis size on the child wins outright; otherwise align_items
// stretch fills the container's cross size; otherwise the child's own
// intrinsic cross size is used.
func resolveCross(s *store.Store, child store.Handle, row bool, contentCross, intrinsicCross float32, align store.Align) float32 {
	cl := s.Layout(child)
	explicit := cl.Width
	if row {
		explicit = cl.Height
	}
	if explicit != store.Auto {
		return explicit
	}
	if align == store.AlignStretch {
		return contentCross
	}
	return intrinsicCross
}

func alignOffset(align store.Align, containerCross, childCross float32) float32 {
	switch align {
	case store.AlignCenter:
		return (containerCross - childCross) / 2
	case store.AlignEnd:
		return containerCross - childCross
	default: // start, stretch
		return 0
	}
}
