// Package measure defines the text measurer dependency-inversion point
// (spec.md §6.2) and a fallback measurer usable without a real
// rendering backend, so the engine is functional on its own.
//
// Grounded on internal/widgets/text.go of the teacher for the shape of
// a text node's layout-affecting fields (text, font size); the actual
// per-glyph advance table is original data seeded from the glossary's
// worked examples ("i ≈ 0.22", "m ≈ 0.83", "W ≈ 0.87") and extended by
// character class, since no corpus example ships real font metrics.
package measure

import "math"

// Measurer is the core's only dependency on text shaping. It is
// called during compute() for every dirty text node and must be
// reentrant with respect to the engine: it must never mutate engine
// state, only read its own (text, fontName, fontSize, availableWidth)
// arguments and return a size. It is otherwise stateless from the
// core's perspective; a caller that wants caching or real shaping
// wraps its own implementation around a real shaper.
type Measurer interface {
	Measure(text, fontName string, fontSize, availableWidth float32) (width, height float32)
}

// advance is a glyph's width as a fraction of font size.
var advance = buildAdvanceTable()

// defaultAdvance is used for any rune outside the ~95-entry printable
// ASCII table (spec.md glossary: "Fallback character-width table").
const defaultAdvance = 0.6

// lineHeightFactor converts font size to a single line's height; 1.2
// is the usual single-line leading ratio used by most fallback
// layout-only text metrics.
const lineHeightFactor = 1.2

// Fallback is the fixed character-width-table measurer spec.md §6.2
// requires to exist so the engine is functional without a rendering
// backend. It sums per-glyph advances into a natural width; a fully
// unbounded text node measures that single-line natural width, per
// spec.md §4.5's non-finite-input edge case. When a finite available
// width is narrower than the natural width, the width is capped to it
// and the height counts ceil(natural/available) lines; it does not
// break at word boundaries.
type Fallback struct{}

func (Fallback) Measure(text, fontName string, fontSize, availableWidth float32) (float32, float32) {
	_ = fontName
	if text == "" {
		return 0, 0
	}
	if fontSize <= 0 {
		fontSize = 16
	}

	natural := float32(0)
	for _, r := range text {
		natural += glyphAdvance(r) * fontSize
	}

	width := natural
	lines := float32(1)
	if !math.IsInf(float64(availableWidth), 1) && availableWidth > 0 && natural > availableWidth {
		width = availableWidth
		lines = float32(math.Ceil(float64(natural / availableWidth)))
	}

	return width, lines * fontSize * lineHeightFactor
}

func glyphAdvance(r rune) float32 {
	if r >= 0x20 && r < 0x20+rune(len(advance)) {
		return advance[r-0x20]
	}
	return defaultAdvance
}

// buildAdvanceTable seeds the 95 printable ASCII characters (0x20..0x7E)
// with per-glyph advance fractions, grouped by visual width class.
func buildAdvanceTable() [95]float32 {
	var t [95]float32

	set := func(ch byte, v float32) {
		t[int(ch)-0x20] = v
	}
	fill := func(lo, hi byte, v float32) {
		for c := lo; c <= hi; c++ {
			set(c, v)
		}
	}

	// Default for the whole printable range before narrowing below.
	fill(0x20, 0x7E, 0.6)

	set(' ', 0.27)
	fill('!', '/', 0.3) // punctuation
	fill('0', '9', 0.55)
	set(':', 0.28)
	set(';', 0.28)
	fill('<', '@', 0.55)
	fill('a', 'z', 0.5)
	fill('A', 'Z', 0.68)
	fill('[', '`', 0.3)
	fill('{', '~', 0.3)

	// Named worked examples from the glossary.
	set('i', 0.22)
	set('l', 0.22)
	set('j', 0.22)
	set('m', 0.83)
	set('w', 0.72)
	set('W', 0.87)
	set('M', 0.87)

	return t
}
