package store

import "math"

// Kind is the tagged variant dispatched during the intrinsic-size step
// of measure. It affects sizing only; there is no per-kind virtual
// dispatch anywhere in the store or solver.
type Kind uint8

const (
	KindContainer Kind = iota
	KindText
	KindImage
	KindCustom
)

// Direction selects the main axis: row maps to x, column to y.
type Direction uint8

const (
	DirectionRow Direction = iota
	DirectionColumn
	DirectionRowReverse
	DirectionColumnReverse
)

// MainAxisIsRow reports whether this direction's main axis is x.
func (d Direction) MainAxisIsRow() bool {
	return d == DirectionRow || d == DirectionRowReverse
}

// Reversed reports whether children walk in reverse insertion order.
func (d Direction) Reversed() bool {
	return d == DirectionRowReverse || d == DirectionColumnReverse
}

// Justify controls main-axis distribution of free space.
type Justify uint8

const (
	JustifyStart Justify = iota
	JustifyCenter
	JustifyEnd
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

// Align controls cross-axis alignment of children within a container.
type Align uint8

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
	AlignStretch
)

// Size sentinels (spec.md §3 "Width/height sentinels").
const (
	// Auto means "content-sized" (intrinsic).
	Auto float32 = -1.0
)

// Unbounded is "no upper bound".
var Unbounded = float32(math.Inf(1))

// LayoutStyle holds the hot, layout-affecting fields that fit a cache
// line: axis, distribution, sizing, and flex factors. Any field here
// changing bumps StyleVersion and marks the node dirty.
type LayoutStyle struct {
	Direction    Direction
	Justify      Justify
	AlignItems   Align
	FlexGrow     float32
	FlexShrink   float32
	Width        float32
	Height       float32
	MinWidth     float32
	MinHeight    float32
	MaxWidth     float32
	MaxHeight    float32
	Gap          float32
}

// SpacingStyle holds the cold fields accessed only during placement.
type SpacingStyle struct {
	PaddingTop, PaddingRight, PaddingBottom, PaddingLeft float32
	MarginTop, MarginRight, MarginBottom, MarginLeft     float32
}

func (s SpacingStyle) PaddingMainStart(row bool) float32 {
	if row {
		return s.PaddingLeft
	}
	return s.PaddingTop
}

func (s SpacingStyle) PaddingMainEnd(row bool) float32 {
	if row {
		return s.PaddingRight
	}
	return s.PaddingBottom
}

func (s SpacingStyle) PaddingCrossStart(row bool) float32 {
	if row {
		return s.PaddingTop
	}
	return s.PaddingLeft
}

func (s SpacingStyle) PaddingCrossEnd(row bool) float32 {
	if row {
		return s.PaddingBottom
	}
	return s.PaddingRight
}

// VisualStyle is opaque to the core: changing these fields never marks
// a node dirty, they pass through to the renderer untouched.
type VisualStyle struct {
	Color        [4]uint8
	BorderColor  [4]uint8
	BorderWidth  float32
	CornerRadius float32
}

// TextStyle carries text-node content. Text and FontSize are
// layout-affecting (they feed the text measurer); FontName is treated
// like the rest of VisualStyle and never marks a node dirty, per
// spec.md's "changes to text or font_size invalidate layout; other
// visual changes do not".
type TextStyle struct {
	Text     string
	FontName string
	FontSize float32
}

// Style is the full per-node style value, passed by value in the
// public API and copied into the store on Add/SetStyle.
type Style struct {
	Layout  LayoutStyle
	Spacing SpacingStyle
	Visual  VisualStyle
	Text    TextStyle
}

// Default returns a Style with the sentinels spec.md's data model
// names applied sensibly: Auto width/height (content-sized),
// Unbounded max (a Go zero-valued Style would otherwise clamp every
// node to zero size, since spec.md defines 0 as a legal, literal
// maximum rather than as "no max"), zero min, and flex-shrink 1 — the
// conventional flexbox default so that, absent an explicit opt-out,
// overflowing content shrinks rather than silently blowing out its
// container.
func Default() Style {
	return Style{
		Layout: LayoutStyle{
			Direction:  DirectionRow,
			Justify:    JustifyStart,
			AlignItems: AlignStretch,
			FlexShrink: 1,
			Width:      Auto,
			Height:     Auto,
			MaxWidth:   Unbounded,
			MaxHeight:  Unbounded,
		},
	}
}

// normalize clamps fields that spec.md requires to be clamped at set
// time rather than at solve time ("negative `gap` style is clamped to
// 0 at set time").
func (s Style) normalize() Style {
	if s.Layout.Gap < 0 {
		s.Layout.Gap = 0
	}
	if s.Layout.FlexGrow < 0 {
		s.Layout.FlexGrow = 0
	}
	if s.Layout.FlexShrink < 0 {
		s.Layout.FlexShrink = 0
	}
	if s.Layout.MinWidth < 0 {
		s.Layout.MinWidth = 0
	}
	if s.Layout.MinHeight < 0 {
		s.Layout.MinHeight = 0
	}
	for _, p := range []*float32{
		&s.Spacing.PaddingTop, &s.Spacing.PaddingRight, &s.Spacing.PaddingBottom, &s.Spacing.PaddingLeft,
		&s.Spacing.MarginTop, &s.Spacing.MarginRight, &s.Spacing.MarginBottom, &s.Spacing.MarginLeft,
	} {
		if *p < 0 {
			*p = 0
		}
	}
	return s
}

// layoutAffectingEqual reports whether a and b are identical in every
// field that spec.md marks as layout-affecting: all of Layout and
// Spacing, plus a text node's Text and FontSize (§3: "Changes to text
// or font_size invalidate layout; other visual changes do not" — so
// FontName alone, like VisualStyle, is deliberately excluded).
func layoutAffectingEqual(a, b Style) bool {
	return a.Layout == b.Layout &&
		a.Spacing == b.Spacing &&
		a.Text.Text == b.Text.Text &&
		a.Text.FontSize == b.Text.FontSize
}
