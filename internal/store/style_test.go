package store

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirection_MainAxisIsRow(t *testing.T) {
	assert.True(t, DirectionRow.MainAxisIsRow())
	assert.True(t, DirectionRowReverse.MainAxisIsRow())
	assert.False(t, DirectionColumn.MainAxisIsRow())
	assert.False(t, DirectionColumnReverse.MainAxisIsRow())
}

func TestDirection_Reversed(t *testing.T) {
	assert.False(t, DirectionRow.Reversed())
	assert.False(t, DirectionColumn.Reversed())
	assert.True(t, DirectionRowReverse.Reversed())
	assert.True(t, DirectionColumnReverse.Reversed())
}

func TestSentinels(t *testing.T) {
	assert.Equal(t, float32(-1.0), Auto)
	assert.True(t, math.IsInf(float64(Unbounded), 1))
	// Zero is a legal literal value, not a sentinel for "unset".
	assert.NotEqual(t, Auto, float32(0))
	assert.NotEqual(t, Unbounded, float32(0))
}

func TestNormalize_ClampsNegativesAtSetTime(t *testing.T) {
	s := Style{
		Layout: LayoutStyle{
			Gap: -5, FlexGrow: -1, FlexShrink: -1,
			MinWidth: -10, MinHeight: -10,
		},
		Spacing: SpacingStyle{PaddingLeft: -1, MarginTop: -2},
	}.normalize()

	assert.Equal(t, float32(0), s.Layout.Gap)
	assert.Equal(t, float32(0), s.Layout.FlexGrow)
	assert.Equal(t, float32(0), s.Layout.FlexShrink)
	assert.Equal(t, float32(0), s.Layout.MinWidth)
	assert.Equal(t, float32(0), s.Layout.MinHeight)
	assert.Equal(t, float32(0), s.Spacing.PaddingLeft)
	assert.Equal(t, float32(0), s.Spacing.MarginTop)
}

func TestLayoutAffectingEqual_IgnoresFontNameAndVisual(t *testing.T) {
	a := Default()
	a.Text.Text = "hello"
	a.Text.FontName = "sans"
	a.Visual.Color = [4]uint8{1, 2, 3, 4}

	b := a
	b.Text.FontName = "mono"
	b.Visual.Color = [4]uint8{9, 9, 9, 9}

	assert.True(t, layoutAffectingEqual(a, b))

	b.Text.FontSize = a.Text.FontSize + 1
	assert.False(t, layoutAffectingEqual(a, b))
}

func TestDefault_AvoidsZeroValueFootgun(t *testing.T) {
	d := Default()
	assert.Equal(t, Auto, d.Layout.Width)
	assert.Equal(t, Auto, d.Layout.Height)
	assert.Equal(t, Unbounded, d.Layout.MaxWidth)
	assert.Equal(t, Unbounded, d.Layout.MaxHeight)
	assert.Equal(t, float32(1), d.Layout.FlexShrink)
}
