package simdkernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp_AcrossLaneAndTail(t *testing.T) {
	// 6 elements: one full 4-lane group plus a 2-element scalar tail.
	xs := []float32{-5, 10, 3, 100, -1, 7}
	mins := []float32{0, 0, 0, 0, 0, 0}
	maxs := []float32{8, 8, 8, 8, 8, 8}

	Clamp(xs, mins, maxs)

	assert.Equal(t, []float32{0, 8, 3, 8, 0, 7}, xs)
}

func TestClamp_MismatchedLengthsPanics(t *testing.T) {
	assert.Panics(t, func() {
		Clamp([]float32{1, 2}, []float32{0}, []float32{10, 10})
	})
}

func TestAddOffsets(t *testing.T) {
	xs := []float32{1, 2, 3, 4, 5}
	deltas := []float32{10, 10, 10, 10, 10}

	AddOffsets(xs, deltas)

	assert.Equal(t, []float32{11, 12, 13, 14, 15}, xs)
}
