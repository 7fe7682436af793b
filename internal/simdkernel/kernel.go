// Package simdkernel implements spec.md §4.4: vectorized clamp/offset
// kernels over contiguous float32 slices, used by the solver to batch
// per-axis constraint application across all children of a container
// into one call instead of one branch per child.
//
// Go has no portable SIMD intrinsics reachable without cgo or
// per-architecture assembly, and no example in the retrieved pack
// ships either for this kind of numeric kernel (the closest analogue,
// other_examples/85f0b4ef_shaia-BloomFilter__bloomfilter.go.go, also
// falls back to a plain Go "vector width + scalar tail" shape rather
// than real intrinsics, gated behind a simd.Operations interface whose
// implementation wasn't retrieved). This package follows the same
// shape: a lane width the Go compiler's own auto-vectorizer can pick
// up on amd64/arm64, plus a scalar tail for the remainder, and it is
// required to produce results bit-identical to the scalar reference —
// there is no approximation here, only a loop-structuring hint.
package simdkernel

const lanes = 4

// Clamp sets xs[i] = min(max(xs[i], mins[i]), maxs[i]) for all i. The
// three slices must have equal length; Clamp panics otherwise, since a
// length mismatch can only be a caller bug (the solver always builds
// all three from the same child list).
func Clamp(xs, mins, maxs []float32) {
	n := len(xs)
	if len(mins) != n || len(maxs) != n {
		panic("simdkernel: Clamp: mismatched slice lengths")
	}

	i := 0
	for ; i+lanes <= n; i += lanes {
		for l := 0; l < lanes; l++ {
			xs[i+l] = clampOne(xs[i+l], mins[i+l], maxs[i+l])
		}
	}
	for ; i < n; i++ {
		xs[i] = clampOne(xs[i], mins[i], maxs[i])
	}
}

func clampOne(x, lo, hi float32) float32 {
	if x < lo {
		x = lo
	}
	if x > hi {
		x = hi
	}
	return x
}

// AddOffsets sets xs[i] += deltas[i] for all i. Slices must have equal
// length; panics otherwise.
func AddOffsets(xs, deltas []float32) {
	n := len(xs)
	if len(deltas) != n {
		panic("simdkernel: AddOffsets: mismatched slice lengths")
	}

	i := 0
	for ; i+lanes <= n; i += lanes {
		for l := 0; l < lanes; l++ {
			xs[i+l] += deltas[i+l]
		}
	}
	for ; i < n; i++ {
		xs[i] += deltas[i]
	}
}
