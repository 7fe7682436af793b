package store

// Rect is the result of the most recent place phase, in viewport
// coordinates.
type Rect struct {
	X, Y, W, H float32
}

// Size is the result of the most recent measure phase.
type Size struct {
	W, H float32
}

// CacheEntry mirrors spec.md's data model table exactly: the
// constraints and style version a size was produced under, the size
// itself, and a validity bit.
type CacheEntry struct {
	AvailW, AvailH      float32
	StyleVersionAtCache uint64
	OutW, OutH          float32
	Valid               bool
}
