package grid

import "fmt"

// Index addresses a grid cell; axes beyond the spatial rank stay at zero
type Index [3]int

func Unit(axis int) (ind Index) {
	ind[axis] = 1
	return
}

func (ind Index) Add(o Index) Index {
	return Index{ind[0] + o[0], ind[1] + o[1], ind[2] + o[2]}
}

func (ind Index) Sub(o Index) Index {
	return Index{ind[0] - o[0], ind[1] - o[1], ind[2] - o[2]}
}

// Shift moves the index by n cells along one axis
func (ind Index) Shift(axis, n int) Index {
	ind[axis] += n
	return ind
}

// Range is an inclusive box of indices
type Range struct {
	Lo, Hi Index
}

func NewRange(lo, hi Index) Range {
	return Range{Lo: lo, Hi: hi}
}

// NewRangeFromSize builds the range [0, N-1] along the first rank axes
func NewRangeFromSize(N Index, rank int) (r Range) {
	for d := 0; d < rank; d++ {
		r.Hi[d] = N[d] - 1
	}
	return
}

func (r Range) Empty() bool {
	for d := 0; d < 3; d++ {
		if r.Hi[d] < r.Lo[d] {
			return true
		}
	}
	return false
}

func (r Range) Extent(axis int) int {
	if r.Hi[axis] < r.Lo[axis] {
		return 0
	}
	return r.Hi[axis] - r.Lo[axis] + 1
}

func (r Range) Size() (size int) {
	size = 1
	for d := 0; d < 3; d++ {
		size *= r.Extent(d)
	}
	return
}

func (r Range) Contains(ind Index) bool {
	for d := 0; d < 3; d++ {
		if ind[d] < r.Lo[d] || ind[d] > r.Hi[d] {
			return false
		}
	}
	return true
}

func (r Range) Intersect(o Range) (x Range) {
	for d := 0; d < 3; d++ {
		x.Lo[d], x.Hi[d] = max(r.Lo[d], o.Lo[d]), min(r.Hi[d], o.Hi[d])
	}
	return
}

// Grow widens the range by n cells on both sides of the first rank axes
func (r Range) Grow(n, rank int) Range {
	for d := 0; d < rank; d++ {
		r.Lo[d] -= n
		r.Hi[d] += n
	}
	return r
}

// Slab restricts the range to [lo, hi] along one axis
func (r Range) Slab(axis, lo, hi int) Range {
	r.Lo[axis], r.Hi[axis] = lo, hi
	return r
}

// ForEach visits every index of the range with axis 2 running fastest
func (r Range) ForEach(fn func(ind Index)) {
	if r.Empty() {
		return
	}
	var ind Index
	for ind[0] = r.Lo[0]; ind[0] <= r.Hi[0]; ind[0]++ {
		for ind[1] = r.Lo[1]; ind[1] <= r.Hi[1]; ind[1]++ {
			for ind[2] = r.Lo[2]; ind[2] <= r.Hi[2]; ind[2]++ {
				fn(ind)
			}
		}
	}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d:%d, %d:%d, %d:%d]",
		r.Lo[0], r.Hi[0], r.Lo[1], r.Hi[1], r.Lo[2], r.Hi[2])
}
