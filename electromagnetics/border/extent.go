package border

import (
	"github.com/notargets/gofdtd/grid"
	"github.com/notargets/gofdtd/types"
)

/*
GetBorderExtent returns the part of a band of cells lying on the local rank. The band is thickness
cells deep along the normal of dir, starting distance cells inside the global range. On a low face
an H type band sits one cell further out than its E type partner, on a high face both coincide.
Transverse axes span the whole global range. ok is false when the rank holds no cell of the band.
*/
func GetBorderExtent(dir types.Direction, thickness, distance int, isH bool, global, local grid.Range,
	rank int) (r grid.Range, ok bool) {
	return extent(dir, thickness, distance, isH, false, global, local, rank)
}

/*
GetRestrictedBorderExtent is GetBorderExtent with the transverse axes limited to
[lo+distance, hi-distance], the faces of the box enclosed by the bands of all faces.
*/
func GetRestrictedBorderExtent(dir types.Direction, thickness, distance int, isH bool, global, local grid.Range,
	rank int) (r grid.Range, ok bool) {
	return extent(dir, thickness, distance, isH, true, global, local, rank)
}

func extent(dir types.Direction, thickness, distance int, isH, restricted bool, global, local grid.Range,
	rank int) (r grid.Range, ok bool) {
	types.CheckDirection(dir, rank)
	var (
		n = dir.Normal()
	)
	r = global
	if restricted {
		for axis := 0; axis < rank; axis++ {
			if axis != n {
				r.Lo[axis] += distance
				r.Hi[axis] -= distance
			}
		}
	}
	if dir.IsHigh() {
		hi := global.Hi[n] - distance
		r.Lo[n], r.Hi[n] = hi-thickness+1, hi
	} else {
		lo := global.Lo[n] + distance
		if isH {
			lo--
		}
		r.Lo[n], r.Hi[n] = lo, lo+thickness-1
	}
	r = r.Intersect(local)
	ok = !r.Empty()
	return
}
