package border

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gofdtd/grid"
	"github.com/notargets/gofdtd/types"
)

func TestBorderExtent(t *testing.T) {
	var (
		global = grid.NewRangeFromSize(grid.Index{20, 10, 1}, 2)
	)
	{ // Whole domain on one rank
		tests := []struct {
			dir                 types.Direction
			thickness, distance int
			isH                 bool
			lo, hi              grid.Index
		}{
			{types.West, 8, 0, false, grid.Index{0, 0, 0}, grid.Index{7, 9, 0}},
			{types.East, 8, 0, false, grid.Index{12, 0, 0}, grid.Index{19, 9, 0}},
			{types.West, 1, 3, false, grid.Index{3, 0, 0}, grid.Index{3, 9, 0}},
			{types.West, 1, 3, true, grid.Index{2, 0, 0}, grid.Index{2, 9, 0}},
			{types.East, 1, 3, false, grid.Index{16, 0, 0}, grid.Index{16, 9, 0}},
			{types.East, 1, 3, true, grid.Index{16, 0, 0}, grid.Index{16, 9, 0}},
			{types.South, 2, 1, false, grid.Index{0, 1, 0}, grid.Index{19, 2, 0}},
			{types.North, 2, 1, true, grid.Index{0, 7, 0}, grid.Index{19, 8, 0}},
		}
		for _, tt := range tests {
			r, ok := GetBorderExtent(tt.dir, tt.thickness, tt.distance, tt.isH, global, global, 2)
			assert.True(t, ok, "%s", tt.dir)
			assert.Equal(t, grid.NewRange(tt.lo, tt.hi), r, "%s", tt.dir)
		}
	}
	{ // Restricted extents stop at the faces of the enclosed box
		r, ok := GetRestrictedBorderExtent(types.West, 1, 3, false, global, global, 2)
		assert.True(t, ok)
		assert.Equal(t, grid.NewRange(grid.Index{3, 3, 0}, grid.Index{3, 6, 0}), r)
		r, ok = GetRestrictedBorderExtent(types.North, 1, 2, false, global, global, 2)
		assert.True(t, ok)
		assert.Equal(t, grid.NewRange(grid.Index{2, 7, 0}, grid.Index{17, 7, 0}), r)
	}
	{ // Local ranges clip the band and ranks without cells of the band report so
		left := global.Slab(0, 0, 9)
		right := global.Slab(0, 10, 19)
		r, ok := GetBorderExtent(types.East, 8, 0, false, global, left, 2)
		assert.False(t, ok)
		r, ok = GetBorderExtent(types.East, 12, 0, false, global, left, 2)
		assert.True(t, ok)
		assert.Equal(t, grid.NewRange(grid.Index{8, 0, 0}, grid.Index{9, 9, 0}), r)
		r, ok = GetBorderExtent(types.South, 8, 0, false, global, right, 2)
		assert.True(t, ok)
		assert.Equal(t, grid.NewRange(grid.Index{10, 0, 0}, grid.Index{19, 7, 0}), r)
	}
	{ // An H band at zero distance on a low face lies outside the grid
		_, ok := GetBorderExtent(types.West, 1, 0, true, global, global, 2)
		assert.False(t, ok)
	}
	{ // Faces beyond the rank are rejected
		assert.Panics(t, func() { GetBorderExtent(types.Down, 1, 0, false, global, global, 2) })
	}
}
