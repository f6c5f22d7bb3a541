package current

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofdtd/decomposition"
	"github.com/notargets/gofdtd/grid"
)

type fixedCurrent struct {
	Base
	d         *decomposition.Decomposition
	r         grid.Range
	seed      uint64
	magnetic  bool
	initSteps int
	steps     int
}

func (fc *fixedCurrent) Init() {
	fc.Allocate(fc.d, "Fixed", fc.d.LocalRange().Intersect(fc.r), fc.magnetic)
	rng := rand.New(rand.NewPCG(fc.seed, 7))
	for _, f := range fc.J {
		for i := range f.Data() {
			f.Data()[i] = rng.Float64() - 0.5
		}
	}
}

func (fc *fixedCurrent) StepSchemeInit(dt float64) { fc.initSteps++ }

func (fc *fixedCurrent) StepScheme(dt float64) { fc.steps++ }

func permutations(n int) (perms [][]int) {
	var permute func(p []int, k int)
	permute = func(p []int, k int) {
		if k == len(p) {
			perms = append(perms, append([]int(nil), p...))
			return
		}
		for i := k; i < len(p); i++ {
			p[k], p[i] = p[i], p[k]
			permute(p, k+1)
			p[k], p[i] = p[i], p[k]
		}
	}
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	permute(p, 0)
	return
}

func newDecomposition(t *testing.T) *decomposition.Decomposition {
	c, err := decomposition.NewCluster(grid.Index{12, 8, 1}, 2, 2, [3]bool{}, 1)
	require.NoError(t, err)
	return c.Decomposition(0)
}

func TestContainer(t *testing.T) {
	d := newDecomposition(t)
	ranges := []grid.Range{
		grid.NewRange(grid.Index{0, 0, 0}, grid.Index{2, 7, 0}),   // west slab
		grid.NewRange(grid.Index{9, 0, 0}, grid.Index{11, 7, 0}),  // east slab, disjoint from west
		d.GlobalRange(),                                           // full domain
		grid.NewRange(grid.Index{1, 2, 0}, grid.Index{10, 5, 0}),  // overlapping interior block
		grid.NewRange(grid.Index{-4, -4, 0}, grid.Index{3, 3, 0}), // partially outside the grid
	}
	{ // Summation is independent of the order of the current list
		var reference [3][]float64
		for n, perm := range permutations(len(ranges)) {
			cc := &Container{}
			for axis := 0; axis < 3; axis++ {
				cc.J[axis] = grid.NewField("J", d.LocalRange(), 2, 2, [3]bool{axis == 0, axis == 1, false})
			}
			for _, i := range perm {
				cc.AddCurrent(&fixedCurrent{d: d, r: ranges[i], seed: uint64(i)})
			}
			require.Equal(t, len(ranges), cc.NumCurrents())
			cc.SumCurrents()
			for axis := 0; axis < 3; axis++ {
				vals := cc.J[axis].Values(d.LocalRange())
				if n == 0 {
					reference[axis] = vals
					continue
				}
				assert.InDeltaSlice(t, reference[axis], vals, 1e-14)
			}
		}
	}
	{ // Sums are recomputed from zero on every call and only cover the overlaps
		d := newDecomposition(t)
		cc := NewContainer(d)
		cur := &fixedCurrent{d: d, r: ranges[0], seed: 3}
		cc.AddCurrent(cur)
		cc.SumCurrents()
		first := cc.J[1].Values(d.LocalRange())
		cc.SumCurrents()
		assert.Equal(t, first, cc.J[1].Values(d.LocalRange()))
		assert.Equal(t, cur.J[1].Get(grid.Index{1, 4, 0}), cc.J[1].Get(grid.Index{1, 4, 0}))
		assert.Equal(t, 0., cc.J[1].Get(grid.Index{5, 4, 0}))
		// Magnetic list is independent and uses the B stagger
		mag := &fixedCurrent{d: d, r: ranges[1], seed: 4, magnetic: true}
		cc.AddMagCurrent(mag)
		assert.Equal(t, [3]bool{true, true, false}, mag.J[2].Stagger())
		cc.SumMagCurrents()
		assert.Equal(t, mag.J[2].Get(grid.Index{10, 0, 0}), cc.M[2].Get(grid.Index{10, 0, 0}))
		assert.Equal(t, 0., cc.M[2].Get(grid.Index{1, 4, 0}))
		assert.Equal(t, first, cc.J[1].Values(d.LocalRange()))
	}
	{ // Lifecycle hooks reach every current of the matching list
		d := newDecomposition(t)
		cc := NewContainer(d)
		e := &fixedCurrent{d: d, r: ranges[2], seed: 1}
		h := &fixedCurrent{d: d, r: ranges[2], seed: 2, magnetic: true}
		cc.AddCurrent(e)
		cc.AddMagCurrent(h)
		cc.StepCurrentsInit(1)
		cc.StepCurrents(1)
		cc.StepCurrents(1)
		cc.StepMagCurrentsInit(1)
		cc.StepMagCurrents(1)
		assert.Equal(t, [2]int{1, 2}, [2]int{e.initSteps, e.steps})
		assert.Equal(t, [2]int{1, 1}, [2]int{h.initSteps, h.steps})
	}
	{ // A current without local cells is dropped and leaves the lists unchanged
		d := newDecomposition(t)
		cc := NewContainer(d)
		before, beforeMag := cc.NumCurrents(), cc.NumMagCurrents()
		outside := grid.NewRange(grid.Index{20, 0, 0}, grid.Index{22, 7, 0})
		cc.AddCurrent(&fixedCurrent{d: d, r: outside})
		cc.AddMagCurrent(&fixedCurrent{d: d, r: outside, magnetic: true})
		assert.Equal(t, before, cc.NumCurrents())
		assert.Equal(t, beforeMag, cc.NumMagCurrents())
		base := &Base{}
		assert.False(t, base.Valid())
	}
}
