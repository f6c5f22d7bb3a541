package decomposition

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofdtd/grid"
)

func label(ind grid.Index) float64 {
	return float64(1 + ind[0] + 100*ind[1] + 10000*ind[2])
}

func wrapIndex(i, n int) int {
	return ((i % n) + n) % n
}

func TestExchange(t *testing.T) {
	{ // 1D periodic, three ranks
		N := grid.Index{12, 1, 1}
		c, err := NewCluster(N, 1, 2, [3]bool{true, false, false}, 3)
		require.NoError(t, err)
		assert.Equal(t, 3, c.Size())
		err = c.Run(func(d *Decomposition) error {
			f := d.RegisterField("Ey", [3]bool{})
			d.LocalRange().ForEach(func(ind grid.Index) { f.Set(ind, label(ind)) })
			d.Exchange(f)
			f.FullRange().ForEach(func(ind grid.Index) {
				src := grid.Index{wrapIndex(ind[0], N[0]), 0, 0}
				assert.Equal(t, label(src), f.Get(ind), "rank %d index %v", d.ID, ind)
			})
			return nil
		})
		require.NoError(t, err)
	}
	{ // 2D, walls on axis 0 and periodic axis 1, two ranks, two fields per exchange
		N := grid.Index{8, 5, 1}
		c, err := NewCluster(N, 2, 2, [3]bool{false, true, true}, 2)
		require.NoError(t, err)
		assert.False(t, c.Periodic[2])
		err = c.Run(func(d *Decomposition) error {
			f := d.RegisterField("Ex", [3]bool{true, false, false})
			h := d.RegisterField("Bz", [3]bool{true, true, false})
			d.LocalRange().ForEach(func(ind grid.Index) {
				f.Set(ind, label(ind))
				h.Set(ind, -label(ind))
			})
			d.Exchange(f, h)
			f.FullRange().ForEach(func(ind grid.Index) {
				if ind[0] < 0 || ind[0] >= N[0] {
					assert.Equal(t, 0., f.Get(ind), "wall ghost %v", ind)
					return
				}
				src := grid.Index{ind[0], wrapIndex(ind[1], N[1]), 0}
				assert.Equal(t, label(src), f.Get(ind), "rank %d index %v", d.ID, ind)
				assert.Equal(t, -label(src), h.Get(ind), "rank %d index %v", d.ID, ind)
			})
			return nil
		})
		require.NoError(t, err)
	}
	{ // Two periodic ranks are each other's low and high neighbour
		N := grid.Index{6, 1, 1}
		c, err := NewCluster(N, 1, 2, [3]bool{true, false, false}, 2)
		require.NoError(t, err)
		err = c.Run(func(d *Decomposition) error {
			f := d.RegisterField("Ez", [3]bool{})
			d.LocalRange().ForEach(func(ind grid.Index) { f.Set(ind, label(ind)) })
			for n := 0; n < 3; n++ {
				d.Exchange(f)
			}
			f.FullRange().ForEach(func(ind grid.Index) {
				assert.Equal(t, label(grid.Index{wrapIndex(ind[0], N[0]), 0, 0}), f.Get(ind))
			})
			return nil
		})
		require.NoError(t, err)
	}
}

func TestDecomposition(t *testing.T) {
	{ // Construction checks
		_, err := NewCluster(grid.Index{10, 1, 1}, 4, 2, [3]bool{}, 1)
		assert.Error(t, err)
		_, err = NewCluster(grid.Index{10, 1, 1}, 2, 2, [3]bool{}, 1)
		assert.Error(t, err)
		_, err = NewCluster(grid.Index{5, 1, 1}, 1, 2, [3]bool{}, 3)
		assert.Error(t, err)
	}
	{ // Local ranges tile the global range
		c, err := NewCluster(grid.Index{10, 4, 1}, 2, 2, [3]bool{}, 3)
		require.NoError(t, err)
		total := 0
		for r := 0; r < c.Size(); r++ {
			d := c.Decomposition(r)
			assert.Equal(t, c.Global, d.GlobalRange())
			assert.Equal(t, 0, d.LocalRange().Lo[1])
			assert.Equal(t, 3, d.LocalRange().Hi[1])
			total += d.LocalRange().Size()
		}
		assert.Equal(t, c.Global.Size(), total)
		assert.Equal(t, grid.Index{4, 0, 0}, c.Decomposition(1).LocalRange().Lo)
		for r := 0; r < c.Size(); r++ {
			c.Decomposition(r).LocalRange().ForEach(func(ind grid.Index) {
				assert.Equal(t, r, c.Owner(ind))
			})
		}
		assert.Equal(t, -1, c.Owner(grid.Index{10, 0, 0}))
		assert.Equal(t, -1, c.Owner(grid.Index{0, 4, 0}))
	}
	{ // Registries
		c, err := NewCluster(grid.Index{10, 1, 1}, 1, 2, [3]bool{}, 1)
		require.NoError(t, err)
		d := c.Decomposition(0)
		f := d.RegisterField("Ex", [3]bool{true, false, false})
		g, err := d.RetrieveField("Ex")
		require.NoError(t, err)
		assert.True(t, f == g)
		_, err = d.RetrieveField("Ey")
		assert.Error(t, err)
		assert.Panics(t, func() { d.MustRetrieveField("Ey") })
		assert.Panics(t, func() { d.RegisterField("Ex", [3]bool{}) })
		d.RegisterField("Bz", [3]bool{true, false, false})
		assert.Equal(t, []string{"Bz", "Ex"}, d.FieldNames())
		l := d.RegisterLine("KappaEdx", 0, 1)
		assert.Equal(t, -2, l.Lo)
		assert.Equal(t, 11, l.Hi)
		ly := d.RegisterLine("KappaEdy", 1, 1)
		assert.Equal(t, 0, ly.Lo)
		assert.Equal(t, 0, ly.Hi)
		_, err = d.RetrieveLine("KappaEdz")
		assert.Error(t, err)
		assert.True(t, d.IsRoot())
		p := d.NewField("Psi", grid.NewRange(grid.Index{2, 0, 0}, grid.Index{4, 0, 0}), [3]bool{})
		assert.Equal(t, 3, len(p.Data()))
		gc := d.GridContext(f, p)
		count := 0
		gc.ForEachRange(func(r grid.Range) { count += r.Size() })
		assert.Equal(t, 3, count)
		empty := d.GridContext(d.NewField("Far", grid.NewRange(grid.Index{20, 0, 0}, grid.Index{21, 0, 0}), [3]bool{}))
		empty.ForEachRange(func(r grid.Range) { t.Error("empty context visited") })
	}
	{ // Rank ordered all-reduce
		c, err := NewCluster(grid.Index{16, 1, 1}, 1, 2, [3]bool{}, 4)
		require.NoError(t, err)
		sums := make([]float64, c.Size())
		err = c.Run(func(d *Decomposition) error {
			var s float64
			for n := 0; n < 5; n++ {
				s = d.SumAll(float64(d.ID + n))
			}
			sums[d.ID] = s
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []float64{22, 22, 22, 22}, sums)
	}
	{ // A failing rank releases the others
		c, err := NewCluster(grid.Index{16, 1, 1}, 1, 2, [3]bool{}, 4)
		require.NoError(t, err)
		failure := errors.New("setup failed")
		err = c.Run(func(d *Decomposition) error {
			f := d.RegisterField("Ex", [3]bool{true, false, false})
			if d.ID == 2 {
				return failure
			}
			for n := 0; n < 10; n++ {
				d.Exchange(f)
			}
			return nil
		})
		assert.ErrorIs(t, err, failure)
	}
}
