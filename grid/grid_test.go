package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRange(t *testing.T) {
	{ // Extents and intersections
		r := NewRangeFromSize(Index{10, 4, 7}, 2)
		assert.Equal(t, Index{9, 3, 0}, r.Hi)
		assert.Equal(t, 40, r.Size())
		assert.False(t, r.Empty())
		x := r.Intersect(NewRange(Index{5, -2, 0}, Index{20, 1, 0}))
		assert.Equal(t, NewRange(Index{5, 0, 0}, Index{9, 1, 0}), x)
		assert.Equal(t, 10, x.Size())
		none := r.Intersect(NewRange(Index{12, 0, 0}, Index{14, 3, 0}))
		assert.True(t, none.Empty())
		assert.Equal(t, 0, none.Size())
		assert.True(t, r.Contains(Index{9, 3, 0}))
		assert.False(t, r.Contains(Index{9, 3, 1}))
		g := r.Grow(2, 2)
		assert.Equal(t, Index{-2, -2, 0}, g.Lo)
		assert.Equal(t, Index{11, 5, 0}, g.Hi)
		s := r.Slab(0, 3, 3)
		assert.Equal(t, 4, s.Size())
	}
	{ // Iteration order is axis 2 fastest
		var visited []Index
		NewRange(Index{0, 0, 0}, Index{1, 0, 1}).ForEach(func(ind Index) {
			visited = append(visited, ind)
		})
		assert.Equal(t, []Index{{0, 0, 0}, {0, 0, 1}, {1, 0, 0}, {1, 0, 1}}, visited)
		count := 0
		NewRange(Index{1, 0, 0}, Index{0, 0, 0}).ForEach(func(ind Index) { count++ })
		assert.Equal(t, 0, count)
	}
	{ // Index arithmetic
		ind := Index{1, 2, 3}
		assert.Equal(t, Index{1, 3, 3}, ind.Add(Unit(1)))
		assert.Equal(t, Index{1, 2, 2}, ind.Sub(Unit(2)))
		assert.Equal(t, Index{-1, 2, 3}, ind.Shift(0, -2))
	}
}

func TestField(t *testing.T) {
	{ // Layout with ghosts along the first rank axes only
		f := NewField("Ey", NewRangeFromSize(Index{5, 3, 9}, 2), 2, 2, [3]bool{false, true, false})
		assert.Equal(t, Index{-2, -2, 0}, f.FullRange().Lo)
		assert.Equal(t, Index{6, 4, 0}, f.FullRange().Hi)
		assert.Equal(t, 9*7, len(f.Data()))
		assert.Equal(t, 1, f.Stride(2))
		assert.Equal(t, 1, f.Stride(1))
		assert.Equal(t, 7, f.Stride(0))
		f.Set(Index{-2, -2, 0}, 3)
		f.Add(Index{-2, -2, 0}, 1)
		assert.Equal(t, 4., f.Data()[0])
		f.Set(Index{4, 2, 0}, 5)
		assert.Equal(t, 5., f.Get(Index{4, 2, 0}))
		assert.Equal(t, 1.5, f.Position(Index{0, 1, 0}, 1))
		assert.Equal(t, 4., f.Position(Index{4, 1, 0}, 0))
	}
	{ // Gather, scatter, accumulate
		inner := NewRangeFromSize(Index{6, 1, 1}, 1)
		a := NewField("Jx", inner, 2, 1, [3]bool{true, false, false})
		b := NewField("Jx", NewRange(Index{2, 0, 0}, Index{8, 0, 0}), 0, 1, [3]bool{true, false, false})
		b.Fill(1)
		a.AddField(b)
		a.AddField(b)
		assert.Equal(t, []float64{0, 0, 2, 2, 2, 2}, a.Values(inner))
		a.SetValues(inner.Slab(0, 0, 1), []float64{7, 8})
		assert.Equal(t, []float64{7, 8, 2, 2, 2, 2}, a.Values(inner))
		assert.Panics(t, func() { a.SetValues(inner, []float64{1}) })
		c := NewField("Ey", inner, 2, 1, [3]bool{})
		assert.Panics(t, func() { a.AddField(c) })
		d := NewField("Jx2", inner, 2, 1, [3]bool{true, false, false})
		d.AddField(a)
		assert.Equal(t, a.Data(), d.Data())
		d.Clear()
		assert.Equal(t, make([]float64, 6), d.Values(inner))
	}
	{ // Lines
		l := NewLine("KappaEdx", 0, -2, 11, 1)
		assert.Equal(t, 1., l.Get(-2))
		l.Set(11, 15)
		assert.Equal(t, 15., l.Get(11))
		assert.True(t, l.Contains(0))
		assert.False(t, l.Contains(12))
		assert.Panics(t, func() { NewLine("bad", 0, 3, 2, 0) })
	}
}
