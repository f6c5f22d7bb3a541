package grid

import (
	"fmt"
)

/*
Field is a dense array over an inner index range plus ghost layers along the first rank axes.
Storage is flat with axis 2 contiguous. Fields with the same inner range, ghost width and rank
share the same layout, so an offset computed on one of them addresses the same cell in the others.
*/
type Field struct {
	Name    string
	inner   Range
	full    Range
	ghost   int
	rank    int
	stagger [3]bool
	strides [3]int
	data    []float64
}

func NewField(name string, inner Range, ghost, rank int, stagger [3]bool) (f *Field) {
	if rank < 1 || rank > 3 {
		panic(fmt.Errorf("unsupported spatial rank %d for field %s", rank, name))
	}
	f = &Field{
		Name:    name,
		inner:   inner,
		full:    inner.Grow(ghost, rank),
		ghost:   ghost,
		rank:    rank,
		stagger: stagger,
	}
	var (
		size = f.full.Size()
	)
	f.strides[2] = 1
	f.strides[1] = f.full.Extent(2)
	f.strides[0] = f.full.Extent(1) * f.full.Extent(2)
	f.data = make([]float64, size)
	return
}

func (f *Field) InnerRange() Range { return f.inner }
func (f *Field) FullRange() Range { return f.full }
func (f *Field) Ghost() int { return f.ghost }
func (f *Field) Rank() int { return f.rank }
func (f *Field) Stagger() [3]bool { return f.stagger }
func (f *Field) Stride(axis int) int { return f.strides[axis] }

// Data exposes the flat storage, addressed with Offset
func (f *Field) Data() []float64 { return f.data }

func (f *Field) Offset(ind Index) int {
	return (ind[0]-f.full.Lo[0])*f.strides[0] +
		(ind[1]-f.full.Lo[1])*f.strides[1] +
		(ind[2]-f.full.Lo[2])*f.strides[2]
}

func (f *Field) Get(ind Index) float64 { return f.data[f.Offset(ind)] }

func (f *Field) Set(ind Index, val float64) { f.data[f.Offset(ind)] = val }

func (f *Field) Add(ind Index, val float64) { f.data[f.Offset(ind)] += val }

func (f *Field) Fill(val float64) {
	for i := range f.data {
		f.data[i] = val
	}
}

func (f *Field) Clear() { f.Fill(0) }

// Empty is true when the inner range holds no cells
func (f *Field) Empty() bool { return f.inner.Empty() }

func (f *Field) SameLayout(o *Field) bool {
	return f.full == o.full && f.rank == o.rank
}

// Values gathers the values of a sub-range in iteration order
func (f *Field) Values(r Range) (vals []float64) {
	vals = make([]float64, 0, r.Size())
	r.ForEach(func(ind Index) {
		vals = append(vals, f.data[f.Offset(ind)])
	})
	return
}

// SetValues scatters values gathered by Values back onto a sub-range
func (f *Field) SetValues(r Range, vals []float64) {
	if len(vals) != r.Size() {
		panic(fmt.Errorf("field %s: %d values do not fit range %v", f.Name, len(vals), r))
	}
	var i int
	r.ForEach(func(ind Index) {
		f.data[f.Offset(ind)] = vals[i]
		i++
	})
}

// AddField accumulates src into f over the overlap of both inner ranges
func (f *Field) AddField(src *Field) {
	if f.stagger != src.stagger {
		panic(fmt.Errorf("field %s stagger %v cannot accumulate %s stagger %v",
			f.Name, f.stagger, src.Name, src.stagger))
	}
	f.inner.Intersect(src.inner).ForEach(func(ind Index) {
		f.data[f.Offset(ind)] += src.data[src.Offset(ind)]
	})
}

/*
Position returns the coordinate of a sample along one axis in units of the cell size,
including the half cell offset of a staggered axis.
*/
func (f *Field) Position(ind Index, axis int) float64 {
	if f.stagger[axis] {
		return float64(ind[axis]) + 0.5
	}
	return float64(ind[axis])
}
