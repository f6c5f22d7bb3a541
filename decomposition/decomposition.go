package decomposition

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gofdtd/grid"
)

// Decomposition is the view of one rank: its local range, its registered fields and its neighbours
type Decomposition struct {
	cluster   *Cluster
	ID        int
	local     grid.Range
	low, high int // neighbouring ranks along axis 0, -1 if none
	fromLow   chan message
	fromHigh  chan message
	fields    map[string]*grid.Field
	lines     map[string]*grid.Line
}

type message struct {
	names []string
	slabs [][]float64
}

const linkCapacity = 4

func newDecomposition(c *Cluster, id int) (d *Decomposition) {
	kMin, kMax := c.Partitions.GetBucketRange(id)
	d = &Decomposition{
		cluster:  c,
		ID:       id,
		local:    c.Global.Slab(0, kMin, kMax-1),
		fromLow:  make(chan message, linkCapacity),
		fromHigh: make(chan message, linkCapacity),
		fields:   make(map[string]*grid.Field),
		lines:    make(map[string]*grid.Line),
	}
	d.low, d.high = c.Partitions.Neighbors(id, c.Periodic[0])
	return
}

func (d *Decomposition) Dimension() int { return d.cluster.Dimension }

func (d *Decomposition) GlobalRange() grid.Range { return d.cluster.Global }

func (d *Decomposition) LocalRange() grid.Range { return d.local }

func (d *Decomposition) Ghost() int { return d.cluster.Ghost }

func (d *Decomposition) Size() int { return d.cluster.Size() }

func (d *Decomposition) IsPeriodic(axis int) bool { return d.cluster.Periodic[axis] }

// IsRoot is true for the rank that reports progress
func (d *Decomposition) IsRoot() bool { return d.ID == 0 }

// RegisterField allocates a ghosted field over the local range and makes it retrievable by name
func (d *Decomposition) RegisterField(name string, stagger [3]bool) (f *grid.Field) {
	if _, exists := d.fields[name]; exists {
		panic(fmt.Errorf("field %s registered twice on rank %d", name, d.ID))
	}
	f = grid.NewField(name, d.local, d.cluster.Ghost, d.cluster.Dimension, stagger)
	d.fields[name] = f
	return
}

func (d *Decomposition) RetrieveField(name string) (f *grid.Field, err error) {
	var ok bool
	if f, ok = d.fields[name]; !ok {
		err = fmt.Errorf("no field named %s on rank %d", name, d.ID)
	}
	return
}

// MustRetrieveField is RetrieveField for wiring that cannot proceed without the field
func (d *Decomposition) MustRetrieveField(name string) (f *grid.Field) {
	var err error
	if f, err = d.RetrieveField(name); err != nil {
		panic(err)
	}
	return
}

func (d *Decomposition) FieldNames() (names []string) {
	for name := range d.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// NewField allocates a private field without ghosts over a sub-range, it is not registered
func (d *Decomposition) NewField(name string, r grid.Range, stagger [3]bool) *grid.Field {
	return grid.NewField(name, r, 0, d.cluster.Dimension, stagger)
}

// RegisterLine allocates a coefficient line along one axis covering the local range and its ghosts
func (d *Decomposition) RegisterLine(name string, axis int, val float64) (l *grid.Line) {
	if _, exists := d.lines[name]; exists {
		panic(fmt.Errorf("line %s registered twice on rank %d", name, d.ID))
	}
	var (
		g = d.cluster.Ghost
	)
	if axis >= d.cluster.Dimension {
		g = 0
	}
	l = grid.NewLine(name, axis, d.local.Lo[axis]-g, d.local.Hi[axis]+g, val)
	d.lines[name] = l
	return
}

func (d *Decomposition) RetrieveLine(name string) (l *grid.Line, err error) {
	var ok bool
	if l, ok = d.lines[name]; !ok {
		err = fmt.Errorf("no line named %s on rank %d", name, d.ID)
	}
	return
}

/*
Exchange refreshes the ghost layers of the fields. Periodic axes that are not split wrap locally,
axis 0 is exchanged with the neighbouring ranks last so that corner ghosts are consistent.
Ghosts on non-periodic global boundaries are left untouched.
Every rank must call Exchange with the same fields in the same order.
*/
func (d *Decomposition) Exchange(fields ...*grid.Field) {
	var (
		c = d.cluster
		g = c.Ghost
	)
	if g == 0 {
		return
	}
	for axis := 1; axis < c.Dimension; axis++ {
		if c.Periodic[axis] {
			for _, f := range fields {
				wrap(f, axis, g)
			}
		}
	}
	switch {
	case c.Size() == 1:
		if c.Periodic[0] {
			for _, f := range fields {
				wrap(f, 0, g)
			}
		}
	default:
		d.exchangeAxis0(fields, g)
	}
}

func wrap(f *grid.Field, axis, g int) {
	var (
		full   = f.FullRange()
		lo, hi = f.InnerRange().Lo[axis], f.InnerRange().Hi[axis]
	)
	f.SetValues(full.Slab(axis, lo-g, lo-1), f.Values(full.Slab(axis, hi-g+1, hi)))
	f.SetValues(full.Slab(axis, hi+1, hi+g), f.Values(full.Slab(axis, lo, lo+g-1)))
}

func (d *Decomposition) exchangeAxis0(fields []*grid.Field, g int) {
	var (
		lo, hi   = d.local.Lo[0], d.local.Hi[0]
		names    = make([]string, len(fields))
		toLow    = message{names: names, slabs: make([][]float64, len(fields))}
		toHigh   = message{names: names, slabs: make([][]float64, len(fields))}
		ranks    = d.cluster.ranks
		received message
	)
	for i, f := range fields {
		names[i] = f.Name
		full := f.FullRange()
		toLow.slabs[i] = f.Values(full.Slab(0, lo, lo+g-1))
		toHigh.slabs[i] = f.Values(full.Slab(0, hi-g+1, hi))
	}
	if d.low >= 0 {
		d.send(ranks[d.low].fromHigh, toLow)
	}
	if d.high >= 0 {
		d.send(ranks[d.high].fromLow, toHigh)
	}
	if d.low >= 0 {
		received = d.receive(d.fromLow, names)
		for i, f := range fields {
			f.SetValues(f.FullRange().Slab(0, lo-g, lo-1), received.slabs[i])
		}
	}
	if d.high >= 0 {
		received = d.receive(d.fromHigh, names)
		for i, f := range fields {
			f.SetValues(f.FullRange().Slab(0, hi+1, hi+g), received.slabs[i])
		}
	}
}

func (d *Decomposition) send(ch chan message, msg message) {
	select {
	case ch <- msg:
	case <-d.cluster.abort:
		panic(errAborted)
	}
}

func (d *Decomposition) receive(ch chan message, names []string) (msg message) {
	select {
	case msg = <-ch:
	case <-d.cluster.abort:
		panic(errAborted)
	}
	if len(msg.names) != len(names) {
		panic(fmt.Errorf("rank %d: exchange of %v matched with %v", d.ID, names, msg.names))
	}
	for i := range names {
		if msg.names[i] != names[i] {
			panic(fmt.Errorf("rank %d: exchange of %v matched with %v", d.ID, names, msg.names))
		}
	}
	return
}

// SumAll adds one value from every rank and returns the total on all ranks, summed in rank order
func (d *Decomposition) SumAll(val float64) (sum float64) {
	var (
		c = d.cluster
	)
	if c.Size() == 1 {
		return val
	}
	if d.ID != 0 {
		select {
		case c.gather <- rankValue{rank: d.ID, val: val}:
		case <-c.abort:
			panic(errAborted)
		}
		select {
		case sum = <-c.broadcast[d.ID]:
		case <-c.abort:
			panic(errAborted)
		}
		return
	}
	vals := make([]float64, c.Size())
	vals[0] = val
	for n := 1; n < c.Size(); n++ {
		select {
		case rv := <-c.gather:
			vals[rv.rank] = rv.val
		case <-c.abort:
			panic(errAborted)
		}
	}
	sum = floats.Sum(vals)
	for r := 1; r < c.Size(); r++ {
		c.broadcast[r] <- sum
	}
	return
}

// GridContext iterates the local sub-range shared by a set of co-registered fields
type GridContext struct {
	Range grid.Range
}

func (d *Decomposition) GridContext(fields ...*grid.Field) (gc GridContext) {
	gc.Range = d.local
	for _, f := range fields {
		gc.Range = gc.Range.Intersect(f.InnerRange())
	}
	return
}

// ForEachRange calls fn once per owned sub-range, not at all if the fields share no cells
func (gc GridContext) ForEachRange(fn func(r grid.Range)) {
	if gc.Range.Empty() {
		return
	}
	fn(gc.Range)
}

func (gc GridContext) ForEach(fn func(ind grid.Index)) {
	gc.Range.ForEach(fn)
}
