package simulation

import (
	"fmt"
	"io"
	"os"

	"github.com/notargets/gofdtd/decomposition"
	"github.com/notargets/gofdtd/grid"
)

/*
Context is the per rank simulation state shared by the solver, its currents and the diagnostics.
It replaces global state: time, step, grid spacing and the decomposition are reached through it.
*/
type Context struct {
	Dimension     int
	GridSize      grid.Index // global number of cells per axis
	Dx            [3]float64
	Origin        [3]float64 // subtracted from every position, global index 0 sits at -Origin
	Dt            float64
	TMax          float64
	Time          float64
	Step          int
	Verbose       bool
	Out           io.Writer
	Decomposition *decomposition.Decomposition
}

func NewContext(d *decomposition.Decomposition, dx [3]float64, dt, tMax float64, verbose bool) (ctx *Context) {
	g := d.GlobalRange()
	ctx = &Context{
		Dimension:     d.Dimension(),
		Dx:            dx,
		Dt:            dt,
		TMax:          tMax,
		Verbose:       verbose,
		Out:           os.Stdout,
		Decomposition: d,
	}
	for axis := 0; axis < 3; axis++ {
		ctx.GridSize[axis] = g.Extent(axis)
		if axis >= ctx.Dimension || ctx.Dx[axis] == 0 {
			ctx.Dx[axis] = 1
		}
	}
	return
}

// Position is the physical coordinate of a sample of field f at index ind
func (ctx *Context) Position(f *grid.Field, ind grid.Index) (x [3]float64) {
	for axis := 0; axis < ctx.Dimension; axis++ {
		x[axis] = f.Position(ind, axis)*ctx.Dx[axis] - ctx.Origin[axis]
	}
	return
}

// Advance moves the clock forward by one time step
func (ctx *Context) Advance() {
	ctx.Time += ctx.Dt
	ctx.Step++
}

// Logf prints progress from the root rank when verbose output is on
func (ctx *Context) Logf(format string, args ...any) {
	if !ctx.Verbose || !ctx.Decomposition.IsRoot() {
		return
	}
	fmt.Fprintf(ctx.Out, format, args...)
}
