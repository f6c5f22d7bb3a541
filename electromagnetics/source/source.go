package source

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gofdtd/electromagnetics/border"
	"github.com/notargets/gofdtd/electromagnetics/current"
	"github.com/notargets/gofdtd/grid"
	"github.com/notargets/gofdtd/simulation"
	"github.com/notargets/gofdtd/types"
)

/*
FieldFunction is an analytic incident wave. It returns the electric field in V/m and the magnetic
field strength in A/m at physical position x and time t.
*/
type FieldFunction interface {
	Field(x r3.Vec, t float64) (E, H r3.Vec)
}

func component(v r3.Vec, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	panic(fmt.Errorf("no vector component %d", axis))
}

func position(x [3]float64) r3.Vec { return r3.Vec{X: x[0], Y: x[1], Z: x[2]} }

/*
IncidentSource injects a wave through the faces of a total field box. The box spans
[distance, N-1-distance] along every axis of the grid. Inside it the solver holds incident plus
scattered field, outside only the scattered part.
*/
type IncidentSource struct {
	ctx      *simulation.Context
	Func     FieldFunction
	Distance int
	Faces    []types.Direction
}

// NewIncidentSource injects through the listed faces, or through every face of the grid when none are given
func NewIncidentSource(ctx *simulation.Context, fn FieldFunction, distance int, faces ...types.Direction) *IncidentSource {
	if distance < 1 {
		panic(fmt.Errorf("incident source distance must be at least one cell, have %d", distance))
	}
	for _, dir := range faces {
		types.CheckDirection(dir, ctx.Dimension)
	}
	return &IncidentSource{
		ctx:      ctx,
		Func:     fn,
		Distance: distance,
		Faces:    faces,
	}
}

// NeedsCurrent is true when the source injects through face dir
func (s *IncidentSource) NeedsCurrent(dir types.Direction) bool {
	if dir.Normal() >= s.ctx.Dimension {
		return false
	}
	if len(s.Faces) == 0 {
		return true
	}
	for _, f := range s.Faces {
		if f == dir {
			return true
		}
	}
	return false
}

func (s *IncidentSource) InitCurrents(container *current.Container) {
	for _, dir := range types.DirectionsForRank(s.ctx.Dimension) {
		if !s.NeedsCurrent(dir) {
			continue
		}
		container.AddCurrent(&incidentCurrent{src: s, dir: dir})
		container.AddMagCurrent(&incidentCurrent{src: s, dir: dir, magnetic: true})
	}
}

/*
incidentCurrent is the surface current on one face of the total field box. The electric variant
sits on the first total field cell and carries the tangential H of the wave, the magnetic variant
sits on the last scattered field cell of a low face and carries the tangential E.
*/
type incidentCurrent struct {
	current.Base
	src      *IncidentSource
	dir      types.Direction
	magnetic bool
	boxHi    grid.Index     // upper corner of the total field box
	sampled  [3]*grid.Field // registered fields whose positions the wave is sampled at
}

func (ic *incidentCurrent) Init() {
	var (
		ctx = ic.src.ctx
		d   = ctx.Decomposition
		g   = d.GlobalRange()
		r   grid.Range
		ok  bool
	)
	r, ok = border.GetRestrictedBorderExtent(ic.dir, 1, ic.src.Distance, ic.magnetic, g, d.LocalRange(),
		ctx.Dimension)
	if !ok {
		return
	}
	for axis := 0; axis < ctx.Dimension; axis++ {
		ic.boxHi[axis] = g.Hi[axis] - ic.src.Distance
	}
	prefix := "IncE"
	if ic.magnetic {
		prefix = "IncH"
	}
	ic.Allocate(d, prefix+ic.dir.String(), r, ic.magnetic)
	for axis := 0; axis < 3; axis++ {
		fc := types.FieldComponent(axis)
		if !ic.magnetic {
			fc += types.Bx
		}
		ic.sampled[axis] = d.MustRetrieveField(fc.String())
	}
}

// StepSchemeInit sets the magnetic current for the half step that starts B
func (ic *incidentCurrent) StepSchemeInit(dt float64) {
	if ic.magnetic {
		ic.fill(ic.src.ctx.Time)
	}
}

func (ic *incidentCurrent) StepScheme(dt float64) {
	t := ic.src.ctx.Time + dt
	if !ic.magnetic {
		t = ic.src.ctx.Time + 0.5*dt
	}
	ic.fill(t)
}

func (ic *incidentCurrent) fill(t float64) {
	var (
		ctx    = ic.src.ctx
		n      = ic.dir.Normal()
		t1, t2 = ic.dir.Transverse()
		sign   = -1.
		shift  int
	)
	if ic.dir.IsHigh() {
		sign = 1
	} else if ic.magnetic {
		shift = 1
	} else {
		shift = -1
	}
	sample := func(axis int, ind grid.Index) float64 {
		E, H := ic.src.Func.Field(position(ctx.Position(ic.sampled[axis], ind)), t)
		if ic.magnetic {
			return component(E, axis)
		}
		return component(H, axis)
	}
	for _, a := range [2]int{t1, t2} {
		var (
			J       = ic.J[a]
			stagger = J.Stagger()
			other   = t2
			factor  = sign / ctx.Dx[n]
		)
		if a == t2 {
			other, factor = t1, -factor
		}
		ctx.Decomposition.GridContext(J).ForEach(func(ind grid.Index) {
			for _, axis := range [2]int{t1, t2} {
				if stagger[axis] && ind[axis] == ic.boxHi[axis] {
					J.Set(ind, 0)
					return
				}
			}
			J.Set(ind, factor*sample(other, ind.Shift(n, shift)))
		})
	}
}
