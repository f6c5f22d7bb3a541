package fdtd

import (
	"fmt"

	"github.com/notargets/gofdtd/electromagnetics/current"
	"github.com/notargets/gofdtd/grid"
	"github.com/notargets/gofdtd/simulation"
	"github.com/notargets/gofdtd/utils"
)

var (
	KappaENames = [3]string{"KappaEdx", "KappaEdy", "KappaEdz"}
	KappaHNames = [3]string{"KappaHdx", "KappaHdy", "KappaHdz"}
)

/*
Plain is the leapfrog Yee solver. E lives at integer time steps and B half a step later.
Derivatives along each axis are divided by the kappa stretch of that axis, which is one
everywhere unless an absorbing border writes into the kappa lines.
*/
type Plain struct {
	ctx            *simulation.Context
	Fields         *EMFields
	Currents       *current.Container
	KappaE, KappaH [3]*grid.Line
	blocks         []current.Factory
}

func NewPlain(ctx *simulation.Context) (p *Plain) {
	var (
		d = ctx.Decomposition
	)
	p = &Plain{
		ctx:      ctx,
		Fields:   RegisterEMFields(d),
		Currents: current.NewContainer(d),
	}
	for axis := 0; axis < 3; axis++ {
		p.KappaE[axis] = d.RegisterLine(KappaENames[axis], axis, 1)
		p.KappaH[axis] = d.RegisterLine(KappaHNames[axis], axis, 1)
	}
	ref := p.Fields.E[0]
	for _, f := range append(p.Fields.All(), append(p.Currents.J[:], p.Currents.M[:]...)...) {
		if !ref.SameLayout(f) {
			panic(fmt.Errorf("field %s does not share the layout of %s", f.Name, ref.Name))
		}
	}
	return
}

func (p *Plain) Context() *simulation.Context { return p.ctx }

// AddBlock adds a factory whose currents are created by Init
func (p *Plain) AddBlock(block current.Factory) {
	p.blocks = append(p.blocks, block)
}

func (p *Plain) Init() {
	for _, block := range p.blocks {
		block.InitCurrents(p.Currents)
	}
}

// StepSchemeInit moves B half a step ahead of E, it must run once before the first StepScheme
func (p *Plain) StepSchemeInit(dt float64) {
	p.Currents.StepMagCurrentsInit(dt)
	p.stepB(0.5 * dt)
	p.Currents.StepCurrentsInit(dt)
}

func (p *Plain) StepScheme(dt float64) {
	p.Currents.StepCurrents(dt)
	p.stepE(dt)
	p.Currents.StepMagCurrents(dt)
	p.stepB(dt)
}

func (p *Plain) stepE(dt float64) {
	var (
		rank = p.ctx.Dimension
		dx   = p.ctx.Dx
		E, B = p.Fields.E, p.Fields.B
	)
	p.Currents.SumCurrents()
	for a := 0; a < 3; a++ {
		var (
			b, c           = (a + 1) % 3, (a + 2) % 3
			Ea             = E[a].Data()
			Bb, Bc         = B[b].Data(), B[c].Data()
			Ja             = p.Currents.J[a].Data()
			sb, sc         = E[a].Stride(b), E[a].Stride(c)
			useB, useC     = b < rank, c < rank
			kappaB, kappaC = p.KappaE[b], p.KappaE[c]
		)
		p.ctx.Decomposition.GridContext(E[a], B[b], B[c]).ForEach(func(ind grid.Index) {
			var (
				o    = E[a].Offset(ind)
				curl float64
			)
			if useB {
				curl += (Bc[o] - Bc[o-sb]) / (kappaB.Get(ind[b]) * dx[b])
			}
			if useC {
				curl -= (Bb[o] - Bb[o-sc]) / (kappaC.Get(ind[c]) * dx[c])
			}
			Ea[o] += dt * (utils.Clight2*curl - Ja[o]/utils.Eps0)
		})
	}
	p.ctx.Decomposition.Exchange(E[:]...)
}

func (p *Plain) stepB(dt float64) {
	var (
		rank = p.ctx.Dimension
		dx   = p.ctx.Dx
		E, B = p.Fields.E, p.Fields.B
	)
	p.Currents.SumMagCurrents()
	for a := 0; a < 3; a++ {
		var (
			b, c           = (a + 1) % 3, (a + 2) % 3
			Ba             = B[a].Data()
			Eb, Ec         = E[b].Data(), E[c].Data()
			Ma             = p.Currents.M[a].Data()
			sb, sc         = B[a].Stride(b), B[a].Stride(c)
			useB, useC     = b < rank, c < rank
			kappaB, kappaC = p.KappaH[b], p.KappaH[c]
		)
		p.ctx.Decomposition.GridContext(B[a], E[b], E[c]).ForEach(func(ind grid.Index) {
			var (
				o    = B[a].Offset(ind)
				curl float64
			)
			if useC {
				curl += (Eb[o+sc] - Eb[o]) / (kappaC.Get(ind[c]) * dx[c])
			}
			if useB {
				curl -= (Ec[o+sb] - Ec[o]) / (kappaB.Get(ind[b]) * dx[b])
			}
			Ba[o] += dt * (curl + Ma[o])
		})
	}
	p.ctx.Decomposition.Exchange(B[:]...)
}
