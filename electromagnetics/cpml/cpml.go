package cpml

import (
	"fmt"
	"math"

	"github.com/notargets/gofdtd/electromagnetics/border"
	"github.com/notargets/gofdtd/electromagnetics/current"
	"github.com/notargets/gofdtd/electromagnetics/fdtd"
	"github.com/notargets/gofdtd/grid"
	"github.com/notargets/gofdtd/simulation"
	"github.com/notargets/gofdtd/types"
	"github.com/notargets/gofdtd/utils"
)

// Params shapes the absorbing layer, see makeCoeff for how each enters the profiles
type Params struct {
	Thickness int     // cells
	KappaMax  float64 // coordinate stretch at the outer edge
	AMax      float64 // complex frequency shift, in units of c/dx
	SigmaMax  float64 // conductivity scale, in units of 10 c/dx
	Eps       float64 // relative permittivity of the medium in the layer
}

func DefaultParams() Params {
	return Params{
		Thickness: 8,
		KappaMax:  15,
		AMax:      0,
		SigmaMax:  1,
		Eps:       1,
	}
}

func (p Params) Validate() (err error) {
	switch {
	case p.Thickness < 1:
		err = fmt.Errorf("cpml thickness must be at least one cell, have %d", p.Thickness)
	case p.KappaMax < 1:
		err = fmt.Errorf("cpml kappaMax must be at least 1, have %g", p.KappaMax)
	case p.AMax < 0:
		err = fmt.Errorf("cpml aMax must not be negative, have %g", p.AMax)
	case p.SigmaMax <= 0:
		err = fmt.Errorf("cpml sigmaMax must be positive, have %g", p.SigmaMax)
	case p.Eps <= 0:
		err = fmt.Errorf("cpml eps must be positive, have %g", p.Eps)
	}
	return
}

/*
Border is a convolutional PML on a set of faces of the box. Every face contributes one electric and
one magnetic auxiliary current whose accumulators live in the current components, and stretches
the kappa lines of its normal axis inside the layer.
*/
type Border struct {
	Params
	ctx   *simulation.Context
	Faces []types.Direction
}

// NewBorder covers the listed faces, or every face of the grid when none are given
func NewBorder(ctx *simulation.Context, params Params, faces ...types.Direction) (b *Border) {
	if err := params.Validate(); err != nil {
		panic(err)
	}
	if len(faces) == 0 {
		faces = types.DirectionsForRank(ctx.Dimension)
	}
	for _, dir := range faces {
		types.CheckDirection(dir, ctx.Dimension)
	}
	b = &Border{
		Params: params,
		ctx:    ctx,
		Faces:  faces,
	}
	return
}

func (b *Border) InitCurrents(container *current.Container) {
	for _, dir := range b.Faces {
		container.AddCurrent(newBorderCurrent(b, dir, false))
		container.AddMagCurrent(newBorderCurrent(b, dir, true))
	}
	b.initCoefficients()
}

// initCoefficients writes the kappa profile of every face into the solver's kappa lines
func (b *Border) initCoefficients() {
	d := b.ctx.Decomposition
	for _, dir := range b.Faces {
		n := dir.Normal()
		for _, isH := range []bool{false, true} {
			name := fdtd.KappaENames[n]
			if isH {
				name = fdtd.KappaHNames[n]
			}
			line, err := d.RetrieveLine(name)
			if err != nil {
				panic(err)
			}
			for i := line.Lo; i <= line.Hi; i++ {
				if x, in := b.layerPosition(dir, i, isH); in {
					kappa, _, _ := b.makeCoeff(x, n, b.ctx.Dt)
					line.Set(i, kappa)
				}
			}
		}
	}
}

/*
layerPosition maps a global index along the normal of dir to x in (0,1], one at the outer edge of
the layer. E samples sit at integer positions and H samples half a cell higher, the box spans
[0, N-1/2] in those units so both faces see the same profile.
*/
func (b *Border) layerPosition(dir types.Direction, i int, isH bool) (x float64, in bool) {
	var (
		N     = float64(b.ctx.GridSize[dir.Normal()])
		depth = float64(i)
	)
	if isH {
		depth += 0.5
	}
	if dir.IsHigh() {
		depth = N - 0.5 - depth
	}
	th := float64(b.Thickness)
	if depth < 0 || depth >= th {
		return
	}
	return 1 - depth/th, true
}

/*
makeCoeff returns the stretch and the recursive convolution coefficients at layer position x for a
step of dt along axis n.
*/
func (b *Border) makeCoeff(x float64, n int, dt float64) (kappa, bb, cc float64) {
	var (
		cm    = utils.Clight / math.Sqrt(b.Eps)
		dx    = b.ctx.Dx[n]
		x3    = utils.POW(x, 3)
		sigma = x3 * 10 * b.SigmaMax * cm / dx
		a     = b.AMax * (1 - x) * cm / dx
	)
	kappa = 1 + (b.KappaMax-1)*x3
	bb = math.Exp(-(sigma/kappa + a) * dt)
	if sigma > 0 {
		cc = sigma * (bb - 1) / (kappa * (sigma + kappa*a))
	}
	return
}

/*
borderCurrent is the auxiliary current of one face. The electric variant reads the tangential B
components and drives the tangential E components, the magnetic variant the converse. Its J
components are the convolution accumulators themselves.
*/
type borderCurrent struct {
	current.Base
	border   *Border
	dir      types.Direction
	magnetic bool
	r        grid.Range
	src      [3]*grid.Field
	coeffDt  float64
	bl, cl   *grid.Line
}

func newBorderCurrent(b *Border, dir types.Direction, magnetic bool) *borderCurrent {
	return &borderCurrent{border: b, dir: dir, magnetic: magnetic}
}

func (bc *borderCurrent) Init() {
	var (
		ctx = bc.border.ctx
		d   = ctx.Decomposition
		ok  bool
	)
	bc.r, ok = border.GetBorderExtent(bc.dir, bc.border.Thickness, 0, false, d.GlobalRange(), d.LocalRange(),
		ctx.Dimension)
	if !ok {
		return
	}
	prefix := "CPMLE"
	if bc.magnetic {
		prefix = "CPMLH"
	}
	bc.Allocate(d, prefix+bc.dir.String(), bc.r, bc.magnetic)
	for axis := 0; axis < 3; axis++ {
		fc := types.FieldComponent(axis)
		if !bc.magnetic {
			fc += types.Bx
		}
		bc.src[axis] = d.MustRetrieveField(fc.String())
	}
}

// coefficients returns the b and c lines for dt, rebuilding them when dt changes
func (bc *borderCurrent) coefficients(dt float64) (bl, cl *grid.Line) {
	if bc.bl != nil && bc.coeffDt == dt {
		return bc.bl, bc.cl
	}
	n := bc.dir.Normal()
	bc.bl = grid.NewLine("b", n, bc.r.Lo[n], bc.r.Hi[n], 0)
	bc.cl = grid.NewLine("c", n, bc.r.Lo[n], bc.r.Hi[n], 0)
	for i := bc.r.Lo[n]; i <= bc.r.Hi[n]; i++ {
		if x, in := bc.border.layerPosition(bc.dir, i, bc.magnetic); in {
			_, b, c := bc.border.makeCoeff(x, n, dt)
			bc.bl.Set(i, b)
			bc.cl.Set(i, c)
		}
	}
	bc.coeffDt = dt
	return bc.bl, bc.cl
}

// StepSchemeInit advances the magnetic accumulators by the half step that starts B
func (bc *borderCurrent) StepSchemeInit(dt float64) {
	if bc.magnetic {
		bc.StepScheme(0.5 * dt)
	}
}

func (bc *borderCurrent) StepScheme(dt float64) {
	var (
		n      = bc.dir.Normal()
		t1, t2 = bc.dir.Transverse()
		bl, cl = bc.coefficients(dt)
		J1, J2 = bc.J[t1], bc.J[t2]
		S1, S2 = bc.src[t1], bc.src[t2]
		sn     = S1.Stride(n)
		scale  = bc.border.ctx.Dx[n]
	)
	if !bc.magnetic {
		scale *= utils.Mu0
	}
	s1, s2 := S1.Data(), S2.Data()
	bc.border.ctx.Decomposition.GridContext(J1, J2, S1, S2).ForEach(func(ind grid.Index) {
		var (
			b, c   = bl.Get(ind[n]), cl.Get(ind[n])
			o      = S1.Offset(ind)
			d1, d2 float64
		)
		if bc.magnetic {
			d1, d2 = s1[o+sn]-s1[o], s2[o+sn]-s2[o]
		} else {
			d1, d2 = s1[o]-s1[o-sn], s2[o]-s2[o-sn]
		}
		J1.Set(ind, b*J1.Get(ind)+c*d2/scale)
		J2.Set(ind, b*J2.Get(ind)-c*d1/scale)
	})
}
