package source

import (
	"fmt"
	"math"

	"github.com/notargets/gofdtd/electromagnetics/current"
	"github.com/notargets/gofdtd/grid"
	"github.com/notargets/gofdtd/simulation"
)

/*
Dipole is an oscillating current density J = Amplitude sin(2 pi Frequency t) along Axis in a single
cell. It switches on over a Gaussian of width Rise seconds that reaches full strength at 3 Rise.
*/
type Dipole struct {
	current.Base
	ctx       *simulation.Context
	Index     grid.Index
	Axis      int
	Amplitude float64 // A/m²
	Frequency float64 // Hz
	Rise      float64
}

func NewDipole(ctx *simulation.Context, ind grid.Index, axis int, amplitude, frequency, rise float64) *Dipole {
	if axis < 0 || axis > 2 {
		panic(fmt.Errorf("dipole axis must be 0, 1 or 2, have %d", axis))
	}
	if !ctx.Decomposition.GlobalRange().Contains(ind) {
		panic(fmt.Errorf("dipole at %v lies outside the grid %s", ind, ctx.Decomposition.GlobalRange()))
	}
	return &Dipole{
		ctx:       ctx,
		Index:     ind,
		Axis:      axis,
		Amplitude: amplitude,
		Frequency: frequency,
		Rise:      rise,
	}
}

func (dp *Dipole) InitCurrents(container *current.Container) {
	container.AddCurrent(dp)
}

func (dp *Dipole) Init() {
	d := dp.ctx.Decomposition
	r := grid.NewRange(dp.Index, dp.Index).Intersect(d.LocalRange())
	if r.Empty() {
		return
	}
	dp.Allocate(d, "Dipole", r, false)
}

// Envelope is the switch on factor at time t
func (dp *Dipole) Envelope(t float64) float64 {
	t0 := 3 * dp.Rise
	if dp.Rise <= 0 || t >= t0 {
		return 1
	}
	s := (t - t0) / dp.Rise
	return math.Exp(-s * s)
}

// StepScheme sets J half a step ahead of the current time, where the E update is centred
func (dp *Dipole) StepScheme(dt float64) {
	t := dp.ctx.Time + 0.5*dt
	dp.J[dp.Axis].Set(dp.Index, dp.Amplitude*dp.Envelope(t)*math.Sin(2*math.Pi*dp.Frequency*t))
}
