package MaxwellFDTD

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gofdtd/InputParameters"
	"github.com/notargets/gofdtd/decomposition"
	"github.com/notargets/gofdtd/diagnostics"
	"github.com/notargets/gofdtd/electromagnetics/cpml"
	"github.com/notargets/gofdtd/electromagnetics/current"
	"github.com/notargets/gofdtd/electromagnetics/fdtd"
	"github.com/notargets/gofdtd/electromagnetics/source"
	"github.com/notargets/gofdtd/grid"
	"github.com/notargets/gofdtd/simulation"
	"github.com/notargets/gofdtd/types"
	"github.com/notargets/gofdtd/utils"
)

const GhostWidth = 2

/*
MaxwellFDTD runs one simulation described by an input file: a Yee grid split over ParallelDegree
goroutines, CPML layers on the axes that ask for them, the incident sources and dipoles, and the probes.
*/
type MaxwellFDTD struct {
	Title       string
	Dimension   int
	Dx          [3]float64
	Dt          float64
	FinalTime   float64
	Nsteps      int
	Boundaries  [3]types.BoundaryKind
	Cluster     *decomposition.Cluster
	Energy      float64 // total field energy at the end of Solve, J/m^(3-Dimension)
	Out         io.Writer
	ip          *InputParameters.InputParametersFDTD
	verbose     bool
	probeParams []InputParameters.ProbeParameters
	rankProbes  [][]*diagnostics.Probe
}

func NewMaxwellFDTD(ip *InputParameters.InputParametersFDTD, verbose bool) (c *MaxwellFDTD, err error) {
	var (
		periodic [3]bool
	)
	if err = ip.Validate(); err != nil {
		return
	}
	c = &MaxwellFDTD{
		Title:     ip.Title,
		Dimension: ip.Dimension,
		Dx:        ip.Dx,
		FinalTime: ip.FinalTime,
		Out:       os.Stdout,
		ip:        ip,
		verbose:   verbose,
	}
	if c.Boundaries, err = ip.BoundaryKinds(); err != nil {
		return nil, err
	}
	for axis := 0; axis < 3; axis++ {
		periodic[axis] = c.Boundaries[axis] == types.BoundaryPeriodic
	}
	c.Cluster, err = decomposition.NewCluster(grid.Index(ip.GridSize), ip.Dimension, GhostWidth, periodic,
		ip.ParallelDegree)
	if err != nil {
		return nil, err
	}
	c.Dt = utils.Courant(ip.CFL, c.Dx[:c.Dimension])
	c.Nsteps = int(math.Ceil(c.FinalTime / c.Dt))
	c.Dt = c.FinalTime / float64(c.Nsteps)
	if c.probeParams, err = ip.ExpandProbes(); err != nil {
		return nil, err
	}
	c.rankProbes = make([][]*diagnostics.Probe, c.Cluster.Size())
	return
}

// Solve runs every rank to FinalTime and returns the probes in input order
func (c *MaxwellFDTD) Solve() (probes []*diagnostics.Probe, err error) {
	if err = c.Cluster.Run(c.solveRank); err != nil {
		return
	}
	probes = make([]*diagnostics.Probe, len(c.probeParams))
	for i, pp := range c.probeParams {
		probes[i] = c.rankProbes[c.Cluster.Owner(grid.Index(pp.Index))][i]
	}
	return
}

func (c *MaxwellFDTD) solveRank(d *decomposition.Decomposition) (err error) {
	var (
		ctx    = simulation.NewContext(d, c.Dx, c.Dt, c.FinalTime, c.verbose)
		solver *fdtd.Plain
		faces  []types.Direction
		probes []*diagnostics.Probe
	)
	ctx.Out = c.Out
	solver = fdtd.NewPlain(ctx)
	for axis := 0; axis < c.Dimension; axis++ {
		if c.Boundaries[axis] == types.BoundaryCPML {
			faces = append(faces, types.Direction(2*axis), types.Direction(2*axis+1))
		}
	}
	if len(faces) != 0 {
		solver.AddBlock(cpml.NewBorder(ctx, c.ip.CPMLParams(), faces...))
	}
	for i, sp := range c.ip.Sources {
		var block current.Factory
		if block, err = c.newSource(ctx, sp); err != nil {
			return fmt.Errorf("source %d: %w", i, err)
		}
		solver.AddBlock(block)
	}
	solver.Init()
	if probes, err = c.newProbes(solver); err != nil {
		return
	}
	c.PrintInitialization(ctx)
	start := time.Now()
	solver.StepSchemeInit(ctx.Dt)
	for ctx.Step < c.Nsteps {
		solver.StepScheme(ctx.Dt)
		ctx.Advance()
		for _, p := range probes {
			p.Record(ctx.Time)
		}
		if c.ip.LogFrequency == 0 || (ctx.Step%c.ip.LogFrequency != 0 && ctx.Step != c.Nsteps) {
			continue
		}
		var (
			energy = diagnostics.Energy(d, solver.Fields.E, solver.Fields.B)
			nan    float64
		)
		if utils.IsNan(solver.Fields.All()) {
			nan = 1
		}
		if d.SumAll(nan) != 0 {
			return fmt.Errorf("non finite field at step %d, time %8.5g", ctx.Step, ctx.Time)
		}
		c.PrintUpdate(ctx, energy)
	}
	energy := diagnostics.Energy(d, solver.Fields.E, solver.Fields.B)
	if d.IsRoot() {
		c.Energy = energy
	}
	c.rankProbes[d.ID] = probes
	c.PrintFinal(ctx, time.Since(start))
	return
}

func vec(v [3]float64) r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

func (c *MaxwellFDTD) newSource(ctx *simulation.Context, sp InputParameters.SourceParameters) (block current.Factory, err error) {
	var (
		st    InputParameters.SourceType
		fn    source.FieldFunction
		faces = make([]types.Direction, len(sp.Faces))
	)
	if st, err = InputParameters.NewSourceType(sp.Type); err != nil {
		return
	}
	for i, label := range sp.Faces {
		if faces[i], err = types.NewDirection(label); err != nil {
			return
		}
	}
	switch st {
	case InputParameters.DipoleSource:
		return source.NewDipole(ctx, grid.Index(sp.Index), sp.Axis, sp.Amplitude, sp.Frequency, sp.RiseTime), nil
	case InputParameters.PlaneWaveSource:
		fn = source.NewPlaneWave(vec(sp.K), vec(sp.Origin), vec(sp.B), sp.Eps, sp.Ramp)
	case InputParameters.PlaneGaussSource:
		fn = source.NewPlaneGauss(vec(sp.K), vec(sp.Origin), vec(sp.B), sp.Eps, sp.Width)
	case InputParameters.GaussBeamSource:
		fn = source.NewGaussBeam(c.Dimension, vec(sp.K), vec(sp.Origin), vec(sp.B), source.BeamParams{
			Waist:         sp.Waist,
			Rise:          sp.Rise,
			Offset:        sp.Offset,
			Eps:           sp.Eps,
			Circ:          sp.Circ,
			SuperGaussian: sp.SuperGaussian,
		})
	}
	return source.NewIncidentSource(ctx, fn, sp.Distance, faces...), nil
}

func (c *MaxwellFDTD) newProbes(solver *fdtd.Plain) (probes []*diagnostics.Probe, err error) {
	probes = make([]*diagnostics.Probe, len(c.probeParams))
	for i, pp := range c.probeParams {
		var fc types.FieldComponent
		if fc, err = types.NewFieldComponent(pp.Field); err != nil {
			return
		}
		probes[i] = diagnostics.NewProbe(pp.Name, solver.Fields.Component(fc), grid.Index(pp.Index))
	}
	return
}

func (c *MaxwellFDTD) PrintInitialization(ctx *simulation.Context) {
	ctx.Logf("Maxwell FDTD in %d dimensions, %s\n", c.Dimension, c.Title)
	ctx.Logf("Using %d go routines in parallel\n", c.Cluster.Size())
	ctx.Logf("FinalTime = %8.5g, Nsteps = %d, dt = %8.5g\n", c.FinalTime, c.Nsteps, c.Dt)
	ctx.Logf("Grid = %v, Dx = %v\n", ctx.GridSize[:c.Dimension], c.Dx[:c.Dimension])
	ctx.Logf("Fields = %v\n", ctx.Decomposition.FieldNames())
	ctx.Logf("Boundaries = %v, Sources = %d, Probes = %d\n",
		c.Boundaries[:c.Dimension], len(c.ip.Sources), len(c.probeParams))
	ctx.Logf("    Iter        Time      Energy\n")
}

func (c *MaxwellFDTD) PrintUpdate(ctx *simulation.Context, energy float64) {
	ctx.Logf("%8d%12.4e%12.4e\n", ctx.Step, ctx.Time, energy)
}

func (c *MaxwellFDTD) PrintFinal(ctx *simulation.Context, elapsed time.Duration) {
	var (
		cells = float64(ctx.Decomposition.GlobalRange().Size())
		steps = max(ctx.Step, 1)
	)
	rate := float64(elapsed.Microseconds()) / (cells * float64(steps))
	ctx.Logf("\nRate of execution = %8.5f us/(cell*iteration) over %d iterations\n", rate, ctx.Step)
	ctx.Logf("%s\n", utils.GetMemUsage())
}

/*
DispersionError propagates one wavelength of a plane wave once around a periodic line of the given
number of cells at the given CFL, and returns the RMS difference between Ey and the exact solution.
The leapfrog scheme makes it fall as the square of the cell size.
*/
func DispersionError(cells int, cfl float64) (rms float64, err error) {
	var (
		length = 1.
		dx     = [3]float64{length / float64(cells)}
		k      = 2 * math.Pi / length
		tFinal = length / utils.Clight
		cl     *decomposition.Cluster
	)
	if cl, err = decomposition.NewCluster(grid.Index{cells, 1, 1}, 1, GhostWidth, [3]bool{true}, 1); err != nil {
		return
	}
	dt := utils.Courant(cfl, dx[:1])
	nSteps := int(math.Ceil(tFinal / dt))
	dt = tFinal / float64(nSteps)
	err = cl.Run(func(d *decomposition.Decomposition) error {
		var (
			ctx    = simulation.NewContext(d, dx, dt, tFinal, false)
			solver = fdtd.NewPlain(ctx)
			Ey, Bz = solver.Fields.E[1], solver.Fields.B[2]
			r      = d.LocalRange()
		)
		solver.Init()
		r.ForEach(func(ind grid.Index) {
			Ey.Set(ind, math.Sin(k*ctx.Position(Ey, ind)[0]))
			Bz.Set(ind, math.Sin(k*ctx.Position(Bz, ind)[0])/utils.Clight)
		})
		d.Exchange(solver.Fields.All()...)
		solver.StepSchemeInit(dt)
		for ctx.Step < nSteps {
			solver.StepScheme(dt)
			ctx.Advance()
		}
		exact := make([]float64, 0, r.Size())
		r.ForEach(func(ind grid.Index) {
			exact = append(exact, math.Sin(k*(ctx.Position(Ey, ind)[0]-utils.Clight*ctx.Time)))
		})
		dist := floats.Distance(Ey.Values(r), exact, 2)
		sum := d.SumAll(dist * dist)
		if d.IsRoot() {
			rms = math.Sqrt(sum / float64(cells))
		}
		return nil
	})
	return
}
