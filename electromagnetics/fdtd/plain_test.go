package fdtd

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofdtd/decomposition"
	"github.com/notargets/gofdtd/diagnostics"
	"github.com/notargets/gofdtd/electromagnetics/current"
	"github.com/notargets/gofdtd/grid"
	"github.com/notargets/gofdtd/simulation"
	"github.com/notargets/gofdtd/utils"
)

const testDx = 1e-3

func runPlain(t *testing.T, N grid.Index, rank int, periodic [3]bool, np int, cfl float64,
	setup func(p *Plain), fn func(p *Plain) error) {
	c, err := decomposition.NewCluster(N, rank, 2, periodic, np)
	require.NoError(t, err)
	dx := [3]float64{testDx, testDx, testDx}
	dt := utils.Courant(cfl, dx[:rank])
	err = c.Run(func(d *decomposition.Decomposition) error {
		ctx := simulation.NewContext(d, dx, dt, 0, false)
		p := NewPlain(ctx)
		if setup != nil {
			setup(p)
		}
		p.Init()
		return fn(p)
	})
	require.NoError(t, err)
}

func TestPlainEnergy(t *testing.T) {
	for _, np := range []int{1, 2} {
		{ // Single cell Ex impulse in a 100 cell vacuum line, CFL 0.99, 100 steps
			var before, after float64
			runPlain(t, grid.Index{100, 1, 1}, 1, [3]bool{}, np, 0.99, nil, func(p *Plain) error {
				var (
					ctx = p.Context()
					d   = ctx.Decomposition
				)
				if d.LocalRange().Contains(grid.Index{50, 0, 0}) {
					p.Fields.E[0].Set(grid.Index{50, 0, 0}, 1)
				}
				d.Exchange(p.Fields.E[:]...)
				e0 := diagnostics.Energy(d, p.Fields.E, p.Fields.B)
				p.StepSchemeInit(ctx.Dt)
				for n := 0; n < 100; n++ {
					p.StepScheme(ctx.Dt)
					ctx.Advance()
				}
				e1 := diagnostics.Energy(d, p.Fields.E, p.Fields.B)
				if d.IsRoot() {
					before, after = e0, e1
				}
				return nil
			})
			assert.Greater(t, before, 0.)
			assert.InEpsilon(t, before, after, 1e-6)
		}
		{ // A transverse impulse keeps the Yee energy to round off while bouncing between the walls
			var energies []float64
			runPlain(t, grid.Index{100, 1, 1}, 1, [3]bool{}, np, 0.99, nil, func(p *Plain) error {
				var (
					ctx = p.Context()
					d   = ctx.Decomposition
				)
				if d.LocalRange().Contains(grid.Index{50, 0, 0}) {
					p.Fields.E[1].Set(grid.Index{50, 0, 0}, 1)
				}
				d.Exchange(p.Fields.E[:]...)
				p.StepSchemeInit(ctx.Dt)
				for n := 0; n < 300; n++ {
					old := diagnostics.Snapshot(d, p.Fields.B)
					p.StepScheme(ctx.Dt)
					w := diagnostics.YeeEnergy(d, p.Fields.E, old, p.Fields.B)
					if d.IsRoot() {
						energies = append(energies, w)
					}
				}
				return nil
			})
			require.Equal(t, 300, len(energies))
			for _, w := range energies {
				assert.InEpsilon(t, energies[0], w, 1e-10)
			}
		}
	}
}

/*
A plane wave initialised from the discrete dispersion relation of the Yee scheme is reproduced
to round off. E_t1 and B_t2 travel along the axis n with B_t2 = E_t1/c.
*/
func TestPlainDispersion(t *testing.T) {
	type result struct {
		maxErr float64
		values map[grid.Index]float64
	}
	run := func(rank, n, np int) (res result) {
		var (
			N        = grid.Index{1, 1, 1}
			periodic = [3]bool{true, true, true}
			t1, t2   = (n + 1) % 3, (n + 2) % 3
			steps    = 120
			errs     = make([]float64, np)
			vals     = make([]map[grid.Index]float64, np)
		)
		for d := 0; d < rank; d++ {
			N[d] = 4
		}
		N[n] = 32
		k := 2 * math.Pi * 2 / (float64(N[n]) * testDx)
		runPlain(t, N, rank, periodic, np, 0.5, nil, func(p *Plain) error {
			var (
				ctx = p.Context()
				d   = ctx.Decomposition
				dt  = ctx.Dt
				E   = p.Fields.E[t1]
				B   = p.Fields.B[t2]
			)
			omega := 2 / dt * math.Asin(utils.Clight*dt/testDx*math.Sin(k*testDx/2))
			d.LocalRange().ForEach(func(ind grid.Index) {
				E.Set(ind, math.Sin(k*float64(ind[n])*testDx))
				B.Set(ind, math.Sin(k*(float64(ind[n])+0.5)*testDx-omega*dt/2)/utils.Clight)
			})
			d.Exchange(p.Fields.All()...)
			for s := 0; s < steps; s++ {
				p.StepScheme(dt)
				ctx.Advance()
			}
			vals[d.ID] = make(map[grid.Index]float64)
			d.LocalRange().ForEach(func(ind grid.Index) {
				exact := math.Sin(k*float64(ind[n])*testDx - omega*ctx.Time)
				errs[d.ID] = max(errs[d.ID], math.Abs(E.Get(ind)-exact))
				vals[d.ID][ind] = E.Get(ind)
			})
			return nil
		})
		res.values = make(map[grid.Index]float64)
		for r := 0; r < np; r++ {
			res.maxErr = max(res.maxErr, errs[r])
			for ind, v := range vals[r] {
				res.values[ind] = v
			}
		}
		return
	}
	for rank := 1; rank <= 3; rank++ {
		for n := 0; n < rank; n++ {
			single := run(rank, n, 1)
			assert.Less(t, single.maxErr, 1e-9, "rank %d axis %d", rank, n)
			split := run(rank, n, 2)
			assert.Equal(t, single.values, split.values, "rank %d axis %d", rank, n)
		}
	}
}

type uniformCurrent struct {
	current.Base
	d        *decomposition.Decomposition
	magnetic bool
	axis     int
	value    float64
}

func (uc *uniformCurrent) Init() {
	uc.Allocate(uc.d, "Uniform", uc.d.LocalRange(), uc.magnetic)
}

func (uc *uniformCurrent) StepSchemeInit(dt float64) {
	if uc.magnetic {
		uc.J[uc.axis].Fill(uc.value)
	}
}

func (uc *uniformCurrent) StepScheme(dt float64) {
	uc.J[uc.axis].Fill(uc.value)
}

type uniformBlock struct {
	e, h *uniformCurrent
}

func (ub *uniformBlock) InitCurrents(container *current.Container) {
	container.AddCurrent(ub.e)
	container.AddMagCurrent(ub.h)
}

func TestPlainCurrents(t *testing.T) {
	var (
		j0, m0 = 2.0, 3.0
	)
	runPlain(t, grid.Index{16, 1, 1}, 1, [3]bool{true, false, false}, 2, 0.9,
		func(p *Plain) {
			d := p.Context().Decomposition
			p.AddBlock(&uniformBlock{
				e: &uniformCurrent{d: d, axis: 1, value: j0},
				h: &uniformCurrent{d: d, axis: 2, value: m0, magnetic: true},
			})
		},
		func(p *Plain) error {
			var (
				dt = p.Context().Dt
				d  = p.Context().Decomposition
			)
			assert.Equal(t, 1, p.Currents.NumCurrents())
			assert.Equal(t, 1, p.Currents.NumMagCurrents())
			// The magnetic current is set up before the initial half step of B
			p.StepSchemeInit(dt)
			d.LocalRange().ForEach(func(ind grid.Index) {
				assert.InDelta(t, 0.5*dt*m0, p.Fields.B[2].Get(ind), 1e-25)
				assert.Equal(t, 0., p.Fields.E[1].Get(ind))
			})
			p.StepScheme(dt)
			d.LocalRange().ForEach(func(ind grid.Index) {
				assert.InEpsilon(t, -dt*j0/utils.Eps0, p.Fields.E[1].Get(ind), 1e-12)
				assert.InEpsilon(t, 1.5*dt*m0, p.Fields.B[2].Get(ind), 1e-12)
			})
			return nil
		})
}

func TestPlainKappa(t *testing.T) {
	{ // Kappa lines start at one and stretch the derivative they divide
		runPlain(t, grid.Index{16, 1, 1}, 1, [3]bool{}, 1, 0.5, nil, func(p *Plain) error {
			var (
				dt = p.Context().Dt
				d  = p.Context().Decomposition
			)
			for axis := 0; axis < 3; axis++ {
				l, err := d.RetrieveLine(KappaENames[axis])
				if assert.NoError(t, err) {
					assert.True(t, l == p.KappaE[axis])
					assert.Equal(t, 1., l.Get(0))
				}
			}
			p.KappaE[0].Set(5, 4)
			p.Fields.B[2].Set(grid.Index{4, 0, 0}, 1)
			d.Exchange(p.Fields.B[:]...)
			p.stepE(dt)
			expected := dt * utils.Clight2 / testDx
			assert.InEpsilon(t, -expected, p.Fields.E[1].Get(grid.Index{4, 0, 0}), 1e-12)
			assert.InEpsilon(t, expected/4, p.Fields.E[1].Get(grid.Index{5, 0, 0}), 1e-12)
			return nil
		})
	}
}
