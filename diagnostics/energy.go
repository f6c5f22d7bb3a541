package diagnostics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gofdtd/decomposition"
	"github.com/notargets/gofdtd/grid"
	"github.com/notargets/gofdtd/utils"
)

// Energy is the sum of ε0|E|² + |B|²/μ0 over the inner cells of all ranks
func Energy(d *decomposition.Decomposition, E, B [3]*grid.Field) float64 {
	var (
		r     = d.LocalRange()
		local float64
	)
	for axis := 0; axis < 3; axis++ {
		e, b := E[axis].Values(r), B[axis].Values(r)
		local += utils.Eps0*floats.Dot(e, e) + floats.Dot(b, b)/utils.Mu0
	}
	return d.SumAll(local)
}

// Snapshot copies the inner values of three field components
func Snapshot(d *decomposition.Decomposition, F [3]*grid.Field) (snap [3][]float64) {
	for axis := 0; axis < 3; axis++ {
		snap[axis] = F[axis].Values(d.LocalRange())
	}
	return
}

/*
YeeEnergy is ε0|E^n|² + <B^(n-1/2), B^(n+1/2)>/μ0, the quantity the leapfrog scheme conserves exactly
in a closed lossless box. Bold holds a Snapshot of B taken half a step before E.
*/
func YeeEnergy(d *decomposition.Decomposition, E [3]*grid.Field, Bold [3][]float64, B [3]*grid.Field) float64 {
	var (
		r     = d.LocalRange()
		local float64
	)
	for axis := 0; axis < 3; axis++ {
		e := E[axis].Values(r)
		local += utils.Eps0*floats.Dot(e, e) + floats.Dot(Bold[axis], B[axis].Values(r))/utils.Mu0
	}
	return d.SumAll(local)
}
