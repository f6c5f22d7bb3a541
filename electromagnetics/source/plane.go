package source

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gofdtd/utils"
)

/*
planeWave holds what the plane wave shapes share. B is the magnetic flux density amplitude in
tesla, perpendicular to k. The electric amplitude follows as E = c/sqrt(eps) B x k/|k|.
*/
type planeWave struct {
	K, Origin r3.Vec
	B         r3.Vec
	Eps       float64
	omega     float64
	e0, h0    r3.Vec
}

func newPlaneWave(k, origin, B r3.Vec, eps float64) (pw planeWave) {
	kn := r3.Norm(k)
	if kn == 0 {
		panic(fmt.Errorf("plane wave needs a non zero wave vector"))
	}
	if eps <= 0 {
		panic(fmt.Errorf("plane wave permittivity must be positive, have %g", eps))
	}
	cm := utils.Clight / math.Sqrt(eps)
	pw = planeWave{
		K:      k,
		Origin: origin,
		B:      B,
		Eps:    eps,
		omega:  cm * kn,
		e0:     r3.Scale(cm/kn, r3.Cross(B, k)),
		h0:     r3.Scale(1/utils.Mu0, B),
	}
	return
}

// phase is k.(x-origin) - omega t, zero on the front of a wave launched at t=0 from the origin
func (pw *planeWave) phase(x r3.Vec, t float64) float64 {
	return r3.Dot(pw.K, r3.Sub(x, pw.Origin)) - pw.omega*t
}

func (pw *planeWave) fields(f float64) (E, H r3.Vec) {
	return r3.Scale(f, pw.e0), r3.Scale(f, pw.h0)
}

/*
PlaneWave is a monochromatic wave switched on at its front. The field is zero ahead of the front and
grows linearly over the first Ramp radians of phase behind it.
*/
type PlaneWave struct {
	planeWave
	Ramp float64
}

func NewPlaneWave(k, origin, B r3.Vec, eps, ramp float64) *PlaneWave {
	if ramp <= 0 {
		panic(fmt.Errorf("plane wave ramp must be positive, have %g", ramp))
	}
	return &PlaneWave{planeWave: newPlaneWave(k, origin, B, eps), Ramp: ramp}
}

func (pw *PlaneWave) Field(x r3.Vec, t float64) (E, H r3.Vec) {
	pos := pw.phase(x, t)
	if pos > 0 {
		return
	}
	f := math.Sin(pos)
	if pos > -pw.Ramp {
		f *= -pos / pw.Ramp
	}
	return pw.fields(f)
}

// PlaneGauss is a wave packet with a Gaussian envelope of Width radians centred on the origin at t=0
type PlaneGauss struct {
	planeWave
	Width float64
}

func NewPlaneGauss(k, origin, B r3.Vec, eps, width float64) *PlaneGauss {
	if width <= 0 {
		panic(fmt.Errorf("plane gauss width must be positive, have %g", width))
	}
	return &PlaneGauss{planeWave: newPlaneWave(k, origin, B, eps), Width: width}
}

func (pg *PlaneGauss) Field(x r3.Vec, t float64) (E, H r3.Vec) {
	var (
		pos = pg.phase(x, t)
		r   = pos / pg.Width
	)
	return pg.fields(math.Exp(-r*r) * math.Sin(pos))
}
