package source

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gofdtd/utils"
)

// BeamParams are the shape parameters of a Gaussian beam, lengths in metres
type BeamParams struct {
	Waist         float64 // 1/e field radius in the focal plane
	Rise          float64 // length of the Gaussian front
	Offset        float64 // distance of the front behind the origin at t=0
	Eps           float64
	Circ          float64 // amplitude of the second polarisation, a quarter period out of phase
	SuperGaussian int     // transverse profile exp(-(r/w)^(2 SuperGaussian))
}

func DefaultBeamParams() BeamParams {
	return BeamParams{
		Waist:         10,
		Rise:          10,
		Offset:        40,
		Eps:           1,
		SuperGaussian: 1,
	}
}

/*
GaussBeam is a paraxial Gaussian beam focused at Origin and travelling along K. The beam widens
away from focus as w = waist sqrt(1+z²/zr²) and its amplitude falls as (waist/w)^((rank-1)/2),
so the on axis amplitude in the focal plane is the configured one. The wave front is curved and
carries the Gouy phase. A beam needs at least two dimensions.
*/
type GaussBeam struct {
	BeamParams
	K, Origin, B   r3.Vec
	rank           int
	kn, omega, zr  float64
	rise, offset   float64
	perpA, perpB   r3.Vec
	e0, ep, h0, hp r3.Vec
}

func NewGaussBeam(rank int, k, origin, B r3.Vec, params BeamParams) (gb *GaussBeam) {
	if rank < 2 || rank > 3 {
		panic(fmt.Errorf("a Gaussian beam needs two or three dimensions, have %d", rank))
	}
	if rank == 2 && (k.Z != 0 || origin.Z != 0) {
		panic(fmt.Errorf("a two dimensional beam must lie in the x-y plane"))
	}
	kn := r3.Norm(k)
	switch {
	case kn == 0:
		panic(fmt.Errorf("Gaussian beam needs a non zero wave vector"))
	case params.Waist <= 0 || params.Rise <= 0:
		panic(fmt.Errorf("Gaussian beam waist and rise must be positive"))
	case params.Eps <= 0:
		panic(fmt.Errorf("Gaussian beam permittivity must be positive, have %g", params.Eps))
	case params.SuperGaussian < 1:
		panic(fmt.Errorf("Gaussian beam superGaussian must be at least 1, have %d", params.SuperGaussian))
	}
	var (
		cm   = utils.Clight / math.Sqrt(params.Eps)
		kHat = r3.Unit(k)
		kxB  = r3.Cross(k, B)
	)
	if r3.Norm(kxB) == 0 {
		panic(fmt.Errorf("Gaussian beam polarisation must not be parallel to k"))
	}
	gb = &GaussBeam{
		BeamParams: params,
		K:          k,
		Origin:     origin,
		B:          B,
		rank:       rank,
		kn:         kn,
		omega:      cm * kn,
		zr:         kn * kn * params.Waist * params.Waist / 2,
		rise:       kn * params.Rise,
		offset:     kn * params.Offset,
	}
	if rank == 2 {
		gb.perpA = r3.Vec{X: k.Y / kn, Y: -k.X / kn}
	} else {
		gb.perpA = r3.Unit(kxB)
		gb.perpB = r3.Unit(r3.Cross(k, gb.perpA))
	}
	gb.h0 = r3.Scale(1/utils.Mu0, B)
	gb.hp = r3.Scale(params.Circ*r3.Norm(gb.h0), r3.Unit(kxB))
	gb.e0 = r3.Scale(cm*utils.Mu0, r3.Cross(gb.h0, kHat))
	gb.ep = r3.Scale(cm*utils.Mu0, r3.Cross(gb.hp, kHat))
	return
}

func (gb *GaussBeam) Field(x r3.Vec, t float64) (E, H r3.Vec) {
	var (
		rel = r3.Sub(x, gb.Origin)
		z   = r3.Dot(gb.K, rel) // phase along the axis, zero in the focal plane
		r   = math.Abs(r3.Dot(gb.perpA, rel))
	)
	if gb.rank == 3 {
		r = math.Hypot(r, r3.Dot(gb.perpB, rel))
	}
	var (
		w     = gb.Waist * math.Sqrt(1+z*z/(gb.zr*gb.zr))
		rInv  = z / (z*z + gb.zr*gb.zr)
		curv  = 0.5 * gb.kn * gb.kn * r * r * rInv
		gouy  = 0.5 * float64(gb.rank-1) * math.Atan(z/gb.zr)
		zph   = z - gb.omega*t
		zenv  = (zph + gb.offset) / gb.rise
		env   = 1.
		phase = zph + curv - gouy
	)
	if zenv > 0 {
		env = math.Exp(-zenv * zenv)
	}
	amp := math.Pow(gb.Waist/w, 0.5*float64(gb.rank-1)) * env *
		math.Exp(-utils.POW(r/w, 2*gb.SuperGaussian))
	s, c := math.Sincos(phase)
	E = r3.Add(r3.Scale(amp*s, gb.e0), r3.Scale(amp*c, gb.ep))
	H = r3.Add(r3.Scale(amp*s, gb.h0), r3.Scale(amp*c, gb.hp))
	return
}
