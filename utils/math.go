package utils

import (
	"math"
)

// Physical constants in SI units
const (
	Clight  = 299792458.0
	Clight2 = Clight * Clight
	Mu0     = 4e-7 * math.Pi
	Eps0    = 1 / (Mu0 * Clight2)
)

func POW(x float64, pp int) (y float64) {
	var (
		p       = pp
		flipped bool
	)
	if pp > 8 || pp < -8 {
		goto MATHPOW
	}

	if p < 0 {
		p = -pp
		flipped = true
	}
	switch p {
	case 0:
		y = 1
	case 1:
		y = x
	case 2:
		y = x * x
	case 3:
		y = x * x * x
	case 4:
		y = x * x
		y = y * y
	case 5:
		y = x * x
		y = y * y * x
	case 6:
		y = x * x
		y = y * y * y
	case 7:
		y = x * x
		y = y * y * y * x
	case 8:
		y = x * x
		y = y * y * y * y
	}
	if flipped {
		y = 1. / y
	}
	return

MATHPOW:
	y = math.Pow(x, float64(p))
	return
}

// Courant returns the largest stable time step of the Yee scheme scaled by cfl
func Courant(cfl float64, dx []float64) (dt float64) {
	var sum float64
	for _, d := range dx {
		sum += 1 / (d * d)
	}
	dt = cfl / (Clight * math.Sqrt(sum))
	return
}
