package characteristics

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

var (
	ErrProfileTooShort    = errors.New("characteristics: velocity profile needs at least one sample")
	ErrProfileNotMonotone = errors.New("characteristics: velocity profile abscissae are not distinct")
)

// Profile maps a signed arc length to a pulling velocity
type Profile interface {
	Predict(s float64) float64
}

/*
PullingProfile is the radial velocity history re-expressed as a function of
signed distance from the tip, r = -(z - zTip). It is padded with the first
velocity at +maxLen and the last at -maxLen so that every marched point lies
inside the sampled range, then interpolated linearly. Queries beyond the pads
return the end values.
*/
type PullingProfile struct {
	R, U []float64
	pl   interp.PiecewiseLinear
}

func NewPullingProfile(z, u []float64, zTip, maxLen float64) (pp *PullingProfile, err error) {
	var (
		n = len(z)
	)
	if n == 0 || len(u) != n {
		err = fmt.Errorf("len(z) = %d, len(u) = %d: %w", n, len(u), ErrProfileTooShort)
		return
	}
	var (
		r    = make([]float64, 0, n+2)
		uu   = make([]float64, 0, n+2)
		inds = make([]int, n+2)
	)
	r = append(r, maxLen)
	uu = append(uu, u[0])
	for i := range z {
		r = append(r, -(z[i] - zTip))
		uu = append(uu, u[i])
	}
	r = append(r, -maxLen)
	uu = append(uu, u[n-1])
	floats.Argsort(r, inds)
	pp = &PullingProfile{
		R: r,
		U: make([]float64, len(uu)),
	}
	for i, ind := range inds {
		pp.U[i] = uu[ind]
	}
	for i := 1; i < len(r); i++ {
		if !(r[i] > r[i-1]) {
			err = fmt.Errorf("r = %g repeated: %w", r[i], ErrProfileNotMonotone)
			return nil, err
		}
	}
	if err = pp.pl.Fit(pp.R, pp.U); err != nil {
		return nil, err
	}
	return
}

func (pp *PullingProfile) Predict(s float64) float64 {
	return pp.pl.Predict(s)
}
