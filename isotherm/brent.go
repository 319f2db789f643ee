package isotherm

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNoSignChange  = errors.New("isotherm: residual has the same sign at both bracket ends")
	ErrNotFinite     = errors.New("isotherm: residual is not finite")
	ErrNoConvergence = errors.New("isotherm: root finder did not converge")
)

// Root finder defaults, identical to the classic brentq settings
const (
	DefaultXTol    = 2.e-12
	DefaultRTol    = 4 * 2.220446049250313e-16
	DefaultMaxIter = 100
)

type Residual func(s float64) (float64, error)

type BrentOptions struct {
	XTol, RTol float64
	MaxIter    int
}

func DefaultBrentOptions() BrentOptions {
	return BrentOptions{
		XTol:    DefaultXTol,
		RTol:    DefaultRTol,
		MaxIter: DefaultMaxIter,
	}
}

func evalResidual(f Residual, s float64) (v float64, err error) {
	if v, err = f(s); err != nil {
		return
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		err = fmt.Errorf("f(%g) = %g: %w", s, v, ErrNotFinite)
	}
	return
}

/*
Brent finds a root of f inside [xa, xb] using inverse quadratic interpolation
with bisection safeguards. f must change sign over the bracket; an equal sign at
both ends is reported as ErrNoSignChange, a failed or non-finite evaluation
as ErrNotFinite (or the evaluation's own error), and exhausting the iteration
budget as ErrNoConvergence.
*/
func Brent(f Residual, xa, xb float64, opts BrentOptions) (root float64, err error) {
	var (
		xpre, xcur       = xa, xb
		xblk, fblk       float64
		spre, scur       float64
		fpre, fcur       float64
		delta, sbis      float64
		stry, dpre, dblk float64
	)
	if opts.MaxIter <= 0 {
		opts.MaxIter = DefaultMaxIter
	}
	if fpre, err = evalResidual(f, xpre); err != nil {
		return
	}
	if fcur, err = evalResidual(f, xcur); err != nil {
		return
	}
	if fpre*fcur > 0 {
		err = fmt.Errorf("f(%g) = %g, f(%g) = %g: %w", xa, fpre, xb, fcur, ErrNoSignChange)
		return
	}
	if fpre == 0 {
		return xpre, nil
	}
	if fcur == 0 {
		return xcur, nil
	}
	for i := 0; i < opts.MaxIter; i++ {
		if fpre != 0 && fcur != 0 && math.Signbit(fpre) != math.Signbit(fcur) {
			xblk, fblk = xpre, fpre
			spre = xcur - xpre
			scur = spre
		}
		if math.Abs(fblk) < math.Abs(fcur) {
			xpre, xcur, xblk = xcur, xblk, xcur
			fpre, fcur, fblk = fcur, fblk, fcur
		}
		delta = (opts.XTol + opts.RTol*math.Abs(xcur)) / 2
		sbis = (xblk - xcur) / 2
		if fcur == 0 || math.Abs(sbis) < delta {
			return xcur, nil
		}
		if math.Abs(spre) > delta && math.Abs(fcur) < math.Abs(fpre) {
			if xpre == xblk {
				// secant
				stry = -fcur * (xcur - xpre) / (fcur - fpre)
			} else {
				// inverse quadratic
				dpre = (fpre - fcur) / (xpre - xcur)
				dblk = (fblk - fcur) / (xblk - xcur)
				stry = -fcur * (fblk*dblk - fpre*dpre) / (dblk * dpre * (fblk - fpre))
			}
			if 2*math.Abs(stry) < math.Min(math.Abs(spre), 3*math.Abs(sbis)-delta) {
				spre, scur = scur, stry
			} else {
				spre, scur = sbis, sbis
			}
		} else {
			spre, scur = sbis, sbis
		}
		xpre, fpre = xcur, fcur
		if math.Abs(scur) > delta {
			xcur += scur
		} else if sbis > 0 {
			xcur += delta
		} else {
			xcur -= delta
		}
		if fcur, err = evalResidual(f, xcur); err != nil {
			return
		}
	}
	err = fmt.Errorf("after %d iterations at x = %g: %w", opts.MaxIter, xcur, ErrNoConvergence)
	return xcur, err
}
