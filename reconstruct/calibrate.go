package reconstruct

import (
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/phasefield/dnsinit/grid2D"
	"github.com/phasefield/dnsinit/isotherm"
)

var (
	ErrLineIndex        = errors.New("reconstruct: line id out of range")
	ErrDegenerateCircle = errors.New("reconstruct: interface ends at equal depth, circle undefined")
)

/*
Lines are tip lines moved onto the target isotherm. Angle is in radians,
Residual is T - target at the calibrated start.
*/
type Lines struct {
	IDs      []int
	Angle    []float64
	X, Y     []float64
	Distance []float64
	Residual []float64
}

func (l Lines) Len() int { return len(l.IDs) }

/*
CalibrateLines walks each selected line backwards from its first point,
(x - s cos a, y - s sin a), and stops where the temperature reaches the
target. s is searched in [0, reach].
*/
func CalibrateLines(T grid2D.Interpolator, xArr, yArr *mat.Dense, theta []float64, ids []int,
	target, reach float64, opts isotherm.BrentOptions) (l Lines, err error) {
	var (
		n = len(ids)
	)
	l = Lines{
		IDs:      append([]int(nil), ids...),
		Angle:    make([]float64, n),
		X:        make([]float64, n),
		Y:        make([]float64, n),
		Distance: make([]float64, n),
		Residual: make([]float64, n),
	}
	nLines, _ := xArr.Dims()
	for ii, id := range ids {
		if id < 0 || id >= nLines || id >= len(theta) {
			err = fmt.Errorf("line %d of %d: %w", id, nLines, ErrLineIndex)
			return Lines{}, err
		}
		var (
			a        = theta[id] * math.Pi / 180
			xst, yst = xArr.At(id, 0), yArr.At(id, 0)
			ca, sa   = math.Cos(a), math.Sin(a)
		)
		f := func(s float64) (float64, error) {
			v, err := T.Evaluate(xst-s*ca, yst-s*sa)
			return v - target, err
		}
		var dist float64
		if dist, err = isotherm.Brent(f, 0, reach, opts); err != nil {
			err = fmt.Errorf("calibrating line %d: %w", id, err)
			return Lines{}, err
		}
		l.Angle[ii] = a
		l.Distance[ii] = dist
		l.X[ii] = xst - dist*ca
		l.Y[ii] = yst - dist*sa
		var v float64
		if v, err = T.Evaluate(l.X[ii], l.Y[ii]); err != nil {
			return Lines{}, err
		}
		l.Residual[ii] = v - target
		log.WithFields(log.Fields{
			"line":     id,
			"angle":    theta[id],
			"distance": dist,
			"residual": l.Residual[ii],
		}).Debug("tip line calibrated")
	}
	return
}

// Circle approximates the interface by a circle centred on x = 0
type Circle struct {
	Cent, R0 float64
	Err      []float64
}

/*
FitCircle places the centre at (0, Cent) so that the circle passes through
the first and last interface points, the last one being the bottom of the
pool. Err is 1 - |p - c|^2 / R0^2 per interface point.
*/
func FitCircle(p isotherm.Polyline) (c Circle, err error) {
	var (
		n = p.Len()
	)
	if n < 2 {
		err = fmt.Errorf("have %d points: %w", n, isotherm.ErrTooFewPoints)
		return
	}
	var (
		x0, y0 = p.X[0], p.Y[0]
		yN     = p.Y[n-1]
	)
	if y0 == yN {
		err = fmt.Errorf("y = %g at both ends: %w", y0, ErrDegenerateCircle)
		return
	}
	c.Cent = (y0*y0 + x0*x0 - yN*yN) / (2 * (y0 - yN))
	c.R0 = c.Cent - yN
	c.Err = make([]float64, n)
	for i := range p.X {
		dy := c.Cent - p.Y[i]
		c.Err[i] = 1 - (p.X[i]*p.X[i]+dy*dy)/(c.R0*c.R0)
	}
	return
}

// MaxAbsErr is the worst circle misfit over the interface
func (c Circle) MaxAbsErr() (e float64) {
	for _, v := range c.Err {
		e = math.Max(e, math.Abs(v))
	}
	return
}
