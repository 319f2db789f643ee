package isotherm

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/phasefield/dnsinit/utils"
)

var (
	ErrTooFewPoints     = errors.New("isotherm: polyline needs at least two points")
	ErrNotAscending     = errors.New("isotherm: polyline x must be strictly ascending")
	ErrDegenerateNormal = errors.New("isotherm: zero length segment, normal undefined")
	ErrBadSpacing       = errors.New("isotherm: grid spacing must be positive")
)

// Extension is the part of the interface added to the left of the sampled
// polyline, one unit normal per point.
type Extension struct {
	X, Y   []float64
	Nx, Ny []float64
}

func (e Extension) Len() int { return len(e.X) }

// Prepend returns the extension followed by p
func (e Extension) Prepend(p Polyline) (out Polyline) {
	out.X = make([]float64, 0, e.Len()+p.Len())
	out.Y = make([]float64, 0, e.Len()+p.Len())
	out.X = append(append(out.X, e.X...), p.X...)
	out.Y = append(append(out.Y, e.Y...), p.Y...)
	return
}

// LinearExtrapolator is piecewise linear inside the samples and continues the
// first and last segments outside of them.
type LinearExtrapolator struct {
	pl         interp.PiecewiseLinear
	xs, ys     []float64
	slopeFirst float64
	slopeLast  float64
}

func NewLinearExtrapolator(xs, ys []float64) (le *LinearExtrapolator, err error) {
	var n = len(xs)
	if n < 2 || len(ys) != n {
		err = fmt.Errorf("have %d points: %w", n, ErrTooFewPoints)
		return
	}
	if !utils.IsAscending(xs) {
		err = ErrNotAscending
		return
	}
	le = &LinearExtrapolator{
		xs:         xs,
		ys:         ys,
		slopeFirst: (ys[1] - ys[0]) / (xs[1] - xs[0]),
		slopeLast:  (ys[n-1] - ys[n-2]) / (xs[n-1] - xs[n-2]),
	}
	if err = le.pl.Fit(xs, ys); err != nil {
		return nil, err
	}
	return
}

func (le *LinearExtrapolator) Predict(x float64) float64 {
	var n = len(le.xs)
	switch {
	case x < le.xs[0]:
		return le.ys[0] + le.slopeFirst*(x-le.xs[0])
	case x > le.xs[n-1]:
		return le.ys[n-1] + le.slopeLast*(x-le.xs[n-1])
	}
	return le.pl.Predict(x)
}

/*
Extend continues the interface from its first sample leftwards to xMin.
floor((X[0]-xMin)/h) points are spread evenly over [xMin, X[0]], their heights
are extrapolated from the polyline, and each gets the normal of the segment to
its right, (-dy, dx)/|(dx, dy)|. The final point coincides with X[0] and is
not part of the extension.
*/
func Extend(p Polyline, xMin, h float64) (ext Extension, err error) {
	if !(h > 0) {
		err = fmt.Errorf("h = %g: %w", h, ErrBadSpacing)
		return
	}
	if p.Len() == 0 {
		err = fmt.Errorf("empty polyline: %w", ErrTooFewPoints)
		return
	}
	nExt := int(math.Floor((p.X[0] - xMin) / h))
	if nExt < 2 {
		return
	}
	var le *LinearExtrapolator
	if le, err = NewLinearExtrapolator(p.X, p.Y); err != nil {
		return
	}
	var (
		xExt = utils.Linspace(xMin, p.X[0], nExt)
		yExt = make([]float64, nExt)
	)
	for i, x := range xExt {
		yExt[i] = le.Predict(x)
	}
	ext = Extension{
		X:  xExt[:nExt-1],
		Y:  yExt[:nExt-1],
		Nx: make([]float64, nExt-1),
		Ny: make([]float64, nExt-1),
	}
	for i := 0; i < nExt-1; i++ {
		var (
			dx   = xExt[i+1] - xExt[i]
			dy   = yExt[i+1] - yExt[i]
			norm = math.Hypot(dx, dy)
		)
		if !(norm > utils.NODETOL) {
			err = fmt.Errorf("extension segment %d at x = %g: %w", i, xExt[i], ErrDegenerateNormal)
			return Extension{}, err
		}
		ext.Nx[i] = -dy / norm
		ext.Ny[i] = dx / norm
	}
	return
}
