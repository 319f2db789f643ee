package grid2D

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/interp"
)

type Kind uint8

const (
	Bilinear Kind = iota
	Bicubic
)

func NewKind(label string) (k Kind, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "linear", "bilinear":
		k = Bilinear
	case "cubic", "bicubic":
		k = Bicubic
	default:
		err = fmt.Errorf("grid2D: unknown interpolation kind %q", label)
	}
	return
}

func (k Kind) String() string {
	switch k {
	case Bicubic:
		return "bicubic"
	default:
		return "bilinear"
	}
}

// Interpolator evaluates a gridded scalar field at arbitrary points
type Interpolator interface {
	Evaluate(x0, y0 float64) (float64, error)
}

func NewInterpolator(f Field, kind Kind, extrapolate bool) (Interpolator, error) {
	switch kind {
	case Bicubic:
		return NewBicubicInterpolator(f, extrapolate)
	default:
		return NewBilinearInterpolator(f, extrapolate), nil
	}
}

/*
BilinearInterpolator blends the four corners of the cell containing the query
point. When Extrapolate is set, points beyond the grid use the nearest edge cell
with unclamped local coordinates, i.e. linear extrapolation along each axis.
*/
type BilinearInterpolator struct {
	Field       Field
	Extrapolate bool
}

func NewBilinearInterpolator(f Field, extrapolate bool) *BilinearInterpolator {
	return &BilinearInterpolator{
		Field:       f,
		Extrapolate: extrapolate,
	}
}

func (bi *BilinearInterpolator) Evaluate(x0, y0 float64) (v float64, err error) {
	var (
		g = bi.Field.Grid
		d = bi.Field.Data
	)
	if err = checkQuery(g, x0, y0, bi.Extrapolate); err != nil {
		return
	}
	var (
		i  = cell(g.X, x0)
		j  = cell(g.Y, y0)
		tx = (x0 - g.X[i]) / (g.X[i+1] - g.X[i])
		ty = (y0 - g.Y[j]) / (g.Y[j+1] - g.Y[j])
	)
	v = (1-tx)*(1-ty)*d.At(i, j) +
		tx*(1-ty)*d.At(i+1, j) +
		(1-tx)*ty*d.At(i, j+1) +
		tx*ty*d.At(i+1, j+1)
	return
}

func checkQuery(g *Grid, x0, y0 float64, extrapolate bool) error {
	if math.IsNaN(x0) || math.IsNaN(y0) || math.IsInf(x0, 0) || math.IsInf(y0, 0) {
		return fmt.Errorf("(%g, %g): %w", x0, y0, ErrNonFiniteQuery)
	}
	if !extrapolate && !g.Contains(x0, y0) {
		return fmt.Errorf("(%g, %g): %w", x0, y0, ErrOutsideGrid)
	}
	return nil
}

/*
BicubicInterpolator is a tensor product of natural cubic splines. A spline
along y is fitted once for every x grid line; an evaluation samples those
splines at y0 over a window of four x lines around x0 and fits a natural cubic
across them. Points outside the grid fall back to bilinear extrapolation when
allowed.
*/
type BicubicInterpolator struct {
	Field       Field
	Extrapolate bool
	columns     []*interp.NaturalCubic
	linear      *BilinearInterpolator
}

func NewBicubicInterpolator(f Field, extrapolate bool) (bc *BicubicInterpolator, err error) {
	var (
		g      = f.Grid
		nx, ny = g.Dims()
		col    = make([]float64, ny)
	)
	bc = &BicubicInterpolator{
		Field:       f,
		Extrapolate: extrapolate,
		columns:     make([]*interp.NaturalCubic, nx),
		linear:      NewBilinearInterpolator(f, extrapolate),
	}
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			col[j] = f.Data.At(i, j)
		}
		bc.columns[i] = &interp.NaturalCubic{}
		if err = bc.columns[i].Fit(g.Y, col); err != nil {
			err = fmt.Errorf("grid2D: fitting spline on x line %d: %w", i, err)
			return nil, err
		}
	}
	return
}

func (bc *BicubicInterpolator) Evaluate(x0, y0 float64) (v float64, err error) {
	var (
		g = bc.Field.Grid
	)
	if err = checkQuery(g, x0, y0, bc.Extrapolate); err != nil {
		return
	}
	if !g.Contains(x0, y0) {
		return bc.linear.Evaluate(x0, y0)
	}
	var (
		nx     = len(g.X)
		window = 4
	)
	if nx < window {
		window = nx
	}
	i0 := cell(g.X, x0) - 1
	if i0 < 0 {
		i0 = 0
	}
	if i0 > nx-window {
		i0 = nx - window
	}
	var (
		xs = g.X[i0 : i0+window]
		vs = make([]float64, window)
	)
	for k := range vs {
		vs[k] = bc.columns[i0+k].Predict(y0)
	}
	var row interp.NaturalCubic
	if err = row.Fit(xs, vs); err != nil {
		return
	}
	v = row.Predict(x0)
	return
}
