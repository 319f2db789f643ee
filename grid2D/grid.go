package grid2D

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/phasefield/dnsinit/utils"
)

var (
	ErrGridTooSmall     = errors.New("grid2D: grid needs at least two points per direction")
	ErrGridNotAscending = errors.New("grid2D: grid coordinates must be strictly ascending")
	ErrShapeMismatch    = errors.New("grid2D: field shape does not match grid")
	ErrOutsideGrid      = errors.New("grid2D: query point outside grid")
	ErrNonFiniteQuery   = errors.New("grid2D: query point is not finite")
)

/*
Grid is a rectilinear grid defined by two strictly ascending coordinate sets.
Field data on the grid is stored nx x ny, so that Data.At(i, j) is the value at
(X[i], Y[j]).
*/
type Grid struct {
	X, Y []float64
}

func NewGrid(x, y []float64) (g *Grid, err error) {
	if len(x) < 2 || len(y) < 2 {
		err = fmt.Errorf("nx = %d, ny = %d: %w", len(x), len(y), ErrGridTooSmall)
		return
	}
	if !utils.IsAscending(x) {
		err = fmt.Errorf("x: %w", ErrGridNotAscending)
		return
	}
	if !utils.IsAscending(y) {
		err = fmt.Errorf("y: %w", ErrGridNotAscending)
		return
	}
	g = &Grid{
		X: append([]float64(nil), x...),
		Y: append([]float64(nil), y...),
	}
	return
}

func (g *Grid) Dims() (nx, ny int) { return len(g.X), len(g.Y) }

// Spacing is the macro grid step used for marching and extension, taken from
// the first x interval.
func (g *Grid) Spacing() float64 { return g.X[1] - g.X[0] }

func (g *Grid) Bounds() (xmin, xmax, ymin, ymax float64) {
	return g.X[0], g.X[len(g.X)-1], g.Y[0], g.Y[len(g.Y)-1]
}

func (g *Grid) Contains(x0, y0 float64) bool {
	xmin, xmax, ymin, ymax := g.Bounds()
	return x0 >= xmin && x0 <= xmax && y0 >= ymin && y0 <= ymax
}

// Mesh returns the grid expanded into 2D coordinate matrices
func (g *Grid) Mesh() (XX, YY *mat.Dense) {
	return utils.Meshgrid(g.X, g.Y)
}

// cell returns the index of the lower-left corner of the cell containing
// c, clamped to the first and last cells so that points outside map to the
// nearest edge cell.
func cell(coords []float64, c float64) (i int) {
	n := len(coords)
	i = sort.SearchFloat64s(coords, c) - 1
	if i < 0 {
		i = 0
	}
	if i > n-2 {
		i = n - 2
	}
	return
}

type Field struct {
	Grid *Grid
	Data *mat.Dense
}

func NewField(g *Grid, data *mat.Dense) (f Field, err error) {
	var (
		nx, ny = g.Dims()
		r, c   = data.Dims()
	)
	if r != nx || c != ny {
		err = fmt.Errorf("data is %d x %d, grid is %d x %d: %w", r, c, nx, ny, ErrShapeMismatch)
		return
	}
	f = Field{Grid: g, Data: data}
	return
}

// NewFieldFunc samples fn at every grid node
func NewFieldFunc(g *Grid, fn func(x, y float64) float64) (f Field) {
	var (
		nx, ny = g.Dims()
		data   = mat.NewDense(nx, ny, nil)
	)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			data.Set(i, j, fn(g.X[i], g.Y[j]))
		}
	}
	return Field{Grid: g, Data: data}
}
