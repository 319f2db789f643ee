package characteristics

import (
	"errors"
	"fmt"
	"math"

	"github.com/phasefield/dnsinit/grid2D"
	"github.com/phasefield/dnsinit/isotherm"
	"github.com/phasefield/dnsinit/utils"
)

var (
	ErrDegenerateNormal = errors.New("characteristics: thermal gradient vanishes, normal undefined")
	ErrLengthMismatch   = errors.New("characteristics: interface and normal arrays differ in length")
)

// Seed is an interface point together with the fixed unit direction its
// characteristic follows.
type Seed struct {
	X, Y   float64
	Nx, Ny float64
}

/*
InterfaceNormals returns the unit thermal gradient direction at every point
of the polyline, pointing toward increasing temperature. A gradient whose
magnitude is below NODETOL has no direction and is reported with the index of
the offending point.
*/
func InterfaceNormals(gx, gy grid2D.Interpolator, p isotherm.Polyline) (nx, ny []float64, err error) {
	var (
		N = p.Len()
	)
	nx, ny = make([]float64, N), make([]float64, N)
	for j := 0; j < N; j++ {
		var vx, vy float64
		if vx, err = gx.Evaluate(p.X[j], p.Y[j]); err != nil {
			err = fmt.Errorf("x gradient at point %d: %w", j, err)
			return nil, nil, err
		}
		if vy, err = gy.Evaluate(p.X[j], p.Y[j]); err != nil {
			err = fmt.Errorf("y gradient at point %d: %w", j, err)
			return nil, nil, err
		}
		vn := math.Hypot(vx, vy)
		if !(vn > utils.NODETOL) {
			err = fmt.Errorf("point %d at (%g, %g), |grad T| = %g: %w",
				j, p.X[j], p.Y[j], vn, ErrDegenerateNormal)
			return nil, nil, err
		}
		nx[j], ny[j] = vx/vn, vy/vn
	}
	return
}

// NewSeeds joins the extension and the original interface, in ascending x,
// into the list of characteristic seeds.
func NewSeeds(ext isotherm.Extension, p isotherm.Polyline, nx, ny []float64) (seeds []Seed, err error) {
	if len(nx) != p.Len() || len(ny) != p.Len() {
		err = fmt.Errorf("%d points, %d x %d normals: %w", p.Len(), len(nx), len(ny), ErrLengthMismatch)
		return
	}
	seeds = make([]Seed, 0, ext.Len()+p.Len())
	for i := 0; i < ext.Len(); i++ {
		seeds = append(seeds, Seed{X: ext.X[i], Y: ext.Y[i], Nx: ext.Nx[i], Ny: ext.Ny[i]})
	}
	for j := 0; j < p.Len(); j++ {
		seeds = append(seeds, Seed{X: p.X[j], Y: p.Y[j], Nx: nx[j], Ny: ny[j]})
	}
	return
}
