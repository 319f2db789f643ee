package initial

import (
	"fmt"
	"math"
	"math/rand/v2"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/phasefield/dnsinit/InputParameters"
	"github.com/phasefield/dnsinit/grid2D"
	"github.com/phasefield/dnsinit/utils"
)

type Type uint8

const (
	SeedType Type = iota
	PlanarType
	SumOfSinesType
)

func (t Type) String() string {
	switch t {
	case SeedType:
		return "seed"
	case PlanarType:
		return "planar"
	case SumOfSinesType:
		return "sum of sines"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Seed is a semicircular nucleus of radius 0.5625 centred on the bottom
// midpoint.
func Seed(xx, zz *mat.Dense, lx float64) (psi *mat.Dense) {
	const r0 = 0.5625
	psi = mat.DenseCopyOf(xx)
	psi.Apply(func(i, j int, x float64) float64 {
		return r0 - math.Hypot(x-lx/2, zz.At(i, j))
	}, xx)
	return
}

// Planar is a flat front at 1% of the domain height
func Planar(zz *mat.Dense, lz float64) (psi *mat.Dense) {
	z0 := 0.01 * lz
	psi = mat.DenseCopyOf(zz)
	psi.Apply(func(_, _ int, z float64) float64 { return z0 - z }, zz)
	return
}

/*
SumOfSines perturbs a flat front at 1% of lx with floor(nx/10) sine modes.
Amplitudes are uniform in [-0.5, 0.5) and phase shifts uniform in [0, lx),
both drawn from rng so the result is reproducible.
*/
func SumOfSines(rng *rand.Rand, xx, zz *mat.Dense, lx float64, nx int) (psi *mat.Dense) {
	var (
		kMax = nx / 10
		A    = make([]float64, kMax)
		xc   = make([]float64, kMax)
		z0   = 0.01 * lx
	)
	for k := range A {
		A[k] = rng.Float64() - 0.5
	}
	for k := range xc {
		xc[k] = rng.Float64() * lx
	}
	psi = mat.DenseCopyOf(zz)
	psi.Apply(func(i, j int, z float64) float64 {
		var (
			x  = xx.At(i, j)
			sp float64
		)
		for k := 0; k < kMax; k++ {
			sp += A[k] * math.Sin(2*math.Pi*float64(k)/lx*(x-xc[k]))
		}
		return -(z - z0 - sp)
	}, zz)
	return
}

/*
Domain is the non-dimensional phase field grid: nx points in x and
nx*asp_ratio points in z, both with spacing dx, starting at the origin.
*/
func Domain(ip *InputParameters.Parameters) (g *grid2D.Grid, lx, lz float64, err error) {
	var (
		sd = ip.Simu.Derived(ip.Phys)
		nx = ip.Simu.Nx
		nz = int(float64(nx) * ip.Simu.AspRatio)
	)
	lx = sd.Lxd / ip.Phys.W0
	lz = lx * ip.Simu.AspRatio
	x := utils.Linspace(0, sd.Dx*float64(nx-1), nx)
	z := utils.Linspace(0, sd.Dx*float64(nz-1), nz)
	g, err = grid2D.NewGrid(x, z)
	return
}

// Generate builds the initial level set selected by ictype
func Generate(ip *InputParameters.Parameters, rng *rand.Rand) (psi grid2D.Field, err error) {
	var (
		g      *grid2D.Grid
		lx, lz float64
	)
	if g, lx, lz, err = Domain(ip); err != nil {
		return
	}
	xx, zz := g.Mesh()
	psi.Grid = g
	switch t := Type(ip.Simu.ICType); t {
	case SeedType:
		psi.Data = Seed(xx, zz, lx)
	case PlanarType:
		psi.Data = Planar(zz, lz)
	case SumOfSinesType:
		psi.Data = SumOfSines(rng, xx, zz, lx, ip.Simu.Nx)
	default:
		err = fmt.Errorf("initial condition %s: %w", t, InputParameters.ErrInvalidParameter)
		return
	}
	nx, nz := g.Dims()
	log.WithFields(log.Fields{
		"type": Type(ip.Simu.ICType).String(),
		"nx":   nx,
		"nz":   nz,
		"lx":   lx,
	}).Debug("initial condition generated")
	return
}
