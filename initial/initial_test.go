package initial

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phasefield/dnsinit/InputParameters"
	"github.com/phasefield/dnsinit/utils"
)

func TestSeedPlanar(t *testing.T) {
	xx, zz := utils.Meshgrid([]float64{0, 1, 2, 3, 4}, []float64{0, 0.5, 1})
	psi := Seed(xx, zz, 4)
	assert.InDelta(t, 0.5625, psi.At(2, 0), 1e-15)
	assert.InDelta(t, 0.5625-1, psi.At(2, 2), 1e-15)
	assert.InDelta(t, 0.5625-math.Hypot(2, 0.5), psi.At(0, 1), 1e-15)

	psi = Planar(zz, 50)
	for i := 0; i < 5; i++ {
		assert.InDelta(t, 0.5, psi.At(i, 0), 1e-15)
		assert.InDelta(t, 0., psi.At(i, 1), 1e-15)
		assert.InDelta(t, -0.5, psi.At(i, 2), 1e-15)
	}
}

func TestSumOfSines(t *testing.T) {
	var (
		x      = utils.Linspace(0, 10, 21)
		z      = utils.Linspace(0, 2, 5)
		xx, zz = utils.Meshgrid(x, z)
	)
	p1 := SumOfSines(rand.New(rand.NewPCG(1, 2)), xx, zz, 10, 40)
	p2 := SumOfSines(rand.New(rand.NewPCG(1, 2)), xx, zz, 10, 40)
	p3 := SumOfSines(rand.New(rand.NewPCG(3, 4)), xx, zz, 10, 40)
	assert.Equal(t, p1.RawMatrix().Data, p2.RawMatrix().Data)
	assert.NotEqual(t, p1.RawMatrix().Data, p3.RawMatrix().Data)
	// psi is linear in z with unit slope, the perturbation only depends on x
	for i := range x {
		for j := 1; j < len(z); j++ {
			assert.InDelta(t, -(z[j] - z[j-1]), p1.At(i, j)-p1.At(i, j-1), 1e-12)
		}
	}
	// Fewer than ten points has no modes, a flat front at 1% of lx
	p0 := SumOfSines(rand.New(rand.NewPCG(1, 2)), xx, zz, 10, 9)
	assert.InDelta(t, 0.1, p0.At(3, 0), 1e-15)
}

func TestGenerate(t *testing.T) {
	ip := InputParameters.NewParameters()
	ip.Simu.Nx = 40
	g, lx, lz, err := Domain(ip)
	require.NoError(t, err)
	nx, nz := g.Dims()
	assert.Equal(t, 40, nx)
	assert.Equal(t, 20, nz)
	assert.InDelta(t, 60., lx, 1e-9)
	assert.InDelta(t, 30., lz, 1e-9)
	assert.InDelta(t, 1.5, g.Spacing(), 1e-12)

	for _, ic := range []int{0, 1, 2} {
		ip.Simu.ICType = ic
		psi, err := Generate(ip, rand.New(rand.NewPCG(5, 6)))
		require.NoError(t, err)
		r, c := psi.Data.Dims()
		assert.Equal(t, 40, r)
		assert.Equal(t, 20, c)
		assert.Equal(t, 0, utils.CountNan(psi.Data.RawMatrix().Data))
	}
	ip.Simu.ICType = 1
	psi, err := Generate(ip, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, psi.Data.At(0, 0), 1e-12)

	ip.Simu.ICType = 7
	_, err = Generate(ip, nil)
	assert.True(t, errors.Is(err, InputParameters.ErrInvalidParameter))
}
