package grid2D

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testGrid(t *testing.T) *Grid {
	g, err := NewGrid([]float64{0, 1, 2, 3, 4}, []float64{-4, -3, -2, -1, 0})
	require.NoError(t, err)
	return g
}

func TestNewGrid(t *testing.T) {
	_, err := NewGrid([]float64{0}, []float64{0, 1})
	assert.True(t, errors.Is(err, ErrGridTooSmall))
	_, err = NewGrid([]float64{0, 1, 1}, []float64{0, 1})
	assert.True(t, errors.Is(err, ErrGridNotAscending))
	_, err = NewGrid([]float64{0, 1}, []float64{1, 0})
	assert.True(t, errors.Is(err, ErrGridNotAscending))

	g := testGrid(t)
	assert.Equal(t, 1., g.Spacing())
	_, err = NewField(g, mat.NewDense(5, 4, nil))
	assert.True(t, errors.Is(err, ErrShapeMismatch))
	_, err = NewField(g, mat.NewDense(5, 5, nil))
	assert.NoError(t, err)
	XX, YY := g.Mesh()
	assert.Equal(t, 3., XX.At(3, 1))
	assert.Equal(t, -3., YY.At(3, 1))
}

func TestBilinear(t *testing.T) {
	var (
		g  = testGrid(t)
		fn = func(x, y float64) float64 { return 1 + 2*x - 3*y + 0.5*x*y }
		f  = NewFieldFunc(g, fn)
	)
	{ // Exact on bilinear data, inside and at nodes
		bi := NewBilinearInterpolator(f, false)
		for _, pt := range [][2]float64{{0, -4}, {4, 0}, {1.3, -2.7}, {3.99, -0.01}, {2, -2}} {
			v, err := bi.Evaluate(pt[0], pt[1])
			require.NoError(t, err)
			assert.InDelta(t, fn(pt[0], pt[1]), v, 1e-12)
		}
		_, err := bi.Evaluate(4.5, -1)
		assert.True(t, errors.Is(err, ErrOutsideGrid))
		_, err = bi.Evaluate(math.NaN(), -1)
		assert.True(t, errors.Is(err, ErrNonFiniteQuery))
	}
	{ // Linear extrapolation continues the edge cell
		bi := NewBilinearInterpolator(NewFieldFunc(g, func(x, y float64) float64 { return 100 + 25*y }), true)
		v, err := bi.Evaluate(2, 1)
		require.NoError(t, err)
		assert.InDelta(t, 125., v, 1e-12)
		v, err = bi.Evaluate(-1, -5)
		require.NoError(t, err)
		assert.InDelta(t, -25., v, 1e-12)
	}
}

func TestBicubic(t *testing.T) {
	var (
		g  = testGrid(t)
		fn = func(x, y float64) float64 { return 2*x + 3*y - x*y + 7 }
		f  = NewFieldFunc(g, fn)
	)
	ip, err := NewInterpolator(f, Bicubic, false)
	require.NoError(t, err)
	for _, pt := range [][2]float64{{0, -4}, {0.5, -3.5}, {2.25, -1.75}, {3.9, -0.1}, {4, 0}} {
		v, err := ip.Evaluate(pt[0], pt[1])
		require.NoError(t, err)
		assert.InDelta(t, fn(pt[0], pt[1]), v, 1e-10)
	}
	_, err = ip.Evaluate(-0.1, -1)
	assert.True(t, errors.Is(err, ErrOutsideGrid))

	ipx, err := NewInterpolator(f, Bicubic, true)
	require.NoError(t, err)
	v, err := ipx.Evaluate(5, -1)
	require.NoError(t, err)
	assert.InDelta(t, fn(5, -1), v, 1e-10)

	{ // A smooth field is captured better than bilinear
		var (
			gf, _ = NewGrid([]float64{0, 0.5, 1, 1.5, 2, 2.5, 3}, []float64{0, 0.5, 1, 1.5, 2, 2.5, 3})
			sfn   = func(x, y float64) float64 { return math.Sin(x) * math.Cos(y) }
			sf    = NewFieldFunc(gf, sfn)
			lin   = NewBilinearInterpolator(sf, false)
		)
		cub, err := NewBicubicInterpolator(sf, false)
		require.NoError(t, err)
		vl, _ := lin.Evaluate(1.25, 1.25)
		vc, _ := cub.Evaluate(1.25, 1.25)
		exact := sfn(1.25, 1.25)
		assert.Less(t, math.Abs(vc-exact), math.Abs(vl-exact))
	}
}

func TestNewKind(t *testing.T) {
	k, err := NewKind("Cubic")
	require.NoError(t, err)
	assert.Equal(t, Bicubic, k)
	k, err = NewKind("")
	require.NoError(t, err)
	assert.Equal(t, Bilinear, k)
	assert.Equal(t, "bilinear", k.String())
	_, err = NewKind("quintic")
	assert.Error(t, err)
}
