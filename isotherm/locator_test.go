package isotherm

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phasefield/dnsinit/grid2D"
	"github.com/phasefield/dnsinit/utils"
)

func linearField(t *testing.T, nx, ny int, fn func(x, y float64) float64) (*grid2D.Grid, grid2D.Interpolator) {
	g, err := grid2D.NewGrid(utils.Linspace(0, float64(nx-1), nx), utils.Linspace(-float64(ny-1), 0, ny))
	require.NoError(t, err)
	ip, err := grid2D.NewInterpolator(grid2D.NewFieldFunc(g, fn), grid2D.Bilinear, false)
	require.NoError(t, err)
	return g, ip
}

func TestLocateFlatIsotherm(t *testing.T) {
	g, T := linearField(t, 5, 5, func(x, y float64) float64 { return 100 + 25*y })
	samples := NewLocator(g).Locate(T, g.X, 100)
	require.Equal(t, 5, len(samples))
	for j, s := range samples {
		assert.Equal(t, Valid, s.Status)
		assert.Equal(t, g.X[j], s.X)
		assert.InDelta(t, 0., s.Y, 1e-12)
	}
	p := Filter(samples)
	assert.Equal(t, 5, p.Len())
}

func TestLocateLinearField(t *testing.T) {
	var (
		fn    = func(x, y float64) float64 { return 50 + 10*x + 20*y }
		g, T  = linearField(t, 5, 5, fn)
		xTop  = utils.Linspace(0, 4, 17)
		exact = func(x float64) float64 { return -1.5 - 0.5*x }
	)
	samples := NewLocator(g).Locate(T, xTop, 20)
	for j, s := range samples {
		require.True(t, s.IsValid())
		assert.InDelta(t, exact(xTop[j]), s.Y, 1e-9)
		v, err := T.Evaluate(s.X, s.Y)
		require.NoError(t, err)
		assert.InDelta(t, 20., v, 1e-8)
	}
}

func TestLocateMissingColumns(t *testing.T) {
	// The isotherm dips below the bracket on the right half
	g, T := linearField(t, 9, 5, func(x, y float64) float64 { return 100 + 25*y + 20*x })
	samples := NewLocator(g).Locate(T, g.X, 100)
	var valid int
	for _, s := range samples {
		switch s.Status {
		case Valid:
			valid++
		case NoIntersection:
			assert.True(t, math.IsNaN(s.X))
			assert.True(t, math.IsNaN(s.Y))
			assert.True(t, errors.Is(s.Err, ErrNoSignChange))
		default:
			t.Fatalf("unexpected status %s", s.Status)
		}
	}
	assert.Equal(t, 6, valid)
	p := Filter(samples)
	assert.Equal(t, valid, p.Len())
	assert.True(t, utils.IsAscending(p.X))

	// A bracket reaching outside the grid is a solver failure, not a miss
	l := NewLocator(g)
	l.Lower = -10
	samples = l.Locate(T, g.X[:2], 100)
	for _, s := range samples {
		assert.Equal(t, BracketFailure, s.Status)
		assert.True(t, errors.Is(s.Err, grid2D.ErrOutsideGrid))
	}
	assert.Equal(t, 0, Filter(samples).Len())
}

func TestLocateParallelDegree(t *testing.T) {
	var (
		g, T = linearField(t, 21, 11, func(x, y float64) float64 {
			return 10 + 3*y + math.Sin(x/3)
		})
		xTop = utils.Linspace(0, 20, 101)
	)
	l := NewLocator(g)
	serial := l.Locate(T, xTop, 5)
	for _, np := range []int{2, 3, 8, 0} {
		l.ParallelDegree = np
		assert.Equal(t, serial, l.Locate(T, xTop, 5))
	}
}

func TestLocateSubmergedGrid(t *testing.T) {
	// Grid top at y = -2, the bracket must stop there
	g, err := grid2D.NewGrid(utils.Linspace(0, 4, 5), utils.Linspace(-10, -2, 9))
	require.NoError(t, err)
	T, err := grid2D.NewInterpolator(grid2D.NewFieldFunc(g,
		func(x, y float64) float64 { return 100 + 25*(y+5) }), grid2D.Bilinear, false)
	require.NoError(t, err)
	loc := NewLocator(g)
	assert.Equal(t, -2., loc.Upper)
	assert.Equal(t, -10., loc.Lower)
	samples := loc.Locate(T, g.X, 100)
	for _, s := range samples {
		require.Equal(t, Valid, s.Status, s.Err)
		assert.InDelta(t, -5., s.Y, 1e-9)
	}
	assert.Equal(t, 5, Filter(samples).Len())
}
