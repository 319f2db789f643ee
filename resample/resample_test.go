package resample

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phasefield/dnsinit/characteristics"
	"github.com/phasefield/dnsinit/geometry2D"
	"github.com/phasefield/dnsinit/grid2D"
	"github.com/phasefield/dnsinit/utils"
)

func squareCloud(n int, seed int64) (xs, ys []float64) {
	rng := rand.New(rand.NewSource(seed))
	xs = []float64{0, 1, 1, 0}
	ys = []float64{0, 0, 1, 1}
	for i := 0; i < n; i++ {
		xs = append(xs, 0.05+0.9*rng.Float64())
		ys = append(ys, 0.05+0.9*rng.Float64())
	}
	return
}

func sample(xs, ys []float64, fn func(x, y float64) float64) (f []float64) {
	f = make([]float64, len(xs))
	for i := range xs {
		f[i] = fn(xs[i], ys[i])
	}
	return
}

func TestLinearExactness(t *testing.T) {
	var (
		xs, ys = squareCloud(80, 3)
		fn     = func(x, y float64) float64 { return 2 + 3*x - 4*y }
		f      = sample(xs, ys, fn)
		g, _   = grid2D.NewGrid(utils.Linspace(0, 1, 11), utils.Linspace(0, 1, 9))
	)
	for _, m := range []Method{Cubic, Linear} {
		r := NewResampler(geometry2D.BowyerWatson{})
		r.Primary = m
		s, err := r.NewSites(xs, ys)
		require.NoError(t, err)
		out, err := r.ToGrid(s, f, g)
		require.NoError(t, err)
		for i, x := range g.X {
			for j, y := range g.Y {
				assert.InDelta(t, fn(x, y), out.At(i, j), 1e-9, "%s at (%g, %g)", m, x, y)
			}
		}
	}
}

func TestCubicSmoothness(t *testing.T) {
	// The cubic patch tracks a smooth field better than the linear one
	var (
		xs, ys = squareCloud(200, 11)
		fn     = func(x, y float64) float64 { return math.Sin(3*x) * math.Cos(2*y) }
		f      = sample(xs, ys, fn)
		qx, qy = squareCloud(100, 12)
		r      = NewResampler(geometry2D.BowyerWatson{})
	)
	s, err := r.NewSites(xs, ys)
	require.NoError(t, err)
	cub, err := r.AtPoints(s, f, qx, qy)
	require.NoError(t, err)
	r.Primary = Linear
	lin, err := r.AtPoints(s, f, qx, qy)
	require.NoError(t, err)
	var eCub, eLin float64
	for i := range qx {
		exact := fn(qx[i], qy[i])
		eCub += math.Abs(cub[i] - exact)
		eLin += math.Abs(lin[i] - exact)
	}
	assert.Less(t, eCub, eLin)
}

func TestCloudRoundTrip(t *testing.T) {
	var (
		n     = 12
		seeds = make([]characteristics.Seed, n)
	)
	for i := range seeds {
		x := float64(i) * 0.5
		// Interface y = -0.1 x^2 with its upward normal
		slope := -0.2 * x
		norm := math.Hypot(slope, 1)
		seeds[i] = characteristics.Seed{X: x, Y: -0.1 * x * x, Nx: -slope / norm, Ny: 1 / norm}
	}
	m, err := characteristics.NewMarcher(0.5, 2, profile{})
	require.NoError(t, err)
	c := m.March(seeds)

	r := NewResampler(geometry2D.BowyerWatson{})
	s, err := r.NewSites(c.X, c.Y)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Duplicates())
	sx, sy := c.Seeds()
	v, err := r.AtPoints(s, c.Psi, sx, sy)
	require.NoError(t, err)
	for i := range v {
		assert.InDelta(t, 0., v[i], 1e-12)
	}
	// Every cloud point is reproduced
	u, err := r.AtPoints(s, c.U, c.X, c.Y)
	require.NoError(t, err)
	for i := range u {
		assert.InDelta(t, c.U[i], u[i], 1e-12)
	}

	// A grid well beyond the hull is fully defined after the fallback pass
	g, err := grid2D.NewGrid(utils.Linspace(-5, 10, 31), utils.Linspace(-8, 4, 25))
	require.NoError(t, err)
	psi, err := r.ToGrid(s, c.Psi, g)
	require.NoError(t, err)
	assert.False(t, utils.IsNan(psi))

	r.Fallback = false
	raw, err := r.ToGrid(s, c.Psi, g)
	require.NoError(t, err)
	assert.True(t, utils.IsNan(raw))
	// The fallback only touches cells the primary pass left undefined
	nx, ny := g.Dims()
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			if !math.IsNaN(raw.At(i, j)) {
				assert.Equal(t, raw.At(i, j), psi.At(i, j))
			}
		}
	}

	// Parallel rows give the same grid
	r.Fallback = true
	for _, np := range []int{2, 5, 0} {
		r.ParallelDegree = np
		pg, err := r.ToGrid(s, c.Psi, g)
		require.NoError(t, err)
		assert.Equal(t, psi.RawMatrix().Data, pg.RawMatrix().Data)
	}
}

type profile struct{}

func (profile) Predict(s float64) float64 { return 10 - s }

func TestNearest(t *testing.T) {
	var (
		xs = []float64{0, 2, 1, 0, 2}
		ys = []float64{0, 0, 1, 0, 2}
		f  = []float64{1, 2, 3, 4, 5}
		r  = NewResampler(geometry2D.BowyerWatson{})
	)
	r.Primary = Nearest
	s, err := r.NewSites(xs, ys)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Duplicates())
	assert.Equal(t, 4, s.Len())
	assert.Nil(t, s.Mesh)
	// (1, 0) is equidistant from points 0 and 1, (0, 0) appears twice
	v, err := r.AtPoints(s, f, []float64{1, 0, 1.9, 10}, []float64{0, 0, 1.9, 10})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 5, 5}, v)

	_, err = r.AtPoints(s, f[:2], []float64{0}, []float64{0})
	assert.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestDegenerateSites(t *testing.T) {
	var (
		xs = []float64{0, 1, 2, 3}
		ys = []float64{0, 1, 2, 3}
		f  = []float64{0, 1, 2, 3}
		g  *grid2D.Grid
	)
	g, err := grid2D.NewGrid([]float64{0, 3}, []float64{0, 3})
	require.NoError(t, err)
	r := NewResampler(geometry2D.BowyerWatson{})
	out, err := r.Grid(xs, ys, f, g)
	require.NoError(t, err)
	assert.Equal(t, 0., out.At(0, 0))
	assert.Equal(t, 3., out.At(1, 1))
	assert.Equal(t, 1., out.At(1, 0))

	r.Fallback = false
	_, err = r.NewSites(xs, ys)
	assert.True(t, errors.Is(err, geometry2D.ErrCollinear))

	_, err = r.NewSites(nil, nil)
	assert.True(t, errors.Is(err, ErrNoSites))
	_, err = r.NewSites([]float64{0, math.NaN()}, []float64{0, 1})
	assert.True(t, errors.Is(err, ErrNonFinite))
	_, err = r.NewSites([]float64{0}, []float64{0, 1})
	assert.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestVertexNeighbours(t *testing.T) {
	tm, err := geometry2D.NewTriMesh(geometry2D.BowyerWatson{},
		[]float64{0, 1, 1, 0, 0.5}, []float64{0, 0, 1, 1, 0.4})
	require.NoError(t, err)
	nbrs := vertexNeighbours(tm)
	assert.Equal(t, []int{0, 1, 2, 3}, nbrs[4])
	assert.Equal(t, []int{1, 3, 4}, nbrs[0])

	gx, gy := vertexGradients(tm, []float64{1, 3, 8, 6, 4.6}, nbrs)
	for i := range gx {
		// f = 1 + 2x + 5y
		assert.InDelta(t, 2., gx[i], 1e-12)
		assert.InDelta(t, 5., gy[i], 1e-12)
	}
}

func TestNewMethod(t *testing.T) {
	m, err := NewMethod("Nearest")
	require.NoError(t, err)
	assert.Equal(t, Nearest, m)
	m, err = NewMethod("")
	require.NoError(t, err)
	assert.Equal(t, "cubic", m.String())
	_, err = NewMethod("rbf")
	assert.Error(t, err)
}

func TestCubicEdgeContinuity(t *testing.T) {
	// Patches agree in value across every interior edge
	var (
		xs, ys = squareCloud(60, 3)
		f      = sample(xs, ys, func(x, y float64) float64 { return math.Exp(x) * math.Sin(2*y) })
		r      = NewResampler(geometry2D.BowyerWatson{})
	)
	s, err := r.NewSites(xs, ys)
	require.NoError(t, err)
	var (
		ci  = NewCubicInterpolant(s, f)
		tm  = s.Mesh
		eps = 1e-7
	)
	for _, tri := range tm.Tris {
		for i := 0; i < 3; i++ {
			var (
				a, b   = tri[i], tri[(i+1)%3]
				mx, my = (tm.X[a] + tm.X[b]) / 2, (tm.Y[a] + tm.Y[b]) / 2
				dx, dy = tm.X[b] - tm.X[a], tm.Y[b] - tm.Y[a]
				nl     = math.Hypot(dx, dy)
				nx, ny = -dy / nl, dx / nl
			)
			left := ci.Evaluate(mx+eps*nx, my+eps*ny)
			right := ci.Evaluate(mx-eps*nx, my-eps*ny)
			if math.IsNaN(left) || math.IsNaN(right) {
				continue
			}
			assert.InDelta(t, left, right, 1e-4)
		}
	}
}
