package resample

import (
	"math"

	"github.com/phasefield/dnsinit/geometry2D"
)

// Interpolant evaluates scattered data at arbitrary points, NaN where it is
// not defined.
type Interpolant interface {
	Evaluate(x, y float64) float64
}

// LinearInterpolant is the piecewise linear surface over the triangulation
type LinearInterpolant struct {
	mesh  *geometry2D.TriMesh
	index *bucketIndex
	f     []float64
}

func NewLinearInterpolant(s *Sites, f []float64) *LinearInterpolant {
	return &LinearInterpolant{
		mesh:  s.Mesh,
		index: s.index,
		f:     s.gather(f),
	}
}

func (li *LinearInterpolant) Evaluate(x, y float64) float64 {
	k, b := li.index.Locate(x, y)
	if k < 0 {
		return math.NaN()
	}
	tri := li.mesh.Tris[k]
	return b[0]*li.f[tri[0]] + b[1]*li.f[tri[1]] + b[2]*li.f[tri[2]]
}

/*
CubicInterpolant is a cubic Bezier patch per triangle. The patch matches the
data value and the estimated gradient at each vertex; the centre control
point is b111 = E + (E - V)/2, with E the mean of the six edge control points
and V the mean of the vertex values, which makes the patch reproduce
quadratics when the gradients are exact. Neighbouring patches share values
along their common edge but not cross-edge derivatives, so the surface is C0,
not C1 like a Clough-Tocher split.
*/
type CubicInterpolant struct {
	mesh    *geometry2D.TriMesh
	index   *bucketIndex
	control [][10]float64
}

// control point order: b300, b030, b003, b210, b120, b021, b012, b102, b201, b111
func NewCubicInterpolant(s *Sites, fIn []float64) (ci *CubicInterpolant) {
	var (
		tm     = s.Mesh
		f      = s.gather(fIn)
		gx, gy = vertexGradients(tm, f, s.neighbours)
	)
	ci = &CubicInterpolant{
		mesh:    tm,
		index:   s.index,
		control: make([][10]float64, tm.NumTris()),
	}
	// edge control point: value at a plus a third of the directional derivative toward b
	edge := func(a, b int32) float64 {
		return f[a] + (gx[a]*(tm.X[b]-tm.X[a])+gy[a]*(tm.Y[b]-tm.Y[a]))/3
	}
	for k, tri := range tm.Tris {
		var (
			p1, p2, p3 = tri[0], tri[1], tri[2]
			c          = &ci.control[k]
		)
		c[0], c[1], c[2] = f[p1], f[p2], f[p3]
		c[3], c[4] = edge(p1, p2), edge(p2, p1)
		c[5], c[6] = edge(p2, p3), edge(p3, p2)
		c[7], c[8] = edge(p3, p1), edge(p1, p3)
		var (
			E = (c[3] + c[4] + c[5] + c[6] + c[7] + c[8]) / 6
			V = (c[0] + c[1] + c[2]) / 3
		)
		c[9] = E + (E-V)/2
	}
	return
}

func (ci *CubicInterpolant) Evaluate(x, y float64) float64 {
	k, b := ci.index.Locate(x, y)
	if k < 0 {
		return math.NaN()
	}
	var (
		c       = &ci.control[k]
		u, v, w = b[0], b[1], b[2]
	)
	return c[0]*u*u*u + c[1]*v*v*v + c[2]*w*w*w +
		3*(c[3]*u*u*v+c[4]*u*v*v+c[5]*v*v*w+c[6]*v*w*w+c[7]*w*w*u+c[8]*w*u*u) +
		6*c[9]*u*v*w
}
