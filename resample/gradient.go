package resample

import (
	"gonum.org/v1/gonum/mat"

	"github.com/phasefield/dnsinit/geometry2D"
	"github.com/phasefield/dnsinit/utils"
)

// vertexNeighbours lists, for every vertex, the vertices it shares a triangle
// with. The vertex to triangle incidence matrix times its transpose is nonzero
// exactly for those pairs.
func vertexNeighbours(tm *geometry2D.TriMesh) (nbrs [][]int) {
	var (
		nv   = len(tm.X)
		nt   = tm.NumTris()
		VToT = utils.NewDOK(nv, nt, "VToT")
	)
	for k, tri := range tm.Tris {
		for _, v := range tri {
			VToT.Set(int(v), k, 1)
		}
	}
	VToV := VToT.ToCSR().Gram()
	nbrs = make([][]int, nv)
	for i := 0; i < nv; i++ {
		for _, j := range VToV.RowIndices(i) {
			if j != i {
				nbrs[i] = append(nbrs[i], j)
			}
		}
	}
	return
}

/*
vertexGradients estimates grad f at every vertex by inverse square distance
weighted least squares over the mesh neighbours,

	min sum_j w_j (f_j - f_i - g . (p_j - p_i))^2, w_j = 1/|p_j - p_i|^2

which is exact for linear data. Vertices without a solvable system, such as
unused vertices, get a zero gradient.
*/
func vertexGradients(tm *geometry2D.TriMesh, f []float64, nbrs [][]int) (gx, gy []float64) {
	var (
		nv  = len(tm.X)
		A   = mat.NewDense(2, 2, nil)
		b   = mat.NewVecDense(2, nil)
		sol = mat.NewVecDense(2, nil)
	)
	gx, gy = make([]float64, nv), make([]float64, nv)
	for i := 0; i < nv; i++ {
		var a00, a01, a11, b0, b1 float64
		for _, j := range nbrs[i] {
			var (
				dx = tm.X[j] - tm.X[i]
				dy = tm.Y[j] - tm.Y[i]
				df = f[j] - f[i]
				d2 = dx*dx + dy*dy
			)
			if !(d2 > 0) {
				continue
			}
			w := 1 / d2
			a00 += w * dx * dx
			a01 += w * dx * dy
			a11 += w * dy * dy
			b0 += w * dx * df
			b1 += w * dy * df
		}
		// Near singular means the neighbours are collinear with the vertex
		if det := a00*a11 - a01*a01; !(det > utils.NODETOL*(a00+a11)*(a00+a11)) {
			continue
		}
		A.Set(0, 0, a00)
		A.Set(0, 1, a01)
		A.Set(1, 0, a01)
		A.Set(1, 1, a11)
		b.SetVec(0, b0)
		b.SetVec(1, b1)
		if err := sol.SolveVec(A, b); err != nil {
			continue
		}
		gx[i], gy[i] = sol.AtVec(0), sol.AtVec(1)
	}
	return
}
