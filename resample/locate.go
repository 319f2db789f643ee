package resample

import (
	"math"

	"github.com/phasefield/dnsinit/geometry2D"
)

// barycentric tolerance, relative to the triangle area
const baryTol = 1.e-10

/*
bucketIndex is a uniform grid over the bounding box of a triangulation. Every
bucket lists the triangles whose bounding boxes overlap it, in triangle order,
so a lookup returns the lowest numbered triangle containing the point.
*/
type bucketIndex struct {
	mesh    *geometry2D.TriMesh
	box     *geometry2D.BoundingBox
	nbx     int
	nby     int
	hx, hy  float64
	buckets [][]int32
}

func newBucketIndex(tm *geometry2D.TriMesh) (bi *bucketIndex) {
	var (
		nt     = tm.NumTris()
		nb     = int(math.Ceil(math.Sqrt(float64(nt))))
		box    = geometry2D.NewBoundingBox(tm.X, tm.Y)
		dx, dy = box.Extent()
	)
	if nb < 1 {
		nb = 1
	}
	bi = &bucketIndex{
		mesh: tm,
		box:  box,
		nbx:  nb,
		nby:  nb,
	}
	// Flat clouds collapse to a single bucket row or column
	if !(dx > 0) {
		bi.nbx = 1
	}
	if !(dy > 0) {
		bi.nby = 1
	}
	bi.hx = dx / float64(bi.nbx)
	bi.hy = dy / float64(bi.nby)
	bi.buckets = make([][]int32, bi.nbx*bi.nby)
	for k := 0; k < nt; k++ {
		x, y := tm.Vertices(k)
		i0, j0 := bi.bucket(math.Min(x[0], math.Min(x[1], x[2])), math.Min(y[0], math.Min(y[1], y[2])))
		i1, j1 := bi.bucket(math.Max(x[0], math.Max(x[1], x[2])), math.Max(y[0], math.Max(y[1], y[2])))
		for i := i0; i <= i1; i++ {
			for j := j0; j <= j1; j++ {
				ind := i + j*bi.nbx
				bi.buckets[ind] = append(bi.buckets[ind], int32(k))
			}
		}
	}
	return
}

func (bi *bucketIndex) bucket(x, y float64) (i, j int) {
	clamp := func(v, lo, h float64, n int) (b int) {
		if h > 0 {
			b = int((v - lo) / h)
		}
		if b < 0 {
			b = 0
		}
		if b > n-1 {
			b = n - 1
		}
		return
	}
	i = clamp(x, bi.box.XMin[0], bi.hx, bi.nbx)
	j = clamp(y, bi.box.XMin[1], bi.hy, bi.nby)
	return
}

// Locate returns the triangle containing (x, y) and the barycentric
// coordinates of the point in it, or k = -1 outside the triangulation.
func (bi *bucketIndex) Locate(x, y float64) (k int, bary [3]float64) {
	k = -1
	if bi.box == nil || !bi.box.PointInside(x, y) {
		return
	}
	i, j := bi.bucket(x, y)
	for _, kt := range bi.buckets[i+j*bi.nbx] {
		if b, inside := barycentric(bi.mesh, int(kt), x, y); inside {
			return int(kt), b
		}
	}
	return
}

func barycentric(tm *geometry2D.TriMesh, k int, x, y float64) (b [3]float64, inside bool) {
	var (
		tx, ty = tm.Vertices(k)
		area   = geometry2D.Orient(tx[0], ty[0], tx[1], ty[1], tx[2], ty[2])
	)
	if area == 0 {
		return
	}
	b[0] = geometry2D.Orient(x, y, tx[1], ty[1], tx[2], ty[2]) / area
	b[1] = geometry2D.Orient(tx[0], ty[0], x, y, tx[2], ty[2]) / area
	b[2] = 1 - b[0] - b[1]
	inside = b[0] >= -baryTol && b[1] >= -baryTol && b[2] >= -baryTol
	return
}
