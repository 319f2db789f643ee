package resample

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// cloudPoint is a cloud sample that remembers its position in the input
type cloudPoint struct {
	X     [2]float64
	Index int
}

func (p cloudPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(cloudPoint)
	return p.X[d] - q.X[d]
}

func (p cloudPoint) Dims() int { return 2 }

func (p cloudPoint) Distance(c kdtree.Comparable) float64 {
	var (
		q      = c.(cloudPoint)
		dx, dy = p.X[0] - q.X[0], p.X[1] - q.X[1]
	)
	return dx*dx + dy*dy
}

type cloudPoints []cloudPoint

func (p cloudPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p cloudPoints) Len() int                              { return len(p) }
func (p cloudPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// Pivot sorts on the plane with the input index as tie break, so the tree
// shape depends only on the data.
func (p cloudPoints) Pivot(d kdtree.Dim) int {
	sort.Sort(cloudPlane{Dim: d, cloudPoints: p})
	return len(p) / 2
}

type cloudPlane struct {
	kdtree.Dim
	cloudPoints
}

func (p cloudPlane) Less(i, j int) bool {
	a, b := p.cloudPoints[i], p.cloudPoints[j]
	if a.X[p.Dim] != b.X[p.Dim] {
		return a.X[p.Dim] < b.X[p.Dim]
	}
	return a.Index < b.Index
}

func (p cloudPlane) Swap(i, j int) {
	p.cloudPoints[i], p.cloudPoints[j] = p.cloudPoints[j], p.cloudPoints[i]
}

// nearestIndex finds the closest site. Equidistant sites resolve to the one
// that came first in the input.
type nearestIndex struct {
	tree *kdtree.Tree
}

func newNearestIndex(xs, ys []float64) (ni *nearestIndex) {
	pts := make(cloudPoints, len(xs))
	for i := range xs {
		pts[i] = cloudPoint{X: [2]float64{xs[i], ys[i]}, Index: i}
	}
	ni = &nearestIndex{
		tree: kdtree.New(pts, false),
	}
	return
}

func (ni *nearestIndex) Nearest(x, y float64) (index int, dist2 float64) {
	q := cloudPoint{X: [2]float64{x, y}}
	c, d := ni.tree.Nearest(q)
	if c == nil {
		return -1, d
	}
	index, dist2 = c.(cloudPoint).Index, d
	keep := kdtree.NewDistKeeper(d)
	ni.tree.NearestSet(keep, q)
	for _, cd := range keep.Heap {
		if cd.Comparable == nil {
			continue
		}
		if i := cd.Comparable.(cloudPoint).Index; i < index {
			index = i
		}
	}
	return
}

// NearestInterpolant returns the value of the closest site
type NearestInterpolant struct {
	index *nearestIndex
	f     []float64
}

func NewNearestInterpolant(s *Sites, f []float64) *NearestInterpolant {
	return &NearestInterpolant{
		index: s.nearest,
		f:     s.gather(f),
	}
}

func (ni *NearestInterpolant) Evaluate(x, y float64) float64 {
	i, _ := ni.index.Nearest(x, y)
	if i < 0 {
		return math.NaN()
	}
	return ni.f[i]
}
