package geometry2D

import (
	"errors"
	"fmt"
	"math"
	"strings"

	graphics2D "github.com/notargets/avs/geometry"
	"github.com/pradeep-pyro/triangle"

	"github.com/phasefield/dnsinit/types"
	"github.com/phasefield/dnsinit/utils"
)

var (
	ErrTooFewPoints = errors.New("geometry2D: triangulation needs at least three points")
	ErrCollinear    = errors.New("geometry2D: points are collinear, no triangles")
)

// Triangulator computes a Delaunay triangulation of a planar point set. The
// returned triangles index into X, Y.
type Triangulator interface {
	Triangulate(X, Y []float64) ([][3]int32, error)
}

func NewTriangulator(label string) (tr Triangulator, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "triangle":
		tr = TriangleLib{}
	case "bowyer-watson", "bowyerwatson", "go":
		tr = BowyerWatson{}
	default:
		err = fmt.Errorf("geometry2D: unknown triangulator %q", label)
	}
	return
}

// TriangleLib is Shewchuk's Triangle through cgo
type TriangleLib struct{}

func (TriangleLib) Triangulate(X, Y []float64) (tris [][3]int32, err error) {
	if err = checkPoints(X, Y); err != nil {
		return
	}
	pts := make([][2]float64, len(X))
	for i := range X {
		pts[i] = [2]float64{X[i], Y[i]}
	}
	if tris = triangle.Delaunay(pts); len(tris) == 0 {
		err = ErrCollinear
	}
	return
}

/*
BowyerWatson is an incremental Delaunay triangulation in pure Go. Each point
is inserted by removing every triangle whose circumcircle contains it and
re-triangulating the cavity from the cavity boundary. Triangles are kept in
counter-clockwise order. The cost grows quadratically with the number of
points, it is meant for moderate clouds and for builds without cgo.
*/
type BowyerWatson struct{}

func (BowyerWatson) Triangulate(X, Y []float64) (tris [][3]int32, err error) {
	if err = checkPoints(X, Y); err != nil {
		return
	}
	var (
		N      = len(X)
		bb     = NewBoundingBox(X, Y)
		dx, dy = bb.Extent()
		span   = math.Max(dx, dy)
		cx, cy = bb.Centroid()
		px     = make([]float64, N+3)
		py     = make([]float64, N+3)
	)
	if !(span > utils.NODETOL) {
		err = ErrCollinear
		return
	}
	copy(px, X)
	copy(py, Y)
	// Super triangle enclosing every point, counter-clockwise
	px[N], py[N] = cx-20*span, cy-10*span
	px[N+1], py[N+1] = cx+20*span, cy-10*span
	px[N+2], py[N+2] = cx, cy+20*span
	working := [][3]int{{N, N + 1, N + 2}}

	for p := 0; p < N; p++ {
		var (
			kept   = make([][3]int, 0, len(working)+2)
			cavity = types.NewEdgeCounter()
		)
		for _, tri := range working {
			if !IsIllegalEdge(px[p], py[p],
				px[tri[0]], py[tri[0]], px[tri[1]], py[tri[1]], px[tri[2]], py[tri[2]]) {
				kept = append(kept, tri)
				continue
			}
			for i := 0; i < 3; i++ {
				cavity.Add([2]int{tri[i], tri[(i+1)%3]})
			}
		}
		for _, e := range cavity.Boundary() {
			kept = append(kept, [3]int{e[0], e[1], p})
		}
		working = kept
	}
	for _, tri := range working {
		if tri[0] >= N || tri[1] >= N || tri[2] >= N {
			continue
		}
		tris = append(tris, [3]int32{int32(tri[0]), int32(tri[1]), int32(tri[2])})
	}
	if len(tris) == 0 {
		err = ErrCollinear
	}
	return
}

func checkPoints(X, Y []float64) error {
	if len(X) != len(Y) {
		panic(fmt.Errorf("coordinate lengths differ: %d and %d", len(X), len(Y)))
	}
	if len(X) < 3 {
		return fmt.Errorf("have %d: %w", len(X), ErrTooFewPoints)
	}
	return nil
}

func IsIllegalEdge(prX, prY, piX, piY, pjX, pjY, pkX, pkY float64) bool {
	/*
		pr is a new point for candidate triangle pi-pj-pr
		pi-pj is a shared edge between pi-pj-pk and pi-pj-pr
		if pr lies inside the circle defined by pi-pj-pk:
			- The edge pi-pj should be swapped with pr-pk to make two new triangles:
				pi-pr-pk and pj-pk-pr
	*/
	inCircle := func(ax, ay, bx, by, cx, cy, dx, dy float64) (inside bool) {
		// Calculate handedness, counter-clockwise is (positive) and clockwise is (negative)
		signBit := math.Signbit(Orient(ax, ay, bx, by, cx, cy))
		ax_ := ax - dx
		ay_ := ay - dy
		bx_ := bx - dx
		by_ := by - dy
		cx_ := cx - dx
		cy_ := cy - dy
		det := (ax_*ax_+ay_*ay_)*(bx_*cy_-cx_*by_) -
			(bx_*bx_+by_*by_)*(ax_*cy_-cx_*ay_) +
			(cx_*cx_+cy_*cy_)*(ax_*by_-bx_*ay_)
		if signBit {
			return det < 0
		} else {
			return det > 0
		}
	}
	return inCircle(piX, piY, pjX, pjY, pkX, pkY, prX, prY)
}

// Orient is twice the signed area of a-b-c, positive when counter-clockwise
func Orient(ax, ay, bx, by, cx, cy float64) float64 {
	return (bx-ax)*(cy-ay) - (cx-ax)*(by-ay)
}

type TriMesh struct {
	X, Y []float64
	Tris [][3]int32
}

func NewTriMesh(tr Triangulator, X, Y []float64) (tm *TriMesh, err error) {
	var tris [][3]int32
	if tris, err = tr.Triangulate(X, Y); err != nil {
		return
	}
	tm = &TriMesh{X: X, Y: Y, Tris: tris}
	return
}

func (tm *TriMesh) NumTris() int { return len(tm.Tris) }

func (tm *TriMesh) Vertices(k int) (x, y [3]float64) {
	for i, v := range tm.Tris[k] {
		x[i], y[i] = tm.X[v], tm.Y[v]
	}
	return
}

func (tm *TriMesh) Area() (area float64) {
	for k := range tm.Tris {
		x, y := tm.Vertices(k)
		area += 0.5 * math.Abs(Orient(x[0], y[0], x[1], y[1], x[2], y[2]))
	}
	return
}

func (tm *TriMesh) ToGraphMesh() (trisOut graphics2D.TriMesh) {
	pts := make([]graphics2D.Point, len(tm.X))
	for i := range tm.X {
		pts[i].X[0] = float32(tm.X[i])
		pts[i].X[1] = float32(tm.Y[i])
	}
	tris := make([]graphics2D.Triangle, len(tm.Tris))
	for i, tri := range tm.Tris {
		tris[i].Nodes = tri
	}
	trisOut = graphics2D.TriMesh{
		BaseGeometryClass: graphics2D.BaseGeometryClass{
			Geometry: pts,
		},
		Triangles:  tris,
		Attributes: nil,
	}
	return
}
