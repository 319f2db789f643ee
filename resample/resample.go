package resample

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/phasefield/dnsinit/geometry2D"
	"github.com/phasefield/dnsinit/grid2D"
	"github.com/phasefield/dnsinit/utils"
)

var (
	ErrLengthMismatch = errors.New("resample: coordinate and value arrays differ in length")
	ErrNoSites        = errors.New("resample: no scattered points")
	ErrNonFinite      = errors.New("resample: scattered coordinate is not finite")
	ErrUnresolved     = errors.New("resample: cells left undefined after the fallback pass")
)

type Method uint8

const (
	Cubic Method = iota
	Linear
	Nearest
)

func NewMethod(label string) (m Method, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "cubic":
		m = Cubic
	case "linear":
		m = Linear
	case "nearest":
		m = Nearest
	default:
		err = fmt.Errorf("resample: unknown method %q", label)
	}
	return
}

func (m Method) String() string {
	switch m {
	case Linear:
		return "linear"
	case Nearest:
		return "nearest"
	default:
		return "cubic"
	}
}

/*
Sites is a scattered point set prepared for interpolation: exact duplicates
removed (the first occurrence wins), triangulated, and indexed for point
location and nearest neighbour search. One Sites serves any number of fields
sampled on the same points.
*/
type Sites struct {
	X, Y       []float64
	Mesh       *geometry2D.TriMesh
	keep       []int
	nInput     int
	index      *bucketIndex
	neighbours [][]int
	nearest    *nearestIndex
}

func (s *Sites) Len() int { return len(s.X) }

// Duplicates is the number of input points dropped as exact duplicates
func (s *Sites) Duplicates() int { return s.nInput - len(s.keep) }

func (s *Sites) gather(f []float64) (out []float64) {
	if len(f) != s.nInput {
		panic(fmt.Errorf("field has %d values, sites were built from %d points", len(f), s.nInput))
	}
	out = make([]float64, len(s.keep))
	for i, k := range s.keep {
		out[i] = f[k]
	}
	return
}

func uniqueSites(xs, ys []float64) (keep []int) {
	order := make([]int, len(xs))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		switch {
		case xs[ia] != xs[ib]:
			return xs[ia] < xs[ib]
		case ys[ia] != ys[ib]:
			return ys[ia] < ys[ib]
		}
		return ia < ib
	})
	for n, i := range order {
		if n > 0 {
			prev := order[n-1]
			if xs[prev] == xs[i] && ys[prev] == ys[i] {
				continue
			}
		}
		keep = append(keep, i)
	}
	sort.Ints(keep)
	return
}

/*
Resampler moves scattered data onto grids. The primary method is evaluated
first; with Fallback set, every cell the primary method leaves undefined (the
cells outside the convex hull of the points) takes the nearest point's value
and defined cells are never replaced.
*/
type Resampler struct {
	Triangulator   geometry2D.Triangulator
	Primary        Method
	Fallback       bool
	ParallelDegree int
}

func NewResampler(tr geometry2D.Triangulator) *Resampler {
	return &Resampler{
		Triangulator:   tr,
		Primary:        Cubic,
		Fallback:       true,
		ParallelDegree: 1,
	}
}

func (r *Resampler) NewSites(xs, ys []float64) (s *Sites, err error) {
	if len(xs) != len(ys) {
		err = fmt.Errorf("len(x) = %d, len(y) = %d: %w", len(xs), len(ys), ErrLengthMismatch)
		return
	}
	if len(xs) == 0 {
		err = ErrNoSites
		return
	}
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) || math.IsInf(xs[i], 0) || math.IsInf(ys[i], 0) {
			err = fmt.Errorf("point %d (%g, %g): %w", i, xs[i], ys[i], ErrNonFinite)
			return
		}
	}
	s = &Sites{
		keep:   uniqueSites(xs, ys),
		nInput: len(xs),
	}
	s.X, s.Y = make([]float64, len(s.keep)), make([]float64, len(s.keep))
	for i, k := range s.keep {
		s.X[i], s.Y[i] = xs[k], ys[k]
	}
	s.nearest = newNearestIndex(s.X, s.Y)
	if r.Primary != Nearest {
		if s.Mesh, err = geometry2D.NewTriMesh(r.Triangulator, s.X, s.Y); err != nil {
			if !r.Fallback {
				return nil, err
			}
			log.WithFields(log.Fields{
				"points": s.Len(),
				"error":  err,
			}).Warn("scattered points could not be triangulated, using nearest values only")
			s.Mesh, err = nil, nil
		} else {
			s.index = newBucketIndex(s.Mesh)
			s.neighbours = vertexNeighbours(s.Mesh)
		}
	}
	log.WithFields(log.Fields{
		"points":     s.Len(),
		"duplicates": s.Duplicates(),
	}).Debug("scattered sites prepared")
	return
}

type undefined struct{}

func (undefined) Evaluate(x, y float64) float64 { return math.NaN() }

func (r *Resampler) interpolants(s *Sites, f []float64) (primary, fallback Interpolant, err error) {
	if len(f) != s.nInput {
		err = fmt.Errorf("%d values for %d points: %w", len(f), s.nInput, ErrLengthMismatch)
		return
	}
	switch {
	case r.Primary == Nearest:
		primary = NewNearestInterpolant(s, f)
	case s.Mesh == nil:
		primary = undefined{}
	case r.Primary == Linear:
		primary = NewLinearInterpolant(s, f)
	default:
		primary = NewCubicInterpolant(s, f)
	}
	if r.Fallback && r.Primary != Nearest {
		fallback = NewNearestInterpolant(s, f)
	}
	return
}

// ToGrid evaluates f, sampled on the sites, at every node of g. The result is
// nx x ny like the grid's fields.
func (r *Resampler) ToGrid(s *Sites, f []float64, g *grid2D.Grid) (out *mat.Dense, err error) {
	var primary, fallback Interpolant
	if primary, fallback, err = r.interpolants(s, f); err != nil {
		return
	}
	var (
		nx, ny = g.Dims()
		NP     = utils.ResolveParallelDegree(r.ParallelDegree, nx)
		filled = make([]int, NP)
	)
	out = mat.NewDense(nx, ny, nil)
	pm := utils.NewPartitionMap(NP, nx)
	pm.Run(func(np, kMin, kMax int) {
		for i := kMin; i < kMax; i++ {
			for j := 0; j < ny; j++ {
				v := primary.Evaluate(g.X[i], g.Y[j])
				if math.IsNaN(v) && fallback != nil {
					v = fallback.Evaluate(g.X[i], g.Y[j])
					filled[np]++
				}
				out.Set(i, j, v)
			}
		}
	})
	var nFilled int
	for _, n := range filled {
		nFilled += n
	}
	log.WithFields(log.Fields{
		"method":   r.Primary.String(),
		"cells":    nx * ny,
		"fallback": nFilled,
	}).Debug("resampled to grid")
	if r.Fallback && utils.IsNan(out) {
		err = fmt.Errorf("%d of %d cells: %w", utils.CountNan(out.RawMatrix().Data), nx*ny, ErrUnresolved)
	}
	return
}

// AtPoints evaluates f, sampled on the sites, at the query points
func (r *Resampler) AtPoints(s *Sites, f, qx, qy []float64) (v []float64, err error) {
	if len(qx) != len(qy) {
		err = fmt.Errorf("len(qx) = %d, len(qy) = %d: %w", len(qx), len(qy), ErrLengthMismatch)
		return
	}
	var primary, fallback Interpolant
	if primary, fallback, err = r.interpolants(s, f); err != nil {
		return
	}
	v = make([]float64, len(qx))
	for i := range qx {
		v[i] = primary.Evaluate(qx[i], qy[i])
		if math.IsNaN(v[i]) && fallback != nil {
			v[i] = fallback.Evaluate(qx[i], qy[i])
		}
	}
	return
}

// Grid prepares the sites and resamples one field in a single call
func (r *Resampler) Grid(xs, ys, f []float64, g *grid2D.Grid) (out *mat.Dense, err error) {
	var s *Sites
	if s, err = r.NewSites(xs, ys); err != nil {
		return
	}
	return r.ToGrid(s, f, g)
}
