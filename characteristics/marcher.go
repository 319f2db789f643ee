package characteristics

import (
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/phasefield/dnsinit/utils"
)

var (
	ErrMarchTooShort = errors.New("characteristics: march length is shorter than one step")
	ErrBadStep       = errors.New("characteristics: step size must be positive")
)

/*
Cloud holds every marched point as parallel arrays. Points are grouped per
seed in blocks of PointsPerSeed = 2*NStep-1:

	[seed, interior 1 .. NStep-1, exterior 1 .. NStep-1]

Interior points lie along +n (up the thermal gradient) and carry psi = -k*ds,
exterior points lie along -n and carry psi = +k*ds.
*/
type Cloud struct {
	X, Y, Psi, U  []float64
	NSeeds        int
	NStep         int
	PointsPerSeed int
}

func NewCloud(nSeeds, nStep int) (c *Cloud) {
	var (
		pps = 2*nStep - 1
		N   = nSeeds * pps
	)
	c = &Cloud{
		X:             make([]float64, N),
		Y:             make([]float64, N),
		Psi:           make([]float64, N),
		U:             make([]float64, N),
		NSeeds:        nSeeds,
		NStep:         nStep,
		PointsPerSeed: pps,
	}
	return
}

func (c *Cloud) Len() int { return len(c.X) }

// Index returns the flat position of step k of seed i, k > 0 is interior and
// k < 0 is exterior.
func (c *Cloud) Index(i, k int) int {
	var (
		base = i * c.PointsPerSeed
	)
	switch {
	case k == 0:
		return base
	case k > 0:
		return base + k
	default:
		return base + c.NStep - 1 - k
	}
}

// Points returns the coordinates as an N x 2 matrix
func (c *Cloud) Points() (pts *mat.Dense) {
	pts = mat.NewDense(c.Len(), 2, nil)
	for i := range c.X {
		pts.Set(i, 0, c.X[i])
		pts.Set(i, 1, c.Y[i])
	}
	return
}

// PsiChar returns psi as an NSeeds x PointsPerSeed matrix in cloud order
func (c *Cloud) PsiChar() *mat.Dense {
	return mat.NewDense(c.NSeeds, c.PointsPerSeed, append([]float64(nil), c.Psi...))
}

// UChar returns U as an NSeeds x PointsPerSeed matrix in cloud order
func (c *Cloud) UChar() *mat.Dense {
	return mat.NewDense(c.NSeeds, c.PointsPerSeed, append([]float64(nil), c.U...))
}

// Seeds returns the cloud's interface points, psi = 0
func (c *Cloud) Seeds() (xs, ys []float64) {
	xs, ys = make([]float64, c.NSeeds), make([]float64, c.NSeeds)
	for i := 0; i < c.NSeeds; i++ {
		ind := c.Index(i, 0)
		xs[i], ys[i] = c.X[ind], c.Y[ind]
	}
	return
}

/*
Marcher builds straight characteristics. The direction of every
characteristic is the seed normal and is never re-evaluated along the path.
Points leaving the macro domain are kept.
*/
type Marcher struct {
	Ds             float64
	NStep          int
	Profile        Profile
	ParallelDegree int
}

func NewMarcher(ds, maxLen float64, profile Profile) (m *Marcher, err error) {
	if !(ds > 0) {
		err = fmt.Errorf("ds = %g: %w", ds, ErrBadStep)
		return
	}
	nStep := int(math.Floor(maxLen / ds))
	if nStep < 1 {
		err = fmt.Errorf("max length %g, ds %g: %w", maxLen, ds, ErrMarchTooShort)
		return
	}
	m = &Marcher{
		Ds:             ds,
		NStep:          nStep,
		Profile:        profile,
		ParallelDegree: 1,
	}
	return
}

func (m *Marcher) March(seeds []Seed) (c *Cloud) {
	var (
		N  = len(seeds)
		NP = utils.ResolveParallelDegree(m.ParallelDegree, N)
	)
	c = NewCloud(N, m.NStep)
	if N == 0 {
		return
	}
	// The profile is sampled once per step, every seed shares the values
	var (
		uIn  = make([]float64, m.NStep)
		uOut = make([]float64, m.NStep)
	)
	for k := 0; k < m.NStep; k++ {
		uIn[k] = m.Profile.Predict(-float64(k) * m.Ds)
		uOut[k] = m.Profile.Predict(float64(k) * m.Ds)
	}
	pm := utils.NewPartitionMap(NP, N)
	pm.Run(func(_, kMin, kMax int) {
		for i := kMin; i < kMax; i++ {
			m.marchSeed(c, i, seeds[i], uIn, uOut)
		}
	})
	log.WithFields(log.Fields{
		"seeds":  N,
		"nstep":  m.NStep,
		"ds":     m.Ds,
		"points": c.Len(),
	}).Debug("characteristics marched")
	return
}

func (m *Marcher) marchSeed(c *Cloud, i int, s Seed, uIn, uOut []float64) {
	var (
		ind = c.Index(i, 0)
		dx  = s.Nx * m.Ds
		dy  = s.Ny * m.Ds
	)
	c.X[ind], c.Y[ind], c.Psi[ind], c.U[ind] = s.X, s.Y, 0, uIn[0]
	// Interior, along +n
	x, y := s.X, s.Y
	for k := 1; k < m.NStep; k++ {
		x, y = x+dx, y+dy
		ind = c.Index(i, k)
		c.X[ind], c.Y[ind] = x, y
		c.Psi[ind] = -float64(k) * m.Ds
		c.U[ind] = uIn[k]
	}
	// Exterior, along -n
	x, y = s.X, s.Y
	for k := 1; k < m.NStep; k++ {
		x, y = x-dx, y-dy
		ind = c.Index(i, -k)
		c.X[ind], c.Y[ind] = x, y
		c.Psi[ind] = float64(k) * m.Ds
		c.U[ind] = uOut[k]
	}
}
