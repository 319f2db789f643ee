package isotherm

import (
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/phasefield/dnsinit/grid2D"
	"github.com/phasefield/dnsinit/utils"
)

type SampleStatus uint8

const (
	Valid SampleStatus = iota
	NoIntersection
	BracketFailure
)

func (ss SampleStatus) String() string {
	switch ss {
	case Valid:
		return "valid"
	case NoIntersection:
		return "no intersection"
	case BracketFailure:
		return "bracket failure"
	default:
		return fmt.Sprintf("SampleStatus(%d)", uint8(ss))
	}
}

/*
Sample is one column of the isotherm search. Only Valid samples carry
coordinates; the others hold NaN and the error that produced them, which
separates "the isotherm does not cross this column" (NoIntersection) from
"the field could not be evaluated or the solver failed" (BracketFailure).
*/
type Sample struct {
	X, Y   float64
	Status SampleStatus
	Err    error
}

func (s Sample) IsValid() bool { return s.Status == Valid }

type Polyline struct {
	X, Y []float64
}

func (p Polyline) Len() int { return len(p.X) }

// Filter keeps the Valid samples in column order
func Filter(samples []Sample) (p Polyline) {
	for _, s := range samples {
		if !s.IsValid() {
			continue
		}
		p.X = append(p.X, s.X)
		p.Y = append(p.Y, s.Y)
	}
	return
}

/*
Locator searches every column x_top[j] for the vertical position where the
temperature equals the target. The search bracket defaults to
[y.min(), min(0, y.max())], the solid region below the free surface clipped
to the grid.
*/
type Locator struct {
	Lower, Upper   float64
	Brent          BrentOptions
	ParallelDegree int
}

func NewLocator(g *grid2D.Grid) (l *Locator) {
	l = &Locator{
		Lower:          g.Y[0],
		Upper:          math.Min(0, g.Y[len(g.Y)-1]),
		Brent:          DefaultBrentOptions(),
		ParallelDegree: 1,
	}
	return
}

func (l *Locator) Locate(T grid2D.Interpolator, xTop []float64, Tl float64) (samples []Sample) {
	var (
		N  = len(xTop)
		NP = utils.ResolveParallelDegree(l.ParallelDegree, N)
	)
	samples = make([]Sample, N)
	if N == 0 {
		return
	}
	pm := utils.NewPartitionMap(NP, N)
	pm.Run(func(_, kMin, kMax int) {
		for j := kMin; j < kMax; j++ {
			samples[j] = l.locateColumn(T, xTop[j], Tl)
		}
	})
	var valid, missing, failed int
	for _, s := range samples {
		switch s.Status {
		case Valid:
			valid++
		case NoIntersection:
			missing++
		case BracketFailure:
			failed++
		}
	}
	fields := log.Fields{
		"columns": N,
		"valid":   valid,
		"missing": missing,
		"failed":  failed,
		"target":  Tl,
	}
	if failed > 0 {
		log.WithFields(fields).Warn("isotherm search had failed columns")
	} else {
		log.WithFields(fields).Debug("isotherm located")
	}
	return
}

func (l *Locator) locateColumn(T grid2D.Interpolator, x0, Tl float64) (s Sample) {
	f := func(y float64) (float64, error) {
		v, err := T.Evaluate(x0, y)
		return v - Tl, err
	}
	root, err := Brent(f, l.Lower, l.Upper, l.Brent)
	switch {
	case err == nil:
		s = Sample{X: x0, Y: root, Status: Valid}
	case errors.Is(err, ErrNoSignChange):
		s = Sample{X: math.NaN(), Y: math.NaN(), Status: NoIntersection, Err: err}
	default:
		s = Sample{X: math.NaN(), Y: math.NaN(), Status: BracketFailure,
			Err: fmt.Errorf("column x = %g: %w", x0, err)}
	}
	return
}
