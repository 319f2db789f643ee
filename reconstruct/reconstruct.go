package reconstruct

import (
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/phasefield/dnsinit/InputParameters"
	"github.com/phasefield/dnsinit/characteristics"
	"github.com/phasefield/dnsinit/geometry2D"
	"github.com/phasefield/dnsinit/grid2D"
	"github.com/phasefield/dnsinit/isotherm"
	"github.com/phasefield/dnsinit/macrodata"
	"github.com/phasefield/dnsinit/resample"
	"github.com/phasefield/dnsinit/utils"
)

var ErrNoInterface = errors.New("reconstruct: no column crosses the target isotherm")

type Result struct {
	Target    float64
	Samples   []isotherm.Sample
	Polyline  isotherm.Polyline
	Extension isotherm.Extension
	Cloud     *characteristics.Cloud
	PsiGrid   *mat.Dense
	UGrid     *mat.Dense // nil unless the velocity is resampled too
	Lines     Lines
	Circle    Circle
}

/*
Run turns the first temperature slice of the macro data into the level set
psi and pulling velocity U:

	isotherm -> left extension -> straight characteristics -> cloud -> grid

The container is not modified, see Result.Store.
*/
func Run(c *macrodata.Container, rp InputParameters.ReconstructParams) (res *Result, err error) {
	var md *macrodata.MacroData
	if md, err = c.MacroData(); err != nil {
		return
	}
	res = &Result{Target: md.Ttip}
	if rp.TargetTemperature != nil {
		res.Target = *rp.TargetTemperature
	}
	var kind grid2D.Kind
	if kind, err = grid2D.NewKind(rp.Interpolation); err != nil {
		return nil, err
	}
	var T, Tx, gx, gy grid2D.Interpolator
	if T, err = grid2D.NewInterpolator(md.T0, kind, false); err != nil {
		return nil, err
	}
	if Tx, err = grid2D.NewInterpolator(md.T0, kind, true); err != nil {
		return nil, err
	}
	gx = grid2D.NewBilinearInterpolator(md.GradTx, false)
	gy = grid2D.NewBilinearInterpolator(md.GradTy, false)

	if len(rp.LineIDs) != 0 {
		res.Lines, err = CalibrateLines(Tx, md.XArr, md.YArr, md.Theta, rp.LineIDs,
			res.Target, rp.CalibrationReach, isotherm.DefaultBrentOptions())
		if err != nil {
			return nil, err
		}
	}

	loc := isotherm.NewLocator(md.Grid)
	loc.ParallelDegree = rp.ParallelDegree
	res.Samples = loc.Locate(T, md.Grid.X, res.Target)
	res.Polyline = isotherm.Filter(res.Samples)
	if res.Polyline.Len() == 0 {
		err = fmt.Errorf("target %g over %d columns: %w", res.Target, len(res.Samples), ErrNoInterface)
		return nil, err
	}

	if res.Circle, err = FitCircle(res.Polyline); err != nil {
		log.WithField("error", err).Warn("interface not approximated by a circle")
		res.Circle = Circle{Cent: math.NaN(), R0: math.NaN()}
		err = nil
	}

	var (
		h      = md.Grid.Spacing()
		maxLen = rp.MaxLength
	)
	if maxLen == 0 {
		maxLen = md.Grid.X[len(md.Grid.X)-1] - md.Grid.X[0]
	}
	if res.Extension, err = isotherm.Extend(res.Polyline, md.Grid.X[0], h); err != nil {
		return nil, err
	}
	var nx, ny []float64
	if nx, ny, err = characteristics.InterfaceNormals(gx, gy, res.Polyline); err != nil {
		return nil, err
	}
	var seeds []characteristics.Seed
	if seeds, err = characteristics.NewSeeds(res.Extension, res.Polyline, nx, ny); err != nil {
		return nil, err
	}
	var profile *characteristics.PullingProfile
	if profile, err = characteristics.NewPullingProfile(md.Z1D, md.U1D, md.Ztip, maxLen); err != nil {
		return nil, err
	}
	var m *characteristics.Marcher
	if m, err = characteristics.NewMarcher(h, maxLen, profile); err != nil {
		return nil, err
	}
	m.ParallelDegree = rp.ParallelDegree
	res.Cloud = m.March(seeds)
	log.WithFields(log.Fields{
		"points": res.Cloud.Len(),
		"memory": utils.GetMemUsage(),
	}).Debug("characteristics marched")

	var tr geometry2D.Triangulator
	if tr, err = geometry2D.NewTriangulator(rp.Triangulator); err != nil {
		return nil, err
	}
	rs := resample.NewResampler(tr)
	rs.ParallelDegree = rp.ParallelDegree
	var sites *resample.Sites
	if sites, err = rs.NewSites(res.Cloud.X, res.Cloud.Y); err != nil {
		return nil, err
	}
	if res.PsiGrid, err = rs.ToGrid(sites, res.Cloud.Psi, md.Grid); err != nil {
		return nil, err
	}
	if rp.GridVelocity {
		if res.UGrid, err = rs.ToGrid(sites, res.Cloud.U, md.Grid); err != nil {
			return nil, err
		}
	}
	log.WithFields(log.Fields{
		"target":    res.Target,
		"interface": res.Polyline.Len(),
		"extension": res.Extension.Len(),
		"seeds":     res.Cloud.NSeeds,
		"points":    res.Cloud.Len(),
		"cent":      res.Circle.Cent,
		"R0":        res.Circle.R0,
	}).Info("initial condition reconstructed")
	return
}

// Store returns a copy of c with the reconstruction outputs added
func (res *Result) Store(c *macrodata.Container) (out *macrodata.Container, err error) {
	out = c.Copy()
	out.Delete(macrodata.VarPoints, macrodata.VarPsiValue, macrodata.VarUValue,
		macrodata.VarPsiGrid, macrodata.VarUGrid,
		macrodata.VarLineAngle, macrodata.VarLineXst, macrodata.VarLineYst)
	var xv, yv macrodata.Variable
	if xv, err = out.Get(macrodata.VarX); err != nil {
		return nil, err
	}
	if yv, err = out.Get(macrodata.VarY); err != nil {
		return nil, err
	}
	var (
		xDim, yDim = xv.Dims[0], yv.Dims[0]
		cl         = res.Cloud
	)
	if err = out.SetMatrix(macrodata.VarPoints, "npoint", "ncoord", cl.Points()); err != nil {
		return nil, err
	}
	if err = out.SetVector(macrodata.VarPsiValue, "npoint", cl.Psi); err != nil {
		return nil, err
	}
	if err = out.SetVector(macrodata.VarUValue, "npoint", cl.U); err != nil {
		return nil, err
	}
	if err = out.SetMatrix(macrodata.VarPsiGrid, xDim, yDim, res.PsiGrid); err != nil {
		return nil, err
	}
	if res.UGrid != nil {
		if err = out.SetMatrix(macrodata.VarUGrid, xDim, yDim, res.UGrid); err != nil {
			return nil, err
		}
	}
	if err = out.SetVector(macrodata.VarLineAngle, "nsel", res.Lines.Angle); err != nil {
		return nil, err
	}
	if err = out.SetVector(macrodata.VarLineXst, "nsel", res.Lines.X); err != nil {
		return nil, err
	}
	if err = out.SetVector(macrodata.VarLineYst, "nsel", res.Lines.Y); err != nil {
		return nil, err
	}
	out.SetScalar(macrodata.AttrCent, res.Circle.Cent)
	out.SetScalar(macrodata.AttrR0, res.Circle.R0)
	return
}
