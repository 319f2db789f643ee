package macrodata

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/phasefield/dnsinit/grid2D"
)

// Names of the fields in the macro data file
const (
	VarX      = "x_dns"
	VarY      = "y_dns"
	VarT      = "T_dns"
	VarGradTx = "gradTx_ini"
	VarGradTy = "gradTy_ini"
	VarAlpha  = "alpha_dns"
	VarZ1D    = "z_1d"
	VarU1D    = "Uc_1d"
	VarXArr   = "X_arr"
	VarYArr   = "Y_arr"
	VarTheta  = "theta"

	AttrTtip = "Ttip"
	AttrZtip = "ztip"

	VarPoints    = "points"
	VarPsiValue  = "psi_value"
	VarUValue    = "U_value"
	VarPsiGrid   = "psi_grid"
	VarUGrid     = "U_grid"
	VarLineAngle = "line_angle"
	VarLineXst   = "line_xst"
	VarLineYst   = "line_yst"
	AttrCent     = "cent"
	AttrR0       = "R0"
)

/*
MacroData is the typed view of a macro data file used by the
reconstruction: the first temperature slice, the initial thermal gradient,
the last radial velocity profile and the tip line markers.
*/
type MacroData struct {
	Grid           *grid2D.Grid
	T0             grid2D.Field
	GradTx, GradTy grid2D.Field
	Z1D, U1D       []float64
	XArr, YArr     *mat.Dense
	Theta          []float64
	Ttip, Ztip     float64
}

func (c *Container) MacroData() (md *MacroData, err error) {
	md = &MacroData{}
	var x, y []float64
	if x, err = c.Vector(VarX); err != nil {
		return nil, err
	}
	if y, err = c.Vector(VarY); err != nil {
		return nil, err
	}
	if md.Grid, err = grid2D.NewGrid(x, y); err != nil {
		return nil, err
	}
	var T0, gx, gy *mat.Dense
	if T0, err = c.Slice(VarT, 0); err != nil {
		return nil, err
	}
	if gx, err = c.Matrix(VarGradTx); err != nil {
		return nil, err
	}
	if gy, err = c.Matrix(VarGradTy); err != nil {
		return nil, err
	}
	if md.T0, err = grid2D.NewField(md.Grid, T0); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", VarT, err, ErrShapeMismatch)
	}
	if md.GradTx, err = grid2D.NewField(md.Grid, gx); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", VarGradTx, err, ErrShapeMismatch)
	}
	if md.GradTy, err = grid2D.NewField(md.Grid, gy); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", VarGradTy, err, ErrShapeMismatch)
	}
	if md.Z1D, err = c.LastColumn(VarZ1D); err != nil {
		return nil, err
	}
	if md.U1D, err = c.LastColumn(VarU1D); err != nil {
		return nil, err
	}
	if len(md.Z1D) != len(md.U1D) {
		err = fmt.Errorf("%s has %d rows, %s has %d: %w", VarZ1D, len(md.Z1D), VarU1D, len(md.U1D), ErrShapeMismatch)
		return nil, err
	}
	if md.XArr, err = c.Matrix(VarXArr); err != nil {
		return nil, err
	}
	if md.YArr, err = c.Matrix(VarYArr); err != nil {
		return nil, err
	}
	if md.Theta, err = c.Vector(VarTheta); err != nil {
		return nil, err
	}
	var (
		rx, cx = md.XArr.Dims()
		ry, cy = md.YArr.Dims()
	)
	if rx != ry || cx != cy || rx != len(md.Theta) {
		err = fmt.Errorf("%s %dx%d, %s %dx%d, %d angles: %w", VarXArr, rx, cx, VarYArr, ry, cy, len(md.Theta), ErrShapeMismatch)
		return nil, err
	}
	if md.Ttip, err = c.Scalar(AttrTtip); err != nil {
		return nil, err
	}
	if md.Ztip, err = c.Scalar(AttrZtip); err != nil {
		return nil, err
	}
	return
}
