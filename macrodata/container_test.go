package macrodata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// synthetic returns a small but complete macro data set
func synthetic(t *testing.T) *Container {
	var (
		c      = New()
		nx, ny = 4, 3
		nt     = 2
	)
	require.NoError(t, c.SetVector(VarX, "nx", []float64{0, 1, 2, 3}))
	require.NoError(t, c.SetVector(VarY, "ny", []float64{-2, -1, 0}))
	T := sparse.ZerosDense(nx, ny, nt)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nt; k++ {
				T.Elements[(i*ny+j)*nt+k] = 100*float64(k) + 10*float64(i) + float64(j)
			}
		}
	}
	require.NoError(t, c.Set(VarT, []string{"nx", "ny", "nt"}, T))
	require.NoError(t, c.SetMatrix(VarGradTx, "nx", "ny", mat.NewDense(nx, ny, nil)))
	require.NoError(t, c.SetMatrix(VarGradTy, "nx", "ny", mat.NewDense(nx, ny, []float64{
		1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1})))
	require.NoError(t, c.SetMatrix(VarZ1D, "nr", "nt1", mat.NewDense(3, 2, []float64{0, 10, 0, 11, 0, 12})))
	require.NoError(t, c.SetMatrix(VarU1D, "nr", "nt1", mat.NewDense(3, 2, []float64{0, 3, 0, 2, 0, 1})))
	require.NoError(t, c.SetMatrix(VarXArr, "nline", "nlpt", mat.NewDense(2, 2, []float64{1, 2, 3, 4})))
	require.NoError(t, c.SetMatrix(VarYArr, "nline", "nlpt", mat.NewDense(2, 2, []float64{-1, -2, -3, -4})))
	require.NoError(t, c.SetVector(VarTheta, "nline", []float64{45, 90}))
	c.SetScalar(AttrTtip, 1500)
	c.SetScalar(AttrZtip, -1.5)
	return c
}

func TestContainerAccessors(t *testing.T) {
	c := synthetic(t)
	T1, err := c.Slice(VarT, 1)
	require.NoError(t, err)
	assert.Equal(t, 132., T1.At(3, 2))
	_, err = c.Slice(VarT, 2)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
	z, err := c.LastColumn(VarZ1D)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 11, 12}, z)
	_, err = c.Vector(VarT)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
	_, err = c.Get("nothing")
	assert.True(t, errors.Is(err, ErrMissingVariable))
	_, err = c.Scalar("nothing")
	assert.True(t, errors.Is(err, ErrMissingAttribute))

	// Shared dimensions must agree
	err = c.SetVector("bad", "nx", []float64{1, 2})
	assert.True(t, errors.Is(err, ErrShapeMismatch))
	// Replacing the only user of a dimension may resize it
	require.NoError(t, c.SetVector(VarTheta, "nline", []float64{45, 90}))
	require.NoError(t, c.SetVector("solo", "nsolo", []float64{1}))
	require.NoError(t, c.SetVector("solo", "nsolo", []float64{1, 2, 3}))

	cc := c.Copy()
	cc.Variables[VarX].Data.Elements[0] = 42
	x, _ := c.Vector(VarX)
	assert.Equal(t, 0., x[0])
}

func TestMacroData(t *testing.T) {
	c := synthetic(t)
	md, err := c.MacroData()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3}, md.Grid.X)
	assert.Equal(t, 21., md.T0.Data.At(2, 1))
	assert.Equal(t, 1., md.GradTy.Data.At(3, 2))
	assert.Equal(t, []float64{3, 2, 1}, md.U1D)
	assert.Equal(t, []float64{45, 90}, md.Theta)
	assert.Equal(t, 1500., md.Ttip)
	assert.Equal(t, -1.5, md.Ztip)

	delete(c.Variables, VarGradTy)
	_, err = c.MacroData()
	assert.True(t, errors.Is(err, ErrMissingVariable))

	c = synthetic(t)
	require.NoError(t, c.SetVector(VarTheta, "nangle", []float64{45, 90, 135}))
	_, err = c.MacroData()
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestWriteRead(t *testing.T) {
	var (
		c    = synthetic(t)
		path = filepath.Join(t.TempDir(), "macro.nc")
	)
	require.NoError(t, c.SetVector("empty", "nempty", nil))
	require.NoError(t, c.Write(path))
	back, err := Read(path)
	require.NoError(t, err)
	assert.False(t, back.Has("empty"))
	for _, name := range c.Names() {
		if name == "empty" {
			continue
		}
		require.True(t, back.Has(name), name)
		assert.Equal(t, c.Variables[name].Dims, back.Variables[name].Dims, name)
		assert.Equal(t, c.Variables[name].Data.Shape, back.Variables[name].Data.Shape, name)
		assert.Equal(t, c.Variables[name].Data.Elements, back.Variables[name].Data.Elements, name)
	}
	assert.Equal(t, 1500., back.Attributes[AttrTtip])
	assert.Equal(t, -1.5, back.Attributes[AttrZtip])
	_, err = Read(filepath.Join(t.TempDir(), "missing.nc"))
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	var (
		c    = synthetic(t)
		path = filepath.Join(t.TempDir(), "open.nc")
	)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, c.WriteFile(f))
	_, err = f.Seek(0, 0)
	require.NoError(t, err)
	back, err := ReadFrom(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, c.Names(), back.Names())
	assert.Equal(t, c.Variables[VarT].Data.Elements, back.Variables[VarT].Data.Elements)
	assert.Equal(t, c.Attributes[AttrTtip], back.Attributes[AttrTtip])
}
