package macrodata

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrMissingVariable  = errors.New("macrodata: missing variable")
	ErrMissingAttribute = errors.New("macrodata: missing attribute")
	ErrShapeMismatch    = errors.New("macrodata: inconsistent shape")
	ErrUnsupportedType  = errors.New("macrodata: unsupported variable type")
)

/*
Variable is one named n-dimensional array with the names of its dimensions.
Data is row-major, the last index varies fastest.
*/
type Variable struct {
	Dims []string
	Data *sparse.DenseArray
}

func (v Variable) Size() (n int) {
	n = 1
	for _, l := range v.Data.Shape {
		n *= l
	}
	return
}

/*
Container is the in-memory form of the macro data file: named double arrays
and scalar global attributes. Dimension names are shared, every variable
using a dimension must agree on its length.
*/
type Container struct {
	Variables  map[string]Variable
	Attributes map[string]float64
	dims       map[string]int
}

func New() *Container {
	return &Container{
		Variables:  make(map[string]Variable),
		Attributes: make(map[string]float64),
		dims:       make(map[string]int),
	}
}

func (c *Container) Names() (names []string) {
	for name := range c.Variables {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

func (c *Container) Has(name string) bool {
	_, ok := c.Variables[name]
	return ok
}

// Set stores data under name, replacing any previous variable of that name
func (c *Container) Set(name string, dims []string, data *sparse.DenseArray) (err error) {
	if len(dims) != len(data.Shape) {
		err = fmt.Errorf("%s: %d dimension names for rank %d: %w", name, len(dims), len(data.Shape), ErrShapeMismatch)
		return
	}
	for i, d := range dims {
		if l, ok := c.dims[d]; ok && l != data.Shape[i] && !c.onlyUser(d, name) {
			err = fmt.Errorf("%s: dimension %s is %d, variable has %d: %w", name, d, l, data.Shape[i], ErrShapeMismatch)
			return
		}
	}
	c.Variables[name] = Variable{Dims: append([]string(nil), dims...), Data: data}
	c.rebuildDims()
	return
}

// onlyUser reports whether name is the single variable using dimension d
func (c *Container) onlyUser(d, name string) bool {
	for vn, v := range c.Variables {
		if vn == name {
			continue
		}
		for _, vd := range v.Dims {
			if vd == d {
				return false
			}
		}
	}
	return true
}

func (c *Container) rebuildDims() {
	c.dims = make(map[string]int)
	for _, v := range c.Variables {
		for i, d := range v.Dims {
			c.dims[d] = v.Data.Shape[i]
		}
	}
}

func (c *Container) SetVector(name, dim string, v []float64) error {
	a := sparse.ZerosDense(len(v))
	copy(a.Elements, v)
	return c.Set(name, []string{dim}, a)
}

// SetMatrix stores m row-major with dimensions (rows, cols)
func (c *Container) SetMatrix(name, rowDim, colDim string, m mat.Matrix) error {
	r, cc := m.Dims()
	a := sparse.ZerosDense(r, cc)
	for i := 0; i < r; i++ {
		for j := 0; j < cc; j++ {
			a.Elements[i*cc+j] = m.At(i, j)
		}
	}
	return c.Set(name, []string{rowDim, colDim}, a)
}

func (c *Container) Delete(names ...string) {
	for _, name := range names {
		delete(c.Variables, name)
	}
	c.rebuildDims()
}

func (c *Container) Get(name string) (v Variable, err error) {
	var ok bool
	if v, ok = c.Variables[name]; !ok {
		err = fmt.Errorf("%s: %w", name, ErrMissingVariable)
	}
	return
}

func (c *Container) Vector(name string) (v []float64, err error) {
	var va Variable
	if va, err = c.Get(name); err != nil {
		return
	}
	if len(va.Data.Shape) != 1 {
		err = fmt.Errorf("%s has rank %d, want 1: %w", name, len(va.Data.Shape), ErrShapeMismatch)
		return
	}
	v = append([]float64(nil), va.Data.Elements...)
	return
}

func (c *Container) Matrix(name string) (m *mat.Dense, err error) {
	var va Variable
	if va, err = c.Get(name); err != nil {
		return
	}
	if len(va.Data.Shape) != 2 {
		err = fmt.Errorf("%s has rank %d, want 2: %w", name, len(va.Data.Shape), ErrShapeMismatch)
		return
	}
	m = mat.NewDense(va.Data.Shape[0], va.Data.Shape[1], append([]float64(nil), va.Data.Elements...))
	return
}

// Slice returns the 2-D slice [:, :, k] of a rank 3 variable
func (c *Container) Slice(name string, k int) (m *mat.Dense, err error) {
	var va Variable
	if va, err = c.Get(name); err != nil {
		return
	}
	sh := va.Data.Shape
	if len(sh) != 3 {
		err = fmt.Errorf("%s has rank %d, want 3: %w", name, len(sh), ErrShapeMismatch)
		return
	}
	if k < 0 || k >= sh[2] {
		err = fmt.Errorf("%s: slice %d of %d: %w", name, k, sh[2], ErrShapeMismatch)
		return
	}
	m = mat.NewDense(sh[0], sh[1], nil)
	for i := 0; i < sh[0]; i++ {
		for j := 0; j < sh[1]; j++ {
			m.Set(i, j, va.Data.Elements[(i*sh[1]+j)*sh[2]+k])
		}
	}
	return
}

// LastColumn returns [:, -1] of a rank 2 variable
func (c *Container) LastColumn(name string) (v []float64, err error) {
	var m *mat.Dense
	if m, err = c.Matrix(name); err != nil {
		return
	}
	_, nc := m.Dims()
	v = mat.Col(nil, nc-1, m)
	return
}

func (c *Container) Scalar(name string) (v float64, err error) {
	var ok bool
	if v, ok = c.Attributes[name]; !ok {
		err = fmt.Errorf("%s: %w", name, ErrMissingAttribute)
	}
	return
}

func (c *Container) SetScalar(name string, v float64) { c.Attributes[name] = v }

// Copy is a deep copy
func (c *Container) Copy() (cc *Container) {
	cc = New()
	for name, v := range c.Variables {
		a := sparse.ZerosDense(v.Data.Shape...)
		copy(a.Elements, v.Data.Elements)
		cc.Variables[name] = Variable{Dims: append([]string(nil), v.Dims...), Data: a}
	}
	for name, v := range c.Attributes {
		cc.Attributes[name] = v
	}
	cc.rebuildDims()
	return
}

func Read(path string) (c *Container, err error) {
	var f *os.File
	if f, err = os.Open(path); err != nil {
		return
	}
	defer f.Close()
	if c, err = ReadFrom(f); err != nil {
		err = fmt.Errorf("macrodata: reading %s: %w", path, err)
	}
	return
}

// ReadFrom loads every variable of a netCDF file as doubles together with
// its scalar numeric global attributes.
func ReadFrom(rw cdf.ReaderWriterAt) (c *Container, err error) {
	var f *cdf.File
	if f, err = cdf.Open(rw); err != nil {
		return
	}
	c = New()
	for _, name := range f.Header.Variables() {
		var (
			shape = f.Header.Lengths(name)
			a     = sparse.ZerosDense(shape...)
			buf   = f.Header.ZeroValue(name, len(a.Elements))
		)
		if len(a.Elements) != 0 {
			if _, err = f.Reader(name, nil, nil).Read(buf); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
		}
		if err = toFloat64(a.Elements, buf); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if err = c.Set(name, f.Header.Dimensions(name), a); err != nil {
			return nil, err
		}
	}
	for _, name := range f.Header.Attributes("") {
		switch v := f.Header.GetAttribute("", name).(type) {
		case []float64:
			if len(v) == 1 {
				c.Attributes[name] = v[0]
			}
		case []float32:
			if len(v) == 1 {
				c.Attributes[name] = float64(v[0])
			}
		case []int32:
			if len(v) == 1 {
				c.Attributes[name] = float64(v[0])
			}
		}
	}
	log.WithFields(log.Fields{
		"variables":  len(c.Variables),
		"attributes": len(c.Attributes),
	}).Debug("macro data read")
	return
}

func toFloat64(dst []float64, buf interface{}) error {
	switch v := buf.(type) {
	case []float64:
		copy(dst, v)
	case []float32:
		for i, e := range v {
			dst[i] = float64(e)
		}
	case []int32:
		for i, e := range v {
			dst[i] = float64(e)
		}
	case []int16:
		for i, e := range v {
			dst[i] = float64(e)
		}
	case []int8:
		for i, e := range v {
			dst[i] = float64(e)
		}
	default:
		return fmt.Errorf("%T: %w", buf, ErrUnsupportedType)
	}
	return nil
}

func (c *Container) Write(path string) (err error) {
	var f *os.File
	if f, err = os.Create(path); err != nil {
		return
	}
	if err = c.WriteFile(f); err != nil {
		f.Close()
		return fmt.Errorf("macrodata: writing %s: %w", path, err)
	}
	return f.Close()
}

// WriteFile stores the container in f as a netCDF file of doubles. Empty
// variables have no netCDF representation and are skipped.
func (c *Container) WriteFile(f *os.File) (err error) {
	var (
		names    []string
		dimNames []string
		dimLens  []int
	)
	for _, name := range c.Names() {
		if c.Variables[name].Size() == 0 {
			log.WithField("variable", name).Warn("skipping empty variable")
			continue
		}
		names = append(names, name)
	}
	dimSet := make(map[string]int)
	for _, name := range names {
		v := c.Variables[name]
		for i, d := range v.Dims {
			dimSet[d] = v.Data.Shape[i]
		}
	}
	for d := range dimSet {
		dimNames = append(dimNames, d)
	}
	sort.Strings(dimNames)
	for _, d := range dimNames {
		dimLens = append(dimLens, dimSet[d])
	}
	h := cdf.NewHeader(dimNames, dimLens)
	h.AddAttribute("", "comment", "macro data with reconstructed phase field initial condition")
	attrNames := make([]string, 0, len(c.Attributes))
	for name := range c.Attributes {
		attrNames = append(attrNames, name)
	}
	sort.Strings(attrNames)
	for _, name := range attrNames {
		h.AddAttribute("", name, []float64{c.Attributes[name]})
	}
	for _, name := range names {
		h.AddVariable(name, c.Variables[name].Dims, []float64{0})
	}
	h.Define()
	var cf *cdf.File
	if cf, err = cdf.Create(f, h); err != nil {
		return
	}
	for _, name := range names {
		var (
			end   = cf.Header.Lengths(name)
			start = make([]int, len(end))
		)
		if _, err = cf.Writer(name, start, end).Write(c.Variables[name].Data.Elements); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return cdf.UpdateNumRecs(f)
}
