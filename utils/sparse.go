package utils

import (
	"sort"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

// DOK is a dictionary of keys sparse matrix used to assemble incidence data
type DOK struct {
	M    *sparse.DOK
	name string
}

func NewDOK(nr, nc int, name ...string) (R DOK) {
	R = DOK{M: sparse.NewDOK(nr, nc), name: "unnamed"}
	if len(name) != 0 {
		R.name = name[0]
	}
	return
}

// Dims and At minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }

func (m DOK) Set(i, j int, val float64) DOK {
	m.M.Set(i, j, val)
	return m
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:    m.M.ToCSR(),
		name: m.name,
	}
}

type CSR struct {
	M    *sparse.CSR
	name string
}

func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return m.M.T() }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }
func (m CSR) Name() string                  { return m.name }

// Gram returns M * M^T. For an incidence matrix this connects every pair of
// rows that share a column.
func (m CSR) Gram() (R CSR) {
	nr, _ := m.Dims()
	R = CSR{
		M:    sparse.NewCSR(nr, nr, nil, nil, nil),
		name: m.name + " * " + m.name + "^T",
	}
	R.M.Mul(m.M, m.M.T())
	return
}

// RowIndices returns the sorted column indices of the stored entries in row i
func (m CSR) RowIndices(i int) (cols []int) {
	var (
		raw = m.RawMatrix()
	)
	cols = append(cols, raw.Ind[raw.Indptr[i]:raw.Indptr[i+1]]...)
	sort.Ints(cols)
	return
}
