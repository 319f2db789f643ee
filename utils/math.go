package utils

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Linspace returns N evenly spaced values from min to max inclusive. N == 1
// returns [min] and N <= 0 returns nil.
func Linspace(min, max float64, N int) (v []float64) {
	switch {
	case N <= 0:
		return nil
	case N == 1:
		return []float64{min}
	}
	v = make([]float64, N)
	floats.Span(v, min, max)
	return
}

// Meshgrid expands the 1D coordinates into two nx x ny matrices, XX(i,j) = x[i]
// and YY(i,j) = y[j], matching the (x, y) indexing of field data.
func Meshgrid(x, y []float64) (XX, YY *mat.Dense) {
	var (
		nx, ny = len(x), len(y)
	)
	XX = mat.NewDense(nx, ny, nil)
	YY = mat.NewDense(nx, ny, nil)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			XX.Set(i, j, x[i])
			YY.Set(i, j, y[j])
		}
	}
	return
}

// IsAscending reports whether x is strictly increasing
func IsAscending(x []float64) bool {
	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			return false
		}
	}
	return true
}
