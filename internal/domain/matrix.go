package domain

import (
	"fmt"
	"math"
)

// Matrix is a square table of pairwise travel metrics indexed by location.
// m[i][j] is the cost of travelling from i to j. It is not assumed symmetric.
type Matrix [][]float64

// NewMatrix allocates an n×n zero matrix.
func NewMatrix(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

// Size returns the number of rows.
func (m Matrix) Size() int { return len(m) }

// Validate checks the preconditions of the route solver: square shape,
// finite non-negative entries and a zero diagonal.
func (m Matrix) Validate() error {
	n := len(m)
	if n == 0 {
		return &ValidationError{Field: "matrix", Reason: "must have at least one row"}
	}

	for i, row := range m {
		if len(row) != n {
			return &ValidationError{
				Field:  "matrix",
				Reason: fmt.Sprintf("row %d has %d columns, want %d", i, len(row), n),
			}
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &ValidationError{
					Field:  "matrix",
					Reason: fmt.Sprintf("entry [%d][%d] is not finite", i, j),
				}
			}
			if v < 0 {
				return &ValidationError{
					Field:  "matrix",
					Reason: fmt.Sprintf("entry [%d][%d] is negative (%g)", i, j, v),
				}
			}
		}
		if row[i] != 0 {
			return &ValidationError{
				Field:  "matrix",
				Reason: fmt.Sprintf("diagonal entry [%d][%d] is %g, want 0", i, i, row[i]),
			}
		}
	}

	return nil
}

// Submatrix returns a copy of m without the first `skip` rows and columns.
func (m Matrix) Submatrix(skip int) Matrix {
	if skip >= len(m) {
		return Matrix{}
	}

	n := len(m) - skip
	out := make(Matrix, n)
	for i := 0; i < n; i++ {
		row := make([]float64, n)
		copy(row, m[i+skip][skip:])
		out[i] = row
	}
	return out
}

// TravelMatrix holds distance (meters) and duration (seconds) matrices
// aligned with the same location order.
type TravelMatrix struct {
	Distances Matrix
	Durations Matrix
}

// Size returns the number of locations covered, or -1 when the two
// matrices disagree on their row count.
func (t TravelMatrix) Size() int {
	if len(t.Distances) != len(t.Durations) {
		return -1
	}
	return len(t.Distances)
}
