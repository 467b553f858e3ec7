package domain

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const distanceTolerance = 1e-9

// DistanceMatrix is a symmetric mileage table indexed by address id.
type DistanceMatrix struct {
	m   *mat.SymDense
	max float64
}

// NewDistanceMatrix builds the matrix from a triangular table. Row i holds the
// distances from address i to addresses 0..i; cells above the diagonal may be
// missing (NaN or absent) or mirror the lower triangle.
func NewDistanceMatrix(addresses []Address, rows [][]float64) (*DistanceMatrix, error) {
	n := len(addresses)
	if n == 0 {
		return nil, NewValidationError("distances", "address table is empty")
	}
	if len(rows) != n {
		return nil, NewValidationError("distances", "got %d rows for %d addresses", len(rows), n)
	}

	m := mat.NewSymDense(n, nil)
	maxDist := 0.0

	for i, row := range rows {
		for j := 0; j <= i; j++ {
			v := cell(row, j)
			if math.IsNaN(v) {
				v = cell(rows[j], i)
			}
			if math.IsNaN(v) {
				return nil, NewValidationError("distances", "no entry for pair (%d, %d)", i, j)
			}
			if v < 0 {
				return nil, NewValidationError("distances", "negative distance %.3f for pair (%d, %d)", v, i, j)
			}
			if i == j && v > distanceTolerance {
				return nil, NewValidationError("distances", "non-zero diagonal %.3f at %d", v, i)
			}
			m.SetSym(i, j, v)
			maxDist = math.Max(maxDist, v)
		}
		if len(row) > n {
			return nil, NewValidationError("distances", "row %d has %d columns for %d addresses", i, len(row), n)
		}
	}

	// Cells filled on both sides of the diagonal must agree.
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			upper := cell(rows[i], j)
			if math.IsNaN(upper) {
				continue
			}
			if math.Abs(upper-m.At(i, j)) > distanceTolerance {
				return nil, NewValidationError(
					"distances", "asymmetric pair (%d, %d): %.3f vs %.3f", i, j, upper, m.At(i, j),
				)
			}
		}
	}

	return &DistanceMatrix{m: m, max: maxDist}, nil
}

func cell(row []float64, j int) float64 {
	if j >= len(row) {
		return math.NaN()
	}
	return row[j]
}

// Distance returns the miles between two address ids. Both ids must be below Len.
func (d *DistanceMatrix) Distance(a, b int) float64 {
	return d.m.At(a, b)
}

func (d *DistanceMatrix) Len() int {
	n, _ := d.m.Dims()
	return n
}

func (d *DistanceMatrix) MaxDistance() float64 { return d.max }
