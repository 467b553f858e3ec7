package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeAddresses() []Address {
	return []Address{
		{ID: 0, Street: "HUB"},
		{ID: 1, Street: "A"},
		{ID: 2, Street: "B"},
	}
}

func TestDistanceMatrixSymmetric(t *testing.T) {
	nan := math.NaN()
	rows := [][]float64{
		{0, nan, nan},
		{3.5, 0, nan},
		{7.2, 4.1, 0},
	}

	dm, err := NewDistanceMatrix(threeAddresses(), rows)
	require.NoError(t, err)

	assert.Equal(t, 3, dm.Len())
	assert.InDelta(t, 3.5, dm.Distance(0, 1), 1e-12)
	assert.InDelta(t, 3.5, dm.Distance(1, 0), 1e-12)
	assert.InDelta(t, 4.1, dm.Distance(2, 1), 1e-12)
	assert.InDelta(t, 4.1, dm.Distance(1, 2), 1e-12)
	assert.Zero(t, dm.Distance(2, 2))
	assert.InDelta(t, 7.2, dm.MaxDistance(), 1e-12)
}

func TestDistanceMatrixAcceptsMirroredUpperCells(t *testing.T) {
	rows := [][]float64{
		{0, 3.5, 7.2},
		{3.5, 0, 4.1},
		{7.2, 4.1, 0},
	}
	_, err := NewDistanceMatrix(threeAddresses(), rows)
	require.NoError(t, err)
}

func TestDistanceMatrixValidation(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name string
		rows [][]float64
	}{
		{"missing pair", [][]float64{{0}, {3.5, 0}, {nan, 4.1, 0}}},
		{"short row", [][]float64{{0}, {3.5, 0}, {7.2}}},
		{"row count", [][]float64{{0}, {3.5, 0}}},
		{"negative", [][]float64{{0}, {-1, 0}, {7.2, 4.1, 0}}},
		{"diagonal", [][]float64{{0}, {3.5, 1}, {7.2, 4.1, 0}}},
		{"asymmetric", [][]float64{{0, 3.6, nan}, {3.5, 0, nan}, {7.2, 4.1, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDistanceMatrix(threeAddresses(), tt.rows)
			require.Error(t, err)
			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}
