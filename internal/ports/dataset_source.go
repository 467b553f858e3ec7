package ports

import (
	"context"
	"delivery-status-service/internal/domain"
)

// Port: a boundary for retrieving the raw planning inputs from a data source.
type DatasetSource interface {
	// Load the address table, the triangular distance table and all package records.
	LoadDataset(ctx context.Context) (*domain.Dataset, error)
}
