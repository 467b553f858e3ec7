package ports

import (
	"context"
	"delivery-status-service/internal/domain"
)

// Port: the query and reload surface served to transports.
// Query methods are safe for concurrent use.
type Tracker interface {
	GetPackage(id int) (*domain.Package, error)
	GetPackageStatus(id int, at domain.TimeOfDay) (domain.PackageStatus, error)
	GetAllPackagesStatus(at domain.TimeOfDay) (domain.StatusReport, error)
	GetTotalMileage() (domain.MileageReport, error)
	GetTrucks() ([]*domain.Route, error)
	Reload(ctx context.Context) (*domain.Snapshot, error)
}
