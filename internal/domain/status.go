package domain

// PackageStatus is the resolved state of one package at a query time.
// DeliveredAt is set only once the package is delivered.
type PackageStatus struct {
	PackageID   int
	Address     Address
	Deadline    Deadline
	TruckID     int
	Status      DeliveryStatus
	DeliveredAt *TimeOfDay
}

type StatusReport struct {
	QueryTime TimeOfDay
	Packages  []PackageStatus
}

type TruckMileage struct {
	TruckID int
	Miles   float64
}

type MileageReport struct {
	Total        float64
	Trucks       []TruckMileage
	Ceiling      float64
	UnderCeiling bool
}
