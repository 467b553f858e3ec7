package domain

// Dataset is the raw input of one planning run as handed over by an ingestion adapter.
// Package addresses are already resolved against Addresses; Distances is the
// triangular mileage table in address order.
type Dataset struct {
	Addresses []Address
	Distances [][]float64
	Packages  []*Package
}
