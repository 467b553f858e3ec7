package dto

type PackageResponse struct {
	PackageID int     `json:"id"`
	Address   string  `json:"address"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	Zip       string  `json:"zip"`
	Deadline  string  `json:"deadline"`
	WeightKg  float64 `json:"weight"`
	Notes     string  `json:"notes,omitempty"`
}

// PackageStatusResponse is the state of one package at the queried time.
// DeliveryTime is null until the package is delivered.
type PackageStatusResponse struct {
	PackageID        int     `json:"id"`
	DeliveryAddress  string  `json:"delivery_address"`
	DeliveryDeadline string  `json:"delivery_deadline"`
	TruckNumber      int     `json:"truck_number"`
	DeliveryStatus   string  `json:"delivery_status"`
	DeliveryTime     *string `json:"delivery_time"`
}

type ListPackageStatusResponse struct {
	QueryTime string                  `json:"query_time"`
	Packages  []PackageStatusResponse `json:"packages"`
}
