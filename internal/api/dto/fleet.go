package dto

import "time"

type TruckMileageResponse struct {
	TruckID int     `json:"truck_id"`
	Mileage float64 `json:"mileage"`
}

type MileageResponse struct {
	TotalMileage      float64                `json:"total_mileage"`
	IndividualMileage []TruckMileageResponse `json:"individual_mileage"`
	MileageCeiling    float64                `json:"mileage_ceiling"`
	UnderCeiling      bool                   `json:"under_ceiling"`
}

type StopResponse struct {
	Address    string  `json:"address"`
	ArriveAt   string  `json:"arrive_at"`
	Miles      float64 `json:"miles"`
	PackageIDs []int   `json:"package_ids"`
}

type TruckResponse struct {
	TruckID       int            `json:"truck_id"`
	PackageIDs    []int          `json:"package_ids"`
	Mileage       float64        `json:"mileage"`
	DepartureTime string         `json:"departure_time"`
	ReturnTime    string         `json:"return_time"`
	Stops         []StopResponse `json:"stops"`
}

type ListTrucksResponse struct {
	Trucks []TruckResponse `json:"trucks"`
}

type ReloadResponse struct {
	Generation   uint64    `json:"generation"`
	BuiltAt      time.Time `json:"built_at"`
	Packages     int       `json:"packages"`
	TotalMileage float64   `json:"total_mileage"`
}
