package services

import (
	"context"
	"delivery-status-service/internal/adapters/ingest"
	"delivery-status-service/internal/domain"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func referenceFleet() domain.Fleet {
	return domain.Fleet{
		Hub:            "4001 South 700 East",
		Drivers:        2,
		DayStart:       domain.Clock(8, 0, 0),
		DayEnd:         domain.Clock(17, 0, 0),
		MileageCeiling: 140,
		Trucks: []domain.TruckSpec{
			{ID: 1, Capacity: 16, SpeedMPH: 18, DispatchAt: domain.Clock(8, 0, 0)},
			{ID: 2, Capacity: 16, SpeedMPH: 18, DispatchAt: domain.Clock(9, 5, 0)},
			{ID: 3, Capacity: 16, SpeedMPH: 18, DispatchAt: domain.Clock(10, 20, 0)},
		},
	}
}

func referenceDataset(t *testing.T) *domain.Dataset {
	t.Helper()
	ds, err := ingest.NewCSVSource("../../data").LoadDataset(context.Background())
	require.NoError(t, err)
	return ds
}

// triangle builds a three-address world: HUB(0), NEAR(1) and FAR(2).
// Distances are chosen so travel times at 18 mph are exact.
func triangle(hubNear, hubFar, nearFar float64) ([]domain.Address, *domain.DistanceMatrix) {
	addrs := []domain.Address{
		{ID: 0, Street: "HUB"},
		{ID: 1, Street: "NEAR"},
		{ID: 2, Street: "FAR"},
	}
	nan := math.NaN()
	rows := [][]float64{
		{0, nan, nan},
		{hubNear, 0, nan},
		{hubFar, nearFar, 0},
	}
	dm, err := domain.NewDistanceMatrix(addrs, rows)
	if err != nil {
		panic(err)
	}
	return addrs, dm
}

func smallFleet(drivers int, trucks ...domain.TruckSpec) domain.Fleet {
	return domain.Fleet{
		Hub:            "HUB",
		Drivers:        drivers,
		DayStart:       domain.Clock(8, 0, 0),
		DayEnd:         domain.Clock(17, 0, 0),
		MileageCeiling: 140,
		Trucks:         trucks,
	}
}

func truckSpec(id int, dispatch domain.TimeOfDay) domain.TruckSpec {
	return domain.TruckSpec{ID: id, Capacity: 16, SpeedMPH: 18, DispatchAt: dispatch}
}

func timePtr(t domain.TimeOfDay) *domain.TimeOfDay { return &t }

func stopStreets(r *domain.Route) []string {
	var out []string
	for _, s := range r.Stops {
		out = append(out, s.Address.Street)
	}
	return out
}
