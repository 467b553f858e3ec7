package services

import (
	"context"
	"delivery-status-service/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioSnapshot plans one truck dispatched at 09:05 with:
//   - package 1 to FAR, delayed on flight until 09:05;
//   - package 2 to NEAR;
//   - package 3 listed for NEAR, corrected to FAR at 09:10.
//
// The truck reaches NEAR at 09:20 and FAR at 10:05, and is back at 11:05.
func scenarioSnapshot(t *testing.T) *domain.Snapshot {
	t.Helper()
	addrs, _ := triangle(4.5, 18, 13.5)
	ds := &domain.Dataset{
		Addresses: addrs,
		Distances: [][]float64{
			{0},
			{4.5, 0},
			{18, 13.5, 0},
		},
		Packages: []*domain.Package{
			{ID: 1, Address: addrs[2], WeightKg: 1, Deadline: domain.EOD,
				Constraints: domain.Constraints{AvailableAt: timePtr(domain.Clock(9, 5, 0))}},
			{ID: 2, Address: addrs[1], WeightKg: 1, Deadline: domain.EOD},
			{ID: 3, Address: addrs[1], WeightKg: 1, Deadline: domain.EOD,
				Constraints: domain.Constraints{AddressCorrection: &domain.AddressCorrection{
					Address: addrs[2], At: domain.Clock(9, 10, 0),
				}}},
		},
	}

	snap, err := PlanDeliveries(context.Background(), ds, smallFleet(1, truckSpec(1, domain.Clock(9, 5, 0))))
	require.NoError(t, err)
	return snap
}

func TestResolveStatusScenario(t *testing.T) {
	snap := scenarioSnapshot(t)

	route, ok := snap.Route(1)
	require.True(t, ok)
	assert.Equal(t, []string{"NEAR", "FAR"}, stopStreets(route))
	assert.Equal(t, domain.Clock(11, 5, 0), route.ReturnAt)
	assert.InDelta(t, 36.0, route.TotalMiles, 1e-9)

	tests := []struct {
		name        string
		id          int
		at          domain.TimeOfDay
		want        domain.DeliveryStatus
		deliveredAt *domain.TimeOfDay
	}{
		{"delayed before arrival", 1, domain.Clock(8, 0, 0), domain.StatusDelayed, nil},
		{"delayed just before arrival", 1, domain.Clock(9, 4, 59), domain.StatusDelayed, nil},
		{"en route once the truck leaves", 1, domain.Clock(9, 5, 0), domain.StatusEnRoute, nil},
		{"en route at ten", 1, domain.Clock(10, 0, 0), domain.StatusEnRoute, nil},
		{"delivered on arrival", 1, domain.Clock(10, 5, 0), domain.StatusDelivered, timePtr(domain.Clock(10, 5, 0))},
		{"at the hub before dispatch", 2, domain.Clock(8, 0, 0), domain.StatusAtHub, nil},
		{"delivered later in the day", 2, domain.Clock(16, 0, 0), domain.StatusDelivered, timePtr(domain.Clock(9, 20, 0))},
		{"corrected package en route", 3, domain.Clock(9, 30, 0), domain.StatusEnRoute, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := ResolveStatus(snap, tt.id, tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, st.Status)
			assert.Equal(t, 1, st.TruckID)
			assert.Equal(t, tt.deliveredAt, st.DeliveredAt)
		})
	}
}

func TestResolveStatusAddressIsMonotonic(t *testing.T) {
	snap := scenarioSnapshot(t)

	st, err := ResolveStatus(snap, 3, domain.Clock(9, 9, 59))
	require.NoError(t, err)
	assert.Equal(t, "NEAR", st.Address.Street)

	st, err = ResolveStatus(snap, 3, domain.Clock(9, 10, 0))
	require.NoError(t, err)
	assert.Equal(t, "FAR", st.Address.Street)

	corrected := false
	for at := domain.Clock(8, 0, 0); at <= domain.Clock(17, 0, 0); at = at.Add(time.Minute) {
		st, err := ResolveStatus(snap, 3, at)
		require.NoError(t, err)
		if corrected {
			require.Equal(t, "FAR", st.Address.Street, "address reverted at %s", at)
		}
		corrected = st.Address.Street == "FAR"
	}
	assert.True(t, corrected)
}

func TestResolveStatusUnknownPackage(t *testing.T) {
	snap := scenarioSnapshot(t)
	_, err := ResolveStatus(snap, 41, domain.Clock(9, 0, 0))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveAllOrdersByID(t *testing.T) {
	snap := scenarioSnapshot(t)
	report, err := ResolveAll(snap, domain.Clock(9, 0, 0))
	require.NoError(t, err)

	assert.Equal(t, domain.Clock(9, 0, 0), report.QueryTime)
	require.Len(t, report.Packages, 3)
	for i, st := range report.Packages {
		assert.Equal(t, i+1, st.PackageID)
	}
	assert.Equal(t, domain.StatusDelayed, report.Packages[0].Status)
	assert.Equal(t, domain.StatusAtHub, report.Packages[1].Status)
}
