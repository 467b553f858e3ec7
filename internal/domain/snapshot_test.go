package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoutesAreCopies(t *testing.T) {
	addrs := threeAddresses()
	route := &Route{
		TruckID:  1,
		Hub:      addrs[0],
		DepartAt: Clock(8, 0, 0),
		Stops: []Stop{
			{Address: addrs[1], ArriveAt: Clock(8, 30, 0), Miles: 9, PackageIDs: []int{1, 2}},
		},
		ReturnAt:   Clock(9, 0, 0),
		TotalMiles: 18,
	}
	snap := NewSnapshot(nil, testFleet(), []*Route{route}, map[int]Assignment{})

	got, ok := snap.Route(1)
	require.True(t, ok)
	got.TotalMiles = 0
	got.Stops[0].PackageIDs[0] = 99
	got.Stops = append(got.Stops, Stop{Address: addrs[2]})

	all := snap.Routes()
	require.Len(t, all, 1)
	all[0].Stops[0].ArriveAt = Clock(16, 0, 0)

	again, ok := snap.Route(1)
	require.True(t, ok)
	assert.Equal(t, 18.0, again.TotalMiles)
	require.Len(t, again.Stops, 1)
	assert.Equal(t, []int{1, 2}, again.Stops[0].PackageIDs)
	assert.Equal(t, Clock(8, 30, 0), again.Stops[0].ArriveAt)

	_, ok = snap.Route(2)
	assert.False(t, ok)
}
