package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationCache_IsFresh(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	window := 24 * time.Hour
	recent := now.Add(-time.Hour)
	old := now.Add(-25 * time.Hour)
	coords := &Coordinates{Lat: 19.07, Lng: 72.87}
	nearby := NewNearbyAmenities()

	tests := []struct {
		name     string
		cache    LocationCache
		expected bool
	}{
		{"complete and recent", LocationCache{coords, nearby, &recent}, true},
		{"complete but stale", LocationCache{coords, nearby, &old}, false},
		{"no timestamp", LocationCache{coords, nearby, nil}, false},
		{"missing coordinates", LocationCache{nil, nearby, &recent}, false},
		{"missing nearby amenities", LocationCache{coords, nil, &recent}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cache.IsFresh(now, window))
		})
	}

	exact := now.Add(-window)
	assert.False(t, LocationCache{coords, nearby, &exact}.IsFresh(now, window))
}

func TestNearbyAmenities_Add(t *testing.T) {
	n := NewNearbyAmenities()

	assert.True(t, n.Add(NearbyPlace{Name: "City Hospital", SubType: "hospital", DistanceMeters: 900}))
	assert.True(t, n.Add(NearbyPlace{Name: "Care Hospital", SubType: "hospital", DistanceMeters: 300}))
	assert.False(t, n.Add(NearbyPlace{Name: "Far Hospital", SubType: "hospital", DistanceMeters: 1500}))
	assert.False(t, n.Add(NearbyPlace{Name: "Unknown", SubType: "fountain", DistanceMeters: 10}))

	place, ok := n.Get("hospital")
	require.True(t, ok)
	assert.Equal(t, "Care Hospital", place.Name)
	assert.Equal(t, 1, n.Len())
	assert.Contains(t, n.Essentials, "hospital")
}

func TestFoldNearby(t *testing.T) {
	results := map[PlaceCategory][]NearbyPlace{
		CategoryHospital: nil,
		CategorySchool: {
			{Name: "St. Mary's", Category: CategorySchool, SubType: "school", DistanceMeters: 450},
		},
		CategoryTransit: {
			{Name: "MG Road", Category: CategoryTransit, SubType: "metro", DistanceMeters: 800},
			{Name: "Trinity", Category: CategoryTransit, SubType: "metro", DistanceMeters: 350},
			{Name: "Stop 4", Category: CategoryTransit, SubType: "bus_stop", DistanceMeters: 90},
		},
		CategoryShopping: {
			{Name: "Forum", Category: CategoryShopping, SubType: "mall", DistanceMeters: 1200},
		},
	}

	folded := FoldNearby(results)

	_, hasHospital := folded.Essentials["hospital"]
	assert.False(t, hasHospital)
	assert.Equal(t, "St. Mary's", folded.Essentials["school"].Name)
	assert.Equal(t, "Trinity", folded.Transportation["metro"].Name)
	assert.Equal(t, "Stop 4", folded.Transportation["bus_stop"].Name)
	assert.Equal(t, "Forum", folded.Lifestyle["mall"].Name)
	assert.Equal(t, 4, folded.Len())
}

func TestNearbyAmenities_ScanValue(t *testing.T) {
	n := NewNearbyAmenities()
	n.Add(NearbyPlace{Name: "Blue Tokai", Category: CategoryCafe, SubType: "cafe", DistanceMeters: 120})

	v, err := n.Value()
	require.NoError(t, err)

	var decoded NearbyAmenities
	require.NoError(t, decoded.Scan(v))
	assert.Equal(t, "Blue Tokai", decoded.Lifestyle["cafe"].Name)
}

func TestBucketFor(t *testing.T) {
	assert.Equal(t, BucketTransportation, BucketFor("metro"))
	assert.Equal(t, BucketEssentials, BucketFor("hospital"))
	assert.Equal(t, BucketLifestyle, BucketFor("restaurant"))
	assert.Equal(t, "", BucketFor("zoo"))
}
