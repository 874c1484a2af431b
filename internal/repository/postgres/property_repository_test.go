package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/property-service/internal/domain"
	"github.com/property-service/internal/domain/repository"
	"github.com/property-service/internal/pkg/errors"
	"github.com/property-service/internal/repository/postgres"
	"github.com/property-service/internal/repository/postgres/testhelpers"
)

func f64(v float64) *float64 { return &v }
func bptr(v bool) *bool      { return &v }

// PropertyRepositorySuite tests the property repository with real database
type PropertyRepositorySuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.PropertyRepository
	ctx    context.Context
}

func (s *PropertyRepositorySuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())

	err := postgres.ApplyMigrations(context.Background(), s.testDB.DB, s.testDB.Logger)
	s.Require().NoError(err, "Failed to apply migrations")

	s.repo = testhelpers.NewPropertyRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

func (s *PropertyRepositorySuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

func (s *PropertyRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.testDB.Cleanup(s.ctx))
}

func (s *PropertyRepositorySuite) insert(f testhelpers.PropertyFixture) uuid.UUID {
	id, err := testhelpers.InsertProperty(s.ctx, s.testDB.DB, f)
	s.Require().NoError(err)
	return id
}

func ids(properties []*domain.Property) []uuid.UUID {
	result := make([]uuid.UUID, 0, len(properties))
	for _, p := range properties {
		result = append(result, p.ID)
	}
	return result
}

// ============================================================================
// Search
// ============================================================================

func (s *PropertyRepositorySuite) TestSearch_OnlyApproved() {
	live := s.insert(testhelpers.PropertyFixture{Name: "live", City: "Pune", IsApproved: bptr(true)})
	s.insert(testhelpers.PropertyFixture{Name: "pending", City: "Pune", IsApproved: bptr(false)})
	s.insert(testhelpers.PropertyFixture{Name: "rejected", City: "Pune", IsApproved: nil})

	result, err := s.repo.Search(s.ctx, domain.PropertyFilter{})
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{live}, ids(result))
}

func (s *PropertyRepositorySuite) TestSearch_PriceRangeInclusive() {
	low := s.insert(testhelpers.PropertyFixture{Name: "low", Price: f64(5000), IsApproved: bptr(true)})
	high := s.insert(testhelpers.PropertyFixture{Name: "high", Price: f64(10000), IsApproved: bptr(true)})
	s.insert(testhelpers.PropertyFixture{Name: "too-high", Price: f64(10001), IsApproved: bptr(true)})
	s.insert(testhelpers.PropertyFixture{Name: "no-price", IsApproved: bptr(true)})

	result, err := s.repo.Search(s.ctx, domain.PropertyFilter{
		MinPrice: f64(5000),
		MaxPrice: f64(10000),
		Sort:     domain.SortPriceAsc,
	})
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{low, high}, ids(result))
}

func (s *PropertyRepositorySuite) TestSearch_WifiEitherRepresentation() {
	column := s.insert(testhelpers.PropertyFixture{Name: "column", WifiAvailable: true, IsApproved: bptr(true), Price: f64(1)})
	jsonKey := s.insert(testhelpers.PropertyFixture{
		Name:       "json",
		Amenities:  domain.AmenityMap{"wifi": true},
		IsApproved: bptr(true),
		Price:      f64(2),
	})
	s.insert(testhelpers.PropertyFixture{Name: "none", IsApproved: bptr(true), Price: f64(3)})

	result, err := s.repo.Search(s.ctx, domain.PropertyFilter{
		Amenities: []domain.Amenity{domain.AmenityWifi},
		Sort:      domain.SortPriceAsc,
	})
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{column, jsonKey}, ids(result))
}

func (s *PropertyRepositorySuite) TestSearch_PriceAscNullsLast() {
	noPrice := s.insert(testhelpers.PropertyFixture{Name: "null", IsApproved: bptr(true)})
	expensive := s.insert(testhelpers.PropertyFixture{Name: "expensive", Price: f64(900), IsApproved: bptr(true)})
	cheap := s.insert(testhelpers.PropertyFixture{Name: "cheap", Price: f64(100), IsApproved: bptr(true)})

	result, err := s.repo.Search(s.ctx, domain.PropertyFilter{Sort: domain.SortPriceAsc})
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{cheap, expensive, noPrice}, ids(result))
}

func (s *PropertyRepositorySuite) TestSearch_DefaultSortRatingThenPrice() {
	a := s.insert(testhelpers.PropertyFixture{Name: "a", Rating: f64(4.5), Price: f64(800), IsApproved: bptr(true)})
	b := s.insert(testhelpers.PropertyFixture{Name: "b", Rating: f64(4.5), Price: f64(500), IsApproved: bptr(true)})
	c := s.insert(testhelpers.PropertyFixture{Name: "c", Rating: f64(4.9), Price: f64(2000), IsApproved: bptr(true)})
	d := s.insert(testhelpers.PropertyFixture{Name: "d", Price: f64(100), IsApproved: bptr(true)})

	result, err := s.repo.Search(s.ctx, domain.PropertyFilter{})
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{c, b, a, d}, ids(result))
}

func (s *PropertyRepositorySuite) TestSearch_CityAndAmenitiesScenario() {
	match := s.insert(testhelpers.PropertyFixture{
		Name:       "match",
		City:       "Pune",
		Price:      f64(7000),
		Amenities:  domain.AmenityMap{"ac": true, "parking": true},
		IsApproved: bptr(true),
	})
	s.insert(testhelpers.PropertyFixture{
		Name:       "no-parking",
		City:       "Pune",
		Price:      f64(7000),
		Amenities:  domain.AmenityMap{"ac": true, "parking": false},
		IsApproved: bptr(true),
	})
	s.insert(testhelpers.PropertyFixture{
		Name:       "other-city",
		City:       "Mumbai",
		Price:      f64(7000),
		Amenities:  domain.AmenityMap{"ac": true, "parking": true},
		IsApproved: bptr(true),
	})

	result, err := s.repo.Search(s.ctx, domain.PropertyFilter{
		City:      "pune",
		Amenities: []domain.Amenity{domain.AmenityAC, domain.AmenityParking},
	})
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{match}, ids(result))
}

func (s *PropertyRepositorySuite) TestSearch_LikeWildcardsAreLiteral() {
	s.insert(testhelpers.PropertyFixture{Name: "pune", City: "Pune", IsApproved: bptr(true)})

	result, err := s.repo.Search(s.ctx, domain.PropertyFilter{City: "%"})
	s.Require().NoError(err)
	s.Empty(result)
}

func (s *PropertyRepositorySuite) TestSearch_NestedRoomsAndBeds() {
	id := s.insert(testhelpers.PropertyFixture{Name: "hostel", IsApproved: bptr(true)})
	_, err := testhelpers.InsertRoomWithBeds(s.ctx, s.testDB.DB, id, "101", 3)
	s.Require().NoError(err)
	_, err = testhelpers.InsertRoomWithBeds(s.ctx, s.testDB.DB, id, "102", 1)
	s.Require().NoError(err)

	result, err := s.repo.Search(s.ctx, domain.PropertyFilter{})
	s.Require().NoError(err)
	s.Require().Len(result, 1)
	s.Require().Len(result[0].Rooms, 2)
	s.Equal("101", result[0].Rooms[0].RoomNumber)
	s.Len(result[0].Rooms[0].Beds, 3)
	s.Len(result[0].Rooms[1].Beds, 1)
}

// ============================================================================
// Create / GetByID / SetApproval
// ============================================================================

func (s *PropertyRepositorySuite) TestCreate_NormalizesWifiAndStartsPending() {
	property := &domain.Property{
		OwnerID:      uuid.New(),
		Name:         "New flat",
		PropertyType: domain.PropertyTypeFlat,
		Address:      "12 MG Road",
		City:         "Pune",
		Amenities:    domain.AmenityMap{"wifi": true, "ac": true},
		IsApproved:   bptr(false),
		Rooms: []domain.Room{
			{RoomNumber: "A", Capacity: 2, IsAvailable: true, Beds: []domain.Bed{
				{BedNumber: "A-1", IsAvailable: true},
				{BedNumber: "A-2", IsAvailable: true},
			}},
		},
	}

	s.Require().NoError(s.repo.Create(s.ctx, property))
	s.NotEqual(uuid.Nil, property.ID)

	stored, err := s.repo.GetByID(s.ctx, property.ID)
	s.Require().NoError(err)
	s.True(stored.WifiAvailable)
	s.NotContains(stored.Amenities, "wifi")
	s.True(stored.Amenities["ac"])
	s.Equal(domain.ApprovalPending, stored.ApprovalState())
	s.Require().Len(stored.Rooms, 1)
	s.Len(stored.Rooms[0].Beds, 2)
}

func (s *PropertyRepositorySuite) TestGetByID_NotFound() {
	_, err := s.repo.GetByID(s.ctx, uuid.New())
	s.ErrorIs(err, errors.ErrPropertyNotFound)
}

func (s *PropertyRepositorySuite) TestSetApproval() {
	id := s.insert(testhelpers.PropertyFixture{Name: "p", IsApproved: bptr(false)})

	s.Require().NoError(s.repo.SetApproval(s.ctx, id, bptr(true)))
	stored, err := s.repo.GetByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(domain.ApprovalApproved, stored.ApprovalState())

	s.Require().NoError(s.repo.SetApproval(s.ctx, id, nil))
	stored, err = s.repo.GetByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(domain.ApprovalRejected, stored.ApprovalState())

	s.ErrorIs(s.repo.SetApproval(s.ctx, uuid.New(), bptr(true)), errors.ErrPropertyNotFound)
}

// ============================================================================
// UpdateLocation
// ============================================================================

func (s *PropertyRepositorySuite) TestUpdateLocation_ConditionalWrite() {
	id := s.insert(testhelpers.PropertyFixture{Name: "p", IsApproved: bptr(true)})

	nearby := domain.NewNearbyAmenities()
	nearby.Add(domain.NearbyPlace{Name: "Cafe", Category: domain.CategoryCafe, SubType: "cafe", DistanceMeters: 120})

	stamp := time.Now().UTC().Truncate(time.Microsecond)
	err := s.repo.UpdateLocation(s.ctx, id, domain.LocationUpdate{
		Coordinates:     domain.Coordinates{Lat: 18.52, Lng: 73.85},
		NearbyAmenities: nearby,
		UpdatedAt:       stamp,
	})
	s.Require().NoError(err)

	stored, err := s.repo.GetByID(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(stored.AmenitiesLastUpdated)
	s.True(stamp.Equal(*stored.AmenitiesLastUpdated))
	s.Require().NotNil(stored.NearbyAmenities)
	place, ok := stored.NearbyAmenities.Get("cafe")
	s.True(ok)
	s.Equal("Cafe", place.Name)

	// Устаревшее ожидаемое значение - запись отклоняется
	err = s.repo.UpdateLocation(s.ctx, id, domain.LocationUpdate{
		Coordinates:     domain.Coordinates{Lat: 1, Lng: 1},
		NearbyAmenities: domain.NewNearbyAmenities(),
		UpdatedAt:       stamp.Add(time.Hour),
	})
	s.ErrorIs(err, domain.ErrLocationWriteConflict)

	err = s.repo.UpdateLocation(s.ctx, id, domain.LocationUpdate{
		Coordinates:         domain.Coordinates{Lat: 1, Lng: 1},
		NearbyAmenities:     domain.NewNearbyAmenities(),
		UpdatedAt:           stamp.Add(time.Hour),
		ExpectedLastUpdated: stored.AmenitiesLastUpdated,
	})
	s.NoError(err)
}

func (s *PropertyRepositorySuite) TestGetLocationCache() {
	id := s.insert(testhelpers.PropertyFixture{Name: "p", IsApproved: bptr(true)})

	cache, err := s.repo.GetLocationCache(s.ctx, id)
	s.Require().NoError(err)
	s.Nil(cache.Coordinates)
	s.Nil(cache.NearbyAmenities)
	s.Nil(cache.LastUpdated)
	s.False(cache.IsFresh(time.Now(), 24*time.Hour))

	stamp := time.Now().UTC()
	s.Require().NoError(s.repo.UpdateLocation(s.ctx, id, domain.LocationUpdate{
		Coordinates:     domain.Coordinates{Lat: 18.5, Lng: 73.8},
		NearbyAmenities: domain.NewNearbyAmenities(),
		UpdatedAt:       stamp,
	}))

	cache, err = s.repo.GetLocationCache(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(cache.Coordinates)
	s.Equal(18.5, cache.Coordinates.Lat)
	s.NotNil(cache.NearbyAmenities)
	s.True(cache.IsFresh(stamp.Add(time.Hour), 24*time.Hour))

	_, err = s.repo.GetLocationCache(s.ctx, uuid.New())
	s.ErrorIs(err, errors.ErrPropertyNotFound)
}

func (s *PropertyRepositorySuite) TestUpdateLocation_NotFound() {
	err := s.repo.UpdateLocation(s.ctx, uuid.New(), domain.LocationUpdate{
		NearbyAmenities: domain.NewNearbyAmenities(),
		UpdatedAt:       time.Now(),
	})
	s.ErrorIs(err, errors.ErrPropertyNotFound)
}

func TestPropertyRepositorySuite(t *testing.T) {
	suite.Run(t, new(PropertyRepositorySuite))
}
