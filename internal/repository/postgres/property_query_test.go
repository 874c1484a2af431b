package postgres

import (
	"strings"
	"testing"

	"github.com/property-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float64Ptr(v float64) *float64 { return &v }
func intPtr(v int) *int             { return &v }

func whereClause(t *testing.T, query string) string {
	t.Helper()
	start := strings.Index(query, "WHERE ")
	end := strings.Index(query, "ORDER BY")
	require.True(t, start >= 0 && end > start, "query must contain WHERE and ORDER BY: %s", query)
	return query[start:end]
}

func TestBuildSearchQuery_EmptyFilter(t *testing.T) {
	query, args := buildSearchQuery(domain.PropertyFilter{})

	assert.Empty(t, args)
	assert.Equal(t, "WHERE is_approved = TRUE\n", whereClause(t, query))
	assert.True(t, strings.HasSuffix(query,
		"ORDER BY rating DESC NULLS LAST, price_per_room ASC NULLS LAST, id ASC"))
}

func TestBuildSearchQuery_AllFilters(t *testing.T) {
	filter := domain.PropertyFilter{
		City:              "Pune",
		PropertyType:      domain.PropertyTypePG,
		SearchText:        "Baner",
		MinPrice:          float64Ptr(5000),
		MaxPrice:          float64Ptr(12000),
		MinRating:         float64Ptr(4),
		StarsMin:          intPtr(3),
		FreeCancellation:  true,
		PayAtProperty:     true,
		BreakfastIncluded: true,
		MaxDistanceKm:     float64Ptr(5),
		Amenities:         []domain.Amenity{domain.AmenityAC, domain.AmenityParking},
	}

	query, args := buildSearchQuery(filter)
	where := whereClause(t, query)

	assert.Contains(t, where, "is_approved = TRUE")
	assert.Contains(t, where, "city ILIKE $1")
	assert.Contains(t, where, "property_type = $2")
	assert.Contains(t, where, "(address ILIKE $3 OR city ILIKE $3 OR state ILIKE $3)")
	assert.Contains(t, where, "price_per_room >= $4")
	assert.Contains(t, where, "price_per_room <= $5")
	assert.Contains(t, where, "rating >= $6")
	assert.Contains(t, where, "property_stars >= $7")
	assert.Contains(t, where, "free_cancellation = TRUE")
	assert.Contains(t, where, "pay_at_property = TRUE")
	assert.Contains(t, where, "breakfast_included = TRUE")
	assert.Contains(t, where, "distance_to_center_km <= $8")
	assert.Contains(t, where, "(amenities ->> $9::text) = 'true'")
	assert.Contains(t, where, "(amenities ->> $10::text) = 'true'")

	assert.Equal(t, []interface{}{
		"%Pune%", "PG", "%Baner%", 5000.0, 12000.0, 4.0, 3, 5.0, "ac", "parking",
	}, args)
}

func TestBuildSearchQuery_FalseFlagsAddNoConstraint(t *testing.T) {
	query, args := buildSearchQuery(domain.PropertyFilter{
		FreeCancellation:  false,
		PayAtProperty:     false,
		BreakfastIncluded: false,
	})

	where := whereClause(t, query)
	assert.NotContains(t, where, "free_cancellation")
	assert.NotContains(t, where, "pay_at_property")
	assert.NotContains(t, where, "breakfast_included")
	assert.Empty(t, args)
}

func TestBuildSearchQuery_PropertyTypeAll(t *testing.T) {
	query, args := buildSearchQuery(domain.PropertyFilter{PropertyType: domain.PropertyTypeAll})

	assert.NotContains(t, whereClause(t, query), "property_type")
	assert.Empty(t, args)
}

func TestBuildSearchQuery_WifiMatchesBothRepresentations(t *testing.T) {
	query, args := buildSearchQuery(domain.PropertyFilter{
		Amenities: []domain.Amenity{domain.AmenityWifi, domain.AmenityWifi},
	})

	where := whereClause(t, query)
	assert.Equal(t, 1, strings.Count(where, "wifi_available"))
	assert.Contains(t, where, "(wifi_available = TRUE OR (amenities ->> 'wifi') = 'true')")
	assert.Empty(t, args)
}

func TestBuildSearchQuery_EscapesLikeWildcards(t *testing.T) {
	_, args := buildSearchQuery(domain.PropertyFilter{City: `50%_off\`})

	require.Len(t, args, 1)
	assert.Equal(t, `%50\%\_off\\%`, args[0])
}

func TestBuildSearchQuery_ValuesAreNeverInlined(t *testing.T) {
	injection := "x'; DROP TABLE properties; --"
	query, args := buildSearchQuery(domain.PropertyFilter{
		City:       injection,
		SearchText: injection,
		Amenities:  []domain.Amenity{domain.Amenity(injection)},
	})

	assert.NotContains(t, query, "DROP TABLE")
	assert.Len(t, args, 3)
}

func TestOrderByClause(t *testing.T) {
	tests := []struct {
		sort     domain.SortOrder
		expected string
	}{
		{domain.SortPriceAsc, "price_per_room ASC NULLS LAST, id ASC"},
		{domain.SortPriceDesc, "price_per_room DESC NULLS LAST, id ASC"},
		{domain.SortRatingDesc, "rating DESC NULLS LAST, id ASC"},
		{domain.SortNewest, "created_at DESC, id ASC"},
		{domain.SortDistanceAsc, "distance_to_center_km ASC NULLS LAST, id ASC"},
		{domain.SortDefault, "rating DESC NULLS LAST, price_per_room ASC NULLS LAST, id ASC"},
		{domain.SortOrder("unknown"), "rating DESC NULLS LAST, price_per_room ASC NULLS LAST, id ASC"},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			assert.Equal(t, tt.expected, orderByClause(tt.sort))
		})
	}
}
