package postgres

import (
	"fmt"
	"strings"

	"github.com/property-service/internal/domain"
)

const propertyColumns = `id, owner_id, name, description, property_type, address, city, state, zip_code,
	latitude, longitude, price_per_room, rating, rating_count, property_stars, distance_to_center_km,
	wifi_available, free_cancellation, pay_at_property, breakfast_included, amenities,
	is_approved, nearby_amenities, amenities_last_updated, created_at, updated_at`

// likeEscaper экранирует спецсимволы LIKE в пользовательском вводе
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// queryBuilder накапливает условия WHERE и позиционные параметры
type queryBuilder struct {
	conditions []string
	args       []interface{}
}

func (b *queryBuilder) bind(v interface{}) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *queryBuilder) where(cond string) {
	b.conditions = append(b.conditions, cond)
}

// buildSearchQuery строит запрос поиска опубликованных объектов.
// Значения фильтра не валидируются, все пользовательские данные передаются параметрами.
func buildSearchQuery(filter domain.PropertyFilter) (string, []interface{}) {
	b := &queryBuilder{}

	b.where("is_approved = TRUE")

	if filter.City != "" {
		b.where("city ILIKE " + b.bind(containsPattern(filter.City)))
	}

	if filter.PropertyType != "" && filter.PropertyType != domain.PropertyTypeAll {
		b.where("property_type = " + b.bind(string(filter.PropertyType)))
	}

	if filter.SearchText != "" {
		p := b.bind(containsPattern(filter.SearchText))
		b.where(fmt.Sprintf("(address ILIKE %[1]s OR city ILIKE %[1]s OR state ILIKE %[1]s)", p))
	}

	if filter.MinPrice != nil {
		b.where("price_per_room >= " + b.bind(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		b.where("price_per_room <= " + b.bind(*filter.MaxPrice))
	}
	if filter.MinRating != nil {
		b.where("rating >= " + b.bind(*filter.MinRating))
	}
	if filter.StarsMin != nil {
		b.where("property_stars >= " + b.bind(*filter.StarsMin))
	}

	if filter.FreeCancellation {
		b.where("free_cancellation = TRUE")
	}
	if filter.PayAtProperty {
		b.where("pay_at_property = TRUE")
	}
	if filter.BreakfastIncluded {
		b.where("breakfast_included = TRUE")
	}

	if filter.MaxDistanceKm != nil {
		b.where("distance_to_center_km <= " + b.bind(*filter.MaxDistanceKm))
	}

	seen := make(map[domain.Amenity]struct{}, len(filter.Amenities))
	for _, a := range filter.Amenities {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}

		if a == domain.AmenityWifi {
			// wifi хранится в двух представлениях: колонка и ключ в JSONB
			b.where("(wifi_available = TRUE OR (amenities ->> 'wifi') = 'true')")
			continue
		}
		b.where(fmt.Sprintf("(amenities ->> %s::text) = 'true'", b.bind(string(a))))
	}

	query := "SELECT " + propertyColumns + "\nFROM properties\nWHERE " +
		strings.Join(b.conditions, "\n  AND ") +
		"\nORDER BY " + orderByClause(filter.Sort)

	return query, b.args
}

// orderByClause - ровно один активный порядок сортировки, id как стабильный tiebreak
func orderByClause(sort domain.SortOrder) string {
	var order string
	switch sort {
	case domain.SortPriceAsc:
		order = "price_per_room ASC NULLS LAST"
	case domain.SortPriceDesc:
		order = "price_per_room DESC NULLS LAST"
	case domain.SortRatingDesc:
		order = "rating DESC NULLS LAST"
	case domain.SortNewest:
		order = "created_at DESC"
	case domain.SortDistanceAsc:
		order = "distance_to_center_km ASC NULLS LAST"
	default:
		order = "rating DESC NULLS LAST, price_per_room ASC NULLS LAST"
	}
	return order + ", id ASC"
}
