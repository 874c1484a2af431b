package overpass

import (
	"fmt"
	"strings"

	"github.com/property-service/internal/domain"
)

// categorySelectors - OSM теги, по которым ищется каждая категория
var categorySelectors = map[domain.PlaceCategory][]string{
	domain.CategoryRestaurant: {`["amenity"="restaurant"]`},
	domain.CategoryCafe:       {`["amenity"="cafe"]`},
	domain.CategoryHospital:   {`["amenity"~"^(hospital|clinic|pharmacy)$"]`},
	domain.CategorySchool:     {`["amenity"~"^(school|college|university)$"]`},
	domain.CategoryShopping:   {`["shop"~"^(mall|supermarket|convenience|greengrocer)$"]`},
	domain.CategoryTransit: {
		`["railway"~"^(station|halt)$"]`,
		`["station"="subway"]`,
		`["highway"="bus_stop"]`,
	},
}

// buildQuery строит Overpass QL запрос для категории вокруг точки
func buildQuery(center domain.Coordinates, category domain.PlaceCategory, radiusM float64, timeoutSec int) (string, error) {
	selectors, ok := categorySelectors[category]
	if !ok {
		return "", fmt.Errorf("unsupported place category %q", category)
	}

	around := fmt.Sprintf("(around:%.0f,%.6f,%.6f)", radiusM, center.Lat, center.Lng)

	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", timeoutSec)
	for _, sel := range selectors {
		fmt.Fprintf(&b, "  node%s%s;\n", sel, around)
		fmt.Fprintf(&b, "  way%s%s;\n", sel, around)
	}
	b.WriteString(");\nout center tags;")

	return b.String(), nil
}

// subTypeFor определяет подтип места по тегам OSM, пустая строка - место не подходит
func subTypeFor(category domain.PlaceCategory, tags map[string]string) string {
	switch category {
	case domain.CategoryRestaurant:
		return "restaurant"
	case domain.CategoryCafe:
		return "cafe"
	case domain.CategoryHospital, domain.CategorySchool:
		switch v := tags["amenity"]; v {
		case "hospital", "clinic", "pharmacy", "school", "college", "university":
			return v
		}
	case domain.CategoryShopping:
		switch tags["shop"] {
		case "mall":
			return "mall"
		case "supermarket":
			return "supermarket"
		case "convenience", "greengrocer":
			return "grocery"
		}
	case domain.CategoryTransit:
		switch {
		case tags["station"] == "subway" || tags["subway"] == "yes":
			return "metro"
		case tags["highway"] == "bus_stop":
			return "bus_stop"
		case tags["railway"] == "station" || tags["railway"] == "halt":
			return "railway"
		}
	}
	return ""
}

// addressFrom собирает адрес из addr:* тегов
func addressFrom(tags map[string]string) *string {
	street := tags["addr:street"]
	if street == "" {
		return nil
	}
	addr := street
	if house := tags["addr:housenumber"]; house != "" {
		addr = house + " " + street
	}
	return &addr
}
