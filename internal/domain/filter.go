package domain

// SortOrder - порядок сортировки выдачи
type SortOrder string

const (
	SortDefault     SortOrder = ""
	SortPriceAsc    SortOrder = "price_asc"
	SortPriceDesc   SortOrder = "price_desc"
	SortRatingDesc  SortOrder = "rating_desc"
	SortNewest      SortOrder = "newest"
	SortDistanceAsc SortOrder = "distance_asc"
)

func (s SortOrder) IsValid() bool {
	switch s {
	case SortDefault, SortPriceAsc, SortPriceDesc, SortRatingDesc, SortNewest, SortDistanceAsc:
		return true
	}
	return false
}

// PropertyFilter - параметры поиска объектов.
// Пустое поле означает отсутствие ограничения, все заданные условия объединяются через AND.
type PropertyFilter struct {
	City         string       `json:"city,omitempty"`
	PropertyType PropertyType `json:"property_type,omitempty"`
	SearchText   string       `json:"search_text,omitempty"`

	MinPrice  *float64 `json:"min_price,omitempty"`
	MaxPrice  *float64 `json:"max_price,omitempty"`
	MinRating *float64 `json:"min_rating,omitempty"`
	StarsMin  *int     `json:"stars_min,omitempty"`

	// Amenities - все перечисленные удобства обязательны
	Amenities []Amenity `json:"amenities,omitempty"`

	// Флаги учитываются только когда true
	FreeCancellation  bool `json:"free_cancellation,omitempty"`
	PayAtProperty     bool `json:"pay_at_property,omitempty"`
	BreakfastIncluded bool `json:"breakfast_included,omitempty"`

	MaxDistanceKm *float64 `json:"max_distance_km,omitempty"`

	Sort SortOrder `json:"sort,omitempty"`
}
