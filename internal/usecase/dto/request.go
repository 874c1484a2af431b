package dto

import (
	"strings"

	"github.com/google/uuid"
	"github.com/property-service/internal/domain"
)

// SearchPropertiesQuery - query параметры GET /properties
type SearchPropertiesQuery struct {
	City              string   `query:"city" validate:"omitempty,max=100"`
	Type              string   `query:"type" validate:"omitempty,oneof=Flat PG Hostel All"`
	Q                 string   `query:"q" validate:"omitempty,max=200"`
	MinPrice          *float64 `query:"min_price" validate:"omitempty,min=0"`
	MaxPrice          *float64 `query:"max_price" validate:"omitempty,min=0"`
	MinRating         *float64 `query:"min_rating" validate:"omitempty,min=0,max=5"`
	StarsMin          *int     `query:"stars_min" validate:"omitempty,min=0,max=5"`
	Amenities         string   `query:"amenities"` // через запятую: wifi,ac,parking
	FreeCancellation  bool     `query:"free_cancellation"`
	PayAtProperty     bool     `query:"pay_at_property"`
	BreakfastIncluded bool     `query:"breakfast_included"`
	MaxDistanceKm     *float64 `query:"max_distance_km" validate:"omitempty,min=0"`
	Sort              string   `query:"sort" validate:"omitempty,oneof=price_asc price_desc rating_desc newest distance_asc"`
}

// AmenityList разбирает список удобств, возвращает первое неизвестное значение
func (q SearchPropertiesQuery) AmenityList() ([]domain.Amenity, string) {
	if strings.TrimSpace(q.Amenities) == "" {
		return nil, ""
	}

	var result []domain.Amenity
	for _, raw := range strings.Split(q.Amenities, ",") {
		a := domain.Amenity(strings.ToLower(strings.TrimSpace(raw)))
		if a == "" {
			continue
		}
		if !a.IsValid() {
			return nil, string(a)
		}
		result = append(result, a)
	}
	return result, ""
}

// ToFilter переводит query параметры в фильтр поиска. Список удобств должен быть проверен заранее.
func (q SearchPropertiesQuery) ToFilter(amenities []domain.Amenity) domain.PropertyFilter {
	return domain.PropertyFilter{
		City:              strings.TrimSpace(q.City),
		PropertyType:      domain.PropertyType(q.Type),
		SearchText:        strings.TrimSpace(q.Q),
		MinPrice:          q.MinPrice,
		MaxPrice:          q.MaxPrice,
		MinRating:         q.MinRating,
		StarsMin:          q.StarsMin,
		Amenities:         amenities,
		FreeCancellation:  q.FreeCancellation,
		PayAtProperty:     q.PayAtProperty,
		BreakfastIncluded: q.BreakfastIncluded,
		MaxDistanceKm:     q.MaxDistanceKm,
		Sort:              domain.SortOrder(q.Sort),
	}
}

// CreatePropertyRequest - новый объект от владельца, попадает на модерацию
type CreatePropertyRequest struct {
	OwnerID            uuid.UUID           `json:"owner_id" validate:"required"`
	Name               string              `json:"name" validate:"required,min=2,max=200"`
	Description        *string             `json:"description,omitempty" validate:"omitempty,max=5000"`
	PropertyType       string              `json:"property_type" validate:"required,oneof=Flat PG Hostel"`
	Address            string              `json:"address" validate:"required,max=300"`
	City               string              `json:"city" validate:"required,max=100"`
	State              string              `json:"state" validate:"omitempty,max=100"`
	ZipCode            string              `json:"zip_code" validate:"omitempty,max=20"`
	Latitude           *float64            `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude          *float64            `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	PricePerRoom       *float64            `json:"price_per_room,omitempty" validate:"omitempty,min=0"`
	PropertyStars      *int                `json:"property_stars,omitempty" validate:"omitempty,min=0,max=5"`
	DistanceToCenterKm *float64            `json:"distance_to_center_km,omitempty" validate:"omitempty,min=0"`
	WifiAvailable      bool                `json:"wifi_available"`
	FreeCancellation   bool                `json:"free_cancellation"`
	PayAtProperty      bool                `json:"pay_at_property"`
	BreakfastIncluded  bool                `json:"breakfast_included"`
	Amenities          map[string]bool     `json:"amenities,omitempty"`
	Rooms              []CreateRoomRequest `json:"rooms,omitempty" validate:"omitempty,max=200,dive"`
}

// CreateRoomRequest - комната нового объекта
type CreateRoomRequest struct {
	RoomNumber    string             `json:"room_number" validate:"required,max=20"`
	RoomType      string             `json:"room_type" validate:"omitempty,max=50"`
	PricePerMonth *float64           `json:"price_per_month,omitempty" validate:"omitempty,min=0"`
	Capacity      int                `json:"capacity" validate:"required,min=1,max=50"`
	Beds          []CreateBedRequest `json:"beds,omitempty" validate:"omitempty,max=50,dive"`
}

// CreateBedRequest - койко-место
type CreateBedRequest struct {
	BedNumber     string   `json:"bed_number" validate:"required,max=20"`
	PricePerMonth *float64 `json:"price_per_month,omitempty" validate:"omitempty,min=0"`
}

// ToDomain собирает объект в статусе "на модерации"
func (r CreatePropertyRequest) ToDomain() *domain.Property {
	pending := false
	property := &domain.Property{
		OwnerID:            r.OwnerID,
		Name:               strings.TrimSpace(r.Name),
		Description:        r.Description,
		PropertyType:       domain.PropertyType(r.PropertyType),
		Address:            strings.TrimSpace(r.Address),
		City:               strings.TrimSpace(r.City),
		State:              strings.TrimSpace(r.State),
		ZipCode:            strings.TrimSpace(r.ZipCode),
		Latitude:           r.Latitude,
		Longitude:          r.Longitude,
		PricePerRoom:       r.PricePerRoom,
		PropertyStars:      r.PropertyStars,
		DistanceToCenterKm: r.DistanceToCenterKm,
		WifiAvailable:      r.WifiAvailable,
		FreeCancellation:   r.FreeCancellation,
		PayAtProperty:      r.PayAtProperty,
		BreakfastIncluded:  r.BreakfastIncluded,
		Amenities:          domain.AmenityMap(r.Amenities),
		IsApproved:         &pending,
		Rooms:              make([]domain.Room, 0, len(r.Rooms)),
	}

	for _, room := range r.Rooms {
		beds := make([]domain.Bed, 0, len(room.Beds))
		for _, bed := range room.Beds {
			beds = append(beds, domain.Bed{
				BedNumber:     bed.BedNumber,
				PricePerMonth: bed.PricePerMonth,
				IsAvailable:   true,
			})
		}
		property.Rooms = append(property.Rooms, domain.Room{
			RoomNumber:    room.RoomNumber,
			RoomType:      room.RoomType,
			PricePerMonth: room.PricePerMonth,
			Capacity:      room.Capacity,
			IsAvailable:   true,
			Beds:          beds,
		})
	}

	property.NormalizeAmenities()
	return property
}

// SetApprovalRequest - решение модератора: true - опубликовать, false - отклонить
type SetApprovalRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}
