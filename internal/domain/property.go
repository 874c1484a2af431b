package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PropertyType - тип объекта размещения
type PropertyType string

const (
	PropertyTypeFlat   PropertyType = "Flat"
	PropertyTypePG     PropertyType = "PG"
	PropertyTypeHostel PropertyType = "Hostel"
	// PropertyTypeAll - значение фильтра "любой тип"
	PropertyTypeAll PropertyType = "All"
)

func (t PropertyType) IsValid() bool {
	switch t {
	case PropertyTypeFlat, PropertyTypePG, PropertyTypeHostel, PropertyTypeAll:
		return true
	}
	return false
}

// Amenity - ключ удобства, по которому можно фильтровать
type Amenity string

const (
	AmenityWifi     Amenity = "wifi"
	AmenityElevator Amenity = "elevator"
	AmenityGeyser   Amenity = "geyser"
	AmenityAC       Amenity = "ac"
	AmenityParking  Amenity = "parking"
)

func (a Amenity) IsValid() bool {
	switch a {
	case AmenityWifi, AmenityElevator, AmenityGeyser, AmenityAC, AmenityParking:
		return true
	}
	return false
}

// AmenityMap хранится в JSONB колонке amenities
type AmenityMap map[string]bool

func (m AmenityMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *AmenityMap) Scan(src interface{}) error {
	data, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("scan amenities: %w", err)
	}
	if len(data) == 0 {
		*m = AmenityMap{}
		return nil
	}
	result := AmenityMap{}
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("scan amenities: %w", err)
	}
	*m = result
	return nil
}

// Property - объект размещения (квартира, PG, хостел)
type Property struct {
	ID                 uuid.UUID    `json:"id" db:"id"`
	OwnerID            uuid.UUID    `json:"owner_id" db:"owner_id"`
	Name               string       `json:"name" db:"name"`
	Description        *string      `json:"description,omitempty" db:"description"`
	PropertyType       PropertyType `json:"property_type" db:"property_type"`
	Address            string       `json:"address" db:"address"`
	City               string       `json:"city" db:"city"`
	State              string       `json:"state" db:"state"`
	ZipCode            string       `json:"zip_code" db:"zip_code"`
	Latitude           *float64     `json:"latitude,omitempty" db:"latitude"`
	Longitude          *float64     `json:"longitude,omitempty" db:"longitude"`
	PricePerRoom       *float64     `json:"price_per_room,omitempty" db:"price_per_room"`
	Rating             *float64     `json:"rating,omitempty" db:"rating"`
	RatingCount        int          `json:"rating_count" db:"rating_count"`
	PropertyStars      *int         `json:"property_stars,omitempty" db:"property_stars"`
	DistanceToCenterKm *float64     `json:"distance_to_center_km,omitempty" db:"distance_to_center_km"`

	WifiAvailable     bool       `json:"wifi_available" db:"wifi_available"`
	FreeCancellation  bool       `json:"free_cancellation" db:"free_cancellation"`
	PayAtProperty     bool       `json:"pay_at_property" db:"pay_at_property"`
	BreakfastIncluded bool       `json:"breakfast_included" db:"breakfast_included"`
	Amenities         AmenityMap `json:"amenities" db:"amenities"`

	// IsApproved: nil - отклонён, false - на модерации, true - опубликован
	IsApproved *bool `json:"is_approved" db:"is_approved"`

	NearbyAmenities      *NearbyAmenities `json:"nearby_amenities,omitempty" db:"nearby_amenities"`
	AmenitiesLastUpdated *time.Time       `json:"amenities_last_updated,omitempty" db:"amenities_last_updated"`

	Rooms     []Room    `json:"rooms" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Room - комната объекта
type Room struct {
	ID            uuid.UUID `json:"id" db:"id"`
	PropertyID    uuid.UUID `json:"property_id" db:"property_id"`
	RoomNumber    string    `json:"room_number" db:"room_number"`
	RoomType      string    `json:"room_type" db:"room_type"`
	PricePerMonth *float64  `json:"price_per_month,omitempty" db:"price_per_month"`
	Capacity      int       `json:"capacity" db:"capacity"`
	IsAvailable   bool      `json:"is_available" db:"is_available"`
	Beds          []Bed     `json:"beds" db:"-"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Bed - койко-место в комнате
type Bed struct {
	ID            uuid.UUID `json:"id" db:"id"`
	RoomID        uuid.UUID `json:"room_id" db:"room_id"`
	BedNumber     string    `json:"bed_number" db:"bed_number"`
	PricePerMonth *float64  `json:"price_per_month,omitempty" db:"price_per_month"`
	IsAvailable   bool      `json:"is_available" db:"is_available"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// ApprovalState - состояние модерации
type ApprovalState string

const (
	ApprovalPending  ApprovalState = "pending"
	ApprovalApproved ApprovalState = "approved"
	ApprovalRejected ApprovalState = "rejected"
)

func (p *Property) ApprovalState() ApprovalState {
	switch {
	case p.IsApproved == nil:
		return ApprovalRejected
	case *p.IsApproved:
		return ApprovalApproved
	default:
		return ApprovalPending
	}
}

// HasWifi учитывает оба представления wifi: колонку и ключ в amenities
func (p *Property) HasWifi() bool {
	return p.WifiAvailable || p.Amenities["wifi"]
}

// NormalizeAmenities переносит amenities["wifi"] в колонку wifi_available.
// Колонка - каноничное представление, ключ в карте остаётся только во входящих данных.
func (p *Property) NormalizeAmenities() {
	if p.Amenities == nil {
		p.Amenities = AmenityMap{}
	}
	if wifi, ok := p.Amenities[string(AmenityWifi)]; ok {
		p.WifiAvailable = p.WifiAvailable || wifi
		delete(p.Amenities, string(AmenityWifi))
	}
}

// LocationCache возвращает сохранённую на объекте запись кеша локации
func (p *Property) LocationCache() LocationCache {
	cache := LocationCache{
		NearbyAmenities: p.NearbyAmenities,
		LastUpdated:     p.AmenitiesLastUpdated,
	}
	if p.Latitude != nil && p.Longitude != nil {
		cache.Coordinates = &Coordinates{Lat: *p.Latitude, Lng: *p.Longitude}
	}
	return cache
}

// FullAddress собирает адрес в одну строку для геокодирования, пустые части пропускаются
func FullAddress(parts ...string) string {
	result := ""
	for _, part := range parts {
		if part == "" {
			continue
		}
		if result != "" {
			result += ", "
		}
		result += part
	}
	return result
}

func jsonBytes(src interface{}) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported type %T", src)
	}
}
