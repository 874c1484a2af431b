package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrLocationWriteConflict - кеш локации обновили параллельно между чтением и записью
var ErrLocationWriteConflict = errors.New("location cache was updated concurrently")

// Coordinates - географические координаты
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlaceCategory - категория поиска объектов рядом
type PlaceCategory string

const (
	CategoryRestaurant PlaceCategory = "restaurant"
	CategoryCafe       PlaceCategory = "cafe"
	CategoryHospital   PlaceCategory = "hospital"
	CategorySchool     PlaceCategory = "school"
	CategoryShopping   PlaceCategory = "shopping"
	CategoryTransit    PlaceCategory = "transit"
)

// NearbyCategories - категории, которые запрашиваются при обогащении
var NearbyCategories = []PlaceCategory{
	CategoryRestaurant,
	CategoryCafe,
	CategoryHospital,
	CategorySchool,
	CategoryShopping,
	CategoryTransit,
}

// Группы в сохранённом кеше
const (
	BucketTransportation = "transportation"
	BucketEssentials     = "essentials"
	BucketLifestyle      = "lifestyle"
)

var subTypeBuckets = map[string]string{
	"metro":       BucketTransportation,
	"railway":     BucketTransportation,
	"bus_stop":    BucketTransportation,
	"hospital":    BucketEssentials,
	"clinic":      BucketEssentials,
	"pharmacy":    BucketEssentials,
	"school":      BucketEssentials,
	"college":     BucketEssentials,
	"university":  BucketEssentials,
	"supermarket": BucketEssentials,
	"grocery":     BucketEssentials,
	"restaurant":  BucketLifestyle,
	"cafe":        BucketLifestyle,
	"mall":        BucketLifestyle,
}

// BucketFor возвращает группу для подтипа места, пустая строка - подтип не хранится
func BucketFor(subType string) string {
	return subTypeBuckets[subType]
}

// NearbyPlace - найденное место рядом с объектом
type NearbyPlace struct {
	Name           string        `json:"name"`
	Category       PlaceCategory `json:"category"`
	SubType        string        `json:"sub_type"`
	DistanceMeters float64       `json:"distance_meters"`
	Coordinates    Coordinates   `json:"coordinates"`
	Address        *string       `json:"address,omitempty"`
}

// NearbyAmenities - ближайшее место каждого подтипа, сгруппированное по назначению
type NearbyAmenities struct {
	Transportation map[string]NearbyPlace `json:"transportation"`
	Essentials     map[string]NearbyPlace `json:"essentials"`
	Lifestyle      map[string]NearbyPlace `json:"lifestyle"`
}

func NewNearbyAmenities() *NearbyAmenities {
	return &NearbyAmenities{
		Transportation: map[string]NearbyPlace{},
		Essentials:     map[string]NearbyPlace{},
		Lifestyle:      map[string]NearbyPlace{},
	}
}

func (n *NearbyAmenities) bucket(name string) map[string]NearbyPlace {
	switch name {
	case BucketTransportation:
		if n.Transportation == nil {
			n.Transportation = map[string]NearbyPlace{}
		}
		return n.Transportation
	case BucketEssentials:
		if n.Essentials == nil {
			n.Essentials = map[string]NearbyPlace{}
		}
		return n.Essentials
	case BucketLifestyle:
		if n.Lifestyle == nil {
			n.Lifestyle = map[string]NearbyPlace{}
		}
		return n.Lifestyle
	}
	return nil
}

// Add кладёт место в свою группу, если подтип ещё пуст или новое место ближе.
// Возвращает true, если место сохранено.
func (n *NearbyAmenities) Add(place NearbyPlace) bool {
	bucket := n.bucket(BucketFor(place.SubType))
	if bucket == nil {
		return false
	}
	if current, ok := bucket[place.SubType]; ok && current.DistanceMeters <= place.DistanceMeters {
		return false
	}
	bucket[place.SubType] = place
	return true
}

// Get ищет место по подтипу
func (n *NearbyAmenities) Get(subType string) (NearbyPlace, bool) {
	bucket := n.bucket(BucketFor(subType))
	if bucket == nil {
		return NearbyPlace{}, false
	}
	place, ok := bucket[subType]
	return place, ok
}

// Len - общее число сохранённых мест
func (n *NearbyAmenities) Len() int {
	return len(n.Transportation) + len(n.Essentials) + len(n.Lifestyle)
}

func (n NearbyAmenities) Value() (driver.Value, error) {
	return json.Marshal(n)
}

func (n *NearbyAmenities) Scan(src interface{}) error {
	data, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("scan nearby amenities: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, n)
}

// FoldNearby сводит результаты всех категорий к ближайшему месту каждого подтипа
func FoldNearby(results map[PlaceCategory][]NearbyPlace) *NearbyAmenities {
	folded := NewNearbyAmenities()
	for _, places := range results {
		for _, place := range places {
			folded.Add(place)
		}
	}
	return folded
}

// LocationCache - кеш координат и мест рядом, хранится прямо на объекте
type LocationCache struct {
	Coordinates     *Coordinates
	NearbyAmenities *NearbyAmenities
	LastUpdated     *time.Time
}

// IsFresh: кеш свежий только при наличии всех данных и возрасте меньше окна
func (c LocationCache) IsFresh(now time.Time, window time.Duration) bool {
	if c.Coordinates == nil || c.NearbyAmenities == nil || c.LastUpdated == nil {
		return false
	}
	return now.Sub(*c.LastUpdated) < window
}

// LocationUpdate - частичная запись кеша локации на объект
type LocationUpdate struct {
	Coordinates     Coordinates
	NearbyAmenities *NearbyAmenities
	UpdatedAt       time.Time
	// ExpectedLastUpdated - значение amenities_last_updated на момент чтения.
	// Запись выполняется, только если оно не изменилось.
	ExpectedLastUpdated *time.Time
}
