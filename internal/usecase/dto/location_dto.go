package dto

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/property-service/internal/domain"
	"github.com/property-service/internal/pkg/utils"
)

// LocationRequest - объект и его адрес для обогащения
type LocationRequest struct {
	PropertyID uuid.UUID
	Address    string
	City       string
	State      string
	Zip        string
}

// Query - строка для геокодера: "address, city, state, zip"
func (r LocationRequest) Query() string {
	return domain.FullAddress(r.Address, r.City, r.State, r.Zip)
}

// LocationResult - координаты и места рядом; Cached=true если данные взяты из кеша без внешних вызовов
type LocationResult struct {
	Coordinates     domain.Coordinates
	NearbyAmenities *domain.NearbyAmenities
	LastUpdated     *time.Time
	Cached          bool
}

// LocationResponse - HTTP представление LocationResult
type LocationResponse struct {
	PropertyID      uuid.UUID                    `json:"property_id"`
	Coordinates     domain.Coordinates           `json:"coordinates"`
	NearbyAmenities map[string][]NearbyPlaceView `json:"nearby_amenities"`
	LastUpdated     *time.Time                   `json:"last_updated,omitempty"`
	Cached          bool                         `json:"cached"`
}

// NearbyPlaceView - место рядом с отформатированным расстоянием
type NearbyPlaceView struct {
	Name           string             `json:"name"`
	SubType        string             `json:"sub_type"`
	Category       string             `json:"category"`
	DistanceMeters float64            `json:"distance_meters"`
	Distance       string             `json:"distance"`
	Coordinates    domain.Coordinates `json:"coordinates"`
	Address        *string            `json:"address,omitempty"`
}

// NewLocationResponse группирует места по назначению, внутри группы - по возрастанию расстояния
func NewLocationResponse(propertyID uuid.UUID, result *LocationResult) LocationResponse {
	resp := LocationResponse{
		PropertyID:  propertyID,
		Coordinates: result.Coordinates,
		LastUpdated: result.LastUpdated,
		Cached:      result.Cached,
		NearbyAmenities: map[string][]NearbyPlaceView{
			domain.BucketTransportation: {},
			domain.BucketEssentials:     {},
			domain.BucketLifestyle:      {},
		},
	}

	if result.NearbyAmenities == nil {
		return resp
	}

	buckets := map[string]map[string]domain.NearbyPlace{
		domain.BucketTransportation: result.NearbyAmenities.Transportation,
		domain.BucketEssentials:     result.NearbyAmenities.Essentials,
		domain.BucketLifestyle:      result.NearbyAmenities.Lifestyle,
	}

	for name, places := range buckets {
		views := make([]NearbyPlaceView, 0, len(places))
		for _, p := range places {
			views = append(views, NearbyPlaceView{
				Name:           p.Name,
				SubType:        p.SubType,
				Category:       string(p.Category),
				DistanceMeters: p.DistanceMeters,
				Distance:       utils.FormatDistance(p.DistanceMeters),
				Coordinates:    p.Coordinates,
				Address:        p.Address,
			})
		}
		sort.Slice(views, func(i, j int) bool {
			if views[i].DistanceMeters != views[j].DistanceMeters {
				return views[i].DistanceMeters < views[j].DistanceMeters
			}
			return views[i].SubType < views[j].SubType
		})
		resp.NearbyAmenities[name] = views
	}

	return resp
}
