package repository

import (
	"context"

	"github.com/property-service/internal/domain"
)

// PlacesRepository - внешний поиск мест рядом с точкой
type PlacesRepository interface {
	// SearchNearby возвращает до limit мест категории в радиусе radiusM метров,
	// отсортированных по расстоянию
	SearchNearby(
		ctx context.Context,
		center domain.Coordinates,
		category domain.PlaceCategory,
		radiusM float64,
		limit int,
	) ([]domain.NearbyPlace, error)
}
