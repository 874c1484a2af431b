package repository

import (
	"context"

	"github.com/property-service/internal/domain"
)

// GeocodingRepository - внешний геокодер
type GeocodingRepository interface {
	// Geocode возвращает координаты первого совпадения по адресу.
	// (nil, nil) - адрес не найден.
	Geocode(ctx context.Context, query string) (*domain.Coordinates, error)
}
