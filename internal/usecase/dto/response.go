package dto

import "github.com/property-service/internal/domain"

// PropertySearchResponse - результат поиска
type PropertySearchResponse struct {
	Properties []*domain.Property `json:"properties"`
	Total      int                `json:"total"`
	Cached     bool               `json:"-"`
}
