package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/property-service/internal/domain"
)

// PropertyRepository определяет методы для работы с каталогом объектов
type PropertyRepository interface {
	// Search возвращает опубликованные объекты по фильтру вместе с комнатами и кроватями
	Search(ctx context.Context, filter domain.PropertyFilter) ([]*domain.Property, error)

	// GetByID возвращает объект по ID в любом статусе модерации
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error)

	// Create сохраняет новый объект вместе с комнатами и кроватями
	Create(ctx context.Context, property *domain.Property) error

	// SetApproval меняет статус модерации (nil - отклонён)
	SetApproval(ctx context.Context, id uuid.UUID, approved *bool) error

	// GetLocationCache читает только поля кеша локации объекта
	GetLocationCache(ctx context.Context, id uuid.UUID) (*domain.LocationCache, error)

	// UpdateLocation записывает кеш локации на объект.
	// Возвращает domain.ErrLocationWriteConflict, если кеш успели обновить после чтения.
	UpdateLocation(ctx context.Context, id uuid.UUID, update domain.LocationUpdate) error
}
