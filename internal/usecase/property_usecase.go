package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/property-service/internal/domain"
	"github.com/property-service/internal/domain/repository"
	"github.com/property-service/internal/pkg/errors"
	"github.com/property-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// SearchCachePrefix - префикс ключей кеша выдачи
const SearchCachePrefix = "search:"

// PropertyUseCase - поиск по каталогу и жизненный цикл объекта
type PropertyUseCase struct {
	propertyRepo repository.PropertyRepository
	cacheRepo    repository.CacheRepository
	streamRepo   repository.StreamRepository
	searchTTL    time.Duration
	logger       *zap.Logger
}

// NewPropertyUseCase создает новый PropertyUseCase.
// streamRepo может быть nil - тогда события на обогащение не публикуются.
func NewPropertyUseCase(
	propertyRepo repository.PropertyRepository,
	cacheRepo repository.CacheRepository,
	streamRepo repository.StreamRepository,
	searchTTL time.Duration,
	logger *zap.Logger,
) *PropertyUseCase {
	return &PropertyUseCase{
		propertyRepo: propertyRepo,
		cacheRepo:    cacheRepo,
		streamRepo:   streamRepo,
		searchTTL:    searchTTL,
		logger:       logger,
	}
}

// Search возвращает опубликованные объекты по фильтру.
// Ошибки кеша не влияют на результат, ошибка каталога всегда QUERY_FAILED.
func (uc *PropertyUseCase) Search(ctx context.Context, filter domain.PropertyFilter) (*dto.PropertySearchResponse, error) {
	cacheKey := searchCacheKey(filter)

	if uc.cacheRepo != nil && uc.searchTTL > 0 {
		cached, err := uc.cacheRepo.Get(ctx, cacheKey)
		if err != nil {
			uc.logger.Warn("Search cache read failed", zap.String("key", cacheKey), zap.Error(err))
		} else if len(cached) > 0 {
			var properties []*domain.Property
			if err := json.Unmarshal(cached, &properties); err == nil {
				uc.logger.Debug("Search cache hit", zap.String("key", cacheKey))
				return &dto.PropertySearchResponse{
					Properties: properties,
					Total:      len(properties),
					Cached:     true,
				}, nil
			}
			uc.logger.Warn("Corrupted search cache entry", zap.String("key", cacheKey))
		}
	}

	properties, err := uc.propertyRepo.Search(ctx, filter)
	if err != nil {
		var appErr *errors.AppError
		if !stderrors.As(err, &appErr) {
			uc.logger.Error("Property search failed", zap.Error(err))
		}
		return nil, errors.ErrQueryFailed
	}

	if uc.cacheRepo != nil && uc.searchTTL > 0 {
		if data, err := json.Marshal(properties); err == nil {
			if err := uc.cacheRepo.Set(ctx, cacheKey, data, uc.searchTTL); err != nil {
				uc.logger.Warn("Failed to cache search result", zap.String("key", cacheKey), zap.Error(err))
			}
		}
	}

	return &dto.PropertySearchResponse{
		Properties: properties,
		Total:      len(properties),
	}, nil
}

// GetByID возвращает объект с комнатами и кроватями
func (uc *PropertyUseCase) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	return uc.propertyRepo.GetByID(ctx, id)
}

// Create сохраняет объект на модерацию и ставит его в очередь на обогащение локации
func (uc *PropertyUseCase) Create(ctx context.Context, req dto.CreatePropertyRequest) (*domain.Property, error) {
	property := req.ToDomain()

	if err := uc.propertyRepo.Create(ctx, property); err != nil {
		return nil, err
	}

	uc.logger.Info("Property created",
		zap.String("id", property.ID.String()),
		zap.String("owner_id", property.OwnerID.String()),
		zap.Int("rooms", len(property.Rooms)))

	if uc.streamRepo != nil {
		event := domain.LocationRefreshEvent{PropertyID: property.ID, Reason: domain.RefreshReasonCreated}
		if err := uc.streamRepo.PublishToStream(ctx, domain.StreamLocationRefresh, event); err != nil {
			// Локация будет посчитана при первом просмотре
			uc.logger.Warn("Failed to enqueue location refresh",
				zap.String("id", property.ID.String()),
				zap.Error(err))
		}
	}

	return property, nil
}

// SetApproval: true - объект публикуется, false - отклоняется (is_approved = NULL)
func (uc *PropertyUseCase) SetApproval(ctx context.Context, id uuid.UUID, approved bool) (*domain.Property, error) {
	var state *bool
	if approved {
		state = &approved
	}

	if err := uc.propertyRepo.SetApproval(ctx, id, state); err != nil {
		return nil, err
	}

	uc.logger.Info("Property approval changed",
		zap.String("id", id.String()),
		zap.Bool("approved", approved))

	uc.invalidateSearchCache(ctx)

	return uc.propertyRepo.GetByID(ctx, id)
}

func (uc *PropertyUseCase) invalidateSearchCache(ctx context.Context) {
	if uc.cacheRepo == nil {
		return
	}
	if err := uc.cacheRepo.DeleteByPrefix(ctx, SearchCachePrefix); err != nil {
		uc.logger.Warn("Failed to invalidate search cache", zap.Error(err))
	}
}

// searchCacheKey - md5 от канонического представления фильтра
func searchCacheKey(filter domain.PropertyFilter) string {
	amenities := make([]string, 0, len(filter.Amenities))
	seen := make(map[domain.Amenity]struct{}, len(filter.Amenities))
	for _, a := range filter.Amenities {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		amenities = append(amenities, string(a))
	}
	sort.Strings(amenities)

	canonical := filter
	canonical.Amenities = nil
	if canonical.PropertyType == domain.PropertyTypeAll {
		canonical.PropertyType = ""
	}

	data, _ := json.Marshal(struct {
		domain.PropertyFilter
		Amenities []string `json:"amenities"`
	}{canonical, amenities})

	return fmt.Sprintf("%s%x", SearchCachePrefix, md5.Sum(data))
}
