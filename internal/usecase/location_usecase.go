package usecase

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/property-service/internal/config"
	"github.com/property-service/internal/domain"
	"github.com/property-service/internal/domain/repository"
	"github.com/property-service/internal/pkg/errors"
	"github.com/property-service/internal/usecase/dto"
	"go.uber.org/zap"
)

const (
	DefaultFreshnessWindow = 24 * time.Hour
	DefaultNearbyRadiusM   = 2000.0
	DefaultNearbyLimit     = 8
)

// LocationUseCase - кеш координат и мест рядом, хранящийся на объекте.
//
// Порядок работы:
// - свежий кеш (моложе окна и все поля заполнены) отдаётся без внешних вызовов
// - иначе адрес геокодируется; нет результата - LOCATION_UNRESOLVABLE, ничего не пишется
// - категории мест ищутся параллельно, ошибка категории даёт пустой список
// - результаты сводятся к ближайшему месту каждого подтипа
// - запись в БД условная и не влияет на ответ: при ошибке возвращается свежий результат с Cached=false
type LocationUseCase struct {
	propertyRepo repository.PropertyRepository
	geocoder     repository.GeocodingRepository
	places       repository.PlacesRepository
	window       time.Duration
	radiusM      float64
	limit        int
	now          func() time.Time
	logger       *zap.Logger
}

// NewLocationUseCase создает новый LocationUseCase
func NewLocationUseCase(
	propertyRepo repository.PropertyRepository,
	geocoder repository.GeocodingRepository,
	places repository.PlacesRepository,
	cfg *config.LocationConfig,
	logger *zap.Logger,
) *LocationUseCase {
	uc := &LocationUseCase{
		propertyRepo: propertyRepo,
		geocoder:     geocoder,
		places:       places,
		window:       DefaultFreshnessWindow,
		radiusM:      DefaultNearbyRadiusM,
		limit:        DefaultNearbyLimit,
		now:          time.Now,
		logger:       logger,
	}

	if cfg != nil {
		if cfg.FreshnessWindow > 0 {
			uc.window = cfg.FreshnessWindow
		}
		if cfg.NearbyRadiusM > 0 {
			uc.radiusM = cfg.NearbyRadiusM
		}
		if cfg.NearbyLimit > 0 {
			uc.limit = cfg.NearbyLimit
		}
	}

	return uc
}

// WithClock подменяет источник времени (для тестов)
func (uc *LocationUseCase) WithClock(now func() time.Time) *LocationUseCase {
	uc.now = now
	return uc
}

// GetLocation отдаёт кеш, если он свежий, иначе пересчитывает
func (uc *LocationUseCase) GetLocation(ctx context.Context, req dto.LocationRequest) (*dto.LocationResult, error) {
	return uc.resolve(ctx, req, false)
}

// RefreshLocation пересчитывает локацию независимо от свежести кеша
func (uc *LocationUseCase) RefreshLocation(ctx context.Context, req dto.LocationRequest) (*dto.LocationResult, error) {
	return uc.resolve(ctx, req, true)
}

// GetPropertyLocation берёт адрес из каталога и вызывает GetLocation или RefreshLocation
func (uc *LocationUseCase) GetPropertyLocation(ctx context.Context, id uuid.UUID, force bool) (*dto.LocationResult, error) {
	property, err := uc.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req := dto.LocationRequest{
		PropertyID: property.ID,
		Address:    property.Address,
		City:       property.City,
		State:      property.State,
		Zip:        property.ZipCode,
	}
	return uc.resolve(ctx, req, force)
}

func (uc *LocationUseCase) resolve(ctx context.Context, req dto.LocationRequest, force bool) (*dto.LocationResult, error) {
	logger := uc.logger.With(zap.String("property_id", req.PropertyID.String()))

	// 1. Текущее состояние кеша на объекте
	cache, err := uc.propertyRepo.GetLocationCache(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}

	now := uc.now()

	// 2. Попадание в кеш - без внешних вызовов
	if !force && cache.IsFresh(now, uc.window) {
		logger.Debug("Location cache hit", zap.Timep("last_updated", cache.LastUpdated))
		return &dto.LocationResult{
			Coordinates:     *cache.Coordinates,
			NearbyAmenities: cache.NearbyAmenities,
			LastUpdated:     cache.LastUpdated,
			Cached:          true,
		}, nil
	}

	// 3. Геокодирование
	query := req.Query()
	coords, err := uc.geocoder.Geocode(ctx, query)
	if err != nil {
		logger.Error("Geocoding failed", zap.String("query", query), zap.Error(err))
		return nil, errors.ErrLocationUnresolvable
	}
	if coords == nil {
		logger.Info("Address could not be geocoded", zap.String("query", query))
		return nil, errors.ErrLocationUnresolvable
	}

	// 4-5. Параллельный поиск по категориям и свёртка
	results := uc.searchCategories(ctx, *coords, logger)
	nearby := domain.FoldNearby(results)

	result := &dto.LocationResult{
		Coordinates:     *coords,
		NearbyAmenities: nearby,
		LastUpdated:     &now,
		Cached:          false,
	}

	// 6. Условная запись, ошибка только логируется
	err = uc.propertyRepo.UpdateLocation(ctx, req.PropertyID, domain.LocationUpdate{
		Coordinates:         *coords,
		NearbyAmenities:     nearby,
		UpdatedAt:           now,
		ExpectedLastUpdated: cache.LastUpdated,
	})
	switch {
	case err == nil:
	case stderrors.Is(err, domain.ErrLocationWriteConflict):
		logger.Warn("Location cache was refreshed concurrently, result not persisted")
	default:
		logger.Warn("Failed to persist location cache", zap.Error(err))
	}

	logger.Info("Location enriched",
		zap.Float64("lat", coords.Lat),
		zap.Float64("lng", coords.Lng),
		zap.Int("places", nearby.Len()),
		zap.Bool("forced", force))

	return result, nil
}

// searchCategories запрашивает все категории одновременно.
// Ошибка категории не прерывает обогащение: категория просто остаётся пустой.
func (uc *LocationUseCase) searchCategories(
	ctx context.Context,
	center domain.Coordinates,
	logger *zap.Logger,
) map[domain.PlaceCategory][]domain.NearbyPlace {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[domain.PlaceCategory][]domain.NearbyPlace, len(domain.NearbyCategories))
	)

	for _, category := range domain.NearbyCategories {
		wg.Add(1)
		go func(category domain.PlaceCategory) {
			defer wg.Done()

			places, err := uc.places.SearchNearby(ctx, center, category, uc.radiusM, uc.limit)
			if err != nil {
				logger.Warn("Nearby search failed, category skipped",
					zap.String("category", string(category)),
					zap.Error(err))
				places = nil
			}
			if len(places) > uc.limit {
				places = places[:uc.limit]
			}

			mu.Lock()
			results[category] = places
			mu.Unlock()
		}(category)
	}

	wg.Wait()
	return results
}
