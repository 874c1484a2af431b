package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/property-service/internal/domain"
	"github.com/property-service/internal/pkg/errors"
	"github.com/property-service/internal/pkg/utils"
	"github.com/property-service/internal/pkg/validator"
	"github.com/property-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// PropertyService - операции каталога, которые нужны обработчику
type PropertyService interface {
	Search(ctx context.Context, filter domain.PropertyFilter) (*dto.PropertySearchResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	Create(ctx context.Context, req dto.CreatePropertyRequest) (*domain.Property, error)
	SetApproval(ctx context.Context, id uuid.UUID, approved bool) (*domain.Property, error)
}

// PropertyHandler - обработчик каталога объектов
type PropertyHandler struct {
	propertyUC PropertyService
	logger     *zap.Logger
}

// NewPropertyHandler - создание нового PropertyHandler
func NewPropertyHandler(propertyUC PropertyService, logger *zap.Logger) *PropertyHandler {
	return &PropertyHandler{
		propertyUC: propertyUC,
		logger:     logger,
	}
}

// Search godoc
// @Summary Поиск объектов
// @Description Возвращает опубликованные объекты с комнатами и кроватями. Все фильтры объединяются через AND.
// @Tags Properties
// @Produce json
// @Param city query string false "Город (подстрока, без учёта регистра)"
// @Param type query string false "Тип объекта" Enums(Flat, PG, Hostel, All)
// @Param q query string false "Поиск по адресу, городу и штату"
// @Param min_price query number false "Минимальная цена за комнату"
// @Param max_price query number false "Максимальная цена за комнату"
// @Param min_rating query number false "Минимальный рейтинг"
// @Param stars_min query int false "Минимум звёзд"
// @Param amenities query string false "Удобства через запятую (wifi,elevator,geyser,ac,parking)"
// @Param free_cancellation query bool false "Только с бесплатной отменой"
// @Param pay_at_property query bool false "Только с оплатой на месте"
// @Param breakfast_included query bool false "Только с завтраком"
// @Param max_distance_km query number false "Максимальное расстояние до центра, км"
// @Param sort query string false "Сортировка" Enums(price_asc, price_desc, rating_desc, newest, distance_asc)
// @Success 200 {object} utils.SuccessResponse{data=dto.PropertySearchResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/properties [get]
func (h *PropertyHandler) Search(c *fiber.Ctx) error {
	start := time.Now()

	var query dto.SearchPropertiesQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"query": err.Error(),
		}))
	}

	if err := validator.Validate(&query); err != nil {
		return utils.SendError(c, err)
	}

	amenities, unknown := query.AmenityList()
	if unknown != "" {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"amenities": fmt.Sprintf("unknown amenity %q", unknown),
		}))
	}

	result, err := h.propertyUC.Search(c.UserContext(), query.ToFilter(amenities))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    result.Total,
		Cached:   result.Cached,
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000,
	})
}

// GetByID godoc
// @Summary Объект по ID
// @Description Возвращает объект с комнатами и кроватями в любом статусе модерации
// @Tags Properties
// @Produce json
// @Param id path string true "ID объекта (UUID)"
// @Success 200 {object} utils.SuccessResponse{data=domain.Property}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/properties/{id} [get]
func (h *PropertyHandler) GetByID(c *fiber.Ctx) error {
	id, err := parsePropertyID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	property, err := h.propertyUC.GetByID(c.UserContext(), id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, property, nil)
}

// Create godoc
// @Summary Новый объект
// @Description Создаёт объект в статусе "на модерации" и ставит его локацию в очередь на обогащение
// @Tags Properties
// @Accept json
// @Produce json
// @Param request body dto.CreatePropertyRequest true "Объект"
// @Success 201 {object} utils.SuccessResponse{data=domain.Property}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/properties [post]
func (h *PropertyHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatePropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"body": "invalid JSON",
		}))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	for key := range req.Amenities {
		if !domain.Amenity(key).IsValid() {
			return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
				"amenities": fmt.Sprintf("unknown amenity %q", key),
			}))
		}
	}

	property, err := h.propertyUC.Create(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendCreated(c, property)
}

// SetApproval godoc
// @Summary Модерация объекта
// @Description approved=true публикует объект, approved=false отклоняет его
// @Tags Properties
// @Accept json
// @Produce json
// @Param id path string true "ID объекта (UUID)"
// @Param request body dto.SetApprovalRequest true "Решение"
// @Success 200 {object} utils.SuccessResponse{data=domain.Property}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/properties/{id}/approval [patch]
func (h *PropertyHandler) SetApproval(c *fiber.Ctx) error {
	id, err := parsePropertyID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.SetApprovalRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"body": "invalid JSON",
		}))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	property, err := h.propertyUC.SetApproval(c.UserContext(), id, *req.Approved)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, property, nil)
}

func parsePropertyID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidPropertyID
	}
	return id, nil
}
