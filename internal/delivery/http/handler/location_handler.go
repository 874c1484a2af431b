package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/property-service/internal/pkg/utils"
	"github.com/property-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// LocationService - кеш локации объекта
type LocationService interface {
	GetPropertyLocation(ctx context.Context, id uuid.UUID, force bool) (*dto.LocationResult, error)
}

// LocationHandler - координаты и места рядом с объектом
type LocationHandler struct {
	locationUC LocationService
	logger     *zap.Logger
}

// NewLocationHandler - создание нового LocationHandler
func NewLocationHandler(locationUC LocationService, logger *zap.Logger) *LocationHandler {
	return &LocationHandler{
		locationUC: locationUC,
		logger:     logger,
	}
}

// GetLocation godoc
// @Summary Локация объекта
// @Description Координаты и ближайшие места по группам. Данные моложе 24 часов отдаются из кеша без внешних вызовов.
// @Tags Location
// @Produce json
// @Param id path string true "ID объекта (UUID)"
// @Success 200 {object} utils.SuccessResponse{data=dto.LocationResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse "Адрес не удалось геокодировать"
// @Router /api/v1/properties/{id}/location [get]
func (h *LocationHandler) GetLocation(c *fiber.Ctx) error {
	return h.respond(c, false)
}

// RefreshLocation godoc
// @Summary Принудительное обновление локации
// @Description Пересчитывает координаты и места рядом независимо от свежести кеша
// @Tags Location
// @Produce json
// @Param id path string true "ID объекта (UUID)"
// @Success 200 {object} utils.SuccessResponse{data=dto.LocationResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse "Адрес не удалось геокодировать"
// @Router /api/v1/properties/{id}/location/refresh [post]
func (h *LocationHandler) RefreshLocation(c *fiber.Ctx) error {
	return h.respond(c, true)
}

func (h *LocationHandler) respond(c *fiber.Ctx, force bool) error {
	id, err := parsePropertyID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.locationUC.GetPropertyLocation(c.UserContext(), id, force)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.NewLocationResponse(id, result), &utils.Meta{
		Cached: result.Cached,
	})
}
