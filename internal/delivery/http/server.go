package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/property-service/internal/config"
	"github.com/property-service/internal/delivery/http/handler"
	"github.com/property-service/internal/delivery/http/middleware"
	"github.com/property-service/internal/pkg/errors"
	"github.com/property-service/internal/pkg/utils"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	healthHandler   *handler.HealthHandler
	propertyHandler *handler.PropertyHandler
	locationHandler *handler.LocationHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	healthHandler *handler.HealthHandler,
	propertyHandler *handler.PropertyHandler,
	locationHandler *handler.LocationHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Property Service",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    1 << 20,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:             app,
		config:          cfg,
		logger:          logger,
		healthHandler:   healthHandler,
		propertyHandler: propertyHandler,
		locationHandler: locationHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.CORSOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	api.Get("/health", s.healthHandler.Health)

	properties := api.Group("/properties", middleware.RateLimit(s.config.RateLimit.Max, s.config.RateLimit.Window))
	properties.Get("/", s.propertyHandler.Search)
	properties.Post("/", s.propertyHandler.Create)
	properties.Get("/:id", s.propertyHandler.GetByID)
	properties.Patch("/:id/approval", s.propertyHandler.SetApproval)

	// Location cache
	properties.Get("/:id/location", s.locationHandler.GetLocation)
	properties.Post("/:id/location/refresh", s.locationHandler.RefreshLocation)
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки fiber (404 маршрута, лимит тела, паника) в общем формате ответа
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err),
			)
			return utils.SendError(c, errors.ErrInternalServer)
		}

		return c.Status(code).JSON(utils.ErrorResponse{
			Error: errors.New("HTTP_ERROR", err.Error(), code),
		})
	}
}
