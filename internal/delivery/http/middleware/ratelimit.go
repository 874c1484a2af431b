package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/property-service/internal/pkg/errors"
	"github.com/property-service/internal/pkg/utils"
)

// RateLimit - ограничение числа запросов с одного IP за окно
func RateLimit(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		Next: func(c *fiber.Ctx) bool {
			return max <= 0
		},
		LimitReached: func(c *fiber.Ctx) error {
			return utils.SendError(c, errors.ErrRateLimited)
		},
	})
}
