package handler

import (
	"context"
	"time"

	"quiz-tube/internal/dto"
	"quiz-tube/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Pinger is anything whose reachability the readiness probe reports.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CachePinger reports whether the token blacklist store answers.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	db    Pinger
	cache CachePinger
}

func NewHealthHandler(db Pinger, cache CachePinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Liveness godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Liveness(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{Status: "ok"})
}

// Readiness godoc
// @Summary Readiness probe
// @Description Reports whether the database and Redis answer
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /readyz [get]
func (h *HealthHandler) Readiness(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			logger.Get().Warn("Readiness check failed", zap.String("dependency", "database"), zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{Status: "unavailable"})
		}
	}
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			logger.Get().Warn("Readiness check failed", zap.String("dependency", "redis"), zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{Status: "unavailable"})
		}
	}
	return c.JSON(dto.HealthResponse{Status: "ok"})
}
