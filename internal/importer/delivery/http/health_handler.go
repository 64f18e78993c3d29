package http

import (
	"context"
	"net/http"
	"time"

	"golang-stock-importer/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Pinger is satisfied by *postgres.DB.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and database readiness.
type HealthHandler struct {
	db     Pinger
	logger *logger.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// RegisterRoutes registers /health and /health/db on e.
func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.GET("/health/db", h.DatabaseHealth)
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce  json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
}

// DatabaseHealth godoc
// @Summary Database readiness probe
// @Tags health
// @Produce  json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health/db [get]
func (h *HealthHandler) DatabaseHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("Database health check failed", logger.ErrorField(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable", "database": "down"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "database": "up"})
}
