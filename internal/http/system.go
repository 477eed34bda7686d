package http

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"jucai-fund-backend/internal/common/errors"
	"jucai-fund-backend/internal/common/logger"
)

const readyTimeout = 2 * time.Second

// HealthChecker проверяет доступность внешней зависимости
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type systemHandler struct {
	version string
	checks  map[string]HealthChecker
	now     func() time.Time
}

func newSystemHandler(version string, checks map[string]HealthChecker) *systemHandler {
	return &systemHandler{version: version, checks: checks, now: time.Now}
}

// @Summary API info
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (h *systemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Jucai Fund API",
		"version": h.version,
		"docs":    "/swagger/index.html",
	})
}

// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *systemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": h.now().UTC(),
	})
}

func (h *systemHandler) Live(c *gin.Context) {
	c.Status(http.StatusOK)
}

// @Summary Readiness probe
// @Description Checks every storage dependency
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /ready [get]
func (h *systemHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.checks[name].HealthCheck(ctx); err != nil {
			logger.Warn().Err(err).Str("dependency", name).Msg("Readiness check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unready",
				"error":  fmt.Sprintf("%s unavailable", name),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": h.now().UTC(),
	})
}

// @Summary Welcome
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /welcome [get]
func (h *systemHandler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":     fmt.Sprintf("Welcome to Jucai Fund, visitor from %s", c.ClientIP()),
		"system_time": h.now().UTC(),
	})
}

func notFoundRoute(c *gin.Context) *errors.AppError {
	return errors.NewNotFoundError("route", c.Request.Method+" "+c.Request.URL.Path)
}
