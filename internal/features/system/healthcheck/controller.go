package system_healthcheck

import (
	"errors"
	"log/slog"
	"net/http"

	"pocketprc/internal/downdetect"

	"github.com/gin-gonic/gin"
)

type HealthcheckController struct {
	downdetectService *downdetect.DowndetectService
	logger            *slog.Logger
}

type HealthResponseDTO struct {
	Status     string `json:"status"`
	Dependency string `json:"dependency,omitempty"`
	Error      string `json:"error,omitempty"`
}

func (c *HealthcheckController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", c.CheckHealth)
}

// CheckHealth
// @Summary Health check
// @Description Checks Postgres, Valkey and object storage
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponseDTO
// @Failure 503 {object} HealthResponseDTO
// @Router /health [get]
func (c *HealthcheckController) CheckHealth(ctx *gin.Context) {
	err := c.downdetectService.IsAvailable(ctx.Request.Context())
	if err == nil {
		ctx.JSON(http.StatusOK, HealthResponseDTO{Status: "ok"})
		return
	}

	c.logger.Warn("Health check failed", "error", err)

	response := HealthResponseDTO{Status: "unavailable", Error: "Service unavailable"}

	var unavailable *downdetect.UnavailableError
	if errors.As(err, &unavailable) {
		response.Dependency = unavailable.Dependency
	}

	ctx.JSON(http.StatusServiceUnavailable, response)
}
