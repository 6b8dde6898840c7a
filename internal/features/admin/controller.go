package admin

import (
	"log/slog"
	"net/http"

	users_enums "pocketprc/internal/features/users/enums"
	users_middleware "pocketprc/internal/features/users/middleware"
	"pocketprc/internal/util/api_errors"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	adminService *AdminService
	logger       *slog.Logger
}

func (c *AdminController) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin", users_middleware.RequireMinimumRole(users_enums.UserRoleSuperAdmin))

	admin.GET("/teams", c.GetTeams)
	admin.GET("/stats", c.GetStats)
}

// GetTeams
// @Summary List all teams
// @Description Every team with member and checklist counts (super admin only)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} TeamsResponseDTO
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Router /admin/teams [get]
func (c *AdminController) GetTeams(ctx *gin.Context) {
	response, err := c.adminService.GetTeams()
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// GetStats
// @Summary Platform statistics
// @Description Counts, recent activity and host usage (super admin only)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} StatsResponseDTO
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Router /admin/stats [get]
func (c *AdminController) GetStats(ctx *gin.Context) {
	response, err := c.adminService.GetStats(ctx.Request.Context())
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}
