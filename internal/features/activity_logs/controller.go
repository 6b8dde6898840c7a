package activity_logs

import (
	"log/slog"
	"net/http"

	users_enums "pocketprc/internal/features/users/enums"
	users_middleware "pocketprc/internal/features/users/middleware"
	"pocketprc/internal/util/api_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ActivityLogController struct {
	activityLogService *ActivityLogService
	logger             *slog.Logger
}

func (c *ActivityLogController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/activity/users/:userId", c.GetUserActivity)

	admin := router.Group("/admin", users_middleware.RequireMinimumRole(users_enums.UserRoleSuperAdmin))
	admin.GET("/activity", c.GetGlobalActivity)
}

// GetGlobalActivity
// @Summary Get global activity feed (super admin only)
// @Description Every recorded action across all teams, newest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Limit number of results" default(100)
// @Param offset query int false "Offset for pagination" default(0)
// @Param beforeDate query string false "Only entries created before this date (RFC3339 format)" format(date-time)
// @Success 200 {object} GetActivityResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /admin/activity [get]
func (c *ActivityLogController) GetGlobalActivity(ctx *gin.Context) {
	request := &GetActivityRequest{}
	if err := ctx.ShouldBindQuery(request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	response, err := c.activityLogService.GetGlobalActivity(request)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// GetUserActivity
// @Summary Get user activity
// @Description Actions performed by a user. Users can read their own feed, super admins any feed
// @Tags activity
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Param limit query int false "Limit number of results" default(100)
// @Param offset query int false "Offset for pagination" default(0)
// @Param beforeDate query string false "Only entries created before this date (RFC3339 format)" format(date-time)
// @Success 200 {object} GetActivityResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /activity/users/{userId} [get]
func (c *ActivityLogController) GetUserActivity(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	targetUserID, err := uuid.Parse(ctx.Param("userId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	request := &GetActivityRequest{}
	if err := ctx.ShouldBindQuery(request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	response, err := c.activityLogService.GetUserActivity(targetUserID, user, request)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}
