package users_controllers

import (
	"log/slog"
	"net/http"

	users_dto "pocketprc/internal/features/users/dto"
	users_enums "pocketprc/internal/features/users/enums"
	users_middleware "pocketprc/internal/features/users/middleware"
	users_services "pocketprc/internal/features/users/services"
	"pocketprc/internal/util/api_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ManagementController struct {
	managementService *users_services.UserManagementService
	logger            *slog.Logger
}

func (c *ManagementController) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin", users_middleware.RequireMinimumRole(users_enums.UserRoleSuperAdmin))

	admin.GET("/users", c.ListUsers)
	admin.PUT("/users/:id", c.UpdateUser)
	admin.POST("/users/:id/reset-password", c.ResetUserPassword)
}

// ListUsers
// @Summary List users
// @Description All users with their team name, newest first (super admin only)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of items per page" default(100)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} users_dto.ListUsersResponseDTO
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /admin/users [get]
func (c *ManagementController) ListUsers(ctx *gin.Context) {
	request := &users_dto.ListUsersRequestDTO{}
	if err := ctx.ShouldBindQuery(request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	response, err := c.managementService.ListUsers(request)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// UpdateUser
// @Summary Update user role, status or team
// @Description An empty teamId removes the user from their team (super admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body users_dto.UpdateUserRequestDTO true "Fields to change"
// @Success 200 {object} users_dto.UserProfileResponseDTO
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not found"
// @Router /admin/users/{id} [put]
func (c *ManagementController) UpdateUser(ctx *gin.Context) {
	currentUser, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var request users_dto.UpdateUserRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	profile, err := c.managementService.UpdateUser(userID, &request, currentUser)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

// ResetUserPassword
// @Summary Reset a user's password
// @Description Sets a temporary password, optionally emails it, and returns it once (super admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body users_dto.ResetUserPasswordRequestDTO false "Delivery options"
// @Success 200 {object} users_dto.ResetUserPasswordResponseDTO
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Not found"
// @Router /admin/users/{id}/reset-password [post]
func (c *ManagementController) ResetUserPassword(ctx *gin.Context) {
	currentUser, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var request users_dto.ResetUserPasswordRequestDTO
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&request); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
	}

	response, err := c.managementService.ResetUserPassword(userID, &request, currentUser)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}
