package branding

import (
	"log/slog"
	"net/http"

	users_enums "pocketprc/internal/features/users/enums"
	users_middleware "pocketprc/internal/features/users/middleware"
	"pocketprc/internal/util/api_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BrandingController struct {
	brandingService *BrandingService
	logger          *slog.Logger
}

func (c *BrandingController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/branding", c.GetBranding)
}

func (c *BrandingController) RegisterProtectedRoutes(router *gin.RouterGroup) {
	router.PUT("/branding/teams/:teamId", c.UpdateTeamBranding)

	admin := router.Group("/admin/branding")
	admin.Use(users_middleware.RequireMinimumRole(users_enums.UserRoleSuperAdmin))
	admin.GET("", c.GetGlobalBranding)
	admin.PUT("", c.UpdateGlobalBranding)
}

// GetBranding
// @Summary Get branding
// @Description Team branding when the team has its own, otherwise the global branding
// @Tags branding
// @Produce json
// @Param teamId query string false "Team ID"
// @Success 200 {object} BrandingResponseDTO
// @Failure 400 {object} map[string]string "Invalid team ID"
// @Router /branding [get]
func (c *BrandingController) GetBranding(ctx *gin.Context) {
	var teamID *uuid.UUID
	if raw := ctx.Query("teamId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
			return
		}
		teamID = &parsed
	}

	branding, err := c.brandingService.GetBranding(teamID)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, BrandingResponseDTO{Branding: branding.ToDTO()})
}

// UpdateTeamBranding
// @Summary Update team branding
// @Description Owners and team leads of the team, or super admins. Creates the team branding on first save
// @Tags branding
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param teamId path string true "Team ID"
// @Param request body UpdateBrandingRequestDTO true "Branding fields"
// @Success 200 {object} BrandingResponseDTO
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Team not found"
// @Router /branding/teams/{teamId} [put]
func (c *BrandingController) UpdateTeamBranding(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	teamID, err := uuid.Parse(ctx.Param("teamId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	var request UpdateBrandingRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	branding, err := c.brandingService.UpdateTeamBranding(user, teamID, &request)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, BrandingResponseDTO{Branding: branding.ToDTO()})
}

// GetGlobalBranding
// @Summary Get global branding
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} BrandingResponseDTO
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Router /admin/branding [get]
func (c *BrandingController) GetGlobalBranding(ctx *gin.Context) {
	branding, err := c.brandingService.GetGlobalBranding()
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, BrandingResponseDTO{Branding: branding.ToDTO()})
}

// UpdateGlobalBranding
// @Summary Update global branding
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateBrandingRequestDTO true "Branding fields"
// @Success 200 {object} BrandingResponseDTO
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Router /admin/branding [put]
func (c *BrandingController) UpdateGlobalBranding(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request UpdateBrandingRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	branding, err := c.brandingService.UpdateGlobalBranding(user, &request)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, BrandingResponseDTO{Branding: branding.ToDTO()})
}
