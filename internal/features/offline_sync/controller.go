package offline_sync

import (
	"log/slog"
	"net/http"

	users_middleware "pocketprc/internal/features/users/middleware"
	"pocketprc/internal/util/api_errors"

	"github.com/gin-gonic/gin"
)

type SyncController struct {
	syncService *SyncService
	logger      *slog.Logger
}

func (c *SyncController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/sync/batch", c.SyncBatch)
}

// SyncBatch
// @Summary Apply offline changes
// @Description Applies up to 100 queued checklist actions. Each action gets its own result; a rejected action does not affect the others
// @Tags sync
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BatchRequestDTO true "Queued actions"
// @Success 200 {object} BatchResponseDTO
// @Failure 400 {object} map[string]string "Invalid batch"
// @Failure 429 {object} map[string]string "Rate limit exceeded"
// @Router /sync/batch [post]
func (c *SyncController) SyncBatch(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request BatchRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Actions array is required"})
		return
	}

	response, err := c.syncService.ProcessBatch(user, &request)
	if err != nil {
		if api_errors.IsKind(err, api_errors.KindTooManyRequests) {
			ctx.Header("Retry-After", "1")
		}

		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}
