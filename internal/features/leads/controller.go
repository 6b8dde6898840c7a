package leads

import (
	"log/slog"
	"net/http"

	users_middleware "pocketprc/internal/features/users/middleware"
	users_models "pocketprc/internal/features/users/models"
	"pocketprc/internal/util/api_errors"

	"github.com/gin-gonic/gin"
)

type LeadController struct {
	leadService *LeadService
	logger      *slog.Logger
}

func (c *LeadController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/leads/under-contract", c.SendUnderContractLead)
	router.POST("/leads/rate-request", c.SendRateRequest)
}

// SendUnderContractLead
// @Summary Send an under contract lead
// @Description Queues a lead summary to Mainland Title LLC
// @Tags leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendLeadRequestDTO true "Lead"
// @Success 200 {object} SendLeadResponseDTO
// @Failure 400 {object} map[string]string "senderName and propertyAddress are required"
// @Failure 403 {object} map[string]string "Access denied"
// @Router /leads/under-contract [post]
func (c *LeadController) SendUnderContractLead(ctx *gin.Context) {
	c.handle(ctx, c.leadService.SendUnderContractLead)
}

// SendRateRequest
// @Summary Send a rate comparison request
// @Description Queues a rate comparison request to Annie Mac Home Mortgage
// @Tags leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendLeadRequestDTO true "Lead"
// @Success 200 {object} SendLeadResponseDTO
// @Failure 400 {object} map[string]string "senderName and propertyAddress are required"
// @Failure 403 {object} map[string]string "Access denied"
// @Router /leads/rate-request [post]
func (c *LeadController) SendRateRequest(ctx *gin.Context) {
	c.handle(ctx, c.leadService.SendRateRequest)
}

func (c *LeadController) handle(
	ctx *gin.Context,
	send func(*users_models.User, *SendLeadRequestDTO) (*SendLeadResponseDTO, error),
) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request SendLeadRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errLeadFieldsRequired.Error()})
		return
	}

	response, err := send(user, &request)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}
