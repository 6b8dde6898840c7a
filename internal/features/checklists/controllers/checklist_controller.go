package checklists_controllers

import (
	"log/slog"
	"net/http"

	checklists_dto "pocketprc/internal/features/checklists/dto"
	checklists_services "pocketprc/internal/features/checklists/services"
	users_enums "pocketprc/internal/features/users/enums"
	users_middleware "pocketprc/internal/features/users/middleware"
	users_models "pocketprc/internal/features/users/models"
	"pocketprc/internal/util/api_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ChecklistController struct {
	checklistService *checklists_services.ChecklistService
	logger           *slog.Logger
}

func (c *ChecklistController) RegisterRoutes(router *gin.RouterGroup) {
	checklists := router.Group("/checklists")

	checklists.GET("", c.ListChecklists)
	checklists.POST("", c.CreateChecklist)
	checklists.GET("/:id", c.GetChecklist)
	checklists.PUT("/:id", c.UpdateChecklist)
	checklists.DELETE("/:id", c.ArchiveChecklist)
	checklists.PUT("/:id/assign", users_middleware.RequireMinimumRole(users_enums.UserRoleTeamLead), c.AssignChecklist)
	checklists.PUT("/:id/status", c.UpdateStatus)
	checklists.GET("/:id/activity", c.GetActivity)
}

// ListChecklists
// @Summary List checklists
// @Description Checklists visible to the caller, most recently updated first. Archived ones only with status=archived
// @Tags checklists
// @Produce json
// @Security BearerAuth
// @Param status query string false "draft, in_progress, completed or archived"
// @Param limit query int false "Page size" default(100)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} checklists_dto.ListChecklistsResponseDTO
// @Failure 400 {object} map[string]string "Invalid status filter"
// @Router /checklists [get]
func (c *ChecklistController) ListChecklists(ctx *gin.Context) {
	user, ok := getUser(ctx)
	if !ok {
		return
	}

	request := &checklists_dto.ListChecklistsRequestDTO{}
	if err := ctx.ShouldBindQuery(request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	response, err := c.checklistService.ListChecklists(user, request)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// CreateChecklist
// @Summary Create checklist
// @Description Missing formData is filled with the blank checklist
// @Tags checklists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body checklists_dto.CreateChecklistRequestDTO true "Checklist"
// @Success 201 {object} checklists_dto.ChecklistEnvelopeDTO
// @Failure 400 {object} map[string]string "Bad request"
// @Router /checklists [post]
func (c *ChecklistController) CreateChecklist(ctx *gin.Context) {
	user, ok := getUser(ctx)
	if !ok {
		return
	}

	var request checklists_dto.CreateChecklistRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Property address is required"})
		return
	}

	checklist, err := c.checklistService.CreateChecklist(user, &request)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, checklists_dto.ChecklistEnvelopeDTO{Checklist: checklist})
}

// GetChecklist
// @Summary Get checklist
// @Description Includes attachments and the PDF filename
// @Tags checklists
// @Produce json
// @Security BearerAuth
// @Param id path string true "Checklist ID"
// @Success 200 {object} checklists_dto.ChecklistEnvelopeDTO
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Checklist not found"
// @Router /checklists/{id} [get]
func (c *ChecklistController) GetChecklist(ctx *gin.Context) {
	user, checklistID, ok := getUserAndChecklistID(ctx)
	if !ok {
		return
	}

	checklist, err := c.checklistService.GetChecklist(user, checklistID)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, checklists_dto.ChecklistEnvelopeDTO{Checklist: checklist})
}

// UpdateChecklist
// @Summary Update checklist
// @Description Partial update. A stale version yields 409
// @Tags checklists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Checklist ID"
// @Param request body checklists_dto.UpdateChecklistRequestDTO true "Fields to change"
// @Success 200 {object} checklists_dto.ChecklistEnvelopeDTO
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 409 {object} map[string]string "Version conflict"
// @Router /checklists/{id} [put]
func (c *ChecklistController) UpdateChecklist(ctx *gin.Context) {
	user, checklistID, ok := getUserAndChecklistID(ctx)
	if !ok {
		return
	}

	var request checklists_dto.UpdateChecklistRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	checklist, err := c.checklistService.UpdateChecklist(user, checklistID, &request)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, checklists_dto.ChecklistEnvelopeDTO{Checklist: checklist})
}

// ArchiveChecklist
// @Summary Archive checklist
// @Tags checklists
// @Produce json
// @Security BearerAuth
// @Param id path string true "Checklist ID"
// @Success 200 {object} checklists_dto.MessageResponseDTO
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Checklist not found"
// @Router /checklists/{id} [delete]
func (c *ChecklistController) ArchiveChecklist(ctx *gin.Context) {
	user, checklistID, ok := getUserAndChecklistID(ctx)
	if !ok {
		return
	}

	if err := c.checklistService.ArchiveChecklist(user, checklistID); err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, checklists_dto.MessageResponseDTO{Message: "Checklist archived"})
}

// AssignChecklist
// @Summary Assign checklist
// @Description Null userId removes the assignee (team lead and above)
// @Tags checklists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Checklist ID"
// @Param request body checklists_dto.AssignChecklistRequestDTO true "Assignee"
// @Success 200 {object} checklists_dto.ChecklistEnvelopeDTO
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 403 {object} map[string]string "Access denied"
// @Router /checklists/{id}/assign [put]
func (c *ChecklistController) AssignChecklist(ctx *gin.Context) {
	user, checklistID, ok := getUserAndChecklistID(ctx)
	if !ok {
		return
	}

	var request checklists_dto.AssignChecklistRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignee"})
		return
	}

	if !request.HasUserID() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	checklist, err := c.checklistService.AssignChecklist(user, checklistID, &request)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, checklists_dto.ChecklistEnvelopeDTO{Checklist: checklist})
}

// UpdateStatus
// @Summary Change checklist status
// @Tags checklists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Checklist ID"
// @Param request body checklists_dto.UpdateStatusRequestDTO true "New status"
// @Success 200 {object} checklists_dto.ChecklistEnvelopeDTO
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 403 {object} map[string]string "Access denied"
// @Router /checklists/{id}/status [put]
func (c *ChecklistController) UpdateStatus(ctx *gin.Context) {
	user, checklistID, ok := getUserAndChecklistID(ctx)
	if !ok {
		return
	}

	var request checklists_dto.UpdateStatusRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	checklist, err := c.checklistService.UpdateStatus(user, checklistID, request.Status)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, checklists_dto.ChecklistEnvelopeDTO{Checklist: checklist})
}

// GetActivity
// @Summary Checklist activity
// @Tags checklists
// @Produce json
// @Security BearerAuth
// @Param id path string true "Checklist ID"
// @Param limit query int false "Page size" default(100)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} checklists_dto.ChecklistActivityResponseDTO
// @Failure 403 {object} map[string]string "Access denied"
// @Router /checklists/{id}/activity [get]
func (c *ChecklistController) GetActivity(ctx *gin.Context) {
	user, checklistID, ok := getUserAndChecklistID(ctx)
	if !ok {
		return
	}

	request := &checklists_dto.GetChecklistActivityRequestDTO{}
	if err := ctx.ShouldBindQuery(request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	response, err := c.checklistService.GetChecklistActivity(user, checklistID, request)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

func getUser(ctx *gin.Context) (*users_models.User, bool) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	return user, true
}

func getUserAndChecklistID(ctx *gin.Context) (*users_models.User, uuid.UUID, bool) {
	user, ok := getUser(ctx)
	if !ok {
		return nil, uuid.Nil, false
	}

	checklistID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid checklist ID"})
		return nil, uuid.Nil, false
	}

	return user, checklistID, true
}
