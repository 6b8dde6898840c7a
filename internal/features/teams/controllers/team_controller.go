package teams_controllers

import (
	"log/slog"
	"net/http"

	teams_dto "pocketprc/internal/features/teams/dto"
	teams_services "pocketprc/internal/features/teams/services"
	users_middleware "pocketprc/internal/features/users/middleware"
	users_models "pocketprc/internal/features/users/models"
	"pocketprc/internal/util/api_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TeamController struct {
	teamService       *teams_services.TeamService
	membershipService *teams_services.MembershipService
	inviteService     *teams_services.InviteService
	logger            *slog.Logger
}

func (c *TeamController) RegisterRoutes(router *gin.RouterGroup) {
	teams := router.Group("/teams")

	teams.GET("", c.ListTeams)
	teams.POST("", c.CreateTeam)
	teams.GET("/:id", c.GetTeam)
	teams.PUT("/:id", c.UpdateTeam)
	teams.DELETE("/:id", c.DeleteTeam)

	teams.POST("/:id/invite", c.CreateInvite)
	teams.GET("/:id/invites", c.ListInvites)
	teams.DELETE("/:id/invites/:inviteId", c.RevokeInvite)

	teams.GET("/:id/members", c.ListMembers)
	teams.DELETE("/:id/members/:memberId", c.RemoveMember)
	teams.PUT("/:id/members/:memberId/role", c.ChangeMemberRole)
	teams.POST("/:id/transfer-ownership", c.TransferOwnership)
}

// ListTeams
// @Summary List teams
// @Description Super admins see every team, everyone else sees their own
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Success 200 {object} teams_dto.ListTeamsResponseDTO
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /teams [get]
func (c *TeamController) ListTeams(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	response, err := c.teamService.ListTeams(user)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// CreateTeam
// @Summary Create team
// @Description The creator becomes the owner unless they are a super admin
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body teams_dto.CreateTeamRequestDTO true "Team data"
// @Success 201 {object} teams_dto.TeamEnvelopeDTO
// @Failure 400 {object} map[string]string "Bad request"
// @Router /teams [post]
func (c *TeamController) CreateTeam(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request teams_dto.CreateTeamRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Team name is required"})
		return
	}

	team, err := c.teamService.CreateTeam(&request, user)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, teams_dto.TeamEnvelopeDTO{Team: team})
}

// GetTeam
// @Summary Get team
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Success 200 {object} teams_dto.TeamEnvelopeDTO
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not found"
// @Router /teams/{id} [get]
func (c *TeamController) GetTeam(ctx *gin.Context) {
	user, teamID, ok := c.getUserAndTeamID(ctx)
	if !ok {
		return
	}

	team, err := c.teamService.GetTeam(teamID, user)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, teams_dto.TeamEnvelopeDTO{Team: team})
}

// UpdateTeam
// @Summary Update team
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param request body teams_dto.UpdateTeamRequestDTO true "Fields to change"
// @Success 200 {object} teams_dto.TeamEnvelopeDTO
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /teams/{id} [put]
func (c *TeamController) UpdateTeam(ctx *gin.Context) {
	user, teamID, ok := c.getUserAndTeamID(ctx)
	if !ok {
		return
	}

	var request teams_dto.UpdateTeamRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	team, err := c.teamService.UpdateTeam(teamID, &request, user)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, teams_dto.TeamEnvelopeDTO{Team: team})
}

// DeleteTeam
// @Summary Delete team
// @Description Members become team-less agents and team checklists are detached
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Success 200 {object} teams_dto.MessageResponseDTO
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not found"
// @Router /teams/{id} [delete]
func (c *TeamController) DeleteTeam(ctx *gin.Context) {
	user, teamID, ok := c.getUserAndTeamID(ctx)
	if !ok {
		return
	}

	if err := c.teamService.DeleteTeam(teamID, user); err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, teams_dto.MessageResponseDTO{Message: "Team deleted successfully"})
}

// CreateInvite
// @Summary Invite to team
// @Description Creates a 7 day invite and emails the link
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param request body teams_dto.CreateInviteRequestDTO true "Invite data"
// @Success 201 {object} teams_dto.CreateInviteResponseDTO
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /teams/{id}/invite [post]
func (c *TeamController) CreateInvite(ctx *gin.Context) {
	user, teamID, ok := c.getUserAndTeamID(ctx)
	if !ok {
		return
	}

	var request teams_dto.CreateInviteRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
		return
	}

	invite, err := c.inviteService.CreateInvite(teamID, &request, user)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, teams_dto.CreateInviteResponseDTO{Invite: invite})
}

// ListInvites
// @Summary List pending invites
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Success 200 {object} teams_dto.ListInvitesResponseDTO
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /teams/{id}/invites [get]
func (c *TeamController) ListInvites(ctx *gin.Context) {
	user, teamID, ok := c.getUserAndTeamID(ctx)
	if !ok {
		return
	}

	response, err := c.inviteService.GetPendingInvites(teamID, user)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// RevokeInvite
// @Summary Revoke pending invite
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param inviteId path string true "Invite ID"
// @Success 200 {object} teams_dto.MessageResponseDTO
// @Failure 404 {object} map[string]string "Not found"
// @Router /teams/{id}/invites/{inviteId} [delete]
func (c *TeamController) RevokeInvite(ctx *gin.Context) {
	user, teamID, ok := c.getUserAndTeamID(ctx)
	if !ok {
		return
	}

	inviteID, err := uuid.Parse(ctx.Param("inviteId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invite ID"})
		return
	}

	if err := c.inviteService.RevokeInvite(teamID, inviteID, user); err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, teams_dto.MessageResponseDTO{Message: "Invite revoked"})
}

// ListMembers
// @Summary List team members
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Success 200 {object} teams_dto.ListMembersResponseDTO
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /teams/{id}/members [get]
func (c *TeamController) ListMembers(ctx *gin.Context) {
	user, teamID, ok := c.getUserAndTeamID(ctx)
	if !ok {
		return
	}

	response, err := c.membershipService.GetMembers(teamID, user)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// RemoveMember
// @Summary Remove team member
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param memberId path string true "Member ID"
// @Success 200 {object} teams_dto.MessageResponseDTO
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not found"
// @Router /teams/{id}/members/{memberId} [delete]
func (c *TeamController) RemoveMember(ctx *gin.Context) {
	user, teamID, ok := c.getUserAndTeamID(ctx)
	if !ok {
		return
	}

	memberID, err := uuid.Parse(ctx.Param("memberId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	if err := c.membershipService.RemoveMember(teamID, memberID, user); err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, teams_dto.MessageResponseDTO{Message: "Member removed from team"})
}

// ChangeMemberRole
// @Summary Change member role
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param memberId path string true "Member ID"
// @Param request body teams_dto.ChangeMemberRoleRequestDTO true "New role"
// @Success 200 {object} teams_dto.MemberEnvelopeDTO
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /teams/{id}/members/{memberId}/role [put]
func (c *TeamController) ChangeMemberRole(ctx *gin.Context) {
	user, teamID, ok := c.getUserAndTeamID(ctx)
	if !ok {
		return
	}

	memberID, err := uuid.Parse(ctx.Param("memberId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	var request teams_dto.ChangeMemberRoleRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	member, err := c.membershipService.ChangeMemberRole(teamID, memberID, request.Role, user)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, teams_dto.MemberEnvelopeDTO{User: member})
}

// TransferOwnership
// @Summary Transfer team ownership
// @Description The caller becomes a team lead
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param request body teams_dto.TransferOwnershipRequestDTO true "New owner"
// @Success 200 {object} teams_dto.MessageResponseDTO
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not found"
// @Router /teams/{id}/transfer-ownership [post]
func (c *TeamController) TransferOwnership(ctx *gin.Context) {
	user, teamID, ok := c.getUserAndTeamID(ctx)
	if !ok {
		return
	}

	var request teams_dto.TransferOwnershipRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "newOwnerId is required"})
		return
	}

	if err := c.membershipService.TransferOwnership(teamID, request.NewOwnerID, user); err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, teams_dto.MessageResponseDTO{Message: "Ownership transferred successfully"})
}

func (c *TeamController) getUserAndTeamID(ctx *gin.Context) (*users_models.User, uuid.UUID, bool) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, uuid.Nil, false
	}

	teamID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return nil, uuid.Nil, false
	}

	return user, teamID, true
}
