package teams_services

import (
	"fmt"
	"log/slog"
	"time"

	"pocketprc/internal/config"
	"pocketprc/internal/features/activity_logs"
	"pocketprc/internal/features/mail"
	teams_dto "pocketprc/internal/features/teams/dto"
	teams_models "pocketprc/internal/features/teams/models"
	teams_repositories "pocketprc/internal/features/teams/repositories"
	users_dto "pocketprc/internal/features/users/dto"
	users_enums "pocketprc/internal/features/users/enums"
	users_models "pocketprc/internal/features/users/models"
	users_services "pocketprc/internal/features/users/services"
	"pocketprc/internal/util/api_errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	inviteTTL        = 7 * 24 * time.Hour
	inviteTokenBytes = 32
)

type InviteService struct {
	teamRepository     *teams_repositories.TeamRepository
	inviteRepository   *teams_repositories.InviteRepository
	activityLogService *activity_logs.ActivityLogService
	mailService        *mail.MailService
	logger             *slog.Logger
}

func (s *InviteService) CreateInvite(
	teamID uuid.UUID,
	request *teams_dto.CreateInviteRequestDTO,
	inviter *users_models.User,
) (*teams_dto.InviteResponseDTO, error) {
	if !inviter.CanManageTeam(teamID) {
		return nil, errAccessDenied
	}

	role := users_enums.UserRoleAgent
	if request.Role != nil && *request.Role != "" {
		role = *request.Role
	}

	if !role.IsTeamRole() {
		return nil, api_errors.Validation("Invalid role")
	}

	if !inviter.IsSuperAdmin() && role.Outranks(inviter.Role) {
		return nil, api_errors.Forbidden("Cannot invite with a role higher than your own")
	}

	team, err := s.teamRepository.GetTeamByID(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	if team == nil {
		return nil, errTeamNotFound
	}

	token, err := users_services.GenerateRandomToken(inviteTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite token: %w", err)
	}

	invite := &teams_models.TeamInvite{
		ID:        uuid.New(),
		TeamID:    teamID,
		Email:     users_services.NormalizeEmail(request.Email),
		InvitedBy: &inviter.ID,
		Role:      role,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(inviteTTL),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.inviteRepository.CreateInvite(invite); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	link := InviteLink(token)

	s.mailService.EnqueueOrLog(&mail.Message{
		To:      invite.Email,
		Subject: fmt.Sprintf("You've been invited to join %s on Pocket PRC", team.Name),
		Text: fmt.Sprintf(
			"%s invited you to join %s as %s.\n\nAccept the invitation: %s\n\nThis link expires in 7 days.",
			inviter.Name, team.Name, role.Label(), link,
		),
	})

	s.activityLogService.Write(&activity_logs.ActivityLogEntry{
		UserID:  &inviter.ID,
		TeamID:  &teamID,
		Action:  activity_logs.ActionInviteSent,
		Details: map[string]any{"email": invite.Email, "role": string(role)},
	})

	return &teams_dto.InviteResponseDTO{
		ID:        invite.ID,
		Email:     invite.Email,
		Role:      invite.Role,
		Token:     invite.Token,
		ExpiresAt: invite.ExpiresAt,
		Link:      link,
	}, nil
}

func (s *InviteService) GetPendingInvites(
	teamID uuid.UUID,
	user *users_models.User,
) (*teams_dto.ListInvitesResponseDTO, error) {
	if !user.CanManageTeam(teamID) {
		return nil, errAccessDenied
	}

	invites, err := s.inviteRepository.GetPendingInvites(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get invites: %w", err)
	}

	return &teams_dto.ListInvitesResponseDTO{Invites: invites}, nil
}

func (s *InviteService) RevokeInvite(teamID, inviteID uuid.UUID, user *users_models.User) error {
	if !user.CanManageTeam(teamID) {
		return errAccessDenied
	}

	deleted, err := s.inviteRepository.DeletePendingInvite(teamID, inviteID)
	if err != nil {
		return fmt.Errorf("failed to revoke invite: %w", err)
	}

	if !deleted {
		return api_errors.NotFound("Invite not found")
	}

	s.activityLogService.Write(&activity_logs.ActivityLogEntry{
		UserID:  &user.ID,
		TeamID:  &teamID,
		Action:  activity_logs.ActionInviteRevoked,
		Details: map[string]any{"inviteId": inviteID.String()},
	})

	return nil
}

// RedeemInvite returns nil, nil when the token is unknown, expired, already
// used or, for a non-empty email, addressed to another email.
func (s *InviteService) RedeemInvite(
	tx *gorm.DB,
	token string,
	email string,
	acceptedBy uuid.UUID,
) (*users_dto.InviteGrant, error) {
	if token == "" {
		return nil, nil
	}

	invite, err := s.inviteRepository.RedeemInvite(tx, token, email, acceptedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to redeem invite: %w", err)
	}

	if invite == nil {
		return nil, nil
	}

	return &users_dto.InviteGrant{
		InviteID: invite.ID,
		TeamID:   invite.TeamID,
		Role:     invite.Role,
	}, nil
}

func InviteLink(token string) string {
	return config.GetEnv().AppURL + "/register?invite=" + token
}
