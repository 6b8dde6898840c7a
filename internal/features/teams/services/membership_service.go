package teams_services

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"pocketprc/internal/features/activity_logs"
	teams_dto "pocketprc/internal/features/teams/dto"
	teams_repositories "pocketprc/internal/features/teams/repositories"
	users_enums "pocketprc/internal/features/users/enums"
	users_models "pocketprc/internal/features/users/models"
	users_repositories "pocketprc/internal/features/users/repositories"
	"pocketprc/internal/storage"
	"pocketprc/internal/util/api_errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errMemberNotFound = api_errors.NotFound("Member not found in this team")

type MembershipService struct {
	teamRepository     *teams_repositories.TeamRepository
	userRepository     *users_repositories.UserRepository
	activityLogService *activity_logs.ActivityLogService
	logger             *slog.Logger
}

// GetMembers lists members by role rank, highest first, then by name.
func (s *MembershipService) GetMembers(
	teamID uuid.UUID,
	user *users_models.User,
) (*teams_dto.ListMembersResponseDTO, error) {
	if !user.CanViewTeam(teamID) {
		return nil, errAccessDenied
	}

	team, err := s.teamRepository.GetTeamByID(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	if team == nil {
		return nil, errTeamNotFound
	}

	users, err := s.userRepository.GetTeamMembers(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}

	sort.SliceStable(users, func(i, j int) bool {
		if users[i].Role.Rank() != users[j].Role.Rank() {
			return users[i].Role.Rank() > users[j].Role.Rank()
		}

		return strings.ToLower(users[i].Name) < strings.ToLower(users[j].Name)
	})

	members := make([]*teams_dto.MemberDTO, 0, len(users))
	for _, member := range users {
		members = append(members, toMemberDTO(member))
	}

	return &teams_dto.ListMembersResponseDTO{Members: members}, nil
}

func (s *MembershipService) RemoveMember(teamID, memberID uuid.UUID, actor *users_models.User) error {
	if !actor.CanManageTeam(teamID) {
		return errAccessDenied
	}

	if actor.ID == memberID {
		return api_errors.Validation("Cannot remove yourself from the team")
	}

	member, err := s.getTeamMember(teamID, memberID)
	if err != nil {
		return err
	}

	if member.Role == users_enums.UserRoleOwner {
		return api_errors.Validation("Cannot remove the team owner. Transfer ownership first")
	}

	if actor.Role == users_enums.UserRoleTeamLead && member.Role == users_enums.UserRoleTeamLead {
		return api_errors.Forbidden("Team leads cannot remove other team leads")
	}

	if err := s.userRepository.UpdateUserTeamAndRole(nil, memberID, nil, users_enums.UserRoleAgent); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	s.activityLogService.Write(&activity_logs.ActivityLogEntry{
		UserID: &actor.ID,
		TeamID: &teamID,
		Action: activity_logs.ActionMemberRemoved,
		Details: map[string]any{
			"memberId":    memberID.String(),
			"memberEmail": member.Email,
		},
	})

	return nil
}

func (s *MembershipService) ChangeMemberRole(
	teamID, memberID uuid.UUID,
	newRole users_enums.UserRole,
	actor *users_models.User,
) (*teams_dto.MemberDTO, error) {
	if !actor.CanManageTeam(teamID) {
		return nil, errAccessDenied
	}

	if actor.ID == memberID {
		return nil, api_errors.Validation("Cannot change your own role")
	}

	if !newRole.IsTeamRole() {
		return nil, api_errors.Validation("Invalid role")
	}

	if newRole == users_enums.UserRoleOwner {
		return nil, api_errors.Validation("Use transfer ownership to assign a new owner")
	}

	member, err := s.getTeamMember(teamID, memberID)
	if err != nil {
		return nil, err
	}

	if !actor.IsSuperAdmin() {
		if member.Role == users_enums.UserRoleOwner {
			return nil, api_errors.Forbidden("Cannot change the role of the team owner")
		}

		if actor.Role == users_enums.UserRoleTeamLead && member.Role == users_enums.UserRoleTeamLead {
			return nil, api_errors.Forbidden("Team leads cannot change the role of other team leads")
		}

		if newRole.Outranks(actor.Role) {
			return nil, api_errors.Forbidden("Cannot assign a role higher than your own")
		}
	}

	if member.Role == users_enums.UserRoleOwner {
		return nil, api_errors.Validation("Use transfer ownership to change the owner's role")
	}

	if err := s.userRepository.UpdateUserTeamAndRole(nil, memberID, &teamID, newRole); err != nil {
		return nil, fmt.Errorf("failed to change role: %w", err)
	}

	s.activityLogService.Write(&activity_logs.ActivityLogEntry{
		UserID: &actor.ID,
		TeamID: &teamID,
		Action: activity_logs.ActionRoleChanged,
		Details: map[string]any{
			"memberId": memberID.String(),
			"oldRole":  string(member.Role),
			"newRole":  string(newRole),
		},
	})

	member.Role = newRole

	return toMemberDTO(member), nil
}

// TransferOwnership makes newOwnerID the owner and demotes the caller to
// team lead atomically.
func (s *MembershipService) TransferOwnership(
	teamID, newOwnerID uuid.UUID,
	actor *users_models.User,
) error {
	if !actor.IsOwnerOfTeam(teamID) {
		return api_errors.Forbidden("Only the team owner can transfer ownership")
	}

	if actor.ID == newOwnerID {
		return api_errors.Validation("You already own this team")
	}

	err := storage.GetDb().Transaction(func(tx *gorm.DB) error {
		newOwner, err := s.userRepository.GetUserByIDForUpdate(tx, newOwnerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errMemberNotFound
			}

			return fmt.Errorf("failed to get member: %w", err)
		}

		if !newOwner.IsMemberOfTeam(teamID) || !newOwner.IsActive {
			return errMemberNotFound
		}

		if err := s.userRepository.UpdateUserTeamAndRole(tx, newOwnerID, &teamID, users_enums.UserRoleOwner); err != nil {
			return err
		}

		return s.userRepository.UpdateUserTeamAndRole(tx, actor.ID, &teamID, users_enums.UserRoleTeamLead)
	})
	if err != nil {
		return err
	}

	s.activityLogService.Write(&activity_logs.ActivityLogEntry{
		UserID:  &actor.ID,
		TeamID:  &teamID,
		Action:  activity_logs.ActionOwnerChanged,
		Details: map[string]any{"newOwnerId": newOwnerID.String()},
	})

	return nil
}

func (s *MembershipService) getTeamMember(teamID, memberID uuid.UUID) (*users_models.User, error) {
	member, err := s.userRepository.GetUserByID(memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errMemberNotFound
		}

		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	if member == nil || !member.IsMemberOfTeam(teamID) {
		return nil, errMemberNotFound
	}

	return member, nil
}

func toMemberDTO(user *users_models.User) *teams_dto.MemberDTO {
	return &teams_dto.MemberDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		AvatarURL: user.AvatarURL,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}
