package teams_services

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"pocketprc/internal/features/activity_logs"
	teams_dto "pocketprc/internal/features/teams/dto"
	teams_interfaces "pocketprc/internal/features/teams/interfaces"
	teams_models "pocketprc/internal/features/teams/models"
	teams_repositories "pocketprc/internal/features/teams/repositories"
	users_enums "pocketprc/internal/features/users/enums"
	users_models "pocketprc/internal/features/users/models"
	users_repositories "pocketprc/internal/features/users/repositories"
	"pocketprc/internal/storage"
	"pocketprc/internal/util/api_errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	errTeamNotFound  = api_errors.NotFound("Team not found")
	errAccessDenied  = api_errors.Forbidden("Access denied")
	errAlreadyInTeam = api_errors.Validation("You already belong to a team")
)

type TeamService struct {
	teamRepository        *teams_repositories.TeamRepository
	inviteRepository      *teams_repositories.InviteRepository
	userRepository        *users_repositories.UserRepository
	activityLogService    *activity_logs.ActivityLogService
	teamDeletionListeners []teams_interfaces.TeamDeletionListener
	teamDeletedListeners  []teams_interfaces.TeamDeletedListener
	logger                *slog.Logger
}

func (s *TeamService) AddTeamDeletionListener(listener teams_interfaces.TeamDeletionListener) {
	s.teamDeletionListeners = append(s.teamDeletionListeners, listener)
}

func (s *TeamService) AddTeamDeletedListener(listener teams_interfaces.TeamDeletedListener) {
	s.teamDeletedListeners = append(s.teamDeletedListeners, listener)
}

func (s *TeamService) ListTeams(user *users_models.User) (*teams_dto.ListTeamsResponseDTO, error) {
	if user.IsSuperAdmin() {
		teams, err := s.teamRepository.GetAllTeamsWithCounts()
		if err != nil {
			return nil, fmt.Errorf("failed to list teams: %w", err)
		}

		return &teams_dto.ListTeamsResponseDTO{Teams: teams}, nil
	}

	teams := make([]*teams_dto.TeamResponseDTO, 0, 1)
	if user.TeamID == nil {
		return &teams_dto.ListTeamsResponseDTO{Teams: teams}, nil
	}

	team, err := s.teamRepository.GetTeamWithCounts(*user.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	if team != nil {
		teams = append(teams, team)
	}

	return &teams_dto.ListTeamsResponseDTO{Teams: teams}, nil
}

// CreateTeam makes the creator the team owner. Super admins create teams
// without joining them.
func (s *TeamService) CreateTeam(
	request *teams_dto.CreateTeamRequestDTO,
	creator *users_models.User,
) (*teams_dto.TeamResponseDTO, error) {
	name := strings.TrimSpace(request.Name)
	if name == "" {
		return nil, api_errors.Validation("Team name is required")
	}

	if !creator.IsSuperAdmin() && creator.TeamID != nil {
		return nil, errAlreadyInTeam
	}

	now := time.Now().UTC()
	team := &teams_models.Team{
		ID:            uuid.New(),
		Name:          name,
		BrokerageName: trimmedOrNil(request.BrokerageName),
		CreatedBy:     &creator.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if !creator.IsSuperAdmin() {
			// the request snapshot may predate a concurrent create
			lockedCreator, err := s.userRepository.GetUserByIDForUpdate(tx, creator.ID)
			if err != nil {
				return fmt.Errorf("failed to get creator: %w", err)
			}

			if lockedCreator.TeamID != nil {
				return errAlreadyInTeam
			}
		}

		if err := s.teamRepository.CreateTeam(tx, team); err != nil {
			return fmt.Errorf("failed to create team: %w", err)
		}

		if creator.IsSuperAdmin() {
			return nil
		}

		return s.userRepository.UpdateUserTeamAndRole(tx, creator.ID, &team.ID, users_enums.UserRoleOwner)
	})
	if err != nil {
		return nil, err
	}

	s.activityLogService.Write(&activity_logs.ActivityLogEntry{
		UserID:  &creator.ID,
		TeamID:  &team.ID,
		Action:  activity_logs.ActionTeamCreated,
		Details: map[string]any{"name": team.Name},
	})

	return s.teamRepository.GetTeamWithCounts(team.ID)
}

func (s *TeamService) GetTeam(teamID uuid.UUID, user *users_models.User) (*teams_dto.TeamResponseDTO, error) {
	if !user.CanViewTeam(teamID) {
		return nil, errAccessDenied
	}

	team, err := s.teamRepository.GetTeamWithCounts(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	if team == nil {
		return nil, errTeamNotFound
	}

	return team, nil
}

func (s *TeamService) UpdateTeam(
	teamID uuid.UUID,
	request *teams_dto.UpdateTeamRequestDTO,
	user *users_models.User,
) (*teams_dto.TeamResponseDTO, error) {
	if !user.CanManageTeam(teamID) {
		return nil, errAccessDenied
	}

	if err := s.ensureTeamExists(teamID); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if request.Name != nil {
		name := strings.TrimSpace(*request.Name)
		if name == "" {
			return nil, api_errors.Validation("Team name cannot be empty")
		}
		fields["name"] = name
	}

	if request.BrokerageName != nil {
		fields["brokerage_name"] = trimmedOrNil(request.BrokerageName)
	}

	if len(fields) > 0 {
		if err := s.teamRepository.UpdateTeam(teamID, fields); err != nil {
			return nil, fmt.Errorf("failed to update team: %w", err)
		}

		s.activityLogService.Write(&activity_logs.ActivityLogEntry{
			UserID:  &user.ID,
			TeamID:  &teamID,
			Action:  activity_logs.ActionTeamUpdated,
			Details: map[string]any{"fields": fieldNames(fields)},
		})
	}

	return s.teamRepository.GetTeamWithCounts(teamID)
}

// DeleteTeam detaches everything that points at the team and removes it in
// one transaction.
func (s *TeamService) DeleteTeam(teamID uuid.UUID, user *users_models.User) error {
	if !user.IsSuperAdmin() && !user.IsOwnerOfTeam(teamID) {
		return api_errors.Forbidden("Only the team owner can delete the team")
	}

	team, err := s.teamRepository.GetTeamByID(teamID)
	if err != nil {
		return fmt.Errorf("failed to get team: %w", err)
	}

	if team == nil {
		return errTeamNotFound
	}

	err = storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := s.userRepository.ResetTeamMembers(tx, teamID); err != nil {
			return fmt.Errorf("failed to reset team members: %w", err)
		}

		if err := s.inviteRepository.DeleteTeamInvites(tx, teamID); err != nil {
			return fmt.Errorf("failed to delete invites: %w", err)
		}

		for _, listener := range s.teamDeletionListeners {
			if err := listener.OnBeforeTeamDeletion(tx, teamID); err != nil {
				return fmt.Errorf("failed to delete team: %w", err)
			}
		}

		return s.teamRepository.DeleteTeam(tx, teamID)
	})
	if err != nil {
		return err
	}

	for _, listener := range s.teamDeletedListeners {
		listener.OnTeamDeleted(teamID)
	}

	s.activityLogService.Write(&activity_logs.ActivityLogEntry{
		UserID:  &user.ID,
		TeamID:  &teamID,
		Action:  activity_logs.ActionTeamDeleted,
		Details: map[string]any{"name": team.Name},
	})

	return nil
}

func (s *TeamService) GetAllTeamsWithCounts() ([]*teams_dto.TeamResponseDTO, error) {
	return s.teamRepository.GetAllTeamsWithCounts()
}

func (s *TeamService) ensureTeamExists(teamID uuid.UUID) error {
	team, err := s.teamRepository.GetTeamByID(teamID)
	if err != nil {
		return fmt.Errorf("failed to get team: %w", err)
	}

	if team == nil {
		return errTeamNotFound
	}

	return nil
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}

	return &trimmed
}

func fieldNames(fields map[string]any) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		if name != "updated_at" {
			names = append(names, name)
		}
	}

	return names
}
