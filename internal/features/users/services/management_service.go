package users_services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"pocketprc/internal/features/mail"
	users_dto "pocketprc/internal/features/users/dto"
	users_interfaces "pocketprc/internal/features/users/interfaces"
	users_models "pocketprc/internal/features/users/models"
	users_repositories "pocketprc/internal/features/users/repositories"
	"pocketprc/internal/util/api_errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultUsersLimit = 100
	maxUsersLimit     = 1000
)

type UserManagementService struct {
	userRepository    *users_repositories.UserRepository
	mailService       *mail.MailService
	activityLogWriter users_interfaces.ActivityLogWriter
	logger            *slog.Logger
}

func (s *UserManagementService) SetActivityLogWriter(writer users_interfaces.ActivityLogWriter) {
	s.activityLogWriter = writer
}

func (s *UserManagementService) ListUsers(request *users_dto.ListUsersRequestDTO) (*users_dto.ListUsersResponseDTO, error) {
	limit := request.Limit
	if limit <= 0 {
		limit = defaultUsersLimit
	}
	limit = min(limit, maxUsersLimit)
	offset := max(request.Offset, 0)

	users, total, err := s.userRepository.GetUsersWithTeams(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return &users_dto.ListUsersResponseDTO{
		Users:  users,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

func (s *UserManagementService) UpdateUser(
	targetID uuid.UUID,
	request *users_dto.UpdateUserRequestDTO,
	actor *users_models.User,
) (*users_dto.UserProfileResponseDTO, error) {
	if targetID == actor.ID && request.Role != nil {
		return nil, api_errors.Validation("Cannot change your own role")
	}

	if targetID == actor.ID && request.IsActive != nil && !*request.IsActive {
		return nil, api_errors.Validation("Cannot deactivate your own account")
	}

	if targetID == actor.ID && request.TeamID != nil {
		return nil, api_errors.Validation("Cannot change your own team")
	}

	if request.Role != nil && !request.Role.IsValid() {
		return nil, api_errors.Validation("Invalid role")
	}

	target, err := s.userRepository.GetUserByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, api_errors.NotFound("User not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	fields := map[string]any{}
	details := map[string]any{"targetUserId": target.ID.String()}

	if request.Role != nil {
		fields["role"] = *request.Role
		details["role"] = map[string]any{"from": string(target.Role), "to": string(*request.Role)}
	}

	if request.IsActive != nil {
		fields["is_active"] = *request.IsActive
		details["isActive"] = *request.IsActive
	}

	if request.TeamID != nil {
		teamIDStr := strings.TrimSpace(*request.TeamID)
		if teamIDStr == "" {
			fields["team_id"] = nil
			details["teamId"] = nil
		} else {
			teamID, err := uuid.Parse(teamIDStr)
			if err != nil {
				return nil, api_errors.Validation("Invalid team ID")
			}

			exists, err := s.userRepository.TeamExists(teamID)
			if err != nil {
				return nil, fmt.Errorf("failed to check team: %w", err)
			}

			if !exists {
				return nil, api_errors.Validation("Team not found")
			}

			fields["team_id"] = teamID
			details["teamId"] = teamID.String()
		}
	}

	if len(fields) == 0 {
		return nil, api_errors.Validation("No fields to update")
	}

	if err := s.userRepository.UpdateUserFields(nil, target.ID, fields); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.activityLogWriter.WriteActivity("user_updated", &actor.ID, nil, details)

	updated, err := s.userRepository.GetUserByID(target.ID)
	if err != nil {
		return nil, err
	}

	return &users_dto.UserProfileResponseDTO{
		ID:        updated.ID,
		Name:      updated.Name,
		Email:     updated.Email,
		Role:      updated.Role,
		TeamID:    updated.TeamID,
		AvatarURL: updated.AvatarURL,
		IsActive:  updated.IsActive,
		CreatedAt: updated.CreatedAt,
	}, nil
}

// ResetUserPassword replaces the password with a short temporary one that is
// shown to the admin exactly once.
func (s *UserManagementService) ResetUserPassword(
	targetID uuid.UUID,
	request *users_dto.ResetUserPasswordRequestDTO,
	actor *users_models.User,
) (*users_dto.ResetUserPasswordResponseDTO, error) {
	target, err := s.userRepository.GetUserByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, api_errors.NotFound("User not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	temporaryPassword, err := GenerateRandomToken(4)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(temporaryPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepository.UpdateUserPassword(nil, target.ID, string(hashedPassword)); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	emailQueued := false
	if request.SendEmail {
		emailQueued = s.mailService.EnqueueOrLog(&mail.Message{
			To:      target.Email,
			Subject: "Your Pocket PRC password was reset",
			Text: fmt.Sprintf(
				"Hi %s,\n\nAn administrator reset your password. Your temporary password is:\n\n%s\n\n"+
					"Sign in and change it from your profile.",
				target.Name, temporaryPassword,
			),
		})
	}

	s.activityLogWriter.WriteActivity("admin_password_reset", &actor.ID, nil, map[string]any{
		"targetUserId": target.ID.String(),
		"emailQueued":  emailQueued,
	})

	return &users_dto.ResetUserPasswordResponseDTO{
		TemporaryPassword: temporaryPassword,
		EmailQueued:       emailQueued,
	}, nil
}
