package offline_sync

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pocketprc/internal/features/activity_logs"
	checklists_dto "pocketprc/internal/features/checklists/dto"
	checklists_enums "pocketprc/internal/features/checklists/enums"
	checklists_repositories "pocketprc/internal/features/checklists/repositories"
	checklists_services "pocketprc/internal/features/checklists/services"
	users_models "pocketprc/internal/features/users/models"
	"pocketprc/internal/storage"
	"pocketprc/internal/util/api_errors"
	"pocketprc/internal/util/rate_limit"
	time_parser "pocketprc/internal/util/time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxActionsPerBatch = 100

const notFoundOrDenied = "Not found or access denied"

type SyncService struct {
	checklistService    *checklists_services.ChecklistService
	checklistRepository *checklists_repositories.ChecklistRepository
	activityLogService  *activity_logs.ActivityLogService
	rateLimiter         *rate_limit.RateLimiter
	logger              *slog.Logger
}

func (s *SyncService) SetRateLimiter(rateLimiter *rate_limit.RateLimiter) {
	s.rateLimiter = rateLimiter
}

// ProcessBatch applies the actions in order inside one transaction. Every
// action runs under its own savepoint: a rejected action is rolled back
// alone and reported in its result, while an unexpected database error
// aborts the whole batch.
func (s *SyncService) ProcessBatch(
	user *users_models.User,
	request *BatchRequestDTO,
) (*BatchResponseDTO, error) {
	if len(request.Actions) == 0 {
		return nil, api_errors.Validation("Actions array is required")
	}

	if len(request.Actions) > MaxActionsPerBatch {
		return nil, api_errors.Validation(fmt.Sprintf("Maximum %d actions per batch", MaxActionsPerBatch))
	}

	if err := s.validateRateLimit(user); err != nil {
		return nil, err
	}

	results := make([]*SyncResultDTO, 0, len(request.Actions))

	err := storage.GetDb().Transaction(func(tx *gorm.DB) error {
		succeeded := 0

		for _, action := range request.Actions {
			if action == nil {
				results = append(results, &SyncResultDTO{Error: "Invalid action"})
				continue
			}

			result := &SyncResultDTO{ClientID: action.ClientID}

			err := tx.Transaction(func(itemTx *gorm.DB) error {
				return s.applyAction(itemTx, user, action, result)
			})
			if err != nil {
				var apiErr *api_errors.Error
				if !errors.As(err, &apiErr) {
					return err
				}

				result.Success = false
				result.ServerID = nil
				result.Data = nil
				result.Error = itemErrorMessage(apiErr)
			} else {
				result.Success = true
				succeeded++
			}

			results = append(results, result)
		}

		return s.activityLogService.WriteInTx(tx, &activity_logs.ActivityLogEntry{
			UserID: &user.ID,
			TeamID: user.TeamID,
			Action: activity_logs.ActionSynced,
			Details: map[string]any{
				"actions":   len(request.Actions),
				"succeeded": succeeded,
			},
		})
	})
	if err != nil {
		s.logger.Error("Batch sync failed",
			slog.String("userId", user.ID.String()),
			slog.Int("actions", len(request.Actions)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to process batch: %w", err)
	}

	return &BatchResponseDTO{Results: results}, nil
}

func (s *SyncService) applyAction(
	tx *gorm.DB,
	user *users_models.User,
	action *SyncActionDTO,
	result *SyncResultDTO,
) error {
	if action.Entity != EntityChecklist {
		return api_errors.Validation(fmt.Sprintf("Unsupported entity: %s", action.Entity))
	}

	switch action.Type {
	case ActionTypeCreate, ActionTypeUpdate, ActionTypeDelete:
	default:
		return api_errors.Validation(fmt.Sprintf("Unknown action type: %s", action.Type))
	}

	var data checklistData
	if len(action.Data) > 0 && string(action.Data) != "null" {
		if err := json.Unmarshal(action.Data, &data); err != nil {
			return api_errors.Validation("Invalid action data")
		}
	}

	details := syncDetails(action)

	switch action.Type {
	case ActionTypeCreate:
		return s.create(tx, user, &data, details, result)
	case ActionTypeUpdate:
		return s.update(tx, user, &data, details, result)
	default:
		return s.archive(tx, user, &data, details)
	}
}

func (s *SyncService) create(
	tx *gorm.DB,
	user *users_models.User,
	data *checklistData,
	details map[string]any,
	result *SyncResultDTO,
) error {
	request := &checklists_dto.CreateChecklistRequestDTO{
		FormData: data.FormData,
		Notes:    data.Notes,
	}
	if data.PropertyAddress != nil {
		request.PropertyAddress = *data.PropertyAddress
	}

	checklist, err := s.checklistService.CreateInTx(tx, user, request, details)
	if err != nil {
		return err
	}

	if data.Status != nil && *data.Status != string(checklists_enums.ChecklistStatusDraft) {
		status := checklists_enums.ChecklistStatus(*data.Status)
		if _, err := s.checklistService.UpdateStatusInTx(tx, user, checklist.ID, status, nil, details); err != nil {
			return err
		}
	}

	result.ServerID = &checklist.ID
	return s.attachData(tx, checklist.ID, result)
}

func (s *SyncService) update(
	tx *gorm.DB,
	user *users_models.User,
	data *checklistData,
	details map[string]any,
	result *SyncResultDTO,
) error {
	checklistID, err := parseChecklistID(data)
	if err != nil {
		return err
	}

	versionChecked := false
	if data.hasContentChanges() || data.Status == nil {
		request := &checklists_dto.UpdateChecklistRequestDTO{
			PropertyAddress: data.PropertyAddress,
			FormData:        data.FormData,
			Notes:           data.Notes,
			Version:         data.Version,
		}

		if _, err := s.checklistService.UpdateInTx(tx, user, checklistID, request, details); err != nil {
			return err
		}
		versionChecked = true
	}

	if data.Status != nil {
		expectedVersion := data.Version
		if versionChecked {
			expectedVersion = nil
		}

		status := checklists_enums.ChecklistStatus(*data.Status)
		_, err := s.checklistService.UpdateStatusInTx(tx, user, checklistID, status, expectedVersion, details)
		if err != nil {
			return err
		}
	}

	result.ServerID = &checklistID
	return s.attachData(tx, checklistID, result)
}

func (s *SyncService) archive(
	tx *gorm.DB,
	user *users_models.User,
	data *checklistData,
	details map[string]any,
) error {
	checklistID, err := parseChecklistID(data)
	if err != nil {
		return err
	}

	_, err = s.checklistService.ArchiveInTx(tx, user, checklistID, details)
	return err
}

func (s *SyncService) attachData(tx *gorm.DB, checklistID uuid.UUID, result *SyncResultDTO) error {
	checklist, err := s.checklistRepository.GetChecklistWithNames(tx, checklistID)
	if err != nil {
		return fmt.Errorf("failed to reload checklist: %w", err)
	}

	result.Data = checklist
	return nil
}

func (s *SyncService) validateRateLimit(user *users_models.User) error {
	result, err := s.rateLimiter.Check(user.ID.String())
	if err != nil {
		return fmt.Errorf("rate limit check failed: %w", err)
	}

	if !result.Allowed {
		return api_errors.TooManyRequests(
			fmt.Sprintf("Too many sync requests, retry after %d seconds", result.RetryAfterSec),
		)
	}

	return nil
}

func parseChecklistID(data *checklistData) (uuid.UUID, error) {
	if data.ID == nil || *data.ID == "" {
		return uuid.Nil, api_errors.Validation("Missing id")
	}

	checklistID, err := uuid.Parse(*data.ID)
	if err != nil {
		return uuid.Nil, checklists_services.ErrChecklistNotFound
	}

	return checklistID, nil
}

func syncDetails(action *SyncActionDTO) map[string]any {
	details := map[string]any{"source": "sync"}

	if clientUpdatedAt, ok := time_parser.ParseClientTimestamp(action.ClientUpdatedAt); ok {
		details["clientUpdatedAt"] = clientUpdatedAt.Format(time.RFC3339Nano)
	}

	return details
}

// itemErrorMessage hides whether a checklist exists from callers without
// access to it.
func itemErrorMessage(err *api_errors.Error) string {
	if err.Kind == api_errors.KindNotFound || err.Kind == api_errors.KindForbidden {
		return notFoundOrDenied
	}

	return err.Message
}
