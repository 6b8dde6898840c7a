package checklists_services

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"pocketprc/internal/features/activity_logs"
	checklists_dto "pocketprc/internal/features/checklists/dto"
	checklists_enums "pocketprc/internal/features/checklists/enums"
	checklists_interfaces "pocketprc/internal/features/checklists/interfaces"
	checklists_models "pocketprc/internal/features/checklists/models"
	checklists_repositories "pocketprc/internal/features/checklists/repositories"
	users_models "pocketprc/internal/features/users/models"
	users_repositories "pocketprc/internal/features/users/repositories"
	"pocketprc/internal/storage"
	"pocketprc/internal/util/api_errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultChecklistLimit = 100
	maxChecklistLimit     = 1000
)

var (
	ErrChecklistNotFound = api_errors.NotFound("Checklist not found")
	ErrAccessDenied      = api_errors.Forbidden("Access denied")
	ErrVersionConflict   = api_errors.Conflict("Checklist was modified by another user")
)

type ChecklistService struct {
	checklistRepository *checklists_repositories.ChecklistRepository
	userRepository      *users_repositories.UserRepository
	activityLogService  *activity_logs.ActivityLogService
	attachmentLister    checklists_interfaces.AttachmentLister
	logger              *slog.Logger
}

func (s *ChecklistService) SetAttachmentLister(lister checklists_interfaces.AttachmentLister) {
	s.attachmentLister = lister
}

func (s *ChecklistService) ListChecklists(
	user *users_models.User,
	request *checklists_dto.ListChecklistsRequestDTO,
) (*checklists_dto.ListChecklistsResponseDTO, error) {
	filter := &checklists_dto.ChecklistFilter{
		All:    user.IsSuperAdmin(),
		UserID: user.ID,
		Limit:  request.Limit,
		Offset: max(request.Offset, 0),
	}

	if filter.Limit <= 0 {
		filter.Limit = defaultChecklistLimit
	}
	if filter.Limit > maxChecklistLimit {
		filter.Limit = maxChecklistLimit
	}

	if request.Status != "" {
		status := checklists_enums.ChecklistStatus(request.Status)
		if !status.IsValid() {
			return nil, api_errors.Validation("Invalid status filter")
		}
		filter.Status = &status
	}

	if user.TeamID != nil && user.Role.IsTeamManager() {
		filter.ManagedTeamID = user.TeamID
	}

	checklists, total, err := s.checklistRepository.ListChecklists(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklists: %w", err)
	}

	return &checklists_dto.ListChecklistsResponseDTO{
		Checklists: checklists,
		Total:      total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

func (s *ChecklistService) CreateChecklist(
	user *users_models.User,
	request *checklists_dto.CreateChecklistRequestDTO,
) (*checklists_dto.ChecklistDTO, error) {
	var checklist *checklists_models.Checklist

	err := storage.GetDb().Transaction(func(tx *gorm.DB) error {
		var err error
		checklist, err = s.CreateInTx(tx, user, request, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.checklistRepository.GetChecklistWithNames(nil, checklist.ID)
}

// CreateInTx inserts a draft owned by user in the user's team. extraDetails
// is merged into the activity entry.
func (s *ChecklistService) CreateInTx(
	tx *gorm.DB,
	user *users_models.User,
	request *checklists_dto.CreateChecklistRequestDTO,
	extraDetails map[string]any,
) (*checklists_models.Checklist, error) {
	address := strings.TrimSpace(request.PropertyAddress)
	if address == "" {
		return nil, api_errors.Validation("Property address is required")
	}

	formData := datatypes.JSONMap(request.FormData)
	if formData == nil {
		formData = checklists_models.DefaultFormData(address)
	}

	now := time.Now().UTC()
	checklist := &checklists_models.Checklist{
		ID:              uuid.New(),
		OwnerID:         user.ID,
		TeamID:          user.TeamID,
		PropertyAddress: address,
		FormData:        formData,
		Notes:           request.Notes,
		Status:          checklists_enums.ChecklistStatusDraft,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.checklistRepository.CreateChecklist(tx, checklist); err != nil {
		return nil, fmt.Errorf("failed to create checklist: %w", err)
	}

	details := mergeDetails(map[string]any{"propertyAddress": address}, extraDetails)
	if err := s.writeActivity(tx, user, checklist, activity_logs.ActionCreated, details); err != nil {
		return nil, err
	}

	return checklist, nil
}

func (s *ChecklistService) GetChecklist(user *users_models.User, checklistID uuid.UUID) (*checklists_dto.ChecklistDTO, error) {
	if _, err := s.GetChecklistForView(user, checklistID); err != nil {
		return nil, err
	}

	checklist, err := s.checklistRepository.GetChecklistWithNames(nil, checklistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get checklist: %w", err)
	}

	if checklist == nil {
		return nil, ErrChecklistNotFound
	}

	checklist.Attachments = make([]*checklists_dto.AttachmentDTO, 0)
	if s.attachmentLister != nil {
		attachments, err := s.attachmentLister.ListChecklistAttachments(checklistID)
		if err != nil {
			return nil, fmt.Errorf("failed to get attachments: %w", err)
		}
		checklist.Attachments = attachments
	}

	checklist.PdfFilename = checklists_models.PdfFilename(checklist.PropertyAddress, time.Now())

	return checklist, nil
}

func (s *ChecklistService) GetChecklistForView(
	user *users_models.User,
	checklistID uuid.UUID,
) (*checklists_models.Checklist, error) {
	checklist, err := s.getChecklist(checklistID)
	if err != nil {
		return nil, err
	}

	if !checklist.CanView(user) {
		return nil, ErrAccessDenied
	}

	return checklist, nil
}

func (s *ChecklistService) GetChecklistForEdit(
	user *users_models.User,
	checklistID uuid.UUID,
) (*checklists_models.Checklist, error) {
	checklist, err := s.getChecklist(checklistID)
	if err != nil {
		return nil, err
	}

	if !checklist.CanEdit(user) {
		return nil, ErrAccessDenied
	}

	return checklist, nil
}

func (s *ChecklistService) UpdateChecklist(
	user *users_models.User,
	checklistID uuid.UUID,
	request *checklists_dto.UpdateChecklistRequestDTO,
) (*checklists_dto.ChecklistDTO, error) {
	err := storage.GetDb().Transaction(func(tx *gorm.DB) error {
		_, err := s.UpdateInTx(tx, user, checklistID, request, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.checklistRepository.GetChecklistWithNames(nil, checklistID)
}

// UpdateInTx applies a partial update under a row lock. A supplied version
// must match the stored one.
func (s *ChecklistService) UpdateInTx(
	tx *gorm.DB,
	user *users_models.User,
	checklistID uuid.UUID,
	request *checklists_dto.UpdateChecklistRequestDTO,
	extraDetails map[string]any,
) (*checklists_models.Checklist, error) {
	checklist, err := s.lockChecklist(tx, checklistID)
	if err != nil {
		return nil, err
	}

	if !checklist.CanEdit(user) {
		return nil, ErrAccessDenied
	}

	if request.Version != nil && *request.Version != checklist.Version {
		return nil, ErrVersionConflict
	}

	fields := map[string]any{}
	changed := make([]string, 0, 3)
	if request.PropertyAddress != nil {
		address := strings.TrimSpace(*request.PropertyAddress)
		if address == "" {
			return nil, api_errors.Validation("Property address cannot be empty")
		}
		fields["property_address"] = address
		checklist.PropertyAddress = address
		changed = append(changed, "propertyAddress")
	}

	if request.FormData != nil {
		fields["form_data"] = datatypes.JSONMap(request.FormData)
		checklist.FormData = request.FormData
		changed = append(changed, "formData")
	}

	if request.Notes != nil {
		fields["notes"] = *request.Notes
		checklist.Notes = request.Notes
		changed = append(changed, "notes")
	}

	if err := s.checklistRepository.UpdateChecklistFields(tx, checklistID, fields); err != nil {
		return nil, fmt.Errorf("failed to update checklist: %w", err)
	}
	checklist.Version++

	details := mergeDetails(map[string]any{"fields": changed}, extraDetails)
	if err := s.writeActivity(tx, user, checklist, activity_logs.ActionUpdated, details); err != nil {
		return nil, err
	}

	return checklist, nil
}

func (s *ChecklistService) ArchiveChecklist(user *users_models.User, checklistID uuid.UUID) error {
	return storage.GetDb().Transaction(func(tx *gorm.DB) error {
		_, err := s.ArchiveInTx(tx, user, checklistID, nil)
		return err
	})
}

// ArchiveInTx soft deletes the checklist. Attachments stay in place.
func (s *ChecklistService) ArchiveInTx(
	tx *gorm.DB,
	user *users_models.User,
	checklistID uuid.UUID,
	extraDetails map[string]any,
) (*checklists_models.Checklist, error) {
	checklist, err := s.lockChecklist(tx, checklistID)
	if err != nil {
		return nil, err
	}

	if !checklist.CanArchive(user) {
		return nil, ErrAccessDenied
	}

	from := checklist.Status
	err = s.checklistRepository.UpdateChecklistFields(tx, checklistID, map[string]any{
		"status":       checklists_enums.ChecklistStatusArchived,
		"completed_at": nil,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to archive checklist: %w", err)
	}

	checklist.Status = checklists_enums.ChecklistStatusArchived
	checklist.CompletedAt = nil
	checklist.Version++

	details := mergeDetails(map[string]any{"from": string(from)}, extraDetails)
	if err := s.writeActivity(tx, user, checklist, activity_logs.ActionArchived, details); err != nil {
		return nil, err
	}

	return checklist, nil
}

// AssignChecklist sets or clears the assignee. Outside of super admins the
// assignee has to be an active member of the checklist's team.
func (s *ChecklistService) AssignChecklist(
	user *users_models.User,
	checklistID uuid.UUID,
	request *checklists_dto.AssignChecklistRequestDTO,
) (*checklists_dto.ChecklistDTO, error) {
	err := storage.GetDb().Transaction(func(tx *gorm.DB) error {
		checklist, err := s.lockChecklist(tx, checklistID)
		if err != nil {
			return err
		}

		if !user.IsSuperAdmin() && !checklist.IsManagedBy(user) {
			return ErrAccessDenied
		}

		if request.UserID != nil {
			assignee, err := s.userRepository.GetUserByID(*request.UserID)
			if err != nil || !assignee.IsActive {
				return api_errors.Validation("Assignee must be an active user")
			}

			if !user.IsSuperAdmin() && !assignee.IsMemberOfTeam(*checklist.TeamID) {
				return api_errors.Validation("Assignee must be a member of the checklist's team")
			}
		}

		err = s.checklistRepository.UpdateChecklistFields(tx, checklistID, map[string]any{
			"assigned_to": request.UserID,
		})
		if err != nil {
			return fmt.Errorf("failed to assign checklist: %w", err)
		}

		details := map[string]any{"assignedTo": nil}
		if request.UserID != nil {
			details["assignedTo"] = request.UserID.String()
		}

		return s.writeActivity(tx, user, checklist, activity_logs.ActionAssigned, details)
	})
	if err != nil {
		return nil, err
	}

	return s.checklistRepository.GetChecklistWithNames(nil, checklistID)
}

// UpdateStatus moves the checklist to status. completed_at is stamped when
// entering completed and cleared on any other status. Exactly one
// status_changed entry is written with the update.
func (s *ChecklistService) UpdateStatus(
	user *users_models.User,
	checklistID uuid.UUID,
	status checklists_enums.ChecklistStatus,
) (*checklists_dto.ChecklistDTO, error) {
	err := storage.GetDb().Transaction(func(tx *gorm.DB) error {
		_, err := s.UpdateStatusInTx(tx, user, checklistID, status, nil, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.checklistRepository.GetChecklistWithNames(nil, checklistID)
}

// UpdateStatusInTx is UpdateStatus inside the caller's transaction. A
// non-nil expectedVersion must match the stored version.
func (s *ChecklistService) UpdateStatusInTx(
	tx *gorm.DB,
	user *users_models.User,
	checklistID uuid.UUID,
	status checklists_enums.ChecklistStatus,
	expectedVersion *int,
	extraDetails map[string]any,
) (*checklists_models.Checklist, error) {
	if !status.IsValid() {
		return nil, api_errors.Validation("Invalid status")
	}

	checklist, err := s.lockChecklist(tx, checklistID)
	if err != nil {
		return nil, err
	}

	if !checklist.CanEdit(user) {
		return nil, ErrAccessDenied
	}

	if status == checklists_enums.ChecklistStatusArchived && !checklist.CanArchive(user) {
		return nil, ErrAccessDenied
	}

	if expectedVersion != nil && *expectedVersion != checklist.Version {
		return nil, ErrVersionConflict
	}

	from := checklist.Status

	var completedAt *time.Time
	if status == checklists_enums.ChecklistStatusCompleted {
		now := time.Now().UTC()
		completedAt = &now
		if from == checklists_enums.ChecklistStatusCompleted && checklist.CompletedAt != nil {
			completedAt = checklist.CompletedAt
		}
	}

	err = s.checklistRepository.UpdateChecklistFields(tx, checklistID, map[string]any{
		"status":       status,
		"completed_at": completedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	checklist.Status = status
	checklist.CompletedAt = completedAt
	checklist.Version++

	details := mergeDetails(map[string]any{"from": string(from), "to": string(status)}, extraDetails)
	if err := s.writeActivity(tx, user, checklist, activity_logs.ActionStatusChanged, details); err != nil {
		return nil, err
	}

	return checklist, nil
}

func (s *ChecklistService) GetChecklistActivity(
	user *users_models.User,
	checklistID uuid.UUID,
	request *checklists_dto.GetChecklistActivityRequestDTO,
) (*checklists_dto.ChecklistActivityResponseDTO, error) {
	if _, err := s.GetChecklistForView(user, checklistID); err != nil {
		return nil, err
	}

	entries, err := s.activityLogService.GetChecklistActivity(checklistID, request.Limit, request.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	return &checklists_dto.ChecklistActivityResponseDTO{Activity: entries}, nil
}

// WriteChecklistActivity records an event about a checklist that happened
// outside this service.
func (s *ChecklistService) WriteChecklistActivity(
	user *users_models.User,
	checklist *checklists_models.Checklist,
	action string,
	details map[string]any,
) {
	if err := s.writeActivity(nil, user, checklist, action, details); err != nil {
		s.logger.Error("failed to write checklist activity",
			slog.String("action", action),
			slog.String("checklistId", checklist.ID.String()),
			slog.String("error", err.Error()))
	}
}

func (s *ChecklistService) OnBeforeTeamDeletion(tx *gorm.DB, teamID uuid.UUID) error {
	return s.checklistRepository.DetachTeam(tx, teamID)
}

func (s *ChecklistService) CountChecklists() (int64, error) {
	return s.checklistRepository.CountChecklists()
}

func (s *ChecklistService) CountByStatus() (map[checklists_enums.ChecklistStatus]int64, error) {
	return s.checklistRepository.CountByStatus()
}

func (s *ChecklistService) getChecklist(checklistID uuid.UUID) (*checklists_models.Checklist, error) {
	checklist, err := s.checklistRepository.GetChecklistByID(nil, checklistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get checklist: %w", err)
	}

	if checklist == nil {
		return nil, ErrChecklistNotFound
	}

	return checklist, nil
}

func (s *ChecklistService) lockChecklist(tx *gorm.DB, checklistID uuid.UUID) (*checklists_models.Checklist, error) {
	checklist, err := s.checklistRepository.GetChecklistForUpdate(tx, checklistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get checklist: %w", err)
	}

	if checklist == nil {
		return nil, ErrChecklistNotFound
	}

	return checklist, nil
}

func (s *ChecklistService) writeActivity(
	tx *gorm.DB,
	user *users_models.User,
	checklist *checklists_models.Checklist,
	action string,
	details map[string]any,
) error {
	entry := &activity_logs.ActivityLogEntry{
		UserID:      &user.ID,
		ChecklistID: &checklist.ID,
		TeamID:      checklist.TeamID,
		Action:      action,
		Details:     details,
	}

	if tx == nil {
		s.activityLogService.Write(entry)
		return nil
	}

	if err := s.activityLogService.WriteInTx(tx, entry); err != nil {
		return fmt.Errorf("failed to write activity: %w", err)
	}

	return nil
}

func mergeDetails(details map[string]any, extra map[string]any) map[string]any {
	for key, value := range extra {
		details[key] = value
	}

	return details
}
