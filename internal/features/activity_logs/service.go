package activity_logs

import (
	"log/slog"
	"time"

	users_models "pocketprc/internal/features/users/models"
	"pocketprc/internal/util/api_errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errCannotViewUserActivity = api_errors.Forbidden("Insufficient permissions to view user activity")

const (
	defaultActivityLimit = 100
	maxActivityLimit     = 1000
)

type ActivityLogService struct {
	activityLogRepository *ActivityLogRepository
	logger                *slog.Logger
}

// WriteActivity appends an entry outside of any transaction. Failures are
// logged and swallowed.
func (s *ActivityLogService) WriteActivity(
	action string,
	userID *uuid.UUID,
	checklistID *uuid.UUID,
	details map[string]any,
) {
	s.Write(&ActivityLogEntry{
		UserID:      userID,
		ChecklistID: checklistID,
		Action:      action,
		Details:     details,
	})
}

func (s *ActivityLogService) Write(entry *ActivityLogEntry) {
	if err := s.activityLogRepository.Create(nil, normalize(entry)); err != nil {
		s.logger.Error("failed to write activity log",
			slog.String("action", entry.Action),
			slog.String("error", err.Error()))
	}
}

// WriteInTx appends an entry as part of tx; the caller decides what a
// failure means.
func (s *ActivityLogService) WriteInTx(tx *gorm.DB, entry *ActivityLogEntry) error {
	return s.activityLogRepository.Create(tx, normalize(entry))
}

func (s *ActivityLogService) GetChecklistActivity(checklistID uuid.UUID, limit, offset int) ([]*ActivityLogDTO, error) {
	return s.activityLogRepository.GetByChecklist(checklistID, clampLimit(limit), max(offset, 0))
}

func (s *ActivityLogService) GetRecentActivity(limit int) ([]*ActivityLogDTO, error) {
	return s.activityLogRepository.GetGlobal(clampLimit(limit), 0, nil)
}

func (s *ActivityLogService) GetGlobalActivity(request *GetActivityRequest) (*GetActivityResponse, error) {
	limit := clampLimit(request.Limit)
	offset := max(request.Offset, 0)

	entries, err := s.activityLogRepository.GetGlobal(limit, offset, request.BeforeDate)
	if err != nil {
		return nil, err
	}

	total, err := s.activityLogRepository.CountGlobal(request.BeforeDate)
	if err != nil {
		return nil, err
	}

	return &GetActivityResponse{
		Entries: entries,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}, nil
}

// GetUserActivity returns what targetUserID did. Users may read their own
// feed; super admins may read anyone's.
func (s *ActivityLogService) GetUserActivity(
	targetUserID uuid.UUID,
	user *users_models.User,
	request *GetActivityRequest,
) (*GetActivityResponse, error) {
	if user.ID != targetUserID && !user.IsSuperAdmin() {
		return nil, errCannotViewUserActivity
	}

	limit := clampLimit(request.Limit)
	offset := max(request.Offset, 0)

	entries, err := s.activityLogRepository.GetByUser(targetUserID, limit, offset, request.BeforeDate)
	if err != nil {
		return nil, err
	}

	total, err := s.activityLogRepository.CountByUser(targetUserID, request.BeforeDate)
	if err != nil {
		return nil, err
	}

	return &GetActivityResponse{
		Entries: entries,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}, nil
}

func normalize(entry *ActivityLogEntry) *ActivityLogEntry {
	if entry.Details == nil {
		entry.Details = map[string]any{}
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	return entry
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultActivityLimit
	}

	return min(limit, maxActivityLimit)
}
