package activity_logs

import (
	"time"

	"pocketprc/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityLogRepository struct{}

const selectWithUser = `
	SELECT
		al.id,
		al.user_id,
		al.checklist_id,
		al.team_id,
		al.action,
		al.details,
		al.created_at,
		u.name AS user_name,
		u.email AS user_email
	FROM activity_log al
	LEFT JOIN users u ON al.user_id = u.id`

func (r *ActivityLogRepository) Create(tx *gorm.DB, entry *ActivityLogEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	return storage.GetDbOr(tx).Create(entry).Error
}

func (r *ActivityLogRepository) GetByChecklist(checklistID uuid.UUID, limit, offset int) ([]*ActivityLogDTO, error) {
	entries := make([]*ActivityLogDTO, 0)

	err := storage.GetDb().Raw(selectWithUser+`
		WHERE al.checklist_id = ?
		ORDER BY al.created_at DESC, al.id DESC
		LIMIT ? OFFSET ?`, checklistID, limit, offset).Scan(&entries).Error

	return entries, err
}

func (r *ActivityLogRepository) GetGlobal(limit, offset int, beforeDate *time.Time) ([]*ActivityLogDTO, error) {
	entries := make([]*ActivityLogDTO, 0)

	sql := selectWithUser
	args := []any{}

	if beforeDate != nil {
		sql += " WHERE al.created_at < ?"
		args = append(args, *beforeDate)
	}

	sql += " ORDER BY al.created_at DESC, al.id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	err := storage.GetDb().Raw(sql, args...).Scan(&entries).Error

	return entries, err
}

func (r *ActivityLogRepository) GetByUser(
	userID uuid.UUID,
	limit, offset int,
	beforeDate *time.Time,
) ([]*ActivityLogDTO, error) {
	entries := make([]*ActivityLogDTO, 0)

	sql := selectWithUser + " WHERE al.user_id = ?"
	args := []any{userID}

	if beforeDate != nil {
		sql += " AND al.created_at < ?"
		args = append(args, *beforeDate)
	}

	sql += " ORDER BY al.created_at DESC, al.id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	err := storage.GetDb().Raw(sql, args...).Scan(&entries).Error

	return entries, err
}

func (r *ActivityLogRepository) CountByUser(userID uuid.UUID, beforeDate *time.Time) (int64, error) {
	var count int64

	query := storage.GetDb().Model(&ActivityLogEntry{}).Where("user_id = ?", userID)
	if beforeDate != nil {
		query = query.Where("created_at < ?", *beforeDate)
	}

	err := query.Count(&count).Error

	return count, err
}

func (r *ActivityLogRepository) CountGlobal(beforeDate *time.Time) (int64, error) {
	var count int64

	query := storage.GetDb().Model(&ActivityLogEntry{})
	if beforeDate != nil {
		query = query.Where("created_at < ?", *beforeDate)
	}

	err := query.Count(&count).Error

	return count, err
}

func (r *ActivityLogRepository) CountByChecklist(checklistID uuid.UUID) (int64, error) {
	var count int64

	err := storage.GetDb().Model(&ActivityLogEntry{}).
		Where("checklist_id = ?", checklistID).
		Count(&count).Error

	return count, err
}
