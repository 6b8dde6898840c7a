package checklists_repositories

import (
	"errors"
	"strings"
	"time"

	checklists_dto "pocketprc/internal/features/checklists/dto"
	checklists_enums "pocketprc/internal/features/checklists/enums"
	checklists_models "pocketprc/internal/features/checklists/models"
	"pocketprc/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChecklistRepository struct{}

const selectChecklistWithNames = `
	SELECT
		c.id,
		c.owner_id,
		o.name AS owner_name,
		c.team_id,
		c.assigned_to,
		a.name AS assigned_to_name,
		c.property_address,
		c.form_data,
		c.notes,
		c.status,
		c.completed_at,
		c.version,
		c.created_at,
		c.updated_at
	FROM checklists c
	LEFT JOIN users o ON c.owner_id = o.id
	LEFT JOIN users a ON c.assigned_to = a.id`

type StatusCount struct {
	Status checklists_enums.ChecklistStatus `gorm:"column:status"`
	Count  int64                            `gorm:"column:count"`
}

func (r *ChecklistRepository) CreateChecklist(tx *gorm.DB, checklist *checklists_models.Checklist) error {
	if checklist.ID == uuid.Nil {
		checklist.ID = uuid.New()
	}

	return storage.GetDbOr(tx).Create(checklist).Error
}

// GetChecklistByID returns nil, nil when the checklist does not exist.
func (r *ChecklistRepository) GetChecklistByID(tx *gorm.DB, checklistID uuid.UUID) (*checklists_models.Checklist, error) {
	var checklist checklists_models.Checklist

	if err := storage.GetDbOr(tx).Where("id = ?", checklistID).First(&checklist).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &checklist, nil
}

// GetChecklistForUpdate locks the row until tx ends. Returns nil, nil when
// the checklist does not exist.
func (r *ChecklistRepository) GetChecklistForUpdate(
	tx *gorm.DB,
	checklistID uuid.UUID,
) (*checklists_models.Checklist, error) {
	var checklists []*checklists_models.Checklist

	err := tx.Raw(`SELECT * FROM checklists WHERE id = ? FOR UPDATE`, checklistID).Scan(&checklists).Error
	if err != nil {
		return nil, err
	}

	if len(checklists) == 0 {
		return nil, nil
	}

	return checklists[0], nil
}

func (r *ChecklistRepository) GetChecklistWithNames(tx *gorm.DB, checklistID uuid.UUID) (*checklists_dto.ChecklistDTO, error) {
	var checklists []*checklists_dto.ChecklistDTO

	err := storage.GetDbOr(tx).Raw(selectChecklistWithNames+` WHERE c.id = ?`, checklistID).
		Scan(&checklists).Error
	if err != nil {
		return nil, err
	}

	if len(checklists) == 0 {
		return nil, nil
	}

	return checklists[0], nil
}

func (r *ChecklistRepository) ListChecklists(
	filter *checklists_dto.ChecklistFilter,
) ([]*checklists_dto.ChecklistDTO, int64, error) {
	conditions := []string{}
	args := []any{}

	if !filter.All {
		if filter.ManagedTeamID != nil {
			conditions = append(conditions, "(c.team_id = ? OR c.owner_id = ? OR c.assigned_to = ?)")
			args = append(args, *filter.ManagedTeamID, filter.UserID, filter.UserID)
		} else {
			conditions = append(conditions, "(c.owner_id = ? OR c.assigned_to = ?)")
			args = append(args, filter.UserID, filter.UserID)
		}
	}

	if filter.Status != nil {
		conditions = append(conditions, "c.status = ?")
		args = append(args, *filter.Status)
	} else {
		conditions = append(conditions, "c.status <> ?")
		args = append(args, checklists_enums.ChecklistStatusArchived)
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	err := storage.GetDb().Raw(`SELECT COUNT(*) FROM checklists c`+where, args...).Scan(&total).Error
	if err != nil {
		return nil, 0, err
	}

	checklists := make([]*checklists_dto.ChecklistDTO, 0)
	pageArgs := append(append([]any{}, args...), filter.Limit, filter.Offset)

	err = storage.GetDb().Raw(
		selectChecklistWithNames+where+` ORDER BY c.updated_at DESC, c.id LIMIT ? OFFSET ?`,
		pageArgs...,
	).Scan(&checklists).Error

	return checklists, total, err
}

// UpdateChecklistFields writes fields and bumps the version in one
// statement.
func (r *ChecklistRepository) UpdateChecklistFields(
	tx *gorm.DB,
	checklistID uuid.UUID,
	fields map[string]any,
) error {
	fields["version"] = gorm.Expr("version + 1")
	fields["updated_at"] = time.Now().UTC()

	return storage.GetDbOr(tx).Model(&checklists_models.Checklist{}).
		Where("id = ?", checklistID).
		Updates(fields).Error
}

// DetachTeam keeps the checklists of a deleted team but drops the team link.
func (r *ChecklistRepository) DetachTeam(tx *gorm.DB, teamID uuid.UUID) error {
	return storage.GetDbOr(tx).Model(&checklists_models.Checklist{}).
		Where("team_id = ?", teamID).
		Update("team_id", nil).Error
}

func (r *ChecklistRepository) CountChecklists() (int64, error) {
	var count int64

	err := storage.GetDb().Model(&checklists_models.Checklist{}).Count(&count).Error

	return count, err
}

func (r *ChecklistRepository) CountByStatus() (map[checklists_enums.ChecklistStatus]int64, error) {
	var rows []*StatusCount

	err := storage.GetDb().Raw(`SELECT status, COUNT(*) AS count FROM checklists GROUP BY status`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[checklists_enums.ChecklistStatus]int64, len(checklists_enums.AllStatuses))
	for _, status := range checklists_enums.AllStatuses {
		counts[status] = 0
	}

	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}
