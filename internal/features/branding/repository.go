package branding

import (
	"errors"

	"pocketprc/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BrandingRepository struct{}

// GetTeamBranding returns nil, nil when the team has no branding of its own.
func (r *BrandingRepository) GetTeamBranding(tx *gorm.DB, teamID uuid.UUID, forUpdate bool) (*Branding, error) {
	query := storage.GetDbOr(tx).Where("team_id = ?", teamID)
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	return first(query)
}

// GetGlobalBranding returns nil, nil when the global row is missing.
func (r *BrandingRepository) GetGlobalBranding(tx *gorm.DB, forUpdate bool) (*Branding, error) {
	query := storage.GetDbOr(tx).Where("team_id IS NULL")
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	return first(query)
}

// LockTeam takes a row lock on the team so concurrent upserts of its
// branding serialize. It reports whether the team exists.
func (r *BrandingRepository) LockTeam(tx *gorm.DB, teamID uuid.UUID) (bool, error) {
	var ids []uuid.UUID

	err := tx.Raw(`SELECT id FROM teams WHERE id = ? FOR UPDATE`, teamID).Scan(&ids).Error
	if err != nil {
		return false, err
	}

	return len(ids) > 0, nil
}

func (r *BrandingRepository) CreateBranding(tx *gorm.DB, branding *Branding) error {
	if branding.ID == uuid.Nil {
		branding.ID = uuid.New()
	}

	return storage.GetDbOr(tx).Create(branding).Error
}

func (r *BrandingRepository) SaveBranding(tx *gorm.DB, branding *Branding) error {
	return storage.GetDbOr(tx).Save(branding).Error
}

func (r *BrandingRepository) DeleteTeamBranding(tx *gorm.DB, teamID uuid.UUID) error {
	return storage.GetDbOr(tx).Where("team_id = ?", teamID).Delete(&Branding{}).Error
}

func first(query *gorm.DB) (*Branding, error) {
	var branding Branding

	if err := query.First(&branding).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &branding, nil
}
