package users_repositories

import (
	"time"

	users_models "pocketprc/internal/features/users/models"
	"pocketprc/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PasswordResetRepository struct{}

func (r *PasswordResetRepository) Create(token *users_models.PasswordResetToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}

	return storage.GetDb().Create(token).Error
}

// Consume marks an unused, unexpired token as used and returns its owner.
// The conditional UPDATE makes concurrent consumers race on a single row;
// only one of them gets a user ID back.
func (r *PasswordResetRepository) Consume(tx *gorm.DB, tokenHash string) (*uuid.UUID, error) {
	var rows []struct {
		UserID uuid.UUID `gorm:"column:user_id"`
	}

	err := storage.GetDbOr(tx).Raw(`
		UPDATE password_reset_tokens
		SET used_at = NOW()
		WHERE token_hash = ? AND used_at IS NULL AND expires_at > NOW()
		RETURNING user_id`, tokenHash).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return &rows[0].UserID, nil
}

func (r *PasswordResetRepository) DeleteStale(now time.Time) (int64, error) {
	result := storage.GetDb().
		Where("used_at IS NOT NULL OR expires_at < ?", now).
		Delete(&users_models.PasswordResetToken{})

	return result.RowsAffected, result.Error
}
