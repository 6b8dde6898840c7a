package teams_repositories

import (
	"errors"
	"time"

	teams_dto "pocketprc/internal/features/teams/dto"
	teams_models "pocketprc/internal/features/teams/models"
	"pocketprc/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InviteRepository struct{}

func (r *InviteRepository) CreateInvite(invite *teams_models.TeamInvite) error {
	if invite.ID == uuid.Nil {
		invite.ID = uuid.New()
	}

	return storage.GetDb().Create(invite).Error
}

func (r *InviteRepository) GetInviteByID(inviteID uuid.UUID) (*teams_models.TeamInvite, error) {
	var invite teams_models.TeamInvite

	if err := storage.GetDb().Where("id = ?", inviteID).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &invite, nil
}

func (r *InviteRepository) GetPendingInvites(teamID uuid.UUID) ([]*teams_dto.PendingInviteDTO, error) {
	invites := make([]*teams_dto.PendingInviteDTO, 0)

	err := storage.GetDb().Raw(`
		SELECT i.id, i.email, i.role, i.expires_at, i.created_at, u.name AS invited_by_name
		FROM team_invites i
		LEFT JOIN users u ON i.invited_by = u.id
		WHERE i.team_id = ? AND i.accepted_at IS NULL AND i.expires_at > NOW()
		ORDER BY i.created_at DESC`, teamID).Scan(&invites).Error

	return invites, err
}

// RedeemInvite accepts a pending invite. A non-empty email must match the
// invite's email. The single conditional UPDATE guarantees at most one
// caller ever gets the invite back.
func (r *InviteRepository) RedeemInvite(
	tx *gorm.DB,
	token string,
	email string,
	acceptedBy uuid.UUID,
) (*teams_models.TeamInvite, error) {
	var invites []*teams_models.TeamInvite

	err := storage.GetDbOr(tx).Raw(`
		UPDATE team_invites
		SET accepted_at = NOW(), accepted_by = ?
		WHERE token = ?
		  AND accepted_at IS NULL
		  AND expires_at > NOW()
		  AND (? = '' OR LOWER(email) = LOWER(?))
		RETURNING *`, acceptedBy, token, email, email).Scan(&invites).Error
	if err != nil {
		return nil, err
	}

	if len(invites) == 0 {
		return nil, nil
	}

	return invites[0], nil
}

// DeletePendingInvite removes an invite that has not been accepted yet.
// Returns false when nothing matched.
func (r *InviteRepository) DeletePendingInvite(teamID, inviteID uuid.UUID) (bool, error) {
	result := storage.GetDb().
		Where("id = ? AND team_id = ? AND accepted_at IS NULL", inviteID, teamID).
		Delete(&teams_models.TeamInvite{})

	return result.RowsAffected > 0, result.Error
}

func (r *InviteRepository) DeleteTeamInvites(tx *gorm.DB, teamID uuid.UUID) error {
	return storage.GetDbOr(tx).Where("team_id = ?", teamID).Delete(&teams_models.TeamInvite{}).Error
}

// DeleteStaleInvites drops invites that were never accepted and expired
// before cutoff.
func (r *InviteRepository) DeleteStaleInvites(cutoff time.Time) (int64, error) {
	result := storage.GetDb().
		Where("accepted_at IS NULL AND expires_at < ?", cutoff).
		Delete(&teams_models.TeamInvite{})

	return result.RowsAffected, result.Error
}

func (r *InviteRepository) SetInviteExpiryForTests(inviteID uuid.UUID, expiresAt time.Time) error {
	return storage.GetDb().Model(&teams_models.TeamInvite{}).
		Where("id = ?", inviteID).
		Update("expires_at", expiresAt).Error
}
