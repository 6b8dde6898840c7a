package teams_models

import (
	"time"

	users_enums "pocketprc/internal/features/users/enums"

	"github.com/google/uuid"
)

type TeamInvite struct {
	ID         uuid.UUID            `json:"id"         gorm:"column:id"`
	TeamID     uuid.UUID            `json:"teamId"     gorm:"column:team_id"`
	Email      string               `json:"email"      gorm:"column:email"`
	InvitedBy  *uuid.UUID           `json:"invitedBy"  gorm:"column:invited_by"`
	Role       users_enums.UserRole `json:"role"       gorm:"column:role"`
	Token      string               `json:"-"          gorm:"column:token"`
	ExpiresAt  time.Time            `json:"expiresAt"  gorm:"column:expires_at"`
	AcceptedAt *time.Time           `json:"acceptedAt" gorm:"column:accepted_at"`
	AcceptedBy *uuid.UUID           `json:"acceptedBy" gorm:"column:accepted_by"`
	CreatedAt  time.Time            `json:"createdAt"  gorm:"column:created_at"`
}

func (TeamInvite) TableName() string {
	return "team_invites"
}

func (i *TeamInvite) IsPending(now time.Time) bool {
	return i.AcceptedAt == nil && i.ExpiresAt.After(now)
}
