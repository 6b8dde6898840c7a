package users_interfaces

import (
	users_dto "pocketprc/internal/features/users/dto"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityLogWriter interface {
	WriteActivity(action string, userID *uuid.UUID, checklistID *uuid.UUID, details map[string]any)
}

// InviteRedeemer consumes a team invite inside the caller's transaction.
// A nil grant means the token is unknown, used, expired or issued to a
// different email. An empty email skips the email check.
type InviteRedeemer interface {
	RedeemInvite(tx *gorm.DB, token string, email string, acceptedBy uuid.UUID) (*users_dto.InviteGrant, error)
}
