package activity_logs

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ActionCreated        = "created"
	ActionUpdated        = "updated"
	ActionArchived       = "archived"
	ActionAssigned       = "assigned"
	ActionStatusChanged  = "status_changed"
	ActionFilesUploaded  = "files_uploaded"
	ActionFileDeleted    = "file_deleted"
	ActionSynced         = "synced"
	ActionLeadMainland   = "lead_sent_mainland"
	ActionRateRequest    = "rate_request_sent_anniemac"
	ActionUserRegistered = "user_registered"
	ActionPasswordReset  = "password_reset"
	ActionProfileUpdated = "profile_updated"
	ActionInviteAccepted = "invite_accepted"
	ActionUserUpdated    = "user_updated"
	ActionAdminResetPwd  = "admin_password_reset"
	ActionTeamCreated    = "team_created"
	ActionTeamUpdated    = "team_updated"
	ActionTeamDeleted    = "team_deleted"
	ActionInviteSent     = "invite_sent"
	ActionInviteRevoked  = "invite_revoked"
	ActionMemberRemoved  = "member_removed"
	ActionRoleChanged    = "role_changed"
	ActionOwnerChanged   = "ownership_transferred"
	ActionBrandingSaved  = "branding_updated"
)

type ActivityLogEntry struct {
	ID          uuid.UUID         `json:"id"          gorm:"column:id"`
	UserID      *uuid.UUID        `json:"userId"      gorm:"column:user_id"`
	ChecklistID *uuid.UUID        `json:"checklistId" gorm:"column:checklist_id"`
	TeamID      *uuid.UUID        `json:"teamId"      gorm:"column:team_id"`
	Action      string            `json:"action"      gorm:"column:action"`
	Details     datatypes.JSONMap `json:"details"     gorm:"column:details"`
	CreatedAt   time.Time         `json:"createdAt"   gorm:"column:created_at"`
}

func (ActivityLogEntry) TableName() string {
	return "activity_log"
}
