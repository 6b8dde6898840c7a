package activity_logs

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type GetActivityRequest struct {
	Limit      int        `form:"limit"      json:"limit"`
	Offset     int        `form:"offset"     json:"offset"`
	BeforeDate *time.Time `form:"beforeDate" json:"beforeDate"`
}

type GetActivityResponse struct {
	Entries []*ActivityLogDTO `json:"entries"`
	Total   int64             `json:"total"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

type ActivityLogDTO struct {
	ID          uuid.UUID         `json:"id"          gorm:"column:id"`
	UserID      *uuid.UUID        `json:"userId"      gorm:"column:user_id"`
	ChecklistID *uuid.UUID        `json:"checklistId" gorm:"column:checklist_id"`
	TeamID      *uuid.UUID        `json:"teamId"      gorm:"column:team_id"`
	Action      string            `json:"action"      gorm:"column:action"`
	Details     datatypes.JSONMap `json:"details"     gorm:"column:details"`
	CreatedAt   time.Time         `json:"createdAt"   gorm:"column:created_at"`
	UserName    *string           `json:"userName"    gorm:"column:user_name"`
	UserEmail   *string           `json:"userEmail"   gorm:"column:user_email"`
}
