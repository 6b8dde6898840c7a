package checklists_dto

import (
	"encoding/json"
	"time"

	"pocketprc/internal/features/activity_logs"
	checklists_enums "pocketprc/internal/features/checklists/enums"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ListChecklistsRequestDTO struct {
	Status string `form:"status"`
	Limit  int    `form:"limit"  json:"limit"`
	Offset int    `form:"offset" json:"offset"`
}

type CreateChecklistRequestDTO struct {
	PropertyAddress string         `json:"propertyAddress" binding:"required"`
	FormData        map[string]any `json:"formData"`
	Notes           *string        `json:"notes"`
}

// UpdateChecklistRequestDTO is a partial update. Version, when sent, must
// match the stored version.
type UpdateChecklistRequestDTO struct {
	PropertyAddress *string        `json:"propertyAddress"`
	FormData        map[string]any `json:"formData"`
	Notes           *string        `json:"notes"`
	Version         *int           `json:"version"`
}

// AssignChecklistRequestDTO tells an absent userId apart from an explicit
// null. Only null clears the assignee.
type AssignChecklistRequestDTO struct {
	UserID *uuid.UUID `json:"userId"`

	hasUserID bool
}

func (r *AssignChecklistRequestDTO) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	raw, ok := fields["userId"]
	r.hasUserID = ok
	r.UserID = nil
	if !ok || string(raw) == "null" {
		return nil
	}

	var userID uuid.UUID
	if err := json.Unmarshal(raw, &userID); err != nil {
		return err
	}
	r.UserID = &userID

	return nil
}

func (r *AssignChecklistRequestDTO) HasUserID() bool {
	return r.hasUserID
}

type UpdateStatusRequestDTO struct {
	Status checklists_enums.ChecklistStatus `json:"status" binding:"required"`
}

type AttachmentDTO struct {
	ID           uuid.UUID  `json:"id"           gorm:"column:id"`
	ChecklistID  uuid.UUID  `json:"checklistId"  gorm:"column:checklist_id"`
	UploadedBy   *uuid.UUID `json:"uploadedBy"   gorm:"column:uploaded_by"`
	Filename     string     `json:"filename"     gorm:"column:filename"`
	OriginalName string     `json:"originalName" gorm:"column:original_name"`
	MimeType     string     `json:"mimeType"     gorm:"column:mime_type"`
	SizeBytes    int64      `json:"sizeBytes"    gorm:"column:size_bytes"`
	CreatedAt    time.Time  `json:"createdAt"    gorm:"column:created_at"`
}

type ChecklistDTO struct {
	ID              uuid.UUID                        `json:"id"              gorm:"column:id"`
	OwnerID         uuid.UUID                        `json:"ownerId"         gorm:"column:owner_id"`
	OwnerName       *string                          `json:"ownerName"       gorm:"column:owner_name"`
	TeamID          *uuid.UUID                       `json:"teamId"          gorm:"column:team_id"`
	AssignedTo      *uuid.UUID                       `json:"assignedTo"      gorm:"column:assigned_to"`
	AssignedToName  *string                          `json:"assignedToName"  gorm:"column:assigned_to_name"`
	PropertyAddress string                           `json:"propertyAddress" gorm:"column:property_address"`
	FormData        datatypes.JSONMap                `json:"formData"        gorm:"column:form_data"`
	Notes           *string                          `json:"notes"           gorm:"column:notes"`
	Status          checklists_enums.ChecklistStatus `json:"status"          gorm:"column:status"`
	CompletedAt     *time.Time                       `json:"completedAt"     gorm:"column:completed_at"`
	Version         int                              `json:"version"         gorm:"column:version"`
	CreatedAt       time.Time                        `json:"createdAt"       gorm:"column:created_at"`
	UpdatedAt       time.Time                        `json:"updatedAt"       gorm:"column:updated_at"`

	Attachments []*AttachmentDTO `json:"attachments,omitempty" gorm:"-"`
	PdfFilename string           `json:"pdfFilename,omitempty" gorm:"-"`
}

type ListChecklistsResponseDTO struct {
	Checklists []*ChecklistDTO `json:"checklists"`
	Total      int64           `json:"total"`
	Limit      int             `json:"limit"`
	Offset     int             `json:"offset"`
}

type ChecklistEnvelopeDTO struct {
	Checklist *ChecklistDTO `json:"checklist"`
}

type GetChecklistActivityRequestDTO struct {
	Limit  int `form:"limit"  json:"limit"`
	Offset int `form:"offset" json:"offset"`
}

type ChecklistActivityResponseDTO struct {
	Activity []*activity_logs.ActivityLogDTO `json:"activity"`
}

type MessageResponseDTO struct {
	Message string `json:"message"`
}

// ChecklistFilter scopes a listing to what one user may see.
type ChecklistFilter struct {
	All           bool
	UserID        uuid.UUID
	ManagedTeamID *uuid.UUID
	Status        *checklists_enums.ChecklistStatus
	Limit         int
	Offset        int
}
