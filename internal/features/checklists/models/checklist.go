package checklists_models

import (
	"regexp"
	"time"

	checklists_enums "pocketprc/internal/features/checklists/enums"
	users_models "pocketprc/internal/features/users/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Checklist struct {
	ID              uuid.UUID                        `json:"id"              gorm:"column:id"`
	OwnerID         uuid.UUID                        `json:"ownerId"         gorm:"column:owner_id"`
	TeamID          *uuid.UUID                       `json:"teamId"          gorm:"column:team_id"`
	AssignedTo      *uuid.UUID                       `json:"assignedTo"      gorm:"column:assigned_to"`
	PropertyAddress string                           `json:"propertyAddress" gorm:"column:property_address"`
	FormData        datatypes.JSONMap                `json:"formData"        gorm:"column:form_data"`
	Notes           *string                          `json:"notes"           gorm:"column:notes"`
	Status          checklists_enums.ChecklistStatus `json:"status"          gorm:"column:status"`
	CompletedAt     *time.Time                       `json:"completedAt"     gorm:"column:completed_at"`
	Version         int                              `json:"version"         gorm:"column:version"`
	CreatedAt       time.Time                        `json:"createdAt"       gorm:"column:created_at"`
	UpdatedAt       time.Time                        `json:"updatedAt"       gorm:"column:updated_at"`
}

func (Checklist) TableName() string {
	return "checklists"
}

func (c *Checklist) IsOwnedBy(user *users_models.User) bool {
	return c.OwnerID == user.ID
}

func (c *Checklist) IsAssignedTo(user *users_models.User) bool {
	return c.AssignedTo != nil && *c.AssignedTo == user.ID
}

// IsManagedBy is true when user leads the team the checklist belongs to.
func (c *Checklist) IsManagedBy(user *users_models.User) bool {
	return c.TeamID != nil && user.Role.IsTeamManager() && user.IsMemberOfTeam(*c.TeamID)
}

func (c *Checklist) CanView(user *users_models.User) bool {
	return user.IsSuperAdmin() || c.IsOwnedBy(user) || c.IsAssignedTo(user) || c.IsManagedBy(user)
}

func (c *Checklist) CanEdit(user *users_models.User) bool {
	return c.CanView(user)
}

// CanArchive excludes assignees; only the owner side may retire a checklist.
func (c *Checklist) CanArchive(user *users_models.User) bool {
	return user.IsSuperAdmin() || c.IsOwnedBy(user) || c.IsManagedBy(user)
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// PdfFilename is the name the client uses for the generated checklist PDF.
func PdfFilename(propertyAddress string, date time.Time) string {
	address := propertyAddress
	if address == "" {
		address = "Property"
	}

	return "PRC_" + nonAlphanumeric.ReplaceAllString(address, "_") + "_" + date.UTC().Format("2006-01-02") + ".pdf"
}
