package users_models

import (
	"time"

	users_enums "pocketprc/internal/features/users/enums"

	"github.com/google/uuid"
)

type User struct {
	ID                   uuid.UUID            `json:"id"        gorm:"column:id"`
	Name                 string               `json:"name"      gorm:"column:name"`
	Email                string               `json:"email"     gorm:"column:email"`
	HashedPassword       string               `json:"-"         gorm:"column:hashed_password"`
	PasswordCreationTime time.Time            `json:"-"         gorm:"column:password_creation_time"`
	Role                 users_enums.UserRole `json:"role"      gorm:"column:role"`
	TeamID               *uuid.UUID           `json:"teamId"    gorm:"column:team_id"`
	AvatarURL            *string              `json:"avatarUrl" gorm:"column:avatar_url"`
	IsActive             bool                 `json:"isActive"  gorm:"column:is_active"`
	CreatedAt            time.Time            `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt            time.Time            `json:"updatedAt" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsSuperAdmin() bool {
	return u.Role == users_enums.UserRoleSuperAdmin
}

func (u *User) HasMinimumRole(required users_enums.UserRole) bool {
	return u.Role.AtLeast(required)
}

func (u *User) IsMemberOfTeam(teamID uuid.UUID) bool {
	return u.TeamID != nil && *u.TeamID == teamID
}

// CanManageTeam is true for owners and team leads of the team and for
// super admins regardless of team.
func (u *User) CanManageTeam(teamID uuid.UUID) bool {
	if u.IsSuperAdmin() {
		return true
	}

	return u.IsMemberOfTeam(teamID) && u.Role.IsTeamManager()
}

func (u *User) IsOwnerOfTeam(teamID uuid.UUID) bool {
	return u.IsMemberOfTeam(teamID) && u.Role == users_enums.UserRoleOwner
}

func (u *User) CanViewTeam(teamID uuid.UUID) bool {
	return u.IsSuperAdmin() || u.IsMemberOfTeam(teamID)
}
