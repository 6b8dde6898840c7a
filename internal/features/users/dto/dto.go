package users_dto

import (
	"time"

	users_enums "pocketprc/internal/features/users/enums"

	"github.com/google/uuid"
)

type RegisterRequestDTO struct {
	Name        string `json:"name"        binding:"required,max=255"`
	Email       string `json:"email"       binding:"required,email"`
	Password    string `json:"password"    binding:"required,min=6"`
	InviteToken string `json:"inviteToken"`
}

type LoginRequestDTO struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignInResponseDTO is returned by register, login and refresh. The refresh
// token travels only in the http-only cookie.
type SignInResponseDTO struct {
	UserID       uuid.UUID               `json:"userId"`
	Email        string                  `json:"email"`
	Token        string                  `json:"accessToken"`
	RefreshToken string                  `json:"-"`
	User         *UserProfileResponseDTO `json:"user,omitempty"`
}

type ForgotPasswordRequestDTO struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequestDTO struct {
	Token    string `json:"token"    binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type AcceptInviteRequestDTO struct {
	Token string `json:"token" binding:"required"`
}

type UpdateProfileRequestDTO struct {
	Name            *string `json:"name"`
	AvatarURL       *string `json:"avatarUrl"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword"`
}

type UserProfileResponseDTO struct {
	ID        uuid.UUID            `json:"id"`
	Name      string               `json:"name"`
	Email     string               `json:"email"`
	Role      users_enums.UserRole `json:"role"`
	TeamID    *uuid.UUID           `json:"teamId"`
	AvatarURL *string              `json:"avatarUrl"`
	IsActive  bool                 `json:"isActive"`
	CreatedAt time.Time            `json:"createdAt"`
}

type MessageResponseDTO struct {
	Message string `json:"message"`
}

// InviteGrant is what a redeemed invite gives its holder.
type InviteGrant struct {
	InviteID uuid.UUID
	TeamID   uuid.UUID
	Role     users_enums.UserRole
}

// Admin management

type ListUsersRequestDTO struct {
	Limit  int `form:"limit"  json:"limit"`
	Offset int `form:"offset" json:"offset"`
}

type AdminUserDTO struct {
	ID        uuid.UUID            `json:"id"        gorm:"column:id"`
	Name      string               `json:"name"      gorm:"column:name"`
	Email     string               `json:"email"     gorm:"column:email"`
	Role      users_enums.UserRole `json:"role"      gorm:"column:role"`
	TeamID    *uuid.UUID           `json:"teamId"    gorm:"column:team_id"`
	TeamName  *string              `json:"teamName"  gorm:"column:team_name"`
	IsActive  bool                 `json:"isActive"  gorm:"column:is_active"`
	CreatedAt time.Time            `json:"createdAt" gorm:"column:created_at"`
}

type ListUsersResponseDTO struct {
	Users  []*AdminUserDTO `json:"users"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// UpdateUserRequestDTO uses pointers so absent fields stay untouched. An
// empty TeamID string clears the team.
type UpdateUserRequestDTO struct {
	Role     *users_enums.UserRole `json:"role"`
	IsActive *bool                 `json:"isActive"`
	TeamID   *string               `json:"teamId"`
}

type ResetUserPasswordRequestDTO struct {
	SendEmail bool `json:"sendEmail"`
}

type ResetUserPasswordResponseDTO struct {
	TemporaryPassword string `json:"temporaryPassword"`
	EmailQueued       bool   `json:"emailQueued"`
}
