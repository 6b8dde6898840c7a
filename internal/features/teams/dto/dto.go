package teams_dto

import (
	"time"

	users_enums "pocketprc/internal/features/users/enums"

	"github.com/google/uuid"
)

type CreateTeamRequestDTO struct {
	Name          string  `json:"name"          binding:"required,max=255"`
	BrokerageName *string `json:"brokerageName"`
}

type UpdateTeamRequestDTO struct {
	Name          *string `json:"name"`
	BrokerageName *string `json:"brokerageName"`
}

type TeamResponseDTO struct {
	ID             uuid.UUID  `json:"id"             gorm:"column:id"`
	Name           string     `json:"name"           gorm:"column:name"`
	BrokerageName  *string    `json:"brokerageName"  gorm:"column:brokerage_name"`
	CreatedBy      *uuid.UUID `json:"createdBy"      gorm:"column:created_by"`
	CreatedAt      time.Time  `json:"createdAt"      gorm:"column:created_at"`
	UpdatedAt      time.Time  `json:"updatedAt"      gorm:"column:updated_at"`
	MemberCount    int64      `json:"memberCount"    gorm:"column:member_count"`
	ChecklistCount int64      `json:"checklistCount" gorm:"column:checklist_count"`
}

type ListTeamsResponseDTO struct {
	Teams []*TeamResponseDTO `json:"teams"`
}

type TeamEnvelopeDTO struct {
	Team *TeamResponseDTO `json:"team"`
}

type CreateInviteRequestDTO struct {
	Email string                `json:"email" binding:"required,email"`
	Role  *users_enums.UserRole `json:"role"`
}

type InviteResponseDTO struct {
	ID        uuid.UUID            `json:"id"`
	Email     string               `json:"email"`
	Role      users_enums.UserRole `json:"role"`
	Token     string               `json:"token"`
	ExpiresAt time.Time            `json:"expiresAt"`
	Link      string               `json:"link"`
}

type CreateInviteResponseDTO struct {
	Invite *InviteResponseDTO `json:"invite"`
}

type PendingInviteDTO struct {
	ID            uuid.UUID            `json:"id"            gorm:"column:id"`
	Email         string               `json:"email"         gorm:"column:email"`
	Role          users_enums.UserRole `json:"role"          gorm:"column:role"`
	ExpiresAt     time.Time            `json:"expiresAt"     gorm:"column:expires_at"`
	CreatedAt     time.Time            `json:"createdAt"     gorm:"column:created_at"`
	InvitedByName *string              `json:"invitedByName" gorm:"column:invited_by_name"`
}

type ListInvitesResponseDTO struct {
	Invites []*PendingInviteDTO `json:"invites"`
}

type MemberDTO struct {
	ID        uuid.UUID            `json:"id"`
	Name      string               `json:"name"`
	Email     string               `json:"email"`
	Role      users_enums.UserRole `json:"role"`
	AvatarURL *string              `json:"avatarUrl"`
	IsActive  bool                 `json:"isActive"`
	CreatedAt time.Time            `json:"createdAt"`
}

type ListMembersResponseDTO struct {
	Members []*MemberDTO `json:"members"`
}

type ChangeMemberRoleRequestDTO struct {
	Role users_enums.UserRole `json:"role" binding:"required"`
}

type MemberEnvelopeDTO struct {
	User *MemberDTO `json:"user"`
}

type TransferOwnershipRequestDTO struct {
	NewOwnerID uuid.UUID `json:"newOwnerId" binding:"required"`
}

type MessageResponseDTO struct {
	Message string `json:"message"`
}
