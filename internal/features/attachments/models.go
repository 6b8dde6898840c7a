package attachments

import (
	"time"

	checklists_dto "pocketprc/internal/features/checklists/dto"

	"github.com/google/uuid"
)

type Attachment struct {
	ID           uuid.UUID  `json:"id"           gorm:"column:id"`
	ChecklistID  uuid.UUID  `json:"checklistId"  gorm:"column:checklist_id"`
	UploadedBy   *uuid.UUID `json:"uploadedBy"   gorm:"column:uploaded_by"`
	Filename     string     `json:"filename"     gorm:"column:filename"`
	OriginalName string     `json:"originalName" gorm:"column:original_name"`
	MimeType     string     `json:"mimeType"     gorm:"column:mime_type"`
	SizeBytes    int64      `json:"sizeBytes"    gorm:"column:size_bytes"`
	StoragePath  string     `json:"-"            gorm:"column:storage_path"`
	CreatedAt    time.Time  `json:"createdAt"    gorm:"column:created_at"`
}

func (Attachment) TableName() string {
	return "attachments"
}

func (a *Attachment) ToDTO() *checklists_dto.AttachmentDTO {
	return &checklists_dto.AttachmentDTO{
		ID:           a.ID,
		ChecklistID:  a.ChecklistID,
		UploadedBy:   a.UploadedBy,
		Filename:     a.Filename,
		OriginalName: a.OriginalName,
		MimeType:     a.MimeType,
		SizeBytes:    a.SizeBytes,
		CreatedAt:    a.CreatedAt,
	}
}

type UploadResponseDTO struct {
	Attachments []*checklists_dto.AttachmentDTO `json:"attachments"`
}

type MessageResponseDTO struct {
	Message string `json:"message"`
}
