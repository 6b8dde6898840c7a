package attachments

import (
	"errors"

	checklists_dto "pocketprc/internal/features/checklists/dto"
	"pocketprc/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttachmentRepository struct{}

func (r *AttachmentRepository) CreateAttachments(tx *gorm.DB, attachments []*Attachment) error {
	if len(attachments) == 0 {
		return nil
	}

	return storage.GetDbOr(tx).Create(&attachments).Error
}

// GetAttachmentByID returns nil, nil when the attachment does not exist.
func (r *AttachmentRepository) GetAttachmentByID(attachmentID uuid.UUID) (*Attachment, error) {
	var attachment Attachment

	if err := storage.GetDb().Where("id = ?", attachmentID).First(&attachment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &attachment, nil
}

func (r *AttachmentRepository) GetByChecklist(checklistID uuid.UUID) ([]*checklists_dto.AttachmentDTO, error) {
	attachments := make([]*checklists_dto.AttachmentDTO, 0)

	err := storage.GetDb().Model(&Attachment{}).
		Where("checklist_id = ?", checklistID).
		Order("created_at DESC, filename DESC").
		Find(&attachments).Error

	return attachments, err
}

func (r *AttachmentRepository) DeleteAttachment(attachmentID uuid.UUID) error {
	return storage.GetDb().Where("id = ?", attachmentID).Delete(&Attachment{}).Error
}
