package checklists_interfaces

import (
	checklists_dto "pocketprc/internal/features/checklists/dto"

	"github.com/google/uuid"
)

type AttachmentLister interface {
	ListChecklistAttachments(checklistID uuid.UUID) ([]*checklists_dto.AttachmentDTO, error)
}
