package attachments

import (
	"sync"

	"pocketprc/internal/features/activity_logs"
	checklists_services "pocketprc/internal/features/checklists/services"
	"pocketprc/internal/objectstore"
	"pocketprc/internal/util/logger"
)

var attachmentRepository = &AttachmentRepository{}

var attachmentService = &AttachmentService{
	attachmentRepository: attachmentRepository,
	checklistService:     checklists_services.GetChecklistService(),
	activityLogService:   activity_logs.GetActivityLogService(),
	objectStorage:        nil,
	logger:               logger.GetLogger(),
}

var attachmentController = &AttachmentController{
	attachmentService: attachmentService,
	logger:            logger.GetLogger(),
}

var setupOnce sync.Once

func GetAttachmentService() *AttachmentService {
	return attachmentService
}

func GetAttachmentController() *AttachmentController {
	return attachmentController
}

// SetupDependencies connects to object storage and exposes attachments to
// checklist responses.
func SetupDependencies() {
	setupOnce.Do(func() {
		if attachmentService.objectStorage == nil {
			attachmentService.objectStorage = objectstore.GetObjectStore()
		}

		checklists_services.GetChecklistService().SetAttachmentLister(attachmentService)
	})
}
