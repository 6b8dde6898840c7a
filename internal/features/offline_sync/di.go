package offline_sync

import (
	"pocketprc/internal/features/activity_logs"
	checklists_repositories "pocketprc/internal/features/checklists/repositories"
	checklists_services "pocketprc/internal/features/checklists/services"
	"pocketprc/internal/util/logger"
	"pocketprc/internal/util/rate_limit"
)

const (
	syncRequestsPerSecond = 2
	syncBurst             = 10
)

var syncService = &SyncService{
	checklistService:    checklists_services.GetChecklistService(),
	checklistRepository: &checklists_repositories.ChecklistRepository{},
	activityLogService:  activity_logs.GetActivityLogService(),
	rateLimiter:         rate_limit.NewRateLimiter("sync", syncRequestsPerSecond, syncBurst),
	logger:              logger.GetLogger(),
}

var syncController = &SyncController{
	syncService: syncService,
	logger:      logger.GetLogger(),
}

func GetSyncService() *SyncService {
	return syncService
}

func GetSyncController() *SyncController {
	return syncController
}
