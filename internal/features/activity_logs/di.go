package activity_logs

import (
	users_services "pocketprc/internal/features/users/services"
	"pocketprc/internal/util/logger"
)

var activityLogRepository = &ActivityLogRepository{}
var activityLogService = &ActivityLogService{
	activityLogRepository: activityLogRepository,
	logger:                logger.GetLogger(),
}

var activityLogController = &ActivityLogController{
	activityLogService: activityLogService,
	logger:             logger.GetLogger(),
}

func GetActivityLogService() *ActivityLogService {
	return activityLogService
}

func GetActivityLogController() *ActivityLogController {
	return activityLogController
}

func SetupDependencies() {
	users_services.GetUserService().SetActivityLogWriter(activityLogService)
	users_services.GetManagementService().SetActivityLogWriter(activityLogService)
}
