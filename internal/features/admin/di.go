package admin

import (
	"pocketprc/internal/features/activity_logs"
	checklists_services "pocketprc/internal/features/checklists/services"
	system_metrics "pocketprc/internal/features/system/metrics"
	teams_services "pocketprc/internal/features/teams/services"
	users_repositories "pocketprc/internal/features/users/repositories"
	"pocketprc/internal/util/logger"
)

var adminService = &AdminService{
	teamService:        teams_services.GetTeamService(),
	teamRepository:     teams_services.GetTeamRepository(),
	userRepository:     &users_repositories.UserRepository{},
	checklistService:   checklists_services.GetChecklistService(),
	activityLogService: activity_logs.GetActivityLogService(),
	hostMetricsService: system_metrics.GetHostMetricsService(),
}

var adminController = &AdminController{
	adminService: adminService,
	logger:       logger.GetLogger(),
}

func GetAdminController() *AdminController {
	return adminController
}
