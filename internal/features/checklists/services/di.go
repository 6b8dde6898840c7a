package checklists_services

import (
	"sync"

	"pocketprc/internal/features/activity_logs"
	checklists_repositories "pocketprc/internal/features/checklists/repositories"
	teams_services "pocketprc/internal/features/teams/services"
	users_repositories "pocketprc/internal/features/users/repositories"
	"pocketprc/internal/util/logger"
)

var checklistRepository = &checklists_repositories.ChecklistRepository{}

var checklistService = &ChecklistService{
	checklistRepository: checklistRepository,
	userRepository:      &users_repositories.UserRepository{},
	activityLogService:  activity_logs.GetActivityLogService(),
	attachmentLister:    nil,
	logger:              logger.GetLogger(),
}

func GetChecklistService() *ChecklistService {
	return checklistService
}

var setupOnce sync.Once

func SetupDependencies() {
	setupOnce.Do(func() {
		teams_services.GetTeamService().AddTeamDeletionListener(checklistService)
	})
}
