package cleanup

import (
	teams_services "pocketprc/internal/features/teams/services"
	users_repositories "pocketprc/internal/features/users/repositories"
	"pocketprc/internal/util/logger"
)

var cleanupBackgroundService = &CleanupBackgroundService{
	inviteRepository:        teams_services.GetInviteRepository(),
	passwordResetRepository: &users_repositories.PasswordResetRepository{},
	logger:                  logger.GetLogger(),
}

func GetCleanupBackgroundService() *CleanupBackgroundService {
	return cleanupBackgroundService
}
