package teams_services

import (
	"pocketprc/internal/features/activity_logs"
	"pocketprc/internal/features/mail"
	teams_repositories "pocketprc/internal/features/teams/repositories"
	users_repositories "pocketprc/internal/features/users/repositories"
	users_services "pocketprc/internal/features/users/services"
	"pocketprc/internal/util/logger"
)

var teamRepository = &teams_repositories.TeamRepository{}
var inviteRepository = &teams_repositories.InviteRepository{}
var userRepository = &users_repositories.UserRepository{}

var teamService = &TeamService{
	teamRepository:        teamRepository,
	inviteRepository:      inviteRepository,
	userRepository:        userRepository,
	activityLogService:    activity_logs.GetActivityLogService(),
	teamDeletionListeners: nil,
	logger:                logger.GetLogger(),
}
var membershipService = &MembershipService{
	teamRepository:     teamRepository,
	userRepository:     userRepository,
	activityLogService: activity_logs.GetActivityLogService(),
	logger:             logger.GetLogger(),
}
var inviteService = &InviteService{
	teamRepository:     teamRepository,
	inviteRepository:   inviteRepository,
	activityLogService: activity_logs.GetActivityLogService(),
	mailService:        mail.GetMailService(),
	logger:             logger.GetLogger(),
}

func GetTeamService() *TeamService {
	return teamService
}

func GetMembershipService() *MembershipService {
	return membershipService
}

func GetInviteService() *InviteService {
	return inviteService
}

func GetTeamRepository() *teams_repositories.TeamRepository {
	return teamRepository
}

func GetInviteRepository() *teams_repositories.InviteRepository {
	return inviteRepository
}

func SetupDependencies() {
	users_services.GetUserService().SetInviteRedeemer(inviteService)
}
