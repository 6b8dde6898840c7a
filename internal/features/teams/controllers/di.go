package teams_controllers

import (
	teams_services "pocketprc/internal/features/teams/services"
	"pocketprc/internal/util/logger"
)

var teamController = &TeamController{
	teamService:       teams_services.GetTeamService(),
	membershipService: teams_services.GetMembershipService(),
	inviteService:     teams_services.GetInviteService(),
	logger:            logger.GetLogger(),
}

func GetTeamController() *TeamController {
	return teamController
}
