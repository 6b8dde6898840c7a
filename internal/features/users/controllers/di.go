package users_controllers

import (
	users_services "pocketprc/internal/features/users/services"
	"pocketprc/internal/util/logger"

	"golang.org/x/time/rate"
)

var authController = &AuthController{
	userService:  users_services.GetUserService(),
	loginLimiter: rate.NewLimiter(rate.Limit(5), 10),
	logger:       logger.GetLogger(),
}

var managementController = &ManagementController{
	managementService: users_services.GetManagementService(),
	logger:            logger.GetLogger(),
}

func GetAuthController() *AuthController {
	return authController
}

func GetManagementController() *ManagementController {
	return managementController
}
