package users_services

import (
	"pocketprc/internal/features/mail"
	users_repositories "pocketprc/internal/features/users/repositories"
	"pocketprc/internal/util/logger"
)

var secretKeyRepository = &users_repositories.SecretKeyRepository{}
var userRepository = &users_repositories.UserRepository{}
var passwordResetRepository = &users_repositories.PasswordResetRepository{}

var userService = &UserService{
	userRepository:          userRepository,
	secretKeyRepository:     secretKeyRepository,
	passwordResetRepository: passwordResetRepository,
	mailService:             mail.GetMailService(),
	logger:                  logger.GetLogger(),
}
var managementService = &UserManagementService{
	userRepository: userRepository,
	mailService:    mail.GetMailService(),
	logger:         logger.GetLogger(),
}

func GetUserService() *UserService {
	return userService
}

func GetManagementService() *UserManagementService {
	return managementService
}
