package users_testing

import (
	"fmt"
	"strings"
	"time"

	users_dto "pocketprc/internal/features/users/dto"
	users_enums "pocketprc/internal/features/users/enums"
	users_models "pocketprc/internal/features/users/models"
	users_repositories "pocketprc/internal/features/users/repositories"
	users_services "pocketprc/internal/features/users/services"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const TestPassword = "testpassword123"

var testPasswordHash = func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}()

func CreateTestUser(role users_enums.UserRole) *users_dto.SignInResponseDTO {
	return createTestUser(role, nil, true)
}

func CreateTestUserInTeam(role users_enums.UserRole, teamID uuid.UUID) *users_dto.SignInResponseDTO {
	return createTestUser(role, &teamID, true)
}

// CreateInactiveTestUser returns credentials for a deactivated account. Its
// token is rejected by the auth middleware.
func CreateInactiveTestUser(role users_enums.UserRole) *users_dto.SignInResponseDTO {
	return createTestUser(role, nil, false)
}

func GetTestUser(userID uuid.UUID) *users_models.User {
	user, err := (&users_repositories.UserRepository{}).GetUserByID(userID)
	if err != nil {
		panic(err)
	}

	return user
}

func createTestUser(role users_enums.UserRole, teamID *uuid.UUID, isActive bool) *users_dto.SignInResponseDTO {
	userID := uuid.New()
	email := fmt.Sprintf("%s-%s@test.com", strings.ReplaceAll(string(role), "_", "-"), userID.String()[:8])

	now := time.Now().UTC().Truncate(time.Microsecond)
	user := &users_models.User{
		ID:                   userID,
		Name:                 "Test " + string(role),
		Email:                email,
		HashedPassword:       testPasswordHash,
		PasswordCreationTime: now,
		Role:                 role,
		TeamID:               teamID,
		IsActive:             isActive,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	userRepository := &users_repositories.UserRepository{}
	if err := userRepository.CreateUser(nil, user); err != nil {
		panic(err)
	}

	response, err := users_services.GetUserService().GenerateTokens(user)
	if err != nil {
		panic(err)
	}

	return response
}
