package users_controllers

import (
	"fmt"
	"net/http"
	"testing"

	users_dto "pocketprc/internal/features/users/dto"
	users_enums "pocketprc/internal/features/users/enums"
	users_testing "pocketprc/internal/features/users/testing"
	test_utils "pocketprc/internal/util/testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func Test_ListUsers_WhenCallerIsNotSuperAdmin_ReturnsForbidden(t *testing.T) {
	router := createUserTestRouter()
	owner := users_testing.CreateTestUser(users_enums.UserRoleOwner)

	test_utils.MakeGetRequest(t, router, "/api/admin/users", "Bearer "+owner.Token, http.StatusForbidden)
}

func Test_ListUsers_AsSuperAdmin_ReturnsNewestFirstWithClampedLimit(t *testing.T) {
	router := createUserTestRouter()
	admin := users_testing.CreateTestUser(users_enums.UserRoleSuperAdmin)
	newest := users_testing.CreateTestUser(users_enums.UserRoleAgent)

	var response users_dto.ListUsersResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(t, router, "/api/admin/users?limit=5000", "Bearer "+admin.Token,
		http.StatusOK, &response)

	assert.Equal(t, 1000, response.Limit)
	assert.GreaterOrEqual(t, response.Total, int64(2))
	found := false
	for i, user := range response.Users {
		if user.ID == newest.UserID {
			found = true
		}
		if i > 0 {
			assert.False(t, user.CreatedAt.After(response.Users[i-1].CreatedAt))
		}
	}
	assert.True(t, found)

	test_utils.MakeGetRequestAndUnmarshal(t, router, "/api/admin/users", "Bearer "+admin.Token,
		http.StatusOK, &response)
	assert.Equal(t, 100, response.Limit)
}

func Test_UpdateUser_WhenTargetIsSelf_RejectsRoleChangeAndDeactivation(t *testing.T) {
	router := createUserTestRouter()
	admin := users_testing.CreateTestUser(users_enums.UserRoleSuperAdmin)
	url := fmt.Sprintf("/api/admin/users/%s", admin.UserID)

	role := users_enums.UserRoleAgent
	resp := test_utils.MakePutRequest(t, router, url, "Bearer "+admin.Token,
		users_dto.UpdateUserRequestDTO{Role: &role}, http.StatusBadRequest)
	assert.Contains(t, string(resp.Body), "Cannot change your own role")

	inactive := false
	resp = test_utils.MakePutRequest(t, router, url, "Bearer "+admin.Token,
		users_dto.UpdateUserRequestDTO{IsActive: &inactive}, http.StatusBadRequest)
	assert.Contains(t, string(resp.Body), "Cannot deactivate your own account")

	teamID := uuid.New().String()
	resp = test_utils.MakePutRequest(t, router, url, "Bearer "+admin.Token,
		users_dto.UpdateUserRequestDTO{TeamID: &teamID}, http.StatusBadRequest)
	assert.Contains(t, string(resp.Body), "Cannot change your own team")

	noTeam := ""
	resp = test_utils.MakePutRequest(t, router, url, "Bearer "+admin.Token,
		users_dto.UpdateUserRequestDTO{TeamID: &noTeam}, http.StatusBadRequest)
	assert.Contains(t, string(resp.Body), "Cannot change your own team")
}

func Test_UpdateUser_WithValidRoleAndDeactivation_AppliesChangesImmediately(t *testing.T) {
	router := createUserTestRouter()
	admin := users_testing.CreateTestUser(users_enums.UserRoleSuperAdmin)
	target := users_testing.CreateTestUser(users_enums.UserRoleAgent)
	url := fmt.Sprintf("/api/admin/users/%s", target.UserID)

	role := users_enums.UserRoleTeamLead
	var profile users_dto.UserProfileResponseDTO
	test_utils.MakePutRequestAndUnmarshal(t, router, url, "Bearer "+admin.Token,
		users_dto.UpdateUserRequestDTO{Role: &role}, http.StatusOK, &profile)
	assert.Equal(t, users_enums.UserRoleTeamLead, profile.Role)

	test_utils.MakeGetRequestAndUnmarshal(t, router, "/api/auth/me", "Bearer "+target.Token, http.StatusOK, &profile)
	assert.Equal(t, users_enums.UserRoleTeamLead, profile.Role)

	inactive := false
	test_utils.MakePutRequest(t, router, url, "Bearer "+admin.Token,
		users_dto.UpdateUserRequestDTO{IsActive: &inactive}, http.StatusOK)

	test_utils.MakeGetRequest(t, router, "/api/auth/me", "Bearer "+target.Token, http.StatusUnauthorized)
}

func Test_UpdateUser_WithInvalidInput_ReturnsErrors(t *testing.T) {
	router := createUserTestRouter()
	admin := users_testing.CreateTestUser(users_enums.UserRoleSuperAdmin)
	target := users_testing.CreateTestUser(users_enums.UserRoleAgent)
	url := fmt.Sprintf("/api/admin/users/%s", target.UserID)

	role := users_enums.UserRole("broker")
	test_utils.MakePutRequest(t, router, url, "Bearer "+admin.Token,
		users_dto.UpdateUserRequestDTO{Role: &role}, http.StatusBadRequest)

	missingTeam := uuid.New().String()
	resp := test_utils.MakePutRequest(t, router, url, "Bearer "+admin.Token,
		users_dto.UpdateUserRequestDTO{TeamID: &missingTeam}, http.StatusBadRequest)
	assert.Contains(t, string(resp.Body), "Team not found")

	test_utils.MakePutRequest(t, router, url, "Bearer "+admin.Token,
		users_dto.UpdateUserRequestDTO{}, http.StatusBadRequest)

	test_utils.MakePutRequest(t, router, "/api/admin/users/"+uuid.New().String(), "Bearer "+admin.Token,
		users_dto.UpdateUserRequestDTO{Role: &role}, http.StatusBadRequest)

	validRole := users_enums.UserRoleIsa
	test_utils.MakePutRequest(t, router, "/api/admin/users/"+uuid.New().String(), "Bearer "+admin.Token,
		users_dto.UpdateUserRequestDTO{Role: &validRole}, http.StatusNotFound)

	test_utils.MakePutRequest(t, router, "/api/admin/users/not-a-uuid", "Bearer "+admin.Token,
		users_dto.UpdateUserRequestDTO{Role: &validRole}, http.StatusBadRequest)
}

func Test_ResetUserPassword_AsSuperAdmin_ReturnsTemporaryPasswordThatWorks(t *testing.T) {
	router := createUserTestRouter()
	admin := users_testing.CreateTestUser(users_enums.UserRoleSuperAdmin)
	target := users_testing.CreateTestUser(users_enums.UserRoleAgent)

	var response users_dto.ResetUserPasswordResponseDTO
	test_utils.MakePostRequestAndUnmarshal(t, router,
		fmt.Sprintf("/api/admin/users/%s/reset-password", target.UserID), "Bearer "+admin.Token,
		nil, http.StatusOK, &response)

	assert.Len(t, response.TemporaryPassword, 8)
	assert.False(t, response.EmailQueued)

	test_utils.MakeGetRequest(t, router, "/api/auth/me", "Bearer "+target.Token, http.StatusUnauthorized)
	test_utils.MakePostRequest(t, router, "/api/auth/login", "",
		users_dto.LoginRequestDTO{Email: target.Email, Password: response.TemporaryPassword}, http.StatusOK)
}
