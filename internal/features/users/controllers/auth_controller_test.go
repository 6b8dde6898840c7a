package users_controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	users_dto "pocketprc/internal/features/users/dto"
	users_enums "pocketprc/internal/features/users/enums"
	users_services "pocketprc/internal/features/users/services"
	users_testing "pocketprc/internal/features/users/testing"
	test_utils "pocketprc/internal/util/testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func newEmail(prefix string) string {
	return prefix + "-" + uuid.New().String() + "@example.com"
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func Test_Register_WithValidData_ReturnsAgentWithTokens(t *testing.T) {
	router := createUserTestRouter()
	email := newEmail("Register")

	var response users_dto.SignInResponseDTO
	resp := test_utils.MakePostRequestAndUnmarshal(t, router, "/api/auth/register", "",
		users_dto.RegisterRequestDTO{Name: "New Agent", Email: email, Password: "password123"},
		http.StatusCreated, &response)

	assert.NotEmpty(t, response.Token)
	assert.Equal(t, strings.ToLower(email), response.User.Email)
	assert.Equal(t, users_enums.UserRoleAgent, response.User.Role)
	assert.Nil(t, response.User.TeamID)
	assert.NotContains(t, string(resp.Body), "password")

	cookie := findCookie(resp.Cookies, RefreshTokenCookie)
	if assert.NotNil(t, cookie) {
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, "/", cookie.Path)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		assert.NotEmpty(t, cookie.Value)
	}
}

func Test_Register_WithDuplicateEmail_ReturnsConflict(t *testing.T) {
	router := createUserTestRouter()
	email := newEmail("dup")
	request := users_dto.RegisterRequestDTO{Name: "Dup", Email: email, Password: "password123"}

	test_utils.MakePostRequest(t, router, "/api/auth/register", "", request, http.StatusCreated)

	request.Email = strings.ToUpper(email)
	resp := test_utils.MakePostRequest(t, router, "/api/auth/register", "", request, http.StatusConflict)
	assert.Contains(t, string(resp.Body), "Email already registered")
}

func Test_Register_WithShortPassword_ReturnsBadRequest(t *testing.T) {
	router := createUserTestRouter()

	test_utils.MakePostRequest(t, router, "/api/auth/register", "",
		users_dto.RegisterRequestDTO{Name: "Short", Email: newEmail("short"), Password: "12345"},
		http.StatusBadRequest)
}

func Test_Register_WithUnknownInviteToken_RollsBackUserCreation(t *testing.T) {
	router := createUserTestRouter()
	email := newEmail("invite")

	resp := test_utils.MakePostRequest(t, router, "/api/auth/register", "",
		users_dto.RegisterRequestDTO{Name: "Invitee", Email: email, Password: "password123", InviteToken: "deadbeef"},
		http.StatusBadRequest)
	assert.Contains(t, string(resp.Body), "Invalid or expired invite token")

	test_utils.MakePostRequest(t, router, "/api/auth/register", "",
		users_dto.RegisterRequestDTO{Name: "Invitee", Email: email, Password: "password123"},
		http.StatusCreated)
}

func Test_Login_WithValidCredentials_ReturnsTokenAndCookie(t *testing.T) {
	router := createUserTestRouter()
	user := users_testing.CreateTestUser(users_enums.UserRoleAgent)

	var response users_dto.SignInResponseDTO
	resp := test_utils.MakePostRequestAndUnmarshal(t, router, "/api/auth/login", "",
		users_dto.LoginRequestDTO{Email: strings.ToUpper(user.Email), Password: users_testing.TestPassword},
		http.StatusOK, &response)

	assert.Equal(t, user.UserID, response.UserID)
	assert.NotEmpty(t, response.Token)
	assert.NotNil(t, findCookie(resp.Cookies, RefreshTokenCookie))
}

func Test_Login_WithWrongPasswordOrUnknownEmail_ReturnsSameUnauthorizedMessage(t *testing.T) {
	router := createUserTestRouter()
	user := users_testing.CreateTestUser(users_enums.UserRoleAgent)

	wrongPassword := test_utils.MakePostRequest(t, router, "/api/auth/login", "",
		users_dto.LoginRequestDTO{Email: user.Email, Password: "wrong-password"}, http.StatusUnauthorized)
	unknownEmail := test_utils.MakePostRequest(t, router, "/api/auth/login", "",
		users_dto.LoginRequestDTO{Email: newEmail("ghost"), Password: "wrong-password"}, http.StatusUnauthorized)

	assert.Equal(t, string(wrongPassword.Body), string(unknownEmail.Body))
	assert.Contains(t, string(wrongPassword.Body), "Invalid email or password")
}

func Test_Login_WhenAccountDeactivated_ReturnsForbidden(t *testing.T) {
	router := createUserTestRouter()
	user := users_testing.CreateInactiveTestUser(users_enums.UserRoleAgent)

	resp := test_utils.MakePostRequest(t, router, "/api/auth/login", "",
		users_dto.LoginRequestDTO{Email: user.Email, Password: users_testing.TestPassword}, http.StatusForbidden)
	assert.Contains(t, string(resp.Body), "Account is deactivated")
}

func Test_Login_WhenLimiterExhausted_ReturnsTooManyRequests(t *testing.T) {
	router := createUserTestRouter()
	GetAuthController().SetLoginLimiter(rate.NewLimiter(rate.Limit(0.001), 1))
	defer GetAuthController().SetLoginLimiter(rate.NewLimiter(rate.Limit(1000), 1000))

	request := users_dto.LoginRequestDTO{Email: newEmail("limited"), Password: "whatever1"}

	test_utils.MakePostRequest(t, router, "/api/auth/login", "", request, http.StatusUnauthorized)
	test_utils.MakePostRequest(t, router, "/api/auth/login", "", request, http.StatusTooManyRequests)
}

func Test_Refresh_WithRefreshCookie_RotatesCookieAndIssuesAccessToken(t *testing.T) {
	router := createUserTestRouter()
	user := users_testing.CreateTestUser(users_enums.UserRoleAgent)

	var response users_dto.SignInResponseDTO
	resp := test_utils.MakeRequest(t, router, test_utils.RequestOptions{
		Method:         http.MethodPost,
		URL:            "/api/auth/refresh",
		Cookies:        []*http.Cookie{{Name: RefreshTokenCookie, Value: user.RefreshToken}},
		ExpectedStatus: http.StatusOK,
	})
	assert.NoError(t, json.Unmarshal(resp.Body, &response))
	assert.NotEmpty(t, response.Token)
	assert.NotNil(t, findCookie(resp.Cookies, RefreshTokenCookie))

	var profile users_dto.UserProfileResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(t, router, "/api/auth/me", "Bearer "+response.Token, http.StatusOK, &profile)
	assert.Equal(t, user.UserID, profile.ID)
}

func Test_Refresh_WithoutCookieOrWithAccessToken_ReturnsUnauthorized(t *testing.T) {
	router := createUserTestRouter()
	user := users_testing.CreateTestUser(users_enums.UserRoleAgent)

	test_utils.MakePostRequest(t, router, "/api/auth/refresh", "", nil, http.StatusUnauthorized)

	test_utils.MakeRequest(t, router, test_utils.RequestOptions{
		Method:         http.MethodPost,
		URL:            "/api/auth/refresh",
		Cookies:        []*http.Cookie{{Name: RefreshTokenCookie, Value: user.Token}},
		ExpectedStatus: http.StatusUnauthorized,
	})
}

func Test_AccessToken_WhenUsedAsRefreshOrViceVersa_IsRejected(t *testing.T) {
	router := createUserTestRouter()
	user := users_testing.CreateTestUser(users_enums.UserRoleAgent)

	test_utils.MakeGetRequest(t, router, "/api/auth/me", "Bearer "+user.RefreshToken, http.StatusUnauthorized)
}

func Test_Logout_ClearsRefreshCookie(t *testing.T) {
	router := createUserTestRouter()

	resp := test_utils.MakePostRequest(t, router, "/api/auth/logout", "", nil, http.StatusOK)

	cookie := findCookie(resp.Cookies, RefreshTokenCookie)
	if assert.NotNil(t, cookie) {
		assert.Empty(t, cookie.Value)
		assert.True(t, cookie.MaxAge < 0)
	}
}

func Test_ForgotPassword_ForKnownAndUnknownEmail_AnswersIdentically(t *testing.T) {
	router := createUserTestRouter()
	user := users_testing.CreateTestUser(users_enums.UserRoleAgent)

	known := test_utils.MakePostRequest(t, router, "/api/auth/forgot-password", "",
		users_dto.ForgotPasswordRequestDTO{Email: user.Email}, http.StatusOK)
	unknown := test_utils.MakePostRequest(t, router, "/api/auth/forgot-password", "",
		users_dto.ForgotPasswordRequestDTO{Email: newEmail("nobody")}, http.StatusOK)

	assert.Equal(t, string(known.Body), string(unknown.Body))
}

func Test_ResetPassword_WithIssuedToken_ChangesPasswordAndInvalidatesOldTokens(t *testing.T) {
	router := createUserTestRouter()
	user := users_testing.CreateTestUser(users_enums.UserRoleAgent)

	rawToken, err := users_services.GetUserService().IssuePasswordResetToken(user.UserID)
	assert.NoError(t, err)

	test_utils.MakePostRequest(t, router, "/api/auth/reset-password", "",
		users_dto.ResetPasswordRequestDTO{Token: rawToken, Password: "brand-new-password"}, http.StatusOK)

	test_utils.MakeGetRequest(t, router, "/api/auth/me", "Bearer "+user.Token, http.StatusUnauthorized)

	test_utils.MakePostRequest(t, router, "/api/auth/login", "",
		users_dto.LoginRequestDTO{Email: user.Email, Password: "brand-new-password"}, http.StatusOK)
}

func Test_ResetPassword_WhenTokenReused_ReturnsBadRequest(t *testing.T) {
	router := createUserTestRouter()
	user := users_testing.CreateTestUser(users_enums.UserRoleAgent)

	rawToken, err := users_services.GetUserService().IssuePasswordResetToken(user.UserID)
	assert.NoError(t, err)

	request := users_dto.ResetPasswordRequestDTO{Token: rawToken, Password: "first-new-password"}
	test_utils.MakePostRequest(t, router, "/api/auth/reset-password", "", request, http.StatusOK)

	request.Password = "second-new-password"
	resp := test_utils.MakePostRequest(t, router, "/api/auth/reset-password", "", request, http.StatusBadRequest)
	assert.Contains(t, string(resp.Body), "Invalid or expired reset token")

	unknown := test_utils.MakePostRequest(t, router, "/api/auth/reset-password", "",
		users_dto.ResetPasswordRequestDTO{Token: "not-a-token", Password: "whatever123"}, http.StatusBadRequest)
	assert.Equal(t, string(resp.Body), string(unknown.Body))
}

func Test_GetCurrentUser_WithoutToken_ReturnsUnauthorized(t *testing.T) {
	router := createUserTestRouter()

	test_utils.MakeGetRequest(t, router, "/api/auth/me", "", http.StatusUnauthorized)
	test_utils.MakeGetRequest(t, router, "/api/auth/me", "Bearer not-a-jwt", http.StatusUnauthorized)
}

func Test_GetCurrentUser_WithValidToken_ReturnsSanitizedProfile(t *testing.T) {
	router := createUserTestRouter()
	user := users_testing.CreateTestUser(users_enums.UserRoleTeamLead)

	var profile users_dto.UserProfileResponseDTO
	resp := test_utils.MakeGetRequestAndUnmarshal(t, router, "/api/auth/me", "Bearer "+user.Token,
		http.StatusOK, &profile)

	assert.Equal(t, user.UserID, profile.ID)
	assert.Equal(t, users_enums.UserRoleTeamLead, profile.Role)
	assert.True(t, profile.IsActive)
	assert.NotContains(t, string(resp.Body), "hashed")
}

func Test_UpdateCurrentUser_WhenChangingPasswordWithoutCurrent_ReturnsBadRequest(t *testing.T) {
	router := createUserTestRouter()
	user := users_testing.CreateTestUser(users_enums.UserRoleAgent)

	resp := test_utils.MakePutRequest(t, router, "/api/auth/me", "Bearer "+user.Token,
		users_dto.UpdateProfileRequestDTO{NewPassword: "another-password"}, http.StatusBadRequest)
	assert.Contains(t, string(resp.Body), "Current password is required")

	resp = test_utils.MakePutRequest(t, router, "/api/auth/me", "Bearer "+user.Token,
		users_dto.UpdateProfileRequestDTO{CurrentPassword: "wrong-one", NewPassword: "another-password"},
		http.StatusBadRequest)
	assert.Contains(t, string(resp.Body), "Current password is incorrect")
}

func Test_UpdateCurrentUser_WithNameAndPassword_UpdatesProfileAndRevokesOldToken(t *testing.T) {
	router := createUserTestRouter()
	user := users_testing.CreateTestUser(users_enums.UserRoleAgent)
	newName := "Renamed Agent"
	avatar := "https://cdn.example.com/a.png"

	var profile users_dto.UserProfileResponseDTO
	test_utils.MakePutRequestAndUnmarshal(t, router, "/api/auth/me", "Bearer "+user.Token,
		users_dto.UpdateProfileRequestDTO{
			Name:            &newName,
			AvatarURL:       &avatar,
			CurrentPassword: users_testing.TestPassword,
			NewPassword:     "changed-password",
		},
		http.StatusOK, &profile)

	assert.Equal(t, newName, profile.Name)
	if assert.NotNil(t, profile.AvatarURL) {
		assert.Equal(t, avatar, *profile.AvatarURL)
	}

	test_utils.MakeGetRequest(t, router, "/api/auth/me", "Bearer "+user.Token, http.StatusUnauthorized)
	test_utils.MakePostRequest(t, router, "/api/auth/login", "",
		users_dto.LoginRequestDTO{Email: user.Email, Password: "changed-password"}, http.StatusOK)
}
