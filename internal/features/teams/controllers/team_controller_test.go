package teams_controllers

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	teams_dto "pocketprc/internal/features/teams/dto"
	teams_services "pocketprc/internal/features/teams/services"
	teams_testing "pocketprc/internal/features/teams/testing"
	users_controllers "pocketprc/internal/features/users/controllers"
	users_dto "pocketprc/internal/features/users/dto"
	users_enums "pocketprc/internal/features/users/enums"
	users_middleware "pocketprc/internal/features/users/middleware"
	users_services "pocketprc/internal/features/users/services"
	users_testing "pocketprc/internal/features/users/testing"
	test_utils "pocketprc/internal/util/testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func createTeamTestRouter() *gin.Engine {
	router := teams_testing.CreateTestRouter(GetTeamController())

	authController := users_controllers.GetAuthController()
	authController.SetLoginLimiter(rate.NewLimiter(rate.Limit(1000), 1000))

	api := router.Group("/api")
	authController.RegisterRoutes(api)
	authController.RegisterProtectedRoutes(
		api.Group("", users_middleware.AuthMiddleware(users_services.GetUserService())),
	)

	return router
}

func createInvite(
	t *testing.T,
	router *gin.Engine,
	teamID uuid.UUID,
	token string,
	email string,
	role users_enums.UserRole,
) *teams_dto.InviteResponseDTO {
	var response teams_dto.CreateInviteResponseDTO
	test_utils.MakePostRequestAndUnmarshal(t, router,
		fmt.Sprintf("/api/teams/%s/invite", teamID), "Bearer "+token,
		teams_dto.CreateInviteRequestDTO{Email: email, Role: &role},
		http.StatusCreated, &response)

	return response.Invite
}

func Test_CreateTeam_WhenUserHasNoTeam_CreatorBecomesOwner(t *testing.T) {
	router := createTeamTestRouter()
	agent := users_testing.CreateTestUser(users_enums.UserRoleAgent)

	brokerage := "KW Downtown"
	var response teams_dto.TeamEnvelopeDTO
	test_utils.MakePostRequestAndUnmarshal(t, router, "/api/teams", "Bearer "+agent.Token,
		teams_dto.CreateTeamRequestDTO{Name: "  Downtown Team  ", BrokerageName: &brokerage},
		http.StatusCreated, &response)

	assert.Equal(t, "Downtown Team", response.Team.Name)
	assert.Equal(t, brokerage, *response.Team.BrokerageName)
	assert.Equal(t, int64(1), response.Team.MemberCount)

	user := users_testing.GetTestUser(agent.UserID)
	assert.Equal(t, users_enums.UserRoleOwner, user.Role)
	assert.Equal(t, response.Team.ID, *user.TeamID)
}

func Test_CreateTeam_WhenUserAlreadyInTeam_ReturnsBadRequest(t *testing.T) {
	router := createTeamTestRouter()
	team := teams_testing.CreateTestTeam("Existing")

	resp := test_utils.MakePostRequest(t, router, "/api/teams", "Bearer "+team.Owner.Token,
		teams_dto.CreateTeamRequestDTO{Name: "Second"}, http.StatusBadRequest)
	assert.Contains(t, string(resp.Body), "You already belong to a team")
}

func Test_CreateTeam_WhenSameUserCreatesConcurrently_OnlyOneTeamGetsTheCreator(t *testing.T) {
	createTeamTestRouter()
	agent := users_testing.CreateTestUser(users_enums.UserRoleAgent)
	snapshot := users_testing.GetTestUser(agent.UserID)

	const attempts = 4
	results := make([]*teams_dto.TeamResponseDTO, attempts)
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			creator := *snapshot
			results[i], errs[i] = teams_services.GetTeamService().CreateTeam(
				&teams_dto.CreateTeamRequestDTO{Name: fmt.Sprintf("Race %d", i)}, &creator)
		}(i)
	}
	wg.Wait()

	var created *teams_dto.TeamResponseDTO
	for i := range attempts {
		if errs[i] == nil {
			assert.Nil(t, created, "more than one create succeeded")
			created = results[i]
			continue
		}
		assert.Contains(t, errs[i].Error(), "You already belong to a team")
	}

	if !assert.NotNil(t, created) {
		return
	}
	user := users_testing.GetTestUser(agent.UserID)
	assert.Equal(t, created.ID, *user.TeamID)
	assert.Equal(t, users_enums.UserRoleOwner, user.Role)
}

func Test_CreateTeam_AsSuperAdmin_DoesNotJoinTeam(t *testing.T) {
	router := createTeamTestRouter()
	admin := users_testing.CreateTestUser(users_enums.UserRoleSuperAdmin)

	var response teams_dto.TeamEnvelopeDTO
	test_utils.MakePostRequestAndUnmarshal(t, router, "/api/teams", "Bearer "+admin.Token,
		teams_dto.CreateTeamRequestDTO{Name: "Admin Made"}, http.StatusCreated, &response)

	assert.Equal(t, int64(0), response.Team.MemberCount)

	user := users_testing.GetTestUser(admin.UserID)
	assert.Equal(t, users_enums.UserRoleSuperAdmin, user.Role)
	assert.Nil(t, user.TeamID)
}

func Test_ListTeams_WhenUserIsMemberOrTeamless_ReturnsOwnTeamOrEmpty(t *testing.T) {
	router := createTeamTestRouter()
	team := teams_testing.CreateTestTeam("Listed")
	teamless := users_testing.CreateTestUser(users_enums.UserRoleAgent)

	var response teams_dto.ListTeamsResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(t, router, "/api/teams", "Bearer "+team.Owner.Token,
		http.StatusOK, &response)
	assert.Len(t, response.Teams, 1)
	assert.Equal(t, team.Team.ID, response.Teams[0].ID)

	test_utils.MakeGetRequestAndUnmarshal(t, router, "/api/teams", "Bearer "+teamless.Token,
		http.StatusOK, &response)
	assert.NotNil(t, response.Teams)
	assert.Empty(t, response.Teams)
}

func Test_ListTeams_AsSuperAdmin_ReturnsAllTeams(t *testing.T) {
	router := createTeamTestRouter()
	admin := users_testing.CreateTestUser(users_enums.UserRoleSuperAdmin)
	first := teams_testing.CreateTestTeam("First")
	second := teams_testing.CreateTestTeam("Second")

	var response teams_dto.ListTeamsResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(t, router, "/api/teams", "Bearer "+admin.Token,
		http.StatusOK, &response)

	ids := map[uuid.UUID]bool{}
	for _, team := range response.Teams {
		ids[team.ID] = true
	}
	assert.True(t, ids[first.Team.ID])
	assert.True(t, ids[second.Team.ID])
}

func Test_GetTeam_WhenUserIsNotMember_ReturnsForbidden(t *testing.T) {
	router := createTeamTestRouter()
	team := teams_testing.CreateTestTeam("Private")
	outsider := teams_testing.CreateTestTeam("Other")

	test_utils.MakeGetRequest(t, router, fmt.Sprintf("/api/teams/%s", team.Team.ID),
		"Bearer "+outsider.Owner.Token, http.StatusForbidden)

	agent := teams_testing.AddTestMember(team, users_enums.UserRoleAgent)
	var response teams_dto.TeamEnvelopeDTO
	test_utils.MakeGetRequestAndUnmarshal(t, router, fmt.Sprintf("/api/teams/%s", team.Team.ID),
		"Bearer "+agent.Token, http.StatusOK, &response)
	assert.Equal(t, int64(2), response.Team.MemberCount)
}

func Test_GetTeam_WithInvalidID_ReturnsBadRequest(t *testing.T) {
	router := createTeamTestRouter()
	team := teams_testing.CreateTestTeam("Any")

	resp := test_utils.MakeGetRequest(t, router, "/api/teams/not-a-uuid", "Bearer "+team.Owner.Token,
		http.StatusBadRequest)
	assert.Contains(t, string(resp.Body), "Invalid team ID")
}

func Test_GetTeam_WhenTeamMissing_ReturnsNotFoundForSuperAdmin(t *testing.T) {
	router := createTeamTestRouter()
	admin := users_testing.CreateTestUser(users_enums.UserRoleSuperAdmin)

	resp := test_utils.MakeGetRequest(t, router, fmt.Sprintf("/api/teams/%s", uuid.New()),
		"Bearer "+admin.Token, http.StatusNotFound)
	assert.Contains(t, string(resp.Body), "Team not found")
}

func Test_UpdateTeam_WhenCallerIsManager_UpdatesTeam(t *testing.T) {
	router := createTeamTestRouter()
	team := teams_testing.CreateTestTeam("Before")
	lead := teams_testing.AddTestMember(team, users_enums.UserRoleTeamLead)
	agent := teams_testing.AddTestMember(team, users_enums.UserRoleAgent)
	url := fmt.Sprintf("/api/teams/%s", team.Team.ID)

	name := "After"
	test_utils.MakePutRequest(t, router, url, "Bearer "+agent.Token,
		teams_dto.UpdateTeamRequestDTO{Name: &name}, http.StatusForbidden)

	var response teams_dto.TeamEnvelopeDTO
	test_utils.MakePutRequestAndUnmarshal(t, router, url, "Bearer "+lead.Token,
		teams_dto.UpdateTeamRequestDTO{Name: &name}, http.StatusOK, &response)
	assert.Equal(t, "After", response.Team.Name)
}

func Test_CreateInvite_WhenOwnerInvites_ReturnsInviteWithRegisterLink(t *testing.T) {
	router := createTeamTestRouter()
	team := teams_testing.CreateTestTeam("Inviting")
	email := fmt.Sprintf("invitee-%s@test.com", uuid.New().String()[:8])

	invite := createInvite(t, router, team.Team.ID, team.Owner.Token, email, users_enums.UserRoleTeamLead)

	assert.Equal(t, email, invite.Email)
	assert.Equal(t, users_enums.UserRoleTeamLead, invite.Role)
	assert.Len(t, invite.Token, 64)
	assert.True(t, strings.HasSuffix(invite.Link, "/register?invite="+invite.Token))
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), invite.ExpiresAt, time.Minute)
}

func Test_CreateInvite_WhenRoleMissing_DefaultsToAgent(t *testing.T) {
	router := createTeamTestRouter()
	team := teams_testing.CreateTestTeam("Default Role")

	var response teams_dto.CreateInviteResponseDTO
	test_utils.MakePostRequestAndUnmarshal(t, router,
		fmt.Sprintf("/api/teams/%s/invite", team.Team.ID), "Bearer "+team.Owner.Token,
		map[string]string{"email": "Default-" + uuid.New().String()[:8] + "@Test.com"},
		http.StatusCreated, &response)

	assert.Equal(t, users_enums.UserRoleAgent, response.Invite.Role)
	assert.Equal(t, strings.ToLower(response.Invite.Email), response.Invite.Email)
}

func Test_CreateInvite_WhenRoleNotAllowed_ReturnsError(t *testing.T) {
	router := createTeamTestRouter()
	team := teams_testing.CreateTestTeam("Restricted")
	lead := teams_testing.AddTestMember(team, users_enums.UserRoleTeamLead)
	agent := teams_testing.AddTestMember(team, users_enums.UserRoleAgent)
	url := fmt.Sprintf("/api/teams/%s/invite", team.Team.ID)

	owner := users_enums.UserRoleOwner
	test_utils.MakePostRequest(t, router, url, "Bearer "+lead.Token,
		teams_dto.CreateInviteRequestDTO{Email: "x@test.com", Role: &owner}, http.StatusForbidden)

	superAdmin := users_enums.UserRoleSuperAdmin
	test_utils.MakePostRequest(t, router, url, "Bearer "+team.Owner.Token,
		teams_dto.CreateInviteRequestDTO{Email: "x@test.com", Role: &superAdmin}, http.StatusBadRequest)

	test_utils.MakePostRequest(t, router, url, "Bearer "+agent.Token,
		teams_dto.CreateInviteRequestDTO{Email: "x@test.com"}, http.StatusForbidden)

	test_utils.MakePostRequest(t, router, url, "Bearer "+team.Owner.Token,
		teams_dto.CreateInviteRequestDTO{Email: "not-an-email"}, http.StatusBadRequest)
}

func Test_Register_WithInviteToken_JoinsTeamWithInvitedRole(t *testing.T) {
	router := createTeamTestRouter()
	team := teams_testing.CreateTestTeam("Joinable")
	email := fmt.Sprintf("joiner-%s@test.com", uuid.New().String()[:8])
	invite := createInvite(t, router, team.Team.ID, team.Owner.Token, email, users_enums.UserRoleTransactionCoordinator)

	var response users_dto.SignInResponseDTO
	test_utils.MakePostRequestAndUnmarshal(t, router, "/api/auth/register", "",
		users_dto.RegisterRequestDTO{Name: "Joiner", Email: email, Password: "password123", InviteToken: invite.Token},
		http.StatusCreated, &response)

	user := users_testing.GetTestUser(response.UserID)
	assert.Equal(t, users_enums.UserRoleTransactionCoordinator, user.Role)
	assert.Equal(t, team.Team.ID, *user.TeamID)

	resp := test_utils.MakePostRequest(t, router, "/api/auth/register", "",
		users_dto.RegisterRequestDTO{
			Name:        "Second",
			Email:       "second-" + email,
			Password:    "password123",
			InviteToken: invite.Token,
		},
		http.StatusBadRequest)
	assert.Contains(t, string(resp.Body), "Invalid or expired invite token")
}

func Test_Register_WithInviteForAnotherEmail_JoinsTeam(t *testing.T) {
	router := createTeamTestRouter()
	team := teams_testing.CreateTestTeam("Forwarded")
	invite := createInvite(t, router, team.Team.ID, team.Owner.Token,
		fmt.Sprintf("intended-%s@test.com", uuid.New().String()[:8]), users_enums.UserRoleIsa)

	var response users_dto.SignInResponseDTO
	test_utils.MakePostRequestAndUnmarshal(t, router, "/api/auth/register", "",
		users_dto.RegisterRequestDTO{
			Name:        "Forwardee",
			Email:       fmt.Sprintf("forwardee-%s@test.com", uuid.New().String()[:8]),
			Password:    "secret",
			InviteToken: invite.Token,
		},
		http.StatusCreated, &response)

	user := users_testing.GetTestUser(response.UserID)
	assert.Equal(t, users_enums.UserRoleIsa, user.Role)
	assert.Equal(t, team.Team.ID, *user.TeamID)
}

func Test_AcceptInvite_WhenTokenAlreadyRedeemedAtRegistration_ReturnsBadRequest(t *testing.T) {
	router := createTeamTestRouter()
	team := teams_testing.CreateTestTeam("Replayed")
	email := fmt.Sprintf("replay-%s@test.com", uuid.New().String()[:8])
	invite := createInvite(t, router, team.Team.ID, team.Owner.Token, email, users_enums.UserRoleAgent)

	var registered users_dto.SignInResponseDTO
	test_utils.MakePostRequestAndUnmarshal(t, router, "/api/auth/register", "",
		users_dto.RegisterRequestDTO{Name: "Replayer", Email: email, Password: "password123", InviteToken: invite.Token},
		http.StatusCreated, &registered)

	resp := test_utils.MakePostRequest(t, router, "/api/auth/accept-invite", "Bearer "+registered.Token,
		users_dto.AcceptInviteRequestDTO{Token: invite.Token}, http.StatusBadRequest)
	assert.Contains(t, string(resp.Body), "Invalid or expired invite token")
}

func Test_AcceptInvite_WithInviteForAnotherEmail_ReturnsBadRequestAndKeepsInvite(t *testing.T) {
	router := createTeamTestRouter()
	team := teams_testing.CreateTestTeam("Mismatch")
	intended := users_testing.CreateTestUser(users_enums.UserRoleAgent)
	intruder := users_testing.CreateTestUser(users_enums.UserRoleAgent)
	invite := createInvite(t, router, team.Team.ID, team.Owner.Token, intended.Email, users_enums.UserRoleAgent)

	resp := test_utils.MakePostRequest(t, router, "/api/auth/accept-invite", "Bearer "+intruder.Token,
		users_dto.AcceptInviteRequestDTO{Token: invite.Token}, http.StatusBadRequest)
	assert.Contains(t, string(resp.Body), "Invalid or expired invite token")
	assert.Nil(t, users_testing.GetTestUser(intruder.UserID).TeamID)

	var profile users_dto.UserProfileResponseDTO
	test_utils.MakePostRequestAndUnmarshal(t, router, "/api/auth/accept-invite", "Bearer "+intended.Token,
		users_dto.AcceptInviteRequestDTO{Token: invite.Token}, http.StatusOK, &profile)
	assert.Equal(t, team.Team.ID, *profile.TeamID)
}

func Test_AcceptInvite_WhenInviteExpired_ReturnsBadRequest(t *testing.T) {
	router := createTeamTestRouter()
	team := teams_testing.CreateTestTeam("Expired")
	user := users_testing.CreateTestUser(users_enums.UserRoleAgent)
	invite := createInvite(t, router, team.Team.ID, team.Owner.Token, user.Email, users_enums.UserRoleAgent)

	err := teams_services.GetInviteRepository().SetInviteExpiryForTests(invite.ID, time.Now().Add(-time.Hour))
	assert.NoError(t, err)

	test_utils.MakePostRequest(t, router, "/api/auth/accept-invite", "Bearer "+user.Token,
		users_dto.AcceptInviteRequestDTO{Token: invite.Token}, http.StatusBadRequest)
}

func Test_AcceptInvite_ForExistingUser_MovesUserIntoTeam(t *testing.T) {
	router := createTeamTestRouter()
	team := teams_testing.CreateTestTeam("Accepting")
	user := users_testing.CreateTestUser(users_enums.UserRoleAgent)
	invite := createInvite(t, router, team.Team.ID, team.Owner.Token, user.Email, users_enums.UserRoleIsa)

	var profile users_dto.UserProfileResponseDTO
	test_utils.MakePostRequestAndUnmarshal(t, router, "/api/auth/accept-invite", "Bearer "+user.Token,
		users_dto.AcceptInviteRequestDTO{Token: invite.Token}, http.StatusOK, &profile)

	assert.Equal(t, users_enums.UserRoleIsa, profile.Role)
	assert.Equal(t, team.Team.ID, *profile.TeamID)

	var invites teams_dto.ListInvitesResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(t, router, fmt.Sprintf("/api/teams/%s/invites", team.Team.ID),
		"Bearer "+team.Owner.Token, http.StatusOK, &invites)
	for _, pending := range invites.Invites {
		assert.NotEqual(t, invite.ID, pending.ID)
	}
}

func Test_RevokeInvite_WhenPending_RemovesInvite(t *testing.T) {
	router := createTeamTestRouter()
	team := teams_testing.CreateTestTeam("Revoking")
	invite := createInvite(t, router, team.Team.ID, team.Owner.Token,
		fmt.Sprintf("revoked-%s@test.com", uuid.New().String()[:8]), users_enums.UserRoleAgent)
	invitesURL := fmt.Sprintf("/api/teams/%s/invites", team.Team.ID)

	var invites teams_dto.ListInvitesResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(t, router, invitesURL, "Bearer "+team.Owner.Token,
		http.StatusOK, &invites)
	assert.Len(t, invites.Invites, 1)
	assert.NotNil(t, invites.Invites[0].InvitedByName)

	agent := teams_testing.AddTestMember(team, users_enums.UserRoleAgent)
	test_utils.MakeGetRequest(t, router, invitesURL, "Bearer "+agent.Token, http.StatusForbidden)

	revokeURL := fmt.Sprintf("%s/%s", invitesURL, invite.ID)
	test_utils.MakeDeleteRequest(t, router, revokeURL, "Bearer "+team.Owner.Token, http.StatusOK)
	test_utils.MakeDeleteRequest(t, router, revokeURL, "Bearer "+team.Owner.Token, http.StatusNotFound)

	test_utils.MakeGetRequestAndUnmarshal(t, router, invitesURL, "Bearer "+team.Owner.Token,
		http.StatusOK, &invites)
	assert.Empty(t, invites.Invites)
}

func Test_ListMembers_ReturnsMembersByRankThenName(t *testing.T) {
	router := createTeamTestRouter()
	team := teams_testing.CreateTestTeam("Ranked")
	teams_testing.AddTestMember(team, users_enums.UserRoleIsa)
	teams_testing.AddTestMember(team, users_enums.UserRoleTeamLead)
	teams_testing.AddTestMember(team, users_enums.UserRoleAgent)

	var response teams_dto.ListMembersResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(t, router, fmt.Sprintf("/api/teams/%s/members", team.Team.ID),
		"Bearer "+team.Owner.Token, http.StatusOK, &response)

	roles := make([]users_enums.UserRole, 0, len(response.Members))
	for _, member := range response.Members {
		roles = append(roles, member.Role)
	}
	assert.Equal(t, []users_enums.UserRole{
		users_enums.UserRoleOwner,
		users_enums.UserRoleTeamLead,
		users_enums.UserRoleAgent,
		users_enums.UserRoleIsa,
	}, roles)
}

func Test_RemoveMember_EnforcesHierarchy(t *testing.T) {
	router := createTeamTestRouter()
	team := teams_testing.CreateTestTeam("Removal")
	lead := teams_testing.AddTestMember(team, users_enums.UserRoleTeamLead)
	otherLead := teams_testing.AddTestMember(team, users_enums.UserRoleTeamLead)
	agent := teams_testing.AddTestMember(team, users_enums.UserRoleAgent)
	memberURL := func(id uuid.UUID) string {
		return fmt.Sprintf("/api/teams/%s/members/%s", team.Team.ID, id)
	}

	resp := test_utils.MakeDeleteRequest(t, router, memberURL(lead.UserID), "Bearer "+lead.Token,
		http.StatusBadRequest)
	assert.Contains(t, string(resp.Body), "Cannot remove yourself from the team")

	test_utils.MakeDeleteRequest(t, router, memberURL(team.Owner.UserID), "Bearer "+lead.Token,
		http.StatusBadRequest)
	test_utils.MakeDeleteRequest(t, router, memberURL(otherLead.UserID), "Bearer "+lead.Token,
		http.StatusForbidden)
	test_utils.MakeDeleteRequest(t, router, memberURL(uuid.New()), "Bearer "+lead.Token,
		http.StatusNotFound)

	test_utils.MakeDeleteRequest(t, router, memberURL(agent.UserID), "Bearer "+lead.Token, http.StatusOK)

	removed := users_testing.GetTestUser(agent.UserID)
	assert.Nil(t, removed.TeamID)
	assert.Equal(t, users_enums.UserRoleAgent, removed.Role)
}

func Test_ChangeMemberRole_EnforcesHierarchy(t *testing.T) {
	router := createTeamTestRouter()
	team := teams_testing.CreateTestTeam("Roles")
	lead := teams_testing.AddTestMember(team, users_enums.UserRoleTeamLead)
	otherLead := teams_testing.AddTestMember(team, users_enums.UserRoleTeamLead)
	agent := teams_testing.AddTestMember(team, users_enums.UserRoleAgent)
	roleURL := func(id uuid.UUID) string {
		return fmt.Sprintf("/api/teams/%s/members/%s/role", team.Team.ID, id)
	}

	resp := test_utils.MakePutRequest(t, router, roleURL(lead.UserID), "Bearer "+lead.Token,
		teams_dto.ChangeMemberRoleRequestDTO{Role: users_enums.UserRoleAgent}, http.StatusBadRequest)
	assert.Contains(t, string(resp.Body), "Cannot change your own role")

	test_utils.MakePutRequest(t, router, roleURL(agent.UserID), "Bearer "+team.Owner.Token,
		teams_dto.ChangeMemberRoleRequestDTO{Role: users_enums.UserRoleOwner}, http.StatusBadRequest)
	test_utils.MakePutRequest(t, router, roleURL(agent.UserID), "Bearer "+team.Owner.Token,
		teams_dto.ChangeMemberRoleRequestDTO{Role: "boss"}, http.StatusBadRequest)
	test_utils.MakePutRequest(t, router, roleURL(otherLead.UserID), "Bearer "+lead.Token,
		teams_dto.ChangeMemberRoleRequestDTO{Role: users_enums.UserRoleAgent}, http.StatusForbidden)
	test_utils.MakePutRequest(t, router, roleURL(team.Owner.UserID), "Bearer "+lead.Token,
		teams_dto.ChangeMemberRoleRequestDTO{Role: users_enums.UserRoleAgent}, http.StatusForbidden)

	var response teams_dto.MemberEnvelopeDTO
	test_utils.MakePutRequestAndUnmarshal(t, router, roleURL(agent.UserID), "Bearer "+lead.Token,
		teams_dto.ChangeMemberRoleRequestDTO{Role: users_enums.UserRoleTransactionCoordinator},
		http.StatusOK, &response)
	assert.Equal(t, users_enums.UserRoleTransactionCoordinator, response.User.Role)
	assert.Equal(t, users_enums.UserRoleTransactionCoordinator, users_testing.GetTestUser(agent.UserID).Role)
}

func Test_TransferOwnership_WhenCallerIsOwner_SwapsRoles(t *testing.T) {
	router := createTeamTestRouter()
	team := teams_testing.CreateTestTeam("Transfer")
	lead := teams_testing.AddTestMember(team, users_enums.UserRoleTeamLead)
	outsider := users_testing.CreateTestUser(users_enums.UserRoleAgent)
	url := fmt.Sprintf("/api/teams/%s/transfer-ownership", team.Team.ID)

	test_utils.MakePostRequest(t, router, url, "Bearer "+lead.Token,
		teams_dto.TransferOwnershipRequestDTO{NewOwnerID: lead.UserID}, http.StatusForbidden)
	test_utils.MakePostRequest(t, router, url, "Bearer "+team.Owner.Token,
		teams_dto.TransferOwnershipRequestDTO{NewOwnerID: outsider.UserID}, http.StatusNotFound)

	resp := test_utils.MakePostRequest(t, router, url, "Bearer "+team.Owner.Token,
		teams_dto.TransferOwnershipRequestDTO{NewOwnerID: lead.UserID}, http.StatusOK)
	assert.Contains(t, string(resp.Body), "Ownership transferred successfully")

	assert.Equal(t, users_enums.UserRoleOwner, users_testing.GetTestUser(lead.UserID).Role)
	assert.Equal(t, users_enums.UserRoleTeamLead, users_testing.GetTestUser(team.Owner.UserID).Role)
}

func Test_DeleteTeam_WhenCallerIsOwner_ResetsMembers(t *testing.T) {
	router := createTeamTestRouter()
	team := teams_testing.CreateTestTeam("Doomed")
	lead := teams_testing.AddTestMember(team, users_enums.UserRoleTeamLead)
	createInvite(t, router, team.Team.ID, team.Owner.Token,
		fmt.Sprintf("pending-%s@test.com", uuid.New().String()[:8]), users_enums.UserRoleAgent)
	url := fmt.Sprintf("/api/teams/%s", team.Team.ID)

	resp := test_utils.MakeDeleteRequest(t, router, url, "Bearer "+lead.Token, http.StatusForbidden)
	assert.Contains(t, string(resp.Body), "Only the team owner can delete the team")

	test_utils.MakeDeleteRequest(t, router, url, "Bearer "+team.Owner.Token, http.StatusOK)

	for _, userID := range []uuid.UUID{team.Owner.UserID, lead.UserID} {
		user := users_testing.GetTestUser(userID)
		assert.Nil(t, user.TeamID)
		assert.Equal(t, users_enums.UserRoleAgent, user.Role)
	}

	admin := users_testing.CreateTestUser(users_enums.UserRoleSuperAdmin)
	test_utils.MakeGetRequest(t, router, url, "Bearer "+admin.Token, http.StatusNotFound)
}
