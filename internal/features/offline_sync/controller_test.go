package offline_sync

import (
	"fmt"
	"net/http"
	"testing"

	checklists_controllers "pocketprc/internal/features/checklists/controllers"
	checklists_dto "pocketprc/internal/features/checklists/dto"
	checklists_enums "pocketprc/internal/features/checklists/enums"
	checklists_testing "pocketprc/internal/features/checklists/testing"
	teams_testing "pocketprc/internal/features/teams/testing"
	users_enums "pocketprc/internal/features/users/enums"
	users_testing "pocketprc/internal/features/users/testing"
	"pocketprc/internal/util/rate_limit"
	test_utils "pocketprc/internal/util/testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func createSyncTestRouter() *gin.Engine {
	return checklists_testing.CreateTestRouter(GetSyncController(), checklists_controllers.GetChecklistController())
}

func postBatch(t *testing.T, router *gin.Engine, token string, actions []map[string]any) *BatchResponseDTO {
	t.Helper()

	var response BatchResponseDTO
	test_utils.MakePostRequestAndUnmarshal(t, router, "/api/sync/batch", "Bearer "+token,
		map[string]any{"actions": actions}, http.StatusOK, &response)

	return &response
}

func Test_SyncBatch_WithCreateAndMissingUpdate_KeepsSuccessfulWrite(t *testing.T) {
	router := createSyncTestRouter()
	agent := users_testing.CreateTestUser(users_enums.UserRoleAgent)

	response := postBatch(t, router, agent.Token, []map[string]any{
		{
			"type":     "create",
			"entity":   "checklist",
			"clientId": "local-1",
			"data":     map[string]any{"propertyAddress": "12 Elm St", "notes": "offline"},
		},
		{
			"type":     "update",
			"entity":   "checklist",
			"clientId": "local-2",
			"data":     map[string]any{"id": uuid.New().String(), "notes": "lost"},
		},
	})

	assert.Len(t, response.Results, 2)

	created := response.Results[0]
	assert.Equal(t, "local-1", created.ClientID)
	assert.True(t, created.Success)
	assert.NotNil(t, created.ServerID)
	assert.Equal(t, "12 Elm St", created.Data.PropertyAddress)
	assert.Equal(t, checklists_enums.ChecklistStatusDraft, created.Data.Status)

	missing := response.Results[1]
	assert.Equal(t, "local-2", missing.ClientID)
	assert.False(t, missing.Success)
	assert.Nil(t, missing.ServerID)
	assert.Equal(t, "Not found or access denied", missing.Error)

	var fetched checklists_dto.ChecklistEnvelopeDTO
	test_utils.MakeGetRequestAndUnmarshal(t, router, fmt.Sprintf("/api/checklists/%s", created.ServerID),
		"Bearer "+agent.Token, http.StatusOK, &fetched)
	assert.Equal(t, "12 Elm St", fetched.Checklist.PropertyAddress)
	assert.Equal(t, "offline", *fetched.Checklist.Notes)
}

func Test_SyncBatch_WithInvalidBatchSize_ReturnsBadRequest(t *testing.T) {
	router := createSyncTestRouter()
	agent := users_testing.CreateTestUser(users_enums.UserRoleAgent)

	resp := test_utils.MakePostRequest(t, router, "/api/sync/batch", "Bearer "+agent.Token,
		map[string]any{"actions": []any{}}, http.StatusBadRequest)
	assert.Contains(t, string(resp.Body), "Actions array is required")

	resp = test_utils.MakePostRequest(t, router, "/api/sync/batch", "Bearer "+agent.Token,
		map[string]any{}, http.StatusBadRequest)
	assert.Contains(t, string(resp.Body), "Actions array is required")

	tooMany := make([]map[string]any, 0, MaxActionsPerBatch+1)
	for i := 0; i <= MaxActionsPerBatch; i++ {
		tooMany = append(tooMany, map[string]any{"type": "create", "entity": "checklist", "clientId": i})
	}
	resp = test_utils.MakePostRequest(t, router, "/api/sync/batch", "Bearer "+agent.Token,
		map[string]any{"actions": tooMany}, http.StatusBadRequest)
	assert.Contains(t, string(resp.Body), "Maximum 100 actions per batch")
}

func Test_SyncBatch_WithMalformedActions_ReportsEachError(t *testing.T) {
	router := createSyncTestRouter()
	agent := users_testing.CreateTestUser(users_enums.UserRoleAgent)

	response := postBatch(t, router, agent.Token, []map[string]any{
		{"type": "create", "entity": "photo", "clientId": 1},
		{"type": "upsert", "entity": "checklist", "clientId": 2},
		{"type": "update", "entity": "checklist", "clientId": 3, "data": map[string]any{"notes": "x"}},
		{"type": "delete", "entity": "checklist", "clientId": 4, "data": map[string]any{}},
		{"type": "delete", "entity": "checklist", "clientId": 5, "data": map[string]any{"id": "not-a-uuid"}},
		{"type": "create", "entity": "checklist", "clientId": 6, "data": map[string]any{}},
	})

	expected := []string{
		"Unsupported entity: photo",
		"Unknown action type: upsert",
		"Missing id",
		"Missing id",
		"Not found or access denied",
		"Property address is required",
	}

	assert.Len(t, response.Results, len(expected))
	for i, result := range response.Results {
		assert.False(t, result.Success)
		assert.Equal(t, expected[i], result.Error)
		assert.EqualValues(t, i+1, result.ClientID)
	}
}

func Test_SyncBatch_UpdateWithStaleVersion_LeavesRowUnchanged(t *testing.T) {
	router := createSyncTestRouter()
	agent := users_testing.CreateTestUser(users_enums.UserRoleAgent)
	checklist := checklists_testing.CreateTestChecklist(agent, "Version St")

	response := postBatch(t, router, agent.Token, []map[string]any{
		{
			"type":     "update",
			"entity":   "checklist",
			"clientId": "stale",
			"data":     map[string]any{"id": checklist.ID.String(), "notes": "stale edit", "version": 99},
		},
		{
			"type":     "update",
			"entity":   "checklist",
			"clientId": "fresh",
			"data": map[string]any{
				"id":      checklist.ID.String(),
				"notes":   "fresh edit",
				"status":  "completed",
				"version": checklist.Version,
			},
		},
	})

	assert.False(t, response.Results[0].Success)
	assert.Equal(t, "Checklist was modified by another user", response.Results[0].Error)

	fresh := response.Results[1]
	assert.True(t, fresh.Success)
	assert.Equal(t, checklist.ID, *fresh.ServerID)
	assert.Equal(t, "fresh edit", *fresh.Data.Notes)
	assert.Equal(t, checklists_enums.ChecklistStatusCompleted, fresh.Data.Status)
	assert.NotNil(t, fresh.Data.CompletedAt)
	assert.Equal(t, checklist.Version+2, fresh.Data.Version)
}

func Test_SyncBatch_StatusOnlyUpdate_HonorsVersion(t *testing.T) {
	router := createSyncTestRouter()
	agent := users_testing.CreateTestUser(users_enums.UserRoleAgent)
	checklist := checklists_testing.CreateTestChecklist(agent, "Status St")

	response := postBatch(t, router, agent.Token, []map[string]any{
		{
			"type":     "update",
			"entity":   "checklist",
			"clientId": 1,
			"data":     map[string]any{"id": checklist.ID.String(), "status": "in_progress", "version": 42},
		},
		{
			"type":     "update",
			"entity":   "checklist",
			"clientId": 2,
			"data":     map[string]any{"id": checklist.ID.String(), "status": "in_progress"},
		},
	})

	assert.Equal(t, "Checklist was modified by another user", response.Results[0].Error)
	assert.True(t, response.Results[1].Success)
	assert.Equal(t, checklists_enums.ChecklistStatusInProgress, response.Results[1].Data.Status)
	assert.Equal(t, checklist.Version+1, response.Results[1].Data.Version)
}

func Test_SyncBatch_Delete_RequiresArchiveRights(t *testing.T) {
	router := createSyncTestRouter()
	owner := users_testing.CreateTestUser(users_enums.UserRoleAgent)
	stranger := users_testing.CreateTestUser(users_enums.UserRoleAgent)
	checklist := checklists_testing.CreateTestChecklist(owner, "Delete St")

	deleteAction := []map[string]any{
		{"type": "delete", "entity": "checklist", "clientId": "d", "data": map[string]any{"id": checklist.ID.String()}},
	}

	response := postBatch(t, router, stranger.Token, deleteAction)
	assert.False(t, response.Results[0].Success)
	assert.Equal(t, "Not found or access denied", response.Results[0].Error)

	response = postBatch(t, router, owner.Token, deleteAction)
	assert.True(t, response.Results[0].Success)
	assert.Nil(t, response.Results[0].Data)

	var fetched checklists_dto.ChecklistEnvelopeDTO
	test_utils.MakeGetRequestAndUnmarshal(t, router, fmt.Sprintf("/api/checklists/%s", checklist.ID),
		"Bearer "+owner.Token, http.StatusOK, &fetched)
	assert.Equal(t, checklists_enums.ChecklistStatusArchived, fetched.Checklist.Status)
}

func Test_SyncBatch_StatusArchivedByAssignee_IsDenied(t *testing.T) {
	router := createSyncTestRouter()
	team := teams_testing.CreateTestTeam("Sync Assignee")
	lead := teams_testing.AddTestMember(team, users_enums.UserRoleTeamLead)
	owner := teams_testing.AddTestMember(team, users_enums.UserRoleAgent)
	assignee := teams_testing.AddTestMember(team, users_enums.UserRoleIsa)
	checklist := checklists_testing.CreateTestChecklist(owner, "Sync Assignee St")

	test_utils.MakePutRequest(t, router, fmt.Sprintf("/api/checklists/%s/assign", checklist.ID),
		"Bearer "+lead.Token, checklists_dto.AssignChecklistRequestDTO{UserID: &assignee.UserID}, http.StatusOK)

	response := postBatch(t, router, assignee.Token, []map[string]any{
		{
			"type":     "update",
			"entity":   "checklist",
			"clientId": "archive",
			"data":     map[string]any{"id": checklist.ID.String(), "status": "archived"},
		},
	})
	assert.False(t, response.Results[0].Success)
	assert.Equal(t, "Not found or access denied", response.Results[0].Error)

	var fetched checklists_dto.ChecklistEnvelopeDTO
	test_utils.MakeGetRequestAndUnmarshal(t, router, fmt.Sprintf("/api/checklists/%s", checklist.ID),
		"Bearer "+owner.Token, http.StatusOK, &fetched)
	assert.Equal(t, checklists_enums.ChecklistStatusDraft, fetched.Checklist.Status)
}

func Test_SyncBatch_WithClientUpdatedAt_RecordsClientEditTime(t *testing.T) {
	router := createSyncTestRouter()
	agent := users_testing.CreateTestUser(users_enums.UserRoleAgent)

	response := postBatch(t, router, agent.Token, []map[string]any{
		{
			"type":            "create",
			"entity":          "checklist",
			"clientId":        "timed",
			"clientUpdatedAt": "2026-01-02T03:04:05Z",
			"data":            map[string]any{"propertyAddress": "Clock St"},
		},
		{
			"type":            "create",
			"entity":          "checklist",
			"clientId":        "millis",
			"clientUpdatedAt": 1767323045000,
			"data":            map[string]any{"propertyAddress": "Millis St"},
		},
	})

	for _, result := range response.Results {
		assert.True(t, result.Success)

		var activity checklists_dto.ChecklistActivityResponseDTO
		test_utils.MakeGetRequestAndUnmarshal(t, router,
			fmt.Sprintf("/api/checklists/%s/activity", result.ServerID), "Bearer "+agent.Token,
			http.StatusOK, &activity)

		assert.Len(t, activity.Activity, 1)
		assert.Equal(t, "created", activity.Activity[0].Action)
		assert.Equal(t, "sync", activity.Activity[0].Details["source"])
		assert.Equal(t, "2026-01-02T03:04:05Z", activity.Activity[0].Details["clientUpdatedAt"])
	}
}

func Test_SyncBatch_WhenRateLimitExceeded_ReturnsTooManyRequests(t *testing.T) {
	router := createSyncTestRouter()
	agent := users_testing.CreateTestUser(users_enums.UserRoleAgent)

	GetSyncService().SetRateLimiter(rate_limit.NewRateLimiter("sync-test", 1, 1))
	defer GetSyncService().SetRateLimiter(rate_limit.NewRateLimiter("sync", syncRequestsPerSecond, syncBurst))

	action := []map[string]any{
		{"type": "create", "entity": "checklist", "clientId": 1, "data": map[string]any{"propertyAddress": "Busy St"}},
	}

	postBatch(t, router, agent.Token, action)

	resp := test_utils.MakePostRequest(t, router, "/api/sync/batch", "Bearer "+agent.Token,
		map[string]any{"actions": action}, http.StatusTooManyRequests)
	assert.Equal(t, "1", resp.Headers.Get("Retry-After"))
}
