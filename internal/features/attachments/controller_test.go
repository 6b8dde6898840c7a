package attachments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"pocketprc/internal/features/activity_logs"
	checklists_controllers "pocketprc/internal/features/checklists/controllers"
	checklists_dto "pocketprc/internal/features/checklists/dto"
	checklists_testing "pocketprc/internal/features/checklists/testing"
	teams_testing "pocketprc/internal/features/teams/testing"
	users_enums "pocketprc/internal/features/users/enums"
	users_testing "pocketprc/internal/features/users/testing"
	"pocketprc/internal/objectstore"
	test_utils "pocketprc/internal/util/testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type memoryObjectStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newMemoryObjectStorage() *memoryObjectStorage {
	return &memoryObjectStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryObjectStorage) Put(_ context.Context, path string, reader io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = data
	m.types[path] = contentType

	return nil
}

func (m *memoryObjectStorage) Get(_ context.Context, path string) (*objectstore.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.objects[path]
	if !ok {
		return nil, fmt.Errorf("object %s not found", path)
	}

	return &objectstore.Object{
		Reader:      io.NopCloser(bytes.NewReader(data)),
		Size:        int64(len(data)),
		ContentType: m.types[path],
	}, nil
}

func (m *memoryObjectStorage) Remove(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, path)

	return nil
}

func (m *memoryObjectStorage) has(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[path]

	return ok
}

var testObjectStorage = newMemoryObjectStorage()

func createAttachmentTestRouter() *gin.Engine {
	GetAttachmentService().SetObjectStorage(testObjectStorage)
	router := checklists_testing.CreateTestRouter(GetAttachmentController(), checklists_controllers.GetChecklistController())
	SetupDependencies()

	return router
}

func pngFile(name string) test_utils.MultipartFile {
	return test_utils.MultipartFile{
		FieldName:   "files",
		FileName:    name,
		ContentType: "image/png",
		Content:     []byte("\x89PNG fake image " + name),
	}
}

func uploadURL(checklistID uuid.UUID) string {
	return fmt.Sprintf("/api/checklists/%s/attachments", checklistID)
}

func Test_UploadAttachments_WithValidFiles_StoresObjectsAndLogsActivity(t *testing.T) {
	router := createAttachmentTestRouter()
	agent := users_testing.CreateTestUser(users_enums.UserRoleAgent)
	checklist := checklists_testing.CreateTestChecklist(agent, "Upload St")

	files := []test_utils.MultipartFile{
		pngFile("front door.png"),
		pngFile("front door.png"),
		{FieldName: "files", FileName: "survey.pdf", ContentType: "application/pdf", Content: []byte("%PDF-1.4")},
	}

	resp := test_utils.MakeMultipartRequest(t, router, uploadURL(checklist.ID), "Bearer "+agent.Token,
		files, http.StatusCreated)

	var response UploadResponseDTO
	assert.NoError(t, json.Unmarshal(resp.Body, &response))
	assert.Len(t, response.Attachments, 3)

	seen := map[string]bool{}
	for _, attachment := range response.Attachments {
		assert.Regexp(t, `^\d+-[a-zA-Z0-9._-]+$`, attachment.Filename)
		assert.False(t, seen[attachment.Filename], "filenames must be unique")
		seen[attachment.Filename] = true
		assert.True(t, testObjectStorage.has(fmt.Sprintf("checklists/%s/%s", checklist.ID, attachment.Filename)))
	}
	assert.Equal(t, "front door.png", response.Attachments[0].OriginalName)
	assert.True(t, strings.HasSuffix(response.Attachments[0].Filename, "-front_door.png"))

	var detail checklists_dto.ChecklistEnvelopeDTO
	test_utils.MakeGetRequestAndUnmarshal(t, router, fmt.Sprintf("/api/checklists/%s", checklist.ID),
		"Bearer "+agent.Token, http.StatusOK, &detail)
	assert.Len(t, detail.Checklist.Attachments, 3)

	var activity checklists_dto.ChecklistActivityResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(t, router, fmt.Sprintf("/api/checklists/%s/activity", checklist.ID),
		"Bearer "+agent.Token, http.StatusOK, &activity)
	assert.Equal(t, activity_logs.ActionFilesUploaded, activity.Activity[0].Action)
	assert.EqualValues(t, 3, activity.Activity[0].Details["count"])
}

func Test_UploadAttachments_WithInvalidFiles_ReturnsSpecificErrors(t *testing.T) {
	router := createAttachmentTestRouter()
	agent := users_testing.CreateTestUser(users_enums.UserRoleAgent)
	checklist := checklists_testing.CreateTestChecklist(agent, "Invalid Upload St")
	url := uploadURL(checklist.ID)

	resp := test_utils.MakeMultipartRequest(t, router, url, "Bearer "+agent.Token,
		[]test_utils.MultipartFile{}, http.StatusBadRequest)
	assert.Contains(t, string(resp.Body), "No files uploaded")

	resp = test_utils.MakeMultipartRequest(t, router, url, "Bearer "+agent.Token,
		[]test_utils.MultipartFile{{FieldName: "files", FileName: "run.exe", ContentType: "application/x-msdownload", Content: []byte("MZ")}},
		http.StatusBadRequest)
	assert.Contains(t, string(resp.Body), "Only images and PDFs are allowed")

	tooMany := make([]test_utils.MultipartFile, 0, MaxFiles+1)
	for i := 0; i <= MaxFiles; i++ {
		tooMany = append(tooMany, pngFile(fmt.Sprintf("photo-%d.png", i)))
	}
	resp = test_utils.MakeMultipartRequest(t, router, url, "Bearer "+agent.Token, tooMany, http.StatusBadRequest)
	assert.Contains(t, string(resp.Body), "Too many files (max 20)")

	big := pngFile("big.png")
	big.Content = bytes.Repeat([]byte("a"), MaxFileSize+1)
	resp = test_utils.MakeMultipartRequest(t, router, url, "Bearer "+agent.Token,
		[]test_utils.MultipartFile{big}, http.StatusBadRequest)
	assert.Contains(t, string(resp.Body), "File too large (max 10MB)")
}

func Test_UploadAttachments_WhenCallerCannotEdit_ReturnsForbidden(t *testing.T) {
	router := createAttachmentTestRouter()
	owner := users_testing.CreateTestUser(users_enums.UserRoleAgent)
	other := users_testing.CreateTestUser(users_enums.UserRoleAgent)
	checklist := checklists_testing.CreateTestChecklist(owner, "Guarded St")

	test_utils.MakeMultipartRequest(t, router, uploadURL(checklist.ID), "Bearer "+other.Token,
		[]test_utils.MultipartFile{pngFile("x.png")}, http.StatusForbidden)
}

func Test_GetAttachment_StreamsContentInline(t *testing.T) {
	router := createAttachmentTestRouter()
	team := teams_testing.CreateTestTeam("Streaming")
	agent := teams_testing.AddTestMember(team, users_enums.UserRoleAgent)
	peer := teams_testing.AddTestMember(team, users_enums.UserRoleAgent)
	checklist := checklists_testing.CreateTestChecklist(agent, "Stream St")

	resp := test_utils.MakeMultipartRequest(t, router, uploadURL(checklist.ID), "Bearer "+agent.Token,
		[]test_utils.MultipartFile{pngFile("kitchen.png")}, http.StatusCreated)
	var uploaded UploadResponseDTO
	assert.NoError(t, json.Unmarshal(resp.Body, &uploaded))
	url := fmt.Sprintf("/api/attachments/%s", uploaded.Attachments[0].ID)

	download := test_utils.MakeGetRequest(t, router, url, "Bearer "+team.Owner.Token, http.StatusOK)
	assert.Equal(t, "image/png", download.Headers.Get("Content-Type"))
	assert.Equal(t, `inline; filename="kitchen.png"`, download.Headers.Get("Content-Disposition"))
	assert.Equal(t, "\x89PNG fake image kitchen.png", string(download.Body))

	test_utils.MakeGetRequest(t, router, url, "Bearer "+peer.Token, http.StatusForbidden)
	test_utils.MakeGetRequest(t, router, fmt.Sprintf("/api/attachments/%s", uuid.New()),
		"Bearer "+agent.Token, http.StatusNotFound)
}

func Test_DeleteAttachment_RemovesRowAndObject(t *testing.T) {
	router := createAttachmentTestRouter()
	team := teams_testing.CreateTestTeam("Deleting")
	owner := teams_testing.AddTestMember(team, users_enums.UserRoleAgent)
	assignee := teams_testing.AddTestMember(team, users_enums.UserRoleIsa)
	checklist := checklists_testing.CreateTestChecklist(owner, "Delete St")

	lead := teams_testing.AddTestMember(team, users_enums.UserRoleTeamLead)
	test_utils.MakePutRequest(t, router, fmt.Sprintf("/api/checklists/%s/assign", checklist.ID),
		"Bearer "+lead.Token, checklists_dto.AssignChecklistRequestDTO{UserID: &assignee.UserID}, http.StatusOK)

	resp := test_utils.MakeMultipartRequest(t, router, uploadURL(checklist.ID), "Bearer "+owner.Token,
		[]test_utils.MultipartFile{pngFile("roof.png")}, http.StatusCreated)
	var uploaded UploadResponseDTO
	assert.NoError(t, json.Unmarshal(resp.Body, &uploaded))
	attachment := uploaded.Attachments[0]
	url := fmt.Sprintf("/api/attachments/%s", attachment.ID)

	test_utils.MakeDeleteRequest(t, router, url, "Bearer "+assignee.Token, http.StatusForbidden)
	test_utils.MakeDeleteRequest(t, router, url, "Bearer "+team.Owner.Token, http.StatusOK)

	assert.False(t, testObjectStorage.has(fmt.Sprintf("checklists/%s/%s", checklist.ID, attachment.Filename)))
	test_utils.MakeDeleteRequest(t, router, url, "Bearer "+team.Owner.Token, http.StatusNotFound)
}

func Test_ArchiveChecklist_KeepsAttachments(t *testing.T) {
	router := createAttachmentTestRouter()
	agent := users_testing.CreateTestUser(users_enums.UserRoleAgent)
	checklist := checklists_testing.CreateTestChecklist(agent, "Keep St")

	test_utils.MakeMultipartRequest(t, router, uploadURL(checklist.ID), "Bearer "+agent.Token,
		[]test_utils.MultipartFile{pngFile("porch.png")}, http.StatusCreated)
	test_utils.MakeDeleteRequest(t, router, fmt.Sprintf("/api/checklists/%s", checklist.ID),
		"Bearer "+agent.Token, http.StatusOK)

	attachments, err := GetAttachmentService().ListChecklistAttachments(checklist.ID)
	assert.NoError(t, err)
	assert.Len(t, attachments, 1)
}
