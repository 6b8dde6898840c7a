package test_utils

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type RequestOptions struct {
	Method         string
	URL            string
	AuthToken      string
	Body           any
	Cookies        []*http.Cookie
	ExpectedStatus int
}

type TestResponse struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
	Cookies    []*http.Cookie
}

type MultipartFile struct {
	FieldName   string
	FileName    string
	ContentType string
	Content     []byte
}

func MakeRequest(t *testing.T, router *gin.Engine, options RequestOptions) *TestResponse {
	t.Helper()

	var requestBody *bytes.Buffer
	switch body := options.Body.(type) {
	case nil:
		requestBody = bytes.NewBuffer(nil)
	case string:
		requestBody = bytes.NewBufferString(body)
	default:
		bodyJSON, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		requestBody = bytes.NewBuffer(bodyJSON)
	}

	req, err := http.NewRequest(options.Method, options.URL, requestBody)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	if options.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return serve(t, router, req, options)
}

func MakeMultipartRequest(
	t *testing.T,
	router *gin.Engine,
	url string,
	authToken string,
	files []MultipartFile,
	expectedStatus int,
) *TestResponse {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, file := range files {
		header := make(map[string][]string)
		header["Content-Disposition"] = []string{
			`form-data; name="` + file.FieldName + `"; filename="` + file.FileName + `"`,
		}
		header["Content-Type"] = []string{file.ContentType}

		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("failed to create multipart part: %v", err)
		}

		if _, err := part.Write(file.Content); err != nil {
			t.Fatalf("failed to write multipart part: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return serve(t, router, req, RequestOptions{AuthToken: authToken, ExpectedStatus: expectedStatus})
}

func MakeGetRequest(t *testing.T, router *gin.Engine, url, authToken string, expectedStatus int) *TestResponse {
	t.Helper()

	return MakeRequest(t, router, RequestOptions{
		Method:         http.MethodGet,
		URL:            url,
		AuthToken:      authToken,
		ExpectedStatus: expectedStatus,
	})
}

func MakeGetRequestAndUnmarshal(
	t *testing.T,
	router *gin.Engine,
	url, authToken string,
	expectedStatus int,
	responseStruct any,
) *TestResponse {
	t.Helper()

	response := MakeGetRequest(t, router, url, authToken, expectedStatus)
	unmarshal(t, response, responseStruct)

	return response
}

func MakePostRequest(
	t *testing.T,
	router *gin.Engine,
	url, authToken string,
	body any,
	expectedStatus int,
) *TestResponse {
	t.Helper()

	return MakeRequest(t, router, RequestOptions{
		Method:         http.MethodPost,
		URL:            url,
		AuthToken:      authToken,
		Body:           body,
		ExpectedStatus: expectedStatus,
	})
}

func MakePostRequestAndUnmarshal(
	t *testing.T,
	router *gin.Engine,
	url, authToken string,
	body any,
	expectedStatus int,
	responseStruct any,
) *TestResponse {
	t.Helper()

	response := MakePostRequest(t, router, url, authToken, body, expectedStatus)
	unmarshal(t, response, responseStruct)

	return response
}

func MakePutRequest(
	t *testing.T,
	router *gin.Engine,
	url, authToken string,
	body any,
	expectedStatus int,
) *TestResponse {
	t.Helper()

	return MakeRequest(t, router, RequestOptions{
		Method:         http.MethodPut,
		URL:            url,
		AuthToken:      authToken,
		Body:           body,
		ExpectedStatus: expectedStatus,
	})
}

func MakePutRequestAndUnmarshal(
	t *testing.T,
	router *gin.Engine,
	url, authToken string,
	body any,
	expectedStatus int,
	responseStruct any,
) *TestResponse {
	t.Helper()

	response := MakePutRequest(t, router, url, authToken, body, expectedStatus)
	unmarshal(t, response, responseStruct)

	return response
}

func MakeDeleteRequest(t *testing.T, router *gin.Engine, url, authToken string, expectedStatus int) *TestResponse {
	t.Helper()

	return MakeRequest(t, router, RequestOptions{
		Method:         http.MethodDelete,
		URL:            url,
		AuthToken:      authToken,
		ExpectedStatus: expectedStatus,
	})
}

func serve(t *testing.T, router *gin.Engine, req *http.Request, options RequestOptions) *TestResponse {
	t.Helper()

	if options.AuthToken != "" {
		req.Header.Set("Authorization", options.AuthToken)
	}

	for _, cookie := range options.Cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if options.ExpectedStatus != 0 {
		assert.Equal(t, options.ExpectedStatus, w.Code, "Unexpected status code. Body: %s", w.Body.String())
	}

	return &TestResponse{
		StatusCode: w.Code,
		Body:       w.Body.Bytes(),
		Headers:    w.Header(),
		Cookies:    w.Result().Cookies(),
	}
}

func unmarshal(t *testing.T, response *TestResponse, target any) {
	t.Helper()

	if target == nil {
		return
	}

	if err := json.Unmarshal(response.Body, target); err != nil {
		t.Fatalf("failed to unmarshal response: %v. Body: %s", err, string(response.Body))
	}
}
