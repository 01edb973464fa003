package interviews

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupInterviewRouter(t *testing.T, svc *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID := c.GetHeader("X-Test-User"); userID != "" {
			c.Set("userId", userID)
		}
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", userID)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func errorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, resp.Body.String())
	}
	return body.Error.Code
}

func TestInterviewHandlerFlow(t *testing.T) {
	svc, _ := newTestService(t, 6, 7, 8, 9, 10)
	router := setupInterviewRouter(t, svc)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/interviews", "user-1", `{"title":"Practice","position":"Go Developer","resumeText":"Built APIs in Go."}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created Detail
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if created.Interview.Status != StatusInProgress || len(created.Questions) != 5 || created.QuestionSource == "" {
		t.Fatalf("unexpected create response %+v", created)
	}
	base := "/api/v1/interviews/" + created.Interview.ID

	resp = doJSON(t, router, http.MethodGet, base, "intruder", "")
	if resp.Code != http.StatusForbidden || errorCode(t, resp) != "forbidden" {
		t.Fatalf("expected 403 forbidden, got %d: %s", resp.Code, resp.Body.String())
	}

	var answered struct {
		Completed bool `json:"completed"`
		Interview struct {
			Status string `json:"status"`
			Score  *int   `json:"score"`
		} `json:"interview"`
		Evaluation struct {
			Score int `json:"score"`
		} `json:"evaluation"`
	}
	for i, q := range created.Questions {
		resp = doJSON(t, router, http.MethodPost, base+"/questions/"+q.ID+"/answer", "user-1", `{"answer":"I would profile first."}`)
		if resp.Code != http.StatusOK {
			t.Fatalf("answer %d: expected 200, got %d: %s", i, resp.Code, resp.Body.String())
		}
		if err := json.Unmarshal(resp.Body.Bytes(), &answered); err != nil {
			t.Fatalf("decode answer: %v", err)
		}
		if answered.Evaluation.Score != 6+i {
			t.Fatalf("answer %d: unexpected score %d", i, answered.Evaluation.Score)
		}
	}
	if !answered.Completed || answered.Interview.Status != StatusCompleted || *answered.Interview.Score != 80 {
		t.Fatalf("unexpected final answer response %+v", answered)
	}

	resp = doJSON(t, router, http.MethodPost, base+"/questions/"+created.Questions[0].ID+"/answer", "user-1", `{"answer":"again"}`)
	if resp.Code != http.StatusConflict || errorCode(t, resp) != "interview_completed" {
		t.Fatalf("expected 409 interview_completed, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, router, http.MethodGet, "/api/v1/interviews?limit=10", "user-1", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.Code)
	}
	var list struct {
		Items []Summary `json:"items"`
		Limit int       `json:"limit"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].AnsweredCount != 5 || list.Limit != 10 {
		t.Fatalf("unexpected list %+v", list)
	}

	resp = doJSON(t, router, http.MethodDelete, base, "user-1", "")
	if resp.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", resp.Code)
	}
	resp = doJSON(t, router, http.MethodGet, base, "user-1", "")
	if resp.Code != http.StatusNotFound || errorCode(t, resp) != "not_found" {
		t.Fatalf("expected 404 after delete, got %d", resp.Code)
	}
}

func TestInterviewHandlerErrors(t *testing.T) {
	svc, _ := newTestService(t)
	router := setupInterviewRouter(t, svc)
	detail := createInterview(t, svc, "user-1")
	base := "/api/v1/interviews/" + detail.Interview.ID
	qPath := base + "/questions/" + detail.Questions[0].ID + "/answer"

	if resp := doJSON(t, router, http.MethodPost, qPath, "user-1", `{"answer":"first"}`); resp.Code != http.StatusOK {
		t.Fatalf("first answer: %d %s", resp.Code, resp.Body.String())
	}

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"create missing position", http.MethodPost, "/api/v1/interviews", `{"title":"t"}`, http.StatusBadRequest, "validation_error"},
		{"create bad json", http.MethodPost, "/api/v1/interviews", `{`, http.StatusBadRequest, "validation_error"},
		{"list bad limit", http.MethodGet, "/api/v1/interviews?limit=0", "", http.StatusBadRequest, "validation_error"},
		{"list bad offset", http.MethodGet, "/api/v1/interviews?offset=-1", "", http.StatusBadRequest, "validation_error"},
		{"empty answer", http.MethodPost, qPath, `{"answer":"  "}`, http.StatusBadRequest, "validation_error"},
		{"resubmission", http.MethodPost, qPath, `{"answer":"second"}`, http.StatusConflict, "already_answered"},
		{"unknown question", http.MethodPost, base + "/questions/0b6c2a55-3f0e-4a53-9d7e-8e0f0b0c1d2e/answer", `{"answer":"a"}`, http.StatusNotFound, "not_found"},
		{"unknown interview", http.MethodGet, "/api/v1/interviews/nope", "", http.StatusNotFound, "not_found"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, router, tc.method, tc.path, "user-1", tc.body)
			if resp.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tc.wantStatus, resp.Code, resp.Body.String())
			}
			if got := errorCode(t, resp); got != tc.wantCode {
				t.Fatalf("expected code %q, got %q", tc.wantCode, got)
			}
		})
	}
}

func TestCreateInterviewMultipart(t *testing.T) {
	svc, _ := newTestService(t)
	router := setupInterviewRouter(t, svc)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	_ = writer.WriteField("title", "With CV")
	_ = writer.WriteField("position", "Platform Engineer")
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="cv"; filename="cv.txt"`)
	header.Set("Content-Type", "text/plain")
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	_, _ = part.Write([]byte("Platform engineer running Terraform and Kubernetes."))
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/interviews", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Test-User", "user-1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created Detail
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Interview.ResumeText != "Platform engineer running Terraform and Kubernetes." {
		t.Fatalf("unexpected resume text %q", created.Interview.ResumeText)
	}
}
