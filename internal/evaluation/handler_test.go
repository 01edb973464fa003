package evaluation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func setupEvaluationRouter(t *testing.T, client *stubLLM) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	svc := NewService(client, fixedHeuristic(), time.Second)
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestEvaluateHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantSource string
	}{
		{name: "llm", body: `{"question":"Why Go?","answer":"Because of its concurrency model."}`, wantStatus: http.StatusOK, wantSource: SourceLLM},
		{name: "heuristic when disabled", body: `{"question":"Why Go?","answer":"Because.","useExternal":false}`, wantStatus: http.StatusOK, wantSource: SourceHeuristic},
		{name: "missing answer", body: `{"question":"Why Go?","answer":"   "}`, wantStatus: http.StatusBadRequest},
		{name: "missing question", body: `{"answer":"Because."}`, wantStatus: http.StatusBadRequest},
		{name: "invalid json", body: `{`, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupEvaluationRouter(t, &stubLLM{resp: `{"score":7,"feedback":"Good"}`})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluations", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, resp.Code, resp.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				var body struct {
					Error struct {
						Code string `json:"code"`
					} `json:"error"`
				}
				if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
					t.Fatalf("decode error: %v", err)
				}
				if body.Error.Code != "validation_error" {
					t.Fatalf("unexpected error code %q", body.Error.Code)
				}
				return
			}
			var res Result
			if err := json.Unmarshal(resp.Body.Bytes(), &res); err != nil {
				t.Fatalf("decode result: %v", err)
			}
			if res.Source != tt.wantSource {
				t.Fatalf("source = %q, want %q", res.Source, tt.wantSource)
			}
		})
	}
}

func TestEvaluateHandlerRejectsOversizedInput(t *testing.T) {
	tests := []struct {
		name     string
		question string
		answer   string
		field    string
	}{
		{name: "answer", question: "Why Go?", answer: strings.Repeat("a", MaxAnswerRunes+1), field: "answer"},
		{name: "question", question: strings.Repeat("q", MaxQuestionRunes+1), answer: "Because.", field: "question"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &stubLLM{resp: `{"score":7,"feedback":"Good"}`}
			router := setupEvaluationRouter(t, client)
			payload, err := json.Marshal(map[string]string{"question": tt.question, "answer": tt.answer})
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluations", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
			}
			if client.calls != 0 {
				t.Fatalf("expected no provider call, got %d", client.calls)
			}
			var body struct {
				Error struct {
					Details []map[string]string `json:"details"`
				} `json:"error"`
			}
			if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if len(body.Error.Details) != 1 || body.Error.Details[0]["field"] != tt.field || body.Error.Details[0]["issue"] != "too_long" {
				t.Fatalf("unexpected details %v", body.Error.Details)
			}
		})
	}
}

func TestEvaluateHandlerAcceptsAnswerAtLimit(t *testing.T) {
	client := &stubLLM{resp: `{"score":7,"feedback":"Good"}`}
	router := setupEvaluationRouter(t, client)
	payload, _ := json.Marshal(map[string]string{"question": "Why Go?", "answer": strings.Repeat("ç", MaxAnswerRunes)})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluations", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || client.calls != 1 {
		t.Fatalf("expected 200 with one provider call, got %d (%d calls)", resp.Code, client.calls)
	}
}
