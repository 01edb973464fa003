package evaluation

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"interview-backend/internal/shared/server/respond"
)

// Handler exposes stateless answer evaluation.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches evaluation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/evaluations", h.evaluate)
}

type evaluateRequest struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	UseExternal *bool  `json:"useExternal"`
}

func (h *Handler) evaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	var details []map[string]string
	req.Question = strings.TrimSpace(req.Question)
	req.Answer = strings.TrimSpace(req.Answer)
	switch {
	case req.Question == "":
		details = append(details, map[string]string{"field": "question", "issue": "required"})
	case utf8.RuneCountInString(req.Question) > MaxQuestionRunes:
		details = append(details, map[string]string{"field": "question", "issue": "too_long"})
	}
	switch {
	case req.Answer == "":
		details = append(details, map[string]string{"field": "answer", "issue": "required"})
	case utf8.RuneCountInString(req.Answer) > MaxAnswerRunes:
		details = append(details, map[string]string{"field": "answer", "issue": "too_long"})
	}
	if len(details) > 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid question or answer", details)
		return
	}

	useExternal := true
	if req.UseExternal != nil {
		useExternal = *req.UseExternal
	}

	respond.OK(c, h.Svc.Evaluate(c.Request.Context(), req.Question, req.Answer, useExternal))
}
