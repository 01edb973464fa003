package questions

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"interview-backend/internal/shared/server/respond"
)

// Handler exposes stateless question generation.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches question routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/questions/generate", h.generate)
}

type generateRequest struct {
	ResumeText string `json:"resumeText"`
	Position   string `json:"position"`
}

type questionItem struct {
	Order int    `json:"order"`
	Text  string `json:"text"`
}

func (h *Handler) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Position) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "position is required", []map[string]string{
			{"field": "position", "issue": "required"},
		})
		return
	}

	res := h.Svc.Generate(c.Request.Context(), req.ResumeText, req.Position)
	items := make([]questionItem, 0, len(res.Questions))
	for i, q := range res.Questions {
		items = append(items, questionItem{Order: i + 1, Text: q})
	}
	respond.OK(c, gin.H{
		"questions": items,
		"source":    res.Source,
	})
}
