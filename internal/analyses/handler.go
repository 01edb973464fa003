package analyses

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"interview-backend/internal/shared/server/respond"
)

const maxUploadSize = maxFileBytes + 1<<20

// Handler exposes résumé analysis.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/cv/analyze", h.analyze)
}

type analyzeRequest struct {
	ResumeText string `json:"resumeText" form:"resumeText"`
	CVText     string `json:"cvText" form:"cvText"`
	Position   string `json:"position" form:"position"`
}

func (h *Handler) analyze(c *gin.Context) {
	var (
		req analyzeRequest
		in  Input
	)
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
		if err := c.ShouldBind(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid form body", nil)
			return
		}
		file, err := readUpload(c)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), []map[string]string{
				{"field": "cv", "issue": "unreadable"},
			})
			return
		}
		in.File = file
	} else if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	in.Position = req.Position
	in.ResumeText = req.ResumeText
	if strings.TrimSpace(in.ResumeText) == "" {
		in.ResumeText = req.CVText
	}

	analysis, err := h.Svc.Analyze(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, analysis)
}

func readUpload(c *gin.Context) (*Upload, error) {
	fileHeader, err := c.FormFile("cv")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, errors.New("unable to read cv file")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, errors.New("unable to read cv file")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxFileBytes+1))
	if err != nil {
		return nil, errors.New("unable to read cv file")
	}
	return &Upload{
		FileName: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": "), nil)
	case errors.Is(err, ErrUnavailable):
		respond.Error(c, http.StatusServiceUnavailable, "analysis_unavailable", "cv analysis requires a configured LLM provider", nil)
	case errors.Is(err, ErrMalformedOutput):
		_ = c.Error(err)
		respond.Error(c, http.StatusBadGateway, "llm_malformed_output", "the analysis provider returned an unusable reply", nil)
	case errors.Is(err, ErrProvider):
		_ = c.Error(err)
		respond.Error(c, http.StatusBadGateway, "llm_failed", "the analysis provider failed", nil)
	default:
		_ = c.Error(err)
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to analyze cv", nil)
	}
}
