package interviews

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"interview-backend/internal/shared/server/middleware"
	"interview-backend/internal/shared/server/respond"
)

const maxUploadSize = maxResumeBytes + 1<<20

// Handler wires HTTP handlers to the interview service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches interview routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/interviews", h.create)
	rg.GET("/interviews", h.list)
	rg.GET("/interviews/:id", h.get)
	rg.DELETE("/interviews/:id", h.delete)
	rg.POST("/interviews/:id/questions/:questionId/answer", h.answer)
	rg.POST("/interviews/:id/complete", h.complete)
}

type createRequest struct {
	Title      string `json:"title" form:"title"`
	Position   string `json:"position" form:"position"`
	ResumeText string `json:"resumeText" form:"resumeText"`
}

func (h *Handler) create(c *gin.Context) {
	in := CreateInput{UserID: middleware.UserIDFromContext(c)}

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
		var req createRequest
		if err := c.ShouldBind(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid form body", nil)
			return
		}
		in.Title, in.Position, in.ResumeText = req.Title, req.Position, req.ResumeText

		upload, err := readResumeFile(c)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), []map[string]string{
				{"field": "cv", "issue": "unreadable"},
			})
			return
		}
		in.Resume = upload
	} else {
		var req createRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
		in.Title, in.Position, in.ResumeText = req.Title, req.Position, req.ResumeText
	}

	detail, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err, "failed to create interview")
		return
	}
	c.Set(middleware.InterviewIDKey, detail.Interview.ID)
	c.Set(middleware.StatusTransitionKey, StatusPending+"->"+detail.Interview.Status)
	respond.Created(c, detail)
}

// readResumeFile returns nil when no cv file part was sent.
func readResumeFile(c *gin.Context) (*ResumeUpload, error) {
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

	data, err := io.ReadAll(io.LimitReader(file, maxResumeBytes+1))
	if err != nil {
		return nil, errors.New("unable to read cv file")
	}
	return &ResumeUpload{
		FileName: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be a positive integer", nil)
			return
		}
		limit = parsed
	}
	if v := c.Query("offset"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "offset must be a non-negative integer", nil)
			return
		}
		offset = parsed
	}

	items, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.writeError(c, err, "failed to list interviews")
		return
	}
	respond.OK(c, gin.H{
		"items":  items,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) get(c *gin.Context) {
	interviewID := c.Param("id")
	c.Set(middleware.InterviewIDKey, interviewID)

	detail, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), interviewID)
	if err != nil {
		h.writeError(c, err, "failed to fetch interview")
		return
	}
	respond.OK(c, detail)
}

func (h *Handler) delete(c *gin.Context) {
	interviewID := c.Param("id")
	c.Set(middleware.InterviewIDKey, interviewID)

	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), interviewID); err != nil {
		h.writeError(c, err, "failed to delete interview")
		return
	}
	respond.NoContent(c)
}

type answerRequest struct {
	Answer string `json:"answer"`
}

func (h *Handler) answer(c *gin.Context) {
	interviewID := c.Param("id")
	questionID := c.Param("questionId")
	c.Set(middleware.InterviewIDKey, interviewID)
	c.Set(middleware.QuestionIDKey, questionID)

	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	res, err := h.Svc.SubmitAnswer(c.Request.Context(), middleware.UserIDFromContext(c), interviewID, questionID, req.Answer)
	if err != nil {
		h.writeError(c, err, "failed to submit answer")
		return
	}
	if res.Completed {
		c.Set(middleware.StatusTransitionKey, StatusInProgress+"->"+StatusCompleted)
	}
	respond.OK(c, res)
}

func (h *Handler) complete(c *gin.Context) {
	interviewID := c.Param("id")
	c.Set(middleware.InterviewIDKey, interviewID)

	detail, completed, err := h.Svc.Complete(c.Request.Context(), middleware.UserIDFromContext(c), interviewID)
	if err != nil {
		h.writeError(c, err, "failed to complete interview")
		return
	}
	if completed {
		c.Set(middleware.StatusTransitionKey, StatusInProgress+"->"+StatusCompleted)
	}
	respond.OK(c, detail)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": "), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "interview or question not found", nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "you do not have access to this interview", nil)
	case errors.Is(err, ErrAlreadyAnswered):
		respond.Error(c, http.StatusConflict, "already_answered", "question has already been answered", nil)
	case errors.Is(err, ErrInterviewCompleted):
		respond.Error(c, http.StatusConflict, "interview_completed", "interview is already completed", nil)
	case errors.Is(err, ErrInvalidTransition):
		respond.Error(c, http.StatusConflict, "invalid_transition", "interview cannot change to the requested status", nil)
	default:
		_ = c.Error(err)
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
