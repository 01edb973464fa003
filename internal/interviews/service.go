package interviews

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"interview-backend/internal/evaluation"
	"interview-backend/internal/extract"
	"interview-backend/internal/questions"
	"interview-backend/internal/shared/metrics"
	"interview-backend/internal/shared/storage/object"
	"interview-backend/internal/shared/telemetry"
)

const (
	maxTitleRunes    = 200
	maxPositionRunes = 200
	maxResumeBytes   = 10 << 20
)

// QuestionGenerator produces the ordered question set for a new interview.
type QuestionGenerator interface {
	Generate(ctx context.Context, resumeText, position string) questions.Result
}

// AnswerEvaluator scores an answer; it never fails.
type AnswerEvaluator interface {
	Evaluate(ctx context.Context, question, answer string, useExternal bool) evaluation.Result
}

// Service contains the interview lifecycle.
type Service struct {
	Interviews InterviewRepo
	Questions  QuestionRepo
	Generator  QuestionGenerator
	Evaluator  AnswerEvaluator
	// Store keeps uploaded résumé documents. Optional.
	Store object.ObjectStore
	Now   func() time.Time
}

// ResumeUpload is an uploaded résumé document.
type ResumeUpload struct {
	FileName string
	MimeType string
	Data     []byte
}

// CreateInput is the validated input for Create.
type CreateInput struct {
	UserID     string
	Title      string
	Position   string
	ResumeText string
	Resume     *ResumeUpload
}

// AnswerResult is returned by SubmitAnswer.
type AnswerResult struct {
	Evaluation evaluation.Result `json:"evaluation"`
	Question   Question          `json:"question"`
	Interview  Interview         `json:"interview"`
	// Completed is true when this answer finalized the interview.
	Completed bool `json:"completed"`
}

// Create persists an interview with its generated questions. If the question
// set cannot be stored the interview row is removed again.
func (s *Service) Create(ctx context.Context, in CreateInput) (Detail, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Position = strings.TrimSpace(in.Position)
	if err := validateCreate(in); err != nil {
		return Detail{}, err
	}

	resumeText := strings.TrimSpace(in.ResumeText)
	var resumeKey string
	if in.Resume != nil {
		text, err := extractResume(ctx, in.Resume)
		if err != nil {
			return Detail{}, err
		}
		resumeText = text
		if s.Store != nil {
			key, _, _, err := s.Store.Save(ctx, in.UserID, in.Resume.FileName, bytes.NewReader(in.Resume.Data))
			if err != nil {
				metrics.IncInterviewCreateFailed()
				return Detail{}, fmt.Errorf("store resume: %w", err)
			}
			resumeKey = key
		}
	}

	now := s.now()
	interview := Interview{
		ID:         uuid.NewString(),
		UserID:     in.UserID,
		Title:      in.Title,
		Position:   in.Position,
		ResumeText: resumeText,
		ResumeKey:  resumeKey,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Interviews.Create(ctx, interview); err != nil {
		s.removeResume(ctx, resumeKey)
		metrics.IncInterviewCreateFailed()
		return Detail{}, fmt.Errorf("create interview: %w", err)
	}

	generated := s.Generator.Generate(ctx, resumeText, in.Position)
	qs := make([]Question, 0, len(generated.Questions))
	for i, text := range generated.Questions {
		qs = append(qs, Question{
			ID:          uuid.NewString(),
			InterviewID: interview.ID,
			Text:        text,
			Order:       i + 1,
			CreatedAt:   now,
		})
	}

	if err := s.Questions.CreateBatch(ctx, qs); err != nil {
		s.rollbackCreate(ctx, interview, err)
		return Detail{}, fmt.Errorf("create questions: %w", err)
	}
	if err := s.transition(ctx, &interview, StatusInProgress); err != nil {
		s.rollbackCreate(ctx, interview, err)
		return Detail{}, fmt.Errorf("start interview: %w", err)
	}

	metrics.IncInterviewCreated()
	telemetry.Info("interviews.created", map[string]any{
		"interview_id":    interview.ID,
		"user_id":         interview.UserID,
		"question_source": generated.Source,
		"questions":       len(qs),
		"has_resume_file": resumeKey != "",
	})
	return Detail{Interview: interview, Questions: qs, QuestionSource: generated.Source}, nil
}

func validateCreate(in CreateInput) error {
	switch {
	case strings.TrimSpace(in.UserID) == "":
		return fmt.Errorf("%w: user is required", ErrInvalidInput)
	case in.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	case in.Position == "":
		return fmt.Errorf("%w: position is required", ErrInvalidInput)
	case utf8.RuneCountInString(in.Title) > maxTitleRunes:
		return fmt.Errorf("%w: title is too long", ErrInvalidInput)
	case utf8.RuneCountInString(in.Position) > maxPositionRunes:
		return fmt.Errorf("%w: position is too long", ErrInvalidInput)
	}
	return nil
}

func extractResume(ctx context.Context, upload *ResumeUpload) (string, error) {
	if len(upload.Data) == 0 {
		return "", fmt.Errorf("%w: cv file is empty", ErrInvalidInput)
	}
	if len(upload.Data) > maxResumeBytes {
		return "", fmt.Errorf("%w: cv file is too large", ErrInvalidInput)
	}
	text, err := extract.Text(ctx, upload.Data, upload.MimeType, upload.FileName)
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrUnsupported):
			return "", fmt.Errorf("%w: unsupported cv file type", ErrInvalidInput)
		case errors.Is(err, extract.ErrNoText):
			return "", fmt.Errorf("%w: cv contains no extractable text", ErrInvalidInput)
		case ctx.Err() != nil:
			return "", ctx.Err()
		default:
			return "", fmt.Errorf("%w: cv could not be read", ErrInvalidInput)
		}
	}
	return text, nil
}

func (s *Service) rollbackCreate(ctx context.Context, interview Interview, cause error) {
	metrics.IncInterviewCreateFailed()
	fields := map[string]any{
		"interview_id": interview.ID,
		"user_id":      interview.UserID,
		"cause":        cause,
	}
	if err := s.Interviews.Delete(ctx, interview.ID); err != nil {
		fields["error"] = err
		telemetry.Error("interviews.rollback_failed", fields)
	} else {
		telemetry.Info("interviews.rolled_back", fields)
	}
	s.removeResume(ctx, interview.ResumeKey)
}

func (s *Service) removeResume(ctx context.Context, key string) {
	if key == "" || s.Store == nil {
		return
	}
	if err := s.Store.Delete(ctx, key); err != nil && !errors.Is(err, object.ErrNotFound) {
		telemetry.Error("interviews.resume_delete_failed", map[string]any{"key": key, "error": err})
	}
}

func (s *Service) transition(ctx context.Context, interview *Interview, to string) error {
	if !CanTransition(interview.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, interview.Status, to)
	}
	now := s.now()
	if err := s.Interviews.UpdateStatus(ctx, interview.ID, interview.Status, to, now); err != nil {
		return err
	}
	interview.Status = to
	interview.UpdatedAt = now
	return nil
}

// Get returns the interview with its ordered questions.
func (s *Service) Get(ctx context.Context, userID, interviewID string) (Detail, error) {
	interview, err := s.owned(ctx, userID, interviewID)
	if err != nil {
		return Detail{}, err
	}
	qs, err := s.Questions.ListByInterview(ctx, interview.ID)
	if err != nil {
		return Detail{}, fmt.Errorf("list questions: %w", err)
	}
	return Detail{Interview: interview, Questions: qs}, nil
}

// List returns the user's interviews, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Summary, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.Interviews.ListByUser(ctx, userID, limit, offset)
}

// Delete removes the interview, its questions and any stored résumé document.
func (s *Service) Delete(ctx context.Context, userID, interviewID string) error {
	interview, err := s.owned(ctx, userID, interviewID)
	if err != nil {
		return err
	}
	if err := s.Interviews.Delete(ctx, interview.ID); err != nil {
		return err
	}
	s.removeResume(ctx, interview.ResumeKey)
	return nil
}

// SubmitAnswer evaluates and records an answer, then checks for completion.
func (s *Service) SubmitAnswer(ctx context.Context, userID, interviewID, questionID, answer string) (AnswerResult, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return AnswerResult{}, fmt.Errorf("%w: answer is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(answer) > evaluation.MaxAnswerRunes {
		return AnswerResult{}, fmt.Errorf("%w: answer is too long", ErrInvalidInput)
	}

	interview, err := s.owned(ctx, userID, interviewID)
	if err != nil {
		return AnswerResult{}, err
	}
	if interview.Status == StatusCompleted {
		return AnswerResult{}, ErrInterviewCompleted
	}

	if _, err := uuid.Parse(questionID); err != nil {
		return AnswerResult{}, ErrNotFound
	}
	question, err := s.Questions.GetByID(ctx, questionID)
	if err != nil {
		return AnswerResult{}, err
	}
	if question.InterviewID != interview.ID {
		return AnswerResult{}, ErrNotFound
	}
	if question.Answered() {
		return AnswerResult{}, ErrAlreadyAnswered
	}

	eval := s.Evaluator.Evaluate(ctx, question.Text, answer, true)
	if err := s.RecordAnswer(ctx, question.ID, answer, eval); err != nil {
		return AnswerResult{}, err
	}
	metrics.IncAnswerEvaluated()

	now := s.now()
	question.Answer = &answer
	question.Score = &eval.Score
	question.Feedback = &eval.Feedback
	question.AnsweredAt = &now

	result := AnswerResult{Evaluation: eval, Question: question, Interview: interview}
	updated, completed, err := s.CheckCompletion(ctx, interview.ID)
	if err != nil {
		telemetry.Error("interviews.completion_failed", map[string]any{
			"interview_id": interview.ID,
			"error":        err,
		})
		return result, nil
	}
	result.Interview = updated
	result.Completed = completed
	return result, nil
}

// RecordAnswer writes answer, score and feedback onto the question in one step.
func (s *Service) RecordAnswer(ctx context.Context, questionID, answer string, eval evaluation.Result) error {
	feedback := strings.TrimSpace(eval.Feedback)
	if feedback == "" {
		return fmt.Errorf("%w: evaluation feedback is empty", ErrInvalidInput)
	}
	score := eval.Score
	if score < evaluation.MinScore || score > evaluation.MaxScore {
		return fmt.Errorf("%w: evaluation score %d out of range", ErrInvalidInput, score)
	}
	return s.Questions.RecordAnswer(ctx, questionID, answer, score, feedback, s.now())
}

// CheckCompletion finalizes the interview once every question is answered.
// It reports whether this call performed the transition and is a no-op for
// completed interviews.
func (s *Service) CheckCompletion(ctx context.Context, interviewID string) (Interview, bool, error) {
	interview, err := s.Interviews.GetByID(ctx, interviewID)
	if err != nil {
		return Interview{}, false, err
	}
	if interview.Status == StatusCompleted {
		return interview, false, nil
	}

	qs, err := s.Questions.ListByInterview(ctx, interviewID)
	if err != nil {
		return interview, false, fmt.Errorf("list questions: %w", err)
	}
	if !AllAnswered(qs) {
		return interview, false, nil
	}
	if !CanTransition(interview.Status, StatusCompleted) {
		return interview, false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, interview.Status, StatusCompleted)
	}

	score := AggregateScore(answeredScores(qs))
	transitioned, err := s.Interviews.Complete(ctx, interviewID, score, s.now())
	if err != nil {
		return interview, false, fmt.Errorf("complete interview: %w", err)
	}
	if transitioned {
		metrics.IncInterviewCompleted()
		telemetry.Info("interviews.completed", map[string]any{
			"interview_id": interviewID,
			"score":        score,
		})
	}

	reloaded, err := s.Interviews.GetByID(ctx, interviewID)
	if err != nil {
		return interview, transitioned, err
	}
	return reloaded, transitioned, nil
}

// Complete re-runs the completion check for an owned interview.
func (s *Service) Complete(ctx context.Context, userID, interviewID string) (Detail, bool, error) {
	if _, err := s.owned(ctx, userID, interviewID); err != nil {
		return Detail{}, false, err
	}
	_, completed, err := s.CheckCompletion(ctx, interviewID)
	if err != nil {
		return Detail{}, false, err
	}
	detail, err := s.Get(ctx, userID, interviewID)
	return detail, completed, err
}

func (s *Service) owned(ctx context.Context, userID, interviewID string) (Interview, error) {
	if _, err := uuid.Parse(interviewID); err != nil {
		return Interview{}, ErrNotFound
	}
	interview, err := s.Interviews.GetByID(ctx, interviewID)
	if err != nil {
		return Interview{}, err
	}
	if interview.UserID != userID {
		return Interview{}, ErrForbidden
	}
	return interview, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
