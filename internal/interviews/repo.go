package interviews

import (
	"context"
	"time"
)

// InterviewRepo persists interviews.
type InterviewRepo interface {
	Create(ctx context.Context, interview Interview) error
	GetByID(ctx context.Context, id string) (Interview, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Summary, error)
	// UpdateStatus moves id from one status to another and fails with
	// ErrInvalidTransition when the current status is not from.
	UpdateStatus(ctx context.Context, id, from, to string, at time.Time) error
	// Complete sets the final score unless the interview is already completed.
	// It reports whether this call performed the transition.
	Complete(ctx context.Context, id string, score int, at time.Time) (bool, error)
	// Delete removes the interview and its questions.
	Delete(ctx context.Context, id string) error
}

// QuestionRepo persists questions.
type QuestionRepo interface {
	// CreateBatch inserts all questions or none.
	CreateBatch(ctx context.Context, questions []Question) error
	GetByID(ctx context.Context, id string) (Question, error)
	ListByInterview(ctx context.Context, interviewID string) ([]Question, error)
	// RecordAnswer stores answer, score and feedback together and fails with
	// ErrAlreadyAnswered when the question already holds an answer.
	RecordAnswer(ctx context.Context, id string, answer string, score int, feedback string, at time.Time) error
}
