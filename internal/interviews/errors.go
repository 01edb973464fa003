package interviews

import "errors"

var (
	// ErrNotFound is returned when an interview or question does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller does not own the interview.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput is returned for validation failures.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAlreadyAnswered is returned when a question already holds an answer.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrInterviewCompleted is returned when answering a completed interview.
	ErrInterviewCompleted = errors.New("interview already completed")
	// ErrInvalidTransition is returned for a status change the lifecycle does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
)
