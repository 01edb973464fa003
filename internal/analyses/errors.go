package analyses

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnavailable is returned when no LLM provider is configured.
	ErrUnavailable     = errors.New("cv analysis unavailable")
	ErrProvider        = errors.New("cv analysis provider failed")
	ErrMalformedOutput = errors.New("malformed analysis output")
)
