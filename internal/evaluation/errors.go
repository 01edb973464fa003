package evaluation

import "errors"

var (
	// ErrInvalidInput is returned when the question or answer is missing.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMalformedOutput is returned when an external evaluator reply cannot be used.
	ErrMalformedOutput = errors.New("malformed evaluator output")
)
