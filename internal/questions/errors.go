package questions

import "errors"

// ErrMalformedOutput is returned when a provider reply yields no questions.
var ErrMalformedOutput = errors.New("malformed generator output")
