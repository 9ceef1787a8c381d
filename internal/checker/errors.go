package checker

import "fmt"

// InvalidURLError is returned when input cannot be normalized into an http(s) URL with a host
type InvalidURLError struct {
	Input  string
	Reason string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid URL: %s", e.Reason)
}

func invalid(input, reason string) *InvalidURLError {
	return &InvalidURLError{Input: input, Reason: reason}
}
