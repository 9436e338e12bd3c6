package ai

import "fmt"

// UpstreamError wraps a non-success response or transport failure from an
// AI backend. It is logged to the debug log as an error entry and returned
// to the caller without retry.
type UpstreamError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("upstream AI error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream AI error: %s", e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ParseError reports that an AI response arrived but was not valid JSON of
// the expected shape. Kept distinct from UpstreamError: the HTTP call
// itself succeeded.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse AI response: %s: %v", e.Message, e.Err)
	}
	return "failed to parse AI response: " + e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
