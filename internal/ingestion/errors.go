package ingestion

import "fmt"

// HTMLParseError indicates the uploaded resume HTML could not be parsed.
type HTMLParseError struct {
	Cause error
}

func (e *HTMLParseError) Error() string {
	return fmt.Sprintf("failed to parse resume HTML: %v", e.Cause)
}

func (e *HTMLParseError) Unwrap() error {
	return e.Cause
}

// EmptyContentError indicates the resume contained no extractable text.
type EmptyContentError struct{}

func (e *EmptyContentError) Error() string {
	return "resume contains no extractable text"
}
