package errs

import "fmt"

// Kind categorizes application errors for HTTP status mapping.
type Kind int

const (
	// Unknown represents an unclassified error.
	Unknown Kind = iota
	// InvalidInput indicates a malformed or unsupported URL (HTTP 400).
	InvalidInput
	// RateLimited indicates the caller exceeded the admission limit (HTTP 429).
	RateLimited
	// FetchFailed indicates the target could not be fetched (HTTP 500).
	FetchFailed
)

// AppError carries a category, a user-facing message, and the original cause.
type AppError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}
