package analysis

import (
	"errors"
	"fmt"
	"strings"

	"voc-backend/internal/confidence"
)

// ErrServiceNotInitialized is returned until the service has been initialized.
var ErrServiceNotInitialized = errors.New("analysis service not initialized")

// RetrievalError wraps a failed similarity search.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string { return "retrieval failed: " + e.Err.Error() }

func (e *RetrievalError) Unwrap() error { return e.Err }

// CompletionError wraps a failed or timed out LLM call.
type CompletionError struct {
	Method confidence.Method
	Err    error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("%s completion failed: %v", e.Method, e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }

// ParseError means no JSON object could be decoded from the response.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse llm response: %s: %v", e.Reason, e.Err)
	}
	return "parse llm response: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingFieldsError lists required response fields that were absent.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "llm response missing fields: " + strings.Join(e.Fields, ", ")
}

// fallbackReason classifies a tier failure for metrics and logs.
func fallbackReason(err error) string {
	var (
		retrievalErr  *RetrievalError
		completionErr *CompletionError
		parseErr      *ParseError
		missingErr    *MissingFieldsError
	)
	switch {
	case err == nil:
		return "none"
	case errors.As(err, &retrievalErr):
		return "retrieval_error"
	case errors.As(err, &completionErr):
		return "completion_error"
	case errors.As(err, &parseErr):
		return "parse_error"
	case errors.As(err, &missingErr):
		return "missing_fields"
	default:
		return "error"
	}
}
