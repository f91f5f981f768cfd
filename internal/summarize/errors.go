package summarize

import (
	"errors"
	"fmt"
)

// FailureKind distinguishes the ways a summarization call can fail.
type FailureKind string

const (
	FailureNetwork           FailureKind = "network"
	FailureAuthentication    FailureKind = "authentication"
	FailureRateLimit         FailureKind = "rate_limit"
	FailureMalformedResponse FailureKind = "malformed_response"
)

// RequestError reports a failed summarization call with its failure kind.
type RequestError struct {
	Kind       FailureKind
	StatusCode int
	Message    string
}

// Error renders the failure kind, HTTP status when present, and backend message.
func (requestError *RequestError) Error() string {
	if requestError.StatusCode != 0 {
		return fmt.Sprintf("summarization backend %s error (HTTP %d): %s", requestError.Kind, requestError.StatusCode, requestError.Message)
	}
	return fmt.Sprintf("summarization backend %s error: %s", requestError.Kind, requestError.Message)
}

// isRetryable reports whether another attempt might succeed.
func isRetryable(candidateError error) bool {
	var requestError *RequestError
	if !errors.As(candidateError, &requestError) {
		return false
	}
	switch requestError.Kind {
	case FailureNetwork, FailureRateLimit, FailureMalformedResponse:
		return requestError.StatusCode == 0 || requestError.StatusCode == 429 || requestError.StatusCode >= 500
	default:
		return false
	}
}
