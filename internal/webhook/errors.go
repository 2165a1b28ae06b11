package webhook

import (
	"errors"
	"fmt"
)

// ErrRejected indicates the endpoint answered with a non-retryable 4xx,
// most likely a signature, auth or configuration problem.
var ErrRejected = errors.New("webhook rejected")

// StatusError reports a non-2xx response from the webhook endpoint.
type StatusError struct {
	Body       string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("webhook returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("webhook returned status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the status is worth another attempt. Server
// errors and rate limiting are retryable, other client errors are not.
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}
