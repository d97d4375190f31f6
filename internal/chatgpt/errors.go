package chatgpt

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned when the conversation endpoint answers with a
// non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := e.Body
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("chatgpt: %s (status %d)", msg, e.StatusCode)
}

func statusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// IsAuthError reports whether err is a 401 or 403 from upstream.
func IsAuthError(err error) bool {
	code := statusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

func IsRateLimited(err error) bool {
	return statusCode(err) == http.StatusTooManyRequests
}

func IsServerError(err error) bool {
	return statusCode(err) >= 500
}
