package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnavailable means the server could not be reached (no connectivity,
	// refused connection, timeout). The user may retry; nothing is retried
	// automatically.
	ErrUnavailable = errors.New("server unavailable")

	// ErrSessionExpired means the session is gone: refresh failed or the
	// retried request was rejected again. The user must log in again.
	ErrSessionExpired = errors.New("session expired")

	// ErrRefreshFailed is returned by RefreshAccessToken for any failure.
	ErrRefreshFailed = errors.New("token refresh failed")

	// ErrNotLoggedIn means there is no usable access token in the store.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrStaleResponse means the session changed (logout, teardown, new
	// login) while the request was in flight and its result was dropped.
	ErrStaleResponse = errors.New("stale response discarded")
)

// RequestFailedError is a non-2xx reply that is not an authorization
// failure. It is surfaced as-is and never retried.
type RequestFailedError struct {
	StatusCode int
	Detail     string
	Body       []byte
}

func (e *RequestFailedError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("request failed: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("request failed: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Detail)
}

const maxDetailLen = 200

// newRequestFailed extracts a human readable detail from the usual error
// bodies of the backend: {"detail": ...}, {"error": ...} or
// {"non_field_errors": [...]}. Anything else is kept as trimmed text.
func newRequestFailed(status int, body []byte) *RequestFailedError {
	e := &RequestFailedError{StatusCode: status, Body: body}

	var parsed struct {
		Detail         string   `json:"detail"`
		Error          string   `json:"error"`
		NonFieldErrors []string `json:"non_field_errors"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		switch {
		case parsed.Detail != "":
			e.Detail = parsed.Detail
		case parsed.Error != "":
			e.Detail = parsed.Error
		case len(parsed.NonFieldErrors) > 0:
			e.Detail = strings.Join(parsed.NonFieldErrors, "; ")
		}
		return e
	}

	text := strings.TrimSpace(string(body))
	if len(text) > maxDetailLen {
		text = text[:maxDetailLen] + "..."
	}
	e.Detail = text
	return e
}
