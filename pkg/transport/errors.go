package transport

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrTransport wraps failures where no response was received (network, timeout).
	ErrTransport = errors.New("transport failure")
	// ErrRemote matches every *RemoteError via errors.Is.
	ErrRemote = errors.New("remote rejected request")
	// ErrInvalidRequest is returned when a request cannot be built (empty path parameter, bad body).
	ErrInvalidRequest = errors.New("invalid request")
)

// RemoteError is a non-2xx response from the content service.
type RemoteError struct {
	Method     string
	Path       string
	StatusCode int
	// Detail is the service's {"detail": ...} message, empty when the body had none.
	Detail string
	Body   []byte
}

func (e *RemoteError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// Is makes errors.Is(err, ErrRemote) match.
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}

// newRemoteError parses the detail field. Validation errors carry a list
// of objects instead of a string; those are kept as raw JSON.
func newRemoteError(method, path string, status int, body []byte) *RemoteError {
	e := &RemoteError{Method: method, Path: path, StatusCode: status, Body: body}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return e
	}
	var text string
	if err := json.Unmarshal(payload.Detail, &text); err == nil {
		e.Detail = text
	} else {
		e.Detail = string(payload.Detail)
	}
	return e
}

// StatusCode extracts the HTTP status from a *RemoteError, or 0.
func StatusCode(err error) int {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}
