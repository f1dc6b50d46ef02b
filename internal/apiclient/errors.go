package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound matches 404 responses.
	ErrNotFound = errors.New("resource not found")
	// ErrUnauthorized matches 401 responses.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden matches 403 responses.
	ErrForbidden = errors.New("forbidden")
	// ErrTimeout is returned when the backend does not answer in time.
	ErrTimeout = errors.New("backend timeout")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// Is lets errors.Is match the sentinel for the response status.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	}
	return false
}
