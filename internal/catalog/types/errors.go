package types

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound        = errors.New("title not found")
	ErrUnauthorized    = errors.New("catalog credentials rejected")
	ErrRateLimited     = errors.New("catalog rate limited")
	ErrCountryRequired = errors.New("country is required")
	ErrInvalidKind     = errors.New("kind must be movie or series")
)

// APIError is returned for every failed upstream round trip. StatusCode is 0
// when the request never produced a response.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return fmt.Sprintf("catalog request failed: %v", e.Err)
		}
		return "catalog request failed: " + e.Message
	}
	if e.Message != "" {
		return fmt.Sprintf("catalog returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("catalog returned status %d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the status-specific sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	}
	return false
}
