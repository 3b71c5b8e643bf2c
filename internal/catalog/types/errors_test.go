package types

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_Is(t *testing.T) {
	tests := []struct {
		status int
		target error
		want   bool
	}{
		{http.StatusNotFound, ErrNotFound, true},
		{http.StatusUnauthorized, ErrUnauthorized, true},
		{http.StatusTooManyRequests, ErrRateLimited, true},
		{http.StatusInternalServerError, ErrNotFound, false},
		{http.StatusNotFound, ErrUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.status), func(t *testing.T) {
			var err error = fmt.Errorf("get details: %w", &APIError{StatusCode: tt.status})
			assert.Equal(t, tt.want, errors.Is(err, tt.target))
		})
	}
}

func TestAPIError_UnwrapTransport(t *testing.T) {
	err := &APIError{Err: context.DeadlineExceeded}
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "request failed")

	var apiErr *APIError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &apiErr))
	assert.Equal(t, 0, apiErr.StatusCode)
}

func TestAPIError_Message(t *testing.T) {
	err := &APIError{StatusCode: 401, Message: "Invalid API key"}
	assert.Equal(t, "catalog returned status 401: Invalid API key", err.Error())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("tv")
	assert.NoError(t, err)
	assert.Equal(t, KindSeries, k)

	k, err = ParseKind("movie")
	assert.NoError(t, err)
	assert.Equal(t, KindMovie, k)

	_, err = ParseKind("person")
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestKindFromUpstream(t *testing.T) {
	assert.Equal(t, KindSeries, KindFromUpstream("tv"))
	assert.Equal(t, KindMovie, KindFromUpstream("movie"))
	assert.Equal(t, KindMovie, KindFromUpstream("collection"))
	assert.Equal(t, "tv", KindSeries.UpstreamPath())
	assert.Equal(t, "movie", KindMovie.UpstreamPath())
}

func TestNewSearchResult(t *testing.T) {
	r := NewSearchResult(nil)
	assert.NotNil(t, r.Titles)
	assert.Empty(t, r.Titles)
}
