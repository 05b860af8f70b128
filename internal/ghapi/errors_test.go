package ghapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "dial tcp: i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limit", &RateLimitError{Endpoint: "/x"}, true},
		{"server error 500", &HTTPError{StatusCode: 500}, true},
		{"bad gateway 502", &HTTPError{StatusCode: 502}, true},
		{"service unavailable 503", &HTTPError{StatusCode: 503}, true},
		{"gateway timeout 504", &HTTPError{StatusCode: 504}, true},
		{"not found 404", &HTTPError{StatusCode: 404}, false},
		{"unauthorized 401", &HTTPError{StatusCode: 401}, false},
		{"forbidden 403", &HTTPError{StatusCode: 403}, false},
		{"net timeout", timeoutErr{}, true},
		{"wrapped net timeout", fmt.Errorf("request failed: %w", timeoutErr{}), true},
		{"connection reset", errors.New("read: connection reset by peer"), true},
		{"unexpected EOF", errors.New("unexpected EOF"), true},
		{"plain error", errors.New("something else"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestIsRateLimitResponse(t *testing.T) {
	assert.True(t, isRateLimitResponse(http.StatusForbidden, `{"message":"API rate limit exceeded"}`))
	assert.True(t, isRateLimitResponse(http.StatusForbidden, `{"message":"You have exceeded a secondary RATE LIMIT"}`))
	assert.True(t, isRateLimitResponse(http.StatusForbidden, `{"message":"abuse detection"}`))
	assert.True(t, isRateLimitResponse(http.StatusTooManyRequests, ""))

	assert.False(t, isRateLimitResponse(http.StatusForbidden, `{"message":"Resource not accessible by integration"}`))
	assert.False(t, isRateLimitResponse(http.StatusNotFound, `{"message":"rate limit"}`))
}

func TestHTTPErrorTruncatesBody(t *testing.T) {
	err := &HTTPError{
		StatusCode: 500,
		Endpoint:   "/repos/o/r",
		Body:       strings.Repeat("x", 500),
	}
	assert.Less(t, len(err.Error()), 300)
	assert.Contains(t, err.Error(), "...")
}
