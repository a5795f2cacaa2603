package request_queue

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"too many requests", &StatusError{StatusCode: http.StatusTooManyRequests}, true},
		{"internal server error", &StatusError{StatusCode: http.StatusInternalServerError}, true},
		{"bad gateway", &StatusError{StatusCode: http.StatusBadGateway}, true},
		{"gateway timeout", &StatusError{StatusCode: http.StatusGatewayTimeout}, true},
		{"http version not supported", &StatusError{StatusCode: http.StatusHTTPVersionNotSupported}, false},
		{"not found", &StatusError{StatusCode: http.StatusNotFound}, false},
		{"unauthorized", &StatusError{StatusCode: http.StatusUnauthorized}, false},
		{"network", &NetworkError{Err: errors.New("dial tcp: connection refused")}, true},
		{"wrapped network", errors.Wrap(&NetworkError{Err: errors.New("eof")}, "load parts"), true},
		{"wrapped status", fmt.Errorf("load parts: %w", &StatusError{StatusCode: http.StatusServiceUnavailable}), true},
		{"timeout", context.DeadlineExceeded, true},
		{"cancelled", context.Canceled, false},
		{"parse error", errors.New("invalid character '<' looking for beginning of value"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldRetry(tt.err))
		})
	}
}

func TestStatusError_Message(t *testing.T) {
	err := &StatusError{Method: "GET", URL: "/odata/Parts", StatusCode: 404, Body: "not found"}
	assert.Equal(t, "GET /odata/Parts failed with status 404: not found", err.Error())

	err.Body = ""
	assert.Equal(t, "GET /odata/Parts failed with status 404", err.Error())
}

func TestNetworkError_Unwrap(t *testing.T) {
	err := &NetworkError{Err: context.DeadlineExceeded}
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
