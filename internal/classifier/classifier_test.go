package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/MKhiriev/life-sync/internal/adapter"
	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

func TestClassify_Structured(t *testing.T) {
	var syntaxErr error
	{
		var v map[string]any
		syntaxErr = json.Unmarshal([]byte(`{"broken"`), &v)
	}

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "nil", err: nil, want: Unknown},
		{name: "adapter unauthorized", err: fmt.Errorf("upload: %w", adapter.ErrUnauthorized), want: Auth},
		{name: "adapter forbidden", err: adapter.ErrForbidden, want: Permission},
		{name: "adapter quota", err: adapter.ErrQuotaExceeded, want: QuotaExceeded},
		{name: "adapter rate limited", err: adapter.ErrRateLimited, want: Server},
		{name: "adapter server unavailable", err: adapter.ErrServerUnavailable, want: Server},
		{name: "adapter corrupt", err: fmt.Errorf("download: %w", adapter.ErrCorruptDocument), want: Corruption},
		{name: "adapter not found", err: adapter.ErrNotFound, want: Unknown},
		{name: "google 401", err: &googleapi.Error{Code: http.StatusUnauthorized}, want: Auth},
		{name: "google 403 plain", err: &googleapi.Error{Code: http.StatusForbidden}, want: Permission},
		{
			name: "google 403 storage quota",
			err:  &googleapi.Error{Code: http.StatusForbidden, Errors: []googleapi.ErrorItem{{Reason: "storageQuotaExceeded"}}},
			want: QuotaExceeded,
		},
		{
			name: "google 403 rate limit",
			err:  &googleapi.Error{Code: http.StatusForbidden, Errors: []googleapi.ErrorItem{{Reason: "userRateLimitExceeded"}}},
			want: Server,
		},
		{name: "google 429", err: &googleapi.Error{Code: http.StatusTooManyRequests}, want: Server},
		{name: "google 503", err: fmt.Errorf("list: %w", &googleapi.Error{Code: http.StatusServiceUnavailable}), want: Server},
		{name: "google 404", err: &googleapi.Error{Code: http.StatusNotFound}, want: Unknown},
		{name: "oauth invalid grant", err: &oauth2.RetrieveError{Response: &http.Response{StatusCode: http.StatusBadRequest}, ErrorCode: "invalid_grant"}, want: Auth},
		{name: "oauth endpoint down", err: &oauth2.RetrieveError{Response: &http.Response{StatusCode: http.StatusBadGateway}}, want: Server},
		{name: "deadline", err: fmt.Errorf("call: %w", context.DeadlineExceeded), want: Network},
		{name: "connection refused", err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, want: Network},
		{name: "url error", err: &url.Error{Op: "Get", URL: "http://x", Err: errors.New("dial tcp")}, want: Network},
		{name: "json syntax", err: syntaxErr, want: Corruption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.Equal(t, tt.want, got.Kind)
			assert.Equal(t, tt.want.Retryable(), got.Retryable)
			assert.Equal(t, tt.want.MaxRetries(), got.MaxRetries)
		})
	}
}

func TestClassify_MessageFallback(t *testing.T) {
	tests := []struct {
		msg  string
		want ErrorKind
	}{
		{"request failed: Unauthorized", Auth},
		{"daily quota reached", QuotaExceeded},
		{"permission denied for file", Permission},
		{"integrity tag mismatch", Corruption},
		{"i/o timeout", Network},
		{"upstream said: Service Unavailable", Server},
		{"something odd", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(errors.New(tt.msg)).Kind)
		})
	}
}

func TestRetryPolicy(t *testing.T) {
	assert.True(t, Network.Retryable())
	assert.True(t, Server.Retryable())
	assert.True(t, Corruption.Retryable())
	assert.False(t, Auth.Retryable())
	assert.False(t, QuotaExceeded.Retryable())
	assert.False(t, Permission.Retryable())
	assert.False(t, Unknown.Retryable())

	assert.Equal(t, 5, Network.MaxRetries())
	assert.Equal(t, 3, Server.MaxRetries())
	assert.Equal(t, 2, Corruption.MaxRetries())
	for _, k := range []ErrorKind{Auth, QuotaExceeded, Permission, Unknown} {
		assert.Equal(t, 1, k.MaxRetries(), k)
	}
}

func TestBaseBackoff(t *testing.T) {
	tests := []struct {
		retry int
		kind  ErrorKind
		want  time.Duration
	}{
		{0, Network, 2 * time.Second},
		{1, Network, 4 * time.Second},
		{2, Network, 8 * time.Second},
		{3, Network, 16 * time.Second},
		{10, Network, 16 * time.Second},
		{0, Server, time.Second},
		{3, Server, 8 * time.Second},
		{4, Corruption, 16 * time.Second},
		{-1, Server, time.Second},
		{64, Server, 16 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.kind, tt.retry), func(t *testing.T) {
			assert.Equal(t, tt.want, BaseBackoff(tt.retry, tt.kind))
		})
	}
}

func TestBackoff_JitterBounded(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := Backoff(1, Server)
		assert.GreaterOrEqual(t, d, 2*time.Second)
		assert.Less(t, d, 3*time.Second)
	}
}
