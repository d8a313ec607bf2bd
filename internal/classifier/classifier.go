// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"

	"github.com/MKhiriev/life-sync/internal/adapter"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// Classify returns the classification of err. A nil error is classified as
// [Unknown].
func Classify(err error) Classification {
	if err == nil {
		return classification(Unknown)
	}

	if kind, ok := classifyStructured(err); ok {
		return classification(kind)
	}

	return classification(classifyMessage(err.Error()))
}

func classifyStructured(err error) (ErrorKind, bool) {
	switch {
	case errors.Is(err, adapter.ErrUnauthorized):
		return Auth, true
	case errors.Is(err, adapter.ErrQuotaExceeded):
		return QuotaExceeded, true
	case errors.Is(err, adapter.ErrForbidden):
		return Permission, true
	case errors.Is(err, adapter.ErrRateLimited),
		errors.Is(err, adapter.ErrServerUnavailable):
		return Server, true
	case errors.Is(err, adapter.ErrCorruptDocument):
		return Corruption, true
	case errors.Is(err, adapter.ErrBadRequest),
		errors.Is(err, adapter.ErrNotFound):
		return Unknown, true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.Code, googleReasons(apiErr)), true
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		if retrieveErr.Response != nil && retrieveErr.Response.StatusCode >= http.StatusInternalServerError {
			return Server, true
		}
		// invalid_grant and friends: the stored refresh token is unusable
		return Auth, true
	}

	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) {
		return Network, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return Network, true
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return Corruption, true
	}

	return "", false
}

// classifyStatus maps an HTTP status code and optional API reasons.
func classifyStatus(code int, reasons []string) ErrorKind {
	switch {
	case code == http.StatusUnauthorized:
		return Auth
	case code == http.StatusForbidden:
		for _, r := range reasons {
			switch r {
			case "quotaExceeded", "storageQuotaExceeded", "dailyLimitExceeded":
				return QuotaExceeded
			case "rateLimitExceeded", "userRateLimitExceeded":
				return Server
			}
		}
		return Permission
	case code == http.StatusTooManyRequests:
		return Server
	case code == http.StatusInsufficientStorage:
		return QuotaExceeded
	case code == http.StatusRequestTimeout:
		return Network
	case code >= http.StatusInternalServerError:
		return Server
	default:
		return Unknown
	}
}

func googleReasons(apiErr *googleapi.Error) []string {
	reasons := make([]string, 0, len(apiErr.Errors))
	for _, item := range apiErr.Errors {
		reasons = append(reasons, item.Reason)
	}
	return reasons
}

// messageRules are evaluated in order; the first matching rule wins.
var messageRules = []struct {
	kind    ErrorKind
	needles []string
}{
	{Auth, []string{"unauthorized", "unauthenticated", "invalid_grant", "token expired", "401"}},
	{QuotaExceeded, []string{"quota", "storage full", "507"}},
	{Permission, []string{"forbidden", "permission denied", "access denied", "403"}},
	{Corruption, []string{"corrupt", "checksum", "integrity", "unexpected end of json", "invalid character"}},
	{Network, []string{"timeout", "timed out", "connection refused", "connection reset", "no such host", "network is unreachable", "offline", "eof"}},
	{Server, []string{"internal server error", "bad gateway", "service unavailable", "gateway timeout", "500", "502", "503", "504"}},
}

func classifyMessage(msg string) ErrorKind {
	msg = strings.ToLower(msg)
	for _, rule := range messageRules {
		for _, needle := range rule.needles {
			if strings.Contains(msg, needle) {
				return rule.kind
			}
		}
	}
	return Unknown
}
