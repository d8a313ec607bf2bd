package adapter

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"google.golang.org/api/googleapi"
)

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}

	if sentinel := sentinelForStatus(resp.StatusCode(), nil); sentinel != nil {
		return fmt.Errorf("%w: http %d: %s", sentinel, resp.StatusCode(), body)
	}

	return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
}

// mapGoogleError wraps a Drive API error with the matching sentinel while
// keeping the *googleapi.Error reachable through errors.As.
func mapGoogleError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	reasons := make([]string, 0, len(gerr.Errors))
	for _, item := range gerr.Errors {
		reasons = append(reasons, item.Reason)
	}

	if sentinel := sentinelForStatus(gerr.Code, reasons); sentinel != nil {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return err
}

func sentinelForStatus(code int, reasons []string) error {
	switch {
	case code == http.StatusBadRequest:
		return ErrBadRequest
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusForbidden:
		for _, r := range reasons {
			switch r {
			case "quotaExceeded", "storageQuotaExceeded", "dailyLimitExceeded":
				return ErrQuotaExceeded
			case "rateLimitExceeded", "userRateLimitExceeded":
				return ErrRateLimited
			}
		}
		return ErrForbidden
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests:
		return ErrRateLimited
	case code == http.StatusInsufficientStorage:
		return ErrQuotaExceeded
	case code >= http.StatusInternalServerError:
		return ErrServerUnavailable
	default:
		return nil
	}
}
