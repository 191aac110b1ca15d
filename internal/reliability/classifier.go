package reliability

import (
	"context"
	"errors"
	"net"
	"time"
)

// Error classes used as log fields and metric labels.
const (
	ClassRateLimited = "rate_limited"
	ClassAuth        = "auth"
	ClassBadRequest  = "bad_request"
	ClassUpstream    = "upstream"
	ClassTimeout     = "timeout"
	ClassCanceled    = "canceled"
	ClassNetwork     = "network"
	ClassOther       = "other"
)

// IsRetryableHTTPStatus classifies retryable HTTP status codes.
func IsRetryableHTTPStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

// ClassifyHTTPStatus maps an upstream status code to an error class.
func ClassifyHTTPStatus(code int) string {
	switch {
	case code == 429:
		return ClassRateLimited
	case code == 401 || code == 403:
		return ClassAuth
	case code == 408:
		return ClassTimeout
	case code >= 500:
		return ClassUpstream
	case code >= 400:
		return ClassBadRequest
	default:
		return ClassOther
	}
}

// ClassifyError buckets a provider failure. status is the upstream HTTP
// status when one is known, 0 otherwise.
func ClassifyError(err error, status int) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, context.Canceled):
		return ClassCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ClassTimeout
	}
	if status > 0 {
		return ClassifyHTTPStatus(status)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ClassTimeout
		}
		return ClassNetwork
	}
	return ClassOther
}

// ExponentialBackoff computes a deterministic capped backoff duration.
func ExponentialBackoff(attempt int, base, cap time.Duration) time.Duration {
	if attempt <= 0 {
		return base
	}
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= cap {
			return cap
		}
	}
	return d
}
