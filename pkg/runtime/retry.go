package runtime

import (
	"math"
	"net/http"
	"time"
)

// RetryKind selects how RetryPolicy.Delay computes the wait before the next attempt
// exponential, linear, or a custom function.
type RetryKind string

const (
	RetryNone        RetryKind = ""
	RetryExponential RetryKind = "exponential"
	RetryLinear      RetryKind = "linear"
	RetryCustom      RetryKind = "custom"
)

// RetryPolicy governs whether and how a failed attempt is retried.
type RetryPolicy struct {
	Kind RetryKind

	// MaxAttempts is the number of retries after the initial attempt (so MaxAttempts=2
	// means up to 3 total requests). Zero means RetryNone behavior regardless of Kind.
	MaxAttempts int

	// BaseDelay is the base used by RetryExponential (base·2^attempt) and RetryLinear
	// (base·(attempt+1)).
	BaseDelay time.Duration

	// RetryOn lists status codes that are retryable in addition to network errors with
	// no response at all.
	RetryOn map[int]bool

	// Custom, when Kind is RetryCustom, computes the delay for a given attempt and
	// outcome; returning a negative duration means "do not retry".
	Custom func(attempt int, resp *http.Response, err error) time.Duration
}

// shouldRetry reports whether outcome (resp, err) at the given attempt number is
// retryable under p, and if so the delay to wait before the next attempt.
func (p RetryPolicy) shouldRetry(attempt int, resp *http.Response, err error) (time.Duration, bool) {
	if p.Kind == RetryNone || attempt >= p.MaxAttempts {
		return 0, false
	}
	if !p.isRetryableOutcome(resp, err) {
		return 0, false
	}
	switch p.Kind {
	case RetryExponential:
		return time.Duration(float64(p.BaseDelay) * math.Pow(2, float64(attempt))), true
	case RetryLinear:
		return p.BaseDelay * time.Duration(attempt+1), true
	case RetryCustom:
		if p.Custom == nil {
			return 0, false
		}
		d := p.Custom(attempt, resp, err)
		if d < 0 {
			return 0, false
		}
		return d, true
	default:
		return 0, false
	}
}

func (p RetryPolicy) isRetryableOutcome(resp *http.Response, err error) bool {
	if err != nil && resp == nil {
		return true
	}
	if resp == nil {
		return false
	}
	return p.RetryOn[resp.StatusCode]
}

// DefaultRetryOn is the conventional set of transient server statuses a client
// typically wants retried: 429 and the 5xx family except 501 (Not Implemented, which
// will never succeed on retry).
func DefaultRetryOn() map[int]bool {
	return map[int]bool{429: true, 500: true, 502: true, 503: true, 504: true}
}
