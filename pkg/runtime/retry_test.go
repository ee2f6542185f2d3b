package runtime

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestRetryExponentialDelay(t *testing.T) {
	p := RetryPolicy{Kind: RetryExponential, MaxAttempts: 3, BaseDelay: 10 * time.Millisecond, RetryOn: DefaultRetryOn()}
	resp := &http.Response{StatusCode: 503}

	for attempt, want := range map[int]time.Duration{0: 10 * time.Millisecond, 1: 20 * time.Millisecond, 2: 40 * time.Millisecond} {
		got, retry := p.shouldRetry(attempt, resp, nil)
		if !retry {
			t.Fatalf("attempt %d: expected retry", attempt)
		}
		if got != want {
			t.Errorf("attempt %d: delay = %v, want %v", attempt, got, want)
		}
	}
	if _, retry := p.shouldRetry(3, resp, nil); retry {
		t.Error("attempt 3 should exceed MaxAttempts and not retry")
	}
}

func TestRetryLinearDelay(t *testing.T) {
	p := RetryPolicy{Kind: RetryLinear, MaxAttempts: 2, BaseDelay: 5 * time.Millisecond, RetryOn: DefaultRetryOn()}
	resp := &http.Response{StatusCode: 500}
	got, retry := p.shouldRetry(1, resp, nil)
	if !retry || got != 10*time.Millisecond {
		t.Errorf("delay = %v, retry = %v", got, retry)
	}
}

func TestRetryNoneNeverRetries(t *testing.T) {
	p := RetryPolicy{Kind: RetryNone}
	if _, retry := p.shouldRetry(0, &http.Response{StatusCode: 500}, nil); retry {
		t.Error("RetryNone should never retry")
	}
}

func TestRetryNetworkErrorWithNoResponseIsRetryable(t *testing.T) {
	p := RetryPolicy{Kind: RetryExponential, MaxAttempts: 1, BaseDelay: time.Millisecond, RetryOn: DefaultRetryOn()}
	if _, retry := p.shouldRetry(0, nil, context.DeadlineExceeded); !retry {
		t.Error("a network error with no response should be retryable")
	}
}

func TestRetryCustomNegativeMeansStop(t *testing.T) {
	p := RetryPolicy{
		Kind:        RetryCustom,
		MaxAttempts: 5,
		Custom: func(attempt int, resp *http.Response, err error) time.Duration {
			if attempt >= 1 {
				return -1
			}
			return time.Millisecond
		},
	}
	if _, retry := p.shouldRetry(0, nil, context.DeadlineExceeded); !retry {
		t.Error("attempt 0 should retry")
	}
	if _, retry := p.shouldRetry(1, nil, context.DeadlineExceeded); retry {
		t.Error("attempt 1 should stop per custom policy")
	}
}
