package crawler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"linkrot/result"
)

// RetryPolicy configures optional retries for transient failures. The zero
// value disables retries, matching the one-shot semantics of a plain check.
type RetryPolicy struct {
	MaxRetries int           // retries after the first attempt
	BaseDelay  time.Duration // initial backoff delay
	MaxDelay   time.Duration // backoff cap
}

// CheckURLWithRetry wraps CheckURL with exponential backoff. Only transient
// failures are retried: network errors, 429 and 5xx. Client errors other
// than 429 are permanent.
func CheckURLWithRetry(ctx context.Context, client *http.Client, job Job, cfg Config) fetchResult {
	policy := cfg.Retry
	backoff := policy.BaseDelay
	if backoff <= 0 {
		backoff = time.Second
	}

	var last fetchResult
	attempts := 0

	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		attempts = attempt + 1

		if attempt > 0 {
			select {
			case <-ctx.Done():
				last.Outcome.ErrKind = result.ErrNetwork
				last.Outcome.ErrorCategory = result.ClassifyError(ctx.Err(), 0)
				last.Outcome.Error = ctx.Err().Error()
				return last
			case <-time.After(backoff):
				backoff *= 2
				if policy.MaxDelay > 0 && backoff > policy.MaxDelay {
					backoff = policy.MaxDelay
				}
			}
		}

		last = CheckURL(ctx, client, job, cfg)
		if !shouldRetry(last.Outcome) {
			return last
		}
	}

	if attempts > 1 && last.Outcome.Error != "" {
		last.Outcome.Error = fmt.Sprintf("%s (after %d attempts)", last.Outcome.Error, attempts)
	}
	return last
}

// shouldRetry reports whether an outcome represents a transient failure.
func shouldRetry(o result.Outcome) bool {
	if o.ErrKind == result.ErrNetwork {
		return true
	}
	if o.ErrKind == result.ErrParse {
		return false
	}
	if o.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return o.StatusCode >= 500
}
