package result

import (
	"context"
	"errors"
	"net"
	"strings"
)

// ErrorCategory is a display-level classification of a failed outcome,
// used to group the summary and annotate exports.
type ErrorCategory string

const (
	CategoryTimeout           ErrorCategory = "timeout"
	CategoryDNSFailure        ErrorCategory = "dns_failure"
	CategoryConnectionRefused ErrorCategory = "connection_refused"
	Category4xx               ErrorCategory = "4xx"
	Category5xx               ErrorCategory = "5xx"
	CategoryParse             ErrorCategory = "parse"
	CategoryUnknown           ErrorCategory = "unknown"
)

// ClassifyError determines the error category from the underlying fetch
// error and the HTTP status code, if one was obtained.
func ClassifyError(err error, statusCode int) ErrorCategory {
	if statusCode > 0 {
		if statusCode >= 400 && statusCode <= 499 {
			return Category4xx
		}
		if statusCode >= 500 {
			return Category5xx
		}
	}

	if err == nil {
		return CategoryUnknown
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CategoryDNSFailure
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return CategoryTimeout
		}
		if opErr.Op == "dial" && strings.Contains(opErr.Error(), "connection refused") {
			return CategoryConnectionRefused
		}
	}

	// url.Error wraps the transport error; its Timeout method catches
	// client-level timeouts that are not a context deadline.
	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return CategoryTimeout
	}

	return CategoryUnknown
}

// Category returns the display category for an outcome. Fetch-time failures
// carry their category from ClassifyError; status-based outcomes derive it
// from the code.
func (o Outcome) Category() ErrorCategory {
	if o.ErrorCategory != "" {
		return o.ErrorCategory
	}
	if o.ErrKind == ErrParse {
		return CategoryParse
	}
	if o.StatusCode >= 400 && o.StatusCode <= 499 {
		return Category4xx
	}
	if o.StatusCode >= 500 {
		return Category5xx
	}
	return CategoryUnknown
}

// FormatCategory returns a human-readable label for an error category.
func FormatCategory(cat ErrorCategory) string {
	switch cat {
	case CategoryTimeout:
		return "Timeouts"
	case CategoryDNSFailure:
		return "DNS Failures"
	case CategoryConnectionRefused:
		return "Connection Refused"
	case Category4xx:
		return "Client Errors (4xx)"
	case Category5xx:
		return "Server Errors (5xx)"
	case CategoryParse:
		return "Parse Errors"
	default:
		return "Other Errors"
	}
}
