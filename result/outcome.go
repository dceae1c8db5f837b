// Package result defines the per-link outcome and aggregate statistics types
// produced by a crawl, along with output helpers for rendering and exporting
// them.
package result

import "time"

// LinkKind distinguishes where a link came from in the source page.
type LinkKind string

const (
	// KindHyperlink is an <a href> reference.
	KindHyperlink LinkKind = "hyperlink"
	// KindImage is an <img src> reference.
	KindImage LinkKind = "image"
)

// ErrKind classifies how a check failed to produce an HTTP status.
type ErrKind string

const (
	// ErrNone means an HTTP status was obtained (the status itself may
	// still be a 4xx/5xx link error).
	ErrNone ErrKind = ""
	// ErrNetwork covers connection failures, timeouts and DNS errors.
	ErrNetwork ErrKind = "network"
	// ErrParse means the response body could not be read or decoded when a
	// parse was required for recursion.
	ErrParse ErrKind = "parse"
)

// Outcome is the result of checking a single link. Exactly one Outcome is
// produced per distinct URL that was dispatched with a check or follow
// action; ignored links produce none.
type Outcome struct {
	URL           string        `json:"url"`                      // canonical URL that was checked
	StatusCode    int           `json:"status_code"`              // HTTP status code (0 when ErrKind != ErrNone)
	ErrKind       ErrKind       `json:"error_kind,omitempty"`     // how the check failed, if it did
	Error         string        `json:"error,omitempty"`          // error message when ErrKind != ErrNone
	ErrorCategory ErrorCategory `json:"error_category,omitempty"` // classified at fetch time from the underlying error
	IsRedirect    bool          `json:"is_redirect,omitempty"`    // a 3xx surfaced because redirect following is off
	IsExternal    bool          `json:"is_external"`              // host differs from the run's start host
	Kind          LinkKind      `json:"link_kind"`                // hyperlink or image
	SourcePage    string        `json:"source_page"`              // the page where this link was found
}

// IsLinkError reports whether the link was fetched successfully but returned
// an HTTP error status. This is a broken link, not a crawl failure.
func (o Outcome) IsLinkError() bool {
	return o.ErrKind == ErrNone && o.StatusCode >= 400
}

// IsError reports whether the outcome is anything other than a clean status.
func (o Outcome) IsError() bool {
	return o.ErrKind != ErrNone || o.IsLinkError()
}

// Stats contains the aggregate counters for a crawl run.
type Stats struct {
	TotalChecked  int           // outcomes produced
	Internal      int           // outcomes for same-host links
	External      int           // outcomes for other hosts
	LinkErrors    int           // 4xx/5xx statuses
	NetworkErrors int           // network and parse failures
	Duration      time.Duration // wall time for the run
}

// Report is the complete output of a crawl run: every outcome plus the
// aggregate statistics.
type Report struct {
	Outcomes []Outcome
	Stats    Stats
}

// Broken returns the outcomes that represent failures of any kind.
func (r *Report) Broken() []Outcome {
	var broken []Outcome
	for _, o := range r.Outcomes {
		if o.IsError() {
			broken = append(broken, o)
		}
	}
	return broken
}
