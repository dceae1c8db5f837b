package crawler

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"linkrot/result"
)

// Config holds the run configuration. It is read-only after the crawl
// starts.
type Config struct {
	StartURL        string        // the seed URL for the run
	Threads         int           // number of concurrent workers (default 1)
	Timeout         time.Duration // per-fetch timeout; 0 means wait indefinitely
	FollowRedirects bool          // when false, a 3xx is surfaced as the status
	Policy          Policy        // per-scope check/ignore/follow actions
	UserAgent       string
	Retry           RetryPolicy // transient-failure retries (default: none)
}

// Job is one URL scheduled for a fetch.
type Job struct {
	URL        string          // canonical URL to check
	SourcePage string          // the page where this link was found
	Kind       result.LinkKind // hyperlink or image
	Scope      Scope
	Action     Action // check or follow; ignored links are never enqueued
	Seed       bool   // the start URL itself, which yields no Outcome
}

// fetchResult is what a worker hands back to the coordinator.
type fetchResult struct {
	Job     Job
	Outcome result.Outcome
	Links   []LinkRef // discovered links, when the job was parsed
}

// CheckURL fetches one URL and classifies the response.
//
// Jobs that need the body for recursion (the seed and follow-action links)
// are fetched with GET. Everything else gets a HEAD request first, falling
// back to GET when the server answers 405, the way image hosts often do.
func CheckURL(ctx context.Context, client *http.Client, job Job, cfg Config) fetchResult {
	res := fetchResult{Job: job}
	res.Outcome = result.Outcome{
		URL:        job.URL,
		Kind:       job.Kind,
		IsExternal: job.Scope == ScopeExternal,
		SourcePage: job.SourcePage,
	}

	reqCtx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	needBody := job.Seed || job.Action == ActionFollow

	method := http.MethodHead
	if needBody {
		method = http.MethodGet
	}

	resp, err := do(reqCtx, client, method, job.URL, cfg.UserAgent)
	if err != nil {
		res.Outcome.ErrKind = result.ErrNetwork
		res.Outcome.ErrorCategory = result.ClassifyError(err, 0)
		res.Outcome.Error = err.Error()
		return res
	}

	if method == http.MethodHead && resp.StatusCode == http.StatusMethodNotAllowed {
		_ = resp.Body.Close()
		resp, err = do(reqCtx, client, http.MethodGet, job.URL, cfg.UserAgent)
		if err != nil {
			res.Outcome.ErrKind = result.ErrNetwork
			res.Outcome.ErrorCategory = result.ClassifyError(err, 0)
			res.Outcome.Error = err.Error()
			return res
		}
	}
	defer func() { _ = resp.Body.Close() }()

	res.Outcome.StatusCode = resp.StatusCode
	if !cfg.FollowRedirects && resp.StatusCode >= 300 && resp.StatusCode < 400 {
		res.Outcome.IsRedirect = true
	}

	if !needBody || resp.StatusCode >= 300 || !isHTML(resp) {
		drainBody(resp.Body)
		return res
	}

	links, err := ExtractLinks(resp.Body, resp.Request.URL)
	if err != nil {
		res.Outcome.ErrKind = result.ErrParse
		res.Outcome.ErrorCategory = result.CategoryParse
		res.Outcome.Error = fmt.Errorf("parse %s: %w", job.URL, err).Error()
		return res
	}
	res.Links = links
	return res
}

// do issues one request with the worker's context and user agent.
func do(ctx context.Context, client *http.Client, method, url, userAgent string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	return client.Do(req)
}

// isHTML reports whether the response claims an HTML body.
func isHTML(resp *http.Response) bool {
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		// Servers that omit the header usually serve HTML; the tokenizer
		// shrugs off anything else.
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.HasPrefix(contentType, "text/html")
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// drainBody discards the rest of a response body so the connection can be
// reused by the pool.
func drainBody(body io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
}
