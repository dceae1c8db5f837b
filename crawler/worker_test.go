package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"linkrot/result"
)

func checkOne(t *testing.T, cfg Config, job Job) fetchResult {
	t.Helper()
	client := &http.Client{}
	if !cfg.FollowRedirects {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return CheckURL(context.Background(), client, job, cfg)
}

func TestCheckURLStatusRecorded(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer ts.Close()

	res := checkOne(t, Config{}, Job{URL: ts.URL, Action: ActionCheck})

	if res.Outcome.StatusCode != 404 {
		t.Errorf("StatusCode = %d, want 404", res.Outcome.StatusCode)
	}
	if res.Outcome.ErrKind != result.ErrNone {
		t.Errorf("ErrKind = %q, want none", res.Outcome.ErrKind)
	}
	if !res.Outcome.IsLinkError() {
		t.Error("a 404 should be a link error")
	}
}

// TestCheckURLTimeoutIsNetworkError simulates a server slower than the
// configured timeout; the outcome must be a network error, never silently
// dropped.
func TestCheckURLTimeoutIsNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer ts.Close()

	cfg := Config{Timeout: 50 * time.Millisecond}
	res := checkOne(t, cfg, Job{URL: ts.URL, Action: ActionCheck})

	if res.Outcome.ErrKind != result.ErrNetwork {
		t.Errorf("ErrKind = %q, want %q", res.Outcome.ErrKind, result.ErrNetwork)
	}
	if res.Outcome.Error == "" {
		t.Error("timeout outcome is missing its error message")
	}
	if got := res.Outcome.Category(); got != result.CategoryTimeout {
		t.Errorf("Category() = %q, want %q", got, result.CategoryTimeout)
	}
}

func TestCheckURLConnectionRefusedIsNetworkError(t *testing.T) {
	// Reserve a port and close the listener so the connection is refused.
	ts := httptest.NewServer(http.NewServeMux())
	url := ts.URL
	ts.Close()

	res := checkOne(t, Config{}, Job{URL: url, Action: ActionCheck})

	if res.Outcome.ErrKind != result.ErrNetwork {
		t.Errorf("ErrKind = %q, want %q", res.Outcome.ErrKind, result.ErrNetwork)
	}
	if got := res.Outcome.Category(); got != result.CategoryConnectionRefused {
		t.Errorf("Category() = %q, want %q", got, result.CategoryConnectionRefused)
	}
}

// TestCheckURLRedirectSurfacedWhenNotFollowing verifies that a 3xx shows up
// as a non-error status with the redirect flag when following is disabled.
func TestCheckURLRedirectSurfacedWhenNotFollowing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/target", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/target", func(w http.ResponseWriter, r *http.Request) {})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	res := checkOne(t, Config{FollowRedirects: false}, Job{URL: ts.URL + "/moved", Action: ActionCheck})

	if res.Outcome.StatusCode != 301 {
		t.Errorf("StatusCode = %d, want 301", res.Outcome.StatusCode)
	}
	if !res.Outcome.IsRedirect {
		t.Error("IsRedirect = false, want true")
	}
	if res.Outcome.IsError() {
		t.Error("a surfaced redirect is not an error")
	}
}

func TestCheckURLRedirectCollapsedWhenFollowing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/target", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/target", func(w http.ResponseWriter, r *http.Request) {})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	res := checkOne(t, Config{FollowRedirects: true}, Job{URL: ts.URL + "/moved", Action: ActionCheck})

	if res.Outcome.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200 (final status)", res.Outcome.StatusCode)
	}
	if res.Outcome.IsRedirect {
		t.Error("IsRedirect = true, want false when following")
	}
}

// TestCheckURLHeadFallsBackToGet verifies the 405 fallback for check-action
// fetches.
func TestCheckURLHeadFallsBackToGet(t *testing.T) {
	var sawGet bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			sawGet = true
			fmt.Fprint(w, "ok")
		}
	}))
	defer ts.Close()

	res := checkOne(t, Config{}, Job{URL: ts.URL, Action: ActionCheck})

	if !sawGet {
		t.Error("expected GET fallback after HEAD 405")
	}
	if res.Outcome.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", res.Outcome.StatusCode)
	}
}

// TestCheckURLFollowParsesLinks verifies that follow-action jobs return the
// page's links while check-action jobs do not.
func TestCheckURLFollowParsesLinks(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<a href="/next">next</a><img src="/pic.png">`)
	}))
	defer ts.Close()

	followed := checkOne(t, Config{}, Job{URL: ts.URL, Action: ActionFollow})
	if len(followed.Links) != 2 {
		t.Errorf("follow job returned %d links, want 2", len(followed.Links))
	}

	checked := checkOne(t, Config{}, Job{URL: ts.URL, Action: ActionCheck})
	if len(checked.Links) != 0 {
		t.Errorf("check job returned %d links, want 0", len(checked.Links))
	}
}

// TestCheckURLNonHTMLNotParsed verifies a follow job on a non-HTML response
// yields no links and no parse error.
func TestCheckURLNonHTMLNotParsed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		fmt.Fprint(w, "%PDF-1.4")
	}))
	defer ts.Close()

	res := checkOne(t, Config{}, Job{URL: ts.URL, Action: ActionFollow})

	if len(res.Links) != 0 {
		t.Errorf("got %d links from a PDF, want 0", len(res.Links))
	}
	if res.Outcome.ErrKind != result.ErrNone {
		t.Errorf("ErrKind = %q, want none", res.Outcome.ErrKind)
	}
}

func TestCheckURLUserAgentSent(t *testing.T) {
	var gotAgent string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
	}))
	defer ts.Close()

	checkOne(t, Config{UserAgent: "linkrot-test/1.0"}, Job{URL: ts.URL, Action: ActionCheck})

	if gotAgent != "linkrot-test/1.0" {
		t.Errorf("User-Agent = %q, want %q", gotAgent, "linkrot-test/1.0")
	}
}

// TestCheckURLWithRetryTransient verifies a 503 is retried when retries are
// enabled and the eventual success wins.
func TestCheckURLWithRetryTransient(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
	}))
	defer ts.Close()

	cfg := Config{Retry: RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond}}
	res := CheckURLWithRetry(context.Background(), &http.Client{}, Job{URL: ts.URL, Action: ActionCheck}, cfg)

	if res.Outcome.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200 after retries", res.Outcome.StatusCode)
	}
	if calls != 3 {
		t.Errorf("server saw %d calls, want 3", calls)
	}
}

// TestCheckURLWithRetryPermanent verifies a 404 is never retried.
func TestCheckURLWithRetryPermanent(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.NotFound(w, r)
	}))
	defer ts.Close()

	cfg := Config{Retry: RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond}}
	res := CheckURLWithRetry(context.Background(), &http.Client{}, Job{URL: ts.URL, Action: ActionCheck}, cfg)

	if res.Outcome.StatusCode != 404 {
		t.Errorf("StatusCode = %d, want 404", res.Outcome.StatusCode)
	}
	if calls != 1 {
		t.Errorf("server saw %d calls, want 1 (no retry on 4xx)", calls)
	}
}

// TestCheckURLWithRetryDisabledByDefault verifies the zero-value policy
// makes exactly one attempt.
func TestCheckURLWithRetryDisabledByDefault(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	CheckURLWithRetry(context.Background(), &http.Client{}, Job{URL: ts.URL, Action: ActionCheck}, Config{})

	if calls != 1 {
		t.Errorf("server saw %d calls, want 1", calls)
	}
}
