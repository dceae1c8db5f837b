// Package crawler implements the concurrent link-validity engine: a bounded
// worker pool that fetches links discovered from a start URL, a linearizable
// visited registry that guarantees each URL is dispatched at most once, and
// per-scope check/ignore/follow policy for deciding what to fetch and what
// to recurse into.
package crawler

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"linkrot/result"
	"linkrot/urlutil"
)

// Crawler coordinates one crawl run. Create with New, execute with Run.
// A Crawler is single-use.
type Crawler struct {
	cfg        Config
	client     *http.Client
	visited    *Registry
	progressCh chan<- Event
	startURL   string
	startHost  string

	// progress counters, touched only by the coordinator goroutine
	checked int
	errors  int
}

// New validates the start URL and builds a Crawler. A start URL that is not
// an absolute http(s) URL is a fatal input error.
//
// The progressCh parameter is optional; pass nil to disable progress events.
// When set, the channel is closed by Run on completion.
func New(cfg Config, progressCh chan<- Event) (*Crawler, error) {
	if cfg.Threads <= 0 {
		cfg.Threads = 1
	}
	if cfg.Policy == (Policy{}) {
		cfg.Policy = DefaultPolicy()
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "linkrot/1.0"
	}

	if !urlutil.IsHTTPScheme(cfg.StartURL) {
		return nil, fmt.Errorf("start URL %q must be an absolute http or https URL", cfg.StartURL)
	}
	startURL, err := urlutil.Normalize(cfg.StartURL)
	if err != nil {
		return nil, fmt.Errorf("start URL: %w", err)
	}

	client := &http.Client{}
	if !cfg.FollowRedirects {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return &Crawler{
		cfg:        cfg,
		client:     client,
		visited:    NewRegistry(),
		progressCh: progressCh,
		startURL:   startURL,
		startHost:  urlutil.Hostname(startURL),
	}, nil
}

// Run executes the crawl and returns the report. The seed page is fetched
// and parsed but yields no Outcome of its own; an unreachable seed aborts
// the run with an error. Cancelling ctx stops dispatch promptly and returns
// the partial report together with the context error.
func (c *Crawler) Run(ctx context.Context) (*result.Report, error) {
	agg := result.NewAggregator()

	if c.progressCh != nil {
		defer close(c.progressCh)
	}

	jobs := make(chan Job)
	results := make(chan fetchResult, c.cfg.Threads)

	group, gctx := errgroup.WithContext(ctx)
	for range c.cfg.Threads {
		group.Go(func() error {
			for job := range jobs {
				results <- CheckURLWithRetry(gctx, c.client, job, c.cfg)
			}
			return nil
		})
	}

	c.visited.TryMark(c.startURL)
	pending := []Job{{
		URL:   c.startURL,
		Scope: Classify(c.startURL, c.startHost),
		Seed:  true,
	}}

	var fatal error
	var cancelErr error
	inflight := 0
	done := gctx.Done()

	// Coordinator loop. The pending queue lives here so that a page with an
	// arbitrary number of links can never wedge the worker channels: jobs
	// are offered to the pool and results accepted in the same select.
	for inflight > 0 || len(pending) > 0 {
		var dispatch chan Job
		var next Job
		if len(pending) > 0 {
			dispatch = jobs
			next = pending[0]
		}

		select {
		case dispatch <- next:
			pending = pending[1:]
			inflight++

		case r := <-results:
			inflight--
			if r.Job.Seed {
				if r.Outcome.ErrKind != result.ErrNone {
					fatal = fmt.Errorf("unable to crawl %s: %s", r.Job.URL, r.Outcome.Error)
					pending = nil
					continue
				}
			} else {
				agg.Record(r.Outcome)
				c.emit(r.Outcome)
			}
			if cancelErr == nil {
				pending = append(pending, c.discover(r)...)
			}

		case <-done:
			// Stop dispatching, abandon queued work, drain in-flight
			// fetches (their request contexts are already cancelled).
			cancelErr = gctx.Err()
			done = nil
			pending = nil
		}
	}

	close(jobs)
	if err := group.Wait(); err != nil {
		return agg.Report(), fmt.Errorf("wait for workers: %w", err)
	}

	report := agg.Report()
	switch {
	case fatal != nil:
		return report, fatal
	case cancelErr != nil:
		return report, cancelErr
	}
	return report, nil
}

// discover turns the links found on a parsed page into jobs. Only the seed
// and follow-action pages carry links. Each link is classified, resolved
// against the policy, and enqueued only if it wins the visited-registry
// race; ignored links are skipped before they ever touch the registry.
func (c *Crawler) discover(r fetchResult) []Job {
	if !r.Job.Seed && r.Job.Action != ActionFollow {
		return nil
	}

	var discovered []Job
	for _, link := range r.Links {
		scope := Classify(link.URL, c.startHost)
		action := c.cfg.Policy.ActionFor(scope)
		if action == ActionIgnore {
			continue
		}
		if !c.visited.TryMark(link.URL) {
			continue
		}
		discovered = append(discovered, Job{
			URL:        link.URL,
			SourcePage: link.SourcePage,
			Kind:       link.Kind,
			Scope:      scope,
			Action:     action,
		})
	}
	return discovered
}

// emit updates the progress counters and publishes the outcome, if anyone
// is listening.
func (c *Crawler) emit(o result.Outcome) {
	c.checked++
	if o.IsError() {
		c.errors++
	}
	if c.progressCh == nil {
		return
	}
	outcome := o
	c.progressCh <- Event{
		Outcome: &outcome,
		URL:     o.URL,
		Checked: c.checked,
		Errors:  c.errors,
	}
}

// StartURL returns the canonical form of the configured start URL.
func (c *Crawler) StartURL() string {
	return c.startURL
}
