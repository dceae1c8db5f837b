package crawler

import "sync"

// Registry is the visited-URL set. It records every canonical URL ever
// scheduled for a fetch and guarantees each one is dispatched at most once
// across the whole run. Entries are never removed; a crawl run is bounded
// and transient, so the set simply grows until the run ends.
//
// A single mutex over a map is deliberate: contention on the registry is
// negligible next to the network latency of every fetch around it.
type Registry struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewRegistry creates an empty visited registry.
func NewRegistry() *Registry {
	return &Registry{seen: make(map[string]struct{})}
}

// TryMark atomically records url and reports whether it was new. Under any
// number of concurrent callers racing on the same URL, exactly one call
// returns true.
func (r *Registry) TryMark(url string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seen[url]; ok {
		return false
	}
	r.seen[url] = struct{}{}
	return true
}

// Seen reports whether url has been marked.
func (r *Registry) Seen(url string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.seen[url]
	return ok
}

// Len returns the number of URLs ever marked.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.seen)
}
