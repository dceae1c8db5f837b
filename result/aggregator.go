package result

import (
	"sync"
	"time"
)

// Aggregator accumulates outcomes from concurrent workers. All counter
// updates happen under a single mutex; contention here is cheap compared to
// the network I/O that precedes every Record call.
type Aggregator struct {
	mu       sync.Mutex
	outcomes []Outcome
	stats    Stats
	start    time.Time
}

// NewAggregator creates an Aggregator and starts the run clock.
func NewAggregator() *Aggregator {
	return &Aggregator{start: time.Now()}
}

// Record adds one outcome to the totals. Safe for concurrent use.
func (a *Aggregator) Record(o Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.outcomes = append(a.outcomes, o)
	a.stats.TotalChecked++

	if o.IsExternal {
		a.stats.External++
	} else {
		a.stats.Internal++
	}

	switch {
	case o.ErrKind != ErrNone:
		a.stats.NetworkErrors++
	case o.StatusCode >= 400:
		a.stats.LinkErrors++
	}
}

// Finalize returns an immutable snapshot of the statistics with the elapsed
// duration filled in. It is also used for the partial snapshot when a run
// is cancelled.
func (a *Aggregator) Finalize() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	stats := a.stats
	stats.Duration = time.Since(a.start)
	return stats
}

// Report returns the full report: a copy of every recorded outcome plus the
// finalized statistics.
func (a *Aggregator) Report() *Report {
	a.mu.Lock()
	outcomes := make([]Outcome, len(a.outcomes))
	copy(outcomes, a.outcomes)
	a.mu.Unlock()

	return &Report{
		Outcomes: outcomes,
		Stats:    a.Finalize(),
	}
}
