package crawler

import "linkrot/result"

// Event reports progress for a single processed URL. The engine emits one
// event per recorded outcome.
type Event struct {
	Outcome *result.Outcome
	URL     string
	Checked int // outcomes recorded so far
	Errors  int // failing outcomes so far
}
