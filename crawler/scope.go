package crawler

import (
	"fmt"

	"linkrot/urlutil"
)

// Scope says whether a link points at the run's own host or somewhere else.
type Scope string

const (
	// ScopeInternal means the link's host exactly equals the start host.
	ScopeInternal Scope = "internal"
	// ScopeExternal means any other host. Subdomains are external.
	ScopeExternal Scope = "external"
)

// Action is the per-link disposition derived from scope and configuration.
type Action string

const (
	// ActionCheck fetches the link but never recurses into it.
	ActionCheck Action = "check"
	// ActionIgnore skips the link entirely: no fetch, no outcome.
	ActionIgnore Action = "ignore"
	// ActionFollow fetches the link and, if it is an HTML page, recurses
	// into its links.
	ActionFollow Action = "follow"
)

// Policy maps each scope to an action. It is fixed for the lifetime of a
// run and read-only after start.
type Policy struct {
	Internal Action
	External Action
}

// DefaultPolicy checks every link in both scopes without recursion, which
// is a single-page dead link check.
func DefaultPolicy() Policy {
	return Policy{Internal: ActionCheck, External: ActionCheck}
}

// ActionFor returns the configured action for a scope.
func (p Policy) ActionFor(scope Scope) Action {
	if scope == ScopeInternal {
		return p.Internal
	}
	return p.External
}

// Classify decides whether a URL is internal or external relative to the
// run's start host. The comparison is an exact hostname match; a subdomain
// of the start host is external.
func Classify(rawURL string, startHost string) Scope {
	if urlutil.SameHost(rawURL, startHost) {
		return ScopeInternal
	}
	return ScopeExternal
}

// ParseAction converts a flag or config value into an Action.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionCheck, ActionIgnore, ActionFollow:
		return Action(s), nil
	}
	return "", fmt.Errorf("invalid action %q (want check, ignore or follow)", s)
}
