package urlutil

import (
	"net/url"
	"strings"
)

// SameHost reports whether targetURL's hostname exactly equals baseHost.
// The comparison is case-insensitive and ignores ports. Subdomains do NOT
// match: blog.example.com is a different host than example.com.
func SameHost(targetURL string, baseHost string) bool {
	parsed, err := url.Parse(targetURL)
	if err != nil {
		return false
	}

	return strings.EqualFold(parsed.Hostname(), baseHost)
}

// Hostname extracts the hostname (without port) from a URL string.
// Returns the input unchanged if it cannot be parsed.
func Hostname(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return parsed.Hostname()
}

// IsHTTPScheme returns true if the URL has an http or https scheme.
// Returns false for empty strings, non-HTTP schemes, or unparseable URLs.
func IsHTTPScheme(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	scheme := strings.ToLower(parsed.Scheme)
	return scheme == "http" || scheme == "https"
}
