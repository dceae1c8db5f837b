package crawler

import (
	"io"
	"net/url"

	"golang.org/x/net/html"

	"linkrot/result"
	"linkrot/urlutil"
)

// LinkRef is one candidate link discovered on a page: an <a href> or an
// <img src>, resolved to its canonical absolute URL.
type LinkRef struct {
	URL        string          // canonical target URL
	Kind       result.LinkKind // hyperlink or image
	SourcePage string          // the page the link was found on
}

// ExtractLinks tokenizes HTML from the reader and collects hyperlink and
// image references. Relative URLs are resolved against baseURL, non-HTTP
// schemes are dropped, fragments are stripped via canonicalization, and
// duplicates are removed while preserving document order.
//
// Extraction is lenient: a malformed tag or an unparseable href skips that
// one reference, never the page. The only error returned is a failure to
// read the body itself.
func ExtractLinks(body io.Reader, baseURL *url.URL) ([]LinkRef, error) {
	tokenizer := html.NewTokenizer(body)
	sourcePage := baseURL.String()
	seen := make(map[string]bool)
	var links []LinkRef

	for {
		tokenType := tokenizer.Next()
		switch tokenType {
		case html.ErrorToken:
			if err := tokenizer.Err(); err != io.EOF {
				return links, err
			}
			return links, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()

			var ref string
			var kind result.LinkKind
			switch token.Data {
			case "a":
				ref = attrValue(token, "href")
				kind = result.KindHyperlink
			case "img":
				ref = attrValue(token, "src")
				kind = result.KindImage
			default:
				continue
			}
			if ref == "" {
				continue
			}

			refURL, err := url.Parse(ref)
			if err != nil {
				continue
			}
			resolved := baseURL.ResolveReference(refURL).String()

			if !urlutil.IsHTTPScheme(resolved) {
				continue
			}

			canonical, err := urlutil.Normalize(resolved)
			if err != nil {
				continue
			}

			if !seen[canonical] {
				seen[canonical] = true
				links = append(links, LinkRef{
					URL:        canonical,
					Kind:       kind,
					SourcePage: sourcePage,
				})
			}
		}
	}
}

// attrValue returns the value of the named attribute, or "" if absent.
func attrValue(token html.Token, name string) string {
	for _, attr := range token.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}
