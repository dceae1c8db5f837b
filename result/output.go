package result

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// WriteJSON writes all outcomes as a formatted JSON array to the writer.
// The flat array format (no metadata wrapper) keeps CI integration simple.
func WriteJSON(w io.Writer, outcomes []Outcome) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outcomes); err != nil {
		return fmt.Errorf("write json output: %w", err)
	}
	return nil
}

// WriteCSV writes all outcomes as CSV to the writer. The header row is
// always present, even for an empty crawl.
func WriteCSV(w io.Writer, outcomes []Outcome) error {
	cw := csv.NewWriter(w)

	header := []string{"url", "status_code", "error_kind", "error", "category", "link_kind", "is_external", "is_redirect", "source_page"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, o := range outcomes {
		category := ""
		if o.IsError() {
			category = string(o.Category())
		}
		record := []string{
			o.URL,
			statusCodeStr(o.StatusCode),
			string(o.ErrKind),
			o.Error,
			category,
			string(o.Kind),
			strconv.FormatBool(o.IsExternal),
			strconv.FormatBool(o.IsRedirect),
			o.SourcePage,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record for %s: %w", o.URL, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return nil
}

// statusCodeStr converts an HTTP status code to a string.
// Returns empty string for 0 (no HTTP status obtained).
func statusCodeStr(code int) string {
	if code == 0 {
		return ""
	}
	return strconv.Itoa(code)
}
