package result

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	outcomes := []Outcome{
		{URL: "http://example.test/a", StatusCode: 200, Kind: KindHyperlink},
		{URL: "http://example.test/b", StatusCode: 404, Kind: KindHyperlink, SourcePage: "http://example.test/"},
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, outcomes); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	var decoded []Outcome
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("decoded %d outcomes, want 2", len(decoded))
	}
	if decoded[1].StatusCode != 404 {
		t.Errorf("decoded[1].StatusCode = %d, want 404", decoded[1].StatusCode)
	}
}

func TestWriteJSONDoesNotEscapeHTML(t *testing.T) {
	outcomes := []Outcome{
		{URL: "http://example.test/search?a=1&b=2", StatusCode: 200},
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, outcomes); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	got := buf.String()
	if strings.Contains(got, "\\u0026") {
		t.Error("ampersand was HTML-escaped in JSON output")
	}
	if !strings.Contains(got, "a=1&b=2") {
		t.Errorf("URL not preserved literally: %q", got)
	}
}

func TestWriteCSV(t *testing.T) {
	outcomes := []Outcome{
		{URL: "http://example.test/b", StatusCode: 404, Kind: KindHyperlink, SourcePage: "http://example.test/"},
		{URL: "http://down.test/img.png", ErrKind: ErrNetwork, Error: "connection refused", Kind: KindImage, IsExternal: true},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, outcomes); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	// Header + 2 rows.
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0][0] != "url" {
		t.Errorf("header[0] = %q, want %q", records[0][0], "url")
	}
	if records[1][1] != "404" {
		t.Errorf("status column = %q, want %q", records[1][1], "404")
	}
	if records[2][1] != "" {
		t.Errorf("status column for network error = %q, want empty", records[2][1])
	}
	if records[2][2] != "network" {
		t.Errorf("error_kind column = %q, want %q", records[2][2], "network")
	}
}

func TestWriteCSVEmptyStillHasHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "url,") {
		t.Errorf("missing header row, got %q", buf.String())
	}
}

func TestReportBroken(t *testing.T) {
	r := &Report{
		Outcomes: []Outcome{
			{URL: "http://example.test/a", StatusCode: 200},
			{URL: "http://example.test/b", StatusCode: 404},
			{URL: "http://down.test/", ErrKind: ErrNetwork, Error: "refused"},
		},
	}

	broken := r.Broken()
	if len(broken) != 2 {
		t.Fatalf("Broken() returned %d outcomes, want 2", len(broken))
	}
}
