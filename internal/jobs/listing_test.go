package jobs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIdentity(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 100)

	tests := []struct {
		name    string
		listing Listing
		expect  string
	}{
		{
			name:    "url wins",
			listing: Listing{URL: " https://duunitori.fi/tyopaikat/1 ", Title: "Dev"},
			expect:  "https://duunitori.fi/tyopaikat/1",
		},
		{
			name:    "fallback fields lowercased",
			listing: Listing{Title: " Python Developer ", QueryUsed: "Python Developer", Snippet: "We Build"},
			expect:  "python developer|python developer|we build",
		},
		{
			name:    "snippet cut to 80",
			listing: Listing{Title: "t", Snippet: long},
			expect:  "t||" + strings.Repeat("a", 80),
		},
		{
			name:    "no identity",
			listing: Listing{Company: "Acme", Location: "Helsinki"},
			expect:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.listing.Identity(); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestIdentityDistinguishesFallbackFields(t *testing.T) {
	a := Listing{Title: "Dev", QueryUsed: "go developer", Snippet: "snippet"}
	b := Listing{Title: "Dev", QueryUsed: "go developer", Snippet: "snippet"}
	c := Listing{Title: "Dev", QueryUsed: "go engineer", Snippet: "snippet"}

	if a.Identity() != b.Identity() {
		t.Fatalf("expected identical fallback identity")
	}
	if a.Identity() == c.Identity() {
		t.Fatalf("expected different identity when query differs")
	}
}

func TestScoredJSONShape(t *testing.T) {
	scored := Scored{
		Listing: Listing{Title: "Dev", URL: "https://jobly.fi/en/job/1", Source: "jobly"},
		Score:   50,
		Matched: []string{"Python"},
		Missing: []string{"AWS"},
	}

	data, err := json.Marshal(scored)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"title", "url", "source", "description_snippet", "full_description", "query_used", "score", "matched_skills", "missing_skills"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("expected key %q in %s", key, data)
		}
	}
}

func TestReadFileAcceptsNulls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.json")
	content := `[{"title": "Dev", "description_snippet": null, "url": "https://duunitori.fi/x"}]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	listings, err := ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listings) != 1 || listings[0].Snippet != "" || listings[0].Title != "Dev" {
		t.Fatalf("unexpected listings: %+v", listings)
	}
}
