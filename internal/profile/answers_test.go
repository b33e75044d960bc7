package profile

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

const samplePayload = `{
  "general": [
    {"job-level": ["Entry", "Intern"]},
    {"job-boards": ["Duunitori", "Jobly"]},
    {"deep-mode": "Yes"},
    {"cover-letter-num": "3"},
    {"cover-letter-style": ["Professional", "Friendly"]}
  ],
  "languages": [
    {"python": 7},
    {"javascript": 0},
    {"text-field1": "Elm"}
  ],
  "databases": [
    {"postgresql": 2}
  ],
  "additional-info": [
    {"additional-info": "I like building agents."}
  ]
}`

func TestParseAnswers(t *testing.T) {
	a, err := ParseAnswers([]byte(samplePayload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(a.JobLevels, []string{"Entry", "Intern"}) {
		t.Fatalf("unexpected job levels: %v", a.JobLevels)
	}
	if !reflect.DeepEqual(a.JobBoards, []string{"Duunitori", "Jobly"}) {
		t.Fatalf("unexpected boards: %v", a.JobBoards)
	}
	if !a.DeepMode {
		t.Fatal("expected deep mode")
	}
	if a.CoverLetterNum != 3 {
		t.Fatalf("expected 3 letters, got %d", a.CoverLetterNum)
	}
	if a.CoverLetterStyle != "Professional and Friendly" {
		t.Fatalf("unexpected style: %q", a.CoverLetterStyle)
	}

	languages := a.Category("languages")
	if len(languages.Items) != 3 {
		t.Fatalf("expected 3 language entries, got %d", len(languages.Items))
	}
	if custom := languages.Items[2]; !custom.Custom() || custom.Text != "Elm" {
		t.Fatalf("unexpected custom entry: %+v", custom)
	}
	if got := a.Category("llms"); len(got.Items) != 0 {
		t.Fatalf("expected empty category, got %+v", got)
	}

	want := []string{
		"I have over 3 years of experience with Python.",
		"I have experience with Elm.",
		"I have less than a year of experience with PostgreSQL.",
	}
	if got := a.Experience(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseAnswersDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		count   int
		style   string
	}{
		{name: "empty payload", payload: `{}`, count: 5, style: "Professional"},
		{name: "invalid count", payload: `{"general": [{"cover-letter-num": "many"}]}`, count: 5, style: "Professional"},
		{name: "numeric count", payload: `{"general": [{"cover-letter-num": 2}]}`, count: 2, style: "Professional"},
		{name: "string style", payload: `{"general": [{"cover-letter-style": "Confident"}]}`, count: 5, style: "Confident"},
		{name: "empty style list", payload: `{"general": [{"cover-letter-style": []}]}`, count: 5, style: "Professional"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a, err := ParseAnswers([]byte(tt.payload))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if a.CoverLetterNum != tt.count || a.CoverLetterStyle != tt.style {
				t.Fatalf("expected %d/%q, got %d/%q", tt.count, tt.style, a.CoverLetterNum, a.CoverLetterStyle)
			}
		})
	}
}

func TestParseAnswersRejectsMalformedPayloads(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: `nope`},
		{name: "truncated json", payload: `{"general": [`},
		{name: "top level array", payload: `[]`},
		{name: "unknown section", payload: `{"hobbies": []}`},
		{name: "two keys", payload: `{"languages": [{"python": 1, "go": 2}]}`},
		{name: "text level", payload: `{"languages": [{"python": "a lot"}]}`},
		{name: "unknown question", payload: `{"general": [{"salary": "high"}]}`},
		{name: "bad deep mode", payload: `{"general": [{"deep-mode": "Maybe"}]}`},
		{name: "section not array", payload: `{"databases": {"redis": 1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ParseAnswers([]byte(tt.payload)); !errors.Is(err, ErrInvalidAnswers) {
				t.Fatalf("expected ErrInvalidAnswers, got %v", err)
			}
		})
	}
}

func TestParseAnswersValidatesLevels(t *testing.T) {
	_, err := ParseAnswers([]byte(`{"languages": [{"python": 9}]}`))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if errors.Is(err, ErrInvalidAnswers) {
		t.Fatalf("expected a validation error rather than a layout error, got %v", err)
	}
}

func TestAnswersRoundTrip(t *testing.T) {
	a, err := ParseAnswers([]byte(samplePayload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	again, err := ParseAnswers(data)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if !reflect.DeepEqual(a, again) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", a, again)
	}
}

func TestLevelPhrase(t *testing.T) {
	if got := LevelPhrase(1); got != "less than half a year" {
		t.Fatalf("unexpected phrase: %q", got)
	}
	if got := LevelPhrase(7); got != "over 3 years" {
		t.Fatalf("unexpected phrase: %q", got)
	}
	if got := LevelPhrase(0); got != "no" {
		t.Fatalf("unexpected phrase: %q", got)
	}
}
