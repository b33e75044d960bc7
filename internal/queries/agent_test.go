package queries

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/spigell/jobsai/internal/profile"
)

type fakeLLM struct {
	response string
	err      error
	prompt   string
}

func (f *fakeLLM) Complete(_ context.Context, _, user string, _ int) (string, error) {
	f.prompt = user
	return f.response, f.err
}

func TestKeywordAgentKeepsModelOrder(t *testing.T) {
	client := &fakeLLM{response: "Sure!\n" + `{"query1": "ai engineer", "query2": "python developer", "query3": " ", "query4": 7, "query5": "ai engineer", "query6": "data engineer"}`}

	got, err := NewKeywordAgent(client, 0, nil).Create(context.Background(), "A Python person.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"ai engineer", "python developer", "data engineer"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if !strings.Contains(client.prompt, "A Python person.") {
		t.Fatalf("expected profile in prompt, got %q", client.prompt)
	}
}

func TestKeywordAgentErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		client      *fakeLLM
		unparseable bool
	}{
		{name: "llm failure", client: &fakeLLM{err: errors.New("boom")}},
		{name: "no json", client: &fakeLLM{response: "no queries today"}, unparseable: true},
		{name: "array", client: &fakeLLM{response: `["ai engineer"]`}, unparseable: true},
		{name: "empty object", client: &fakeLLM{response: `{}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewKeywordAgent(tt.client, 0, nil).Create(context.Background(), "profile")
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, profile.ErrUnparseable); got != tt.unparseable {
				t.Fatalf("expected unparseable=%v, got %v (%v)", tt.unparseable, got, err)
			}
		})
	}
}
