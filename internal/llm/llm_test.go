package llm

import "testing"

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect string
		ok     bool
	}{
		{
			name:   "plain object",
			input:  `{"name": "Ada"}`,
			expect: `{"name": "Ada"}`,
			ok:     true,
		},
		{
			name:   "wrapped in prose",
			input:  "Sure! Here is the profile:\n```json\n{\"a\": {\"b\": 1}}\n```\nAnything else?",
			expect: `{"a": {"b": 1}}`,
			ok:     true,
		},
		{
			name:   "first of two objects",
			input:  `{"first": 1} and {"second": 2}`,
			expect: `{"first": 1}`,
			ok:     true,
		},
		{
			name:  "no braces",
			input: "I cannot help with that.",
			ok:    false,
		},
		{
			name:  "unbalanced",
			input: `{"a": {"b": 1}`,
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ExtractJSON(tt.input)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v (%q)", tt.ok, ok, got)
			}
			if got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
