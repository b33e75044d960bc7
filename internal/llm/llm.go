// Package llm describes the text completion collaborator used by the
// profiler, keyword agent, analyzer, reporter and cover letter generator.
package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// DefaultMaxTokens is the completion budget used when a caller passes 0.
const DefaultMaxTokens = 800

// Client completes a system + user prompt pair. Implementations retry
// rate limits and transient failures themselves.
type Client interface {
	Complete(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// ExtractJSON returns the first balanced {...} span of text. When the braces
// never balance it returns the whole text if that parses as JSON. The second
// result is false when nothing usable was found.
func ExtractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	trimmed := strings.TrimSpace(text)
	if json.Valid([]byte(trimmed)) {
		return trimmed, true
	}

	return "", false
}
