package queries

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/jobsai/internal/llm"
	"github.com/spigell/jobsai/internal/logger"
	"github.com/spigell/jobsai/internal/profile"
)

var (
	//go:embed prompts/keywords_system.md
	keywordsSystemPrompt string
	//go:embed prompts/keywords_user.md
	keywordsUserPrompt string
)

// KeywordAgent asks the model for search phrases tailored to a prose
// profile.
type KeywordAgent struct {
	client    llm.Client
	maxTokens int
	logger    *zap.Logger
}

// NewKeywordAgent creates a KeywordAgent.
func NewKeywordAgent(client llm.Client, maxTokens int, log *zap.Logger) *KeywordAgent {
	return &KeywordAgent{client: client, maxTokens: maxTokens, logger: logger.OrNop(log)}
}

// Create returns the values of the model's query object in the order the
// model wrote them. Blank and repeated values are dropped.
func (a *KeywordAgent) Create(ctx context.Context, profileText string) ([]string, error) {
	prompt := strings.ReplaceAll(keywordsUserPrompt, "{{PROFILE}}", profileText)

	raw, err := a.client.Complete(ctx, keywordsSystemPrompt, prompt, a.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("creating keywords: %w", err)
	}

	text, ok := llm.ExtractJSON(raw)
	if !ok {
		return nil, fmt.Errorf("keywords: %w", profile.ErrUnparseable)
	}

	keywords, err := objectValues(text)
	if err != nil {
		return nil, fmt.Errorf("keywords: %w: %v", profile.ErrUnparseable, err)
	}
	if len(keywords) == 0 {
		return nil, errors.New("keywords: model returned no queries")
	}

	a.logger.Debug("keywords created", zap.Strings("keywords", keywords))

	return keywords, nil
}

// objectValues decodes a flat JSON object and returns its string values in
// document order.
func objectValues(text string) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("expected a json object")
	}

	var values []string
	seen := make(map[string]struct{})
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil, err
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}

		s, ok := value.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		values = append(values, s)
	}

	return values, nil
}
