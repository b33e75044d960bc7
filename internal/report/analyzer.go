package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/jobsai/internal/artifacts"
	"github.com/spigell/jobsai/internal/jobs"
	"github.com/spigell/jobsai/internal/llm"
	"github.com/spigell/jobsai/internal/logger"
	"github.com/spigell/jobsai/internal/normalize"
)

// ErrNoJobs is returned when there is nothing to analyze.
var ErrNoJobs = errors.New("no scored jobs found for analysis")

var (
	//go:embed prompts/analyze_system.md
	analyzeSystemPrompt string
	//go:embed prompts/analyze_user.md
	analyzeUserPrompt string
)

// Analyzer asks the model for cover letter instructions per top listing.
type Analyzer struct {
	client    llm.Client
	store     *artifacts.Store
	maxTokens int
	logger    *zap.Logger
}

// NewAnalyzer creates an Analyzer. store may be nil to skip saving.
func NewAnalyzer(client llm.Client, store *artifacts.Store, maxTokens int, log *zap.Logger) *Analyzer {
	return &Analyzer{client: client, store: store, maxTokens: maxTokens, logger: logger.OrNop(log)}
}

// Write analyzes the first size listings of items, which must already be
// ranked, and saves the text as the run's analysis file. A failed save is
// logged; the text is still returned.
func (a *Analyzer) Write(ctx context.Context, run artifacts.Run, items []jobs.Scored, profileText string, size int) (string, error) {
	if len(items) == 0 {
		a.logger.Warn("no scored jobs found for analysis")
		return "", ErrNoJobs
	}

	selected := top(items, size)
	entries := make([]Entry, 0, len(selected))
	for i, job := range selected {
		prompt := strings.ReplaceAll(analyzeUserPrompt, "{{DESCRIPTION}}", job.Description())
		prompt = strings.ReplaceAll(prompt, "{{PROFILE}}", profileText)

		raw, err := a.client.Complete(ctx, analyzeSystemPrompt, prompt, a.maxTokens)
		if err != nil {
			return "", fmt.Errorf("analyzing job %d/%d: %w", i+1, len(selected), err)
		}

		a.logger.Debug("job analyzed", zap.String("url", job.URL), zap.Int("score", job.Score))
		entries = append(entries, Entry{Job: job, Instructions: normalize.Text(raw)})
	}

	text := Format(analysisHeader, size, entries, true)
	save(a.logger, a.store, artifacts.Analyses, artifacts.AnalysisName(run), text)

	return text, nil
}

func save(log *zap.Logger, store *artifacts.Store, kind artifacts.Kind, name, text string) {
	if store == nil {
		return
	}
	path, err := store.WriteText(kind, name, text)
	if err != nil {
		log.Error("saving report failed", zap.String("file", name), zap.Error(err))
		return
	}
	log.Info("report saved", zap.String("path", path))
}
