package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/jobsai/internal/artifacts"
	"github.com/spigell/jobsai/internal/jobs"
	"github.com/spigell/jobsai/internal/llm"
	"github.com/spigell/jobsai/internal/logger"
	"github.com/spigell/jobsai/internal/normalize"
	"github.com/spigell/jobsai/internal/profile"
)

var (
	//go:embed prompts/report_system.md
	reportSystemPrompt string
	//go:embed prompts/report_user.md
	reportUserPrompt string
)

// Reporter writes the job report for a run's scored file.
type Reporter struct {
	client    llm.Client
	store     *artifacts.Store
	maxTokens int
	logger    *zap.Logger
}

// NewReporter creates a Reporter.
func NewReporter(client llm.Client, store *artifacts.Store, maxTokens int, log *zap.Logger) *Reporter {
	return &Reporter{client: client, store: store, maxTokens: maxTokens, logger: logger.OrNop(log)}
}

// Generate loads the scored listings saved for run and reports on the top
// size of them. It returns "" when the run has no scored listings.
func (r *Reporter) Generate(ctx context.Context, run artifacts.Run, p profile.SkillProfile, size int) (string, error) {
	return r.GenerateFrom(ctx, run, artifacts.ScoredName(run), p, size)
}

// GenerateFrom is Generate for an explicit scored file name. The report is
// still saved under run.
func (r *Reporter) GenerateFrom(ctx context.Context, run artifacts.Run, scoredName string, p profile.SkillProfile, size int) (string, error) {
	items := r.load(scoredName)
	if len(items) == 0 {
		r.logger.Warn("no scored jobs found for reporting", zap.String("file", scoredName))
		return "", nil
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Score > items[j].Score })

	encoded, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding skill profile: %w", err)
	}

	selected := top(items, size)
	entries := make([]Entry, 0, len(selected))
	for i, job := range selected {
		prompt := strings.ReplaceAll(reportUserPrompt, "{{DESCRIPTION}}", job.Description())
		prompt = strings.ReplaceAll(prompt, "{{SKILL_PROFILE}}", string(encoded))

		raw, err := r.client.Complete(ctx, reportSystemPrompt, prompt, r.maxTokens)
		if err != nil {
			return "", fmt.Errorf("reporting job %d/%d: %w", i+1, len(selected), err)
		}
		entries = append(entries, Entry{Job: job, Instructions: normalize.Text(raw)})
	}

	text := Format(reportHeader, size, entries, false)
	save(r.logger, r.store, artifacts.Reports, artifacts.ReportName(run), text)

	return text, nil
}

func (r *Reporter) load(name string) []jobs.Scored {
	items, err := jobs.ReadScoredFile(r.store.Path(artifacts.Scored, name))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.logger.Error("failed to load scored jobs", zap.String("file", name), zap.Error(err))
		}
		return nil
	}
	return items
}
