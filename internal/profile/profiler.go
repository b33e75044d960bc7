package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/jobsai/internal/artifacts"
	"github.com/spigell/jobsai/internal/llm"
	"github.com/spigell/jobsai/internal/logger"
	"github.com/spigell/jobsai/internal/normalize"
)

var (
	//go:embed prompts/assess_system.md
	assessSystemPrompt string
	//go:embed prompts/assess_user.md
	assessUserPrompt string
	//go:embed prompts/describe_system.md
	describeSystemPrompt string
	//go:embed prompts/describe_user.md
	describeUserPrompt string
)

// Profiler turns questionnaire answers into a skill profile and a prose
// description of the candidate.
type Profiler struct {
	client    llm.Client
	store     *Store
	maxTokens int
	logger    *zap.Logger
}

// NewProfiler creates a Profiler. store may be nil, in which case profiles
// are neither merged nor saved.
func NewProfiler(client llm.Client, store *Store, maxTokens int, log *zap.Logger) *Profiler {
	return &Profiler{
		client:    client,
		store:     store,
		maxTokens: maxTokens,
		logger:    logger.OrNop(log),
	}
}

// Assess asks the model for a structured profile, merges it into the latest
// snapshot and saves the result for the run. A failed save is logged and the
// merged profile is still returned.
func (p *Profiler) Assess(ctx context.Context, run artifacts.Run, answers Answers) (SkillProfile, error) {
	prompt := strings.ReplaceAll(assessUserPrompt, "{{INPUT_TEXT}}", InputText(answers))

	raw, err := p.client.Complete(ctx, assessSystemPrompt, prompt, p.maxTokens)
	if err != nil {
		return SkillProfile{}, fmt.Errorf("assessing skills: %w", err)
	}

	profile, err := Parse(raw)
	if err != nil {
		return SkillProfile{}, err
	}

	if p.store == nil {
		return profile, nil
	}

	existing, err := p.store.Latest()
	if err != nil {
		p.logger.Warn("loading previous skill profile failed", zap.Error(err))
	}
	if existing != nil {
		p.logger.Info("merging skill profile with previous snapshot")
		profile = Merge(*existing, profile)
	}

	path, err := p.store.Save(run, profile)
	if err != nil {
		p.logger.Error("saving skill profile failed", zap.Error(err))
		return profile, nil
	}
	p.logger.Info("skill profile saved", zap.String("path", path))

	return profile, nil
}

// Describe asks the model for a plain text profile of the candidate.
func (p *Profiler) Describe(ctx context.Context, answers Answers) (string, error) {
	payload, err := json.MarshalIndent(answers, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding answers: %w", err)
	}

	experience := strings.Join(answers.Experience(), "\n")
	if experience == "" {
		experience = "No technology experience was reported."
	}

	prompt := strings.ReplaceAll(describeUserPrompt, "{{ANSWERS_JSON}}", string(payload))
	prompt = strings.ReplaceAll(prompt, "{{EXPERIENCE}}", experience)

	raw, err := p.client.Complete(ctx, describeSystemPrompt, prompt, p.maxTokens)
	if err != nil {
		return "", fmt.Errorf("describing candidate: %w", err)
	}

	text := normalize.Text(raw)
	if text == "" {
		return "", errors.New("profile description is empty")
	}

	return text, nil
}

// InputText is the candidate background sent for assessment: the wanted job
// levels, one sentence per answered technology and the free-form notes.
func InputText(answers Answers) string {
	var parts []string
	if len(answers.JobLevels) > 0 {
		parts = append(parts, "I am looking for "+strings.Join(answers.JobLevels, ", ")+" level jobs.")
	}
	parts = append(parts, answers.Experience()...)
	parts = append(parts, answers.AdditionalInfo...)
	return strings.Join(parts, "\n")
}
