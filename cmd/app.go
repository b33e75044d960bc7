package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobsai/internal/artifacts"
	"github.com/spigell/jobsai/internal/coverletter"
	"github.com/spigell/jobsai/internal/history"
	"github.com/spigell/jobsai/internal/llm"
	"github.com/spigell/jobsai/internal/llm/gemini"
	"github.com/spigell/jobsai/internal/pipeline"
	"github.com/spigell/jobsai/internal/profile"
	"github.com/spigell/jobsai/internal/queries"
	"github.com/spigell/jobsai/internal/report"
	"github.com/spigell/jobsai/internal/scoring"
	"github.com/spigell/jobsai/internal/scraper"
	"github.com/spigell/jobsai/internal/search"
	"github.com/spigell/jobsai/internal/secrets"
)

// components are the long lived objects a command works with.
type components struct {
	config   *Config
	store    *artifacts.Store
	profiles *profile.Store
	client   llm.Client
	history  *history.DB
	logger   *zap.Logger
}

func newComponents(ctx context.Context, config *Config, withLLM bool, logger *zap.Logger) (*components, error) {
	store, err := artifacts.NewStore(config.DataDir)
	if err != nil {
		return nil, err
	}

	c := &components{
		config:   config,
		store:    store,
		profiles: profile.NewStore(store, logger),
		logger:   logger,
	}

	if withLLM {
		c.client, err = newLLMClient(ctx, config.AI, logger)
		if err != nil {
			return nil, err
		}
	}

	if file := strings.TrimSpace(config.History.SQLiteFile); file != "" {
		c.history, err = history.Open(file)
		if err != nil {
			return nil, err
		}
		logger.Debug("listing history enabled", zap.String("file", file))
	}

	return c, nil
}

func (c *components) Close() {
	if c.history == nil {
		return
	}
	if err := c.history.Close(); err != nil {
		c.logger.Warn("closing listing history", zap.Error(err))
	}
}

func (c *components) maxTokens() int {
	if c.config.AI == nil || c.config.AI.Gemini == nil {
		return 0
	}
	return c.config.AI.Gemini.MaxTokens
}

func (c *components) pipeline(review pipeline.ReviewFunc) (*pipeline.Pipeline, error) {
	config := c.config

	mode, err := scoring.ParseMode(config.Scoring.Mode)
	if err != nil {
		return nil, err
	}

	scr := scraper.New(scraper.Config{
		Pages:        config.Scraper.Pages,
		PerPageLimit: config.Scraper.PerPageLimit,
		Delay:        config.Scraper.Delay,
		Backoff:      config.Scraper.Backoff,
		Timeout:      config.Scraper.Timeout,
		UserAgent:    config.Scraper.UserAgent,
	}, c.logger)

	collector := search.NewCollector(scr, scraper.Boards(), c.store, c.logger)

	deps := pipeline.Deps{
		Profiler:  profile.NewProfiler(c.client, c.profiles, c.maxTokens(), c.logger),
		Searcher:  collector,
		Analyzer:  report.NewAnalyzer(c.client, c.store, c.maxTokens(), c.logger),
		Generator: coverletter.NewGenerator(c.client, c.store, config.Contact, c.maxTokens(), c.logger),
		Review:    review,
		Store:     c.store,
		Logger:    c.logger,
	}

	// Assigned only when open: a nil *history.DB in the interface fields
	// would not compare equal to nil.
	if c.history != nil {
		collector.WithHistory(c.history)
		deps.History = c.history
	}

	switch strings.ToLower(strings.TrimSpace(config.Keywords.Mode)) {
	case "", "rules":
	case "llm":
		deps.Keywords = queries.NewKeywordAgent(c.client, c.maxTokens(), c.logger)
	default:
		return nil, fmt.Errorf("unsupported keywords mode: %s", config.Keywords.Mode)
	}

	return pipeline.New(pipeline.Config{
		Boards:      config.JobBoards,
		DeepMode:    config.DeepMode,
		ReportSize:  config.ReportSize,
		ScoringMode: mode,
		Filters:     config.Filters,
	}, deps), nil
}

func newLLMClient(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (llm.Client, error) {
	if cfg == nil {
		cfg = &AIConfig{}
	}
	if cfg.Gemini == nil {
		cfg.Gemini = &GeminiConfig{}
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Value: cfg.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set GEMINI_API_KEY, GEMINI_API_KEY_FILE or ai.gemini.api-key-file)", err)
	}

	return gemini.New(ctx, gemini.Options{
		APIKey:       apiKey,
		Model:        cfg.Gemini.Model,
		MaxRetries:   cfg.Gemini.MaxRetries,
		MaxLogLength: cfg.Gemini.MaxLogLength,
	}, logger)
}

func readAnswers(path string) (profile.Answers, error) {
	if strings.TrimSpace(path) == "" {
		return profile.Answers{}, errors.New("answers file is required (--answers)")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return profile.Answers{}, fmt.Errorf("reading answers: %w", err)
	}
	return profile.ParseAnswers(data)
}
