// Package pipeline runs the six stages that turn questionnaire answers into
// a cover letter: profile, keywords, search, score, analyze and generate.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobsai/internal/artifacts"
	"github.com/spigell/jobsai/internal/coverletter"
	"github.com/spigell/jobsai/internal/filtering"
	"github.com/spigell/jobsai/internal/jobs"
	"github.com/spigell/jobsai/internal/logger"
	"github.com/spigell/jobsai/internal/profile"
	"github.com/spigell/jobsai/internal/queries"
	"github.com/spigell/jobsai/internal/scoring"
)

// Stage names in execution order.
const (
	StageProfile  = "profile"
	StageKeywords = "keywords"
	StageSearch   = "search"
	StageScore    = "score"
	StageAnalyze  = "analyze"
	StageGenerate = "generate"
)

// Stages lists the stage names in execution order.
var Stages = []string{StageProfile, StageKeywords, StageSearch, StageScore, StageAnalyze, StageGenerate}

// ErrAborted is returned when the review hook declines to continue.
var ErrAborted = errors.New("run aborted before analysis")

// StageError tells which stage of a run failed.
type StageError struct {
	Index int
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("step %d/%d %s failed: %v", e.Index, len(Stages), e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Profiler builds the candidate profile.
type Profiler interface {
	Assess(ctx context.Context, run artifacts.Run, answers profile.Answers) (profile.SkillProfile, error)
	Describe(ctx context.Context, answers profile.Answers) (string, error)
}

// KeywordCreator derives search queries from the profile description.
type KeywordCreator interface {
	Create(ctx context.Context, profileText string) ([]string, error)
}

// Searcher collects listings for queries x boards.
type Searcher interface {
	Search(ctx context.Context, run artifacts.Run, queries, boards []string, deepMode bool) ([]jobs.Listing, error)
}

// Analyzer writes the analysis of the selected listings.
type Analyzer interface {
	Write(ctx context.Context, run artifacts.Run, items []jobs.Scored, profileText string, size int) (string, error)
}

// LetterWriter produces the cover letter.
type LetterWriter interface {
	Generate(ctx context.Context, run artifacts.Run, req coverletter.Request) (*coverletter.Letter, error)
}

// History is the listing history used to skip and mark reported listings.
type History interface {
	filtering.ReportedSource
	MarkReported(ctx context.Context, urls []string) error
}

// ReviewFunc is shown the selected listings before analysis. Returning
// false aborts the run with ErrAborted.
type ReviewFunc func(ctx context.Context, selected []jobs.Scored) (bool, error)

// Config holds the run settings that do not come from the answers.
type Config struct {
	// Boards are used when the answers name none.
	Boards []string
	// DeepMode forces detail page fetches regardless of the answers.
	DeepMode bool
	// ReportSize overrides the number of analyzed jobs, which otherwise is
	// the requested cover letter count.
	ReportSize  int
	ScoringMode scoring.Mode
	Filters     filtering.Config
}

// Deps are the stage implementations. Keywords, History, Review and Store
// are optional: without Keywords the rule based query builder is used.
type Deps struct {
	Profiler  Profiler
	Keywords  KeywordCreator
	Searcher  Searcher
	Analyzer  Analyzer
	Generator LetterWriter
	History   History
	Review    ReviewFunc
	Store     *artifacts.Store
	Logger    *zap.Logger
}

// Result carries everything a run produced.
type Result struct {
	Run         artifacts.Run
	Profile     profile.SkillProfile
	ProfileText string
	Queries     []string
	Listings    []jobs.Listing
	Scored      []jobs.Scored
	Selected    []jobs.Scored
	Analysis    string
	Letter      *coverletter.Letter
}

// Pipeline runs the stages in order. A failing stage stops the run and is
// reported as a *StageError; files written by earlier stages are kept.
type Pipeline struct {
	cfg  Config
	deps Deps
	now  func() time.Time
	log  *zap.Logger
}

// New creates a Pipeline.
func New(cfg Config, deps Deps) *Pipeline {
	return &Pipeline{cfg: cfg, deps: deps, now: time.Now, log: logger.OrNop(deps.Logger)}
}

// Run executes a new run for answers.
func (p *Pipeline) Run(ctx context.Context, answers profile.Answers) (*Result, error) {
	res := &Result{Run: artifacts.NewRun(p.now())}
	log := logger.WithRun(p.log, res.Run.ID.String())

	log.Info("run started", zap.String("stamp", res.Run.Stamp()))

	steps := []func(context.Context, *zap.Logger, profile.Answers, *Result) error{
		p.profileStage,
		p.keywordsStage,
		p.searchStage,
		p.scoreStage,
		p.analyzeStage,
		p.generateStage,
	}

	for i, step := range steps {
		stage := Stages[i]
		stageLog := log.With(logger.RunFields("", stage)...)
		started := time.Now()

		stageLog.Info("stage started", zap.Int("step", i+1), zap.Int("steps", len(Stages)))

		if err := step(ctx, stageLog, answers, res); err != nil {
			if errors.Is(err, ErrAborted) {
				stageLog.Info("run aborted at review")
				return res, ErrAborted
			}
			stageLog.Error("stage failed", zap.Error(err))
			return res, &StageError{Index: i + 1, Stage: stage, Err: err}
		}

		stageLog.Info("stage finished", zap.Duration("took", time.Since(started)))
	}

	log.Info("run finished")

	return res, nil
}

func (p *Pipeline) profileStage(ctx context.Context, _ *zap.Logger, answers profile.Answers, res *Result) error {
	sp, err := p.deps.Profiler.Assess(ctx, res.Run, answers)
	if err != nil {
		return err
	}
	res.Profile = sp

	text, err := p.deps.Profiler.Describe(ctx, answers)
	if err != nil {
		return err
	}
	res.ProfileText = text

	return nil
}

func (p *Pipeline) keywordsStage(ctx context.Context, log *zap.Logger, _ profile.Answers, res *Result) error {
	if p.deps.Keywords == nil {
		res.Queries = queries.Build(res.Profile)
	} else {
		created, err := p.deps.Keywords.Create(ctx, res.ProfileText)
		if err != nil {
			return err
		}
		res.Queries = created
	}

	log.Info("search queries ready", zap.Strings("queries", res.Queries))

	return nil
}

func (p *Pipeline) searchStage(ctx context.Context, log *zap.Logger, answers profile.Answers, res *Result) error {
	boards := answers.JobBoards
	if len(boards) == 0 {
		boards = p.cfg.Boards
	}
	if len(boards) == 0 {
		return errors.New("no job boards configured")
	}

	listings, err := p.deps.Searcher.Search(ctx, res.Run, res.Queries, boards, answers.DeepMode || p.cfg.DeepMode)
	res.Listings = listings
	if err != nil {
		return err
	}

	log.Info("listings collected", zap.Int("listings", len(listings)), zap.Strings("boards", boards))

	return nil
}

func (p *Pipeline) scoreStage(ctx context.Context, log *zap.Logger, answers profile.Answers, res *Result) error {
	technologies := scoring.Flatten(answers.Categories)
	if len(technologies) == 0 {
		technologies = profileTechnologies(res.Profile)
		log.Info("no technologies answered, scoring against the skill profile", zap.Int("technologies", len(technologies)))
	}

	scorer := scoring.New(p.cfg.ScoringMode, res.Profile.AgenticAIExperience, log)
	res.Scored = scorer.Score(scoring.Unique(res.Listings), technologies)

	if p.deps.Store != nil {
		path, err := p.deps.Store.WriteJSON(artifacts.Scored, artifacts.ScoredName(res.Run), res.Scored)
		if err != nil {
			log.Error("saving scored listings failed", zap.Error(err))
		} else {
			log.Info("scored listings saved", zap.String("path", path))
		}
	}

	steps := filtering.Default()
	deps := filtering.Deps{Logger: log}
	if p.deps.History != nil {
		deps.Reported = p.deps.History
	} else {
		filtering.DisableByName(steps, filtering.ReportedName, "listing history is not configured")
		if p.cfg.Filters.SkipReported {
			log.Warn("skip-reported needs listing history, keeping reported listings")
		}
	}

	for _, status := range filtering.Describe(steps) {
		log.Debug("filter status",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	selected, err := filtering.Run(ctx, &p.cfg.Filters, deps, steps, res.Scored)
	if err != nil {
		return err
	}
	res.Selected = selected

	return nil
}

func (p *Pipeline) analyzeStage(ctx context.Context, log *zap.Logger, answers profile.Answers, res *Result) error {
	if p.deps.Review != nil {
		proceed, err := p.deps.Review(ctx, res.Selected)
		if err != nil {
			return err
		}
		if !proceed {
			return ErrAborted
		}
	}

	size := p.cfg.ReportSize
	if size <= 0 {
		size = answers.CoverLetterNum
	}

	analysis, err := p.deps.Analyzer.Write(ctx, res.Run, res.Selected, res.ProfileText, size)
	if err != nil {
		return err
	}
	res.Analysis = analysis

	if p.deps.History != nil {
		analyzed := res.Selected
		if len(analyzed) > size {
			analyzed = analyzed[:size]
		}
		if err := p.deps.History.MarkReported(ctx, jobs.URLs(analyzed)); err != nil {
			log.Error("marking analyzed listings failed", zap.Error(err))
		}
	}

	return nil
}

func (p *Pipeline) generateStage(ctx context.Context, _ *zap.Logger, answers profile.Answers, res *Result) error {
	req := coverletter.Request{
		Profile:  res.ProfileText,
		Analysis: res.Analysis,
		Style:    answers.CoverLetterStyle,
	}
	if len(res.Selected) > 0 {
		req.Employer = res.Selected[0].Company
		req.JobTitle = res.Selected[0].Title
	}

	letter, err := p.deps.Generator.Generate(ctx, res.Run, req)
	if err != nil {
		return err
	}
	res.Letter = letter

	return nil
}

func profileTechnologies(sp profile.SkillProfile) []string {
	var all []string
	all = append(all, sp.CoreLanguages...)
	all = append(all, sp.FrameworksAndLibraries...)
	all = append(all, sp.ToolsAndPlatforms...)
	all = append(all, sp.AgenticAIExperience...)
	all = append(all, sp.AIMLExperience...)
	return all
}
