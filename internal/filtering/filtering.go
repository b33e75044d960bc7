// Package filtering narrows the scored listings before analysis. Every
// filter is a no-op under the zero Config, so the default selection is the
// scorer's ranking unchanged.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/jobsai/internal/jobs"
	"github.com/spigell/jobsai/internal/logger"
)

// Filter represents a single filtering step applied to scored listings.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, items []jobs.Scored) ([]jobs.Scored, Step, error)
}

// ReportedSource lists the URLs already included in an analysis.
type ReportedSource interface {
	Reported(ctx context.Context) (map[string]struct{}, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger   *zap.Logger
	Reported ReportedSource
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains configuration settings consumed by the filters.
type Config struct {
	MinimumScore     int      `mapstructure:"minimum-score"`
	ExcludeCompanies []string `mapstructure:"exclude-companies"`
	ExcludeFile      string   `mapstructure:"exclude-file"`
	SkipReported     bool     `mapstructure:"skip-reported"`
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// ReportedName is the name of the filter returned by NewReported.
const ReportedName = "already_reported"

// Default returns the filters in the order they run.
func Default() []Filter {
	return []Filter{
		NewMinimumScore(),
		NewCompanies(),
		NewExcludeFile(),
		NewReported(),
	}
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run validates every enabled filter and then applies them in order. The
// relative order of the surviving listings is kept.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, items []jobs.Scored) ([]jobs.Scored, error) {
	deps.Logger = logger.OrNop(deps.Logger)

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			deps.Logger.Info("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, deps, items)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		deps.Logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		items = next
	}

	return items, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// keep returns the items for which ok is true and the URLs of the rest.
func keep(items []jobs.Scored, ok func(jobs.Scored) bool) ([]jobs.Scored, []string) {
	kept := make([]jobs.Scored, 0, len(items))
	var dropped []string
	for _, item := range items {
		if ok(item) {
			kept = append(kept, item)
			continue
		}
		dropped = append(dropped, item.URL)
	}
	return kept, dropped
}

func step(initial int, kept []jobs.Scored) Step {
	return Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}
}
