package filtering

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/jobsai/internal/jobs"
)

type minimumScoreFilter struct {
	disabled bool
	reason   string
	minimum  int
}

// NewMinimumScore creates a filter that drops listings scored below the
// configured minimum.
func NewMinimumScore() Filter {
	return &minimumScoreFilter{}
}

func (f *minimumScoreFilter) Name() string { return "minimum_score" }

func (f *minimumScoreFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *minimumScoreFilter) IsEnabled() bool { return !f.disabled }

func (f *minimumScoreFilter) Validate(cfg *Config) error {
	f.minimum = 0
	if cfg != nil {
		f.minimum = cfg.MinimumScore
	}
	if f.minimum < 0 || f.minimum > 100 {
		return fmt.Errorf("minimum score must be between 0 and 100, got %d", f.minimum)
	}
	return nil
}

func (f *minimumScoreFilter) Apply(_ context.Context, deps Deps, items []jobs.Scored) ([]jobs.Scored, Step, error) {
	initial := len(items)
	if f.minimum == 0 {
		return items, step(initial, items), nil
	}

	kept, dropped := keep(items, func(s jobs.Scored) bool { return s.Score >= f.minimum })
	if len(dropped) > 0 {
		deps.Logger.Info("excluding listings below minimum score",
			zap.Int("minimum_score", f.minimum),
			zap.Int("listings_left", len(kept)),
		)
	}

	return kept, step(initial, kept), nil
}

func (f *minimumScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"minimum_score": strconv.Itoa(f.minimum)},
	}
}

type companiesFilter struct {
	companies map[string]struct{}
	names     []string
}

// NewCompanies creates a filter that removes listings of excluded
// companies. Names compare case-insensitively.
func NewCompanies() Filter {
	return &companiesFilter{}
}

func (f *companiesFilter) Name() string { return "companies" }

func (f *companiesFilter) Disable(string) {}

func (f *companiesFilter) IsEnabled() bool { return true }

func (f *companiesFilter) Validate(cfg *Config) error {
	f.companies = map[string]struct{}{}
	f.names = nil
	if cfg == nil {
		return nil
	}
	for _, name := range cfg.ExcludeCompanies {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		f.companies[strings.ToLower(name)] = struct{}{}
		f.names = append(f.names, name)
	}
	return nil
}

func (f *companiesFilter) Apply(_ context.Context, deps Deps, items []jobs.Scored) ([]jobs.Scored, Step, error) {
	initial := len(items)
	if len(f.companies) == 0 {
		return items, step(initial, items), nil
	}

	kept, dropped := keep(items, func(s jobs.Scored) bool {
		_, excluded := f.companies[strings.ToLower(strings.TrimSpace(s.Company))]
		return !excluded
	})
	if len(dropped) > 0 {
		deps.Logger.Info("excluding listings by company",
			zap.Strings("excluded_companies", f.names),
			zap.Strings("excluded_listings", dropped),
			zap.Int("listings_left", len(kept)),
		)
	}

	return kept, step(initial, kept), nil
}

func (f *companiesFilter) Status() Status {
	details := map[string]string{}
	if len(f.names) > 0 {
		details["companies"] = strings.Join(f.names, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type excludeFileFilter struct {
	path string
}

// NewExcludeFile creates a filter that removes listings whose URL appears
// in the exclude file. The file is either a JSON array of listings, such as
// a dumped scored file, or plain text with one URL per line.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(string) {}

func (f *excludeFileFilter) IsEnabled() bool { return true }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, items []jobs.Scored) ([]jobs.Scored, Step, error) {
	initial := len(items)
	if f.path == "" {
		return items, step(initial, items), nil
	}

	excluded, err := ReadExcludeFile(f.path)
	if err != nil {
		return items, Step{}, fmt.Errorf("getting excluded listings from file: %w", err)
	}

	kept, dropped := keep(items, func(s jobs.Scored) bool {
		_, found := excluded[strings.TrimSpace(s.URL)]
		return !found
	})
	if len(dropped) > 0 {
		deps.Logger.Info("excluding listings based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_listings", dropped),
			zap.Int("listings_left", len(kept)),
		)
	}

	return kept, step(initial, kept), nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

// ReadExcludeFile returns the set of URLs listed in path.
func ReadExcludeFile(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	urls := make(map[string]struct{})
	trimmed := bytes.TrimSpace(data)

	if bytes.HasPrefix(trimmed, []byte("[")) {
		listings, err := decodeListings(trimmed)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		for _, l := range listings {
			if url := strings.TrimSpace(l.URL); url != "" {
				urls[url] = struct{}{}
			}
		}
		return urls, nil
	}

	for _, line := range strings.Split(string(trimmed), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls[line] = struct{}{}
	}

	return urls, nil
}

// decodeListings reads a JSON array of listing like objects. Scored dumps
// carry extra keys, which are ignored, and mistyped values are converted
// where possible.
func decodeListings(data []byte) ([]jobs.Listing, error) {
	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}

	var listings []jobs.Listing
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &listings,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, err
	}

	return listings, nil
}

type reportedFilter struct {
	enabled  bool
	disabled bool
	reason   string
}

// NewReported creates a filter that removes listings included in an
// earlier analysis. It needs the listing history.
func NewReported() Filter {
	return &reportedFilter{}
}

func (f *reportedFilter) Name() string { return ReportedName }

func (f *reportedFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *reportedFilter) IsEnabled() bool { return !f.disabled }

func (f *reportedFilter) Validate(cfg *Config) error {
	f.enabled = cfg != nil && cfg.SkipReported
	return nil
}

func (f *reportedFilter) Apply(ctx context.Context, deps Deps, items []jobs.Scored) ([]jobs.Scored, Step, error) {
	initial := len(items)
	if !f.enabled {
		return items, step(initial, items), nil
	}
	if deps.Reported == nil {
		return items, Step{}, errors.New("listing history is required to skip reported listings")
	}

	reported, err := deps.Reported.Reported(ctx)
	if err != nil {
		return items, Step{}, fmt.Errorf("get reported listings: %w", err)
	}

	kept, dropped := keep(items, func(s jobs.Scored) bool {
		_, found := reported[s.URL]
		return !found
	})
	if len(dropped) > 0 {
		deps.Logger.Info("excluding listings reported before",
			zap.Strings("excluded_listings", dropped),
			zap.Int("listings_left", len(kept)),
		)
	}

	return kept, step(initial, kept), nil
}

func (f *reportedFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"skip_reported": strconv.FormatBool(f.enabled)},
	}
}
