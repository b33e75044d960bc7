// Package scoring ranks job listings by how many of the candidate's
// technologies they mention.
package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobsai/internal/jobs"
	"github.com/spigell/jobsai/internal/logger"
	"github.com/spigell/jobsai/internal/normalize"
	"github.com/spigell/jobsai/internal/profile"
)

// Mode selects the scoring formula.
type Mode string

const (
	// Plain is the matched share of the technologies, floored to 0..100.
	Plain Mode = "plain"
	// Weighted counts agentic tool matches extra and adjusts for the
	// seniority named in the title.
	Weighted Mode = "weighted"
)

const (
	agenticWeight = 1.5
	juniorFactor  = 1.1
	seniorFactor  = 0.9
	maxScore      = 100
)

var (
	juniorTitleWords = []string{"junior", "entry level"}
	seniorTitleWords = []string{"senior", "lead"}
)

// ParseMode maps a configuration value to a Mode. Blank means Plain.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case "", Plain:
		return Plain, nil
	case Weighted:
		return Weighted, nil
	default:
		return "", fmt.Errorf("unknown scoring mode %q", value)
	}
}

// Flatten turns the answered technology sections into one normalized list.
// Sliders above zero contribute their display name and non-empty custom
// fields their text.
func Flatten(categories []profile.Category) []string {
	var names []string
	for _, c := range categories {
		for _, item := range c.Items {
			switch {
			case item.Custom():
				names = append(names, item.Text)
			case item.Level > 0:
				names = append(names, profile.DisplayName(item.Key))
			}
		}
	}
	return normalize.List(names)
}

// Scorer computes relevance scores.
type Scorer struct {
	mode    Mode
	agentic map[string]struct{}
	logger  *zap.Logger
}

// New creates a Scorer. agentic lists the tools that weigh more in Weighted
// mode and is ignored otherwise.
func New(mode Mode, agentic []string, log *zap.Logger) *Scorer {
	if mode == "" {
		mode = Plain
	}

	set := make(map[string]struct{}, len(agentic))
	for _, tool := range normalize.List(agentic) {
		set[strings.ToLower(tool)] = struct{}{}
	}

	return &Scorer{mode: mode, agentic: set, logger: logger.OrNop(log)}
}

// Score returns a scored copy of every listing, ordered by descending score.
// Listings with equal scores keep their input order. The input is not
// modified.
func (s *Scorer) Score(listings []jobs.Listing, technologies []string) []jobs.Scored {
	technologies = normalize.List(technologies)

	scored := make([]jobs.Scored, 0, len(listings))
	for _, listing := range listings {
		scored = append(scored, s.score(listing, technologies))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	s.logger.Info("scored job listings",
		zap.Int("listings", len(scored)),
		zap.Int("technologies", len(technologies)),
		zap.String("mode", string(s.mode)),
	)

	return scored
}

func (s *Scorer) score(listing jobs.Listing, technologies []string) jobs.Scored {
	text := listing.SearchText()

	matched := make([]string, 0, len(technologies))
	missing := make([]string, 0, len(technologies))
	for _, tech := range technologies {
		// Plain containment: short names such as "Go" also match "Google".
		if strings.Contains(text, strings.ToLower(tech)) {
			matched = append(matched, tech)
		} else {
			missing = append(missing, tech)
		}
	}

	result := jobs.Scored{Listing: listing, Matched: matched, Missing: missing}
	if s.mode == Weighted {
		result.Score = s.weighted(listing.Title, matched, technologies)
	} else {
		result.Score = len(matched) * 100 / max(1, len(technologies))
	}

	return result
}

func (s *Scorer) weighted(title string, matched, technologies []string) int {
	total := s.weight(technologies)
	if total == 0 {
		return 0
	}

	score := s.weight(matched) / total * 100

	title = strings.ToLower(title)
	switch {
	case containsAny(title, juniorTitleWords):
		score *= juniorFactor
	case containsAny(title, seniorTitleWords):
		score *= seniorFactor
	}

	return min(maxScore, int(math.Floor(score)))
}

func (s *Scorer) weight(names []string) float64 {
	var w float64
	for _, name := range names {
		if _, ok := s.agentic[strings.ToLower(name)]; ok {
			w += agenticWeight
			continue
		}
		w++
	}
	return w
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
