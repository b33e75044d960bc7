// Package search runs every query against every configured board and
// combines the results.
package search

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobsai/internal/artifacts"
	"github.com/spigell/jobsai/internal/jobs"
	"github.com/spigell/jobsai/internal/logger"
	"github.com/spigell/jobsai/internal/scraper"
)

// Scraper collects listings for one query on one board.
type Scraper interface {
	Scrape(ctx context.Context, board scraper.Board, query string, opts scraper.Options) []jobs.Listing
}

// Recorder keeps track of listings across runs.
type Recorder interface {
	Record(ctx context.Context, query string, listings []jobs.Listing) error
}

// Collector fans a query list out over the known boards. It runs one
// (query, board) pair at a time.
type Collector struct {
	scraper Scraper
	boards  []scraper.Board
	store   *artifacts.Store
	history Recorder
	logger  *zap.Logger
}

// NewCollector creates a Collector. store may be nil to skip raw files.
func NewCollector(s Scraper, boards []scraper.Board, store *artifacts.Store, log *zap.Logger) *Collector {
	return &Collector{
		scraper: s,
		boards:  boards,
		store:   store,
		logger:  logger.OrNop(log),
	}
}

// WithHistory records every (query, board) batch in r.
func (c *Collector) WithHistory(r Recorder) *Collector {
	c.history = r
	return c
}

// Search scrapes queries x boards in order, writes one raw file per pair
// and returns the combined listings deduplicated by URL. Unknown boards are
// skipped with a warning. The only error is ctx being done, in which case
// what was collected so far is returned with it.
func (c *Collector) Search(ctx context.Context, run artifacts.Run, queries, boards []string, deepMode bool) ([]jobs.Listing, error) {
	log := logger.WithRun(c.logger, run.ID.String())

	var combined []jobs.Listing
	for _, query := range queries {
		for _, name := range boards {
			if err := ctx.Err(); err != nil {
				return Dedupe(combined), err
			}

			board, ok := scraper.Lookup(c.boards, name)
			if !ok {
				log.Warn("unknown job board, skipping", logger.SearchFields(name, query)...)
				continue
			}

			found := c.scraper.Scrape(ctx, board, query, scraper.Options{DeepMode: deepMode})
			combined = append(combined, found...)

			c.persist(ctx, log, run, board.Name(), query, found)
		}
	}

	unique := Dedupe(combined)
	log.Info("search finished",
		zap.Int("queries", len(queries)),
		zap.Int("collected", len(combined)),
		zap.Int("unique", len(unique)),
	)

	return unique, ctx.Err()
}

func (c *Collector) persist(ctx context.Context, log *zap.Logger, run artifacts.Run, board, query string, found []jobs.Listing) {
	fields := logger.SearchFields(board, query)

	if c.store != nil {
		path, err := c.store.WriteJSON(artifacts.Raw, artifacts.RawName(run, board, query), found)
		if err != nil {
			log.Error("saving raw listings failed", append(fields, zap.Error(err))...)
		} else {
			log.Debug("raw listings saved", append(fields, zap.String("path", path), zap.Int("listings", len(found)))...)
		}
	}

	if c.history != nil {
		if err := c.history.Record(ctx, query, found); err != nil {
			log.Error("recording listing history failed", append(fields, zap.Error(err))...)
		}
	}
}

// Dedupe keeps the first listing per URL. Listings with a blank URL are
// dropped.
func Dedupe(listings []jobs.Listing) []jobs.Listing {
	seen := make(map[string]struct{}, len(listings))
	unique := make([]jobs.Listing, 0, len(listings))

	for _, l := range listings {
		url := strings.TrimSpace(l.URL)
		if url == "" {
			continue
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		unique = append(unique, l)
	}

	return unique
}
