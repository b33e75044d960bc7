package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/spigell/jobsai/internal/jobs"
	"github.com/spigell/jobsai/internal/logger"
)

const (
	DefaultPages = 10
	DefaultDelay = 800 * time.Millisecond
)

// Config holds the scraper settings shared by every board.
type Config struct {
	Pages        int
	PerPageLimit int
	Delay        time.Duration
	Backoff      time.Duration
	Timeout      time.Duration
	UserAgent    string
}

// Options tune a single Scrape call. Zero values take the Config defaults.
type Options struct {
	Pages        int
	DeepMode     bool
	PerPageLimit int
}

// Scraper walks result pages of a board. Calls are sequential; a Scraper
// must not be shared between goroutines.
type Scraper struct {
	fetcher *Fetcher
	limit   rate.Limit
	limiter *rate.Limiter
	cfg     Config
	logger  *zap.Logger
}

// New creates a Scraper. After a result page and its detail pages are
// processed, the next result page waits a full cfg.Delay; a negative delay
// disables the pause.
func New(cfg Config, log *zap.Logger) *Scraper {
	log = logger.OrNop(log)

	if cfg.Pages <= 0 {
		cfg.Pages = DefaultPages
	}

	limit := rate.Inf
	switch {
	case cfg.Delay == 0:
		limit = rate.Every(DefaultDelay)
	case cfg.Delay > 0:
		limit = rate.Every(cfg.Delay)
	}

	return &Scraper{
		fetcher: NewFetcher(cfg.Timeout, cfg.Backoff, cfg.UserAgent, log),
		limit:   limit,
		limiter: rate.NewLimiter(limit, 1),
		cfg:     cfg,
		logger:  log,
	}
}

// Scrape collects listings for query from pages 1..Pages of board. It never
// fails: fetch errors, empty pages and markup surprises end pagination and
// whatever was collected is returned. Cancelling ctx stops it the same way.
func (s *Scraper) Scrape(ctx context.Context, board Board, query string, opts Options) []jobs.Listing {
	pages := opts.Pages
	if pages <= 0 {
		pages = s.cfg.Pages
	}
	limit := opts.PerPageLimit
	if limit <= 0 {
		limit = s.cfg.PerPageLimit
	}

	log := s.logger.With(logger.SearchFields(board.Name(), query)...)
	results := make([]jobs.Listing, 0)

	for page := 1; page <= pages; page++ {
		if err := s.limiter.Wait(ctx); err != nil {
			log.Warn("stopping pagination", zap.Error(err))
			break
		}

		searchURL := board.SearchURL(query, page)
		log.Info("fetching search page", zap.String("url", searchURL), zap.Int("page", page))

		body, err := s.fetcher.Get(ctx, searchURL, searchAttempts)
		if err != nil {
			log.Warn("search page unavailable, stopping", zap.Error(err))
			break
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
		if err != nil {
			log.Warn("parsing search page failed, stopping", zap.String("url", searchURL), zap.Error(err))
			break
		}

		found := board.Cards(doc)
		n := found.Length()
		if n == 0 {
			log.Info("no job cards found, stopping", zap.Int("page", page))
			break
		}

		for i := 0; i < n; i++ {
			listing := s.parse(log, board, found.Eq(i))
			listing.Source = strings.ToLower(board.Name())
			listing.QueryUsed = query

			if opts.DeepMode && listing.URL != "" {
				listing.FullDescription = s.detail(ctx, log, board, listing.URL)
			}

			results = append(results, listing)
			if limit > 0 && len(results) >= limit {
				log.Info("reached listing limit", zap.Int("limit", limit))
				return results
			}
		}

		s.pageDone(time.Now())

		if board.LastPage(n) {
			break
		}
	}

	log.Info("scrape finished", zap.Int("listings", len(results)))

	return results
}

// pageDone starts the pause before the next result page at t. The fresh
// limiter's only token is spent at t, so its next Wait lasts one interval.
func (s *Scraper) pageDone(t time.Time) {
	s.limiter = rate.NewLimiter(s.limit, 1)
	s.limiter.AllowN(t, 1)
}

// parse extracts one card. Absent fields are logged at debug, a panic in the
// board parser at warn; both leave the affected fields empty.
func (s *Scraper) parse(log *zap.Logger, board Board, card *goquery.Selection) (listing jobs.Listing) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("unexpected fault parsing job card", zap.String("fault", fmt.Sprint(r)))
			listing = jobs.Listing{}
		}
	}()

	e := board.ParseCard(card)
	if len(e.Missing) > 0 {
		log.Debug("job card fields absent",
			zap.Strings("fields", e.Missing),
			zap.String("title", e.Listing.Title),
		)
	}

	return e.Listing
}

// detail fetches the listing page and returns its description, or "" on
// any failure.
func (s *Scraper) detail(ctx context.Context, log *zap.Logger, board Board, url string) (description string) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("unexpected fault reading job detail", zap.String("url", url), zap.String("fault", fmt.Sprint(r)))
			description = ""
		}
	}()

	body, err := s.fetcher.Get(ctx, url, detailAttempts)
	if err != nil {
		log.Debug("job detail unavailable", zap.String("url", url), zap.Error(err))
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		log.Debug("parsing job detail failed", zap.String("url", url), zap.Error(err))
		return ""
	}

	return board.Description(doc)
}
