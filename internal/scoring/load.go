package scoring

import (
	"go.uber.org/zap"

	"github.com/spigell/jobsai/internal/artifacts"
	"github.com/spigell/jobsai/internal/jobs"
	"github.com/spigell/jobsai/internal/logger"
)

// LoadRaw reads every raw listing file in the store and drops listings
// without an identity or with an identity seen before. Unreadable files are
// logged and skipped.
func LoadRaw(store *artifacts.Store, log *zap.Logger) ([]jobs.Listing, error) {
	log = logger.OrNop(log)

	names, err := store.List(artifacts.Raw, ".json")
	if err != nil {
		return nil, err
	}

	var all []jobs.Listing
	for _, name := range names {
		listings, err := jobs.ReadFile(store.Path(artifacts.Raw, name))
		if err != nil {
			log.Error("failed to load raw listings", zap.String("file", name), zap.Error(err))
			continue
		}
		all = append(all, listings...)
	}

	return Unique(all), nil
}

// Unique keeps the first listing per identity and drops listings that have
// none.
func Unique(listings []jobs.Listing) []jobs.Listing {
	seen := make(map[string]struct{}, len(listings))
	unique := make([]jobs.Listing, 0, len(listings))

	for _, l := range listings {
		id := l.Identity()
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, l)
	}

	return unique
}
