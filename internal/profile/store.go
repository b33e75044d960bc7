package profile

import (
	"go.uber.org/zap"

	"github.com/spigell/jobsai/internal/artifacts"
	"github.com/spigell/jobsai/internal/logger"
)

const snapshotSuffix = "_skill_profile.json"

// Store keeps the append-only history of profile snapshots.
type Store struct {
	artifacts *artifacts.Store
	logger    *zap.Logger
}

// NewStore returns a snapshot store backed by the artifact directory.
func NewStore(a *artifacts.Store, log *zap.Logger) *Store {
	return &Store{artifacts: a, logger: logger.OrNop(log)}
}

// Latest loads the newest snapshot by file name. It returns nil when there
// is none or when the newest one cannot be read as a valid profile.
func (s *Store) Latest() (*SkillProfile, error) {
	name, err := s.artifacts.Latest(artifacts.Profiles, snapshotSuffix)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}

	var p SkillProfile
	if err := s.artifacts.ReadJSON(artifacts.Profiles, name, &p); err != nil {
		s.logger.Warn("ignoring unreadable skill profile", zap.String("file", name), zap.Error(err))
		return nil, nil
	}

	for _, field := range p.lists() {
		if *field == nil {
			*field = []string{}
		}
	}

	if err := p.Validate(); err != nil {
		s.logger.Warn("ignoring invalid skill profile", zap.String("file", name), zap.Error(err))
		return nil, nil
	}

	return &p, nil
}

// Save writes the snapshot of the run and returns its path.
func (s *Store) Save(run artifacts.Run, p SkillProfile) (string, error) {
	return s.artifacts.WriteJSON(artifacts.Profiles, artifacts.ProfileName(run), p)
}
