package investors

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvestorNotFound is returned for unknown or non-investor ids
var ErrInvestorNotFound = errors.New("investor not found")

// Service exposes the scored investor directory
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates the investor service
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns investor profiles with derived match scores, highest first
func (s *Service) List(ctx context.Context, filters *ListFilters) ([]*Profile, error) {
	profiles, err := s.repo.ListProfiles(ctx, filters)
	if err != nil {
		return nil, err
	}

	for _, p := range profiles {
		ScoreProfile(p)
	}

	// Stable so that equally scored investors keep their created_at ordering
	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].MatchScore > profiles[j].MatchScore
	})

	return profiles, nil
}

// Get returns one scored investor profile
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Profile, error) {
	profile, err := s.repo.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrInvestorNotFound
	}
	ScoreProfile(profile)
	return profile, nil
}
