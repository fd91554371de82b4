package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sportfeeds/fixtures-daily/internal/domain/fixture"
)

// FixtureService serves stored fixtures to downstream consumers.
type FixtureService struct {
	repo fixture.Repository
}

func NewFixtureService(repo fixture.Repository) *FixtureService {
	return &FixtureService{repo: repo}
}

func (s *FixtureService) ListBySport(ctx context.Context, sportType string) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListBySport")
	defer span.End()

	sportType = strings.ToLower(strings.TrimSpace(sportType))
	if sportType == "" {
		return nil, fmt.Errorf("%w: sport type is required", ErrInvalidInput)
	}

	fixtures, err := s.repo.ListBySport(ctx, sportType)
	if err != nil {
		return nil, fmt.Errorf("list fixtures by sport: %w", err)
	}

	return fixtures, nil
}
