package usecase

import (
	"context"

	"github.com/riskibarqy/football-predictions/internal/domain/league"
)

type LeagueService struct {
	registry *league.Registry
}

func NewLeagueService(registry *league.Registry) *LeagueService {
	return &LeagueService{registry: registry}
}

func (s *LeagueService) ListRegions(ctx context.Context) []league.Region {
	_, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListRegions")
	defer span.End()

	return s.registry.Regions()
}
