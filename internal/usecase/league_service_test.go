package usecase

import (
	"context"
	"testing"

	"github.com/riskibarqy/football-predictions/internal/domain/league"
)

func TestLeagueService_ListRegions(t *testing.T) {
	t.Parallel()

	regions := NewLeagueService(league.Default()).ListRegions(context.Background())
	if len(regions) != 3 {
		t.Fatalf("expected 3 regions, got %d", len(regions))
	}
	if regions[0].Key != "europe" || len(regions[0].Categories) == 0 {
		t.Fatalf("unexpected first region: %+v", regions[0])
	}
}
