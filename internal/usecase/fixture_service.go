package usecase

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/football-predictions/internal/domain/fixture"
	"github.com/riskibarqy/football-predictions/internal/domain/league"
	"github.com/riskibarqy/football-predictions/internal/domain/upstream"
	"github.com/riskibarqy/football-predictions/internal/platform/logging"
)

const (
	DayToday    = "today"
	DayTomorrow = "tomorrow"

	defaultEnrichWorkers = 8
)

type LeagueGroup struct {
	League  league.League
	Matches []MatchRecord
}

type DayGroup struct {
	Key     string
	Date    string
	Leagues []LeagueGroup
}

type FixtureServiceConfig struct {
	Location      *time.Location
	EnrichWorkers int
	Now           func() time.Time
}

type FixtureService struct {
	provider upstream.Provider
	registry *league.Registry
	matches  *MatchService
	location *time.Location
	workers  int
	now      func() time.Time
	logger   *logging.Logger
}

func NewFixtureService(
	provider upstream.Provider,
	registry *league.Registry,
	matches *MatchService,
	cfg FixtureServiceConfig,
	logger *logging.Logger,
) *FixtureService {
	if logger == nil {
		logger = logging.Default()
	}
	location := cfg.Location
	if location == nil {
		location = time.UTC
	}
	workers := cfg.EnrichWorkers
	if workers < 1 {
		workers = defaultEnrichWorkers
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &FixtureService{
		provider: provider,
		registry: registry,
		matches:  matches,
		location: location,
		workers:  workers,
		now:      now,
		logger:   logger,
	}
}

// ListUpcoming returns today's and tomorrow's fixtures for followed leagues
// matching filter. Finished fixtures are enriched. League groups are ordered
// by their first kickoff and matches by kickoff.
func (s *FixtureService) ListUpcoming(ctx context.Context, filter league.Filter) ([]DayGroup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListUpcoming")
	defer span.End()

	selection := s.registry.Select(filter)
	today := s.now().In(s.location)
	days := []DayGroup{
		{Key: DayToday, Date: today.Format(time.DateOnly)},
		{Key: DayTomorrow, Date: today.AddDate(0, 0, 1).Format(time.DateOnly)},
	}

	perDay := make([][]fixture.Fixture, len(days))
	var fetch conc.WaitGroup
	for i := range days {
		i := i
		fetch.Go(func() {
			resp := s.provider.Request(ctx, upstream.EndpointFixtures, upstream.FixturesByDate(days[i].Date))
			perDay[i] = s.followed(fixture.ParseAll(resp.Objects()), selection)
		})
	}
	fetch.Wait()

	for i := range days {
		records, err := s.enrichFinished(ctx, perDay[i])
		if err != nil {
			return nil, err
		}
		days[i].Leagues = s.groupByLeague(records)
	}

	s.logger.InfoContext(ctx, "upcoming fixtures listed",
		"region", filter.Region,
		"category", filter.Category,
		"league", filter.League,
		"today", countMatches(days[0]),
		"tomorrow", countMatches(days[1]),
	)
	return days, nil
}

// followed keeps fixtures whose league is in the registry and the selection.
func (s *FixtureService) followed(fixtures []fixture.Fixture, selection league.Selection) []fixture.Fixture {
	out := fixtures[:0]
	for _, f := range fixtures {
		if !s.registry.Contains(f.League.ID) || !selection.Contains(f.League.ID) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func (s *FixtureService) enrichFinished(ctx context.Context, fixtures []fixture.Fixture) ([]MatchRecord, error) {
	records := make([]MatchRecord, len(fixtures))
	for i, f := range fixtures {
		records[i] = MatchRecord{Fixture: f}
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i, f := range fixtures {
		if !f.IsFinished() {
			continue
		}
		i, f := i, f
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			records[i] = s.matches.EnrichFixture(ctx, f)
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit enrichment to worker pool: %w", err)
		}
	}
	workers.Wait()

	return records, nil
}

func (s *FixtureService) groupByLeague(records []MatchRecord) []LeagueGroup {
	ordered := make([]MatchRecord, len(records))
	copy(ordered, records)
	sortRecordsByKickoff(ordered)

	index := make(map[int]int)
	groups := make([]LeagueGroup, 0)
	for _, record := range ordered {
		leagueID := record.Fixture.League.ID
		pos, ok := index[leagueID]
		if !ok {
			lg, _ := s.registry.Lookup(leagueID)
			pos = len(groups)
			index[leagueID] = pos
			groups = append(groups, LeagueGroup{League: lg})
		}
		groups[pos].Matches = append(groups[pos].Matches, record)
	}
	return groups
}

func sortRecordsByKickoff(records []MatchRecord) {
	slices.SortStableFunc(records, func(a, b MatchRecord) int {
		if c := a.Fixture.Kickoff.Compare(b.Fixture.Kickoff); c != 0 {
			return c
		}
		return cmp.Compare(a.Fixture.ID, b.Fixture.ID)
	})
}

func countMatches(day DayGroup) int {
	total := 0
	for _, group := range day.Leagues {
		total += len(group.Matches)
	}
	return total
}
