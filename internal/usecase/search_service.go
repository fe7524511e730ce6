package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sourcegraph/conc/iter"

	"github.com/riskibarqy/football-predictions/internal/domain/fixture"
	"github.com/riskibarqy/football-predictions/internal/domain/league"
	"github.com/riskibarqy/football-predictions/internal/domain/upstream"
	"github.com/riskibarqy/football-predictions/internal/platform/logging"
	"github.com/riskibarqy/football-predictions/internal/platform/safe"
)

const (
	MinSearchTermLength = 3

	defaultSearchMaxTeams     = 5
	defaultSearchNextFixtures = 10
)

// Suggestion is one autocomplete entry for the team search box.
type Suggestion struct {
	Value    string
	Label    string
	HomeTeam string
	AwayTeam string
	League   string
	Date     string
	Time     string
}

type DateGroup struct {
	Date     string
	Fixtures []fixture.Fixture
}

type SearchServiceConfig struct {
	MaxTeams     int
	NextFixtures int
}

type SearchService struct {
	provider     upstream.Provider
	registry     *league.Registry
	maxTeams     int
	nextFixtures int
	logger       *logging.Logger
}

func NewSearchService(provider upstream.Provider, registry *league.Registry, cfg SearchServiceConfig, logger *logging.Logger) *SearchService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxTeams < 1 {
		cfg.MaxTeams = defaultSearchMaxTeams
	}
	if cfg.NextFixtures < 1 {
		cfg.NextFixtures = defaultSearchNextFixtures
	}
	return &SearchService{
		provider:     provider,
		registry:     registry,
		maxTeams:     cfg.MaxTeams,
		nextFixtures: cfg.NextFixtures,
		logger:       logger,
	}
}

// Suggest returns upcoming fixtures of teams matching term. Short terms give
// an empty list rather than an error.
func (s *SearchService) Suggest(ctx context.Context, term string) ([]Suggestion, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SearchService.Suggest")
	defer span.End()

	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < MinSearchTermLength {
		return []Suggestion{}, nil
	}

	fixtures := s.upcomingForTerm(ctx, term)
	out := make([]Suggestion, 0, len(fixtures))
	for _, f := range fixtures {
		out = append(out, toSuggestion(f))
	}
	return out, nil
}

// Search is Suggest grouped by kickoff date. Short terms are rejected.
func (s *SearchService) Search(ctx context.Context, term string) ([]DateGroup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SearchService.Search")
	defer span.End()

	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < MinSearchTermLength {
		return nil, fmt.Errorf("%w: search term must be at least %d characters", ErrInvalidInput, MinSearchTermLength)
	}

	groups := make([]DateGroup, 0)
	index := make(map[string]int)
	for _, f := range s.upcomingForTerm(ctx, term) {
		date, _ := splitProviderDate(f.Date)
		pos, ok := index[date]
		if !ok {
			pos = len(groups)
			index[date] = pos
			groups = append(groups, DateGroup{Date: date})
		}
		groups[pos].Fixtures = append(groups[pos].Fixtures, f)
	}
	return groups, nil
}

// upcomingForTerm resolves teams then fetches their next fixtures
// concurrently. Fixtures outside the registry are dropped and duplicates
// (two matched teams meeting each other) are kept once.
func (s *SearchService) upcomingForTerm(ctx context.Context, term string) []fixture.Fixture {
	teamIDs := make([]int, 0, s.maxTeams)
	for _, team := range s.provider.Request(ctx, upstream.EndpointTeams, upstream.TeamSearch(term)).Objects() {
		if len(teamIDs) == s.maxTeams {
			break
		}
		if id := safe.Int(safe.Get(team, nil, "team", "id").Value, 0).Value; id > 0 {
			teamIDs = append(teamIDs, id)
		}
	}

	perTeam := iter.Map(teamIDs, func(teamID *int) []fixture.Fixture {
		resp := s.provider.Request(ctx, upstream.EndpointFixtures, upstream.NextFixtures(*teamID, s.nextFixtures))
		return fixture.ParseAll(resp.Objects())
	})

	seen := make(map[int]struct{})
	out := make([]fixture.Fixture, 0)
	for _, fixtures := range perTeam {
		for _, f := range fixtures {
			if !s.registry.Contains(f.League.ID) {
				continue
			}
			if _, dup := seen[f.ID]; dup {
				continue
			}
			seen[f.ID] = struct{}{}
			out = append(out, f)
		}
	}
	fixture.SortByKickoff(out)

	s.logger.InfoContext(ctx, "team search resolved",
		"term", term,
		"teams", len(teamIDs),
		"fixtures", len(out),
	)
	return out
}

func toSuggestion(f fixture.Fixture) Suggestion {
	date, clock := splitProviderDate(f.Date)
	return Suggestion{
		Value:    strconv.Itoa(f.ID),
		Label:    fmt.Sprintf("%s vs %s (%s)", f.Home.Name, f.Away.Name, f.League.Name),
		HomeTeam: f.Home.Name,
		AwayTeam: f.Away.Name,
		League:   f.League.Name,
		Date:     date,
		Time:     clock,
	}
}

// splitProviderDate keeps the provider's own offset: "2026-03-01T15:00:00+00:00"
// gives "2026-03-01" and "15:00".
func splitProviderDate(raw string) (string, string) {
	date, rest, found := strings.Cut(raw, "T")
	if !found {
		return date, ""
	}
	if len(rest) > 5 {
		rest = rest[:5]
	}
	return date, rest
}
