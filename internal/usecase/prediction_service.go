package usecase

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/football-predictions/internal/domain/fixture"
	"github.com/riskibarqy/football-predictions/internal/domain/prediction"
	"github.com/riskibarqy/football-predictions/internal/domain/teamstats"
	"github.com/riskibarqy/football-predictions/internal/domain/upstream"
	"github.com/riskibarqy/football-predictions/internal/platform/logging"
)

const (
	defaultTeamStatsLookback = 3
	defaultHeadToHeadLast    = 5
)

type HeadToHeadSummary struct {
	Played   int
	HomeWins int
	AwayWins int
	Draws    int
}

// PredictionDetail is everything shown on a fixture's prediction page.
type PredictionDetail struct {
	FixtureID  int
	Fixture    *fixture.Fixture
	Prediction prediction.Prediction
	Verdict    prediction.Verdict
	HomeStats  *teamstats.SeasonStats
	AwayStats  *teamstats.SeasonStats
	HeadToHead []fixture.Fixture
	H2HSummary HeadToHeadSummary
}

type PredictionServiceConfig struct {
	// Season is the first season tried for team statistics. 0 uses the
	// prediction's season, then the season in progress at Now.
	Season         int
	Lookback       int
	HeadToHeadLast int
	Now            func() time.Time
}

type PredictionService struct {
	provider upstream.Provider
	cfg      PredictionServiceConfig
	logger   *logging.Logger
}

func NewPredictionService(provider upstream.Provider, cfg PredictionServiceConfig, logger *logging.Logger) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Lookback < 1 {
		cfg.Lookback = defaultTeamStatsLookback
	}
	if cfg.HeadToHeadLast < 1 {
		cfg.HeadToHeadLast = defaultHeadToHeadLast
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &PredictionService{provider: provider, cfg: cfg, logger: logger}
}

func (s *PredictionService) Detail(ctx context.Context, fixtureID int) (PredictionDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Detail")
	defer span.End()

	if fixtureID <= 0 {
		return PredictionDetail{}, fmt.Errorf("%w: fixture id must be positive", ErrInvalidInput)
	}

	var (
		rawPrediction map[string]any
		summary       *fixture.Fixture
		first         conc.WaitGroup
	)
	first.Go(func() {
		rawPrediction = s.provider.Request(ctx, upstream.EndpointPredictions, upstream.ByFixture(fixtureID)).First()
	})
	first.Go(func() {
		raw := s.provider.Request(ctx, upstream.EndpointFixtures, upstream.FixtureByID(fixtureID)).First()
		if f, ok := fixture.Parse(raw); ok {
			summary = &f
		}
	})
	first.Wait()

	if rawPrediction == nil {
		return PredictionDetail{}, fmt.Errorf("%w: no prediction for fixture=%d", ErrNotFound, fixtureID)
	}

	detail := PredictionDetail{
		FixtureID:  fixtureID,
		Fixture:    summary,
		Prediction: prediction.Normalize(rawPrediction),
	}

	homeID, awayID, leagueID := detail.Prediction.HomeTeam.ID, detail.Prediction.AwayTeam.ID, detail.Prediction.LeagueID
	if summary != nil {
		if homeID == 0 {
			homeID = summary.Home.ID
		}
		if awayID == 0 {
			awayID = summary.Away.ID
		}
		if leagueID == 0 {
			leagueID = summary.League.ID
		}
		if summary.IsFinished() {
			detail.Verdict = prediction.Judge(detail.Prediction, summary.Home.ID, summary.Away.ID, summary.FullTime)
		}
	}

	seasons := s.seasons(detail.Prediction.Season)
	var second conc.WaitGroup
	if homeID > 0 && leagueID > 0 {
		second.Go(func() {
			detail.HomeStats = s.teamStats(ctx, homeID, leagueID, seasons)
		})
	}
	if awayID > 0 && leagueID > 0 {
		second.Go(func() {
			detail.AwayStats = s.teamStats(ctx, awayID, leagueID, seasons)
		})
	}
	if homeID > 0 && awayID > 0 {
		second.Go(func() {
			detail.HeadToHead = s.headToHead(ctx, homeID, awayID)
		})
	}
	second.Wait()

	detail.H2HSummary = summarizeHeadToHead(detail.HeadToHead, homeID, awayID)

	s.logger.InfoContext(ctx, "prediction detail assembled",
		"fixture_id", fixtureID,
		"home_stats", detail.HomeStats != nil,
		"away_stats", detail.AwayStats != nil,
		"head_to_head", len(detail.HeadToHead),
		"verdict", detail.Verdict,
	)
	return detail, nil
}

// seasons lists the seasons tried for team statistics, newest first.
func (s *PredictionService) seasons(predictionSeason int) []int {
	start := s.cfg.Season
	if start <= 0 {
		start = predictionSeason
	}
	if start <= 0 {
		start = CurrentSeason(s.cfg.Now())
	}

	out := make([]int, 0, s.cfg.Lookback)
	for i := 0; i < s.cfg.Lookback; i++ {
		out = append(out, start-i)
	}
	return out
}

// CurrentSeason is the European season in progress at t; seasons start in
// July.
func CurrentSeason(t time.Time) int {
	if t.Month() >= time.July {
		return t.Year()
	}
	return t.Year() - 1
}

// teamStats returns the newest season with a goal average, or the first
// season's payload when none has one.
func (s *PredictionService) teamStats(ctx context.Context, teamID, leagueID int, seasons []int) *teamstats.SeasonStats {
	var fallback map[string]any
	for i, season := range seasons {
		raw := s.provider.Request(ctx, upstream.EndpointTeamStatistics, upstream.TeamStatistics(teamID, season, leagueID)).Object()
		if i == 0 {
			fallback = raw
		}
		if teamstats.HasGoalAverage(raw) {
			stats := teamstats.Parse(raw)
			if stats.Season == 0 {
				stats.Season = season
			}
			return &stats
		}
	}

	if len(fallback) == 0 {
		return nil
	}
	stats := teamstats.Parse(fallback)
	if stats.Season == 0 {
		stats.Season = seasons[0]
	}
	return &stats
}

// headToHead returns the latest meetings, most recent first.
func (s *PredictionService) headToHead(ctx context.Context, homeID, awayID int) []fixture.Fixture {
	resp := s.provider.Request(ctx, upstream.EndpointHeadToHead, upstream.HeadToHead(homeID, awayID, s.cfg.HeadToHeadLast))
	fixtures := fixture.ParseAll(resp.Objects())
	fixture.SortByKickoff(fixtures)
	slices.Reverse(fixtures)
	return fixtures
}

// summarizeHeadToHead counts results from the point of view of the current
// home and away teams, whichever side they played on.
func summarizeHeadToHead(fixtures []fixture.Fixture, homeID, awayID int) HeadToHeadSummary {
	var out HeadToHeadSummary
	for _, f := range fixtures {
		if f.FullTime == nil {
			continue
		}
		out.Played++

		var winner int
		switch {
		case f.FullTime.Home > f.FullTime.Away:
			winner = f.Home.ID
		case f.FullTime.Away > f.FullTime.Home:
			winner = f.Away.ID
		default:
			out.Draws++
			continue
		}

		switch winner {
		case homeID:
			out.HomeWins++
		case awayID:
			out.AwayWins++
		}
	}
	return out
}
