package usecase

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/football-predictions/internal/domain/fixture"
	"github.com/riskibarqy/football-predictions/internal/domain/prediction"
	"github.com/riskibarqy/football-predictions/internal/domain/upstream"
	"github.com/riskibarqy/football-predictions/internal/platform/logging"
)

// MatchRecord is a fixture with whatever enrichment the provider returned.
// Nil parts mean the provider had no data. Verdict is set only for finished
// fixtures that have a prediction.
type MatchRecord struct {
	Fixture    fixture.Fixture
	Statistics *fixture.Statistics
	Events     *fixture.Events
	Prediction *prediction.Prediction
	Verdict    prediction.Verdict
}

type MatchService struct {
	provider upstream.Provider
	logger   *logging.Logger
}

func NewMatchService(provider upstream.Provider, logger *logging.Logger) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{provider: provider, logger: logger}
}

// Enrich loads a fixture by id and enriches it.
func (s *MatchService) Enrich(ctx context.Context, fixtureID int) (MatchRecord, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Enrich")
	defer span.End()

	f, err := s.loadFixture(ctx, fixtureID)
	if err != nil {
		return MatchRecord{}, err
	}
	return s.EnrichFixture(ctx, f), nil
}

// EnrichFixture fetches statistics, events and prediction concurrently and
// joins them before returning. Each stage is best-effort.
func (s *MatchService) EnrichFixture(ctx context.Context, f fixture.Fixture) MatchRecord {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.EnrichFixture")
	defer span.End()

	record := MatchRecord{Fixture: f}

	var wg conc.WaitGroup
	wg.Go(func() {
		record.Statistics = s.fetchStatistics(ctx, f)
	})
	wg.Go(func() {
		record.Events = s.fetchEvents(ctx, f)
	})
	wg.Go(func() {
		record.Prediction = s.fetchPrediction(ctx, f.ID)
	})
	wg.Wait()

	if f.IsFinished() && record.Prediction != nil {
		record.Verdict = prediction.Judge(*record.Prediction, f.Home.ID, f.Away.ID, f.FullTime)
	}

	s.logger.DebugContext(ctx, "fixture enriched",
		"fixture_id", f.ID,
		"status", f.StatusShort,
		"has_statistics", record.Statistics != nil,
		"has_events", record.Events != nil,
		"has_prediction", record.Prediction != nil,
		"verdict", record.Verdict,
	)
	return record
}

func (s *MatchService) loadFixture(ctx context.Context, fixtureID int) (fixture.Fixture, error) {
	if fixtureID <= 0 {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture id must be positive", ErrInvalidInput)
	}

	resp := s.provider.Request(ctx, upstream.EndpointFixtures, upstream.FixtureByID(fixtureID))
	raw := resp.First()
	if raw == nil {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture=%d", ErrNotFound, fixtureID)
	}
	f, ok := fixture.Parse(raw)
	if !ok {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture=%d", ErrNotFound, fixtureID)
	}
	return f, nil
}

func (s *MatchService) fetchStatistics(ctx context.Context, f fixture.Fixture) *fixture.Statistics {
	resp := s.provider.Request(ctx, upstream.EndpointFixtureStatistics, upstream.ByFixture(f.ID))
	items := resp.Objects()
	if len(items) == 0 {
		return nil
	}
	stats := fixture.ParseStatistics(items, f.Home.ID)
	return &stats
}

func (s *MatchService) fetchEvents(ctx context.Context, f fixture.Fixture) *fixture.Events {
	resp := s.provider.Request(ctx, upstream.EndpointFixtureEvents, upstream.ByFixture(f.ID))
	items := resp.Objects()
	if len(items) == 0 {
		return nil
	}
	events := fixture.ParseEvents(items, f.Home.ID)
	return &events
}

func (s *MatchService) fetchPrediction(ctx context.Context, fixtureID int) *prediction.Prediction {
	raw := s.provider.Request(ctx, upstream.EndpointPredictions, upstream.ByFixture(fixtureID)).First()
	if raw == nil {
		return nil
	}
	p := prediction.Normalize(raw)
	return &p
}
