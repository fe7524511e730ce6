package httpapi

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/football-predictions/internal/domain/fixture"
	"github.com/riskibarqy/football-predictions/internal/domain/league"
	"github.com/riskibarqy/football-predictions/internal/domain/prediction"
	"github.com/riskibarqy/football-predictions/internal/domain/teamstats"
	"github.com/riskibarqy/football-predictions/internal/platform/cache"
	"github.com/riskibarqy/football-predictions/internal/platform/logging"
	"github.com/riskibarqy/football-predictions/internal/platform/resilience"
	"github.com/riskibarqy/football-predictions/internal/usecase"
)

// UpstreamStatus reports the provider circuit breaker for health checks.
type UpstreamStatus interface {
	CircuitSnapshot() resilience.Snapshot
}

type Handler struct {
	leagueService     *usecase.LeagueService
	fixtureService    *usecase.FixtureService
	searchService     *usecase.SearchService
	predictionService *usecase.PredictionService
	cacheStats        cache.StatsReporter
	upstream          UpstreamStatus
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	leagueService *usecase.LeagueService,
	fixtureService *usecase.FixtureService,
	searchService *usecase.SearchService,
	predictionService *usecase.PredictionService,
	cacheStats cache.StatsReporter,
	upstream UpstreamStatus,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leagueService:     leagueService,
		fixtureService:    fixtureService,
		searchService:     searchService,
		predictionService: predictionService,
		cacheStats:        cacheStats,
		upstream:          upstream,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// parseOptionalInt reads an integer query value; blank means 0.
func parseOptionalInt(name, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, name)
	}
	return v, nil
}

type fixturesQuery struct {
	Region   string `validate:"omitempty,max=32"`
	Category string `validate:"omitempty,max=32"`
	League   int    `validate:"gte=0"`
}

type predictionRequest struct {
	FixtureID int `json:"fixture_id" validate:"required,gt=0"`
}

type healthDTO struct {
	Status   string               `json:"status"`
	Cache    *cache.Stats         `json:"cache,omitempty"`
	Upstream *resilience.Snapshot `json:"upstream,omitempty"`
}

type leagueDTO struct {
	ID       int    `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Region   string `json:"region"`
	Category string `json:"category"`
}

type categoryDTO struct {
	Key     string      `json:"key"`
	Name    string      `json:"name"`
	Leagues []leagueDTO `json:"leagues"`
}

type regionDTO struct {
	Key        string        `json:"key"`
	Name       string        `json:"name"`
	Categories []categoryDTO `json:"categories"`
}

type teamRefDTO struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl,omitempty"`
}

type fixtureLeagueDTO struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
	LogoURL string `json:"logoUrl,omitempty"`
	Season  int    `json:"season,omitempty"`
	Round   string `json:"round,omitempty"`
}

type scoreDTO struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

type fixtureDTO struct {
	ID          int              `json:"id"`
	Date        string           `json:"date"`
	KickoffAt   string           `json:"kickoffAt,omitempty"`
	Venue       string           `json:"venue,omitempty"`
	Referee     string           `json:"referee,omitempty"`
	Status      string           `json:"status"`
	StatusShort string           `json:"statusShort"`
	StatusLong  string           `json:"statusLong,omitempty"`
	Elapsed     int              `json:"elapsed,omitempty"`
	League      fixtureLeagueDTO `json:"league"`
	HomeTeam    teamRefDTO       `json:"homeTeam"`
	AwayTeam    teamRefDTO       `json:"awayTeam"`
	Goals       *scoreDTO        `json:"goals,omitempty"`
	FullTime    *scoreDTO        `json:"fullTime,omitempty"`
}

type sideStatisticsDTO struct {
	ShotsOnGoal    int `json:"shotsOnGoal"`
	TotalShots     int `json:"totalShots"`
	BallPossession int `json:"ballPossession"`
	CornerKicks    int `json:"cornerKicks"`
	Fouls          int `json:"fouls"`
}

type statisticsDTO struct {
	Home sideStatisticsDTO `json:"home"`
	Away sideStatisticsDTO `json:"away"`
}

type cardCountDTO struct {
	Yellow int `json:"yellow"`
	Red    int `json:"red"`
}

type cardsDTO struct {
	Home cardCountDTO `json:"home"`
	Away cardCountDTO `json:"away"`
}

type eventsDTO struct {
	Cards cardsDTO `json:"cards"`
	Goals scoreDTO `json:"goals"`
}

type winnerDTO struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Comment string `json:"comment,omitempty"`
}

type overUnderDTO struct {
	Threshold float64 `json:"threshold"`
	Call      string  `json:"call"`
}

type sideDTO struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}

type comparisonDTO struct {
	Attack  sideDTO `json:"attack"`
	Defense sideDTO `json:"defense"`
	Poisson sideDTO `json:"poisson"`
	Form    sideDTO `json:"form"`
	H2H     sideDTO `json:"h2h"`
	Goals   sideDTO `json:"goals"`
	Total   sideDTO `json:"total"`
}

type percentDTO struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

type predictionDTO struct {
	Winner        *winnerDTO     `json:"winner,omitempty"`
	WinOrDraw     bool           `json:"winOrDraw"`
	WinOrDrawTeam string         `json:"winOrDrawTeam,omitempty"`
	OverUnder     []overUnderDTO `json:"overUnder"`
	GoalsHome     string         `json:"goalsHome"`
	GoalsAway     string         `json:"goalsAway"`
	Advice        string         `json:"advice"`
	Percent       percentDTO     `json:"percent"`
	Comparison    comparisonDTO  `json:"comparison"`
	HomeTeam      teamRefDTO     `json:"homeTeam"`
	AwayTeam      teamRefDTO     `json:"awayTeam"`
	LeagueID      int            `json:"leagueId,omitempty"`
	Season        int            `json:"season,omitempty"`
}

type matchDTO struct {
	Fixture    fixtureDTO     `json:"fixture"`
	Statistics *statisticsDTO `json:"statistics,omitempty"`
	Events     *eventsDTO     `json:"events,omitempty"`
	Prediction *predictionDTO `json:"prediction,omitempty"`
	Verdict    string         `json:"verdict,omitempty"`
	Correct    *bool          `json:"correct,omitempty"`
}

type leagueGroupDTO struct {
	League  leagueDTO  `json:"league"`
	Matches []matchDTO `json:"matches"`
}

type dayGroupDTO struct {
	Key     string           `json:"key"`
	Date    string           `json:"date"`
	Leagues []leagueGroupDTO `json:"leagues"`
}

type dateGroupDTO struct {
	Date     string       `json:"date"`
	Fixtures []fixtureDTO `json:"fixtures"`
}

// suggestionDTO keeps the field names the autocomplete widget expects.
type suggestionDTO struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	League   string `json:"league"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

type recordDTO struct {
	Home  int `json:"home"`
	Away  int `json:"away"`
	Total int `json:"total"`
}

type goalLineDTO struct {
	Total        recordDTO `json:"total"`
	AverageHome  float64   `json:"averageHome"`
	AverageAway  float64   `json:"averageAway"`
	AverageTotal float64   `json:"averageTotal"`
}

type teamStatsDTO struct {
	TeamID        int         `json:"teamId"`
	TeamName      string      `json:"teamName"`
	LeagueID      int         `json:"leagueId"`
	Season        int         `json:"season"`
	Form          string      `json:"form,omitempty"`
	Played        recordDTO   `json:"played"`
	Wins          recordDTO   `json:"wins"`
	Draws         recordDTO   `json:"draws"`
	Losses        recordDTO   `json:"losses"`
	GoalsFor      goalLineDTO `json:"goalsFor"`
	GoalsAgainst  goalLineDTO `json:"goalsAgainst"`
	CleanSheets   recordDTO   `json:"cleanSheets"`
	FailedToScore recordDTO   `json:"failedToScore"`
}

type headToHeadSummaryDTO struct {
	Played   int `json:"played"`
	HomeWins int `json:"homeWins"`
	AwayWins int `json:"awayWins"`
	Draws    int `json:"draws"`
}

type predictionDetailDTO struct {
	FixtureID         int                  `json:"fixtureId"`
	Fixture           *fixtureDTO          `json:"fixture,omitempty"`
	Prediction        predictionDTO        `json:"prediction"`
	Verdict           string               `json:"verdict,omitempty"`
	Correct           *bool                `json:"correct,omitempty"`
	HomeStats         *teamStatsDTO        `json:"homeStats,omitempty"`
	AwayStats         *teamStatsDTO        `json:"awayStats,omitempty"`
	HeadToHead        []fixtureDTO         `json:"headToHead"`
	HeadToHeadSummary headToHeadSummaryDTO `json:"headToHeadSummary"`
}

func leagueToDTO(v league.League) leagueDTO {
	return leagueDTO{ID: v.ID, Key: v.Key, Name: v.Name, Region: v.Region, Category: v.Category}
}

func regionsToDTO(ctx context.Context, regions []league.Region) []regionDTO {
	_, span := startSpan(ctx, "httpapi.regionsToDTO")
	defer span.End()

	out := make([]regionDTO, 0, len(regions))
	for _, region := range regions {
		item := regionDTO{Key: region.Key, Name: region.Name, Categories: make([]categoryDTO, 0, len(region.Categories))}
		for _, category := range region.Categories {
			cat := categoryDTO{Key: category.Key, Name: category.Name, Leagues: make([]leagueDTO, 0, len(category.Leagues))}
			for _, lg := range category.Leagues {
				cat.Leagues = append(cat.Leagues, leagueToDTO(lg))
			}
			item.Categories = append(item.Categories, cat)
		}
		out = append(out, item)
	}
	return out
}

func teamRefToDTO(v fixture.TeamRef) teamRefDTO {
	return teamRefDTO{ID: v.ID, Name: v.Name, LogoURL: v.Logo}
}

func scoreToDTO(v *fixture.Score) *scoreDTO {
	if v == nil {
		return nil
	}
	return &scoreDTO{Home: v.Home, Away: v.Away}
}

func fixtureToDTO(v fixture.Fixture) fixtureDTO {
	out := fixtureDTO{
		ID:          v.ID,
		Date:        v.Date,
		Venue:       v.Venue,
		Referee:     v.Referee,
		Status:      string(v.Status),
		StatusShort: v.StatusShort,
		StatusLong:  v.StatusLong,
		Elapsed:     v.Elapsed,
		League: fixtureLeagueDTO{
			ID:      v.League.ID,
			Name:    v.League.Name,
			Country: v.League.Country,
			LogoURL: v.League.Logo,
			Season:  v.League.Season,
			Round:   v.League.Round,
		},
		HomeTeam: teamRefToDTO(v.Home),
		AwayTeam: teamRefToDTO(v.Away),
		Goals:    scoreToDTO(v.Goals),
		FullTime: scoreToDTO(v.FullTime),
	}
	if !v.Kickoff.IsZero() {
		out.KickoffAt = v.Kickoff.Format(time.RFC3339)
	}
	return out
}

func fixturesToDTO(items []fixture.Fixture) []fixtureDTO {
	out := make([]fixtureDTO, 0, len(items))
	for _, item := range items {
		out = append(out, fixtureToDTO(item))
	}
	return out
}

func sideStatisticsToDTO(v fixture.SideStatistics) sideStatisticsDTO {
	return sideStatisticsDTO{
		ShotsOnGoal:    v.ShotsOnGoal,
		TotalShots:     v.TotalShots,
		BallPossession: v.BallPossession,
		CornerKicks:    v.CornerKicks,
		Fouls:          v.Fouls,
	}
}

func sideToDTO(v prediction.Side) sideDTO {
	return sideDTO{Home: v.Home, Away: v.Away}
}

func predictionToDTO(ctx context.Context, v prediction.Prediction) predictionDTO {
	_, span := startSpan(ctx, "httpapi.predictionToDTO")
	defer span.End()

	out := predictionDTO{
		WinOrDraw:     v.WinOrDraw,
		WinOrDrawTeam: v.WinOrDrawTeam,
		OverUnder:     make([]overUnderDTO, 0, len(v.OverUnder)),
		GoalsHome:     v.GoalsHome,
		GoalsAway:     v.GoalsAway,
		Advice:        v.Advice,
		Percent:       percentDTO{Home: v.Percent.Home, Draw: v.Percent.Draw, Away: v.Percent.Away},
		Comparison: comparisonDTO{
			Attack:  sideToDTO(v.Comparison.Attack),
			Defense: sideToDTO(v.Comparison.Defense),
			Poisson: sideToDTO(v.Comparison.Poisson),
			Form:    sideToDTO(v.Comparison.Form),
			H2H:     sideToDTO(v.Comparison.H2H),
			Goals:   sideToDTO(v.Comparison.Goals),
			Total:   sideToDTO(v.Comparison.Total),
		},
		HomeTeam: teamRefToDTO(v.HomeTeam),
		AwayTeam: teamRefToDTO(v.AwayTeam),
		LeagueID: v.LeagueID,
		Season:   v.Season,
	}
	if v.Winner != nil {
		out.Winner = &winnerDTO{ID: v.Winner.ID, Name: v.Winner.Name, Comment: v.Winner.Comment}
	}
	for _, line := range v.OverUnder {
		out.OverUnder = append(out.OverUnder, overUnderDTO{Threshold: line.Threshold, Call: line.Call})
	}
	return out
}

// verdictToDTO omits correct only while the fixture has no verdict yet;
// unverifiable reports correct=false.
func verdictToDTO(v prediction.Verdict) (string, *bool) {
	if v == "" {
		return "", nil
	}
	correct := v.Correct()
	return string(v), &correct
}

func matchToDTO(ctx context.Context, v usecase.MatchRecord) matchDTO {
	ctx, span := startSpan(ctx, "httpapi.matchToDTO")
	defer span.End()

	out := matchDTO{Fixture: fixtureToDTO(v.Fixture)}
	out.Verdict, out.Correct = verdictToDTO(v.Verdict)
	if v.Statistics != nil {
		out.Statistics = &statisticsDTO{
			Home: sideStatisticsToDTO(v.Statistics.Home),
			Away: sideStatisticsToDTO(v.Statistics.Away),
		}
	}
	if v.Events != nil {
		out.Events = &eventsDTO{
			Cards: cardsDTO{
				Home: cardCountDTO{Yellow: v.Events.Cards.Home.Yellow, Red: v.Events.Cards.Home.Red},
				Away: cardCountDTO{Yellow: v.Events.Cards.Away.Yellow, Red: v.Events.Cards.Away.Red},
			},
			Goals: scoreDTO{Home: v.Events.Goals.Home, Away: v.Events.Goals.Away},
		}
	}
	if v.Prediction != nil {
		p := predictionToDTO(ctx, *v.Prediction)
		out.Prediction = &p
	}
	return out
}

func dayGroupsToDTO(ctx context.Context, days []usecase.DayGroup) []dayGroupDTO {
	ctx, span := startSpan(ctx, "httpapi.dayGroupsToDTO")
	defer span.End()

	out := make([]dayGroupDTO, 0, len(days))
	for _, day := range days {
		item := dayGroupDTO{Key: day.Key, Date: day.Date, Leagues: make([]leagueGroupDTO, 0, len(day.Leagues))}
		for _, group := range day.Leagues {
			lg := leagueGroupDTO{League: leagueToDTO(group.League), Matches: make([]matchDTO, 0, len(group.Matches))}
			for _, match := range group.Matches {
				lg.Matches = append(lg.Matches, matchToDTO(ctx, match))
			}
			item.Leagues = append(item.Leagues, lg)
		}
		out = append(out, item)
	}
	return out
}

func dateGroupsToDTO(groups []usecase.DateGroup) []dateGroupDTO {
	out := make([]dateGroupDTO, 0, len(groups))
	for _, group := range groups {
		out = append(out, dateGroupDTO{Date: group.Date, Fixtures: fixturesToDTO(group.Fixtures)})
	}
	return out
}

func suggestionsToDTO(items []usecase.Suggestion) []suggestionDTO {
	out := make([]suggestionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, suggestionDTO{
			Value:    item.Value,
			Label:    item.Label,
			HomeTeam: item.HomeTeam,
			AwayTeam: item.AwayTeam,
			League:   item.League,
			Date:     item.Date,
			Time:     item.Time,
		})
	}
	return out
}

func recordToDTO(v teamstats.Record) recordDTO {
	return recordDTO{Home: v.Home, Away: v.Away, Total: v.Total}
}

func goalLineToDTO(v teamstats.GoalLine) goalLineDTO {
	return goalLineDTO{
		Total:        recordToDTO(v.Total),
		AverageHome:  v.AverageHome,
		AverageAway:  v.AverageAway,
		AverageTotal: v.AverageTotal,
	}
}

func teamStatsToDTO(v *teamstats.SeasonStats) *teamStatsDTO {
	if v == nil {
		return nil
	}
	return &teamStatsDTO{
		TeamID:        v.TeamID,
		TeamName:      v.TeamName,
		LeagueID:      v.LeagueID,
		Season:        v.Season,
		Form:          v.Form,
		Played:        recordToDTO(v.Played),
		Wins:          recordToDTO(v.Wins),
		Draws:         recordToDTO(v.Draws),
		Losses:        recordToDTO(v.Losses),
		GoalsFor:      goalLineToDTO(v.GoalsFor),
		GoalsAgainst:  goalLineToDTO(v.GoalsAgainst),
		CleanSheets:   recordToDTO(v.CleanSheets),
		FailedToScore: recordToDTO(v.FailedToScore),
	}
}

func predictionDetailToDTO(ctx context.Context, v usecase.PredictionDetail) predictionDetailDTO {
	ctx, span := startSpan(ctx, "httpapi.predictionDetailToDTO")
	defer span.End()

	out := predictionDetailDTO{
		FixtureID:  v.FixtureID,
		Prediction: predictionToDTO(ctx, v.Prediction),
		HomeStats:  teamStatsToDTO(v.HomeStats),
		AwayStats:  teamStatsToDTO(v.AwayStats),
		HeadToHead: fixturesToDTO(v.HeadToHead),
		HeadToHeadSummary: headToHeadSummaryDTO{
			Played:   v.H2HSummary.Played,
			HomeWins: v.H2HSummary.HomeWins,
			AwayWins: v.H2HSummary.AwayWins,
			Draws:    v.H2HSummary.Draws,
		},
	}
	out.Verdict, out.Correct = verdictToDTO(v.Verdict)
	if v.Fixture != nil {
		f := fixtureToDTO(*v.Fixture)
		out.Fixture = &f
	}
	return out
}
