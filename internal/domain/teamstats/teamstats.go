// Package teamstats reads teams/statistics payloads for one team, league and
// season.
package teamstats

import "github.com/riskibarqy/football-predictions/internal/platform/safe"

type Record struct {
	Home  int
	Away  int
	Total int
}

type GoalLine struct {
	Total        Record
	AverageHome  float64
	AverageAway  float64
	AverageTotal float64
}

type SeasonStats struct {
	TeamID        int
	TeamName      string
	LeagueID      int
	Season        int
	Form          string
	Played        Record
	Wins          Record
	Draws         Record
	Losses        Record
	GoalsFor      GoalLine
	GoalsAgainst  GoalLine
	CleanSheets   Record
	FailedToScore Record
}

// HasGoalAverage reports whether the payload carries a usable
// goals.for.average.total. Seasons without one are skipped when looking for
// the latest season with data.
func HasGoalAverage(raw map[string]any) bool {
	switch v := safe.Get(raw, nil, "goals", "for", "average", "total").Value.(type) {
	case string:
		return v != ""
	case float64:
		return v != 0
	case bool:
		return v
	default:
		return false
	}
}

// Parse converts a teams/statistics response object. Averages that do not
// parse become 0.
func Parse(raw map[string]any) SeasonStats {
	return SeasonStats{
		TeamID:        intAt(raw, "team", "id"),
		TeamName:      safe.String(raw, "", "team", "name").Value,
		LeagueID:      intAt(raw, "league", "id"),
		Season:        intAt(raw, "league", "season"),
		Form:          safe.String(raw, "", "form").Value,
		Played:        record(raw, "fixtures", "played"),
		Wins:          record(raw, "fixtures", "wins"),
		Draws:         record(raw, "fixtures", "draws"),
		Losses:        record(raw, "fixtures", "loses"),
		GoalsFor:      goalLine(raw, "for"),
		GoalsAgainst:  goalLine(raw, "against"),
		CleanSheets:   record(raw, "clean_sheet"),
		FailedToScore: record(raw, "failed_to_score"),
	}
}

func record(raw map[string]any, keys ...string) Record {
	node := safe.Map(raw, keys...)
	return Record{
		Home:  intAt(node, "home"),
		Away:  intAt(node, "away"),
		Total: intAt(node, "total"),
	}
}

func goalLine(raw map[string]any, side string) GoalLine {
	average := safe.Map(raw, "goals", side, "average")
	return GoalLine{
		Total:        record(raw, "goals", side, "total"),
		AverageHome:  safe.Float(safe.Get(average, nil, "home").Value).Value,
		AverageAway:  safe.Float(safe.Get(average, nil, "away").Value).Value,
		AverageTotal: safe.Float(safe.Get(average, nil, "total").Value).Value,
	}
}

func intAt(raw map[string]any, keys ...string) int {
	return safe.Int(safe.Get(raw, nil, keys...).Value, 0).Value
}
