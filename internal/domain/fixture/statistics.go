package fixture

import (
	"strconv"
	"strings"

	"github.com/riskibarqy/football-predictions/internal/platform/safe"
)

const (
	StatShotsOnGoal    = "Shots on Goal"
	StatTotalShots     = "Total Shots"
	StatBallPossession = "Ball Possession"
	StatCornerKicks    = "Corner Kicks"
	StatFouls          = "Fouls"
)

// SideStatistics holds the metrics shown for one team. Missing or
// malformed values are 0.
type SideStatistics struct {
	ShotsOnGoal    int
	TotalShots     int
	BallPossession int
	CornerKicks    int
	Fouls          int
}

type Statistics struct {
	Home SideStatistics
	Away SideStatistics
}

// ParseStatistics splits a fixtures/statistics response by side. Entries
// whose team id is not homeTeamID are attributed to the away side.
func ParseStatistics(items []map[string]any, homeTeamID int) Statistics {
	var out Statistics
	for _, teamStats := range items {
		side := &out.Away
		if intAt(teamStats, "team", "id") == homeTeamID {
			side = &out.Home
		}

		for _, rawStat := range safe.Slice(teamStats, "statistics") {
			stat, ok := rawStat.(map[string]any)
			if !ok {
				continue
			}
			value := safe.Get(stat, nil, "value").Value
			switch safe.String(stat, "", "type").Value {
			case StatShotsOnGoal:
				side.ShotsOnGoal = statCount(value)
			case StatTotalShots:
				side.TotalShots = statCount(value)
			case StatBallPossession:
				side.BallPossession = possession(value)
			case StatCornerKicks:
				side.CornerKicks = statCount(value)
			case StatFouls:
				side.Fouls = statCount(value)
			}
		}
	}
	return out
}

func statCount(v any) int {
	return safe.Int(v, 0).Value
}

// possession accepts "55%" or 55. Fractional text such as "55.5%" is
// malformed and gives 0.
func possession(v any) int {
	text, ok := v.(string)
	if !ok {
		return safe.Int(v, 0).Value
	}
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimRight(text, "%")))
	if err != nil {
		return 0
	}
	return n
}
