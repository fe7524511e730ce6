package upstream

import (
	"net/url"
	"strconv"
)

func FixturesByDate(date string) url.Values {
	return url.Values{"date": {date}}
}

func FixtureByID(fixtureID int) url.Values {
	return url.Values{"id": {strconv.Itoa(fixtureID)}}
}

// ByFixture is the query shared by statistics, events and predictions.
func ByFixture(fixtureID int) url.Values {
	return url.Values{"fixture": {strconv.Itoa(fixtureID)}}
}

func TeamSearch(term string) url.Values {
	return url.Values{"search": {term}}
}

// NextFixtures selects a team's next not-started fixtures.
func NextFixtures(teamID, next int) url.Values {
	return url.Values{
		"team":   {strconv.Itoa(teamID)},
		"next":   {strconv.Itoa(next)},
		"status": {"NS"},
	}
}

func TeamStatistics(teamID, season, leagueID int) url.Values {
	return url.Values{
		"team":   {strconv.Itoa(teamID)},
		"season": {strconv.Itoa(season)},
		"league": {strconv.Itoa(leagueID)},
	}
}

func HeadToHead(homeTeamID, awayTeamID, last int) url.Values {
	return url.Values{
		"h2h":  {strconv.Itoa(homeTeamID) + "-" + strconv.Itoa(awayTeamID)},
		"last": {strconv.Itoa(last)},
	}
}
