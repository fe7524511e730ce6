package fixture

import (
	"strings"

	"github.com/riskibarqy/football-predictions/internal/platform/safe"
)

type CardCount struct {
	Yellow int
	Red    int
}

type Cards struct {
	Home CardCount
	Away CardCount
}

// Events summarizes a fixtures/events response. Goals with a "penalty" or
// "missed penalty" detail are not counted.
type Events struct {
	Cards Cards
	Goals Score
}

func ParseEvents(items []map[string]any, homeTeamID int) Events {
	var out Events
	for _, event := range items {
		teamID := intAt(event, "team", "id")
		if teamID == 0 {
			continue
		}
		home := teamID == homeTeamID

		eventType := strings.ToLower(safe.String(event, "", "type").Value)
		detail := strings.ToLower(safe.String(event, "", "detail").Value)

		switch eventType {
		case "card":
			cards := &out.Cards.Away
			if home {
				cards = &out.Cards.Home
			}
			switch detail {
			case "yellow card":
				cards.Yellow++
			case "red card":
				cards.Red++
			}
		case "goal":
			if detail == "missed penalty" || detail == "penalty" {
				continue
			}
			if home {
				out.Goals.Home++
			} else {
				out.Goals.Away++
			}
		}
	}
	return out
}
