// Package fixture turns provider fixture payloads into typed match records.
package fixture

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/riskibarqy/football-predictions/internal/platform/safe"
)

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
	StatusOther      Status = "other"
)

// ParseStatus maps a provider short status code.
func ParseStatus(short string) Status {
	switch strings.ToUpper(strings.TrimSpace(short)) {
	case "NS", "TBD":
		return StatusNotStarted
	case "1H", "HT", "2H", "ET", "BT", "P", "SUSP", "INT", "LIVE":
		return StatusInProgress
	case "FT", "AET", "PEN":
		return StatusFinished
	default:
		return StatusOther
	}
}

type TeamRef struct {
	ID   int
	Name string
	Logo string
}

type LeagueRef struct {
	ID      int
	Name    string
	Country string
	Logo    string
	Season  int
	Round   string
}

// Score is a full-time or live goal tally.
type Score struct {
	Home int
	Away int
}

type Fixture struct {
	ID          int
	Date        string
	Kickoff     time.Time
	Timestamp   int64
	Venue       string
	Referee     string
	Status      Status
	StatusShort string
	StatusLong  string
	Elapsed     int
	League      LeagueRef
	Home        TeamRef
	Away        TeamRef
	Goals       *Score
	FullTime    *Score
}

func (f Fixture) IsFinished() bool {
	return f.Status == StatusFinished
}

// Parse reads one element of a fixtures response. It reports false when the
// element carries no usable fixture id.
func Parse(raw map[string]any) (Fixture, bool) {
	id := safe.Int(safe.Get(raw, nil, "fixture", "id").Value, 0).Value
	if id <= 0 {
		return Fixture{}, false
	}

	short := safe.String(raw, "", "fixture", "status", "short").Value
	f := Fixture{
		ID:          id,
		Date:        safe.String(raw, "", "fixture", "date").Value,
		Timestamp:   int64(safe.Int(safe.Get(raw, nil, "fixture", "timestamp").Value, 0).Value),
		Venue:       safe.String(raw, "", "fixture", "venue", "name").Value,
		Referee:     safe.String(raw, "", "fixture", "referee").Value,
		Status:      ParseStatus(short),
		StatusShort: short,
		StatusLong:  safe.String(raw, "", "fixture", "status", "long").Value,
		Elapsed:     safe.Int(safe.Get(raw, nil, "fixture", "status", "elapsed").Value, 0).Value,
		League: LeagueRef{
			ID:      intAt(raw, "league", "id"),
			Name:    safe.String(raw, "", "league", "name").Value,
			Country: safe.String(raw, "", "league", "country").Value,
			Logo:    safe.String(raw, "", "league", "logo").Value,
			Season:  intAt(raw, "league", "season"),
			Round:   safe.String(raw, "", "league", "round").Value,
		},
		Home:     teamRef(raw, "home"),
		Away:     teamRef(raw, "away"),
		Goals:    scoreAt(raw, "goals"),
		FullTime: scoreAt(raw, "score", "fulltime"),
	}
	f.Kickoff = kickoff(f.Date, f.Timestamp)
	return f, true
}

// ParseAll parses every element of a fixtures response, dropping unusable
// ones.
func ParseAll(items []map[string]any) []Fixture {
	out := make([]Fixture, 0, len(items))
	for _, item := range items {
		if f, ok := Parse(item); ok {
			out = append(out, f)
		}
	}
	return out
}

// SortByKickoff orders fixtures by kickoff ascending, then id.
func SortByKickoff(fixtures []Fixture) {
	slices.SortStableFunc(fixtures, func(a, b Fixture) int {
		if c := a.Kickoff.Compare(b.Kickoff); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func teamRef(raw map[string]any, side string) TeamRef {
	return TeamRef{
		ID:   intAt(raw, "teams", side, "id"),
		Name: safe.String(raw, "", "teams", side, "name").Value,
		Logo: safe.String(raw, "", "teams", side, "logo").Value,
	}
}

// scoreAt returns nil unless both sides carry a value.
func scoreAt(raw map[string]any, keys ...string) *Score {
	node := safe.Map(raw, keys...)
	if node == nil {
		return nil
	}
	home := safe.Get(node, nil, "home")
	away := safe.Get(node, nil, "away")
	if home.Defaulted || away.Defaulted {
		return nil
	}
	return &Score{
		Home: safe.Int(home.Value, 0).Value,
		Away: safe.Int(away.Value, 0).Value,
	}
}

func intAt(raw map[string]any, keys ...string) int {
	return safe.Int(safe.Get(raw, nil, keys...).Value, 0).Value
}

func kickoff(date string, timestamp int64) time.Time {
	if date != "" {
		if t, err := time.Parse(time.RFC3339, date); err == nil {
			return t
		}
	}
	if timestamp > 0 {
		return time.Unix(timestamp, 0).UTC()
	}
	return time.Time{}
}
