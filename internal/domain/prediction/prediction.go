// Package prediction normalizes provider prediction payloads and judges them
// against final scores.
package prediction

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/riskibarqy/football-predictions/internal/domain/fixture"
	"github.com/riskibarqy/football-predictions/internal/platform/safe"
)

const (
	CallOver  = "over"
	CallUnder = "under"

	// DefaultComparison is used for comparison values that are missing or
	// do not parse.
	DefaultComparison = 50.0

	overUnderKey    = "under_over"
	overUnderPrefix = "under_over_"
)

// Winner is the predicted winner. ID is 0 when the provider predicts a draw.
type Winner struct {
	ID      int
	Name    string
	Comment string
}

type OverUnder struct {
	Threshold float64
	Call      string
}

type Side struct {
	Home float64
	Away float64
}

type Comparison struct {
	Attack  Side
	Defense Side
	Poisson Side
	Form    Side
	H2H     Side
	Goals   Side
	Total   Side
}

type Percentages struct {
	Home float64
	Draw float64
	Away float64
}

type Prediction struct {
	Winner        *Winner
	WinOrDraw     bool
	WinOrDrawTeam string
	OverUnder     []OverUnder
	GoalsHome     string
	GoalsAway     string
	Advice        string
	Percent       Percentages
	Comparison    Comparison
	HomeTeam      fixture.TeamRef
	AwayTeam      fixture.TeamRef
	LeagueID      int
	Season        int
}

// Normalize converts one element of a predictions response. Missing or
// malformed fields take their documented defaults; it never fails.
func Normalize(raw map[string]any) Prediction {
	predictions := safe.Map(raw, "predictions")
	comparison := safe.Map(raw, "comparison")

	p := Prediction{
		Winner:    parseWinner(safe.Map(predictions, "winner")),
		WinOrDraw: ParseWinOrDraw(safe.Get(predictions, nil, "win_or_draw").Value),
		OverUnder: parseOverUnder(predictions),
		GoalsHome: safe.String(predictions, "", "goals", "home").Value,
		GoalsAway: safe.String(predictions, "", "goals", "away").Value,
		Advice:    safe.String(predictions, "", "advice").Value,
		Percent: Percentages{
			Home: safe.Percent(safe.Get(predictions, nil, "percent", "home").Value, 0).Value,
			Draw: safe.Percent(safe.Get(predictions, nil, "percent", "draw").Value, 0).Value,
			Away: safe.Percent(safe.Get(predictions, nil, "percent", "away").Value, 0).Value,
		},
		Comparison: Comparison{
			Attack:  comparisonSide(comparison, "att"),
			Defense: comparisonSide(comparison, "def"),
			Poisson: comparisonSide(comparison, "poisson_distribution"),
			Form:    comparisonSide(comparison, "form"),
			H2H:     comparisonSide(comparison, "h2h"),
			Goals:   comparisonSide(comparison, "goals"),
			Total:   comparisonSide(comparison, "total"),
		},
		HomeTeam: teamRef(raw, "home"),
		AwayTeam: teamRef(raw, "away"),
		LeagueID: safe.Int(safe.Get(raw, nil, "league", "id").Value, 0).Value,
		Season:   safe.Int(safe.Get(raw, nil, "league", "season").Value, 0).Value,
	}

	// Flat goals_home/goals_away take precedence when present.
	if v := safe.String(predictions, "", "goals_home"); !v.Defaulted {
		p.GoalsHome = v.Value
	}
	if v := safe.String(predictions, "", "goals_away"); !v.Defaulted {
		p.GoalsAway = v.Value
	}

	if p.WinOrDraw && p.Winner != nil && p.Winner.Name != "" {
		p.WinOrDrawTeam = p.Winner.Name
	}
	return p
}

var truthyWinOrDraw = map[string]struct{}{
	"true": {},
	"1":    {},
	"yes":  {},
	"y":    {},
}

// ParseWinOrDraw accepts booleans and the texts true, 1, yes and y in any
// case. Everything else is false.
func ParseWinOrDraw(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		_, ok := truthyWinOrDraw[strings.ToLower(x)]
		return ok
	case float64:
		return x == 1
	case int:
		return x == 1
	default:
		return false
	}
}

func parseWinner(node map[string]any) *Winner {
	if len(node) == 0 {
		return nil
	}
	return &Winner{
		ID:      safe.Int(safe.Get(node, nil, "id").Value, 0).Value,
		Name:    safe.String(node, "", "name").Value,
		Comment: safe.String(node, "", "comment").Value,
	}
}

// parseOverUnder puts the signed main under_over first, then every
// under_over_<threshold> call ordered by threshold.
func parseOverUnder(predictions map[string]any) []OverUnder {
	var out []OverUnder

	if main := safe.Float(safe.Get(predictions, nil, overUnderKey).Value); !main.Defaulted && main.Value != 0 {
		call := CallUnder
		if main.Value > 0 {
			call = CallOver
		}
		threshold := main.Value
		if threshold < 0 {
			threshold = -threshold
		}
		out = append(out, OverUnder{Threshold: threshold, Call: call})
	}

	var ladder []OverUnder
	for key, raw := range predictions {
		suffix, ok := strings.CutPrefix(key, overUnderPrefix)
		if !ok {
			continue
		}
		threshold, err := strconv.ParseFloat(strings.ReplaceAll(suffix, "_", "."), 64)
		if err != nil {
			continue
		}
		call, ok := raw.(string)
		if !ok || call == "" {
			continue
		}
		ladder = append(ladder, OverUnder{Threshold: threshold, Call: strings.ToLower(call)})
	}
	slices.SortFunc(ladder, func(a, b OverUnder) int {
		if c := cmp.Compare(a.Threshold, b.Threshold); c != 0 {
			return c
		}
		return strings.Compare(a.Call, b.Call)
	})

	return append(out, ladder...)
}

func comparisonSide(comparison map[string]any, key string) Side {
	return Side{
		Home: safe.Percent(safe.Get(comparison, nil, key, "home").Value, DefaultComparison).Value,
		Away: safe.Percent(safe.Get(comparison, nil, key, "away").Value, DefaultComparison).Value,
	}
}

func teamRef(raw map[string]any, side string) fixture.TeamRef {
	return fixture.TeamRef{
		ID:   safe.Int(safe.Get(raw, nil, "teams", side, "id").Value, 0).Value,
		Name: safe.String(raw, "", "teams", side, "name").Value,
		Logo: safe.String(raw, "", "teams", side, "logo").Value,
	}
}
