package usecase

import (
	"context"
	"net/url"
	"sync"

	"github.com/riskibarqy/football-predictions/internal/domain/upstream"
)

// fakeProvider answers from a fixed table keyed like the response cache and
// records every request.
type fakeProvider struct {
	mu        sync.Mutex
	responses map[string]upstream.Response
	calls     []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{responses: make(map[string]upstream.Response)}
}

func requestKey(endpoint string, query url.Values) string {
	return endpoint + "?" + query.Encode()
}

func (p *fakeProvider) set(endpoint string, query url.Values, items ...any) {
	p.responses[requestKey(endpoint, query)] = upstream.Response{"response": items}
}

func (p *fakeProvider) setObject(endpoint string, query url.Values, obj map[string]any) {
	p.responses[requestKey(endpoint, query)] = upstream.Response{"response": obj}
}

func (p *fakeProvider) Request(_ context.Context, endpoint string, query url.Values) upstream.Response {
	key := requestKey(endpoint, query)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, key)
	if resp, ok := p.responses[key]; ok {
		return resp
	}
	return upstream.Empty()
}

func (p *fakeProvider) called(endpoint string, query url.Values) bool {
	key := requestKey(endpoint, query)

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, call := range p.calls {
		if call == key {
			return true
		}
	}
	return false
}

type teamSpec struct {
	id   int
	name string
}

var (
	arsenal    = teamSpec{id: 42, name: "Arsenal"}
	chelsea    = teamSpec{id: 49, name: "Chelsea"}
	tottenham  = teamSpec{id: 47, name: "Tottenham"}
	realMadrid = teamSpec{id: 541, name: "Real Madrid"}
	barcelona  = teamSpec{id: 529, name: "Barcelona"}
)

type fixtureSpec struct {
	id       int
	leagueID int
	league   string
	date     string
	short    string
	home     teamSpec
	away     teamSpec
	score    []int
}

func rawFixture(s fixtureSpec) map[string]any {
	raw := map[string]any{
		"fixture": map[string]any{
			"id":     float64(s.id),
			"date":   s.date,
			"status": map[string]any{"short": s.short},
		},
		"league": map[string]any{"id": float64(s.leagueID), "name": s.league, "season": float64(2025)},
		"teams": map[string]any{
			"home": map[string]any{"id": float64(s.home.id), "name": s.home.name},
			"away": map[string]any{"id": float64(s.away.id), "name": s.away.name},
		},
	}
	if len(s.score) == 2 {
		goals := map[string]any{"home": float64(s.score[0]), "away": float64(s.score[1])}
		raw["goals"] = goals
		raw["score"] = map[string]any{"fulltime": goals}
	}
	return raw
}

func rawPrediction(winner teamSpec, home, away teamSpec) map[string]any {
	return map[string]any{
		"predictions": map[string]any{
			"winner":      map[string]any{"id": float64(winner.id), "name": winner.name, "comment": "Win or draw"},
			"win_or_draw": true,
			"under_over":  "-2.5",
			"advice":      "Double chance : " + winner.name + " or draw",
			"percent":     map[string]any{"home": "50%", "draw": "30%", "away": "20%"},
		},
		"teams": map[string]any{
			"home": map[string]any{"id": float64(home.id), "name": home.name},
			"away": map[string]any{"id": float64(away.id), "name": away.name},
		},
		"league": map[string]any{"id": float64(39), "season": float64(2025)},
	}
}

func rawTeamStats(team teamSpec, season int, average any) map[string]any {
	return map[string]any{
		"team":   map[string]any{"id": float64(team.id), "name": team.name},
		"league": map[string]any{"id": float64(39), "season": float64(season)},
		"form":   "WDW",
		"goals": map[string]any{
			"for": map[string]any{
				"average": map[string]any{"total": average},
			},
		},
	}
}
