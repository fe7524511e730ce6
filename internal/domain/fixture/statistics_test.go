package fixture

import "testing"

func statsFor(teamID int, stats ...map[string]any) map[string]any {
	list := make([]any, 0, len(stats))
	for _, s := range stats {
		list = append(list, s)
	}
	return map[string]any{
		"team":       map[string]any{"id": float64(teamID)},
		"statistics": list,
	}
}

func stat(name string, value any) map[string]any {
	return map[string]any{"type": name, "value": value}
}

func TestParseStatistics(t *testing.T) {
	t.Parallel()

	items := []map[string]any{
		statsFor(49,
			stat(StatShotsOnGoal, float64(3)),
			stat(StatBallPossession, "45%"),
			stat(StatFouls, nil),
		),
		statsFor(42,
			stat(StatShotsOnGoal, float64(7)),
			stat(StatTotalShots, float64(15)),
			stat(StatBallPossession, "55%"),
			stat(StatCornerKicks, float64(6)),
			stat(StatFouls, float64(10)),
			stat("Offsides", float64(2)),
		),
	}

	got := ParseStatistics(items, 42)
	wantHome := SideStatistics{ShotsOnGoal: 7, TotalShots: 15, BallPossession: 55, CornerKicks: 6, Fouls: 10}
	wantAway := SideStatistics{ShotsOnGoal: 3, BallPossession: 45}
	if got.Home != wantHome {
		t.Fatalf("home stats = %+v, want %+v", got.Home, wantHome)
	}
	if got.Away != wantAway {
		t.Fatalf("away stats = %+v, want %+v", got.Away, wantAway)
	}
}

func TestParseStatistics_MalformedPossession(t *testing.T) {
	t.Parallel()

	got := ParseStatistics([]map[string]any{statsFor(1, stat(StatBallPossession, "55.5%"))}, 1)
	if got.Home.BallPossession != 0 {
		t.Fatalf("expected malformed possession to be 0, got %d", got.Home.BallPossession)
	}
}

func TestParseStatistics_Empty(t *testing.T) {
	t.Parallel()

	if got := ParseStatistics(nil, 1); got != (Statistics{}) {
		t.Fatalf("expected zero statistics, got %+v", got)
	}
}
