package prediction

import "github.com/riskibarqy/football-predictions/internal/domain/fixture"

// Verdict says whether a prediction matched the final result.
type Verdict string

const (
	VerdictCorrect      Verdict = "correct"
	VerdictIncorrect    Verdict = "incorrect"
	VerdictUnverifiable Verdict = "unverifiable"
)

// Correct collapses the verdict to a flag; unverifiable counts as false.
func (v Verdict) Correct() bool {
	return v == VerdictCorrect
}

// Judge compares the predicted winner with the full-time score. A winner
// whose id is neither side is read as a predicted draw. A missing score or
// a prediction without a winner cannot be verified.
func Judge(p Prediction, homeTeamID, awayTeamID int, score *fixture.Score) Verdict {
	if score == nil || p.Winner == nil {
		return VerdictUnverifiable
	}

	var hit bool
	switch {
	case p.Winner.ID != 0 && p.Winner.ID == homeTeamID:
		hit = score.Home > score.Away
	case p.Winner.ID != 0 && p.Winner.ID == awayTeamID:
		hit = score.Away > score.Home
	default:
		hit = score.Home == score.Away
	}

	if hit {
		return VerdictCorrect
	}
	return VerdictIncorrect
}
