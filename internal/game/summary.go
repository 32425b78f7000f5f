package game

import "butterfly-quiz-service/internal/domain"

// Percentage returns score/total*100 rounded half up, computed in integers.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return (score*200 + total) / (2 * total)
}

// TierFor buckets a percentage using inclusive lower bounds 90/70/50.
func TierFor(percentage int) domain.Tier {
	switch {
	case percentage >= 90:
		return domain.TierTop
	case percentage >= 70:
		return domain.TierHigh
	case percentage >= 50:
		return domain.TierMid
	default:
		return domain.TierLow
	}
}

// Summarize builds the end-of-session record.
func Summarize(score, totalRounds int, difficulty domain.Difficulty) domain.Summary {
	pct := Percentage(score, totalRounds)
	tier := TierFor(pct)
	return domain.Summary{
		Score:           score,
		TotalRounds:     totalRounds,
		Wrong:           totalRounds - score,
		Percentage:      pct,
		Tier:            tier,
		Message:         tier.Message(),
		Difficulty:      difficulty,
		DifficultyLabel: difficulty.String(),
	}
}
