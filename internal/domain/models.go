package domain

import "time"

// Item is a catalog entry the player has to identify from its image.
type Item struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	FormalName string     `json:"formalName"`
	ImageURL   string     `json:"imageUrl"`
	Difficulty Difficulty `json:"difficulty"`
}

// Question holds the item to identify plus the shuffled options shown to the player.
type Question struct {
	Correct Item   `json:"correctAnswer"`
	Options []Item `json:"options"`
}

// Validate checks the option invariants: no duplicate identifiers, the correct
// item present exactly once and, when optionCount > 0, exactly optionCount options.
func (q Question) Validate(optionCount int) error {
	if q.Correct.ID == "" {
		return ErrInvalidQuestion
	}
	if optionCount > 0 && len(q.Options) != optionCount {
		return ErrInvalidQuestion
	}
	seen := make(map[string]struct{}, len(q.Options))
	hits := 0
	for _, opt := range q.Options {
		if opt.ID == "" {
			return ErrInvalidQuestion
		}
		if _, dup := seen[opt.ID]; dup {
			return ErrInvalidQuestion
		}
		seen[opt.ID] = struct{}{}
		if opt.ID == q.Correct.ID {
			hits++
		}
	}
	if hits != 1 {
		return ErrInvalidQuestion
	}
	return nil
}

// RoundState is the live phase of the current round.
type RoundState string

const (
	RoundLoading   RoundState = "loading"
	RoundPreview   RoundState = "preview"
	RoundAnswering RoundState = "answering"
	RoundResolved  RoundState = "resolved"
)

// Outcome is how a resolved round ended.
type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
	OutcomeTimedOut  Outcome = "timed_out"
)

// RoundResult records one resolved round.
type RoundResult struct {
	Round          int     `json:"round"`
	CorrectItemID  string  `json:"correctItemId"`
	SelectedItemID string  `json:"selectedItemId,omitempty"`
	Outcome        Outcome `json:"outcome"`
}

// Tier buckets a final percentage into a feedback message.
type Tier string

const (
	TierTop  Tier = "top"
	TierHigh Tier = "high"
	TierMid  Tier = "mid"
	TierLow  Tier = "low"
)

// Message is the text shown to the player for the tier.
func (t Tier) Message() string {
	switch t {
	case TierTop:
		return "Outstanding!"
	case TierHigh:
		return "Great Job!"
	case TierMid:
		return "Good Effort!"
	default:
		return "Keep Practicing!"
	}
}

// Summary is the immutable end-of-session record handed to the presentation layer.
type Summary struct {
	Score           int           `json:"score"`
	TotalRounds     int           `json:"total"`
	Wrong           int           `json:"wrong"`
	Percentage      int           `json:"percentage"`
	Tier            Tier          `json:"tier"`
	Message         string        `json:"message"`
	Difficulty      Difficulty    `json:"difficulty"`
	DifficultyLabel string        `json:"difficultyLabel"`
	Rounds          []RoundResult `json:"rounds,omitempty"`
}

// SessionSummary is a persisted summary of a finished session.
type SessionSummary struct {
	SessionID  string    `json:"sessionId"`
	Summary    Summary   `json:"summary"`
	FinishedAt time.Time `json:"finishedAt"`
}
