package game

import (
	"time"

	"butterfly-quiz-service/internal/domain"
)

// OptionView is an answer choice as shown to the player.
type OptionView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	FormalName string `json:"formalName"`
}

// View is the read-only picture of a session handed to callers. The correct
// item is only revealed once the round is resolved, and options only once the
// preview window is over.
type View struct {
	Version          uint64            `json:"version"`
	Round            int               `json:"round"`
	TotalRounds      int               `json:"totalRounds"`
	Score            int               `json:"score"`
	Difficulty       domain.Difficulty `json:"difficulty"`
	State            domain.RoundState `json:"state"`
	Outcome          domain.Outcome    `json:"outcome,omitempty"`
	Remaining        time.Duration     `json:"-"`
	RemainingSeconds int               `json:"remainingSeconds"`
	ImageURL         string            `json:"imageUrl,omitempty"`
	Options          []OptionView      `json:"options,omitempty"`
	SelectedItemID   string            `json:"selectedItemId,omitempty"`
	Correct          *domain.Item      `json:"correctAnswer,omitempty"`
	Finished         bool              `json:"finished"`
	Summary          *domain.Summary   `json:"summary,omitempty"`
	Error            string            `json:"error,omitempty"`
}

func (c *Controller) viewLocked() View {
	v := View{
		Version:     c.version,
		Round:       c.round,
		TotalRounds: c.total,
		Score:       c.score,
		Difficulty:  c.difficulty,
		State:       c.state,
		Outcome:     c.outcome,
		Finished:    c.finished,
		Summary:     c.summary,
	}
	if c.lastErr != nil {
		v.Error = c.lastErr.Error()
	}
	if c.state == domain.RoundPreview || c.state == domain.RoundAnswering {
		v.Remaining = c.timer.Remaining()
		v.RemainingSeconds = int((v.Remaining + time.Second - 1) / time.Second)
	}
	if c.question == nil {
		return v
	}
	v.ImageURL = c.question.Correct.ImageURL
	if c.state == domain.RoundAnswering || c.state == domain.RoundResolved {
		v.Options = make([]OptionView, 0, len(c.question.Options))
		for _, opt := range c.question.Options {
			v.Options = append(v.Options, OptionView{ID: opt.ID, Name: opt.Name, FormalName: opt.FormalName})
		}
	}
	if c.state == domain.RoundResolved {
		correct := c.question.Correct
		v.Correct = &correct
		v.SelectedItemID = c.selected
	}
	return v
}
