package app

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"butterfly-quiz-service/internal/domain"
)

// QuestionProvider draws questions from the catalog. The correct item comes
// from the requested difficulty tier (the whole catalog when the tier is empty);
// distractors are drawn uniformly from every other item.
type QuestionProvider struct {
	items       ItemLister
	optionCount int

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuestionProvider(items ItemLister, optionCount int) *QuestionProvider {
	return NewQuestionProviderWithRand(items, optionCount, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewQuestionProviderWithRand is used by tests for reproducible draws.
func NewQuestionProviderWithRand(items ItemLister, optionCount int, rnd *rand.Rand) *QuestionProvider {
	if optionCount < 2 {
		optionCount = 2
	}
	return &QuestionProvider{items: items, optionCount: optionCount, rnd: rnd}
}

func (p *QuestionProvider) Question(ctx context.Context, difficulty domain.Difficulty) (domain.Question, error) {
	all, err := p.items.ListItems(ctx)
	if err != nil {
		return domain.Question{}, fmt.Errorf("list items: %w", err)
	}
	items := uniqueItems(all)
	if len(items) < p.optionCount {
		return domain.Question{}, fmt.Errorf("%w: need %d, have %d", domain.ErrNotEnoughItems, p.optionCount, len(items))
	}

	pool := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if item.Difficulty == difficulty {
			pool = append(pool, item)
		}
	}
	if len(pool) == 0 {
		pool = items
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	correct := pool[p.rnd.Intn(len(pool))]
	options := make([]domain.Item, 0, p.optionCount)
	options = append(options, correct)
	for _, idx := range p.rnd.Perm(len(items)) {
		if len(options) == p.optionCount {
			break
		}
		if items[idx].ID != correct.ID {
			options = append(options, items[idx])
		}
	}
	p.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return domain.Question{Correct: correct, Options: options}, nil
}

func uniqueItems(items []domain.Item) []domain.Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}
