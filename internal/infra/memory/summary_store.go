package memory

import (
	"context"
	"sync"

	"butterfly-quiz-service/internal/domain"
)

// SummaryStore keeps the most recent session summaries in memory.
type SummaryStore struct {
	mu        sync.RWMutex
	limit     int
	summaries []domain.SessionSummary
}

func NewSummaryStore(limit int) *SummaryStore {
	if limit <= 0 {
		limit = 50
	}
	return &SummaryStore{limit: limit}
}

func (s *SummaryStore) SaveSummary(_ context.Context, summary domain.SessionSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = append(s.summaries, summary)
	if len(s.summaries) > s.limit {
		s.summaries = s.summaries[len(s.summaries)-s.limit:]
	}
	return nil
}

// RecentSummaries returns up to limit summaries, newest first.
func (s *SummaryStore) RecentSummaries(_ context.Context, limit int) ([]domain.SessionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.summaries) {
		limit = len(s.summaries)
	}
	out := make([]domain.SessionSummary, 0, limit)
	for i := len(s.summaries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.summaries[i])
	}
	return out, nil
}
