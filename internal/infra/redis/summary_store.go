package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"butterfly-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SummaryStore keeps the most recent session summaries in a capped Redis list.
type SummaryStore struct {
	client *redis.Client
	limit  int64
}

func NewSummaryStore(client *redis.Client, limit int) *SummaryStore {
	if limit <= 0 {
		limit = 50
	}
	return &SummaryStore{client: client, limit: int64(limit)}
}

func (s *SummaryStore) SaveSummary(ctx context.Context, summary domain.SessionSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, summariesKey, data)
	pipe.LTrim(ctx, summariesKey, 0, s.limit-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	return nil
}

// RecentSummaries returns up to limit summaries, newest first.
func (s *SummaryStore) RecentSummaries(ctx context.Context, limit int) ([]domain.SessionSummary, error) {
	stop := int64(limit) - 1
	if limit <= 0 || int64(limit) > s.limit {
		stop = s.limit - 1
	}
	raw, err := s.client.LRange(ctx, summariesKey, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("load summaries: %w", err)
	}
	out := make([]domain.SessionSummary, 0, len(raw))
	for _, data := range raw {
		var summary domain.SessionSummary
		if err := json.Unmarshal([]byte(data), &summary); err != nil {
			return nil, fmt.Errorf("unmarshal summary: %w", err)
		}
		out = append(out, summary)
	}
	return out, nil
}

const summariesKey = "game:summaries"
