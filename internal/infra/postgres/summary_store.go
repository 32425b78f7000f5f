package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"butterfly-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// SummaryStore persists finished-session summaries as JSONB.
type SummaryStore struct {
	pool *pgxpool.Pool
}

func NewSummaryStore(pool *pgxpool.Pool) *SummaryStore {
	return &SummaryStore{pool: pool}
}

func (s *SummaryStore) SaveSummary(ctx context.Context, summary domain.SessionSummary) error {
	data, err := json.Marshal(summary.Summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO session_summaries (session_id, data, finished_at) VALUES ($1, $2, $3)
		 ON CONFLICT (session_id) DO UPDATE SET data=EXCLUDED.data, finished_at=EXCLUDED.finished_at`,
		summary.SessionID, string(data), summary.FinishedAt)
	if err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	return nil
}

// RecentSummaries returns up to limit summaries, newest first.
func (s *SummaryStore) RecentSummaries(ctx context.Context, limit int) ([]domain.SessionSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT session_id, data, finished_at FROM session_summaries ORDER BY finished_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("load summaries: %w", err)
	}
	defer rows.Close()

	var out []domain.SessionSummary
	for rows.Next() {
		var record domain.SessionSummary
		var raw []byte
		if err := rows.Scan(&record.SessionID, &raw, &record.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		if err := json.Unmarshal(raw, &record.Summary); err != nil {
			return nil, fmt.Errorf("unmarshal summary: %w", err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}
