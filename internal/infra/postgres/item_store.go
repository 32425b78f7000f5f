package postgres

import (
	"context"
	"errors"
	"fmt"

	"butterfly-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ItemStore keeps catalog items in Postgres.
type ItemStore struct {
	pool *pgxpool.Pool
}

func NewItemStore(pool *pgxpool.Pool) *ItemStore {
	return &ItemStore{pool: pool}
}

func (s *ItemStore) ListItems(ctx context.Context) ([]domain.Item, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, formal_name, image_url, difficulty FROM items ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (s *ItemStore) GetItem(ctx context.Context, id string) (domain.Item, error) {
	row := s.pool.QueryRow(ctx, `SELECT id, name, formal_name, image_url, difficulty FROM items WHERE id=$1`, id)
	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Item{}, domain.ErrItemNotFound
	}
	if err != nil {
		return domain.Item{}, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (s *ItemStore) CreateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO items (id, name, formal_name, image_url, difficulty) VALUES ($1, $2, $3, $4, $5)`,
		item.ID, item.Name, item.FormalName, item.ImageURL, int(item.Difficulty))
	if err != nil {
		return domain.Item{}, fmt.Errorf("create item: %w", err)
	}
	return item, nil
}

func (s *ItemStore) UpdateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE items SET name=$2, formal_name=$3, image_url=$4, difficulty=$5, updated_at=now() WHERE id=$1`,
		item.ID, item.Name, item.FormalName, item.ImageURL, int(item.Difficulty))
	if err != nil {
		return domain.Item{}, fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Item{}, domain.ErrItemNotFound
	}
	return item, nil
}

func (s *ItemStore) DeleteItem(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM items WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (domain.Item, error) {
	var item domain.Item
	var difficulty int
	if err := row.Scan(&item.ID, &item.Name, &item.FormalName, &item.ImageURL, &difficulty); err != nil {
		return domain.Item{}, err
	}
	item.Difficulty = domain.Difficulty(difficulty)
	return item, nil
}
