package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"butterfly-quiz-service/internal/domain"
	_ "github.com/mattn/go-sqlite3"
)

// ItemStore keeps catalog items in a local SQLite file.
type ItemStore struct {
	db *sql.DB
}

func NewItemStore(path string) (*ItemStore, error) {
	if strings.TrimSpace(path) == "" {
		path = "catalog.db"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &ItemStore{db: db}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *ItemStore) Close() error {
	return s.db.Close()
}

func (s *ItemStore) initSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS items (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	formal_name TEXT NOT NULL,
	image_url   TEXT NOT NULL,
	difficulty  INTEGER NOT NULL DEFAULT 1
);`)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *ItemStore) ListItems(ctx context.Context) ([]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, formal_name, image_url, difficulty FROM items ORDER BY name, id`)
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
	return items, rows.Err()
}

func (s *ItemStore) GetItem(ctx context.Context, id string) (domain.Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, formal_name, image_url, difficulty FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Item{}, domain.ErrItemNotFound
	}
	if err != nil {
		return domain.Item{}, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (s *ItemStore) CreateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO items (id, name, formal_name, image_url, difficulty) VALUES (?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.FormalName, item.ImageURL, int(item.Difficulty))
	if err != nil {
		return domain.Item{}, fmt.Errorf("create item: %w", err)
	}
	return item, nil
}

func (s *ItemStore) UpdateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE items SET name = ?, formal_name = ?, image_url = ?, difficulty = ? WHERE id = ?`,
		item.Name, item.FormalName, item.ImageURL, int(item.Difficulty), item.ID)
	if err != nil {
		return domain.Item{}, fmt.Errorf("update item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Item{}, domain.ErrItemNotFound
	}
	return item, nil
}

func (s *ItemStore) DeleteItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (domain.Item, error) {
	var item domain.Item
	var difficulty int
	if err := row.Scan(&item.ID, &item.Name, &item.FormalName, &item.ImageURL, &difficulty); err != nil {
		return domain.Item{}, err
	}
	item.Difficulty = domain.Difficulty(difficulty)
	return item, nil
}
