package memory

import (
	"context"
	"sort"
	"sync"

	"butterfly-quiz-service/internal/domain"
)

// ItemStore is an in-memory implementation of app.ItemRepository.
type ItemStore struct {
	mu    sync.RWMutex
	items map[string]domain.Item
}

func NewItemStore(items ...domain.Item) *ItemStore {
	s := &ItemStore{items: make(map[string]domain.Item, len(items))}
	for _, item := range items {
		s.items[item.ID] = item
	}
	return s
}

// ListItems returns every item ordered by name.
func (s *ItemStore) ListItems(_ context.Context) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sortItems(items)
	return items, nil
}

func (s *ItemStore) GetItem(_ context.Context, id string) (domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return domain.Item{}, domain.ErrItemNotFound
	}
	return item, nil
}

func (s *ItemStore) CreateItem(_ context.Context, item domain.Item) (domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; ok || item.ID == "" {
		return domain.Item{}, domain.ErrInvalidItem
	}
	s.items[item.ID] = item
	return item, nil
}

func (s *ItemStore) UpdateItem(_ context.Context, item domain.Item) (domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		return domain.Item{}, domain.ErrItemNotFound
	}
	s.items[item.ID] = item
	return item, nil
}

func (s *ItemStore) DeleteItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return domain.ErrItemNotFound
	}
	delete(s.items, id)
	return nil
}

func sortItems(items []domain.Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
}
