package app

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"butterfly-quiz-service/internal/domain"
	"github.com/google/uuid"
)

// ItemRepository stores catalog items (in-memory, SQLite, Postgres).
type ItemRepository interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
	GetItem(ctx context.Context, id string) (domain.Item, error)
	CreateItem(ctx context.Context, item domain.Item) (domain.Item, error)
	UpdateItem(ctx context.Context, item domain.Item) (domain.Item, error)
	DeleteItem(ctx context.Context, id string) error
}

// ItemLister is the read path used to build questions, usually a cache in front of an ItemRepository.
type ItemLister interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
}

// CacheInvalidator drops cached catalog listings after writes.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// CatalogService manages catalog items.
type CatalogService struct {
	items ItemRepository
	cache CacheInvalidator
	newID func() string
}

// NewCatalogService builds the service; cache may be nil.
func NewCatalogService(items ItemRepository, cache CacheInvalidator) *CatalogService {
	return &CatalogService{items: items, cache: cache, newID: uuid.NewString}
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Item, error) {
	return s.items.ListItems(ctx)
}

func (s *CatalogService) Get(ctx context.Context, id string) (domain.Item, error) {
	return s.items.GetItem(ctx, id)
}

// Create validates the item and stores it under a fresh id.
func (s *CatalogService) Create(ctx context.Context, item domain.Item) (domain.Item, error) {
	item, err := normalizeItem(item)
	if err != nil {
		return domain.Item{}, err
	}
	item.ID = s.newID()
	created, err := s.items.CreateItem(ctx, item)
	if err != nil {
		return domain.Item{}, err
	}
	s.invalidate(ctx)
	return created, nil
}

// Update replaces every field of the item with the given id.
func (s *CatalogService) Update(ctx context.Context, id string, item domain.Item) (domain.Item, error) {
	item, err := normalizeItem(item)
	if err != nil {
		return domain.Item{}, err
	}
	item.ID = id
	updated, err := s.items.UpdateItem(ctx, item)
	if err != nil {
		return domain.Item{}, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.items.DeleteItem(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Seed loads the starter catalog into an empty store. It returns how many items
// were inserted and how many already existed; a non-empty store is left alone.
func (s *CatalogService) Seed(ctx context.Context) (inserted, existing int, err error) {
	items, err := s.items.ListItems(ctx)
	if err != nil {
		return 0, 0, err
	}
	if len(items) > 0 {
		return 0, len(items), nil
	}
	for _, item := range StarterItems() {
		if _, err := s.Create(ctx, item); err != nil {
			return inserted, 0, fmt.Errorf("seed %q: %w", item.Name, err)
		}
		inserted++
	}
	log.Printf("seeded catalog with %d items", inserted)
	return inserted, 0, nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func normalizeItem(item domain.Item) (domain.Item, error) {
	item.Name = strings.TrimSpace(item.Name)
	item.FormalName = strings.TrimSpace(item.FormalName)
	item.ImageURL = strings.TrimSpace(item.ImageURL)

	switch {
	case item.Name == "":
		return domain.Item{}, fmt.Errorf("%w: name is required", domain.ErrInvalidItem)
	case item.FormalName == "":
		return domain.Item{}, fmt.Errorf("%w: formal name is required", domain.ErrInvalidItem)
	case item.ImageURL == "":
		return domain.Item{}, fmt.Errorf("%w: image url is required", domain.ErrInvalidItem)
	case !item.Difficulty.Valid():
		return domain.Item{}, fmt.Errorf("%w: %w", domain.ErrInvalidItem, domain.ErrUnknownDifficulty)
	}
	if u, err := url.Parse(item.ImageURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return domain.Item{}, fmt.Errorf("%w: image url must be an absolute http(s) url", domain.ErrInvalidItem)
	}
	return item, nil
}
