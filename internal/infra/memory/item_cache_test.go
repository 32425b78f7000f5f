package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"butterfly-quiz-service/internal/domain"
)

func TestItemCacheCaches(t *testing.T) {
	loader := &countingLoader{ItemLoader: NewItemStore(sampleItems()...)}
	cache := NewItemCache(loader, time.Minute)

	if _, err := cache.ListItems(context.Background()); err != nil {
		t.Fatalf("list items: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	items, err := cache.ListItems(context.Background())
	if err != nil {
		t.Fatalf("list items 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
}

func TestItemCacheExpiresAndInvalidates(t *testing.T) {
	loader := &countingLoader{ItemLoader: NewItemStore(sampleItems()...)}
	cache := NewItemCache(loader, time.Minute)
	now := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	cache.clock = func() time.Time { return now }

	_, _ = cache.ListItems(context.Background())
	now = now.Add(2 * time.Minute)
	_, _ = cache.ListItems(context.Background())
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.calls)
	}

	cache.Invalidate(context.Background())
	_, _ = cache.ListItems(context.Background())
	if loader.calls != 3 {
		t.Fatalf("expected reload after invalidate, loader calls %d", loader.calls)
	}
}

type countingLoader struct {
	ItemLoader
	calls int
}

func (l *countingLoader) ListItems(ctx context.Context) ([]domain.Item, error) {
	l.calls++
	return l.ItemLoader.ListItems(ctx)
}

func sampleItems() []domain.Item {
	return []domain.Item{
		{ID: "i1", Name: "Monarch", FormalName: "Danaus plexippus", ImageURL: "https://example.com/1.jpg", Difficulty: domain.DifficultyEasy},
		{ID: "i2", Name: "Blue Morpho", FormalName: "Morpho menelaus", ImageURL: "https://example.com/2.jpg", Difficulty: domain.DifficultyMedium},
		{ID: "i3", Name: "Viceroy", FormalName: "Limenitis archippus", ImageURL: "https://example.com/3.jpg", Difficulty: domain.DifficultyHard},
	}
}

func TestItemCacheDropsLoadRacingInvalidate(t *testing.T) {
	ctx := context.Background()
	store := NewItemStore(sampleItems()...)
	loader := &gatedLoader{ItemLoader: store, entered: make(chan struct{}), release: make(chan struct{})}
	cache := NewItemCache(loader, time.Minute)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = cache.ListItems(ctx)
	}()
	<-loader.entered

	// The in-flight load already read the catalog with i1 in it.
	if err := store.DeleteItem(ctx, "i1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	cache.Invalidate(ctx)
	close(loader.release)
	<-done

	items, err := cache.ListItems(ctx)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	for _, item := range items {
		if item.ID == "i1" {
			t.Fatalf("deleted item served from cache after invalidate: %+v", items)
		}
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

// gatedLoader blocks its first call after taking a snapshot until release is closed.
type gatedLoader struct {
	ItemLoader
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedLoader) ListItems(ctx context.Context) ([]domain.Item, error) {
	items, err := g.ItemLoader.ListItems(ctx)
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return items, err
}
