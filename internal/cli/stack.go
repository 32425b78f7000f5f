package cli

import (
	"context"
	"log"
	"time"

	"butterfly-quiz-service/internal/app"
	"butterfly-quiz-service/internal/config"
	"butterfly-quiz-service/internal/game"
	"butterfly-quiz-service/internal/infra/memory"
	pgstore "butterfly-quiz-service/internal/infra/postgres"
	redisstore "butterfly-quiz-service/internal/infra/redis"
	"butterfly-quiz-service/internal/infra/sqlite"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

type itemCache interface {
	app.ItemLister
	app.CacheInvalidator
}

// stack holds the services built from config, plus the connections to close.
type stack struct {
	catalog   *app.CatalogService
	questions *app.QuestionProvider
	games     *app.GameService
	closers   []func()

	// sessionTTL is how long an untouched session lives before the reaper ends it.
	sessionTTL time.Duration
}

func (s *stack) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// buildStack picks the backends named in cfg: Postgres, then SQLite, then memory
// for the catalog; Redis when configured for caching, sessions and history.
func buildStack(ctx context.Context, cfg config.Config, clock game.Clock) (*stack, error) {
	st := &stack{sessionTTL: config.TTLDuration(cfg.Redis.TTL, memory.DefaultSessionTTL)}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		st.closers = append(st.closers, func() { _ = redisClient.Close() })
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		var err error
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			st.Close()
			return nil, err
		}
		st.closers = append(st.closers, pool.Close)
	}

	var items app.ItemRepository
	switch {
	case pool != nil:
		items = pgstore.NewItemStore(pool)
		log.Printf("catalog: postgres")
	case cfg.SQLite.Path != "":
		store, err := sqlite.NewItemStore(cfg.SQLite.Path)
		if err != nil {
			st.Close()
			return nil, err
		}
		st.closers = append(st.closers, func() { _ = store.Close() })
		items = store
		log.Printf("catalog: sqlite %s", cfg.SQLite.Path)
	default:
		items = memory.NewItemStore()
		log.Printf("catalog: in-memory")
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var cache itemCache
	if redisClient != nil {
		cache = redisstore.NewItemCache(redisClient, items, catalogTTL)
	} else {
		cache = memory.NewItemCache(items, catalogTTL)
	}

	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = redisstore.NewSessionStore(redisClient, st.sessionTTL)
	} else {
		sessions = memory.NewSessionStoreWithTTL(st.sessionTTL)
	}

	var summaries app.SummaryRepository
	switch {
	case pool != nil:
		summaries = pgstore.NewSummaryStore(pool)
	case redisClient != nil:
		summaries = redisstore.NewSummaryStore(redisClient, cfg.History.Limit)
	default:
		summaries = memory.NewSummaryStore(cfg.History.Limit)
	}

	settings := cfg.GameSettings()
	st.catalog = app.NewCatalogService(items, cache)
	st.questions = app.NewQuestionProvider(cache, settings.OptionCount)
	st.games = app.NewGameService(sessions, summaries, st.questions, app.GameOptions{
		Clock:         clock,
		Settings:      settings,
		DefaultRounds: cfg.Game.Rounds,
	})

	if cfg.Catalog.Seed {
		if _, _, err := st.catalog.Seed(ctx); err != nil {
			st.Close()
			return nil, err
		}
	}
	return st, nil
}
