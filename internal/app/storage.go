package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/sportsstore/internal/config"
	"github.com/utafrali/sportsstore/internal/repository"
	"github.com/utafrali/sportsstore/internal/repository/memory"
	"github.com/utafrali/sportsstore/internal/repository/postgres"
	redisrepo "github.com/utafrali/sportsstore/internal/repository/redis"
	"github.com/utafrali/sportsstore/migrations"
	"github.com/utafrali/sportsstore/pkg/database"
	"github.com/utafrali/sportsstore/pkg/health"
)

// Storage holds the repositories selected by STORAGE_DRIVER.
type Storage struct {
	Products repository.ProductRepository
	Orders   repository.OrderRepository
	Users    repository.UserRepository
	Sessions repository.SessionStore

	pool *pgxpool.Pool
	rdb  *redis.Client
}

// OpenStorage connects the configured backends. The postgres driver stores
// the catalog, orders and users in PostgreSQL (migrating the schema first)
// and session carts in Redis. The memory driver keeps everything in process.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Storage, error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("using in-memory storage; data is lost on restart")
		return &Storage{
			Products: memory.NewProductRepository(),
			Orders:   memory.NewOrderRepository(),
			Users:    memory.NewUserRepository(),
			Sessions: memory.NewSessionStore(),
		}, nil
	}

	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	database.RegisterPoolMetrics(pool, "storefront")

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	if cfg.SlowQueryMS > 0 {
		database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryMS)*time.Millisecond, logger)
	}

	rdb, err := database.NewRedisClient(ctx, cfg.Redis(), logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.Redis().Addr()),
		slog.Int("db", cfg.RedisDB),
	)

	return &Storage{
		Products: postgres.NewProductRepository(pool),
		Orders:   postgres.NewOrderRepository(pool),
		Users:    postgres.NewUserRepository(pool),
		Sessions: redisrepo.NewSessionStore(rdb, cfg.SessionTTL()),
		pool:     pool,
		rdb:      rdb,
	}, nil
}

// Redis returns the Redis client, or nil with the memory driver.
func (s *Storage) Redis() *redis.Client {
	return s.rdb
}

// RegisterHealth adds readiness checks for the connected backends. Without
// PostgreSQL nothing can be served, so it is critical; Redis only holds carts.
func (s *Storage) RegisterHealth(h *health.Handler) {
	if s.pool != nil {
		h.RegisterCritical("postgres", func(ctx context.Context) error {
			return s.pool.Ping(ctx)
		})
	}
	if s.rdb != nil {
		h.RegisterNonCritical("redis", func(ctx context.Context) error {
			return s.rdb.Ping(ctx).Err()
		})
	}
}

// Close releases the backend connections.
func (s *Storage) Close() error {
	var err error
	if s.rdb != nil {
		err = s.rdb.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}
