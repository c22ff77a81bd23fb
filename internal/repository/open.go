package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/yukikurage/taskboard/internal/config"
	"github.com/yukikurage/taskboard/internal/database"
)

// Backend is an opened key/value store with its cleanup.
type Backend struct {
	KV     KVRepository
	Driver string
	close  func() error
}

// Close releases the underlying connection, if any.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open connects the key/value backend selected by cfg.StorageDriver. SQL
// backends are migrated before use.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return &Backend{KV: NewMemoryKVRepository(), Driver: cfg.StorageDriver}, nil

	case config.DriverSQLite, config.DriverMySQL, config.DriverPostgres:
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := database.Migrate(db); err != nil {
			sqlDB.Close()
			return nil, err
		}
		return &Backend{KV: NewGormKVRepository(db), Driver: cfg.StorageDriver, close: sqlDB.Close}, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return &Backend{KV: NewRedisKVRepository(client), Driver: cfg.StorageDriver, close: client.Close}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
