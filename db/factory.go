package db

import (
	"context"
	"fmt"

	"chapterquiz-server/config"
)

// Open builds the backend named by cfg.Driver and wraps it in a Store.
func Open(ctx context.Context, cfg config.StoreConfig) (*Store, error) {
	var (
		backend Backend
		err     error
	)
	switch cfg.Driver {
	case "", "file":
		backend, err = NewFileBackend(cfg.DataDir)
	case "memory":
		backend = NewMemoryBackend()
	case "sqlite":
		backend, err = NewSQLiteBackend(cfg.SQLitePath)
	case "postgres":
		backend, err = NewPostgresBackend(ctx, cfg.DatabaseURL)
	case "redis":
		backend, err = NewRedisBackend(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.KeyPrefix)
	case "s3":
		backend, err = NewS3Backend(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
			Prefix:    cfg.KeyPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
	}
	return NewStore(backend), nil
}
