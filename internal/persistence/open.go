package persistence

import (
	"context"
	"fmt"

	"academycore/internal/config"
	"academycore/internal/infra/kv/fs"
	"academycore/internal/infra/kv/memory"
	"academycore/internal/infra/kv/postgres"
	"academycore/internal/infra/kv/redis"
	"academycore/internal/infra/kv/s3"
	"academycore/internal/infra/kv/sqlite"
	"academycore/internal/kv"
)

// OpenKV opens the substrate selected by cfg.Driver.
func OpenKV(ctx context.Context, cfg config.Storage) (kv.Store, error) {
	var (
		store kv.Store
		err   error
	)
	switch cfg.Driver {
	case kv.DriverMemory:
		store = memory.New()
	case kv.DriverFilesystem, "":
		store, err = opened(fs.New(cfg.FSRoot))
	case kv.DriverSQLite:
		store, err = opened(sqlite.New(ctx, cfg.SQLitePath))
	case kv.DriverPostgres:
		store, err = opened(postgres.New(ctx, cfg.PostgresDSN))
	case kv.DriverRedis:
		store, err = opened(redis.New(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		}))
	case kv.DriverS3:
		store, err = opened(s3.New(ctx, s3.Config{
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			PathStyle: cfg.S3.PathStyle,
			Prefix:    cfg.S3.Prefix,
		}))
	default:
		return nil, fmt.Errorf("unknown kv driver %s", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
	}
	return store, nil
}

// opened drops the typed nil a failed constructor returns alongside err.
func opened[S kv.Store](store S, err error) (kv.Store, error) {
	if err != nil {
		return nil, err
	}
	return store, nil
}
