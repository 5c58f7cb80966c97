package app

import (
	"context"
	"database/sql"

	"github.com/adelie22/Artivora/internal/config"
	"github.com/adelie22/Artivora/internal/db"
	"github.com/adelie22/Artivora/internal/logger"
	"github.com/adelie22/Artivora/internal/redis"
	"github.com/adelie22/Artivora/internal/storage"

	_ "github.com/lib/pq"
)

type Infra struct {
	DB      *db.DB
	Redis   *redis.Client
	Storage *storage.Service
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	sqlDB, err := sql.Open("postgres", cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := db.RunKeystoneMigration(ctx, sqlDB); err != nil {
		return nil, err
	}

	logger.Info("database ready", nil)

	redisClient, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, err
	}

	logger.Info("redis ready", nil)

	store, err := storage.NewService(cfg.StorageDir)
	if err != nil {
		return nil, err
	}

	logger.Info("storage ready", map[string]any{
		"dir": cfg.StorageDir,
	})

	return &Infra{
		DB:      &db.DB{DB: sqlDB},
		Redis:   redisClient,
		Storage: store,
	}, nil
}
