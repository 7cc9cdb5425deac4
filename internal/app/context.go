package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/amoro/amoro-server/internal/cache"
	"github.com/amoro/amoro-server/internal/notify"
)

// AppContext holds shared dependencies (DB, Redis, notification feed, Logger).
type AppContext struct {
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Feed       *notify.Feed
	Logger     *slog.Logger
}

// New creates a new AppContext
func New(db *gorm.DB, rdb *cache.RedisCache, feed *notify.Feed, logger *slog.Logger) *AppContext {
	return &AppContext{
		DB:         db,
		RedisCache: rdb,
		Feed:       feed,
		Logger:     logger,
	}
}
