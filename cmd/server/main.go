package main

import (
	"context"

	"github.com/amoro/amoro-server/internal/app"
	"github.com/amoro/amoro-server/internal/cache"
	"github.com/amoro/amoro-server/internal/config"
	"github.com/amoro/amoro-server/internal/db"
	"github.com/amoro/amoro-server/internal/logger"
	"github.com/amoro/amoro-server/internal/notify"
	"github.com/amoro/amoro-server/internal/repository"
	"github.com/amoro/amoro-server/internal/server"
	"github.com/amoro/amoro-server/internal/service/feed"
	"github.com/amoro/amoro-server/internal/service/match"
	"github.com/amoro/amoro-server/internal/service/message"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L() // slog.Logger pointer

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	// Realtime: connection registry + change feed + dispatcher goroutine
	registry := notify.NewRegistry()
	changeFeed := notify.NewFeed(256, log)
	dispatcher := notify.NewDispatcher(
		changeFeed,
		registry,
		repository.NewUserRepository(database),
		repository.NewMessageRepository(database),
		log,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Run(ctx)

	// Inject dependencies into app context
	appCtx := app.New(database, redisCache, changeFeed, log)

	registrars := []server.Registrar{
		feed.NewRegistrar(appCtx),
		match.NewRegistrar(appCtx),
		message.NewRegistrar(appCtx),
		notify.NewRegistrar(registry, log),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(cfg, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
