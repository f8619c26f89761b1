package main

import (
	"context"
	"net/http"

	"homehound/internal/cache"
	"homehound/internal/listings"
	"homehound/internal/logging"
	"homehound/internal/store"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		bootLogger := logging.New(logging.Config{})
		bootLogger.Fatal().Err(err).Msg("load config")
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logging.SetGlobal(logger)

	db, err := openDatabase(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	dataStore := store.New(db)

	var detailCache listings.Cache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisDetailCache(cache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("connect redis")
		}
		defer redisCache.Close()
		detailCache = redisCache
	} else {
		logger.Warn().Msg("REDIS_ADDR not set, detail caching disabled")
	}

	if err := seedDemoListings(context.Background(), db, dataStore); err != nil {
		logger.Fatal().Err(err).Msg("seed demo listings")
	}

	svc := listings.NewService(dataStore, detailCache, cfg.CacheTTL, logger)

	handler := newHTTPHandler(cfg, svc)

	logger.Info().Str("addr", cfg.Addr).Msg("API listening")
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
