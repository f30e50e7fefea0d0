package main

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"fuelroute-service/internal/adapters/cache"
	"fuelroute-service/internal/adapters/repositories"
	"fuelroute-service/internal/adapters/traffic"
	"fuelroute-service/internal/api"
	"fuelroute-service/internal/config"
	"fuelroute-service/internal/platform/db"
	"fuelroute-service/internal/ports"
	"fuelroute-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, Google Maps) behind ports and
// starts the HTTP server.
func main() {
	cfg := config.Load()

	logger := newLogger(cfg.Debug)
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx := context.Background()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer database.Close()

	stationRepo := repositories.NewPostgresStationRepository(database)
	ratingRepo := repositories.NewPostgresRatingRepository(database)
	routeRepo := repositories.NewPostgresRouteRepository(database)

	var planCache ports.PlanCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, plan caching disabled", zap.Error(err))
		} else {
			planCache = cache.NewRedisPlanCache(client, cfg.PlanCacheTTL)
			defer client.Close()
		}
	}

	// Prefer live traffic when an API key is configured; otherwise serve
	// whatever conditions are stored in the database. Live fetches are
	// recorded back into the database so they outlive the request.
	trafficRepo := repositories.NewPostgresTrafficRepository(database)
	var trafficSource ports.TrafficSource = trafficRepo
	if cfg.GoogleMapsAPIKey != "" {
		mapsClient, err := maps.NewClient(maps.WithAPIKey(cfg.GoogleMapsAPIKey))
		if err != nil {
			logger.Warn("google maps client init failed, using stored conditions", zap.Error(err))
		} else {
			googleSource := traffic.NewGoogleTrafficSource(mapsClient, cfg.TrafficTTL)
			trafficSource = traffic.NewRecordingTrafficSource(googleSource, trafficRepo, logger)
		}
	}

	router := api.NewRouter(api.Dependencies{
		Stations:  stationRepo,
		Ratings:   ratingRepo,
		Routes:    routeRepo,
		Traffic:   trafficSource,
		PlanCache: planCache,
		Optimize: services.OptimizeConfig{
			AssumedSpeedMph:     cfg.AssumedSpeedMph,
			ExactLimit:          cfg.ExactSearchLimit,
			ExactBudget:         cfg.ExactSearchBudget,
			HeuristicRestarts:   cfg.HeuristicRestarts,
			SafetyMarginGallons: cfg.SafetyMarginGallons,
		},
		Log: logger,
	})

	logger.Info("server listening", zap.String("addr", ":"+cfg.ServerPort))
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	logger.Fatal("server stopped", zap.Error(srv.ListenAndServe()))
}

func newLogger(debug bool) *zap.Logger {
	var logger *zap.Logger
	var err error
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return logger
}
