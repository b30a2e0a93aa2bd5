package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ridematch/internal/app"
	"ridematch/internal/config"
	"ridematch/internal/geo"
	"ridematch/internal/geocode"
	"ridematch/internal/handler"
	"ridematch/internal/logger"
	internalRedis "ridematch/internal/redis"
	"ridematch/internal/repository"
	"ridematch/internal/repository/postgres"
	"ridematch/internal/service"
)

const (
	serviceName    = "ridematch"
	serviceVersion = "1.0.0"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	if err := logger.Init(cfg.Server.Environment, cfg.Logging.Level); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled {
		var err error
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.Warn("failed to initialize New Relic", zap.Error(err))
		} else {
			logger.Info("New Relic enabled", zap.String("app", cfg.NewRelic.AppName))
		}
	}

	// Redis backs the gateway, so it is required.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// PostgreSQL only supplies driver stats; without it ranking uses defaults.
	var db *sql.DB
	if cfg.Database.Enabled {
		db, err = app.NewDatabase(ctx, cfg.Database, nrApp)
		if err != nil {
			logger.Warn("driver stats database unavailable, ranking with default stats", zap.Error(err))
		} else {
			defer db.Close()
			logger.Info("Connected to PostgreSQL", zap.String("host", cfg.Database.Host))
		}
	}

	server, err := wireServer(db, redisClient, nrApp, cfg)
	if err != nil {
		logger.Fatal("failed to wire server", zap.Error(err))
	}

	// Start server in goroutine.
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	logger.Info("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) (*http.Server, error) {
	// Initialize Redis stores.
	locationStore := internalRedis.NewLocationStore(redisClient)
	demandStore := internalRedis.NewDemandStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient, cfg.Ranking.StatsCacheTTL)
	gateway := internalRedis.NewGateway(locationStore, demandStore)

	// Initialize repositories.
	var statsRepo repository.DriverStatsRepository
	if db != nil {
		statsRepo = postgres.NewDriverStatsRepository(db)
	}

	// Initialize services.
	engine, err := service.NewSurgeEngine(service.SurgeConfig{
		Threshold:     cfg.Pricing.SurgeThreshold,
		Slope:         cfg.Pricing.SurgeSlope,
		MaxMultiplier: cfg.Pricing.MaxSurge,
	})
	if err != nil {
		return nil, err
	}

	weights, err := service.NewRankingWeights(cfg.Ranking.DistanceWeight, cfg.Ranking.RatingWeight, cfg.Ranking.AcceptanceWeight)
	if err != nil {
		return nil, err
	}

	trafficZone, err := time.LoadLocation(cfg.Traffic.TimeZone)
	if err != nil {
		return nil, err
	}

	model, err := app.NewPredictionModel(cfg.Prediction)
	if err != nil {
		return nil, err
	}
	logger.Info("prediction model ready",
		zap.String("kind", model.Info().Kind),
		zap.String("version", model.Info().Version),
		zap.String("source", model.Info().Source),
	)

	estimator := service.NewRideEstimator(gateway, engine, service.NewHourlyTraffic(trafficZone, time.Now), service.EstimatorConfig{
		Schedule: geo.FareSchedule{
			BaseFare:      cfg.Pricing.BaseFare,
			PerKmRate:     cfg.Pricing.PerKmRate,
			PerMinuteRate: cfg.Pricing.PerMinuteRate,
		},
		CountRadiusKm:   cfg.Pricing.CountRadiusKm,
		UpstreamTimeout: cfg.UpstreamTimeout,
	})
	pricingService := service.NewPricingService(gateway, engine, cfg.Pricing.CountRadiusKm, cfg.UpstreamTimeout)
	statsService := service.NewDriverStatsService(cacheStore, statsRepo)
	matchingService := service.NewMatchingService(gateway, statsService,
		service.NewDriverRanker(weights, cfg.Ranking.ResultLimit),
		service.MatchingConfig{
			SearchRadiusKm:    cfg.Ranking.SearchRadiusKm,
			CandidatePoolSize: cfg.Ranking.CandidatePoolSize,
			UpstreamTimeout:   cfg.UpstreamTimeout,
		})
	predictionService := service.NewPredictionService(model)

	// Geocoding is optional.
	var geocodeHandler *handler.GeocodeHandler
	if cfg.Geocoding.GoogleAPIKey != "" {
		provider, err := geocode.NewGoogleProvider(cfg.Geocoding.GoogleAPIKey, cfg.Geocoding.Language)
		if err != nil {
			return nil, err
		}
		geocodeHandler = handler.NewGeocodeHandler(geocode.NewService(provider, cacheStore, cfg.Geocoding.CacheTTL))
	}

	info := handler.ServiceInfo{Name: serviceName, Version: serviceVersion}

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		ServiceName:       serviceName,
		PricingHandler:    handler.NewPricingHandler(estimator, pricingService),
		MatchingHandler:   handler.NewMatchingHandler(matchingService),
		PredictionHandler: handler.NewPredictionHandler(predictionService, info),
		GeocodeHandler:    geocodeHandler,
		RedisClient:       redisClient,
		NewRelicApp:       nrApp,
		CORSOrigins:       cfg.Server.CORSOrigins,
		RequestTimeout:    cfg.Server.RequestTimeout,
		QuoteReplayTTL:    cfg.Pricing.QuoteReplayTTL,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, nil
}
