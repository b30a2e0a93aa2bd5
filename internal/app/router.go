package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"ridematch/internal/handler"
	"ridematch/internal/metrics"
	"ridematch/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	ServiceName       string
	PricingHandler    *handler.PricingHandler
	MatchingHandler   *handler.MatchingHandler
	PredictionHandler *handler.PredictionHandler
	GeocodeHandler    *handler.GeocodeHandler // Optional: geocoding routes are skipped when nil
	RedisClient       *redis.Client           // Optional: quote replay is skipped when nil
	NewRelicApp       *newrelic.Application
	CORSOrigins       []string
	RequestTimeout    time.Duration
	QuoteReplayTTL    time.Duration
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(deps.ServiceName))
	router.Use(middleware.CORS(deps.CORSOrigins))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
		router.Use(middleware.TransactionAttributes())
	}

	router.Use(middleware.RequestTimeout(deps.RequestTimeout))

	// Health and metrics.
	router.GET("/health", deps.PredictionHandler.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	{
		api.POST("/ride/estimate",
			middleware.QuoteReplay(deps.RedisClient, deps.QuoteReplayTTL),
			deps.PricingHandler.Estimate,
		)
		api.POST("/surge/pricing", deps.PricingHandler.Surge)

		api.POST("/match/drivers", deps.MatchingHandler.Match)
		api.POST("/drivers/find", deps.MatchingHandler.FindDrivers)

		api.POST("/predict", deps.PredictionHandler.Predict)
		api.GET("/stats", deps.PredictionHandler.Stats)

		if deps.GeocodeHandler != nil {
			geo := api.Group("/geo")
			geo.GET("/autocomplete", deps.GeocodeHandler.Autocomplete)
			geo.GET("/reverse", deps.GeocodeHandler.Reverse)
		}
	}

	return router
}
