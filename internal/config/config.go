package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	NewRelic   NewRelicConfig
	Logging    LoggingConfig
	Pricing    PricingConfig
	Ranking    RankingConfig
	Prediction PredictionConfig
	Traffic    TrafficConfig
	Geocoding  GeocodingConfig

	// UpstreamTimeout bounds every gateway read issued while serving a request.
	UpstreamTimeout time.Duration
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	Environment    string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
	CORSOrigins    []string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// LoggingConfig holds logger configuration.
type LoggingConfig struct {
	Level string
}

// PricingConfig holds the fare schedule and surge curve.
type PricingConfig struct {
	BaseFare       int64
	PerKmRate      int64
	PerMinuteRate  int64
	SurgeThreshold float64
	SurgeSlope     float64
	MaxSurge       float64
	CountRadiusKm  float64
	QuoteReplayTTL time.Duration
}

// RankingConfig holds driver ranking configuration.
type RankingConfig struct {
	DistanceWeight    float64
	RatingWeight      float64
	AcceptanceWeight  float64
	CandidatePoolSize int
	ResultLimit       int
	SearchRadiusKm    float64
	StatsCacheTTL     time.Duration
}

// PredictionConfig selects and guards the ETA/price model.
type PredictionConfig struct {
	ModelPath          string
	RemoteURL          string
	Timeout            time.Duration
	BreakerFailures    uint32
	BreakerOpenTimeout time.Duration
}

// TrafficConfig holds the traffic heuristic configuration.
type TrafficConfig struct {
	TimeZone string
}

// GeocodingConfig holds the geocoding provider configuration.
type GeocodingConfig struct {
	GoogleAPIKey string
	Language     string
	CacheTTL     time.Duration
}

// Load loads configuration from environment variables.
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Environment:    getEnv("ENVIRONMENT", "development"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			RequestTimeout: getDurationEnv("SERVER_REQUEST_TIMEOUT", 5*time.Second),
			CORSOrigins:    getListEnv("CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Enabled:  getBoolEnv("DB_ENABLED", true),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "ride_hailing"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "ridematch"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Pricing: PricingConfig{
			BaseFare:       getInt64Env("FARE_BASE", 15000),
			PerKmRate:      getInt64Env("FARE_PER_KM", 12000),
			PerMinuteRate:  getInt64Env("FARE_PER_MINUTE", 2000),
			SurgeThreshold: getFloatEnv("SURGE_THRESHOLD", 0.8),
			SurgeSlope:     getFloatEnv("SURGE_SLOPE", 0.5),
			MaxSurge:       getFloatEnv("SURGE_MAX", 3.0),
			CountRadiusKm:  getFloatEnv("SURGE_RADIUS_KM", 3.0),
			QuoteReplayTTL: getDurationEnv("QUOTE_REPLAY_TTL", 2*time.Minute),
		},
		Ranking: RankingConfig{
			DistanceWeight:    getFloatEnv("RANK_WEIGHT_DISTANCE", 0.4),
			RatingWeight:      getFloatEnv("RANK_WEIGHT_RATING", 0.3),
			AcceptanceWeight:  getFloatEnv("RANK_WEIGHT_ACCEPTANCE", 0.3),
			CandidatePoolSize: getIntEnv("RANK_CANDIDATE_POOL", 10),
			ResultLimit:       getIntEnv("RANK_RESULT_LIMIT", 5),
			SearchRadiusKm:    getFloatEnv("MATCH_RADIUS_KM", 5.0),
			StatsCacheTTL:     getDurationEnv("DRIVER_STATS_CACHE_TTL", 5*time.Minute),
		},
		Prediction: PredictionConfig{
			ModelPath:          getEnv("MODEL_PATH", ""),
			RemoteURL:          getEnv("MODEL_SERVER_URL", ""),
			Timeout:            getDurationEnv("MODEL_TIMEOUT", 300*time.Millisecond),
			BreakerFailures:    uint32(getIntEnv("MODEL_BREAKER_FAILURES", 5)),
			BreakerOpenTimeout: getDurationEnv("MODEL_BREAKER_OPEN_TIMEOUT", 30*time.Second),
		},
		Traffic: TrafficConfig{
			TimeZone: getEnv("TRAFFIC_TIMEZONE", "Local"),
		},
		Geocoding: GeocodingConfig{
			GoogleAPIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),
			Language:     getEnv("GEOCODING_LANGUAGE", "vi"),
			CacheTTL:     getDurationEnv("GEOCODING_CACHE_TTL", 10*time.Minute),
		},
		UpstreamTimeout: getDurationEnv("UPSTREAM_TIMEOUT", 500*time.Millisecond),
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Server.Port); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be 1-65535, got %q", c.Server.Port))
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, "SERVER_REQUEST_TIMEOUT must be positive")
	}
	if c.Redis.Addr == "" {
		errs = append(errs, "REDIS_ADDR is required")
	}
	if c.Database.Enabled && c.Database.Host == "" {
		errs = append(errs, "DB_HOST is required when DB_ENABLED is true")
	}
	if c.NewRelic.Enabled && c.NewRelic.LicenseKey == "" {
		errs = append(errs, "NEW_RELIC_LICENSE_KEY is required when NEW_RELIC_ENABLED is true")
	}

	p := c.Pricing
	if p.BaseFare < 0 || p.PerKmRate < 0 || p.PerMinuteRate < 0 {
		errs = append(errs, "fare schedule amounts must not be negative")
	}
	if p.SurgeThreshold <= 0 {
		errs = append(errs, "SURGE_THRESHOLD must be positive")
	}
	if p.SurgeSlope <= 0 {
		errs = append(errs, "SURGE_SLOPE must be positive")
	}
	if p.MaxSurge < 1.0 {
		errs = append(errs, fmt.Sprintf("SURGE_MAX must be at least 1.0, got %v", p.MaxSurge))
	}
	if p.CountRadiusKm <= 0 {
		errs = append(errs, "SURGE_RADIUS_KM must be positive")
	}

	r := c.Ranking
	if r.DistanceWeight < 0 || r.RatingWeight < 0 || r.AcceptanceWeight < 0 {
		errs = append(errs, "ranking weights must not be negative")
	}
	if sum := r.DistanceWeight + r.RatingWeight + r.AcceptanceWeight; math.Abs(sum-1.0) > 1e-6 {
		errs = append(errs, fmt.Sprintf("ranking weights must sum to 1.0, got %v", sum))
	}
	if r.CandidatePoolSize <= 0 {
		errs = append(errs, "RANK_CANDIDATE_POOL must be positive")
	}
	if r.ResultLimit <= 0 {
		errs = append(errs, "RANK_RESULT_LIMIT must be positive")
	}
	if r.SearchRadiusKm <= 0 {
		errs = append(errs, "MATCH_RADIUS_KM must be positive")
	}

	if c.Prediction.Timeout <= 0 {
		errs = append(errs, "MODEL_TIMEOUT must be positive")
	}
	if _, err := time.LoadLocation(c.Traffic.TimeZone); err != nil {
		errs = append(errs, fmt.Sprintf("TRAFFIC_TIMEZONE %q is not a known time zone", c.Traffic.TimeZone))
	}
	if c.UpstreamTimeout <= 0 {
		errs = append(errs, "UPSTREAM_TIMEOUT must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
