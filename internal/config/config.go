package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"water-route-service/internal/domain"
)

type Config struct {
	Port          string
	Environment   string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	LockTTL       time.Duration
	SeedPath      string
	CORSOrigins   []string
	Routing       domain.RoutingParams
}

// LoadDotEnv reads a .env file when present. A missing file is not an error.
func LoadDotEnv() bool {
	return godotenv.Load() == nil
}

// Load reads the process environment into a Config and validates it.
func Load() (Config, error) {
	cfg := Config{
		Port:          Get("PORT", "8080"),
		Environment:   Get("ENVIRONMENT", "development"),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisAddr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		SeedPath:      Get("SEED_PATH", "data/seeds/orders.json"),
		Routing:       domain.DefaultRoutingParams(),
	}

	var err error
	if cfg.LockTTL, err = time.ParseDuration(Get("LOCK_TTL", "30s")); err != nil {
		return Config{}, fmt.Errorf("config: LOCK_TTL: %w", err)
	}
	if cfg.LockTTL <= 0 {
		return Config{}, fmt.Errorf("config: LOCK_TTL must be positive, got %s", cfg.LockTTL)
	}

	if v := strings.TrimSpace(os.Getenv("DEPOT_COORDINATES")); v != "" {
		depot, err := domain.ParseCoordinates(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: DEPOT_COORDINATES: %w", err)
		}
		cfg.Routing.Depot = depot
	}

	if v := strings.TrimSpace(os.Getenv("AVERAGE_SPEED_KMH")); v != "" {
		speed, err := strconv.ParseFloat(v, 64)
		if err != nil || speed <= 0 {
			return Config{}, fmt.Errorf("config: AVERAGE_SPEED_KMH must be a positive number, got %q", v)
		}
		cfg.Routing.AverageSpeedKmh = speed
	}

	if cfg.Routing.ServiceMinutes, err = getMinutes("SERVICE_MINUTES", cfg.Routing.ServiceMinutes); err != nil {
		return Config{}, err
	}
	if cfg.Routing.InterStopGapMinutes, err = getMinutes("INTER_STOP_GAP_MINUTES", cfg.Routing.InterStopGapMinutes); err != nil {
		return Config{}, err
	}

	if err := cfg.Routing.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: routing: %w", err)
	}

	for _, origin := range strings.Split(Get("CORS_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	return cfg, nil
}

func (c Config) Production() bool {
	return strings.EqualFold(c.Environment, "production")
}

func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getMinutes(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("config: %s must be a non-negative integer, got %q", key, v)
	}
	return n, nil
}
