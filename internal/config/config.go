package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config contains runtime configuration for the API process.
type Config struct {
	AppEnv             string
	HTTPPort           string
	DatabaseURL        string
	JWTSecret          string
	JWTExpiry          time.Duration
	BcryptCost         int
	RequestTimeout     time.Duration
	QueryTimeout       time.Duration
	DBMaxConns         int32
	DBMinConns         int32
	DBHealthCheckEvery time.Duration
	RateLimitPerSecond float64
	RateLimitBurst     int
}

func Load() (Config, error) {
	cfg := Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTExpiry:          getDuration("JWT_EXPIRY", 2*time.Hour),
		BcryptCost:         getInt("BCRYPT_COST", bcrypt.DefaultCost),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 20*time.Second),
		QueryTimeout:       getDuration("QUERY_TIMEOUT", 3*time.Second),
		DBMaxConns:         int32(getInt("DB_MAX_CONNS", 20)),
		DBMinConns:         int32(getInt("DB_MIN_CONNS", 2)),
		DBHealthCheckEvery: getDuration("DB_HEALTHCHECK_PERIOD", 30*time.Second),
		RateLimitPerSecond: getFloat("RATE_LIMIT_PER_SECOND", 20),
		RateLimitBurst:     getInt("RATE_LIMIT_BURST", 40),
	}

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if cfg.JWTExpiry <= 0 {
		return Config{}, errors.New("JWT_EXPIRY must be positive")
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return Config{}, errors.New("BCRYPT_COST out of range")
	}
	if cfg.RequestTimeout <= 0 {
		return Config{}, errors.New("REQUEST_TIMEOUT must be positive")
	}
	if cfg.QueryTimeout <= 0 {
		return Config{}, errors.New("QUERY_TIMEOUT must be positive")
	}
	if cfg.DBMaxConns < 1 {
		return Config{}, errors.New("DB_MAX_CONNS must be >= 1")
	}
	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		return Config{}, errors.New("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS")
	}
	if cfg.RateLimitPerSecond <= 0 || cfg.RateLimitBurst < 1 {
		return Config{}, errors.New("rate limit settings must be positive")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
