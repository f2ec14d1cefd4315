package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is loaded once at startup and handed to constructors by value.
type Config struct {
	DBDriver    string
	DatabaseURL string
	DBTimeout   time.Duration

	SecretKey         string
	Algorithm         string
	AccessTokenExpire time.Duration
	ResetTokenExpire  time.Duration
	PasswordResetURL  string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CacheTTL        time.Duration
	RateLimitCount  int
	RateLimitPeriod time.Duration

	Port               string
	CORSAllowedOrigins []string
	LogLevel           string

	// StrictOrderStatus enables the pending -> processing -> shipped -> delivered
	// status machine. Any status string is accepted when false.
	StrictOrderStatus bool
}

// Load reads the .env file (if any) and the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("error loading .env file")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, applying defaults.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		DBDriver:         strings.ToLower(get("DB_DRIVER", DriverPostgres)),
		DatabaseURL:      get("DATABASE_URL", ""),
		SecretKey:        get("SECRET_KEY", get("JWT_SECRET", "")),
		Algorithm:        strings.ToUpper(get("ALGORITHM", "HS256")),
		PasswordResetURL: get("PASSWORD_RESET_URL", "http://localhost:8080/reset-password-page"),
		RedisAddr:        get("REDIS_ADDR", ""),
		RedisPassword:    get("REDIS_PASSWORD", ""),
		Port:             get("PORT", "8080"),
		LogLevel:         get("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.DBTimeout, err = cast.ToDurationE(get("DB_TIMEOUT", "5s")); err != nil {
		return Config{}, fmt.Errorf("invalid DB_TIMEOUT: %w", err)
	}
	minutes, err := cast.ToIntE(get("ACCESS_TOKEN_EXPIRE_MINUTES", "30"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ACCESS_TOKEN_EXPIRE_MINUTES: %w", err)
	}
	cfg.AccessTokenExpire = time.Duration(minutes) * time.Minute
	if minutes, err = cast.ToIntE(get("RESET_TOKEN_EXPIRE_MINUTES", "15")); err != nil {
		return Config{}, fmt.Errorf("invalid RESET_TOKEN_EXPIRE_MINUTES: %w", err)
	}
	cfg.ResetTokenExpire = time.Duration(minutes) * time.Minute
	if cfg.RedisDB, err = cast.ToIntE(get("REDIS_DB", "0")); err != nil {
		return Config{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	if cfg.CacheTTL, err = cast.ToDurationE(get("CACHE_TTL", "5m")); err != nil {
		return Config{}, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	if cfg.RateLimitCount, err = cast.ToIntE(get("RATE_LIMIT_COUNT", "5")); err != nil {
		return Config{}, fmt.Errorf("invalid RATE_LIMIT_COUNT: %w", err)
	}
	if cfg.RateLimitPeriod, err = cast.ToDurationE(get("RATE_LIMIT_PERIOD", "1m")); err != nil {
		return Config{}, fmt.Errorf("invalid RATE_LIMIT_PERIOD: %w", err)
	}
	if cfg.StrictOrderStatus, err = cast.ToBoolE(get("STRICT_ORDER_STATUS", "false")); err != nil {
		return Config{}, fmt.Errorf("invalid STRICT_ORDER_STATUS: %w", err)
	}
	for _, origin := range strings.Split(get("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.DatabaseURL == "" && cfg.DBDriver == DriverPostgres && getenv("DB_HOST") != "" {
		cfg.DatabaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
			getenv("DB_USER"), getenv("DB_PASSWORD"), getenv("DB_HOST"), get("DB_PORT", "5432"), getenv("DB_NAME"))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required settings.
func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	switch c.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported ALGORITHM %q", c.Algorithm)
	}
	if c.AccessTokenExpire <= 0 {
		return errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.DBTimeout <= 0 {
		return errors.New("DB_TIMEOUT must be positive")
	}
	return nil
}
