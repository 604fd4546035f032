package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderGoogle = "google"
	ProviderORS    = "ors"

	CacheNone     = "none"
	CacheSqlite   = "sqlite"
	CachePostgres = "postgres"
	CacheRedis    = "redis"
)

// Config is the explicit runtime configuration, built once at startup and
// passed to the components that need it.
type Config struct {
	Port string

	MapsProvider string
	GoogleAPIKey string
	ORSAPIKey    string
	ORSProfile   string
	ORSCountry   string
	HTTPTimeout  time.Duration

	CacheBackend string
	DBPath       string
	DatabaseURL  string
	RedisURL     string
	CacheTTL     time.Duration

	MaxDeliveries  int
	AllowedOrigins []string
	StaticDir      string
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var errs []error

	timeout, err := getDuration("HTTP_TIMEOUT", 10*time.Second)
	errs = append(errs, err)

	ttl, err := getDuration("CACHE_TTL", 30*24*time.Hour)
	errs = append(errs, err)

	maxDeliveries, err := getInt("MAX_DELIVERIES", 24)
	errs = append(errs, err)

	cfg := Config{
		Port:           Get("PORT", "8080"),
		MapsProvider:   strings.ToLower(Get("MAPS_PROVIDER", ProviderGoogle)),
		GoogleAPIKey:   os.Getenv("GOOGLE_MAPS_API_KEY"),
		ORSAPIKey:      os.Getenv("ORS_API_KEY"),
		ORSProfile:     Get("ORS_PROFILE", "driving-car"),
		ORSCountry:     Get("ORS_COUNTRY", ""),
		HTTPTimeout:    timeout,
		CacheBackend:   strings.ToLower(Get("CACHE_BACKEND", CacheNone)),
		DBPath:         Get("DB_PATH", "data/cache.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       Get("REDIS_URL", "redis://localhost:6379/0"),
		CacheTTL:       ttl,
		MaxDeliveries:  maxDeliveries,
		AllowedOrigins: splitList(Get("ALLOWED_ORIGINS", "*")),
		StaticDir:      os.Getenv("STATIC_DIR"),
	}

	errs = append(errs, cfg.Validate())
	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Validate checks cross-field requirements such as the API key of the
// selected provider.
func (c Config) Validate() error {
	var errs []error

	switch c.MapsProvider {
	case ProviderGoogle:
		if strings.TrimSpace(c.GoogleAPIKey) == "" {
			errs = append(errs, errors.New("GOOGLE_MAPS_API_KEY is required when MAPS_PROVIDER=google"))
		}
	case ProviderORS:
		if strings.TrimSpace(c.ORSAPIKey) == "" {
			errs = append(errs, errors.New("ORS_API_KEY is required when MAPS_PROVIDER=ors"))
		}
	default:
		errs = append(errs, fmt.Errorf("MAPS_PROVIDER must be %q or %q, got %q", ProviderGoogle, ProviderORS, c.MapsProvider))
	}

	switch c.CacheBackend {
	case CacheNone, CacheSqlite, CacheRedis:
	case CachePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when CACHE_BACKEND=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("CACHE_BACKEND %q is not supported", c.CacheBackend))
	}

	if c.MaxDeliveries < 1 {
		errs = append(errs, fmt.Errorf("MAX_DELIVERIES must be positive, got %d", c.MaxDeliveries))
	}

	return errors.Join(errs...)
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
