package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"route-optimizer-service/internal/adapters/cache"
	"route-optimizer-service/internal/adapters/export"
	"route-optimizer-service/internal/adapters/maps"
	"route-optimizer-service/internal/api"
	"route-optimizer-service/internal/config"
	"route-optimizer-service/internal/platform/db"
	"route-optimizer-service/internal/ports"
	"route-optimizer-service/internal/services"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (maps provider, optional cache store, exporters)
// behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	provider, err := newProvider(cfg)
	if err != nil {
		log.Fatal(err)
	}

	store, err := openCacheStore(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	var mapsProvider ports.MapsProvider = provider
	if store.geocodes != nil {
		mapsProvider, err = maps.NewCached(provider, store.geocodes, store.distances)
		if err != nil {
			log.Fatal(err)
		}
	}

	planner, err := services.NewRoutePlanner(mapsProvider, mapsProvider, cfg.MaxDeliveries)
	if err != nil {
		log.Fatal(err)
	}

	router := api.NewRouter(api.Deps{
		Planner:        planner,
		MaxDeliveries:  cfg.MaxDeliveries,
		PDF:            export.NewPDFExporter(),
		Excel:          export.NewExcelExporter(),
		HealthCheck:    store.check,
		AllowedOrigins: cfg.AllowedOrigins,
		StaticDir:      cfg.StaticDir,
	})

	// Timeouts are tuned for cold-cache route planning (external API latency).
	log.Printf("Server listening addr=:%s provider=%s cache=%s", cfg.Port, cfg.MapsProvider, cfg.CacheBackend)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func newProvider(cfg config.Config) (ports.MapsProvider, error) {
	switch cfg.MapsProvider {
	case config.ProviderORS:
		opts := []maps.ORSOption{maps.WithORSProfile(cfg.ORSProfile)}
		if cfg.ORSCountry != "" {
			opts = append(opts, maps.WithORSCountry(cfg.ORSCountry))
		}
		return maps.NewORSClient(cfg.ORSAPIKey, cfg.HTTPTimeout, opts...)
	default:
		return maps.NewGoogleClient(cfg.GoogleAPIKey, cfg.HTTPTimeout)
	}
}

// cacheStore bundles the selected cache backend with its health check.
// A zero cacheStore means caching is disabled.
type cacheStore struct {
	geocodes  ports.GeocodeCache
	distances ports.DistanceCache
	check     func(ctx context.Context) error
	closer    io.Closer
}

func (s cacheStore) Close() {
	if s.closer == nil {
		return
	}
	if err := s.closer.Close(); err != nil {
		log.Printf("close cache store: %v", err)
	}
}

func openCacheStore(ctx context.Context, cfg config.Config) (cacheStore, error) {
	switch cfg.CacheBackend {
	case config.CacheSqlite:
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return cacheStore{}, fmt.Errorf("open cache store: create %q: %w", dir, err)
			}
		}
		conn, err := db.OpenSqlite(ctx, cfg.DBPath)
		if err != nil {
			return cacheStore{}, fmt.Errorf("open cache store: %w", err)
		}
		if err := cache.InitSchema(ctx, conn, cache.DialectSqlite); err != nil {
			conn.Close()
			return cacheStore{}, fmt.Errorf("open cache store: %w", err)
		}
		return cacheStore{
			geocodes:  cache.NewSqliteGeocodeCache(conn),
			distances: cache.NewSqliteDistanceCache(conn),
			check:     conn.PingContext,
			closer:    conn,
		}, nil

	case config.CachePostgres:
		conn, err := db.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return cacheStore{}, fmt.Errorf("open cache store: %w", err)
		}
		if err := cache.InitSchema(ctx, conn, cache.DialectPostgres); err != nil {
			conn.Close()
			return cacheStore{}, fmt.Errorf("open cache store: %w", err)
		}
		return cacheStore{
			geocodes:  cache.NewSQLGeocodeCache(conn),
			distances: cache.NewSQLDistanceCache(conn),
			check:     conn.PingContext,
			closer:    conn,
		}, nil

	case config.CacheRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return cacheStore{}, fmt.Errorf("open cache store: parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return cacheStore{}, fmt.Errorf("open cache store: ping redis: %w", err)
		}
		return cacheStore{
			geocodes:  cache.NewRedisGeocodeCache(client, cfg.CacheTTL),
			distances: cache.NewRedisDistanceCache(client, cfg.CacheTTL),
			check:     func(ctx context.Context) error { return client.Ping(ctx).Err() },
			closer:    client,
		}, nil

	default:
		return cacheStore{}, nil
	}
}
