package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"route-optimizer-service/internal/adapters/cache"
	"route-optimizer-service/internal/config"
	"route-optimizer-service/internal/platform/db"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// dbtool creates the geocode and distance cache tables ahead of time,
// for deployments where the server role may not run DDL.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	backend := flag.String("backend", config.Get("CACHE_BACKEND", config.CachePostgres), "cache backend: postgres or sqlite")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var (
		conn    *sql.DB
		dialect cache.Dialect
		err     error
	)

	switch strings.ToLower(*backend) {
	case config.CachePostgres:
		databaseURL := config.Get("DATABASE_URL", "")
		if databaseURL == "" {
			log.Fatal("DATABASE_URL is required")
		}
		conn, err = db.OpenPostgres(ctx, databaseURL)
		dialect = cache.DialectPostgres
	case config.CacheSqlite:
		conn, err = db.OpenSqlite(ctx, config.Get("DB_PATH", "data/cache.db"))
		dialect = cache.DialectSqlite
	default:
		log.Fatalf("backend %q has no schema to initialize", *backend)
	}
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	log.Printf("Initializing cache schema dialect=%s...", dialect)
	if err := cache.InitSchema(ctx, conn, dialect); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")
}
