package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSqlite   Dialect = "sqlite"
)

// InitSchema creates the geocode and distance cache tables if missing.
func InitSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	realType := "REAL"
	switch dialect {
	case DialectPostgres:
		realType = "DOUBLE PRECISION"
	case DialectSqlite:
	default:
		return fmt.Errorf("init schema: unsupported dialect %q", dialect)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createGeocodeCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        formatted_address TEXT NOT NULL,
        lon %[1]s,
        lat %[1]s
    );
	`, realType)

	createDistanceCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS distance_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        distance_meters %[1]s NOT NULL,
        duration_seconds %[1]s NOT NULL,
        PRIMARY KEY (origin, destination)
    );
	`, realType)

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_distance_cache_destination_origin
    ON distance_cache(destination, origin);
	`

	statements := []string{
		createGeocodeCacheQuery,
		createDistanceCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
