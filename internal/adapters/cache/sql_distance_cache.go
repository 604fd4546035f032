package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"slices"
	"strings"
)

// SQLDistanceCache is a PostgreSQL-backed cache for origin->destination
// travel metrics.
type SQLDistanceCache struct {
	DB *sql.DB
}

func NewSQLDistanceCache(db *sql.DB) *SQLDistanceCache {
	return &SQLDistanceCache{DB: db}
}

// GetMany returns the cached destinations of origin; misses are absent from
// the result.
func (s *SQLDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "distance.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("distance cache: db is nil")
	}

	if origin == "" {
		return nil, errors.New("get distance cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT destination, distance_meters, duration_seconds
	FROM distance_cache
	WHERE origin = $1 AND destination = ANY($2::text[])`, origin, uniq)
	if err != nil {
		return nil, fmt.Errorf("get distance cache: query distance_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]ports.DistanceResult, len(uniq))
	for rows.Next() {
		var dest string
		var meters, seconds float64
		if err := rows.Scan(&dest, &meters, &seconds); err != nil {
			return nil, fmt.Errorf("get distance cache: scan rows: %w", err)
		}
		out[dest] = ports.DistanceResult{
			DistanceMeters:  meters,
			DurationSeconds: seconds,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get distance cache: row iteration: %w", err)
	}

	return out, nil
}

// PutMany upserts every destination of one origin in a single statement.
// Destinations are written in sorted order so concurrent writers lock rows
// in the same sequence.
func (s *SQLDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) (err error) {
	defer obs.Time(ctx, "distance.cache.PutMany")(&err)

	if s.DB == nil {
		return errors.New("distance cache: db is nil")
	}
	if origin == "" {
		return errors.New("insert distance cache: origin must not be empty")
	}
	if len(results) == 0 {
		return nil
	}

	dests := make([]string, 0, len(results))
	for dest := range results {
		dests = append(dests, dest)
	}
	slices.Sort(dests)
	args := make([]any, 0, 1+3*len(dests))
	args = append(args, origin)

	var values strings.Builder
	for i, dest := range dests {
		if strings.TrimSpace(dest) == "" {
			return errors.New("insert distance cache: empty destination key")
		}
		if i > 0 {
			values.WriteString(", ")
		}
		n := len(args)
		fmt.Fprintf(&values, "($1, $%d, $%d, $%d)", n+1, n+2, n+3)

		r := results[dest]
		args = append(args, dest, r.DistanceMeters, r.DurationSeconds)
	}

	q := `INSERT INTO distance_cache (origin, destination, distance_meters, duration_seconds)
	VALUES ` + values.String() + `
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds`

	if _, err := s.DB.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert distance cache origin=%q: %w", origin, err)
	}
	return nil
}
