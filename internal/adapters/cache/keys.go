package cache

import (
	"database/sql"
	"route-optimizer-service/internal/domain"
	"strings"
)

// uniqueKeys trims, drops empty values and deduplicates while keeping order.
func uniqueKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	uniq := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}

		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	return uniq
}

// placeholders returns "?,?,..." for n SQLite parameters.
func placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = "?"
	}
	return strings.Join(ph, ",")
}

// locationFromRow rebuilds a Location from nullable coordinate columns.
func locationFromRow(formatted string, lon, lat sql.NullFloat64) domain.Location {
	loc := domain.Location{Address: formatted}
	if lon.Valid && lat.Valid {
		loc.Coordinates = &domain.Coordinates{Lon: lon.Float64, Lat: lat.Float64}
	}
	return loc
}

// coordinateArgs returns nullable lon/lat query arguments.
func coordinateArgs(loc domain.Location) (any, any) {
	if loc.Coordinates == nil {
		return nil, nil
	}
	return loc.Coordinates.Lon, loc.Coordinates.Lat
}
