package ports

import (
	"context"
	"route-optimizer-service/internal/domain"
)

// Port: lookup cache mapping raw addresses to resolved locations.
// Keys are expected to be normalized by the caller.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Location, error)
	PutMany(ctx context.Context, results map[string]domain.Location) error
}

// Port: lookup cache for origin->destination travel metrics, keyed by
// resolved address.
type DistanceCache interface {
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]DistanceResult, error)
	PutMany(ctx context.Context, origin string, results map[string]DistanceResult) error
}
