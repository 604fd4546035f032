package ports

import (
	"context"
	"route-optimizer-service/internal/domain"
)

// Contract for resolving free-text addresses into canonical locations.
type Geocoder interface {
	// Resolve a single address. Fails if the address cannot be resolved.
	Geocode(ctx context.Context, address string) (domain.Location, error)
}
