package ports

import (
	"context"
	"route-optimizer-service/internal/domain"
)

// Distance and travel duration between two locations.
type DistanceResult struct {
	DistanceMeters  float64
	DurationSeconds float64
}

// Contract for retrieving pairwise travel distance and duration.
type DistanceMatrixProvider interface {
	// Return N×N distance (meters) and duration (seconds) matrices aligned
	// with the order of locations. Fails if any pair cannot be computed.
	GetMatrix(ctx context.Context, locations []domain.Location) (domain.TravelMatrix, error)
}

// MapsProvider is implemented by adapters that serve both lookups.
type MapsProvider interface {
	Geocoder
	DistanceMatrixProvider
}
