package maps

import (
	"context"
	"errors"
	"fmt"
	"log"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
)

// Cached wraps a MapsProvider with geocode and distance caches.
//
// Cache read failures fail the call; cache write failures are logged and
// ignored so a degraded cache never blocks planning. Either cache may be nil.
type Cached struct {
	inner     ports.MapsProvider
	geocodes  ports.GeocodeCache
	distances ports.DistanceCache
}

func NewCached(inner ports.MapsProvider, geocodes ports.GeocodeCache, distances ports.DistanceCache) (*Cached, error) {
	if inner == nil {
		return nil, errors.New("cached provider: inner provider must be non-nil")
	}
	return &Cached{inner: inner, geocodes: geocodes, distances: distances}, nil
}

func (c *Cached) Geocode(ctx context.Context, address string) (_ domain.Location, err error) {
	if c.geocodes == nil {
		return c.inner.Geocode(ctx, address)
	}
	defer obs.Time(ctx, "cached.Geocode")(&err)

	key := normalize(address)
	if key != "" {
		hits, err := c.geocodes.GetMany(ctx, []string{key})
		if err != nil {
			return domain.Location{}, fmt.Errorf("get geocode cache: %w", err)
		}
		if loc, ok := hits[key]; ok {
			return loc, nil
		}
	}

	loc, err := c.inner.Geocode(ctx, address)
	if err != nil {
		return domain.Location{}, err
	}

	if key != "" {
		if err := c.geocodes.PutMany(ctx, map[string]domain.Location{key: loc}); err != nil {
			log.Printf("req_id=%s geocode cache write failed: %v", obs.RequestID(ctx), err)
		}
	}

	return loc, nil
}

// GetMatrix assembles the matrix from cached pairs when every pair of
// distinct addresses is present; otherwise it fetches the whole matrix from the inner
// provider and stores every pair.
func (c *Cached) GetMatrix(ctx context.Context, locations []domain.Location) (_ domain.TravelMatrix, err error) {
	if c.distances == nil {
		return c.inner.GetMatrix(ctx, locations)
	}
	defer obs.Time(ctx, "cached.GetMatrix")(&err)

	addrs := domain.Addresses(locations)
	n := len(addrs)

	tm := domain.TravelMatrix{Distances: domain.NewMatrix(n), Durations: domain.NewMatrix(n)}
	complete := true
	for i, origin := range addrs {
		hits, err := c.distances.GetMany(ctx, origin, addrs)
		if err != nil {
			return domain.TravelMatrix{}, fmt.Errorf("get distance cache: %w", err)
		}

		for j, dest := range addrs {
			// Same-address pairs are never stored and stay zero.
			if i == j || dest == origin {
				continue
			}
			r, ok := hits[dest]
			if !ok {
				complete = false
				break
			}
			tm.Distances[i][j] = r.DistanceMeters
			tm.Durations[i][j] = r.DurationSeconds
		}
		if !complete {
			break
		}
	}
	if complete {
		return tm, nil
	}

	fetched, err := c.inner.GetMatrix(ctx, locations)
	if err != nil {
		return domain.TravelMatrix{}, err
	}
	if fetched.Size() != n {
		return fetched, nil
	}

	for i, origin := range addrs {
		row := make(map[string]ports.DistanceResult, n-1)
		for j, dest := range addrs {
			if i == j || dest == origin {
				continue
			}
			row[dest] = ports.DistanceResult{
				DistanceMeters:  fetched.Distances[i][j],
				DurationSeconds: fetched.Durations[i][j],
			}
		}
		if err := c.distances.PutMany(ctx, origin, row); err != nil {
			log.Printf("req_id=%s distance cache write failed: %v", obs.RequestID(ctx), err)
			break
		}
	}

	return fetched, nil
}
