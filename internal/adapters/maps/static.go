package maps

import (
	"context"
	"errors"
	"fmt"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
)

type StaticPair struct {
	From, To string
	Meters   float64
	Seconds  float64
}

// StaticProvider serves geocodes and distances from memory. Addresses
// missing from Places resolve to themselves unless Strict is set.
type StaticProvider struct {
	Places map[string]domain.Location
	Strict bool
	pairs  map[string]ports.DistanceResult
}

func NewStaticProvider(places map[string]domain.Location, pairs []StaticPair) *StaticProvider {
	m := make(map[string]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = ports.DistanceResult{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
	}
	if places == nil {
		places = map[string]domain.Location{}
	}
	return &StaticProvider{Places: places, pairs: m}
}

func (p *StaticProvider) Geocode(ctx context.Context, address string) (domain.Location, error) {
	norm := normalize(address)
	if norm == "" {
		return domain.Location{}, &domain.GeocodingError{Address: address, Err: errors.New("address must be non-empty")}
	}

	if loc, ok := p.Places[norm]; ok {
		return loc, nil
	}
	if p.Strict {
		return domain.Location{}, &domain.GeocodingError{Address: address}
	}
	return domain.Location{Address: norm}, nil
}

func (p *StaticProvider) GetMatrix(ctx context.Context, locations []domain.Location) (domain.TravelMatrix, error) {
	n := len(locations)
	tm := domain.TravelMatrix{Distances: domain.NewMatrix(n), Durations: domain.NewMatrix(n)}

	for i, from := range locations {
		for j, to := range locations {
			if i == j || from.Address == to.Address {
				continue
			}
			r, ok := p.pairs[from.Address+"|"+to.Address]
			if !ok {
				return domain.TravelMatrix{}, &domain.MatrixFetchError{
					Err: fmt.Errorf("missing pair %q -> %q", from.Address, to.Address),
				}
			}
			tm.Distances[i][j] = r.DistanceMeters
			tm.Durations[i][j] = r.DurationSeconds
		}
	}

	return tm, nil
}
