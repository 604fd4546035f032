package maps

import (
	"context"
	"fmt"
	"route-optimizer-service/internal/domain"
)

type orsGeocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label string `json:"label"`
		} `json:"properties"`
	} `json:"features"`
}

// geocodeOne resolves a normalized address with /geocode/search.
func (o *ORSClient) geocodeOne(ctx context.Context, norm string) (domain.Location, error) {
	query := map[string]string{
		"text": norm,
		"size": "1",
	}
	if o.country != "" {
		query["boundary.country"] = o.country
	}

	var decoded orsGeocodeResponse
	if err := o.api.getJSON(ctx, o.api.baseURL+"/geocode/search", query, &decoded); err != nil {
		return domain.Location{}, err
	}

	if len(decoded.Features) == 0 {
		return domain.Location{}, fmt.Errorf("no geocode results for %q", norm)
	}

	f := decoded.Features[0]
	if len(f.Geometry.Coordinates) != 2 {
		return domain.Location{}, fmt.Errorf("invalid coordinate format for %q", norm)
	}

	label := f.Properties.Label
	if label == "" {
		label = norm
	}

	return domain.Location{
		Address: label,
		Coordinates: &domain.Coordinates{
			Lon: f.Geometry.Coordinates[0],
			Lat: f.Geometry.Coordinates[1],
		},
	}, nil
}
