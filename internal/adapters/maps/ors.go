package maps

import (
	"context"
	"errors"
	"net/http"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"strings"
	"time"
)

const (
	orsBaseURL        = "https://api.openrouteservice.org"
	orsDefaultProfile = "driving-car"
)

// ORSClient implements Geocoder and DistanceMatrixProvider using
// OpenRouteService. Matrices are computed on coordinates, so locations
// without coordinates are geocoded again before the matrix call.
//
// The client is safe for concurrent use.
type ORSClient struct {
	api     apiClient
	profile string
	country string
}

type ORSOption func(*ORSClient)

func WithORSBaseURL(u string) ORSOption {
	return func(o *ORSClient) { o.api.baseURL = strings.TrimRight(u, "/") }
}

func WithORSProfile(profile string) ORSOption {
	return func(o *ORSClient) {
		if profile != "" {
			o.profile = profile
		}
	}
}

// WithORSCountry restricts geocoding to an ISO country code (e.g. "US").
func WithORSCountry(code string) ORSOption {
	return func(o *ORSClient) { o.country = code }
}

func WithORSBackoff(d time.Duration) ORSOption {
	return func(o *ORSClient) { o.api.backoff = d }
}

func NewORSClient(apiKey string, timeout time.Duration, opts ...ORSOption) (*ORSClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	header := http.Header{}
	header.Set("Authorization", apiKey)

	o := &ORSClient{
		api:     newAPIClient(orsBaseURL, timeout, header),
		profile: orsDefaultProfile,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Geocode resolves address to the label of the best ORS match.
func (o *ORSClient) Geocode(ctx context.Context, address string) (_ domain.Location, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	norm := normalize(address)
	if norm == "" {
		return domain.Location{}, &domain.GeocodingError{Address: address, Err: errors.New("address must be non-empty")}
	}

	loc, err := o.geocodeOne(ctx, norm)
	if err != nil {
		return domain.Location{}, &domain.GeocodingError{Address: address, Err: err}
	}
	return loc, nil
}
