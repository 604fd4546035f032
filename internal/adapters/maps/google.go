package maps

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"strings"
	"time"
)

const (
	googleBaseURL = "https://maps.googleapis.com/maps/api"

	// The Distance Matrix API accepts at most 100 elements per request.
	googleTileSize = 10
)

// GoogleClient implements Geocoder and DistanceMatrixProvider on top of the
// Google Maps Geocoding and Distance Matrix APIs.
//
// The client is safe for concurrent use.
type GoogleClient struct {
	api    apiClient
	apiKey string
}

type GoogleOption func(*GoogleClient)

// WithGoogleBaseURL points the client at another host (tests, proxies).
func WithGoogleBaseURL(u string) GoogleOption {
	return func(g *GoogleClient) { g.api.baseURL = strings.TrimRight(u, "/") }
}

// WithGoogleBackoff overrides the initial retry backoff.
func WithGoogleBackoff(d time.Duration) GoogleOption {
	return func(g *GoogleClient) { g.api.backoff = d }
}

func NewGoogleClient(apiKey string, timeout time.Duration, opts ...GoogleOption) (*GoogleClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("google maps api key is empty")
	}

	g := &GoogleClient{
		api:    newAPIClient(googleBaseURL, timeout, http.Header{}),
		apiKey: apiKey,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

type googleGeocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves address to Google's formatted address.
func (g *GoogleClient) Geocode(ctx context.Context, address string) (_ domain.Location, err error) {
	defer obs.Time(ctx, "google.Geocode")(&err)

	norm := normalize(address)
	if norm == "" {
		return domain.Location{}, &domain.GeocodingError{Address: address, Err: errors.New("address must be non-empty")}
	}

	var decoded googleGeocodeResponse
	err = g.api.getJSON(ctx, g.api.baseURL+"/geocode/json", map[string]string{
		"address": norm,
		"key":     g.apiKey,
	}, &decoded)
	if err != nil {
		return domain.Location{}, &domain.GeocodingError{Address: address, Err: err}
	}

	if decoded.Status != "OK" || len(decoded.Results) == 0 {
		return domain.Location{}, &domain.GeocodingError{
			Address: address,
			Err:     googleStatusError(decoded.Status, decoded.ErrorMessage),
		}
	}

	r := decoded.Results[0]
	return domain.Location{
		Address: r.FormattedAddress,
		Coordinates: &domain.Coordinates{
			Lon: r.Geometry.Location.Lng,
			Lat: r.Geometry.Location.Lat,
		},
	}, nil
}

type googleMatrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value float64 `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value float64 `json:"value"`
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// GetMatrix fetches the full N×N matrix. Large inputs are split into tiles
// that respect the per-request element limit. The diagonal is always zero.
func (g *GoogleClient) GetMatrix(
	ctx context.Context,
	locations []domain.Location,
) (_ domain.TravelMatrix, err error) {
	defer obs.Time(ctx, "google.GetMatrix")(&err)

	n := len(locations)
	tm := domain.TravelMatrix{
		Distances: domain.NewMatrix(n),
		Durations: domain.NewMatrix(n),
	}
	if n < 2 {
		return tm, nil
	}

	addrs := domain.Addresses(locations)
	for oi := 0; oi < n; oi += googleTileSize {
		oEnd := min(oi+googleTileSize, n)
		for di := 0; di < n; di += googleTileSize {
			dEnd := min(di+googleTileSize, n)

			if err := g.fetchTile(ctx, addrs, oi, oEnd, di, dEnd, tm); err != nil {
				return domain.TravelMatrix{}, &domain.MatrixFetchError{Err: err}
			}
		}
	}

	return tm, nil
}

// fetchTile fills tm[oi:oEnd][di:dEnd] from one Distance Matrix request.
func (g *GoogleClient) fetchTile(
	ctx context.Context,
	addrs []string,
	oi, oEnd, di, dEnd int,
	tm domain.TravelMatrix,
) error {
	origins := addrs[oi:oEnd]
	destinations := addrs[di:dEnd]

	var decoded googleMatrixResponse
	err := g.api.getJSON(ctx, g.api.baseURL+"/distancematrix/json", map[string]string{
		"origins":      strings.Join(origins, "|"),
		"destinations": strings.Join(destinations, "|"),
		"key":          g.apiKey,
	}, &decoded)
	if err != nil {
		return fmt.Errorf("distance matrix tile origins[%d:%d] destinations[%d:%d]: %w", oi, oEnd, di, dEnd, err)
	}

	if decoded.Status != "OK" {
		return googleStatusError(decoded.Status, decoded.ErrorMessage)
	}

	if len(decoded.Rows) != len(origins) {
		return fmt.Errorf("expected %d rows; got %d", len(origins), len(decoded.Rows))
	}

	for r, row := range decoded.Rows {
		if len(row.Elements) != len(destinations) {
			return fmt.Errorf("row %d: expected %d elements; got %d", oi+r, len(destinations), len(row.Elements))
		}

		i := oi + r
		for c, el := range row.Elements {
			j := di + c
			if i == j {
				continue
			}
			if el.Status != "OK" {
				return fmt.Errorf("no route from %q to %q: %s", addrs[i], addrs[j], el.Status)
			}
			tm.Distances[i][j] = el.Distance.Value
			tm.Durations[i][j] = el.Duration.Value
		}
	}

	return nil
}

func googleStatusError(status, message string) error {
	if status == "" {
		status = "EMPTY_STATUS"
	}
	if message != "" {
		return fmt.Errorf("google status %s: %s", status, message)
	}
	return fmt.Errorf("google status %s", status)
}
