package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
)

type orsMatrixRequest struct {
	Locations [][]float64 `json:"locations"`
	Metrics   []string    `json:"metrics"`
}

type orsMatrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// GetMatrix retrieves the full N×N distance and duration matrices from the
// OpenRouteService matrix endpoint, using every location as both source and
// destination.
func (o *ORSClient) GetMatrix(
	ctx context.Context,
	locations []domain.Location,
) (_ domain.TravelMatrix, err error) {
	defer obs.Time(ctx, "ors.GetMatrix")(&err)

	n := len(locations)
	if n < 2 {
		return domain.TravelMatrix{Distances: domain.NewMatrix(n), Durations: domain.NewMatrix(n)}, nil
	}

	coords := make([][]float64, 0, n)
	for _, loc := range locations {
		c := loc.Coordinates
		if c == nil {
			resolved, err := o.geocodeOne(ctx, normalize(loc.Address))
			if err != nil {
				return domain.TravelMatrix{}, &domain.MatrixFetchError{
					Err: fmt.Errorf("resolve coordinates for %q: %w", loc.Address, err),
				}
			}
			c = resolved.Coordinates
		}
		coords = append(coords, c.CoordsToList())
	}

	payload, err := json.Marshal(orsMatrixRequest{
		Locations: coords,
		Metrics:   []string{"distance", "duration"},
	})
	if err != nil {
		return domain.TravelMatrix{}, fmt.Errorf("marshal matrix request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.api.baseURL, o.profile)
	resp, err := o.api.doWithRetry(ctx, func() (*http.Request, error) {
		return o.api.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return domain.TravelMatrix{}, &domain.MatrixFetchError{Err: fmt.Errorf("matrix request failed: %w", err)}
	}
	defer resp.Body.Close()

	var mr orsMatrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return domain.TravelMatrix{}, &domain.MatrixFetchError{Err: fmt.Errorf("decode matrix response: %w", err)}
	}

	distances, err := denseMatrix(mr.Distances, n, locations)
	if err != nil {
		return domain.TravelMatrix{}, &domain.MatrixFetchError{Err: fmt.Errorf("distances: %w", err)}
	}
	durations, err := denseMatrix(mr.Durations, n, locations)
	if err != nil {
		return domain.TravelMatrix{}, &domain.MatrixFetchError{Err: fmt.Errorf("durations: %w", err)}
	}

	return domain.TravelMatrix{Distances: distances, Durations: durations}, nil
}

// denseMatrix converts ORS rows (null for unroutable pairs) into a Matrix.
func denseMatrix(rows [][]*float64, n int, locations []domain.Location) (domain.Matrix, error) {
	if len(rows) != n {
		return nil, fmt.Errorf("expected %d rows; got %d", n, len(rows))
	}

	m := domain.NewMatrix(n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("row %d: expected %d values; got %d", i, n, len(row))
		}
		for j, v := range row {
			if i == j {
				continue
			}
			if v == nil {
				return nil, fmt.Errorf("no route from %q to %q", locations[i].Address, locations[j].Address)
			}
			m[i][j] = *v
		}
	}
	return m, nil
}
