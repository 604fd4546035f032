package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"route-optimizer-service/internal/domain"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestORS(t *testing.T, h http.HandlerFunc) *ORSClient {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	o, err := NewORSClient("ors-key", time.Second,
		WithORSBaseURL(srv.URL),
		WithORSCountry("US"),
		WithORSBackoff(time.Millisecond),
	)
	require.NoError(t, err)
	return o
}

func TestORSGeocode(t *testing.T) {
	o := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode/search", r.URL.Path)
		assert.Equal(t, "ors-key", r.Header.Get("Authorization"))
		assert.Equal(t, "US", r.URL.Query().Get("boundary.country"))
		assert.Equal(t, "1 Main St", r.URL.Query().Get("text"))

		fmt.Fprint(w, `{"features": [{
			"geometry": {"coordinates": [-112.07, 33.45]},
			"properties": {"label": "1 Main St, Phoenix, AZ, USA"}
		}]}`)
	})

	loc, err := o.Geocode(context.Background(), "1 Main   St")
	require.NoError(t, err)
	require.Equal(t, "1 Main St, Phoenix, AZ, USA", loc.Address)
	require.Equal(t, &domain.Coordinates{Lon: -112.07, Lat: 33.45}, loc.Coordinates)
}

func TestORSGeocodeNoFeatures(t *testing.T) {
	o := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"features": []}`)
	})

	_, err := o.Geocode(context.Background(), "nowhere")
	var ge *domain.GeocodingError
	require.True(t, errors.As(err, &ge))
}

func TestORSGetMatrix(t *testing.T) {
	o := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/matrix/driving-car", r.URL.Path)

		var req orsMatrixRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, req.Locations)

		fmt.Fprint(w, `{
			"distances": [[0, 1200.4], [1100, 0]],
			"durations": [[0, 300], [290.5, 0]]
		}`)
	})

	locs := []domain.Location{
		{Address: "A", Coordinates: &domain.Coordinates{Lon: 1, Lat: 2}},
		{Address: "B", Coordinates: &domain.Coordinates{Lon: 3, Lat: 4}},
	}

	tm, err := o.GetMatrix(context.Background(), locs)
	require.NoError(t, err)
	require.Equal(t, domain.Matrix{{0, 1200.4}, {1100, 0}}, tm.Distances)
	require.Equal(t, domain.Matrix{{0, 300}, {290.5, 0}}, tm.Durations)
}

func TestORSGetMatrixResolvesMissingCoordinates(t *testing.T) {
	var geocodes atomic.Int32
	o := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/geocode/search":
			geocodes.Add(1)
			fmt.Fprint(w, `{"features": [{"geometry": {"coordinates": [5, 6]}, "properties": {"label": "B"}}]}`)
		default:
			fmt.Fprint(w, `{"distances": [[0, 1], [1, 0]], "durations": [[0, 1], [1, 0]]}`)
		}
	})

	locs := []domain.Location{
		{Address: "A", Coordinates: &domain.Coordinates{Lon: 1, Lat: 2}},
		{Address: "B"},
	}

	_, err := o.GetMatrix(context.Background(), locs)
	require.NoError(t, err)
	require.Equal(t, int32(1), geocodes.Load())
}

func TestORSGetMatrixUnroutablePair(t *testing.T) {
	o := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"distances": [[0, null], [1, 0]], "durations": [[0, 1], [1, 0]]}`)
	})

	locs := []domain.Location{
		{Address: "A", Coordinates: &domain.Coordinates{}},
		{Address: "B", Coordinates: &domain.Coordinates{}},
	}

	_, err := o.GetMatrix(context.Background(), locs)
	var me *domain.MatrixFetchError
	require.True(t, errors.As(err, &me))
	require.Contains(t, err.Error(), `no route from "A" to "B"`)
}

func TestORSGetMatrixGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	o := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "slow down", http.StatusTooManyRequests)
	})

	locs := []domain.Location{
		{Address: "A", Coordinates: &domain.Coordinates{}},
		{Address: "B", Coordinates: &domain.Coordinates{}},
	}

	_, err := o.GetMatrix(context.Background(), locs)
	require.Error(t, err)
	require.Equal(t, int32(defaultMaxAttempts), calls.Load())

	var he *httpStatusError
	require.True(t, errors.As(err, &he))
	require.Equal(t, http.StatusTooManyRequests, he.Code)
}
