package services

import (
	"context"
	"errors"
	"route-optimizer-service/internal/adapters/maps"
	"route-optimizer-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func threeStopProvider() *maps.StaticProvider {
	return maps.NewStaticProvider(
		map[string]domain.Location{
			"a": {Address: "A"},
			"b": {Address: "B"},
			"c": {Address: "C"},
		},
		[]maps.StaticPair{
			{From: "A", To: "B", Meters: 10, Seconds: 60},
			{From: "A", To: "C", Meters: 20, Seconds: 120},
			{From: "B", To: "A", Meters: 10, Seconds: 60},
			{From: "B", To: "C", Meters: 15, Seconds: 90},
			{From: "C", To: "A", Meters: 25, Seconds: 150},
			{From: "C", To: "B", Meters: 15, Seconds: 90},
		},
	)
}

func newTestPlanner(t *testing.T, p *maps.StaticProvider) *RoutePlanner {
	t.Helper()
	planner, err := NewRoutePlanner(p, p, 0)
	require.NoError(t, err)
	return planner
}

func TestRoutePlannerPlan(t *testing.T) {
	planner := newTestPlanner(t, threeStopProvider())

	it, err := planner.Plan(context.Background(), PlanRequest{Start: "a", Deliveries: []string{"b", "c"}})
	require.NoError(t, err)

	require.Equal(t, []string{"A", "B", "C"}, it.Stops)
	require.Equal(t, 25.0, it.TotalDistanceMeters)
	require.Equal(t, 150.0, it.TotalDurationSeconds)
	require.Equal(t, 0.03, it.TotalDistanceKm)
	require.Equal(t, 2.5, it.TotalTimeMin)
}

func TestRoutePlannerOrderIndexesFullMatrix(t *testing.T) {
	planner := newTestPlanner(t, threeStopProvider())

	// The walk over deliveries begins at the first one listed.
	it, err := planner.Plan(context.Background(), PlanRequest{Start: "a", Deliveries: []string{"c", "b"}})
	require.NoError(t, err)
	require.Equal(t, domain.Route{0, 1, 2}, it.Order)
	require.Equal(t, []string{"A", "C", "B"}, it.Stops)
	require.Equal(t, 35.0, it.TotalDistanceMeters)
	require.Equal(t, 210.0, it.TotalDurationSeconds)
}

func TestRoutePlannerStartIsNeverReordered(t *testing.T) {
	p := maps.NewStaticProvider(nil, []maps.StaticPair{
		// The start is far from everything, yet stays first.
		{From: "S", To: "X", Meters: 100, Seconds: 100},
		{From: "S", To: "Y", Meters: 90, Seconds: 90},
		{From: "X", To: "S", Meters: 100, Seconds: 100},
		{From: "Y", To: "S", Meters: 90, Seconds: 90},
		{From: "X", To: "Y", Meters: 1, Seconds: 1},
		{From: "Y", To: "X", Meters: 2, Seconds: 2},
	})
	planner := newTestPlanner(t, p)

	it, err := planner.Plan(context.Background(), PlanRequest{Start: "S", Deliveries: []string{"X", "Y"}})
	require.NoError(t, err)
	require.Equal(t, "S", it.Stops[0])
	require.Equal(t, []string{"S", "X", "Y"}, it.Stops)
	require.Equal(t, 101.0, it.TotalDistanceMeters)
}

func TestRoutePlannerReturnToStart(t *testing.T) {
	planner := newTestPlanner(t, threeStopProvider())

	it, err := planner.Plan(context.Background(), PlanRequest{Start: "a", Deliveries: []string{"b", "c"}, ReturnToStart: true})
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "C"}, it.Stops)
	require.Equal(t, 50.0, it.TotalDistanceMeters)
	require.Equal(t, 300.0, it.TotalDurationSeconds)
	require.Equal(t, 0.05, it.TotalDistanceKm)
	require.Equal(t, 5.0, it.TotalTimeMin)
}

func TestRoutePlannerSingleDelivery(t *testing.T) {
	planner := newTestPlanner(t, threeStopProvider())

	it, err := planner.Plan(context.Background(), PlanRequest{Start: "b", Deliveries: []string{"c"}})
	require.NoError(t, err)
	require.Equal(t, []string{"B", "C"}, it.Stops)
	require.Equal(t, 1.5, it.TotalTimeMin)
}

func TestRoutePlannerValidation(t *testing.T) {
	planner, err := NewRoutePlanner(threeStopProvider(), threeStopProvider(), 2)
	require.NoError(t, err)

	cases := map[string]PlanRequest{
		"empty start":         {Start: "  ", Deliveries: []string{"b"}},
		"no deliveries":       {Start: "a"},
		"blank delivery":      {Start: "a", Deliveries: []string{"b", " "}},
		"too many deliveries": {Start: "a", Deliveries: []string{"a", "b", "c"}},
	}

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := planner.Plan(context.Background(), req)
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
		})
	}
}

func TestRoutePlannerGeocodingError(t *testing.T) {
	p := threeStopProvider()
	p.Strict = true
	planner := newTestPlanner(t, p)

	_, err := planner.Plan(context.Background(), PlanRequest{Start: "a", Deliveries: []string{"b", "nowhere"}})
	var ge *domain.GeocodingError
	require.True(t, errors.As(err, &ge), "got %v", err)
	require.Equal(t, "nowhere", ge.Address)
}

type failingGeocoder struct{}

func (failingGeocoder) Geocode(ctx context.Context, address string) (domain.Location, error) {
	return domain.Location{}, errors.New("upstream down")
}

func TestRoutePlannerWrapsUntypedGeocoderErrors(t *testing.T) {
	planner, err := NewRoutePlanner(failingGeocoder{}, threeStopProvider(), 0)
	require.NoError(t, err)

	_, err = planner.Plan(context.Background(), PlanRequest{Start: "a", Deliveries: []string{"b"}})
	var ge *domain.GeocodingError
	require.True(t, errors.As(err, &ge))
	require.Equal(t, "a", ge.Address)
	require.ErrorContains(t, err, "upstream down")
}

func TestRoutePlannerMatrixFetchError(t *testing.T) {
	p := maps.NewStaticProvider(nil, []maps.StaticPair{{From: "A", To: "B", Meters: 1, Seconds: 1}})
	planner := newTestPlanner(t, p)

	_, err := planner.Plan(context.Background(), PlanRequest{Start: "A", Deliveries: []string{"B"}})
	var me *domain.MatrixFetchError
	require.True(t, errors.As(err, &me), "got %v", err)
}

type fixedMatrix struct{ tm domain.TravelMatrix }

func (f fixedMatrix) GetMatrix(ctx context.Context, locs []domain.Location) (domain.TravelMatrix, error) {
	return f.tm, nil
}

func TestRoutePlannerRejectsMalformedMatrix(t *testing.T) {
	geocoder := maps.NewStaticProvider(nil, nil)

	negative := fixedMatrix{domain.TravelMatrix{
		Distances: domain.Matrix{{0, -1}, {1, 0}},
		Durations: domain.Matrix{{0, 1}, {1, 0}},
	}}
	planner, err := NewRoutePlanner(geocoder, negative, 0)
	require.NoError(t, err)

	_, err = planner.Plan(context.Background(), PlanRequest{Start: "A", Deliveries: []string{"B"}})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)

	wrongSize := fixedMatrix{domain.TravelMatrix{
		Distances: domain.Matrix{{0}},
		Durations: domain.Matrix{{0}},
	}}
	planner, err = NewRoutePlanner(geocoder, wrongSize, 0)
	require.NoError(t, err)

	_, err = planner.Plan(context.Background(), PlanRequest{Start: "A", Deliveries: []string{"B"}})
	var me *domain.MatrixFetchError
	require.True(t, errors.As(err, &me), "got %v", err)
}

func TestNewRoutePlannerRequiresCollaborators(t *testing.T) {
	_, err := NewRoutePlanner(nil, threeStopProvider(), 0)
	require.Error(t, err)

	_, err = NewRoutePlanner(threeStopProvider(), nil, 0)
	require.Error(t, err)
}

func TestBuildItineraryTotals(t *testing.T) {
	locs := []domain.Location{{Address: "A"}, {Address: "B"}, {Address: "C"}}
	tm := domain.TravelMatrix{
		Distances: domain.Matrix{{0, 10, 20}, {10, 0, 15}, {20, 15, 0}},
		Durations: domain.Matrix{{0, 60, 120}, {60, 0, 90}, {120, 90, 0}},
	}

	it := BuildItinerary(locs, tm, domain.Route{0, 1, 2}, false)
	require.Equal(t, []string{"A", "B", "C"}, it.Stops)
	require.Equal(t, 0.03, it.TotalDistanceKm)
	require.Equal(t, 2.5, it.TotalTimeMin)
}

func TestRoundTo(t *testing.T) {
	require.Equal(t, 0.03, roundTo(0.025, 2))
	require.Equal(t, 1.23, roundTo(1.234, 2))
	require.Equal(t, 2.5, roundTo(2.45, 1))
	require.Equal(t, 0.0, roundTo(0, 1))

	// Exact binary ties round to even.
	require.Equal(t, 0.12, roundTo(0.125, 2))
	require.Equal(t, 0.62, roundTo(0.625, 2))
	require.Equal(t, 0.2, roundTo(0.25, 1))
	require.Equal(t, 1.2, roundTo(1.25, 1))
	require.Equal(t, 0.38, roundTo(0.375, 2))
}

func TestBuildItineraryRoundsTiesToEven(t *testing.T) {
	locs := []domain.Location{{Address: "A"}, {Address: "B"}}

	cases := []struct {
		meters, seconds float64
		km, min         float64
	}{
		{meters: 125, seconds: 15, km: 0.12, min: 0.2},
		{meters: 625, seconds: 75, km: 0.62, min: 1.2},
	}

	for _, tc := range cases {
		tm := domain.TravelMatrix{
			Distances: domain.Matrix{{0, tc.meters}, {tc.meters, 0}},
			Durations: domain.Matrix{{0, tc.seconds}, {tc.seconds, 0}},
		}

		it := BuildItinerary(locs, tm, domain.Route{0, 1}, false)
		require.Equal(t, tc.km, it.TotalDistanceKm, "meters=%v", tc.meters)
		require.Equal(t, tc.min, it.TotalTimeMin, "seconds=%v", tc.seconds)
	}
}
