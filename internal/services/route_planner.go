package services

import (
	"context"
	"errors"
	"fmt"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"strconv"
	"strings"
)

// DefaultMaxDeliveries bounds a single planning request.
const DefaultMaxDeliveries = 24

type PlanRequest struct {
	Start         string
	Deliveries    []string
	ReturnToStart bool
}

// RoutePlanner turns a start address and delivery addresses into an itinerary.
// It holds no per-request state and is safe for concurrent use as long as
// its collaborators are.
type RoutePlanner struct {
	geocoder      ports.Geocoder
	matrix        ports.DistanceMatrixProvider
	maxDeliveries int
}

func NewRoutePlanner(
	geocoder ports.Geocoder,
	matrix ports.DistanceMatrixProvider,
	maxDeliveries int,
) (*RoutePlanner, error) {
	if geocoder == nil {
		return nil, errors.New("new route planner: geocoder must be non-nil")
	}
	if matrix == nil {
		return nil, errors.New("new route planner: matrix provider must be non-nil")
	}
	if maxDeliveries <= 0 {
		maxDeliveries = DefaultMaxDeliveries
	}

	return &RoutePlanner{
		geocoder:      geocoder,
		matrix:        matrix,
		maxDeliveries: maxDeliveries,
	}, nil
}

// Plan geocodes all addresses, fetches the travel matrix, orders the
// deliveries with SolveNearestNeighbor and sums totals along the result.
//
// Failures are returned as *domain.ValidationError, *domain.GeocodingError or
// *domain.MatrixFetchError wrapped with context. No partial itinerary is
// returned on error.
func (p *RoutePlanner) Plan(ctx context.Context, req PlanRequest) (_ *domain.Itinerary, err error) {
	defer obs.Time(ctx, "planner.Plan")(&err)

	addresses, err := p.addresses(req)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	locations, err := p.geocodeAll(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	tm, err := p.fetchMatrix(ctx, locations)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	if err := tm.Distances.Validate(); err != nil {
		return nil, fmt.Errorf("plan route: distance matrix: %w", err)
	}
	if err := tm.Durations.Validate(); err != nil {
		return nil, fmt.Errorf("plan route: duration matrix: %w", err)
	}

	// The start stays fixed at index 0; only the deliveries are ordered.
	deliveryOrder := SolveNearestNeighbor(tm.Distances.Submatrix(1))

	order := make(domain.Route, 0, len(locations))
	order = append(order, 0)
	for _, i := range deliveryOrder {
		order = append(order, i+1)
	}

	if !order.Valid(len(locations)) {
		return nil, fmt.Errorf("plan route: solver produced invalid order %v", order)
	}

	return BuildItinerary(locations, tm, order, req.ReturnToStart), nil
}

func (p *RoutePlanner) addresses(req PlanRequest) ([]string, error) {
	start := strings.TrimSpace(req.Start)
	if start == "" {
		return nil, &domain.ValidationError{Field: "start_address", Reason: "must be non-empty"}
	}

	out := make([]string, 0, 1+len(req.Deliveries))
	out = append(out, start)
	for i, d := range req.Deliveries {
		d = strings.TrimSpace(d)
		if d == "" {
			return nil, &domain.ValidationError{
				Field:  "addresses",
				Reason: fmt.Sprintf("address #%d is empty", i+1),
			}
		}
		out = append(out, d)
	}

	if len(out) == 1 {
		return nil, &domain.ValidationError{Field: "addresses", Reason: "at least one delivery address is required"}
	}
	if len(out)-1 > p.maxDeliveries {
		return nil, &domain.ValidationError{
			Field:  "addresses",
			Reason: fmt.Sprintf("at most %d delivery addresses are supported, got %d", p.maxDeliveries, len(out)-1),
		}
	}

	return out, nil
}

// geocodeAll resolves addresses sequentially, preserving input order.
func (p *RoutePlanner) geocodeAll(ctx context.Context, addresses []string) (_ []domain.Location, err error) {
	defer obs.Time(ctx, "planner.geocodeAll")(&err)

	out := make([]domain.Location, 0, len(addresses))
	for _, a := range addresses {
		loc, err := p.geocoder.Geocode(ctx, a)
		if err != nil {
			var ge *domain.GeocodingError
			if errors.As(err, &ge) {
				return nil, err
			}
			return nil, &domain.GeocodingError{Address: a, Err: err}
		}
		if strings.TrimSpace(loc.Address) == "" {
			return nil, &domain.GeocodingError{Address: a, Err: errors.New("empty formatted address")}
		}
		out = append(out, loc)
	}

	return out, nil
}

func (p *RoutePlanner) fetchMatrix(ctx context.Context, locations []domain.Location) (_ domain.TravelMatrix, err error) {
	defer obs.Time(ctx, "planner.fetchMatrix")(&err)

	tm, err := p.matrix.GetMatrix(ctx, locations)
	if err != nil {
		var me *domain.MatrixFetchError
		if errors.As(err, &me) {
			return domain.TravelMatrix{}, err
		}
		return domain.TravelMatrix{}, &domain.MatrixFetchError{Err: err}
	}

	if tm.Size() != len(locations) {
		return domain.TravelMatrix{}, &domain.MatrixFetchError{
			Err: fmt.Errorf(
				"matrix size does not match locations: distances=%d durations=%d locations=%d",
				len(tm.Distances), len(tm.Durations), len(locations),
			),
		}
	}

	return tm, nil
}

// BuildItinerary sums distance and duration along consecutive legs of order
// using the full travel matrix, optionally closing the loop back to order[0].
func BuildItinerary(
	locations []domain.Location,
	tm domain.TravelMatrix,
	order domain.Route,
	returnToStart bool,
) *domain.Itinerary {
	stops := make([]string, 0, len(order))
	for _, idx := range order {
		stops = append(stops, locations[idx].Address)
	}

	var meters, seconds float64
	for i := 0; i+1 < len(order); i++ {
		from, to := order[i], order[i+1]
		meters += tm.Distances[from][to]
		seconds += tm.Durations[from][to]
	}

	// Optionally includes return leg to the start for total route metrics.
	if returnToStart && len(order) > 1 {
		last := order[len(order)-1]
		meters += tm.Distances[last][order[0]]
		seconds += tm.Durations[last][order[0]]
	}

	return &domain.Itinerary{
		Stops:                stops,
		Order:                order,
		ReturnToStart:        returnToStart,
		TotalDistanceMeters:  meters,
		TotalDurationSeconds: seconds,
		TotalDistanceKm:      roundTo(meters/1000, 2),
		TotalTimeMin:         roundTo(seconds/60, 1),
	}
}

// roundTo rounds v to places decimals. Exact ties go to the even digit, so
// 0.125 km becomes 0.12 and 0.25 min becomes 0.2.
func roundTo(v float64, places int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}
